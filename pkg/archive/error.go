package archive

// NotFoundError is returned when a record doesn't exist in the archive.
type NotFoundError struct {
	Key string
}

func (e NotFoundError) Error() string {
	if e.Key == "" {
		return "record not found"
	}

	return "record not found: " + e.Key
}
