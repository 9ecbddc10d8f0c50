// Package archive keeps finished llms.txt generations so they can be listed
// and shown again without asking the service to regenerate them.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Generation modes recorded on a Record.
const (
	ModeOneShot = "oneshot"
	ModeStream  = "stream"
)

// Record is one finished generation.
type Record struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	LlmsTxt    string    `json:"llms_txt"`
	Mode       string    `json:"mode"`
	PagesTotal int       `json:"pages_total"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewRecord builds a Record with a fresh id and the current time.
func NewRecord(url, llmsTxt, mode string, pagesTotal int) *Record {
	return &Record{
		ID:         uuid.NewString(),
		URL:        url,
		LlmsTxt:    llmsTxt,
		Mode:       mode,
		PagesTotal: pagesTotal,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks the fields every driver requires.
func (r *Record) Validate() error {
	if r == nil {
		return errors.New("cannot store nil record")
	}
	if r.ID == "" {
		return errors.New("record id is required")
	}
	if r.URL == "" {
		return errors.New("record url is required")
	}
	return nil
}

// Driver defines the interface for persisting and retrieving generations.
type Driver interface {
	// Put stores a record. Storing a record whose ID already exists replaces it.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by its id.
	Get(ctx context.Context, id string) (*Record, error)

	// Latest returns the newest record for a source URL.
	Latest(ctx context.Context, url string) (*Record, error)

	// List returns up to limit records, newest first. A limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close closes the store and releases any resources.
	Close() error
}
