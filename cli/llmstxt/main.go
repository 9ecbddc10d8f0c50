package main

import (
	"os"

	llmstxtcmder "github.com/papercomputeco/llmstxt/cmd/llmstxt"
)

func main() {
	cmd := llmstxtcmder.NewLlmstxtCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
