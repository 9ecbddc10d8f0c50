package testutils

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/papercomputeco/llmstxt/pkg/client"
)

// Recorder collects stream handler invocations in call order.
type Recorder struct {
	mu    sync.Mutex
	calls []string

	Discovered [][]string
	Results    []json.RawMessage
	Errors     []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Handlers returns client.Handlers that record into r.
func (r *Recorder) Handlers() client.Handlers {
	return client.Handlers{
		OnDiscovered: func(urls []string, total int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Discovered = append(r.Discovered, urls)
			r.calls = append(r.calls, fmt.Sprintf("discovered:%s:%d", strings.Join(urls, ","), total))
		},
		OnProgress: func(currentURL string, done, total int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.calls = append(r.calls, fmt.Sprintf("progress:%s:%d/%d", currentURL, done, total))
		},
		OnDone: func(result json.RawMessage) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Results = append(r.Results, result)
			r.calls = append(r.calls, "done:"+string(result))
		},
		OnError: func(message string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Errors = append(r.Errors, message)
			r.calls = append(r.calls, "error:"+message)
		},
	}
}

// Calls returns a copy of the recorded invocations, e.g.
// "discovered:a,b:2", "progress:a:1/2", "done:42", "error:boom".
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// ErrorCount returns how many times OnError fired.
func (r *Recorder) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Errors)
}
