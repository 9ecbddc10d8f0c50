package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
)

// Frame renders one wire frame the way the generation service writes it.
func Frame(eventType, data string) string {
	return fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, data)
}

// NewStreamServer starts a fake streaming endpoint that writes each chunk
// and flushes it before writing the next, so the client observes the exact
// chunk boundaries given here.
func NewStreamServer(chunks ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeStreamHeaders(w)
		flusher, _ := w.(http.Flusher)
		for _, chunk := range chunks {
			_, _ = io.WriteString(w, chunk)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
}

// NewStatusServer starts a fake endpoint that answers every request with
// the given status and raw body.
func NewStatusServer(status int, contentType, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
}

// NewGenerateServer starts a fake one-shot endpoint. respond maps the
// requested site URL to the status code and JSON body to answer with.
func NewGenerateServer(respond func(siteURL string) (int, string)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		status, body := respond(req.URL)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
}

// GatedStream is a fake streaming endpoint that only writes a chunk when the
// test releases it, so tests can act between chunks.
type GatedStream struct {
	Server *httptest.Server

	chunks   []string
	release  chan struct{}
	finished chan struct{}
	once     sync.Once
	requests atomic.Int32
	written  atomic.Int32

	mu          sync.Mutex
	lastHeaders http.Header
	lastBody    string
}

// NewGatedStream starts a GatedStream serving chunks.
func NewGatedStream(chunks ...string) *GatedStream {
	g := &GatedStream{
		chunks:   chunks,
		release:  make(chan struct{}),
		finished: make(chan struct{}),
	}

	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	return g
}

func (g *GatedStream) serve(w http.ResponseWriter, r *http.Request) {
	defer g.once.Do(func() { close(g.finished) })
	g.requests.Add(1)

	body, _ := io.ReadAll(r.Body)
	g.mu.Lock()
	g.lastHeaders = r.Header.Clone()
	g.lastBody = string(body)
	g.mu.Unlock()

	writeStreamHeaders(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for _, chunk := range g.chunks {
		select {
		case <-g.release:
		case <-r.Context().Done():
			return
		}

		if _, err := io.WriteString(w, chunk); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		g.written.Add(1)
	}

	// Hold the connection open until the client goes away or the test
	// releases it once more.
	select {
	case <-g.release:
	case <-r.Context().Done():
	}
}

// Release lets the handler write its next chunk. It blocks until the
// handler takes it or has returned.
func (g *GatedStream) Release() {
	select {
	case g.release <- struct{}{}:
	case <-g.finished:
	}
}

// Finished is closed once the handler for the first request has returned,
// which happens when the client closes the connection.
func (g *GatedStream) Finished() <-chan struct{} {
	return g.finished
}

// Requests returns how many requests were received.
func (g *GatedStream) Requests() int {
	return int(g.requests.Load())
}

// Written returns how many chunks have been written.
func (g *GatedStream) Written() int {
	return int(g.written.Load())
}

// LastRequest returns the headers and body of the most recent request.
func (g *GatedStream) LastRequest() (http.Header, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastHeaders, g.lastBody
}

// Close shuts the server down.
func (g *GatedStream) Close() {
	g.Server.CloseClientConnections()
	g.Server.Close()
}

func writeStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
}
