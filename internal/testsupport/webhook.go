package testsupport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ReceivedRequest is one delivery captured by a Receiver.
type ReceivedRequest struct {
	Header http.Header
	Body   []byte
}

// Receiver is an httptest server that records webhook deliveries and replies
// with a fixed status and body.
type Receiver struct {
	*httptest.Server

	mu       sync.Mutex
	requests []ReceivedRequest
}

// NewReceiver starts a Receiver that answers every POST with status and
// body. It is closed when the test ends.
func NewReceiver(t testing.TB, status int, body string) *Receiver {
	t.Helper()
	r := &Receiver{}
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.requests = append(r.requests, ReceivedRequest{Header: req.Header.Clone(), Body: data})
		r.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(r.Close)
	return r
}

// Requests returns a copy of the deliveries received so far.
func (r *Receiver) Requests() []ReceivedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ReceivedRequest, len(r.requests))
	copy(out, r.requests)
	return out
}
