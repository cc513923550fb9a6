package httpcache

import (
	"bytes"
	"net/http"
)

// responseRecorder buffers the downstream handler's response so the
// engine can decide whether to cache it before anything reaches the
// client.
type responseRecorder struct {
	header      http.Header
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header), status: http.StatusOK}
}

// Header implements http.ResponseWriter.
func (r *responseRecorder) Header() http.Header {
	return r.header
}

// WriteHeader implements http.ResponseWriter.
func (r *responseRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
}

// Write implements http.ResponseWriter.
func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(b)
}

// flush replays the recorded response onto the live writer. Headers the
// engine already placed on the live writer win over recorded ones.
func (r *responseRecorder) flush(w http.ResponseWriter) {
	for key, values := range r.header {
		if w.Header().Get(key) == "" {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
	}
	w.WriteHeader(r.status)
	if r.body.Len() > 0 {
		_, _ = w.Write(r.body.Bytes())
	}
}
