package middleware

import "net/http"

// ResponseRecorder wraps ResponseWriter and captures the status code and size.
// An optional hook runs once just before the header is written.
type ResponseRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wrote       bool
	beforeWrite func(http.ResponseWriter)
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w, status: http.StatusOK}
}

// SetBeforeWrite registers fn to run before the first header write.
func (rw *ResponseRecorder) SetBeforeWrite(fn func(http.ResponseWriter)) {
	rw.beforeWrite = fn
}

func (rw *ResponseRecorder) WriteHeader(statusCode int) {
	if rw.wrote {
		return
	}
	rw.fireBeforeWrite()
	rw.status = statusCode
	rw.wrote = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseRecorder) Write(b []byte) (int, error) {
	if !rw.wrote {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// Flush forwards to the underlying writer when it supports flushing.
func (rw *ResponseRecorder) Flush() {
	if !rw.wrote {
		rw.WriteHeader(http.StatusOK)
	}
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (rw *ResponseRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

func (rw *ResponseRecorder) Status() int { return rw.status }

// Written reports whether a header has been sent.
func (rw *ResponseRecorder) Written() bool { return rw.wrote }

// BytesWritten is the body size sent so far.
func (rw *ResponseRecorder) BytesWritten() int64 { return rw.bytes }

func (rw *ResponseRecorder) fireBeforeWrite() {
	if fn := rw.beforeWrite; fn != nil {
		rw.beforeWrite = nil
		fn(rw.ResponseWriter)
	}
}
