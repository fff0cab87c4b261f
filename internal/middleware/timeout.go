// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Timeout cancels the request context after timeout and answers 503 if the
// handler has not written anything yet. Writes after the timeout fail with
// http.ErrHandlerTimeout. Paths under skipPrefixes (uploads, exports) run
// without a deadline.
func Timeout(timeout time.Duration, skipPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			panicCh := make(chan any, 1)
			tw := &timeoutWriter{ResponseWriter: w, header: make(http.Header)}

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicCh <- p
					}
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case p := <-panicCh:
				panic(p)
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				if errors.Is(ctx.Err(), context.DeadlineExceeded) && !tw.wroteHeader {
					tw.timeout(w)
					return
				}
				tw.flushHeader()
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timeout(w)
			}
		})
	}
}

// timeoutWriter buffers headers until the first write so that a timed-out
// request can still get its own status line.
type timeoutWriter struct {
	http.ResponseWriter
	header      http.Header
	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
	code        int
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.code = code
	tw.flushHeader()
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	tw.flushHeader()
	return tw.ResponseWriter.Write(b)
}

// timeout marks the writer dead and answers 503 unless the handler already
// started the response. The caller holds tw.mu.
func (tw *timeoutWriter) timeout(w http.ResponseWriter) {
	tw.timedOut = true
	if !tw.wroteHeader {
		tw.wroteHeader = true
		WriteAPIError(w, http.StatusServiceUnavailable, "timeout", "Request timeout")
	}
}

// flushHeader copies buffered headers and writes the status once.
// The caller holds tw.mu.
func (tw *timeoutWriter) flushHeader() {
	if tw.wroteHeader {
		return
	}
	tw.wroteHeader = true
	dst := tw.ResponseWriter.Header()
	for k, v := range tw.header {
		dst[k] = v
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}
	tw.ResponseWriter.WriteHeader(tw.code)
}
