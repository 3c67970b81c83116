package client

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/guarzo/freestuff/api"
	"github.com/guarzo/freestuff/internal/ratelimit"
)

const (
	headerAccept         = "Accept"
	headerAcceptEncoding = "Accept-Encoding"
	headerAuthorization  = "Authorization"
	headerUserAgent      = "User-Agent"

	contentTypeJSON = "application/json"

	maxBodyBytes      = 16 << 20
	maxErrorBodyBytes = 8 << 10
	maxRedirects      = 10
)

// transport performs authenticated GETs against a single origin.
type transport struct {
	origin    string
	key       string
	userAgent string
	http      *http.Client
	limiter   *ratelimit.Limiter
	logger    zerolog.Logger
}

func (t *transport) get(ctx context.Context, path string) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: "wait for rate limiter", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.origin+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	t.setHeaders(req)

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	t.logger.Debug().
		Str("method", http.MethodGet).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("freestuff request")

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: errorSnippet(resp)}
	}

	reader, err := getReader(resp)
	if err != nil {
		return nil, &api.DecodeError{Cause: errors.Wrap(err, "failed to create reader")}
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	if len(body) > maxBodyBytes {
		return nil, &api.DecodeError{Cause: errors.Errorf("response body exceeds %d bytes", maxBodyBytes)}
	}
	return body, nil
}

func (t *transport) setHeaders(req *http.Request) {
	// The API expects the raw key after "Basic", not a base64 user:pass pair.
	req.Header.Set(headerAuthorization, "Basic "+t.key)
	req.Header.Set(headerAccept, contentTypeJSON)
	req.Header.Set(headerAcceptEncoding, "br, gzip")
	if t.userAgent != "" {
		req.Header.Set(headerUserAgent, t.userAgent)
	}
}

// getReader wraps the body according to Content-Encoding. Setting
// Accept-Encoding by hand turns off net/http's transparent gzip, so both
// encodings are handled here.
func getReader(resp *http.Response) (io.Reader, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		reader = gzipReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	return reader, nil
}

func errorSnippet(resp *http.Response) string {
	reader, err := getReader(resp)
	if err != nil {
		return ""
	}
	snippet, _ := io.ReadAll(io.LimitReader(reader, maxErrorBodyBytes))
	return strings.TrimSpace(string(snippet))
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if req.URL.Scheme != "https" {
		return ErrHTTPSRequired
	}
	if len(via) >= maxRedirects {
		return errors.Errorf("stopped after %d redirects", maxRedirects)
	}
	return nil
}
