package metadata

import (
	"fmt"
	"net/http"
	"strings"
)

// HTTPError summarizes a non-2xx response from the metadata API. The
// body is kept only as a short one line snippet.
type HTTPError struct {
	Op         string
	URL        string
	StatusCode int
	Status     string
	Snippet    string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("metadata api: op=%s status=%s url=%s", e.Op, e.Status, e.URL)
	if e.Snippet != "" {
		msg += " body=" + e.Snippet
	}
	return msg
}

func newHTTPError(op, url string, resp *http.Response, body []byte) error {
	return &HTTPError{
		Op:         op,
		URL:        url,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Snippet:    snippet(body),
	}
}

func snippet(body []byte) string {
	const max = 256
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := strings.ReplaceAll(string(b), "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if len(body) > max {
		s += "..."
	}
	return s
}
