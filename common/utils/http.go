package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

// HTTPStatusError is returned for a non-2xx upstream response
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// CheckStatus returns an HTTPStatusError unless the response is 2xx
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &HTTPStatusError{StatusCode: resp.StatusCode, URL: resp.Request.URL.String()}
}

// SplitQuery splits a comma separated query into trimmed, non-empty, unique terms in input order
func SplitQuery(query string) []string {
	terms := lo.Map(strings.Split(query, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(terms))
}

// ParseHTTPURL parses raw and requires an absolute http or https URL
func ParseHTTPURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q: expected an absolute http(s) url", raw)
	}
	return u, nil
}

// ResolveURL resolves href against base. An empty or unparsable href yields base.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	if href == "" {
		return b.String()
	}
	ref, err := url.Parse(href)
	if err != nil {
		return b.String()
	}
	return b.ResolveReference(ref).String()
}
