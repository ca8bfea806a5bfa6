package versioning

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Strategy names the channel a version token travels in.
type Strategy string

const (
	StrategyHeader Strategy = "header"
	StrategyQuery  Strategy = "query"
	StrategyURL    Strategy = "url"
)

// ParseStrategy maps a configuration value onto a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyHeader, StrategyQuery, StrategyURL:
		return st, nil
	default:
		return "", fmt.Errorf("unknown versioning strategy %q", s)
	}
}

// Reader extracts raw version tokens from a request.
// An empty result means the client did not specify a version.
type Reader interface {
	Read(r *http.Request) []string
}

// HeaderReader reads the version from a request header, e.g. "x-api-version: 2".
type HeaderReader struct {
	Name string
}

func (h HeaderReader) Read(r *http.Request) []string {
	var out []string
	for _, v := range r.Header.Values(h.Name) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// QueryReader reads the version from a query parameter, e.g. "?api-version=2".
type QueryReader struct {
	Param string
}

func (q QueryReader) Read(r *http.Request) []string {
	if r.URL == nil {
		return nil
	}

	var out []string
	for _, v := range r.URL.Query()[q.Param] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// URLSegmentReader reads the version from a chi route parameter,
// e.g. the {version} in "/v{version}/orders".
type URLSegmentReader struct {
	Param string
}

func (u URLSegmentReader) Read(r *http.Request) []string {
	v := strings.TrimSpace(chi.URLParam(r, u.Param))
	if v == "" {
		return nil
	}
	return []string{v}
}
