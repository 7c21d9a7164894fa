package handlers

import (
	"net/http"
	"strconv"
	"strings"
)

// Helper functions for parsing request query parameters.

// queryString returns a trimmed query parameter value.
func queryString(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// queryInt parses an integer query parameter, returning def when absent or invalid.
func queryInt(r *http.Request, name string, def int) int {
	raw := queryString(r, name)
	if raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
