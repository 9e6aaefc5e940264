package supabase

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single catalog request
const DefaultTimeout = 10 * time.Second

// Config holds the connection settings of a Supabase project
type Config struct {
	// URL is the project URL, e.g. https://xyz.supabase.co
	URL string
	// AnonKey is the public anonymous API key
	AnonKey string
	// Table is the relation holding the catalog rows
	Table string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// Errors for Supabase configuration and requests
var (
	ErrEndpointNotConfigured = errors.New("supabase: project URL is not configured")
	ErrInvalidEndpoint       = errors.New("supabase: project URL must be an absolute http(s) URL")
	ErrMissingTable          = errors.New("supabase: table is required")
	ErrRequestFailed         = errors.New("supabase: request failed")
	ErrInvalidResponse       = errors.New("supabase: invalid response")
)

// Validate checks the configuration. An empty URL is accepted here and
// reported as ErrEndpointNotConfigured when a request is attempted.
func (c *Config) Validate() error {
	if c.Table == "" {
		return ErrMissingTable
	}
	if c.URL == "" {
		return nil
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}
	return nil
}

// RESTURL returns the PostgREST endpoint for the configured table
func (c *Config) RESTURL() string {
	return strings.TrimRight(c.URL, "/") + "/rest/v1/" + url.PathEscape(c.Table)
}
