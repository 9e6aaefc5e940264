package supabase

import "fmt"

// APIError is the error body returned by PostgREST
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) String() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s - %s", e.Code, e.Message)
}
