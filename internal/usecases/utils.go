package usecases

import "github.com/volatiletech/null/v8"

// nullString wraps a gateway identifier, treating "" as absent
func nullString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
