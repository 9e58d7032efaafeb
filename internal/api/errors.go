package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed call by what the user was doing.
type Kind int

const (
	// KindLoad is a failed read.
	KindLoad Kind = iota + 1
	// KindSave is a failed create or update.
	KindSave
	// KindAuth is a failed sign-in.
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindSave:
		return "save"
	case KindAuth:
		return "auth"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Fallback is the message shown when the backend supplies none.
func (k Kind) Fallback() string {
	switch k {
	case KindSave:
		return "Failed to save changes. Please try again."
	case KindAuth:
		return "Sign-in failed. Check your username and password."
	default:
		return "Failed to load data. Please try again."
	}
}

// Error is a failed backend call. Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Message returns the user-facing message for err, falling back to the
// generic text for kind.
func Message(err error, kind Kind) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return kind.Fallback()
}

// backendMessage extracts the message from an error response body. The
// backend uses `detail`, `message` or `error` depending on the route.
func backendMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "message", "error"} {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
