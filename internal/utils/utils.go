package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/riteshkumar/loan-ledger/internal/models"
)

const DateLayout = "2006-01-02"

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteResponse wraps data in the {data, statusMessage} envelope.
func WriteResponse(w http.ResponseWriter, status int, data interface{}, message string) {
	WriteJSON(w, status, models.Response{
		Data:          data,
		StatusMessage: message,
	})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteResponse(w, status, nil, message)
}

// ParseDate parses a YYYY-MM-DD value. Empty input yields the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, value)
}

// EndOfDay returns the last instant of t's day, or the zero time unchanged.
func EndOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
