package models

import (
	"github.com/google/uuid"
)

// DateLayout is the wire format for date-only fields (installation dates,
// document issue dates). Timestamps use RFC 3339.
const DateLayout = "2006-01-02"

// Serialization helpers for audit field maps. Dates render as ISO-8601;
// nil pointers render as the empty string.

func fmtDate(d JSONDate) string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

func fmtDatePtr(d *JSONDate) string {
	if d == nil {
		return ""
	}
	return fmtDate(*d)
}

func fmtStrPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fmtUUIDPtr(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
