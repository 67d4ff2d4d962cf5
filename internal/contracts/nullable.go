package contracts

import "time"

// Pointer constructors for nullable fields. Raw loaders and tests build
// records with these; a nil field is a null cell.

func F64(v float64) *float64 { return &v }

func I64(v int64) *int64 { return &v }

func Str(s string) *string { return &s }

func Bool(b bool) *bool { return &b }

func Time(t time.Time) *time.Time { return &t }

// F64OrZero treats a missing numeric input as contributing nothing.
// This is the margin calculator's null policy, not a general default.
func F64OrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// BoolIsTrue reports whether p is present and true.
func BoolIsTrue(p *bool) bool {
	return p != nil && *p
}
