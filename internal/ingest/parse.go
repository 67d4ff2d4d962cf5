package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// Timestamp layouts accepted in the raw extracts, most common first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Empty-ish cells that count as null in every column.
func isNullCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "na", "nan", "none":
		return true
	}
	return false
}

func parseF64(s string) *float64 {
	if isNullCell(s) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseI64(s string) *int64 {
	if isNullCell(s) {
		return nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		// Labels sometimes arrive as "1.0".
		if f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64); ferr == nil {
			i := int64(f)
			return &i
		}
		return nil
	}
	return &v
}

func parseBool(s string) *bool {
	if isNullCell(s) {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "y":
		v := true
		return &v
	case "0", "f", "false", "no", "n":
		v := false
		return &v
	}
	return nil
}

func parseStr(s string) *string {
	if isNullCell(s) {
		return nil
	}
	v := strings.TrimSpace(s)
	return &v
}

func parseDate(s string) *time.Time {
	if isNullCell(s) {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func parseMonth(s string) contracts.Month {
	trimmed := strings.TrimSpace(s)
	if m, err := contracts.ParseMonth(trimmed); err == nil {
		return m
	}
	if t := parseDate(trimmed); t != nil {
		return contracts.MonthOf(*t)
	}
	return ""
}
