// Package dates parses and renders expiry timestamps under a configurable
// layout. Preference blobs and collector records carry formatted dates, not
// raw epoch values, so external tooling reading the same storage stays stable.
package dates

import (
	"strconv"
	"strings"
	"time"

	dErrors "consentd/pkg/domain-errors"
)

// DefaultLayout is used when no layout is configured.
const DefaultLayout = "2006-01-02"

// Parse interprets a caller-supplied expiry value. It accepts the configured
// layout, RFC 3339, and unix seconds (all digits). Empty or unparseable input
// returns the zero time and an invalid-input error; callers normalize that to
// "no expiry".
func Parse(value, layout string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "empty date")
	}
	if layout == "" {
		layout = DefaultLayout
	}
	if t, err := time.Parse(layout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "unparseable date: "+value)
}

// Format renders t under the configured layout. The zero time renders as the
// empty string, meaning "no expiry".
func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DefaultLayout
	}
	return t.Format(layout)
}
