// Package datefmt renders appointment timestamps as the human-readable
// strings used in provider notifications and cancellation emails.
package datefmt

import "time"

// DefaultLayout is the English layout used across notifications and mail.
// 2024-04-05 14:00 renders as "April 05th at 14:00".
const DefaultLayout = "January 02th at 15:04"

// Formatter renders timestamps with a fixed layout. The layout is a policy
// value threaded in from configuration so a deployment can swap locale or
// pattern in one place instead of at every call site.
type Formatter struct {
	layout string
}

// NewFormatter creates a Formatter for the given Go time layout.
// An empty layout falls back to DefaultLayout.
func NewFormatter(layout string) *Formatter {
	if layout == "" {
		layout = DefaultLayout
	}
	return &Formatter{layout: layout}
}

// Format renders t with the configured layout.
func (f *Formatter) Format(t time.Time) string {
	return t.Format(f.layout)
}
