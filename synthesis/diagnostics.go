package synthesis

import "fmt"

// Diagnostics accumulates human-readable warnings across the synthesis
// stages. Warnings are ordered by first occurrence and deduplicated; the
// collector lives for one synthesis run only.
type Diagnostics struct {
	seen     map[string]struct{}
	warnings []string
}

// NewDiagnostics returns an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{seen: make(map[string]struct{})}
}

// Warnf records a warning, dropping exact duplicates.
func (d *Diagnostics) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if _, ok := d.seen[msg]; ok {
		return
	}
	d.seen[msg] = struct{}{}
	d.warnings = append(d.warnings, msg)
}

// Warnings returns the collected warnings in first-occurrence order.
func (d *Diagnostics) Warnings() []string {
	out := make([]string, len(d.warnings))
	copy(out, d.warnings)

	return out
}
