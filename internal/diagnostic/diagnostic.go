// Package diagnostic collects per-item generation decisions. Skipped
// namespaces, excluded types and rejected members are never errors (the
// pipeline skips the smallest affected unit and continues), but every
// exclusion is recorded with its reason so under-generation can be
// distinguished from over-generation in tests and --verbose output.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Category classifies diagnostics for filtering.
type Category string

const (
	CategoryNamespaceSkipped Category = "namespace-skipped"
	CategoryTypeExcluded     Category = "type-excluded"
	CategoryMemberRejected   Category = "member-rejected"
	CategoryEnumValueRange   Category = "enum-value-range"
	CategoryConfigInvalid    Category = "config-invalid"
)

// Diagnostic is one recorded decision.
type Diagnostic struct {
	Severity  Severity
	Category  Category
	Namespace string
	Subject   string // type or Type.Member the decision applies to
	Message   string
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Namespace != "" {
		sb.WriteString(d.Namespace)
		if d.Subject != "" {
			sb.WriteString(".")
		}
	}
	if d.Subject != "" {
		sb.WriteString(d.Subject)
	}
	if sb.Len() > 0 {
		sb.WriteString(" - ")
	}
	sb.WriteString(d.Severity.String())
	sb.WriteString(": [")
	sb.WriteString(string(d.Category))
	sb.WriteString("] ")
	sb.WriteString(d.Message)
	return sb.String()
}

// Collector accumulates diagnostics during a generator run. A nil
// Collector is valid and discards everything.
type Collector struct {
	diagnostics []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Exclude records an informational excluded-with-reason decision.
func (c *Collector) Exclude(category Category, namespace, subject, reason string) {
	if c == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity:  SeverityInfo,
		Category:  category,
		Namespace: namespace,
		Subject:   subject,
		Message:   reason,
	})
}

// Warn records a warning.
func (c *Collector) Warn(category Category, namespace, subject, message string) {
	if c == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity:  SeverityWarning,
		Category:  category,
		Namespace: namespace,
		Subject:   subject,
		Message:   message,
	})
}

// Diagnostics returns all collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	return c.diagnostics
}

// ByCategory returns the diagnostics matching category.
func (c *Collector) ByCategory(category Category) []Diagnostic {
	if c == nil {
		return nil
	}
	var out []Diagnostic
	for _, d := range c.diagnostics {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the total number of recorded diagnostics.
func (c *Collector) Count() int {
	if c == nil {
		return 0
	}
	return len(c.diagnostics)
}

// FormatAll formats all diagnostics as a multi-line string.
func (c *Collector) FormatAll() string {
	if c == nil || len(c.diagnostics) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range c.diagnostics {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary returns a one-line count by category.
func (c *Collector) Summary() string {
	if c == nil || len(c.diagnostics) == 0 {
		return "no exclusions"
	}
	counts := map[Category]int{}
	order := []Category{}
	for _, d := range c.diagnostics {
		if counts[d.Category] == 0 {
			order = append(order, d.Category)
		}
		counts[d.Category]++
	}
	parts := make([]string, 0, len(order))
	for _, cat := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[cat], cat))
	}
	return strings.Join(parts, ", ")
}
