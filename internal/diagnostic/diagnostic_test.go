package diagnostic

import (
	"strings"
	"testing"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity:  SeverityInfo,
		Category:  CategoryTypeExcluded,
		Namespace: "Game.Core",
		Subject:   "Derived",
		Message:   "base type FinalThing is sealed",
	}

	s := d.String()
	if !strings.Contains(s, "Game.Core.Derived") {
		t.Errorf("expected namespace.subject, got %q", s)
	}
	if !strings.Contains(s, "info") {
		t.Errorf("expected severity, got %q", s)
	}
	if !strings.Contains(s, "[type-excluded]") {
		t.Errorf("expected category, got %q", s)
	}
}

func TestCollector_ExcludeAndQuery(t *testing.T) {
	c := NewCollector()
	c.Exclude(CategoryTypeExcluded, "Game", "Empty", "type declares no members")
	c.Exclude(CategoryEnumValueRange, "Game", "Weapon.Cursed", "constant exceeds int32 range")
	c.Warn(CategoryConfigInvalid, "", "", "unknown field")

	if c.Count() != 3 {
		t.Errorf("Count = %d, want 3", c.Count())
	}
	if got := len(c.ByCategory(CategoryTypeExcluded)); got != 1 {
		t.Errorf("ByCategory(type-excluded) = %d, want 1", got)
	}
	if got := len(c.ByCategory(CategoryNamespaceSkipped)); got != 0 {
		t.Errorf("ByCategory(namespace-skipped) = %d, want 0", got)
	}

	all := c.FormatAll()
	if strings.Count(all, "\n") != 3 {
		t.Errorf("FormatAll should emit one line per diagnostic, got %q", all)
	}
}

func TestCollector_Summary(t *testing.T) {
	c := NewCollector()
	if got := c.Summary(); got != "no exclusions" {
		t.Errorf("empty Summary = %q", got)
	}
	c.Exclude(CategoryTypeExcluded, "Game", "A", "x")
	c.Exclude(CategoryTypeExcluded, "Game", "B", "y")
	c.Exclude(CategoryNamespaceSkipped, "System.IO", "", "z")

	got := c.Summary()
	if !strings.Contains(got, "2 type-excluded") || !strings.Contains(got, "1 namespace-skipped") {
		t.Errorf("Summary = %q", got)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.Exclude(CategoryTypeExcluded, "Game", "A", "x")
	c.Warn(CategoryConfigInvalid, "", "", "y")
	if c.Count() != 0 {
		t.Error("nil collector must discard")
	}
	if c.FormatAll() != "" {
		t.Error("nil collector FormatAll must be empty")
	}
}
