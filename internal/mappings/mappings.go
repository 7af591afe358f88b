// Package mappings loads the optional deobfuscation table (mappings.json):
// obfuscated-name to friendly-name substitutions that take precedence over
// both placeholder naming and the raw dumped names.
package mappings

import (
	"fmt"
	"os"

	"github.com/go-json-experiment/json"
)

// Entry is one mapping record. Keys are either a bare name or a
// "Type.Member" pair for member-scoped mappings.
type Entry struct {
	ObfuscatedName string `json:"ObfuscatedName"`
	FriendlyName   string `json:"FriendlyName"`
}

// Table is the loaded substitution table. The zero value is an empty table
// whose lookups always miss.
type Table struct {
	byName map[string]string
}

// Load reads mappings.json from path. A missing or broken file degrades to
// an empty table with a notice on stderr; deobfuscation is optional.
func Load(path string) *Table {
	t := &Table{byName: map[string]string{}}
	if path == "" {
		fmt.Fprintln(os.Stderr, "[mappings] no mappings.json found, using obfuscated names")
		return t
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[mappings] could not read %s: %v, using obfuscated names\n", path, err)
		return t
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		fmt.Fprintf(os.Stderr, "[mappings] could not parse %s: %v, using obfuscated names\n", path, err)
		return t
	}
	for _, e := range entries {
		if e.ObfuscatedName != "" && e.FriendlyName != "" {
			t.byName[e.ObfuscatedName] = e.FriendlyName
		}
	}
	fmt.Fprintf(os.Stderr, "[mappings] loaded %d mappings from %s\n", len(t.byName), path)
	return t
}

// Friendly returns the friendly name for an obfuscated symbol, if mapped.
func (t *Table) Friendly(name string) (string, bool) {
	if t == nil || t.byName == nil {
		return "", false
	}
	friendly, ok := t.byName[name]
	return friendly, ok
}

// MemberFriendly looks up a member first under its "Type.Member" key, then
// under its bare name.
func (t *Table) MemberFriendly(typeName, member string) (string, bool) {
	if friendly, ok := t.Friendly(typeName + "." + member); ok {
		return friendly, ok
	}
	return t.Friendly(member)
}

// Len returns the number of loaded mappings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byName)
}
