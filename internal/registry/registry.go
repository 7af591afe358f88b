// Package registry builds the whole-dump type indices and answers
// resolution queries against them. The registry is an immutable snapshot:
// it is built exactly once, after the full declaration set is known, and
// is read-only during emission. This two-pass shape is a correctness
// requirement: whether a reference from namespace A resolves can depend
// on what namespace B contains.
package registry

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Zaclin-GIT/MDB/internal/config"
	"github.com/Zaclin-GIT/MDB/internal/diagnostic"
	"github.com/Zaclin-GIT/MDB/internal/ident"
	"github.com/Zaclin-GIT/MDB/internal/mappings"
	"github.com/Zaclin-GIT/MDB/internal/metadata"
)

// GlobalNamespace is the bucket for types declared outside any namespace.
const GlobalNamespace = "Global"

// TypeKey identifies a type declaration.
type TypeKey struct {
	Name      string
	Namespace string
}

// Registry is the read-only index snapshot over one parsed dump.
type Registry struct {
	// typeNamespaces maps a non-generic public type name to the namespaces
	// declaring it, in registration order.
	typeNamespaces map[string][]string

	// genericBase maps the base name of generic-notation types to their
	// namespaces.
	genericBase map[string][]string

	// generated holds the (name, namespace) pairs that will actually
	// produce non-empty output under the content-eligibility rule.
	generated map[TypeKey]bool

	// sealed holds type names marked sealed anywhere in the dump;
	// inheriting from them is rejected.
	sealed map[string]bool

	// detected holds the auto-detected third-party namespaces, computed
	// once from the full namespace set before population.
	detected map[string]bool

	cfg  *config.Config
	maps *mappings.Table
}

// NamespaceOrGlobal maps an empty namespace to the Global bucket.
func NamespaceOrGlobal(ns string) string {
	if ns == "" {
		return GlobalNamespace
	}
	return ns
}

// Build constructs the registry snapshot from the complete declaration
// set. Per-type exclusion decisions are recorded on diags.
func Build(decls []metadata.TypeDeclaration, cfg *config.Config, maps *mappings.Table, diags *diagnostic.Collector) *Registry {
	reg := &Registry{
		typeNamespaces: make(map[string][]string),
		genericBase:    make(map[string][]string),
		generated:      make(map[TypeKey]bool),
		sealed:         make(map[string]bool),
		cfg:            cfg,
		maps:           maps,
	}

	seen := make(map[string]bool)
	var namespaces []string
	for i := range decls {
		ns := decls[i].Namespace
		if ns != "" && !seen[ns] {
			seen[ns] = true
			namespaces = append(namespaces, ns)
		}
	}
	reg.detected = cfg.DetectThirdParty(namespaces)

	// Sealed names must be known before eligibility runs: a type whose
	// base is sealed has no content regardless of declaration order.
	for i := range decls {
		if decls[i].IsSealed && decls[i].Name != "" {
			reg.sealed[decls[i].Name] = true
		}
	}

	for i := range decls {
		t := &decls[i]
		if t.Name == "" || t.Visibility != "public" {
			continue
		}
		bare := ident.BareName(t.Name)
		if ident.IsUnrepresentable(bare) {
			continue
		}
		ns := NamespaceOrGlobal(t.Namespace)
		if reg.SkipNamespace(ns) {
			continue
		}

		admitted, reason := reg.eligibility(t)
		if admitted {
			reg.generated[TypeKey{t.Name, ns}] = true
			if friendly, ok := maps.Friendly(t.Name); ok {
				reg.generated[TypeKey{friendly, ns}] = true
			}
		} else {
			diags.Exclude(diagnostic.CategoryTypeExcluded, ns, t.Name, reason)
		}

		if strings.ContainsAny(t.Name, "`<") {
			reg.genericBase[bare] = appendUnique(reg.genericBase[bare], ns)
		} else {
			reg.typeNamespaces[t.Name] = appendUnique(reg.typeNamespaces[t.Name], ns)
			if friendly, ok := maps.Friendly(t.Name); ok {
				reg.typeNamespaces[friendly] = appendUnique(reg.typeNamespaces[friendly], ns)
			}
		}
	}
	return reg
}

// eligibility applies the content-eligibility rule, in order, and returns
// the decision with its reason.
func (r *Registry) eligibility(t *metadata.TypeDeclaration) (bool, string) {
	if r.cfg.SkipType(t.Name) {
		return false, "type is in the configured skip set"
	}
	if t.BaseType == metadata.DelegateBaseType {
		return false, "delegate types are emitted separately"
	}
	cleanBase := strings.TrimSpace(strings.TrimRight(t.BaseType, ","))
	if cleanBase != "" && r.sealed[cleanBase] {
		return false, "base type " + cleanBase + " is sealed"
	}
	if t.Kind == metadata.KindEnum {
		if !enumHasConstant(t) {
			return false, "enum declares no emittable constants"
		}
		if r.cfg.NestedEnumName(t.Name) {
			return false, "likely nested enum name"
		}
		return true, ""
	}
	if !t.HasMembers() {
		return false, "type declares no members"
	}
	if cleanBase != "" && r.cfg.SkipBaseType(cleanBase) {
		return false, "base type " + cleanBase + " is in the base-type skip set"
	}
	return true, ""
}

// enumHasConstant reports whether at least one constant of the enum's own
// type survives the int32 range rule. The backing value__ field does not
// count; an enum admitted here always produces a non-empty body.
func enumHasConstant(t *metadata.TypeDeclaration) bool {
	for i := range t.Fields {
		f := &t.Fields[i]
		if !f.IsConst || f.Type != t.Name {
			continue
		}
		if !f.HasLiteral {
			return true
		}
		val := strings.TrimSpace(strings.SplitN(f.LiteralValue, "//", 2)[0])
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			if n > 2147483647 || n < -2147483648 {
				continue
			}
		}
		return true
	}
	return false
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// SkipNamespace reports whether a namespace is excluded from generation,
// combining the configured skip rules with the auto-detected third-party
// set.
func (r *Registry) SkipNamespace(ns string) bool {
	return r.cfg.SkipNamespace(ns) || r.detected[ns]
}

// Namespaces returns the namespaces declaring a non-generic type name, in
// registration order.
func (r *Registry) Namespaces(name string) []string {
	return r.typeNamespaces[name]
}

// GenericNamespaces returns the namespaces declaring generic types with
// the given base name.
func (r *Registry) GenericNamespaces(baseName string) []string {
	return r.genericBase[baseName]
}

// IsGenerated reports whether (name, namespace) will produce output.
func (r *Registry) IsGenerated(name, namespace string) bool {
	return r.generated[TypeKey{name, namespace}]
}

// IsSealed reports whether any declaration of name is sealed.
func (r *Registry) IsSealed(name string) bool {
	return r.sealed[name]
}

// DetectedThirdParty returns the auto-detected third-party namespaces,
// sorted.
func (r *Registry) DetectedThirdParty() []string {
	out := make([]string, 0, len(r.detected))
	for ns := range r.detected {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// TypeCount returns the number of registered non-generic type names.
func (r *Registry) TypeCount() int {
	return len(r.typeNamespaces)
}

// GeneratedCount returns the number of (name, namespace) pairs with
// content.
func (r *Registry) GeneratedCount() int {
	return len(r.generated)
}
