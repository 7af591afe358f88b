package registry

import (
	"sort"
	"strings"

	"github.com/Zaclin-GIT/MDB/internal/ident"
	"github.com/Zaclin-GIT/MDB/internal/metadata"
)

// GenericParams returns the generic type parameter tokens appearing in a
// method signature, sorted.
func GenericParams(m *metadata.MethodDeclaration) []string {
	set := map[string]bool{}
	if ident.IsGenericParamToken(m.ReturnType) {
		set[strings.TrimRight(m.ReturnType, "[]")] = true
	}
	for _, p := range m.Parameters {
		if ident.IsGenericParamToken(p.Type) {
			set[strings.TrimRight(p.Type, "[]")] = true
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HasGenericArg reports whether a generic type reference carries a type
// parameter in any argument position.
func HasGenericArg(typeName string) bool {
	open := strings.Index(typeName, "<")
	if open < 0 {
		return false
	}
	end := strings.LastIndex(typeName, ">")
	if end < open {
		return false
	}
	for _, arg := range strings.Split(typeName[open+1:end], ",") {
		if ident.IsGenericParam(strings.TrimSpace(arg)) {
			return true
		}
	}
	return false
}

// IsBacktickGeneric reports the dump's arity notation (List`1) without an
// explicit argument list.
func IsBacktickGeneric(typeName string) bool {
	return strings.Contains(typeName, "`") && !strings.Contains(typeName, "<")
}

// checkType validates one type position of a method or property:
// mappable, sanitizable, and resolvable. Generic-parameter tokens are
// accepted only when the enclosing method declares them.
func (r *Resolver) checkType(typeName string, genericMethod bool) bool {
	if ident.IsGenericParam(typeName) {
		return genericMethod && ident.IsGenericParamToken(typeName)
	}
	if HasGenericArg(typeName) {
		return false
	}
	if genericMethod && IsBacktickGeneric(typeName) {
		return false
	}
	if _, ok := r.MapTypeBare(typeName); !ok {
		return false
	}
	if strings.Contains(typeName, "*") {
		return false
	}
	if ident.IsUnrepresentable(ident.BareName(typeName)) {
		return false
	}
	return r.IsResolvable(typeName)
}

// IsValidMethod reports whether a method can be emitted: not a
// constructor, no compiler-generated or explicit-interface name, return
// and parameter types all individually resolvable, no nameless parameters
// and no out/ref/in modifiers.
func (r *Resolver) IsValidMethod(m *metadata.MethodDeclaration) bool {
	if m.Name == ".ctor" || m.Name == ".cctor" || strings.Contains(m.Name, "|") {
		return false
	}
	if i := strings.IndexByte(m.Name, '.'); i > 0 {
		first := m.Name[0]
		if first >= 'A' && first <= 'Z' {
			// Explicit interface implementation (IFoo.Bar).
			return false
		}
	}
	genericMethod := len(GenericParams(m)) > 0
	if !r.checkType(m.ReturnType, genericMethod) {
		return false
	}
	for i := range m.Parameters {
		p := &m.Parameters[i]
		if p.Name == metadata.NoName || p.Modifier == "out" || p.Modifier == "ref" || p.Modifier == "in" {
			return false
		}
		if !r.checkType(p.Type, genericMethod) {
			return false
		}
	}
	return true
}

// IsValidProperty reports whether a parsed property's type is emittable.
func (r *Resolver) IsValidProperty(p *metadata.PropertyDeclaration) bool {
	return r.checkType(p.Type, false)
}
