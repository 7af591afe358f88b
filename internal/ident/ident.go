// Package ident classifies and sanitizes dumped identifiers: obfuscation
// detection, generic-parameter heuristics, and conversion into valid C#
// identifiers. All predicates are pure string inspection so they can be
// tested in isolation against synthetic name corpora.
package ident

import (
	"strconv"
	"strings"
)

// genericParams are identifier tokens that always denote a generic type
// parameter in dump signatures.
var genericParams = map[string]bool{
	"T": true, "T1": true, "T2": true, "T3": true, "T4": true,
	"TKey": true, "TValue": true, "TResult": true, "TSource": true,
	"TElement": true, "TControl": true, "TDevice": true, "TState": true,
	"TProcessor": true, "TObject": true, "U": true, "V": true,
	"TAttribute": true, "TData": true, "TDescriptor": true, "TEnum": true,
}

// knownTTypes are real types that match the "T + uppercase" generic
// parameter pattern and must not be classified as parameters.
var knownTTypes = map[string]bool{
	"TMPro": true, "Transform": true, "Texture": true, "Texture2D": true,
	"Texture3D": true, "TextMesh": true, "TextMeshPro": true,
	"TextMeshProUGUI": true, "Tween": true, "Tweener": true,
	"TweenParams": true, "Thread": true, "Timer": true, "TimeSpan": true,
	"Task": true, "Type": true, "Tuple": true, "Toggle": true,
	"Tile": true, "Tilemap": true, "Touch": true, "TrailRenderer": true,
	"Terrain": true, "Tree": true,
}

// csharpKeywords are reserved words that need the @ escape when used as
// identifiers in emitted code.
var csharpKeywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true,
	"default": true, "delegate": true, "do": true, "double": true,
	"else": true, "enum": true, "event": true, "explicit": true,
	"extern": true, "false": true, "finally": true, "fixed": true,
	"float": true, "for": true, "foreach": true, "goto": true, "if": true,
	"implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true,
	"namespace": true, "new": true, "null": true, "object": true,
	"operator": true, "out": true, "override": true, "params": true,
	"private": true, "protected": true, "public": true, "readonly": true,
	"ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true,
	"string": true, "struct": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true, "uint": true,
	"ulong": true, "unchecked": true, "unsafe": true, "ushort": true,
	"using": true, "virtual": true, "void": true, "volatile": true,
	"while": true,
}

// HasValidChars reports whether name is non-empty and consists only of
// ASCII letters, digits and underscores.
func HasValidChars(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}

// IsUnrepresentable reports whether name still contains invalid identifier
// characters after stripping the decoration characters the dump uses
// (generic brackets, dots, pipes). Such names cannot be sanitized and the
// carrying member must be dropped or replaced with a placeholder.
func IsUnrepresentable(name string) bool {
	if name == "" {
		return false
	}
	stripped := strings.NewReplacer("<", "", ">", "", ".", "", "|", "").Replace(name)
	return !HasValidChars(stripped)
}

// BareName strips generic, array and backtick decoration from a type name.
func BareName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	return name
}

// IsObfuscated reports whether a type name looks machine-generated: either
// it contains characters outside the ASCII identifier set, or it is a long
// all-uppercase alphabetic blob (the uppercase-scramble obfuscator style).
func IsObfuscated(name string) bool {
	base := BareName(name)
	if !HasValidChars(base) {
		return true
	}
	return len(base) >= 8 && isUpperAlpha(base)
}

func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return len(s) > 0
}

// IsGenericParam reports whether a bare type token denotes a generic type
// parameter rather than a real type. Single uppercase letters and the
// "T + uppercase" pattern count, except for underscore-bearing names
// (TMP_FontAsset) and the known real-type exceptions (Transform, Task, …).
func IsGenericParam(name string) bool {
	base := strings.TrimRight(name, "[]")
	base = strings.TrimSuffix(base, "?")
	if genericParams[base] {
		return true
	}
	if len(base) == 1 && base[0] >= 'A' && base[0] <= 'Z' {
		return true
	}
	if strings.ContainsRune(base, '_') {
		return false
	}
	return len(base) >= 2 && base[0] == 'T' && base[1] >= 'A' && base[1] <= 'Z' && !knownTTypes[base]
}

// IsGenericParamToken reports membership in the fixed generic-parameter
// token set, without the single-letter or T-prefix heuristics.
func IsGenericParamToken(name string) bool {
	base := strings.TrimSuffix(strings.TrimRight(name, "[]"), "?")
	return genericParams[base]
}

// IsKeyword reports whether name is a reserved C# keyword.
func IsKeyword(name string) bool {
	return csharpKeywords[name]
}

// Sanitize converts a dumped member name into a valid C# identifier.
// Decoration characters become underscores, a leading digit gets an
// underscore prefix, and keywords are @-escaped. Constructor names and
// names with characters that cannot be mapped are rejected.
func Sanitize(name string) (string, bool) {
	if name == "" || name == ".ctor" || name == ".cctor" {
		return "", false
	}
	if IsUnrepresentable(name) {
		return "", false
	}
	s := strings.NewReplacer("<", "_", ">", "_", ".", "_", "|", "_").Replace(name)
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	if csharpKeywords[s] {
		s = "@" + s
	}
	return s, true
}

// SanitizeNamespace rewrites obfuscated namespace segments with stable
// counter-based placeholders. Valid segments pass through untouched.
func SanitizeNamespace(ns string) string {
	if ns == "" || ns == "Global" {
		return ns
	}
	counter := 0
	parts := strings.Split(ns, ".")
	for i, part := range parts {
		if IsUnrepresentable(part) {
			counter++
			parts[i] = "unicode_ns_" + strconv.Itoa(counter)
		}
	}
	return strings.Join(parts, ".")
}
