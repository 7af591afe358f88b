package registry

import (
	"strconv"
	"strings"

	"github.com/Zaclin-GIT/MDB/internal/ident"
)

// typeMap converts dumped CLR type names to C# keywords. Object maps to
// lowercase object to avoid ambiguity with UnityEngine.Object.
var typeMap = map[string]string{
	"Void": "void", "Boolean": "bool", "Int32": "int", "Int64": "long",
	"UInt32": "uint", "UInt64": "ulong", "Single": "float",
	"Double": "double", "String": "string", "Object": "object",
	"Byte": "byte", "SByte": "sbyte", "Int16": "short",
	"UInt16": "ushort", "Char": "char", "IntPtr": "IntPtr",
	"UIntPtr": "UIntPtr",
}

// knownTypes are always-available C# built-ins and framework types,
// universal across Unity/IL2CPP versions.
var knownTypes = map[string]bool{
	"void": true, "bool": true, "byte": true, "sbyte": true, "char": true,
	"decimal": true, "double": true, "float": true, "int": true,
	"uint": true, "long": true, "ulong": true, "short": true,
	"ushort": true, "object": true, "string": true, "IntPtr": true,
	"UIntPtr": true, "Type": true, "Array": true, "Exception": true,
	"EventArgs": true, "Delegate": true, "MulticastDelegate": true,
	"Action": true, "Func": true, "Predicate": true, "Comparison": true,
	"Converter": true, "List": true, "Dictionary": true, "HashSet": true,
	"Queue": true, "Stack": true, "KeyValuePair": true, "Task": true,
	"ValueTask": true, "CancellationToken": true,
	"CancellationTokenSource": true, "TimeSpan": true, "DateTime": true,
	"DateTimeOffset": true, "Guid": true, "Uri": true, "Version": true,
	"Nullable": true, "Lazy": true, "WeakReference": true, "Tuple": true,
	"ValueTuple": true, "Stream": true, "MemoryStream": true,
	"StreamReader": true, "StreamWriter": true, "BinaryReader": true,
	"BinaryWriter": true, "StringBuilder": true, "Encoding": true,
	"XmlNode": true, "XmlDocument": true, "XmlElement": true,
	"XmlAttribute": true, "IEnumerator": true, "IEnumerable": true,
	"ICollection": true, "IList": true, "IDictionary": true,
	"IDisposable": true, "ICloneable": true, "IComparable": true,
	"IEquatable": true, "IFormattable": true, "Il2CppObject": true,
	// Unity.Mathematics, common in modern Unity games
	"float2": true, "float3": true, "float4": true, "float2x2": true,
	"float3x3": true, "float4x4": true, "int2": true, "int3": true,
	"int4": true, "uint2": true, "uint3": true, "uint4": true,
	"bool2": true, "bool3": true, "bool4": true, "half": true,
	"half2": true, "half3": true, "half4": true, "quaternion": true,
}

// knownGenerics are the generic containers that are always available for
// use with resolvable type arguments.
var knownGenerics = map[string]bool{
	"List": true, "Dictionary": true, "HashSet": true, "Queue": true,
	"Stack": true, "LinkedList": true, "SortedList": true,
	"SortedDictionary": true, "SortedSet": true, "KeyValuePair": true,
	"IList": true, "IDictionary": true, "ICollection": true,
	"IEnumerable": true, "IEnumerator": true, "IReadOnlyList": true,
	"IReadOnlyCollection": true, "IReadOnlyDictionary": true, "ISet": true,
	"IComparer": true, "IEqualityComparer": true, "Nullable": true,
	"Tuple": true, "ValueTuple": true, "Lazy": true, "WeakReference": true,
	"Action": true, "Func": true, "Predicate": true, "Comparison": true,
	"Converter": true, "EventHandler": true, "ArraySegment": true,
	"Memory": true, "Span": true, "ReadOnlyMemory": true,
	"ReadOnlySpan": true, "Task": true, "ValueTask": true,
	"NativeArray": true, "NativeList": true, "NativeHashMap": true,
	"NativeQueue": true,
}

// unresolvableTypes exist in dumps but not in the target framework (or
// cannot appear in the positions the generator would use them in).
var unresolvableTypes = map[string]bool{
	"Enumeration":         true,
	"Path":                true,
	"UnityEngineInternal": true,
}

// baseTypeDisambiguation forces fully-qualified base types where the
// unqualified name is ambiguous in every dump. Classes inheriting Object
// always mean Unity's Object.
var baseTypeDisambiguation = map[string]string{
	"Object": "UnityEngine.Object",
}

// Resolver answers "is this type representable, and under what name"
// queries against a finalized registry snapshot.
type Resolver struct {
	reg *Registry
}

// NewResolver creates a resolver over a built registry.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// IsBuiltin reports whether a bare name maps to a C# keyword or a
// universally-available framework type.
func IsBuiltin(name string) bool {
	return typeMap[name] != "" || knownTypes[name]
}

// BaseTypeDisambiguation returns the forced qualified form of a base type
// name, if one exists.
func BaseTypeDisambiguation(name string) (string, bool) {
	q, ok := baseTypeDisambiguation[name]
	return q, ok
}

// IsResolvable reports whether a dumped type reference can resolve at
// compile time in the generated sources: a generic parameter, a built-in,
// an allow-listed generic container with resolvable arguments, or a
// registered type that is eligible in at least one admitted namespace.
// Pointer types never resolve.
func (r *Resolver) IsResolvable(typeName string) bool {
	if typeName == "" {
		return false
	}
	for _, prefix := range r.reg.cfg.SkipPrefixes() {
		if strings.HasPrefix(typeName, prefix) {
			return false
		}
	}
	if strings.Contains(typeName, "*") {
		return false
	}

	genericUse := (strings.Contains(typeName, "<") && strings.Contains(typeName, ">")) ||
		strings.Contains(typeName, "`")
	base := strings.TrimSuffix(ident.BareName(typeName), "?")

	if unresolvableTypes[base] {
		return false
	}

	// Generic uses are judged as container + arguments; the container
	// being a known type name is not enough on its own.
	if genericUse {
		if !knownGenerics[base] {
			return false
		}
		open := strings.Index(typeName, "<")
		end := strings.LastIndex(typeName, ">")
		if open < 0 || end < open {
			// Backtick notation without argument text; the container
			// itself is allow-listed.
			return true
		}
		for _, arg := range splitGenericArgs(typeName[open+1 : end]) {
			if !r.IsResolvable(arg) {
				return false
			}
		}
		return true
	}

	if ident.IsGenericParam(base) || IsBuiltin(base) {
		return true
	}

	namespaces, ok := r.reg.typeNamespaces[base]
	if !ok {
		return false
	}
	for _, ns := range namespaces {
		if r.reg.SkipNamespace(ns) {
			continue
		}
		if r.reg.IsGenerated(base, ns) {
			return true
		}
	}
	return false
}

// splitGenericArgs splits a generic argument list on top-level commas.
func splitGenericArgs(inner string) []string {
	var args []string
	depth := 0
	var current strings.Builder
	for _, c := range inner {
		switch c {
		case '<':
			depth++
			current.WriteRune(c)
		case '>':
			depth--
			current.WriteRune(c)
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteRune(c)
			}
		default:
			current.WriteRune(c)
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		args = append(args, s)
	}
	return args
}

// Qualify returns the type reference to emit from currentNS: unchanged if
// built-in, unregistered, or already accessible unqualified; otherwise the
// first eligible declaring namespace, absolute-qualified with global::.
// Callers must have checked resolvability independently; returning the
// input unchanged is the fallback.
func (r *Resolver) Qualify(typeName, currentNS string, imported map[string]bool) string {
	isArray := strings.HasSuffix(typeName, "[]")
	base := strings.TrimSuffix(typeName, "[]")

	if IsBuiltin(base) {
		return typeName
	}
	namespaces, ok := r.reg.typeNamespaces[base]
	if !ok {
		return typeName
	}
	for _, ns := range namespaces {
		if (ns == currentNS || imported[ns]) && r.reg.IsGenerated(base, ns) {
			return typeName
		}
	}
	for _, ns := range namespaces {
		if prefixSkipped(ns, r.reg.cfg.SkipPrefixes()) {
			continue
		}
		if r.reg.IsGenerated(base, ns) {
			qualified := "global::" + ns + "." + base
			if isArray {
				qualified += "[]"
			}
			return qualified
		}
	}
	return typeName
}

func prefixSkipped(ns string, prefixes []string) bool {
	withDot := ns + "."
	for _, prefix := range prefixes {
		if strings.HasPrefix(withDot, prefix) || ns == strings.TrimSuffix(prefix, ".") {
			return true
		}
	}
	return false
}

// MapType converts a dumped type reference to its C# form: primitive
// mapping, backtick generic expansion with object arguments, array suffix
// preservation, friendly-name substitution, and (when a namespace context
// is given) ambiguity resolution against the registry. Returns false for
// unrepresentable references: pointers, Nullable, and generic argument
// positions leaking a type parameter.
func (r *Resolver) MapType(typeName, currentNS string, imported map[string]bool) (string, bool) {
	if typeName == "" || strings.Contains(typeName, "*") {
		return "", false
	}
	// Nested-type spelling used by the input system; the wrapper only
	// knows the inner name.
	if strings.Contains(typeName, "InputAction.CallbackContext") {
		return strings.ReplaceAll(typeName, "InputAction.CallbackContext", "CallbackContext"), true
	}
	if open := strings.Index(typeName, "<"); open >= 0 && strings.Contains(typeName, ">") {
		end := strings.LastIndex(typeName, ">")
		for _, arg := range strings.Split(typeName[open+1 : end], ",") {
			if ident.IsGenericParamToken(strings.TrimSpace(arg)) {
				return "", false
			}
		}
	}
	if strings.HasPrefix(typeName, "Nullable`1") || strings.Contains(typeName, "Nullable<") {
		return "", false
	}

	if i := strings.IndexByte(typeName, '`'); i >= 0 {
		return expandBacktickGeneric(typeName, i), true
	}

	isArray := strings.HasSuffix(typeName, "[]")
	base := strings.TrimSuffix(typeName, "[]")
	mapped := base
	if m, ok := typeMap[base]; ok {
		mapped = m
	}
	if friendly, ok := r.reg.maps.Friendly(mapped); ok {
		mapped = friendly
	}
	if isArray {
		mapped += "[]"
	}
	if currentNS != "" {
		mapped = r.resolveAmbiguous(mapped, currentNS, imported)
	}
	return mapped, true
}

// MapTypeBare is MapType without a namespace context (no ambiguity
// resolution), used during validity checking.
func (r *Resolver) MapTypeBare(typeName string) (string, bool) {
	return r.MapType(typeName, "", nil)
}

// expandBacktickGeneric rewrites "Dictionary`2" style notation into
// "Dictionary<object, object>". When the arity cannot be parsed, the bare
// base name is returned.
func expandBacktickGeneric(typeName string, tick int) string {
	base := typeName[:tick]
	arity := typeName[tick+1:]
	if i := strings.IndexByte(arity, '['); i >= 0 {
		arity = arity[:i]
	}
	if i := strings.IndexByte(arity, '<'); i >= 0 {
		arity = arity[:i]
	}
	n, err := strconv.Atoi(arity)
	if err != nil || n <= 0 {
		return base
	}
	args := make([]string, n)
	for i := range args {
		args[i] = "object"
	}
	expanded := base + "<" + strings.Join(args, ", ") + ">"
	if strings.HasSuffix(typeName, "[]") {
		expanded += "[]"
	}
	return expanded
}

// resolveAmbiguous picks the spelling for a type name that may exist in
// several namespaces: current namespace wins, then a single imported
// namespace keeps the name unqualified, then multiple candidates force a
// qualified reference (preferring the engine namespaces).
func (r *Resolver) resolveAmbiguous(typeName, currentNS string, imported map[string]bool) string {
	isArray := strings.HasSuffix(typeName, "[]")
	base := strings.TrimSuffix(typeName, "[]")

	if IsBuiltin(base) {
		return typeName
	}

	qualify := func(ns string) string {
		q := ns + "." + base
		if isArray {
			q += "[]"
		}
		return q
	}

	// A type name that matches a segment of the current namespace shadows
	// itself (e.g. Camera inside Game.Graphics.Camera) and must be
	// qualified.
	if currentNS != "" {
		for _, part := range strings.Split(currentNS, ".") {
			if base == part {
				namespaces := r.reg.typeNamespaces[base]
				for _, ns := range namespaces {
					if strings.HasPrefix(ns, "UnityEngine") {
						return qualify(ns)
					}
				}
				if len(namespaces) > 0 {
					return qualify(namespaces[0])
				}
				break
			}
		}
	}

	namespaces, ok := r.reg.typeNamespaces[base]
	if !ok || len(namespaces) <= 1 {
		return typeName
	}
	for _, ns := range namespaces {
		if ns == currentNS {
			return typeName
		}
	}

	var matching []string
	for _, ns := range namespaces {
		if imported[ns] {
			matching = append(matching, ns)
		}
	}
	switch {
	case len(matching) == 1:
		return typeName
	case len(matching) > 1:
		for _, preferred := range []string{"UnityEngine", "System", "TMPro"} {
			for _, ns := range matching {
				if strings.HasPrefix(ns, preferred) {
					return qualify(ns)
				}
			}
		}
		return qualify(matching[0])
	default:
		// Not accessible from any import; qualify with the first
		// declaring namespace for clarity.
		return qualify(namespaces[0])
	}
}
