// Package metadata defines the declaration schema produced by parsing an
// IL2CPP dump file: a normalized representation of the dumped types
// suitable for registry building and wrapper generation.
package metadata

// Kind identifies the declaration kind of a dumped type.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindEnum      Kind = "enum"
	KindStruct    Kind = "struct"
)

// DelegateBaseType is the base type of delegate declarations in a dump.
const DelegateBaseType = "MulticastDelegate"

// NoName is the sentinel parameter name for parameters that appear in the
// dump without a name (e.g. a bare "ref Vector3"). Validity checks reject
// any method carrying such a parameter.
const NoName = "__no_name__"

// TypeDeclaration is one parsed type block from the dump. Identity is
// (Name, Namespace); the same name may legally repeat across namespaces.
// Declarations are immutable once parsing completes.
type TypeDeclaration struct {
	// Library is the declaring assembly from the most recent "// Dll:" line.
	Library string

	// Namespace is empty for types outside any namespace ("// Namespace:"
	// with no value resets it).
	Namespace string

	Kind       Kind
	Name       string
	BaseType   string
	Visibility string
	IsSealed   bool

	Fields     []FieldDeclaration
	Properties []PropertyDeclaration
	Methods    []MethodDeclaration
}

// HasMembers reports whether the declaration carries any member at all.
func (t *TypeDeclaration) HasMembers() bool {
	return len(t.Fields) > 0 || len(t.Properties) > 0 || len(t.Methods) > 0
}

// FieldDeclaration is a parsed field line.
type FieldDeclaration struct {
	Name       string
	Type       string
	Visibility string
	IsConst    bool

	// LiteralValue is the raw text after "=", if any. Enum constant values
	// land here and may carry a trailing comment.
	LiteralValue string
	HasLiteral   bool
}

// PropertyDeclaration is a parsed property line.
type PropertyDeclaration struct {
	Name       string
	Type       string
	Visibility string
	HasGetter  bool
	HasSetter  bool
}

// MethodDeclaration is a parsed method line.
type MethodDeclaration struct {
	Name       string
	ReturnType string
	IsStatic   bool
	Visibility string
	Parameters []ParameterDeclaration

	// NativeAddress is the RVA from the comment line immediately preceding
	// the method ("// RVA: 0x52f1e0 ..."), or empty. It is the fallback
	// invocation key when the method name is not a usable identifier.
	NativeAddress string
}

// ParameterDeclaration is a single parsed parameter.
type ParameterDeclaration struct {
	// Modifier is "", "out", "ref" or "in".
	Modifier string
	Type     string
	Name     string
}
