package parser

import (
	"strings"
	"testing"

	"github.com/Zaclin-GIT/MDB/internal/metadata"
)

const sampleDump = `
// Dll : Assembly-CSharp.dll
// Namespace: Game.Core
public class PlayerController : MonoBehaviour
{
	// Fields
	public int health;
	public float speed;
	private String secret;
	public const int MaxHealth = 100;

	// Properties
	public Boolean IsAlive { get; set; }

	// Methods
	// RVA: 0x1A2B3C Offset: 0x19FA3C VA: 0x18001A2B3C
	public Void TakeDamage(Int32 amount)
	{
	}
	public static PlayerController get_Instance()
	{
	}
	public Void .ctor()
	{
	}
}

// Namespace: Game.Core
public enum DamageKind
{
	// Fields
	public const DamageKind Physical = 0;
	public const DamageKind Magical = 1;
}

// Namespace:
public sealed class Orphan
{
	// Methods
	public Void Run() { }
}
`

func TestParseDeclarations(t *testing.T) {
	decls := Parse(strings.NewReader(sampleDump))
	if len(decls) != 3 {
		t.Fatalf("parsed %d declarations, want 3", len(decls))
	}

	pc := decls[0]
	if pc.Name != "PlayerController" {
		t.Errorf("Name = %q, want PlayerController", pc.Name)
	}
	if pc.Library != "Assembly-CSharp.dll" {
		t.Errorf("Library = %q", pc.Library)
	}
	if pc.Namespace != "Game.Core" {
		t.Errorf("Namespace = %q", pc.Namespace)
	}
	if pc.Kind != metadata.KindClass {
		t.Errorf("Kind = %q", pc.Kind)
	}
	if pc.BaseType != "MonoBehaviour" {
		t.Errorf("BaseType = %q", pc.BaseType)
	}
	if pc.IsSealed {
		t.Error("PlayerController should not be sealed")
	}
}

func TestParseFields(t *testing.T) {
	decls := Parse(strings.NewReader(sampleDump))
	fields := decls[0].Fields
	if len(fields) != 4 {
		t.Fatalf("parsed %d fields, want 4", len(fields))
	}
	if fields[0].Name != "health" || fields[0].Type != "int" || fields[0].Visibility != "public" {
		t.Errorf("field 0 = %+v", fields[0])
	}
	if fields[2].Visibility != "private" {
		t.Errorf("field 2 visibility = %q", fields[2].Visibility)
	}
	mh := fields[3]
	if !mh.IsConst || !mh.HasLiteral || mh.LiteralValue != "100" {
		t.Errorf("const field = %+v", mh)
	}
}

func TestParseProperties(t *testing.T) {
	decls := Parse(strings.NewReader(sampleDump))
	props := decls[0].Properties
	if len(props) != 1 {
		t.Fatalf("parsed %d properties, want 1", len(props))
	}
	p := props[0]
	if p.Name != "IsAlive" || p.Type != "Boolean" || !p.HasGetter || !p.HasSetter {
		t.Errorf("property = %+v", p)
	}
}

func TestParseMethods(t *testing.T) {
	decls := Parse(strings.NewReader(sampleDump))
	methods := decls[0].Methods
	if len(methods) != 3 {
		t.Fatalf("parsed %d methods, want 3", len(methods))
	}

	td := methods[0]
	if td.Name != "TakeDamage" || td.ReturnType != "Void" {
		t.Errorf("method 0 = %+v", td)
	}
	if td.NativeAddress != "0x1A2B3C" {
		t.Errorf("NativeAddress = %q, want 0x1A2B3C", td.NativeAddress)
	}
	if td.IsStatic {
		t.Error("TakeDamage should not be static")
	}
	if len(td.Parameters) != 1 || td.Parameters[0].Type != "Int32" || td.Parameters[0].Name != "amount" {
		t.Errorf("parameters = %+v", td.Parameters)
	}

	inst := methods[1]
	if !inst.IsStatic {
		t.Error("get_Instance should be static")
	}
	if inst.NativeAddress != "" {
		t.Errorf("address must attach to the next method only, got %q", inst.NativeAddress)
	}
}

func TestParseEnum(t *testing.T) {
	decls := Parse(strings.NewReader(sampleDump))
	en := decls[1]
	if en.Kind != metadata.KindEnum || en.Name != "DamageKind" {
		t.Fatalf("enum decl = %+v", en)
	}
	if len(en.Fields) != 2 {
		t.Fatalf("enum fields = %d, want 2", len(en.Fields))
	}
	if !en.Fields[0].IsConst || en.Fields[0].LiteralValue != "0" {
		t.Errorf("enum field 0 = %+v", en.Fields[0])
	}
}

func TestParseNamespaceReset(t *testing.T) {
	decls := Parse(strings.NewReader(sampleDump))
	orphan := decls[2]
	if orphan.Namespace != "" {
		t.Errorf("Namespace = %q, want empty after reset", orphan.Namespace)
	}
	if !orphan.IsSealed {
		t.Error("Orphan should be sealed")
	}
}

func TestParseVirtualNotStatic(t *testing.T) {
	dump := `
// Namespace: Game
public class Thing
{
	// Methods
	public virtual Void Act() { }
	public static Void Go() { }
}
`
	decls := Parse(strings.NewReader(dump))
	if len(decls) != 1 || len(decls[0].Methods) != 2 {
		t.Fatalf("decls = %+v", decls)
	}
	if decls[0].Methods[0].IsStatic {
		t.Error("virtual must not count as static")
	}
	if !decls[0].Methods[1].IsStatic {
		t.Error("static modifier not detected")
	}
}

func TestParseRefParameterNormalized(t *testing.T) {
	dump := `
// Namespace: Game
public class Thing
{
	// Methods
	public Void Mutate(ref Int32)
	{
	}
}
`
	decls := Parse(strings.NewReader(dump))
	params := decls[0].Methods[0].Parameters
	if len(params) != 1 {
		t.Fatalf("params = %+v", params)
	}
	p := params[0]
	if p.Modifier != "ref" || p.Type != "Int32" || p.Name != metadata.NoName {
		t.Errorf("param = %+v, want normalized ref with NoName sentinel", p)
	}
}

func TestParseUnterminatedBody(t *testing.T) {
	dump := `
// Namespace: Game
public class Truncated
{
	// Fields
	public int x;
`
	decls := Parse(strings.NewReader(dump))
	if len(decls) != 1 {
		t.Fatalf("decls = %d, want 1", len(decls))
	}
	if len(decls[0].Fields) != 1 {
		t.Errorf("fields = %+v", decls[0].Fields)
	}
}

func TestParseEmptyBodySameLine(t *testing.T) {
	dump := `
// Namespace: Game
public interface IMarker { }
public class After
{
	// Fields
	public int y;
}
`
	decls := Parse(strings.NewReader(dump))
	if len(decls) != 2 {
		t.Fatalf("decls = %d, want 2", len(decls))
	}
	if decls[0].Name != "IMarker" || decls[0].HasMembers() {
		t.Errorf("marker = %+v", decls[0])
	}
	if decls[1].Name != "After" || len(decls[1].Fields) != 1 {
		t.Errorf("after = %+v", decls[1])
	}
}
