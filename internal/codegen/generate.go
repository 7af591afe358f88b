package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Zaclin-GIT/MDB/internal/config"
	"github.com/Zaclin-GIT/MDB/internal/diagnostic"
	"github.com/Zaclin-GIT/MDB/internal/ident"
	"github.com/Zaclin-GIT/MDB/internal/mappings"
	"github.com/Zaclin-GIT/MDB/internal/metadata"
	"github.com/Zaclin-GIT/MDB/internal/registry"
)

// skipPropertyNames collide with always-imported framework type names
// when hoisted to property position; the get_/set_ pair is left as plain
// methods instead.
var skipPropertyNames = map[string]bool{
	"Type": true, "Object": true, "String": true, "Int32": true,
	"Boolean": true, "Array": true,
}

// Generator turns the declaration list into per-namespace source units.
// It holds only read-only state; namespaces are independent units of work.
type Generator struct {
	cfg   *config.Config
	maps  *mappings.Table
	reg   *registry.Registry
	res   *registry.Resolver
	diags *diagnostic.Collector
}

// New creates a generator over a finalized registry snapshot.
func New(cfg *config.Config, maps *mappings.Table, reg *registry.Registry, diags *diagnostic.Collector) *Generator {
	return &Generator{
		cfg:   cfg,
		maps:  maps,
		reg:   reg,
		res:   registry.NewResolver(reg),
		diags: diags,
	}
}

// Generate produces one source unit per admitted namespace with at least
// one emitted type, keyed by the (sanitized) namespace the file declares.
func (g *Generator) Generate(decls []metadata.TypeDeclaration) map[string]string {
	groups := make(map[string][]*metadata.TypeDeclaration)
	var order []string
	for i := range decls {
		t := &decls[i]
		if t.Name == "" || !t.HasMembers() {
			continue
		}
		ns := registry.NamespaceOrGlobal(t.Namespace)
		if g.reg.SkipNamespace(ns) {
			continue
		}
		if _, seen := groups[ns]; !seen {
			order = append(order, ns)
		}
		groups[ns] = append(groups[ns], t)
	}

	files := make(map[string]string, len(groups))
	usedNS := make(map[string]bool, len(groups))
	for _, ns := range order {
		outNS := ns
		unicodeNS := ns != registry.GlobalNamespace && ident.IsUnrepresentable(ns)
		if unicodeNS {
			outNS = ident.SanitizeNamespace(ns)
		}
		// Sanitization counters restart per namespace, so two distinct
		// obfuscated namespaces can collapse to the same name.
		for base, n := outNS, 2; usedNS[outNS]; n++ {
			outNS = fmt.Sprintf("%s_%d", base, n)
		}
		usedNS[outNS] = true
		content, count := g.generateNamespace(ns, outNS, unicodeNS, groups[ns])
		if count == 0 {
			g.diags.Exclude(diagnostic.CategoryNamespaceSkipped, ns, "", "no emittable types")
			continue
		}
		files[outNS] = content
	}
	return files
}

// FileName returns the deterministic output file name for a namespace.
func (g *Generator) FileName(ns string) string {
	return g.cfg.Output.FilePrefix + "." + strings.ReplaceAll(ns, ".", "_") + ".cs"
}

// generateNamespace emits the full source unit for one namespace. ns is
// the sanitized, collision-free name the unit declares.
func (g *Generator) generateNamespace(originalNS, ns string, unicodeNS bool, types []*metadata.TypeDeclaration) (string, int) {
	imported := importedSet(g.cfg.Output.NamespacePrefix)

	e := NewEmitter()
	e.Line("// Auto-generated Il2Cpp wrapper classes")
	e.Line("// Namespace: %s", ns)
	e.Line("// Do not edit manually")
	e.Blank()
	writeUsings(e, ns, g.cfg.Output.NamespacePrefix)

	if unicodeNS {
		e.Line("// Original namespace: %s", originalNS)
	}
	e.Block("namespace %s", ns)

	count := 0
	count += g.generateDelegates(e, types, ns, imported)

	seen := make(map[string]bool)
	count += g.generateEnums(e, types, ns, seen)
	count += g.generateInterfaces(e, types, ns, seen)
	count += g.generateStructs(e, types, ns, imported, seen)
	count += g.generateClasses(e, types, ns, originalNS, unicodeNS, imported, seen)

	e.EndBlock()
	return e.String(), count
}

// shouldSkipType applies the shared pre-checks for enum/interface/struct
// emission.
func (g *Generator) shouldSkipType(t *metadata.TypeDeclaration) bool {
	if t.Visibility != "public" {
		return true
	}
	if strings.ContainsAny(t.Name, "`<>") {
		return true
	}
	if !ident.HasValidChars(t.Name) {
		return true
	}
	return g.cfg.SkipType(t.Name)
}

// displayName applies the deobfuscation mapping to a type name and, when
// substituted, emits the provenance doc comment. Returns false when the
// name was already emitted in this namespace.
func (g *Generator) displayName(e *Emitter, t *metadata.TypeDeclaration, kind string, seen map[string]bool) (string, bool) {
	name := t.Name
	if friendly, ok := g.maps.Friendly(t.Name); ok {
		name = friendly
	}
	if seen[name] {
		return "", false
	}
	seen[name] = true
	if name != t.Name {
		e.Line("/// <summary>Deobfuscated %s. IL2CPP name: '%s'</summary>", kind, t.Name)
	}
	return name, true
}

// generateDelegates emits delegate declarations for types deriving from
// the delegate base type, gated on a fully-resolvable Invoke signature.
func (g *Generator) generateDelegates(e *Emitter, types []*metadata.TypeDeclaration, ns string, imported map[string]bool) int {
	count := 0
	seen := make(map[string]bool)
	for _, t := range types {
		if t.Kind != metadata.KindClass || t.Visibility != "public" || t.BaseType != metadata.DelegateBaseType {
			continue
		}
		if strings.ContainsAny(t.Name, "`<>") || !ident.HasValidChars(t.Name) || g.cfg.SkipType(t.Name) {
			continue
		}
		name := t.Name
		if friendly, ok := g.maps.Friendly(t.Name); ok {
			name = friendly
		}
		if seen[name] {
			continue
		}
		invoke := findMethod(t, "Invoke")
		if invoke == nil {
			continue
		}
		if !g.invokeSignatureEmittable(invoke, ns, imported) {
			g.diags.Exclude(diagnostic.CategoryTypeExcluded, ns, t.Name, "delegate Invoke signature not representable")
			continue
		}
		seen[name] = true
		count++

		returnType, _ := g.res.MapType(invoke.ReturnType, ns, imported)
		returnType = g.res.Qualify(returnType, ns, imported)
		params := make([]string, 0, len(invoke.Parameters))
		for i := range invoke.Parameters {
			p := &invoke.Parameters[i]
			ptype, _ := g.res.MapType(p.Type, ns, imported)
			ptype = g.res.Qualify(ptype, ns, imported)
			pname := p.Name
			if s, ok := ident.Sanitize(p.Name); ok {
				pname = s
			}
			params = append(params, ptype+" "+pname)
		}
		if name != t.Name {
			e.Line("/// <summary>Renamed to avoid conflict. Original IL2CPP name: '%s'</summary>", t.Name)
		}
		e.Line("%s delegate %s %s(%s);", t.Visibility, returnType, name, strings.Join(params, ", "))
		e.Blank()
	}
	return count
}

func findMethod(t *metadata.TypeDeclaration, name string) *metadata.MethodDeclaration {
	for i := range t.Methods {
		if t.Methods[i].Name == name {
			return &t.Methods[i]
		}
	}
	return nil
}

func (g *Generator) invokeSignatureEmittable(invoke *metadata.MethodDeclaration, ns string, imported map[string]bool) bool {
	if strings.Contains(invoke.ReturnType, "*") || ident.IsGenericParam(invoke.ReturnType) {
		return false
	}
	if _, ok := g.res.MapType(invoke.ReturnType, ns, imported); !ok {
		return false
	}
	if !g.res.IsResolvable(invoke.ReturnType) {
		return false
	}
	for i := range invoke.Parameters {
		p := &invoke.Parameters[i]
		if strings.Contains(p.Type, "*") || ident.IsGenericParam(p.Type) {
			return false
		}
		if _, ok := g.res.MapType(p.Type, ns, imported); !ok {
			return false
		}
		if !g.res.IsResolvable(p.Type) {
			return false
		}
	}
	return true
}

// generateEnums emits enum declarations. Constant values outside the
// signed 32-bit range are dropped from the body, not from parsing; the
// enum itself survives as long as other constants remain, and is skipped
// entirely when none do.
func (g *Generator) generateEnums(e *Emitter, types []*metadata.TypeDeclaration, ns string, seen map[string]bool) int {
	type constant struct {
		name  string
		value string
		hasV  bool
	}
	count := 0
	for _, t := range types {
		if t.Kind != metadata.KindEnum || g.shouldSkipType(t) || g.cfg.NestedEnumName(t.Name) {
			continue
		}
		var constants []constant
		for i := range t.Fields {
			f := &t.Fields[i]
			if !f.IsConst || f.Type != t.Name {
				continue
			}
			if !f.HasLiteral {
				constants = append(constants, constant{name: f.Name})
				continue
			}
			val := strings.TrimSpace(strings.SplitN(f.LiteralValue, "//", 2)[0])
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				if n > 2147483647 || n < -2147483648 {
					g.diags.Exclude(diagnostic.CategoryEnumValueRange, ns, t.Name+"."+f.Name, "constant exceeds int32 range")
					continue
				}
			}
			constants = append(constants, constant{name: f.Name, value: val, hasV: true})
		}
		if len(constants) == 0 {
			g.diags.Exclude(diagnostic.CategoryTypeExcluded, ns, t.Name, "enum has no emittable constants")
			continue
		}
		name, ok := g.displayName(e, t, "enum", seen)
		if !ok {
			continue
		}
		count++
		e.Block("%s enum %s", t.Visibility, name)
		for i, c := range constants {
			comma := ","
			if i == len(constants)-1 {
				comma = ""
			}
			if c.hasV {
				e.Line("%s = %s%s", c.name, c.value, comma)
			} else {
				e.Line("%s%s", c.name, comma)
			}
		}
		e.EndBlock()
		e.Blank()
	}
	return count
}

// generateInterfaces emits interfaces as empty stand-ins so that
// implementing and referencing types stay compilable.
func (g *Generator) generateInterfaces(e *Emitter, types []*metadata.TypeDeclaration, ns string, seen map[string]bool) int {
	count := 0
	for _, t := range types {
		if t.Kind != metadata.KindInterface || g.shouldSkipType(t) {
			continue
		}
		name, ok := g.displayName(e, t, "interface", seen)
		if !ok {
			continue
		}
		count++
		e.Block("%s interface %s", t.Visibility, name)
		e.Line("// Stub interface")
		e.EndBlock()
		e.Blank()
	}
	return count
}

// generateStructs emits structs as plain field holders. A struct with any
// generic-parameter field is skipped wholesale; individual fields are
// dropped when their type does not resolve.
func (g *Generator) generateStructs(e *Emitter, types []*metadata.TypeDeclaration, ns string, imported map[string]bool, seen map[string]bool) int {
	count := 0
	for _, t := range types {
		if t.Kind != metadata.KindStruct || g.shouldSkipType(t) {
			continue
		}
		generic := false
		for i := range t.Fields {
			f := &t.Fields[i]
			if f.Visibility == "public" && !f.IsConst && ident.IsGenericParam(f.Type) {
				generic = true
				break
			}
		}
		if generic {
			g.diags.Exclude(diagnostic.CategoryTypeExcluded, ns, t.Name, "struct carries generic-parameter fields")
			continue
		}
		name, ok := g.displayName(e, t, "struct", seen)
		if !ok {
			continue
		}
		count++
		e.Block("%s struct %s", t.Visibility, name)
		emitted := 0
		for i := range t.Fields {
			f := &t.Fields[i]
			if f.Visibility != "public" || f.IsConst {
				continue
			}
			fieldType, ok := g.res.MapType(f.Type, ns, imported)
			if !ok || !g.res.IsResolvable(f.Type) {
				g.diags.Exclude(diagnostic.CategoryMemberRejected, ns, t.Name+"."+f.Name, "field type "+f.Type+" does not resolve")
				continue
			}
			fieldType = g.res.Qualify(fieldType, ns, imported)
			emitted++
			e.Line("public %s %s;", fieldType, f.Name)
		}
		if emitted == 0 {
			e.Line("// Stub struct")
		}
		e.EndBlock()
		e.Blank()
	}
	return count
}
