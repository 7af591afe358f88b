package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Zaclin-GIT/MDB/internal/diagnostic"
	"github.com/Zaclin-GIT/MDB/internal/ident"
	"github.com/Zaclin-GIT/MDB/internal/metadata"
	"github.com/Zaclin-GIT/MDB/internal/registry"
)

// builtinInterfaceBases are interface bases that must never survive into
// the emitted class chain.
var builtinInterfaceBases = map[string]bool{
	"IEnumerator": true, "IDisposable": true, "IComparer": true,
	"IEnumerable": true, "ICollection": true,
}

// knownBaseTypes are engine base classes kept even when the registry
// cannot resolve them; they come from the always-imported namespaces.
var knownBaseTypes = map[string]bool{
	"MonoBehaviour": true, "ScriptableObject": true, "Component": true,
	"Behaviour": true, "Object": true, "UnityEvent": true,
	"UnityEventBase": true, "Selectable": true, "UIBehaviour": true,
	"Graphic": true, "MaskableGraphic": true, "Image": true, "Text": true,
	"Texture": true, "Texture2D": true, "Material": true, "Mesh": true,
	"Sprite": true, "Camera": true, "Transform": true,
	"RectTransform": true, "Canvas": true, "CanvasGroup": true,
	"EventTrigger": true, "AudioSource": true, "AudioClip": true,
	"Animator": true, "Animation": true, "ParticleSystem": true,
	"Renderer": true, "Collider": true, "Rigidbody": true,
	"Rigidbody2D": true, "Il2CppObject": true,
}

// generateClasses emits the wrapper classes for one namespace.
func (g *Generator) generateClasses(e *Emitter, types []*metadata.TypeDeclaration, ns, originalNS string, unicodeNS bool, imported map[string]bool, seen map[string]bool) int {
	count := 0
	unicodeClassCounter := 0

	for _, t := range types {
		if t.Kind != metadata.KindClass || t.Visibility != "public" {
			continue
		}
		if strings.ContainsAny(t.Name, "`<>") {
			continue
		}

		originalName := t.Name
		unicodeClass := ident.IsUnrepresentable(t.Name)
		deobfuscated := false
		var className string
		if friendly, ok := g.maps.Friendly(t.Name); ok {
			className = friendly
			deobfuscated = true
		} else if unicodeClass {
			unicodeClassCounter++
			className = fmt.Sprintf("unicode_class_%d", unicodeClassCounter)
		} else {
			className = t.Name
		}

		cleanBase := strings.TrimSpace(strings.TrimRight(t.BaseType, ","))
		if cleanBase != "" && g.cfg.SkipBaseType(cleanBase) {
			g.diags.Exclude(diagnostic.CategoryTypeExcluded, originalNS, t.Name, "base type "+cleanBase+" is in the base-type skip set")
			continue
		}
		if cleanBase != "" && g.reg.IsSealed(cleanBase) {
			g.diags.Exclude(diagnostic.CategoryTypeExcluded, originalNS, t.Name, "base type "+cleanBase+" is sealed")
			continue
		}
		if g.cfg.SkipType(t.Name) || seen[className] {
			continue
		}
		seen[className] = true
		count++

		baseType := g.cleanBaseType(t.BaseType, ns, imported)
		basePart := " : Il2CppObject"
		if baseType != "" {
			basePart = " : " + baseType
		}

		if deobfuscated {
			e.Line("/// <summary>Deobfuscated class. IL2CPP name: '%s'</summary>", originalName)
		} else if unicodeClass {
			e.Line("/// <summary>Obfuscated class. Original name: '%s'</summary>", originalName)
		}
		e.Block("%s partial class %s%s", t.Visibility, className, basePart)

		// When the display name diverges from the dump, the runtime needs
		// the original lookup key.
		if deobfuscated || unicodeClass || unicodeNS {
			e.Line("/// <summary>Original IL2CPP class name for runtime lookups</summary>")
			e.Line("private const string _il2cppClassName = \"%s\";", originalName)
			e.Line("private const string _il2cppNamespace = \"%s\";", originalNS)
			e.Blank()
		}

		e.Line("public %s(IntPtr nativePtr) : base(nativePtr) { }", className)
		e.Blank()

		g.generateFieldAccessors(e, t, ns, imported)
		used := g.generateProperties(e, t, ns, originalNS, originalName, imported)
		g.generateMethods(e, t, ns, originalNS, originalName, imported, used)

		e.EndBlock()
		e.Blank()
	}
	return count
}

// cleanBaseType decides the emitted base type: backtick generics,
// interface-shaped names, obfuscated names and unresolvable non-engine
// types all drop to the Il2CppObject fallback. Survivors are
// disambiguated, deobfuscated and qualified.
func (g *Generator) cleanBaseType(baseType, ns string, imported map[string]bool) string {
	if baseType == "" || strings.Contains(baseType, "`") {
		return ""
	}
	base := strings.TrimSpace(strings.TrimRight(baseType, ","))
	if base == "" {
		return ""
	}
	interfaceShaped := len(base) > 1 && base[0] == 'I' && base[1] >= 'A' && base[1] <= 'Z'
	if interfaceShaped || builtinInterfaceBases[base] || ident.IsObfuscated(base) {
		return ""
	}
	if !g.res.IsResolvable(base) && !knownBaseTypes[base] {
		return ""
	}
	if q, ok := registry.BaseTypeDisambiguation(base); ok {
		base = q
	}
	if friendly, ok := g.maps.Friendly(base); ok {
		base = friendly
	}
	return g.res.Qualify(base, ns, imported)
}

// generateFieldAccessors emits property accessors over the runtime's
// typed field get/set for public and protected instance fields, plus
// private fields explicitly named by a deobfuscation mapping.
func (g *Generator) generateFieldAccessors(e *Emitter, t *metadata.TypeDeclaration, ns string, imported map[string]bool) {
	var accessible []*metadata.FieldDeclaration
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.IsConst || ident.IsGenericParam(f.Type) {
			continue
		}
		switch f.Visibility {
		case "public", "protected":
			accessible = append(accessible, f)
		case "private":
			if _, ok := g.maps.MemberFriendly(t.Name, f.Name); ok {
				accessible = append(accessible, f)
			}
		}
	}
	if len(accessible) == 0 {
		return
	}

	e.Line("// Fields")
	unicodeFieldCounter := 0
	for _, f := range accessible {
		fieldType, ok := g.res.MapType(f.Type, ns, imported)
		if !ok || !g.res.IsResolvable(f.Type) {
			g.diags.Exclude(diagnostic.CategoryMemberRejected, ns, t.Name+"."+f.Name, "field type "+f.Type+" does not resolve")
			continue
		}
		fieldType = g.res.Qualify(fieldType, ns, imported)

		originalFieldName := f.Name
		unicodeField := ident.IsUnrepresentable(f.Name)
		var display string
		switch friendly, deob := g.maps.MemberFriendly(t.Name, f.Name); {
		case deob:
			display = friendly
			e.Line("/// <summary>Deobfuscated field. IL2CPP name: '%s'</summary>", originalFieldName)
		case unicodeField:
			unicodeFieldCounter++
			display = fmt.Sprintf("unicode_field_%d", unicodeFieldCounter)
			e.Line("/// <summary>Obfuscated field. Original name: '%s'</summary>", originalFieldName)
		default:
			var sanOK bool
			display, sanOK = ident.Sanitize(f.Name)
			if !sanOK {
				continue
			}
		}

		e.Block("public %s %s", fieldType, display)
		e.Line("get => Il2CppRuntime.GetField<%s>(this, \"%s\");", fieldType, originalFieldName)
		e.Line("set => Il2CppRuntime.SetField<%s>(this, \"%s\", value);", fieldType, originalFieldName)
		e.EndBlock()
		e.Blank()
	}
	e.Blank()
}

// propertyPair collects the accessor methods consolidated into one
// emitted property.
type propertyPair struct {
	getter   *metadata.MethodDeclaration
	setter   *metadata.MethodDeclaration
	typeName string
}

// generateProperties consolidates matched get_X/set_X method pairs into
// property declarations and returns the set of method names consumed.
func (g *Generator) generateProperties(e *Emitter, t *metadata.TypeDeclaration, ns, originalNS, originalClassName string, imported map[string]bool) map[string]bool {
	pairs := make(map[string]*propertyPair)
	used := make(map[string]bool)

	for i := range t.Methods {
		m := &t.Methods[i]
		if !g.res.IsValidMethod(m) {
			continue
		}
		switch {
		case strings.HasPrefix(m.Name, "get_") && len(m.Parameters) == 0 && m.ReturnType != "Void":
			name := m.Name[4:]
			p := pairs[name]
			if p == nil {
				p = &propertyPair{}
				pairs[name] = p
			}
			p.getter = m
			p.typeName = m.ReturnType
			used[m.Name] = true
		case strings.HasPrefix(m.Name, "set_") && len(m.Parameters) == 1 && m.ReturnType == "Void":
			name := m.Name[4:]
			p := pairs[name]
			if p == nil {
				p = &propertyPair{}
				pairs[name] = p
			}
			p.setter = m
			if p.typeName == "" {
				p.typeName = m.Parameters[0].Type
			}
			used[m.Name] = true
		}
	}
	if len(pairs) == 0 {
		return used
	}

	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Strings(names)

	e.Line("// Properties")
	unicodePropertyCounter := 0
	for _, propName := range names {
		pair := pairs[propName]

		// Names colliding with always-imported framework types stay as
		// plain methods.
		if skipPropertyNames[propName] {
			if pair.getter != nil {
				delete(used, "get_"+propName)
			}
			if pair.setter != nil {
				delete(used, "set_"+propName)
			}
			continue
		}

		propType, ok := g.res.MapType(pair.typeName, ns, imported)
		if !ok {
			continue
		}
		propType = g.res.Qualify(propType, ns, imported)
		if !g.res.IsResolvable(pair.typeName) {
			if pair.getter != nil {
				delete(used, "get_"+propName)
			}
			if pair.setter != nil {
				delete(used, "set_"+propName)
			}
			continue
		}

		unicodeProp := ident.IsUnrepresentable(propName)
		var display string
		friendly, deob := g.maps.MemberFriendly(t.Name, propName)
		switch {
		case deob:
			display = friendly
			e.Line("/// <summary>Deobfuscated property. IL2CPP name: '%s'</summary>", propName)
		case unicodeProp:
			unicodePropertyCounter++
			display = fmt.Sprintf("unicode_property_%d", unicodePropertyCounter)
			e.Line("/// <summary>Obfuscated property. Original name: '%s'</summary>", propName)
		default:
			display = propName
		}

		visibility := "public"
		if pair.getter != nil {
			visibility = pair.getter.Visibility
		} else if pair.setter != nil {
			visibility = pair.setter.Visibility
		}
		isStatic := (pair.getter != nil && pair.getter.IsStatic) || (pair.setter != nil && pair.setter.IsStatic)
		staticKeyword := ""
		if isStatic {
			staticKeyword = "static "
		}

		e.Block("%s %s%s %s", visibility, staticKeyword, propType, display)
		if pair.getter != nil {
			var call string
			if unicodeProp && pair.getter.NativeAddress != "" {
				if isStatic {
					call = fmt.Sprintf("CallStaticByRva<%s>(%s", propType, pair.getter.NativeAddress)
				} else {
					call = fmt.Sprintf("CallByRva<%s>(this, %s", propType, pair.getter.NativeAddress)
				}
			} else if isStatic {
				call = fmt.Sprintf("CallStatic<%s>(\"%s\", \"%s\", \"get_%s\"", propType, originalNS, originalClassName, propName)
			} else {
				call = fmt.Sprintf("Call<%s>(this, \"get_%s\"", propType, propName)
			}
			e.Line("get => Il2CppRuntime.%s, global::System.Type.EmptyTypes);", call)
		}
		if pair.setter != nil {
			typeArr := fmt.Sprintf("new[] { typeof(%s) }", propType)
			var call string
			if unicodeProp && pair.setter.NativeAddress != "" {
				if isStatic {
					call = "InvokeStaticVoidByRva(" + pair.setter.NativeAddress
				} else {
					call = "InvokeVoidByRva(this, " + pair.setter.NativeAddress
				}
			} else if isStatic {
				call = fmt.Sprintf("InvokeStaticVoid(\"%s\", \"%s\", \"set_%s\"", originalNS, originalClassName, propName)
			} else {
				call = fmt.Sprintf("InvokeVoid(this, \"set_%s\"", propName)
			}
			e.Line("set => Il2CppRuntime.%s, %s, value);", call, typeArr)
		}
		e.EndBlock()
		e.Blank()
	}
	e.Blank()
	return used
}

// generateMethods emits the remaining valid methods, deduplicated by
// (display name, parameter type signature), with forwarding bodies.
func (g *Generator) generateMethods(e *Emitter, t *metadata.TypeDeclaration, ns, originalNS, originalClassName string, imported map[string]bool, used map[string]bool) {
	type dedupKey struct {
		name string
		sig  string
	}
	seenSignatures := make(map[dedupKey]bool)
	var deduped []*metadata.MethodDeclaration

	for i := range t.Methods {
		m := &t.Methods[i]
		if m.Visibility != "public" || used[m.Name] {
			continue
		}
		if !g.res.IsValidMethod(m) {
			if m.Name != ".ctor" && m.Name != ".cctor" {
				g.diags.Exclude(diagnostic.CategoryMemberRejected, ns, t.Name+"."+m.Name, "signature is not representable")
			}
			continue
		}
		var sigName string
		if ident.IsUnrepresentable(m.Name) {
			if m.NativeAddress == "" {
				g.diags.Exclude(diagnostic.CategoryMemberRejected, ns, t.Name+"."+m.Name, "obfuscated method has no native address")
				continue
			}
			// Encode the address so distinct obfuscated methods never
			// collapse into one signature.
			sigName = "__unicode_method_rva_" + m.NativeAddress + "__"
		} else {
			var ok bool
			sigName, ok = ident.Sanitize(m.Name)
			if !ok {
				continue
			}
		}
		var sigParts []string
		for j := range m.Parameters {
			p := &m.Parameters[j]
			if ident.IsGenericParam(p.Type) {
				sigParts = append(sigParts, "object")
				continue
			}
			mapped, _ := g.res.MapType(p.Type, ns, imported)
			sigParts = append(sigParts, mapped)
		}
		// Mapped types can carry commas from generic expansion; NUL keeps
		// parameter boundaries unambiguous in the joined key.
		key := dedupKey{name: sigName, sig: strings.Join(sigParts, "\x00")}
		if seenSignatures[key] {
			continue
		}
		seenSignatures[key] = true
		deduped = append(deduped, m)
	}
	if len(deduped) == 0 {
		return
	}

	e.Line("// Methods")
	unicodeMethodCounter := 0
	for _, m := range deduped {
		originalMethodName := m.Name
		unicodeMethod := ident.IsUnrepresentable(m.Name)
		useRva := false
		var methodName string

		friendly, deob := g.maps.MemberFriendly(t.Name, m.Name)
		switch {
		case deob:
			methodName = friendly
		case unicodeMethod:
			unicodeMethodCounter++
			methodName = fmt.Sprintf("unicode_method_%d", unicodeMethodCounter)
			useRva = true
		default:
			var ok bool
			methodName, ok = ident.Sanitize(m.Name)
			if !ok {
				continue
			}
		}

		genericParams := registry.GenericParams(m)
		isGeneric := len(genericParams) > 0
		typeParamsClause := ""
		if isGeneric {
			typeParamsClause = "<" + strings.Join(genericParams, ", ") + ">"
		}

		returnType := m.ReturnType
		if !ident.IsGenericParam(m.ReturnType) {
			returnType, _ = g.res.MapType(m.ReturnType, ns, imported)
			returnType = g.res.Qualify(returnType, ns, imported)
		}

		var paramParts, paramNames, paramTypeItems []string
		for idx := range m.Parameters {
			p := &m.Parameters[idx]
			modPrefix := ""
			if p.Modifier != "" {
				modPrefix = p.Modifier + " "
			}
			ptype := p.Type
			if !ident.IsGenericParam(p.Type) {
				ptype, _ = g.res.MapType(p.Type, ns, imported)
				ptype = g.res.Qualify(ptype, ns, imported)
			}
			pname, ok := ident.Sanitize(p.Name)
			if !ok {
				pname = fmt.Sprintf("arg%d", idx)
			}
			paramParts = append(paramParts, modPrefix+ptype+" "+pname)
			paramNames = append(paramNames, pname)
			if ident.IsGenericParam(p.Type) {
				paramTypeItems = append(paramTypeItems, fmt.Sprintf("typeof(%s)", strings.TrimRight(p.Type, "[]")))
			} else {
				paramTypeItems = append(paramTypeItems, fmt.Sprintf("typeof(%s)", ptype))
			}
		}
		paramList := strings.Join(paramParts, ", ")
		paramTypesDecl := "global::System.Type.EmptyTypes"
		if len(paramTypeItems) > 0 {
			paramTypesDecl = "new Type[] { " + strings.Join(paramTypeItems, ", ") + " }"
		}
		argsSuffix := ""
		if len(paramNames) > 0 {
			argsSuffix = ", " + strings.Join(paramNames, ", ")
		}

		if deob {
			e.Line("/// <summary>Deobfuscated method. IL2CPP name: '%s'</summary>", originalMethodName)
		} else if useRva {
			e.Line("/// <summary>Obfuscated method. Original name: %q, RVA: %s</summary>", originalMethodName, m.NativeAddress)
		}

		staticKeyword := ""
		if m.IsStatic {
			staticKeyword = "static "
		}
		e.Block("%s %s%s %s%s(%s)", m.Visibility, staticKeyword, returnType, methodName, typeParamsClause, paramList)

		isVoid := returnType == "void"
		switch {
		case isGeneric:
			// IL2CPP needs concrete instantiation; a callable stub would
			// lie about what the runtime can do.
			e.Line("throw new System.NotImplementedException(\"Generic method %s%s requires IL2CPP generic instantiation\");", methodName, typeParamsClause)
		case useRva:
			prefix := m.NativeAddress
			if !m.IsStatic {
				prefix = "this, " + m.NativeAddress
			}
			if isVoid {
				call := "InvokeVoidByRva"
				if m.IsStatic {
					call = "InvokeStaticVoidByRva"
				}
				e.Line("Il2CppRuntime.%s(%s, %s%s);", call, prefix, paramTypesDecl, argsSuffix)
			} else {
				call := fmt.Sprintf("CallByRva<%s>", returnType)
				if m.IsStatic {
					call = fmt.Sprintf("CallStaticByRva<%s>", returnType)
				}
				e.Line("return Il2CppRuntime.%s(%s, %s%s);", call, prefix, paramTypesDecl, argsSuffix)
			}
		default:
			if isVoid {
				if m.IsStatic {
					e.Line("Il2CppRuntime.InvokeStaticVoid(\"%s\", \"%s\", \"%s\", %s%s);", originalNS, originalClassName, originalMethodName, paramTypesDecl, argsSuffix)
				} else {
					e.Line("Il2CppRuntime.InvokeVoid(this, \"%s\", %s%s);", originalMethodName, paramTypesDecl, argsSuffix)
				}
			} else {
				if m.IsStatic {
					e.Line("return Il2CppRuntime.CallStatic<%s>(\"%s\", \"%s\", \"%s\", %s%s);", returnType, originalNS, originalClassName, originalMethodName, paramTypesDecl, argsSuffix)
				} else {
					e.Line("return Il2CppRuntime.Call<%s>(this, \"%s\", %s%s);", returnType, originalMethodName, paramTypesDecl, argsSuffix)
				}
			}
		}
		e.EndBlock()
		e.Blank()
	}
}
