package codegen

import "sort"

// coreUnityNamespaces are always imported so wrapper references to engine
// types resolve without qualification.
var coreUnityNamespaces = []string{
	"UnityEngine", "UnityEngine.UI", "UnityEngine.Events",
	"UnityEngine.EventSystems", "UnityEngine.Rendering",
	"UnityEngine.SceneManagement", "UnityEngine.Audio", "UnityEngine.AI",
	"UnityEngine.Animations", "TMPro", "Unity.Mathematics",
}

// systemNamespaces cover the framework types member signatures commonly
// reference.
var systemNamespaces = []string{
	"System.Text", "System.IO", "System.Xml", "System.Reflection",
	"System.Globalization", "System.Runtime.Serialization",
	"System.Threading", "System.Threading.Tasks",
}

// alwaysImportedNamespaces is the fixed import surface every generated
// file sees. The Global bucket is absent: types there would shadow engine
// and framework names.
var alwaysImportedNamespaces = []string{
	"System", "System.Collections", "System.Collections.Generic",
	"System.Text", "System.IO", "System.Xml", "System.Reflection",
	"System.Globalization", "System.Runtime.Serialization",
	"System.Threading", "System.Threading.Tasks",
	"UnityEngine", "UnityEngine.UI", "UnityEngine.Events",
	"UnityEngine.EventSystems", "UnityEngine.Rendering",
	"UnityEngine.SceneManagement", "UnityEngine.Audio", "UnityEngine.AI",
	"UnityEngine.Animations", "TMPro",
}

// importedSet returns the namespaces accessible unqualified from any
// generated file, including the SDK namespace itself.
func importedSet(sdkNamespace string) map[string]bool {
	set := make(map[string]bool, len(alwaysImportedNamespaces)+1)
	for _, ns := range alwaysImportedNamespaces {
		set[ns] = true
	}
	set[sdkNamespace] = true
	return set
}

// writeUsings emits the using directives for one namespace file.
func writeUsings(e *Emitter, currentNS, sdkNamespace string) {
	e.Line("using System;")
	e.Line("using System.Collections;")
	e.Line("using System.Collections.Generic;")
	e.Line("using %s;", sdkNamespace)
	e.Blank()

	e.Line("// Core Unity namespace references")
	sorted := append([]string{}, coreUnityNamespaces...)
	sort.Strings(sorted)
	for _, ns := range sorted {
		if ns != currentNS {
			e.Line("using %s;", ns)
		}
	}
	e.Blank()

	e.Line("// System namespaces for common types")
	for _, ns := range systemNamespaces {
		e.Line("using %s;", ns)
	}
	e.Blank()
}
