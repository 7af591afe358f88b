package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOutput(t *testing.T) {
	cfg := Default()
	if cfg.Output.NamespacePrefix != "GameSDK" {
		t.Errorf("NamespacePrefix = %q", cfg.Output.NamespacePrefix)
	}
	if cfg.Output.OutputDirectory != "MDB_Core/Generated" {
		t.Errorf("OutputDirectory = %q", cfg.Output.OutputDirectory)
	}
	if cfg.Output.FilePrefix != "GameSDK" {
		t.Errorf("FilePrefix = %q", cfg.Output.FilePrefix)
	}
	if !cfg.AutoDetect.Enabled {
		t.Error("auto-detection should default on")
	}
}

func TestSkipNamespaceUniversal(t *testing.T) {
	cfg := Default()
	for _, ns := range []string{"System", "System.Collections.Generic", "Mono.Security", "Internal.Runtime", "Microsoft.Win32", "UnityEngineInternal"} {
		if !cfg.SkipNamespace(ns) {
			t.Errorf("SkipNamespace(%q) = false, want true", ns)
		}
	}
	for _, ns := range []string{"Game.Core", "UnityEngine", "Global", ""} {
		if cfg.SkipNamespace(ns) {
			t.Errorf("SkipNamespace(%q) = true, want false", ns)
		}
	}
}

func TestSkipBaseTypeDefaults(t *testing.T) {
	cfg := Default()
	for _, base := range []string{"MulticastDelegate", "Attribute", "Exception", "ValueType"} {
		if !cfg.SkipBaseType(base) {
			t.Errorf("SkipBaseType(%q) = false, want true", base)
		}
	}
	if cfg.SkipBaseType("MonoBehaviour") {
		t.Error("MonoBehaviour must stay inheritable")
	}
}

func TestNestedEnumNames(t *testing.T) {
	cfg := Default()
	if !cfg.NestedEnumName("Mode") || !cfg.NestedEnumName("Type") {
		t.Error("short nested enum names should be skipped")
	}
	if cfg.NestedEnumName("DamageKind") {
		t.Error("DamageKind is not a nested enum name")
	}
}

func TestLoadCustomLists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generator_config.json")
	content := `{
		"output": {"namespace_prefix": "MySDK", "output_directory": "Out", "file_prefix": "My"},
		"auto_detect_third_party": {"enabled": true, "patterns": ["DG", "Newtonsoft"]},
		"skip_namespaces": {"custom": ["Game.Internal"]},
		"skip_namespace_prefixes": {"custom": ["Vendor."]},
		"skip_types": {"custom": ["Bootstrap"]},
		"skip_base_types": {"custom": ["CustomBase"]},
		"skip_nested_enum_names": {"custom": ["Phase"]}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)
	if cfg.Output.NamespacePrefix != "MySDK" || cfg.Output.FilePrefix != "My" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if !cfg.SkipNamespace("Game.Internal") {
		t.Error("custom namespace skip not applied")
	}
	if !cfg.SkipNamespace("Vendor.Analytics") {
		t.Error("custom prefix skip not applied")
	}
	if !cfg.SkipType("Bootstrap") {
		t.Error("custom type skip not applied")
	}
	if !cfg.SkipBaseType("CustomBase") || !cfg.SkipBaseType("MulticastDelegate") {
		t.Error("base-type skips must merge defaults with custom entries")
	}
	if !cfg.NestedEnumName("Phase") || !cfg.NestedEnumName("Mode") {
		t.Error("nested-enum skips must merge defaults with custom entries")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.Output.NamespacePrefix != "GameSDK" {
		t.Errorf("NamespacePrefix = %q, want default", cfg.Output.NamespacePrefix)
	}
}

func TestLoadFillsEmptyOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generator_config.json")
	if err := os.WriteFile(path, []byte(`{"output": {"namespace_prefix": "OnlyPrefix"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Load(path)
	if cfg.Output.NamespacePrefix != "OnlyPrefix" {
		t.Errorf("NamespacePrefix = %q", cfg.Output.NamespacePrefix)
	}
	if cfg.Output.OutputDirectory != "MDB_Core/Generated" || cfg.Output.FilePrefix != "GameSDK" {
		t.Errorf("unset output fields must fall back: %+v", cfg.Output)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}

	cfg = Default()
	cfg.Output.FilePrefix = "bad/prefix"
	if err := cfg.Validate(); err == nil {
		t.Error("path separator in file_prefix must fail validation")
	}

	cfg = Default()
	cfg.Output.NamespacePrefix = "Game SDK"
	if err := cfg.Validate(); err == nil {
		t.Error("space in namespace_prefix must fail validation")
	}

	cfg = Default()
	cfg.AutoDetect.Patterns = []string{"DG", ""}
	if err := cfg.Validate(); err == nil {
		t.Error("empty auto-detection pattern must fail validation")
	}
}

func TestDetectThirdParty(t *testing.T) {
	cfg := Default()
	cfg.AutoDetect.Patterns = []string{"DG", "Newtonsoft.Json"}
	detected := cfg.DetectThirdParty([]string{
		"DG", "DG.Tweening", "DG.Tweening.Core",
		"Newtonsoft.Json", "Newtonsoft.JsonX",
		"Game.Core", "",
	})
	for _, ns := range []string{"DG", "DG.Tweening", "DG.Tweening.Core", "Newtonsoft.Json"} {
		if !detected[ns] {
			t.Errorf("%q should be detected", ns)
		}
	}
	if detected["Newtonsoft.JsonX"] {
		t.Error("pattern must match whole segments only")
	}
	if detected["Game.Core"] {
		t.Error("Game.Core must not be detected")
	}

	cfg.AutoDetect.Enabled = false
	if len(cfg.DetectThirdParty([]string{"DG"})) != 0 {
		t.Error("detection must be off when disabled")
	}
}
