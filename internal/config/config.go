// Package config holds the generator configuration. Universal skip sets
// (framework namespaces present in every IL2CPP dump) are built in;
// game-specific additions are loaded from generator_config.json.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-json-experiment/json"
)

// universalSkipNamespaces exist in every dump regardless of game or Unity
// version and never produce wrappers.
var universalSkipNamespaces = map[string]bool{
	// .NET Framework / CoreCLR
	"System": true, "System.Collections": true,
	"System.Collections.Generic": true, "System.IO": true,
	"System.Text": true, "System.Threading": true,
	"System.Threading.Tasks": true, "System.Linq": true,
	"System.Linq.Expressions": true, "System.Reflection": true,
	"System.Runtime": true, "System.Runtime.CompilerServices": true,
	"System.Runtime.InteropServices": true, "System.Diagnostics": true,
	"System.Globalization": true, "System.Security": true,
	"System.ComponentModel": true, "System.Net": true, "System.Xml": true,
	// Mono runtime
	"Mono": true, "mscorlib": true,
	// Internal namespaces
	"Internal": true, "Microsoft": true,
	// Unity internal (not public API)
	"UnityEngine.Internal": true, "UnityEngineInternal": true,
}

var universalSkipPrefixes = []string{
	"System.",
	"Mono.",
	"Internal.",
	"Microsoft.",
}

// defaultSkipBaseTypes are base types the generator cannot inherit from:
// no IntPtr constructor pattern, sealed/abstract framework types, or types
// whose abstract members cannot be stubbed. Custom entries from the config
// file are appended to these.
var defaultSkipBaseTypes = []string{
	"MulticastDelegate", "Delegate", "Enum", "ValueType", "Array",
	"Attribute", "Exception", "ApplicationException", "SystemException",
	"EventArgs", "ArrayList", "Hashtable", "Dictionary",
	"SynchronizationContext", "PropertyDescriptor", "MemberDescriptor",
	"TypeConverter", "SerializationBinder", "Stream", "MemoryStream",
	"PropertyAttribute", "PreserveAttribute", "UnityException",
	"InputDevice", "Pointer", "Toggle", "Sensor", "UxmlTraits",
	"UxmlFactory", "JsonContainerAttribute", "JsonException",
	"MaterialReference", "Match", "Capture", "Group",
	"unitytls_tlsctx_read_callback", "unitytls_tlsctx_write_callback",
	"CaptureResultType", "AssetReferenceUIRestriction", "Space", "Action",
}

// defaultNestedEnumNames are short generic enum names that are almost
// always nested enums in the dump; hoisting them to namespace scope
// collides across unrelated parent types.
var defaultNestedEnumNames = []string{
	"Type", "Direction", "Mode", "Status", "Button", "Flags", "Axis",
	"Sign", "Unit", "State", "Kind", "Options", "Result", "Action",
	"Event", "Value", "Index", "UpdateMode", "CaptureResultType",
	"ContentType", "InputType", "CharacterValidation", "LineType",
	"WorldUpType", "FpsCounterAnchorPositions",
}

// Config is the full generator configuration.
type Config struct {
	Output     OutputConfig     `json:"output"`
	AutoDetect AutoDetectConfig `json:"auto_detect_third_party"`

	// Game-specific additions to the universal skip sets.
	SkipNamespaces      CustomList `json:"skip_namespaces"`
	SkipNamespacePrefix CustomList `json:"skip_namespace_prefixes"`
	SkipTypes           CustomList `json:"skip_types"`
	SkipBaseTypes       CustomList `json:"skip_base_types"`
	SkipNestedEnumNames CustomList `json:"skip_nested_enum_names"`

	skipNamespaceSet map[string]bool
	skipTypeSet      map[string]bool
	skipBaseTypeSet  map[string]bool
	nestedEnumSet    map[string]bool
	skipPrefixes     []string
}

// OutputConfig controls where and under what names files are emitted.
type OutputConfig struct {
	NamespacePrefix string `json:"namespace_prefix"`
	OutputDirectory string `json:"output_directory"`
	FilePrefix      string `json:"file_prefix"`
}

// AutoDetectConfig controls third-party namespace auto-detection.
type AutoDetectConfig struct {
	Enabled  bool     `json:"enabled"`
	Patterns []string `json:"patterns"`
}

// CustomList mirrors the {"custom": [...]} shape of the config file.
type CustomList struct {
	Custom []string `json:"custom"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Output: OutputConfig{
			NamespacePrefix: "GameSDK",
			OutputDirectory: "MDB_Core/Generated",
			FilePrefix:      "GameSDK",
		},
		AutoDetect: AutoDetectConfig{Enabled: true},
	}
	cfg.buildSets()
	return cfg
}

// Load reads generator_config.json from path. A missing or unparsable file
// degrades to the built-in defaults with a notice on stderr; configuration
// failures are never fatal.
func Load(path string) *Config {
	cfg := Default()
	if path == "" {
		fmt.Fprintln(os.Stderr, "[config] no generator_config.json found, using defaults")
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[config] could not read %s: %v, using defaults\n", path, err)
		return cfg
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "[config] could not parse %s: %v, using defaults\n", path, err)
		return Default()
	}
	if cfg.Output.NamespacePrefix == "" {
		cfg.Output.NamespacePrefix = "GameSDK"
	}
	if cfg.Output.OutputDirectory == "" {
		cfg.Output.OutputDirectory = "MDB_Core/Generated"
	}
	if cfg.Output.FilePrefix == "" {
		cfg.Output.FilePrefix = "GameSDK"
	}
	cfg.buildSets()
	return cfg
}

// Validate reports configuration values that cannot produce usable
// output. Loading already fills empty fields with defaults, so only
// actively broken values fail here.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.Output.FilePrefix, `/\`) {
		return fmt.Errorf("file_prefix %q must not contain path separators", c.Output.FilePrefix)
	}
	if strings.ContainsAny(c.Output.NamespacePrefix, " /\\") {
		return fmt.Errorf("namespace_prefix %q is not a valid namespace", c.Output.NamespacePrefix)
	}
	if c.AutoDetect.Enabled {
		for _, p := range c.AutoDetect.Patterns {
			if p == "" {
				return fmt.Errorf("auto_detect_third_party patterns must not be empty strings")
			}
		}
	}
	return nil
}

func (c *Config) buildSets() {
	c.skipNamespaceSet = make(map[string]bool, len(c.SkipNamespaces.Custom))
	for _, ns := range c.SkipNamespaces.Custom {
		c.skipNamespaceSet[ns] = true
	}
	c.skipPrefixes = append(append([]string{}, universalSkipPrefixes...), c.SkipNamespacePrefix.Custom...)
	c.skipTypeSet = make(map[string]bool, len(c.SkipTypes.Custom))
	for _, t := range c.SkipTypes.Custom {
		c.skipTypeSet[t] = true
	}
	c.skipBaseTypeSet = make(map[string]bool, len(defaultSkipBaseTypes)+len(c.SkipBaseTypes.Custom))
	for _, t := range defaultSkipBaseTypes {
		c.skipBaseTypeSet[t] = true
	}
	for _, t := range c.SkipBaseTypes.Custom {
		c.skipBaseTypeSet[t] = true
	}
	c.nestedEnumSet = make(map[string]bool, len(defaultNestedEnumNames)+len(c.SkipNestedEnumNames.Custom))
	for _, t := range defaultNestedEnumNames {
		c.nestedEnumSet[t] = true
	}
	for _, t := range c.SkipNestedEnumNames.Custom {
		c.nestedEnumSet[t] = true
	}
}

// SkipNamespace reports whether ns is excluded by the universal or custom
// namespace skip rules. Auto-detected third-party namespaces are handled
// by the registry, which owns the detection result.
func (c *Config) SkipNamespace(ns string) bool {
	if ns == "" {
		return false
	}
	if universalSkipNamespaces[ns] || c.skipNamespaceSet[ns] {
		return true
	}
	for _, prefix := range c.skipPrefixes {
		if strings.HasPrefix(ns, prefix) {
			return true
		}
	}
	return false
}

// SkipPrefixes returns the combined universal + custom prefix list.
func (c *Config) SkipPrefixes() []string {
	return c.skipPrefixes
}

// SkipType reports whether a bare type name is in the hard-skip set.
func (c *Config) SkipType(name string) bool {
	return c.skipTypeSet[name]
}

// SkipBaseType reports whether a type with this base type is ineligible.
func (c *Config) SkipBaseType(base string) bool {
	return c.skipBaseTypeSet[base]
}

// NestedEnumName reports whether an enum name is in the likely-nested-enum
// skip set.
func (c *Config) NestedEnumName(name string) bool {
	return c.nestedEnumSet[name]
}

// DetectThirdParty matches all observed namespaces against the configured
// auto-detection patterns. A namespace matches a pattern when it equals
// the pattern or lives under it. Runs once, before registry population.
func (c *Config) DetectThirdParty(namespaces []string) map[string]bool {
	detected := make(map[string]bool)
	if !c.AutoDetect.Enabled {
		return detected
	}
	for _, ns := range namespaces {
		if ns == "" {
			continue
		}
		for _, pattern := range c.AutoDetect.Patterns {
			if ns == pattern || strings.HasPrefix(ns, pattern+".") {
				detected[ns] = true
				break
			}
		}
	}
	return detected
}
