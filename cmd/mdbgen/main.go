package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/kong"

	"github.com/Zaclin-GIT/MDB/internal/codegen"
	"github.com/Zaclin-GIT/MDB/internal/config"
	"github.com/Zaclin-GIT/MDB/internal/diagnostic"
	"github.com/Zaclin-GIT/MDB/internal/mappings"
	"github.com/Zaclin-GIT/MDB/internal/parser"
	"github.com/Zaclin-GIT/MDB/internal/registry"
)

var cli struct {
	Dump         string `arg:"" optional:"" default:"dump.cs" help:"Il2CppDumper metadata dump file" type:"path"`
	Config       string `help:"Generator configuration file" default:"generator_config.json" type:"path"`
	Mappings     string `help:"Deobfuscation mapping file" default:"deobfuscation_mappings.json" type:"path"`
	Output       string `help:"Override the configured output directory" type:"path"`
	ListDetected bool   `name:"list-detected" help:"Print auto-detected third-party namespaces and exit"`
	Verbose      bool   `short:"v" help:"Print per-type exclusion diagnostics"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("mdbgen"),
		kong.Description("Generate C# Il2Cpp wrapper sources from an Il2CppDumper metadata dump"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(run())
}

func run() error {
	cfg := config.Load(cli.Config)
	if cli.Output != "" {
		cfg.Output.OutputDirectory = cli.Output
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	maps := mappings.Load(cli.Mappings)
	if n := maps.Len(); n > 0 {
		fmt.Fprintf(os.Stderr, "Loaded %d deobfuscation mappings\n", n)
	}

	f, err := os.Open(cli.Dump)
	if err != nil {
		return fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(os.Stderr, "Parsing %s...\n", cli.Dump)
	decls := parser.Parse(f)
	fmt.Fprintf(os.Stderr, "Parsed %d type declarations\n", len(decls))

	diags := diagnostic.NewCollector()
	reg := registry.Build(decls, cfg, maps, diags)

	if cli.ListDetected {
		detected := reg.DetectedThirdParty()
		if len(detected) == 0 {
			fmt.Println("No third-party namespaces detected")
			return nil
		}
		for _, ns := range detected {
			fmt.Println(ns)
		}
		return nil
	}

	fmt.Fprintf(os.Stderr, "Registered %d types (%d eligible for generation)\n", reg.TypeCount(), reg.GeneratedCount())
	if detected := reg.DetectedThirdParty(); len(detected) > 0 {
		fmt.Fprintf(os.Stderr, "Auto-detected %d third-party namespaces\n", len(detected))
	}

	gen := codegen.New(cfg, maps, reg, diags)
	files := gen.Generate(decls)

	paths, err := gen.WriteFiles(cfg.Output.OutputDirectory, files)
	if err != nil {
		return err
	}

	written := make([]string, 0, len(paths))
	for ns := range paths {
		written = append(written, ns)
	}
	sort.Strings(written)
	for _, ns := range written {
		fmt.Fprintf(os.Stderr, "  %s -> %s\n", ns, paths[ns])
	}
	fmt.Fprintf(os.Stderr, "Generated %d wrapper files in %s\n", len(paths), cfg.Output.OutputDirectory)

	if cli.Verbose && diags.Count() > 0 {
		fmt.Fprint(os.Stderr, diags.FormatAll())
	}
	fmt.Fprintf(os.Stderr, "Exclusions: %s\n", diags.Summary())
	return nil
}
