// Package parser turns the line-oriented text of an IL2CPP dump into an
// ordered list of type declarations. The format has no formal grammar:
// directive comments set the current assembly and namespace, type headers
// open brace-delimited bodies, and section marker comments classify the
// member lines that follow. Parsing is strictly best-effort: unrecognized
// lines are skipped and malformed input never produces an error.
package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/Zaclin-GIT/MDB/internal/metadata"
)

var (
	dllRe = regexp.MustCompile(`^//\s*Dll\s*:\s*(.+)$`)
	nsRe  = regexp.MustCompile(`^//\s*Namespace:\s*(.*)$`)

	headerRe = regexp.MustCompile(`^(public|internal|private)\s+` +
		`((?:sealed\s+|abstract\s+|static\s+)*)` +
		`(class|interface|enum|struct)\s+` +
		`(\S+)` +
		`(?:\s*:\s*(\S+))?`)

	propertyRe = regexp.MustCompile("^\\s*(public|internal|private)\\s+" +
		"([\\w.`\\[\\]]+)\\s+" +
		"(\\w+)\\s*" +
		"\\{([^}]*)\\}")

	methodRe = regexp.MustCompile("^\\s*(public|internal|private)\\s+" +
		"(static\\s+|virtual\\s+|override\\s+|abstract\\s+|sealed\\s+)?" +
		"([\\w.`\\[\\]]+)\\s+" +
		"(\\S+)\\s*" +
		"\\(([^)]*)\\)")

	paramRe = regexp.MustCompile(`^\s*(out|ref|in)?\s*([^ ]+)\s+([^ ]+)\s*$`)

	fieldRe = regexp.MustCompile("^\\s*(public|protected|internal|private)\\s+" +
		"(const\\s+)?" +
		"([\\w.`\\[\\]]+)\\s+" +
		"(\\w+)\\s*" +
		"(?:=\\s*([^;]+))?;")

	rvaRe = regexp.MustCompile(`RVA:\s*(0x[0-9A-Fa-f]+)`)
)

// Parse scans the whole dump and returns every type declaration it can
// recognize, in file order.
func Parse(r io.Reader) []metadata.TypeDeclaration {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	var decls []metadata.TypeDeclaration
	var currentLibrary, currentNamespace string

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if m := dllRe.FindStringSubmatch(line); m != nil {
			currentLibrary = strings.TrimSpace(m[1])
			continue
		}
		if m := nsRe.FindStringSubmatch(line); m != nil {
			// An empty value resets to "no namespace".
			currentNamespace = strings.TrimSpace(m[1])
			continue
		}
		if m := headerRe.FindStringSubmatch(line); m != nil {
			decl, end := parseType(lines, i, currentLibrary, currentNamespace, m)
			decls = append(decls, decl)
			i = end
			continue
		}
	}
	return decls
}

type section int

const (
	sectionNone section = iota
	sectionFields
	sectionProperties
	sectionMethods
)

// parseType scans one type body starting at the header line and returns
// the declaration together with the index of its closing line. Bodies left
// unterminated at EOF close at end-of-file.
func parseType(lines []string, start int, library, namespace string, header []string) (metadata.TypeDeclaration, int) {
	decl := metadata.TypeDeclaration{
		Library:    library,
		Namespace:  namespace,
		Kind:       metadata.Kind(header[3]),
		Name:       header[4],
		BaseType:   header[5],
		Visibility: header[1],
		IsSealed:   strings.Contains(header[2], "sealed"),
	}

	i := start
	depth := 0
	started := false
	for i < len(lines) {
		line := lines[i]
		if strings.ContainsRune(line, '{') {
			started = true
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth == 0 {
				// Empty body opened and closed on the same line.
				return decl, i
			}
			i++
			break
		}
		i++
	}
	if !started {
		return decl, len(lines) - 1
	}

	current := sectionNone
	pendingRVA := ""

	for ; i < len(lines); i++ {
		raw := lines[i]
		trimmed := strings.TrimSpace(raw)

		depth += strings.Count(raw, "{") - strings.Count(raw, "}")
		if depth <= 0 {
			return decl, i
		}

		switch {
		case strings.HasPrefix(trimmed, "// Fields"):
			current = sectionFields
			continue
		case strings.HasPrefix(trimmed, "// Properties"):
			current = sectionProperties
			continue
		case strings.HasPrefix(trimmed, "// Methods"):
			current = sectionMethods
			continue
		}

		switch current {
		case sectionFields:
			if m := fieldRe.FindStringSubmatch(trimmed); m != nil {
				f := metadata.FieldDeclaration{
					Name:       m[4],
					Type:       m[3],
					Visibility: m[1],
					IsConst:    m[2] != "",
				}
				if m[5] != "" {
					f.LiteralValue = strings.TrimSpace(m[5])
					f.HasLiteral = true
				}
				decl.Fields = append(decl.Fields, f)
			}

		case sectionProperties:
			if m := propertyRe.FindStringSubmatch(trimmed); m != nil {
				decl.Properties = append(decl.Properties, metadata.PropertyDeclaration{
					Name:       m[3],
					Type:       m[2],
					Visibility: m[1],
					HasGetter:  strings.Contains(m[4], "get;"),
					HasSetter:  strings.Contains(m[4], "set;"),
				})
			}

		case sectionMethods:
			if strings.HasPrefix(trimmed, "// RVA:") {
				// Attaches to the next method line only.
				if m := rvaRe.FindStringSubmatch(trimmed); m != nil {
					pendingRVA = m[1]
				} else {
					pendingRVA = ""
				}
				continue
			}
			if m := methodRe.FindStringSubmatch(trimmed); m != nil {
				method := metadata.MethodDeclaration{
					Name:          m[4],
					ReturnType:    m[3],
					IsStatic:      strings.TrimSpace(m[2]) == "static",
					Visibility:    m[1],
					NativeAddress: pendingRVA,
				}
				pendingRVA = ""
				for _, part := range strings.Split(m[5], ",") {
					part = strings.TrimSpace(part)
					if part == "" {
						continue
					}
					if p, ok := parseParameter(part); ok {
						method.Parameters = append(method.Parameters, p)
					}
				}
				decl.Methods = append(decl.Methods, method)
			}
		}
	}
	return decl, len(lines) - 1
}

// parseParameter decodes one "[modifier] TYPE NAME" token. A malformed
// "ref TYPE" pattern (no name) captures the modifier in the type slot; it
// is normalized with the NoName sentinel so validity checks reject the
// declaring method.
func parseParameter(token string) (metadata.ParameterDeclaration, bool) {
	m := paramRe.FindStringSubmatch(token)
	if m == nil {
		return metadata.ParameterDeclaration{}, false
	}
	p := metadata.ParameterDeclaration{Modifier: m[1], Type: m[2], Name: m[3]}
	if p.Type == "ref" || p.Type == "out" || p.Type == "in" {
		p.Modifier = p.Type
		p.Type = p.Name
		p.Name = metadata.NoName
	}
	return p, true
}
