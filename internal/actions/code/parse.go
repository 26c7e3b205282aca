package code

import (
	"context"
	"fmt"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

const (
	AnalysisBasic    = "basic"
	AnalysisDetailed = "detailed"
	AnalysisSecurity = "security"
)

var riskyImports = map[string]string{
	"os/exec":  "runs external processes",
	"unsafe":   "bypasses type safety",
	"syscall":  "raw system calls",
	"net/http": "network access",
	"plugin":   "loads code at runtime",
	"reflect":  "runtime reflection",
}

type ParseCode struct {
	Code         string `json:"code" jsonschema:"required" jsonschema_description:"Source code to parse"`
	AnalysisType string `json:"analysis_type,omitempty" jsonschema_description:"Type of analysis to perform (basic, detailed, security)"`
}

type Complexity struct {
	Lines     int `json:"lines"`
	Functions int `json:"functions"`
	Types     int `json:"types"`
}

type FunctionSpan struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

type Finding struct {
	Import string `json:"import"`
	Reason string `json:"reason"`
}

type Analysis struct {
	Package    string         `json:"package"`
	Imports    []string       `json:"imports"`
	Functions  []string       `json:"functions"`
	Types      []string       `json:"types"`
	Complexity Complexity     `json:"complexity"`
	Spans      []FunctionSpan `json:"spans,omitempty"`
	Findings   []Finding      `json:"findings,omitempty"`
}

func (p *ParseCode) Execute(_ context.Context, _ actions.Env) (any, error) {
	return Analyze(p.Code, p.AnalysisType)
}

// Analyze parses Go source and reports its imports, functions, types and size.
// Snippets without a package clause are parsed as package main.
func Analyze(src, analysisType string) (Analysis, error) {
	switch analysisType {
	case "":
		analysisType = AnalysisBasic
	case AnalysisBasic, AnalysisDetailed, AnalysisSecurity:
	default:
		return Analysis{}, fmt.Errorf("unknown analysis type %q", analysisType)
	}

	fset := token.NewFileSet()
	offset := 0
	file, err := parser.ParseFile(fset, "input.go", src, parser.SkipObjectResolution)
	if err != nil {
		file, err = parser.ParseFile(fset, "input.go", "package main\n"+src, parser.SkipObjectResolution)
		if err != nil {
			return Analysis{}, fmt.Errorf("parse: %w", err)
		}
		offset = 1
	}

	a := Analysis{
		Package:   file.Name.Name,
		Imports:   []string{},
		Functions: []string{},
		Types:     []string{},
	}
	for _, imp := range file.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		a.Imports = append(a.Imports, path)
	}

	ast.Inspect(file, func(n ast.Node) bool {
		switch d := n.(type) {
		case *ast.FuncDecl:
			name := d.Name.Name
			if d.Recv != nil && len(d.Recv.List) > 0 {
				name = receiverName(d.Recv.List[0].Type) + "." + name
			}
			a.Functions = append(a.Functions, name)
			if analysisType == AnalysisDetailed {
				a.Spans = append(a.Spans, FunctionSpan{
					Name:      name,
					StartLine: fset.Position(d.Pos()).Line - offset,
					EndLine:   fset.Position(d.End()).Line - offset,
				})
			}
		case *ast.TypeSpec:
			a.Types = append(a.Types, d.Name.Name)
		}
		return true
	})

	a.Complexity = Complexity{
		Lines:     len(strings.Split(strings.TrimRight(src, "\n"), "\n")),
		Functions: len(a.Functions),
		Types:     len(a.Types),
	}

	if analysisType == AnalysisSecurity {
		for _, imp := range a.Imports {
			if reason, ok := riskyImports[imp]; ok {
				a.Findings = append(a.Findings, Finding{Import: imp, Reason: reason})
			}
		}
	}
	return a, nil
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	}
	return "?"
}
