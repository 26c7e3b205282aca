package code

import (
	"context"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/llm"
	"github.com/MagicOwO/pipo-agent/pkg/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

const fibonacci = `package fib

import (
	"fmt"
	"os/exec"
)

type Seq []int

func (s *Seq) Len() int { return len(*s) }

func Fibonacci(n int) Seq {
	if n <= 0 {
		return nil
	}
	fib := Seq{0, 1}
	for i := 2; i < n; i++ {
		fib = append(fib, fib[i-1]+fib[i-2])
	}
	return fib[:n]
}

func main() {
	fmt.Println(Fibonacci(10))
	_ = exec.Command
}
`

func TestAnalyze(t *testing.T) {
	a, err := Analyze(fibonacci, "")
	require.NoError(t, err)
	assert.Equal(t, "fib", a.Package)
	assert.Equal(t, []string{"fmt", "os/exec"}, a.Imports)
	assert.Equal(t, []string{"Seq.Len", "Fibonacci", "main"}, a.Functions)
	assert.Equal(t, []string{"Seq"}, a.Types)
	assert.Equal(t, Complexity{Lines: 26, Functions: 3, Types: 1}, a.Complexity)
	assert.Empty(t, a.Spans)
	assert.Empty(t, a.Findings)
}

func TestAnalyze_Detailed(t *testing.T) {
	a, err := Analyze(fibonacci, AnalysisDetailed)
	require.NoError(t, err)
	require.Len(t, a.Spans, 3)
	assert.Equal(t, FunctionSpan{Name: "Seq.Len", StartLine: 10, EndLine: 10}, a.Spans[0])
	assert.Equal(t, 12, a.Spans[1].StartLine)
}

func TestAnalyze_Security(t *testing.T) {
	a, err := Analyze(fibonacci, AnalysisSecurity)
	require.NoError(t, err)
	require.Len(t, a.Findings, 1)
	assert.Equal(t, "os/exec", a.Findings[0].Import)
}

func TestAnalyze_Snippet(t *testing.T) {
	a, err := Analyze("func Add(a, b int) int {\n\treturn a + b\n}", AnalysisDetailed)
	require.NoError(t, err)
	assert.Equal(t, "main", a.Package)
	assert.Equal(t, []string{"Add"}, a.Functions)
	assert.Equal(t, 1, a.Spans[0].StartLine)
	assert.Equal(t, 3, a.Spans[0].EndLine)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := Analyze("this is not go", "")
	assert.Error(t, err)

	_, err = Analyze(fibonacci, "paranoid")
	assert.Error(t, err)
}

func newRegistry(t *testing.T) *actions.Registry {
	r := actions.NewRegistry()
	require.NoError(t, Register(r))
	return r
}

func TestRegister(t *testing.T) {
	r := newRegistry(t)
	for _, name := range []string{"ParseCode", "TransformCode", "GenerateTests", "OptimizeCode", "GenerateDocumentation"} {
		assert.True(t, r.Has(name), name)
	}
	assert.Contains(t, r.Describe("ParseCode"), "- code: string - Source code to parse")
	assert.ErrorIs(t, Register(r), actions.ErrAlreadyRegistered)
}

func TestParseCode_Execute(t *testing.T) {
	a, err := newRegistry(t).Build("ParseCode", map[string]any{"code": fibonacci})
	require.NoError(t, err)
	out, err := a.Execute(context.Background(), actions.Env{})
	require.NoError(t, err)
	assert.Equal(t, "fib", out.(Analysis).Package)
}

func TestTransformCode_Execute(t *testing.T) {
	model := llmtest.New("```go\nfunc Fib() <-chan int { return nil }\n```")
	a, err := newRegistry(t).Build("TransformCode", map[string]any{
		"code":                fibonacci,
		"transformation_type": "generator",
		"parameters":          map[string]any{"style": "channels"},
	})
	require.NoError(t, err)

	out, err := a.Execute(context.Background(), actions.Env{LLM: llm.New(model)})
	require.NoError(t, err)
	assert.Equal(t, "func Fib() <-chan int { return nil }", out)

	prompt := model.Calls()[0]
	assert.Contains(t, prompt, "Type: generator")
	assert.Contains(t, prompt, `"style": "channels"`)
	assert.True(t, strings.Contains(prompt, "func Fibonacci(n int) Seq"))
}

func TestGenerateTests_Defaults(t *testing.T) {
	model := llmtest.New("package fib\n")
	a, err := newRegistry(t).Build("GenerateTests", map[string]any{"code": "package fib"})
	require.NoError(t, err)
	_, err = a.Execute(context.Background(), actions.Env{LLM: llm.New(model)})
	require.NoError(t, err)
	assert.Contains(t, model.Calls()[0], "Generate testing tests")
	assert.Contains(t, model.Calls()[0], "\"functions\"")
}

func TestOptimizeCode_Execute(t *testing.T) {
	model := llmtest.New(`{"optimized_code": "package fib", "changes": ["preallocate"], "metrics": {"allocs": 1}}`)
	a, err := newRegistry(t).Build("OptimizeCode", map[string]any{"code": fibonacci, "optimization_goals": []any{"performance"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"performance"}, a.(*OptimizeCode).OptimizationGoals)

	out, err := a.Execute(context.Background(), actions.Env{LLM: llm.New(model)})
	require.NoError(t, err)
	opt := out.(Optimization)
	assert.Equal(t, "package fib", opt.OptimizedCode)
	assert.Equal(t, []string{"preallocate"}, opt.Changes)
}

func TestLLMActions_NoModel(t *testing.T) {
	for _, name := range []string{"TransformCode", "GenerateTests", "OptimizeCode", "GenerateDocumentation"} {
		a, err := newRegistry(t).Build(name, map[string]any{"code": "x", "transformation_type": "y"})
		require.NoError(t, err)
		_, err = a.Execute(context.Background(), actions.Env{})
		assert.ErrorIs(t, err, errNoLLM, name)
	}
}
