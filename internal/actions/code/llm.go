package code

import (
	"context"
	"errors"
	"fmt"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/data"
	"github.com/MagicOwO/pipo-agent/pkg/prompts"
	"time"
)

var errNoLLM = errors.New("no language model available")

type TransformCode struct {
	Code               string         `json:"code" jsonschema:"required" jsonschema_description:"Source code to transform"`
	TransformationType string         `json:"transformation_type" jsonschema:"required" jsonschema_description:"Type of transformation to apply"`
	Parameters         map[string]any `json:"parameters,omitempty" jsonschema_description:"Parameters for the transformation"`
}

func (t *TransformCode) Execute(ctx context.Context, env actions.Env) (any, error) {
	if env.LLM == nil {
		return nil, errNoLLM
	}
	out, err := env.LLM.Text(ctx, prompts.TransformCode, map[string]any{
		"code":                t.Code,
		"transformation_type": t.TransformationType,
		"parameters":          orEmpty(t.Parameters),
	})
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	return data.StripFences(out), nil
}

type GenerateTests struct {
	Code            string   `json:"code" jsonschema:"required" jsonschema_description:"Source code to generate tests for"`
	TestFramework   string   `json:"test_framework,omitempty" jsonschema_description:"Test framework to use"`
	CoverageTargets []string `json:"coverage_targets,omitempty" jsonschema_description:"What to generate tests for"`
}

func (g *GenerateTests) Execute(ctx context.Context, env actions.Env) (any, error) {
	if env.LLM == nil {
		return nil, errNoLLM
	}
	out, err := env.LLM.Text(ctx, prompts.GenerateTests, map[string]any{
		"code":             g.Code,
		"test_framework":   g.TestFramework,
		"coverage_targets": g.CoverageTargets,
	})
	if err != nil {
		return nil, fmt.Errorf("generate tests: %w", err)
	}
	return data.StripFences(out), nil
}

type OptimizeCode struct {
	Code              string         `json:"code" jsonschema:"required" jsonschema_description:"Source code to optimize"`
	OptimizationGoals []string       `json:"optimization_goals,omitempty" jsonschema_description:"Optimization objectives"`
	Constraints       map[string]any `json:"constraints,omitempty" jsonschema_description:"Optimization constraints"`
}

type Optimization struct {
	OptimizedCode string   `json:"optimized_code"`
	Changes       []string `json:"changes"`
	Metrics       any      `json:"metrics,omitempty"`
}

func (o *OptimizeCode) Execute(ctx context.Context, env actions.Env) (any, error) {
	if env.LLM == nil {
		return nil, errNoLLM
	}
	var out Optimization
	err := env.LLM.JSON(ctx, prompts.OptimizeCode, map[string]any{
		"code":               o.Code,
		"optimization_goals": o.OptimizationGoals,
		"constraints":        orEmpty(o.Constraints),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	return out, nil
}

type GenerateDocumentation struct {
	Code        string   `json:"code" jsonschema:"required" jsonschema_description:"Source code to document"`
	DocFormat   string   `json:"doc_format,omitempty" jsonschema_description:"Documentation style (godoc, markdown)"`
	DocSections []string `json:"doc_sections,omitempty" jsonschema_description:"Sections to document"`
}

func (g *GenerateDocumentation) Execute(ctx context.Context, env actions.Env) (any, error) {
	if env.LLM == nil {
		return nil, errNoLLM
	}
	out, err := env.LLM.Text(ctx, prompts.GenerateDocumentation, map[string]any{
		"code":         g.Code,
		"doc_format":   g.DocFormat,
		"doc_sections": g.DocSections,
	})
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	return data.StripFences(out), nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// Register adds the code actions to r.
func Register(r *actions.Registry) error {
	specs := []actions.Spec{
		{
			Name:              "ParseCode",
			Description:       "Parse and analyze input Go code: imports, functions, types and complexity.",
			EstimatedDuration: 100 * time.Millisecond,
			New:               func() actions.Action { return &ParseCode{AnalysisType: AnalysisBasic} },
		},
		{
			Name:              "TransformCode",
			Description:       "Transform input code according to specified rules.",
			EstimatedDuration: 10 * time.Second,
			New:               func() actions.Action { return &TransformCode{} },
		},
		{
			Name:              "GenerateTests",
			Description:       "Generate unit tests for input code.",
			EstimatedDuration: 10 * time.Second,
			New: func() actions.Action {
				return &GenerateTests{TestFramework: "testing", CoverageTargets: []string{"functions", "types"}}
			},
		},
		{
			Name:              "OptimizeCode",
			Description:       "Optimize input code for better performance or readability.",
			EstimatedDuration: 10 * time.Second,
			New: func() actions.Action {
				return &OptimizeCode{OptimizationGoals: []string{"performance", "readability"}}
			},
		},
		{
			Name:              "GenerateDocumentation",
			Description:       "Generate documentation for input code.",
			EstimatedDuration: 10 * time.Second,
			New: func() actions.Action {
				return &GenerateDocumentation{DocFormat: "godoc", DocSections: []string{"package", "types", "functions"}}
			},
		},
	}
	for _, s := range specs {
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}
