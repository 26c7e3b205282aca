// Package research holds simulated research actions. They return fixed,
// deterministic results and never touch the network.
package research

import (
	"context"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"time"
)

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type Entity struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type WebSearch struct {
	Query      string `json:"query" jsonschema:"required" jsonschema_description:"Search query"`
	NumResults int    `json:"num_results,omitempty" jsonschema_description:"Number of results to return"`
}

func (w *WebSearch) Execute(context.Context, actions.Env) (any, error) {
	results := []SearchResult{
		{Title: "Example Result 1", URL: "https://example.com/1", Snippet: "This is an example search result."},
		{Title: "Example Result 2", URL: "https://example.com/2", Snippet: "Another example search result."},
	}
	if w.NumResults >= 0 && w.NumResults < len(results) {
		results = results[:w.NumResults]
	}
	return results, nil
}

type FetchWebContent struct {
	URL string `json:"url" jsonschema:"required" jsonschema_description:"URL to fetch content from"`
}

func (f *FetchWebContent) Execute(context.Context, actions.Env) (any, error) {
	return "This is example web content that would be fetched from the URL.", nil
}

type ExtractEntities struct {
	Text string `json:"text" jsonschema:"required" jsonschema_description:"Text to extract entities from"`
}

func (e *ExtractEntities) Execute(context.Context, actions.Env) (any, error) {
	return []Entity{
		{Type: "PERSON", Text: "John Smith"},
		{Type: "ORG", Text: "Acme Corp"},
		{Type: "LOC", Text: "New York"},
	}, nil
}

type GenerateReport struct {
	Entities []Entity `json:"entities" jsonschema:"required" jsonschema_description:"Entities to include in report"`
	Style    string   `json:"style,omitempty" jsonschema_description:"Report style (formal/casual)"`
}

func (g *GenerateReport) Execute(context.Context, actions.Env) (any, error) {
	return "This is an example report summarizing the extracted entities.", nil
}

// Register adds the research actions to r.
func Register(r *actions.Registry) error {
	specs := []actions.Spec{
		{
			Name:              "WebSearch",
			Description:       "Perform a web search.",
			EstimatedDuration: 2 * time.Second,
			New:               func() actions.Action { return &WebSearch{NumResults: 5} },
		},
		{
			Name:              "FetchWebContent",
			Description:       "Fetch the content of a web page.",
			EstimatedDuration: 2 * time.Second,
			New:               func() actions.Action { return &FetchWebContent{} },
		},
		{
			Name:              "ExtractEntities",
			Description:       "Extract named entities from text.",
			EstimatedDuration: time.Second,
			New:               func() actions.Action { return &ExtractEntities{} },
		},
		{
			Name:              "GenerateReport",
			Description:       "Generate a report from entities.",
			EstimatedDuration: 5 * time.Second,
			New:               func() actions.Action { return &GenerateReport{Style: "formal"} },
		},
	}
	for _, s := range specs {
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}
