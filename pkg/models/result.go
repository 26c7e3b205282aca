package models

import (
	"fmt"
	"sort"
	"strings"
)

const rawOutputPreview = 100

// Result of executing a plan. Summary is either a string or a map.
type Result struct {
	Summary    any            `json:"summary"`
	RawOutputs map[string]any `json:"raw_outputs"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (r Result) Success() bool {
	return r.Error == ""
}

func (r Result) String() string {
	if !r.Success() {
		return "Error: " + r.Error
	}
	return "Success: " + r.summaryString()
}

// Text returns a detailed description of the result.
func (r Result) Text() string {
	if !r.Success() {
		return "Execution failed: " + r.Error
	}

	lines := []string{"Execution completed successfully."}

	lines = append(lines, "\nSummary:")
	if m, ok := r.Summary.(map[string]any); ok {
		for _, k := range sortedKeys(m) {
			lines = append(lines, fmt.Sprintf("  - %s: %v", k, m[k]))
		}
	} else {
		lines = append(lines, "  "+r.summaryString())
	}

	if len(r.RawOutputs) > 0 {
		lines = append(lines, "\nRaw Step Outputs:")
		for _, k := range sortedKeys(r.RawOutputs) {
			lines = append(lines, fmt.Sprintf("  - %s: %s...", k, truncate(fmt.Sprint(r.RawOutputs[k]), rawOutputPreview)))
		}
	}

	if len(r.Metadata) > 0 {
		lines = append(lines, "\nMetadata:")
		for _, k := range sortedKeys(r.Metadata) {
			lines = append(lines, fmt.Sprintf("  - %s: %v", k, r.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}

func (r Result) summaryString() string {
	switch s := r.Summary.(type) {
	case nil:
		return ""
	case string:
		return s
	case map[string]any:
		parts := make([]string, 0, len(s))
		for _, k := range sortedKeys(s) {
			parts = append(parts, fmt.Sprintf("%s: %v", k, s[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(s)
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
