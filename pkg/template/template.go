package template

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

var cache sync.Map // text -> *template.Template

// Parse renders text with fields. Parsed templates are cached by their text.
func Parse(text string, fields any) (string, error) {
	tmpl, err := lookup(text)
	if err != nil {
		return "", err
	}
	var result bytes.Buffer
	if err := tmpl.Execute(&result, fields); err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}

	return result.String(), nil
}

func lookup(text string) (*template.Template, error) {
	if t, ok := cache.Load(text); ok {
		return t.(*template.Template), nil
	}
	t, err := template.New("").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	actual, _ := cache.LoadOrStore(text, t)
	return actual.(*template.Template), nil
}
