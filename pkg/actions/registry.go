package actions

import (
	"errors"
	"fmt"
	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	"sort"
	"strings"
	"sync"
)

var (
	ErrAlreadyRegistered = errors.New("already registered")
	ErrUnknownAction     = errors.New("unknown action")
	ErrMissingInput      = errors.New("missing input")
)

// Input describes one input field of an action.
type Input struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

type entry struct {
	spec   Spec
	inputs []Input
}

// Registry maps action names to their specs. It is populated explicitly at
// start up and is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]entry{}}
}

// Register adds spec under spec.Name. Names are unique.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" || spec.New == nil {
		return fmt.Errorf("register: name and constructor are required")
	}
	inputs, err := describeInputs(spec.New())
	if err != nil {
		return fmt.Errorf("register %s: %w", spec.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[spec.Name]; ok {
		return fmt.Errorf("action %s %w", spec.Name, ErrAlreadyRegistered)
	}
	r.entries[spec.Name] = entry{spec: spec, inputs: inputs}
	return nil
}

// MustRegister is Register that panics, for start up wiring.
func (r *Registry) MustRegister(specs ...Spec) {
	for _, s := range specs {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Lookup(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.spec, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Specs returns a copy of the registered specs sorted by name.
func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Spec, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Inputs returns the input fields of a registered action.
func (r *Registry) Inputs(name string) []Input {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Input(nil), r.entries[name].inputs...)
}

// Build creates a fresh action and decodes inputs onto it. Inputs that are
// absent or null keep their defaults; required inputs must be present.
func (r *Registry) Build(name string, inputs map[string]any) (Action, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	present := make(map[string]any, len(inputs))
	for k, v := range inputs {
		if v != nil {
			present[k] = v
		}
	}
	for _, in := range e.inputs {
		if _, ok := present[in.Name]; in.Required && !ok {
			return nil, fmt.Errorf("%s: %w %q", name, ErrMissingInput, in.Name)
		}
	}

	a := e.spec.New()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           a,
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}
	if err := decoder.Decode(present); err != nil {
		return nil, fmt.Errorf("decode %s inputs: %w", name, err)
	}
	return a, nil
}

// Describe returns the planner-facing description of a registered action.
func (r *Registry) Describe(name string) string {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return ""
	}

	var inputs []string
	for _, in := range e.inputs {
		inputs = append(inputs, fmt.Sprintf("- %s: %s - %s", in.Name, in.Type, in.Description))
	}
	inputDesc := "No inputs required"
	if len(inputs) > 0 {
		inputDesc = strings.Join(inputs, "\n")
	}

	return strings.TrimSpace(fmt.Sprintf("Action: %s\n\nDescription:\n%s\n\nInputs:\n%s",
		e.spec.Name, strings.TrimSpace(e.spec.Description), inputDesc))
}

// DescribeAll joins the descriptions of every registered action.
func (r *Registry) DescribeAll() string {
	var out []string
	for _, s := range r.Specs() {
		out = append(out, r.Describe(s.Name))
	}
	return strings.Join(out, "\n\n")
}

// Summary is the one line form used by the step-by-step planner.
func (s Spec) Summary() string {
	return fmt.Sprintf("%s - %s", s.Name, strings.TrimSpace(s.Description))
}

// SummarizeAll lists every action's Summary, each followed by its input names.
func (r *Registry) SummarizeAll() string {
	var out []string
	for _, s := range r.Specs() {
		line := s.Summary()
		var names []string
		for _, in := range r.Inputs(s.Name) {
			names = append(names, fmt.Sprintf("%s (%s)", in.Name, in.Type))
		}
		if len(names) > 0 {
			line += "\n  Inputs: " + strings.Join(names, ", ")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func describeInputs(a Action) ([]Input, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(a)
	if schema == nil {
		return nil, errors.New("no schema")
	}

	required := map[string]bool{}
	for _, name := range schema.Required {
		required[name] = true
	}

	var inputs []Input
	if schema.Properties == nil {
		return inputs, nil
	}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		inputs = append(inputs, Input{
			Name:        pair.Key,
			Type:        schemaType(pair.Value),
			Description: pair.Value.Description,
			Required:    required[pair.Key],
		})
	}
	return inputs, nil
}

func schemaType(s *jsonschema.Schema) string {
	if s == nil || s.Type == "" {
		return "any"
	}
	if s.Type == "array" && s.Items != nil && s.Items.Type != "" {
		return "array of " + s.Items.Type
	}
	return s.Type
}
