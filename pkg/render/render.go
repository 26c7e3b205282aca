// Package render prints markdown to the terminal, styled when the output is a
// terminal and as-is otherwise.
package render

import (
	"fmt"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
	"io"
	"os"
)

type Renderer struct {
	out io.Writer
	md  *glamour.TermRenderer
}

func New(out io.Writer) *Renderer {
	r := &Renderer{out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		md, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
		if err == nil {
			r.md = md
		}
	}
	return r
}

// Styled reports whether output goes through glamour.
func (r *Renderer) Styled() bool { return r.md != nil }

func (r *Renderer) Markdown(text string) error {
	if r.md != nil {
		styled, err := r.md.Render(text)
		if err == nil {
			text = styled
		}
	}
	_, err := fmt.Fprintln(r.out, text)
	return err
}

// Section prints a level two heading followed by body.
func (r *Renderer) Section(title, body string) error {
	return r.Markdown(fmt.Sprintf("## %s\n\n%s", title, body))
}

// Code prints text as a fenced block.
func (r *Renderer) Code(lang, text string) error {
	return r.Markdown(fmt.Sprintf("```%s\n%s\n```", lang, text))
}
