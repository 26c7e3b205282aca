// Package docparse turns a pair of Word documents (an instruction and an
// input) into structured message tasks with the help of an LLM.
package docparse

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/prompts"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const OutputFile = "structured_content.txt"

type AudienceFilter struct {
	Operator string `json:"operator"` // lt or not_in
	Value    string `json:"value"`
}

type MessageTask struct {
	DayIndex       int              `json:"day_index"`
	SendTime       string           `json:"send_time"`
	AudienceFilter []AudienceFilter `json:"audience_filter"`
	MessageType    string           `json:"message_type"`
	MessageContent int              `json:"message_content"`
}

type StructuredContent struct {
	MessageTasks []MessageTask `json:"message_tasks"`
}

var ErrInvalidContent = errors.New("invalid structured content")

var (
	operators    = map[string]bool{"lt": true, "not_in": true}
	messageTypes = map[string]bool{"text": true, "image": true, "video": true, "voice": true}
)

func (c StructuredContent) Validate() error {
	for i, task := range c.MessageTasks {
		if !messageTypes[task.MessageType] {
			return fmt.Errorf("%w: task %d has message type %q", ErrInvalidContent, i, task.MessageType)
		}
		for _, f := range task.AudienceFilter {
			if !operators[f.Operator] {
				return fmt.Errorf("%w: task %d has filter operator %q", ErrInvalidContent, i, f.Operator)
			}
		}
	}
	return nil
}

// ReadDocument returns the text of a .docx file: paragraphs first, then the
// table cells, one per line.
func ReadDocument(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	defer doc.Close()

	return Text(doc.Editable().GetContent())
}

// Text extracts paragraph and table cell text from WordprocessingML. Cells
// are listed in document order; a nested table's cells follow the cell that
// holds them.
func Text(content string) (string, error) {
	var (
		paragraphs []string
		cells      []string
		para       strings.Builder
		open       []int
		buffers    [][]string
		runDepth   int
	)

	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tc":
				open = append(open, len(cells))
				cells = append(cells, "")
				buffers = append(buffers, nil)
			case "p":
				para.Reset()
			case "r":
				runDepth++
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return "", fmt.Errorf("decode text: %w", err)
				}
				para.WriteString(text)
			case "tab":
				// tab stops in paragraph properties share the element name
				if runDepth > 0 {
					para.WriteString("\t")
				}
			case "br":
				if runDepth > 0 {
					para.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				runDepth--
			case "tc":
				if len(open) == 0 {
					continue
				}
				last := len(open) - 1
				cells[open[last]] = strings.Join(buffers[last], "\n")
				open, buffers = open[:last], buffers[:last]
			case "p":
				if last := len(buffers) - 1; last >= 0 {
					buffers[last] = append(buffers[last], para.String())
				} else {
					paragraphs = append(paragraphs, para.String())
				}
			}
		}
	}
	return strings.Join(append(paragraphs, cells...), "\n"), nil
}

// Structure asks the LLM to turn the documents into message tasks.
func Structure(ctx context.Context, llm actions.Querier, instruction, input string) (StructuredContent, error) {
	var content StructuredContent
	err := llm.JSON(ctx, prompts.StructureDocument, map[string]any{
		"instruction": instruction,
		"input":       input,
	}, &content)
	if err != nil {
		return StructuredContent{}, fmt.Errorf("structure document: %w", err)
	}
	if err := content.Validate(); err != nil {
		return StructuredContent{}, err
	}
	return content, nil
}

// Write stores content as indented JSON in dir/structured_content.txt and
// returns the file path.
func Write(dir string, content StructuredContent) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	b, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	path := filepath.Join(dir, OutputFile)
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	return path, nil
}

// Parse reads both documents, structures them and writes the result to outDir.
func Parse(ctx context.Context, llm actions.Querier, instructionPath, inputPath, outDir string) (string, error) {
	instruction, err := ReadDocument(instructionPath)
	if err != nil {
		return "", err
	}
	input, err := ReadDocument(inputPath)
	if err != nil {
		return "", err
	}
	log.Debug().Int("instruction", len(instruction)).Int("input", len(input)).Msg("documents read")

	content, err := Structure(ctx, llm, instruction, input)
	if err != nil {
		return "", err
	}
	path, err := Write(outDir, content)
	if err != nil {
		return "", err
	}
	log.Info().Str("path", path).Int("tasks", len(content.MessageTasks)).Msg("structured content written")
	return path, nil
}
