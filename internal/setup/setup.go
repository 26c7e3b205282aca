// Package setup scaffolds the .env file and checks that a workspace is ready.
package setup

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/MagicOwO/pipo-agent/pkg/config"
	"github.com/rs/zerolog/log"
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvFile   = ".env"
	OutputDir = "output"
)

type Status int

const (
	// StatusCreated means .env was just written and must be edited first.
	StatusCreated Status = iota
	// StatusPlaceholder means .env still holds the placeholder key.
	StatusPlaceholder
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusPlaceholder:
		return "placeholder"
	case StatusReady:
		return "ready"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

var ErrNoEnvFile = errors.New("Error: .env file not found. Please run setup script first.")

type Options struct {
	// Perplexity adds a PERPLEXITY_API_KEY placeholder to a new .env.
	Perplexity bool
}

// Run creates .env with placeholder keys when it is missing and stops there.
// Otherwise it refuses to continue while the placeholder is present, and
// prepares the output directory once a real key is set.
func Run(dir string, opts Options) (Status, error) {
	envPath := filepath.Join(dir, EnvFile)

	if _, err := os.Stat(envPath); errors.Is(err, os.ErrNotExist) {
		lines := []string{"OPENAI_API_KEY=" + config.PlaceholderOpenAIKey}
		if opts.Perplexity {
			lines = append(lines, "PERPLEXITY_API_KEY="+config.PlaceholderPerplexityKey)
		}
		if err := os.WriteFile(envPath, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
			return StatusCreated, fmt.Errorf("write %s: %w", EnvFile, err)
		}
		log.Info().Str("path", envPath).Msg("created .env, add your API key and run setup again")
		return StatusCreated, nil
	} else if err != nil {
		return StatusCreated, fmt.Errorf("stat %s: %w", EnvFile, err)
	}

	placeholder, err := hasPlaceholder(envPath)
	if err != nil {
		return StatusPlaceholder, err
	}
	if placeholder {
		log.Warn().Str("path", envPath).Msg("please update .env with your actual OpenAI API key")
		return StatusPlaceholder, nil
	}

	if err := os.MkdirAll(filepath.Join(dir, OutputDir), 0o755); err != nil {
		return StatusReady, fmt.Errorf("create output dir: %w", err)
	}
	log.Info().Msg("setup completed")
	return StatusReady, nil
}

// CheckWorkspace returns ErrNoEnvFile when dir has no .env.
func CheckWorkspace(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, EnvFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoEnvFile
		}
		return fmt.Errorf("stat %s: %w", EnvFile, err)
	}
	return nil
}

func hasPlaceholder(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", EnvFile, err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		if strings.Contains(s.Text(), config.PlaceholderOpenAIKey) {
			return true, nil
		}
	}
	return false, s.Err()
}
