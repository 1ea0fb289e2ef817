// Command validate checks the board presets in a configs directory. It checks:
//   - JSON structure and required fields
//   - Board size within the supported range
//   - Layout shape: a square grid matching size, cells 0 or a power of 2
//   - Message templates that must carry a %d for the score
//
// It prints a report per file and exits non-zero if any preset is invalid.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	// The layout is checked on the raw JSON first so that fractional or
	// non-numeric cells are reported as board errors, not decode errors.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}
	if layout, ok := raw["layout"]; ok && layout != nil {
		if err := engine.ValidateRaw(layout); err != nil {
			result.fail("Invalid layout: %v", err)
			return result
		}
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	stem := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if config.Name != stem {
		result.Errors = append(result.Errors, fmt.Sprintf("⚠ Name %q differs from file name %q", config.Name, stem))
	}

	state := engine.InitGameStateFromConfig(&config)
	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Board: %dx%d", state.Size, state.Size),
		fmt.Sprintf("✓ Starting score: %d", state.Score),
		fmt.Sprintf("✓ Empty cells: %d", state.EmptyCells),
	)
	if state.GameOver {
		result.Errors = append(result.Errors, "✓ Starts in a game-over position")
	} else if len(state.PossibleMoves) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Possible moves: %s", strings.Join(state.PossibleMoves, ", ")))
	}

	return result
}

// validateDir validates every *.json file in dir, writes a report to w and
// reports whether all of them are valid.
func validateDir(dir string, w io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no *.json presets in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, msg := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+msg)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func newCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate 2048 board presets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "../configs", Usage: "Directory containing board presets", Sources: cli.EnvVars("CONFIG_DIR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ok, err := validateDir(cmd.String("dir"), stdout)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("some configurations have errors")
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
