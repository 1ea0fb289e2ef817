// Command analyze prints a human-readable summary of board presets, or of a
// single board given on the command line. For each board it reports size,
// score, empty cells, max tile, game-over status, the possible moves and the
// board that each of the four slides would produce.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Summarize 2048 boards and the outcome of every slide",
		ArgsUsage: "[preset ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "configs", Usage: "Directory containing board presets", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "board", Usage: `Analyze a single board given as JSON, e.g. '[[2,2],[0,4]]'`},
			&cli.BoolFlag{Name: "json", Usage: "Print the analysis as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			asJSON := cmd.Bool("json")

			if raw := cmd.String("board"); raw != "" {
				b, err := parseBoard(raw)
				if err != nil {
					return err
				}
				return report(stdout, "board", engine.AnalyzeBoard(b), asJSON)
			}

			files, err := presetFiles(cmd.String("dir"), cmd.Args().Slice())
			if err != nil {
				return err
			}
			for _, file := range files {
				if !asJSON {
					fmt.Fprintf(stdout, "\n=== Analyzing %s ===\n", filepath.Base(file))
				}
				if err := analyzeConfig(stdout, file, asJSON); err != nil {
					fmt.Fprintf(stdout, "Error: %v\n", err)
				}
			}
			return nil
		},
	}
}

// presetFiles resolves preset names to files in dir. With no names it
// returns every *.json file in dir.
func presetFiles(dir string, names []string) ([]string, error) {
	if len(names) == 0 {
		files, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no *.json presets in %s", dir)
		}
		return files, nil
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			name += ".json"
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}

// parseBoard decodes and validates a board written as a JSON grid
func parseBoard(raw string) (engine.Board, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return engine.Board{}, fmt.Errorf("invalid board JSON: %w", err)
	}
	if err := engine.ValidateRaw(v); err != nil {
		return engine.Board{}, err
	}

	var rows [][]int
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return engine.Board{}, fmt.Errorf("invalid board JSON: %w", err)
	}
	return engine.NewBoard(rows)
}

func analyzeConfig(w io.Writer, path string, asJSON bool) error {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		return err
	}

	if !asJSON {
		fmt.Fprintf(w, "Name: %s\n", config.Name)
		fmt.Fprintf(w, "Description: %s\n", config.Description)
	}
	return report(w, config.Name, engine.AnalyzeBoard(engine.InitialBoard(config)), asJSON)
}

func report(w io.Writer, name string, analysis *engine.BoardAnalysis, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"name": name, "analysis": analysis})
	}

	fmt.Fprintf(w, "Size: %d x %d\n", analysis.Size, analysis.Size)
	fmt.Fprintf(w, "Score: %d\n", analysis.Score)
	fmt.Fprintf(w, "Empty Cells: %d\n", analysis.EmptyCells)
	fmt.Fprintf(w, "Max Tile: %d\n", analysis.MaxTile)
	w.Write([]byte(formatGrid(analysis.Board)))

	if analysis.GameOver {
		fmt.Fprintf(w, "⚠️  Game over: no slide changes this board\n")
		return nil
	}
	if len(analysis.PossibleMoves) == 0 {
		// Empty board: nothing slides, but tiles can still be placed.
		fmt.Fprintf(w, "Possible Moves: none until a tile is placed\n")
		return nil
	}
	fmt.Fprintf(w, "✅ Possible Moves: %s\n", strings.Join(analysis.PossibleMoves, ", "))

	for _, dir := range engine.AllDirections {
		after := analysis.Slides[dir.String()]
		if after.Equal(analysis.Board) {
			fmt.Fprintf(w, "After %s: unchanged\n", dir)
			continue
		}
		fmt.Fprintf(w, "After %s (score %d):\n", dir, after.Score())
		w.Write([]byte(formatGrid(after)))
	}
	return nil
}

// formatGrid draws the board with every column as wide as the widest tile
func formatGrid(b engine.Board) string {
	size := b.Size()
	width := 1
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if n := len(strconv.Itoa(b.Get(i, j))); n > width {
				width = n
			}
		}
	}

	var sb strings.Builder
	for i := 0; i < size; i++ {
		sb.WriteString("   ")
		for j := 0; j < size; j++ {
			cell := "."
			if v := b.Get(i, j); v != 0 {
				cell = strconv.Itoa(v)
			}
			fmt.Fprintf(&sb, " %*s", width, cell)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
