package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateGameConfig validates a board preset
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate board size
	if config.Size < MinBoardSize || config.Size > MaxBoardSize {
		return fmt.Errorf("config validation: size must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Size)
	}

	// Validate layout, when one is given
	if config.Layout != nil {
		if len(config.Layout) != config.Size {
			return fmt.Errorf("config validation: layout must have %d rows to match size, got %d",
				config.Size, len(config.Layout))
		}
		if err := Validate(config.Layout); err != nil {
			return fmt.Errorf("config validation: layout: %w", err)
		}
		for i, row := range config.Layout {
			for j, v := range row {
				if v != 0 && ValidateTile(v) != nil {
					return fmt.Errorf("config validation: cell %d at row %d, col %d is not a power of 2", v, i+1, j+1)
				}
			}
		}
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Moved != "" && !strings.Contains(config.Messages.Moved, "%d") {
		return fmt.Errorf("config validation: messages.moved must contain %%d for score")
	}
	if config.Messages.GameOver != "" && !strings.Contains(config.Messages.GameOver, "%d") {
		return fmt.Errorf("config validation: messages.game_over must contain %%d for score")
	}

	return nil
}

// LoadGameConfig loads a board preset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the built-in classic 4x4 preset
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "Classic 4x4 board starting empty",
		Size:        DefaultSize,
	}
	applyDefaultMessages(config)
	return config
}

// InitialBoard returns the starting board for a preset
func InitialBoard(config *GameConfig) Board {
	if config == nil {
		return EmptyBoard()
	}
	if config.Layout != nil {
		if b, err := NewBoard(config.Layout); err == nil {
			return b
		}
	}
	return NewEmptyBoard(config.Size)
}

// InitGameStateFromConfig creates a new game state using the provided configuration
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultGameConfig()
	}
	return newGameState(InitialBoard(config), config, config.Messages.Welcome)
}

func newGameState(b Board, config *GameConfig, message string) *GameState {
	configName := ""
	if config != nil {
		configName = config.Name
	}
	return &GameState{
		Board:         b,
		Size:          b.Size(),
		Score:         b.Score(),
		EmptyCells:    b.EmptyCells(),
		MaxTile:       b.MaxTile(),
		GameOver:      b.IsGameOver(),
		Won:           b.MaxTile() >= WinningTile,
		Message:       message,
		ConfigName:    configName,
		PossibleMoves: DirectionNames(b.PossibleMoves()),
	}
}

// applyDefaultMessages fills in any message the preset left empty
func applyDefaultMessages(config *GameConfig) {
	if config.Messages.Welcome == "" {
		config.Messages.Welcome = "Welcome to 2048! Slide tiles to merge them."
	}
	if config.Messages.Moved == "" {
		config.Messages.Moved = "Moved. Score: %d"
	}
	if config.Messages.NoMove == "" {
		config.Messages.NoMove = "Nothing moved in that direction"
	}
	if config.Messages.Inserted == "" {
		config.Messages.Inserted = "Tile placed"
	}
	if config.Messages.CellOccupied == "" {
		config.Messages.CellOccupied = "No empty cell at that index"
	}
	if config.Messages.GameOver == "" {
		config.Messages.GameOver = "Game over! Final score: %d"
	}
}
