package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetBoard(b Board) error
	Reset() *GameState
	IsGameOver() bool
	GetScore() int
	GetBoard() Board

	// Board operations
	Slide(dir Direction) bool
	Insert(index, value int) (bool, error)
	CanSlide(dir Direction) bool
	GetPossibleMoves() []Direction

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error
}

// GameEngine keeps the current board of one game. Every operation swaps in
// a new immutable Board; previous boards are never modified.
type GameEngine struct {
	state  *GameState
	config *GameConfig
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	cfg := *config
	applyDefaultMessages(&cfg)

	return &GameEngine{
		config: &cfg,
		state:  InitGameStateFromConfig(&cfg),
	}, nil
}

// NewEngineWithDefaults creates a new game engine with the classic preset
func NewEngineWithDefaults() *GameEngine {
	config := DefaultGameConfig()
	return &GameEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
	}
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// GetBoard returns the current board
func (e *GameEngine) GetBoard() Board {
	return e.state.Board
}

// SetBoard replaces the current board, keeping the configured size
func (e *GameEngine) SetBoard(b Board) error {
	if err := Validate(b.cells); err != nil {
		return err
	}
	if b.Size() != e.config.Size {
		return fmt.Errorf("%w: board is %dx%d, config expects %dx%d",
			ErrNotSquare, b.Size(), b.Size(), e.config.Size, e.config.Size)
	}
	e.state = e.stateFor(b, "")
	return nil
}

// Reset restores the preset's starting board
func (e *GameEngine) Reset() *GameState {
	e.state = InitGameStateFromConfig(e.config)
	return e.state
}

// IsGameOver returns whether no move is left
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// Slide slides the board toward dir and reports whether anything moved
func (e *GameEngine) Slide(dir Direction) bool {
	next, stats := e.state.Board.SlideWithStats(dir)
	if !stats.Moved {
		e.state = e.stateFor(e.state.Board, e.config.Messages.NoMove)
		return false
	}

	e.state = e.stateFor(next, fmt.Sprintf(e.config.Messages.Moved, next.Score()))
	return true
}

// Insert places value at the index-th empty cell. It returns false when the
// index does not name an empty cell, and an error when value is not a tile.
func (e *GameEngine) Insert(index, value int) (bool, error) {
	if err := ValidateTile(value); err != nil {
		return false, err
	}

	current := e.state.Board
	if index < 0 || index >= current.EmptyCells() {
		e.state = e.stateFor(current, e.config.Messages.CellOccupied)
		return false, nil
	}

	e.state = e.stateFor(current.InsertCell(index, value), e.config.Messages.Inserted)
	return true, nil
}

// CanSlide checks if sliding toward dir would change the board
func (e *GameEngine) CanSlide(dir Direction) bool {
	return e.state.Board.CanSlide(dir)
}

// GetPossibleMoves returns all directions that change the board
func (e *GameEngine) GetPossibleMoves() []Direction {
	return e.state.Board.PossibleMoves()
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and resets the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	cfg := *config
	applyDefaultMessages(&cfg)
	e.config = &cfg
	e.state = InitGameStateFromConfig(&cfg)
	return nil
}

// stateFor builds the state for b; a game-over board overrides message
func (e *GameEngine) stateFor(b Board, message string) *GameState {
	state := newGameState(b, e.config, message)
	if state.GameOver {
		state.Message = fmt.Sprintf(e.config.Messages.GameOver, state.Score)
	}
	return state
}
