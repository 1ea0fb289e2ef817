package engine

import (
	"errors"
	"testing"
)

func createTestConfig() *GameConfig {
	config := &GameConfig{
		Name:        "Engine Test Config",
		Description: "Configuration for engine integration tests",
		Size:        4,
		Layout: [][]int{
			{2, 2, 4, 4},
			{2, 0, 0, 2},
			{0, 0, 2, 2},
			{0, 2, 4, 8},
		},
	}
	config.Messages.Welcome = "Welcome to engine test!"
	config.Messages.GameOver = "Done! Score: %d"
	return config
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}

	if engine == nil {
		t.Fatal("Expected engine to be non-nil")
	}

	// Test initial state
	if engine.GetScore() != 34 {
		t.Errorf("Expected initial score 34, got %d", engine.GetScore())
	}
	if engine.IsGameOver() {
		t.Error("Expected game not to be over initially")
	}
	if engine.GetState().Message != config.Messages.Welcome {
		t.Errorf("Expected welcome message, got %q", engine.GetState().Message)
	}
	if !engine.GetBoard().Equal(exampleStart()) {
		t.Errorf("Expected preset layout, got %s", engine.GetBoard())
	}

	// Missing messages are filled from defaults without touching the caller's config
	if engine.GetConfig().Messages.Moved == "" {
		t.Error("Expected default moved message")
	}
	if config.Messages.Moved != "" {
		t.Error("NewEngine modified the caller's config")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Size = 0

	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	engine := NewEngineWithDefaults()

	if engine.GetConfig().Name != "classic" {
		t.Errorf("Expected classic preset, got %s", engine.GetConfig().Name)
	}
	if engine.GetBoard().EmptyCells() != DefaultSize*DefaultSize {
		t.Errorf("Expected empty board, got %s", engine.GetBoard())
	}
	// An empty board has nowhere to slide
	if len(engine.GetPossibleMoves()) != 0 {
		t.Errorf("Expected no possible moves, got %v", engine.GetPossibleMoves())
	}
}

func TestEngine_Slide(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	if !engine.Slide(Left) {
		t.Fatal("Expected left slide to move tiles")
	}
	if !engine.GetBoard().Equal(exampleStart().Slide(Left)) {
		t.Errorf("Unexpected board after slide: %s", engine.GetBoard())
	}
	if engine.GetScore() != 34 {
		t.Errorf("Sliding must not change the score, got %d", engine.GetScore())
	}
	if engine.GetState().Message != "Moved. Score: 34" {
		t.Errorf("Unexpected message: %q", engine.GetState().Message)
	}

	// Sliding again in the same direction changes nothing
	before := engine.GetBoard()
	if engine.Slide(Left) {
		t.Error("Expected second left slide to be a no-op")
	}
	if !engine.GetBoard().Equal(before) {
		t.Errorf("No-op slide changed the board: %s", engine.GetBoard())
	}
	if engine.GetState().Message != engine.GetConfig().Messages.NoMove {
		t.Errorf("Expected no-move message, got %q", engine.GetState().Message)
	}
}

func TestEngine_SlideKeepsPreviousStates(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	first := engine.GetState()
	engine.Slide(Down)
	if !first.Board.Equal(exampleStart()) {
		t.Errorf("Earlier state was modified by a slide: %s", first.Board)
	}
}

func TestEngine_Insert(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	ok, err := engine.Insert(0, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("Expected insert to succeed")
	}
	// The first empty cell in row-major order is (1,1)
	if engine.GetBoard().Get(1, 1) != 2 {
		t.Errorf("Expected tile at (1,1), got %s", engine.GetBoard())
	}
	if engine.GetScore() != 36 {
		t.Errorf("Expected score 36, got %d", engine.GetScore())
	}
	if engine.GetState().Message != engine.GetConfig().Messages.Inserted {
		t.Errorf("Expected inserted message, got %q", engine.GetState().Message)
	}
}

func TestEngine_InsertOutOfRange(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())
	before := engine.GetBoard()

	ok, err := engine.Insert(99, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected out-of-range insert to report false")
	}
	if !engine.GetBoard().Equal(before) {
		t.Errorf("Out-of-range insert changed the board: %s", engine.GetBoard())
	}
	if engine.GetState().Message != engine.GetConfig().Messages.CellOccupied {
		t.Errorf("Expected cell occupied message, got %q", engine.GetState().Message)
	}
}

func TestEngine_InsertInvalidTile(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	for _, value := range []int{0, 3, -4} {
		ok, err := engine.Insert(0, value)
		if !errors.Is(err, ErrInvalidTile) {
			t.Errorf("Insert(0, %d): expected ErrInvalidTile, got %v", value, err)
		}
		if ok {
			t.Errorf("Insert(0, %d): expected false", value)
		}
	}
}

func TestEngine_Reset(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	engine.Slide(Right)
	engine.Insert(0, 4)

	state := engine.Reset()
	if !state.Board.Equal(exampleStart()) {
		t.Errorf("Expected preset layout after reset, got %s", state.Board)
	}
	if state.Message != engine.GetConfig().Messages.Welcome {
		t.Errorf("Expected welcome message after reset, got %q", state.Message)
	}
}

func TestEngine_SetBoard(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	b := MustBoard([][]int{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 2},
	})
	if err := engine.SetBoard(b); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if engine.GetScore() != 4 {
		t.Errorf("Expected score 4, got %d", engine.GetScore())
	}

	if err := engine.SetBoard(NewEmptyBoard(3)); !errors.Is(err, ErrNotSquare) {
		t.Errorf("Expected size mismatch error, got %v", err)
	}
}

func TestEngine_GameOverMessage(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	locked := MustBoard([][]int{
		{4, 8, 2, 4},
		{16, 2, 4, 2},
		{2, 16, 8, 16},
		{16, 4, 64, 32},
	})
	if err := engine.SetBoard(locked); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !engine.IsGameOver() {
		t.Fatal("Expected game over")
	}
	if engine.GetState().Message != "Done! Score: 200" {
		t.Errorf("Unexpected game over message: %q", engine.GetState().Message)
	}
	if engine.Slide(Left) {
		t.Error("No slide should move a locked board")
	}
	if !engine.IsGameOver() {
		t.Error("Game should stay over")
	}
}

func TestEngine_Won(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	b := MustBoard([][]int{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	engine.SetBoard(b)
	if engine.GetState().Won {
		t.Fatal("Should not be won before merging")
	}

	engine.Slide(Left)
	if !engine.GetState().Won || engine.GetState().MaxTile != WinningTile {
		t.Errorf("Expected win with max tile %d, got %+v", WinningTile, engine.GetState())
	}
}

func TestEngine_SetConfig(t *testing.T) {
	engine := NewEngineWithDefaults()

	if err := engine.SetConfig(createTestConfig()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if engine.GetConfig().Name != "Engine Test Config" {
		t.Errorf("Config not switched: %s", engine.GetConfig().Name)
	}
	if !engine.GetBoard().Equal(exampleStart()) {
		t.Errorf("Expected new preset layout, got %s", engine.GetBoard())
	}

	bad := createTestConfig()
	bad.Name = ""
	if err := engine.SetConfig(bad); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestEngine_ImplementsInterface(t *testing.T) {
	var _ Engine = (*GameEngine)(nil)
}
