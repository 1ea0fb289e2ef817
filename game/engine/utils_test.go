package engine

import (
	"reflect"
	"testing"
)

func sparseBoard() Board {
	return MustBoard([][]int{
		{0, 0, 0, 0},
		{0, 2, 4, 0},
		{0, 2, 0, 4},
		{0, 0, 16, 2},
	})
}

func TestCountEmptyCells(t *testing.T) {
	tests := []struct {
		name     string
		board    Board
		expected int
	}{
		{"empty board", EmptyBoard(), 16},
		{"sparse board", sparseBoard(), 10},
		{"full board", MustBoard([][]int{{2, 4}, {8, 16}}), 0},
		{"3x3 board", MustBoard([][]int{{2, 0, 0}, {0, 0, 0}, {0, 0, 4}}), 7},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := CountEmptyCells(test.board); got != test.expected {
				t.Errorf("Expected %d empty cells, got %d", test.expected, got)
			}
		})
	}
}

func TestIsBoardFull(t *testing.T) {
	full := MustBoard([][]int{
		{2, 2, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 2},
	})
	if !IsBoardFull(full) {
		t.Errorf("The board should be full: %s", full)
	}
	if IsBoardFull(sparseBoard()) {
		t.Error("A board with zeros should not be full")
	}
}

func TestIsAdjacentCellsDifferent(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]int
		expected bool
	}{
		{"all different", [][]int{
			{2, 4, 16, 8},
			{0, 8, 2, 4},
			{4, 2, 4, 0},
			{32, 16, 8, 4},
		}, true},
		{"horizontal pair", [][]int{
			{2, 4, 8, 16},
			{4, 8, 16, 32},
			{8, 16, 64, 64},
			{16, 32, 2, 4},
		}, false},
		{"vertical pair", [][]int{
			{2, 4, 8, 16},
			{4, 8, 16, 32},
			{8, 16, 32, 64},
			{16, 32, 2, 64},
		}, false},
		{"zeros compare equal", [][]int{{0, 0}, {2, 4}}, false},
		{"no wraparound", [][]int{
			{2, 4, 2},
			{4, 8, 4},
			{2, 4, 2},
		}, true},
		{"diagonals ignored", [][]int{{2, 4}, {4, 2}}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := MustBoard(test.rows)
			if got := IsAdjacentCellsDifferent(b); got != test.expected {
				t.Errorf("Expected %v, got %v for %s", test.expected, got, b)
			}
		})
	}
}

func TestIsGameOver(t *testing.T) {
	ended := MustBoard([][]int{
		{4, 8, 2, 4},
		{16, 2, 4, 2},
		{2, 16, 8, 16},
		{16, 4, 64, 32},
	})
	if !IsGameOver(ended) {
		t.Errorf("The board should be ended: %s", ended)
	}
	if len(ended.PossibleMoves()) != 0 {
		t.Errorf("Game-over board should have no possible moves, got %v", ended.PossibleMoves())
	}

	if IsGameOver(EmptyBoard()) {
		t.Error("An empty board should not be ended")
	}

	fullButMergeable := MustBoard([][]int{
		{2, 2, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 2},
	})
	if IsGameOver(fullButMergeable) {
		t.Error("A full board with equal neighbours should not be ended")
	}
}

func TestInsertCell(t *testing.T) {
	start := sparseBoard()
	expected := [][]int{
		{0, 0, 0, 0},
		{0, 2, 4, 0},
		{0, 2, 0, 4},
		{2, 0, 16, 2},
	}

	inserted := InsertCell(8, 2, start)
	if !reflect.DeepEqual(inserted.Rows(), expected) {
		t.Errorf("A new cell is not inserted into specified empty position: %s", inserted)
	}
	if !start.Equal(sparseBoard()) {
		t.Errorf("InsertCell mutated its input: %s", start)
	}
}

func TestInsertCell_Ordinals(t *testing.T) {
	start := sparseBoard()
	// Row-major positions of the 10 empty cells in sparseBoard
	positions := [][2]int{
		{0, 0}, {0, 1}, {0, 2}, {0, 3},
		{1, 0}, {1, 3},
		{2, 0}, {2, 2},
		{3, 0}, {3, 1},
	}

	for index, pos := range positions {
		b := start.InsertCell(index, 4)
		if b.Get(pos[0], pos[1]) != 4 {
			t.Errorf("index %d: expected tile at (%d,%d), got %s", index, pos[0], pos[1], b)
		}
		if b.EmptyCells() != start.EmptyCells()-1 {
			t.Errorf("index %d: expected one fewer empty cell", index)
		}
	}
}

func TestInsertCell_OutOfRange(t *testing.T) {
	start := sparseBoard()
	for _, index := range []int{-1, 10, 11, 100} {
		if got := start.InsertCell(index, 2); !got.Equal(start) {
			t.Errorf("index %d: expected unchanged board, got %s", index, got)
		}
	}
}

func TestInsertCell_FullBoard(t *testing.T) {
	full := MustBoard([][]int{
		{2, 2, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 2},
	})

	newBoard := InsertCell(0, 2, full)
	if !newBoard.Equal(full) {
		t.Errorf("The board should be unchanged: %s", newBoard)
	}
}

func TestCalculateScore(t *testing.T) {
	if score := CalculateScore(EmptyBoard()); score != 0 {
		t.Errorf("The score should be 0, got %d", score)
	}

	if score := CalculateScore(sparseBoard()); score != 30 {
		t.Errorf("Expected score 30, got %d", score)
	}

	start := exampleStart()
	moved := start.Slide(Left)
	if CalculateScore(start) != CalculateScore(moved) {
		t.Errorf("The score should remain the same: %d vs %d", CalculateScore(start), CalculateScore(moved))
	}
}

func TestMaxTile(t *testing.T) {
	if EmptyBoard().MaxTile() != 0 {
		t.Error("Expected max tile 0 on empty board")
	}
	if sparseBoard().MaxTile() != 16 {
		t.Errorf("Expected max tile 16, got %d", sparseBoard().MaxTile())
	}
}

func TestAnalyzeBoard(t *testing.T) {
	analysis := AnalyzeBoard(exampleStart())

	if analysis.Size != 4 {
		t.Errorf("Expected size 4, got %d", analysis.Size)
	}
	if analysis.Score != 34 {
		t.Errorf("Expected score 34, got %d", analysis.Score)
	}
	if analysis.EmptyCells != 5 {
		t.Errorf("Expected 5 empty cells, got %d", analysis.EmptyCells)
	}
	if analysis.Full || analysis.GameOver {
		t.Error("Board should be neither full nor over")
	}
	if len(analysis.PossibleMoves) != 4 {
		t.Errorf("Expected 4 possible moves, got %v", analysis.PossibleMoves)
	}
	if len(analysis.Slides) != 4 {
		t.Fatalf("Expected 4 slides, got %d", len(analysis.Slides))
	}
	if !analysis.Slides["left"].Equal(exampleStart().Slide(Left)) {
		t.Errorf("Unexpected left slide: %s", analysis.Slides["left"])
	}
}
