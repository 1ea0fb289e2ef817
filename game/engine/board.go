package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotGrid          = errors.New("the board is not a 2D array")
	ErrNotSquare        = errors.New("the board is not square")
	ErrInvalidCell      = errors.New("the board contains non-multiple of 2 numbers")
	ErrInvalidTile      = errors.New("tile value must be a positive power of 2")
	ErrInvalidDirection = errors.New("invalid direction")
)

func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// Board is an immutable square grid of tiles. Zero means empty.
// The zero value is a 0x0 board; use EmptyBoard or NewBoard instead.
type Board struct {
	cells [][]int
}

// EmptyBoard returns a DefaultSize x DefaultSize board filled with zeros
func EmptyBoard() Board {
	return NewEmptyBoard(DefaultSize)
}

// NewEmptyBoard returns a size x size board of zeros.
// Sizes below 1 fall back to DefaultSize.
func NewEmptyBoard(size int) Board {
	if size < 1 {
		size = DefaultSize
	}
	return Board{cells: makeGrid(size)}
}

// NewBoard validates rows and returns a board holding a private copy of them
func NewBoard(rows [][]int) (Board, error) {
	if err := Validate(rows); err != nil {
		return Board{}, err
	}
	for _, row := range rows {
		for _, v := range row {
			if v < 0 {
				return Board{}, errorf(ErrInvalidCell, "negative cell %d", v)
			}
		}
	}
	return Board{cells: copyGrid(rows)}, nil
}

// MustBoard is like NewBoard but panics on invalid input
func MustBoard(rows [][]int) Board {
	b, err := NewBoard(rows)
	if err != nil {
		panic(err)
	}
	return b
}

// Validate reports whether rows form a valid board: a non-empty square 2D
// grid whose cells are all 0 or a multiple of 2.
func Validate(rows [][]int) error {
	if len(rows) == 0 || rows[0] == nil {
		return errorf(ErrNotGrid, "%s", displayRows(rows))
	}
	height := len(rows)
	for _, row := range rows {
		if len(row) != height {
			return errorf(ErrNotSquare, "%s", displayRows(rows))
		}
	}
	for _, row := range rows {
		for _, v := range row {
			if v%2 != 0 {
				return errorf(ErrInvalidCell, "%s", displayRows(rows))
			}
		}
	}
	return nil
}

// ValidateRaw validates a board decoded from JSON into an untyped value
func ValidateRaw(v any) error {
	outer, ok := v.([]any)
	if !ok || len(outer) == 0 {
		return errorf(ErrNotGrid, "%s", displayAny(v))
	}
	rows := make([][]int, len(outer))
	for i, r := range outer {
		inner, ok := r.([]any)
		if !ok {
			return errorf(ErrNotGrid, "%s", displayAny(v))
		}
		rows[i] = make([]int, len(inner))
		for j, cell := range inner {
			f, ok := cell.(float64)
			if !ok || f != float64(int(f)) {
				return errorf(ErrInvalidCell, "%s", displayAny(v))
			}
			rows[i][j] = int(f)
		}
	}
	return Validate(rows)
}

// ValidateTile reports whether value may be placed on a board
func ValidateTile(value int) error {
	if value < 2 || value&(value-1) != 0 {
		return errorf(ErrInvalidTile, "got %d", value)
	}
	return nil
}

// Size returns N for an N x N board
func (b Board) Size() int {
	return len(b.cells)
}

// Get returns the value at (row, col)
func (b Board) Get(row, col int) int {
	return b.cells[row][col]
}

// Rows returns a copy of the board as a plain grid
func (b Board) Rows() [][]int {
	return copyGrid(b.cells)
}

// Equal reports whether both boards have the same size and cells
func (b Board) Equal(other Board) bool {
	if len(b.cells) != len(other.cells) {
		return false
	}
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// String renders the board as JSON rows
func (b Board) String() string {
	return displayRows(b.cells)
}

// MarshalJSON encodes the board as a plain [][]int
func (b Board) MarshalJSON() ([]byte, error) {
	if b.cells == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b.cells)
}

// UnmarshalJSON decodes and validates a plain [][]int. An empty array
// decodes to the zero Board, mirroring MarshalJSON.
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%w: %v", ErrNotGrid, err)
	}
	if len(rows) == 0 {
		*b = Board{}
		return nil
	}
	board, err := NewBoard(rows)
	if err != nil {
		return err
	}
	*b = board
	return nil
}

func makeGrid(size int) [][]int {
	grid := make([][]int, size)
	for i := range grid {
		grid[i] = make([]int, size)
	}
	return grid
}

func copyGrid(rows [][]int) [][]int {
	grid := make([][]int, len(rows))
	for i, row := range rows {
		grid[i] = append([]int(nil), row...)
	}
	return grid
}

func displayRows(rows [][]int) string {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Sprint(rows)
	}
	return string(data)
}

func displayAny(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
