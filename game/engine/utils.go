package engine

// CountEmptyCells counts the cells holding 0
func CountEmptyCells(b Board) int {
	return b.EmptyCells()
}

// IsBoardFull reports whether the board has no empty cell
func IsBoardFull(b Board) bool {
	return b.IsFull()
}

// IsAdjacentCellsDifferent reports whether no two orthogonal neighbours are equal
func IsAdjacentCellsDifferent(b Board) bool {
	return b.AdjacentCellsDifferent()
}

// IsGameOver reports whether no move is left on the board
func IsGameOver(b Board) bool {
	return b.IsGameOver()
}

// InsertCell places value at the index-th empty cell in row-major order
func InsertCell(index, value int, b Board) Board {
	return b.InsertCell(index, value)
}

// CalculateScore sums every cell on the board
func CalculateScore(b Board) int {
	return b.Score()
}

// EmptyCells counts the cells holding 0
func (b Board) EmptyCells() int {
	count := 0
	for _, row := range b.cells {
		for _, v := range row {
			if v == 0 {
				count++
			}
		}
	}
	return count
}

// IsFull reports whether the board has no empty cell
func (b Board) IsFull() bool {
	return b.EmptyCells() == 0
}

// AdjacentCellsDifferent compares raw values, zeros included, across every
// horizontal and vertical neighbour pair. Edges do not wrap.
func (b Board) AdjacentCellsDifferent() bool {
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if c+1 < size && b.cells[r][c] == b.cells[r][c+1] {
				return false
			}
			if r+1 < size && b.cells[r][c] == b.cells[r+1][c] {
				return false
			}
		}
	}
	return true
}

// IsGameOver reports whether the board is full and nothing can merge
func (b Board) IsGameOver() bool {
	return b.IsFull() && b.AdjacentCellsDifferent()
}

// InsertCell returns a copy of the board with value at the index-th empty
// cell. An index outside [0, EmptyCells()) returns an unchanged copy.
func (b Board) InsertCell(index, value int) Board {
	out := copyGrid(b.cells)
	if index < 0 {
		return Board{cells: out}
	}

	ordinal := 0
	for r, row := range out {
		for c, v := range row {
			if v != 0 {
				continue
			}
			if ordinal == index {
				out[r][c] = value
				return Board{cells: out}
			}
			ordinal++
		}
	}
	return Board{cells: out}
}

// Score sums every cell on the board
func (b Board) Score() int {
	total := 0
	for _, row := range b.cells {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// MaxTile returns the largest value on the board
func (b Board) MaxTile() int {
	highest := 0
	for _, row := range b.cells {
		for _, v := range row {
			if v > highest {
				highest = v
			}
		}
	}
	return highest
}

// DirectionNames converts directions to their lowercase names
func DirectionNames(dirs []Direction) []string {
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, d.String())
	}
	return names
}

// AnalyzeBoard reports every query on b along with the result of each slide
func AnalyzeBoard(b Board) *BoardAnalysis {
	slides := make(map[string]Board, len(AllDirections))
	for _, dir := range AllDirections {
		slides[dir.String()] = b.Slide(dir)
	}

	return &BoardAnalysis{
		Board:                  b,
		Size:                   b.Size(),
		Score:                  b.Score(),
		EmptyCells:             b.EmptyCells(),
		MaxTile:                b.MaxTile(),
		Full:                   b.IsFull(),
		AdjacentCellsDifferent: b.AdjacentCellsDifferent(),
		GameOver:               b.IsGameOver(),
		PossibleMoves:          DirectionNames(b.PossibleMoves()),
		Slides:                 slides,
	}
}
