package engine

// Slide returns the board after sliding every row or column toward dir
func Slide(dir Direction, b Board) Board {
	return b.Slide(dir)
}

// Slide returns a new board with all tiles slid and merged toward dir
func (b Board) Slide(dir Direction) Board {
	next, _ := b.SlideWithStats(dir)
	return next
}

// SlideWithStats slides the board and reports merges and whether anything moved.
// An unknown direction leaves the board unchanged.
func (b Board) SlideWithStats(dir Direction) (Board, SlideStats) {
	var stats SlideStats
	if dir < Left || dir > Down {
		return Board{cells: copyGrid(b.cells)}, stats
	}

	size := b.Size()
	out := makeGrid(size)
	vertical := dir == Up || dir == Down
	reversed := dir == Right || dir == Down

	line := make([]int, size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			r, c := lineCoords(i, j, size, vertical, reversed)
			line[j] = b.cells[r][c]
		}

		merged, merges, value := slideLine(line)
		stats.Merges += merges
		stats.MergedValue += value

		for j := 0; j < size; j++ {
			r, c := lineCoords(i, j, size, vertical, reversed)
			out[r][c] = merged[j]
			if merged[j] != b.cells[r][c] {
				stats.Moved = true
			}
		}
	}

	return Board{cells: out}, stats
}

// CanSlide reports whether sliding toward dir would change the board
func (b Board) CanSlide(dir Direction) bool {
	_, stats := b.SlideWithStats(dir)
	return stats.Moved
}

// PossibleMoves returns every direction that changes the board
func (b Board) PossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range AllDirections {
		if b.CanSlide(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// lineCoords maps position j of line i to a board cell. Position 0 is the
// near end of the slide.
func lineCoords(i, j, size int, vertical, reversed bool) (int, int) {
	if reversed {
		j = size - 1 - j
	}
	if vertical {
		return j, i
	}
	return i, j
}

// slideLine compacts a line toward index 0, merges equal neighbours once
// each, and pads with zeros back to the original length.
func slideLine(line []int) ([]int, int, int) {
	compact := make([]int, 0, len(line))
	for _, v := range line {
		if v != 0 {
			compact = append(compact, v)
		}
	}

	result := make([]int, 0, len(line))
	merges, value := 0, 0
	for i := 0; i < len(compact); i++ {
		if i+1 < len(compact) && compact[i] == compact[i+1] {
			merged := compact[i] * 2
			result = append(result, merged)
			merges++
			value += merged
			i++ // the partner is consumed
			continue
		}
		result = append(result, compact[i])
	}

	for len(result) < len(line) {
		result = append(result, 0)
	}
	return result, merges, value
}
