// Package engine provides the rules of the 2048 tile-merging game.
//
// The engine package implements:
//   - An immutable N x N Board value (4 x 4 by default)
//   - Slide-and-merge in the four directions
//   - Empty-cell counting and ordinal tile insertion
//   - Full-board, adjacent-difference and game-over checks
//   - Score computation as the sum of all tiles
//   - Board and preset validation
//
// Core Types:
//
// Board is a value: every operation returns a new Board and never mutates
// its receiver, so boards can be shared freely between goroutines.
// Direction is a closed enumeration of Left, Right, Up and Down.
// GameEngine wraps the current board of one game together with its preset
// (GameConfig) for callers that need a stateful handle.
//
// Usage:
//
//	b := engine.EmptyBoard()
//	b = b.InsertCell(0, 2)
//	b = b.InsertCell(5, 2)
//
//	next := b.Slide(engine.Left)
//	if engine.IsGameOver(next) {
//		fmt.Println("final score:", engine.CalculateScore(next))
//	}
//
// Merge Rules:
//
// A slide compacts each line toward its near end, then merges equal
// neighbours once from that end, so [2,2,2,2] slides left to [4,4,0,0].
// Merging keeps the sum of the tiles, therefore the score only changes when
// a tile is inserted. Tile placement is chosen by the caller; the engine
// never picks cells or values on its own.
package engine
