package engine

import "strings"

// Direction is one of the four slide directions
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

const (
	// Validation constants
	DefaultSize  = 4
	MinBoardSize = 2
	MaxBoardSize = 16
	MaxBulkMoves = 50
	WinningTile  = 2048
)

// AllDirections lists every direction in the order used by PossibleMoves
var AllDirections = []Direction{Up, Down, Left, Right}

// String returns the lowercase name of the direction
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// ParseDirection converts a direction name (case-insensitive) into a Direction
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, errorf(ErrInvalidDirection, "%q", name)
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SlideStats describes what a single slide did to the board.
// MergedValue is informational; it never contributes to the score.
type SlideStats struct {
	Merges      int  `json:"merges"`
	MergedValue int  `json:"merged_value"`
	Moved       bool `json:"moved"`
}

// GameConfig represents a board preset loaded from JSON
type GameConfig struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Size        int     `json:"size"`
	Layout      [][]int `json:"layout,omitempty"`
	Messages    struct {
		Welcome      string `json:"welcome"`
		Moved        string `json:"moved"`
		NoMove       string `json:"no_move"`
		Inserted     string `json:"inserted"`
		CellOccupied string `json:"cell_occupied"`
		GameOver     string `json:"game_over"`
	} `json:"messages"`
}

// GameState represents the complete state of one game
type GameState struct {
	Board         Board    `json:"board"`
	Size          int      `json:"size"`
	Score         int      `json:"score"`
	EmptyCells    int      `json:"empty_cells"`
	MaxTile       int      `json:"max_tile"`
	GameOver      bool     `json:"game_over"`
	Won           bool     `json:"won"`
	Message       string   `json:"message"`
	ConfigName    string   `json:"config_name"`
	PossibleMoves []string `json:"possible_moves"`
}

// BoardAnalysis summarizes a board without changing it
type BoardAnalysis struct {
	Board                  Board            `json:"board"`
	Size                   int              `json:"size"`
	Score                  int              `json:"score"`
	EmptyCells             int              `json:"empty_cells"`
	MaxTile                int              `json:"max_tile"`
	Full                   bool             `json:"full"`
	AdjacentCellsDifferent bool             `json:"adjacent_cells_different"`
	GameOver               bool             `json:"game_over"`
	PossibleMoves          []string         `json:"possible_moves"`
	Slides                 map[string]Board `json:"slides"`
}
