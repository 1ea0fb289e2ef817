package service

import (
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`

	// Watchers counts WebSocket clients; only the REST API fills it in
	Watchers int `json:"watchers"`
}

// MoveResult contains the result of a single slide
type MoveResult struct {
	Success   bool              `json:"success"`
	Moved     bool              `json:"moved"`
	Direction string            `json:"direction"`
	Stats     engine.SlideStats `json:"stats"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// BulkMoveResult contains the result of multiple slides
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"` // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Per-step trace for this call
	Steps []StepInfo `json:"steps,omitempty"`

	GameOver      bool     `json:"game_over"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed slide in a bulk call
type StepInfo struct {
	Idx         int    `json:"idx"`
	Dir         string `json:"dir"`
	Moved       bool   `json:"moved"`
	Merges      int    `json:"merges"`
	MergedValue int    `json:"merged_value"`
	EmptyAfter  int    `json:"empty_after"`
}

// InsertResult contains the result of placing a tile
type InsertResult struct {
	Inserted  bool              `json:"inserted"`
	Index     int               `json:"index"`
	Value     int               `json:"value"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
}

// SlideBoardResult is the outcome of a stateless slide
type SlideBoardResult struct {
	Board engine.Board      `json:"board"`
	Stats engine.SlideStats `json:"stats"`
	Score int               `json:"score"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "slide", "merge", "insert", "won", "game_over", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ConfigInfo provides information about a board preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Size        int    `json:"size"`
}
