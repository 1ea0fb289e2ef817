package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. A nil logger discards
// all output.
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger.Named("service"),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// getSession looks a session up and touches its access time. Callers hold
// s.mu for writing.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate the ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("config", configID),
		zap.Int("size", config.Size))

	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session_id", sessionID))
	return nil
}

// Move slides the board of a session in one direction
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	prev := sess.Engine.GetState()
	_, stats := prev.Board.SlideWithStats(dir)
	moved := sess.Engine.Slide(dir)
	state := sess.Engine.GetState()

	events = append(events, slideEvents(dir, stats, prev, state)...)

	s.logger.Debug("slide",
		zap.String("session_id", sess.ID),
		zap.Stringer("direction", dir),
		zap.Bool("moved", moved),
		zap.Int("merges", stats.Merges))

	return &MoveResult{
		Success:   true,
		Moved:     moved,
		Direction: dir.String(),
		Stats:     stats,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}, nil
}

// BulkMove executes multiple slides in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	// An unknown direction anywhere rejects the whole sequence
	dirs := make([]engine.Direction, 0, len(moves))
	for i, move := range moves {
		dir, err := engine.ParseDirection(move)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		dirs = append(dirs, dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	// Limit moves to prevent abuse
	if len(dirs) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		dirs = dirs[:engine.MaxBulkMoves]
	}

	for i, dir := range dirs {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game_over"
			result.StoppedOnMove = i + 1
			break
		}

		prev := sess.Engine.GetState()
		_, stats := prev.Board.SlideWithStats(dir)
		moved := sess.Engine.Slide(dir)
		state := sess.Engine.GetState()

		result.MovesExecuted++
		result.Steps = append(result.Steps, StepInfo{
			Idx:         i + 1,
			Dir:         dir.String(),
			Moved:       moved,
			Merges:      stats.Merges,
			MergedValue: stats.MergedValue,
			EmptyAfter:  state.EmptyCells,
		})
		result.Events = append(result.Events, slideEvents(dir, stats, prev, state)...)
	}

	state := sess.Engine.GetState()
	result.GameState = state
	result.GameOver = state.GameOver
	result.Message = state.Message
	result.PossibleMoves = state.PossibleMoves

	s.logger.Debug("bulk slide",
		zap.String("session_id", sess.ID),
		zap.Int("requested", result.RequestedMoves),
		zap.Int("executed", result.MovesExecuted),
		zap.String("stopped_reason", result.StoppedReason))

	return result, nil
}

// Insert places a tile at the index-th empty cell of a session's board
func (s *gameServiceImpl) Insert(ctx context.Context, sessionID string, index, value int) (*InsertResult, error) {
	if err := engine.ValidateTile(value); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	inserted, err := sess.Engine.Insert(index, value)
	if err != nil {
		return nil, err
	}
	state := sess.Engine.GetState()

	s.logger.Debug("insert",
		zap.String("session_id", sess.ID),
		zap.Int("index", index),
		zap.Int("value", value),
		zap.Bool("inserted", inserted))

	return &InsertResult{
		Inserted:  inserted,
		Index:     index,
		Value:     value,
		GameState: state,
		Message:   state.Message,
	}, nil
}

// Reset resets a game session to its preset's starting board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("reset", zap.String("session_id", sess.ID))
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.GetState(), nil
}

// SlideBoard slides a caller-supplied board without touching any session
func (s *gameServiceImpl) SlideBoard(ctx context.Context, board engine.Board, direction string) (*SlideBoardResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	if err := engine.Validate(board.Rows()); err != nil {
		return nil, err
	}

	next, stats := board.SlideWithStats(dir)
	return &SlideBoardResult{
		Board: next,
		Stats: stats,
		Score: next.Score(),
	}, nil
}

// InsertBoard places a tile on a caller-supplied board
func (s *gameServiceImpl) InsertBoard(ctx context.Context, board engine.Board, index, value int) (engine.Board, error) {
	if err := engine.ValidateTile(value); err != nil {
		return engine.Board{}, err
	}
	if err := engine.Validate(board.Rows()); err != nil {
		return engine.Board{}, err
	}
	return engine.InsertCell(index, value, board), nil
}

// AnalyzeBoard reports every rule query for a caller-supplied board
func (s *gameServiceImpl) AnalyzeBoard(ctx context.Context, board engine.Board) (*engine.BoardAnalysis, error) {
	if err := engine.Validate(board.Rows()); err != nil {
		return nil, err
	}
	return engine.AnalyzeBoard(board), nil
}

// ListConfigs returns available board presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info("config saved", zap.String("config", configName))
	return nil
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

// slideEvents describes what a single slide did
func slideEvents(dir engine.Direction, stats engine.SlideStats, prev, next *engine.GameState) []GameEvent {
	now := time.Now()
	if !stats.Moved {
		return []GameEvent{{
			Type:      "slide",
			Message:   fmt.Sprintf("Nothing moved %s", dir),
			Timestamp: now,
		}}
	}

	events := []GameEvent{{
		Type:      "slide",
		Message:   fmt.Sprintf("Slid %s", dir),
		Timestamp: now,
	}}
	if stats.Merges > 0 {
		events = append(events, GameEvent{
			Type:      "merge",
			Message:   fmt.Sprintf("Merged %d pair(s) worth %d", stats.Merges, stats.MergedValue),
			Timestamp: now,
		})
	}
	if next.Won && !prev.Won {
		events = append(events, GameEvent{
			Type:      "won",
			Message:   fmt.Sprintf("Reached the %d tile", engine.WinningTile),
			Timestamp: now,
		})
	}
	if next.GameOver {
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   next.Message,
			Timestamp: now,
		})
	}
	return events
}
