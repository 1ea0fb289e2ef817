// Package service provides the business logic layer for the 2048 server.
//
// The service package implements:
//   - Multi-session game management
//   - Slide, bulk slide, tile insertion and reset per session
//   - Stateless board operations for callers that keep their own board
//   - Preset listing, loading and saving
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and
// the engine. Each session owns its own engine.GameEngine. The service never
// spawns tiles: clients decide where new tiles go and send them with Insert.
//
// Errors:
//
// ErrSessionNotFound, ErrConfigNotFound and ErrInvalidConfig are wrapped
// with context; match them with errors.Is. Engine validation errors such as
// engine.ErrInvalidDirection and engine.ErrInvalidTile pass through unchanged.
//
// Usage:
//
//	sessionMgr := session.NewManagerWithLogger(logger)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, logger)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.Insert(ctx, info.ID, 0, 2)
//	result, err := gameService.Move(ctx, info.ID, "left", false)
package service
