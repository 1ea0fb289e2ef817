// Package mcp exposes the 2048 REST API as Model Context Protocol tools.
//
// Client is a thin proxy: every tool call becomes one REST request against
// a running API server, and the JSON answer is rendered as text with the
// board drawn as a fixed-width grid. No game rules live here.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state: board, score and possible moves
//   - slide, bulk_slide: one or several slides
//   - insert_tile: place a tile in the Nth empty cell
//   - reset_game: restore the preset's starting board
//   - list_configs: available presets
//   - analyze_board: stateless analysis of any board
//   - game_instructions: the rules
//
// Transport Modes:
//
// The same MCPServer is served over stdio (server.ServeStdio) or through the
// HTTP server's /mcp endpoint via HandleMessage.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
