// Package api provides the HTTP REST API for the 2048 server.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session from a preset ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - Slide once ({"direction": "left", "reset": false})
//   - POST /api/sessions/{id}/bulk-move - Slide several times ({"moves": ["up", "left"]})
//   - POST /api/sessions/{id}/insert - Place a tile ({"index": 0, "value": 2})
//   - POST /api/sessions/{id}/reset - Restore the preset's starting board
//
// Stateless Boards:
//   - POST /api/boards/slide - {"board": [[...]], "direction": "up"}
//   - POST /api/boards/insert - {"board": [[...]], "index": 3, "value": 4}
//   - POST /api/boards/analyze - {"board": [[...]]}
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get one preset
//   - POST /api/configs - Validate and save a preset
//
// Other:
//   - GET /api/health - Liveness and session count
//   - GET /ws?session={id} - WebSocket state updates
//
// The server never spawns tiles on its own; clients place them with the
// insert endpoint. Inserting into a full board, or at an index past the last
// empty cell, succeeds with "inserted": false.
//
// Errors are returned as {"error": "message"}. Invalid directions, tiles and
// boards map to 400, unknown sessions and presets to 404, everything else to
// 500.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":8080", server)
package api
