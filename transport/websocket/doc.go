// Package websocket pushes live 2048 board updates to browser clients.
//
// The package uses a hub-and-spoke model where a central Hub owns every
// connection. Each client gets a read pump and a write pump goroutine; the
// hub's Run loop is the only goroutine that touches the client registry, so
// registration, broadcasts and count queries all travel over channels.
//
// Message Protocol:
//
// Messages are JSON objects sent from server to client only:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//
// Anything a client sends is read and discarded so that pong frames keep
// flowing.
//
// Session Integration:
//
// Clients pick a session with the query parameter (?session=a1b2) when they
// connect. Updates are only delivered to clients of that session.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastToSession(sessionID, state)
//
// Cancelling the context passed to Run closes every client connection.
package websocket
