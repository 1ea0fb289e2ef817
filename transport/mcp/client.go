package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"2048",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`2048 - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Slide tiles on a square board. Equal tiles that collide merge into their sum. Reach 2048.
The server never spawns tiles: use insert_tile to place new ones.

AVAILABLE TOOLS:
- create_session: Create a new game session from a preset
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get the current board and score
- slide: Slide all tiles once (up/down/left/right)
- bulk_slide: Slide several times in sequence
- insert_tile: Place a tile in the Nth empty cell
- reset_game: Restore the preset's starting board
- list_configs: List available board presets
- analyze_board: Analyze any board without a session
- game_instructions: Get the complete rules`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func directionProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"up", "down", "left", "right"},
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to start from (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, score and possible moves",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "slide",
		Description: "Slide every tile in a direction, merging equal neighbours once",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction":  directionProperty("Direction to slide"),
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before sliding",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleSlide)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_slide",
		Description: "Slide several times in sequence, stopping early at game over",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type":        "array",
					"items":       directionProperty("Direction"),
					"description": "Directions to slide, in order",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before sliding",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkSlide)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "insert_tile",
		Description: "Place a tile in the Nth empty cell, counting row by row from the top left",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based index among the empty cells",
				},
				"value": map[string]interface{}{
					"type":        "integer",
					"description": "Tile value, a power of 2 (usually 2 or 4)",
				},
			},
			Required: []string{"session_id", "index", "value"},
		},
	}, c.handleInsertTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to the preset's starting board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	// Configuration and analysis
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "analyze_board",
		Description: "Analyze any square board: score, empty cells, game over and the result of each slide",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"board": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "integer"},
					},
					"description": "Rows of the board, 0 for empty cells",
				},
			},
			Required: []string{"board"},
		},
	}, c.handleAnalyzeBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of 2048 as played on this server",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArgument accepts JSON numbers and numeric strings
func intArgument(args map[string]interface{}, key string) (int, error) {
	switch v := args[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer, got %v", key, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("%s is required", key)
	default:
		return 0, fmt.Errorf("%s must be an integer, got %v", key, v)
	}
}

func requireSessionID(args map[string]interface{}) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score := 0
		if s.GameState != nil {
			score = s.GameState.Score
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, score, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSessionID(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSessionID(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSessionID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSessionID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}
	if len(moves) == 0 {
		return mcp.NewToolResultError("moves must list at least one direction"), nil
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleInsertTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSessionID(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, err := intArgument(args, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := intArgument(args, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]int{"index": index, "value": value}

	var result service.InsertResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/insert"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatInsertResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSessionID(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Game reset\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s\n  %s\n  Board: %dx%d\n\n",
			config.ConfigID, config.Description, config.Size, config.Size)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleAnalyzeBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	board, ok := arguments(request)["board"]
	if !ok {
		return mcp.NewToolResultError("board is required"), nil
	}

	var analysis engine.BoardAnalysis
	body := map[string]interface{}{"board": board}
	if err := c.apiCall(ctx, "POST", "/api/boards/analyze", body, &analysis); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAnalysis(&analysis)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `2048 - Complete Instructions

GAME OBJECTIVE:
Merge tiles until one of them reaches 2048. The score is the sum of every tile on the board.

BOARD:
• A square grid, 4x4 by default (presets range from 2x2 to 16x16)
• 0 or "." marks an empty cell; every tile is a power of 2

SLIDING:
• slide moves every tile as far as it can go in one direction
• Two equal tiles that collide merge into one tile worth their sum
• A tile merges at most once per slide: [2,2,2,2] slid left becomes [4,4,0,0]
• Tiles nearer the wall merge first: [2,2,2,0] slid left becomes [4,2,0,0]
• Merging never changes the score, because the sum of the tiles stays the same

NEW TILES:
• The server never adds tiles on its own
• insert_tile places a tile in the Nth empty cell, counting row by row from the top left
• Inserting into a full board, or past the last empty cell, changes nothing

GAME OVER:
• The board is full and no two neighbouring tiles (horizontally or vertically) are equal
• bulk_slide stops as soon as the game is over

TOOLS:
• game_state shows the board and which directions would change it
• analyze_board previews all four slides for any board without touching a session

Good luck reaching 2048!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// formatBoard draws a board as a fixed-width grid, "." for empty cells
func formatBoard(b engine.Board) string {
	size := b.Size()
	if size == 0 {
		return "(empty board)\n"
	}

	width := len(strconv.Itoa(b.MaxTile()))
	if width < 1 {
		width = 1
	}

	var result strings.Builder
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if col > 0 {
				result.WriteString(" ")
			}
			cell := "."
			if v := b.Get(row, col); v != 0 {
				cell = strconv.Itoa(v)
			}
			fmt.Fprintf(&result, "%*s", width, cell)
		}
		result.WriteString("\n")
	}
	return result.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Score: %d | Max tile: %d | Empty cells: %d\n\n",
		state.Score, state.MaxTile, state.EmptyCells)

	result.WriteString(formatBoard(state.Board))

	if len(state.PossibleMoves) > 0 {
		fmt.Fprintf(&result, "\nPossible moves: %s", strings.Join(state.PossibleMoves, ", "))
	}

	switch {
	case state.GameOver:
		result.WriteString("\n💀 GAME OVER")
	case state.Won:
		result.WriteString("\n🎉 2048 reached!")
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatEvents(events []service.GameEvent) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Events:\n")
	for _, event := range events {
		fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var response strings.Builder
	if result.Moved {
		fmt.Fprintf(&response, "✓ Slid %s (%d merge(s))\n", result.Direction, result.Stats.Merges)
	} else {
		fmt.Fprintf(&response, "✗ Nothing moved %s\n", result.Direction)
	}

	response.WriteString(formatEvents(result.Events))
	response.WriteString("\n" + formatGameState(result.GameState))
	return response.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Executed %d/%d slides", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")

	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("Steps:\n")
		for _, s := range result.Steps {
			moved := "✗"
			if s.Moved {
				moved = "✓"
			}
			fmt.Fprintf(&b, "%2d. %-5s %s merges=%d empty=%d\n", s.Idx, s.Dir, moved, s.Merges, s.EmptyAfter)
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatInsertResult(result *service.InsertResult) string {
	var b strings.Builder
	if result.Inserted {
		fmt.Fprintf(&b, "✓ Placed %d at empty cell %d\n", result.Value, result.Index)
	} else {
		fmt.Fprintf(&b, "✗ No empty cell at index %d\n", result.Index)
	}
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatAnalysis(a *engine.BoardAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Size: %dx%d | Score: %d | Max tile: %d | Empty cells: %d\n",
		a.Size, a.Size, a.Score, a.MaxTile, a.EmptyCells)
	fmt.Fprintf(&b, "Full: %v | Adjacent cells different: %v | Game over: %v\n\n",
		a.Full, a.AdjacentCellsDifferent, a.GameOver)
	b.WriteString(formatBoard(a.Board))

	if len(a.PossibleMoves) == 0 {
		b.WriteString("\nNo slide changes this board.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(a.PossibleMoves, ", "))
	for _, dir := range engine.AllDirections {
		next, ok := a.Slides[dir.String()]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\nAfter %s:\n%s", dir, formatBoard(next))
	}
	return b.String()
}
