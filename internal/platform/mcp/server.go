// Package mcp exposes Power 2048 sessions as MCP tools so language model
// agents can play over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/power2048/internal/engine"
	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/platform/web"
)

const instructions = `Power 2048 - MCP Interface

Slide the tiles of a 4x4 board. Equal neighbours merge into one tile worth
value*base. New games start with two tiles; every move that changes the
board spawns one more tile worth base.

Bases 2, 3, 4 and 5 are supported, each with its own target tile:
2 -> 2048, 3 -> 6561, 4 -> 65536, 5 -> 78125.
Modes: classic (untimed), 30, 60 and 300 second countdowns.

AVAILABLE TOOLS:
- new_game: Start a session (base, mode)
- move: Slide tiles up/down/left/right
- game_state: Show the board, score and status
- reset_game: Restart, optionally switching base or mode
- list_sessions: List active sessions`

// Server registers the game tools on an MCP server backed by a session
// manager.
type Server struct {
	manager   *web.Manager
	mcpServer *server.MCPServer
	logger    *log.Logger
}

// NewServer creates the MCP server and registers all tools.
func NewServer(manager *web.Manager, version string, logger *log.Logger) *Server {
	s := &Server{
		manager: manager,
		logger:  logger,
		mcpServer: server.NewMCPServer(
			"Power 2048",
			version,
			server.WithToolCapabilities(true),
			server.WithInstructions(instructions),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	sessionID := map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by new_game",
	}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new Power 2048 session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"base": map[string]interface{}{
					"type":        "integer",
					"enum":        engine.Bases,
					"description": "Merge base (default 2)",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"classic", "30", "60", "300"},
					"description": "Timer mode (default classic)",
				},
				"player": map[string]interface{}{
					"type":        "string",
					"description": "Name recorded with finished games (optional)",
				},
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide all tiles in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionID,
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, score, timer and status of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionID,
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Restart a session, optionally with a new base or mode",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionID,
				"base": map[string]interface{}{
					"type":        "integer",
					"enum":        engine.Bases,
					"description": "New merge base (optional)",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"classic", "30", "60", "300"},
					"description": "New timer mode (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleResetGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List active sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)
}

// Tool handlers

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	base, _ := intArg(args, "base")
	player, _ := args["player"].(string)

	var mode power2048.Mode
	if raw, _ := args["mode"].(string); raw != "" {
		m, err := power2048.ParseMode(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		mode = m
	}

	view, err := s.manager.Create(base, mode, player)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.debug("session created", "id", view.ID)

	return mcp.NewToolResultText(formatView(view)), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id, _ := args["session_id"].(string)
	raw, _ := args["direction"].(string)

	dir, err := engine.ParseDirection(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.manager.Move(id, dir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMove(dir, res)), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := arguments(request)["session_id"].(string)

	view, err := s.manager.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatView(view)), nil
}

func (s *Server) handleResetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id, _ := args["session_id"].(string)

	var base *int
	if b, ok := intArg(args, "base"); ok {
		base = &b
	}

	var mode *power2048.Mode
	if raw, _ := args["mode"].(string); raw != "" {
		m, err := power2048.ParseMode(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		mode = &m
	}

	view, err := s.manager.Reset(id, base, mode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Game reset.\n\n" + formatView(view)), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := s.manager.List()

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n", len(sessions))
	for _, v := range sessions {
		fmt.Fprintf(&b, "- %s (base %d, %s, score %d, %s)\n",
			v.ID, v.Base, v.Mode.Label(), v.Score, v.Status)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func (s *Server) debug(msg string, keyvals ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, keyvals...)
	}
}

// formatView renders a session as plain text for agents.
func formatView(v web.SessionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", v.ID)
	fmt.Fprintf(&b, "Base: %d  Target: %d  Mode: %s\n", v.Base, v.Target, v.Mode.Label())
	fmt.Fprintf(&b, "Score: %d  Best: %d  Moves: %d  Max tile: %d\n", v.Score, v.HighScore, v.Moves, v.MaxTile)
	fmt.Fprintf(&b, "Time: %s  Status: %s\n\n", v.TimeLabel(), v.Status)
	b.WriteString(v.Board.String())
	b.WriteString("\n")

	switch v.Status {
	case power2048.StatusWon:
		b.WriteString("\nYou reached the target tile. Use reset_game to play again.\n")
	case power2048.StatusLostTimeUp:
		b.WriteString("\nTime is up. Use reset_game to play again.\n")
	case power2048.StatusLostNoMoves:
		b.WriteString("\nNo moves left. Use reset_game to play again.\n")
	}
	return b.String()
}

func formatMove(dir engine.Direction, res web.MoveResponse) string {
	var b strings.Builder
	if res.Moved {
		fmt.Fprintf(&b, "Moved %s: +%d points", dir, res.Gained)
		if n := len(res.Merged); n > 0 {
			fmt.Fprintf(&b, ", %d merge(s)", n)
		}
		if res.Spawned != nil {
			fmt.Fprintf(&b, ", new tile at (%d,%d)", res.Spawned.Row, res.Spawned.Col)
		}
		b.WriteString("\n\n")
	} else {
		fmt.Fprintf(&b, "Moving %s changed nothing.\n\n", dir)
	}
	b.WriteString(formatView(res.State))
	return b.String()
}
