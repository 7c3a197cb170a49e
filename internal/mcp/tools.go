// Package mcp exposes the game orchestrator as MCP tools over stdio, so
// agent clients can create and play games.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/politicard/politicard/internal/game"
	"github.com/politicard/politicard/internal/web"
)

// Bridge adapts orchestrator calls to MCP tool handlers.
type Bridge struct {
	orch *game.Orchestrator
}

// NewBridge wraps an orchestrator.
func NewBridge(orch *game.Orchestrator) *Bridge {
	return &Bridge{orch: orch}
}

// RegisterTools adds all game tools to the MCP server.
func (b *Bridge) RegisterTools(s *server.MCPServer) {
	s.AddTool(createGameTool(), b.handleCreateGame)
	s.AddTool(joinGameTool(), b.handleJoinGame)
	s.AddTool(readyTool(), b.handleReady)
	s.AddTool(getGameStateTool(), b.handleGetGameState)
	s.AddTool(playCardTool(), b.handlePlayCard)
	s.AddTool(selectCardTool(), b.handleSelectCard)
	s.AddTool(passTool(), b.handlePass)
	s.AddTool(applyScenarioTool(), b.handleApplyScenario)
}

// --- Tool definitions ---

func createGameTool() mcp.Tool {
	return mcp.NewTool("create_game",
		mcp.WithDescription("Create a new game room. Returns the game ID. Two players must join before the game starts."),
		mcp.WithString("game_id", mcp.Description("Optional game ID; one is generated when omitted")),
	)
}

func joinGameTool() mcp.Tool {
	return mcp.NewTool("join_game",
		mcp.WithDescription("Join a waiting game room with the player's configured deck. The second join deals starting hands."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game to join")),
		mcp.WithString("player_id", mcp.Required(), mcp.Description("Joining player's ID")),
	)
}

func readyTool() mcp.Tool {
	return mcp.NewTool("ready",
		mcp.WithDescription("Mark a player ready during setup. The game starts once both players are ready."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("player_id", mcp.Required(), mcp.Description("Player marking ready")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the game state from one player's perspective: board, hand, pending selection. Read-only."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("player_id", mcp.Required(), mcp.Description("Viewing player's ID")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from hand to a field position. Positions: 0=TOP 1=LEFT 2=RIGHT 3=HELP 4=SP. "+
			"Set face_down true to play the card face-down."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("player_id", mcp.Required(), mcp.Description("Acting player's ID")),
		mcp.WithNumber("field_idx", mcp.Required(), mcp.Description("Field position, 0-4")),
		mcp.WithNumber("card_idx", mcp.Required(), mcp.Description("0-based index into the player's hand")),
		mcp.WithBoolean("face_down", mcp.Description("Play the card face-down")),
	)
}

func selectCardTool() mcp.Tool {
	return mcp.NewTool("select_card",
		mcp.WithDescription("Answer an open card selection. Use when the game state shows a pending selection for this player."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("player_id", mcp.Required(), mcp.Description("Selecting player's ID")),
		mcp.WithString("selection_id", mcp.Required(), mcp.Description("ID of the open selection")),
		mcp.WithString("card_ids", mcp.Required(), mcp.Description("JSON array of chosen card IDs, e.g. [\"c-1\"]")),
	)
}

func passTool() mcp.Tool {
	return mcp.NewTool("pass",
		mcp.WithDescription("Pass the current turn, or concede the SP slot during the SP phase."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("player_id", mcp.Required(), mcp.Description("Passing player's ID")),
	)
}

func applyScenarioTool() mcp.Tool {
	return mcp.NewTool("apply_scenario",
		mcp.WithDescription("Reset a game to a named scenario board position, skipping the lobby flow. Scenarios: simple_test."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Scenario name")),
	)
}

// --- Tool handlers ---

func (b *Bridge) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gs, err := b.orch.CreateGame(ctx, request.GetString("game_id", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("create game: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(map[string]string{"gameId": gs.ID})), nil
}

func (b *Bridge) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetString("game_id", "")
	playerID := request.GetString("player_id", "")
	gs, err := b.orch.Join(ctx, gameID, playerID, nil)
	return b.stateResult(gs, playerID, err)
}

func (b *Bridge) handleReady(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetString("game_id", "")
	playerID := request.GetString("player_id", "")
	gs, err := b.orch.Ready(ctx, gameID, playerID)
	return b.stateResult(gs, playerID, err)
}

func (b *Bridge) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetString("game_id", "")
	playerID := request.GetString("player_id", "")
	gs, err := b.orch.State(ctx, gameID)
	if err != nil {
		return mcp.NewToolResultErrorf("get state: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(web.NewStateView(gs, playerID))), nil
}

func (b *Bridge) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetString("game_id", "")
	playerID := request.GetString("player_id", "")
	act := game.Action{
		Type:     game.ActionPlayCard,
		FieldIdx: request.GetInt("field_idx", -1),
		CardIdx:  request.GetInt("card_idx", -1),
	}
	if request.GetBool("face_down", false) {
		act.Type = game.ActionPlayCardBack
	}
	gs, err := b.orch.HandleAction(ctx, gameID, playerID, act)
	return b.stateResult(gs, playerID, err)
}

func (b *Bridge) handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetString("game_id", "")
	playerID := request.GetString("player_id", "")

	var cardIDs []string
	if raw := request.GetString("card_ids", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cardIDs); err != nil {
			return mcp.NewToolResultErrorf("card_ids must be a JSON array of strings: %v", err), nil
		}
	}
	act := game.Action{
		Type:            game.ActionSelectCard,
		SelectionID:     request.GetString("selection_id", ""),
		SelectedCardIDs: cardIDs,
	}
	gs, err := b.orch.HandleAction(ctx, gameID, playerID, act)
	return b.stateResult(gs, playerID, err)
}

func (b *Bridge) handlePass(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetString("game_id", "")
	playerID := request.GetString("player_id", "")
	gs, err := b.orch.HandleAction(ctx, gameID, playerID, game.Action{Type: game.ActionPass})
	return b.stateResult(gs, playerID, err)
}

func (b *Bridge) handleApplyScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := request.GetString("game_id", "")
	gs, err := b.orch.Scenario(ctx, gameID, request.GetString("name", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("apply scenario: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(web.NewStateView(gs, ""))), nil
}

// stateResult renders the post-action state. Rejected actions return the
// engine's error code with the unchanged state so the client can retry.
func (b *Bridge) stateResult(gs *game.GameState, playerID string, err error) (*mcp.CallToolResult, error) {
	if err != nil && gs == nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	out := map[string]any{
		"state": web.NewStateView(gs, playerID),
	}
	if err != nil {
		out["error"] = map[string]string{
			"code":    string(game.CodeOf(err)),
			"message": err.Error(),
		}
	}
	return mcp.NewToolResultText(respondJSON(out)), nil
}

func respondJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
