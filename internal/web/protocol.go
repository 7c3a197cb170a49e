package web

import (
	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
	"github.com/politicard/politicard/internal/game"
)

// HiddenCardID is substituted for cards the viewer may not see.
const HiddenCardID = "hidden"

// StateView is the game state from one player's perspective. Opponent hands
// and face-down cards are redacted.
type StateView struct {
	GameID        string         `json:"gameId"`
	Phase         string         `json:"phase"`
	Round         int            `json:"round"`
	CurrentTurn   float64        `json:"currentTurn"`
	CurrentPlayer string         `json:"currentPlayer"`
	FirstPlayer   string         `json:"firstPlayer"`
	You           PlayerView     `json:"you"`
	Opponent      PlayerView     `json:"opponent"`
	Pending       *PendingView   `json:"pendingAction,omitempty"`
	Selection     *SelectionView `json:"selection,omitempty"`
	Winner        string         `json:"winner,omitempty"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	ID            string                  `json:"id"`
	Hand          []string                `json:"hand,omitempty"`
	HandCount     int                     `json:"handCount"`
	DeckCount     int                     `json:"deckCount"`
	Leader        string                  `json:"leader,omitempty"`
	Zones         map[string][]PlacedView `json:"zones"`
	PlayerPoint   int                     `json:"playerPoint"`
	VictoryPoints int                     `json:"victoryPoints"`
	Ready         bool                    `json:"ready"`
}

// PlacedView describes a card in a zone as seen by the viewer.
type PlacedView struct {
	CardID   string `json:"cardId"`
	FaceDown bool   `json:"faceDown,omitempty"`
	Value    int    `json:"value"`
}

// PendingView tells the viewer the game is gated on a choice.
type PendingView struct {
	Type        string `json:"type"`
	SelectionID string `json:"selectionId"`
	PlayerID    string `json:"playerId"`
}

// SelectionView is the open selection, shown only to its owner.
type SelectionView struct {
	SelectionID     string           `json:"selectionId"`
	EffectType      string           `json:"effectType"`
	SelectCount     int              `json:"selectCount"`
	EligibleCards   []string         `json:"eligibleCards,omitempty"`
	EligibleTargets []game.TargetRef `json:"eligibleTargets,omitempty"`
}

// ActionRequest is the body of POST /api/games/{id}/action.
type ActionRequest struct {
	PlayerID string      `json:"playerId"`
	Action   game.Action `json:"action"`
}

// NewStateView projects a game state into viewerID's perspective.
func NewStateView(gs *game.GameState, viewerID string) StateView {
	sv := StateView{
		GameID:        gs.ID,
		Phase:         string(gs.Phase),
		Round:         gs.Round,
		CurrentTurn:   gs.CurrentTurn,
		CurrentPlayer: gs.CurrentPlayer,
		FirstPlayer:   gs.FirstPlayer,
		Winner:        gs.Winner,
	}
	oppID := gs.Opponent(viewerID)
	if p, ok := gs.Players[viewerID]; ok {
		sv.You = newPlayerView(gs, p, true)
	}
	if p, ok := gs.Players[oppID]; ok {
		sv.Opponent = newPlayerView(gs, p, false)
	}
	if gs.PendingAction != nil {
		sv.Pending = &PendingView{
			Type:        gs.PendingAction.Type,
			SelectionID: gs.PendingAction.SelectionID,
			PlayerID:    gs.PendingAction.PlayerID,
		}
		if sel, ok := gs.Selections[gs.PendingAction.SelectionID]; ok && sel.PlayerID == viewerID {
			sv.Selection = &SelectionView{
				SelectionID:     sel.ID,
				EffectType:      sel.EffectType,
				SelectCount:     sel.SelectCount,
				EligibleCards:   sel.EligibleCards,
				EligibleTargets: sel.EligibleTargets,
			}
		}
	}
	return sv
}

func newPlayerView(gs *game.GameState, p *game.PlayerState, isViewer bool) PlayerView {
	pv := PlayerView{
		ID:            p.ID,
		HandCount:     len(p.Deck.Hand),
		DeckCount:     len(p.Deck.MainDeck),
		Zones:         map[string][]PlacedView{},
		PlayerPoint:   p.PlayerPoint,
		VictoryPoints: p.VictoryPoints,
		Ready:         p.Ready,
	}
	if isViewer {
		pv.Hand = append([]string(nil), p.Deck.Hand...)
	}
	if leader := gs.ActiveLeader(p.ID); leader != nil {
		pv.Leader = leader.CardID
	}
	for _, z := range catalog.FieldZones {
		var views []PlacedView
		for _, pc := range gs.ZoneCards(p.ID, z) {
			view := PlacedView{
				CardID:   pc.CardID,
				FaceDown: pc.IsFaceDown,
				Value:    pc.ValueOnField,
			}
			if pc.IsFaceDown && !isViewer {
				view.CardID = HiddenCardID
			}
			views = append(views, view)
		}
		pv.Zones[string(z)] = views
	}
	return pv
}

// EventsSince returns the events numbered after counter, for the push loop.
func EventsSince(gs *game.GameState, counter int) []event.Event {
	return gs.Events.Since(counter)
}
