package game

import (
	"github.com/politicard/politicard/internal/event"
)

// Scenario names accepted by ApplyScenario.
const (
	ScenarioSimpleTest = "simple_test"
)

// ApplyScenario rebuilds a room into a named, fully deterministic board
// position. Scenarios bypass the lobby flow so tests and demo clients can
// start mid-game.
func (e *Engine) ApplyScenario(gs *GameState, name string) error {
	switch name {
	case ScenarioSimpleTest:
		return e.applySimpleTest(gs)
	default:
		return Errf(ErrCodeInvalidActionType, "unknown scenario %q", name)
	}
}

// applySimpleTest sets up two players in the main phase with leaders summoned
// and five-card hands, ready for placement testing.
func (e *Engine) applySimpleTest(gs *GameState) error {
	gs.Phase = PhaseWaiting
	gs.Round = 1
	gs.Players = map[string]*PlayerState{}
	gs.Zones = map[string]map[Zone][]*PlacedCard{}
	gs.Sequence = NewPlaySequence()
	gs.Selections = map[string]*CardSelection{}
	gs.PendingAction = nil
	gs.Neutralizations = []NeutralizationRecord{}
	if gs.Seed == 0 {
		gs.Seed = e.now().UnixNano()
	}

	gs.AddPlayer("player1", DeckState{
		Leaders:  []string{"s-1", "s-3"},
		Hand:     []string{"c-1", "c-2", "c-3", "h-1", "sp-1"},
		MainDeck: []string{"c-4", "c-5", "c-6", "c-7", "h-3", "sp-3"},
	})
	gs.AddPlayer("player2", DeckState{
		Leaders:  []string{"s-2", "s-4"},
		Hand:     []string{"c-17", "c-18", "c-19", "h-2", "sp-2"},
		MainDeck: []string{"c-11", "c-12", "c-13", "c-14", "h-4", "sp-4"},
	})

	first := "player1"
	if a, b := gs.CurrentLeaderDef(e.cat, "player1"), gs.CurrentLeaderDef(e.cat, "player2"); a != nil && b != nil && b.InitialPoint > a.InitialPoint {
		first = "player2"
	}
	gs.FirstPlayer = first
	for _, id := range []string{first, gs.Opponent(first)} {
		if err := e.recordLeaderPlay(gs, id); err != nil {
			return err
		}
	}

	gs.Phase = PhaseMain
	gs.CurrentTurn = 1
	gs.CurrentPlayer = first
	gs.Events.Append(event.TypeGameStarted, map[string]any{
		"firstPlayer": first,
		"scenario":    ScenarioSimpleTest,
	})
	return e.Simulate(gs)
}
