package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

func TestStartTurnAlternatesHalfSteps(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}, MainDeck: []string{"c-4", "c-5"}},
		DeckState{Leaders: []string{"s-2"}, MainDeck: []string{"c-11", "c-13"}},
	)

	e.StartTurn(gs)
	assert.Equal(t, 1.5, gs.CurrentTurn)
	assert.Equal(t, "p2", gs.CurrentPlayer)
	assert.Equal(t, PhaseDraw, gs.Phase)
	assert.Len(t, gs.Players["p2"].Deck.Hand, 1)

	ev := lastEventOfType(gs, event.TypeDrawPhaseComplete)
	require.NotNil(t, ev)
	assert.Equal(t, "c-11", ev.Data["cardId"])

	e.StartTurn(gs)
	assert.Equal(t, 2.0, gs.CurrentTurn)
	assert.Equal(t, "p1", gs.CurrentPlayer)
}

func TestStartTurnEmptyDeckDrawsNothing(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}},
		DeckState{Leaders: []string{"s-2"}, Hand: []string{"c-17"}},
	)

	e.StartTurn(gs)
	assert.Len(t, gs.Players["p2"].Deck.Hand, 1, "nothing to draw")
	ev := lastEventOfType(gs, event.TypeDrawPhaseComplete)
	require.NotNil(t, ev)
	assert.NotContains(t, ev.Data, "cardId")
}

func TestAcknowledgeDraw(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}, MainDeck: []string{"c-4"}},
		DeckState{Leaders: []string{"s-2"}, MainDeck: []string{"c-11"}},
	)

	requireCode(t, e.AcknowledgeDraw(gs, ""), ErrCodeInvalidPhase)

	e.StartTurn(gs)
	requireCode(t, e.AcknowledgeDraw(gs, "event_bogus_99"), ErrCodeInvalidSelection)
	assert.Equal(t, PhaseDraw, gs.Phase)

	ev := lastEventOfType(gs, event.TypeDrawPhaseComplete)
	require.NoError(t, e.AcknowledgeDraw(gs, ev.ID))
	assert.Equal(t, PhaseMain, gs.Phase)
	assert.True(t, gs.Events.Find(ev.ID).FrontendProcessed)
	change := lastEventOfType(gs, event.TypePhaseChange)
	require.NotNil(t, change)
	assert.Equal(t, string(PhaseMain), change.Data["to"])
}

func TestMaybeAdvanceSwitchesTurnAfterAction(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}, Hand: []string{"c-1", "c-2"}, MainDeck: []string{"c-4"}},
		DeckState{Leaders: []string{"s-2"}, Hand: []string{"c-17"}, MainDeck: []string{"c-11"}},
	)

	require.NoError(t, e.PlaceCard(gs, "p1", play(0, 0)))
	require.NoError(t, e.MaybeAdvance(gs))

	assert.Equal(t, 1.5, gs.CurrentTurn)
	assert.Equal(t, "p2", gs.CurrentPlayer)
	assert.Equal(t, PhaseDraw, gs.Phase)
}

func TestMaybeAdvanceHoldsWhileSelectionPending(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}, Hand: []string{"c-9"}, MainDeck: []string{"sp-1", "c-4"}},
		DeckState{Leaders: []string{"s-2"}, Hand: []string{"c-17"}},
	)

	require.NoError(t, e.PlaceCard(gs, "p1", play(0, 0)))
	require.NotNil(t, gs.PendingAction)
	require.NoError(t, e.MaybeAdvance(gs))

	assert.Equal(t, 1.0, gs.CurrentTurn, "turn frozen behind the gate")
	assert.Equal(t, PhaseMain, gs.Phase)
}

func TestAutoSkipStuckPlayer(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}, Hand: []string{"c-1", "c-2"}, MainDeck: []string{"c-4"}},
		DeckState{Leaders: []string{"s-2"}}, // no hand, no deck
	)

	require.NoError(t, e.HandlePass(gs, "p1"))

	// p2 had nothing to draw or play, so the turn came straight back.
	assert.Equal(t, "p1", gs.CurrentPlayer)
	assert.Equal(t, 2.0, gs.CurrentTurn)
	assert.Equal(t, PhaseDraw, gs.Phase)
	assert.Len(t, gs.Players["p1"].Deck.Hand, 3)
}

func TestHandlePassRequiresOwnTurn(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1"}, Hand: []string{"c-1"}},
		DeckState{Leaders: []string{"s-2"}, Hand: []string{"c-17"}},
	)

	requireCode(t, e.HandlePass(gs, "p2"), ErrCodeWaitingForPlayer)

	gs.Phase = PhaseBattle
	requireCode(t, e.HandlePass(gs, "p1"), ErrCodeInvalidPhase)
}

// fillMainZones loads every character and help zone for both players so the
// main phase is complete.
func fillMainZones(t *testing.T, e *Engine, gs *GameState) {
	t.Helper()
	for zone, id := range map[catalog.Zone]string{
		catalog.ZoneTop:   "c-1",
		catalog.ZoneLeft:  "c-2",
		catalog.ZoneRight: "c-6",
		catalog.ZoneHelp:  "h-1",
	} {
		require.NoError(t, e.PlaceInjected(gs, "p1", id, zone, false))
	}
	for zone, id := range map[catalog.Zone]string{
		catalog.ZoneTop:   "c-17",
		catalog.ZoneLeft:  "c-18",
		catalog.ZoneRight: "c-19",
		catalog.ZoneHelp:  "h-4",
	} {
		require.NoError(t, e.PlaceInjected(gs, "p2", id, zone, false))
	}
}

func TestMainPhaseCompleteEntersSPPhase(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1", "s-3"}, Hand: []string{"sp-1"}},
		DeckState{Leaders: []string{"s-2", "s-4"}, Hand: []string{"sp-2"}},
	)
	fillMainZones(t, e, gs)

	require.NoError(t, e.MaybeAdvance(gs))

	assert.NotNil(t, lastEventOfType(gs, event.TypeAllMainZonesFilled))
	assert.Equal(t, PhaseSP, gs.Phase)
	assert.Equal(t, "p1", gs.CurrentPlayer, "first player still owes an sp card")

	// p1 sets an sp card; the phase hands over to p2.
	require.NoError(t, e.PlaceCard(gs, "p1", playBack(4, 0)))
	require.NoError(t, e.MaybeAdvance(gs))
	assert.Equal(t, PhaseSP, gs.Phase)
	assert.Equal(t, "p2", gs.CurrentPlayer)

	// p2 sets too; both zones filled resolves the battle.
	require.NoError(t, e.PlaceCard(gs, "p2", playBack(4, 0)))
	require.NoError(t, e.MaybeAdvance(gs))
	assert.NotNil(t, lastEventOfType(gs, event.TypeAllSPZonesFilled))
	assert.NotNil(t, lastEventOfType(gs, event.TypeBattleResult))
}

func TestMainPhaseCompleteSkipsSPWhenNobodyHoldsOne(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1", "s-3"}, Hand: []string{"c-4"}},
		DeckState{Leaders: []string{"s-2", "s-4"}, Hand: []string{"c-11"}},
	)
	fillMainZones(t, e, gs)

	require.NoError(t, e.MaybeAdvance(gs))

	// Straight to battle: no sp cards in either hand or on the field.
	assert.NotNil(t, lastEventOfType(gs, event.TypeBattleResult))
}

func TestHandlePassInSPPhaseConcedesSlot(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1", "s-3"}, Hand: []string{"sp-1"}},
		DeckState{Leaders: []string{"s-2", "s-4"}, Hand: []string{"sp-2"}},
	)
	fillMainZones(t, e, gs)
	require.NoError(t, e.MaybeAdvance(gs))
	require.Equal(t, PhaseSP, gs.Phase)

	// p1 declines to play an sp card; the slot is conceded for the round.
	require.NoError(t, e.HandlePass(gs, "p1"))
	assert.Equal(t, "p2", gs.CurrentPlayer)
	assert.True(t, gs.Players["p1"].SPPassed)

	// p2 sets one; the conceded slot counts as settled and battle resolves.
	require.NoError(t, e.PlaceCard(gs, "p2", playBack(4, 0)))
	require.NoError(t, e.MaybeAdvance(gs))
	assert.NotNil(t, lastEventOfType(gs, event.TypeBattleResult))
}

func TestHandlePassBothSPSlotsConcededReachesBattle(t *testing.T) {
	e := newTestEngine()
	gs := mainPhaseGame(t, e,
		DeckState{Leaders: []string{"s-1", "s-3"}, Hand: []string{"sp-1"}},
		DeckState{Leaders: []string{"s-2", "s-4"}, Hand: []string{"sp-2"}},
	)
	fillMainZones(t, e, gs)
	require.NoError(t, e.MaybeAdvance(gs))
	require.Equal(t, PhaseSP, gs.Phase)

	// Neither player wants to set an sp card. Two passes settle both slots;
	// the phase must not bounce between two empty sp zones.
	require.NoError(t, e.HandlePass(gs, "p1"))
	require.Equal(t, PhaseSP, gs.Phase)
	require.NoError(t, e.HandlePass(gs, "p2"))

	assert.NotNil(t, lastEventOfType(gs, event.TypeBattleResult))
	assert.NotEqual(t, PhaseSP, gs.Phase)
}
