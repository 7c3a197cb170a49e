package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

// starterGame mirrors the simple_test scenario hands: p1 holds a character
// spread plus a help and an sp card.
func starterGame(t *testing.T, e *Engine) *GameState {
	return mainPhaseGame(t, e,
		DeckState{
			Leaders:  []string{"s-1"},
			Hand:     []string{"c-1", "c-2", "c-3", "h-1", "sp-1"},
			MainDeck: []string{"c-4", "c-5", "c-6", "c-7", "h-3", "sp-3"},
		},
		DeckState{
			Leaders:  []string{"s-2"},
			Hand:     []string{"c-17", "c-18", "c-19", "h-2", "sp-2"},
			MainDeck: []string{"c-11", "c-12", "c-13", "c-14", "h-4", "sp-4"},
		},
	)
}

func TestPlaceCardFaceUpCharacter(t *testing.T) {
	e := newTestEngine()
	gs := starterGame(t, e)

	require.NoError(t, e.PlaceCard(gs, "p1", play(0, 0))) // c-1 to TOP

	pc := gs.FaceUpCharacter("p1", catalog.ZoneTop)
	require.NotNil(t, pc)
	assert.Equal(t, "c-1", pc.CardID)
	assert.Equal(t, 100, pc.ValueOnField)
	assert.Len(t, gs.Players["p1"].Deck.Hand, 4)
	assert.Equal(t, 145, gs.Players["p1"].FieldEffects.CalculatedPowers["c-1"])

	// The play lands in the sequence and the event stream.
	recs := gs.Sequence.ByPlayer("p1")
	last := recs[len(recs)-1]
	assert.Equal(t, SeqPlayCard, last.Action)
	assert.Equal(t, "c-1", last.CardID)
	assert.NotNil(t, lastEventOfType(gs, event.TypeCardPlayed))
	assert.NotNil(t, lastEventOfType(gs, event.TypeZoneFilled))
	assert.True(t, gs.Players["p1"].ActedOnTurn(1))
}

func TestPlaceCardValidationOrder(t *testing.T) {
	e := newTestEngine()

	t.Run("wrong phase", func(t *testing.T) {
		gs := starterGame(t, e)
		gs.Phase = PhaseDraw
		requireCode(t, e.PlaceCard(gs, "p1", play(0, 0)), ErrCodeInvalidPhase)
	})

	t.Run("not your turn", func(t *testing.T) {
		gs := starterGame(t, e)
		requireCode(t, e.PlaceCard(gs, "p2", play(0, 0)), ErrCodeWaitingForPlayer)
	})

	t.Run("field index out of range", func(t *testing.T) {
		gs := starterGame(t, e)
		requireCode(t, e.PlaceCard(gs, "p1", play(9, 0)), ErrCodeInvalidPosition)
	})

	t.Run("hand index out of range", func(t *testing.T) {
		gs := starterGame(t, e)
		requireCode(t, e.PlaceCard(gs, "p1", play(0, 42)), ErrCodeInvalidCardIndex)
	})

	t.Run("unknown card", func(t *testing.T) {
		gs := starterGame(t, e)
		gs.Players["p1"].Deck.Hand[0] = "c-999"
		requireCode(t, e.PlaceCard(gs, "p1", play(0, 0)), ErrCodeCardNotFound)
	})

	t.Run("sp zone face-down in main phase", func(t *testing.T) {
		gs := starterGame(t, e)
		requireCode(t, e.PlaceCard(gs, "p1", playBack(4, 0)), ErrCodePhaseRestriction)
	})

	t.Run("sp card outside sp phase", func(t *testing.T) {
		gs := starterGame(t, e)
		requireCode(t, e.PlaceCard(gs, "p1", play(4, 4)), ErrCodePhaseRestriction) // sp-1 face-up, main phase
	})

	t.Run("sp zone face-up in sp phase", func(t *testing.T) {
		gs := starterGame(t, e)
		gs.Phase = PhaseSP
		requireCode(t, e.PlaceCard(gs, "p1", play(4, 4)), ErrCodeSPPhaseRestriction)
	})

	t.Run("prevent play lock", func(t *testing.T) {
		gs := starterGame(t, e)
		gs.Players["p1"].FieldEffects.SpecialStates[StatePreventPlay] = true
		requireCode(t, e.PlaceCard(gs, "p1", play(0, 0)), ErrCodeFieldEffectRestriction)
	})

	t.Run("character in help zone", func(t *testing.T) {
		gs := starterGame(t, e)
		requireCode(t, e.PlaceCard(gs, "p1", play(3, 0)), ErrCodeCardTypeZone)
	})

	t.Run("help card in character zone", func(t *testing.T) {
		gs := starterGame(t, e)
		requireCode(t, e.PlaceCard(gs, "p1", play(0, 3)), ErrCodeCardTypeZone)
	})

	t.Run("character zone already occupied", func(t *testing.T) {
		gs := starterGame(t, e)
		require.NoError(t, e.PlaceCard(gs, "p1", play(0, 0)))
		requireCode(t, e.PlaceCard(gs, "p1", play(0, 0)), ErrCodeZoneOccupied) // c-2 onto TOP
	})

	t.Run("help zone occupancy counts face-down", func(t *testing.T) {
		gs := starterGame(t, e)
		require.NoError(t, e.PlaceCard(gs, "p1", playBack(3, 0)))
		requireCode(t, e.PlaceCard(gs, "p1", play(3, 2)), ErrCodeZoneOccupied) // h-1 onto set card
	})

	t.Run("zone compatibility", func(t *testing.T) {
		gs := starterGame(t, e)
		// p1's top only admits 右翼/自由/經濟; c-17 is 左翼.
		gs.Players["p1"].Deck.Hand = append(gs.Players["p1"].Deck.Hand, "c-17")
		requireCode(t, e.PlaceCard(gs, "p1", play(0, 5)), ErrCodeZoneCompatibility)
	})

	t.Run("placement freedom bypasses compatibility", func(t *testing.T) {
		gs := starterGame(t, e)
		gs.Players["p1"].Deck.Hand = append(gs.Players["p1"].Deck.Hand, "c-17")
		gs.Players["p1"].FieldEffects.SpecialStates[StateZonePlacementFreedom] = true
		require.NoError(t, e.PlaceCard(gs, "p1", play(0, 5)))
	})

	t.Run("face-down skips compatibility", func(t *testing.T) {
		gs := starterGame(t, e)
		gs.Players["p1"].Deck.Hand = append(gs.Players["p1"].Deck.Hand, "c-17")
		require.NoError(t, e.PlaceCard(gs, "p1", playBack(0, 5)))
		pc := gs.ZoneCards("p1", catalog.ZoneTop)[0]
		assert.True(t, pc.IsFaceDown)
		assert.Zero(t, pc.ValueOnField)
	})
}

func TestPlaceCardRejectionEmitsErrorEvent(t *testing.T) {
	e := newTestEngine()
	gs := starterGame(t, e)

	requireCode(t, e.PlaceCard(gs, "p1", play(9, 0)), ErrCodeInvalidPosition)

	ev := lastEventOfType(gs, event.TypeErrorOccurred)
	require.NotNil(t, ev)
	assert.Equal(t, string(ErrCodeInvalidPosition), ev.Data["errorType"])
	assert.Equal(t, "p1", ev.Data["playerId"])
	// The rejected play left no trace on the board.
	assert.Len(t, gs.Players["p1"].Deck.Hand, 5)
	assert.Empty(t, gs.ZoneCards("p1", catalog.ZoneTop))
}

func TestSelectionGateBlocksOtherActions(t *testing.T) {
	e := newTestEngine()
	gs := starterGame(t, e)
	gs.PendingAction = &PendingAction{
		Type:        PendingActionCardSelection,
		SelectionID: "sel-1",
		PlayerID:    "p1",
	}

	requireCode(t, e.PlaceCard(gs, "p1", play(0, 0)), ErrCodeSelectionPending)
	requireCode(t, e.PlaceCard(gs, "p2", play(0, 0)), ErrCodeWaitingForPlayer)
	requireCode(t, e.HandlePass(gs, "p1"), ErrCodeSelectionPending)
}

func TestOnSummonDrawCard(t *testing.T) {
	e := newTestEngine()
	gs := starterGame(t, e)

	require.NoError(t, e.PlaceCard(gs, "p1", play(0, 2))) // c-3: draw 1 on summon

	p1 := gs.Players["p1"]
	assert.Len(t, p1.Deck.Hand, 5, "played one, drew one")
	assert.Contains(t, p1.Deck.Hand, "c-4")
	assert.Len(t, p1.Deck.MainDeck, 5)
	ev := lastEventOfType(gs, event.TypeCardMovedToHand)
	require.NotNil(t, ev)
	assert.Equal(t, "c-4", ev.Data["cardId"])
}

func TestOnSummonSilenced(t *testing.T) {
	e := newTestEngine()
	gs := starterGame(t, e)
	// c-12's continuous effect silences the opponent's summon triggers.
	require.NoError(t, e.PlaceInjected(gs, "p2", "c-12", catalog.ZoneTop, false))
	require.True(t, gs.Players["p1"].FieldEffects.SpecialStates[StateSilenceOnSummon])

	require.NoError(t, e.PlaceCard(gs, "p1", play(0, 2))) // c-3 would draw 1

	assert.Len(t, gs.Players["p1"].Deck.Hand, 4, "no draw happened")
	assert.Nil(t, lastEventOfType(gs, event.TypeCardMovedToHand))
}

func TestOnSummonTargetNerfOpensSelection(t *testing.T) {
	e := newTestEngine()
	gs := starterGame(t, e)
	require.NoError(t, e.PlaceCard(gs, "p1", play(0, 0))) // c-1 on the field

	gs.CurrentPlayer = "p2"
	gs.Players["p2"].Deck.Hand = append(gs.Players["p2"].Deck.Hand, "c-20")
	require.NoError(t, e.PlaceCard(gs, "p2", play(1, 5))) // c-20: nerf 20, pick 1

	require.NotNil(t, gs.PendingAction)
	assert.Equal(t, "p2", gs.PendingAction.PlayerID)
	sel := gs.Selections[gs.PendingAction.SelectionID]
	require.NotNil(t, sel)
	assert.Equal(t, catalog.EffectPowerNerf, sel.EffectType)
	assert.Equal(t, 20, sel.EffectValue)
	require.Len(t, sel.EligibleTargets, 1)
	assert.Equal(t, "c-1", sel.EligibleTargets[0].CardID)

	require.NoError(t, e.ResolveSelection(gs, "p2", Action{
		Type:            ActionSelectCard,
		SelectionID:     sel.ID,
		SelectedCardIDs: []string{"c-1"},
	}))

	assert.Nil(t, gs.PendingAction)
	// 100 + 45 - 20.
	assert.Equal(t, 125, gs.Players["p1"].FieldEffects.CalculatedPowers["c-1"])
	recs := gs.Sequence.All()
	assert.Equal(t, SeqApplyPowerNerf, recs[len(recs)-1].Action)
}
