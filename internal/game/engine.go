package game

import (
	"math/rand"
	"time"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/event"
)

// Engine evaluates rules for a single game. It holds no per-game state of its
// own; every operation takes the game state it acts on. One engine instance
// is shared across games (the catalog is immutable).
type Engine struct {
	cat *catalog.Catalog
	sim *Simulator
	now func() time.Time
}

// NewEngine creates an engine over the given catalog.
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{
		cat: cat,
		sim: NewSimulator(cat),
		now: time.Now,
	}
}

// WithClock overrides the engine's wall clock. Tests only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Catalog exposes the engine's card catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Simulate re-runs the effect replay on the given state.
func (e *Engine) Simulate(gs *GameState) error {
	return e.sim.Replay(gs)
}

// rng returns a deterministic source for the state's next random decision.
// Seeding from the play sequence keeps replays and retries stable.
func (e *Engine) rng(gs *GameState) *rand.Rand {
	return rand.New(rand.NewSource(gs.Seed + int64(gs.Sequence.Len())))
}

// emitError appends an ERROR_OCCURRED event for a rejected action and returns
// the error unchanged. State is left untouched by the caller contract.
func (e *Engine) emitError(gs *GameState, playerID string, err error) error {
	gs.Events.Append(event.TypeErrorOccurred, map[string]any{
		"playerId":  playerID,
		"errorType": string(CodeOf(err)),
		"message":   err.Error(),
	})
	return err
}
