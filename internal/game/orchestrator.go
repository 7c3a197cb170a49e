package game

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/politicard/politicard/internal/catalog"
)

// GameStore is the persistence surface the orchestrator needs. The store
// package provides memory and Redis implementations.
type GameStore interface {
	Load(ctx context.Context, gameID string) (*GameState, error)
	Save(ctx context.Context, gs *GameState) error
	Delete(ctx context.Context, gameID string) error
	List(ctx context.Context) ([]string, error)
}

// Orchestrator serializes actions per game and keeps the stored state
// consistent: load, mutate through the engine, advance the flow, save.
type Orchestrator struct {
	engine *Engine
	store  GameStore
	log    *logrus.Logger
	locks  sync.Map // gameID -> *sync.Mutex
}

// NewOrchestrator wires an engine to a store.
func NewOrchestrator(engine *Engine, st GameStore, log *logrus.Logger) *Orchestrator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Orchestrator{engine: engine, store: st, log: log}
}

// Engine exposes the underlying rules engine, mainly for tests.
func (o *Orchestrator) Engine() *Engine {
	return o.engine
}

func (o *Orchestrator) lock(gameID string) *sync.Mutex {
	mu, _ := o.locks.LoadOrStore(gameID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CreateGame opens a new room. An empty ID gets a generated one.
func (o *Orchestrator) CreateGame(ctx context.Context, gameID string) (*GameState, error) {
	if gameID == "" {
		gameID = uuid.NewString()
	}
	mu := o.lock(gameID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := o.store.Load(ctx, gameID); err == nil {
		return nil, Errf(ErrCodeInvalidActionType, "game %s already exists", gameID)
	}
	gs := o.engine.CreateGame(gameID)
	if err := o.store.Save(ctx, gs); err != nil {
		return nil, err
	}
	o.log.WithField("gameId", gameID).Info("game created")
	return gs, nil
}

// State returns the current state of a game.
func (o *Orchestrator) State(ctx context.Context, gameID string) (*GameState, error) {
	mu := o.lock(gameID)
	mu.Lock()
	defer mu.Unlock()
	return o.store.Load(ctx, gameID)
}

// Join adds a player to a waiting room.
func (o *Orchestrator) Join(ctx context.Context, gameID, playerID string, deck *catalog.Deck) (*GameState, error) {
	return o.mutate(ctx, gameID, playerID, func(gs *GameState) error {
		return o.engine.Join(gs, playerID, deck)
	})
}

// Redraw replaces a player's starting hand, once, during setup.
func (o *Orchestrator) Redraw(ctx context.Context, gameID, playerID string) (*GameState, error) {
	return o.mutate(ctx, gameID, playerID, func(gs *GameState) error {
		return o.engine.Redraw(gs, playerID)
	})
}

// Ready marks a player ready; the game starts when both are.
func (o *Orchestrator) Ready(ctx context.Context, gameID, playerID string) (*GameState, error) {
	return o.mutate(ctx, gameID, playerID, func(gs *GameState) error {
		return o.engine.Ready(gs, playerID)
	})
}

// HandleAction routes an inbound action to the engine and advances the game
// flow afterwards.
func (o *Orchestrator) HandleAction(ctx context.Context, gameID, playerID string, act Action) (*GameState, error) {
	return o.mutate(ctx, gameID, playerID, func(gs *GameState) error {
		o.engine.CancelExpiredSelection(gs, DefaultSelectionTTL)

		var err error
		switch act.Type {
		case ActionPlayCard, ActionPlayCardBack:
			err = o.engine.PlaceCard(gs, playerID, act)
		case ActionSelectCard:
			err = o.engine.ResolveSelection(gs, playerID, act)
		case ActionPass:
			err = o.engine.HandlePass(gs, playerID)
		default:
			err = o.engine.emitError(gs, playerID, Errf(ErrCodeInvalidActionType, "unknown action type %q", act.Type))
		}
		if err != nil {
			return err
		}
		return o.engine.MaybeAdvance(gs)
	})
}

// AcknowledgeEvent marks a pushed event processed; acknowledging the draw
// event moves the turn into the main phase.
func (o *Orchestrator) AcknowledgeEvent(ctx context.Context, gameID, playerID, eventID string) (*GameState, error) {
	return o.mutate(ctx, gameID, playerID, func(gs *GameState) error {
		return o.engine.AcknowledgeDraw(gs, eventID)
	})
}

// Inject installs an externally built state for the game, reconciling its
// play sequence first.
func (o *Orchestrator) Inject(ctx context.Context, gameID string, gs *GameState) (*GameState, error) {
	mu := o.lock(gameID)
	mu.Lock()
	defer mu.Unlock()

	gs.ID = gameID
	if err := o.engine.InjectState(gs); err != nil {
		return nil, err
	}
	if err := o.store.Save(ctx, gs); err != nil {
		return nil, err
	}
	o.log.WithField("gameId", gameID).Info("state injected")
	return gs, nil
}

// Scenario resets the game to a named board position.
func (o *Orchestrator) Scenario(ctx context.Context, gameID, name string) (*GameState, error) {
	mu := o.lock(gameID)
	mu.Lock()
	defer mu.Unlock()

	gs, err := o.store.Load(ctx, gameID)
	if err != nil {
		gs = o.engine.CreateGame(gameID)
	}
	if err := o.engine.ApplyScenario(gs, name); err != nil {
		return nil, err
	}
	if err := o.store.Save(ctx, gs); err != nil {
		return nil, err
	}
	o.log.WithFields(logrus.Fields{"gameId": gameID, "scenario": name}).Info("scenario applied")
	return gs, nil
}

// Delete removes a finished or abandoned game.
func (o *Orchestrator) Delete(ctx context.Context, gameID string) error {
	mu := o.lock(gameID)
	mu.Lock()
	defer mu.Unlock()
	return o.store.Delete(ctx, gameID)
}

// List returns all stored game IDs.
func (o *Orchestrator) List(ctx context.Context) ([]string, error) {
	return o.store.List(ctx)
}

// mutate runs fn against the loaded state under the game's lock and persists
// the result. Engine errors are persisted too, because rejections append
// error events; only fatal corruption skips the save.
func (o *Orchestrator) mutate(ctx context.Context, gameID, playerID string, fn func(*GameState) error) (*GameState, error) {
	mu := o.lock(gameID)
	mu.Lock()
	defer mu.Unlock()

	gs, err := o.store.Load(ctx, gameID)
	if err != nil {
		return nil, Errf(ErrCodeGameNotFound, "game %s not found", gameID)
	}

	mErr := fn(gs)
	if mErr != nil && IsFatal(mErr) {
		o.log.WithFields(logrus.Fields{
			"gameId":   gameID,
			"playerId": playerID,
		}).WithError(mErr).Error("game state corrupt")
		return nil, mErr
	}
	if err := o.store.Save(ctx, gs); err != nil {
		return nil, err
	}
	if mErr != nil {
		o.log.WithFields(logrus.Fields{
			"gameId":   gameID,
			"playerId": playerID,
			"code":     string(CodeOf(mErr)),
		}).Debug("action rejected")
		return gs, mErr
	}
	return gs, nil
}
