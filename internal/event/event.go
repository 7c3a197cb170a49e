// Package event provides the per-game append-only event buffer used to
// synchronize external observers, plus the event type vocabulary.
package event

// Type enumerates all observable game events.
type Type string

const (
	TypeRoomCreated           Type = "ROOM_CREATED"
	TypePlayerJoined          Type = "PLAYER_JOINED"
	TypeGameStarted           Type = "GAME_STARTED"
	TypeInitialHandDealt      Type = "INITIAL_HAND_DEALT"
	TypePlayerReady           Type = "PLAYER_READY"
	TypeHandRedrawn           Type = "HAND_REDRAWN"
	TypeDrawPhaseComplete     Type = "DRAW_PHASE_COMPLETE"
	TypePhaseChange           Type = "PHASE_CHANGE"
	TypeTurnSwitch            Type = "TURN_SWITCH"
	TypeCardPlayed            Type = "CARD_PLAYED"
	TypeZoneFilled            Type = "ZONE_FILLED"
	TypeCardEffectTriggered   Type = "CARD_EFFECT_TRIGGERED"
	TypeCardSelectionRequired Type = "CARD_SELECTION_REQUIRED"
	TypeCardSelectionComplete Type = "CARD_SELECTION_COMPLETED"
	TypeCardMovedToHand       Type = "CARD_MOVED_TO_HAND"
	TypeCardMovedToSPZone     Type = "CARD_MOVED_TO_SP_ZONE"
	TypeCardMovedToHelpZone   Type = "CARD_MOVED_TO_HELP_ZONE"
	TypeAllSPZonesFilled      Type = "ALL_SP_ZONES_FILLED"
	TypeAllMainZonesFilled    Type = "ALL_MAIN_ZONES_FILLED"
	TypeErrorOccurred         Type = "ERROR_OCCURRED"
	TypeGamePhaseStart        Type = "GAME_PHASE_START"
	TypeBattleResult          Type = "BATTLE_RESULT"
	TypeRoundEnd              Type = "ROUND_END"
	TypeGameEnd               Type = "GAME_END"
)

// Event is a single record in a game's event buffer.
type Event struct {
	ID                string         `json:"id"`
	Type              Type           `json:"type"`
	Data              map[string]any `json:"data,omitempty"`
	Timestamp         int64          `json:"timestamp"`
	ExpiresAt         int64          `json:"expiresAt"`
	FrontendProcessed bool           `json:"frontendProcessed"`
}
