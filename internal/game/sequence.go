package game

import (
	"sort"
	"time"
)

// Play-sequence action kinds.
const (
	SeqPlayLeader = "PLAY_LEADER"
	SeqPlayCard   = "PLAY_CARD"

	// Synthetic records appended when a field-target selection resolves, so
	// that replay stays deterministic.
	SeqApplySetPower   = "APPLY_SET_POWER"
	SeqApplyPowerBoost = "APPLY_POWER_BOOST"
	SeqApplyPowerNerf  = "APPLY_POWER_NERF"
	SeqApplyNeutralize = "APPLY_NEUTRALIZE"
)

// PlayRecord is one entry of the append-only play log.
type PlayRecord struct {
	SequenceID int            `json:"sequenceId"`
	PlayerID   string         `json:"playerId"`
	CardID     string         `json:"cardId"`
	Action     string         `json:"action"`
	Zone       Zone           `json:"zone,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Timestamp  int64          `json:"timestamp"`
	Turn       float64        `json:"turn"`
	Phase      Phase          `json:"phase"`
}

// IsApply reports whether the record is a synthetic APPLY_* entry.
func (r PlayRecord) IsApply() bool {
	switch r.Action {
	case SeqApplySetPower, SeqApplyPowerBoost, SeqApplyPowerNerf, SeqApplyNeutralize:
		return true
	}
	return false
}

// PlaySequence is the totally ordered history of plays for one game.
// Sequence IDs are monotone from 1 with no gaps.
type PlaySequence struct {
	Records []PlayRecord `json:"records"`
	NextID  int          `json:"nextId"`
}

// NewPlaySequence creates an empty sequence.
func NewPlaySequence() *PlaySequence {
	return &PlaySequence{NextID: 1}
}

// Append adds a record, assigning the next sequence ID, and returns it.
func (ps *PlaySequence) Append(rec PlayRecord) PlayRecord {
	if ps.NextID == 0 {
		ps.NextID = 1
	}
	rec.SequenceID = ps.NextID
	ps.NextID++
	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().UnixMilli()
	}
	ps.Records = append(ps.Records, rec)
	return rec
}

// All returns the records sorted by sequence ID ascending.
func (ps *PlaySequence) All() []PlayRecord {
	out := append([]PlayRecord(nil), ps.Records...)
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceID < out[j].SequenceID })
	return out
}

// ByPlayer returns the player's records in order.
func (ps *PlaySequence) ByPlayer(playerID string) []PlayRecord {
	var out []PlayRecord
	for _, r := range ps.All() {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	return out
}

// ByPhase returns the records made during the given phase.
func (ps *PlaySequence) ByPhase(phase Phase) []PlayRecord {
	var out []PlayRecord
	for _, r := range ps.All() {
		if r.Phase == phase {
			out = append(out, r)
		}
	}
	return out
}

// ByTurn returns the records made during the given turn.
func (ps *PlaySequence) ByTurn(turn float64) []PlayRecord {
	var out []PlayRecord
	for _, r := range ps.All() {
		if r.Turn == turn {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records.
func (ps *PlaySequence) Len() int {
	return len(ps.Records)
}

// Validate detects sequence gaps and duplicate IDs. A failure here means the
// state is corrupted and the game must refuse further actions.
func (ps *PlaySequence) Validate() error {
	all := ps.All()
	for i, r := range all {
		want := i + 1
		if r.SequenceID < want {
			return Errf(ErrCodeSequenceCorrupt, "duplicate sequence id %d", r.SequenceID)
		}
		if r.SequenceID > want {
			return Errf(ErrCodeSequenceCorrupt, "sequence gap: want %d, have %d", want, r.SequenceID)
		}
	}
	return nil
}

// LeaderPlays returns all PLAY_LEADER records in order.
func (ps *PlaySequence) LeaderPlays() []PlayRecord {
	var out []PlayRecord
	for _, r := range ps.All() {
		if r.Action == SeqPlayLeader {
			out = append(out, r)
		}
	}
	return out
}

// Clear drops records for a round transition. With keepLeaders it retains the
// PLAY_LEADER entries (renumbered densely from 1); otherwise everything goes.
func (ps *PlaySequence) Clear(keepLeaders bool) {
	if !keepLeaders {
		ps.Records = nil
		ps.NextID = 1
		return
	}
	leaders := ps.LeaderPlays()
	ps.Records = nil
	ps.NextID = 1
	for _, r := range leaders {
		r.SequenceID = 0
		ps.Append(r)
	}
}
