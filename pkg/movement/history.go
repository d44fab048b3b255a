package movement

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// Outcome is how a movement left the engine.
type Outcome string

// Terminal outcomes.
const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeStopped   Outcome = "stopped"
)

type outcomeRecord struct {
	shotType   ShotType
	outcome    Outcome
	err        string
	finishedAt time.Time
}

// history remembers the last few finished movements, oldest evicted first.
// Callers hold Manager.mu.
type history struct {
	limit   int
	records *orderedmap.OrderedMap[string, outcomeRecord]
}

func newHistory(limit int) *history {
	return &history{
		limit:   limit,
		records: orderedmap.NewOrderedMap[string, outcomeRecord](),
	}
}

func (h *history) record(mv *Movement, outcome Outcome, err error, at time.Time) {
	if h.limit <= 0 {
		return
	}
	rec := outcomeRecord{
		shotType:   mv.ShotType,
		outcome:    outcome,
		finishedAt: at,
	}
	if err != nil {
		rec.err = err.Error()
	}
	h.records.Set(mv.ID, rec)

	for h.records.Len() > h.limit {
		h.records.Delete(h.records.Front().Key)
	}
}

func (h *history) lookup(id string) (outcomeRecord, bool) {
	return h.records.Get(id)
}

func (h *history) len() int {
	return h.records.Len()
}
