package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wardbell/medalarm/pkg/models"
)

// DefaultEscalationDelay is how long an initial alert may sit unresolved
// before a reminder re-alert fires.
const DefaultEscalationDelay = 120 * time.Second

// FireFunc handles a fired escalation. It receives only the medication id
// and the dose state captured at schedule time; current alert and completion
// state must be re-read by the handler, never carried in the closure.
type FireFunc func(medicationID string, original models.DoseState)

type escalationEntry struct {
	timer *time.Timer
	state models.DoseState
}

// EscalationManager schedules one-shot reminder timers, at most one pending
// per medication id. Arming a new timer for an id cancels the prior one.
type EscalationManager struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*escalationEntry
	fire    FireFunc
	log     zerolog.Logger
}

// NewEscalationManager creates a manager firing through fn after delay.
func NewEscalationManager(delay time.Duration, fn FireFunc, log zerolog.Logger) *EscalationManager {
	if delay <= 0 {
		delay = DefaultEscalationDelay
	}
	return &EscalationManager{
		delay:   delay,
		pending: make(map[string]*escalationEntry),
		fire:    fn,
		log:     log,
	}
}

// Arm schedules a reminder for the medication, replacing any pending one.
func (em *EscalationManager) Arm(medicationID string, state models.DoseState) {
	em.mu.Lock()
	defer em.mu.Unlock()

	if prev, exists := em.pending[medicationID]; exists {
		prev.timer.Stop()
	}

	entry := &escalationEntry{state: state}
	entry.timer = time.AfterFunc(em.delay, func() {
		em.fired(medicationID, entry)
	})
	em.pending[medicationID] = entry

	em.log.Debug().Str("medication", medicationID).Str("state", string(state)).
		Dur("delay", em.delay).Msg("escalation armed")
}

// fired removes the entry before invoking the handler so the fire callback
// runs without the manager lock held.
func (em *EscalationManager) fired(medicationID string, entry *escalationEntry) {
	em.mu.Lock()
	current, exists := em.pending[medicationID]
	if !exists || current != entry {
		// Cancelled or superseded between timer fire and lock acquisition.
		em.mu.Unlock()
		return
	}
	delete(em.pending, medicationID)
	em.mu.Unlock()

	if em.fire != nil {
		em.fire(medicationID, entry.state)
	}
}

// SetDelay changes the delay used for subsequently armed timers.
func (em *EscalationManager) SetDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	em.mu.Lock()
	defer em.mu.Unlock()
	em.delay = d
}

// Cancel drops the pending timer for the medication without firing.
// Idempotent.
func (em *EscalationManager) Cancel(medicationID string) {
	em.mu.Lock()
	defer em.mu.Unlock()

	if entry, exists := em.pending[medicationID]; exists {
		entry.timer.Stop()
		delete(em.pending, medicationID)
		em.log.Debug().Str("medication", medicationID).Msg("escalation cancelled")
	}
}

// CancelAll drops every pending timer. Called on engine teardown.
func (em *EscalationManager) CancelAll() {
	em.mu.Lock()
	defer em.mu.Unlock()

	for id, entry := range em.pending {
		entry.timer.Stop()
		delete(em.pending, id)
	}
}

// IsPending reports whether a reminder is scheduled for the medication.
func (em *EscalationManager) IsPending(medicationID string) bool {
	em.mu.Lock()
	defer em.mu.Unlock()
	_, exists := em.pending[medicationID]
	return exists
}

// PendingCount returns the number of scheduled reminders.
func (em *EscalationManager) PendingCount() int {
	em.mu.Lock()
	defer em.mu.Unlock()
	return len(em.pending)
}
