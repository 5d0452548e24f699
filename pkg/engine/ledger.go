package engine

import "github.com/wardbell/medalarm/pkg/models"

// Ledger tracks which medications already produced an alert during the
// current unresolved episode. Without it the once-per-second sweep would
// re-fire the same alert every tick; the ledger edge-triggers the
// not-due → alertable transition.
//
// The ledger is owned and mutated only by the engine under its lock.
type Ledger struct {
	alerted map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{alerted: make(map[string]struct{})}
}

// ShouldAlert reports whether an alert should be created for the medication:
// the state must be alertable and the id must not already be in the set.
func (l *Ledger) ShouldAlert(id string, state models.DoseState) bool {
	if !state.Alertable() {
		return false
	}
	_, seen := l.alerted[id]
	return !seen
}

// MarkAlerted records that an alert was created for the medication. Called
// exactly once per alert creation, before fan-out dispatch.
func (l *Ledger) MarkAlerted(id string) {
	l.alerted[id] = struct{}{}
}

// Clear removes the medication from the set so a future episode (for example
// an un-completed dose re-added to the roster) can alert again.
func (l *Ledger) Clear(id string) {
	delete(l.alerted, id)
}

// Contains reports whether the medication has an open episode entry.
func (l *Ledger) Contains(id string) bool {
	_, seen := l.alerted[id]
	return seen
}
