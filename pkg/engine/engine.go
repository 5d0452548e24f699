package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wardbell/medalarm/pkg/models"
)

// DefaultTickInterval drives the classifier sweep. Second-granularity
// polling is the contract; dose times are minute precision.
const DefaultTickInterval = 1 * time.Second

// Config wires an Engine. Zero-value fields fall back to defaults; nil
// channels are skipped at dispatch time.
type Config struct {
	Clock           Clock
	Logger          zerolog.Logger
	TickInterval    time.Duration
	EscalationDelay time.Duration

	Toaster Toaster
	System  SystemNotifier
	Blocker Blocker
	Sound   AlarmSounder

	// OnChange is invoked (on its own goroutine) after the set of active
	// alerts changes, so the UI can rebuild badges and tray menus.
	OnChange func()
}

// Engine is the medication alert scheduler. It owns the alert store, the
// dedup ledger, and the escalation timers; the watched medication list is
// a read-only snapshot replaced through SetMedications.
type Engine struct {
	mu   sync.Mutex
	meds []models.Medication

	clock      Clock
	log        zerolog.Logger
	ledger     *Ledger
	store      *AlertStore
	escalation *EscalationManager
	fanout     *Fanout

	tickInterval time.Duration
	ticker       *time.Ticker
	stopCh       chan struct{}
	started      bool
	stopOnce     sync.Once
	onChange     func()
}

// New creates an Engine from the config.
func New(cfg Config) *Engine {
	e := &Engine{
		clock:        cfg.Clock,
		log:          cfg.Logger,
		ledger:       NewLedger(),
		store:        NewAlertStore(),
		tickInterval: cfg.TickInterval,
		stopCh:       make(chan struct{}),
		onChange:     cfg.OnChange,
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.tickInterval <= 0 {
		e.tickInterval = DefaultTickInterval
	}

	e.fanout = NewFanout(cfg.Toaster, cfg.System, cfg.Blocker, cfg.Sound, cfg.Logger)
	e.escalation = NewEscalationManager(cfg.EscalationDelay, e.handleEscalation, cfg.Logger)

	return e
}

// Start launches the periodic sweep. Safe to call once.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.ticker = time.NewTicker(e.tickInterval)
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-e.stopCh:
				return
			case <-e.ticker.C:
				e.Tick()
			}
		}
	}()
}

// Stop tears the engine down: the tick loop, every pending escalation timer,
// both audio tracks, and the blocking alert. Idempotent; the four resources
// are independent, so order does not matter.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		if e.ticker != nil {
			e.ticker.Stop()
		}
		e.mu.Unlock()

		close(e.stopCh)
		e.escalation.CancelAll()
		if e.fanout.sound != nil {
			e.fanout.sound.StopAll()
		}
		e.fanout.Close()
	})
}

// SetMedications replaces the watched snapshot. Medications that disappeared
// from the list are reconciled as deleted.
func (e *Engine) SetMedications(meds []models.Medication) {
	e.mu.Lock()
	defer e.mu.Unlock()

	previous := make(map[string]bool, len(e.meds))
	for _, med := range e.meds {
		previous[med.ID] = true
	}

	e.meds = make([]models.Medication, len(meds))
	copy(e.meds, meds)

	for _, med := range e.meds {
		delete(previous, med.ID)
	}
	for id := range previous {
		e.resolveLocked(id)
	}
	e.notifyChanged()
}

// Tick runs one classifier sweep at the clock's current time.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sweep(e.clock.Now())
}

// notifyChanged signals the UI hook without holding it up.
func (e *Engine) notifyChanged() {
	if e.onChange != nil {
		go e.onChange()
	}
}

// sweep processes the watched list in order. Caller holds e.mu.
func (e *Engine) sweep(now time.Time) {
	changed := false
	for i := range e.meds {
		med := &e.meds[i]

		state, priority, err := ClassifyMedication(now, med)
		if err != nil {
			// One bad record must not halt the rest of the list; the
			// medication is skipped for this tick only.
			e.log.Warn().Err(err).Str("medication", med.ID).Msg("skipping unparseable schedule")
			continue
		}

		if state == models.DoseStateResolved {
			if _, had := e.store.Get(med.ID); had {
				changed = true
			}
			e.resolveLocked(med.ID)
			continue
		}

		if !e.ledger.ShouldAlert(med.ID, state) {
			continue
		}

		alert := newAlert(med, state, priority, now, false)

		// Ledger first: a dispatch failure must not cause duplicate
		// alerting on the next tick.
		e.ledger.MarkAlerted(med.ID)
		e.store.Add(alert)
		e.fanout.Dispatch(alert, state)

		if state == models.DoseStateDueNow || state == models.DoseStateOverdue {
			e.escalation.Arm(med.ID, state)
		}

		changed = true
		e.log.Info().Str("medication", med.ID).Str("state", string(state)).
			Str("priority", string(priority)).Msg("alert created")
	}

	if changed {
		e.notifyChanged()
	}
}

// handleEscalation fires when a reminder timer elapses. It re-reads current
// state by id; the closure carries nothing but the id and the dose state
// captured at schedule time.
func (e *Engine) handleEscalation(medicationID string, original models.DoseState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	med := e.findMedication(medicationID)
	if med == nil || med.Completed {
		return
	}

	alert := newAlert(med, original, models.PriorityHigh, e.clock.Now(), true)
	e.store.Add(alert)
	e.fanout.Dispatch(alert, original)

	e.log.Info().Str("medication", medicationID).Str("state", string(original)).
		Msg("escalation reminder issued")
	e.notifyChanged()
}

// Acknowledge marks the alert acknowledged and returns the medication id so
// the caller can mark the dose taken. Dismisses the blocking alert if it
// belongs to this medication.
func (e *Engine) Acknowledge(medicationID string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	medID, ok := e.store.Acknowledge(medicationID)
	if !ok {
		return "", false
	}
	e.fanout.DismissBlocking(medicationID)
	return medID, true
}

// Resolve reconciles a medication reported completed (or otherwise finished)
// by the caller: ledger entry, active alert, pending escalation timer, and
// the blocking alert all go. Idempotent; a second call is a no-op.
func (e *Engine) Resolve(medicationID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if med := e.findMedication(medicationID); med != nil {
		med.Completed = true
	}
	e.resolveLocked(medicationID)
	e.notifyChanged()
}

// resolveLocked purges all alert state for the medication. Caller holds e.mu.
func (e *Engine) resolveLocked(medicationID string) {
	e.ledger.Clear(medicationID)
	e.store.Remove(medicationID)
	e.escalation.Cancel(medicationID)
	e.fanout.DismissBlocking(medicationID)
}

func (e *Engine) findMedication(id string) *models.Medication {
	for i := range e.meds {
		if e.meds[i].ID == id {
			return &e.meds[i]
		}
	}
	return nil
}

// SetEscalationDelay changes the reminder delay for timers armed from now
// on; pending timers keep their original schedule.
func (e *Engine) SetEscalationDelay(d time.Duration) {
	e.escalation.SetDelay(d)
}

// ActiveAlerts returns the active alerts in watched-list order.
func (e *Engine) ActiveAlerts() []models.Alert {
	return e.store.List()
}

// GroupByPriority returns the active alerts bucketed by priority.
func (e *Engine) GroupByPriority() map[models.Priority][]models.Alert {
	return e.store.GroupByPriority()
}

// HighPriorityCount returns the tray badge count.
func (e *Engine) HighPriorityCount() int {
	return e.store.HighPriorityCount()
}

// newAlert builds the alert for a medication in the given state.
func newAlert(med *models.Medication, state models.DoseState, priority models.Priority, now time.Time, reminder bool) models.Alert {
	var title string
	switch {
	case reminder:
		title = fmt.Sprintf("Reminder: %s still not taken", med.MedicineName)
	case state == models.DoseStateDueNow:
		title = fmt.Sprintf("Medication due: %s", med.MedicineName)
	case state == models.DoseStateOverdue:
		title = fmt.Sprintf("Medication overdue: %s", med.MedicineName)
	default:
		title = fmt.Sprintf("Medication upcoming: %s", med.MedicineName)
	}

	body := fmt.Sprintf("Patient %s · Room %s · %s", med.PatientID, med.RoomNumber, med.Dosage)
	if note := foodTimingNote(med.FoodTiming); note != "" {
		body += " · " + note
	}

	return models.Alert{
		ID:           uuid.New().String(),
		MedicationID: med.ID,
		Title:        title,
		Body:         body,
		CreatedAt:    now,
		Priority:     priority,
		State:        state,
		Reminder:     reminder,
	}
}

func foodTimingNote(ft models.FoodTiming) string {
	switch ft {
	case models.FoodTimingBeforeFood:
		return "take before food"
	case models.FoodTimingAfterFood:
		return "take after food"
	case models.FoodTimingWithFood:
		return "take with food"
	default:
		return ""
	}
}
