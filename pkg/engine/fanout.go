package engine

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/wardbell/medalarm/pkg/models"
)

// Toaster shows an in-app transient notice for an alert.
type Toaster interface {
	ShowToast(alert models.Alert) error
}

// SystemNotifier delivers platform notifications. Granted reflects the
// permission probe done at startup; Send is only called when it is true.
type SystemNotifier interface {
	Granted() bool
	Send(alert models.Alert) error
}

// Blocker renders the full-screen blocking alert. Show replaces whichever
// alert is currently displayed; Dismiss closes it only if it belongs to the
// given medication.
type Blocker interface {
	Show(alert models.Alert) error
	Dismiss(medicationID string)
}

// AlarmSounder starts and stops the two alarm tracks.
type AlarmSounder interface {
	StartNormal()
	StartUrgent()
	StopUrgent()
	StopAll()
}

// Fanout dispatches one alert to every delivery channel. Dispatch is
// best-effort: a failing channel is logged and swallowed, and never prevents
// the remaining channels from firing.
//
// Fanout also owns the full-screen singleton: at most one blocking alert is
// shown at a time, and a new due-now event replaces the current one.
type Fanout struct {
	toaster Toaster
	system  SystemNotifier
	blocker Blocker
	sound   AlarmSounder
	log     zerolog.Logger

	mu         sync.Mutex
	blockingID string // medication id of the currently shown blocking alert
}

// NewFanout wires the delivery channels. Any channel may be nil; dispatch
// skips it.
func NewFanout(toaster Toaster, system SystemNotifier, blocker Blocker, sound AlarmSounder, log zerolog.Logger) *Fanout {
	return &Fanout{
		toaster: toaster,
		system:  system,
		blocker: blocker,
		sound:   sound,
		log:     log,
	}
}

// Dispatch delivers the alert on every applicable channel for the dose state
// that produced it.
func (f *Fanout) Dispatch(alert models.Alert, state models.DoseState) {
	if f.toaster != nil {
		if err := f.toaster.ShowToast(alert); err != nil {
			f.log.Warn().Err(err).Str("medication", alert.MedicationID).Msg("toast dispatch failed")
		}
	}

	if f.system != nil && f.system.Granted() {
		if err := f.system.Send(alert); err != nil {
			f.log.Warn().Err(err).Str("medication", alert.MedicationID).Msg("system notification failed")
		}
	}

	// The blocking alert is reserved for due-now; overdue and approaching
	// never take over the screen.
	if state == models.DoseStateDueNow && f.blocker != nil {
		f.mu.Lock()
		f.blockingID = alert.MedicationID
		f.mu.Unlock()

		if err := f.blocker.Show(alert); err != nil {
			f.log.Warn().Err(err).Str("medication", alert.MedicationID).Msg("blocking alert failed")
		}
	}

	if f.sound != nil {
		switch state {
		case models.DoseStateDueNow:
			f.sound.StartUrgent()
		case models.DoseStateOverdue:
			f.sound.StartNormal()
		}
	}
}

// DismissBlocking closes the blocking alert if it belongs to the medication,
// stopping the urgent track with it. Idempotent.
func (f *Fanout) DismissBlocking(medicationID string) {
	f.mu.Lock()
	owned := f.blockingID == medicationID && medicationID != ""
	if owned {
		f.blockingID = ""
	}
	f.mu.Unlock()

	if !owned {
		return
	}
	if f.blocker != nil {
		f.blocker.Dismiss(medicationID)
	}
	if f.sound != nil {
		f.sound.StopUrgent()
	}
}

// BlockingID returns the medication id of the currently shown blocking
// alert, or "".
func (f *Fanout) BlockingID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blockingID
}

// Close tears down the blocking singleton on engine shutdown.
func (f *Fanout) Close() {
	f.mu.Lock()
	id := f.blockingID
	f.blockingID = ""
	f.mu.Unlock()

	if id != "" && f.blocker != nil {
		f.blocker.Dismiss(id)
	}
}
