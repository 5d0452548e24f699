package engine

import (
	"sync"

	"github.com/wardbell/medalarm/pkg/models"
)

// AlertStore holds the active alerts, keyed by medication id. At most one
// alert is live per medication; adding an alert for an id that already has
// one replaces it in place (the escalation reminder path), keeping its
// position in the watched-list order.
//
// The store is mutated only by the engine; external components read
// aggregated views through List and GroupByPriority.
type AlertStore struct {
	mu     sync.RWMutex
	alerts map[string]*models.Alert
	order  []string // medication ids in insertion order
}

// NewAlertStore creates an empty AlertStore.
func NewAlertStore() *AlertStore {
	return &AlertStore{
		alerts: make(map[string]*models.Alert),
	}
}

// Add inserts or replaces the alert for its medication id.
func (as *AlertStore) Add(alert models.Alert) {
	as.mu.Lock()
	defer as.mu.Unlock()

	if _, exists := as.alerts[alert.MedicationID]; !exists {
		as.order = append(as.order, alert.MedicationID)
	}
	as.alerts[alert.MedicationID] = &alert
}

// Remove deletes the alert for the medication id. Idempotent.
func (as *AlertStore) Remove(medicationID string) {
	as.mu.Lock()
	defer as.mu.Unlock()

	if _, exists := as.alerts[medicationID]; !exists {
		return
	}
	delete(as.alerts, medicationID)
	for i, id := range as.order {
		if id == medicationID {
			as.order = append(as.order[:i], as.order[i+1:]...)
			break
		}
	}
}

// Acknowledge marks the alert for the medication as acknowledged and returns
// the medication id so the caller can ask the persistence collaborator to
// mark the dose taken.
func (as *AlertStore) Acknowledge(medicationID string) (string, bool) {
	as.mu.Lock()
	defer as.mu.Unlock()

	alert, exists := as.alerts[medicationID]
	if !exists {
		return "", false
	}
	alert.Acknowledged = true
	return alert.MedicationID, true
}

// Get returns a copy of the alert for the medication id.
func (as *AlertStore) Get(medicationID string) (models.Alert, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	alert, exists := as.alerts[medicationID]
	if !exists {
		return models.Alert{}, false
	}
	return *alert, true
}

// List returns copies of the active alerts in watched-list order.
func (as *AlertStore) List() []models.Alert {
	as.mu.RLock()
	defer as.mu.RUnlock()

	result := make([]models.Alert, 0, len(as.order))
	for _, id := range as.order {
		if alert, exists := as.alerts[id]; exists {
			result = append(result, *alert)
		}
	}
	return result
}

// GroupByPriority partitions the active alerts into high/medium/low buckets.
func (as *AlertStore) GroupByPriority() map[models.Priority][]models.Alert {
	as.mu.RLock()
	defer as.mu.RUnlock()

	groups := map[models.Priority][]models.Alert{
		models.PriorityHigh:   {},
		models.PriorityMedium: {},
		models.PriorityLow:    {},
	}
	for _, id := range as.order {
		if alert, exists := as.alerts[id]; exists {
			groups[alert.Priority] = append(groups[alert.Priority], *alert)
		}
	}
	return groups
}

// HighPriorityCount returns the number of unacknowledged high-priority
// alerts, for the tray badge.
func (as *AlertStore) HighPriorityCount() int {
	as.mu.RLock()
	defer as.mu.RUnlock()

	count := 0
	for _, alert := range as.alerts {
		if alert.Priority == models.PriorityHigh && !alert.Acknowledged {
			count++
		}
	}
	return count
}

// Len returns the number of active alerts.
func (as *AlertStore) Len() int {
	as.mu.RLock()
	defer as.mu.RUnlock()
	return len(as.alerts)
}
