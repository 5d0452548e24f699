package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"

	"github.com/wardbell/medalarm/pkg/engine"
	"github.com/wardbell/medalarm/pkg/models"
)

// fyneNotifier delivers system notifications through the platform
// notification center.
type fyneNotifier struct {
	app fyne.App
}

func (n *fyneNotifier) Granted() bool {
	return true
}

func (n *fyneNotifier) Send(alert models.Alert) error {
	// The priority prefixes the title and the medication id tags the body so
	// repeats of the same medication read consistently in the notification
	// center.
	n.app.SendNotification(fyne.NewNotification(
		fmt.Sprintf("[%s] %s", alert.Priority, alert.Title),
		fmt.Sprintf("%s · %s · %s", alert.MedicationID, alert.Body, alert.CreatedAt.Format("3:04 PM")),
	))
	return nil
}

// unavailableNotifier is selected when the platform has no notification
// surface; delivery degrades to in-app toasts and audio only.
type unavailableNotifier struct{}

func (unavailableNotifier) Granted() bool {
	return false
}

func (unavailableNotifier) Send(models.Alert) error {
	return fmt.Errorf("system notifications unavailable")
}

// detectNotifier probes the platform once at startup and picks the
// capability implementation; the engine never feature-detects itself.
func detectNotifier(app fyne.App, log zerolog.Logger) engine.SystemNotifier {
	if _, ok := app.(desktop.App); ok {
		return &fyneNotifier{app: app}
	}
	log.Warn().Msg("system notifications unavailable, in-app delivery only")
	return unavailableNotifier{}
}
