package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"github.com/wardbell/medalarm/pkg/models"
)

func (ma *MedAlarm) setupSystemTray() {
	ma.updateSystemTrayMenu()
}

func (ma *MedAlarm) updateSystemTrayMenu() {
	desk, ok := ma.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	alerts := ma.engine.ActiveAlerts()
	if len(alerts) > 0 {
		header := fyne.NewMenuItem(fmt.Sprintf("Active Alerts (%d high):", ma.engine.HighPriorityCount()), nil)
		header.Disabled = true
		menuItems = append(menuItems, header)

		for _, alert := range alerts {
			item := fyne.NewMenuItem(fmt.Sprintf("  %s %s %s",
				alert.CreatedAt.Format("3:04 PM"),
				priorityBadge(alert.Priority),
				truncateString(alert.Title, 35)), nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	soundLabel := "Mute Alarms"
	if !ma.sequencer.Enabled() {
		soundLabel = "Unmute Alarms"
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Settings", func() {
			ma.showConfigWindow()
		}),
		fyne.NewMenuItem(soundLabel, func() {
			ma.toggleSound()
		}),
		fyne.NewMenuItem("Reload Roster", func() {
			go ma.loadRoster()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		ma.quit()
	}))

	menu := fyne.NewMenu("Med Alarm", menuItems...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.WarningIcon())
}

func priorityBadge(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "[!]"
	case models.PriorityMedium:
		return "[~]"
	default:
		return "[ ]"
	}
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
