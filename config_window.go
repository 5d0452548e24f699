package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

type ConfigWindow struct {
	window fyne.Window
	app    fyne.App
	config *Config
	onSave func(*Config)

	// General tab
	autoStartCheck   *widget.Check
	rosterPathEntry  *widget.Entry
	normalSoundEntry *widget.Entry
	urgentSoundEntry *widget.Entry

	// Alert tab
	soundEnabledCheck *widget.Check
	escalationSelect  *widget.Select
	holdTimeSelect    *widget.Select

	// UI state
	hasUnsavedChanges bool
	saveStatusLabel   *widget.Label
	saveButton        *widget.Button
}

func NewConfigWindow(app fyne.App, config *Config, onSave func(*Config)) *ConfigWindow {
	cw := &ConfigWindow{
		app:    app,
		config: config,
		onSave: onSave,
	}

	cw.window = app.NewWindow("Med Alarm - Settings")
	cw.buildUI()

	return cw
}

func (cw *ConfigWindow) buildUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("General", cw.buildGeneralTab()),
		container.NewTabItem("Alerts", cw.buildAlertTab()),
	)

	cw.saveStatusLabel = widget.NewLabel("")
	cw.saveStatusLabel.Importance = widget.SuccessImportance

	cw.saveButton = widget.NewButton("Save", func() {
		cw.saveButton.Disable()

		newConfig := cw.getConfigFromUI()
		if err := setupAutostart(newConfig.AutoStart); err != nil {
			cw.saveStatusLabel.SetText("Error: Failed to set autostart")
			cw.saveStatusLabel.Importance = widget.DangerImportance
			cw.saveStatusLabel.Refresh()
			cw.updateSaveButtonState()
			return
		}

		saveConfig(cw.app, newConfig)
		if cw.onSave != nil {
			cw.onSave(newConfig)
		}
		cw.config = newConfig

		cw.hasUnsavedChanges = false
		cw.saveStatusLabel.SetText("Settings saved")
		cw.saveStatusLabel.Importance = widget.SuccessImportance
		cw.saveStatusLabel.Refresh()
		cw.updateSaveButtonState()

		go func() {
			time.Sleep(3 * time.Second)
			fyne.Do(func() {
				if cw.saveStatusLabel.Text == "Settings saved" {
					cw.saveStatusLabel.SetText("")
					cw.saveStatusLabel.Refresh()
				}
			})
		}()
	})
	cw.saveButton.Importance = widget.HighImportance
	cw.saveButton.Disable()

	closeButton := widget.NewButton("Close", func() {
		cw.handleClose()
	})

	buttonRow := container.NewBorder(
		nil, nil,
		container.NewHBox(cw.saveButton, cw.saveStatusLabel),
		closeButton,
		container.NewHBox(),
	)

	content := container.NewBorder(
		nil,
		container.NewPadded(buttonRow),
		nil, nil,
		tabs,
	)

	cw.window.SetContent(content)
	cw.window.Resize(fyne.NewSize(720, 540))
	cw.window.CenterOnScreen()

	cw.window.SetCloseIntercept(func() {
		cw.handleClose()
	})
}

func (cw *ConfigWindow) getConfigFromUI() *Config {
	escalation := cw.config.EscalationDelaySec
	if cw.escalationSelect.Selected != "" {
		var val int
		if _, err := fmt.Sscanf(cw.escalationSelect.Selected, "%d sec", &val); err == nil {
			escalation = val
		}
	}

	holdTime := cw.config.HoldTimeSeconds
	if cw.holdTimeSelect.Selected != "" {
		var val int
		if _, err := fmt.Sscanf(cw.holdTimeSelect.Selected, "%d sec", &val); err == nil && val >= 1 {
			holdTime = val
		}
	}

	return &Config{
		AutoStart:          cw.autoStartCheck.Checked,
		RosterPath:         cw.rosterPathEntry.Text,
		SoundEnabled:       cw.soundEnabledCheck.Checked,
		EscalationDelaySec: escalation,
		HoldTimeSeconds:    holdTime,
		NormalSoundPath:    cw.normalSoundEntry.Text,
		UrgentSoundPath:    cw.urgentSoundEntry.Text,
	}
}

func (cw *ConfigWindow) markChanged() {
	cw.hasUnsavedChanges = true
	cw.updateSaveButtonState()
}

func (cw *ConfigWindow) updateSaveButtonState() {
	if cw.hasUnsavedChanges {
		cw.saveButton.Enable()
	} else {
		cw.saveButton.Disable()
	}
}

func (cw *ConfigWindow) handleClose() {
	if !cw.hasUnsavedChanges {
		cw.window.Close()
		return
	}

	dialog.ShowConfirm("Unsaved Changes",
		"You have unsaved changes. Close without saving?",
		func(confirmed bool) {
			if confirmed {
				cw.window.Close()
			}
		}, cw.window)
}

func (cw *ConfigWindow) Show() {
	cw.window.Show()
}
