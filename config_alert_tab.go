package main

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

func (cw *ConfigWindow) buildAlertTab() fyne.CanvasObject {
	cw.soundEnabledCheck = widget.NewCheck("Play Alarm Sounds", func(checked bool) {
		cw.markChanged()
	})
	cw.soundEnabledCheck.SetChecked(cw.config.SoundEnabled)

	escalationOptions := []string{"60 sec", "120 sec", "180 sec", "240 sec", "300 sec"}
	cw.escalationSelect = widget.NewSelect(escalationOptions, func(value string) {
		cw.markChanged()
	})
	cw.escalationSelect.SetSelected(strconv.Itoa(cw.config.EscalationDelaySec) + " sec")

	holdTimeOptions := []string{"1 sec", "2 sec", "3 sec", "4 sec", "5 sec", "6 sec", "7 sec", "8 sec", "9 sec", "10 sec"}
	cw.holdTimeSelect = widget.NewSelect(holdTimeOptions, func(value string) {
		cw.markChanged()
	})
	currentHoldTime := cw.config.HoldTimeSeconds
	if currentHoldTime < 1 {
		currentHoldTime = 3
	}
	if currentHoldTime > 10 {
		currentHoldTime = 10
	}
	cw.holdTimeSelect.SetSelected(strconv.Itoa(currentHoldTime) + " sec")

	soundLabel := widget.NewLabel("Alarm Sound:")
	soundHelp := widget.NewLabel("Muting stops both alarm tracks immediately; alerts and notifications still fire")
	soundHelp.Wrapping = fyne.TextWrapWord
	soundHelp.Importance = widget.MediumImportance

	escalationLabel := widget.NewLabel("Escalation Delay:")
	escalationHelp := widget.NewLabel("How long an unresolved dose alert waits before the reminder re-alert")
	escalationHelp.Wrapping = fyne.TextWrapWord
	escalationHelp.Importance = widget.MediumImportance

	holdLabel := widget.NewLabel("Hold Time:")
	holdHelp := widget.NewLabel("How long the Dose Given button must be held on the fullscreen alert")
	holdHelp.Wrapping = fyne.TextWrapWord
	holdHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(soundLabel, soundHelp),
		cw.soundEnabledCheck,

		container.NewVBox(escalationLabel, escalationHelp),
		cw.escalationSelect,

		container.NewVBox(holdLabel, holdHelp),
		cw.holdTimeSelect,
	)

	content := container.NewVBox(
		widget.NewLabel("Alert Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}
