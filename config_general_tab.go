package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

func (cw *ConfigWindow) buildGeneralTab() fyne.CanvasObject {
	cw.autoStartCheck = widget.NewCheck("Auto Start on System Boot", func(checked bool) {
		cw.markChanged()
	})
	cw.autoStartCheck.SetChecked(cw.config.AutoStart)

	cw.rosterPathEntry = widget.NewEntry()
	cw.rosterPathEntry.SetText(cw.config.RosterPath)
	cw.rosterPathEntry.OnChanged = func(string) { cw.markChanged() }

	cw.normalSoundEntry = widget.NewEntry()
	cw.normalSoundEntry.SetText(cw.config.NormalSoundPath)
	cw.normalSoundEntry.OnChanged = func(string) { cw.markChanged() }

	cw.urgentSoundEntry = widget.NewEntry()
	cw.urgentSoundEntry.SetText(cw.config.UrgentSoundPath)
	cw.urgentSoundEntry.OnChanged = func(string) { cw.markChanged() }

	autoStartLabel := widget.NewLabel("Auto Start:")
	autoStartHelp := widget.NewLabel("Launch Med Alarm automatically when your system starts")
	autoStartHelp.Importance = widget.MediumImportance

	rosterLabel := widget.NewLabel("Medication Roster:")
	rosterHelp := widget.NewLabel("YAML file maintained by the ward data-entry system")
	rosterHelp.Wrapping = fyne.TextWrapWord
	rosterHelp.Importance = widget.MediumImportance

	soundsLabel := widget.NewLabel("Alarm Sounds:")
	soundsHelp := widget.NewLabel("WAV files for the normal and urgent alarm tracks")
	soundsHelp.Wrapping = fyne.TextWrapWord
	soundsHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(autoStartLabel, autoStartHelp),
		cw.autoStartCheck,

		container.NewVBox(rosterLabel, rosterHelp),
		container.NewBorder(nil, nil, nil, cw.browseButton(cw.rosterPathEntry), cw.rosterPathEntry),

		container.NewVBox(soundsLabel, soundsHelp),
		container.NewVBox(
			container.NewBorder(nil, nil, widget.NewLabel("Normal"), cw.browseButton(cw.normalSoundEntry), cw.normalSoundEntry),
			container.NewBorder(nil, nil, widget.NewLabel("Urgent"), cw.browseButton(cw.urgentSoundEntry), cw.urgentSoundEntry),
		),
	)

	content := container.NewVBox(
		widget.NewLabel("General Settings"),
		widget.NewSeparator(),
		form,
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (cw *ConfigWindow) browseButton(target *widget.Entry) *widget.Button {
	return widget.NewButton("Browse", func() {
		dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			defer rc.Close()
			target.SetText(rc.URI().Path())
			cw.markChanged()
		}, cw.window)
	})
}
