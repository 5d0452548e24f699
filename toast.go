package main

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/wardbell/medalarm/pkg/models"
)

const toastDuration = 30 * time.Second

// ToastManager shows in-app transient notices. Implements engine.Toaster.
type ToastManager struct {
	app      fyne.App
	duration time.Duration
}

func NewToastManager(app fyne.App) *ToastManager {
	return &ToastManager{
		app:      app,
		duration: toastDuration,
	}
}

// ShowToast displays a small auto-dismissing window styled by priority.
func (tm *ToastManager) ShowToast(alert models.Alert) error {
	fyne.Do(func() {
		w := tm.app.NewWindow(alert.Title)

		title := canvas.NewText(alert.Title, nil)
		title.TextSize = 16
		title.TextStyle = fyne.TextStyle{Bold: true}

		body := widget.NewLabel(alert.Body)
		body.Wrapping = fyne.TextWrapWord

		stripe := canvas.NewRectangle(priorityColor(alert.Priority))
		stripe.SetMinSize(fyne.NewSize(6, 0))

		w.SetContent(container.NewPadded(container.NewBorder(
			nil, nil, stripe, nil,
			container.NewVBox(title, body),
		)))
		w.Resize(fyne.NewSize(380, 120))
		w.Show()

		time.AfterFunc(tm.duration, func() {
			fyne.Do(w.Close)
		})
	})

	return nil
}

func priorityColor(p models.Priority) color.Color {
	switch p {
	case models.PriorityHigh:
		return color.NRGBA{R: 0xd0, G: 0x3a, B: 0x3a, A: 0xff}
	case models.PriorityMedium:
		return color.NRGBA{R: 0xe0, G: 0xa0, B: 0x2e, A: 0xff}
	default:
		return color.NRGBA{R: 0x4a, G: 0x8f, B: 0xd0, A: 0xff}
	}
}
