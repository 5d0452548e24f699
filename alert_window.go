package main

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"golang.design/x/hotkey"

	"github.com/wardbell/medalarm/pkg/models"
	"github.com/wardbell/medalarm/pkg/platform"
	"github.com/wardbell/medalarm/pkg/ui/components"
)

// BlockingAlerter owns the full-screen alert singleton: at most one blocking
// window at a time, and a new due-now event replaces the current one.
// It implements engine.Blocker.
type BlockingAlerter struct {
	app   fyne.App
	onAck func(medicationID string)

	mu          sync.Mutex
	holdSeconds int
	current     *AlertWindow
}

func NewBlockingAlerter(app fyne.App, holdSeconds int, onAck func(string)) *BlockingAlerter {
	if holdSeconds < 1 {
		holdSeconds = 3
	}
	return &BlockingAlerter{
		app:         app,
		holdSeconds: holdSeconds,
		onAck:       onAck,
	}
}

// SetHoldSeconds changes the hold-to-acknowledge duration for windows shown
// from now on.
func (b *BlockingAlerter) SetHoldSeconds(seconds int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if seconds >= 1 {
		b.holdSeconds = seconds
	}
}

// Show displays a blocking alert, replacing any currently shown one.
func (b *BlockingAlerter) Show(alert models.Alert) error {
	b.mu.Lock()
	prev := b.current
	aw := NewAlertWindow(b.app, alert, b.holdSeconds, func() {
		b.clear(alert.MedicationID)
		if b.onAck != nil {
			b.onAck(alert.MedicationID)
		}
	})
	b.current = aw
	b.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	aw.Show()
	return nil
}

// Dismiss closes the blocking alert if it belongs to the medication.
func (b *BlockingAlerter) Dismiss(medicationID string) {
	b.mu.Lock()
	aw := b.current
	if aw == nil || aw.alert.MedicationID != medicationID {
		b.mu.Unlock()
		return
	}
	b.current = nil
	b.mu.Unlock()

	aw.Close()
}

func (b *BlockingAlerter) clear(medicationID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil && b.current.alert.MedicationID == medicationID {
		b.current = nil
	}
}

// AlertWindow is the full-screen blocking dose alert. It cannot be closed
// with Cmd+Q and re-raises itself if it loses focus; the only way out is
// holding the acknowledge button.
type AlertWindow struct {
	window      fyne.Window
	app         fyne.App
	alert       models.Alert
	holdSeconds int
	onAck       func()

	ackProgress float64
	ackTicker   *time.Ticker
	ackHeld     bool

	cmdQHotkey     *hotkey.Hotkey
	stopMonitoring chan struct{}
	closeOnce      sync.Once
}

func NewAlertWindow(app fyne.App, alert models.Alert, holdSeconds int, onAck func()) *AlertWindow {
	aw := &AlertWindow{
		app:            app,
		alert:          alert,
		holdSeconds:    holdSeconds,
		onAck:          onAck,
		stopMonitoring: make(chan struct{}),
	}

	// Create window and build UI on the main Fyne thread
	fyne.Do(func() {
		aw.window = app.NewWindow("Medication Alert")
		aw.window.SetFullScreen(true)
		aw.buildUI()

		aw.registerCmdQPrevention()
		aw.setupFocusMonitoring()

		aw.window.SetOnClosed(func() {
			close(aw.stopMonitoring)
			if aw.cmdQHotkey != nil {
				aw.cmdQHotkey.Unregister()
			}
		})
	})

	return aw
}

func (aw *AlertWindow) buildUI() {
	title := canvas.NewText(aw.alert.Title, nil)
	title.TextSize = 32
	title.Alignment = fyne.TextAlignCenter

	timeLabel := widget.NewLabel(fmt.Sprintf("Due at %s", aw.alert.CreatedAt.Format("3:04 PM")))
	timeLabel.Alignment = fyne.TextAlignCenter

	details := widget.NewLabel(aw.alert.Body)
	details.Wrapping = fyne.TextWrapWord
	details.Alignment = fyne.TextAlignCenter

	var ackButton *components.HoldButton
	ackButton = components.NewHoldButton(
		fmt.Sprintf("Dose Given (Hold %ds)", aw.holdSeconds),
		func() { aw.startAckProgress(ackButton) },
		func() { aw.stopAckProgress(ackButton) },
	)

	content := container.NewVBox(
		container.NewPadded(title),
		timeLabel,
		widget.NewSeparator(),
		container.NewPadded(details),
		widget.NewSeparator(),
		container.NewCenter(ackButton),
	)

	aw.window.SetContent(container.NewPadded(container.NewCenter(content)))
}

func (aw *AlertWindow) startAckProgress(button *components.HoldButton) {
	if aw.ackHeld {
		return
	}

	aw.ackHeld = true
	aw.ackProgress = 0
	fyne.Do(func() {
		button.SetProgress(0)
	})

	tickInterval := 50 * time.Millisecond
	totalTicks := float64(aw.holdSeconds*1000) / float64(tickInterval.Milliseconds())
	progressIncrement := 1.0 / totalTicks

	aw.ackTicker = time.NewTicker(tickInterval)

	go func() {
		for range aw.ackTicker.C {
			if !aw.ackHeld {
				return
			}

			aw.ackProgress += progressIncrement
			currentProgress := aw.ackProgress

			fyne.Do(func() {
				button.SetProgress(currentProgress)
			})

			if currentProgress >= 1.0 {
				aw.ackTicker.Stop()
				if aw.onAck != nil {
					aw.onAck()
				}
				aw.Close()
				return
			}
		}
	}()
}

func (aw *AlertWindow) stopAckProgress(button *components.HoldButton) {
	aw.ackHeld = false
	if aw.ackTicker != nil {
		aw.ackTicker.Stop()
	}
	aw.ackProgress = 0
	fyne.Do(func() {
		button.SetProgress(0)
	})
}

func (aw *AlertWindow) Show() {
	fyne.Do(func() {
		if aw.window != nil {
			aw.window.Show()
		}
	})
}

// Close closes the window exactly once; safe to call from the reconciler and
// the acknowledge path concurrently.
func (aw *AlertWindow) Close() {
	aw.closeOnce.Do(func() {
		fyne.Do(func() {
			if aw.window != nil {
				aw.window.Close()
			}
		})
	})
}

func (aw *AlertWindow) registerCmdQPrevention() {
	go func() {
		hk := hotkey.New([]hotkey.Modifier{hotkey.ModCmd}, hotkey.KeyQ)
		if err := hk.Register(); err != nil {
			return
		}
		aw.cmdQHotkey = hk

		// Consume Cmd+Q events while the alert is up so the app cannot be
		// quit around an unacknowledged dose.
		for range hk.Keydown() {
		}
	}()
}

func (aw *AlertWindow) setupFocusMonitoring() {
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		wasFocused := true
		for {
			select {
			case <-aw.stopMonitoring:
				return
			case <-ticker.C:
				if aw.window == nil {
					return
				}

				isFocused := platform.IsAppActive()

				if wasFocused && !isFocused {
					if aw.cmdQHotkey != nil {
						aw.cmdQHotkey.Unregister()
						aw.cmdQHotkey = nil
					}
				} else if !wasFocused && isFocused {
					if aw.cmdQHotkey == nil {
						aw.registerCmdQPrevention()
					}
				}

				// An unacknowledged dose alert stays on top.
				if !isFocused {
					platform.ActivateApp()
					fyne.Do(func() {
						if aw.window != nil {
							aw.window.Show()
						}
					})
				}

				wasFocused = isFocused
			}
		}
	}()
}
