package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"

	"github.com/wardbell/medalarm/pkg/audio"
	"github.com/wardbell/medalarm/pkg/engine"
	"github.com/wardbell/medalarm/pkg/models"
	"github.com/wardbell/medalarm/pkg/platform"
	"github.com/wardbell/medalarm/pkg/source"
)

type MedAlarm struct {
	app    fyne.App
	log    zerolog.Logger
	config *Config

	engine    *engine.Engine
	sequencer *audio.Sequencer
	watcher   *source.Watcher
	blocker   *BlockingAlerter

	playerMu sync.Mutex
	player   *audio.Player

	configWindow *ConfigWindow
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	ma := &MedAlarm{
		app: app.New(),
		log: logger,
	}

	if err := ma.initialize(); err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}

	ma.run()
}

func (ma *MedAlarm) initialize() error {
	ma.config = loadConfig(ma.app)

	// Sync autostart state with config on startup
	if err := setupAutostart(ma.config.AutoStart); err != nil {
		ma.log.Warn().Err(err).Msg("failed to setup autostart")
	}

	saveConfig(ma.app, ma.config)

	ma.rebuildAudioPlayer()
	ma.sequencer = audio.NewSequencer(ma.playAlarm, ma.log)
	ma.sequencer.SetEnabled(ma.config.SoundEnabled)

	ma.blocker = NewBlockingAlerter(ma.app, ma.config.HoldTimeSeconds, ma.acknowledgeAlert)

	ma.engine = engine.New(engine.Config{
		Logger:          ma.log,
		EscalationDelay: ma.config.EscalationDelay(),
		Toaster:         NewToastManager(ma.app),
		System:          detectNotifier(ma.app, ma.log),
		Blocker:         ma.blocker,
		Sound:           ma.sequencer,
		OnChange:        ma.updateSystemTrayMenu,
	})

	ma.loadRoster()
	ma.startRosterWatch()
	ma.engine.Start()

	ma.setupSystemTray()

	if ma.config.NeedsConfiguration() {
		ma.showConfigWindow()
	}

	return nil
}

func (ma *MedAlarm) run() {
	ma.app.Lifecycle().SetOnStarted(func() {
		platform.SetActivationPolicy()
	})
	ma.app.Run()
}

// acknowledgeAlert is called when the blocking alert's hold button completes.
// The caller is expected to mark the dose taken in the roster, which flows
// back through the watcher and resolves the episode.
func (ma *MedAlarm) acknowledgeAlert(medicationID string) {
	if _, ok := ma.engine.Acknowledge(medicationID); ok {
		ma.log.Info().Str("medication", medicationID).Msg("alert acknowledged")
	}
	ma.updateSystemTrayMenu()
}

// playAlarm is the sequencer's playback hook; the player is swapped out when
// sound paths change in settings.
func (ma *MedAlarm) playAlarm(track audio.Track) error {
	ma.playerMu.Lock()
	player := ma.player
	ma.playerMu.Unlock()

	if player == nil {
		return fmt.Errorf("alarm sounds not configured")
	}
	return player.Play(track)
}

func (ma *MedAlarm) rebuildAudioPlayer() {
	if ma.config.NormalSoundPath == "" || ma.config.UrgentSoundPath == "" {
		ma.log.Warn().Msg("alarm sound paths not configured, audio disabled")
		return
	}

	player, err := audio.NewPlayer(ma.config.NormalSoundPath, ma.config.UrgentSoundPath, ma.log)
	if err != nil {
		ma.log.Warn().Err(err).Msg("failed to load alarm sounds")
		return
	}

	ma.playerMu.Lock()
	ma.player = player
	ma.playerMu.Unlock()
}

func (ma *MedAlarm) loadRoster() {
	if ma.config.RosterPath == "" {
		ma.log.Info().Msg("no medication roster configured")
		return
	}

	meds, err := source.LoadRoster(ma.config.RosterPath)
	if err != nil {
		ma.log.Error().Err(err).Str("path", ma.config.RosterPath).Msg("failed to load medication roster")
		return
	}

	ma.engine.SetMedications(meds)
	ma.log.Info().Int("medications", len(meds)).Msg("medication roster loaded")
	ma.updateSystemTrayMenu()
}

func (ma *MedAlarm) startRosterWatch() {
	if ma.config.RosterPath == "" {
		return
	}

	watcher, err := source.NewWatcher(ma.config.RosterPath, func(meds []models.Medication) {
		ma.engine.SetMedications(meds)
		ma.updateSystemTrayMenu()
	}, ma.log)
	if err != nil {
		ma.log.Warn().Err(err).Msg("roster watch unavailable, edits require restart")
		return
	}
	ma.watcher = watcher
}

func (ma *MedAlarm) restartRosterWatch() {
	if ma.watcher != nil {
		ma.watcher.Close()
		ma.watcher = nil
	}
	ma.startRosterWatch()
}

func (ma *MedAlarm) showConfigWindow() {
	// If config window already exists and is showing, just bring it to front
	if ma.configWindow != nil && ma.configWindow.window != nil {
		ma.configWindow.window.RequestFocus()
		ma.configWindow.window.Show()
		return
	}

	ma.configWindow = NewConfigWindow(ma.app, ma.config, func(newConfig *Config) {
		ma.config = newConfig
		saveConfig(ma.app, ma.config)

		ma.rebuildAudioPlayer()
		ma.sequencer.SetEnabled(ma.config.SoundEnabled)
		ma.engine.SetEscalationDelay(ma.config.EscalationDelay())
		ma.blocker.SetHoldSeconds(ma.config.HoldTimeSeconds)

		ma.restartRosterWatch()
		if !ma.config.NeedsConfiguration() {
			ma.loadRoster()
		}
		ma.updateSystemTrayMenu()
	})

	ma.configWindow.window.SetOnClosed(func() {
		ma.configWindow = nil
	})

	ma.configWindow.Show()
}

func (ma *MedAlarm) toggleSound() {
	enabled := !ma.sequencer.Enabled()
	ma.sequencer.SetEnabled(enabled)
	ma.config.SoundEnabled = enabled
	saveConfig(ma.app, ma.config)
	ma.log.Info().Bool("enabled", enabled).Msg("alarm sound toggled")
	ma.updateSystemTrayMenu()
}

func (ma *MedAlarm) quit() {
	ma.engine.Stop()
	if ma.watcher != nil {
		ma.watcher.Close()
	}
	ma.app.Quit()
}
