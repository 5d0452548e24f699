package main

import (
	"time"

	"fyne.io/fyne/v2"
)

type Config struct {
	AutoStart          bool   `json:"auto_start"`
	RosterPath         string `json:"roster_path"`
	SoundEnabled       bool   `json:"sound_enabled"`
	EscalationDelaySec int    `json:"escalation_delay_sec"`
	HoldTimeSeconds    int    `json:"hold_time_seconds"`
	NormalSoundPath    string `json:"normal_sound_path"`
	UrgentSoundPath    string `json:"urgent_sound_path"`
}

func loadConfig(app fyne.App) *Config {
	prefs := app.Preferences()

	return &Config{
		AutoStart:          prefs.BoolWithFallback("auto_start", false),
		RosterPath:         prefs.String("roster_path"),
		SoundEnabled:       prefs.BoolWithFallback("sound_enabled", true),
		EscalationDelaySec: prefs.IntWithFallback("escalation_delay_sec", 120),
		HoldTimeSeconds:    prefs.IntWithFallback("hold_time_seconds", 3),
		NormalSoundPath:    prefs.String("normal_sound_path"),
		UrgentSoundPath:    prefs.String("urgent_sound_path"),
	}
}

func saveConfig(app fyne.App, config *Config) {
	prefs := app.Preferences()

	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetString("roster_path", config.RosterPath)
	prefs.SetBool("sound_enabled", config.SoundEnabled)
	prefs.SetInt("escalation_delay_sec", config.EscalationDelaySec)
	prefs.SetInt("hold_time_seconds", config.HoldTimeSeconds)
	prefs.SetString("normal_sound_path", config.NormalSoundPath)
	prefs.SetString("urgent_sound_path", config.UrgentSoundPath)
}

func (c *Config) NeedsConfiguration() bool {
	return c.RosterPath == ""
}

func (c *Config) EscalationDelay() time.Duration {
	if c.EscalationDelaySec <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.EscalationDelaySec) * time.Second
}
