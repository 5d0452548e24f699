package audio

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"
)

// Global audio context singleton; oto allows only one per process.
var (
	otoCtx   *oto.Context
	otoOnce  sync.Once
	otoReady bool
)

type clip struct {
	format wavFormat
	data   []byte
}

// Player renders the injected alarm sounds through the system audio device.
// The two WAV files are loaded once at startup; each Play call is
// fire-and-forget.
type Player struct {
	tracks map[Track]*clip
	log    zerolog.Logger
}

// NewPlayer loads the normal and urgent alarm sounds from the given paths.
func NewPlayer(normalPath, urgentPath string, log zerolog.Logger) (*Player, error) {
	p := &Player{
		tracks: make(map[Track]*clip),
		log:    log,
	}

	for track, path := range map[Track]string{
		TrackNormal: normalPath,
		TrackUrgent: urgentPath,
	} {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s alarm sound: %w", track, err)
		}
		format, samples, err := parseWAV(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s alarm sound: %w", track, err)
		}
		p.tracks[track] = &clip{format: format, data: samples}
	}

	return p, nil
}

// initContext initializes the global audio context from the first clip's
// format and waits for the hardware device to become ready.
func (p *Player) initContext(format wavFormat) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			p.log.Error().Err(err).Msg("failed to initialize audio context")
			return
		}
		<-readyChan

		otoCtx = ctx
		otoReady = true
		p.log.Info().Msg("audio context initialized")
	})
}

// Play starts one playback of the track's clip and returns without waiting
// for it to finish. Satisfies PlayFunc.
func (p *Player) Play(track Track) error {
	c, ok := p.tracks[track]
	if !ok {
		return fmt.Errorf("no sound loaded for track %q", track)
	}

	p.initContext(c.format)
	if !otoReady || otoCtx == nil {
		return fmt.Errorf("audio context not ready")
	}

	player := otoCtx.NewPlayer(bytes.NewReader(c.data))
	player.Play()

	go func() {
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			p.log.Warn().Err(err).Str("track", string(track)).Msg("failed to close audio player")
		}
	}()

	return nil
}
