package audio

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Track names one of the two alarm channels.
type Track string

const (
	TrackNormal Track = "normal"
	TrackUrgent Track = "urgent"
)

// PlayFunc starts one playback attempt on a track. It should kick off the
// sound and return; a failed attempt is logged and does not stop the
// sequence countdown.
type PlayFunc func(Track) error

// TrackSpec is the cadence and repeat cap for one track.
type TrackSpec struct {
	Cadence    time.Duration
	MaxRepeats int
}

// DefaultTrackSpecs returns the production cadences: the normal track
// replays every 10 s up to 12 times, the urgent track every 5 s up to 24.
func DefaultTrackSpecs() map[Track]TrackSpec {
	return map[Track]TrackSpec{
		TrackNormal: {Cadence: 10 * time.Second, MaxRepeats: 12},
		TrackUrgent: {Cadence: 5 * time.Second, MaxRepeats: 24},
	}
}

type sequenceRun struct {
	stop chan struct{}
}

// Sequencer plays a sound repeatedly on a fixed cadence up to a repeat cap,
// independently per track. Starting a track cancels its in-progress run but
// never touches the other track.
type Sequencer struct {
	mu      sync.Mutex
	play    PlayFunc
	specs   map[Track]TrackSpec
	runs    map[Track]*sequenceRun
	enabled bool
	log     zerolog.Logger
}

// NewSequencer creates a Sequencer with the production track specs.
func NewSequencer(play PlayFunc, log zerolog.Logger) *Sequencer {
	return NewSequencerWithSpecs(play, DefaultTrackSpecs(), log)
}

// NewSequencerWithSpecs creates a Sequencer with custom cadences, used by
// tests to run the repeat loop at millisecond speed.
func NewSequencerWithSpecs(play PlayFunc, specs map[Track]TrackSpec, log zerolog.Logger) *Sequencer {
	return &Sequencer{
		play:    play,
		specs:   specs,
		runs:    make(map[Track]*sequenceRun),
		enabled: true,
		log:     log,
	}
}

// Start begins a bounded repeat sequence on the track, cancelling any
// in-progress sequence on that same track. No-op while sound is disabled.
func (s *Sequencer) Start(track Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		s.log.Debug().Str("track", string(track)).Msg("sound disabled, sequence not started")
		return
	}
	spec, ok := s.specs[track]
	if !ok || spec.MaxRepeats <= 0 {
		return
	}

	s.stopLocked(track)

	run := &sequenceRun{stop: make(chan struct{})}
	s.runs[track] = run
	go s.loop(track, spec, run)
}

func (s *Sequencer) loop(track Track, spec TrackSpec, run *sequenceRun) {
	for attempt := 1; ; attempt++ {
		if err := s.play(track); err != nil {
			// Keep counting down; a blocked device on one attempt must not
			// kill the remaining repeats.
			s.log.Warn().Err(err).Str("track", string(track)).Int("attempt", attempt).
				Msg("alarm playback failed")
		}

		if attempt >= spec.MaxRepeats {
			break
		}

		select {
		case <-run.stop:
			return
		case <-time.After(spec.Cadence):
		}
	}

	// Self-terminated: release the slot unless a newer run replaced us.
	s.mu.Lock()
	if s.runs[track] == run {
		delete(s.runs, track)
	}
	s.mu.Unlock()
}

// StartNormal starts the normal track.
func (s *Sequencer) StartNormal() { s.Start(TrackNormal) }

// StartUrgent starts the urgent track.
func (s *Sequencer) StartUrgent() { s.Start(TrackUrgent) }

// Stop halts the track's sequence if one is running. Idempotent.
func (s *Sequencer) Stop(track Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(track)
}

// StopNormal halts the normal track.
func (s *Sequencer) StopNormal() { s.Stop(TrackNormal) }

// StopUrgent halts the urgent track.
func (s *Sequencer) StopUrgent() { s.Stop(TrackUrgent) }

// StopAll halts both tracks immediately.
func (s *Sequencer) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(TrackNormal)
	s.stopLocked(TrackUrgent)
}

func (s *Sequencer) stopLocked(track Track) {
	if run, ok := s.runs[track]; ok {
		close(run.stop)
		delete(s.runs, track)
	}
}

// SetEnabled toggles the global sound flag. Disabling stops both tracks;
// re-enabling does not resume previously stopped sequences.
func (s *Sequencer) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = enabled
	if !enabled {
		s.stopLocked(TrackNormal)
		s.stopLocked(TrackUrgent)
	}
}

// Enabled reports the global sound flag.
func (s *Sequencer) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Running reports whether the track has a sequence in flight.
func (s *Sequencer) Running(track Track) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.runs[track]
	return ok
}
