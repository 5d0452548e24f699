// Package source loads the medication roster the engine watches. The roster
// is owned by an external data-entry collaborator; this package only reads
// the file and reports changes.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/wardbell/medalarm/pkg/models"
)

// CurrentSchemaVersion is the newest roster file schema this build reads.
const CurrentSchemaVersion = 1

// rosterFile is the on-disk shape of the medication roster.
type rosterFile struct {
	SchemaVersion int                 `yaml:"schema_version"`
	Medications   []models.Medication `yaml:"medications"`
}

// LoadRoster reads and parses the roster file. Duplicate ids are rejected;
// a medication with a malformed schedule is kept (the engine skips it per
// tick with a warning) so one bad record cannot empty the watched set.
func LoadRoster(path string) ([]models.Medication, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var file rosterFile
	if err := yamlv3.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse roster yaml: %w", err)
	}

	if file.SchemaVersion < 1 {
		return nil, fmt.Errorf("invalid schema_version %d (must be >= 1)", file.SchemaVersion)
	}
	if file.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported schema_version %d (max supported: %d)", file.SchemaVersion, CurrentSchemaVersion)
	}

	seen := make(map[string]bool, len(file.Medications))
	for _, med := range file.Medications {
		if med.ID == "" {
			return nil, fmt.Errorf("roster entry %q has no id", med.MedicineName)
		}
		if seen[med.ID] {
			return nil, fmt.Errorf("duplicate medication id %q", med.ID)
		}
		seen[med.ID] = true
	}

	return file.Medications, nil
}

// Watcher reloads the roster when the file changes and hands the new
// snapshot to onChange. Editors typically replace the file rather than write
// in place, so the parent directory is watched, not the file itself.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func([]models.Medication)
	log      zerolog.Logger
	done     chan struct{}
}

// NewWatcher starts watching the roster file. onChange is invoked from the
// watcher goroutine with each successfully loaded snapshot; load failures
// are logged and the previous snapshot stays in effect.
func NewWatcher(path string, onChange func([]models.Medication), log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create roster watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch roster dir: %w", err)
	}

	w := &Watcher{
		path:     path,
		watcher:  fw,
		onChange: onChange,
		log:      log,
		done:     make(chan struct{}),
	}
	go w.run()

	return w, nil
}

func (w *Watcher) run() {
	// Editors fire bursts of events per save; collapse them with a short
	// debounce before reloading.
	var debounce *time.Timer

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("roster watcher error")
		}
	}
}

func (w *Watcher) reload() {
	meds, err := LoadRoster(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("roster reload failed, keeping previous snapshot")
		return
	}

	w.log.Info().Int("medications", len(meds)).Msg("roster reloaded")
	w.onChange(meds)
}

// Close stops the watcher goroutine and releases the fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
