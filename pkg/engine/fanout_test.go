package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardbell/medalarm/pkg/models"
)

// Recording fakes for the four delivery channels, shared with the engine
// tests in this package.

type recordingToaster struct {
	mu     sync.Mutex
	err    error
	alerts []models.Alert
}

func (rt *recordingToaster) ShowToast(alert models.Alert) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.alerts = append(rt.alerts, alert)
	return rt.err
}

func (rt *recordingToaster) count() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.alerts)
}

func (rt *recordingToaster) last() models.Alert {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.alerts[len(rt.alerts)-1]
}

type stubNotifier struct {
	mu      sync.Mutex
	granted bool
	err     error
	sent    []models.Alert
}

func (sn *stubNotifier) Granted() bool { return sn.granted }

func (sn *stubNotifier) Send(alert models.Alert) error {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	sn.sent = append(sn.sent, alert)
	return sn.err
}

func (sn *stubNotifier) sentCount() int {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return len(sn.sent)
}

type recordingBlocker struct {
	mu        sync.Mutex
	err       error
	shown     []models.Alert
	dismissed []string
}

func (rb *recordingBlocker) Show(alert models.Alert) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.shown = append(rb.shown, alert)
	return rb.err
}

func (rb *recordingBlocker) Dismiss(medicationID string) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.dismissed = append(rb.dismissed, medicationID)
}

func (rb *recordingBlocker) shownCount() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return len(rb.shown)
}

func (rb *recordingBlocker) dismissedIDs() []string {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	out := make([]string, len(rb.dismissed))
	copy(out, rb.dismissed)
	return out
}

type recordingSounder struct {
	mu         sync.Mutex
	normal     int
	urgent     int
	stopUrgent int
	stopAll    int
}

func (rs *recordingSounder) StartNormal() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.normal++
}

func (rs *recordingSounder) StartUrgent() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.urgent++
}

func (rs *recordingSounder) StopUrgent() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.stopUrgent++
}

func (rs *recordingSounder) StopAll() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.stopAll++
}

func (rs *recordingSounder) counts() (normal, urgent, stopUrgent, stopAll int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.normal, rs.urgent, rs.stopUrgent, rs.stopAll
}

func fanoutAlert(medID string, state models.DoseState) models.Alert {
	return models.Alert{
		ID:           "alert-" + medID,
		MedicationID: medID,
		Title:        "Medication due: test",
		Priority:     models.PriorityHigh,
		State:        state,
	}
}

func TestFanoutDueNowHitsEveryChannel(t *testing.T) {
	toaster := &recordingToaster{}
	system := &stubNotifier{granted: true}
	blocker := &recordingBlocker{}
	sounder := &recordingSounder{}
	f := NewFanout(toaster, system, blocker, sounder, zerolog.Nop())

	f.Dispatch(fanoutAlert("m1", models.DoseStateDueNow), models.DoseStateDueNow)

	assert.Equal(t, 1, toaster.count())
	assert.Equal(t, 1, system.sentCount())
	assert.Equal(t, 1, blocker.shownCount())
	_, urgent, _, _ := sounder.counts()
	assert.Equal(t, 1, urgent)
	assert.Equal(t, "m1", f.BlockingID())
}

func TestFanoutOverdueSkipsBlockingUsesNormalTrack(t *testing.T) {
	toaster := &recordingToaster{}
	blocker := &recordingBlocker{}
	sounder := &recordingSounder{}
	f := NewFanout(toaster, &stubNotifier{granted: true}, blocker, sounder, zerolog.Nop())

	f.Dispatch(fanoutAlert("m1", models.DoseStateOverdue), models.DoseStateOverdue)

	assert.Equal(t, 0, blocker.shownCount())
	assert.Empty(t, f.BlockingID())
	normal, urgent, _, _ := sounder.counts()
	assert.Equal(t, 1, normal)
	assert.Equal(t, 0, urgent)
}

func TestFanoutApproachingIsSilent(t *testing.T) {
	toaster := &recordingToaster{}
	blocker := &recordingBlocker{}
	sounder := &recordingSounder{}
	f := NewFanout(toaster, &stubNotifier{granted: true}, blocker, sounder, zerolog.Nop())

	f.Dispatch(fanoutAlert("m1", models.DoseStateApproaching), models.DoseStateApproaching)

	assert.Equal(t, 1, toaster.count())
	assert.Equal(t, 0, blocker.shownCount())
	normal, urgent, _, _ := sounder.counts()
	assert.Equal(t, 0, normal)
	assert.Equal(t, 0, urgent)
}

func TestFanoutSkipsSystemWhenNotGranted(t *testing.T) {
	system := &stubNotifier{granted: false}
	f := NewFanout(&recordingToaster{}, system, nil, nil, zerolog.Nop())

	f.Dispatch(fanoutAlert("m1", models.DoseStateDueNow), models.DoseStateDueNow)

	assert.Equal(t, 0, system.sentCount())
}

func TestFanoutFailingChannelDoesNotBlockOthers(t *testing.T) {
	toaster := &recordingToaster{err: errors.New("toast window unavailable")}
	system := &stubNotifier{granted: true}
	blocker := &recordingBlocker{}
	sounder := &recordingSounder{}
	f := NewFanout(toaster, system, blocker, sounder, zerolog.Nop())

	f.Dispatch(fanoutAlert("m1", models.DoseStateDueNow), models.DoseStateDueNow)

	assert.Equal(t, 1, system.sentCount())
	assert.Equal(t, 1, blocker.shownCount())
	_, urgent, _, _ := sounder.counts()
	assert.Equal(t, 1, urgent)
}

func TestFanoutNilChannelsAreSkipped(t *testing.T) {
	f := NewFanout(nil, nil, nil, nil, zerolog.Nop())

	// Must not panic with no channels wired.
	f.Dispatch(fanoutAlert("m1", models.DoseStateDueNow), models.DoseStateDueNow)
	f.DismissBlocking("m1")
	f.Close()
}

func TestFanoutBlockingSingletonReplacement(t *testing.T) {
	blocker := &recordingBlocker{}
	f := NewFanout(nil, nil, blocker, nil, zerolog.Nop())

	f.Dispatch(fanoutAlert("m1", models.DoseStateDueNow), models.DoseStateDueNow)
	f.Dispatch(fanoutAlert("m2", models.DoseStateDueNow), models.DoseStateDueNow)

	require.Equal(t, 2, blocker.shownCount())
	assert.Equal(t, "m2", f.BlockingID(), "the newest due-now alert owns the screen")

	// Dismissing the superseded medication is a no-op.
	f.DismissBlocking("m1")
	assert.Equal(t, "m2", f.BlockingID())
	assert.Empty(t, blocker.dismissedIDs())
}

func TestFanoutDismissBlocking(t *testing.T) {
	blocker := &recordingBlocker{}
	sounder := &recordingSounder{}
	f := NewFanout(nil, nil, blocker, sounder, zerolog.Nop())

	f.Dispatch(fanoutAlert("m1", models.DoseStateDueNow), models.DoseStateDueNow)
	f.DismissBlocking("m1")

	assert.Empty(t, f.BlockingID())
	assert.Equal(t, []string{"m1"}, blocker.dismissedIDs())
	_, _, stopUrgent, _ := sounder.counts()
	assert.Equal(t, 1, stopUrgent, "dismissing the blocking alert silences the urgent track")

	// Second dismiss is idempotent.
	f.DismissBlocking("m1")
	assert.Equal(t, []string{"m1"}, blocker.dismissedIDs())
}

func TestFanoutCloseDismissesCurrentBlocking(t *testing.T) {
	blocker := &recordingBlocker{}
	f := NewFanout(nil, nil, blocker, nil, zerolog.Nop())

	f.Dispatch(fanoutAlert("m1", models.DoseStateDueNow), models.DoseStateDueNow)
	f.Close()

	assert.Empty(t, f.BlockingID())
	assert.Equal(t, []string{"m1"}, blocker.dismissedIDs())
}
