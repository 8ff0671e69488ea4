package notifications

import (
	"context"

	"github.com/gen2brain/beeep"
	log "github.com/sirupsen/logrus"
)

type PermissionState string

const (
	PermissionDefault PermissionState = "default"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

//go:generate mockgen -source=display.go -destination=mocks_test.go -package=notifications_test

// Display is the local delivery backend: an in-process timer fires and the
// notification is shown on the machine running the service.
type Display interface {
	Available() bool
	PermissionState() PermissionState
	RequestPermission() (bool, error)
	Show(handle Handle, title, body string) error
}

// BeeepDisplay shows desktop notifications through beeep. Desktop
// environments have no permission prompt, so the first permission request
// flips the state to granted for the rest of the process lifetime.
type BeeepDisplay struct {
	state PermissionState
}

func NewBeeepDisplay() *BeeepDisplay {
	return &BeeepDisplay{
		state: PermissionDefault,
	}
}

func (d *BeeepDisplay) Available() bool {
	return true
}

func (d *BeeepDisplay) PermissionState() PermissionState {
	return d.state
}

func (d *BeeepDisplay) RequestPermission() (bool, error) {
	d.state = PermissionGranted
	return true, nil
}

func (d *BeeepDisplay) Show(handle Handle, title, body string) error {
	log.Debugf("beeep display, show notification [%d]: %s", handle, title)
	return beeep.Notify(title, body, "")
}

type firedRecorder interface {
	RecordFired(ctx context.Context, handle Handle, title string)
}

// RecordingDisplay decorates a Display, recording every successfully shown
// notification into the delivery log.
type RecordingDisplay struct {
	inner    Display
	recorder firedRecorder
}

func NewRecordingDisplay(inner Display, recorder firedRecorder) *RecordingDisplay {
	return &RecordingDisplay{
		inner:    inner,
		recorder: recorder,
	}
}

func (d *RecordingDisplay) Available() bool {
	return d.inner.Available()
}

func (d *RecordingDisplay) PermissionState() PermissionState {
	return d.inner.PermissionState()
}

func (d *RecordingDisplay) RequestPermission() (bool, error) {
	return d.inner.RequestPermission()
}

func (d *RecordingDisplay) Show(handle Handle, title, body string) error {
	if err := d.inner.Show(handle, title, body); err != nil {
		return err
	}
	d.recorder.RecordFired(context.Background(), handle, title)
	return nil
}
