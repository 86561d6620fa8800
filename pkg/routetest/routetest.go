package routetest

import (
	"reflect"
	"testing"

	"github.com/andreasphil/routeutil/pkg/router"
)

// Recorder captures the resolutions a handler receives.
//
// The zero value is ready to use.
type Recorder struct {
	calls []router.ResolvedRoute
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Handler returns a router.Handler that records every resolution it
// receives.
//
// Example:
//
//	rec := routetest.NewRecorder()
//	r.On("#/home", rec.Handler())
func (r *Recorder) Handler() router.Handler {
	return func(res router.ResolvedRoute) {
		r.calls = append(r.calls, res)
	}
}

// Count returns the number of recorded resolutions.
func (r *Recorder) Count() int {
	return len(r.calls)
}

// Calls returns the recorded resolutions in order.
func (r *Recorder) Calls() []router.ResolvedRoute {
	out := make([]router.ResolvedRoute, len(r.calls))
	copy(out, r.calls)
	return out
}

// Last returns the most recent resolution and whether one exists.
func (r *Recorder) Last() (router.ResolvedRoute, bool) {
	if len(r.calls) == 0 {
		return router.ResolvedRoute{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Reset discards all recorded resolutions.
func (r *Recorder) Reset() {
	r.calls = nil
}

// ExpectCount asserts that rec recorded exactly want resolutions.
func ExpectCount(t *testing.T, rec *Recorder, want int) {
	t.Helper()
	if got := rec.Count(); got != want {
		t.Errorf("recorded %d resolutions, want %d", got, want)
	}
}

// ExpectNone asserts that rec recorded no resolutions.
func ExpectNone(t *testing.T, rec *Recorder) {
	t.Helper()
	if got := rec.Count(); got != 0 {
		last, _ := rec.Last()
		t.Errorf("recorded %d resolutions, want none; last URL = %q", got, last.URL)
	}
}

// ExpectURL asserts the URL of the most recent resolution.
func ExpectURL(t *testing.T, rec *Recorder, want string) {
	t.Helper()
	last, ok := rec.Last()
	if !ok {
		t.Errorf("no resolutions recorded, want URL %q", want)
		return
	}
	if last.URL != want {
		t.Errorf("last URL = %q, want %q", last.URL, want)
	}
}

// ExpectParams asserts the params of the most recent resolution.
func ExpectParams(t *testing.T, rec *Recorder, want map[string]string) {
	t.Helper()
	last, ok := rec.Last()
	if !ok {
		t.Errorf("no resolutions recorded, want params %v", want)
		return
	}
	if !reflect.DeepEqual(last.Params, want) {
		t.Errorf("last params = %v, want %v", last.Params, want)
	}
}
