// Package metrics records operational counters behind a small Recorder
// interface. Components take a Recorder by injection and default to Noop,
// so nothing pays for metrics unless main wires the Prometheus
// implementation in.
package metrics

import "time"

type Recorder interface {
	// StoreMutation counts one mutating store operation by name.
	StoreMutation(op string)
	// SnapshotSaveFailure counts a failed persist of the state snapshot.
	SnapshotSaveFailure()
	// HTTPRequest records one served request.
	HTTPRequest(method, path string, status int, dur time.Duration)
	// ChatStream counts a chat stream by outcome ("ok", "aborted", "error").
	ChatStream(outcome string)
}

type Noop struct{}

func (Noop) StoreMutation(string)                           {}
func (Noop) SnapshotSaveFailure()                           {}
func (Noop) HTTPRequest(string, string, int, time.Duration) {}
func (Noop) ChatStream(string)                              {}

var _ Recorder = Noop{}
