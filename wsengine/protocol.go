package wsengine

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Request is one engine call.
type Request struct {
	ID     string            `json:"id"`
	Method string            `json:"method"`
	Args   []json.RawMessage `json:"args,omitempty"`
}

// Response answers the Request with the same ID. Error is empty on success.
type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// EventKind names the callback an event fires.
type EventKind string

const (
	EventReady    EventKind = "ready"    // Initialize finished
	EventManifest EventKind = "manifest" // LoadManifest finished
	EventStep     EventKind = "step"     // an animation applied a vertex row
)

// once reports whether the callback is dropped after its first event.
func (k EventKind) once() bool {
	return k != EventStep
}

// Event is a callback invocation pushed by the server. Ref is the reference
// the client sent in place of the callback; Value carries step udata.
type Event struct {
	Kind  EventKind `json:"kind"`
	Ref   string    `json:"ref"`
	Value float64   `json:"value,omitempty"`
}

// envelope is a server frame. Exactly one field is set.
type envelope struct {
	Response *Response `json:"response,omitempty"`
	Event    *Event    `json:"event,omitempty"`
}

// args decodes positional request arguments. The first failure sticks and
// later reads return zero values.
type args struct {
	raw []json.RawMessage
	err error
}

func (a *args) decode(i int, v any) {
	if a.err != nil {
		return
	}
	if i >= len(a.raw) {
		a.err = errors.Errorf("missing argument %d", i)
		return
	}
	if err := json.Unmarshal(a.raw[i], v); err != nil {
		a.err = errors.Wrapf(err, "argument %d", i)
	}
}

func (a *args) int(i int) int {
	var v int
	a.decode(i, &v)
	return v
}

func (a *args) float(i int) float64 {
	var v float64
	a.decode(i, &v)
	return v
}

func (a *args) str(i int) string {
	var v string
	a.decode(i, &v)
	return v
}

func (a *args) bool(i int) bool {
	var v bool
	a.decode(i, &v)
	return v
}

func encodeArgs(values []any) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(values))
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "encode argument %d", i)
		}
		out[i] = b
	}
	return out, nil
}
