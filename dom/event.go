package dom

import (
	"time"
)

// Event defines the DOM Event interface
// https://dom.spec.whatwg.org/#event
type Event interface {
	Type() string
	Target() EventTarget
	CurrentTarget() EventTarget
	EventPhase() EventPhase
	TimeStamp() int64
	Bubbles() bool
	Cancelable() bool
	DefaultPrevented() bool

	StopPropagation()
	StopImmediatePropagation()
	PreventDefault()

	reset()
	setTarget(target EventTarget)
	setCurrentTarget(target EventTarget)
	setEventPhase(eventPhase EventPhase)
	setDefaultPrevented(defaultPrevented bool)
	isPropagationStopped() bool
	isImmediatePropagationStopped() bool
}

type EventPhase int

const (
	EventPhaseNone EventPhase = iota
	EventPhaseCapturing
	EventPhaseAtTarget
	EventPhaseBubbling
)

// EventInit the optional Event fields
// https://dom.spec.whatwg.org/#dictdef-eventinit
type EventInit struct {
	Bubbles    bool
	Cancelable bool
}

// NewEvent creates a new Event instance
func NewEvent(typ string, init ...EventInit) Event {
	e := &_event{
		typ:       typ,
		timeStamp: time.Now().UnixNano() / int64(time.Millisecond),
	}
	if len(init) > 0 {
		e.bubbles = init[0].Bubbles
		e.cancelable = init[0].Cancelable
	}
	return e
}

type _event struct {
	typ                         string
	target                      EventTarget
	currentTarget               EventTarget
	eventPhase                  EventPhase
	timeStamp                   int64
	bubbles                     bool
	cancelable                  bool
	defaultPrevented            bool
	propagationStopped          bool
	immediatePropagationStopped bool
}

func (e *_event) Type() string                              { return e.typ }
func (e *_event) Target() EventTarget                       { return e.target }
func (e *_event) CurrentTarget() EventTarget                { return e.currentTarget }
func (e *_event) EventPhase() EventPhase                    { return e.eventPhase }
func (e *_event) TimeStamp() int64                          { return e.timeStamp }
func (e *_event) Bubbles() bool                             { return e.bubbles }
func (e *_event) Cancelable() bool                          { return e.cancelable }
func (e *_event) DefaultPrevented() bool                    { return e.defaultPrevented }
func (e *_event) StopPropagation()                          { e.propagationStopped = true }
func (e *_event) setTarget(target EventTarget)              { e.target = target }
func (e *_event) setCurrentTarget(target EventTarget)       { e.currentTarget = target }
func (e *_event) setEventPhase(eventPhase EventPhase)       { e.eventPhase = eventPhase }
func (e *_event) setDefaultPrevented(defaultPrevented bool) { e.defaultPrevented = defaultPrevented }
func (e *_event) isPropagationStopped() bool                { return e.propagationStopped }
func (e *_event) isImmediatePropagationStopped() bool       { return e.immediatePropagationStopped }

func (e *_event) StopImmediatePropagation() {
	e.immediatePropagationStopped = true
	e.propagationStopped = true
}

func (e *_event) PreventDefault() {
	if e.cancelable {
		e.defaultPrevented = true
	}
}

// reset clears the dispatch state, the target stays readable after dispatch.
func (e *_event) reset() {
	e.currentTarget = nil
	e.eventPhase = EventPhaseNone
}
