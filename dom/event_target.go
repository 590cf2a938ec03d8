package dom

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// EventTarget defines the DOM EventTarget interface
// https://dom.spec.whatwg.org/#interface-eventtarget
type EventTarget interface {
	// AddEventListener registers an event handler of a specific event type on the EventTarget
	AddEventListener(typ string, listener EventListener)
	// RemoveEventListener removes an event listener from the EventTarget
	RemoveEventListener(typ string, listener EventListener)
	// DispatchEvent dispatches an event to this EventTarget
	DispatchEvent(event Event) bool
	// Listeners returns all event listeners for a specific event type
	Listeners(typ string) []EventListener

	dispatchEvent(e Event)
	parent() EventTarget
}

type EventListener interface {
	HandleEvent(event Event) error
	Equals(e EventListener) bool
	Options() AddEventListenerOptions
}

type EventListenerOptions struct {
	Capture bool
}

type AddEventListenerOptions struct {
	EventListenerOptions
	Passive bool
	Once    bool
	Signal  context.Context
}

// NewEventTarget creates a new EventTarget instance
func NewEventTarget() EventTarget {
	t := newEventTarget(nil)
	t.self = t
	return t
}

// newEventTarget creates the listener storage for owner, the value reported
// as the event target and current target while dispatching.
func newEventTarget(owner EventTarget) *_eventTarget {
	return &_eventTarget{
		self:      owner,
		listeners: make(map[string][]EventListener),
	}
}

type _eventTarget struct {
	mu           sync.Mutex
	self         EventTarget
	parentTarget EventTarget
	listeners    map[string][]EventListener
}

func (t *_eventTarget) AddEventListener(typ string, listener EventListener) {
	if listener == nil {
		return
	}
	opts := listener.Options()
	if opts.Signal != nil && opts.Signal.Err() != nil {
		return
	}

	t.mu.Lock()
	for _, l := range t.listeners[typ] {
		if l.Equals(listener) && l.Options().Capture == opts.Capture {
			t.mu.Unlock()
			return
		}
	}
	t.listeners[typ] = append(t.listeners[typ], listener)
	t.mu.Unlock()

	if opts.Signal != nil {
		context.AfterFunc(opts.Signal, func() { t.RemoveEventListener(typ, listener) })
	}
}

func (t *_eventTarget) RemoveEventListener(typ string, listener EventListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	listeners, ok := t.listeners[typ]
	if !ok {
		return
	}
	capture := listener.Options().Capture
	listeners = slices.DeleteFunc(listeners, func(l EventListener) bool {
		return l.Equals(listener) && l.Options().Capture == capture
	})
	if len(listeners) == 0 {
		delete(t.listeners, typ)
		return
	}
	t.listeners[typ] = listeners
}

func (t *_eventTarget) DispatchEvent(e Event) bool {
	defer e.reset()
	e.setTarget(t.self)

	// Capture phase
	e.setEventPhase(EventPhaseCapturing)
	parents := make([]EventTarget, 0)
	for p := t.parentTarget; p != nil; p = p.parent() {
		parents = append(parents, p)
	}
	// Dispatch in reverse order (from root to target's parent)
	for i := len(parents) - 1; i >= 0; i-- {
		if e.isPropagationStopped() {
			break
		}
		parents[i].dispatchEvent(e)
	}

	// Target phase
	if !e.isPropagationStopped() {
		e.setEventPhase(EventPhaseAtTarget)
		t.dispatchEvent(e)
	}

	// Bubble phase
	if e.Bubbles() {
		e.setEventPhase(EventPhaseBubbling)
		for _, p := range parents {
			if e.isPropagationStopped() {
				break
			}
			p.dispatchEvent(e)
		}
	}

	return !e.DefaultPrevented()
}

func (t *_eventTarget) dispatchEvent(e Event) {
	e.setCurrentTarget(t.self)
	phase := e.EventPhase()
	for _, listener := range t.Listeners(e.Type()) {
		opts := listener.Options()
		if phase == EventPhaseCapturing && !opts.Capture || phase == EventPhaseBubbling && opts.Capture {
			continue
		}

		if e.isImmediatePropagationStopped() {
			break
		}

		if opts.Once {
			t.RemoveEventListener(e.Type(), listener)
		}

		if !opts.Passive {
			if err := listener.HandleEvent(e); err != nil {
				slog.Error("Uncaught Error", "type", e.Type(), "error", err)
			}
		} else {
			prevDefaultPrevented := e.DefaultPrevented()
			if err := listener.HandleEvent(e); err != nil {
				slog.Error("Uncaught Error", "type", e.Type(), "error", err)
			}
			if e.DefaultPrevented() && !prevDefaultPrevented {
				e.setDefaultPrevented(false)
			}
		}
	}
}

func (t *_eventTarget) Listeners(typ string) []EventListener {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]EventListener(nil), t.listeners[typ]...)
}

func (t *_eventTarget) parent() EventTarget { return t.parentTarget }

var ids atomic.Uint64

func newID() uint64 { return ids.Add(1) }

// NewEventListener creates a new EventListener.
// Every call returns a distinct listener, two listeners are equal only
// when they are the same value.
func NewEventListener(fn func(Event) error, opts AddEventListenerOptions) EventListener {
	return &goEventListener{
		fn:   fn,
		opts: opts,
		id:   newID(),
	}
}

type goEventListener struct {
	fn   func(Event) error
	opts AddEventListenerOptions
	id   uint64
}

func (j *goEventListener) Options() AddEventListenerOptions { return j.opts }
func (j *goEventListener) HandleEvent(event Event) error    { return j.fn(event) }
func (j *goEventListener) Equals(e EventListener) bool {
	other, ok := e.(*goEventListener)
	if !ok {
		return false
	}
	return j.id == other.id
}
