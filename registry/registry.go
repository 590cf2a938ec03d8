// Package registry attaches event listeners to document elements and keeps
// track of them by an opaque numeric id, so they can be removed or fired later.
package registry

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/shiroyk/domevent/dom"
)

// ErrInvalidListener the listener is not callable
var ErrInvalidListener = errors.New("invalid listener: a function is required")

// ID identifies a registered listener.
type ID uint64

// NoID is returned when nothing was registered.
const NoID ID = 0

// Mode how a listener is bound to its elements.
type Mode int

const (
	// Persistent listeners stay bound until unregistered.
	Persistent Mode = iota
	// SingleFire listeners are removed by each element after its first
	// invocation for an event type.
	SingleFire
)

func (m Mode) String() string {
	if m == SingleFire {
		return "one"
	}
	return "on"
}

// Binder binds listeners to document elements.
type Binder interface {
	// Select resolves the ref to its elements.
	Select(ref dom.Ref) []*dom.Element
	// On binds the listener for the event names until removed.
	On(elements []*dom.Element, names string, listener dom.EventListener)
	// One binds the listener for the event names, removed after the first invocation.
	One(elements []*dom.Element, names string, listener dom.EventListener)
	// Off removes the listener for the event names.
	Off(elements []*dom.Element, names string, listener dom.EventListener)
	// Trigger fires the event names on the elements.
	Trigger(elements []*dom.Element, names string)
}

// Listener the event listener function. It is called with the receiver
// configured by WithContext, the event and the arguments configured by WithArgs.
type Listener func(this any, e dom.Event, args ...any) error

// Descriptor a registered listener.
type Descriptor struct {
	ID       ID
	Names    string
	Elements []*dom.Element
	Mode     Mode
	// Listener the listener bound to the elements.
	Listener dom.EventListener
}

// Option the Register option.
type Option func(*options)

type options struct {
	args           []any
	this           any
	hasThis        bool
	preventDefault bool
}

// WithArgs appends the args to every listener invocation, after the event.
func WithArgs(args ...any) Option {
	return func(o *options) { o.args = args }
}

// WithContext sets the listener receiver. Without it the receiver is the
// binder global object if the binder has one, nil otherwise.
func WithContext(this any) Option {
	return func(o *options) { o.this, o.hasThis = this, true }
}

// WithPreventDefault sets whether the listener prevents the default action
// of the event before it is called, true by default.
func WithPreventDefault(preventDefault bool) Option {
	return func(o *options) { o.preventDefault = preventDefault }
}

// Registry the event listener registry.
// It is safe for concurrent use, the binder is called without holding the
// registry lock so listeners may call back into the registry.
type Registry struct {
	binder Binder
	logger *slog.Logger

	mu     sync.Mutex
	nextID ID
	events map[ID]*Descriptor
}

// RegistryOption the New option.
type RegistryOption func(*Registry)

// WithLogger set the Registry logger.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// New returns a new Registry binding listeners with the binder.
func New(binder Binder, opts ...RegistryOption) *Registry {
	r := &Registry{
		binder: binder,
		events: make(map[ID]*Descriptor),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Register attaches the listener for one or more comma separated event
// names to the elements the ref resolves to, and returns the id of the
// registration. If the ref resolves to no element nothing is attached and
// NoID is returned.
func (r *Registry) Register(names string, ref dom.Ref, listener Listener, opts ...Option) (ID, error) {
	return r.register(Persistent, names, ref, listener, opts)
}

// RegisterOnce attaches the listener like Register, but it is executed at
// most once per element per event type.
// The registration is kept until Unregister is called.
func (r *Registry) RegisterOnce(names string, ref dom.Ref, listener Listener, opts ...Option) (ID, error) {
	return r.register(SingleFire, names, ref, listener, opts)
}

func (r *Registry) register(mode Mode, names string, ref dom.Ref, listener Listener, opts []Option) (ID, error) {
	if listener == nil {
		return NoID, ErrInvalidListener
	}

	o := options{preventDefault: true}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasThis {
		if g, ok := r.binder.(interface{ Global() any }); ok {
			o.this = g.Global()
		}
	}

	elements := r.binder.Select(ref)
	if len(elements) == 0 {
		r.logger.Debug("no elements to register", "names", names)
		return NoID, nil
	}

	event := &Descriptor{
		Names:    names,
		Elements: elements,
		Mode:     mode,
		Listener: dom.NewEventListener(func(e dom.Event) error {
			if o.preventDefault {
				e.PreventDefault()
			}
			return listener(o.this, e, o.args...)
		}, dom.AddEventListenerOptions{}),
	}

	r.binder.Off(elements, names, event.Listener)
	switch mode {
	case SingleFire:
		r.binder.One(elements, names, event.Listener)
	default:
		r.binder.On(elements, names, event.Listener)
	}

	r.mu.Lock()
	r.nextID++
	event.ID = r.nextID
	r.events[event.ID] = event
	r.mu.Unlock()

	r.logger.Debug("event registered", "id", event.ID, "names", names, "mode", mode, "elements", len(elements))
	return event.ID, nil
}

// Unregister removes the listener registered with the id.
// Unknown ids are ignored.
func (r *Registry) Unregister(id ID) {
	r.mu.Lock()
	event, ok := r.events[id]
	if ok {
		delete(r.events, id)
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	r.binder.Off(event.Elements, event.Names, event.Listener)
	r.logger.Debug("event unregistered", "id", id, "names", event.Names)
}

// Trigger fires the event names of the registration on its elements.
// Unknown ids are ignored.
func (r *Registry) Trigger(id ID) {
	r.mu.Lock()
	event, ok := r.events[id]
	r.mu.Unlock()
	if !ok {
		return
	}

	r.binder.Trigger(event.Elements, event.Names)
}

// Get returns the registration of the id.
func (r *Registry) Get(id ID) (Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return Descriptor{}, false
	}
	return *event, true
}

// Events returns the registrations by id.
func (r *Registry) Events() map[ID]Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make(map[ID]Descriptor, len(r.events))
	for id, event := range r.events {
		ret[id] = *event
	}
	return ret
}

// IDs returns the ids of the registrations.
func (r *Registry) IDs() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.events))
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
