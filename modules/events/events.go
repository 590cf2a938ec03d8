// Package events the events global, which attaches listeners to the document
// elements and tracks them by id.
//
// usage:
//
//	const id = events.on("click", "#save", function (event, name) {
//		console.log(this.user, name, event.type);
//	}, ["save"], { user: "admin" });
//	events.trigger(id);
//	events.off(id);
package events

import (
	"math"
	"reflect"
	"strconv"

	"github.com/grafana/sobek"
	"github.com/shiroyk/domevent/dom"
	"github.com/shiroyk/domevent/js"
	"github.com/shiroyk/domevent/modules"
	jsdom "github.com/shiroyk/domevent/modules/dom"
	"github.com/shiroyk/domevent/registry"
	"github.com/spf13/cast"
)

func init() {
	modules.Register("events", new(Events))
}

// Events the events global, absent if the VM context has neither a
// Registry nor a Document.
type Events struct{}

func (*Events) Global() {}

func (e *Events) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
	ctx := js.Context(rt)
	reg, ok := registry.FromContext(ctx)
	if !ok {
		doc, ok := dom.FromContext(ctx)
		if !ok {
			return nil, nil
		}
		reg = registry.New(doc, registry.WithLogger(js.Logger(ctx)))
	}

	i := &instance{reg}
	ret := rt.NewObject()
	_ = ret.Set("on", i.on)
	_ = ret.Set("one", i.one)
	_ = ret.Set("off", i.off)
	_ = ret.Set("trigger", i.trigger)
	_ = ret.Set("getEvents", i.getEvents)
	return ret, nil
}

type instance struct {
	registry *registry.Registry
}

// on(events, element, listener, [listenerArgs = []], [listenerContext = globalThis], [preventDefault = true])
func (i *instance) on(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return i.register(registry.Persistent, call, rt)
}

// one(events, element, listener, [listenerArgs = []], [listenerContext = globalThis], [preventDefault = true])
func (i *instance) one(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return i.register(registry.SingleFire, call, rt)
}

func (i *instance) register(mode registry.Mode, call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	names := call.Argument(0).String()
	listener := call.Argument(2)

	fn, ok := sobek.AssertFunction(listener)
	if !ok {
		panic(rt.NewTypeError(`Invalid type "%s" of the "listener" argument. The function is required.`, typeOf(listener)))
	}

	args := js.Array(call.Argument(3))
	this := call.Argument(4)
	if !this.ToBoolean() {
		this = rt.GlobalObject()
	}

	opts := []registry.Option{
		registry.WithContext(this),
		registry.WithPreventDefault(!isFalse(call.Argument(5))),
	}
	if len(args) > 0 {
		values := make([]any, len(args))
		for n, arg := range args {
			values[n] = arg
		}
		opts = append(opts, registry.WithArgs(values...))
	}

	handle := func(this any, e dom.Event, args ...any) error {
		values := make([]sobek.Value, 0, len(args)+1)
		values = append(values, jsdom.EventValue(rt, e))
		for _, arg := range args {
			values = append(values, rt.ToValue(arg))
		}
		_, err := fn(rt.ToValue(this), values...)
		return err
	}

	register := i.registry.Register
	if mode == registry.SingleFire {
		register = i.registry.RegisterOnce
	}
	id, err := register(names, toRef(call.Argument(1)), handle, opts...)
	if err != nil {
		js.Throw(rt, err)
	}
	if id == registry.NoID {
		return sobek.Null()
	}
	return rt.ToValue(uint64(id))
}

// off(id)
func (i *instance) off(call sobek.FunctionCall) sobek.Value {
	if id, ok := toID(call.Argument(0)); ok {
		i.registry.Unregister(id)
	}
	return sobek.Undefined()
}

// trigger(id)
func (i *instance) trigger(call sobek.FunctionCall) sobek.Value {
	if id, ok := toID(call.Argument(0)); ok {
		i.registry.Trigger(id)
	}
	return sobek.Undefined()
}

// getEvents() returns the registered events by id
func (i *instance) getEvents(_ sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	ret := rt.NewObject()
	for _, id := range i.registry.IDs() {
		event, ok := i.registry.Get(id)
		if !ok {
			continue
		}
		obj := rt.NewObject()
		_ = obj.Set("names", event.Names)
		_ = obj.Set("elements", jsdom.ElementsValue(rt, event.Elements))
		_ = obj.Set("once", event.Mode == registry.SingleFire)
		_ = ret.Set(cast.ToString(uint64(id)), obj)
	}
	return ret
}

// toRef converts a selector string, an element or an array of elements.
func toRef(value sobek.Value) dom.Ref {
	if value == nil || sobek.IsUndefined(value) || sobek.IsNull(value) {
		return nil
	}
	if el, ok := jsdom.ToElement(value); ok {
		return dom.Elements(el)
	}
	if value.ExportType().Kind() == reflect.String {
		return dom.Selector(value.String())
	}
	var elements []*dom.Element
	for _, v := range js.Array(value) {
		if el, ok := jsdom.ToElement(v); ok {
			elements = append(elements, el)
		}
	}
	return dom.Elements(elements...)
}

// toID accepts the ids returned by on and one: non-negative integral numbers
// or their decimal strings. Any other value is never an id.
func toID(value sobek.Value) (registry.ID, bool) {
	if value == nil {
		return registry.NoID, false
	}
	switch v := value.Export().(type) {
	case int64:
		if v < 0 {
			return registry.NoID, false
		}
	case float64:
		if v < 0 || math.Trunc(v) != v || v >= math.MaxUint64 {
			return registry.NoID, false
		}
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || strconv.FormatUint(id, 10) != v {
			return registry.NoID, false
		}
		return registry.ID(id), true
	default:
		return registry.NoID, false
	}
	id, err := cast.ToUint64E(value.Export())
	if err != nil {
		return registry.NoID, false
	}
	return registry.ID(id), true
}

func isFalse(value sobek.Value) bool {
	return value != nil && value.ExportType() != nil &&
		value.ExportType().Kind() == reflect.Bool && !value.ToBoolean()
}

func typeOf(value sobek.Value) string {
	switch {
	case value == nil || sobek.IsUndefined(value):
		return "undefined"
	case sobek.IsNull(value):
		return "object"
	}
	if _, ok := value.(*sobek.Object); ok {
		return "object"
	}
	switch value.ExportType().Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int64, reflect.Float64:
		return "number"
	default:
		return value.ExportType().String()
	}
}
