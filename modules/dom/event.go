package dom

import (
	"github.com/grafana/sobek"
	domevent "github.com/shiroyk/domevent/dom"
)

type event struct{}

func (e *event) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
	ctor := rt.ToValue(e.constructor).ToObject(rt)
	p := e.prototype(rt)
	_ = p.DefineDataProperty("constructor", ctor, sobek.FLAG_FALSE, sobek.FLAG_FALSE, sobek.FLAG_FALSE)
	_ = ctor.Set("prototype", p)
	_ = ctor.Set("NONE", domevent.EventPhaseNone)
	_ = ctor.Set("CAPTURING_PHASE", domevent.EventPhaseCapturing)
	_ = ctor.Set("AT_TARGET", domevent.EventPhaseAtTarget)
	_ = ctor.Set("BUBBLING_PHASE", domevent.EventPhaseBubbling)
	return ctor, nil
}

func (e *event) constructor(call sobek.ConstructorCall, rt *sobek.Runtime) *sobek.Object {
	if len(call.Arguments) < 1 {
		panic(rt.NewTypeError("Failed to construct 'Event': 1 argument required, but only 0 present."))
	}

	eventType := call.Argument(0).String()
	options := call.Argument(1)

	var init domevent.EventInit
	if !sobek.IsUndefined(options) && !sobek.IsNull(options) {
		if obj := options.ToObject(rt); obj != nil {
			if v := obj.Get("bubbles"); v != nil {
				init.Bubbles = v.ToBoolean()
			}
			if v := obj.Get("cancelable"); v != nil {
				init.Cancelable = v.ToBoolean()
			}
		}
	}

	ret := rt.NewObject()
	_ = ret.SetSymbol(symEvent, rt.ToValue(domevent.NewEvent(eventType, init)))
	_ = ret.SetPrototype(call.This.Prototype())
	return ret
}

func (e *event) prototype(rt *sobek.Runtime) *sobek.Object {
	p := rt.NewObject()

	// Properties
	_ = p.DefineAccessorProperty("type", rt.ToValue(e.type_), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	_ = p.DefineAccessorProperty("target", rt.ToValue(e.target), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	_ = p.DefineAccessorProperty("currentTarget", rt.ToValue(e.currentTarget), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	_ = p.DefineAccessorProperty("eventPhase", rt.ToValue(e.eventPhase), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	_ = p.DefineAccessorProperty("timeStamp", rt.ToValue(e.timeStamp), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	_ = p.DefineAccessorProperty("bubbles", rt.ToValue(e.bubbles), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	_ = p.DefineAccessorProperty("cancelable", rt.ToValue(e.cancelable), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	_ = p.DefineAccessorProperty("defaultPrevented", rt.ToValue(e.defaultPrevented), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)

	// Methods
	_ = p.Set("stopPropagation", e.stopPropagation)
	_ = p.Set("stopImmediatePropagation", e.stopImmediatePropagation)
	_ = p.Set("preventDefault", e.preventDefault)
	_ = p.Set("toString", e.toString)

	return p
}

func (*event) type_(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toEvent(rt, call.This).Type())
}

func (*event) target(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return TargetValue(rt, toEvent(rt, call.This).Target())
}

func (*event) currentTarget(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return TargetValue(rt, toEvent(rt, call.This).CurrentTarget())
}

func (*event) eventPhase(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(int(toEvent(rt, call.This).EventPhase()))
}

func (*event) timeStamp(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toEvent(rt, call.This).TimeStamp())
}

func (*event) bubbles(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toEvent(rt, call.This).Bubbles())
}

func (*event) cancelable(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toEvent(rt, call.This).Cancelable())
}

func (*event) defaultPrevented(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	return rt.ToValue(toEvent(rt, call.This).DefaultPrevented())
}

func (*event) stopPropagation(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toEvent(rt, call.This).StopPropagation()
	return sobek.Undefined()
}

func (*event) stopImmediatePropagation(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toEvent(rt, call.This).StopImmediatePropagation()
	return sobek.Undefined()
}

func (*event) preventDefault(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	toEvent(rt, call.This).PreventDefault()
	return sobek.Undefined()
}

// toString returns the type and the target, e.g. "Event(click, a.link)".
func (*event) toString(call sobek.FunctionCall, rt *sobek.Runtime) sobek.Value {
	ev := toEvent(rt, call.This)
	switch t := ev.Target().(type) {
	case *domevent.Element:
		return rt.ToValue("Event(" + ev.Type() + ", " + t.String() + ")")
	case *domevent.Document:
		return rt.ToValue("Event(" + ev.Type() + ", #document)")
	}
	return rt.ToValue("Event(" + ev.Type() + ")")
}

var symEvent = sobek.NewSymbol("Symbol.Event")

func toEvent(rt *sobek.Runtime, value sobek.Value, isValue ...bool) domevent.Event {
	if e, ok := ToEvent(value); ok {
		return e
	}
	if len(isValue) > 0 && isValue[0] {
		panic(rt.NewTypeError(`Value must be of type Event`))
	}
	panic(rt.NewTypeError(`Value of "this" must be of type Event`))
}

// ToEvent returns the Event of a value created by the Event constructor or EventValue.
func ToEvent(value sobek.Value) (domevent.Event, bool) {
	if o, ok := value.(*sobek.Object); ok {
		if v := o.GetSymbol(symEvent); v != nil {
			e, ok := v.Export().(domevent.Event)
			return e, ok
		}
	}
	return nil, false
}

// EventValue returns the js value of the Event.
func EventValue(rt *sobek.Runtime, e domevent.Event) sobek.Value {
	ctor := rt.Get("Event")
	if ctor == nil {
		panic(rt.NewTypeError("Event is not defined"))
	}
	ret := rt.NewObject()
	_ = ret.SetSymbol(symEvent, rt.ToValue(e))
	_ = ret.SetPrototype(ctor.ToObject(rt).Get("prototype").ToObject(rt))
	return ret
}

// TargetValue returns the js value of the EventTarget, null if the target
// is neither an element nor the document.
func TargetValue(rt *sobek.Runtime, target domevent.EventTarget) sobek.Value {
	switch t := target.(type) {
	case *domevent.Element:
		return ElementValue(rt, t)
	case *domevent.Document:
		if v := rt.Get("document"); v != nil {
			return v
		}
	}
	return sobek.Null()
}
