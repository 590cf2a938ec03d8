package dom

import (
	"github.com/grafana/sobek"
	domevent "github.com/shiroyk/domevent/dom"
)

var symElement = sobek.NewSymbol("Symbol.Element")

func elementPrototype(rt *sobek.Runtime) *sobek.Object {
	p := rt.NewObject()

	_ = p.DefineAccessorProperty("tagName", rt.ToValue(func(call sobek.FunctionCall) sobek.Value {
		return rt.ToValue(toElement(rt, call.This).TagName())
	}), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	_ = p.DefineAccessorProperty("id", rt.ToValue(func(call sobek.FunctionCall) sobek.Value {
		return rt.ToValue(toElement(rt, call.This).ID())
	}), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)
	_ = p.DefineAccessorProperty("textContent", rt.ToValue(func(call sobek.FunctionCall) sobek.Value {
		return rt.ToValue(toElement(rt, call.This).Text())
	}), nil, sobek.FLAG_FALSE, sobek.FLAG_TRUE)

	_ = p.Set("getAttribute", func(call sobek.FunctionCall) sobek.Value {
		v, ok := toElement(rt, call.This).Attr(call.Argument(0).String())
		if !ok {
			return sobek.Null()
		}
		return rt.ToValue(v)
	})
	_ = p.Set("dispatchEvent", func(call sobek.FunctionCall) sobek.Value {
		if len(call.Arguments) < 1 {
			panic(rt.NewTypeError("Failed to execute 'dispatchEvent': 1 argument required, but only 0 present."))
		}
		el := toElement(rt, call.This)
		return rt.ToValue(el.Document().Dispatch(el, toEvent(rt, call.Argument(0), true)))
	})
	_ = p.Set("toString", func(call sobek.FunctionCall) sobek.Value {
		return rt.ToValue(toElement(rt, call.This).String())
	})

	return p
}

func toElement(rt *sobek.Runtime, value sobek.Value) *domevent.Element {
	if el, ok := ToElement(value); ok {
		return el
	}
	panic(rt.NewTypeError(`Value of "this" must be of type Element`))
}

// ToElement returns the Element of a value created by ElementValue.
func ToElement(value sobek.Value) (*domevent.Element, bool) {
	if o, ok := value.(*sobek.Object); ok {
		if v := o.GetSymbol(symElement); v != nil {
			el, ok := v.Export().(*domevent.Element)
			return el, ok
		}
	}
	return nil, false
}

// ElementValue returns the js value of the Element,
// the same value for the same element.
func ElementValue(rt *sobek.Runtime, el *domevent.Element) sobek.Value {
	if el == nil {
		return sobek.Null()
	}
	c := cacheOf(rt)
	if v, ok := c.elements[el]; ok {
		return v
	}
	ret := rt.NewObject()
	_ = ret.SetSymbol(symElement, rt.ToValue(el))
	_ = ret.SetPrototype(c.proto)
	c.elements[el] = ret
	return ret
}

// ElementsValue returns the js array of the elements.
func ElementsValue(rt *sobek.Runtime, elements []*domevent.Element) sobek.Value {
	values := make([]any, len(elements))
	for i, el := range elements {
		values[i] = ElementValue(rt, el)
	}
	return rt.NewArray(values...)
}
