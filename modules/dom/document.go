package dom

import (
	"github.com/grafana/sobek"
	domevent "github.com/shiroyk/domevent/dom"
	"github.com/shiroyk/domevent/js"
)

// document the global document, absent if the VM context has no Document.
//
// usage:
//
//	const button = document.querySelector("#save");
//	const items = document.querySelectorAll("li.item");
//	const links = document.xpath("//a[@href]");
type document struct{}

func (d *document) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
	doc, ok := domevent.FromContext(js.Context(rt))
	if !ok {
		return nil, nil
	}

	ret := rt.NewObject()
	_ = ret.Set("querySelector", func(call sobek.FunctionCall) sobek.Value {
		elements := doc.Select(domevent.Selector(call.Argument(0).String()))
		if len(elements) == 0 {
			return sobek.Null()
		}
		return ElementValue(rt, elements[0])
	})
	_ = ret.Set("querySelectorAll", func(call sobek.FunctionCall) sobek.Value {
		return ElementsValue(rt, doc.Select(domevent.Selector(call.Argument(0).String())))
	})
	_ = ret.Set("xpath", func(call sobek.FunctionCall) sobek.Value {
		return ElementsValue(rt, doc.Select(domevent.XPath(call.Argument(0).String())))
	})
	_ = ret.Set("dispatchEvent", func(call sobek.FunctionCall) sobek.Value {
		if len(call.Arguments) < 1 {
			panic(rt.NewTypeError("Failed to execute 'dispatchEvent': 1 argument required, but only 0 present."))
		}
		return rt.ToValue(doc.DispatchEvent(toEvent(rt, call.Argument(0), true)))
	})
	return ret, nil
}
