// Package dom the DOM globals: the Event constructor and the document
// of the VM context, with its elements.
package dom

import (
	"github.com/grafana/sobek"
	domevent "github.com/shiroyk/domevent/dom"
	"github.com/shiroyk/domevent/modules"
)

func init() {
	modules.Register("Event", new(event))
	modules.Register("document", new(document))
}

func (*event) Global()    {}
func (*document) Global() {}

var symCache = sobek.NewSymbol("Symbol.ElementCache")

// cache keeps one js object per element so that the same element is
// always strictly equal to itself.
type cache struct {
	proto    *sobek.Object
	elements map[*domevent.Element]*sobek.Object
}

func cacheOf(rt *sobek.Runtime) *cache {
	global := rt.GlobalObject()
	if v := global.GetSymbol(symCache); v != nil {
		if c, ok := v.Export().(*cache); ok {
			return c
		}
	}
	c := &cache{
		proto:    elementPrototype(rt),
		elements: make(map[*domevent.Element]*sobek.Object),
	}
	_ = global.SetSymbol(symCache, rt.ToValue(c))
	return c
}
