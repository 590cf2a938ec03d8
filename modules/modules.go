package modules

import (
	"maps"
	"sync"

	"github.com/grafana/sobek"
)

// Module is the interface that must be implemented by JavaScript modules.
// It defines how a module is instantiated and made available to the JavaScript runtime.
//
// Example implementation:
//
//	func init() {
//		// register a new module named "location"
//		modules.Register("location", new(Location))
//	}
//
//	type Location struct{}
//
//	func (Location) Global() {}
//
//	func (Location) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
//		ret := rt.NewObject()
//		_ = ret.Set("href", "about:blank")
//		return ret, nil
//	}
type Module interface {
	Instantiate(*sobek.Runtime) (sobek.Value, error)
}

// Global implements the interface will load into global when the VM create.
// A nil value returned by Instantiate leaves the global unset.
type Global interface {
	Module
	Global() // mark as global module
}

// Register registers a Global module by the given name, which is loaded
// into the global scope when the VM is created. A later registration of
// the same name replaces the former.
func Register(name string, mod Global) {
	registry.Lock()
	registry.native[name] = mod
	registry.Unlock()
}

// All get all module
func All() map[string]Global {
	registry.RLock()
	defer registry.RUnlock()
	return maps.Clone(registry.native)
}

var registry = struct {
	sync.RWMutex
	native map[string]Global
}{
	native: make(map[string]Global),
}
