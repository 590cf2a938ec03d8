package js

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/grafana/sobek"
	"github.com/shiroyk/domevent/modules"
)

// VM the js runtime.
// An instance of VM can only be used by a single goroutine at a time.
type VM interface {
	// RunString executes the given string
	RunString(ctx context.Context, str string) (sobek.Value, error)
	// Run executes the given function with the runtime
	Run(ctx context.Context, fn func() error) error
	// Runtime the js runtime
	Runtime() *sobek.Runtime
	// Context the context the VM was created with
	Context() context.Context
}

// NewVM creates a new JavaScript VM with the console and every
// registered global module. The modules read their dependencies from ctx.
func NewVM(ctx context.Context) (VM, error) {
	rt := sobek.New()
	rt.SetFieldNameMapper(sobek.TagFieldNameMapper("js", true))

	vm := &vmImpl{runtime: rt, ctx: ctx}
	_ = rt.GlobalObject().SetSymbol(symVM, rt.ToValue(vm))

	EnableConsole(rt)

	for name, mod := range modules.All() {
		value, err := mod.Instantiate(rt)
		if err != nil {
			return nil, fmt.Errorf("instantiate module %s: %w", name, err)
		}
		if value == nil {
			continue
		}
		if err = rt.Set(name, value); err != nil {
			return nil, err
		}
	}

	return vm, nil
}

var symVM = sobek.NewSymbol("Symbol.VM")

type vmImpl struct {
	mu      sync.Mutex
	runtime *sobek.Runtime
	ctx     context.Context
}

// Run executes the function, interrupting the runtime when ctx is done.
func (vm *vmImpl) Run(ctx context.Context, fn func() error) (err error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.runtime.ClearInterrupt()
	stop := context.AfterFunc(ctx, func() { vm.runtime.Interrupt(ctx.Err()) })
	defer func() {
		stop()
		if r := recover(); r != nil {
			stack := vm.runtime.CaptureCallStack(20, nil)
			buf := new(bytes.Buffer)
			for _, frame := range stack {
				frame.Write(buf)
			}
			slog.Error(fmt.Sprintf("vm run error %s", r),
				"stack", string(debug.Stack()), "js stack", buf.String())
			err = fmt.Errorf("vm run error: %v", r)
		}
	}()

	return fn()
}

// RunString executes the given string
func (vm *vmImpl) RunString(ctx context.Context, str string) (ret sobek.Value, err error) {
	err = vm.Run(ctx, func() error {
		ret, err = vm.runtime.RunString(str)
		return err
	})
	return
}

// Runtime the js runtime
func (vm *vmImpl) Runtime() *sobek.Runtime { return vm.runtime }

// Context the context the VM was created with
func (vm *vmImpl) Context() context.Context { return vm.ctx }

func self(rt *sobek.Runtime) *vmImpl {
	if v := rt.GlobalObject().GetSymbol(symVM); v != nil {
		if vm, ok := v.Export().(*vmImpl); ok {
			return vm
		}
	}
	panic(rt.NewTypeError("runtime is not created by NewVM"))
}
