// Package modulestest the module test vm
package modulestest

import (
	"context"
	"errors"
	"testing"

	"github.com/grafana/sobek"
	"github.com/shiroyk/domevent/js"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// New returns a test VM instance with the assert global.
// The modules read their dependencies from ctx.
func New(t *testing.T, ctx context.Context) js.VM {
	t.Helper()
	vm, err := js.NewVM(ctx)
	require.NoError(t, err)
	runtime := vm.Runtime()

	assertObject := runtime.NewObject()
	_ = assertObject.Set("equal", func(call sobek.FunctionCall, vm *sobek.Runtime) (ret sobek.Value) {
		a, b := js.Unwrap(call.Argument(0)), js.Unwrap(call.Argument(1))
		var msg string
		if !sobek.IsUndefined(call.Argument(2)) {
			msg = call.Argument(2).String()
		}
		if !assert.Equal(t, b, a, msg) {
			js.Throw(vm, errors.New("not equal"))
		}
		return
	})
	_ = assertObject.Set("true", func(call sobek.FunctionCall, vm *sobek.Runtime) (ret sobek.Value) {
		var msg string
		if !sobek.IsUndefined(call.Argument(1)) {
			msg = call.Argument(1).String()
		}
		if !assert.True(t, call.Argument(0).ToBoolean(), msg) {
			js.Throw(vm, errors.New("should be true"))
		}
		return
	})

	_ = runtime.Set("assert", assertObject)

	return vm
}
