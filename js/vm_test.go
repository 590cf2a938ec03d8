package js

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/grafana/sobek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVM(t *testing.T) {
	t.Parallel()

	t.Run("run string", func(t *testing.T) {
		vm, err := NewVM(context.Background())
		require.NoError(t, err)
		v, err := vm.RunString(context.Background(), `1 + 1`)
		require.NoError(t, err)
		assert.EqualValues(t, 2, v.Export())
	})

	t.Run("exception", func(t *testing.T) {
		vm, err := NewVM(context.Background())
		require.NoError(t, err)
		_, err = vm.RunString(context.Background(), `throw new TypeError("bad")`)
		var ex *sobek.Exception
		require.ErrorAs(t, err, &ex)
		assert.Contains(t, ex.Error(), "TypeError: bad")
	})

	t.Run("timeout", func(t *testing.T) {
		vm, err := NewVM(context.Background())
		require.NoError(t, err)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = vm.RunString(ctx, `for (;;) {}`)
		var interrupted *sobek.InterruptedError
		assert.ErrorAs(t, err, &interrupted)

		v, err := vm.RunString(context.Background(), `"ok"`)
		require.NoError(t, err)
		assert.Equal(t, "ok", v.String())
	})

	t.Run("context", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "value")
		vm, err := NewVM(ctx)
		require.NoError(t, err)
		assert.Equal(t, "value", Context(vm.Runtime()).Value(key{}))
		assert.Equal(t, ctx, vm.Context())
	})

	t.Run("go panic", func(t *testing.T) {
		vm, err := NewVM(context.Background())
		require.NoError(t, err)
		err = vm.Run(context.Background(), func() error { panic("boom") })
		assert.ErrorContains(t, err, "boom")
	})
}

func TestConsole(t *testing.T) {
	t.Parallel()
	buf := new(bytes.Buffer)
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	vm, err := NewVM(WithLogger(context.Background(), logger))
	require.NoError(t, err)

	_, err = vm.RunString(context.Background(), `
		console.log("hello %s", "world");
		console.warn("count %d", 3, "extra");
		console.error({a: 1});
	`)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="hello world"`)
	assert.Contains(t, out, `level=WARN msg="count 3 extra"`)
	assert.Contains(t, out, "level=ERROR")
}

func TestArray(t *testing.T) {
	t.Parallel()
	vm, err := NewVM(context.Background())
	require.NoError(t, err)
	rt := vm.Runtime()

	v, err := rt.RunString(`[1, "a", true]`)
	require.NoError(t, err)
	values := Array(v)
	require.Len(t, values, 3)
	assert.Equal(t, "a", values[1].String())

	assert.Len(t, Array(rt.ToValue("single")), 1)
	assert.Nil(t, Array(sobek.Undefined()))
	assert.Nil(t, Array(sobek.Null()))
}

func TestUnwrap(t *testing.T) {
	t.Parallel()
	rt := sobek.New()
	assert.Nil(t, Unwrap(nil))
	assert.Nil(t, Unwrap(sobek.Undefined()))
	assert.Nil(t, Unwrap(sobek.Null()))
	assert.Equal(t, int64(1), Unwrap(rt.ToValue(1)))
	assert.Equal(t, "a", Unwrap(rt.ToValue("a")))
}
