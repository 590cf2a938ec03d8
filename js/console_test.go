package js

import (
	"testing"

	"github.com/grafana/sobek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	t.Parallel()
	rt := sobek.New()
	format := func(msg any, args ...any) string {
		values := make([]sobek.Value, len(args))
		for i, arg := range args {
			values[i] = rt.ToValue(arg)
		}
		return Format(rt, rt.ToValue(msg), values...).String()
	}

	assert.Equal(t, "hello domevent", format("hello %s", "domevent"))
	assert.Equal(t, "count 3 extra", format("count %d", 3, "extra"))
	assert.Equal(t, "3 of 10%", format("%i of %d%%", 3.7, 10))
	assert.Equal(t, "100%", format("100%"))
	assert.Equal(t, "missing %s", format("missing %s"))
	assert.Equal(t, "%x 1", format("%x", 1))
	assert.Equal(t, "1 2", format(1, 2))
	assert.True(t, sobek.IsUndefined(Format(rt, sobek.Undefined())))
}

func TestInspect(t *testing.T) {
	t.Parallel()
	rt := sobek.New()
	inspect := func(script string) string {
		v, err := rt.RunString(script)
		require.NoError(t, err)
		return Inspect(rt, v)
	}

	assert.Equal(t, `{"a":1}`, inspect(`({a: 1})`))
	assert.Equal(t, `[1,"b"]`, inspect(`[1, "b"]`))
	assert.Equal(t, "a#home", inspect(`({ toString() { return "a#home" } })`))
	assert.Equal(t, "Error: failed", inspect(`new Error("failed")`))
	assert.Equal(t, "[Function: save]", inspect(`(function save() {})`))
	assert.Equal(t, "null", inspect(`null`))
	assert.Equal(t, "undefined", inspect(`undefined`))

	v, err := rt.RunString(`({ toString() { return "a.link" } })`)
	require.NoError(t, err)
	assert.Equal(t, "link a.link", Format(rt, rt.ToValue("link %s"), v).String())
	assert.Equal(t, `json {"n":1}`, Format(rt, rt.ToValue("json %j"), rt.ToValue(map[string]any{"n": 1})).String())
}
