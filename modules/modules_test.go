package modules

import (
	"testing"

	"github.com/grafana/sobek"
	"github.com/stretchr/testify/assert"
)

type testGlobal struct{ value string }

func (testGlobal) Global() {}

func (m testGlobal) Instantiate(rt *sobek.Runtime) (sobek.Value, error) {
	return rt.ToValue(m.value), nil
}

func TestRegister(t *testing.T) {
	t.Cleanup(func() {
		registry.Lock()
		delete(registry.native, "test_global")
		registry.Unlock()
	})

	Register("test_global", testGlobal{"first"})
	Register("test_global", testGlobal{"second"})

	all := All()
	if assert.Contains(t, all, "test_global") {
		v, err := all["test_global"].Instantiate(sobek.New())
		assert.NoError(t, err)
		assert.Equal(t, "second", v.String())
	}

	delete(all, "test_global")
	assert.Contains(t, All(), "test_global", "All returns a copy")
}
