package registry

import (
	"errors"
	"testing"

	"github.com/shiroyk/domevent/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div id="menu">
	<a class="entry" href="/a">a</a>
	<a class="entry" href="/b">b</a>
</div>
<button id="save">Save</button>
</body></html>`

func newTestRegistry(t *testing.T, opts ...dom.Option) (*Registry, *dom.Document) {
	t.Helper()
	doc, err := dom.ParseString(page, opts...)
	require.NoError(t, err)
	return New(doc), doc
}

func noop(any, dom.Event, ...any) error { return nil }

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("returns id", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		id, err := r.Register("click", dom.Selector(".entry"), noop)
		require.NoError(t, err)
		assert.NotEqual(t, NoID, id)

		events := r.Events()
		require.Contains(t, events, id)
		assert.Equal(t, "click", events[id].Names)
		assert.Len(t, events[id].Elements, 2)
		assert.Equal(t, Persistent, events[id].Mode)
	})

	t.Run("unique ids", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		seen := make(map[ID]struct{})
		for range 100 {
			id, err := r.Register("click", dom.Selector("#save"), noop)
			require.NoError(t, err)
			assert.NotContains(t, seen, id)
			seen[id] = struct{}{}
		}
		assert.Equal(t, 100, r.Len())
		assert.Len(t, r.IDs(), 100)
	})

	t.Run("no elements", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		id, err := r.Register("click", dom.Selector("#missing"), noop)
		require.NoError(t, err)
		assert.Equal(t, NoID, id)
		assert.Zero(t, r.Len())
	})

	t.Run("nil listener", func(t *testing.T) {
		binder := &recordBinder{}
		r := New(binder)
		id, err := r.Register("click", dom.Selector("#save"), nil)
		assert.ErrorIs(t, err, ErrInvalidListener)
		assert.Equal(t, NoID, id)
		assert.Zero(t, r.Len())
		assert.Empty(t, binder.calls)

		_, err = r.RegisterOnce("click", dom.Selector("#save"), nil)
		assert.ErrorIs(t, err, ErrInvalidListener)
		assert.Empty(t, binder.calls)
	})

	t.Run("removes before binding", func(t *testing.T) {
		doc, err := dom.ParseString(page)
		require.NoError(t, err)
		binder := &recordBinder{Document: doc}
		r := New(binder)

		_, err = r.Register("click", dom.Selector("#save"), noop)
		require.NoError(t, err)
		_, err = r.RegisterOnce("focus", dom.Selector("#save"), noop)
		require.NoError(t, err)
		assert.Equal(t, []string{"select", "off", "on", "select", "off", "one"}, binder.calls)
	})
}

func TestTrigger(t *testing.T) {
	t.Parallel()

	t.Run("listener arguments", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		type receiver struct{ name string }
		this := &receiver{"menu"}

		var targets []string
		id, err := r.Register("click", dom.Selector(".entry"), func(self any, e dom.Event, args ...any) error {
			assert.Same(t, this, self)
			assert.Equal(t, []any{"x", 2}, args)
			assert.Equal(t, "click", e.Type())
			targets = append(targets, e.Target().(*dom.Element).Text())
			return nil
		}, WithArgs("x", 2), WithContext(this))
		require.NoError(t, err)

		r.Trigger(id)
		assert.Equal(t, []string{"a", "b"}, targets)

		r.Trigger(id + 100)
		assert.Len(t, targets, 2)
	})

	t.Run("default receiver", func(t *testing.T) {
		r, doc := newTestRegistry(t)
		var got any
		id, err := r.Register("click", dom.Selector("#save"), func(self any, _ dom.Event, args ...any) error {
			got = self
			assert.Empty(t, args)
			return nil
		})
		require.NoError(t, err)

		r.Trigger(id)
		assert.Same(t, doc, got)
	})

	t.Run("multiple names", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		var types []string
		id, err := r.Register("mouseenter,mouseleave", dom.Selector("#save"), func(_ any, e dom.Event, _ ...any) error {
			types = append(types, e.Type())
			return nil
		})
		require.NoError(t, err)

		r.Trigger(id)
		assert.Equal(t, []string{"mouseenter", "mouseleave"}, types)
	})

	t.Run("listener error", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		count := 0
		id, err := r.Register("click", dom.Selector(".entry"), func(any, dom.Event, ...any) error {
			count++
			return errors.New("failed")
		})
		require.NoError(t, err)

		r.Trigger(id)
		assert.Equal(t, 2, count)
	})
}

func TestRegisterOnce(t *testing.T) {
	t.Parallel()
	r, doc := newTestRegistry(t)
	save := doc.Select(dom.Selector("#save"))[0]

	count := 0
	id, err := r.RegisterOnce("click", dom.Elements(save), func(any, dom.Event, ...any) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, SingleFire, r.Events()[id].Mode)

	save.DispatchEvent(dom.NewEvent("click", dom.EventInit{Bubbles: true, Cancelable: true}))
	save.DispatchEvent(dom.NewEvent("click", dom.EventInit{Bubbles: true, Cancelable: true}))
	assert.Equal(t, 1, count)

	// the registration outlives the native auto removal
	assert.Contains(t, r.Events(), id)
	r.Trigger(id)
	assert.Equal(t, 1, count)

	assert.NotPanics(t, func() { r.Unregister(id) })
	assert.NotContains(t, r.Events(), id)
}

func TestUnregister(t *testing.T) {
	t.Parallel()

	t.Run("removes listener", func(t *testing.T) {
		r, doc := newTestRegistry(t)
		count := 0
		id, err := r.Register("click", dom.Selector(".entry"), func(any, dom.Event, ...any) error {
			count++
			return nil
		})
		require.NoError(t, err)

		r.Unregister(id)
		assert.NotContains(t, r.Events(), id)

		for _, el := range doc.Select(dom.Selector(".entry")) {
			assert.Empty(t, el.Listeners("click"))
			el.DispatchEvent(dom.NewEvent("click"))
		}
		r.Trigger(id)
		assert.Zero(t, count)

		assert.NotPanics(t, func() { r.Unregister(id) })
		assert.Zero(t, r.Len())
	})

	t.Run("keeps other registrations", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		first, err := r.Register("click", dom.Selector("#save"), noop)
		require.NoError(t, err)
		second, err := r.Register("click", dom.Selector("#save"), noop)
		require.NoError(t, err)

		r.Unregister(first)
		_, ok := r.Get(second)
		assert.True(t, ok)
		_, ok = r.Get(first)
		assert.False(t, ok)
	})

	t.Run("unknown id", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		assert.NotPanics(t, func() {
			r.Unregister(12345)
			r.Trigger(12345)
			r.Unregister(NoID)
		})
	})

	t.Run("from listener", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		var id ID
		count := 0
		id, err := r.Register("click", dom.Selector("#save"), func(any, dom.Event, ...any) error {
			count++
			r.Unregister(id)
			return nil
		})
		require.NoError(t, err)

		r.Trigger(id)
		r.Trigger(id)
		assert.Equal(t, 1, count)
		assert.Zero(t, r.Len())
	})
}

func TestPreventDefault(t *testing.T) {
	t.Parallel()

	var followed []string
	r, doc := newTestRegistry(t, dom.WithDefaultAction("click", func(el *dom.Element, _ dom.Event) {
		href, _ := el.Attr("href")
		followed = append(followed, href)
	}))
	entry := doc.Select(dom.Selector(".entry"))[:1]

	prevented, err := r.Register("click", dom.Elements(entry...), noop)
	require.NoError(t, err)

	r.Trigger(prevented)
	assert.Empty(t, followed)

	e := dom.NewEvent("click", dom.EventInit{Bubbles: true, Cancelable: true})
	assert.False(t, doc.Dispatch(entry[0], e))
	assert.True(t, e.DefaultPrevented())

	r.Unregister(prevented)
	allowed, err := r.Register("click", dom.Elements(entry...), noop, WithPreventDefault(false))
	require.NoError(t, err)

	r.Trigger(allowed)
	assert.Equal(t, []string{"/a"}, followed)

	e = dom.NewEvent("click", dom.EventInit{Bubbles: true, Cancelable: true})
	assert.True(t, doc.Dispatch(entry[0], e))
	assert.False(t, e.DefaultPrevented())
	assert.Equal(t, []string{"/a", "/a"}, followed)
}

// recordBinder records the binder calls.
type recordBinder struct {
	*dom.Document
	calls []string
}

func (b *recordBinder) Select(ref dom.Ref) []*dom.Element {
	b.calls = append(b.calls, "select")
	if b.Document == nil {
		return nil
	}
	return b.Document.Select(ref)
}

func (b *recordBinder) On(elements []*dom.Element, names string, listener dom.EventListener) {
	b.calls = append(b.calls, "on")
	b.Document.On(elements, names, listener)
}

func (b *recordBinder) One(elements []*dom.Element, names string, listener dom.EventListener) {
	b.calls = append(b.calls, "one")
	b.Document.One(elements, names, listener)
}

func (b *recordBinder) Off(elements []*dom.Element, names string, listener dom.EventListener) {
	b.calls = append(b.calls, "off")
	b.Document.Off(elements, names, listener)
}

func TestSnapshot(t *testing.T) {
	t.Parallel()
	r, _ := newTestRegistry(t)
	first, err := r.Register("click", dom.Selector(".entry"), noop)
	require.NoError(t, err)
	second, err := r.RegisterOnce("keyup", dom.Selector("#save"), noop)
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{ID: first, Names: "click", Elements: []string{"a.entry", "a.entry"}},
		{ID: second, Names: "keyup", Once: true, Elements: []string{"button#save"}},
	}, r.Snapshot())

	assert.Equal(t, map[string]any{
		"id":       int64(second),
		"names":    "keyup",
		"once":     true,
		"elements": []any{"button#save"},
	}, r.Snapshot()[1].Map())
}
