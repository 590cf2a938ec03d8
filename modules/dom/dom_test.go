package dom

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	domevent "github.com/shiroyk/domevent/dom"
	"github.com/shiroyk/domevent/js"
	"github.com/shiroyk/domevent/js/modulestest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div id="list">
	<span class="item" data-n="1">one</span>
	<span class="item" data-n="2">two</span>
</div>
</body></html>`

func TestDocument(t *testing.T) {
	t.Parallel()
	doc, err := domevent.ParseString(page)
	require.NoError(t, err)
	vm := modulestest.New(t, domevent.NewContext(context.Background(), doc))
	ctx := context.Background()

	t.Run("querySelector", func(t *testing.T) {
		_, err := vm.RunString(ctx, `
			const list = document.querySelector("#list");
			assert.equal(list.tagName, "DIV");
			assert.equal(list.id, "list");
			assert.true(list === document.querySelector("div"));
			assert.equal(document.querySelector("#missing"), null);
		`)
		assert.NoError(t, err)
	})

	t.Run("querySelectorAll", func(t *testing.T) {
		_, err := vm.RunString(ctx, `{
			const items = document.querySelectorAll(".item");
			assert.equal(items.length, 2);
			assert.equal(items[1].textContent, "two");
			assert.equal(items[0].getAttribute("data-n"), "1");
			assert.equal(items[0].getAttribute("missing"), null);
			assert.equal(document.xpath("//span[@data-n='2']")[0].textContent, "two");
			assert.equal(String(items[0]), "span.item");
		}`)
		assert.NoError(t, err)
	})

	t.Run("event", func(t *testing.T) {
		_, err := vm.RunString(ctx, `{
			const event = new Event("click", { bubbles: true, cancelable: true });
			assert.equal(event.type, "click");
			assert.true(event.bubbles);
			assert.true(event.cancelable);
			assert.true(!event.defaultPrevented);
			assert.equal(event.eventPhase, Event.NONE);
			assert.equal(event.target, null);
			event.preventDefault();
			assert.true(event.defaultPrevented);
		}`)
		assert.NoError(t, err)
	})

	t.Run("dispatchEvent", func(t *testing.T) {
		item := doc.Select(domevent.Selector(".item"))[0]
		var phases []domevent.EventPhase
		item.AddEventListener("ping", domevent.NewEventListener(func(e domevent.Event) error {
			phases = append(phases, e.EventPhase())
			e.PreventDefault()
			return nil
		}, domevent.AddEventListenerOptions{}))

		v, err := vm.RunString(ctx, `{
			const item = document.querySelector(".item");
			const event = new Event("ping", { cancelable: true });
			const ok = item.dispatchEvent(event);
			assert.true(event.target === item);
			ok;
		}`)
		require.NoError(t, err)
		assert.Equal(t, false, v.Export())
		assert.Equal(t, []domevent.EventPhase{domevent.EventPhaseAtTarget}, phases)
	})

	t.Run("invalid this", func(t *testing.T) {
		_, err := vm.RunString(ctx, `Object.getOwnPropertyDescriptor(Event.prototype, "type").get.call({})`)
		assert.ErrorContains(t, err, "TypeError")
	})
}

func TestWithoutDocument(t *testing.T) {
	t.Parallel()
	vm := modulestest.New(t, context.Background())
	v, err := vm.RunString(context.Background(), `typeof document`)
	require.NoError(t, err)
	assert.Equal(t, "undefined", v.String())
}

func TestConsole(t *testing.T) {
	t.Parallel()
	doc, err := domevent.ParseString(page)
	require.NoError(t, err)
	buf := new(bytes.Buffer)
	ctx := js.WithLogger(domevent.NewContext(context.Background(), doc), slog.New(slog.NewTextHandler(buf, nil)))
	vm := modulestest.New(t, ctx)

	_, err = vm.RunString(context.Background(), `
		const item = document.querySelector(".item");
		console.log("item", item);
		const event = new Event("ping");
		item.dispatchEvent(event);
		console.log(event);
		console.log("%s %o", new Event("load"), document.querySelectorAll("span")[1]);
	`)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "item span.item")
	assert.Contains(t, out, "Event(ping, span.item)")
	assert.Contains(t, out, "Event(load) span.item")
}
