package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/shiroyk/domevent/api"
	"github.com/shiroyk/domevent/dom"
	"github.com/shiroyk/domevent/js"
	"github.com/shiroyk/domevent/registry"
)

const blankPage = "<html><head></head><body></body></html>"

// newSession parses the page and creates the registry and the VM of it.
// An empty path loads a blank page.
func newSession(ctx context.Context, htmlPath string, logger *slog.Logger) (*api.Session, error) {
	opts := []dom.Option{
		dom.WithLogger(logger),
		dom.WithDefaultAction("click", navigate(logger)),
		dom.WithDefaultAction("submit", submit(logger)),
	}

	var (
		doc *dom.Document
		err error
	)
	if htmlPath == "" {
		doc, err = dom.ParseString(blankPage, opts...)
	} else {
		var f *os.File
		f, err = os.Open(htmlPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		doc, err = dom.NewDocument(f, opts...)
	}
	if err != nil {
		return nil, err
	}

	reg := registry.New(doc, registry.WithLogger(logger))
	ctx = js.WithLogger(registry.NewContext(dom.NewContext(ctx, doc), reg), logger)
	vm, err := js.NewVM(ctx)
	if err != nil {
		return nil, err
	}
	return &api.Session{VM: vm, Document: doc, Registry: reg}, nil
}

// navigate logs the link a click would follow.
func navigate(logger *slog.Logger) dom.DefaultAction {
	return func(el *dom.Element, _ dom.Event) {
		if href, ok := el.Selection().Closest("a[href]").Attr("href"); ok {
			logger.Info("navigate", "href", href)
		}
	}
}

// submit logs the form a submit would send.
func submit(logger *slog.Logger) dom.DefaultAction {
	return func(el *dom.Element, _ dom.Event) {
		if el.TagName() != "FORM" {
			return
		}
		action, _ := el.Attr("action")
		method, ok := el.Attr("method")
		if !ok {
			method = "get"
		}
		logger.Info("submit", "form", el.String(), "method", strings.ToUpper(method), "action", action)
	}
}
