package dom

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultAction the behavior a document performs after an event of a
// type was dispatched to an element, unless a listener prevented it.
type DefaultAction func(el *Element, e Event)

// Option the Document option.
type Option func(*Document)

// WithLogger set the Document logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) { d.logger = logger }
}

// WithDefaultAction registers the default action of an event type.
func WithDefaultAction(typ string, action DefaultAction) Option {
	return func(d *Document) { d.defaults[typ] = action }
}

// Document is a parsed HTML document whose elements are event targets.
// Events dispatched to an element propagate through its ancestors up to the document.
type Document struct {
	*_eventTarget
	node     *html.Node
	root     *goquery.Selection
	logger   *slog.Logger
	mu       sync.Mutex
	elements map[*html.Node]*Element
	defaults map[string]DefaultAction
}

// NewDocument parses the HTML from the reader.
func NewDocument(r io.Reader, opts ...Option) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return newDocument(doc, opts), nil
}

// ParseString parses the HTML string.
func ParseString(str string, opts ...Option) (*Document, error) {
	return NewDocument(strings.NewReader(str), opts...)
}

// NewDocumentFromNode creates a Document from the html root node.
func NewDocumentFromNode(node *html.Node, opts ...Option) *Document {
	return newDocument(goquery.NewDocumentFromNode(node), opts)
}

func newDocument(doc *goquery.Document, opts []Option) *Document {
	d := &Document{
		node:     doc.Get(0),
		root:     doc.Selection,
		elements: make(map[*html.Node]*Element),
		defaults: make(map[string]DefaultAction),
	}
	d._eventTarget = newEventTarget(d)
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Node returns the document root node.
func (d *Document) Node() *html.Node { return d.node }

// Selection returns the goquery.Selection of the document root.
func (d *Document) Selection() *goquery.Selection { return d.root }

// SetDefaultAction registers the default action of an event type,
// a nil action removes it.
func (d *Document) SetDefaultAction(typ string, action DefaultAction) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if action == nil {
		delete(d.defaults, typ)
		return
	}
	d.defaults[typ] = action
}

// Select resolves the ref to the elements of the document, in document order
// for selectors and in the given order otherwise. Nodes not belonging to the
// document and non-element nodes are skipped.
func (d *Document) Select(ref Ref) []*Element {
	if ref == nil {
		return nil
	}
	nodes := ref.nodes(d)
	elements := make([]*Element, 0, len(nodes))
	seen := make(map[*html.Node]struct{}, len(nodes))
	for _, n := range nodes {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		if n == nil || n.Type != html.ElementNode || !d.contains(n) {
			continue
		}
		elements = append(elements, d.Element(n))
	}
	return elements
}

// Element returns the element of the html node, nil if the node is not an element.
func (d *Document) Element(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	d.mu.Lock()
	el, ok := d.elements[n]
	d.mu.Unlock()
	if ok {
		return el
	}

	var parent EventTarget = d
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			parent = d.Element(p)
			break
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok = d.elements[n]; ok {
		return el
	}
	el = &Element{node: n, doc: d}
	el._eventTarget = newEventTarget(el)
	el.parentTarget = parent
	d.elements[n] = el
	return el
}

func (d *Document) contains(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == d.node {
			return true
		}
	}
	return false
}

// Dispatch dispatches the event to the element and performs the default
// action of the event type if no listener prevented it.
// Returns false if the default was prevented.
func (d *Document) Dispatch(el *Element, e Event) bool {
	if !el.DispatchEvent(e) {
		return false
	}
	d.mu.Lock()
	action, ok := d.defaults[e.Type()]
	d.mu.Unlock()
	if ok {
		action(el, e)
	}
	return true
}

// On adds the listener for every event type of names to every element.
func (d *Document) On(elements []*Element, names string, listener EventListener) {
	types := SplitNames(names)
	for _, el := range elements {
		for _, typ := range types {
			el.AddEventListener(typ, listener)
		}
	}
}

// One adds the listener like On, but every element removes it after its
// first invocation for an event type.
func (d *Document) One(elements []*Element, names string, listener EventListener) {
	d.On(elements, names, &onceListener{listener})
}

// Off removes the listener added by On or One.
func (d *Document) Off(elements []*Element, names string, listener EventListener) {
	types := SplitNames(names)
	for _, el := range elements {
		for _, typ := range types {
			el.RemoveEventListener(typ, listener)
		}
	}
}

// Trigger dispatches a bubbling, cancelable event for every event type of
// names to every element, performing the default actions.
func (d *Document) Trigger(elements []*Element, names string) {
	types := SplitNames(names)
	for _, el := range elements {
		for _, typ := range types {
			d.Dispatch(el, NewEvent(typ, EventInit{Bubbles: true, Cancelable: true}))
		}
	}
}

// Global returns the document, the receiver listeners run with
// when none is specified.
func (d *Document) Global() any { return d }

type onceListener struct {
	EventListener
}

func (o *onceListener) Options() AddEventListenerOptions {
	opts := o.EventListener.Options()
	opts.Once = true
	return opts
}

func (o *onceListener) Equals(e EventListener) bool {
	if other, ok := e.(*onceListener); ok {
		e = other.EventListener
	}
	return o.EventListener.Equals(e)
}
