package dom

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Ref identifies the elements of a Document an operation applies to.
// It is resolved once by Document.Select.
type Ref interface {
	nodes(doc *Document) []*html.Node
}

// Selector matches elements with a CSS selector.
type Selector string

func (s Selector) nodes(doc *Document) []*html.Node {
	sel, err := cascadia.Compile(string(s))
	if err != nil {
		doc.logger.Debug("invalid selector", "selector", string(s), "error", err)
		return nil
	}
	return doc.root.FindMatcher(sel).Nodes
}

// XPath matches elements with an XPath expression.
type XPath string

func (x XPath) nodes(doc *Document) []*html.Node {
	expr, err := xpath.Compile(string(x))
	if err != nil {
		doc.logger.Debug("invalid xpath", "xpath", string(x), "error", err)
		return nil
	}
	return htmlquery.QuerySelectorAll(doc.node, expr)
}

type nodesRef []*html.Node

func (n nodesRef) nodes(*Document) []*html.Node { return n }

// Nodes refers to the given html nodes.
func Nodes(nodes ...*html.Node) Ref { return nodesRef(nodes) }

type selectionRef struct{ sel *goquery.Selection }

func (s selectionRef) nodes(*Document) []*html.Node {
	if s.sel == nil {
		return nil
	}
	return s.sel.Nodes
}

// Selection refers to the nodes of a goquery.Selection.
func Selection(sel *goquery.Selection) Ref { return selectionRef{sel} }

type elementsRef []*Element

func (e elementsRef) nodes(*Document) []*html.Node {
	nodes := make([]*html.Node, 0, len(e))
	for _, el := range e {
		if el != nil {
			nodes = append(nodes, el.node)
		}
	}
	return nodes
}

// Elements refers to elements already resolved.
func Elements(elements ...*Element) Ref { return elementsRef(elements) }
