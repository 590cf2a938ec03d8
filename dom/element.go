package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Element an HTML element of a Document.
type Element struct {
	*_eventTarget
	node *html.Node
	doc  *Document
}

// Node returns the html node.
func (e *Element) Node() *html.Node { return e.node }

// Document returns the owner document.
func (e *Element) Document() *Document { return e.doc }

// TagName returns the upper-cased tag name.
func (e *Element) TagName() string { return strings.ToUpper(e.node.Data) }

// ID returns the id attribute.
func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

// Attr returns the attribute value and whether it exists.
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Selection returns the goquery.Selection of the element.
func (e *Element) Selection() *goquery.Selection {
	return e.doc.root.FindNodes(e.node)
}

// Text returns the combined text contents of the element and its descendants.
func (e *Element) Text() string { return e.Selection().Text() }

func (e *Element) String() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(e.node.Data))
	if id := e.ID(); id != "" {
		b.WriteByte('#')
		b.WriteString(id)
	}
	if class, ok := e.Attr("class"); ok {
		for _, c := range strings.Fields(class) {
			b.WriteByte('.')
			b.WriteString(c)
		}
	}
	return b.String()
}
