package dom

import "context"

type documentKey struct{}

// NewContext returns a context that contains the given Document.
func NewContext(ctx context.Context, doc *Document) context.Context {
	return context.WithValue(ctx, documentKey{}, doc)
}

// FromContext returns the Document stored in ctx by NewContext.
func FromContext(ctx context.Context) (*Document, bool) {
	doc, ok := ctx.Value(documentKey{}).(*Document)
	return doc, ok
}
