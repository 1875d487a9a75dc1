package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/beevik/etree"
)

// Markup element and attribute names.
const (
	ElementConfig     = "config"
	ElementDictionary = "dictionary"
	ElementEntry      = "entry"
	AttrName          = "name"
)

// DefaultIndent is the number of spaces used to indent XML output.
const DefaultIndent = 4

// Serialize converts doc to an XML element tree rooted at a "config" element.
//
// Each dictionary becomes a "dictionary" element and each entry an "entry"
// element, both carrying a "name" attribute. Scalar entries hold their value
// as text; a nested entry holds the serialized nested document instead.
func Serialize(doc *Document) *etree.Element {
	root := etree.NewElement(ElementConfig)

	for dict := range doc.All() {
		de := root.CreateElement(ElementDictionary)
		de.CreateAttr(AttrName, dict.Name)

		for key, value := range dict.All() {
			ee := de.CreateElement(ElementEntry)
			ee.CreateAttr(AttrName, key)

			if value.Type == TypeDictionary {
				if value.Dict != nil {
					ee.AddChild(Serialize(value.Dict))
				}

				continue
			}

			ee.SetText(value.Text())
		}
	}

	return root
}

// Markup returns doc as an XML document with declaration, indented by indent
// spaces. An indent of 0 or less produces compact output.
func (doc *Document) Markup(indent int) *etree.Document {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	out.SetRoot(Serialize(doc))

	if indent > 0 {
		out.Indent(indent)
	}

	return out
}

// WriteXML writes doc as XML to w.
func (doc *Document) WriteXML(
	ctx context.Context,
	w io.Writer,
	indent int,
	opts ...Option,
) error {
	o := makeOptions(opts...)

	n, err := doc.Markup(indent).WriteTo(w)
	if err != nil {
		return ErrMarshal.Wrap(err).With(slog.String("format", "xml"))
	}

	o.logger.TraceContext(ctx, "xml written",
		slog.Int64("bytes", n),
		slog.Int("dictionary_count", doc.Len()),
	)

	return nil
}
