package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes doc in native syntax. Parsing the output with the same opts
// yields an equivalent document.
//
// Content the syntax cannot carry under opts is refused with
// [ErrUnrepresentable] and nothing is written: a line containing the comment
// marker, or a nested body whose shape "begin"/"end" counting cannot close.
// Strings containing a quote or a line break fail with [ErrInvalidValueLiteral].
func (doc *Document) Format(
	_ context.Context,
	w io.Writer,
	indent int,
	opts ...Option,
) error {
	f := formatter{indent: indent, opts: makeOptions(opts...)}

	if err := f.document(doc, 0, false); err != nil {
		return err
	}

	_, err := f.buf.WriteTo(w)

	return err
}

type formatter struct {
	buf    bytes.Buffer
	indent int
	opts   options
}

// line writes one line of output at the given depth.
func (f *formatter) line(depth int, text string) error {
	if f.opts.commentStart(text) >= 0 {
		return ErrUnrepresentable.named(text).
			With(slog.String("comment", f.opts.marker))
	}

	f.buf.WriteString(strings.Repeat(" ", depth*f.indent))
	f.buf.WriteString(text)
	f.buf.WriteByte('\n')

	return nil
}

// document writes every dictionary of doc. Top-level dictionaries are
// separated by a blank line.
//
// Unless nested openers are counted, a nested body is collected by counting
// "begin" and "end" alone, and each nested entry inside it brings one "end"
// with no matching "begin". Only the last dictionary of such a body may hold a
// nested entry, at most one, and its own "end" is then left out so that the
// parser closes it at the end of the body.
func (f *formatter) document(doc *Document, depth int, nested bool) error {
	for i, d := range doc.dicts {
		if i > 0 && !nested {
			f.buf.WriteByte('\n')
		}

		closed := true

		if nested && !f.opts.nestedOpeners {
			switch n := countNested(d); {
			case n == 0:
			case n == 1 && i == len(doc.dicts)-1:
				closed = false
			default:
				return ErrUnrepresentable.named(d.Name).
					With(slog.Int("nested_entries", n))
			}
		}

		if err := f.dictionary(d, depth, closed); err != nil {
			return err
		}
	}

	return nil
}

// dictionary writes a dictionary declaration and its body.
func (f *formatter) dictionary(d *Dictionary, depth int, closed bool) error {
	if err := f.line(depth, d.Name); err != nil {
		return err
	}

	if err := f.line(depth, keywordBegin); err != nil {
		return err
	}

	for key, value := range d.All() {
		if err := f.entry(key, value, depth+1); err != nil {
			return err
		}
	}

	if !closed {
		return nil
	}

	return f.line(depth, keywordEnd)
}

// entry writes a single entry, recursing into nested documents.
func (f *formatter) entry(key string, v *Value, depth int) error {
	switch v.Type {
	case TypeInteger:
		return f.line(depth, key+" := "+v.Text()+terminator)

	case TypeString:
		if strings.ContainsAny(v.Str, "'\r\n") {
			return ErrInvalidValueLiteral.named(v.Str).
				With(slog.String("key", key))
		}

		return f.line(depth, key+" := '"+v.Str+"'"+terminator)

	case TypeDictionary:
		if err := f.line(depth, key+" := @{"); err != nil {
			return err
		}

		if v.Dict != nil {
			if err := f.document(v.Dict, depth+1, true); err != nil {
				return err
			}
		}

		if err := f.line(depth, keywordEnd); err != nil {
			return err
		}

		return f.line(depth, terminator)

	default:
		return ErrInvalidValueLiteral.With(slog.String("key", key))
	}
}

// countNested returns the number of nested entries in d.
func countNested(d *Dictionary) int {
	n := 0

	for _, v := range d.All() {
		if v.Type == TypeDictionary {
			n++
		}
	}

	return n
}

// MarshalJSON encodes the document as a JSON object, preserving order.
func (doc *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, d := range doc.dicts {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := writeJSONMember(&buf, d.Name, d); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON encodes the dictionary entries as a JSON object, preserving
// order.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, e := range d.entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := writeJSONMember(&buf, e.Key, e.Value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON encodes integers as JSON numbers of arbitrary size.
func (v *Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case TypeInteger:
		return []byte(v.Text()), nil

	case TypeString:
		return json.Marshal(v.Str)

	case TypeDictionary:
		if v.Dict == nil {
			return []byte("{}"), nil
		}

		return v.Dict.MarshalJSON()

	default:
		return []byte("null"), nil
	}
}

func writeJSONMember(buf *bytes.Buffer, key string, value json.Marshaler) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}

	v, err := value.MarshalJSON()
	if err != nil {
		return err
	}

	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)

	return nil
}

// FormatJSON writes the document as JSON to the writer.
func (doc *Document) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return ErrMarshal.Wrap(err).With(slog.String("format", "json"))
	}

	if indent > 0 {
		var out bytes.Buffer

		err = json.Indent(&out, data, "", strings.Repeat(" ", indent))
		if err != nil {
			return ErrMarshal.Wrap(err).With(slog.String("format", "json"))
		}

		data = out.Bytes()
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the document as YAML to the writer.
func (doc *Document) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, doc.toMapSlice(), opts...)
	if err != nil {
		return ErrMarshal.Wrap(err).With(slog.String("format", "yaml"))
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// toMapSlice converts the document to an ordered YAML mapping.
func (doc *Document) toMapSlice() yaml.MapSlice {
	out := make(yaml.MapSlice, 0, len(doc.dicts))

	for _, d := range doc.dicts {
		entries := make(yaml.MapSlice, 0, len(d.entries))

		for _, e := range d.entries {
			entries = append(entries, yaml.MapItem{Key: e.Key, Value: e.Value.yamlValue()})
		}

		out = append(out, yaml.MapItem{Key: d.Name, Value: entries})
	}

	return out
}

// yamlValue returns v in a form the YAML encoder understands. Integers beyond
// 64 bits are emitted as strings.
func (v *Value) yamlValue() any {
	switch v.Type {
	case TypeInteger:
		switch {
		case v.Int == nil:
			return 0
		case v.Int.IsInt64():
			return v.Int.Int64()
		case v.Int.IsUint64():
			return v.Int.Uint64()
		default:
			return v.Int.String()
		}

	case TypeString:
		return v.Str

	case TypeDictionary:
		if v.Dict == nil {
			return yaml.MapSlice{}
		}

		return v.Dict.toMapSlice()

	default:
		return nil
	}
}
