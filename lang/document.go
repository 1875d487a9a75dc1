package lang

import (
	"fmt"
	"iter"
	"log/slog"
	"math/big"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Type indicates the type of value.
type Type int

const (
	// TypeInteger represents a non-negative integer literal.
	TypeInteger Type = iota

	// TypeString represents a single-quoted string literal.
	TypeString

	// TypeDictionary represents a nested document of dictionaries.
	TypeDictionary
)

// String returns a string representation of the value type.
func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "Integer"

	case TypeString:
		return "String"

	case TypeDictionary:
		return "Dictionary"

	default:
		return "Unknown"
	}
}

// Value represents the right-hand side of a dictionary entry.
type Value struct {
	Type Type
	// Exactly one of these is set based on Type
	Int  *big.Int  // TypeInteger
	Str  string    // TypeString
	Dict *Document // TypeDictionary
}

// NewInteger returns an integer value.
func NewInteger(n *big.Int) *Value {
	return &Value{Type: TypeInteger, Int: n}
}

// NewString returns a string value.
func NewString(s string) *Value {
	return &Value{Type: TypeString, Str: s}
}

// NewNested returns a value holding a nested document.
func NewNested(doc *Document) *Value {
	return &Value{Type: TypeDictionary, Dict: doc}
}

// Text returns the textual form of a scalar value: decimal digits for
// integers and the unquoted contents for strings. Nested values have no text.
func (v *Value) Text() string {
	switch v.Type {
	case TypeInteger:
		if v.Int == nil {
			return "0"
		}

		return v.Int.String()

	case TypeString:
		return v.Str

	default:
		return ""
	}
}

// ToNative converts the value to a plain Go value: int for integers that fit,
// *big.Int otherwise, string for strings, and map[string]any for nested
// documents.
func (v *Value) ToNative() any {
	switch v.Type {
	case TypeInteger:
		if v.Int == nil {
			return 0
		}

		if v.Int.IsInt64() {
			return int(v.Int.Int64())
		}

		return new(big.Int).Set(v.Int)

	case TypeString:
		return v.Str

	case TypeDictionary:
		if v.Dict == nil {
			return map[string]any{}
		}

		return v.Dict.ToMap()

	default:
		return nil
	}
}

// Entry is a single key/value pair of a [Dictionary].
type Entry struct {
	Key   string
	Value *Value
}

// Dictionary is a named, ordered set of entries.
type Dictionary struct {
	Name    string
	entries []*Entry
	index   map[string]int
}

// NewDictionary returns an empty dictionary with the given name.
func NewDictionary(name string) *Dictionary {
	return &Dictionary{Name: name, index: make(map[string]int)}
}

// Set assigns value to key. Assigning an existing key replaces its value but
// keeps the key's original position.
func (d *Dictionary) Set(key string, value *Value) {
	if d.index == nil {
		d.index = make(map[string]int)
	}

	if i, ok := d.index[key]; ok {
		d.entries[i].Value = value

		return
	}

	d.index[key] = len(d.entries)
	d.entries = append(d.entries, &Entry{Key: key, Value: value})
}

// Get retrieves the value stored under key.
func (d *Dictionary) Get(key string) (*Value, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}

	return d.entries[i].Value, true
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }

// Keys returns the entry keys in insertion order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		keys = append(keys, e.Key)
	}

	return keys
}

// All returns an iterator over the entries in insertion order.
func (d *Dictionary) All() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		for _, e := range d.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// ToMap converts the dictionary entries to a native map.
func (d *Dictionary) ToMap() map[string]any {
	m := make(map[string]any, len(d.entries))
	for _, e := range d.entries {
		m[e.Key] = e.Value.ToNative()
	}

	return m
}

// Document is the result of parsing: dictionaries in declaration order.
type Document struct {
	dicts []*Dictionary
	index map[string]int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{index: make(map[string]int)}
}

// Define adds dict to the document. Redefining an existing name replaces the
// dictionary but keeps its original position.
func (doc *Document) Define(dict *Dictionary) {
	if doc.index == nil {
		doc.index = make(map[string]int)
	}

	if i, ok := doc.index[dict.Name]; ok {
		doc.dicts[i] = dict

		return
	}

	doc.index[dict.Name] = len(doc.dicts)
	doc.dicts = append(doc.dicts, dict)
}

// Dictionary retrieves a dictionary by name.
// Returns (nil, false) if the dictionary is not found.
func (doc *Document) Dictionary(name string) (*Dictionary, bool) {
	i, ok := doc.index[name]
	if !ok {
		return nil, false
	}

	return doc.dicts[i], true
}

// Len returns the number of dictionaries.
func (doc *Document) Len() int { return len(doc.dicts) }

// Names returns the dictionary names in declaration order.
func (doc *Document) Names() []string {
	names := make([]string, 0, len(doc.dicts))
	for _, d := range doc.dicts {
		names = append(names, d.Name)
	}

	return names
}

// All returns an iterator over all dictionaries in declaration order.
func (doc *Document) All() iter.Seq[*Dictionary] {
	return func(yield func(*Dictionary) bool) {
		for _, d := range doc.dicts {
			if !yield(d) {
				return
			}
		}
	}
}

// ToMap converts the document to a native map keyed by dictionary name.
func (doc *Document) ToMap() map[string]any {
	m := make(map[string]any, len(doc.dicts))
	for _, d := range doc.dicts {
		m[d.Name] = d.ToMap()
	}

	return m
}

// Lookup resolves a dotted path of alternating dictionary names and entry
// keys, such as "SERVER.PORT" or "OUTER.N.INNER.X".
//
// A path ending at a dictionary yields a [TypeDictionary] value holding a
// document with only that dictionary.
func (doc *Document) Lookup(path string) (*Value, error) {
	segments := strings.Split(path, ".")
	cur := doc

	for i := 0; i < len(segments); i += 2 {
		dict, ok := cur.Dictionary(segments[i])
		if !ok {
			return nil, notFound(path, segments[i], cur.Names())
		}

		if i+1 == len(segments) {
			single := NewDocument()
			single.Define(dict)

			return NewNested(single), nil
		}

		value, ok := dict.Get(segments[i+1])
		if !ok {
			return nil, notFound(path, segments[i+1], dict.Keys())
		}

		if i+2 == len(segments) {
			return value, nil
		}

		if value.Type != TypeDictionary {
			return nil, ErrPathNotFound.named(path).With(
				slog.String("segment", segments[i+2]),
				slog.String("type", value.Type.String()),
			)
		}

		cur = value.Dict
	}

	return nil, ErrPathNotFound.named(path)
}

// maxSuggestions limits the number of names offered for a failed lookup.
const maxSuggestions = 3

// Suggest returns up to three names from candidates that fuzzily match word,
// best match first.
func Suggest(word string, candidates []string) []string {
	matches := fuzzy.Find(word, candidates)
	if len(matches) == 0 {
		// No ordered subsequence match, offer names with the same initial.
		upper := strings.ToUpper(word)
		for _, c := range candidates {
			if len(upper) > 0 && strings.HasPrefix(c, upper[:1]) {
				matches = append(matches, fuzzy.Match{Str: c})
			}
		}
	}

	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

func notFound(path, segment string, candidates []string) *Error {
	err := ErrPathNotFound.named(path).With(slog.String("segment", segment))

	hint := Suggest(segment, candidates)
	if len(hint) == 0 {
		return err.Wrap(fmt.Errorf("no such name %q", segment))
	}

	return err.
		With(slog.String("suggest", strings.Join(hint, ", "))).
		Wrap(fmt.Errorf("no such name %q (did you mean %s?)",
			segment, strings.Join(hint, ", ")))
}
