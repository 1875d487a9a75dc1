package lang

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"regexp"
	"strings"

	"github.com/klauspost/readahead"
)

// Line grammar.
var (
	constantPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s+is\s+(.+);$`)
	reportPattern   = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\s+(.+)\}$`)
	entryPattern    = regexp.MustCompile(`^([A-Z][A-Z0-9]*)\s*:=\s*(.+);$`)
	nestedPattern   = regexp.MustCompile(`^([A-Z][A-Z0-9]*)\s*:=\s*@\{$`)
	namePattern     = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)
	integerPattern  = regexp.MustCompile(`^[0-9]+$`)
	stringPattern   = regexp.MustCompile(`^'([^']*)'$`)
)

const (
	keywordBegin = "begin"
	keywordEnd   = "end"
	terminator   = ";"
)

// Result is the outcome of a successful parse.
type Result struct {
	// Document holds the parsed dictionaries.
	Document *Document
	// Reports holds one "<name> = <value>" line per constant report
	// directive, in the order the directives were encountered.
	Reports []string
}

// ParseReader reads all of r and parses it.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Result, error) {
	// Pre-fetch input while earlier chunks are being copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString parses configuration text.
//
// Parsing stops at the first error, which is always an [*Error] derived from
// one of the package sentinels.
func ParseString(ctx context.Context, s string, opts ...Option) (*Result, error) {
	p := &parser{
		ctx:  ctx,
		opts: makeOptions(opts...),
	}

	lines := splitLines(s)

	p.opts.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(s)),
		slog.Int("line_count", len(lines)),
	)

	doc, err := p.parseScope(lines, 0)
	if err != nil {
		return nil, err
	}

	p.opts.logger.TraceContext(ctx, "parse complete",
		slog.Int("dictionary_count", doc.Len()),
		slog.Int("report_count", len(p.reports)),
	)

	return &Result{Document: doc, Reports: p.reports}, nil
}

// Parse parses configuration text and returns only the document.
func Parse(ctx context.Context, s string, opts ...Option) (*Document, error) {
	res, err := ParseString(ctx, s, opts...)
	if err != nil {
		return nil, err
	}

	return res.Document, nil
}

// sourceLine is one raw input line and its 1-based position in the full
// input. Nested bodies keep the positions of the lines they were cut from.
type sourceLine struct {
	num int
	raw string
}

func splitLines(s string) []sourceLine {
	raw := strings.Split(s, "\n")
	lines := make([]sourceLine, len(raw))

	for i, r := range raw {
		lines[i] = sourceLine{num: i + 1, raw: strings.TrimSuffix(r, "\r")}
	}

	return lines
}

// parser holds state shared by every scope of one parse call.
type parser struct {
	ctx     context.Context
	opts    options
	reports []string
}

// scope is the state of one top-level parse or one nested dictionary body.
type scope struct {
	constants map[string]string
	doc       *Document
	dict      *Dictionary // pending dictionary, nil if none
	open      bool        // whether "begin" was seen for dict
	depth     int
}

func (p *parser) parseScope(lines []sourceLine, depth int) (*Document, error) {
	s := &scope{
		constants: make(map[string]string),
		doc:       NewDocument(),
		depth:     depth,
	}

	for i := 0; i < len(lines); i++ {
		ln := lines[i]

		text := p.clean(ln.raw)
		if text == "" {
			continue
		}

		if m := constantPattern.FindStringSubmatch(text); m != nil {
			s.constants[m[1]] = strings.TrimSpace(m[2])

			continue
		}

		if m := reportPattern.FindStringSubmatch(text); m != nil {
			value, ok := s.constants[m[1]]
			if !ok {
				return nil, ErrUndefinedConstant.at(ln).named(m[1])
			}

			p.report(m[1], value, ln)

			continue
		}

		switch text {
		case keywordBegin:
			if s.dict == nil || s.open {
				return nil, ErrMissingDictionaryName.at(ln)
			}

			s.open = true

			continue

		case keywordEnd:
			if !s.open {
				return nil, ErrUnexpectedClose.at(ln)
			}

			p.commit(s)

			continue
		}

		if s.open {
			last, err := p.parseEntry(s, lines, i, text)
			if err != nil {
				return nil, err
			}

			i = last

			continue
		}

		if s.dict == nil && namePattern.MatchString(text) {
			s.dict = NewDictionary(text)

			continue
		}

		return nil, ErrUnknownSyntax.at(ln)
	}

	// A dictionary left without "end" is kept as is.
	if s.dict != nil {
		p.opts.logger.TraceContext(p.ctx, "dictionary auto-closed",
			slog.String("name", s.dict.Name),
			slog.Int("depth", s.depth),
		)
		p.commit(s)
	}

	return s.doc, nil
}

// parseEntry parses the entry at lines[i] into the open dictionary and returns
// the index of the last line it consumed.
func (p *parser) parseEntry(
	s *scope,
	lines []sourceLine,
	i int,
	text string,
) (int, error) {
	ln := lines[i]

	if strings.HasSuffix(text, terminator) {
		m := entryPattern.FindStringSubmatch(text)
		if m == nil {
			return i, ErrInvalidEntrySyntax.at(ln)
		}

		literal := strings.TrimSpace(m[2])

		value, ok := parseLiteral(literal)
		if !ok {
			return i, ErrInvalidValueLiteral.at(ln).named(literal)
		}

		s.dict.Set(m[1], value)

		return i, nil
	}

	m := nestedPattern.FindStringSubmatch(text)
	if m == nil {
		return i, ErrInvalidEntrySyntax.at(ln)
	}

	if s.depth+1 > p.opts.maxDepth {
		return i, ErrStackLimit.at(ln).With(slog.Int("max_depth", p.opts.maxDepth))
	}

	body, last, err := p.collectNested(lines, i)
	if err != nil {
		return i, err
	}

	p.opts.logger.TraceContext(p.ctx, "nested parse",
		slog.String("key", m[1]),
		slog.Int("line", ln.num),
		slog.Int("depth", s.depth+1),
		slog.Int("body_lines", len(body)),
	)

	nested, err := p.parseScope(body, s.depth+1)
	if err != nil {
		return i, err
	}

	s.dict.Set(m[1], NewNested(nested))

	return last, nil
}

// collectNested gathers the body of the nested dictionary opened at
// lines[open]. It returns the body lines and the index of the terminator line.
//
// Depth starts at 1, rises with every "begin" and falls with every "end". The
// "end" returning it to 0 closes the body. [WithNestedOpeners] also counts
// nested openers as "begin".
func (p *parser) collectNested(
	lines []sourceLine,
	open int,
) ([]sourceLine, int, error) {
	var body []sourceLine

	depth := 1

	for j := open + 1; j < len(lines); j++ {
		text := p.clean(lines[j].raw)

		switch {
		case text == "":
			continue

		case text == keywordBegin,
			p.opts.nestedOpeners && nestedPattern.MatchString(text):
			depth++

		case text == keywordEnd:
			depth--
			if depth > 0 {
				break
			}

			if j+1 >= len(lines) {
				return nil, j, ErrMissingNestedTerminator.at(lines[j]).
					With(slog.Bool("end_of_input", true))
			}

			if p.clean(lines[j+1].raw) != terminator {
				return nil, j, ErrMissingNestedTerminator.at(lines[j])
			}

			return body, j + 1, nil
		}

		body = append(body, lines[j])
	}

	return nil, len(lines) - 1, ErrMissingNestedTerminator.at(lines[open]).
		With(slog.Bool("end_of_input", true))
}

// commit moves the pending dictionary into the scope's document.
func (p *parser) commit(s *scope) {
	s.doc.Define(s.dict)

	p.opts.logger.TraceContext(p.ctx, "dictionary committed",
		slog.String("name", s.dict.Name),
		slog.Int("entry_count", s.dict.Len()),
		slog.Int("depth", s.depth),
	)

	s.dict = nil
	s.open = false
}

func (p *parser) report(name, value string, ln sourceLine) {
	p.reports = append(p.reports, name+" = "+value)

	p.opts.logger.TraceContext(p.ctx, "constant report",
		slog.String("name", name),
		slog.String("value", value),
		slog.Int("line", ln.num),
	)
}

// clean removes a trailing comment and surrounding whitespace.
func (p *parser) clean(raw string) string {
	if i := p.opts.commentStart(raw); i >= 0 {
		raw = raw[:i]
	}

	return strings.TrimSpace(raw)
}

// parseLiteral converts an entry value. Integers are unbounded.
func parseLiteral(s string) (*Value, bool) {
	if integerPattern.MatchString(s) {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, false
		}

		return NewInteger(n), true
	}

	if m := stringPattern.FindStringSubmatch(s); m != nil {
		return NewString(m[1]), true
	}

	return nil, false
}
