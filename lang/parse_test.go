package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lines joins its arguments with line breaks.
func lines(s ...string) string { return strings.Join(s, "\n") }

func mustParse(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()

	res, err := ParseString(context.Background(), src, opts...)
	require.NoError(t, err)

	return res
}

// parseError parses src, requires it to fail and returns the *Error.
func parseError(t *testing.T, src string, opts ...Option) *Error {
	t.Helper()

	_, err := ParseString(context.Background(), src, opts...)
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)

	return perr
}

func TestParse_Dictionary(t *testing.T) {
	res := mustParse(t, lines(
		"FOO",
		"begin",
		"A := 1;",
		"B := 'x';",
		"end",
	))

	require.Equal(t, []string{"FOO"}, res.Document.Names())
	assert.Empty(t, res.Reports)

	foo, ok := res.Document.Dictionary("FOO")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, foo.Keys())

	a, _ := foo.Get("A")
	assert.Equal(t, TypeInteger, a.Type)
	assert.Equal(t, "1", a.Int.String())

	b, _ := foo.Get("B")
	assert.Equal(t, TypeString, b.Type)
	assert.Equal(t, "x", b.Str)
}

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		literal string
		typ     Type
		text    string
	}{
		{"42", TypeInteger, "42"},
		{"007", TypeInteger, "7"},
		{"123456789012345678901234567890", TypeInteger, "123456789012345678901234567890"},
		{"'hello'", TypeString, "hello"},
		{"''", TypeString, ""},
		{"'a-b c;d := @{'", TypeString, "a-b c;d := @{"},
		{"'  padded  '", TypeString, "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			res := mustParse(t, lines("D", "begin", "K := "+tt.literal+";", "end"))

			dict, _ := res.Document.Dictionary("D")
			v, ok := dict.Get("K")
			require.True(t, ok)

			assert.Equal(t, tt.typ, v.Type)
			assert.Equal(t, tt.text, v.Text())
		})
	}
}

func TestParse_InvalidLiteral(t *testing.T) {
	for _, literal := range []string{"abc", "-1", "1.5", "'it's'", "\"x\"", "'open"} {
		t.Run(literal, func(t *testing.T) {
			err := parseError(t, lines("D", "begin", "K := "+literal+";", "end"))

			assert.ErrorIs(t, err, ErrInvalidValueLiteral)
			assert.Equal(t, 3, err.Line())
			assert.Equal(t, literal, err.Name())
		})
	}
}

func TestParse_Constants(t *testing.T) {
	t.Run("report after declaration", func(t *testing.T) {
		res := mustParse(t, lines("X is 5;", "${X the value}"))

		assert.Equal(t, []string{"X = 5"}, res.Reports)
		assert.Zero(t, res.Document.Len())
	})

	t.Run("report before declaration", func(t *testing.T) {
		err := parseError(t, lines("${X the value}", "X is 5;"))

		assert.ErrorIs(t, err, ErrUndefinedConstant)
		assert.True(t, IsReferenceError(err))
		assert.Equal(t, 1, err.Line())
		assert.Equal(t, "X", err.Name())
	})

	t.Run("raw value text", func(t *testing.T) {
		res := mustParse(t, lines(
			"greeting_1 is 'hello world' ;",
			"${greeting_1 a string}",
			"greeting_1 is 2;",
			"${greeting_1 redeclared}",
		))

		assert.Equal(t, []string{"greeting_1 = 'hello world'", "greeting_1 = 2"}, res.Reports)
	})

	t.Run("inside a body", func(t *testing.T) {
		res := mustParse(t, lines(
			"D",
			"begin",
			"port is 80;",
			"PORT := 80;",
			"${port http}",
			"end",
		))

		assert.Equal(t, []string{"port = 80"}, res.Reports)

		dict, _ := res.Document.Dictionary("D")
		assert.Equal(t, []string{"PORT"}, dict.Keys())
	})
}

func TestParse_ConstantScopes(t *testing.T) {
	t.Run("outer not visible inside", func(t *testing.T) {
		err := parseError(t, lines(
			"x is 1;",
			"OUTER",
			"begin",
			"N := @{",
			"${x inner}",
			"end",
			";",
			"end",
		))

		assert.ErrorIs(t, err, ErrUndefinedConstant)
		assert.Equal(t, 5, err.Line())
	})

	t.Run("inner not visible outside", func(t *testing.T) {
		err := parseError(t, lines(
			"OUTER",
			"begin",
			"N := @{",
			"y is 2;",
			"${y inner}",
			"end",
			";",
			"end",
			"${y outer}",
		))

		assert.ErrorIs(t, err, ErrUndefinedConstant)
		assert.Equal(t, 9, err.Line())
	})
}

func TestParse_ReportOrder(t *testing.T) {
	res := mustParse(t, lines(
		"a is 1;",
		"${a first}",
		"OUTER",
		"begin",
		"N := @{",
		"b is 2;",
		"${b second}",
		"end",
		";",
		"end",
		"${a third}",
	))

	assert.Equal(t, []string{"a = 1", "b = 2", "a = 1"}, res.Reports)
}

const nested = `C outer comment
OUTER
begin
    NAME := 'outer';
    N := @{
        INNER
        begin
            X := 1;
        end
        SIBLING
        begin
            Y := 'two';
        end
    end
    ;
    AFTER := 3;
end
`

func TestParse_Nested(t *testing.T) {
	res := mustParse(t, nested)

	outer, ok := res.Document.Dictionary("OUTER")
	require.True(t, ok)
	assert.Equal(t, []string{"NAME", "N", "AFTER"}, outer.Keys())

	n, _ := outer.Get("N")
	require.Equal(t, TypeDictionary, n.Type)
	assert.Equal(t, []string{"INNER", "SIBLING"}, n.Dict.Names())

	assert.Equal(t, map[string]any{
		"OUTER": map[string]any{
			"NAME": "outer",
			"N": map[string]any{
				"INNER":   map[string]any{"X": 1},
				"SIBLING": map[string]any{"Y": "two"},
			},
			"AFTER": 3,
		},
	}, res.Document.ToMap())
}

// autoClosed nests a dictionary holding a nested entry inside a nested body.
// Counting only "begin" and "end", INNER is left open and closes with the body.
var autoClosed = lines(
	"OUTER",
	"begin",
	"N := @{",
	"INNER",
	"begin",
	"M := @{",
	"DEEP",
	"begin",
	"Y := 2;",
	"end",
	"end",
	";",
	"end",
	";",
	"end",
)

func TestParse_NestedAutoClose(t *testing.T) {
	res := mustParse(t, autoClosed)

	v, err := res.Document.Lookup("OUTER.N.INNER.M.DEEP.Y")
	require.NoError(t, err)
	assert.Equal(t, "2", v.Text())

	perr := parseError(t, autoClosed, WithNestedOpeners(true))
	assert.ErrorIs(t, perr, ErrMissingNestedTerminator)
	assert.Equal(t, 15, perr.Line())
}

func TestParse_NestedOpeners(t *testing.T) {
	src := lines(
		"A",
		"begin",
		"N := @{",
		"B",
		"begin",
		"M := @{",
		"DEEP",
		"begin",
		"Z := 9;",
		"end",
		"end",
		";",
		"end",
		"end",
		";",
		"end",
	)

	res := mustParse(t, src, WithNestedOpeners(true))

	v, err := res.Document.Lookup("A.N.B.M.DEEP.Z")
	require.NoError(t, err)
	assert.Equal(t, "9", v.Text())

	perr := parseError(t, src, WithNestedOpeners(true), WithMaxDepth(1))
	assert.ErrorIs(t, perr, ErrStackLimit)
	assert.Equal(t, 6, perr.Line())

	perr = parseError(t, src, WithNestedOpeners(true), WithMaxDepth(0))
	assert.ErrorIs(t, perr, ErrStackLimit)
	assert.Equal(t, 3, perr.Line())

	// The "end" of B closes N early when openers are not counted.
	perr = parseError(t, src)
	assert.ErrorIs(t, perr, ErrMissingNestedTerminator)
	assert.Equal(t, 13, perr.Line())
}

func TestParse_DefaultMaxDepth(t *testing.T) {
	depth := DefaultMaxDepth + 1

	t.Run("auto-closed", func(t *testing.T) {
		var b strings.Builder

		for range depth {
			b.WriteString("D\nbegin\nN := @{\n")
		}

		for range depth {
			b.WriteString("end\n;\n")
		}

		err := parseError(t, b.String())
		assert.ErrorIs(t, err, ErrStackLimit)
		assert.Equal(t, 3*DefaultMaxDepth+3, err.Line())
	})

	t.Run("nested openers", func(t *testing.T) {
		var b strings.Builder

		for range depth {
			b.WriteString("D\nbegin\nN := @{\n")
		}

		for range depth {
			b.WriteString("end\n;\nend\n")
		}

		err := parseError(t, b.String(), WithNestedOpeners(true))
		assert.ErrorIs(t, err, ErrStackLimit)
		assert.Equal(t, 3*DefaultMaxDepth+3, err.Line())
	})
}

func TestParse_MissingNestedTerminator(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		text string
	}{
		{
			name: "followed by entry",
			src: lines(
				"OUTER",
				"begin",
				"N := @{",
				"INNER",
				"begin",
				"X := 1;",
				"end",
				"end",
				"Y := 2;",
				"end",
			),
			line: 8,
			text: "end",
		},
		{
			name: "end of input after close",
			src:  lines("OUTER", "begin", "N := @{", "INNER", "begin", "end", "  end  "),
			line: 7,
			text: "  end  ",
		},
		{
			name: "blank line before terminator",
			src:  lines("OUTER", "begin", "N := @{", "end", "", ";", "end"),
			line: 4,
			text: "end",
		},
		{
			name: "never closed",
			src:  lines("OUTER", "begin", "N := @{", "INNER", "begin", "X := 1;", ""),
			line: 3,
			text: "N := @{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseError(t, tt.src)

			assert.ErrorIs(t, err, ErrMissingNestedTerminator)
			assert.Equal(t, tt.line, err.Line())
			assert.Equal(t, tt.text, err.Text())
		})
	}
}

func TestParse_NestedErrorLine(t *testing.T) {
	err := parseError(t, lines(
		"OUTER",
		"begin",
		"N := @{",
		"INNER",
		"begin",
		"X := abc;",
		"end",
		"end",
		";",
		"end",
	))

	assert.ErrorIs(t, err, ErrInvalidValueLiteral)
	assert.Equal(t, 6, err.Line())
}

func TestParse_Structure(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *Error
		line int
	}{
		{"close without open", lines("C nothing open", "", "end"), ErrUnexpectedClose, 3},
		{"close after name", lines("A", "end"), ErrUnexpectedClose, 2},
		{"close twice", lines("A", "begin", "end", "end"), ErrUnexpectedClose, 4},
		{"begin without name", "begin", ErrMissingDictionaryName, 1},
		{"begin twice", lines("A", "begin", "begin"), ErrMissingDictionaryName, 3},
		{"lower case name", lines("server"), ErrUnknownSyntax, 1},
		{"second pending name", lines("A", "B"), ErrUnknownSyntax, 2},
		{"entry outside body", lines("A := 1;"), ErrUnknownSyntax, 1},
		{"entry before begin", lines("A", "K := 1;"), ErrUnknownSyntax, 2},
		{"nested outside body", lines("N := @{", "end", ";"), ErrUnknownSyntax, 1},
		{"malformed entry", lines("A", "begin", "   foo bar", "end"), ErrInvalidEntrySyntax, 3},
		{"lower case key", lines("A", "begin", "key := 1;", "end"), ErrInvalidEntrySyntax, 3},
		{"name inside body", lines("A", "begin", "B", "end"), ErrInvalidEntrySyntax, 3},
		{"malformed opener", lines("A", "begin", "N := @{ X", "end"), ErrInvalidEntrySyntax, 3},
		{"report without description", lines("x is 1;", "${x}"), ErrUnknownSyntax, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseError(t, tt.src)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.line, err.Line())
			assert.False(t, IsReferenceError(err))
		})
	}
}

func TestParse_ErrorText(t *testing.T) {
	err := parseError(t, lines("A", "begin", "   foo bar", "end"))

	assert.Equal(t, "   foo bar", err.Text())
	assert.Equal(t, `invalid dictionary entry at line 3: "   foo bar"`, err.Error())
}

func TestParse_AutoClose(t *testing.T) {
	res := mustParse(t, lines("A", "begin", "X := 1;"))

	dict, ok := res.Document.Dictionary("A")
	require.True(t, ok)
	assert.Equal(t, []string{"X"}, dict.Keys())

	res = mustParse(t, lines("A", "begin", "end", "B"))
	assert.Equal(t, []string{"A", "B"}, res.Document.Names())
}

func TestParse_Redefinition(t *testing.T) {
	res := mustParse(t, lines(
		"A", "begin", "X := 1;", "X := 2;", "Y := 3;", "end",
		"B", "begin", "end",
		"A", "begin", "Z := 4;", "end",
	))

	assert.Equal(t, []string{"A", "B"}, res.Document.Names())

	a, _ := res.Document.Dictionary("A")
	assert.Equal(t, []string{"Z"}, a.Keys())

	res = mustParse(t, lines("A", "begin", "X := 1;", "Y := 2;", "X := 'three';", "end"))

	a, _ = res.Document.Dictionary("A")
	assert.Equal(t, []string{"X", "Y"}, a.Keys())
	assert.Equal(t, map[string]any{"X": "three", "Y": 2}, a.ToMap())
}

func TestParse_Comments(t *testing.T) {
	t.Run("first occurrence", func(t *testing.T) {
		res := mustParse(t, lines(
			"C leading comment",
			"AC trailing",
			"begin   C open",
			"\tX := 1;C note",
			"Y := 'two'; C note",
			"endC done",
		))

		a, ok := res.Document.Dictionary("A")
		require.True(t, ok)
		assert.Equal(t, map[string]any{"X": 1, "Y": "two"}, a.ToMap())

		res = mustParse(t, "A\nbegin\nX := 1;C note\nend")
		a, _ = res.Document.Dictionary("A")
		assert.Equal(t, map[string]any{"X": 1}, a.ToMap())
	})

	t.Run("marker inside a string", func(t *testing.T) {
		err := parseError(t, lines("A", "begin", "Z := 'ABC';", "end"))

		assert.ErrorIs(t, err, ErrInvalidEntrySyntax)
		assert.Equal(t, 3, err.Line())
	})

	t.Run("nested terminator", func(t *testing.T) {
		res := mustParse(t, lines("A", "begin", "N := @{", "endC close", ";C done", "end"))

		a, _ := res.Document.Dictionary("A")
		assert.Equal(t, []string{"N"}, a.Keys())
	})

	t.Run("word comments", func(t *testing.T) {
		res := mustParse(t, lines(
			"C leading comment",
			"SECRET C trailing",
			"begin C open",
			"\tX := 1; C note",
			"Y := 'C';",
			"Z := 'a C b';",
			"W := 'ABC'; C 'quoted'",
			"end C done",
		), WithWordComments(true))

		secret, ok := res.Document.Dictionary("SECRET")
		require.True(t, ok)
		assert.Equal(t, map[string]any{
			"X": 1,
			"Y": "C",
			"Z": "a C b",
			"W": "ABC",
		}, secret.ToMap())

		err := parseError(t, lines("A", "begin", "X := 1;C note", "end"), WithWordComments(true))
		assert.ErrorIs(t, err, ErrInvalidEntrySyntax)
		assert.Equal(t, 3, err.Line())
	})

	t.Run("custom marker", func(t *testing.T) {
		res := mustParse(t, lines("# comment", "CLIENT", "begin", "X := 'ABC';# note", "end"),
			WithCommentMarker("#"))

		c, ok := res.Document.Dictionary("CLIENT")
		require.True(t, ok)
		assert.Equal(t, map[string]any{"X": "ABC"}, c.ToMap())

		res = mustParse(t, lines("CLIENT", "begin", "X := 'a#b'; # note", "end"),
			WithCommentMarker("#"), WithWordComments(true))

		c, _ = res.Document.Dictionary("CLIENT")
		assert.Equal(t, map[string]any{"X": "a#b"}, c.ToMap())
	})

	t.Run("disabled", func(t *testing.T) {
		err := parseError(t, "C is a comment", WithCommentMarker(""))
		assert.ErrorIs(t, err, ErrUnknownSyntax)

		res := mustParse(t, lines("CLIENT", "begin", "X := 'C';", "end"), WithCommentMarker(""))
		assert.Equal(t, []string{"CLIENT"}, res.Document.Names())
	})
}

func TestParse_CRLF(t *testing.T) {
	res := mustParse(t, "A\r\nbegin\r\nX := 'y';\r\nend\r\n")

	a, _ := res.Document.Dictionary("A")
	assert.Equal(t, map[string]any{"X": "y"}, a.ToMap())
}

func TestParseReader(t *testing.T) {
	res, err := ParseReader(context.Background(), strings.NewReader(nested))
	require.NoError(t, err)
	assert.Equal(t, []string{"OUTER"}, res.Document.Names())

	_, err = ParseReader(context.Background(), iotest.ErrReader(errors.New("boom")))
	assert.ErrorIs(t, err, ErrReadInput)
}

func TestParse_DocumentOnly(t *testing.T) {
	doc, err := Parse(context.Background(), nested)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())

	_, err = Parse(context.Background(), "end")
	assert.ErrorIs(t, err, ErrUnexpectedClose)
}
