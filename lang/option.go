package lang

import (
	"strings"

	"github.com/ardnew/confxml/log"
)

// DefaultMaxDepth is the default maximum depth for nested dictionaries.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// DefaultCommentMarker introduces a comment. Everything from its first
// occurrence on a line to the end of that line is discarded.
const DefaultCommentMarker = "C"

// options holds parser configuration.
type options struct {
	maxDepth      int
	marker        string
	wordComments  bool
	nestedOpeners bool
	logger        log.Logger // zero value discards everything
}

// Option configures parsing behavior.
type Option func(*options)

// WithMaxDepth sets the maximum recursion depth for nested dictionaries.
// A depth of 0 rejects every nested dictionary.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithCommentMarker sets the text that introduces a comment.
// An empty marker disables comments.
func WithCommentMarker(marker string) Option {
	return func(o *options) {
		o.marker = marker
	}
}

// WithWordComments restricts the comment marker to a word of its own outside
// quoted strings: at the start of a line or after whitespace, and followed by
// whitespace or the end of the line. Identifiers and strings may then contain
// the marker.
func WithWordComments(enable bool) Option {
	return func(o *options) {
		o.wordComments = enable
	}
}

// WithNestedOpeners makes every "KEY := @{" line inside a nested body raise
// the depth as "begin" does, so that it needs an "end" of its own. Without
// it only "begin" and "end" are counted.
func WithNestedOpeners(enable bool) Option {
	return func(o *options) {
		o.nestedOpeners = enable
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	o := options{
		maxDepth: DefaultMaxDepth,
		marker:   DefaultCommentMarker,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// commentStart returns the index where a comment begins in s, or -1.
func (o *options) commentStart(s string) int {
	switch {
	case o.marker == "":
		return -1

	case o.wordComments:
		return wordCommentStart(s, o.marker)

	default:
		return strings.Index(s, o.marker)
	}
}

// wordCommentStart returns the index of the first marker in s that stands as
// a word of its own outside single quotes, or -1.
func wordCommentStart(s, marker string) int {
	quoted := false

	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\'':
			quoted = !quoted

		case quoted:

		case (i == 0 || isSpace(s[i-1])) && strings.HasPrefix(s[i:], marker):
			if end := i + len(marker); end == len(s) || isSpace(s[end]) {
				return i
			}
		}
	}

	return -1
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}

	return false
}
