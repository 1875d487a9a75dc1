package cli

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/confxml/lang"
)

type parseConfig struct {
	MaxDepth      int    `default:"${parseMaxDepth}" help:"Maximum nested dictionary depth."`
	Comment       string `default:"${parseComment}"  help:"Text starting a comment, empty to disable comments."`
	WordComments  bool   `help:"Only a comment marker standing as a word outside strings starts a comment."`
	NestedOpeners bool   `help:"Count nested openers like begin when collecting a nested body."`
}

func (parseConfig) vars() kong.Vars {
	return kong.Vars{
		"parseMaxDepth": strconv.Itoa(lang.DefaultMaxDepth),
		"parseComment":  lang.DefaultCommentMarker,
	}
}

func (parseConfig) group() kong.Group {
	var group kong.Group

	group.Key = "parse"
	group.Title = "Parser options"

	return group
}

// options returns the parser options selected by flags.
func (f parseConfig) options() []lang.Option {
	return []lang.Option{
		lang.WithMaxDepth(f.MaxDepth),
		lang.WithCommentMarker(f.Comment),
		lang.WithWordComments(f.WordComments),
		lang.WithNestedOpeners(f.NestedOpeners),
	}
}
