package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/confxml/lang"
)

// isWordBoundary returns true if the rune delimits a completion word.
// The member-access dot is a boundary; parentPath walks back across it.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';', '\'', '"':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor and its byte boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain before the word starting at
// wordStart. For "x + OUTER.N.IN" and the word "IN" it is "OUTER.N".
func parentPath(input string, wordStart int) string {
	if wordStart == 0 || input[wordStart-1] != '.' {
		return ""
	}

	end := wordStart - 1
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(input[pos:end], ".")
}

// candidates returns the names that may follow parent in doc.
//
// Paths alternate between dictionary names and entry keys, so a parent with
// an odd number of segments names a dictionary and completes to its keys,
// while an even number names a nested entry and completes to the nested
// dictionary names.
func candidates(doc *lang.Document, parent string) []string {
	if doc == nil {
		return nil
	}

	if parent == "" {
		return append(doc.Names(), commands...)
	}

	value, err := doc.Lookup(parent)
	if err != nil || value.Type != lang.TypeDictionary || value.Dict == nil {
		return nil
	}

	if strings.Count(parent, ".")%2 == 0 {
		for dict := range value.Dict.All() {
			return dict.Keys()
		}

		return nil
	}

	return value.Dict.Names()
}

// complete returns fuzzy matches for the word at cursor and its bounds.
func complete(
	doc *lang.Document,
	input string,
	cursor int,
) (matches fuzzy.Matches, start, end int) {
	word, start, end := wordBounds(input, cursor)

	names := candidates(doc, parentPath(input, start))
	if len(names) == 0 {
		return nil, start, end
	}

	if word == "" {
		if parentPath(input, start) == "" {
			return nil, start, end
		}

		for _, n := range names {
			matches = append(matches, fuzzy.Match{Str: n})
		}

		return matches, start, end
	}

	for _, m := range fuzzy.Find(word, names) {
		// an exact match needs no completion
		if m.Str == word {
			continue
		}

		matches = append(matches, m)
	}

	return matches, start, end
}

// renderCandidateBar builds the one-line completion bar, ellipsized to fit
// width. The selected candidate is highlighted when sel >= 0.
func renderCandidateBar(matches fuzzy.Matches, sel, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, i == sel)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters bold.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
