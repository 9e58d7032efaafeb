// Package render turns questions into terminal text: de-tagged previews,
// answer labels, answer-key emphasis and badges.
package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/abhisek/smartmcq/internal/model"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// StripTags removes all markup from s, unescapes entities and collapses
// runs of whitespace into single spaces. Block and break elements separate
// words; inline elements join their text to the surroundings. Contents of
// script and style elements are dropped.
func StripTags(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tn, _ := z.TagName()
			a := atom.Lookup(tn)
			switch {
			case a == atom.Script || a == atom.Style:
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
			case breaksText[a]:
				b.WriteByte(' ')
			}
		}
	}
}

// breaksText lists the elements that end a run of words.
var breaksText = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Table: true,
	atom.Blockquote: true, atom.Pre: true, atom.Img: true,
}

// Truncate caps plain text at max runes. The ellipsis is appended only when
// text was longer than max, after exactly max runes of it.
func Truncate(text string, max int) string {
	if max < 0 {
		max = 0
	}
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + Ellipsis
}

// Preview de-tags rich text and truncates the result.
func Preview(richText string, max int) string {
	return Truncate(StripTags(richText), max)
}

// AnswerLetters maps a 0-based answer index to its letters. Indices past
// 25 continue spreadsheet-style: Z, AA, AB, ...
func AnswerLetters(i int, lc model.LetterCase) string {
	if i < 0 {
		return ""
	}
	base := byte('A')
	if lc == model.Lowercase {
		base = 'a'
	}
	var buf []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		buf = append([]byte{base + byte((n-1)%26)}, buf...)
	}
	return string(buf)
}

// AnswerLabel returns the letters for index i followed by the configured
// separator.
func AnswerLabel(i int, cfg model.Configuration) string {
	cfg = cfg.Normalized()
	return AnswerLetters(i, cfg.LetterCase) + cfg.Separator
}
