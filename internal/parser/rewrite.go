package parser

import (
	"regexp"
	"strconv"
	"strings"
)

const delim = "---"

// blockRe matches a frontmatter block at the very start of a note: a
// delimiter line, a possibly empty run of lines, and the first following
// delimiter line.
var blockRe = regexp.MustCompile(`(?s)\A---\r?\n(.*?\r?\n)??---(?:\r?\n|\z)`)

type block struct {
	bodyStart int // first byte after the opening delimiter line
	bodyEnd   int // first byte of the closing delimiter line
	end       int // first byte after the closing delimiter line
}

func locateBlock(text string) (block, bool) {
	loc := blockRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return block{}, false
	}
	b := block{end: loc[1]}
	if loc[2] >= 0 {
		b.bodyStart, b.bodyEnd = loc[2], loc[3]
	} else {
		// Empty block: body is zero-width right before the closing line.
		b.bodyEnd = strings.LastIndex(text[:loc[1]], delim)
		b.bodyStart = b.bodyEnd
	}
	return b, true
}

func keyLineRe(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `:([^\r\n]*)`)
}

// SetKey returns text with key set to value in its frontmatter block. The
// first line for key is replaced; if the key is missing it is appended to the
// block; if the note has no block one is prepended, followed by a blank line.
// value is written verbatim after "key: ".
func SetKey(text, key, value string) string {
	line := key + ": " + value

	b, ok := locateBlock(text)
	if !ok {
		return delim + "\n" + line + "\n" + delim + "\n\n" + text
	}

	body := text[b.bodyStart:b.bodyEnd]
	if loc := keyLineRe(key).FindStringIndex(body); loc != nil {
		body = body[:loc[0]] + line + body[loc[1]:]
	} else {
		body += line + newline(text)
	}

	return text[:b.bodyStart] + body + text[b.bodyEnd:]
}

// Value returns the raw value written after "key:" in the frontmatter block,
// without the single separating space SetKey inserts.
func Value(text, key string) (string, bool) {
	b, ok := locateBlock(text)
	if !ok {
		return "", false
	}
	m := keyLineRe(key).FindStringSubmatch(text[b.bodyStart:b.bodyEnd])
	if m == nil {
		return "", false
	}
	return strings.TrimPrefix(m[1], " "), true
}

// LinkValue renders name as the quoted wikilink stored for images.
func LinkValue(name string) string {
	return QuoteValue("[[" + name + "]]")
}

// QuoteValue renders s as a YAML double-quoted scalar. Go's escapes for
// quotes, backslashes and control characters are a subset of YAML's.
func QuoteValue(s string) string {
	return strconv.Quote(s)
}

// newline reports the line ending used by the note's opening delimiter.
func newline(text string) string {
	if strings.HasPrefix(text, delim+"\r\n") {
		return "\r\n"
	}
	return "\n"
}
