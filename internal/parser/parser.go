// Package parser reads and rewrites the frontmatter block of Markdown notes.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Result holds the output of parsing a Markdown note.
type Result struct {
	Frontmatter map[string]any
	Body        string
}

// Parse splits data into its frontmatter snapshot and body. A note without a
// block, or with a block that is not valid YAML, has a nil Frontmatter and
// the whole content as body.
func Parse(data []byte) (*Result, error) {
	text := string(data)
	b, ok := locateBlock(text)
	if !ok {
		return &Result{Body: text}, nil
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(text[b.bodyStart:b.bodyEnd]), &fm); err != nil {
		// Invalid YAML: fall back to treating everything as body.
		return &Result{Body: text}, nil
	}

	return &Result{
		Frontmatter: fm,
		Body:        strings.TrimLeft(text[b.end:], "\r\n"),
	}, nil
}

// String returns the frontmatter value for key as a reference string.
//
// An unquoted wikilink such as `image: [[cover.png]]` decodes as a nested
// YAML sequence; it is folded back into its link form here.
func (r *Result) String(key string) (string, bool) {
	if r == nil || r.Frontmatter == nil {
		return "", false
	}
	raw, ok := r.Frontmatter[key]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case []any:
		if inner, ok := nestedLink(v); ok {
			return "[[" + inner + "]]", true
		}
		return "", false
	case bool, int, float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

func nestedLink(v []any) (string, bool) {
	if len(v) != 1 {
		return "", false
	}
	inner, ok := v[0].([]any)
	if !ok || len(inner) != 1 {
		return "", false
	}
	s, ok := inner[0].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
