package parser

import (
	"testing"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\nimage: \"[[cover.png]]\"\n---\n# Hello\nBody text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", r.Frontmatter["title"])
	}
	if r.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
	ref, ok := r.String("image")
	if !ok || ref != "[[cover.png]]" {
		t.Errorf("image = %q, %v", ref, ok)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if _, ok := r.String("image"); ok {
		t.Error("expected no image key")
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if r.Body != string(input) {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_BlockMustStartTheNote(t *testing.T) {
	r, _ := Parse([]byte("\n---\nimage: a.png\n---\n"))
	if r.Frontmatter != nil {
		t.Errorf("block after a leading blank line must not be parsed, got %v", r.Frontmatter)
	}
}

func TestString_UnquotedWikilink(t *testing.T) {
	r, _ := Parse([]byte("---\nimage: [[cover.png]]\n---\n"))
	ref, ok := r.String("image")
	if !ok || ref != "[[cover.png]]" {
		t.Errorf("image = %q, %v", ref, ok)
	}
}

func TestString_PlainAndEmpty(t *testing.T) {
	r, _ := Parse([]byte("---\nimage: assets/a.png\nempty: \"\"\nnothing:\ncount: 3\n---\n"))
	if ref, _ := r.String("image"); ref != "assets/a.png" {
		t.Errorf("image = %q", ref)
	}
	if _, ok := r.String("empty"); ok {
		t.Error("empty string should report absent")
	}
	if _, ok := r.String("nothing"); ok {
		t.Error("null value should report absent")
	}
	if ref, ok := r.String("count"); !ok || ref != "3" {
		t.Errorf("count = %q, %v", ref, ok)
	}
}
