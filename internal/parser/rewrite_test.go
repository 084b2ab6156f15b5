package parser

import (
	"strings"
	"testing"
)

func TestSetKey_NoBlockPrepends(t *testing.T) {
	got := SetKey("# Trip\nSome text.\n", "image", LinkValue("photo.jpg"))
	want := "---\nimage: \"[[photo.jpg]]\"\n---\n\n# Trip\nSome text.\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSetKey_ReplacesFirstMatchingLine(t *testing.T) {
	in := "---\ntitle: T\nimage: old.png\nimage: second.png\n---\nbody\n"
	got := SetKey(in, "image", "new.png")
	want := "---\ntitle: T\nimage: new.png\nimage: second.png\n---\nbody\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSetKey_AppendsMissingKey(t *testing.T) {
	in := "---\ntitle: T\n---\nbody\n---\nnot a block\n"
	got := SetKey(in, "image", "x")
	want := "---\ntitle: T\nimage: x\n---\nbody\n---\nnot a block\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSetKey_EmptyBlock(t *testing.T) {
	got := SetKey("---\n---\nbody", "image", "x")
	want := "---\nimage: x\n---\nbody"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSetKey_KeyMatchIsExact(t *testing.T) {
	in := "---\nimages: a\nmyimage: b\n  image: c\nImage: d\n---\n"
	got := SetKey(in, "image", "x")
	want := "---\nimages: a\nmyimage: b\n  image: c\nImage: d\nimage: x\n---\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestSetKey_CRLF(t *testing.T) {
	in := "---\r\ntitle: T\r\nimage: old\r\n---\r\nbody\r\n"
	got := SetKey(in, "image", "new")
	want := "---\r\ntitle: T\r\nimage: new\r\n---\r\nbody\r\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
	got = SetKey("---\r\ntitle: T\r\n---\r\n", "image", "new")
	if got != "---\r\ntitle: T\r\nimage: new\r\n---\r\n" {
		t.Errorf("append got %q", got)
	}
}

func TestSetKey_UnclosedBlockTreatedAsNoBlock(t *testing.T) {
	in := "---\ntitle: T\nno closing\n"
	got := SetKey(in, "image", "x")
	if !strings.HasPrefix(got, "---\nimage: x\n---\n\n---\ntitle: T") {
		t.Errorf("got %q", got)
	}
}

func TestSetKey_RegexCharsInKey(t *testing.T) {
	in := "---\na.b: 1\naxb: 2\n---\n"
	got := SetKey(in, "a.b", "3")
	if got != "---\na.b: 3\naxb: 2\n---\n" {
		t.Errorf("got %q", got)
	}
}

func TestSetKey_Idempotent(t *testing.T) {
	docs := []string{
		"",
		"plain body\n",
		"---\n---\n",
		"---\ntitle: T\n---\nbody",
		"---\nimage: a\n---\n",
	}
	for _, d := range docs {
		once := SetKey(d, "image", LinkValue("p.png"))
		twice := SetKey(once, "image", LinkValue("p.png"))
		if once != twice {
			t.Errorf("not idempotent for %q:\n once %q\ntwice %q", d, once, twice)
		}
	}
}

func TestSetKey_RoundTrip(t *testing.T) {
	values := []string{
		`"[[photo.jpg]]"`,
		"plain",
		"",
		"  leading spaces",
		"trailing ",
		"has: colon",
		"---",
	}
	docs := []string{"", "body\n", "---\ntitle: T\nimage: z\n---\nbody\n"}
	for _, d := range docs {
		for _, v := range values {
			got, ok := Value(SetKey(d, "image", v), "image")
			if !ok || got != v {
				t.Errorf("doc %q value %q: got %q, %v", d, v, got, ok)
			}
		}
	}
}

func TestSetKey_SnapshotSeesLink(t *testing.T) {
	out := SetKey("body\n", "image", LinkValue("photo.jpg"))
	r, err := Parse([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := r.String("image")
	if !ok || ref != "[[photo.jpg]]" {
		t.Errorf("image = %q, %v", ref, ok)
	}
	if r.Body != "body\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestValue_Missing(t *testing.T) {
	if _, ok := Value("no block", "image"); ok {
		t.Error("expected no value without block")
	}
	if _, ok := Value("---\ntitle: T\n---\n", "image"); ok {
		t.Error("expected no value for missing key")
	}
}

func TestLinkValue_Escapes(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":  `"[[photo.jpg]]"`,
		`a"b.png`:    `"[[a\"b.png]]"`,
		`my\new.png`: `"[[my\\new.png]]"`,
	}
	for name, want := range cases {
		got := LinkValue(name)
		if got != want {
			t.Errorf("LinkValue(%q) = %s, want %s", name, got, want)
		}
		res, err := Parse([]byte(SetKey("body", "image", got)))
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := res.String("image"); v != "[["+name+"]]" {
			t.Errorf("round trip of %q = %q", name, v)
		}
	}
}
