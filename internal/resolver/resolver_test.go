package resolver

import (
	"testing"

	"github.com/starford/notecover/internal/models"
)

type stubLinks struct {
	files  map[string]models.StoredFile
	calls  int
	origin string
}

func (s *stubLinks) ResolveLinkPath(reference, origin string) (*models.StoredFile, bool) {
	s.calls++
	s.origin = origin
	f, ok := s.files[reference]
	if !ok {
		return nil, false
	}
	return &f, true
}

func files(paths ...string) []models.StoredFile {
	out := make([]models.StoredFile, len(paths))
	for i, p := range paths {
		out[i] = models.NewStoredFile(p)
	}
	return out
}

func TestResolve_LinkByBasename(t *testing.T) {
	cands := files("notes/a.md", "img/photo.webp", "img/other.png")
	r := Resolve("[[photo]]", cands, "notes/a.md", nil)
	if !r.Found() || r.File.Path != "img/photo.webp" {
		t.Fatalf("got %+v", r)
	}
	if r.Reference != "photo" {
		t.Errorf("reference = %q", r.Reference)
	}
}

func TestResolve_LinkByBasenameAnyExtension(t *testing.T) {
	for _, p := range []string{"x/cover.png", "cover.tiff", "deep/er/cover.heic"} {
		r := Resolve("[[cover]]", files("other.png", p), "", nil)
		if !r.Found() || r.File.Path != p {
			t.Errorf("%s: got %+v", p, r)
		}
	}
}

func TestResolve_LinkExactName(t *testing.T) {
	cands := files("a/photo.jpg", "b/photo.jpg")
	for i := 0; i < 3; i++ {
		r := Resolve("[[photo.jpg]]", cands, "", nil)
		if !r.Found() || r.File.Path != "a/photo.jpg" {
			t.Fatalf("got %+v", r)
		}
	}
}

func TestResolve_LinkFirstCandidateWins(t *testing.T) {
	// The candidate order decides, not which rule matched.
	cands := files("first/photo.gif", "second/photo.png")
	r := Resolve("[[photo]]", cands, "", nil)
	if r.File.Path != "first/photo.gif" {
		t.Errorf("got %s", r.File.Path)
	}
}

func TestResolve_LinkNotFound(t *testing.T) {
	links := &stubLinks{}
	r := Resolve("[[missing]]", files("a.png"), "", links)
	if r.Found() {
		t.Fatalf("expected not found, got %+v", r)
	}
	if r.Reference != "missing" {
		t.Errorf("reference = %q", r.Reference)
	}
	if links.calls != 0 {
		t.Error("link form must not fall through to path resolution")
	}
}

func TestResolve_Empty(t *testing.T) {
	links := &stubLinks{files: map[string]models.StoredFile{"": models.NewStoredFile("a.png")}}
	r := Resolve("", files("a.png", ".png"), "", links)
	if r.Found() {
		t.Errorf("empty reference resolved to %+v", r.File)
	}
	if links.calls != 0 {
		t.Error("empty reference must not reach path resolution")
	}
}

func TestResolve_PathDelegates(t *testing.T) {
	want := models.NewStoredFile("notes/img/a.png")
	links := &stubLinks{files: map[string]models.StoredFile{"img/a.png": want}}
	r := Resolve("img/a.png", files("zzz.png"), "notes/n.md", links)
	if !r.Found() || r.File.Path != want.Path {
		t.Fatalf("got %+v", r)
	}
	if links.origin != "notes/n.md" {
		t.Errorf("origin = %q", links.origin)
	}

	r = Resolve("img/none.png", nil, "notes/n.md", links)
	if r.Found() || r.Reference != "img/none.png" {
		t.Errorf("got %+v", r)
	}
}

func TestResolve_MalformedLinks(t *testing.T) {
	links := &stubLinks{}
	cases := []string{"[[a]]b]]", "[[a[[b]]", "x[[a]]", "[[a]] ", "[a]"}
	for _, ref := range cases {
		r := Resolve(ref, files("a.png", "a]]b.png"), "", links)
		if r.Found() {
			t.Errorf("%q resolved to %+v", ref, r.File)
		}
		if r.Reference != ref {
			t.Errorf("%q: reference = %q", ref, r.Reference)
		}
	}
	if links.calls != len(cases) {
		t.Errorf("calls = %d, want %d", links.calls, len(cases))
	}
}

func TestResolve_ExtensionOrder(t *testing.T) {
	// name+ext checks follow ImageExtensions order only per candidate; the
	// candidate list is still walked in order.
	cands := files("p.svg", "p.png")
	r := Resolve("[[p]]", cands, "", nil)
	if r.File.Name != "p.svg" {
		t.Errorf("got %s", r.File.Name)
	}
}
