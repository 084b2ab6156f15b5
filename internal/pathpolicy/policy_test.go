package pathpolicy

import "testing"

func TestDestinationPath(t *testing.T) {
	cases := []struct {
		setting, folder, want string
	}{
		{"./", "", "a.png"},
		{"./", "notes", "notes/a.png"},
		{"./sub", "notes", "notes/sub/a.png"},
		{"./sub/", "notes/deep", "notes/deep/sub/a.png"},
		{"./sub", "", "sub/a.png"},
		{"attach", "notes", "attach/a.png"},
		{"attach/images/", "notes", "attach/images/a.png"},
		{"/", "notes", "a.png"},
		{"", "notes", "a.png"},
	}
	for _, c := range cases {
		if got := DestinationPath("a.png", c.setting, c.folder); got != c.want {
			t.Errorf("DestinationPath(%q, %q) = %q, want %q", c.setting, c.folder, got, c.want)
		}
	}
}

func TestUniqueName(t *testing.T) {
	existing := map[string]struct{}{"a.png": {}, "a_1.png": {}}
	if got := UniqueName("a.png", existing); got != "a_2.png" {
		t.Errorf("got %q, want a_2.png", got)
	}
	if got := UniqueName("b.png", existing); got != "b.png" {
		t.Errorf("got %q, want b.png", got)
	}
	if got := UniqueName("a.png", nil); got != "a.png" {
		t.Errorf("nil set: got %q", got)
	}
}

func TestUniqueName_NoExtension(t *testing.T) {
	existing := map[string]struct{}{"scan": {}}
	if got := UniqueName("scan", existing); got != "scan_1" {
		t.Errorf("got %q", got)
	}
}

func TestUniqueName_MultipleDots(t *testing.T) {
	existing := map[string]struct{}{"photo.final.jpg": {}}
	if got := UniqueName("photo.final.jpg", existing); got != "photo.final_1.jpg" {
		t.Errorf("got %q", got)
	}
}

func TestFolder(t *testing.T) {
	for in, want := range map[string]string{"a.md": "", "x/y/a.md": "x/y", "/a.md": ""} {
		if got := Folder(in); got != want {
			t.Errorf("Folder(%q) = %q, want %q", in, got, want)
		}
	}
}
