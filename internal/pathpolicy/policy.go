// Package pathpolicy decides where imported files are written inside the
// vault and what they are called.
package pathpolicy

import (
	"path"
	"strconv"
	"strings"
)

// DestinationPath returns the vault-relative path for fileName given the
// attachment folder setting and the folder of the note being edited:
//
//	"" or "/"    vault root
//	"./"         the note's folder
//	"./sub"      sub inside the note's folder
//	anything     that folder, from the vault root
func DestinationPath(fileName, setting, noteFolder string) string {
	noteFolder = strings.Trim(noteFolder, "/")

	switch {
	case setting == "" || setting == "/":
		return fileName
	case setting == "./":
		if noteFolder == "" {
			return fileName
		}
		return noteFolder + "/" + fileName
	case strings.HasPrefix(setting, "./"):
		rest := strings.Trim(strings.TrimPrefix(setting, "./"), "/")
		return join(noteFolder, rest, fileName)
	default:
		return join(strings.Trim(setting, "/"), fileName)
	}
}

// join concatenates non-empty segments with "/", without cleaning "..".
func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}

// UniqueName returns name if it is not in existing, otherwise the first of
// name_1.ext, name_2.ext, ... that is free.
func UniqueName(name string, existing map[string]struct{}) string {
	if _, taken := existing[name]; !taken {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate := stem + "_" + strconv.Itoa(n) + ext
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}

// Folder returns the parent folder of a vault-relative path, "" for the root.
func Folder(p string) string {
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
