package mcpserver

import "strings"

const coverFormatTemplate = `# Cover Image Format

A note's cover image is named by a single key in its YAML frontmatter.
The key in this vault is ` + "`{{key}}`" + `.

` + "```" + `markdown
---
title: Trip to Porto
{{key}}: "[[porto-bridge.jpg]]"
---

Body text.
` + "```" + `

## Reference forms

1. **Wikilink** ` + "`\"[[name]]\"`" + `: matched against stored file names, then
   the name with one of png, jpg, jpeg, gif, webp, svg appended, then file
   names without extension. The first match in path order wins.
2. **File name** ` + "`porto-bridge.jpg`" + `: looked up next to the note, then
   from the vault root, then anywhere in the vault by name.
3. **Path** ` + "`photos/porto.jpg`" + ` or ` + "`/photos/porto.jpg`" + `: relative to the
   note's folder, or to the vault root with a leading slash.

Quote wikilinks. An unquoted ` + "`[[x]]`" + ` is a nested YAML list and only
works by accident.

## Tools

- ` + "`get_cover`" + ` shows what a note currently resolves to.
- ` + "`set_cover`" + ` writes the key. Bare names are stored as wikilinks.
- ` + "`import_image`" + ` stores a new file in the attachment folder, picks a
  free name (` + "`a.png`" + `, ` + "`a_1.png`" + `, ...) and writes the key.
  Only image content is accepted.
- ` + "`list_images`" + ` lists candidate files.

Writing the key never touches other frontmatter lines or the body.
`

// CoverFormat describes how notes reference their cover image when the
// frontmatter key is key.
func CoverFormat(key string) string {
	return strings.ReplaceAll(coverFormatTemplate, "{{key}}", key)
}
