// Package classify maps filenames to language labels using a static,
// data-driven table with an enry fallback for everything outside it.
package classify

import (
	"path"
	"strings"

	"github.com/src-d/enry/v2"
)

// Label identifies a programming or documentation language derived from a
// filename. The zero value is the unclassified sentinel.
type Label string

// Unclassified marks a file no classification rule recognizes.
// Unclassified files never contribute lines to any total.
const Unclassified Label = ""

// Entry is one classification rule: the language label assigned to an
// extension or exact filename, plus whether the format is documentation.
type Entry struct {
	Label         Label `yaml:"label"`
	Documentation bool  `yaml:"documentation"`
}

// Table is an immutable-after-construction classification rule set.
// Extensions are keyed with their leading dot, lowercase. Filenames are
// matched exactly and cover extensionless conventions such as Makefile.
type Table struct {
	extensions map[string]Entry
	filenames  map[string]Entry
}

// Classify resolves a filename to a language label and a documentation flag.
//
// Resolution order: final extension (case-insensitive) in the extension
// table; exact filename in the filename table; enry lookup by extension,
// then by filename. Files with multiple dots classify by the final
// extension only. Anything unresolved is Unclassified.
func (t *Table) Classify(filename string) (Label, bool) {
	base := path.Base(filename)

	if ext := strings.ToLower(path.Ext(base)); ext != "" {
		if entry, ok := t.extensions[ext]; ok {
			return entry.Label, entry.Documentation
		}
	}

	if entry, ok := t.filenames[base]; ok {
		return entry.Label, entry.Documentation
	}

	return classifyWithEnry(base)
}

// classifyWithEnry falls back to enry's extension and filename strategies
// for files outside the static table.
func classifyWithEnry(base string) (Label, bool) {
	lang, _ := enry.GetLanguageByExtension(base)
	if lang == "" {
		lang, _ = enry.GetLanguageByFilename(base)
	}

	if lang == "" {
		return Unclassified, false
	}

	return Label(lang), proseLanguages[lang]
}

// proseLanguages flags documentation formats enry may return that the
// static table does not already cover.
var proseLanguages = map[string]bool{
	"AsciiDoc":         true,
	"Creole":           true,
	"Markdown":         true,
	"MediaWiki":        true,
	"Org":              true,
	"Pod":              true,
	"RDoc":             true,
	"Text":             true,
	"Textile":          true,
	"reStructuredText": true,
}
