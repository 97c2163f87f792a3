package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultExtensions is the built-in extension rule set. Keys carry the
// leading dot and are lowercase.
var defaultExtensions = map[string]Entry{
	".py":    {Label: "Python"},
	".js":    {Label: "JavaScript"},
	".jsx":   {Label: "JavaScript"},
	".mjs":   {Label: "JavaScript"},
	".ts":    {Label: "TypeScript"},
	".tsx":   {Label: "TypeScript"},
	".html":  {Label: "HTML"},
	".css":   {Label: "CSS"},
	".scss":  {Label: "SCSS"},
	".sass":  {Label: "SASS"},
	".java":  {Label: "Java"},
	".c":     {Label: "C"},
	".h":     {Label: "C"},
	".cpp":   {Label: "C++"},
	".cc":    {Label: "C++"},
	".hpp":   {Label: "C++"},
	".cs":    {Label: "C#"},
	".go":    {Label: "Go"},
	".rb":    {Label: "Ruby"},
	".php":   {Label: "PHP"},
	".swift": {Label: "Swift"},
	".kt":    {Label: "Kotlin"},
	".rs":    {Label: "Rust"},
	".sh":    {Label: "Shell"},
	".bash":  {Label: "Shell"},
	".zsh":   {Label: "Shell"},
	".sql":   {Label: "SQL"},
	".json":  {Label: "JSON"},
	".xml":   {Label: "XML"},
	".yml":   {Label: "YAML"},
	".yaml":  {Label: "YAML"},
	".toml":  {Label: "TOML"},

	".md":       {Label: "Markdown", Documentation: true},
	".markdown": {Label: "Markdown", Documentation: true},
	".rst":      {Label: "reStructuredText", Documentation: true},
	".txt":      {Label: "Text", Documentation: true},
	".adoc":     {Label: "AsciiDoc", Documentation: true},
	".asciidoc": {Label: "AsciiDoc", Documentation: true},
	".org":      {Label: "Org", Documentation: true},
}

// defaultFilenames covers extensionless build conventions.
var defaultFilenames = map[string]Entry{
	"Makefile":      {Label: "Makefile"},
	"makefile":      {Label: "Makefile"},
	"GNUmakefile":   {Label: "Makefile"},
	"Dockerfile":    {Label: "Dockerfile"},
	"Containerfile": {Label: "Dockerfile"},
	"Rakefile":      {Label: "Ruby"},
	"Gemfile":       {Label: "Ruby"},
	"Justfile":      {Label: "Just"},
	"Vagrantfile":   {Label: "Ruby"},
}

// overlayFile is the on-disk YAML shape for user rule overlays.
type overlayFile struct {
	Extensions map[string]Entry `yaml:"extensions"`
	Filenames  map[string]Entry `yaml:"filenames"`
}

// DefaultTable returns a Table with the built-in rule set.
// The returned table owns private copies of the rule maps.
func DefaultTable() *Table {
	table := &Table{
		extensions: make(map[string]Entry, len(defaultExtensions)),
		filenames:  make(map[string]Entry, len(defaultFilenames)),
	}

	for ext, entry := range defaultExtensions {
		table.extensions[ext] = entry
	}

	for name, entry := range defaultFilenames {
		table.filenames[name] = entry
	}

	return table
}

// MergeOverlay applies YAML overlay rules on top of the table.
// Overlay entries replace built-in entries for the same key, so a user can
// both add languages and reflag existing ones.
func (t *Table) MergeOverlay(data []byte) error {
	var overlay overlayFile

	err := yaml.Unmarshal(data, &overlay)
	if err != nil {
		return fmt.Errorf("parse languages overlay: %w", err)
	}

	for ext, entry := range overlay.Extensions {
		key := ext
		if key != "" && key[0] != '.' {
			key = "." + key
		}

		t.extensions[strings.ToLower(key)] = entry
	}

	for name, entry := range overlay.Filenames {
		t.filenames[name] = entry
	}

	return nil
}

// LoadOverlay reads a YAML overlay file and merges it into the table.
func (t *Table) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read languages overlay: %w", err)
	}

	return t.MergeOverlay(data)
}
