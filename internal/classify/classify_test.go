package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locfang/internal/classify"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename  string
		wantLabel classify.Label
		wantDoc   bool
	}{
		{filename: "main.py", wantLabel: "Python"},
		{filename: "app.jsx", wantLabel: "JavaScript"},
		{filename: "server.ts", wantLabel: "TypeScript"},
		{filename: "MAIN.PY", wantLabel: "Python"},
		{filename: "README.md", wantLabel: "Markdown", wantDoc: true},
		{filename: "guide.rst", wantLabel: "reStructuredText", wantDoc: true},
		{filename: "notes.txt", wantLabel: "Text", wantDoc: true},
		{filename: "intro.adoc", wantLabel: "AsciiDoc", wantDoc: true},
		{filename: "Makefile", wantLabel: "Makefile"},
		{filename: "Dockerfile", wantLabel: "Dockerfile"},
		{filename: "config.yml", wantLabel: "YAML"},
		{filename: "nested/path/util.go", wantLabel: "Go"},
		// Multiple dots classify by the final extension only.
		{filename: "app.test.js", wantLabel: "JavaScript"},
		// No extension, no special-filename rule: unclassified.
		{filename: "README", wantLabel: classify.Unclassified},
		{filename: "noextension", wantLabel: classify.Unclassified},
	}

	table := classify.DefaultTable()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()

			label, isDoc := table.Classify(tt.filename)

			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantDoc, isDoc)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	table := classify.DefaultTable()

	first, _ := table.Classify("a.py")

	for i := 0; i < 10; i++ {
		label, _ := table.Classify("a.py")
		assert.Equal(t, first, label)
	}
}

func TestClassify_EnryFallback(t *testing.T) {
	t.Parallel()

	table := classify.DefaultTable()

	label, isDoc := table.Classify("pubspec.dart")

	assert.Equal(t, classify.Label("Dart"), label)
	assert.False(t, isDoc)
}

func TestMergeOverlay(t *testing.T) {
	t.Parallel()

	overlay := []byte(`
extensions:
  ".zig": {label: Zig}
  "md": {label: Markdown, documentation: false}
filenames:
  "BUILD": {label: Bazel}
`)

	table := classify.DefaultTable()
	require.NoError(t, table.MergeOverlay(overlay))

	label, isDoc := table.Classify("main.zig")
	assert.Equal(t, classify.Label("Zig"), label)
	assert.False(t, isDoc)

	// Overlay reflagged markdown as non-documentation.
	label, isDoc = table.Classify("README.md")
	assert.Equal(t, classify.Label("Markdown"), label)
	assert.False(t, isDoc)

	label, _ = table.Classify("BUILD")
	assert.Equal(t, classify.Label("Bazel"), label)
}

func TestMergeOverlay_Malformed(t *testing.T) {
	t.Parallel()

	table := classify.DefaultTable()

	err := table.MergeOverlay([]byte("extensions: [not a map"))

	require.Error(t, err)
}
