package ignore

import (
	"testing"

	"github.com/bethropolis/bmt/internal/fsys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/project"

func newTree(t *testing.T, files map[string]string) *fsys.Memory {
	t.Helper()
	mem := fsys.NewMemory(root)
	for path, content := range files {
		require.NoError(t, mem.WriteFile(root+"/"+path, []byte(content), 0o644))
	}
	return mem
}

func TestEngineRootGitignore(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore": "*.log\ntemp/\n",
		"app.log":    "",
		"app.txt":    "",
		"temp/x":     "",
	})
	e := NewEngine(mem, root)

	assert.True(t, e.IsIgnored(root+"/app.log").Ignored)
	assert.False(t, e.IsIgnored(root+"/app.txt").Ignored)
	assert.True(t, e.IsIgnored(root+"/temp").Ignored)
}

func TestEngineRootItselfNeverIgnored(t *testing.T) {
	mem := newTree(t, map[string]string{".gitignore": "*\n"})
	e := NewEngine(mem, root)
	assert.False(t, e.IsIgnored(root).Ignored)
}

func TestEngineLastMatchWins(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore": "*.log\n!keep.log\n",
		"a.log":      "",
		"keep.log":   "",
	})
	e := NewEngine(mem, root)

	res := e.IsIgnored(root + "/a.log")
	assert.True(t, res.Ignored)
	require.NotNil(t, res.Pattern)
	assert.Equal(t, "*.log", res.Pattern.Text)

	res = e.IsIgnored(root + "/keep.log")
	assert.False(t, res.Ignored)
	require.NotNil(t, res.Pattern, "a negation match still reports the deciding pattern")
	assert.True(t, res.Pattern.Negation)
}

func TestEngineNegationBeforePatternLoses(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore": "!keep.log\n*.log\n",
		"keep.log":   "",
	})
	e := NewEngine(mem, root)
	// The negation comes first, so the broad pattern wins.
	assert.True(t, e.IsIgnored(root+"/keep.log").Ignored)
}

func TestEngineParentShadow(t *testing.T) {
	// Negation cannot re-include a file whose parent directory is ignored.
	mem := newTree(t, map[string]string{
		".gitignore":         "logs/\n!logs/important.log\n",
		"logs/important.log": "",
		"logs/other.log":     "",
	})
	e := NewEngine(mem, root)

	assert.True(t, e.IsIgnored(root+"/logs").Ignored)

	res := e.IsIgnored(root + "/logs/important.log")
	assert.True(t, res.Ignored, "shadowed by the ignored parent")
	require.NotNil(t, res.Pattern)
	assert.Equal(t, "logs", res.Pattern.Text, "the deciding pattern is the one that ignored the parent")

	assert.True(t, e.IsIgnored(root+"/logs/other.log").Ignored)
}

func TestEngineDeepParentShadow(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore":   "logs/\n",
		"logs/a/b/c.x": "",
	})
	e := NewEngine(mem, root)
	assert.True(t, e.IsIgnored(root+"/logs/a/b/c.x").Ignored, "shadow reaches arbitrary depth")
	assert.True(t, e.IsIgnored(root+"/logs/a/b").Ignored)
}

func TestEngineNestedGitignoreRelativity(t *testing.T) {
	mem := newTree(t, map[string]string{
		"src/.gitignore":       "sub/secret.txt\n",
		"src/sub/secret.txt":   "",
		"sub/secret.txt":       "",
		"other/sub/secret.txt": "",
	})
	e := NewEngine(mem, root)

	assert.True(t, e.IsIgnored(root+"/src/sub/secret.txt").Ignored)
	assert.False(t, e.IsIgnored(root+"/sub/secret.txt").Ignored)
	assert.False(t, e.IsIgnored(root+"/other/sub/secret.txt").Ignored)
}

func TestEngineNestedNegationOverridesParentPattern(t *testing.T) {
	// A child .gitignore is appended after the inherited patterns, so its
	// negations win for paths that are not shadowed.
	mem := newTree(t, map[string]string{
		".gitignore":     "*.log\n",
		"src/.gitignore": "!keep.log\n",
		"src/keep.log":   "",
		"src/drop.log":   "",
		"top.log":        "",
	})
	e := NewEngine(mem, root)

	assert.False(t, e.IsIgnored(root+"/src/keep.log").Ignored)
	assert.True(t, e.IsIgnored(root+"/src/drop.log").Ignored)
	assert.True(t, e.IsIgnored(root+"/top.log").Ignored)
}

func TestEngineDoubleStarMiddleScenario(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore": "a/**/b\n",
		"a/b/file":   "",
		"a/x/b":      "",
		"a/x/y/z/b":  "",
		"b":          "",
	})
	e := NewEngine(mem, root)

	assert.True(t, e.IsIgnored(root+"/a/b").Ignored)
	assert.True(t, e.IsIgnored(root+"/a/x/b").Ignored)
	assert.True(t, e.IsIgnored(root+"/a/x/y/z/b").Ignored)
	assert.True(t, e.IsIgnored(root+"/a/b/file").Ignored, "file under an ignored directory")
	assert.False(t, e.IsIgnored(root+"/b").Ignored)
}

func TestEngineInfoExclude(t *testing.T) {
	mem := newTree(t, map[string]string{
		".git/info/exclude": "*.bak\n",
		"old.bak":           "",
	})
	e := NewEngine(mem, root)
	assert.True(t, e.IsIgnored(root+"/old.bak").Ignored)
}

func TestEngineAdditionalPatternsWin(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore": "!custom/\n",
		"custom/x":   "",
	})
	e := NewEngine(mem, root, WithAdditionalPatterns([]string{"custom"}))
	// Additional patterns sit after file patterns in the root stack.
	assert.True(t, e.IsIgnored(root+"/custom").Ignored)
}

func TestEngineWithoutGitignoreFiles(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore":        "*.log\n",
		".git/info/exclude": "*.bak\n",
		"a.log":             "",
		"old.bak":           "",
		"custom_ignored/m":  "",
	})
	e := NewEngine(mem, root,
		WithGitignoreFiles(false),
		WithAdditionalPatterns([]string{"custom_ignored"}),
	)

	assert.False(t, e.IsIgnored(root+"/a.log").Ignored, ".gitignore not read")
	assert.False(t, e.IsIgnored(root+"/old.bak").Ignored, "exclude file not read")
	assert.True(t, e.IsIgnored(root+"/custom_ignored").Ignored, "additional patterns still apply")
}

func TestEngineMissingMetadataIsNotADirectory(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore": "ghost/\n",
	})
	e := NewEngine(mem, root)
	// The path does not exist; directory-only patterns cannot match it.
	assert.False(t, e.IsIgnored(root+"/ghost").Ignored)
}

func TestEngineOutsideRoot(t *testing.T) {
	mem := newTree(t, map[string]string{".gitignore": "*\n"})
	e := NewEngine(mem, root)
	assert.False(t, e.IsIgnored("/elsewhere/file").Ignored)
}

func TestEngineCacheDeterminism(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore":     "*.log\n",
		"src/.gitignore": "!keep.log\n",
		"src/keep.log":   "",
		"src/drop.log":   "",
	})
	e := NewEngine(mem, root)

	paths := []string{
		root + "/src/keep.log",
		root + "/src/drop.log",
		root + "/src",
	}

	before := make([]Result, len(paths))
	for i, p := range paths {
		before[i] = e.IsIgnored(p)
		// Repeated queries hit the cache and agree.
		assert.Equal(t, before[i].Ignored, e.IsIgnored(p).Ignored)
	}

	e.ClearCache()

	for i, p := range paths {
		after := e.IsIgnored(p)
		assert.Equal(t, before[i].Ignored, after.Ignored, "path %q", p)
		if before[i].Pattern != nil {
			require.NotNil(t, after.Pattern)
			assert.Equal(t, before[i].Pattern.Text, after.Pattern.Text)
		}
	}
}

func TestEngineMalformedLineSkipped(t *testing.T) {
	// An invalid character class fails to compile; the other lines
	// still apply.
	mem := newTree(t, map[string]string{
		".gitignore": "[z-a]\n*.log\n",
		"a.log":      "",
		"a.txt":      "",
	})
	e := NewEngine(mem, root)
	assert.True(t, e.IsIgnored(root+"/a.log").Ignored)
	assert.False(t, e.IsIgnored(root+"/a.txt").Ignored)
}

func TestEngineCheckWithKnownType(t *testing.T) {
	mem := newTree(t, map[string]string{
		".gitignore": "build/\n",
	})
	e := NewEngine(mem, root)

	assert.True(t, e.Check("build", true).Ignored)
	assert.False(t, e.Check("build", false).Ignored)
}
