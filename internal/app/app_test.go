package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bethropolis/bmt/internal/config"
	"github.com/bethropolis/bmt/internal/fsys"
	"github.com/bethropolis/bmt/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/home/user/game"

func newApp(t *testing.T, mem *fsys.Memory, dir string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.New()
	cfg.Dir = dir
	cfg.Quiet = true
	cfg.JSONOutput = true

	var out, errOut bytes.Buffer
	a := New(cfg, mem, &out, &errOut)
	a.now = func() int64 { return 1234 }
	return a, &out
}

func gameTree(t *testing.T) *fsys.Memory {
	t.Helper()
	mem := fsys.NewMemory(root)
	files := map[string]string{
		"mods/a/manifest.json": `{"name": "Mod A", "version": "1.0.0"}`,
		"temp/manifest.json":   `{"name": "Temp", "version": "1.0.0"}`,
		".gitignore":           "temp/\n",
	}
	for p, content := range files {
		require.NoError(t, mem.WriteFile(root+"/"+p, []byte(content), 0o644))
	}
	return mem
}

func TestRunInitCreatesProject(t *testing.T) {
	mem := gameTree(t)
	a, out := newApp(t, mem, root)

	require.NoError(t, a.RunInit())

	st, err := project.Load(mem, root)
	require.NoError(t, err)
	assert.Equal(t, root, st.RootPath)
	assert.EqualValues(t, 1234, st.LastScanMilliseconds)
	require.Len(t, st.DiscoveredMods, 1)
	assert.Equal(t, "Mod A", st.DiscoveredMods[0].Name)
	assert.True(t, st.DiscoveredMods[0].Included)

	// --json output decodes back to the mod list.
	var printed []project.DiscoveredMod
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	require.Len(t, printed, 1)
	assert.Equal(t, "Mod A", printed[0].Name)
}

func TestRunInitRefusesExistingProject(t *testing.T) {
	mem := gameTree(t)
	require.NoError(t, mem.WriteFile(project.StatePath(root), []byte("{}"), 0o644))

	a, _ := newApp(t, mem, root)
	assert.Error(t, a.RunInit())
}

func TestRunInitMissingDirectory(t *testing.T) {
	mem := fsys.NewMemory(root)
	a, _ := newApp(t, mem, "/nope")
	assert.Error(t, a.RunInit())
}

func TestRunFindModsFromSubdirectoryPreservesDecisions(t *testing.T) {
	mem := gameTree(t)

	// An earlier scan recorded Mod A, and the user excluded it.
	st := &project.State{
		RootPath: root,
		DiscoveredMods: []project.DiscoveredMod{
			{Name: "Mod A", ManifestPath: root + "/mods/a/manifest.json", Included: false, DiscoveredAt: 7},
		},
	}
	require.NoError(t, project.Save(mem, root, st))

	a, _ := newApp(t, mem, root+"/mods")
	require.NoError(t, a.RunFindMods())

	loaded, err := project.Load(mem, root)
	require.NoError(t, err)
	require.Len(t, loaded.DiscoveredMods, 1)
	assert.False(t, loaded.DiscoveredMods[0].Included)
	assert.EqualValues(t, 7, loaded.DiscoveredMods[0].DiscoveredAt)
	assert.EqualValues(t, 1234, loaded.LastScanMilliseconds)
}

func TestRunFindModsOutsideProject(t *testing.T) {
	mem := fsys.NewMemory(root)
	a, _ := newApp(t, mem, root)
	err := a.RunFindMods()
	require.Error(t, err)
	assert.ErrorIs(t, err, project.ErrNoProject)
}

func TestRunFindModsMalformedState(t *testing.T) {
	mem := gameTree(t)
	require.NoError(t, mem.WriteFile(project.StatePath(root), []byte("{ nope"), 0o644))

	a, _ := newApp(t, mem, root)
	err := a.RunFindMods()
	require.Error(t, err)

	var malformed *project.MalformedStateError
	assert.ErrorAs(t, err, &malformed)
}
