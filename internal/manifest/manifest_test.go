package manifest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	splintererrors "github.com/alexisbeaulieu97/splinter/pkg/errors"
)

func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeJar(t *testing.T, dir, name string, files map[string][]byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buildZip(t, files), 0o644))
	return path
}

func fabricJSON(body string) map[string][]byte {
	return map[string][]byte{FabricEntry: []byte(body)}
}

func TestClassifyAndTargetPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		state  FileState
		ok     bool
		jar    string
		lock   plugin.Lock
		active bool
		target string
	}{
		{name: "mods/a.jar", state: FileEnabled, ok: true, jar: "mods/a.jar", active: true, target: "mods/a.jar"},
		{name: "mods/a.jar", state: FileEnabled, ok: true, jar: "mods/a.jar", target: "mods/a.jar.tempdisabled"},
		{name: "mods/a.jar", state: FileEnabled, ok: true, jar: "mods/a.jar", lock: plugin.LockDisabled, target: "mods/a.jar.disabled"},
		{name: "mods/a.jar.disabled", state: FileForceDisabled, ok: true, jar: "mods/a.jar", lock: plugin.LockEnabled, active: true, target: "mods/a.jar"},
		{name: "mods/a.jar.tempdisabled", state: FileTempDisabled, ok: true, jar: "mods/a.jar", active: true, target: "mods/a.jar"},
		{name: "mods/a.jar.tempdisabled", state: FileTempDisabled, ok: true, jar: "mods/a.jar", lock: plugin.LockDisabled, target: "mods/a.jar.disabled"},
		{name: "mods/readme.txt", ok: false, jar: "mods/readme.txt", lock: plugin.LockDisabled, target: "mods/readme.txt"},
	}

	for _, tc := range cases {
		state, ok := Classify(tc.name)
		require.Equal(t, tc.ok, ok, tc.name)
		if ok {
			require.Equal(t, tc.state, state, tc.name)
		}
		jar, _ := JarPath(tc.name)
		require.Equal(t, tc.jar, jar, tc.name)
		require.Equal(t, tc.target, TargetPath(tc.name, tc.lock, tc.active), tc.name)
	}
}

func TestReadFabricWithBundledJars(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inner := buildZip(t, fabricJSON(`{"schemaVersion":1,"id":"fabric-networking","version":"1.0","depends":{"fabric-base":"*"}}`))
	broken := []byte("not a zip")
	path := writeJar(t, dir, "fabric-api.jar", map[string][]byte{
		FabricEntry: []byte(`{
			"schemaVersion": 1,
			"id": "fabric-api",
			"version": "0.92.0",
			"name": "Fabric API",
			"provides": ["fabric"],
			"depends": {"fabricloader": ">=0.15", "minecraft": ["1.20.1", "1.20.2"]},
			"jars": [{"file": "META-INF/jars/networking.jar"}, {"file": "META-INF/jars/broken.jar"}]
		}`),
		"META-INF/jars/networking.jar": inner,
		"META-INF/jars/broken.jar":     broken,
	})

	r := NewReader(WithStability(func(id string) int {
		if id == "fabric-api" {
			return 10
		}
		return 0
	}))
	rec, err := r.Read(path)
	require.NoError(t, err)
	require.NoError(t, rec.Validate())

	assert.Equal(t, "fabric-api", rec.ID)
	assert.Equal(t, "Fabric API", rec.Name)
	assert.Equal(t, []string{"fabric"}, rec.Provides)
	assert.Equal(t, []string{"fabricloader", "minecraft"}, rec.DependsOn)
	assert.Equal(t, 10, rec.Stability)
	assert.Equal(t, plugin.StatusEnabled, rec.Status)
	assert.Equal(t, plugin.LockNone, rec.Lock)
	assert.Equal(t, path, rec.Source)
	require.Len(t, rec.Contains, 1)
	assert.Equal(t, "fabric-networking", rec.Contains[0].ID)

	p := rec.ToPlugin()
	assert.Equal(t, []string{"fabric-networking"}, p.Modules)
	assert.Equal(t, []string{"fabric-base", "fabricloader", "minecraft"}, p.DependsOn)
}

func TestReadForceDisabled(t *testing.T) {
	t.Parallel()

	path := writeJar(t, t.TempDir(), "sodium.jar.disabled", fabricJSON(`{"id":"sodium","version":"0.5"}`))
	rec, err := NewReader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, plugin.StatusDisabled, rec.Status)
	assert.Equal(t, plugin.LockDisabled, rec.Lock)
	assert.Equal(t, path, rec.Source)
}

func TestReadTempDisabledRenamesBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeJar(t, dir, "lithium.jar.tempdisabled", fabricJSON(`{"id":"lithium","version":"0.11"}`))
	rec, err := NewReader().Read(path)
	require.NoError(t, err)

	restored := filepath.Join(dir, "lithium.jar")
	assert.Equal(t, restored, rec.Source)
	assert.Equal(t, plugin.StatusEnabled, rec.Status)
	assert.FileExists(t, restored)
	assert.NoFileExists(t, path)
}

func TestReadForgeManifest(t *testing.T) {
	t.Parallel()

	path := writeJar(t, t.TempDir(), "create.jar", map[string][]byte{
		"META-INF/mods.toml": []byte(`
modLoader = "javafml"
loaderVersion = "[47,)"

[[mods]]
modId = "create"
version = "0.5.1"
displayName = "Create"

[[mods]]
modId = "flywheel"
displayName = "Flywheel"

[[dependencies.create]]
modId = "forge"
mandatory = true

[[dependencies.create]]
modId = "jei"
mandatory = false

[[dependencies.flywheel]]
modId = "minecraft"
type = "required"

[[dependencies.flywheel]]
modId = "sodium"
type = "incompatible"
`),
	})

	rec, err := NewReader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, "create", rec.ID)
	assert.Equal(t, "Create", rec.Name)
	assert.Equal(t, []string{"forge"}, rec.DependsOn)
	require.Len(t, rec.Contains, 1)
	assert.Equal(t, "flywheel", rec.Contains[0].ID)
	assert.Equal(t, []string{"minecraft"}, rec.Contains[0].DependsOn)
}

func TestReadFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewReader()

	rec, err := r.Read(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	require.Nil(t, rec)

	empty := writeJar(t, dir, "empty.jar", map[string][]byte{"assets/icon.png": {1, 2, 3}})
	_, err = r.Read(empty)
	require.ErrorIs(t, err, ErrNoMetadata)

	invalid := writeJar(t, dir, "invalid.jar", fabricJSON(`{"version":"1.0"}`))
	_, err = r.Read(invalid)
	var archiveErr *splintererrors.ArchiveError
	require.ErrorAs(t, err, &archiveErr)
	require.Equal(t, FabricEntry, archiveErr.Entry)
	require.Contains(t, err.Error(), "schema validation")

	garbage := filepath.Join(dir, "garbage.jar")
	require.NoError(t, os.WriteFile(garbage, []byte("nope"), 0o644))
	_, err = r.Read(garbage)
	require.ErrorAs(t, err, &archiveErr)
	require.Empty(t, archiveErr.Entry)
}

func TestDiscoverHonorsIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.jar", "b.jar.disabled", "c.jar.tempdisabled", "d-dev.jar", "readme.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jar"), 0o755))

	paths, err := Discover(dir, []string{"*-dev.jar"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.jar"),
		filepath.Join(dir, "b.jar.disabled"),
		filepath.Join(dir, "c.jar.tempdisabled"),
	}, paths)

	_, err = Discover(filepath.Join(dir, "missing"), nil)
	require.Error(t, err)
}

func TestRestoreTemporary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.jar.tempdisabled", "b.jar.tempdisabled", "c.jar.disabled"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	n, err := RestoreTemporary(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(dir, "a.jar"))
	assert.FileExists(t, filepath.Join(dir, "b.jar"))
	assert.FileExists(t, filepath.Join(dir, "c.jar.disabled"))
}
