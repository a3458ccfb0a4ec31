package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDataset(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "silent"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

var crateDataset = map[string]string{
	"objects/crate.object_config.json": `{"mass": 3, "render_asset": "crate.glb", "user_defined": {"owner": "dock"}}`,
}

func TestLoadCommand(t *testing.T) {
	root := seedDataset(t, crateDataset)

	out, err := run(t, "load", "-d", root)
	require.NoError(t, err)
	assert.Contains(t, out, "FAMILY")
	assert.Regexp(t, `objects\s+1\s+1`, out)
	assert.Regexp(t, `primitives\s+0\s+12`, out)
	assert.Contains(t, out, "0 warnings, 0 failed")
}

func TestLoadCommandStrict(t *testing.T) {
	root := seedDataset(t, map[string]string{
		"objects/odd.object_config.json": `{"mass": "heavy"}`,
	})

	out, err := run(t, "load", "-d", root)
	require.NoError(t, err)
	assert.Contains(t, out, "warning: objects/odd.object_config.json: mass")

	_, err = run(t, "load", "--strict", "-d", root)
	require.Error(t, err)
	assert.Equal(t, ExitWarnings, ExitCode(err))
}

func TestLoadCommandFailure(t *testing.T) {
	root := seedDataset(t, map[string]string{
		"objects/broken.object_config.json": `{"mass": `,
	})
	out, err := run(t, "load", "-d", root)
	require.Error(t, err)
	assert.Equal(t, ExitLoadFailed, ExitCode(err))
	assert.Contains(t, out, "failed: ")
}

func TestInspectCommand(t *testing.T) {
	root := seedDataset(t, crateDataset)
	handle := "objects/crate.object_config.json"

	out, err := run(t, "inspect", "objects", "-d", root)
	require.NoError(t, err)
	assert.Contains(t, out, handle)

	out, err = run(t, "inspect", "objects", handle, "-o", "json", "-d", root)
	require.NoError(t, err)
	var desc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	assert.Equal(t, handle, desc["handle"])
	assert.Equal(t, "dock", desc["user_defined"].(map[string]any)["owner"])

	out, err = run(t, "inspect", "objects", handle, "-o", "yaml", "-d", root)
	require.NoError(t, err)
	assert.Contains(t, out, "mass: 3")
	assert.Contains(t, out, "owner: dock")

	out, err = run(t, "inspect", "objects", handle, "-d", root)
	require.NoError(t, err)
	assert.Regexp(t, `render_asset\s+crate.glb`, out)
	assert.Regexp(t, `user_defined.owner\s+dock`, out)
}

func TestInspectPrimitivesCSV(t *testing.T) {
	out, err := run(t, "inspect", "primitives", "--filter", "uvSphere", "-o", "csv", "-d", t.TempDir())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Solid and wireframe spheres are different classes, each with a header.
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Class,Handle,ID,"))
	assert.True(t, strings.HasPrefix(lines[1], "uvSphereSolid,uvSphereSolid_"))
	assert.True(t, strings.HasPrefix(lines[2], "Class,Handle,ID,"))
	assert.True(t, strings.HasPrefix(lines[3], "uvSphereWireframe,uvSphereWireframe_"))
}

func TestInspectErrors(t *testing.T) {
	root := t.TempDir()

	_, err := run(t, "inspect", "vehicles", "-d", root)
	assert.Equal(t, ExitNotFound, ExitCode(err))

	_, err = run(t, "inspect", "objects", "nope", "-d", root)
	assert.Equal(t, ExitNotFound, ExitCode(err))

	_, err = run(t, "inspect", "objects", "-o", "xml", "-d", root)
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestConfigErrors(t *testing.T) {
	_, err := run(t, "load", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ExitConfigError, ExitCode(err))

	cfgPath := filepath.Join(t.TempDir(), "simmeta.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: loud\n"), 0o644))
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"load", "--config", cfgPath})
	assert.Equal(t, ExitConfigError, ExitCode(cmd.Execute()))
}
