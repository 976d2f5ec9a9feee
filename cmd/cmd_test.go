package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TFMV/nodecanvas/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScene = `{
  "name": "cli",
  "nodes": [
    {"id": "a", "title": "A", "position": {"x": 0, "y": 0}, "outputs": [{"name": "out"}]},
    {"id": "b", "title": "B", "position": {"x": 300, "y": 80}, "inputs": [{"name": "in"}]}
  ]
}`

const testScript = `{"steps": [
  {"op": "pick", "node": "a"},
  {"op": "resolve", "node": "b"}
]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScene(t *testing.T) {
	dir := t.TempDir()

	doc, err := loadScene(writeFile(t, dir, "scene.json", testScene))
	require.NoError(t, err)
	assert.Len(t, doc.Nodes(), 2)

	doc, err = loadScene(writeFile(t, dir, "edges.CSV", "source,target\nx,y\n"))
	require.NoError(t, err)
	assert.Len(t, doc.AllConnections(), 1)

	_, err = loadScene(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadScript(t *testing.T) {
	script, err := loadScript("")
	require.NoError(t, err)
	assert.Empty(t, script.Steps)

	script, err = loadScript(writeFile(t, t.TempDir(), "input.json", testScript))
	require.NoError(t, err)
	assert.Len(t, script.Steps, 2)
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	scene := writeFile(t, dir, "scene.json", testScene)
	script := writeFile(t, dir, "input.json", testScript)
	out := filepath.Join(dir, "view.svg")

	err := runRender(scene, renderFlags{format: "svg", output: out, script: script, fit: true})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), `class="connection"`))
}

func TestRunRender_Arrange(t *testing.T) {
	dir := t.TempDir()
	scene := writeFile(t, dir, "edges.csv", "from,to\na,b\nb,c\nc,a\n")
	out := filepath.Join(dir, "view.json")

	err := runRender(scene, renderFlags{format: "json", output: out, arrange: true, algorithm: "noise", seed: 7})
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestRunRender_BadFormat(t *testing.T) {
	dir := t.TempDir()
	scene := writeFile(t, dir, "scene.json", testScene)

	err := runRender(scene, renderFlags{format: "webgl"})
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "nodecanvas "+version+"\n", buf.String())
}

func TestRunConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodecanvas.toml")

	var buf bytes.Buffer
	require.NoError(t, runConfigInit(&buf, path, false))
	assert.Contains(t, buf.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	assert.Error(t, runConfigInit(&buf, path, false), "existing file must not be replaced")
	assert.NoError(t, runConfigInit(&buf, path, true))
}
