package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vls-mesh/internal/gene"
	"vls-mesh/internal/mesh"
	"vls-mesh/internal/vls"
)

func seedGenes(t *testing.T) (string, []string) {
	t.Helper()
	root := t.TempDir()
	progs := map[string]string{
		"tri.gene":        "A-B-C",
		"trees/oak.gene":  "C-E-UN-A^4",
		"empty/none.gene": "",
	}
	for rel, prog := range progs {
		require.NoError(t, gene.Write(filepath.Join(root, filepath.FromSlash(rel)), prog))
	}
	paths, err := gene.Walk(root)
	require.NoError(t, err)
	return root, paths
}

func TestRunWritesMeshesAndPreviews(t *testing.T) {
	root, paths := seedGenes(t)
	out := t.TempDir()

	results := Run(Config{GeneDir: root, OutputDir: out, PreviewSize: 32, Supersample: 2, Workers: 3}, paths)
	require.Len(t, results, 3)

	byName := map[string]Result{}
	for i, r := range results {
		assert.Equal(t, filepath.ToSlash(paths[i]), r.Source, "results keep input order")
		assert.True(t, r.Success, r.Error)
		byName[r.Name] = r
	}

	tri := byName["tri"]
	assert.Equal(t, 3, tri.Vertices)
	assert.Equal(t, 1, tri.Triangles)
	assert.Equal(t, "tri.vlsb", tri.Mesh)
	assert.Equal(t, "tri.webp", tri.Preview)

	data, err := os.ReadFile(filepath.Join(out, "tri.vlsb"))
	require.NoError(t, err)
	b, err := mesh.UnmarshalCanonical(data)
	require.NoError(t, err)
	digest, err := b.Digest()
	require.NoError(t, err)
	assert.Equal(t, tri.Digest, digest)
	assert.Equal(t, vls.Decode("A-B-C").Mesh.Vertices, b.Vertices)

	webp, err := os.ReadFile(filepath.Join(out, "tri.webp"))
	require.NoError(t, err)
	require.Greater(t, len(webp), 12)
	assert.Equal(t, "RIFF", string(webp[:4]))
	assert.Equal(t, "WEBP", string(webp[8:12]))

	oak := byName["trees/oak"]
	require.Len(t, oak.Warnings, 1)
	assert.Equal(t, vls.WarnUnknownToken, oak.Warnings[0].Code)
	assert.FileExists(t, filepath.Join(out, "trees", "oak.vlsb"))

	none := byName["empty/none"]
	assert.Zero(t, none.Vertices)
	assert.FileExists(t, filepath.Join(out, "empty", "none.webp"))
}

func TestProcessFileNoPreview(t *testing.T) {
	root, _ := seedGenes(t)
	out := t.TempDir()
	res := ProcessFile(Config{GeneDir: root, OutputDir: out, NoPreview: true}, filepath.Join(root, "tri.gene"))
	require.True(t, res.Success)
	assert.Empty(t, res.Preview)
	assert.NoFileExists(t, filepath.Join(out, "tri.webp"))
}

func TestProcessFileMissing(t *testing.T) {
	root := t.TempDir()
	res := ProcessFile(Config{GeneDir: root, OutputDir: t.TempDir()}, filepath.Join(root, "gone.gene"))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "gone.gene")
}

func TestWriteManifest(t *testing.T) {
	results := []Result{
		{Name: "a", Success: true},
		{Name: "b", Success: true, Warnings: []vls.Warning{{Index: 1, Chunk: "UN", Code: vls.WarnUnknownToken}}},
		{Name: "c", Error: "boom"},
	}
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, WriteManifest(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		Total, Succeeded, Failed, Warned int
		Files                            []struct {
			Name     string
			Warnings []struct{ Code string }
		}
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Succeeded)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 1, got.Warned)
	require.Len(t, got.Files, 3)
	assert.Equal(t, "unknown-token", got.Files[1].Warnings[0].Code)
}

func TestProcessFileUnknownView(t *testing.T) {
	root, _ := seedGenes(t)
	res := ProcessFile(Config{GeneDir: root, OutputDir: t.TempDir(), View: "fisheye"}, filepath.Join(root, "tri.gene"))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "fisheye")
	assert.NotEmpty(t, res.Mesh, "mesh is written before the preview")
}
