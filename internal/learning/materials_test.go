package learning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMaterialsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "materials.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMaterials(t *testing.T) {
	t.Run("Valid Catalogue", func(t *testing.T) {
		path := writeMaterialsFile(t, `[
			{
				"file_name": "Git Fundamentals",
				"level": "Beginner",
				"rows": [
					{"module": "Git Fundamentals", "topics": "Intro", "duration": 120, "link": "https://example.com/git"},
					{"module": "Git Fundamentals", "topics": "git commit"}
				]
			}
		]`)

		materials, err := LoadMaterials(path)
		require.NoError(t, err)
		require.Len(t, materials, 1)
		assert.Equal(t, "Git Fundamentals", materials[0].FileName)
		assert.Equal(t, "Beginner", materials[0].Level)
		assert.Equal(t, 2, materials[0].RowCount)
		assert.Equal(t, 120.0, materials[0].Rows[0].Duration)
	})

	t.Run("Row Count Is Derived", func(t *testing.T) {
		path := writeMaterialsFile(t, `[
			{"file_name": "SDLC", "level": "Intermediate", "row_count": 99, "rows": [{"module": "SDLC", "topics": "Introduction"}]}
		]`)

		materials, err := LoadMaterials(path)
		require.NoError(t, err)
		assert.Equal(t, 1, materials[0].RowCount)
	})

	t.Run("Missing File Name", func(t *testing.T) {
		path := writeMaterialsFile(t, `[{"level": "Advanced", "rows": []}]`)

		_, err := LoadMaterials(path)
		assert.Error(t, err)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadMaterials(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		path := writeMaterialsFile(t, `{not json`)

		_, err := LoadMaterials(path)
		assert.Error(t, err)
	})
}
