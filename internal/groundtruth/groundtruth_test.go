package groundtruth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
technology:
  Cat 6 Cable (ft): 920
  J-Hook: 230
controls:
  Power Pack: 18
power:
  Duplex Receptacle: 30
`

func TestParse(t *testing.T) {
	ref, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 4, ref.Len())
	assert.Equal(t, []string{"controls", "power", "technology"}, ref.Categories())

	items := ref.Items()
	assert.Equal(t, 920, items["Cat 6 Cable (ft)"])
	assert.Equal(t, 18, items["Power Pack"])
}

func TestCategoryLookup(t *testing.T) {
	ref, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "technology", ref.Category("J-Hook"))
	assert.Equal(t, "controls", ref.Category("Power Pack"))
	assert.Equal(t, UncategorizedName, ref.Category("Unlisted Widget"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	ref, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 230, ref.Items()["J-Hook"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("technology: [not, a, map]"))
	assert.Error(t, err)
}

func TestNew_SkipsEmptyCategories(t *testing.T) {
	ref := New(map[string]map[string]int{
		"technology": {"J-Hook": 230},
		"empty":      {},
	})
	assert.Equal(t, []string{"technology"}, ref.Categories())
}
