package corpus

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemCorpus(t *testing.T, files map[string]string) *Corpus {
	t.Helper()

	memFs := afero.NewMemMapFs()
	require.NoError(t, memFs.MkdirAll("/src", 0755))
	for path, content := range files {
		require.NoError(t, afero.WriteFile(memFs, "/src/"+path, []byte(content), 0644))
	}

	c, err := Open(memFs, "/src")
	require.NoError(t, err)
	return c
}

func TestCorpus_Glob(t *testing.T) {
	c := newMemCorpus(t, map[string]string{
		"talker/src/talker.cpp":             "",
		"listener/src/listener.cc":          "",
		"bringup/launch/robot.launch.xml":   "",
		"bringup/launch/sensors.launch.xml": "",
		"bringup/package.xml":               "",
		"README.md":                         "",
	})

	t.Run("recursive extension set", func(t *testing.T) {
		matches, err := c.Glob("**/*.{cpp,cc}")
		require.NoError(t, err)
		assert.Equal(t, []string{"listener/src/listener.cc", "talker/src/talker.cpp"}, matches)
	})

	t.Run("include style pattern", func(t *testing.T) {
		matches, err := c.Glob("**/launch/sensors.launch.xml")
		require.NoError(t, err)
		assert.Equal(t, []string{"bringup/launch/sensors.launch.xml"}, matches)
	})

	t.Run("globbing twice yields the same result", func(t *testing.T) {
		first, err := c.Glob("**/*.xml")
		require.NoError(t, err)
		second, err := c.Glob("**/*.xml")
		require.NoError(t, err)
		assert.Len(t, first, 3)
		assert.Equal(t, first, second)
	})

	t.Run("no match", func(t *testing.T) {
		matches, err := c.Glob("**/*.py")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestCorpus_ReadFileStripsBOM(t *testing.T) {
	c := newMemCorpus(t, map[string]string{
		"node.cpp": "\xef\xbb\xbfint main() {}",
	})

	data, err := c.ReadFile("node.cpp")
	require.NoError(t, err)
	assert.Equal(t, "int main() {}", string(data))
	assert.Equal(t, "/src/node.cpp", c.Path("node.cpp"))
}

func TestOpen_Errors(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/file.txt", []byte("x"), 0644))

	_, err := Open(memFs, "/missing")
	assert.ErrorIs(t, err, ErrSourceMissing)

	_, err = Open(memFs, "/file.txt")
	assert.ErrorIs(t, err, ErrNotDirectory)
}
