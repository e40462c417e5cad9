package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "Penams", s.Antibiotics["Ampicillin"])
	assert.Equal(t, "rgb(238, 102, 119)", s.Colours["R"])

	// The file is written on first load.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSettings_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s := DefaultSettings()
	s.Antibiotics["Cefoxitin"] = "Cephalosporins"
	s.Colours["R"] = "rgb(255, 0, 0)"
	require.NoError(t, s.Save(path))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "Cephalosporins", loaded.Antibiotics["Cefoxitin"])
	assert.Equal(t, "rgb(255, 0, 0)", loaded.Colours["R"])
}

func TestClassSelection(t *testing.T) {
	s := DefaultSettings()

	sel := s.ClassSelection([]string{"Ampicillin", "Ciprofloxacin", "Unknowncillin"})
	assert.Equal(t, map[string]string{
		"Ampicillin":    "Penams",
		"Ciprofloxacin": "Fluoroquinolones",
	}, sel)
}

func TestPaths_Layout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "abx")
	p := Paths{Root: root}

	require.NoError(t, p.Ensure())
	for _, dir := range []string{root, p.ProfilesDir(), p.LogsDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	now := time.Date(2021, 3, 25, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join(root, "logs", "21-03-25.log"), p.LogFile(now))
	assert.Equal(t, filepath.Join(root, "settings.yaml"), p.SettingsFile())
}
