package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gstplayer.yaml")
	t.Setenv("TEST_SINK", "fakesink")

	err := os.WriteFile(path, []byte("player:\n  sink: ${TEST_SINK}\n  autoplay: true\n"), 0644)
	require.NoError(t, err)

	ConfigPath = ""
	initConfig(flagConfig{path, `{player: {pipeline: "videotestsrc"}}`})
	require.Equal(t, path, ConfigPath)

	var cfg struct {
		Mod struct {
			Sink     string `yaml:"sink"`
			Pipeline string `yaml:"pipeline"`
			Autoplay bool   `yaml:"autoplay"`
		} `yaml:"player"`
	}
	LoadConfig(&cfg)

	require.Equal(t, "fakesink", cfg.Mod.Sink)
	require.Equal(t, "videotestsrc", cfg.Mod.Pipeline)
	require.True(t, cfg.Mod.Autoplay)

	require.Contains(t, string(RawConfig()), "sink: fakesink")
}

func TestLoadConfigMissingFile(t *testing.T) {
	ConfigPath = ""
	initConfig(flagConfig{filepath.Join(t.TempDir(), "none.yaml")})

	var cfg struct {
		Mod map[string]string `yaml:"log"`
	}
	LoadConfig(&cfg)
	require.Nil(t, cfg.Mod)
}
