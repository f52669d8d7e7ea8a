package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/gstplayer/gstplayer/pkg/shell"
	"gopkg.in/yaml.v3"
)

var ConfigPath string

var configs [][]byte

// LoadConfig - apply all configs to v one by one, later config wins
func LoadConfig(v any) {
	for _, data := range configs {
		if err := yaml.Unmarshal(data, v); err != nil {
			Logger.Warn().Err(err).Msg("[app] read config")
		}
	}
}

// RawConfig - all loaded configs as one YAML stream
func RawConfig() []byte {
	return bytes.Join(configs, []byte("\n---\n"))
}

type flagConfig []string

func (c *flagConfig) String() string {
	return strings.Join(*c, " ")
}

func (c *flagConfig) Set(value string) error {
	*c = append(*c, value)
	return nil
}

func initConfig(confs flagConfig) {
	configs = nil

	if confs == nil {
		confs = []string{"gstplayer.yaml"}
	}

	for _, conf := range confs {
		if len(conf) == 0 {
			continue
		}

		if conf[0] == '{' || strings.IndexByte(conf, '\n') >= 0 {
			// config as raw YAML or JSON
			configs = append(configs, []byte(conf))
			continue
		}

		// config as file
		if ConfigPath == "" {
			ConfigPath = conf
		}

		data, _ := os.ReadFile(conf)
		if data == nil {
			continue
		}

		configs = append(configs, []byte(shell.ReplaceEnvVars(string(data))))
	}

	if ConfigPath != "" {
		if !filepath.IsAbs(ConfigPath) {
			if cwd, err := os.Getwd(); err == nil {
				ConfigPath = filepath.Join(cwd, ConfigPath)
			}
		}
		Info["config_path"] = ConfigPath
	}
}
