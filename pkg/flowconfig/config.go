// Package flowconfig holds the on-disk configuration shared by the
// FlowBoard CLI and the local sandbox server.
package flowconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL   = "http://127.0.0.1:5000"
	DefaultOutput      = "text"
	DefaultSandboxAddr = "127.0.0.1:5000"
)

type Config struct {
	ServerURL string        `yaml:"server_url"`
	CLI       CLIConfig     `yaml:"cli"`
	Sandbox   SandboxConfig `yaml:"sandbox"`
}

type CLIConfig struct {
	Output string `yaml:"output"`
}

type SandboxConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		ServerURL: DefaultServerURL,
		CLI: CLIConfig{
			Output: DefaultOutput,
		},
		Sandbox: SandboxConfig{
			Addr: DefaultSandboxAddr,
		},
	}
}

func ConfigPath(home string) string {
	return filepath.Join(home, ".config", "flowboard", "config.yaml")
}

func LoadOrInit(home string) (Config, error) {
	path := ConfigPath(home)
	defaults := Default()

	cfg, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := SaveFile(path, defaults); err != nil {
				return Config{}, err
			}
			return defaults, nil
		}
		return Config{}, err
	}

	merged := Merge(defaults, cfg)
	if merged != cfg {
		if err := SaveFile(path, merged); err != nil {
			return Config{}, err
		}
	}

	return merged, nil
}

func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	return normalize(cfg), nil
}

func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(normalize(cfg))
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func Merge(defaults Config, user Config) Config {
	out := normalize(defaults)
	in := normalize(user)

	if in.ServerURL != "" {
		out.ServerURL = in.ServerURL
	}

	if in.CLI.Output != "" {
		out.CLI.Output = in.CLI.Output
	}

	if in.Sandbox.Addr != "" {
		out.Sandbox.Addr = in.Sandbox.Addr
	}

	return out
}

func normalize(cfg Config) Config {
	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	cfg.CLI.Output = strings.TrimSpace(cfg.CLI.Output)
	cfg.Sandbox.Addr = strings.TrimSpace(cfg.Sandbox.Addr)
	return cfg
}
