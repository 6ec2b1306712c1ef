package flowboard

import (
	"strings"

	"github.com/flowboardhq/flowboard/internal/session"
	"github.com/flowboardhq/flowboard/pkg/flowconfig"
)

type Config struct {
	ServerURL   string `yaml:"server_url"`
	Output      Output `yaml:"output"`
	SessionPath string `yaml:"session_path"`
	SandboxAddr string `yaml:"sandbox_addr"`
}

func DefaultConfig(home string) Config {
	shared := flowconfig.Default()
	return Config{
		ServerURL:   shared.ServerURL,
		Output:      Output(shared.CLI.Output),
		SessionPath: session.DefaultPath(home),
		SandboxAddr: shared.Sandbox.Addr,
	}
}

func ParseEnvConfig(env []string) Config {
	cfg := Config{}

	for _, kv := range env {
		switch {
		case strings.HasPrefix(kv, "FLOWBOARD_SERVER_URL="):
			cfg.ServerURL = strings.TrimSpace(strings.TrimPrefix(kv, "FLOWBOARD_SERVER_URL="))
		case strings.HasPrefix(kv, "FB_SERVER_URL="):
			cfg.ServerURL = strings.TrimSpace(strings.TrimPrefix(kv, "FB_SERVER_URL="))
		case strings.HasPrefix(kv, "FLOWBOARD_OUTPUT="):
			value := strings.TrimSpace(strings.TrimPrefix(kv, "FLOWBOARD_OUTPUT="))
			if isValidOutput(value) {
				cfg.Output = Output(value)
			}
		case strings.HasPrefix(kv, "FB_OUTPUT="):
			value := strings.TrimSpace(strings.TrimPrefix(kv, "FB_OUTPUT="))
			if isValidOutput(value) {
				cfg.Output = Output(value)
			}
		case strings.HasPrefix(kv, "FLOWBOARD_SESSION_PATH="):
			cfg.SessionPath = strings.TrimSpace(strings.TrimPrefix(kv, "FLOWBOARD_SESSION_PATH="))
		case strings.HasPrefix(kv, "FLOWBOARD_SANDBOX_ADDR="):
			cfg.SandboxAddr = strings.TrimSpace(strings.TrimPrefix(kv, "FLOWBOARD_SANDBOX_ADDR="))
		}
	}

	return cfg
}

func MergeConfig(defaults, fileCfg, envCfg, flagCfg Config) Config {
	out := defaults
	applyConfig(&out, fileCfg)
	applyConfig(&out, envCfg)
	applyConfig(&out, flagCfg)
	return out
}

func applyConfig(dst *Config, src Config) {
	if value := strings.TrimSpace(src.ServerURL); value != "" {
		dst.ServerURL = value
	}
	if src.Output != "" {
		dst.Output = src.Output
	}
	if value := strings.TrimSpace(src.SessionPath); value != "" {
		dst.SessionPath = value
	}
	if value := strings.TrimSpace(src.SandboxAddr); value != "" {
		dst.SandboxAddr = value
	}
}

// LoadOrInitConfig reads the shared config file, creating it with
// defaults on first run. The session path never lives in the file; it
// is always derived from home or overridden by env/flag.
func LoadOrInitConfig(home string) (Config, error) {
	shared, err := flowconfig.LoadOrInit(home)
	if err != nil {
		return Config{}, err
	}
	return mapSharedToCLI(shared), nil
}

func ConfigPath(home string) string {
	return flowconfig.ConfigPath(home)
}

func LoadConfigFile(path string) (Config, error) {
	shared, err := flowconfig.LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	return mapSharedToCLI(shared), nil
}

func SaveConfigFile(path string, cfg Config) error {
	shared, err := flowconfig.LoadFile(path)
	if err != nil {
		shared = flowconfig.Config{}
	}
	shared.ServerURL = strings.TrimSpace(cfg.ServerURL)
	shared.CLI.Output = strings.TrimSpace(string(cfg.Output))
	shared.Sandbox.Addr = strings.TrimSpace(cfg.SandboxAddr)
	return flowconfig.SaveFile(path, shared)
}

func mapSharedToCLI(shared flowconfig.Config) Config {
	cfg := Config{
		ServerURL:   strings.TrimSpace(shared.ServerURL),
		Output:      Output(strings.TrimSpace(shared.CLI.Output)),
		SandboxAddr: strings.TrimSpace(shared.Sandbox.Addr),
	}
	if cfg.Output != "" && !isValidOutput(string(cfg.Output)) {
		cfg.Output = ""
	}
	return cfg
}
