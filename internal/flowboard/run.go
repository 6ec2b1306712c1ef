package flowboard

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/flowboardhq/flowboard/internal/session"
)

// Run executes the CLI and returns the process exit code. Streams and
// environment come in as parameters so tests can drive the binary
// in-process.
func Run(args []string, stdout, stderr io.Writer, env []string) int {
	home, err := os.UserHomeDir()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, FormatError(OutputText, http.StatusInternalServerError, err.Error()))
		return 1
	}

	fileCfg, err := LoadOrInitConfig(home)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, FormatError(OutputText, http.StatusInternalServerError, err.Error()))
		return 1
	}

	cfg := MergeConfig(DefaultConfig(home), fileCfg, ParseEnvConfig(env), Config{})
	if !isValidOutput(string(cfg.Output)) {
		cfg.Output = OutputText
	}

	root := NewRootCommand(cfg, stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		output := cfg.Output
		if current, flagErr := root.PersistentFlags().GetString("output"); flagErr == nil && isValidOutput(current) {
			output = Output(current)
		}
		sessionPath := cfg.SessionPath
		if current, flagErr := root.PersistentFlags().GetString("session-path"); flagErr == nil && current != "" {
			sessionPath = current
		}

		var cErr *cliError
		if ok := asCLIError(err, &cErr); ok {
			if cErr.status == http.StatusUnauthorized {
				// A rejected token never recovers on retry; drop it so
				// the next command starts logged out.
				_ = session.NewStore(sessionPath).Clear()
			}
			if output == OutputJSON && len(cErr.rawJSON) > 0 {
				_, _ = fmt.Fprintln(stderr, string(cErr.rawJSON))
			} else {
				_, _ = fmt.Fprintln(stderr, FormatError(output, cErr.status, cErr.message))
			}
			return 1
		}

		_, _ = fmt.Fprintln(stderr, FormatError(output, http.StatusInternalServerError, err.Error()))
		return 1
	}

	return 0
}
