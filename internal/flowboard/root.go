package flowboard

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/flowboard/commands/aicmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/authcmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/backlogcmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/boardcmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/cardcmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/columncmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/linkcmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/notifycmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/orgcmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/projectcmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/sprintcmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/templatecmd"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/workspacecmd"
	"github.com/flowboardhq/flowboard/internal/session"
)

type globalFlags struct {
	serverURL   string
	output      string
	sessionPath string
}

type commandRuntime struct {
	cfg *Config
}

func (r commandRuntime) ServerURL() string {
	return r.cfg.ServerURL
}

func (r commandRuntime) Output() string {
	return string(r.cfg.Output)
}

func (r commandRuntime) Session() *session.Store {
	return session.NewStore(r.cfg.SessionPath)
}

func NewRootCommand(initial Config, stdout, stderr io.Writer) *cobra.Command {
	cfg := initial
	flags := globalFlags{
		serverURL:   initial.ServerURL,
		output:      string(initial.Output),
		sessionPath: initial.SessionPath,
	}
	runtime := commandRuntime{cfg: &cfg}

	root := &cobra.Command{
		Use:   "flowboard",
		Short: "Run the FlowBoard sandbox and drive boards, sprints and notifications over HTTP.",
		Long: strings.TrimSpace(`flowboard is a unified binary for:
- starting a self-contained FlowBoard API sandbox
- managing organizations, projects, boards, cards and sprints over the FlowBoard HTTP API
- watching the notification feed from a terminal

Use flowboard help <command> for command-specific examples.

Authentication is session-based: log in once with flowboard auth login
and every later command reads the saved token.

The CLI is intentionally transport-focused:
- --server-url selects the backend endpoint
- --output selects text/json formatting
- --session-path selects where the login token lives`),
		Example: strings.TrimSpace(`flowboard serve
flowboard auth login -e demo@flowboard.dev -p demo1234
flowboard org ls
flowboard board show <board-id>
flowboard card move --board <board-id> --id <card-id> --to <column-id> --position 0
flowboard backlog ls --project <project-id> --priority P1
flowboard watch --interval 30s
flowboard --output json primer`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return applyGlobalFlags(&cfg, flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.serverURL, "server-url", flags.serverURL, "Backend API base URL (e.g. http://127.0.0.1:5000)")
	root.PersistentFlags().StringVar(&flags.output, "output", flags.output, "Output format: text or json")
	root.PersistentFlags().StringVar(&flags.sessionPath, "session-path", flags.sessionPath, "Path of the saved login session")

	root.AddCommand(newServeCommand(&cfg))
	root.AddCommand(newWatchCommand(&cfg, stdout))
	root.AddCommand(newPrimerCommand(&cfg, stdout))
	root.AddCommand(authcmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(orgcmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(workspacecmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(projectcmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(boardcmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(columncmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(cardcmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(linkcmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(backlogcmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(sprintcmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(notifycmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(templatecmd.New(runtime, stdout, printValueFromString, wrapAPIError))
	root.AddCommand(aicmd.New(runtime, stdout, printValueFromString, wrapAPIError))

	return root
}

func newPrimerCommand(cfg *Config, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "primer",
		Short: "Print concise usage guidance.",
		Long:  "Prints quick command examples and usage conventions for scripting.",
		Example: strings.TrimSpace(`flowboard primer
flowboard --output json primer`),
		RunE: func(_ *cobra.Command, _ []string) error {
			return printPrimer(cfg.Output, stdout)
		},
	}
}

func applyGlobalFlags(cfg *Config, flags globalFlags) error {
	output := strings.TrimSpace(flags.output)
	if !isValidOutput(output) {
		return &cliError{status: http.StatusBadRequest, message: fmt.Sprintf("invalid --output: %s", output)}
	}

	cfg.ServerURL = strings.TrimSpace(flags.serverURL)
	cfg.Output = Output(output)
	cfg.SessionPath = strings.TrimSpace(flags.sessionPath)

	if cfg.ServerURL == "" {
		return &cliError{status: http.StatusBadRequest, message: "--server-url cannot be empty"}
	}
	if cfg.SessionPath == "" {
		return &cliError{status: http.StatusBadRequest, message: "--session-path cannot be empty"}
	}

	return nil
}
