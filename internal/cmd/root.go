package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"commitaid/internal/config"
	"commitaid/internal/debug"
	"commitaid/internal/git"
	"commitaid/internal/llm"
	"commitaid/internal/prompt"
	"commitaid/internal/ui"

	"github.com/spf13/cobra"
)

// deps are the collaborators of the commands, replaced in tests.
type deps struct {
	repo           diffSource
	credentialPath func() (string, error)
	connect        func(cfg *config.Config) (completer, error)
	askAPIKey      func(in io.Reader, out io.Writer) (string, error)
}

func defaultDeps() deps {
	return deps{
		repo:           git.Repository{},
		credentialPath: config.GetCredentialPath,
		connect:        connectProvider,
		askAPIKey:      ui.AskAPIKey,
	}
}

func connectProvider(cfg *config.Config) (completer, error) {
	return llm.New(cfg.Provider, cfg.APIKey, llm.Options{
		BaseURL:      cfg.BaseURL,
		ContextModel: cfg.ContextModel,
		CommitModel:  cfg.CommitModel,
	})
}

func Execute(version, commit, buildTime string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(defaultDeps())
	root.Version = version
	root.AddCommand(newVersionCmd(version, commit, buildTime))
	return root.ExecuteContext(ctx)
}

func newRootCmd(d deps) *cobra.Command {
	var (
		forceBody bool
		debugFlag bool
	)

	types := make([]string, 0, len(prompt.Types()))
	for _, t := range prompt.Types() {
		types = append(types, string(t))
	}

	rootCmd := &cobra.Command{
		Use:   "commitaid <type>",
		Short: "Generate a conventional commit message from staged changes",
		Long: `commitaid reviews your staged Git changes with an LLM and prints a
conventional commit message for them.

The model first explains the diff, then writes the message by calling a
"commit" function. Only the message is written to stdout, so it can be piped:

  git commit -F <(commitaid fix)

Commit types: ` + strings.Join(types, ", ") + `

The OpenAI API key is read from OPENAI_API_KEY or ~/` + config.CredentialFile + `.
When neither is set you are asked for it once and it is saved to that file.`,
		Example: `  commitaid feat
  commitaid fix --force-body
  commitaid refactor --provider groq --debug`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			commitType, ok := prompt.ParseType(args[0])
			if !ok {
				debug.Printf("[DEBUG] unknown commit type %q, passing it through\n", commitType)
			}
			cfg, err := loadConfig(cmd, d)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}

			g := &generator{
				repo:    d.repo,
				connect: d.connect,
				stdout:  cmd.OutOrStdout(),
				stderr:  cmd.ErrOrStderr(),
			}
			return g.run(ctx, prompt.CommitConfig{Type: commitType, ForceBody: forceBody}, cfg)
		},
	}

	rootCmd.Flags().BoolVar(&forceBody, "force-body", false, "Require a message body")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Print intermediate model output to stderr")
	rootCmd.PersistentFlags().String("provider", llm.ProviderOpenAI, "LLM provider ("+strings.Join(llm.GetProviderNames(), ", ")+")")
	rootCmd.PersistentFlags().String("base-url", "", "Override the provider API base URL")
	rootCmd.PersistentFlags().String("context-model", "", "Model used to review the diff (default depends on provider)")
	rootCmd.PersistentFlags().String("commit-model", "", "Model used to write the commit (default depends on provider)")
	rootCmd.PersistentFlags().Int("context-lines", git.DefaultContextLines, "Lines of context around each diff hunk")
	rootCmd.PersistentFlags().StringSlice("exclude", []string{git.DefaultExclude}, "Paths left out of the diff")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Overall time limit, 0 for none")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		debug.Enabled = debugFlag
		debug.Output = cmd.ErrOrStderr()
	}

	rootCmd.AddCommand(newConfigCmd(d))
	return rootCmd
}

// loadConfig reads the configuration for cmd and prompts for the API key
// when none is configured.
func loadConfig(cmd *cobra.Command, d deps) (*config.Config, error) {
	path, err := d.credentialPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	err = config.EnsureAPIKey(cfg, path, func() (string, error) {
		return d.askAPIKey(cmd.InOrStdin(), cmd.ErrOrStderr())
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newVersionCmd(version, commit, buildTime string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "commitaid version %s (commit %s, built %s)\n", version, commit, buildTime)
		},
	}
}
