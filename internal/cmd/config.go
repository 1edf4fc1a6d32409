package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"commitaid/internal/config"
	"commitaid/internal/llm"
	"commitaid/internal/ui"

	"github.com/spf13/cobra"
)

func newConfigCmd(d deps) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage commitaid configuration",
		Args:  cobra.NoArgs,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the credential file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := d.credentialPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := d.credentialPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path, cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			baseURL, contextModel, commitModel := cfg.BaseURL, cfg.ContextModel, cfg.CommitModel
			if info, ok := llm.GetProviderInfo(cfg.Provider); ok {
				baseURL = orDefault(baseURL, info.BaseURL)
				contextModel = orDefault(contextModel, info.ContextModel)
				commitModel = orDefault(commitModel, info.CommitModel)
			}

			out := cmd.OutOrStdout()
			ui.Field(out, "Credentials", path)
			ui.Field(out, "API key", cfg.MaskedAPIKey())
			ui.Field(out, "Provider", cfg.Provider)
			ui.Field(out, "Base URL", baseURL)
			ui.Field(out, "Context model", contextModel)
			ui.Field(out, "Commit model", commitModel)
			ui.Field(out, "Context lines", strconv.Itoa(cfg.ContextLines))
			ui.Field(out, "Exclude", strings.Join(cfg.Exclude, ", "))
			ui.Field(out, "Timeout", cfg.Timeout.String())
			return nil
		},
	}

	configSetKeyCmd := &cobra.Command{
		Use:   "set-key",
		Short: "Prompt for a new API key and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := d.credentialPath()
			if err != nil {
				return err
			}
			// An empty config always triggers the prompt.
			if err := config.EnsureAPIKey(&config.Config{}, path, func() (string, error) {
				return d.askAPIKey(cmd.InOrStdin(), cmd.ErrOrStderr())
			}); err != nil {
				return err
			}
			ui.Successf(cmd.ErrOrStderr(), "API key saved to %s", path)
			return nil
		},
	}

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	return configCmd
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
