package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"vinyl-collection/internal/clientview"
	"vinyl-collection/pkg/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag *string
	serverFlag *string

	configOnce sync.Once
	config     *cliConfig
	configErr  error

	// newAPI is replaced in tests
	newAPI func(cfg *cliConfig) clientview.CollectionAPI
}

func newCommandContext(configFlag, serverFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
		newAPI: func(cfg *cliConfig) clientview.CollectionAPI {
			return clientview.NewHTTPClient(cfg.ServerURL, &http.Client{Timeout: cfg.timeout()})
		},
	}
}

func (c *commandContext) ensureConfig() (*cliConfig, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := loadCLIConfig(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.serverFlag != nil && strings.TrimSpace(*c.serverFlag) != "" {
			cfg.ServerURL = strings.TrimSpace(*c.serverFlag)
			if err := cfg.normalize(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) api() (clientview.CollectionAPI, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return c.newAPI(cfg), nil
}

// withView hands fn a view seeded with the persisted undo slot and saves
// the slot back afterwards
func (c *commandContext) withView(fn func(*clientview.View) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	view := clientview.New(c.newAPI(cfg))
	view.SetSort(clientview.ParseSortKey(cfg.DefaultSort))

	pending, err := loadUndoState(cfg.StateFile)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️  Ignoring unreadable undo state")
	}
	view.RestoreUndo(pending)

	runErr := fn(view)
	if err := saveUndoState(cfg.StateFile, view.PendingUndo()); err != nil {
		log.Error().Err(err).Str("path", cfg.StateFile).Msg("❌ Failed to save undo state")
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var serverFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &serverFlag)
	return buildRootCommand(ctx, &configFlag, &serverFlag, &verbose)
}

func buildRootCommand(ctx *commandContext, configFlag, serverFlag *string, verbose *bool) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "collection",
		Short:         "Manage a personal vinyl collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if *verbose {
				level = "debug"
			}
			logger.Init("development", level)
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(serverFlag, "server", "s", "", "Collection server URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newAddCommand(ctx))
	rootCmd.AddCommand(newEditCommand(ctx))
	rootCmd.AddCommand(newFavCommand(ctx))
	rootCmd.AddCommand(newDeleteCommand(ctx))
	rootCmd.AddCommand(newUndoCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newLookupCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))

	return rootCmd
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
