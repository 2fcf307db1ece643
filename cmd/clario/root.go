package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"clario-backend/app"
	"clario-backend/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

type cli struct {
	app     *app.App
	asJSON  bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "clario",
		Short:         "Plain-language summaries and risk warnings for legal text",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
				_ = c.app.Logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log pipeline details to stderr")

	root.AddCommand(
		c.summarizeCmd(),
		c.flagsCmd(),
		c.clausesCmd(),
		c.askCmd(),
		c.mcpCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout stays usable for results and the MCP transport.
	logger := zap.NewNop()
	if c.verbose {
		if logger, err = cfg.NewLogger(); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}

	c.app, err = app.New(cmd.Context(), cfg, logger)
	return err
}

// readInput reads the file named by args[0], or stdin when no file (or "-")
// is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) > 0 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no text to analyze")
	}
	return string(data), nil
}

func (c *cli) printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
