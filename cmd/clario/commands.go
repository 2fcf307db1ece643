package main

import (
	"fmt"
	"strings"

	"clario-backend/legal"
	"clario-backend/mcptools"
	"clario-backend/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func (c *cli) summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [file]",
		Short: "Summarize legal text in plain language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			analysis := c.app.Summaries.Analyze(cmd.Context(), text)
			if c.asJSON {
				return c.printJSON(cmd, analysis)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "📝 Summary")
			fmt.Fprintln(out, analysis.Summary)
			if !analysis.UsedModel {
				fmt.Fprintf(out, "(extractive only: %s)\n", analysis.Outcome)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "⚠️ Red flags")
			fmt.Fprintln(out, analysis.RedFlagText)
			fmt.Fprintf(out, "\nOverall risk: %s\n", analysis.OverallRisk)
			return nil
		},
	}
}

func (c *cli) flagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flags [file]",
		Short: "List risky clauses found in legal text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			flags, warnings := c.app.Summaries.RedFlags(text)
			if c.asJSON {
				return c.printJSON(cmd, map[string]interface{}{"flags": flags, "warnings": warnings})
			}
			fmt.Fprintln(cmd.OutOrStdout(), warnings)
			return nil
		},
	}
}

var riskIcons = map[legal.RiskLevel]string{
	legal.RiskSafe:      "🟢",
	legal.RiskRisky:     "🟡",
	legal.RiskDangerous: "🔴",
}

func (c *cli) clausesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clauses [file]",
		Short: "Grade every clause as safe, risky or dangerous",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			assessments := c.app.Summaries.AssessClauses(text)
			overall := legal.OverallRisk(assessments)
			if c.asJSON {
				return c.printJSON(cmd, map[string]interface{}{"clauses": assessments, "overall_risk": overall})
			}

			out := cmd.OutOrStdout()
			for _, a := range assessments {
				fmt.Fprintf(out, "%s %d. %s\n", riskIcons[a.Risk], a.Index+1, a.Text)
				for _, s := range a.Scenarios {
					fmt.Fprintf(out, "     %s\n", s)
				}
			}
			fmt.Fprintf(out, "\nOverall risk: %s\n", overall)
			return nil
		},
	}
}

func (c *cli) askCmd() *cobra.Command {
	var simple bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a general legal question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := c.app.Chat.Ask(cmd.Context(), service.AskRequest{
				Question: strings.Join(args, " "),
				Simple:   simple,
			})
			if c.asJSON {
				return c.printJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
			return nil
		},
	}
	cmd.Flags().BoolVar(&simple, "simple", false, "ask for a simpler explanation")
	return cmd
}

func (c *cli) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tools over the Model Context Protocol on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := mcp.NewServer(&mcp.Implementation{Name: "clario", Version: version}, nil)
			mcptools.New(c.app.Summaries, c.app.Chat).Register(server)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
