package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/rider"
	"github.com/tsawler/rider/internal/config"
	"github.com/tsawler/rider/plan"
)

func applyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <plan.yaml>",
		Short: "Apply a YAML edit plan to one or more contracts",
		Long: `Apply every edit of a plan, contract by contract. Inputs are resolved
relative to the plan file. A contract whose edits fail is reported and
skipped; the others are still written.

Example plan:
  output_dir: updated_contracts
  contracts:
    - input: Contract 1.docx
      edits:
        - op: insert_definition
          section: Definitions.
          heading: Affiliate
          body: means any entity that controls ...
        - op: renumber`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}
			if a.cfg.OutputDir.Source == config.SourceCLI {
				// the flag is relative to the working directory, not the plan
				p.OutputDir = ""
			}
			previewOn, err := a.cfg.PreviewEnabled()
			if err != nil {
				return err
			}

			results, runErr := rider.RunPlan(p, rider.PlanConfig{
				OutputDir: a.cfg.OutputDir.Value,
				Preview:   previewOn,
				Logger:    a.logger,
			})
			out := cmd.OutOrStdout()
			for _, res := range results {
				if res.Err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", res.Input, res.Err)
					continue
				}
				fmt.Fprintf(out, "ok   %s -> %s (%d edits)\n", res.Input, res.Output, res.Edits)
			}
			return runErr
		},
	}
}

// singleFlags are shared by the commands that edit one contract.
type singleFlags struct {
	output  string
	inPlace bool
}

func (f *singleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default <output-dir>/<input name>)")
	cmd.Flags().BoolVar(&f.inPlace, "in-place", false, "overwrite the input file")
	cmd.MarkFlagsMutuallyExclusive("output", "in-place")
}

// finish saves c for the input, and its preview when enabled.
func (a *app) finish(cmd *cobra.Command, c *rider.Contract, input string, f *singleFlags) error {
	output := f.output
	switch {
	case f.inPlace:
		output = input
	case output == "":
		output = filepath.Join(a.cfg.OutputDir.Value, filepath.Base(input))
	}
	if err := c.SaveAs(output); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)

	previewOn, err := a.cfg.PreviewEnabled()
	if err != nil || !previewOn {
		return err
	}
	htmlPath := output[:len(output)-len(filepath.Ext(output))] + ".html"
	if err := c.SavePreview(htmlPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", htmlPath)
	return nil
}

func insertDefinitionCmd(a *app) *cobra.Command {
	var (
		f                       singleFlags
		section, heading, after string
	)
	cmd := &cobra.Command{
		Use:   "insert-definition <contract.docx> <body>",
		Short: "Insert a numbered definition under a section heading",
		Long: `Insert a definition into a section, styled, quoted and numbered like
the section's existing definitions.

Example:
  rider insert-definition "Contract 1.docx" "means any entity that controls ..." \
      --section "Definitions." --heading Affiliate`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rider.Open(args[0]).WithLogger(a.logger).
				InsertDefinition(section, heading, args[1], after)
			return a.finish(cmd, c, args[0], &f)
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "section heading, e.g. \"Definitions.\"")
	cmd.Flags().StringVar(&heading, "heading", "", "defined term")
	cmd.Flags().StringVar(&after, "after", "", "insert after the definition starting with this text (default: first in section)")
	_ = cmd.MarkFlagRequired("section")
	_ = cmd.MarkFlagRequired("heading")
	f.register(cmd)
	return cmd
}

func insertClauseCmd(a *app) *cobra.Command {
	var (
		f                      singleFlags
		after, before, heading string
	)
	cmd := &cobra.Command{
		Use:   "insert-clause <contract.docx> <body>",
		Short: "Insert a top-level numbered clause and renumber",
		Long: `Insert a numbered clause after or before an existing clause, copying the
anchor clause's fonts and paragraph layout, then renumber every top-level
clause.

Example:
  rider insert-clause "Contract 2.docx" "Nothing in this Agreement ..." \
      --after "Prohibition on Use of Open AI Systems." --heading Residuals`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rider.Open(args[0]).WithLogger(a.logger)
			if after != "" {
				c.InsertClauseAfter(after, heading, args[1])
			} else {
				c.InsertClauseBefore(before, heading, args[1])
			}
			return a.finish(cmd, c, args[0], &f)
		},
	}
	cmd.Flags().StringVar(&after, "after", "", "heading of the clause to insert after")
	cmd.Flags().StringVar(&before, "before", "", "heading of the clause to insert before")
	cmd.Flags().StringVar(&heading, "heading", "", "heading of the new clause")
	cmd.MarkFlagsOneRequired("after", "before")
	cmd.MarkFlagsMutuallyExclusive("after", "before")
	_ = cmd.MarkFlagRequired("heading")
	f.register(cmd)
	return cmd
}

func insertSentenceCmd(a *app) *cobra.Command {
	var (
		f          singleFlags
		startsWith string
		index      int
	)
	cmd := &cobra.Command{
		Use:   "insert-sentence <contract.docx> <sentence>",
		Short: "Insert a sentence into a paragraph",
		Long: `Insert a sentence into the first paragraph starting with the given text.
A trailing "..." on the prefix is ignored. The index is the 0-based
position among the paragraph's sentences; -1 appends.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rider.Open(args[0]).WithLogger(a.logger).
				InsertSentence(startsWith, args[1], index)
			return a.finish(cmd, c, args[0], &f)
		},
	}
	cmd.Flags().StringVar(&startsWith, "starts-with", "", "prefix of the target paragraph")
	cmd.Flags().IntVar(&index, "index", -1, "sentence position (-1 appends)")
	_ = cmd.MarkFlagRequired("starts-with")
	f.register(cmd)
	return cmd
}

func renumberCmd(a *app) *cobra.Command {
	var f singleFlags
	cmd := &cobra.Command{
		Use:   "renumber <contract.docx>",
		Short: "Renumber top-level clauses 1, 2, 3, ...",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rider.Open(args[0]).WithLogger(a.logger).Renumber()
			return a.finish(cmd, c, args[0], &f)
		},
	}
	f.register(cmd)
	return cmd
}

func outlineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "outline <contract.docx>",
		Short: "List the paragraphs detected as clause headings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headings, err := rider.Open(args[0]).WithLogger(a.logger).Outline()
			if err != nil {
				return err
			}
			for _, h := range headings {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", h.Index, h.Text)
			}
			return nil
		},
	}
}

func previewCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "preview <contract.docx>",
		Short: "Render a contract as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rider.Open(args[0]).WithLogger(a.logger)
			if output == "" {
				return c.Preview(cmd.OutOrStdout())
			}
			return c.SavePreview(output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
