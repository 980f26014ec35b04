package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/csvio"
	"github.com/StorkenPb/CategoryPlanner/internal/outline"
	"github.com/StorkenPb/CategoryPlanner/internal/tree"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <csv>",
		Short: "Check a CSV file and report warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, _, err := opts.load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", args[0], res)
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			for _, code := range res.Reparented {
				fmt.Fprintf(out, "warning: %s refers to an unknown parent, made a root\n", code)
			}
			roots := len(category.Children(res.Categories, ""))
			fmt.Fprintf(out, "%d roots\n", roots)
			return nil
		},
	}
}

func newOutlineCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "outline <csv>",
		Short: "Print the category tree as an indented outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, lang, err := opts.load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outline.Encode(res.Categories, lang))
			return nil
		},
	}
}

func newGraphCmd(opts *options) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "graph <csv>",
		Short: "Print the render graph (nodes and edges) as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, lang, err := opts.load(args[0])
			if err != nil {
				return err
			}
			g := tree.Build(res.Categories, tree.Options{Language: lang})

			var data []byte
			if compact {
				data, err = json.Marshal(g)
			} else {
				data, err = json.MarshalIndent(g, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode graph: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print JSON on one line")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <csv>",
		Short: "Re-export a CSV file with hierarchical codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, langs, _, err := opts.load(args[0])
			if err != nil {
				return err
			}
			return csvio.Export(cmd.OutOrStdout(), res.Categories, langs)
		},
	}
}
