package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vls-mesh/internal/config"
	"vls-mesh/internal/ops"
	"vls-mesh/internal/vls"
)

func (a *app) inspectCmd() *cobra.Command {
	var (
		file    string
		showLog bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [program]",
		Short: "Print the token table of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := readProgram(cmd.InOrStdin(), file, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printTokens(out, vls.Tokenize(program))

			if showLog {
				res := decoderFor(a.resolve(cmd, config.Flags{})).Decode(program)
				fmt.Fprintln(out)
				printLog(out, res)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the program from a .gene file (- for stdin)")
	cmd.Flags().BoolVar(&showLog, "log", false, "Also decode and print the per-chunk audit log")
	return cmd
}

func printTokens(w io.Writer, toks []vls.Token) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCHUNK\tCATEGORY\tSIGN\tCODE\tARG\tKIND\tNOTE")
	for _, t := range toks {
		arg := ""
		switch {
		case t.Category == vls.CategoryPower:
			arg = "^" + strconv.Itoa(t.Count)
		case t.HasArg:
			arg = strconv.FormatFloat(t.Arg, 'g', -1, 64)
		}
		kind, note := "", t.Problem
		if t.Spec.Kind != ops.KindUnknown {
			kind = t.Spec.Kind.String()
			if note == "" {
				note = t.Spec.Description
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Index, t.Raw, t.Category, t.Sign, t.Code, arg, kind, note)
	}
	tw.Flush()
}

func printLog(w io.Writer, res vls.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCHUNK\tEFFECT\tVERTICES\tNOTE")
	for _, e := range res.Mesh.Log {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%v\t%s\n", e.Index, e.Chunk, e.Effect, e.Vertices, e.Note)
	}
	tw.Flush()
}

func (a *app) opsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the operation registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tKIND\tDESCRIPTION")
			for _, s := range ops.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Code, s.Kind, s.Description)
			}
			return tw.Flush()
		},
	}
}
