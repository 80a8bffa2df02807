package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KromDaniel/textpat/pkg/textpat"
	"github.com/KromDaniel/textpat/stream"
)

type filterOptions struct {
	rule     string
	template string
	invert   bool
}

func newFilterCommand(a *app) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter [files...]",
		Short: "Print the lines of the input that a grammar rule matches",
		Long: `Print the lines of the input that a grammar rule matches.

With --template, every matching line is replaced by the expansion of the
template and the other lines are printed unchanged. Standard input is read
when no files are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadMatcher(opts.rule)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return a.filter(cmd.InOrStdin(), m, opts)
			}
			for _, path := range args {
				if err := a.filterFile(path, m, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.rule, "rule", "r", "", "Rule lines must match")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "Rewrite matching lines with a $name template")
	cmd.Flags().BoolVar(&opts.invert, "invert", false, "Print the lines that do not match")
	return cmd
}

func (a *app) filterFile(path string, m *textpat.Matcher, opts *filterOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return a.filter(f, m, opts)
}

func (a *app) filter(in io.Reader, m *textpat.Matcher, opts *filterOptions) error {
	var r io.Reader
	if opts.template != "" {
		r = stream.Rewrite(in, m, opts.template)
	} else {
		r = stream.Filter(in, m, opts.invert)
	}
	_, err := io.Copy(a.out, r)
	return err
}
