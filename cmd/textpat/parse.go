package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	rule     string
	template string
}

func newParseCommand(a *app) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse input",
		Short: "Print the values captured by a grammar rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadMatcher(opts.rule)
			if err != nil {
				return err
			}

			p, err := m.Parse(args[0])
			if err != nil {
				return err
			}

			if opts.template != "" {
				s, err := p.Expand(opts.template)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, s)
				return nil
			}

			key := a.paint(color.FgCyan)
			for _, path := range p.Paths() {
				value, _ := p.Lookup(path)
				fmt.Fprintf(a.out, "%s = %q\n", key.Sprint(path), value)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.rule, "rule", "r", "", "Rule to parse with")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "Print the expansion of a $name template instead of the captures")
	return cmd
}
