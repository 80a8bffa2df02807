package main

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KromDaniel/textpat/internal/ast"
)

type describeOptions struct {
	rule string
	dump bool
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

func newDescribeCommand(a *app) *cobra.Command {
	opts := &describeOptions{}

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the pattern of each grammar rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrammar()
			if err != nil {
				return err
			}

			names := g.Names()
			if opts.rule != "" {
				names = []string{opts.rule}
			}

			name := a.paint(color.FgCyan, color.Bold)
			for _, n := range names {
				m, err := g.Matcher(n)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s: /%s/\n", name.Sprint(n), m)
				if r, _ := g.Rule(n); r.Description != "" {
					fmt.Fprintf(a.out, "  %s\n", r.Description)
				}
				if groups := ast.GroupNames(m.Node()); len(groups) > 0 {
					fmt.Fprintf(a.out, "  groups: %s\n", strings.Join(groups, ", "))
				}
				if opts.dump {
					dumper.Fdump(a.out, m.Node())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.rule, "rule", "r", "", "Only describe this rule")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "Dump the pattern tree")
	return cmd
}
