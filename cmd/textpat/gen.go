package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KromDaniel/textpat/internal/codegen"
)

func newGenCommand(a *app) *cobra.Command {
	var (
		rule   string
		config codegen.Config
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go source that builds a grammar rule with the textpat builders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadMatcher(rule)
			if err != nil {
				return err
			}

			config.Source = fmt.Sprintf("%s#%s", a.v.GetString("grammar"), rule)
			config.StepLimit = a.v.GetInt("step-limit")
			config.GenerateTestFile = len(config.TestFileInputs) > 0
			if config.Name == "" {
				config.Name = codegen.UpperFirst(rule)
			}

			gen := codegen.New(config)
			if config.OutputFile == "" {
				src, err := gen.Source(m.Node())
				if err != nil {
					return err
				}
				_, err = a.out.Write(src)
				return err
			}

			if err := gen.Generate(m.Node()); err != nil {
				return err
			}
			a.logger.Info().Str("file", config.OutputFile).Str("rule", rule).Msg("generated matcher")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&rule, "rule", "r", "", "Rule to generate")
	flags.StringVarP(&config.Name, "name", "n", "", "Name of the generated matcher variable (default is the rule name)")
	flags.StringVarP(&config.Package, "package", "p", "main", "Package of the generated file")
	flags.StringVarP(&config.OutputFile, "output", "o", "", "Output file (default is stdout)")
	flags.StringSliceVar(&config.TestFileInputs, "test-input", nil, "Inputs for a generated test file; needs --output")
	return cmd
}
