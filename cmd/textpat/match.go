package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KromDaniel/textpat/pkg/textpat"
)

// maxLineSize bounds the length of a single line read by match --files.
const maxLineSize = 16 * 1024 * 1024

type matchOptions struct {
	rule  string
	files bool
}

// lineResult is the outcome for one input.
type lineResult struct {
	source   string
	line     int
	input    string
	mismatch string
}

func newMatchCommand(a *app) *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match [inputs...]",
		Short: "Check inputs against a grammar rule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadMatcher(opts.rule)
			if err != nil {
				return err
			}

			var results []lineResult
			if opts.files {
				results, err = matchFiles(cmd.Context(), m, args)
				if err != nil {
					return err
				}
			} else {
				for _, input := range args {
					results = append(results, check(m, "", 0, input))
				}
			}
			return a.report(results)
		},
	}

	cmd.Flags().StringVarP(&opts.rule, "rule", "r", "", "Rule to match against")
	cmd.Flags().BoolVar(&opts.files, "files", false, "Treat arguments as files and match every line")
	return cmd
}

func check(m *textpat.Matcher, source string, line int, input string) lineResult {
	r := lineResult{source: source, line: line, input: input}
	if !m.Matches(input) {
		r.mismatch = m.DescribeMismatch(input)
	}
	return r
}

// matchFiles checks every line of every file. Files are scanned concurrently;
// results keep argument order.
func matchFiles(ctx context.Context, m *textpat.Matcher, paths []string) ([]lineResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	perFile := make([][]lineResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			scanner := bufio.NewScanner(f)
			scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
			for n := 1; scanner.Scan(); n++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				perFile[i] = append(perFile[i], check(m, path, n, scanner.Text()))
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []lineResult
	for _, rs := range perFile {
		results = append(results, rs...)
	}
	return results, nil
}

func (a *app) report(results []lineResult) error {
	ok := a.paint(color.FgGreen)
	fail := a.paint(color.FgRed, color.Bold)
	dim := a.paint(color.Faint)

	failed := 0
	for _, r := range results {
		prefix := ""
		if r.source != "" {
			prefix = fmt.Sprintf("%s:%d: ", r.source, r.line)
		}
		if r.mismatch == "" {
			fmt.Fprintf(a.out, "%s %s%s\n", ok.Sprint("ok  "), prefix, r.input)
			continue
		}
		failed++
		fmt.Fprintf(a.out, "%s %s%s\n", fail.Sprint("FAIL"), prefix, r.input)
		fmt.Fprintf(a.out, "     %s\n", dim.Sprint(r.mismatch))
	}

	a.logger.Debug().Int("inputs", len(results)).Int("failed", failed).Msg("match finished")
	if failed > 0 {
		return errMismatch
	}
	return nil
}
