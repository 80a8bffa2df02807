package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KromDaniel/textpat/grammar"
	"github.com/KromDaniel/textpat/pkg/textpat"
)

const (
	envPrefix  = "TEXTPAT"
	configName = ".textpat"
)

// errMismatch is returned when at least one input did not match. The inputs
// have already been reported, so main only sets the exit code.
var errMismatch = errors.New("some inputs did not match")

// app holds what every subcommand shares: resolved configuration, output
// streams and the logger.
type app struct {
	v       *viper.Viper
	cfgFile string
	out     io.Writer
	errOut  io.Writer
	logger  zerolog.Logger
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut, logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "textpat",
		Short:         "textpat - match and parse text with pattern grammars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (default is ./.textpat.yaml)")
	flags.StringP("grammar", "g", "", "Grammar file")
	flags.Int("step-limit", 0, "Maximum evaluation steps per input (0 means unlimited)")
	flags.Bool("color", true, "Colorize output")
	flags.BoolP("verbose", "v", false, "Log engine decisions to stderr")

	for _, key := range []string{"grammar", "step-limit", "color", "verbose"} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	cmd.AddCommand(
		newMatchCommand(a),
		newFilterCommand(a),
		newParseCommand(a),
		newDescribeCommand(a),
		newGenCommand(a),
	)
	return cmd
}

// init reads the config file and environment once flags are parsed.
func (a *app) init() error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName(configName)
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	level := zerolog.InfoLevel
	if a.v.GetBool("verbose") {
		level = zerolog.TraceLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, NoColor: !a.v.GetBool("color")}).
		Level(level).
		With().Timestamp().Logger()

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("file", used).Msg("loaded config")
	}
	return nil
}

func (a *app) matcherOptions() []textpat.Option {
	var opts []textpat.Option
	if n := a.v.GetInt("step-limit"); n > 0 {
		opts = append(opts, textpat.WithStepLimit(n))
	}
	if a.v.GetBool("verbose") {
		opts = append(opts, textpat.WithLogger(a.logger))
	}
	return opts
}

func (a *app) loadGrammar() (*grammar.Grammar, error) {
	path := a.v.GetString("grammar")
	if path == "" {
		return nil, fmt.Errorf("no grammar file: use --grammar or %s_GRAMMAR", envPrefix)
	}
	g, err := grammar.Load(path, a.matcherOptions()...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("file", path).Strs("rules", g.Names()).Msg("loaded grammar")
	return g, nil
}

func (a *app) loadMatcher(rule string) (*textpat.Matcher, error) {
	if rule == "" {
		return nil, errors.New("no rule: use --rule")
	}
	g, err := a.loadGrammar()
	if err != nil {
		return nil, err
	}
	return g.Matcher(rule)
}

// paint returns a color that honours the color setting.
func (a *app) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if a.v.GetBool("color") {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
