package main

import (
	"errors"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the configuration and streams shared by all commands.
type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger

	// Reports whether stdin is interactive. Replaced in tests.
	interactive func() bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		v:           viper.New(),
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		logger:      zerolog.Nop(),
		interactive: isTerminalIO,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sbm [file]",
		Short: "Run programs on the SBM stack machine",
		Long: `sbm loads a program of stack machine instructions, one per line, runs it
and prints the final program counter, stack and memory.`,
		Version:           version,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
		RunE:              a.runHandler,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default $HOME/.sbm.yaml)")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("log-level", "warn", "log level (trace, debug, info, warn, error)")

	addInputFlags(root)
	addRunFlags(root)

	root.AddCommand(
		a.runCmd(),
		a.disCmd(),
		a.lintCmd(),
		a.docCmd(),
		a.serveCmd(),
		a.versionCmd(),
	)
	return root
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "program source")
	cmd.Flags().Bool("stdin", false, "read the program from stdin")
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "output format (text, json)")
	cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})
}

func addRunFlags(cmd *cobra.Command) {
	addOutputFlag(cmd)
	cmd.Flags().Bool("trace", false, "log every executed instruction")
	cmd.Flags().Int("max-steps", 0, "halt after this many instructions (0 = no limit)")
	cmd.Flags().Bool("timing", false, "print execution time")
}

// initConfig binds the executing command's flags, the SBM_* environment and
// the config file into viper.
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix("SBM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cfgFile := a.v.GetString("config")
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return err
		}
		a.v.SetConfigFile(path)
	} else if home, err := homedir.Dir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".sbm")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		// The default config file is optional; an explicit one is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return err
		}
	}
	a.processGlobalFlags()
	return nil
}

// Reads global flags from viper and adjusts the environment accordingly.
func (a *app) processGlobalFlags() {
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(strings.ToLower(a.v.GetString("log-level")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	if a.v.GetBool("trace") {
		level = zerolog.TraceLevel
	}
	zerolog.SetGlobalLevel(level)
	a.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     a.stderr,
		NoColor: color.NoColor,
	}).Level(level).With().Timestamp().Logger()
}
