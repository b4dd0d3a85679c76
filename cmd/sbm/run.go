package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/sbm"
	"github.com/deepnoodle-ai/sbm/vm"
)

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a program and print the final machine state",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runHandler,
	}
	addInputFlags(cmd)
	addRunFlags(cmd)
	return cmd
}

func (a *app) runHandler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	code, filename, err := a.getCode(cmd, args)
	if err != nil {
		return err
	}
	program, err := sbm.Load(ctx, code, sbm.WithFilename(filename))
	if err != nil {
		return formatError(err)
	}

	start := time.Now()
	state, runErr := sbm.Run(ctx, program, a.runOptions()...)
	dt := time.Since(start)

	// The state is printed even when the run fails, since it shows where the
	// machine stopped.
	output, err := getOutput(state, a.v.GetString("output"))
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, output)

	if a.v.GetBool("timing") {
		fmt.Fprintf(a.stdout, "%v\n", dt)
	}
	if runErr != nil {
		return formatError(runErr)
	}
	return nil
}

func (a *app) runOptions() []sbm.Option {
	opts := []sbm.Option{sbm.WithLogger(a.logger)}
	if a.v.GetBool("trace") {
		opts = append(opts, sbm.WithObserver(vm.NewLogObserver(a.logger)))
	}
	if n := a.v.GetInt("max-steps"); n > 0 {
		opts = append(opts, sbm.WithMaxSteps(n))
	}
	return opts
}

func (a *app) versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE:  a.versionHandler,
	}
	addOutputFlag(cmd)
	return cmd
}

func (a *app) versionHandler(cmd *cobra.Command, args []string) error {
	if strings.ToLower(a.v.GetString("output")) == "json" {
		info, err := json.MarshalIndent(map[string]any{
			"version": version,
			"commit":  commit,
			"date":    date,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(info))
	} else {
		fmt.Fprintln(a.stdout, version)
	}
	return nil
}
