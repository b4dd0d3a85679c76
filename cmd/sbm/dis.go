package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/sbm"
	"github.com/deepnoodle-ai/sbm/dis"
)

func (a *app) disCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble a program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.disHandler,
	}
	addInputFlags(cmd)
	addOutputFlag(cmd)
	cmd.Flags().Bool("stats", false, "print program statistics")
	return cmd
}

func (a *app) disHandler(cmd *cobra.Command, args []string) error {
	code, filename, err := a.getCode(cmd, args)
	if err != nil {
		return err
	}
	program, err := sbm.Load(cmd.Context(), code, sbm.WithFilename(filename))
	if err != nil {
		return formatError(err)
	}
	instructions := dis.Disassemble(program)

	switch format := strings.ToLower(a.v.GetString("output")); format {
	case "json":
		output, err := getOutputJSON(instructions)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(output))
		return nil
	case "", "text":
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	dis.Print(instructions, a.stdout)
	if a.v.GetBool("stats") {
		stats := program.Stats()
		fmt.Fprintln(a.stdout)
		fmt.Fprintf(a.stdout, "instructions: %d\n", stats.InstructionCount)
		fmt.Fprintf(a.stdout, "labels:       %d\n", stats.LabelCount)
		fmt.Fprintf(a.stdout, "jumps:        %d\n", stats.JumpCount)
		fmt.Fprintf(a.stdout, "reads:        %d\n", stats.MemoryReads)
		fmt.Fprintf(a.stdout, "writes:       %d\n", stats.MemoryWrites)
		fmt.Fprintf(a.stdout, "exit:         %t\n", stats.HasExit)
	}
	return nil
}
