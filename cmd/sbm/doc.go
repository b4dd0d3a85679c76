package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/sbm"
	"github.com/deepnoodle-ai/sbm/internal/table"
)

func (a *app) docCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doc [instruction]",
		Aliases: []string{"d"},
		Short:   "Show the instruction reference",
		Args:    cobra.MaximumNArgs(1),
		RunE:    a.docHandler,
	}
	addOutputFlag(cmd)
	return cmd
}

func (a *app) docHandler(cmd *cobra.Command, args []string) error {
	docs := sbm.Docs()
	if len(args) > 0 {
		doc, ok := sbm.DocFor(args[0])
		if !ok {
			return fmt.Errorf("unknown instruction: %s", args[0])
		}
		docs = []sbm.InstructionDoc{doc}
	}

	switch format := strings.ToLower(a.v.GetString("output")); format {
	case "json":
		output, err := getOutputJSON(docs)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(output))
		return nil
	case "", "text":
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	if len(docs) == 1 {
		doc := docs[0]
		bold := color.New(color.Bold).SprintFunc()
		fmt.Fprintf(a.stdout, "%s %s\n\n", bold(doc.Mnemonic), doc.Operand)
		fmt.Fprintf(a.stdout, "  %s\n\n", doc.Description)
		fmt.Fprintf(a.stdout, "  stack:   %s\n", doc.Stack)
		fmt.Fprintf(a.stdout, "  example: %s\n", doc.Example)
		return nil
	}

	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, []string{doc.Mnemonic, doc.Operand, doc.Stack, doc.Description})
	}
	table.NewTable(a.stdout).
		WithHeader([]string{"INSTRUCTION", "OPERAND", "STACK", "DESCRIPTION"}).
		WithRows(rows).
		Render()
	return nil
}
