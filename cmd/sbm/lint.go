package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/sbm/bytecode"
	"github.com/deepnoodle-ai/sbm/errz"
	"github.com/deepnoodle-ai/sbm/parser"
	"github.com/deepnoodle-ai/sbm/syntax"
)

// LintIssue represents a problem found in a program.
type LintIssue struct {
	Line    int    `json:"line"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Level   string `json:"level"` // "warning" or "error"
}

type lintRule struct {
	name  string
	check syntax.ValidatorFunc
}

var lintRules = []lintRule{
	{"undefined-label", syntax.UndefinedLabels},
	{"duplicate-label", syntax.DuplicateLabels},
	{"unused-label", syntax.UnusedLabels},
	{"missing-exit", syntax.MissingExit},
}

func (a *app) lintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [file]",
		Short: "Check a program for problems without running it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.lintHandler,
	}
	addInputFlags(cmd)
	addOutputFlag(cmd)
	return cmd
}

func (a *app) lintHandler(cmd *cobra.Command, args []string) error {
	code, filename, err := a.getCode(cmd, args)
	if err != nil {
		return err
	}
	if filename == "" {
		filename = "<stdin>"
	}
	issues, err := lintProgram(cmd.Context(), code)
	if err != nil {
		return err
	}
	if err := printLintResults(a.stdout, filename, issues, a.v.GetString("output")); err != nil {
		return err
	}
	if errs, _ := countIssues(issues); errs > 0 {
		return fmt.Errorf("lint failed: %d error(s)", errs)
	}
	return nil
}

// lintProgram reports every syntax error and ignored operand in code. Static
// checks run only once the program loads cleanly.
func lintProgram(ctx context.Context, code string) ([]LintIssue, error) {
	var issues []LintIssue
	for i, line := range strings.Split(code, "\n") {
		if n := parser.ExtraOperands(line); n > 0 {
			issues = append(issues, LintIssue{
				Line:    i + 1,
				Rule:    "extra-operands",
				Message: fmt.Sprintf("%d extra operand(s) ignored", n),
				Level:   syntax.SeverityWarning.String(),
			})
		}
	}

	program, err := parser.ParseAll(ctx, code)
	var merr *multierror.Error
	switch {
	case errors.As(err, &merr):
		for _, e := range merr.Errors {
			var serr *errz.StructuredError
			if !errors.As(e, &serr) {
				return nil, e
			}
			issues = append(issues, LintIssue{
				Line:    serr.Location.Line,
				Rule:    "syntax",
				Message: serr.Message,
				Level:   syntax.SeverityError.String(),
			})
		}
	case err != nil:
		return nil, err
	default:
		issues = append(issues, checkProgram(program)...)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})
	return issues, nil
}

func checkProgram(program *bytecode.Program) []LintIssue {
	var issues []LintIssue
	for _, rule := range lintRules {
		for _, finding := range syntax.Validate(program, rule.check) {
			issues = append(issues, LintIssue{
				Line:    finding.Line,
				Rule:    rule.name,
				Message: finding.Message,
				Level:   finding.Severity.String(),
			})
		}
	}
	return issues
}

func countIssues(issues []LintIssue) (errs, warnings int) {
	for _, issue := range issues {
		if issue.Level == syntax.SeverityError.String() {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}

func printLintResults(w io.Writer, filename string, issues []LintIssue, format string) error {
	errs, warnings := countIssues(issues)
	switch strings.ToLower(format) {
	case "json":
		result := struct {
			File     string      `json:"file"`
			Issues   []LintIssue `json:"issues"`
			Errors   int         `json:"errors"`
			Warnings int         `json:"warnings"`
		}{
			File:     filename,
			Issues:   issues,
			Errors:   errs,
			Warnings: warnings,
		}
		if result.Issues == nil {
			result.Issues = []LintIssue{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "", "text":
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	warnStyle := color.New(color.FgYellow).SprintFunc()
	errorStyle := color.New(color.FgRed).SprintFunc()
	fileStyle := color.New(color.FgCyan).SprintFunc()
	ruleStyle := color.New(color.FgMagenta).SprintFunc()
	okStyle := color.New(color.FgGreen).SprintFunc()

	if len(issues) == 0 {
		fmt.Fprintf(w, "%s %s\n", fileStyle(filename+":"), okStyle("OK"))
		return nil
	}
	for _, issue := range issues {
		level := warnStyle(issue.Level)
		if issue.Level == syntax.SeverityError.String() {
			level = errorStyle(issue.Level)
		}
		where := fmt.Sprintf("%s:", filename)
		if issue.Line > 0 {
			where = fmt.Sprintf("%s:%d:", filename, issue.Line)
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			fileStyle(where),
			level,
			ruleStyle("["+issue.Rule+"]"),
			issue.Message)
	}
	fmt.Fprintln(w)
	if errs > 0 {
		fmt.Fprintln(w, errorStyle(fmt.Sprintf("%d error(s), %d warning(s)", errs, warnings)))
	} else {
		fmt.Fprintln(w, warnStyle(fmt.Sprintf("%d warning(s)", warnings)))
	}
	return nil
}
