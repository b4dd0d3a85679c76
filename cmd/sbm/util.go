package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"

	"github.com/deepnoodle-ai/sbm/errz"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(strings.TrimRight(s, "\n")))
	os.Exit(1)
}

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	return isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
}

var outputFormatsCompletion = []string{"json", "text"}

// getOutput renders v in the requested format. Text uses the value's
// String method.
func getOutput(v fmt.Stringer, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return v.String(), nil
	case "json":
		output, err := getOutputJSON(v)
		if err != nil {
			return "", err
		}
		return string(output) + "\n", nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(v any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

// formatError renders load and run errors with source context, including
// every error collected by a multierror.
func formatError(err error) error {
	formatter := errz.NewFormatter(!color.NoColor)
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var structured []*errz.StructuredError
		for _, e := range merr.Errors {
			var serr *errz.StructuredError
			if !errors.As(e, &serr) {
				return err
			}
			structured = append(structured, serr)
		}
		return errors.New(formatter.FormatMultiple(structured))
	}
	var serr *errz.StructuredError
	if errors.As(err, &serr) {
		return errors.New(formatter.Format(serr))
	}
	return err
}
