package main

import (
	"errors"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

var (
	errMultipleInputs = errors.New("multiple input sources specified")
	errNoInput        = errors.New("no input provided")
)

// getCode determines the program source to use. There are three
// possibilities:
//  1. --code <code>
//  2. --stdin, or stdin when it is not a terminal and nothing else is given
//  3. path as args[0]
//
// The returned filename is empty unless the source came from a file.
func (a *app) getCode(cmd *cobra.Command, args []string) (string, string, error) {
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	stdinFlagSet := a.v.GetBool("stdin")
	pathSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeFlagSet, stdinFlagSet, pathSupplied} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", "", errMultipleInputs
	}

	switch {
	case pathSupplied:
		path, err := homedir.Expand(args[0])
		if err != nil {
			return "", "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	case codeFlagSet:
		return a.v.GetString("code"), "", nil
	case stdinFlagSet || !a.interactive():
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	default:
		return "", "", errNoInput
	}
}
