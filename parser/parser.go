// Package parser loads SBM program text into a bytecode.Program.
//
// Programs hold one instruction per line. A line is split on runs of
// whitespace; the first token is the mnemonic and the rest are operands.
// Blank lines are skipped but still counted, so error line numbers always
// refer to the original text.
package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/sbm/bytecode"
	"github.com/deepnoodle-ai/sbm/errz"
)

// MaxLineLength is the longest source line the parser accepts.
const MaxLineLength = 1024 * 1024

// Parser reads program text line by line. A Parser should be used only once.
type Parser struct {
	r        io.Reader
	filename string
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in errors and on the program.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// New returns a Parser that reads program text from r.
func New(r io.Reader, options ...Option) *Parser {
	p := &Parser{r: r}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Parse the provided input as SBM source and return the program. The first
// syntax error aborts the load.
func Parse(ctx context.Context, input string, options ...Option) (*bytecode.Program, error) {
	return New(strings.NewReader(input), options...).Parse(ctx)
}

// ParseReader parses SBM source read from r.
func ParseReader(ctx context.Context, r io.Reader, options ...Option) (*bytecode.Program, error) {
	return New(r, options...).Parse(ctx)
}

// ParseFile parses the SBM source file at path. The path is used as the
// program's filename unless WithFilename overrides it.
func ParseFile(ctx context.Context, path string, options ...Option) (*bytecode.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load program: %w", err)
	}
	defer f.Close()
	options = append([]Option{WithFilename(path)}, options...)
	return New(f, options...).Parse(ctx)
}

// ParseAll parses the provided input without stopping at the first syntax
// error. All syntax errors are returned together as a *multierror.Error,
// along with a program built from the lines that did parse. The program is
// meant for diagnostics only; use Parse to load a program for execution.
func ParseAll(ctx context.Context, input string, options ...Option) (*bytecode.Program, error) {
	return New(strings.NewReader(input), options...).ParseAll(ctx)
}

// Parse reads every line and returns the program. It stops at the first
// syntax error and returns no program in that case.
func (p *Parser) Parse(ctx context.Context) (*bytecode.Program, error) {
	var params bytecode.ProgramParams
	err := p.scan(ctx, func(loc errz.SourceLocation) error {
		instr, err := parseLine(loc)
		if err != nil {
			return err
		}
		if instr != nil {
			params.Instructions = append(params.Instructions, instr)
			params.Locations = append(params.Locations, bytecode.SourceLocation{
				Line:   loc.Line,
				Source: loc.Source,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	params.Filename = p.filename
	return bytecode.NewProgram(params), nil
}

// ParseAll reads every line, collecting syntax errors instead of stopping.
func (p *Parser) ParseAll(ctx context.Context) (*bytecode.Program, error) {
	var params bytecode.ProgramParams
	var result *multierror.Error
	err := p.scan(ctx, func(loc errz.SourceLocation) error {
		instr, err := parseLine(loc)
		if err != nil {
			result = multierror.Append(result, err)
			return nil
		}
		if instr != nil {
			params.Instructions = append(params.Instructions, instr)
			params.Locations = append(params.Locations, bytecode.SourceLocation{
				Line:   loc.Line,
				Source: loc.Source,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	params.Filename = p.filename
	return bytecode.NewProgram(params), result.ErrorOrNil()
}

func (p *Parser) scan(ctx context.Context, fn func(errz.SourceLocation) error) error {
	scanner := bufio.NewScanner(p.r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		loc := errz.SourceLocation{
			Filename: p.filename,
			Line:     lineNo,
			Source:   strings.TrimRight(scanner.Text(), "\r"),
		}
		if err := fn(loc); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read program: %w", err)
	}
	return nil
}
