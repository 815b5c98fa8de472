// SBF - Strict BrainFuck
// A brainfuck dialect with an unbounded bidirectional tape and checked
// (non-wrapping) cell arithmetic.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sbfLang/sbf/pkg/machine"
	"github.com/sbfLang/sbf/pkg/parser"
	"github.com/sbfLang/sbf/pkg/types"
)

var cli struct {
	Run  RunCmd  `cmd:"" default:"withargs" help:"Run SBF program files."`
	Repl ReplCmd `cmd:"" help:"Start an interactive session."`
}

// RunCmd runs one or more SBF source files in sequence, each on a fresh
// machine.
type RunCmd struct {
	Paths []string `arg:"" name:"path" type:"existingfile" help:"SBF source files."`

	Report bool   `short:"r" help:"Print a post-run state report and phase timings to stderr."`
	Width  int    `default:"8" enum:"8,16,32" help:"Cell width in bits."`
	EOF    string `default:"zero" enum:"zero,keep,fail" help:"End-of-input policy for ','."`
	Steps  int    `help:"Step budget, 0 = unlimited."`
	Debug  bool   `help:"Trace each instruction to stderr."`
}

func (r *RunCmd) Run() error {
	eof, err := types.ParseEOFPolicy(r.EOF)
	if err != nil {
		return err
	}
	for _, path := range r.Paths {
		if err := r.runFile(path, eof); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

type mark struct {
	name string
	at   time.Time
}

func (r *RunCmd) runFile(path string, eof types.EOFPolicy) error {
	marks := []mark{{"start", time.Now()}}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	marks = append(marks, mark{"read", time.Now()})

	prog, err := parser.Load(string(data))
	if err != nil {
		return err
	}
	marks = append(marks, mark{"load", time.Now()})

	m := machine.New(prog)
	m.Width = types.Width(r.Width)
	m.EOF = eof
	m.MaxSteps = r.Steps
	m.Debug = r.Debug

	runErr := m.Run()
	marks = append(marks, mark{"run", time.Now()})

	if r.Report {
		fmt.Fprint(os.Stderr, m.Report())
		fmt.Fprintln(os.Stderr, "Timings:")
		for i := 1; i < len(marks); i++ {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", marks[i].name, marks[i].at.Sub(marks[i-1].at))
		}
	}

	return runErr
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("sbf"),
		kong.Description("Strict brainfuck: unbounded tape, checked cell arithmetic."),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
