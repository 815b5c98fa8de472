package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sbfLang/sbf/pkg/machine"
	"github.com/sbfLang/sbf/pkg/parser"
	"github.com/sbfLang/sbf/pkg/types"
)

// ReplCmd runs an interactive session. The tape and data pointer persist
// across inputs; each balanced chunk runs as its own program.
type ReplCmd struct {
	Width int    `default:"8" enum:"8,16,32" help:"Cell width in bits."`
	EOF   string `default:"zero" enum:"zero,keep,fail" help:"End-of-input policy for ','."`
	Steps int    `help:"Step budget per chunk, 0 = unlimited."`
	Quiet bool   `help:"Quiet mode, no banner."`
}

func (r *ReplCmd) Run() error {
	eof, err := types.ParseEOFPolicy(r.EOF)
	if err != nil {
		return err
	}

	m := machine.New(&types.Program{})
	m.Width = types.Width(r.Width)
	m.EOF = eof
	m.Input = strings.NewReader("")

	if !r.Quiet {
		printBanner()
	}

	reader := bufio.NewReader(os.Stdin)
	buffer := ""
	depth := 0

	for {
		if buffer == "" {
			fmt.Print("sbf> ")
		} else {
			fmt.Print("...> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		line = strings.TrimRight(line, "\r\n")

		if buffer == "" {
			if handled := handleCommand(m, r, line); handled {
				continue
			}
		}

		// Track bracket depth for multi-line input
		for _, ch := range line {
			if ch == '[' {
				depth++
			} else if ch == ']' {
				depth--
			}
		}

		buffer += line + "\n"

		// Brackets balanced: run the chunk
		if depth <= 0 {
			if strings.TrimSpace(buffer) != "" {
				executeChunk(m, r, buffer)
			}
			buffer = ""
			depth = 0
		}
	}
}

func handleCommand(m *machine.Machine, r *ReplCmd, line string) bool {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		return true

	case trimmed == ":help" || trimmed == ":h" || trimmed == ":?":
		printHelp()
		return true

	case trimmed == ":quit" || trimmed == ":q" || trimmed == ":exit":
		fmt.Println("Goodbye!")
		os.Exit(0)

	case trimmed == ":tape" || trimmed == ":t":
		rep := m.Report()
		fmt.Printf("  tape[%d..%d]:", rep.DumpFrom, rep.DumpFrom+int64(len(rep.Dump))-1)
		for _, v := range rep.Dump {
			fmt.Printf(" %d", v)
		}
		fmt.Println()
		return true

	case trimmed == ":state" || trimmed == ":s":
		fmt.Printf("  ptr=%d cell=%d steps=%d halt=%s\n",
			m.Pointer, m.Tape.Read(m.Pointer), m.Steps, m.Reason)
		return true

	case trimmed == ":reset" || trimmed == ":r":
		m.Reset()
		fmt.Println("Tape cleared.")
		return true

	case trimmed == ":debug" || trimmed == ":d":
		m.Debug = !m.Debug
		fmt.Printf("Debug mode: %v\n", m.Debug)
		return true

	case strings.HasPrefix(trimmed, ":input "):
		m.Input = strings.NewReader(strings.TrimPrefix(trimmed, ":input "))
		fmt.Println("Input queued.")
		return true
	}

	return false
}

func executeChunk(m *machine.Machine, r *ReplCmd, source string) {
	prog, err := parser.Load(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load error: %v\n", err)
		return
	}

	m.Load(prog)
	m.Steps = 0
	m.MaxSteps = r.Steps

	if err := m.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Printf("  => cell[%d] = %d\n", m.Pointer, m.Tape.Read(m.Pointer))
}

func printBanner() {
	fmt.Print(`
╔════════════════════════════════════════════════════╗
║  SBF - Strict BrainFuck                            ║
║  Unbounded tape, checked cell arithmetic           ║
╠════════════════════════════════════════════════════╣
║  Type :help for commands, :quit to exit            ║
╚════════════════════════════════════════════════════╝
`)
}

func printHelp() {
	fmt.Print(`
SBF commands:
  :help, :h, :?    Show this help
  :quit, :q        Exit
  :tape, :t        Dump the visited tape region
  :state, :s       Show pointer, current cell, step count
  :reset, :r       Fresh tape, pointer back to origin
  :debug, :d       Toggle per-instruction tracing
  :input <text>    Queue text for ',' to read

Language:
  >  <             Move the data pointer right / left
  +  -             Increment / decrement the current cell (checked!)
  .  ,             Write / read one character
  [ ... ]          Loop while the current cell is nonzero
  anything else    Comment

Example:
  ++>+++++[<+>-]<
  :state
`)
}
