// Package parser provides SBF loading using Participle v2.
// Grammar is defined as Go structs with tags; loop nesting in the grammar
// is what guarantees every '[' pairs with exactly one ']'.
package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sbfLang/sbf/pkg/types"
)

// AST node types - parsed from source, flattened into types.Instruction
// for execution.

type astProgram struct {
	Ops []*astOp `@@*`
}

type astOp struct {
	Pos lexer.Position

	Instr *string  `  @Instr`
	Loop  *astLoop `| @@`
}

type astLoop struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Body []*astOp `"[" @@* "]"`
}

// SBF lexer definition. Every character is covered: the eight instruction
// characters, and arbitrary runs of everything else as comments.
var sbfLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Instr", Pattern: `[+\-<>.,]`},
	{Name: "Bracket", Pattern: `[\[\]]`},
	{Name: "Comment", Pattern: `[^+\-<>.,\[\]]+`},
})

var sbfParser = participle.MustBuild[astProgram](
	participle.Lexer(sbfLexer),
	participle.Elide("Comment"),
)

// Load parses and links SBF source into an executable program.
// Malformed loop nesting is rejected here, before anything runs.
func Load(source string) (*types.Program, error) {
	ast, err := sbfParser.ParseString("", source)
	if err != nil {
		// The grammar only fails on bracket structure; rescan with a
		// bracket stack to pinpoint the offending bracket.
		if ul := scanBrackets(source); ul != nil {
			return nil, ul
		}
		return nil, err
	}
	c := &compiler{}
	c.emit(ast.Ops)
	return &types.Program{Ops: c.ops}, nil
}

// scanBrackets is a single pass over the source with a stack of open-bracket
// positions. It returns the position and direction of the first unmatched
// bracket, or nil when nesting is balanced.
func scanBrackets(source string) *types.UnbalancedLoopError {
	var stack []types.Position
	line, col := 1, 1
	for off, ch := range source {
		switch ch {
		case '[':
			stack = append(stack, types.Position{Offset: off, Line: line, Column: col})
		case ']':
			if len(stack) == 0 {
				return &types.UnbalancedLoopError{
					Pos:  types.Position{Offset: off, Line: line, Column: col},
					Open: false,
				}
			}
			stack = stack[:len(stack)-1]
		}
		if ch == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	if len(stack) > 0 {
		// Innermost unclosed bracket.
		return &types.UnbalancedLoopError{Pos: stack[len(stack)-1], Open: true}
	}
	return nil
}

type compiler struct {
	ops []types.Instruction
}

// emit flattens AST ops into the instruction sequence, coalescing runs of
// the same character and linking loop partners at emit time.
func (c *compiler) emit(ops []*astOp) {
	for _, op := range ops {
		if op.Loop != nil {
			start := len(c.ops)
			c.ops = append(c.ops, types.Instruction{
				Op:  types.OpLoopStart,
				Pos: pos(op.Loop.Pos),
			})
			c.emit(op.Loop.Body)
			end := len(c.ops)
			c.ops = append(c.ops, types.Instruction{
				Op:    types.OpLoopEnd,
				Match: start,
				Pos:   closePos(op.Loop.EndPos),
			})
			c.ops[start].Match = end
			continue
		}

		opcode := instrOpcode(*op.Instr)
		if coalescable(opcode) {
			if n := len(c.ops); n > 0 && c.ops[n-1].Op == opcode {
				c.ops[n-1].Arg++
				continue
			}
			c.ops = append(c.ops, types.Instruction{Op: opcode, Arg: 1, Pos: pos(op.Pos)})
			continue
		}
		c.ops = append(c.ops, types.Instruction{Op: opcode, Pos: pos(op.Pos)})
	}
}

func instrOpcode(s string) types.Opcode {
	switch s {
	case "<":
		return types.OpLeft
	case ">":
		return types.OpRight
	case "+":
		return types.OpInc
	case "-":
		return types.OpDec
	case ".":
		return types.OpOutput
	}
	return types.OpInput // ","
}

// coalescable reports whether runs of op merge into one instruction.
// Loop and I/O instructions never merge.
func coalescable(op types.Opcode) bool {
	switch op {
	case types.OpLeft, types.OpRight, types.OpInc, types.OpDec:
		return true
	}
	return false
}

func pos(p lexer.Position) types.Position {
	return types.Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

// closePos converts a node's EndPos (just past the closing bracket) to the
// position of the bracket itself.
func closePos(p lexer.Position) types.Position {
	out := pos(p)
	if out.Offset > 0 {
		out.Offset--
	}
	if out.Column > 1 {
		out.Column--
	}
	return out
}
