package shell

import (
	"fmt"
	"strings"
)

// ChainOperator links an invocation to the one after it.
type ChainOperator int

const (
	// OpNone marks the last invocation of a chain.
	OpNone ChainOperator = iota
	// OpAnd runs the next invocation only if this one succeeded.
	OpAnd
	// OpOr runs the next invocation only if this one failed.
	OpOr
	// OpSequence always runs the next invocation.
	OpSequence
	// OpPipe feeds this invocation's output to the next one.
	OpPipe
)

func (op ChainOperator) String() string {
	switch op {
	case OpNone:
		return "None"
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	case OpSequence:
		return "Sequence"
	case OpPipe:
		return "Pipe"
	default:
		return fmt.Sprintf("ChainOperator(%d)", int(op))
	}
}

// chainOperators maps operator tokens to the operator they record.
var chainOperators = map[TokenKind]ChainOperator{
	TokenAnd:       OpAnd,
	TokenOr:        OpOr,
	TokenSemicolon: OpSequence,
	TokenPipe:      OpPipe,
}

// Invocation is one executable with its arguments and redirections, all
// after substitution.
type Invocation struct {
	Executable string
	Args       []string

	// Redirect targets, empty when not set.
	InputFile  string
	OutputFile string
	StderrFile string
}

// Argv returns the executable followed by its arguments.
func (inv *Invocation) Argv() []string {
	return append([]string{inv.Executable}, inv.Args...)
}

func (inv *Invocation) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%q", inv.Argv())
	if inv.InputFile != "" {
		fmt.Fprintf(&sb, " <%q", inv.InputFile)
	}
	if inv.OutputFile != "" {
		fmt.Fprintf(&sb, " >%q", inv.OutputFile)
	}
	if inv.StderrFile != "" {
		fmt.Fprintf(&sb, " 2>%q", inv.StderrFile)
	}
	return sb.String()
}

// Link is an invocation paired with the operator that follows it.
type Link struct {
	Invocation *Invocation
	Op         ChainOperator
}

// Chain is a parsed command line, evaluated strictly left to right.
type Chain []Link

func (c Chain) String() string {
	var sb strings.Builder
	for _, link := range c {
		fmt.Fprintf(&sb, "%s %s\n", link.Invocation, link.Op)
	}
	return sb.String()
}
