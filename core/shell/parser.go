// Package shell implements the command language of dcsh.
//
// Processing a command line follows the same broad steps as a POSIX shell
// (https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html)
// with a much smaller grammar:
//
// 1. The line is broken into tokens: words, quoted strings and operators.
//
// 2. The tokens are parsed into a flat chain of invocations joined by &&, ||,
// ; and |. There is no precedence or grouping.
//
// 3. Variable references are substituted in every word as it is consumed.
//
// 4. Redirections (<, > and 2>) are bound to their invocation.
//
// 5. Each invocation runs as a builtin or an executable file, and the chain
// operators decide whether the next one runs.
package shell

import (
	"io"

	"github.com/josephlewis42/dcsh/core/vars"
)

type parser struct {
	lexer *Lexer
	vars  vars.Substituter
}

// Parse turns a command line into a chain. Every word is substituted using
// vars at the point it is consumed.
func Parse(src string, vars vars.Substituter) (Chain, error) {
	p := &parser{lexer: NewLexer(src), vars: vars}

	var chain Chain
	for {
		link, err := p.parseInvocation()
		if err != nil {
			return nil, err
		}
		chain = append(chain, link)
		if link.Op == OpNone {
			return chain, nil
		}
	}
}

// next returns the next token, or ok=false at the end of input.
func (p *parser) next() (tok Token, ok bool, err error) {
	tok, err = p.lexer.Next()
	switch {
	case err == io.EOF:
		return Token{Pos: len(p.lexer.src)}, false, nil
	case err != nil:
		return Token{}, false, err
	}
	return tok, true, nil
}

// parseString consumes a word or quoted string and returns its substituted
// value.
func (p *parser) parseString() (string, error) {
	tok, ok, err := p.next()
	if err != nil {
		return "", err
	}
	if !ok || !tok.Kind.IsString() {
		return "", &SyntaxError{Kind: ExpectedString, Pos: tok.Pos, Text: tok.Raw}
	}
	return p.vars.Substitute(tok.Value()), nil
}

func (p *parser) parseInvocation() (Link, error) {
	executable, err := p.parseString()
	if err != nil {
		return Link{}, err
	}
	inv := &Invocation{Executable: executable}

	for {
		tok, ok, err := p.next()
		if err != nil {
			return Link{}, err
		}
		if !ok {
			return Link{Invocation: inv, Op: OpNone}, nil
		}

		if op, isOp := chainOperators[tok.Kind]; isOp {
			return Link{Invocation: inv, Op: op}, nil
		}

		switch tok.Kind {
		case TokenWord, TokenQuotedString:
			inv.Args = append(inv.Args, p.vars.Substitute(tok.Value()))
		case TokenInputRedirect:
			inv.InputFile, err = p.parseString()
		case TokenOutputRedirect:
			inv.OutputFile, err = p.parseString()
		case TokenStderrRedirect:
			inv.StderrFile, err = p.parseString()
		}
		if err != nil {
			return Link{}, err
		}
	}
}
