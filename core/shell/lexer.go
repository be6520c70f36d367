package shell

import (
	"io"
	"regexp"
)

type matcher struct {
	kind    TokenKind
	pattern *regexp.Regexp
}

func literal(kind TokenKind, lit string) matcher {
	return matcher{kind, regexp.MustCompile(`\A` + regexp.QuoteMeta(lit))}
}

func pattern(kind TokenKind, expr string) matcher {
	re := regexp.MustCompile(`\A(?:` + expr + `)`)
	re.Longest()
	return matcher{kind, re}
}

// matchers is ordered by priority, ties on match length go to the earlier
// entry.
var matchers = []matcher{
	literal(TokenAnd, "&&"),
	literal(TokenOr, "||"),
	literal(TokenStderrRedirect, "2>"),
	literal(TokenSemicolon, ";"),
	literal(TokenPipe, "|"),
	literal(TokenInputRedirect, "<"),
	literal(TokenOutputRedirect, ">"),
	pattern(TokenQuotedString, `"(?:\\"|[^"])*"`),
	pattern(TokenWord, `[^ \t;]+`),
}

// Lexer splits a command line into tokens on demand.
type Lexer struct {
	src string
	pos int
	err error
}

// NewLexer creates a lexer over a single command line.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// Next returns the next token. It returns io.EOF once the input is exhausted
// and a *SyntaxError at the first position no token matches; after either the
// same error is returned forever.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	for l.pos < len(l.src) && isBlank(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == len(l.src) {
		l.err = io.EOF
		return Token{}, l.err
	}

	rest := l.src[l.pos:]
	best := -1
	bestLen := 0
	for i, m := range matchers {
		loc := m.pattern.FindStringIndex(rest)
		if loc == nil || loc[1] <= bestLen {
			continue
		}
		best, bestLen = i, loc[1]
	}

	if best < 0 {
		l.err = &SyntaxError{Kind: InvalidSyntax, Pos: l.pos, Text: rest[:1]}
		return Token{}, l.err
	}

	tok := Token{Kind: matchers[best].kind, Raw: rest[:bestLen], Pos: l.pos}
	l.pos += bestLen
	return tok, nil
}

// Tokenize returns every token of src.
func Tokenize(src string) ([]Token, error) {
	var out []Token
	lexer := NewLexer(src)
	for {
		tok, err := lexer.Next()
		switch {
		case err == io.EOF:
			return out, nil
		case err != nil:
			return nil, err
		}
		out = append(out, tok)
	}
}
