package shell

import "fmt"

// TokenKind identifies the kind of a lexical token.
type TokenKind int

const (
	TokenAnd TokenKind = iota
	TokenOr
	TokenSemicolon
	TokenPipe
	TokenInputRedirect
	TokenOutputRedirect
	TokenStderrRedirect
	TokenQuotedString
	TokenWord
)

var tokenKindNames = map[TokenKind]string{
	TokenAnd:            "And",
	TokenOr:             "Or",
	TokenSemicolon:      "Semicolon",
	TokenPipe:           "Pipe",
	TokenInputRedirect:  "InputRedirect",
	TokenOutputRedirect: "OutputRedirect",
	TokenStderrRedirect: "StderrRedirect",
	TokenQuotedString:   "QuotedString",
	TokenWord:           "Word",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// IsString reports whether the token carries text that can be used as an
// executable, argument or redirect target.
func (k TokenKind) IsString() bool {
	return k == TokenWord || k == TokenQuotedString
}

// Token is a single lexical unit of a command line.
type Token struct {
	Kind TokenKind
	// Raw holds the matched source text.
	Raw string
	// Pos is the byte offset of the token in the line.
	Pos int
}

// Value returns the token's text. Quoted strings have their delimiting quotes
// removed; escaped quotes inside are left as they are.
func (t Token) Value() string {
	if t.Kind == TokenQuotedString && len(t.Raw) >= 2 {
		return t.Raw[1 : len(t.Raw)-1]
	}
	return t.Raw
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Raw, t.Pos)
}
