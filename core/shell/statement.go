package shell

import (
	"regexp"
	"strings"
)

var assignmentPattern = regexp.MustCompile(`\A([a-zA-Z0-9]+)[ \t]*=[ \t]*(.*)\z`)

// Statement is one line of shell input.
type Statement interface {
	isStatement()
}

// Assignment binds a variable to a substituted value.
type Assignment struct {
	Name  string
	Value string
}

// Command is a command line for the tokenizer, parser and orchestrator.
type Command struct {
	Source string
}

func (Assignment) isStatement() {}
func (Command) isStatement()    {}

// ParseStatement classifies a line. It returns nil for blank lines.
func ParseStatement(line string) Statement {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}

	if groups := assignmentPattern.FindStringSubmatch(line); groups != nil {
		return Assignment{Name: groups[1], Value: groups[2]}
	}
	return Command{Source: line}
}
