package shell

import (
	"fmt"
	"sync"
	"time"

	"github.com/josephlewis42/dcsh/core/logger"
	"github.com/josephlewis42/dcsh/core/vars"
	"go.uber.org/zap"
)

// DefaultName prefixes diagnostics when no name is configured.
const DefaultName = "dcsh"

// HistoryLister gives builtins access to the command history.
type HistoryLister interface {
	Entries() []string
	Clear() error
}

// ExitRequest is returned by Execute after the exit builtin ran.
type ExitRequest struct {
	Code int
}

func (e *ExitRequest) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// ExitCode returns the code the shell should exit with.
func (e *ExitRequest) ExitCode() int {
	return e.Code
}

// Shell executes lines of input: assignments update the variable store and
// commands run through the parser and orchestrator.
type Shell struct {
	Name    string
	Vars    *vars.Store
	History HistoryLister
	Logger  *zap.Logger

	orchestrator *Orchestrator

	// subshell is set on the view handed to builtins in pipeline stages.
	subshell bool

	mu         sync.Mutex
	lastStatus Status
	exit       *ExitRequest
}

// New creates a shell whose commands use stdio.
func New(name string, variables *vars.Store, stdio Stdio, log *zap.Logger) *Shell {
	if name == "" {
		name = DefaultName
	}
	if variables == nil {
		variables = vars.New()
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Shell{
		Name:   name,
		Vars:   variables,
		Logger: log,
	}
	s.orchestrator = &Orchestrator{
		Stdio:         stdio,
		LookupBuiltin: s.lookupBuiltin,
		Stopped:       s.exitRequested,
		Logger:        log,
	}
	return s
}

func (s *Shell) lookupBuiltin(name string, subshell bool) (InProcessFunc, bool) {
	builtin, ok := AllBuiltins[name]
	if !ok {
		return nil, false
	}

	target := s
	if subshell {
		target = s.subshellView()
	}
	return func(stdio Stdio, argv []string) int {
		return builtin.Main(target, stdio, argv)
	}, true
}

// subshellView is a copy of the shell for builtins in pipeline stages, like
// the subshells a POSIX shell runs them in. An exit request made on it is
// dropped with it.
func (s *Shell) subshellView() *Shell {
	return &Shell{
		Name:         s.Name,
		Vars:         s.Vars,
		History:      s.History,
		Logger:       s.Logger,
		orchestrator: s.orchestrator,
		subshell:     true,
		lastStatus:   s.LastStatus(),
	}
}

// LastStatus returns the status of the last command line.
func (s *Shell) LastStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStatus
}

func (s *Shell) requestExit(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exit = &ExitRequest{Code: code}
}

func (s *Shell) exitRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exit != nil
}

// Execute runs one line of input. Syntax and execution errors are returned
// for the caller to report and recorded as the last status; an *ExitRequest
// means the exit builtin ran.
func (s *Shell) Execute(line string) error {
	switch stmt := ParseStatement(line).(type) {
	case nil:
		return nil

	case Assignment:
		s.Logger.Debug(logger.MsgAssignment, zap.String("name", stmt.Name), zap.String("value", stmt.Value))
		return s.Vars.Set(stmt.Name, s.Vars.Substitute(stmt.Value))

	case Command:
		start := time.Now()
		status, err := s.RunCommand(stmt.Source)
		if err != nil {
			status = ErrorStatus(err)
		}
		s.Logger.Info(logger.MsgCommand,
			zap.String("line", stmt.Source),
			zap.Stringer("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))

		s.mu.Lock()
		defer s.mu.Unlock()
		s.lastStatus = status

		// exit has already run, so it wins over a later error.
		if exit := s.exit; exit != nil {
			s.exit = nil
			return exit
		}
		return err

	default:
		return fmt.Errorf("unknown statement %T", stmt)
	}
}

// RunCommand parses and runs a single command line.
func (s *Shell) RunCommand(source string) (Status, error) {
	chain, err := Parse(source, s.Vars)
	if err != nil {
		return Status{}, err
	}
	return s.orchestrator.Run(chain)
}
