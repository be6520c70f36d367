package shell

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Stdio holds the standard streams of an invocation.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// DefaultStdio uses the streams of the current process.
func DefaultStdio() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// orDiscard fills unset streams the way exec.Cmd treats them: empty input
// and discarded output.
func (s Stdio) orDiscard() Stdio {
	if s.In == nil {
		s.In = strings.NewReader("")
	}
	if s.Out == nil {
		s.Out = io.Discard
	}
	if s.Err == nil {
		s.Err = io.Discard
	}
	return s
}

// InProcessFunc runs a builtin in-process with the invocation's streams and
// returns its exit code.
type InProcessFunc func(stdio Stdio, argv []string) int

// Orchestrator runs parsed chains against the operating system.
type Orchestrator struct {
	Stdio Stdio
	// LookupBuiltin resolves names that run in-process, it may be nil.
	// subshell is set for every stage of a pipeline; those builtins must
	// leave the shell's state alone.
	LookupBuiltin func(name string, subshell bool) (InProcessFunc, bool)
	// Stopped, if set, is checked after each invocation that ran to
	// completion. Returning true ends the chain with that invocation's status.
	Stopped func() bool
	Logger  *zap.Logger
}

func (o *Orchestrator) stopped() bool {
	return o.Stopped != nil && o.Stopped()
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Run executes chain left to right and returns the status that ended it.
//
// Pipe stages are started without waiting and reaped in the background, the
// read end of their output becomes the next invocation's input. Every other
// invocation runs to completion before the operator is applied. An
// *ExecError stops the chain; earlier invocations keep their effects. The
// chain also ends early once Stopped reports true.
func (o *Orchestrator) Run(chain Chain) (Status, error) {
	// pending is the read end of the previous stage's pipe, owned here until
	// it is handed to the next process.
	var pending *os.File
	defer func() {
		if pending != nil {
			pending.Close()
		}
	}()

	for _, link := range chain {
		subshell := link.Op == OpPipe || pending != nil
		proc, err := o.prepare(link.Invocation, pending, subshell)
		pending = nil
		if err != nil {
			return Status{}, err
		}

		if link.Op == OpPipe {
			r, w, err := os.Pipe()
			if err != nil {
				proc.release()
				return Status{}, &ExecError{Kind: RedirectIOError, Name: "pipe", Err: err}
			}
			proc.stdio.Out = w
			proc.own(w)
			if err := proc.start(); err != nil {
				r.Close()
				return Status{}, err
			}
			pending = r
			go o.reap(proc)
			continue
		}

		status, err := proc.run()
		if err != nil {
			return status, err
		}

		switch link.Op {
		case OpAnd:
			if !status.Success() {
				return status, nil
			}
		case OpOr:
			if status.Success() {
				return status, nil
			}
		case OpSequence:
		default:
			return status, nil
		}

		if o.stopped() {
			return status, nil
		}
	}

	return StatusSuccess, nil
}

func (o *Orchestrator) reap(proc *process) {
	status, err := proc.wait()
	o.logger().Debug("reaped pipeline stage",
		zap.Strings("argv", proc.argv),
		zap.Stringer("status", status),
		zap.Error(err))
}

// prepare resolves inv and opens its redirections. It takes ownership of
// piped, which wins over an input file.
func (o *Orchestrator) prepare(inv *Invocation, piped *os.File, subshell bool) (*process, error) {
	proc := &process{argv: inv.Argv(), stdio: o.Stdio}
	if piped != nil {
		proc.own(piped)
	}

	if inv.InputFile != "" {
		fd, err := os.Open(inv.InputFile)
		if err != nil {
			proc.release()
			return nil, &ExecError{Kind: RedirectIOError, Name: inv.InputFile, Err: err}
		}
		proc.own(fd)
		proc.stdio.In = fd
	}
	if piped != nil {
		proc.stdio.In = piped
	}

	if inv.OutputFile != "" {
		fd, err := os.Create(inv.OutputFile)
		if err != nil {
			proc.release()
			return nil, &ExecError{Kind: RedirectIOError, Name: inv.OutputFile, Err: err}
		}
		proc.own(fd)
		proc.stdio.Out = fd
	}

	if inv.StderrFile != "" {
		fd, err := os.Create(inv.StderrFile)
		if err != nil {
			proc.release()
			return nil, &ExecError{Kind: RedirectIOError, Name: inv.StderrFile, Err: err}
		}
		proc.own(fd)
		proc.stdio.Err = fd
	}

	if o.LookupBuiltin != nil {
		if builtin, ok := o.LookupBuiltin(inv.Executable, subshell); ok {
			proc.builtin = builtin
			return proc, nil
		}
	}

	proc.cmd = exec.Command(inv.Executable, inv.Args...)
	return proc, nil
}

// process is a prepared invocation. It owns the files it was given until it
// starts: an executable's copies are closed once the child holds them, a
// builtin's once it returns.
type process struct {
	argv    []string
	stdio   Stdio
	owned   []io.Closer
	builtin InProcessFunc
	cmd     *exec.Cmd
	done    chan Status
}

func (p *process) own(c io.Closer) {
	p.owned = append(p.owned, c)
}

func (p *process) release() {
	for _, c := range p.owned {
		c.Close()
	}
	p.owned = nil
}

func (p *process) start() error {
	if p.builtin != nil {
		p.done = make(chan Status, 1)
		go func() {
			code := p.builtin(p.stdio.orDiscard(), p.argv)
			p.release()
			p.done <- Status{Code: code}
		}()
		return nil
	}

	p.cmd.Stdin = p.stdio.In
	p.cmd.Stdout = p.stdio.Out
	p.cmd.Stderr = p.stdio.Err
	err := p.cmd.Start()
	p.release()
	if err != nil {
		return &ExecError{Kind: CommandNotFound, Name: p.argv[0], Err: err}
	}
	return nil
}

func (p *process) wait() (Status, error) {
	if p.builtin != nil {
		return <-p.done, nil
	}

	err := p.cmd.Wait()
	if p.cmd.ProcessState != nil {
		return statusOf(p.cmd.ProcessState), nil
	}
	return Status{}, err
}

func (p *process) run() (Status, error) {
	if err := p.start(); err != nil {
		return Status{}, err
	}
	return p.wait()
}
