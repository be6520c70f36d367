package shell

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"syscall"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]Builtin)

// Builtin is a command that runs inside the shell process.
type Builtin interface {
	Main(s *Shell, stdio Stdio, args []string) int
}

type BuiltinFunc func(s *Shell, stdio Stdio, args []string) int

func (f BuiltinFunc) Main(s *Shell, stdio Stdio, args []string) int {
	return f(s, stdio, args)
}

var _ Builtin = (BuiltinFunc)(nil)

// Cd is the cd shell builtin
func Cd(s *Shell, stdio Stdio, args []string) int {
	switch len(args) {
	case 1:
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(stdio.Err, "%s: %v\n", args[0], err)
			return 1
		}
		args = append(args, home)
		fallthrough
	case 2:
		if s.subshell {
			// Only report whether the directory could be entered.
			if err := checkDir(args[1]); err != nil {
				fmt.Fprintf(stdio.Err, "%s: %v\n", args[0], err)
				return 1
			}
			return 0
		}
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(stdio.Err, "%s: %v\n", args[0], err)
			return 1
		}
		if wd, err := os.Getwd(); err == nil {
			os.Setenv("PWD", wd)
		}
	default:
		fmt.Fprintf(stdio.Err, "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}
	return nil
}

// Exit asks the shell to quit once the current line finishes.
func Exit(s *Shell, stdio Stdio, args []string) int {
	code := s.LastStatus().Code
	switch len(args) {
	case 1:
	case 2:
		var err error
		if code, err = strconv.Atoi(args[1]); err != nil {
			fmt.Fprintf(stdio.Err, "%s: %s: numeric argument required\n", args[0], args[1])
			return 2
		}
	default:
		fmt.Fprintf(stdio.Err, "%s: too many arguments\n", args[0])
		return 1
	}

	s.requestExit(code)
	return code
}

func History(s *Shell, stdio Stdio, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := stdio.Err
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Display or manipulate the history list")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 1
		}
		return 0
	}

	if s.History == nil {
		return 0
	}

	if *clear {
		if err := s.History.Clear(); err != nil {
			fmt.Fprintf(stdio.Err, "%s: %v\n", args[0], err)
			return 1
		}
		return 0
	}

	for i, line := range s.History.Entries() {
		fmt.Fprintf(stdio.Out, "% 5d  %s\n", i+1, line)
	}
	return 0
}

// Type reports how each name would be run.
func Type(s *Shell, stdio Stdio, args []string) int {
	ret := 0
	for _, name := range args[1:] {
		if _, ok := AllBuiltins[name]; ok {
			fmt.Fprintf(stdio.Out, "%s is a shell builtin\n", name)
			continue
		}
		path, err := exec.LookPath(name)
		if err != nil {
			fmt.Fprintf(stdio.Err, "%s: %s: not found\n", args[0], name)
			ret = 1
			continue
		}
		fmt.Fprintf(stdio.Out, "%s is %s\n", name, path)
	}
	return ret
}

func Help(s *Shell, stdio Stdio, args []string) int {
	w := stdio.Out
	fmt.Fprintf(w, "%s, a small interactive shell\n", s.Name)
	fmt.Fprintln(w, "Commands are chained with &&, ||, ; and |, and redirected with <, > and 2>.")
	fmt.Fprintln(w, "Variables are set with NAME = value and used as $NAME or ${NAME}.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")
	fmt.Fprintln(w)

	var builtins []string
	for k := range AllBuiltins {
		builtins = append(builtins, k)
	}
	sort.Strings(builtins)

	for _, name := range builtins {
		fmt.Fprintln(w, name)
	}

	return 0
}

func init() {
	AllBuiltins["cd"] = BuiltinFunc(Cd)
	AllBuiltins["exit"] = BuiltinFunc(Exit)
	AllBuiltins["history"] = BuiltinFunc(History)
	AllBuiltins["type"] = BuiltinFunc(Type)
	AllBuiltins["help"] = BuiltinFunc(Help)
}
