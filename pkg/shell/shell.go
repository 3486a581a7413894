// Package shell implements the interactive REPL (component A5,
// SPEC_FULL.md §4.13), grounded on
// _examples/original_source/src/shell/{mod,readline,complete}.rs. The
// original's hand-rolled rustyline wrapper becomes a thin layer over
// github.com/chzyer/readline; dispatch into the same command set the
// one-shot CLI exposes is done through a caller-supplied RootBuilder
// instead of this package importing pkg/cmd directly, which would
// create an import cycle (pkg/cmd/repl.go is the one that imports
// this package).
package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

// RootBuilder returns a freshly wired *cobra.Command tree bound to
// whatever App state the caller is carrying, rebuilt on every line so
// that a StringArrayVar like `run`'s -o never accumulates values across
// turns (mod.rs's run_once rebuilds nothing, but its Args::from_iter_safe
// is parsed fresh every call for the same reason).
type RootBuilder func() *cobra.Command

// State is the REPL's own notion of "current context", mirroring
// Shell's take_module/set_module/target fields: which module `run` with
// no module argument should target, which filter to scope it to, and
// per-module options set via `set`.
type State struct {
	Workspace string
	Module    string
	Target    []string
	Options   map[string]string
}

// Options configures Run.
type Options struct {
	HistoryFile string
	Version     string
	BuildRoot   RootBuilder
	State       *State
	// ModuleNames lists installed modules for tab completion; refreshed
	// by the caller between commands that can change it (pkg install,
	// pkg uninstall, pkg reload).
	ModuleNames func() []string
}

const banner = `
                   ___/           .
     ____ , __   .'  /\ ` + "`" + ` , __   _/_
    (     |'  ` + "`" + `. |  / | | |'  ` + "`" + `.  |
    ` + "`" + `--.  |    | |,'  | | |    |  |
   \___.' /    | /` + "`" + `---' / /    |  \__/

        osint | recon | security
      irc://irc.hackint.org:6697/#sn0int
`

var interactiveOnly = map[string]bool{
	"back": true, "help": true, "use": true, "target": true,
	"set": true, "exit": true, "quit": true,
}

// Run drives the read-eval loop until the user exits, grounded on
// shell/mod.rs's run_once/run.
func Run(opts Options) error {
	if opts.State == nil {
		opts.State = &State{Options: map[string]string{}}
	}
	if opts.State.Options == nil {
		opts.State.Options = map[string]string{}
	}

	fmt.Print(banner)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(opts.State),
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    newCompleter(opts),
	})
	if err != nil {
		return fmt.Errorf("failed to start readline: %w", err)
	}
	defer rl.Close()

	for {
		rl.SetPrompt(prompt(opts.State))
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "!") {
			if err := shellExec(line[1:], opts.State.Workspace); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			}
			continue
		}

		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		if done := dispatch(opts, tokens); done {
			break
		}
	}

	return nil
}

// dispatch handles the REPL-only commands directly and routes everything
// else through a fresh cobra command tree, returning true when the loop
// should exit.
func dispatch(opts Options, tokens []string) bool {
	state := opts.State
	switch tokens[0] {
	case "exit", "quit":
		return true
	case "back":
		if state.Module == "" {
			return true
		}
		state.Module = ""
		state.Options = map[string]string{}
		return false
	case "help":
		printHelp()
		return false
	case "use":
		if len(tokens) < 2 {
			fmt.Fprintln(os.Stderr, "Error: use requires a module name")
			return false
		}
		state.Module = tokens[1]
		state.Options = map[string]string{}
		return false
	case "target":
		state.Target = tokens[1:]
		return false
	case "set":
		if len(tokens) != 3 {
			fmt.Fprintln(os.Stderr, "Error: set requires exactly a key and a value")
			return false
		}
		state.Options[tokens[1]] = tokens[2]
		return false
	case "mod":
		fmt.Fprintln(os.Stderr, "Warning: the mod command is deprecated, use pkg")
		tokens = append([]string{"pkg"}, tokens[1:]...)
	case "run":
		tokens = expandRun(state, tokens)
	}

	root := opts.BuildRoot()
	root.SetArgs(tokens)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	return false
}

// expandRun splices in the REPL's current module/target/options when
// `run` is invoked bare, mirroring take_module/scoped_targets from
// shell/mod.rs without requiring every call to respecify them.
func expandRun(state *State, tokens []string) []string {
	args := tokens[1:]
	if len(args) == 0 && state.Module != "" {
		args = append([]string{state.Module}, state.Target...)
	}
	for k, v := range state.Options {
		args = append(args, "-o", k+"="+v)
	}
	return append([]string{"run"}, args...)
}

func prompt(state *State) string {
	p := "(" + state.Workspace + ")"
	if state.Module != "" {
		p += " " + state.Module
	}
	return p + " sn0int > "
}

func printHelp() {
	fmt.Println(`Available commands: activity, add, autonoscope, autoscope, back, cal, delete,
  export, fsck, help, keyring, mod, noscope, notify, paths, pkg, rescope, run,
  scope, select, set, stats, target, use, workspace, exit, quit.
A leading ! runs the rest of the line in a shell.`)
}

func shellExec(cmd, workspace string) error {
	shellName, flag := "sh", "-c"
	if runtime.GOOS == "windows" {
		shellName, flag = "cmd", "/C"
	}
	c := exec.Command(shellName, flag, cmd)
	c.Env = append(os.Environ(), "SN0INT_WORKSPACE="+workspace)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
