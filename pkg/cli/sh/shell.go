package sh

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/saber.go/pkg/env"
	"github.com/robotalks/saber.go/pkg/sabertooth"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell   *ishell.Shell
	Config  *env.Config
	Session *sabertooth.Session
}

// SessionFunc executes a command against an open session. A nil result
// prints OK.
type SessionFunc func(s *sabertooth.Session, args []string) (interface{}, error)

const (
	shellKey     = "$shell"
	closedPrompt = "[closed] > "
)

// ErrNotOpen indicates the command requires an open session.
var ErrNotOpen = errors.New("not open")

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&InfoCmd,
		&OpenCmd,
		&CloseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// SessionCmd wraps fn as a command which requires an open session.
func SessionCmd(name, help string, fn SessionFunc, aliases ...string) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: aliases,
		Help:    help,
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.Session == nil {
				c.Err(ErrNotOpen)
				return
			}
			res, err := fn(s.Session, c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			out, err := s.Format(res)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(out)
		},
	}
}

// Format renders a command result for display.
func (s *Shell) Format(res interface{}) (string, error) {
	if s.OutputJSON {
		if res == nil {
			res = struct{}{}
		}
		out, err := json.Marshal(res)
		return string(out), err
	}
	if res == nil {
		return "OK", nil
	}
	return fmt.Sprint(res), nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Open releases the current session, then opens a new one using Config.
func (s *Shell) Open() error {
	s.Close()
	session, err := s.Config.Connect()
	if err != nil {
		return err
	}
	s.Session = session
	s.setPrompt(fmt.Sprintf("%s@%d > ", s.Config.Port, s.Config.Address))
	return nil
}

// Close releases the current session.
func (s *Shell) Close() {
	if s.Session != nil {
		s.Session.Release()
		s.Session = nil
		s.setPrompt(closedPrompt)
	}
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

// Run runs the shell and releases the session when it's done.
func (s *Shell) Run(args ...string) error {
	defer s.Close()
	if s.AutoConnect {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Port)
		}
		if err := s.Open(); err != nil {
			return fmt.Errorf("open %q failed: %v", s.Config.Port, err)
		}
	}

	if len(args) > 0 {
		return s.Shell.Process(args...)
	}
	if s.Interactive {
		s.Shell.Run()
		return nil
	}
	return errors.New("command expected")
}

var (
	// InfoCmd prints session info.
	InfoCmd = SessionCmd("info", "", func(s *sabertooth.Session, args []string) (interface{}, error) {
		return s.Info(), nil
	}, "i")

	// OpenCmd (re)opens the session.
	OpenCmd = ishell.Cmd{
		Name: "open",
		Help: "[PORT]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Config.Port = c.Args[0]
			}
			if err := s.Open(); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd stops the motors and closes the session.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	if err := New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...); err != nil {
		glog.Exit(err)
	}
}
