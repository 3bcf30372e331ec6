// Package console implements the line-oriented amici command interpreter.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/theflywheel/table/internal/logging"
	"github.com/theflywheel/table/internal/network"
)

// Options configures a Console.
type Options struct {
	Prompt     string
	DumpOnQuit bool
}

// Console reads commands and applies them to a network.
type Console struct {
	net    *network.Network
	out    io.Writer
	errOut io.Writer
	opts   Options

	errStyle lipgloss.Style
}

type command struct {
	args  int // including the command name
	usage string
	run   func(c *Console, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"add":        {4, "first-name last-name handle", (*Console).add},
		"friend":     {3, "handle1 handle2", (*Console).friend},
		"unfriend":   {3, "handle1 handle2", (*Console).unfriend},
		"print":      {2, "handle", (*Console).print},
		"size":       {2, "handle", (*Console).size},
		"stats":      {1, "No arguments must be given", (*Console).stats},
		"init":       {1, "No arguments must be given", (*Console).reset},
		"dump":       {1, "No arguments must be given", (*Console).dump},
		"tablestats": {1, "No arguments must be given", (*Console).tableStats},
		"help":       {1, "No arguments must be given", (*Console).help},
		"quit":       {1, "No arguments must be given", nil},
	}
}

// New returns a console writing results to out and errors to errOut.
func New(net *network.Network, out, errOut io.Writer, opts Options) *Console {
	r := lipgloss.NewRenderer(errOut)
	return &Console{
		net:      net,
		out:      out,
		errOut:   errOut,
		opts:     opts,
		errStyle: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Run executes commands read from r until "quit" or end of input.
func (c *Console) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(c.out, c.opts.Prompt)
		if !scanner.Scan() {
			break
		}
		if c.Exec(scanner.Text()) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "Console.Run")
	}

	if c.opts.DumpOnQuit {
		c.net.Dump(c.out)
	}
	return nil
}

// Exec runs a single command line and reports whether it was "quit".
func (c *Console) Exec(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	name := fields[0]
	cmd, ok := commands[name]
	if !ok {
		c.fail(errors.Errorf("unknown command '%s'", name))
		return false
	}
	if len(fields) != cmd.args {
		c.fail(errors.Errorf("%s command usage: %s", name, cmd.usage))
		return false
	}
	if cmd.run == nil {
		return true
	}

	logging.Debugf("exec %s %v", name, fields[1:])
	if err := cmd.run(c, fields[1:]); err != nil {
		c.fail(err)
	}
	return false
}

func (c *Console) fail(err error) {
	fmt.Fprintf(c.errOut, "%s %v\n", c.errStyle.Render("error:"), err)
}

func (c *Console) add(args []string) error {
	return c.net.Add(args[0], args[1], args[2])
}

func (c *Console) friend(args []string) error {
	if err := c.net.Friend(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s and %s are now friends\n", args[0], args[1])
	return nil
}

func (c *Console) unfriend(args []string) error {
	if err := c.net.Unfriend(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s and %s are no longer friends\n", args[0], args[1])
	return nil
}

func (c *Console) size(args []string) error {
	p, err := c.net.Person(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "User %s has %s\n", p, plural(len(p.Friends), "friend", "friends", "no friends"))
	return nil
}

func (c *Console) print(args []string) error {
	if err := c.size(args); err != nil {
		return err
	}
	p, err := c.net.Person(args[0])
	if err != nil {
		return err
	}
	for _, f := range p.Friends {
		fmt.Fprintf(c.out, "\t%s\n", f)
	}
	return nil
}

func (c *Console) stats([]string) error {
	people, friendships := c.net.Stats()
	fmt.Fprintf(c.out, "Statistics: %s, %s\n",
		plural(people, "person", "people", ""),
		plural(friendships, "friendship", "friendships", ""))
	return nil
}

func (c *Console) reset([]string) error {
	c.net.Reset()
	fmt.Fprintln(c.out, "system re-initialized")
	return nil
}

func (c *Console) dump([]string) error {
	c.net.Dump(c.out)
	return nil
}

func (c *Console) tableStats([]string) error {
	data, err := yaml.Marshal(c.net.TableStats())
	if err != nil {
		return errors.Wrap(err, "Console.tableStats")
	}
	_, err = c.out.Write(data)
	return err
}

func (c *Console) help([]string) error {
	for _, name := range []string{"add", "friend", "unfriend", "print", "size", "stats", "init", "dump", "tablestats", "help", "quit"} {
		cmd := commands[name]
		if cmd.args == 1 {
			fmt.Fprintf(c.out, "  %s\n", name)
			continue
		}
		fmt.Fprintf(c.out, "  %s %s\n", name, cmd.usage)
	}
	return nil
}

// plural formats n with the singular or plural noun. A non-empty none is
// used instead when n is zero.
func plural(n int, one, many, none string) string {
	switch {
	case n == 0 && none != "":
		return none
	case n == 1:
		return fmt.Sprintf("1 %s", one)
	default:
		return fmt.Sprintf("%d %s", n, many)
	}
}
