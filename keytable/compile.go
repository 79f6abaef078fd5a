package keytable

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/brltty-go/bridge"
)

// Loader resolves an `include` directive's argument to source text.
type Loader interface {
	Load(name string) (string, error)
}

// Compile parses a declarative key-binding file (spec §4.2, §6) using
// the directives `context`, `bind`, `map`, `include`, `assign`, `ifvar`.
func Compile(loader Loader, name, source string) (*Table, error) {
	t := newTable()
	c := &compiler{
		table:    t,
		loader:   loader,
		seen:     map[string]bool{name: true},
		vars:     make(map[string]string),
		commands: make(map[string]bridge.Command),
	}
	t.parents[RootContext] = RootContext
	if err := c.compileSource(name, source); err != nil {
		return nil, err
	}
	return t, nil
}

type compiler struct {
	table    *Table
	loader   Loader
	seen     map[string]bool
	vars     map[string]string
	commands map[string]bridge.Command
}

type compileError struct {
	source string
	line   int
	msg    string
}

func (e *compileError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.source, e.line, e.msg)
}

func (c *compiler) errf(source string, line int, format string, args ...any) error {
	return bridge.NewError(bridge.KindInput, "keytable.compile",
		&compileError{source: source, line: line, msg: fmt.Sprintf(format, args...)})
}

func (c *compiler) compileSource(source, text string) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	var pendingGuard func() bool
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		directive := strings.ToLower(fields[0])
		args := fields[1:]

		if directive == "ifvar" || directive == "ifnotvar" {
			if len(args) != 1 {
				return c.errf(source, lineNo, "%s requires one argument", directive)
			}
			name := args[0]
			want := directive == "ifvar"
			pendingGuard = func() bool { return (c.vars[name] != "" && c.vars[name] != "0") == want }
			continue
		}

		apply := true
		if pendingGuard != nil {
			apply = pendingGuard()
			pendingGuard = nil
		}
		if !apply {
			continue
		}

		switch directive {
		case "include":
			if len(args) != 1 {
				return c.errf(source, lineNo, "include requires one argument")
			}
			if err := c.include(source, lineNo, args[0]); err != nil {
				return err
			}
		case "assign":
			if len(args) != 2 {
				return c.errf(source, lineNo, "assign requires a name and a value")
			}
			c.vars[args[0]] = args[1]
		case "key":
			if len(args) != 3 {
				return c.errf(source, lineNo, "key requires name, group and number")
			}
			group, err := parseGroup(args[1])
			if err != nil {
				return c.errf(source, lineNo, "%v", err)
			}
			num, err := strconv.Atoi(args[2])
			if err != nil {
				return c.errf(source, lineNo, "invalid key number %q", args[2])
			}
			c.table.names[bridge.KeyID{Group: group, Number: num}] = args[0]
		case "context":
			if len(args) < 1 || len(args) > 2 {
				return c.errf(source, lineNo, "context requires a name and optional parent")
			}
			ctx := Context(args[0])
			parent := RootContext
			if len(args) == 2 {
				parent = Context(args[1])
			}
			if err := c.setParent(source, lineNo, ctx, parent); err != nil {
				return err
			}
		case "map":
			if len(args) != 2 {
				return c.errf(source, lineNo, "map requires a command name and a numeric command")
			}
			v, err := strconv.ParseUint(args[1], 0, 32)
			if err != nil {
				return c.errf(source, lineNo, "invalid command value %q", args[1])
			}
			c.commands[args[0]] = bridge.Command(v)
		case "bind":
			if err := c.bind(source, lineNo, args); err != nil {
				return err
			}
		default:
			return c.errf(source, lineNo, "unsupported directive %q", fields[0])
		}
	}
	return nil
}

func (c *compiler) setParent(source string, line int, ctx, parent Context) error {
	if existing, ok := c.table.parents[ctx]; ok && existing != parent && ctx != RootContext {
		return c.errf(source, line, "context %q already declared with a different parent", ctx)
	}
	c.table.parents[ctx] = parent
	if _, ok := c.table.parents[parent]; !ok {
		c.table.parents[parent] = RootContext
	}
	return nil
}

// bind parses: bind <context> <chord> <command> [hold|repeat|hotkey] [-> <release-command>]
func (c *compiler) bind(source string, line int, args []string) error {
	if len(args) < 3 {
		return c.errf(source, line, "bind requires context, chord and command")
	}
	ctx := Context(args[0])
	if _, ok := c.table.parents[ctx]; !ok {
		c.table.parents[ctx] = RootContext
	}
	chord, err := c.parseChord(args[1])
	if err != nil {
		return c.errf(source, line, "%v", err)
	}
	cmd, err := c.resolveCommand(args[2])
	if err != nil {
		return c.errf(source, line, "%v", err)
	}

	b := &Binding{Context: ctx, Chord: chord, Command: cmd}
	rest := args[3:]
	for i := 0; i < len(rest); i++ {
		switch strings.ToLower(rest[i]) {
		case "hold":
			b.Flags |= BindHold
		case "repeat":
			b.Flags |= BindRepeat
		case "hotkey":
			b.Flags |= BindHotkey
		case "->":
			if i+1 >= len(rest) {
				return c.errf(source, line, "-> requires a release command")
			}
			rc, err := c.resolveCommand(rest[i+1])
			if err != nil {
				return c.errf(source, line, "%v", err)
			}
			b.ReleaseCommand = rc
			b.HasRelease = true
			i++
		default:
			return c.errf(source, line, "unknown bind flag %q", rest[i])
		}
	}

	m, ok := c.table.bindings[ctx]
	if !ok {
		m = make(map[string]*Binding)
		c.table.bindings[ctx] = m
	}
	key := chord.canonical()
	if _, exists := m[key]; exists {
		return c.errf(source, line, "duplicate binding for chord in context %q", ctx)
	}
	m[key] = b
	return nil
}

func (c *compiler) resolveCommand(tok string) (bridge.Command, error) {
	if cmd, ok := c.commands[tok]; ok {
		return cmd, nil
	}
	v, err := strconv.ParseUint(tok, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown command %q", tok)
	}
	return bridge.Command(v), nil
}

// parseChord parses a '+'-joined list of key names ("Shift+A") or
// "<group>:<number>" tokens, into a Chord of KeyIDs.
func (c *compiler) parseChord(tok string) (Chord, error) {
	parts := strings.Split(tok, "+")
	chord := NewChord()
	for _, p := range parts {
		id, err := c.resolveKeyID(p)
		if err != nil {
			return Chord{}, err
		}
		chord = chord.Add(id)
	}
	return chord, nil
}

func (c *compiler) resolveKeyID(tok string) (bridge.KeyID, error) {
	for id, name := range c.table.names {
		if name == tok {
			return id, nil
		}
	}
	if strings.Contains(tok, ":") {
		fields := strings.SplitN(tok, ":", 2)
		group, err := parseGroup(fields[0])
		if err != nil {
			return bridge.KeyID{}, err
		}
		num, err := strconv.Atoi(fields[1])
		if err != nil {
			return bridge.KeyID{}, fmt.Errorf("invalid key number in %q", tok)
		}
		return bridge.KeyID{Group: group, Number: num}, nil
	}
	return bridge.KeyID{}, fmt.Errorf("unknown key name %q", tok)
}

func parseGroup(tok string) (bridge.KeyGroup, error) {
	switch strings.ToLower(tok) {
	case "navigation":
		return bridge.KeyGroupNavigation, nil
	case "routing":
		return bridge.KeyGroupRouting, nil
	case "braille":
		return bridge.KeyGroupBraille, nil
	case "modifier":
		return bridge.KeyGroupModifier, nil
	default:
		return 0, fmt.Errorf("unknown key group %q", tok)
	}
}

func (c *compiler) include(source string, line int, name string) error {
	if c.seen[name] {
		return c.errf(source, line, "include cycle at %q", name)
	}
	c.seen[name] = true
	if c.loader == nil {
		return c.errf(source, line, "include %q: no loader configured", name)
	}
	text, err := c.loader.Load(name)
	if err != nil {
		return c.errf(source, line, "include %q: %v", name, err)
	}
	return c.compileSource(name, text)
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}
