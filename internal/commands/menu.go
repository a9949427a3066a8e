package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/store"
)

func init() {
	Register(&MenuCmd{})
}

const menuText = `
Todo List Menu:
1. Add task
2. List tasks
3. Complete task
4. Delete task
5. Exit

Choose an option (1-5): `

// MenuCmd implements the interactive numbered menu.
// Operation errors are printed and the loop continues; only option 5 or
// end of input ends it.
type MenuCmd struct {
	in io.Reader
}

// SetInput sets the input source (for testing). Defaults to os.Stdin.
func (c *MenuCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *MenuCmd) Name() string      { return "menu" }
func (c *MenuCmd) Aliases() []string { return nil }
func (c *MenuCmd) Synopsis() string  { return "Interactive menu" }
func (c *MenuCmd) Usage() string     { return "todo menu" }
func (c *MenuCmd) NeedsStore() bool  { return true }

func (c *MenuCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MenuCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	m := &menu{ctx: ctx, st: st, out: out, scanner: bufio.NewScanner(in)}

	for {
		choice, ok := m.prompt(menuText)
		if !ok || ctx.Err() != nil {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Goodbye!")
			return exitcode.Success
		}

		switch choice {
		case "1":
			m.add()
		case "2":
			m.list()
		case "3":
			m.complete()
		case "4":
			m.delete()
		case "5":
			fmt.Fprintln(out, "Goodbye!")
			return exitcode.Success
		default:
			fmt.Fprintln(out, "Invalid option, please try again.")
		}
	}
}

type menu struct {
	ctx     context.Context
	st      *store.Store
	out     io.Writer
	scanner *bufio.Scanner
	eof     bool
}

// prompt prints text and reads one trimmed line.
func (m *menu) prompt(text string) (string, bool) {
	fmt.Fprint(m.out, text)
	if m.eof || !m.scanner.Scan() {
		m.eof = true
		return "", false
	}
	return strings.TrimSpace(m.scanner.Text()), true
}

func (m *menu) add() {
	desc, _ := m.prompt("Enter task description: ")
	id, err := m.st.Add(m.ctx, desc)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Added task with ID: %d\n", id)
}

func (m *menu) list() {
	tasks := m.st.List()
	if len(tasks) == 0 {
		fmt.Fprintln(m.out, "No tasks found.")
		return
	}
	fmt.Fprintln(m.out, "\nAll tasks:")
	output.FormatTasks(m.out, tasks)
}

func (m *menu) complete() {
	raw, _ := m.prompt("Enter task ID to mark as complete: ")
	id, err := parseID(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid ID format")
		return
	}
	if err := m.st.Complete(m.ctx, id); err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Marked task %d as complete\n", id)
}

func (m *menu) delete() {
	raw, _ := m.prompt("Enter task ID to delete: ")
	id, err := parseID(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid ID format")
		return
	}
	if err := m.st.Delete(m.ctx, id); err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Deleted task %d\n", id)
}
