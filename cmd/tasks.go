package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/tasklist"
	"github.com/nibzard/tasklist/internal/todo"
)

// openSession opens the store for a one-shot command and warns about a
// recovered, malformed store on stderr.
func openSession(cfg *config.Config, runLog bool) (*tasklist.Session, error) {
	s, err := tasklist.Open(cfg, tasklist.SessionOptions{NoRunLog: !runLog})
	if err != nil {
		return nil, err
	}
	if err := s.Container.Recovered(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		fmt.Fprintf(os.Stderr, "Warning: the unreadable value was kept under %q\n", s.Port.BackupKey())
	}
	return s, nil
}

// addCommand adds one task from the remaining arguments.
func addCommand(cfg *config.Config, args []string) error {
	text := strings.Join(args, " ")

	s, err := openSession(cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.Container.Add(text)
	if errors.Is(err, todo.ErrEmptyText) {
		return fmt.Errorf("task text is required")
	}
	if err != nil {
		return err
	}
	fmt.Printf("Added %d: %s\n", task.ID, task.Text)
	return nil
}

// toggleCommand flips a task between active and completed.
func toggleCommand(cfg *config.Config, args []string) error {
	id, err := parseIDArg("toggle", args)
	if err != nil {
		return err
	}

	s, err := openSession(cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	found, err := s.Container.Toggle(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %d not found", id)
	}
	task, _ := s.Container.Get(id)
	printTask(task)
	return nil
}

// rmCommand deletes a task.
func rmCommand(cfg *config.Config, args []string) error {
	id, err := parseIDArg("rm", args)
	if err != nil {
		return err
	}

	s, err := openSession(cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	task, _ := s.Container.Get(id)
	found, err := s.Container.Delete(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %d not found", id)
	}
	fmt.Printf("Deleted %d: %s\n", task.ID, task.Text)
	return nil
}

// editCommand replaces the text of a task. Like the TUI, the new text is not
// checked for blanks.
func editCommand(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tasklist edit <id> <text...>")
	}
	id, err := parseIDArg("edit", args[:1])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")

	s, err := openSession(cfg, true)
	if err != nil {
		return err
	}
	defer s.Close()

	found, err := s.Container.CommitEdit(id, text)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %d not found", id)
	}
	task, _ := s.Container.Get(id)
	printTask(task)
	return nil
}

// lsCommand lists tasks split into active and completed.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist ls", flag.ContinueOnError)
	activeOnly := fs.Bool("active", false, "Only active tasks")
	completedOnly := fs.Bool("completed", false, "Only completed tasks")
	format := fs.String("format", "text", "Output format (text, json, yaml)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}
	if *activeOnly && *completedOnly {
		return fmt.Errorf("-active and -completed are mutually exclusive")
	}

	s, err := openSession(cfg, false)
	if err != nil {
		return err
	}
	defer s.Close()

	c := s.Container
	tasks := c.Tasks()
	switch {
	case *activeOnly:
		tasks = c.Active()
	case *completedOnly:
		tasks = c.Completed()
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}

	switch strings.ToLower(*format) {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Println(string(data))
	case "yaml", "yml":
		data, err := yaml.Marshal(tasks)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		fmt.Print(string(data))
	case "text", "":
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}
		if !*completedOnly {
			printSection("Active", c.Active())
		}
		if !*activeOnly {
			printSection("Completed", c.Completed())
		}
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", *format)
	}
	return nil
}

// printSection prints a titled group of tasks, skipping empty groups.
func printSection(label string, tasks []todo.Task) {
	if len(tasks) == 0 {
		return
	}
	fmt.Printf("%s (%d):\n", label, len(tasks))
	for _, t := range tasks {
		printTask(t)
	}
	fmt.Println()
}

// printTask prints a single task.
func printTask(t todo.Task) {
	box := "[ ]"
	if t.Done {
		box = "[x]"
	}
	fmt.Printf("  %s %d %s\n", box, t.ID, t.Text)
}

// parseIDArg parses the task ID argument of command.
func parseIDArg(command string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: tasklist %s <id>", command)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}
