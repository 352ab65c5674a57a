// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/tasklist"
	"github.com/nibzard/tasklist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "tui" as default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	// Execute the subcommand
	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "edit":
		return editCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "logs", "tail":
		return logsCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "completion":
		return completionCommand(cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist tui", flag.ContinueOnError)
	watch := fs.Bool("watch", cfg.UI.Watch, "Reload when the store changes on disk")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	s, err := tasklist.Open(cfg, tasklist.SessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.RunTUI(ctx, s, ui.WithWatch(*watch))
}

// logsCommand tails the latest run log.
func logsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist logs", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List run logs instead of tailing the latest")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *list {
		runs, err := logging.FindLogRuns(logDir)
		if err != nil {
			return fmt.Errorf("listing logs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No log files found.")
			return nil
		}
		for _, run := range runs {
			fmt.Printf("%s  %s  %d bytes\n", run.RunID, run.ModTime.Format("2006-01-02 15:04:05"), run.Size)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Println("No log files found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(ctx, os.Stdout, logPath, *n, *follow)
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasklist config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	if file := cws.GetConfigFile(); file != "" {
		fmt.Printf("Config file: %s\n\n", file)
	} else {
		fmt.Println("Config file: (none)")
		fmt.Println()
	}

	rows := []struct {
		field string
		value any
	}{
		{"data_dir", cfg.DataDir},
		{"log_dir", cfg.LogDir},
		{"storage.backend", cfg.Storage.Backend},
		{"storage.key", cfg.Storage.Key},
		{"ui.error_delay_ms", cfg.UI.ErrorDelayMS},
		{"ui.watch", cfg.UI.Watch},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}
	for _, row := range rows {
		fmt.Printf("  %-18s = %-40v (%s)\n", row.field, row.value, cws.Sources[row.field])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("tasklist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - a to-do list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                  Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  add <text...>        Add a task")
	fmt.Fprintln(w, "  ls                   List active and completed tasks")
	fmt.Fprintln(w, "  toggle <id>          Mark a task done or not done")
	fmt.Fprintln(w, "  rm <id>              Delete a task")
	fmt.Fprintln(w, "  edit <id> <text...>  Replace a task's text")
	fmt.Fprintln(w, "  doctor               Check config and the stored list")
	fmt.Fprintln(w, "  logs                 Show the latest run log")
	fmt.Fprintln(w, "  config               Show effective configuration")
	fmt.Fprintln(w, "  completion <shell>   Print a shell completion script")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -active")
	fmt.Fprintln(w, "        Only active tasks")
	fmt.Fprintln(w, "  -completed")
	fmt.Fprintln(w, "        Only completed tasks")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format: text, json or yaml (default \"text\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options (use with 'logs' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List run logs")
}
