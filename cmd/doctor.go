package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/todo"
)

// doctorCommand checks the config, the store and the stored list.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	fmt.Println("tasklist doctor")
	fmt.Println("===============")
	fmt.Println()

	allOK := true

	// Check config
	fmt.Println("Config:")
	if err := config.Validate(cfg); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Printf("  ✅ Backend: %s\n", cfg.Storage.Backend)
		fmt.Printf("  ✅ Key: %s\n", cfg.Storage.Key)
	}
	fmt.Println()

	// Check data directory
	fmt.Printf("Data directory: %s\n", cfg.DataDir)
	if !checkDir(cfg.DataDir, "will be created on first save") {
		allOK = false
	}
	fmt.Println()

	// Check stored list
	fmt.Println("Stored tasks:")
	if !checkStore(cfg, *verbose) {
		allOK = false
	}
	fmt.Println()

	// Check log directory
	fmt.Printf("Log directory: %s\n", cfg.LogDir)
	if !checkDir(cfg.LogDir, "will be created on first run") {
		allOK = false
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkDir reports on a directory that may not exist yet.
func checkDir(path, missing string) bool {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		fmt.Printf("  ⚠️  Not found (%s)\n", missing)
		return true
	case err != nil:
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	case !info.IsDir():
		fmt.Println("  ❌ Error: path is not a directory")
		return false
	}
	fmt.Println("  ✅ OK")
	return true
}

// checkStore reads the raw stored value and validates it without the
// recovery the container applies, so damage is reported rather than hidden.
func checkStore(cfg *config.Config, verbose bool) bool {
	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) && cfg.Storage.Backend != storage.BackendMemory {
		fmt.Println("  ⚠️  No store yet")
		return true
	}

	kv, err := storage.Open(storage.Options{Backend: cfg.Storage.Backend, Dir: cfg.DataDir})
	if err != nil {
		fmt.Printf("  ❌ Open: %v\n", err)
		return false
	}
	defer kv.Close()

	port := storage.NewKVPort(kv, cfg.Storage.Key)
	if fkv, ok := kv.(*storage.FileKV); ok {
		fmt.Printf("  File: %s\n", fkv.Path(port.Key()))
	}

	if _, hasBackup, err := kv.Get(port.BackupKey()); err == nil && hasBackup {
		fmt.Printf("  ⚠️  Backup of an unreadable list exists under %q\n", port.BackupKey())
	}

	raw, found, err := port.Raw()
	if err != nil {
		fmt.Printf("  ❌ Read: %v\n", err)
		return false
	}
	if !found || strings.TrimSpace(raw) == "" {
		fmt.Println("  ⚠️  Nothing stored yet")
		return true
	}

	tasks, err := todo.Decode([]byte(raw))
	if err != nil {
		fmt.Printf("  ❌ Malformed: %v\n", err)
		return false
	}

	result := todo.Validate(tasks)
	for _, w := range result.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	if !result.Valid {
		fmt.Println("  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Printf("     - %v\n", e)
		}
		return false
	}

	var done int
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	fmt.Printf("  ✅ Valid: %d tasks (%d active, %d completed)\n", len(tasks), len(tasks)-done, done)
	if verbose {
		for _, t := range tasks {
			printTask(t)
		}
	}
	return true
}
