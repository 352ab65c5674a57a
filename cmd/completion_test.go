package cmd

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/nibzard/tasklist/internal/config"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()

	done := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(r)
		done <- data
	}()

	runErr := fn()
	_ = w.Close()
	output := <-done
	_ = r.Close()

	return string(output), runErr
}

func TestCompletionCommandOutputsScripts(t *testing.T) {
	cfg := &config.Config{}

	tests := []struct {
		name   string
		shell  string
		needle string
	}{
		{name: "bash", shell: "bash", needle: "# tasklist bash completion"},
		{name: "zsh", shell: "zsh", needle: "#compdef tasklist"},
		{name: "fish", shell: "fish", needle: "# tasklist fish completion"},
		{name: "powershell", shell: "powershell", needle: "# tasklist PowerShell completion"},
		{name: "pwsh alias", shell: "pwsh", needle: "# tasklist PowerShell completion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := captureStdout(t, func() error {
				return completionCommand(cfg, []string{tt.shell})
			})
			if err != nil {
				t.Fatalf("completionCommand() error = %v", err)
			}
			if !strings.Contains(output, tt.needle) {
				t.Fatalf("completion output missing %q for shell %q", tt.needle, tt.shell)
			}
			for _, name := range []string{"add", "toggle", "doctor"} {
				if !strings.Contains(output, name) {
					t.Errorf("completion for %s missing command %q", tt.shell, name)
				}
			}
			if strings.Contains(output, "%!") {
				t.Errorf("bad format verb in %s script", tt.shell)
			}
		})
	}
}

func TestCompletionCommandErrors(t *testing.T) {
	cfg := &config.Config{}

	if err := completionCommand(cfg, []string{}); err == nil {
		t.Fatal("expected error when shell is missing")
	}

	if err := completionCommand(cfg, []string{"unknown"}); err == nil {
		t.Fatal("expected error for unsupported shell")
	}
}
