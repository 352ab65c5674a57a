package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/tasklist/internal/config"
)

// commandNames lists the subcommands offered by shell completion.
var commandNames = []string{
	"tui", "add", "ls", "toggle", "rm", "edit",
	"doctor", "logs", "config", "completion", "version", "help",
}

// completionCommand prints a completion script for the given shell.
func completionCommand(_ *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasklist completion <bash|zsh|fish|powershell>")
	}

	words := strings.Join(commandNames, " ")
	switch strings.ToLower(args[0]) {
	case "bash":
		fmt.Printf(bashCompletion, words)
	case "zsh":
		fmt.Printf(zshCompletion, words)
	case "fish":
		fmt.Printf(fishCompletion, words)
	case "powershell", "pwsh":
		fmt.Printf(powershellCompletion, "'"+strings.Join(commandNames, "','")+"'")
	default:
		return fmt.Errorf("unsupported shell %q (want bash, zsh, fish or powershell)", args[0])
	}
	return nil
}

const bashCompletion = `# tasklist bash completion
_tasklist() {
    local cur="${COMP_WORDS[COMP_CWORD]}"
    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=($(compgen -W "%s" -- "$cur"))
        return
    fi
    case "${COMP_WORDS[1]}" in
        ls) COMPREPLY=($(compgen -W "-active -completed -format" -- "$cur")) ;;
        logs) COMPREPLY=($(compgen -W "-f -n -list" -- "$cur")) ;;
        completion) COMPREPLY=($(compgen -W "bash zsh fish powershell" -- "$cur")) ;;
    esac
}
complete -F _tasklist tasklist
`

const zshCompletion = `#compdef tasklist
# tasklist zsh completion
_tasklist() {
    local -a commands
    commands=(%s)
    if (( CURRENT == 2 )); then
        compadd -a commands
        return
    fi
    case "$words[2]" in
        ls) compadd -- -active -completed -format ;;
        logs) compadd -- -f -n -list ;;
        completion) compadd bash zsh fish powershell ;;
    esac
}
_tasklist "$@"
`

const fishCompletion = `# tasklist fish completion
complete -c tasklist -f
complete -c tasklist -n "__fish_use_subcommand" -a "%s"
complete -c tasklist -n "__fish_seen_subcommand_from ls" -a "-active -completed -format"
complete -c tasklist -n "__fish_seen_subcommand_from logs" -a "-f -n -list"
complete -c tasklist -n "__fish_seen_subcommand_from completion" -a "bash zsh fish powershell"
`

const powershellCompletion = `# tasklist PowerShell completion
Register-ArgumentCompleter -Native -CommandName tasklist -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`
