package shell

import "fmt"

// InitScript returns the shell integration snippet for the given shell.
// The wrapper runs scrn with an action file; when scrn exits having written
// an action (e.g. a cd for "go home"), the wrapper evals it in the outer
// shell. Inside a screen session the action is parked in a pending file and
// picked up by a precmd hook after detach, since the inner shell cannot
// change the outer shell's directory.
func InitScript(shell string) (string, error) {
	switch shell {
	case "zsh":
		return zshScript, nil
	case "bash":
		return bashScript, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (use 'zsh' or 'bash')", shell)
	}
}

const zshScript = `# scrn shell integration (zsh)
# Add to .zshrc: eval "$(scrn init zsh)"

scrn() {
    local action_file
    action_file=$(mktemp "${TMPDIR:-/tmp}/scrn-action.XXXXXX")

    command scrn --action-file "$action_file" "$@"

    if [ -f "$action_file" ]; then
        local action
        action=$(cat "$action_file")
        rm -f "$action_file"

        if [ -n "$action" ]; then
            if [ -n "$STY" ]; then
                local pending_file="${TMPDIR:-/tmp}/scrn-pending-$$-$(date +%s)"
                echo "$action" > "$pending_file"
                echo "$pending_file" > "${TMPDIR:-/tmp}/scrn-pending-path"
                screen -X detach
            else
                eval "$action"
            fi
        fi
    else
        rm -f "$action_file"
    fi
}

_scrn_precmd() {
    local pending_path_file="${TMPDIR:-/tmp}/scrn-pending-path"
    if [ -f "$pending_path_file" ]; then
        local pending_file
        pending_file=$(cat "$pending_path_file")
        rm -f "$pending_path_file"
        if [ -f "$pending_file" ]; then
            local action
            action=$(cat "$pending_file")
            rm -f "$pending_file"
            if [ -n "$action" ]; then
                eval "$action"
            fi
        fi
    fi
}

if [[ -z "${precmd_functions[(r)_scrn_precmd]}" ]]; then
    precmd_functions+=(_scrn_precmd)
fi
`

const bashScript = `# scrn shell integration (bash)
# Add to .bashrc: eval "$(scrn init bash)"

scrn() {
    local action_file
    action_file=$(mktemp "${TMPDIR:-/tmp}/scrn-action.XXXXXX")

    command scrn --action-file "$action_file" "$@"

    if [ -f "$action_file" ]; then
        local action
        action=$(cat "$action_file")
        rm -f "$action_file"

        if [ -n "$action" ]; then
            if [ -n "$STY" ]; then
                local pending_file="${TMPDIR:-/tmp}/scrn-pending-$$-$(date +%s)"
                echo "$action" > "$pending_file"
                echo "$pending_file" > "${TMPDIR:-/tmp}/scrn-pending-path"
                screen -X detach
            else
                eval "$action"
            fi
        fi
    else
        rm -f "$action_file"
    fi
}

_scrn_prompt_cmd() {
    local pending_path_file="${TMPDIR:-/tmp}/scrn-pending-path"
    if [ -f "$pending_path_file" ]; then
        local pending_file
        pending_file=$(cat "$pending_path_file")
        rm -f "$pending_path_file"
        if [ -f "$pending_file" ]; then
            local action
            action=$(cat "$pending_file")
            rm -f "$pending_file"
            if [ -n "$action" ]; then
                eval "$action"
            fi
        fi
    fi
}

case "$PROMPT_COMMAND" in
    *_scrn_prompt_cmd*) ;;
    *) PROMPT_COMMAND="_scrn_prompt_cmd${PROMPT_COMMAND:+;$PROMPT_COMMAND}" ;;
esac
`
