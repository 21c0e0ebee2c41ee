package slackclient

import (
	"strings"
)

// Command is a parsed `/challenge` invocation
type Command struct {
	Name string
	Sub  string
	Args []string
	Raw  string
}

var groups = map[string]bool{
	"challenge": true,
	"dayoff":    true,
}

// ParseCommand splits slash command text into a name, an optional subcommand for
// grouped commands, and the remaining arguments. Empty text means help.
func ParseCommand(text string) Command {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return Command{Name: "help"}
	}

	cmd := Command{Name: strings.ToLower(parts[0]), Raw: text}
	rest := parts[1:]
	if groups[cmd.Name] && len(rest) > 0 {
		cmd.Sub = strings.ToLower(rest[0])
		rest = rest[1:]
	}
	if len(rest) > 0 {
		cmd.Args = rest
	}
	return cmd
}

// keyValues separates key=value options from positional arguments
func keyValues(args []string) (map[string]string, []string) {
	opts := make(map[string]string)
	var positional []string
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok && k != "" {
			opts[strings.ToLower(k)] = v
			continue
		}
		positional = append(positional, a)
	}
	return opts, positional
}

const helpText = "*Available commands:*\n" +
	"• `/challenge join [male|female] [timezone] [disabled]`: join the challenge\n" +
	"• `/challenge log <amount> [bonus=N] [challenge=ID] [date=YYYY-MM-DD] [note]`: log exercise\n" +
	"• `/challenge challenge add <type> <target> [unit] [default]`\n" +
	"• `/challenge challenge list | remove <ID> | default <ID|none>`\n" +
	"• `/challenge status`: today's progress\n" +
	"• `/challenge dayoff request <YYYY-MM-DD> [reason]`\n" +
	"• `/challenge dayoff vote <ID> <yes|no>` and `/challenge dayoff status <ID>`\n" +
	"• `/challenge mode`: show the compliance mode\n" +
	"• Admins: `/challenge mode set <strict|lenient|points>`, `/challenge points <N>`"
