package completion

import (
	"fmt"
	"strings"
)

const program = "gitsummary"

// Shells lists the shells a completion script can be generated for.
func Shells() []string { return []string{"bash", "zsh", "fish"} }

// Script returns the completion script for shell.
func Script(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashScript(), nil
	case "zsh":
		return zshScript(), nil
	case "fish":
		return fishScript(), nil
	}
	return "", fmt.Errorf("unsupported shell: %s (supported: %s)", shell, strings.Join(Shells(), ", "))
}

func flagWords(f FlagInfo) []string {
	words := []string{"--" + f.Name}
	if f.Alias != "" {
		words = append(words, "-"+f.Alias)
	}
	return words
}

func bashScript() string {
	var b strings.Builder
	var all []string
	fmt.Fprintf(&b, "# bash completion for %s\n", program)
	fmt.Fprintf(&b, "_%s() {\n", program)
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range GetFlags() {
		all = append(all, flagWords(f)...)
		if !f.HasValue {
			continue
		}
		pattern := strings.Join(flagWords(f), "|")
		switch {
		case f.IsPath():
			fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -f -- \"$cur\") ); return ;;\n", pattern)
		case len(f.Values) > 0:
			fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return ;;\n", pattern, strings.Join(f.Values, " "))
		default:
			fmt.Fprintf(&b, "        %s) return ;;\n", pattern)
		}
	}
	var names []string
	for _, sub := range GetSubcommands() {
		names = append(names, sub.Name)
		fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return ;;\n", sub.Name, strings.Join(sub.Args, " "))
	}
	b.WriteString("    esac\n")
	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(all, " "))
	b.WriteString("    else\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(names, " "))
	b.WriteString("    fi\n")
	b.WriteString("}\n")
	fmt.Fprintf(&b, "complete -F _%s %s\n", program, program)
	return b.String()
}

func zshScript() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#compdef %s\n\n", program)
	fmt.Fprintf(&b, "_%s() {\n", program)
	b.WriteString("    local state\n")
	b.WriteString("    _arguments \\\n")
	for _, f := range GetFlags() {
		for _, word := range flagWords(f) {
			arg := fmt.Sprintf("'%s[%s]", word, f.Description)
			if f.HasValue {
				action := ""
				switch {
				case f.IsPath():
					action = "_files"
				case len(f.Values) > 0:
					action = "(" + strings.Join(f.Values, " ") + ")"
				}
				arg += ":" + f.ValueHint + ":" + action
			}
			fmt.Fprintf(&b, "        %s' \\\n", arg)
		}
	}
	var names []string
	for _, sub := range GetSubcommands() {
		names = append(names, sub.Name)
	}
	fmt.Fprintf(&b, "        '1:command:(%s)' \\\n", strings.Join(names, " "))
	b.WriteString("        '2:argument:->args'\n")
	b.WriteString("    case $state in\n")
	b.WriteString("        args)\n")
	b.WriteString("            case $words[2] in\n")
	for _, sub := range GetSubcommands() {
		fmt.Fprintf(&b, "                %s) _values '%s' %s ;;\n", sub.Name, sub.Name, strings.Join(sub.Args, " "))
	}
	b.WriteString("            esac\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "_%s \"$@\"\n", program)
	return b.String()
}

func fishScript() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# fish completion for %s\n", program)
	fmt.Fprintf(&b, "complete -c %s -f\n", program)
	for _, f := range GetFlags() {
		line := fmt.Sprintf("complete -c %s -l %s", program, f.Name)
		if f.Alias != "" {
			line += " -s " + f.Alias
		}
		line += fmt.Sprintf(" -d '%s'", f.Description)
		switch {
		case f.IsPath():
			line += " -r -F"
		case len(f.Values) > 0:
			line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
		case f.HasValue:
			line += " -x"
		}
		b.WriteString(line + "\n")
	}
	for _, sub := range GetSubcommands() {
		fmt.Fprintf(&b, "complete -c %s -n '__fish_use_subcommand' -a %s -d '%s'\n", program, sub.Name, sub.Description)
		fmt.Fprintf(&b, "complete -c %s -n '__fish_seen_subcommand_from %s' -a '%s'\n", program, sub.Name, strings.Join(sub.Args, " "))
	}
	return b.String()
}
