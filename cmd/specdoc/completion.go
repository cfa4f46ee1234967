package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Desc     string
	IsBool   bool
	FileGlob string // e.g. "*.yaml"; empty = any file
	IsDir    bool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Files bool     // accepts file arguments
	Words []string // fixed positional words (subcommands, shells)
}

// completionMeta maps flag names to file hints.
var completionMeta = map[string]flagDef{
	"config": {FileGlob: "*.yaml"},
	"css":    {FileGlob: "*.css"},
}

// flagsOf extracts flag definitions from a FlagSet, sorted by name.
func flagsOf(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		d := flagDef{
			Long:   f.Name,
			Short:  f.Shorthand,
			Desc:   f.Usage,
			IsBool: f.Value.Type() == "bool",
		}
		if meta, ok := completionMeta[f.Name]; ok {
			d.FileGlob = meta.FileGlob
		}
		if f.Name == "output" && fs.Name() == "split" {
			d.IsDir = true
		}
		defs = append(defs, d)
	})
	return defs
}

// getCommands returns the command registry for completion.
// Flags come from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	buildFS, _ := buildFlagSet(io.Discard)
	filterFS, _ := filterFlagSet(io.Discard)
	grammarFS, _ := grammarFlagSet(io.Discard)
	tocFS, _ := tocFlagSet(io.Discard)
	splitFS, _ := splitFlagSet(io.Discard)
	doctorFS, _ := doctorFlagSet(io.Discard)
	initFS, _ := initFlagSet(io.Discard)

	return []commandDef{
		{Name: "build", Desc: "Build HTML/PDF from markdown", Flags: flagsOf(buildFS), Files: true},
		{Name: "filter", Desc: "Run an external filter over stdin", Flags: flagsOf(filterFS), Files: true},
		{Name: "grammar", Desc: "Extract or collect grammar blocks", Flags: flagsOf(grammarFS), Files: true,
			Words: []string{"extract", "preprocess"}},
		{Name: "toc", Desc: "Print a table of contents", Flags: flagsOf(tocFS), Files: true},
		{Name: "split", Desc: "Split a document into chapters", Flags: flagsOf(splitFS), Files: true},
		{Name: "doctor", Desc: "Check system configuration", Flags: flagsOf(doctorFS)},
		{Name: "init", Desc: "Print a starter config", Flags: flagsOf(initFS)},
		{Name: "completion", Desc: "Generate shell completion script",
			Words: []string{string(ShellBash), string(ShellZsh), string(ShellFish)}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w, getCommands())
	case ShellZsh:
		return generateZsh(w, getCommands())
	case ShellFish:
		return generateFish(w, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

func flagWords(flags []flagDef) string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for specdoc\n")
	b.WriteString("_specdoc() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$prev\" in\n")
	for _, glob := range sortedGlobs(cmds) {
		fmt.Fprintf(&b, "        %s)\n", strings.Join(globFlags(cmds, glob), "|"))
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -f -X '!%s' -- \"$cur\"))\n", glob)
		b.WriteString("            return ;;\n")
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		words := flagWords(c.Flags)
		if len(c.Words) > 0 {
			words = strings.TrimSpace(strings.Join(c.Words, " ") + " " + words)
		}
		if words == "" && !c.Files {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", flagWords(c.Flags))
		switch {
		case len(c.Words) > 0:
			b.WriteString("            else\n")
			fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\"))\n", strings.Join(c.Words, " "))
		case c.Files:
			b.WriteString("            else\n")
			b.WriteString("                COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		}
		b.WriteString("            fi ;;\n")
	}
	b.WriteString("    esac\n}\n")
	b.WriteString("complete -F _specdoc specdoc\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef specdoc\n\n")
	b.WriteString("_specdoc() {\n")
	b.WriteString("    local -a commands\n    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n        return\n    fi\n\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Words) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments -s \\\n")
		for _, f := range c.Flags {
			action := ""
			switch {
			case f.IsBool:
			case f.IsDir:
				action = ":dir:_files -/"
			case f.FileGlob != "":
				action = fmt.Sprintf(":file:_files -g \"%s\"", f.FileGlob)
			default:
				action = ":value:"
			}
			spec := fmt.Sprintf("'--%s[%s]%s'", f.Long, zshEscape(f.Desc), action)
			if f.Short != "" {
				spec = fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'",
					f.Short, f.Long, f.Short, f.Long, zshEscape(f.Desc), action)
			}
			fmt.Fprintf(&b, "                %s \\\n", spec)
		}
		switch {
		case len(c.Words) > 0:
			fmt.Fprintf(&b, "                '1:action:(%s)' \\\n", strings.Join(c.Words, " "))
			b.WriteString("                '*:file:_files'\n")
		case c.Files:
			b.WriteString("                '*:file:_files'\n")
		default:
			b.WriteString("                && return\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n}\n\n")
	b.WriteString("_specdoc \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for specdoc\n")
	b.WriteString("complete -c specdoc -f\n")
	names := strings.Join(commandNames(cmds), " ")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c specdoc -n \"not __fish_seen_subcommand_from %s\" -a %s -d '%s'\n",
			names, c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("-n \"__fish_seen_subcommand_from %s\"", c.Name)
		for _, word := range c.Words {
			fmt.Fprintf(&b, "complete -c specdoc %s -a %s\n", cond, word)
		}
		if c.Files {
			fmt.Fprintf(&b, "complete -c specdoc %s -F\n", cond)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c specdoc %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			if !f.IsBool {
				line += " -r"
				if f.FileGlob != "" || f.IsDir {
					line += " -F"
				}
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// sortedGlobs returns the distinct file globs used by any flag.
func sortedGlobs(cmds []commandDef) []string {
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.FileGlob != "" {
				seen[f.FileGlob] = true
			}
		}
	}
	globs := make([]string, 0, len(seen))
	for g := range seen {
		globs = append(globs, g)
	}
	sort.Strings(globs)
	return globs
}

// globFlags returns the distinct flag spellings completing files matching glob.
func globFlags(cmds []commandDef, glob string) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.FileGlob != glob {
				continue
			}
			for _, s := range []string{"--" + f.Long, "-" + f.Short} {
				if s != "-" && !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return strings.ReplaceAll(s, ":", "\\:")
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: specdoc completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash   Bash completion script")
	fmt.Fprintln(w, "  zsh    Zsh completion script")
	fmt.Fprintln(w, "  fish   Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(specdoc completion bash)\"        # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(specdoc completion zsh)\"         # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:  specdoc completion fish > ~/.config/fish/completions/specdoc.fish")
}
