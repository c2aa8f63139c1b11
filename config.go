package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/pflag"
)

type subcommand int

const (
	subRun subcommand = iota
	subList
	subSummary
	subShow
	subDump
	subEdit
	subEvaluate
)

// config is the fully parsed command line, in the same spirit as the
// original implementation's clap-based Config: everything main needs to
// locate a justfile, pick a shell, and decide what to do with it.
type config struct {
	justfile         string
	workingDirectory string
	dryRun           bool
	quiet            bool
	verbosity        int
	shell            []string
	overrides        map[string]string
	subcommand       subcommand
	showName         string
	targets          []string
	colorMode        string
	highlight        bool
}

func parseConfig(argv []string) (*config, error) {
	fs := pflag.NewFlagSet("just", pflag.ContinueOnError)

	justfilePath := fs.StringP("justfile", "f", "", "use PATH as the justfile")
	workingDir := fs.StringP("working-directory", "d", "", "use DIR as the working directory")
	dryRun := fs.BoolP("dry-run", "n", false, "print recipe lines instead of running them")
	quiet := fs.BoolP("quiet", "q", false, "suppress echoing of recipe lines before they run")
	list := fs.BoolP("list", "l", false, "list available recipes")
	summary := fs.Bool("summary", false, "list available recipe names")
	dump := fs.Bool("dump", false, "print the justfile in canonical form")
	edit := fs.BoolP("edit", "e", false, "print the justfile's path")
	evaluate := fs.Bool("evaluate", false, "print the value of every variable")
	show := fs.StringP("show", "s", "", "print a single recipe")
	shellFlag := fs.String("shell", "", "command used to invoke recipe lines and backticks")
	colorMode := fs.String("color", "auto", "print colorful output: auto, always, or never")
	highlight := fs.Bool("highlight", false, "highlight echoed recipe lines")

	var sets []string
	fs.StringArrayVar(&sets, "set", nil, "set NAME=VALUE as an override")

	var verboseCount int
	fs.CountVarP(&verboseCount, "verbose", "v", "give more detailed output")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	switch *colorMode {
	case "auto", "always", "never":
	default:
		return nil, fmt.Errorf("invalid --color %q, expected auto, always, or never", *colorMode)
	}

	overrides := map[string]string{}
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, expected NAME=VALUE", s)
		}
		overrides[k] = v
	}

	var targets []string
	for _, a := range fs.Args() {
		if k, v, ok := strings.Cut(a, "="); ok && len(targets) == 0 && isValidName(k) {
			overrides[k] = v
			continue
		}
		targets = append(targets, a)
	}

	cfg := &config{
		justfile:         *justfilePath,
		workingDirectory: *workingDir,
		dryRun:           *dryRun,
		quiet:            *quiet,
		verbosity:        min(verboseCount, 2),
		overrides:        overrides,
		targets:          targets,
		colorMode:        *colorMode,
		highlight:        *highlight,
	}

	if *shellFlag != "" {
		shell, err := shlex.Split(*shellFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --shell: %w", err)
		}
		cfg.shell = shell
	}

	switch {
	case *list:
		cfg.subcommand = subList
	case *summary:
		cfg.subcommand = subSummary
	case *dump:
		cfg.subcommand = subDump
	case *edit:
		cfg.subcommand = subEdit
	case *evaluate:
		cfg.subcommand = subEvaluate
	case *show != "":
		cfg.subcommand = subShow
		cfg.showName = *show
	default:
		cfg.subcommand = subRun
	}

	if cfg.workingDirectory != "" && cfg.justfile == "" {
		return nil, fmt.Errorf("--working-directory requires --justfile")
	}
	if cfg.workingDirectory != "" && len(cfg.targets) > 0 && strings.ContainsRune(cfg.targets[0], '/') {
		return nil, fmt.Errorf("--working-directory cannot be combined with path-prefixed recipe %q", cfg.targets[0])
	}

	// A target of the form "dir/recipe" selects dir as the working
	// directory (and justfile search root) and recipe as the real target.
	if len(cfg.targets) > 0 && cfg.workingDirectory == "" {
		dir, recipeName := filepath.Split(cfg.targets[0])
		if dir != "" {
			cfg.workingDirectory = filepath.Clean(dir)
			if recipeName == "" {
				cfg.targets = cfg.targets[1:]
			} else {
				cfg.targets[0] = recipeName
			}
		}
	}

	return cfg, nil
}

func isValidName(s string) bool {
	if s == "" || !isNameStart(rune(s[0])) {
		return false
	}
	for _, c := range s[1:] {
		if !isNameContinue(c) {
			return false
		}
	}
	return true
}

// splitInvocations regroups a flat target/argument list into per-recipe
// invocations, greedily handing each recipe up to its maximum arity
// before moving on to the next target name.
func splitInvocations(jf *justfile, targets []string) ([]invocation, error) {
	if len(targets) == 0 {
		if _, ok := jf.recipes["default"]; !ok {
			return nil, &runtimeError{kind: errUnknownRecipes, recipes: []string{"default"}}
		}
		return []invocation{{name: "default"}}, nil
	}

	var out []invocation
	i := 0
	for i < len(targets) {
		name := targets[i]
		i++
		r, err := resolveTarget(jf, name)
		if err != nil {
			return nil, err
		}
		max := r.maxArguments()
		var args []string
		for i < len(targets) && (max < 0 || len(args) < max) {
			args = append(args, targets[i])
			i++
		}
		out = append(out, invocation{name: name, arguments: args})
	}
	return out, nil
}
