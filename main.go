package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cfg, err := parseConfig(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	invocationDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	if cfg.workingDirectory != "" {
		if err := os.Chdir(cfg.workingDirectory); err != nil {
			fmt.Fprintln(os.Stderr, "error: could not change to working directory:", err)
			return 1
		}
	}

	justfilePath := cfg.justfile
	if justfilePath == "" {
		searchDir, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		justfilePath, err = findJustfile(searchDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
	}

	source, err := os.ReadFile(justfilePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: could not read justfile:", err)
		return 1
	}

	jf, err := parse(justfilePath, string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWarnings(jf)

	justfileDir := filepath.Dir(justfilePath)
	absJustfile, err := filepath.Abs(justfilePath)
	if err != nil {
		absJustfile = justfilePath
	}

	if err := checkOverrides(jf, cfg.overrides); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	dotenv, err := loadDotenv(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	interrupts := newInterruptHandler()
	ctx := newEvalContext(jf, cfg.overrides, cfg.shell, cfg.dryRun, interrupts, invocationDir, absJustfile, justfileDir)

	outputColor := resolveColor(cfg.colorMode)

	switch cfg.subcommand {
	case subList:
		listRecipes(os.Stdout, jf, outputColor)
		return 0
	case subSummary:
		summarizeRecipes(os.Stdout, jf)
		return 0
	case subDump:
		fmt.Print(dumpJustfile(jf))
		return 0
	case subEdit:
		fmt.Println(absJustfile)
		return 0
	case subEvaluate:
		if err := evaluateAll(os.Stdout, ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeFor(err)
		}
		return 0
	case subShow:
		if err := showRecipe(os.Stdout, jf, cfg.showName); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCodeFor(err)
		}
		return 0
	}

	invocations, err := splitInvocations(jf, cfg.targets)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}

	rn := newRunner(jf, runConfig{
		dryRun:    cfg.dryRun,
		quiet:     cfg.quiet,
		verbose:   cfg.verbosity,
		shell:     cfg.shell,
		color:     outputColor,
		highlight: cfg.highlight,
	}, ctx, dotenv)
	if err := rn.RunAll(invocations); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return 0
}

func exitCodeFor(err error) int {
	if re, ok := err.(*runtimeError); ok {
		return re.exitCode()
	}
	return 1
}

func printWarnings(jf *justfile) {
	for _, w := range jf.warnings {
		switch w.kind {
		case warningDeprecatedEquals:
			fmt.Fprintf(os.Stderr, "warning: `=` for assignments is deprecated, use `:=` (line %d)\n", w.token.line+1)
		}
	}
}

// findJustfile searches dir and its ancestors for a file named
// "justfile" or "Justfile".
func findJustfile(dir string) (string, error) {
	for {
		for _, name := range []string{"justfile", "Justfile"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no justfile found in %s or any parent directory", dir)
		}
		dir = parent
	}
}
