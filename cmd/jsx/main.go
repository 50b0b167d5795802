package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jsxkit/jsx"
)

const (
	appName     = "jsx"
	historyFile = ".jsx_history"
	promptMain  = "jsx> "
	promptCont  = "...> "
)

var banner = fmt.Sprintf("jsx %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", jsx.Version)

var stderrIsTTY = term.IsTerminal(int(os.Stderr.Fd()))

func red(s string) string {
	if !stderrIsTTY {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func blue(s string) string {
	if !stderrIsTTY {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "build":
		os.Exit(cmdBuild(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(jsx.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`jsx %s (built %s)

Usage:
  %s build [flags] [paths...]   Compile .jsx files to sibling .js files.
  %s repl                       Start the interactive JSX session.
  %s version                    Print the version.

Build paths behave like Go patterns:
  - ./...        recurse from cwd
  - ./dir        only that directory (non-recursive)
  - ./file.jsx   only that file
  - -            read stdin, write stdout

`, jsx.Version, jsx.BuildDate, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// build
// -----------------------------------------------------------------------------

func cmdBuild(args []string) int {
	var (
		pragma     string
		pragmaFrag string
		noStrict   bool
		maxCalls   int
		outPath    string
		replaces   []string
		ext        string
	)

	flags := pflag.NewFlagSet("build", pflag.ExitOnError)
	flags.StringVar(&pragma, "pragma", jsx.DefaultPragma, "Element factory call")
	flags.StringVar(&pragmaFrag, "pragma-frag", jsx.DefaultPragmaFrag, "Fragment identifier")
	flags.BoolVar(&noStrict, "no-use-strict", false, "Do not prefix \"use strict\"")
	flags.IntVar(&maxCalls, "max-recursive-calls", jsx.DefaultMaxRecursiveCalls, "Element recursion budget")
	flags.StringVarP(&outPath, "output", "o", "", "Output file (single input only)")
	flags.StringArrayVar(&replaces, "replace", nil, "Post-generation rule find=replace (repeatable)")
	flags.StringVar(&ext, "ext", ".jsx", "Source extension for directory walks")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	opts := jsx.DefaultOptions()
	opts.Pragma = pragma
	opts.PragmaFrag = pragmaFrag
	opts.AddUseStrict = !noStrict
	opts.MaxRecursiveCalls = maxCalls

	var rules []jsx.Replacement
	for _, r := range replaces {
		rule, err := jsx.ParseReplacement(r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			return 2
		}
		rules = append(rules, rule)
	}

	patterns := flags.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	if len(patterns) == 1 && patterns[0] == "-" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read stdin: %v\n", appName, err)
			return 1
		}
		out, err := compileSource("<stdin>", string(src), opts, rules)
		if err != nil {
			return 1
		}
		fmt.Print(out)
		return 0
	}

	paths, err := collectPaths(patterns, ext)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	if len(paths) == 0 {
		return 0
	}
	if outPath != "" && len(paths) != 1 {
		fmt.Fprintf(os.Stderr, "%s: -o requires exactly one input file\n", appName)
		return 2
	}

	sort.Strings(paths)
	failed := 0
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, p, err)
			failed++
			continue
		}
		out, err := compileSource(p, string(b), opts, rules)
		if err != nil {
			failed++
			continue
		}
		dst := outPath
		if dst == "" {
			dst = strings.TrimSuffix(p, ext) + ".js"
		}
		if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot write %s: %v\n", appName, dst, err)
			failed++
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// compileSource compiles one source, printing a caret diagnostic on error.
func compileSource(name, src string, opts jsx.Options, rules []jsx.Replacement) (string, error) {
	out, err := jsx.CompileWithOptions(src, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", name, red(jsx.WrapErrorWithSource(err, src).Error()))
		return "", err
	}
	return jsx.ApplyReplacements(out, rules), nil
}

func collectPaths(patterns []string, ext string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, raw := range patterns {
		pat := strings.TrimSpace(raw)
		if pat == "" {
			continue
		}

		if strings.HasSuffix(pat, "...") {
			root := strings.TrimSuffix(pat, "...")
			root = strings.TrimSuffix(root, "/")
			if root == "" || root == "." {
				root = "."
			}
			err := filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if de.IsDir() {
					name := de.Name()
					if name != "." && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor") {
						return filepath.SkipDir
					}
					return nil
				}
				if strings.HasSuffix(de.Name(), ext) {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		st, err := os.Stat(pat)
		if err != nil {
			return nil, err
		}
		if st.IsDir() {
			entries, err := os.ReadDir(pat)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
					add(filepath.Join(pat, e.Name()))
				}
			}
			continue
		}
		add(pat)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	opts := jsx.DefaultOptions()
	var buf []string

	for {
		prompt := promptMain
		if len(buf) > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			buf = buf[:0]
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}
		if strings.TrimSpace(line) == ":quit" {
			return 0
		}

		buf = append(buf, line)
		src := strings.Join(buf, "\n")
		if strings.TrimSpace(src) == "" {
			buf = buf[:0]
			continue
		}

		out, cerr := jsx.CompileWithOptions(src, opts)
		if cerr != nil {
			// keep reading while elements are still open
			if ce, ok := cerr.(*jsx.CompileError); ok && ce.Kind == jsx.ErrParserUnbalanced {
				continue
			}
			fmt.Fprintln(os.Stderr, red(jsx.WrapErrorWithSource(cerr, src).Error()))
			buf = buf[:0]
			continue
		}

		ln.AppendHistory(src)
		fmt.Println(blue(out))
		buf = buf[:0]
	}
}
