package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	zr "github.com/adriyanbasu0/zr-sharp"
)

const (
	appName     = "zr"
	historyFile = ".zr_history"
	promptMain  = ">> "
)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "tokens":
		os.Exit(cmdTokens(os.Args[2:]))
	case "version":
		fmt.Println(zr.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`ZR %s (built %s)

Usage:
  %s run [-v] [-vv] [<file.zr> | -]   Run a script ("-" reads from stdin;
                                      no argument runs the zr.yml main)
  %s repl                             Start the REPL
  %s tokens <file.zr>                 Dump the token stream of a file
  %s version                          Print the compiled version

`, zr.Version, zr.BuildDate, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "log pipeline stages to stderr")
	trace := fs.Bool("vv", false, "additionally log each evaluated statement")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cwd, _ := os.Getwd()
	var manifest *zr.Manifest
	if p, ok := zr.FindManifest(cwd); ok {
		m, err := zr.LoadManifest(p)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}
		manifest = m
	}

	file := ""
	switch rest := fs.Args(); {
	case len(rest) >= 1:
		file = rest[0]
	case manifest != nil && manifest.Main != "":
		file = manifest.Main
	default:
		fmt.Fprintf(os.Stderr, "usage: %s run <file.zr>\n", appName)
		return 2
	}

	var roots []string
	if manifest != nil {
		roots = manifest.ModulePaths
	}
	ip := zr.New(zr.NewFileProvider(roots...), os.Stdout)
	switch {
	case *trace:
		ip.SetTrace(zr.TraceEval)
	case *verbose:
		ip.SetTrace(zr.TraceInfo)
	}

	var err error
	if file == "-" {
		var src []byte
		src, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read stdin: %v\n", appName, err)
			return 1
		}
		_, err = ip.RunSource(string(src), "<stdin>", cwd)
	} else {
		_, err = ip.RunFile(file)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Printf("ZR %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", zr.Version)

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

	cwd, _ := os.Getwd()
	ip := zr.New(zr.NewFileProvider(), os.Stdout)

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return 0
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}
		if strings.HasPrefix(code, ":") {
			if strings.EqualFold(code, ":quit") {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		v, err := ip.RunSource(line, "<repl>", cwd)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Println(blue(zr.FormatValue(v)))
		ln.AppendHistory(line)
	}
}

// -----------------------------------------------------------------------------
// tokens
// -----------------------------------------------------------------------------

func cmdTokens(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s tokens <file.zr>\n", appName)
		return 2
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}

	lx := zr.NewLexer(string(src))
	for {
		tok, err := lx.NextToken()
		if err != nil {
			fmt.Fprintln(os.Stderr, red(zr.WrapErrorWithName(err, args[0], string(src)).Error()))
			return 1
		}
		if tok.Kind == zr.EOF {
			fmt.Printf("%4d:%-3d EOF\n", tok.Line, tok.Col+1)
			return 0
		}
		fmt.Printf("%4d:%-3d %-8s %q\n", tok.Line, tok.Col+1, tokenKindName(tok.Kind), tok.Text)
	}
}

func tokenKindName(k zr.TokenKind) string {
	switch k {
	case zr.IDENT:
		return "ident"
	case zr.NUMBER:
		return "number"
	case zr.STRING:
		return "string"
	case zr.LET, zr.IF, zr.ELSE, zr.WHILE, zr.PRINT, zr.FUNC, zr.RETURN,
		zr.TRUE, zr.FALSE, zr.AND, zr.OR, zr.NOT, zr.LOADIN,
		zr.TYPE_INT, zr.TYPE_INT32, zr.TYPE_INT64, zr.TYPE_FLOAT, zr.TYPE_BOOL, zr.TYPE_STRING:
		return "keyword"
	default:
		return "op"
	}
}
