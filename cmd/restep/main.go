package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coregx/restep"
	"github.com/coregx/restep/codegen"
	"github.com/coregx/restep/internal/script"
	"github.com/coregx/restep/nfa"
)

const defaultWidth = 80

func main() {
	if err := runCLI(os.Args, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string, out io.Writer) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "compile":
		return compileCommand(args[2:], out)
	case "step":
		return stepCommand(args[2:], out)
	case "dot":
		return dotCommand(args[2:], out)
	case "gen":
		return genCommand(args[2:], out)
	case "script":
		return scriptCommand(args[2:], out)
	case "tui":
		return tuiCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	return fs
}

func configFor(verbose, prefilter bool) restep.Config {
	config := restep.DefaultConfig()
	config.Verbose = verbose
	config.EnablePrefilter = prefilter
	return config
}

func compileCommand(args []string, out io.Writer) error {
	fs := newFlagSet("compile")
	verbose := fs.Bool("v", false, "trace every pipeline stage")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("restep compile: pattern required")
	}
	re, err := restep.CompileWithConfig(fs.Arg(0), configFor(*verbose, true))
	if err != nil {
		return err
	}
	fmt.Fprint(out, renderSummary(re))
	return nil
}

func stepCommand(args []string, out io.Writer) error {
	fs := newFlagSet("step")
	verbose := fs.Bool("v", false, "trace every pipeline stage")
	noPrefilter := fs.Bool("no-prefilter", false, "try every start position")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("restep step: pattern and input required")
	}
	re, err := restep.CompileWithConfig(fs.Arg(0), configFor(*verbose, !*noPrefilter))
	if err != nil {
		return err
	}

	width := defaultWidth
	if f, ok := out.(*os.File); ok {
		width = terminalWidth(f)
	}

	fmt.Fprint(out, renderSummary(re))
	s := re.NewSession(fs.Arg(1))
	runes := s.Runes()
	for {
		step, ok := s.Step()
		if !ok {
			break
		}
		fmt.Fprintln(out, renderStep(step, runes, width))
	}
	fmt.Fprintln(out, renderField("matches", fmt.Sprintf("%q", s.MatchStrings())))
	return nil
}

func dotCommand(args []string, out io.Writer) error {
	fs := newFlagSet("dot")
	output := fs.String("o", "", "write the graph to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("restep dot: pattern required")
	}
	re, err := restep.Compile(fs.Arg(0))
	if err != nil {
		return err
	}
	if *output == "" {
		return nfa.WriteDOT(out, re.NFA())
	}
	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create %s: %w", *output, err)
	}
	if err := nfa.WriteDOT(f, re.NFA()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func genCommand(args []string, out io.Writer) error {
	fs := newFlagSet("gen")
	name := fs.String("name", "Matcher", "exported name of the generated type")
	pkg := fs.String("package", "main", "package of the generated file")
	output := fs.String("o", "", "write the file here instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("restep gen: pattern required")
	}
	re, err := restep.Compile(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, w := range re.Warnings() {
		fmt.Fprintln(os.Stderr, warningStyle.Render("warning: "+w.String()))
	}
	f, err := codegen.Generate(re.NFA(), codegen.Options{Package: *pkg, Name: *name, Pattern: re.String()})
	if err != nil {
		return err
	}
	if *output == "" {
		return f.Render(out)
	}
	return codegen.Save(f, *output)
}

func scriptCommand(args []string, out io.Writer) error {
	fs := newFlagSet("script")
	verbose := fs.Bool("v", false, "trace every pipeline stage")
	noPrefilter := fs.Bool("no-prefilter", false, "try every start position")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("restep script: script path required")
	}
	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	defer f.Close()

	s, err := script.ParseReader(filepath.Base(path), f)
	if err != nil {
		return err
	}
	return script.NewRunner(out, configFor(*verbose, !*noPrefilter)).Run(s)
}

func tuiCommand(args []string) error {
	fs := newFlagSet("tui")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pattern := ""
	if fs.NArg() > 0 {
		pattern = fs.Arg(0)
	}
	_, err := tea.NewProgram(newTUIModel(pattern, restep.DefaultConfig()), tea.WithAltScreen()).Run()
	return err
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  compile [-v] PATTERN")
	fmt.Fprintln(os.Stderr, "    show lexemes, RPN, warnings and the repaired pattern")
	fmt.Fprintln(os.Stderr, "  step [-v] [-no-prefilter] PATTERN INPUT")
	fmt.Fprintln(os.Stderr, "    print every matcher step over INPUT")
	fmt.Fprintln(os.Stderr, "  dot [-o FILE] PATTERN")
	fmt.Fprintln(os.Stderr, "    export the automaton as a Graphviz graph")
	fmt.Fprintln(os.Stderr, "  gen [-name NAME] [-package PKG] [-o FILE] PATTERN")
	fmt.Fprintln(os.Stderr, "    generate a standalone Go matcher")
	fmt.Fprintln(os.Stderr, "  script [-v] [-no-prefilter] FILE")
	fmt.Fprintln(os.Stderr, "    run a scenario script")
	fmt.Fprintln(os.Stderr, "  tui [PATTERN]")
	fmt.Fprintln(os.Stderr, "    step interactively")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
