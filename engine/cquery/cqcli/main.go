/*
Command cqcli is an interactive shell for experimenting with container
queries on a simulated document.

    cqcli -scene card.yaml -trace Debug

A scene (see type Scene) supplies the markup and an initial set of
queries. Elements may then be resized, moved and scrolled, and change
notifications of query handles are printed as the simulated observers
deliver them.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'cquery.cli'
func tracer() tracing.Trace {
	return tracing.Select("cquery.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.cquery.cli":    "Info",
		"trace.cquery.engine": "Error",
		"trace.cquery.query":  "Error",
		"trace.cquery.dom":    "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	scenefile := flag.String("scene", "", "YAML scene to load")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the container query CLI")
	//
	scene, err := LoadScene(*scenefile)
	if err != nil {
		core.UserError(err)
		os.Exit(2)
	}
	intp, err := NewIntp(scene)
	if err != nil {
		core.UserError(err)
		os.Exit(3)
	}
	intp.flush()
	//
	// set up REPL
	repl, err := readline.NewEx(&readline.Config{
		Prompt:       "cq > ",
		AutoComplete: intp.completer(),
	})
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	defer repl.Close()
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	tracer().SetTraceLevel(traceLevel(*tlevel))
	intp.REPL(repl) // go into interactive mode
}

func traceLevel(l string) tracing.TraceLevel {
	switch strings.ToLower(l) {
	case "debug":
		return tracing.LevelDebug
	case "error":
		return tracing.LevelError
	}
	return tracing.LevelInfo
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL(repl *readline.Instance) {
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			continue
		}
		quit, err := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// completer completes command names, and queries already parsed.
func (intp *Intp) completer() *readline.PrefixCompleter {
	queries := func(line string) []string {
		_, rest := cut(strings.TrimSpace(line))
		if _, q := cutTarget(rest); q != "" || strings.HasPrefix(line, "parse") {
			return intp.engine.Cache().Complete(q)
		}
		return intp.engine.Cache().Complete("")
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("match", readline.PcItemDynamic(queries)),
		readline.PcItem("parse", readline.PcItemDynamic(queries)),
		readline.PcItem("resize"),
		readline.PcItem("move"),
		readline.PcItem("scroll"),
		readline.PcItem("flush"),
		readline.PcItem("handles"),
		readline.PcItem("dispose"),
		readline.PcItem("queries"),
		readline.PcItem("help", readline.PcItem("query")),
		readline.PcItem("quit"),
	)
}
