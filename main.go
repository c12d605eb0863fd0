/*
 * Feather example interactive/script runner.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/feather-lang/feather/feather"
	"github.com/feather-lang/feather/feather/memhost"
)

func main() {
	maxDepth := flag.Int("maxdepth", feather.DefaultMaxEvalDepth, "maximum recursive evaluation depth")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to this file before exiting")
	trace := flag.Bool("trace", false, "echo each top-level command, shell-quoted, to stderr before evaluating")
	flag.Parse()
	args := flag.Args()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "feather: "+err.Error())
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(os.Stderr, "feather: "+err.Error())
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	host := memhost.NewHost(logger)
	it := feather.NewInterp[*memhost.Object](host, feather.Options{MaxEvalDepth: *maxDepth})
	logger = logger.With("session", host.ID())

	host.SetVar("argv0", host.Intern(os.Args[0]))
	host.SetVar("argc", host.Intern("0"))
	host.SetVar("argv", host.Intern(""))

	if len(args) > 0 {
		runScript(it, host, logger, args, *trace)
		return
	}

	runREPL(it, host, logger, *trace)
}

// runScript evaluates the file named by args[0] as a Feather script,
// exposing the remaining arguments through the usual argv0/argv/argc
// variables (flag parsing has already peeled off the program's own
// flags).
func runScript(it *feather.Interp[*memhost.Object], host *memhost.Host, logger *slog.Logger, args []string, trace bool) {
	text, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "feather: "+err.Error())
		os.Exit(1)
	}
	host.SetVar("argv0", host.Intern(args[0]))
	if len(args) > 1 {
		host.SetVar("argv", host.Intern(strings.Join(args[1:], " ")))
		host.SetVar("argc", host.NewInt(int64(len(args)-1)))
	}

	if trace {
		echoTrace(string(text))
	}
	start := time.Now()
	_, err = it.EvalString(string(text))
	logger.Debug("script evaluated", "elapsed", humanize.RelTime(start, time.Now(), "", ""))
	if err != nil {
		var evalErr *feather.EvalError
		if errors.As(err, &evalErr) && evalErr.Code == feather.CodeExit {
			os.Exit(0)
		}
		fmt.Println("Error: " + err.Error())
		os.Exit(1)
	}
}

// runREPL is the interactive loop: a liner-based multi-line prompt with
// backslash continuation, Ctrl-C abort handling, and history. Batch
// (non-tty) stdin skips the prompt strings entirely so piped scripts
// don't get "tcl> " noise mixed into their output.
func runREPL(it *feather.Interp[*memhost.Object], host *memhost.Host, logger *slog.Logger, trace bool) {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(false)
	line.SetMultiLineMode(true)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt)
	go func() {
		<-done
		line.Close()
		fmt.Println("^C abort")
		os.Exit(0)
	}()

	promptMain, promptCont := "tcl> ", "tcl# "
	if !interactive {
		promptMain, promptCont = "", ""
	}

outer:
	for {
		multi := true
		command := ""
		for multi {
			prompt := promptMain
			if command != "" {
				prompt = promptCont
			}
			text, err := line.Prompt(prompt)
			if err != nil {
				if errors.Is(err, liner.ErrPromptAborted) {
					fmt.Println("^C")
				} else if !errors.Is(err, io.EOF) {
					fmt.Println(err.Error())
				}
				break outer
			}
			if text == "" {
				continue
			}
			if strings.HasSuffix(text, "\\") {
				command += text[:len(text)-1] + "\n"
			} else {
				command += text
				multi = false
			}
		}

		line.AppendHistory(command)
		if trace {
			echoTrace(command)
		}
		start := time.Now()
		result, err := it.EvalString(command)
		logger.Debug("command evaluated", "elapsed", humanize.RelTime(start, time.Now(), "", ""))
		if err != nil {
			var evalErr *feather.EvalError
			if errors.As(err, &evalErr) && evalErr.Code == feather.CodeExit {
				break
			}
			fmt.Println("Error: " + err.Error())
		} else if result != "" {
			fmt.Println("=> " + result)
		}
	}
}

// echoTrace prints cmd to stderr shell-quoted word-by-word, a debugging
// aid for embedders who want to see exactly what text is about to be
// evaluated without guessing at whitespace collapsing.
func echoTrace(cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "+ "+shellquote.Join(fields...))
}
