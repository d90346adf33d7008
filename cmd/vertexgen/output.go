package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// printer writes status lines, colored when w is a terminal.
type printer struct {
	w    io.Writer
	ok   *color.Color
	fail *color.Color
}

func newPrinter(w io.Writer) *printer {
	p := &printer{
		w:    w,
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
	}
	if !isTerminal(w) {
		p.ok.DisableColor()
		p.fail.DisableColor()
	}
	return p
}

func (p *printer) success(format string, args ...any) {
	p.ok.Fprint(p.w, "ok")
	fmt.Fprintf(p.w, "   "+format+"\n", args...)
}

func (p *printer) failure(format string, args ...any) {
	p.fail.Fprint(p.w, "FAIL")
	fmt.Fprintf(p.w, " "+format+"\n", args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newLogger returns a text logger writing to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
