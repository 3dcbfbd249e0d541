package main

import (
	"fmt"
	"io"
	"time"

	"github.com/moura-ar/portfolio/internal/formclient"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
)

// terminalView prints controller updates as they happen.
type terminalView struct {
	out     io.Writer
	spinner *spinner.Spinner
}

func newTerminalView(out io.Writer) *terminalView {
	s := spinner.New(spinner.CharSets[14], 120*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " Enviando mensaje..."
	return &terminalView{out: out, spinner: s}
}

func (v *terminalView) SetFieldError(field, message string) {
	if message == "" {
		return
	}
	errColor.Fprintf(v.out, "✗ %s: %s\n", field, message)
}

func (v *terminalView) SetFieldValid(field string, valid bool) {
	if valid {
		okColor.Fprintf(v.out, "✓ %s\n", field)
	}
}

func (v *terminalView) SetHiddenValue(name, value string) {
	logger.Debug("hidden %s=%q", name, value)
}

func (v *terminalView) SetCounter(c formclient.Counter) {
	switch c.Level {
	case formclient.CounterDanger:
		errColor.Fprintf(v.out, "  %s\n", c.Text)
	case formclient.CounterWarning:
		warnColor.Fprintf(v.out, "  %s\n", c.Text)
	default:
		fmt.Fprintf(v.out, "  %s\n", c.Text)
	}
}

func (v *terminalView) SetSubmitEnabled(bool) {}

func (v *terminalView) SetLoading(loading bool) {
	if loading {
		v.spinner.Start()
		return
	}
	v.spinner.Stop()
}

func (v *terminalView) FocusField(field string) {
	warnColor.Fprintf(v.out, "→ Revisá el campo %s\n", field)
}

func (v *terminalView) LockForm() {
	okColor.Fprintln(v.out, "✓ Enviado correctamente")
}

func (v *terminalView) ShowBanner(message string) {
	errColor.Fprintf(v.out, "! %s\n", message)
}

func (v *terminalView) HideBanner() {}
