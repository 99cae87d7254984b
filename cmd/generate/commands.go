package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Mavwarf/appicon/internal/catalog"
	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/eventlog"
	"github.com/Mavwarf/appicon/internal/generate"
	"github.com/Mavwarf/appicon/internal/mqtt"
	"github.com/Mavwarf/appicon/internal/paths"
	"github.com/Mavwarf/appicon/internal/render"
	"github.com/Mavwarf/appicon/internal/tmpl"
	"github.com/Mavwarf/appicon/internal/webhook"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// consoleReporter prints progress. On a terminal it uses the decorated
// style; in pipes and CI logs it prints plain lines.
type consoleReporter struct {
	out, errOut io.Writer
	fancy       bool
	quiet       bool
}

func (c consoleReporter) Warn(msg string) {
	if c.fancy {
		fmt.Fprintf(c.errOut, "⚠️  Warning: %s\n", msg)
		return
	}
	fmt.Fprintf(c.errOut, "warning: %s\n", msg)
}

func (c consoleReporter) Wrote(path string, d catalog.Dimension, labels []string) {
	if c.quiet {
		return
	}
	name := filepath.Base(path)
	if c.fancy {
		fmt.Fprintf(c.out, "✅ %-25s (%s)\n", name, strings.Join(labels, ", "))
		return
	}
	fmt.Fprintf(c.out, "wrote %s (%s)\n", name, strings.Join(labels, ", "))
}

func generateIcons(ctx context.Context, input string, cfg config.Config, quiet bool, stdout, stderr io.Writer) int {
	resampler, err := render.ParseResampler(cfg.Resampler)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	rep := consoleReporter{out: stdout, errOut: stderr, fancy: isTerminal(stdout), quiet: quiet}
	if !quiet {
		fmt.Fprintf(stdout, "Generating app icons from %s\n", input)
		fmt.Fprintf(stdout, "Output directory: %s\n\n", cfg.Output)
	}

	res, runErr := generate.Run(ctx, generate.Options{
		Input:        input,
		Output:       cfg.Output,
		Prefix:       cfg.Prefix,
		Resampler:    resampler,
		DeviceIdioms: cfg.DeviceIdioms,
		ICNS:         cfg.ICNS,
	}, rep)

	recordRun(cfg, input, res, runErr, stderr)
	announce(cfg, input, res, runErr, stderr)

	if runErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
		return 1
	}

	if !quiet {
		fmt.Fprintln(stdout)
		fmt.Fprintf(stdout, "Generated %d icon files in %s\n", len(res.Files), formatDuration(res.Elapsed))
		fmt.Fprintf(stdout, "Wrote %s\n", res.ManifestPath)
		if res.ICNSPath != "" {
			fmt.Fprintf(stdout, "Wrote %s\n", res.ICNSPath)
		}
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Next steps:")
		fmt.Fprintln(stdout, "  1. Copy the icon files into your AppIcon.appiconset folder")
		fmt.Fprintln(stdout, "  2. Replace its Contents.json with the generated one")
		fmt.Fprintf(stdout, "  3. Use %s for App Store Connect\n",
			catalog.Filename(cfg.Prefix, catalog.Dimension{Width: catalog.MasterSize, Height: catalog.MasterSize}))
	}
	return 0
}

// recordRun appends the run to history. Best-effort: failures are
// printed, never returned.
func recordRun(cfg config.Config, input string, res generate.Result, runErr error, stderr io.Writer) {
	store, err := eventlog.Open(cfg.History, paths.DataDir())
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	r := eventlog.Run{
		Time:       time.Now(),
		Input:      input,
		Output:     cfg.Output,
		Prefix:     cfg.Prefix,
		Files:      len(res.Files),
		Normalized: res.Normalized,
		Duration:   res.Elapsed,
	}
	if runErr != nil {
		r.Err = runErr.Error()
	}
	if err := store.Log(r); err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
	}
}

// notifyTimeout bounds all notification delivery for one run.
const notifyTimeout = 15 * time.Second

// announce sends the run summary to the configured webhook and MQTT
// topic. Best-effort, same as recordRun. It uses its own context: a run
// stopped by SIGINT still reports its failure.
func announce(cfg config.Config, input string, res generate.Result, runErr error, stderr io.Writer) {
	n := cfg.Notify
	if n.WebhookURL == "" && n.MQTT.Broker == "" {
		return
	}
	vars := tmpl.Vars{
		Input:    input,
		Output:   cfg.Output,
		Prefix:   cfg.Prefix,
		Files:    len(res.Files),
		Duration: formatDuration(res.Elapsed),
		Status:   "ok",
	}
	if runErr != nil {
		vars.Status = "error"
		vars.Error = runErr.Error()
	}
	msg := summaryLine(n.Message, vars)

	if n.WebhookURL != "" {
		p := webhook.Payload{
			Status:     vars.Status,
			Message:    msg,
			Input:      input,
			Output:     cfg.Output,
			Normalized: res.Normalized,
			DurationMS: res.Elapsed.Milliseconds(),
			Error:      vars.Error,
		}
		for _, f := range res.Files {
			p.Files = append(p.Files, filepath.Base(f))
		}
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		err := webhook.Send(ctx, n.WebhookURL, p, n.WebhookHeaders)
		cancel()
		if err != nil {
			fmt.Fprintf(stderr, "notify: %v\n", err)
		}
	}
	if n.MQTT.Broker != "" {
		if err := mqtt.Publish(n.MQTT, msg); err != nil {
			fmt.Fprintf(stderr, "notify: %v\n", err)
		}
	}
}

// summaryLine renders the notification text, using the configured
// template when there is one.
func summaryLine(message string, vars tmpl.Vars) string {
	switch {
	case message != "":
		return tmpl.Expand(message, vars)
	case vars.Status == "error":
		return tmpl.Expand("appicon: {input} failed: {error}", vars)
	default:
		return tmpl.Expand("appicon: {files} icons from {input} written to {output} in {duration}", vars)
	}
}

func printSizes(w io.Writer, c catalog.Catalog) {
	for _, s := range c.Specs() {
		fmt.Fprintf(w, "  %-22s %-11s %s\n", s.Name, s.Dimension(), s.Label)
	}
	fmt.Fprintf(w, "\n%d icons, %d distinct sizes\n", c.Len(), len(c.RequiredDimensions()))
}

func printManifest(stdout, stderr io.Writer, cfg config.Config) int {
	if err := generate.ValidatePrefix(cfg.Prefix); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	m := catalog.AppIcon.BuildManifestWith(cfg.Prefix, catalog.ManifestOptions{DeviceIdioms: cfg.DeviceIdioms})
	data, err := m.Marshal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	stdout.Write(data)
	return 0
}

func printHistory(stdout, stderr io.Writer, cfg config.Config, limit int) int {
	if cfg.History == config.HistoryOff {
		fmt.Fprintln(stdout, "History is disabled.")
		return 0
	}
	store, err := eventlog.Open(cfg.History, paths.DataDir())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	runs, err := store.Entries(limit)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No runs recorded yet.")
		return 0
	}
	for _, r := range runs {
		fmt.Fprintln(stdout, formatRun(r))
	}
	return 0
}

func formatRun(r eventlog.Run) string {
	ts := r.Time.Local().Format("2006-01-02 15:04:05")
	if !r.OK() {
		return fmt.Sprintf("%s  error  %s  %s", ts, r.Input, r.Err)
	}
	line := fmt.Sprintf("%s  ok     %s -> %s  (%d files, %s)",
		ts, r.Input, r.Output, r.Files, formatDuration(r.Duration))
	if r.Normalized {
		line += "  resized"
	}
	return line
}

// formatDuration returns a compact duration string (e.g. "850ms", "2.4s").
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}
