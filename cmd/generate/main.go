package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"github.com/Mavwarf/appicon/internal/catalog"
	"github.com/Mavwarf/appicon/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cliArgs holds parsed command-line input. Pointer fields are nil when
// the flag was not given, so config values apply.
type cliArgs struct {
	command      string // "", "help", "version", "sizes", "manifest", "history"
	input        string
	output       *string
	prefix       *string
	resampler    *string
	deviceIdioms bool
	icns         bool
	configPath   string
	noHistory    bool
	quiet        bool
	limit        int // history
}

func parseArgs(args []string) (cliArgs, error) {
	var a cliArgs
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		// "--output=DIR" carries its value inline.
		name, inline, hasInline := arg, "", false
		if strings.HasPrefix(arg, "--") {
			if n, v, ok := strings.Cut(arg, "="); ok {
				name, inline, hasInline = n, v, true
			}
		}
		value := func(flag string) (string, error) {
			if hasInline {
				return inline, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", flag)
			}
			i++
			return args[i], nil
		}
		noValue := func() error {
			if hasInline {
				return fmt.Errorf("%s does not take a value", name)
			}
			return nil
		}

		switch name {
		case "--output", "-o":
			v, err := value("--output")
			if err != nil {
				return a, err
			}
			a.output = &v
		case "--prefix", "-p":
			v, err := value("--prefix")
			if err != nil {
				return a, err
			}
			a.prefix = &v
		case "--resampler", "-r":
			v, err := value("--resampler")
			if err != nil {
				return a, err
			}
			a.resampler = &v
		case "--config", "-c":
			v, err := value("--config")
			if err != nil {
				return a, err
			}
			a.configPath = v
		case "--device-idioms":
			if err := noValue(); err != nil {
				return a, err
			}
			a.deviceIdioms = true
		case "--icns":
			if err := noValue(); err != nil {
				return a, err
			}
			a.icns = true
		case "--no-history":
			if err := noValue(); err != nil {
				return a, err
			}
			a.noHistory = true
		case "--quiet", "-q":
			if err := noValue(); err != nil {
				return a, err
			}
			a.quiet = true
		case "help", "-h", "--help":
			if len(positional) == 0 {
				a.command = "help"
			} else {
				positional = append(positional, arg)
			}
		case "version", "-V", "--version":
			if len(positional) == 0 {
				a.command = "version"
			} else {
				positional = append(positional, arg)
			}
		default:
			if len(arg) > 1 && arg[0] == '-' {
				return a, fmt.Errorf("unknown flag %s", name)
			}
			positional = append(positional, arg)
		}
	}

	if a.command != "" {
		return a, nil
	}
	if len(positional) == 0 {
		return a, fmt.Errorf("missing input image path")
	}

	switch positional[0] {
	case "sizes", "manifest":
		a.command = positional[0]
		if len(positional) > 1 {
			return a, fmt.Errorf("%s takes no arguments", positional[0])
		}
	case "history":
		a.command = "history"
		a.limit = 10
		if len(positional) > 2 {
			return a, fmt.Errorf("history takes at most one argument")
		}
		if len(positional) == 2 {
			n, err := strconv.Atoi(positional[1])
			if err != nil || n < 0 {
				return a, fmt.Errorf("history count must be a non-negative number")
			}
			a.limit = n
		}
	default:
		if len(positional) > 1 {
			return a, fmt.Errorf("expected one input image, got %d arguments", len(positional))
		}
		a.input = positional[0]
	}
	return a, nil
}

// applyFlags overrides cfg with any flags that were given.
func applyFlags(cfg config.Config, a cliArgs) config.Config {
	if a.output != nil {
		cfg.Output = *a.output
	}
	if a.prefix != nil {
		cfg.Prefix = *a.prefix
	}
	if a.resampler != nil {
		cfg.Resampler = *a.resampler
	}
	if a.deviceIdioms {
		cfg.DeviceIdioms = true
	}
	if a.icns {
		cfg.ICNS = true
	}
	if a.noHistory {
		cfg.History = config.HistoryOff
	}
	return cfg
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "Run 'generate help' for usage.\n")
		return 1
	}

	switch a.command {
	case "help":
		printUsage(stdout)
		return 0
	case "version":
		fmt.Fprintf(stdout, "generate %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
		return 0
	case "sizes":
		printSizes(stdout, catalog.AppIcon)
		return 0
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	cfg = applyFlags(cfg, a)

	switch a.command {
	case "manifest":
		return printManifest(stdout, stderr, cfg)
	case "history":
		return printHistory(stdout, stderr, cfg, a.limit)
	}
	return generateIcons(ctx, a.input, cfg, a.quiet, stdout, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "generate %s - Render iOS/macOS app icons from a 1024x1024 master image\n", version)
	fmt.Fprint(w, `
Usage:
  generate <input-image> [options]
  generate sizes
  generate manifest [--prefix NAME] [--device-idioms]
  generate history [N]

Options:
  --output, -o <dir>       Output directory (default: ./icons)
  --prefix, -p <name>      Filename prefix (default: AppIcon)
  --resampler, -r <name>   lanczos (default), catmullrom, bilinear, nearest
  --device-idioms          Also list iPhone/iPad icons in Contents.json
  --icns                   Also write <prefix>.icns for macOS
  --config, -c <path>      Path to appicon-config.json or .yaml
  --no-history             Don't record this run
  --quiet, -q              Only print errors

Commands:
  sizes                    List every required icon size
  manifest                 Print Contents.json without rendering
  history [N]              Show the last N runs (default 10, 0 = all)
  version, -V              Show version and build date
  help, -h, --help         Show this help message

Config resolution:
  1. --config <path>                         (explicit)
  2. appicon-config.json|yaml next to binary (portable)
  3. ~/.config/appicon/appicon-config.json   (user default)
  APPICON_* environment variables override the file; flags override both.

Examples:
  generate master.png                      Write ./icons/AppIcon_*.png + Contents.json
  generate art.jpg -o Assets.xcassets/AppIcon.appiconset -p Flow
  generate master.png --icns --device-idioms
`)
}
