package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ironsheep/spot-tools-mcp/internal/config"
	"github.com/ironsheep/spot-tools-mcp/internal/detection"
	"github.com/ironsheep/spot-tools-mcp/internal/imaging"
	"github.com/ironsheep/spot-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// run executes the command line in args. Without a subcommand it serves MCP
// on in/out.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	configPath := os.Getenv(config.EnvConfigPath)
	var rest []string
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "--version" || a == "-v" || a == "version":
			printVersion(out)
			return nil
		case a == "--help" || a == "-h" || a == "help":
			printHelp(out)
			return nil
		case a == "--config" || a == "-c":
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a path", a)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(a, "--config="):
			configPath = strings.TrimPrefix(a, "--config=")
		default:
			rest = append(rest, a)
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	if cfg.Debug() {
		log.Printf("Spot MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		if configPath != "" {
			log.Printf("Using config %s", configPath)
		}
	}

	if len(rest) > 0 {
		if rest[0] != "detect" {
			return fmt.Errorf("unknown command %q (see --help)", rest[0])
		}
		return detect(ctx, cfg, rest[1:], out)
	}

	server.Version = Version
	srv := server.New(cfg, in, out)
	if err := srv.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("Shutting down")
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// detect runs spot detection on the given images with the configured
// settings and prints the JSON result. Several images are processed as a
// batch.
func detect(ctx context.Context, cfg *config.Config, paths []string, out io.Writer) error {
	if len(paths) == 0 {
		return fmt.Errorf("detect requires at least one image path")
	}

	cache := imaging.NewImageCache()
	frames := make([]image.Image, len(paths))
	for i, p := range paths {
		img, err := cache.Load(p)
		if err != nil {
			return err
		}
		frames[i] = img
	}

	opts := cfg.SpotOptions()
	var result interface{}
	if len(frames) == 1 {
		res, err := detection.DetectSpots(frames[0], opts)
		if err != nil {
			return err
		}
		result = res
	} else {
		res, err := detection.DetectSpotsBatch(ctx, frames, opts, cfg.Batch.Workers)
		if err != nil {
			return err
		}
		result = res
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printVersion(out io.Writer) {
	fmt.Fprintf(out, "spot-tools-mcp %s\n", Version)
	fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "spot-tools-mcp - MCP server for spot and region detection")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  spot-tools-mcp [options]                  Serve MCP over stdin/stdout")
	fmt.Fprintln(out, "  spot-tools-mcp [options] detect IMAGE...  Print detected spots as JSON")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fmt.Fprintln(out, "  --config, -c PATH  Load settings from a YAML file")
	fmt.Fprintln(out, "  --version, -v      Print version information")
	fmt.Fprintln(out, "  --help, -h         Print this help message")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintf(out, "  %s=PATH       Config file (overridden by --config)\n", config.EnvConfigPath)
	fmt.Fprintf(out, "  %s=debug   Enable debug logging\n", config.EnvLogLevel)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configure the server in your MCP client (e.g., Claude Desktop).")
}
