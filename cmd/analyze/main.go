// Command analyze runs one post analysis from the command line and prints
// the decision. It reads only the analyst and logging configuration, so no
// database or blob storage is required.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/JaimeStill/verdict/internal/analyst"
	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/internal/infrastructure"
)

type options struct {
	text         string
	textFile     string
	platform     string
	platformType string
	mode         string
	image        string
	video        string
	asJSON       bool
	metrics      metricFlags
}

func main() {
	opts := parseFlags(flag.CommandLine, os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) options {
	var opts options

	fs.StringVar(&opts.text, "text", "", "Post text")
	fs.StringVar(&opts.textFile, "text-file", "", "Read the post text from a file (- for stdin)")
	fs.StringVar(&opts.platform, "platform", "", "Facebook, X or Instagram")
	fs.StringVar(&opts.platformType, "type", "", "Instagram placement: Feed, Reel or Story")
	fs.StringVar(&opts.mode, "mode", "pre", "pre (before publishing) or post (after publishing)")
	fs.StringVar(&opts.image, "image", "", "Path to an attached image")
	fs.StringVar(&opts.video, "video", "", "Path to an attached video")
	fs.BoolVar(&opts.asJSON, "json", false, "Print the raw result as JSON")
	opts.metrics.register(fs)

	fs.Parse(args)
	return opts
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadAnalyst()
	if err != nil {
		return err
	}

	in, err := buildInput(opts)
	if err != nil {
		return err
	}

	logger := infrastructure.NewLogger(&cfg.Logging, os.Stderr)
	out, err := analyst.New(cfg.Analyst, nil, logger).Analyze(ctx, in)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Print(renderReport(out))
	return nil
}

func buildInput(opts options) (analyst.Input, error) {
	in := analyst.Input{
		Text:         opts.text,
		Platform:     analyst.Platform(opts.platform),
		PlatformType: analyst.PlatformType(opts.platformType),
		Mode:         analyst.Mode(strings.ToLower(opts.mode)),
		Metrics:      opts.metrics.values(),
	}

	if opts.textFile != "" {
		text, err := readText(opts.textFile)
		if err != nil {
			return in, err
		}
		in.Text = text
	}

	if in.Platform == analyst.PlatformInstagram && in.PlatformType == "" {
		return in, fmt.Errorf("-type is required for Instagram")
	}

	var err error
	if in.Image, err = readMedia(opts.image); err != nil {
		return in, err
	}
	if in.Video, err = readMedia(opts.video); err != nil {
		return in, err
	}

	return in, nil
}

func readText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(data), nil
}

// readMedia leaves the type empty so it is sniffed from the content.
func readMedia(path string) (*analyst.Media, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}
	return &analyst.Media{Data: data}, nil
}
