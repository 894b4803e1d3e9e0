package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vifex/ai-img-cmp/pkg/ark"
	"github.com/vifex/ai-img-cmp/pkg/imgcmp"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2 // same status flag.ExitOnError uses
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// printUsage prints flag defaults followed by examples
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Compare a design image with a device capture using a multimodal model")
	fmt.Fprintln(w, "\nUsage:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w, "\nExamples:")
	fmt.Fprintln(w, "  Compare with default model and prompt:")
	fmt.Fprintln(w, "     --image-design=design.png --image-device=device.png")
	fmt.Fprintln(w, "\n  Show the model's reasoning:")
	fmt.Fprintln(w, "     --image-design=design.png --image-device=device.png --thinking=enabled")
	fmt.Fprintln(w, "\n  Custom model and prompt:")
	fmt.Fprintln(w, "     --image-design=design.png --image-device=device.png --model=<model-id> --prompt=\"Do they match? Answer Yes or No.\"")
	fmt.Fprintln(w, "\n  Read model, thinking, prompt and base_url from a YAML file:")
	fmt.Fprintln(w, "     --config=ai_img_cmp.yaml --image-design=design.png --image-device=device.png")
	fmt.Fprintln(w, "\n  Take ARK_API_KEY from a dotenv file:")
	fmt.Fprintln(w, "     --env-file=.env --image-design=design.png --image-device=device.png")
	fmt.Fprintf(w, "\nEnvironment:\n  %s (required), %s (optional)\n", ark.APIKeyEnv, ark.BaseURLEnv)
}

// run is main without os.Exit. Chat completion failures are not handled here, they panic.
func run(args []string, stdout, stderr io.Writer) int {
	defaults := imgcmp.DefaultConfig()

	fs := flag.NewFlagSet("ai-img-cmp", flag.ContinueOnError)
	fs.SetOutput(stderr)

	designImage := fs.String("image-design", "", "Design image path (required)")
	deviceImage := fs.String("image-device", "", "Device image path (required)")
	model := fs.String("model", defaults.Model, "Model ID to use")
	thinking := defaults.Thinking
	fs.Var(&thinking, "thinking", "Thinking type: disabled, enabled or auto (default: disabled)")
	prompt := fs.String("prompt", defaults.Prompt, "Custom prompt text")
	configPath := fs.String("config", "", "YAML file with model, thinking, prompt and base_url")
	envFile := fs.String("env-file", "", "Dotenv file to load before reading the environment")
	verbose := fs.Bool("v", false, "Enable verbose logging")
	trace := fs.Bool("vv", false, "Enable trace logging")
	showVersion := fs.Bool("version", false, "Show version information")
	fs.Usage = func() { printUsage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "ai-img-cmp version: %s\n", ark.Version)
		return exitOK
	}

	// An explicitly empty path is accepted here and reported as a missing file later
	given := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })
	for _, name := range []string{"image-design", "image-device"} {
		if !given[name] {
			fmt.Fprintf(stderr, "missing required flag: --%s\n", name)
			fs.Usage()
			return exitUsage
		}
	}

	logger := ark.NewLogger(ark.LogLevelError)
	if *verbose {
		logger.SetLevel(ark.LogLevelDebug)
	}
	if *trace {
		logger.SetLevel(ark.LogLevelTrace)
	}

	if *envFile != "" {
		if err := imgcmp.LoadDotEnv(*envFile); err != nil {
			fmt.Fprintln(stdout, err)
			return exitError
		}
	}

	apiKey := os.Getenv(ark.APIKeyEnv)
	if apiKey == "" {
		fmt.Fprintf(stdout, "Please set the %s environment variable.\n", ark.APIKeyEnv)
		return exitError
	}

	cfg := defaults
	if *configPath != "" {
		var err error
		if cfg, err = imgcmp.LoadConfigFile(*configPath, cfg); err != nil {
			fmt.Fprintln(stdout, err)
			return exitError
		}
		logger.Debug("Loaded config from %s", *configPath)
	}

	// Flags given on the command line win over the config file
	if given["model"] {
		cfg.Model = *model
	}
	if given["thinking"] {
		cfg.Thinking = thinking
	}
	if given["prompt"] {
		cfg.Prompt = *prompt
	}
	cfg.DesignImage = *designImage
	cfg.DeviceImage = *deviceImage
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv(ark.BaseURLEnv)
	}

	client := ark.NewArkClient(apiKey, logger, ark.WithBaseURL(cfg.BaseURL))
	logger.Debug("Using endpoint %s", client.BaseURL())

	comparator := imgcmp.NewComparator(client, stdout, logger)
	if _, err := comparator.Run(context.Background(), cfg); err != nil {
		var imgErr *imgcmp.ImageError
		var remoteErr *imgcmp.RemoteError
		switch {
		case errors.As(err, &imgErr):
			fmt.Fprintln(stdout, imgErr.Error())
			return exitError
		case errors.As(err, &remoteErr):
			panic(remoteErr)
		default:
			fmt.Fprintf(stdout, "An unexpected error occurred: %v\n", err)
			return exitError
		}
	}

	return exitOK
}
