// Package main extracts the sprites of a MIX archive to PNG.
//
// Usage:
//
//	go run ./tools/extract_mix \
//	  -input MIX.WD \
//	  -output assets/mix/
//
// Pass -list to print the directory, -dump-raw to also write every selected
// entry zstd-compressed, and -name/-ext to narrow the selection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/1siamBot/mixkit/engine/config"
	"github.com/1siamBot/mixkit/engine/logging"
)

func main() {
	inputPath := flag.String("input", "", "Path to the MIX archive")
	outputPath := flag.String("output", "", "Output directory (overrides config)")
	configPath := flag.String("config", "", "YAML config file")
	listOnly := flag.Bool("list", false, "Just list archive contents")
	dumpRaw := flag.Bool("dump-raw", false, "Also dump selected entries as zstd")
	names := flag.String("name", "", "Comma-separated entry names to extract")
	exts := flag.String("ext", "", "Comma-separated extensions to extract")
	scale := flag.Int("scale", 0, "PNG scale factor (overrides config)")
	logLevel := flag.String("log", "", "Log level (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}
	if *inputPath != "" {
		cfg.Archive = *inputPath
	}
	if *outputPath != "" {
		cfg.Output = *outputPath
	}
	if *names != "" {
		cfg.Select.Names = splitList(*names)
	}
	if *exts != "" {
		cfg.Select.Extensions = splitList(*exts)
	}
	if *scale > 0 {
		cfg.Export.Scale = *scale
	}
	if *dumpRaw {
		cfg.Export.DumpRaw = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if cfg.Archive == "" {
		fmt.Fprintln(os.Stderr, "Usage: extract_mix -input <archive> [-output dir] [-config mix.yaml] [-list]")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.Must(cfg.Log.Level)
	defer log.Sync()

	buf, err := os.ReadFile(cfg.Archive)
	if err != nil {
		log.Fatal("read archive", zap.Error(err))
	}
	x, err := newExtractor(cfg, log, buf)
	if err != nil {
		log.Fatal("parse archive", zap.String("path", cfg.Archive), zap.Error(err))
	}
	log.Info("archive", zap.String("path", cfg.Archive), zap.Int("entries", x.archive.Len()))

	if *listOnly {
		if err := x.list(os.Stdout); err != nil {
			log.Fatal("list", zap.Error(err))
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Export.DumpRaw {
		n, err := x.dumpRaw(ctx)
		if err != nil {
			log.Fatal("dump", zap.Error(err))
		}
		log.Info("raw entries dumped", zap.Int("count", n))
	}

	sum, err := x.extract(ctx)
	if err != nil {
		log.Fatal("extract", zap.Error(err))
	}
	fmt.Printf("\nExtracted %d assets (%d frames, %d substituted) to %s\n",
		sum.Decoded-sum.Duplicates, sum.Frames, sum.Substituted, cfg.Output)
	if sum.Failed > 0 || sum.Duplicates > 0 {
		fmt.Printf("%d entries not decodable, %d duplicates skipped\n", sum.Failed, sum.Duplicates)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
