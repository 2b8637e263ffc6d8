// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

// Command boxdstats builds the statistics report for a Letterboxd export
// without running the server and prints it as JSON.
//
//	boxdstats [-pretty] letterboxd-export.zip
//
// Configuration (TMDB_API_KEY, ENRICH_STORE and the rest) is read the same
// way the server reads it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/boxdstats/internal/config"
	"github.com/tomtom215/boxdstats/internal/logging"
	"github.com/tomtom215/boxdstats/internal/report"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitInvalidZip = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("boxdstats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pretty := fs.Bool("pretty", false, "indent the JSON output")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: boxdstats [-pretty] <export.zip>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "boxdstats: %v\n", err)
		return exitFailure
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: stderr,
	})

	engine, err := report.NewEngineFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "boxdstats: %v\n", err)
		return exitFailure
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logging.Warn().Err(err).Msg("closing metadata store")
		}
	}()

	return writeReport(ctx, engine, fs.Arg(0), cfg.Server.MaxUploadBytes, *pretty, stdout, stderr)
}

// builder is the part of report.Engine the command needs.
type builder interface {
	Build(ctx context.Context, data []byte) (*report.Report, error)
}

// errArchiveTooLarge mirrors the server's 413 for exports over
// server.max_upload_bytes.
var errArchiveTooLarge = errors.New("archive exceeds the maximum upload size")

// readArchive reads the export at path, refusing files larger than maxBytes.
// A non-positive maxBytes disables the check.
func readArchive(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if maxBytes <= 0 {
		return io.ReadAll(f)
	}
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", errArchiveTooLarge, info.Size(), maxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit %d", errArchiveTooLarge, maxBytes)
	}
	return data, nil
}

func writeReport(ctx context.Context, b builder, path string, maxBytes int64, pretty bool, stdout, stderr io.Writer) int {
	data, err := readArchive(path, maxBytes)
	if err != nil {
		fmt.Fprintf(stderr, "boxdstats: %v\n", err)
		if errors.Is(err, errArchiveTooLarge) {
			return exitInvalidZip
		}
		return exitFailure
	}

	rep, err := b.Build(ctx, data)
	if err != nil {
		fmt.Fprintf(stderr, "boxdstats: %v\n", err)
		if report.IsInputError(err) {
			return exitInvalidZip
		}
		return exitFailure
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(rep, "", "  ")
	} else {
		out, err = json.Marshal(rep)
	}
	if err != nil {
		fmt.Fprintf(stderr, "boxdstats: encode report: %v\n", err)
		return exitFailure
	}
	out = append(out, '\n')
	if _, err := stdout.Write(out); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		fmt.Fprintf(stderr, "boxdstats: %v\n", err)
		return exitFailure
	}
	return exitOK
}
