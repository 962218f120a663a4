package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"meetnote/internal/app"
	"meetnote/internal/audio"
	"meetnote/internal/config"
	"meetnote/internal/executor"
	"meetnote/internal/logging"
	"meetnote/internal/summarize"
	"meetnote/internal/transcribe"
	"meetnote/internal/wavfile"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logging.NewWithLevel(cfg.LogLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "devices":
		runDevices()
	case "record":
		runRecord(cfg, log, os.Args[2:])
	case "process":
		runProcess(cfg, log, os.Args[2:])
	case "summarize":
		runSummarize(cfg, log, os.Args[2:])
	case "version":
		fmt.Printf("meetnote %s (%s)\n", Version, Commit)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `meetnote - record, transcribe and summarize meetings

Usage:
  meetnote devices                              list input devices
  meetnote record [-name N] [-device ID] [-no-process]
                                                record until Ctrl+C
  meetnote process -file X.wav [-name N]        transcribe + summarize a recording
  meetnote summarize -file transcript.txt [-name N]
                                                summarize an existing transcript
  meetnote version`)
}

func runDevices() {
	devices, err := audio.ListInputDevices()
	if err != nil || len(devices) == 0 {
		// Enumeration failure and an empty list mean the same thing:
		// there is nothing to record from.
		fmt.Println("No audio input devices available.")
		return
	}

	defaultID, hasDefault := audio.DefaultInputDevice()
	fmt.Println("Available input devices:")
	for _, d := range devices {
		marker := " "
		if hasDefault && d.ID == defaultID {
			marker = "*"
		}
		fmt.Printf("%s [%d] %s (channels=%d, rate=%.0f Hz)\n",
			marker, d.ID, d.Name, d.MaxInputChannels, d.DefaultSampleRate)
	}
}

func newApp(cfg *config.Config, log zerolog.Logger) *app.App {
	session := audio.NewSession(
		cfg.CaptureConfig(),
		audio.NewPortAudioSource,
		wavfile.New(),
		cfg.RecordingsDir(),
		log,
	)
	transcriber := transcribe.New(cfg.Whisper, executor.New(), log)
	summarizer := summarize.New(cfg.Gemini, log)

	return app.New(app.Config{
		Session:     session,
		Transcriber: transcriber,
		Summarizer:  summarizer,
		Config:      cfg,
		Logger:      log,
	})
}

func runRecord(cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	name := fs.String("name", "", "recording name (default: meeting_<timestamp>)")
	device := fs.Int("device", audio.DefaultDevice, "input device id (see 'meetnote devices')")
	noProcess := fs.Bool("no-process", false, "skip transcription and summarization")
	fs.Parse(args)

	if err := cfg.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directories")
	}

	application := newApp(cfg, log)

	if *device != audio.DefaultDevice {
		if err := application.SetDevice(*device); err != nil {
			log.Fatal().Err(err).Int("device", *device).Msg("Failed to select device")
		}
	}

	if err := application.StartRecording(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start recording")
	}
	fmt.Println("Recording... press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-sigChan:
			break loop
		case <-ticker.C:
			if d, err := application.EstimatedDuration(); err == nil {
				log.Info().Dur("elapsed", d).Msg("Recording in progress")
			}
		}
	}
	signal.Stop(sigChan)

	path, err := application.StopRecording(*name)
	if err != nil {
		if errors.Is(err, audio.ErrEmptyCapture) {
			log.Error().Msg("Nothing was captured, no file written")
		} else {
			log.Error().Err(err).Msg("Failed to stop recording")
		}
		os.Exit(1)
	}
	fmt.Printf("Recording saved: %s\n", path)

	if *noProcess {
		return
	}

	res, err := application.Process(context.Background(), path, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to process recording")
	}
	fmt.Printf("Transcript: %s\nSummary:    %s\n", res.TranscriptPath, res.SummaryPath)
}

func runProcess(cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	file := fs.String("file", "", "WAV file to process")
	name := fs.String("name", "", "meeting name (default: recording base name)")
	fs.Parse(args)

	if *file == "" {
		fs.Usage()
		os.Exit(2)
	}
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directories")
	}

	application := newApp(cfg, log)
	res, err := application.Process(context.Background(), *file, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to process recording")
	}
	fmt.Printf("Transcript: %s\nSummary:    %s\n", res.TranscriptPath, res.SummaryPath)
}

func runSummarize(cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("summarize", flag.ExitOnError)
	file := fs.String("file", "", "transcript text file to summarize")
	name := fs.String("name", "", "meeting name (default: transcript base name)")
	fs.Parse(args)

	if *file == "" {
		fs.Usage()
		os.Exit(2)
	}
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directories")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read transcript")
	}
	if *name == "" {
		base := filepath.Base(*file)
		*name = strings.TrimSuffix(strings.TrimSuffix(base, filepath.Ext(base)), "_transcript")
	}

	application := newApp(cfg, log)
	path, err := application.Summarize(context.Background(), string(data), *name)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to summarize transcript")
	}
	fmt.Printf("Summary: %s\n", path)
}
