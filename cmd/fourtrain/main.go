package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fourply/fourply/config"
	"github.com/fourply/fourply/trainer"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	opts := trainer.Options{
		Depth:          cfg.TrainDepth,
		FullGame:       cfg.FullGame,
		WorkerFraction: cfg.WorkerFraction,
		ModelDir:       cfg.ModelDir,
		CheckpointDir:  cfg.CheckpointDir,
	}
	if cfg.Resume != "" {
		ckpt, err := trainer.LoadCheckpoint(cfg.Resume)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Resume).Msg("could not load checkpoint")
		}
		log.Info().Str("path", cfg.Resume).Int("remaining", len(ckpt.Remaining)).
			Int("entries", len(ckpt.Entries)).Msg("resuming from checkpoint")
		opts.Resume = ckpt
	}
	t := trainer.New(opts)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sig {
			// The trainer ignores stop unless paused, so a stray Ctrl+C
			// cannot discard an active run.
			log.Info().Msg("interrupt received; stopping (pause first if still running)")
			t.Stop()
		}
	}()

	go func() {
		fmt.Println("commands: pause, resume, stop")
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			switch strings.TrimSpace(scanner.Text()) {
			case "pause":
				t.Pause()
			case "resume":
				t.Resume()
			case "stop":
				t.Stop()
			case "":
			default:
				fmt.Println("commands: pause, resume, stop")
			}
		}
	}()

	store, err := t.Run(context.Background())
	if errors.Is(err, trainer.ErrStopped) {
		log.Info().Str("checkpoint", t.CheckpointPath()).
			Msg("run stopped; resume later with --resume")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
	log.Info().Int("entries", store.Len()).Int("depth", store.Depth()).
		Msg("model trained")
}
