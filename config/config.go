// Package config holds the runtime configuration shared by the trainer
// and play binaries. Values come from flag defaults, FOURPLY_ environment
// variables, and command-line flags, in increasing order of precedence.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	// ModelDir holds trained model files.
	ModelDir string
	// CheckpointDir holds paused-training checkpoints.
	CheckpointDir string
	// SearchDepth is the live-play minimax depth, floor 1.
	SearchDepth int
	// TrainDepth is the training search depth and, in fixed-depth mode,
	// the enumeration ply count.
	TrainDepth int
	// FullGame enumerates the entire game tree when training.
	FullGame bool
	// WorkerFraction of the CPUs used by the trainer.
	WorkerFraction float64
	// LogLevel is a zerolog level name.
	LogLevel string
	// Resume is a checkpoint file to continue training from.
	Resume string
}

// DefaultConfig returns a config with every value at its default,
// already merged with any FOURPLY_ environment overrides.
func DefaultConfig() *Config {
	c := &Config{}
	c.Load(nil)
	return c
}

func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("fourply", pflag.ContinueOnError)
	fs.String("model-dir", "ai/models", "directory holding trained model files")
	fs.String("checkpoint-dir", "ai/checkpoints", "directory holding training checkpoints")
	fs.Int("search-depth", 5, "minimax depth for live play")
	fs.Int("train-depth", 3, "search depth and enumeration plies for training")
	fs.Bool("full-game", false, "enumerate the full game tree instead of train-depth plies")
	fs.Float64("worker-fraction", 0.75, "fraction of CPUs used by the trainer")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("resume", "", "checkpoint file to continue training from")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("fourply")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	c.ModelDir = v.GetString("model-dir")
	c.CheckpointDir = v.GetString("checkpoint-dir")
	c.SearchDepth = v.GetInt("search-depth")
	c.TrainDepth = v.GetInt("train-depth")
	c.FullGame = v.GetBool("full-game")
	c.WorkerFraction = v.GetFloat64("worker-fraction")
	c.LogLevel = v.GetString("log-level")
	c.Resume = v.GetString("resume")

	if c.SearchDepth < 1 {
		c.SearchDepth = 1
	}
	if c.TrainDepth < 1 {
		c.TrainDepth = 1
	}
	return nil
}
