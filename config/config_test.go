package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.ModelDir, "ai/models")
	is.Equal(c.CheckpointDir, "ai/checkpoints")
	is.Equal(c.SearchDepth, 5)
	is.Equal(c.TrainDepth, 3)
	is.Equal(c.FullGame, false)
	is.Equal(c.WorkerFraction, 0.75)
	is.Equal(c.LogLevel, "info")
}

func TestFlagsOverride(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{
		"--model-dir", "/tmp/models",
		"--search-depth", "7",
		"--full-game",
		"--worker-fraction", "0.5",
	}))
	is.Equal(c.ModelDir, "/tmp/models")
	is.Equal(c.SearchDepth, 7)
	is.Equal(c.FullGame, true)
	is.Equal(c.WorkerFraction, 0.5)
	is.Equal(c.TrainDepth, 3) // untouched flags keep defaults
}

func TestEnvOverride(t *testing.T) {
	is := is.New(t)
	t.Setenv("FOURPLY_TRAIN_DEPTH", "6")
	t.Setenv("FOURPLY_LOG_LEVEL", "debug")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.TrainDepth, 6)
	is.Equal(c.LogLevel, "debug")
}

func TestFlagBeatsEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("FOURPLY_SEARCH_DEPTH", "2")
	c := &Config{}
	is.NoErr(c.Load([]string{"--search-depth", "9"}))
	is.Equal(c.SearchDepth, 9)
}

func TestDepthFloor(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--search-depth", "0", "--train-depth", "-2"}))
	is.Equal(c.SearchDepth, 1)
	is.Equal(c.TrainDepth, 1)
}
