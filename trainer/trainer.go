// Package trainer runs the precomputation: it enumerates positions,
// evaluates each one at a fixed search depth on a worker pool, and
// persists the result as a model store. A run can be paused to a
// checkpoint and resumed later; resuming produces the same final model
// as an uninterrupted run.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/fourply/fourply/board"
	"github.com/fourply/fourply/enumerate"
	"github.com/fourply/fourply/model"
	"github.com/fourply/fourply/search"
)

// ErrStopped is returned by Run when the run was terminated by a Stop
// command. The final checkpoint on disk holds everything computed so
// far.
var ErrStopped = errors.New("training stopped")

// Command is a control signal for a running trainer.
type Command int

const (
	CommandPause Command = iota
	CommandResume
	CommandStop
)

func (c Command) String() string {
	switch c {
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandStop:
		return "stop"
	}
	return "unknown"
}

const defaultWorkerFraction = 0.75

// Options configures a training run.
type Options struct {
	// Depth is the search depth for every evaluation. In fixed-depth
	// mode it is also the enumeration ply count.
	Depth int
	// FullGame enumerates the entire game tree instead of Depth plies.
	FullGame bool
	// WorkerFraction of the CPU count to use, default 0.75, floor one
	// worker.
	WorkerFraction float64
	// ModelDir receives the finished model file.
	ModelDir string
	// CheckpointDir holds the pause checkpoint for this run.
	CheckpointDir string
	// LogStream, when set, receives one YAML record per evaluation.
	LogStream io.Writer
	// Resume continues from a previously saved checkpoint instead of
	// enumerating from scratch.
	Resume *Checkpoint
}

// LogEvaluation is a struct meant for serializing to a log-file, for
// debug and other purposes.
type LogEvaluation struct {
	Position string  `yaml:"position"`
	Piece    string  `yaml:"piece"`
	Column   int     `yaml:"column"`
	Score    int64   `yaml:"score"`
	Ms       float64 `yaml:"ms"`
	Skipped  bool    `yaml:"skipped,omitempty"`
}

// Trainer orchestrates one training run. Construct with New, drive with
// Run; Pause, Resume and Stop may be called from any goroutine while Run
// is active.
type Trainer struct {
	depth         int
	fullGame      bool
	workers       int
	modelDir      string
	checkpointDir string
	logStream     io.Writer
	resume        *Checkpoint

	engine   *search.Engine
	commands chan Command

	dispatched atomic.Uint64
	completed  atomic.Uint64
	skipped    atomic.Uint64

	// evalTimes is touched only by the aggregating loop inside Run.
	evalTimes Statistic
}

// New builds a trainer. The worker count is WorkerFraction of the CPU
// count with a floor of one.
func New(opts Options) *Trainer {
	depth := opts.Depth
	if depth < 1 {
		depth = 1
	}
	fraction := opts.WorkerFraction
	if fraction <= 0 {
		fraction = defaultWorkerFraction
	}
	workers := int(fraction * float64(runtime.NumCPU()))
	if workers < 1 {
		workers = 1
	}
	return &Trainer{
		depth:         depth,
		fullGame:      opts.FullGame,
		workers:       workers,
		modelDir:      opts.ModelDir,
		checkpointDir: opts.CheckpointDir,
		logStream:     opts.LogStream,
		resume:        opts.Resume,
		engine:        search.New(depth),
		commands:      make(chan Command, 8),
	}
}

// Pause asks the run to drain in-flight evaluations and checkpoint.
func (t *Trainer) Pause() { t.commands <- CommandPause }

// Resume continues a paused run.
func (t *Trainer) Resume() { t.commands <- CommandResume }

// Stop terminates the run. It only takes effect while the run is paused;
// a stop received while running is logged and ignored, so an accidental
// signal cannot discard hours of active work.
func (t *Trainer) Stop() { t.commands <- CommandStop }

// Evaluated returns the number of positions evaluated so far.
func (t *Trainer) Evaluated() uint64 { return t.completed.Load() }

// Skipped returns the number of positions skipped due to evaluation
// errors.
func (t *Trainer) Skipped() uint64 { return t.skipped.Load() }

// CheckpointPath returns where this run writes its pause checkpoint.
func (t *Trainer) CheckpointPath() string {
	return filepath.Join(t.checkpointDir, CheckpointFilename(t.depth, t.fullGame))
}

type evalResult struct {
	pos   enumerate.Position
	entry model.Entry
	dur   time.Duration
	err   error
}

// Run executes the training run to completion, returning the finished
// store. It returns ErrStopped if terminated by a Stop command; the
// context canceling writes a best-effort checkpoint and returns the
// context's error.
func (t *Trainer) Run(ctx context.Context) (*model.Store, error) {
	remaining, entries, elapsed, err := t.startingState()
	if err != nil {
		return nil, err
	}
	log.Info().Int("depth", t.depth).Bool("fullGame", t.fullGame).
		Int("workers", t.workers).Int("positions", len(remaining)).
		Int("precomputed", len(entries)).Msg("training started")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan enumerate.Position)
	results := make(chan evalResult)
	logChan := make(chan []byte)
	logDone := make(chan bool)

	writer := errgroup.Group{}
	if t.logStream != nil {
		writer.Go(func() error {
			for {
				select {
				case bytes := <-logChan:
					t.logStream.Write(bytes)
				case <-logDone:
					return nil
				}
			}
		})
	}

	g := errgroup.Group{}
	for w := 0; w < t.workers; w++ {
		g.Go(func() error {
			for pos := range jobs {
				res := t.evaluate(pos)
				select {
				case results <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	shutdown := func() {
		close(jobs)
		cancel()
		g.Wait()
		if t.logStream != nil {
			close(logDone)
			writer.Wait()
		}
	}

	segmentStart := time.Now()
	next := 0
	inFlight := make(map[board.PositionKey]enumerate.Position)
	paused := false

	// abort ends the run on context cancellation. In-flight positions go
	// back into the checkpoint; resuming re-evaluates them, which is
	// deterministic and harmless.
	abort := func() (*model.Store, error) {
		if !paused {
			elapsed += time.Since(segmentStart)
		}
		unfinished := make([]enumerate.Position, 0, len(inFlight)+len(remaining)-next)
		for _, pos := range inFlight {
			unfinished = append(unfinished, pos)
		}
		unfinished = append(unfinished, remaining[next:]...)
		t.writeCheckpoint(unfinished, entries, elapsed)
		shutdown()
		return nil, ctx.Err()
	}

	for next < len(remaining) || len(inFlight) > 0 {
		var dispatch chan enumerate.Position
		var nextPos enumerate.Position
		if !paused && next < len(remaining) {
			dispatch = jobs
			nextPos = remaining[next]
		}

		select {
		case dispatch <- nextPos:
			inFlight[nextPos.Board.Key()] = nextPos
			next++
			t.dispatched.Add(1)

		case res := <-results:
			delete(inFlight, res.pos.Board.Key())
			t.record(res, entries, logChan)

		case cmd := <-t.commands:
			switch cmd {
			case CommandPause:
				if paused {
					continue
				}
				// Drain in-flight work so the checkpoint covers every
				// dispatched position. A canceled worker exits without
				// delivering its result, so the drain must watch the
				// context too or it waits forever.
				for len(inFlight) > 0 {
					select {
					case res := <-results:
						delete(inFlight, res.pos.Board.Key())
						t.record(res, entries, logChan)
					case <-ctx.Done():
						return abort()
					}
				}
				elapsed += time.Since(segmentStart)
				paused = true
				t.writeCheckpoint(remaining[next:], entries, elapsed)
				log.Info().Uint64("evaluated", t.completed.Load()).
					Int("remaining", len(remaining)-next).
					Dur("elapsed", elapsed).Msg("training paused")

			case CommandResume:
				if !paused {
					continue
				}
				paused = false
				segmentStart = time.Now()
				log.Info().Msg("training resumed")

			case CommandStop:
				if !paused {
					log.Info().Msg("stop ignored while running; pause first")
					continue
				}
				t.writeCheckpoint(remaining[next:], entries, elapsed)
				shutdown()
				log.Info().Uint64("evaluated", t.completed.Load()).
					Uint64("skipped", t.skipped.Load()).
					Dur("elapsed", elapsed).Msg("training stopped")
				return nil, ErrStopped
			}

		case <-ctx.Done():
			return abort()
		}
	}

	if !paused {
		elapsed += time.Since(segmentStart)
	}
	shutdown()

	store := model.New(t.depth, time.Now().UTC(), entries)
	path := filepath.Join(t.modelDir, model.Filename(store.Depth(), store.CreatedAt()))
	if err := store.Save(path); err != nil {
		return nil, err
	}
	if err := os.Remove(t.CheckpointPath()); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not remove checkpoint after completion")
	}

	log.Info().Str("path", path).
		Uint64("evaluated", t.completed.Load()).
		Uint64("skipped", t.skipped.Load()).
		Dur("elapsed", elapsed).
		Float64("evalMeanMs", t.evalTimes.Mean()).
		Float64("evalStdevMs", t.evalTimes.Stdev()).
		Msg("training complete")
	return store, nil
}

// startingState returns the position list and partial entries, either
// fresh from the enumerator or restored from the resume checkpoint.
func (t *Trainer) startingState() ([]enumerate.Position, map[board.PositionKey]model.Entry, time.Duration, error) {
	if t.resume == nil {
		var remaining []enumerate.Position
		if t.fullGame {
			remaining = enumerate.FullGame()
		} else {
			remaining = enumerate.FixedDepth(t.depth)
		}
		return remaining, make(map[board.PositionKey]model.Entry), 0, nil
	}

	if t.resume.Depth != t.depth {
		return nil, nil, 0, fmt.Errorf("checkpoint depth %d does not match configured depth %d",
			t.resume.Depth, t.depth)
	}
	if t.resume.FullGame != t.fullGame {
		return nil, nil, 0, fmt.Errorf("checkpoint mode (fullGame=%v) does not match configured mode (fullGame=%v)",
			t.resume.FullGame, t.fullGame)
	}
	entries := make(map[board.PositionKey]model.Entry, len(t.resume.Entries))
	for k, v := range t.resume.Entries {
		entries[k] = v
	}
	return t.resume.Remaining, entries, t.resume.Elapsed, nil
}

// evaluate scores a single position. Terminal positions get the terminal
// convention entry without searching; everything else is a full
// best-move search at the declared depth.
func (t *Trainer) evaluate(pos enumerate.Position) evalResult {
	start := time.Now()
	if pos.Board.IsTerminal() {
		score := t.engine.Minimax(&pos.Board, 0, math.MinInt64, math.MaxInt64, true, pos.Piece)
		return evalResult{
			pos:   pos,
			entry: model.Entry{Piece: pos.Piece, Column: model.TerminalColumn, Score: score},
			dur:   time.Since(start),
		}
	}
	col, score, err := t.engine.BestMoveScore(&pos.Board, pos.Piece)
	if err != nil {
		return evalResult{pos: pos, dur: time.Since(start), err: err}
	}
	return evalResult{
		pos:   pos,
		entry: model.Entry{Piece: pos.Piece, Column: int8(col), Score: score},
		dur:   time.Since(start),
	}
}

// record folds one result into the entry map. It runs only on the
// aggregating loop, which is the sole writer to entries and evalTimes.
func (t *Trainer) record(res evalResult, entries map[board.PositionKey]model.Entry, logChan chan []byte) {
	if res.err != nil {
		t.skipped.Add(1)
		log.Warn().Err(res.err).Str("piece", res.pos.Piece.String()).
			Msgf("skipping unevaluable position\n%s", res.pos.Board.String())
	} else {
		entries[res.pos.Board.Key()] = res.entry
		t.completed.Add(1)
	}
	t.evalTimes.Push(float64(res.dur.Microseconds()) / 1000.0)

	if t.logStream != nil {
		key := res.pos.Board.Key()
		rec := LogEvaluation{
			Position: fmt.Sprintf("%016x%016x", key[1], key[0]),
			Piece:    res.pos.Piece.String(),
			Column:   int(res.entry.Column),
			Score:    res.entry.Score,
			Ms:       float64(res.dur.Microseconds()) / 1000.0,
			Skipped:  res.err != nil,
		}
		out, err := yaml.Marshal([]LogEvaluation{rec})
		if err != nil {
			log.Error().Err(err).Msg("marshalling log")
			return
		}
		logChan <- out
	}
}

// writeCheckpoint persists the current run state. A write failure is
// logged and the run keeps its in-memory state; any previous checkpoint
// on disk stays intact.
func (t *Trainer) writeCheckpoint(remaining []enumerate.Position, entries map[board.PositionKey]model.Entry, elapsed time.Duration) {
	ckpt := &Checkpoint{
		Depth:     t.depth,
		FullGame:  t.fullGame,
		Elapsed:   elapsed,
		Remaining: remaining,
		Entries:   entries,
	}
	path := t.CheckpointPath()
	if err := ckpt.Save(path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("could not write checkpoint")
		return
	}
	log.Info().Str("path", path).Int("remaining", len(remaining)).
		Int("entries", len(entries)).Msg("checkpoint written")
}
