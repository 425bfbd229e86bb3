package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fourply/fourply/board"
	"github.com/fourply/fourply/config"
	"github.com/fourply/fourply/player"
	"github.com/fourply/fourply/search"
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

	engine := search.New(cfg.SearchDepth)
	sel := player.SelectorFromDirectory(cfg.ModelDir, engine)
	if sel.HasModel() {
		fmt.Println("playing with a precomputed model; search depth", engine.Depth())
	} else {
		fmt.Println("no model found; playing with live search at depth", engine.Depth())
	}

	var b board.Board
	human, agent := board.PlayerOne, board.PlayerTwo
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println(b.String())
		col, ok := readColumn(scanner, &b)
		if !ok {
			return
		}
		if _, err := b.Drop(col, human); err != nil {
			fmt.Println(err)
			continue
		}
		if done := announceIfOver(&b, human, "you win!"); done {
			return
		}

		reply, err := sel.Choose(&b, agent)
		if err != nil {
			log.Fatal().Err(err).Msg("could not choose a move")
		}
		if _, err := b.Drop(reply, agent); err != nil {
			log.Fatal().Err(err).Int("col", reply).Msg("agent chose an illegal column")
		}
		fmt.Printf("agent plays column %d\n", reply)
		if done := announceIfOver(&b, agent, "the agent wins."); done {
			return
		}
	}
}

func readColumn(scanner *bufio.Scanner, b *board.Board) (int, bool) {
	for {
		fmt.Printf("your move %v (or q to quit): ", b.ValidColumns())
		if !scanner.Scan() {
			return 0, false
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "q" || text == "quit" {
			return 0, false
		}
		col, err := strconv.Atoi(text)
		if err != nil || col < 0 || col >= board.NumCols {
			fmt.Println("enter a column number between 0 and 6")
			continue
		}
		return col, true
	}
}

func announceIfOver(b *board.Board, mover board.Cell, winMsg string) bool {
	if b.CheckWin(mover) {
		fmt.Println(b.String())
		fmt.Println(winMsg)
		return true
	}
	if b.IsFull() {
		fmt.Println(b.String())
		fmt.Println("draw.")
		return true
	}
	return false
}
