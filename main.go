// main.go
//
// CLI driver: loads a grid and a dictionary from files (or the embedded
// defaults), runs the fill engine, and prints the completed grid.
//
// Usage:
//
//	gridsolver -grid ./assets/grids/grid1.txt -dict /usr/share/dict/words
//	gridsolver -dict ranked.txt -ranked -timeout 20s
//
// Unsolvable grids exit with status 1 after printing the outcome; malformed
// input exits with a fatal log line.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wrieger93/gridsolver/assets"
	"github.com/wrieger93/gridsolver/internal/dict"
	"github.com/wrieger93/gridsolver/internal/grid"
	"github.com/wrieger93/gridsolver/internal/solver"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var (
		gridPath     = flag.String("grid", "", "grid file (default: embedded sample)")
		dictPath     = flag.String("dict", "", "dictionary file, one word per line (default: embedded list)")
		ranked       = flag.Bool("ranked", false, "dictionary lines carry a rank column (word<TAB>rank)")
		allowRepeats = flag.Bool("allow-repeats", false, "permit the same word in multiple slots")
		timeout      = flag.Duration("timeout", 0, "give up after this long (0 = no limit)")
	)
	flag.Parse()

	g, err := loadGrid(*gridPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load grid")
	}
	d, err := loadDict(*dictPath, *ranked)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	log.Debug().
		Int("slots", len(g.Slots)).
		Int("crossings", len(g.Crossings)).
		Int("words", d.Len()).
		Msg("loaded inputs")

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	sol, stats, err := solver.Solve(ctx, g, d, solver.Options{AllowRepeats: *allowRepeats})
	switch {
	case err == nil:
		fmt.Print(sol.Render())
		log.Info().
			Int("nodes", stats.Nodes).
			Int("backtracks", stats.Backtracks).
			Dur("took", stats.Duration).
			Msg("solved")
	case errors.Is(err, solver.ErrUnsolvable):
		log.Error().
			Int("nodes", stats.Nodes).
			Dur("took", stats.Duration).
			Msg("no solution exists")
		os.Exit(1)
	default:
		log.Error().Err(err).Dur("took", stats.Duration).Msg("gave up")
		os.Exit(1)
	}
}

// loadGrid reads the grid file, or the embedded sample when path is empty.
func loadGrid(path string) (*grid.Grid, error) {
	if path == "" {
		text, err := assets.SampleGrid("grid1")
		if err != nil {
			return nil, err
		}
		return grid.Parse(text)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return grid.Parse(string(b))
}

// loadDict reads the dictionary file, or the embedded list when path is empty.
func loadDict(path string, ranked bool) (*dict.Dictionary, error) {
	if path == "" {
		words, err := assets.DefaultWords()
		if err != nil {
			return nil, err
		}
		return dict.New(words)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := dict.ParseWordList(f, ranked)
	if err != nil {
		return nil, err
	}
	return dict.NewRanked(entries)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
