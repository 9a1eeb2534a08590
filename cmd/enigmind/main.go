// Command enigmind generates puzzles and prints them with their solution.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/enigmind-server/internal/archive"
	"github.com/vancomm/enigmind-server/internal/enigmind"
)

var log = logrus.New()

type options struct {
	base        int
	columns     int
	difficulty  int
	seed        uint64
	seeded      bool
	count       int
	jobs        int
	maxAttempts int
	asJSON      bool
	verbose     bool
	logFile     string
	archivePath string

	archive *archive.Archive
}

func parseOptions(args []string) (*options, error) {
	var o options
	fs := flag.NewFlagSet("enigmind", flag.ContinueOnError)
	fs.IntVar(&o.base, "base", 5, "digits per column")
	fs.IntVar(&o.columns, "columns", 3, "number of columns")
	fs.IntVar(&o.difficulty, "difficulty", 0, "minimum rule difficulty in percent")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed; game i uses seed+i")
	fs.IntVar(&o.count, "count", 1, "number of games to generate")
	fs.IntVar(&o.jobs, "jobs", 4, "games generated concurrently")
	fs.IntVar(&o.maxAttempts, "max-attempts", enigmind.DefaultMaxAttempts, "rules drawn before giving up")
	fs.BoolVar(&o.asJSON, "json", false, "print games as JSON lines")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.StringVar(&o.logFile, "log-file", "", "also write logs to this rotating file")
	fs.StringVar(&o.archivePath, "archive", "", "sqlite file caching seeded games")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			o.seeded = true
		}
	})
	if o.count < 1 {
		return nil, fmt.Errorf("count must be positive")
	}
	if o.jobs < 1 {
		o.jobs = 1
	}
	return &o, nil
}

func setupLogging(o *options) error {
	level := logrus.InfoLevel
	if o.verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	enigmind.Log = log

	if o.logFile == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   o.logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	log.AddHook(hook)
	return nil
}

func (o *options) rand(i int) *rand.Rand {
	if o.seeded {
		return rand.New(rand.NewPCG(o.seed+uint64(i), 0))
	}
	return rand.New(rand.NewPCG(new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64()))
}

// game generates game i, or loads it from the archive when seeded.
func (o *options) game(gc enigmind.GameConfiguration, i int) (*enigmind.Game, error) {
	if o.archive == nil || !o.seeded {
		return gc.Generate(o.rand(i), o.maxAttempts)
	}
	key := archive.Key(gc, o.seed+uint64(i))
	game, err := o.archive.Get(key)
	if err == nil {
		log.WithField("key", key).Debug("loaded from archive")
		return game, nil
	}
	if !errors.Is(err, archive.ErrNotFound) {
		return nil, err
	}
	game, err = gc.Generate(o.rand(i), o.maxAttempts)
	if err != nil {
		return nil, err
	}
	return game, o.archive.Put(key, game)
}

// generate builds o.count games, o.jobs at a time. Output order follows the
// game index, whatever order they finish in.
func generate(ctx context.Context, o *options, gc enigmind.GameConfiguration) ([]*enigmind.Game, error) {
	games := make([]*enigmind.Game, o.count)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.jobs)
	for i := range games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			game, err := o.game(gc, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			log.WithFields(logrus.Fields{
				"game":      i,
				"criterias": len(game.Criterias),
			}).Debug("generated")
			games[i] = game
			return nil
		})
	}
	return games, g.Wait()
}

func run(ctx context.Context, args []string) error {
	o, err := parseOptions(args)
	if err != nil {
		return err
	}
	if err := setupLogging(o); err != nil {
		return err
	}

	gc, err := enigmind.NewGameConfiguration(o.base, o.columns, o.difficulty)
	if err != nil {
		return err
	}
	log.WithField("configuration", gc.String()).Info("generating")

	if o.archivePath != "" {
		if !o.seeded {
			log.Warn("archive ignored without -seed")
		}
		if o.archive, err = archive.Open(o.archivePath); err != nil {
			return err
		}
		defer o.archive.Close()
	}

	games, err := generate(ctx, o, gc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for i, game := range games {
		if o.asJSON {
			if err := enc.Encode(game); err != nil {
				return err
			}
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(game)
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := run(ctx, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}
