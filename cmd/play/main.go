package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"kelime/internal/game"
	"kelime/internal/wordbank"
)

func main() {
	app := &cli.App{
		Name:  "kelime",
		Usage: "Unscramble words in the terminal",
		Commands: []*cli.Command{
			playCmd(),
			banksCmd(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func playCmd() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Start an interactive round loop",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Value: wordbank.DefaultLang, Usage: "Word bank language"},
			&cli.StringFlag{Name: "difficulty", Aliases: []string{"d"}, Value: "medium", Usage: "easy, medium, or hard"},
			&cli.Int64Flag{Name: "seed", Usage: "Random seed (0 means time-based)"},
		},
		Action: func(c *cli.Context) error {
			bank, err := wordbank.Load(c.String("lang"))
			if err != nil {
				return fmt.Errorf("load word bank: %w", err)
			}
			difficulty, err := game.ParseDifficulty(c.String("difficulty"))
			if err != nil {
				return fmt.Errorf("%w: %q", err, c.String("difficulty"))
			}
			var rng *rand.Rand
			if seed := c.Int64("seed"); seed != 0 {
				rng = rand.New(rand.NewSource(seed))
			}

			session := game.NewSession("local", game.Options{
				Bank:       bank,
				Rng:        rng,
				Difficulty: difficulty,
			})
			if err := session.LoadPuzzle(time.Now().UTC()); err != nil {
				return fmt.Errorf("start session: %w", err)
			}
			return runLoop(c, session)
		},
	}
}

func runLoop(c *cli.Context, session *game.Session) error {
	out := c.App.Writer
	fmt.Fprintln(out, "Type the unscrambled word. Commands: ?=hint  !=new word  q=quit")
	scanner := bufio.NewScanner(os.Stdin)
	printPuzzle(out, session)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		now := time.Now().UTC()
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "q", "quit", "exit":
			fmt.Fprintf(out, "Final score: %d\n", session.Score())
			return scanner.Err()
		case "?":
			session.ToggleHint()
			snap := session.Snapshot(now)
			if snap.HintVisible {
				fmt.Fprintf(out, "Hint: %s\n", snap.Hint)
			}
			continue
		case "!":
			if err := session.LoadPuzzle(now); err != nil {
				return fmt.Errorf("new puzzle: %w", err)
			}
			printPuzzle(out, session)
			continue
		}

		session.SetInput(line)
		correct, err := session.Submit(now)
		if err != nil {
			return err
		}
		if !correct {
			fmt.Fprintln(out, "Not quite, try again.")
			// Clear the error flash the way the timer would.
			if deadline, ok := session.NextTimer(now); ok {
				session.AdvanceIfNeeded(deadline)
			}
			continue
		}
		fmt.Fprintf(out, "Correct! Score: %d\n", session.Score())
		// The terminal has no timer loop; advance to the next puzzle at
		// what would have been the deadline.
		if deadline, ok := session.NextTimer(now); ok {
			session.AdvanceIfNeeded(deadline)
		}
		printPuzzle(out, session)
	}
	return scanner.Err()
}

func printPuzzle(out io.Writer, session *game.Session) {
	snap := session.Snapshot(time.Now().UTC())
	fmt.Fprintf(out, "\n[%s] %s  (%d letters, score %d)\n", snap.Category, snap.Scrambled, snap.WordLength, snap.Score)
}

func banksCmd() *cli.Command {
	return &cli.Command{
		Name:  "banks",
		Usage: "List embedded word banks",
		Action: func(c *cli.Context) error {
			for _, lang := range wordbank.SupportedLanguages() {
				bank, err := wordbank.Load(lang)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s: %d puzzles, categories: %s\n",
					lang, bank.Len(), strings.Join(bank.Categories(), ", "))
			}
			return nil
		},
	}
}
