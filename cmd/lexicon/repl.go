package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lexicon/domain/dictionary"
	"lexicon/logger"
)

const flagNameDict = "dict"

func newReplCmd(config *baseConfiguration) *cobra.Command {
	var dictPath string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive spell checker over a word list",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, n, err := loadDictionary(dictPath)
			if err != nil {
				return err
			}
			config.log.Debug("word list loaded", slog.String("path", dictPath), slog.Int("words", n))
			printSummary(cmd.OutOrStdout(), d, n)
			return runREPL(cmd.InOrStdin(), cmd.OutOrStdout(), d)
		},
	}
	cmd.Flags().StringVar(&dictPath, flagNameDict, "", "word list, one word per line")
	return cmd
}

func newStatsCmd(config *baseConfiguration) *cobra.Command {
	var dictPath string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Load a word list and print the tree summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, n, err := loadDictionary(dictPath)
			if err != nil {
				return err
			}
			if err := d.Verify(); err != nil {
				config.log.Error("tree invariants broken", logger.Error(err))
				return err
			}
			printSummary(cmd.OutOrStdout(), d, n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dictPath, flagNameDict, "", "word list, one word per line")
	_ = cmd.MarkFlagRequired(flagNameDict)
	return cmd
}

// loadDictionary reads the word list at path. An empty path gives an empty
// dictionary.
func loadDictionary(path string) (*dictionary.Dictionary, int, error) {
	d := dictionary.New()
	if path == "" {
		return d, 0, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	n, err := d.Load(f)
	return d, n, err
}

func printSummary(out io.Writer, d *dictionary.Dictionary, n int) {
	fmt.Fprintf(out, "Red Black Tree loaded with %d words\n", n)
	fmt.Fprintf(out, "The height of the tree is %d\n", d.Height())
	fmt.Fprintf(out, "2 * log(n + 1) = %.4f\n", d.HeightBound())
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "Legal commands are: ")
	fmt.Fprintln(out, "<p> to print the entire word tree")
	fmt.Fprintln(out, "<t> to draw the word tree")
	fmt.Fprintln(out, "<!> to quit")
	fmt.Fprintln(out, "<c> <word> to spell check this word")
	fmt.Fprintln(out, "<a> <word> add word to tree")
}

// runREPL reads commands from in until "!" or end of input.
func runREPL(in io.Reader, out io.Writer, d *dictionary.Dictionary) error {
	printUsage(out)
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}

		switch cmd, word, _ := strings.Cut(line, " "); {
		case line == "p":
			fmt.Fprintln(out, "Level Order Traversal:")
			for ni := range d.Levels() {
				fmt.Fprintln(out, ni)
			}
		case line == "t":
			fmt.Fprint(out, d.Render())
		case line == "!":
			fmt.Fprintln(out, "Bye !")
			return nil
		case cmd == "c" && word != "":
			v := d.Check(word)
			switch {
			case v.Found:
				fmt.Fprintf(out, "Found %s after %d comparisons\n", v.Suggestion, v.Compares)
			case v.HasSuggestion:
				fmt.Fprintf(out, "The word \"%s\" is not present in dictionary. Perhaps you mean %s\n", word, v.Suggestion)
			default:
				fmt.Fprintf(out, "The word \"%s\" is not present in dictionary.\n", word)
			}
		case cmd == "a" && word != "":
			d.Add(word)
			fmt.Fprintf(out, "The word \"%s\" has been added to the dictionary\n", word)
		default:
			fmt.Fprintln(out, "Invalid option")
			printUsage(out)
		}
	}
}
