package main

import (
	"fmt"

	"github.com/CTAG07/Crossero/pkg/bible"
	"github.com/CTAG07/Crossero/pkg/puzzledata"
	"github.com/spf13/cobra"
)

// runEnrich extracts frequent words per book from the Bible CSV and writes them as
// extra words for every puzzle whose title names that book.
func (a *app) runEnrich(cmd *cobra.Command, args []string) error {
	cfg := a.config.Bible
	csvPath := cfg.CSVPath
	if len(args) == 1 {
		csvPath = args[0]
	}

	corpus, err := bible.LoadCSV(csvPath)
	if err != nil {
		return err
	}
	words := corpus.WordsByBook(cfg.WordsPerBook)
	a.logger.Info("Extracted candidate words", "csv", csvPath, "books", len(words))

	catalog, err := puzzledata.LoadCatalog(a.config.Site.DataPath, a.logger)
	if err != nil {
		return err
	}
	additions := bible.Enrich(catalog.Puzzles(), words, cfg.WordsPerPuzzle)
	if err = bible.WriteExtraJS(cfg.OutputPath, additions); err != nil {
		return err
	}

	puzzles, total := bible.Count(additions)
	a.logger.Info("Wrote extra words", "path", cfg.OutputPath, "puzzles", puzzles, "words", total)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d words to %d puzzles -> %s\n", total, puzzles, cfg.OutputPath)
	return nil
}
