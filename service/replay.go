package service

import (
	"fmt"
	"log/slog"
	"os"

	"lexicon/domain/dictionary"
	"lexicon/infra/journal"
	"lexicon/infra/sequence"
	"lexicon/logger"
	"lexicon/snapshot"
)

type BootstrapConfig struct {
	// DictPath is a plain word list, one word per line. It seeds the
	// dictionary when there is no snapshot yet.
	DictPath     string
	SnapshotPath string
	JournalDir   string
}

type BootstrapResult struct {
	FromSnapshot bool
	// Loaded counts words from the snapshot or the word list.
	Loaded   int
	Replayed int
	LastSeq  uint64
}

/*
Bootstrap rebuilds dict from disk and moves seq past everything restored.
The snapshot wins over the word list; journal records newer than the
snapshot are applied on top. It must finish before the journal is opened for
writing and before any traffic is accepted.
*/
func Bootstrap(cfg BootstrapConfig, dict *dictionary.Dictionary, seq *sequence.Sequencer, log *slog.Logger) (BootstrapResult, error) {
	var res BootstrapResult

	var snap *snapshot.Snapshot
	if cfg.SnapshotPath != "" {
		var err error
		if snap, err = snapshot.Load(cfg.SnapshotPath); err != nil {
			return res, err
		}
	}

	var base uint64
	switch {
	case snap != nil:
		for _, w := range snap.Words {
			dict.Add(w)
		}
		res.FromSnapshot = true
		res.Loaded = len(snap.Words)
		base = snap.Seq
	case cfg.DictPath != "":
		n, err := loadWordList(cfg.DictPath, dict)
		if err != nil {
			return res, err
		}
		res.Loaded = n
	}

	if cfg.JournalDir != "" {
		last, n, err := ReplayFromJournal(cfg.JournalDir, dict, base)
		if err != nil {
			return res, err
		}
		res.Replayed = n
		base = max(base, last)
	}

	res.LastSeq = base
	seq.Reset(base)
	log.Info("dictionary restored",
		slog.Bool("snapshot", res.FromSnapshot),
		slog.Int("loaded", res.Loaded),
		slog.Int("replayed", res.Replayed),
		logger.Seq(res.LastSeq))
	return res, nil
}

func loadWordList(path string, dict *dictionary.Dictionary) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	return dict.Load(f)
}

// ReplayFromJournal adds the words of every journal record after seq. It
// returns the last sequence number in the journal and how many words were
// added.
func ReplayFromJournal(dir string, dict *dictionary.Dictionary, after uint64) (uint64, int, error) {
	n := 0
	last, err := journal.Replay(dir, func(rec *journal.Record) error {
		if rec.Seq <= after || rec.Type != journal.RecordAdd {
			return nil
		}
		dict.Add(string(rec.Data))
		n++
		return nil
	})
	if err != nil {
		return last, n, fmt.Errorf("replay journal %s: %w", dir, err)
	}
	return last, n, nil
}
