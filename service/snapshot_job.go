package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lexicon/logger"
	"lexicon/snapshot"
)

// WriteSnapshot stores the dictionary breadth first and then drops journal
// segments the snapshot covers. It returns the sequence number of the
// snapshot.
func (s *DictionaryService) WriteSnapshot(w *snapshot.Writer) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seq.Current()
	if err := w.Write(seq, s.dict.LevelOrder()); err != nil {
		return 0, fmt.Errorf("write snapshot at seq %d: %w", seq, err)
	}
	s.statsLocked()

	if err := s.journal.TruncateBefore(seq); err != nil {
		return seq, fmt.Errorf("truncate journal before seq %d: %w", seq, err)
	}
	return seq, nil
}

// RunSnapshotJob writes a snapshot every interval until ctx is done. A
// snapshot is skipped when nothing was added since the last one. A
// non-positive interval disables periodic snapshots.
func (s *DictionaryService) RunSnapshotJob(ctx context.Context, w *snapshot.Writer, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	log := s.log.With(slog.String("dir", w.Dir))
	t := time.NewTicker(interval)
	defer t.Stop()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if s.seq.Current() == last {
				continue
			}
			seq, err := s.WriteSnapshot(w)
			if err != nil {
				log.Warn("snapshot", logger.Error(err))
				continue
			}
			last = seq
			log.Info("snapshot written", logger.Seq(seq))
		}
	}
}
