package snapshot

import (
	"encoding/gob"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"
)

type Writer struct {
	Dir string
}

func (w *Writer) Path() string {
	return filepath.Join(w.Dir, FileName)
}

// Write stores a snapshot of words at seq. The previous snapshot stays in
// place until the new one is complete.
func (w *Writer) Write(seq uint64, words iter.Seq[string]) (err error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	s := Snapshot{
		Seq:     seq,
		Created: time.Now(),
		Words:   make([]string, 0, 1024),
	}
	for word := range words {
		s.Words = append(s.Words, word)
	}

	f, err := os.CreateTemp(w.Dir, FileName+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(f.Name()))
		}
	}()

	if err := gob.NewEncoder(f).Encode(&s); err != nil {
		return errors.Join(fmt.Errorf("encode snapshot: %w", err), f.Close())
	}
	if err := f.Sync(); err != nil {
		return errors.Join(err, f.Close())
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), w.Path())
}
