package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

type ReplayHandler func(*Record) error

// Replay feeds every record in dir to fn in sequence order and returns the
// last sequence number seen. Sequence numbers must increase strictly across
// segments. Only the newest segment may end in a partial frame, which is
// ignored.
func Replay(dir string, fn ReplayHandler) (lastSeq uint64, err error) {
	segs, err := listSegments(dir)
	if err != nil {
		return 0, err
	}
	for i, s := range segs {
		lastSeq, err = replaySegment(s.path, i == len(segs)-1, lastSeq, fn)
		if err != nil {
			return lastSeq, err
		}
	}
	return lastSeq, nil
}

func replaySegment(path string, newest bool, lastSeq uint64, fn ReplayHandler) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return lastSeq, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		rec, _, err := readFrame(r)
		if errors.Is(err, io.EOF) {
			return lastSeq, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			if newest {
				return lastSeq, nil
			}
			return lastSeq, fmt.Errorf("%w: truncated segment %s", ErrCorrupt, path)
		}
		if err != nil {
			return lastSeq, fmt.Errorf("%s: %w", path, err)
		}

		if rec.Seq <= lastSeq {
			return lastSeq, fmt.Errorf("%w: seq %d after %d in %s", ErrOutOfOrder, rec.Seq, lastSeq, path)
		}
		lastSeq = rec.Seq

		if err := fn(rec); err != nil {
			return lastSeq, err
		}
	}
}
