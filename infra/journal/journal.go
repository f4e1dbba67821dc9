package journal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"lexicon/infra/memory"
)

const DefaultSegmentSize = 64 << 20

type Config struct {
	Dir string
	// SegmentSize is the size after which a new segment is started.
	SegmentSize int64
}

// Journal is a segmented append-only log of dictionary mutations. Records are
// framed and checksummed; see Replay for reading them back.
type Journal struct {
	mu      sync.Mutex
	dir     string
	segSize int64
	current *segment
	lastSeq uint64
	closed  bool
	bufs    *memory.Pool[bytes.Buffer]
}

// Open opens the journal in cfg.Dir, creating the directory when needed, and
// resumes appending at the newest segment. A partial frame at the end of that
// segment is cut off first.
func Open(cfg Config) (*Journal, error) {
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = DefaultSegmentSize
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	segs, err := listSegments(cfg.Dir)
	if err != nil {
		return nil, err
	}

	var lastSeq uint64
	index := 0
	for i, s := range segs {
		info, err := scanSegment(s.path)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.path, err)
		}
		lastSeq = max(lastSeq, info.maxSeq)
		if i < len(segs)-1 {
			continue
		}
		index = s.index
		if info.torn {
			if err := os.Truncate(s.path, info.valid); err != nil {
				return nil, fmt.Errorf("cut torn tail of %s: %w", s.path, err)
			}
		}
	}

	seg, err := openSegment(cfg.Dir, index)
	if err != nil {
		return nil, err
	}
	return &Journal{
		dir:     cfg.Dir,
		segSize: cfg.SegmentSize,
		current: seg,
		lastSeq: lastSeq,
		bufs:    memory.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset),
	}, nil
}

// LastSeq is the highest sequence number written to the journal.
func (j *Journal) LastSeq() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastSeq
}

func (j *Journal) Append(r *Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}
	if r.Seq <= j.lastSeq {
		return fmt.Errorf("%w: %d after %d", ErrOutOfOrder, r.Seq, j.lastSeq)
	}

	buf := j.bufs.Get()
	defer j.bufs.Put(buf)
	if err := encodeFrame(buf, r); err != nil {
		return err
	}
	if err := j.current.append(buf.Bytes()); err != nil {
		return fmt.Errorf("journal append seq %d: %w", r.Seq, err)
	}
	j.lastSeq = r.Seq

	if j.current.offset >= j.segSize {
		return j.rotate()
	}
	return nil
}

func (j *Journal) rotate() error {
	if err := j.current.sync(); err != nil {
		return err
	}
	if err := j.current.close(); err != nil {
		return err
	}
	seg, err := openSegment(j.dir, j.current.index+1)
	if err != nil {
		return err
	}
	j.current = seg
	return nil
}

func (j *Journal) Sync() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	return j.current.sync()
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return errors.Join(j.current.sync(), j.current.close())
}

// TruncateBefore removes every closed segment whose records all have a
// sequence number of at most seq. The segment being written is kept.
func (j *Journal) TruncateBefore(seq uint64) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	segs, err := listSegments(j.dir)
	if err != nil {
		return err
	}
	var errs []error
	for _, s := range segs {
		if s.index >= j.current.index {
			continue
		}
		info, err := scanSegment(s.path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if info.maxSeq <= seq {
			if err := os.Remove(s.path); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
