package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

const segmentPattern = "segment-*.wal"

type segment struct {
	index  int
	file   *os.File
	offset int64
}

func segmentPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("segment-%06d.wal", index))
}

func openSegment(dir string, index int) (*segment, error) {
	f, err := os.OpenFile(segmentPath(dir, index), os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &segment{index: index, file: f, offset: st.Size()}, nil
}

func (s *segment) append(b []byte) error {
	n, err := s.file.Write(b)
	s.offset += int64(n)
	return err
}

func (s *segment) sync() error  { return s.file.Sync() }
func (s *segment) close() error { return s.file.Close() }

type segmentFile struct {
	index int
	path  string
}

// listSegments returns the segments in dir ordered by index.
func listSegments(dir string) ([]segmentFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, segmentPattern))
	if err != nil {
		return nil, err
	}
	out := make([]segmentFile, 0, len(paths))
	for _, p := range paths {
		var idx int
		if _, err := fmt.Sscanf(filepath.Base(p), "segment-%06d.wal", &idx); err != nil {
			continue
		}
		out = append(out, segmentFile{index: idx, path: p})
	}
	slices.SortFunc(out, func(a, b segmentFile) int { return a.index - b.index })
	return out, nil
}
