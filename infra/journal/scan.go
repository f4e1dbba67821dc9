package journal

import (
	"bufio"
	"errors"
	"io"
	"os"
)

type segmentInfo struct {
	// valid is the length of the prefix made of whole frames.
	valid  int64
	maxSeq uint64
	torn   bool
}

// scanSegment walks every frame of a segment. A frame cut short by the end of
// the file is reported through torn; a damaged frame is an error.
func scanSegment(path string) (segmentInfo, error) {
	var info segmentInfo
	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		rec, n, err := readFrame(r)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return info, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			info.torn = true
			return info, nil
		default:
			return info, err
		}
		info.valid += n
		info.maxSeq = max(info.maxSeq, rec.Seq)
	}
}
