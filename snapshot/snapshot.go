package snapshot

import "time"

const FileName = "snapshot.bin"

type Snapshot struct {
	// Seq is the last journal record reflected in Words.
	Seq     uint64
	Created time.Time
	Words   []string
}
