package outbox

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"
)

// State tracks how far an entry has travelled towards the broker.
type State uint8

const (
	StateNew State = iota
	StateSent
	StateAcked
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

type Entry struct {
	Seq         uint64
	State       State
	Retries     uint32
	LastAttempt int64
	Word        string
}

var (
	ErrNotFound = errors.New("outbox: entry not found")
	ErrBadEntry = errors.New("outbox: malformed entry")
	ErrClosed   = errors.New("outbox: closed")
)

const (
	keyPrefix  = "word/"
	entryFixed = 1 + 4 + 8
)

// value: [state:1][retries:4][lastAttempt:8][word...]
func encodeEntry(e Entry) []byte {
	buf := make([]byte, entryFixed+len(e.Word))
	buf[0] = byte(e.State)
	binary.BigEndian.PutUint32(buf[1:5], e.Retries)
	binary.BigEndian.PutUint64(buf[5:13], uint64(e.LastAttempt))
	copy(buf[entryFixed:], e.Word)
	return buf
}

func decodeEntry(seq uint64, b []byte) (Entry, error) {
	if len(b) < entryFixed {
		return Entry{}, fmt.Errorf("%w: %d bytes for seq %d", ErrBadEntry, len(b), seq)
	}
	return Entry{
		Seq:         seq,
		State:       State(b[0]),
		Retries:     binary.BigEndian.Uint32(b[1:5]),
		LastAttempt: int64(binary.BigEndian.Uint64(b[5:13])),
		Word:        string(b[entryFixed:]),
	}, nil
}

func keyFor(seq uint64) []byte {
	return fmt.Appendf(nil, keyPrefix+"%020d", seq)
}

func parseKey(k []byte) (uint64, error) {
	s, ok := strings.CutPrefix(string(k), keyPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: key %q", ErrBadEntry, k)
	}
	return strconv.ParseUint(s, 10, 64)
}

// Outbox is a durable queue of words waiting to be published. Entries are
// keyed by journal sequence number so scans run in insertion order.
type Outbox struct {
	db     *pebble.DB
	closed atomic.Bool
}

func Open(dir string) (*Outbox, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open outbox %s: %w", dir, err)
	}
	return &Outbox{db: db}, nil
}

// Close releases the store. Calls after the first return nil, and every other
// method then fails with ErrClosed instead of reaching pebble.
func (o *Outbox) Close() error {
	if o.closed.Swap(true) {
		return nil
	}
	return o.db.Close()
}

func (o *Outbox) checkOpen() error {
	if o.closed.Load() {
		return ErrClosed
	}
	return nil
}

// PutNew records a freshly added word.
func (o *Outbox) PutNew(seq uint64, word string) error {
	if err := o.checkOpen(); err != nil {
		return err
	}
	return o.db.Set(keyFor(seq), encodeEntry(Entry{State: StateNew, Word: word}), pebble.Sync)
}

// UpdateState moves an entry to state and stamps the attempt time.
func (o *Outbox) UpdateState(seq uint64, state State, retries uint32) error {
	e, err := o.Get(seq)
	if err != nil {
		return err
	}
	e.State = state
	e.Retries = retries
	e.LastAttempt = time.Now().UnixNano()
	return o.db.Set(keyFor(seq), encodeEntry(e), pebble.Sync)
}

func (o *Outbox) Get(seq uint64) (Entry, error) {
	if err := o.checkOpen(); err != nil {
		return Entry{}, err
	}
	val, closer, err := o.db.Get(keyFor(seq))
	if errors.Is(err, pebble.ErrNotFound) {
		return Entry{}, fmt.Errorf("%w: seq %d", ErrNotFound, seq)
	}
	if err != nil {
		return Entry{}, err
	}
	defer closer.Close()
	return decodeEntry(seq, val)
}

func (o *Outbox) Delete(seq uint64) error {
	if err := o.checkOpen(); err != nil {
		return err
	}
	return o.db.Delete(keyFor(seq), pebble.Sync)
}

// ScanByState calls fn for every entry in state, lowest sequence first. The
// scan reads a point-in-time view, so fn may update the entries it is given.
func (o *Outbox) ScanByState(state State, fn func(Entry) error) error {
	if err := o.checkOpen(); err != nil {
		return err
	}
	it, err := o.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "~"),
	})
	if err != nil {
		return err
	}

	for it.First(); it.Valid(); it.Next() {
		seq, err := parseKey(it.Key())
		if err != nil {
			return errors.Join(err, it.Close())
		}
		e, err := decodeEntry(seq, it.Value())
		if err != nil {
			return errors.Join(err, it.Close())
		}
		if e.State != state {
			continue
		}
		if err := fn(e); err != nil {
			return errors.Join(err, it.Close())
		}
	}
	return errors.Join(it.Error(), it.Close())
}

// Pending counts entries that are not yet acknowledged.
func (o *Outbox) Pending() (int, error) {
	n := 0
	for _, s := range []State{StateNew, StateSent, StateFailed} {
		if err := o.ScanByState(s, func(Entry) error { n++; return nil }); err != nil {
			return 0, err
		}
	}
	return n, nil
}
