package service

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"lexicon/domain/dictionary"
	"lexicon/domain/rbtree"
	"lexicon/infra/journal"
	"lexicon/infra/outbox"
	"lexicon/infra/sequence"
	"lexicon/logger"
)

var (
	ErrEmptyWord = errors.New("service: empty word")
	// ErrNotQueued means the word was stored but will not be published.
	ErrNotQueued = errors.New("service: word stored but not queued for publication")
)

// Recorder receives dictionary measurements. infra/metrics implements it.
type Recorder interface {
	WordAdded()
	WordChecked(found bool, compares int)
	TreeSize(n int)
	TreeHeight(h int)
}

type nopRecorder struct{}

func (nopRecorder) WordAdded()            {}
func (nopRecorder) WordChecked(bool, int) {}
func (nopRecorder) TreeSize(int)          {}
func (nopRecorder) TreeHeight(int)        {}

type Options struct {
	Dict    *dictionary.Dictionary
	Journal *journal.Journal
	// Outbox may be nil when nothing is published.
	Outbox  *outbox.Outbox
	Seq     *sequence.Sequencer
	Metrics Recorder
	Logger  *slog.Logger
}

type Stats struct {
	Words       int
	Height      int
	HeightBound float64
}

/*
DictionaryService serializes all access to the dictionary. Lookups take the
lock as well because the tree records comparison counts on every search.
*/
type DictionaryService struct {
	mu      sync.Mutex
	dict    *dictionary.Dictionary
	journal *journal.Journal
	outbox  *outbox.Outbox
	seq     *sequence.Sequencer
	rec     Recorder
	log     *slog.Logger
}

func NewDictionaryService(opts Options) *DictionaryService {
	rec := opts.Metrics
	if rec == nil {
		rec = nopRecorder{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &DictionaryService{
		dict:    opts.Dict,
		journal: opts.Journal,
		outbox:  opts.Outbox,
		seq:     opts.Seq,
		rec:     rec,
		log:     log.With(logger.Module("service")),
	}
}

// AddWord adds word (with surrounding blanks removed) and returns the journal
// sequence number assigned to it. The number is only taken once the journal
// accepted the word, so a failed append leaves no gap. From then on the word is
// in the tree even if queueing it for publication fails, and the error wraps
// ErrNotQueued.
func (s *DictionaryService) AddWord(word string) (uint64, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return 0, ErrEmptyWord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seq.Current() + 1
	if err := s.journal.Append(journal.NewRecord(journal.RecordAdd, seq, []byte(word))); err != nil {
		return 0, fmt.Errorf("journal word %q: %w", word, err)
	}
	s.seq.Next()

	s.dict.Add(word)
	s.rec.WordAdded()
	s.rec.TreeSize(s.dict.Len())

	if s.outbox != nil {
		if err := s.outbox.PutNew(seq, word); err != nil {
			s.log.Error("queueing word for publication", logger.Seq(seq), logger.Word(word), logger.Error(err))
			return seq, fmt.Errorf("%w: word %q: %w", ErrNotQueued, word, err)
		}
	}
	s.log.Debug("word added", logger.Seq(seq), logger.Word(word))
	return seq, nil
}

func (s *DictionaryService) CheckWord(word string) dictionary.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.dict.Check(word)
	s.rec.WordChecked(v.Found, v.Compares)
	return v
}

func (s *DictionaryService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

func (s *DictionaryService) statsLocked() Stats {
	st := Stats{
		Words:       s.dict.Len(),
		Height:      s.dict.Height(),
		HeightBound: s.dict.HeightBound(),
	}
	s.rec.TreeSize(st.Words)
	s.rec.TreeHeight(st.Height)
	return st
}

// Words returns the dictionary in ascending order.
func (s *DictionaryService) Words() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(s.dict.Words())
}

func (s *DictionaryService) Levels() []rbtree.NodeInfo[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(s.dict.Levels())
}

func (s *DictionaryService) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dict.Render()
}
