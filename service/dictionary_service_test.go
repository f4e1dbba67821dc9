package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexicon/domain/dictionary"
	"lexicon/infra/journal"
	"lexicon/infra/outbox"
	"lexicon/infra/sequence"
	"lexicon/logger"
	"lexicon/snapshot"
)

type fakeRecorder struct {
	mu     sync.Mutex
	added  int
	hit    int
	miss   int
	size   int
	height int
}

func (f *fakeRecorder) WordAdded() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added++
}

func (f *fakeRecorder) WordChecked(found bool, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if found {
		f.hit++
	} else {
		f.miss++
	}
}

func (f *fakeRecorder) TreeSize(n int)   { f.size = n }
func (f *fakeRecorder) TreeHeight(h int) { f.height = h }

type fixture struct {
	dir     string
	svc     *DictionaryService
	dict    *dictionary.Dictionary
	journal *journal.Journal
	outbox  *outbox.Outbox
	seq     *sequence.Sequencer
	rec     *fakeRecorder
}

func newFixture(t *testing.T, dir string, words ...string) *fixture {
	t.Helper()
	f := &fixture{dir: dir, dict: dictionary.New(), seq: sequence.New(0), rec: &fakeRecorder{}}
	for _, w := range words {
		f.dict.Add(w)
	}

	var err error
	f.journal, err = journal.Open(journal.Config{Dir: filepath.Join(dir, "journal"), SegmentSize: 256})
	require.NoError(t, err)
	f.outbox, err = outbox.Open(filepath.Join(dir, "outbox"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.journal.Close())
		require.NoError(t, f.outbox.Close())
	})

	f.svc = NewDictionaryService(Options{
		Dict:    f.dict,
		Journal: f.journal,
		Outbox:  f.outbox,
		Seq:     f.seq,
		Metrics: f.rec,
		Logger:  logger.Discard(),
	})
	return f
}

func TestAddWord(t *testing.T) {
	f := newFixture(t, t.TempDir())

	seq, err := f.svc.AddWord("  apple ")
	require.NoError(t, err)
	require.EqualValues(t, 1, seq)
	seq, err = f.svc.AddWord("banana")
	require.NoError(t, err)
	require.EqualValues(t, 2, seq)

	require.Equal(t, []string{"apple", "banana"}, f.svc.Words())
	require.Equal(t, 2, f.rec.added)
	require.Equal(t, 2, f.rec.size)

	e, err := f.outbox.Get(1)
	require.NoError(t, err)
	require.Equal(t, "apple", e.Word)
	require.Equal(t, outbox.StateNew, e.State)

	var journaled []string
	_, err = journal.Replay(filepath.Join(f.dir, "journal"), func(r *journal.Record) error {
		journaled = append(journaled, string(r.Data))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"apple", "banana"}, journaled)
}

func TestAddEmptyWord(t *testing.T) {
	f := newFixture(t, t.TempDir())
	for _, w := range []string{"", "   ", "\t"} {
		_, err := f.svc.AddWord(w)
		require.ErrorIs(t, err, ErrEmptyWord)
	}
	require.Zero(t, f.seq.Current())
	require.Empty(t, f.svc.Words())
}

func TestAddWithoutOutbox(t *testing.T) {
	j, err := journal.Open(journal.Config{Dir: t.TempDir()})
	require.NoError(t, err)
	defer j.Close()

	svc := NewDictionaryService(Options{Dict: dictionary.New(), Journal: j, Seq: sequence.New(0)})
	_, err = svc.AddWord("solo")
	require.NoError(t, err)
	require.True(t, svc.CheckWord("solo").Found)
}

func TestAddAfterJournalClosed(t *testing.T) {
	f := newFixture(t, t.TempDir())
	require.NoError(t, f.journal.Close())
	_, err := f.svc.AddWord("lost")
	require.ErrorIs(t, err, journal.ErrClosed)
	require.False(t, f.svc.CheckWord("lost").Found)
	require.Zero(t, f.seq.Current())
}

func TestFailedAppendLeavesNoSequenceGap(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, dir)
	seq, err := f.svc.AddWord("first")
	require.NoError(t, err)
	require.EqualValues(t, 1, seq)

	require.NoError(t, f.journal.Close())
	_, err = f.svc.AddWord("lost")
	require.Error(t, err)
	require.EqualValues(t, 1, f.seq.Current())

	j, err := journal.Open(journal.Config{Dir: filepath.Join(dir, "journal")})
	require.NoError(t, err)
	defer j.Close()
	svc := NewDictionaryService(Options{Dict: f.dict, Journal: j, Seq: f.seq})
	seq, err = svc.AddWord("second")
	require.NoError(t, err)
	require.EqualValues(t, 2, seq)
}

func TestAddWithBrokenOutbox(t *testing.T) {
	f := newFixture(t, t.TempDir())
	ob, err := outbox.Open(filepath.Join(t.TempDir(), "outbox"))
	require.NoError(t, err)
	require.NoError(t, ob.Close())
	svc := NewDictionaryService(Options{Dict: f.dict, Journal: f.journal, Outbox: ob, Seq: f.seq})

	seq, err := svc.AddWord("kept")
	require.ErrorIs(t, err, ErrNotQueued)
	require.EqualValues(t, 1, seq)
	require.True(t, svc.CheckWord("kept").Found)
}

func TestCheckWordAndStats(t *testing.T) {
	f := newFixture(t, t.TempDir(), "1", "2", "3", "4", "5")

	v := f.svc.CheckWord("3")
	require.True(t, v.Found)
	require.Equal(t, 3, v.Compares)

	v = f.svc.CheckWord("6")
	require.False(t, v.Found)
	require.Equal(t, "5", v.Suggestion)
	require.Equal(t, 1, f.rec.hit)
	require.Equal(t, 1, f.rec.miss)

	st := f.svc.Stats()
	require.Equal(t, Stats{Words: 5, Height: 2, HeightBound: st.HeightBound}, st)
	require.InDelta(t, 5.17, st.HeightBound, 0.01)
	require.Equal(t, 2, f.rec.height)

	levels := f.svc.Levels()
	require.Len(t, levels, 5)
	require.Equal(t, "2", levels[0].Key)
	require.Contains(t, f.svc.Render(), "R: 4")
}

func TestConcurrentAddAndCheck(t *testing.T) {
	f := newFixture(t, t.TempDir())
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 25 {
				w := string(rune('a'+i)) + strings.Repeat("x", j)
				_, err := f.svc.AddWord(w)
				assert.NoError(t, err)
				assert.True(t, f.svc.CheckWord(w).Found)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 200, f.svc.Stats().Words)
	require.NoError(t, f.dict.Verify())
}

func TestSnapshotAndBootstrap(t *testing.T) {
	dir := t.TempDir()
	wordList := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(wordList, []byte("pear\nplum\n"), 0o644))
	cfg := BootstrapConfig{
		DictPath:     wordList,
		SnapshotPath: filepath.Join(dir, "snap", snapshot.FileName),
		JournalDir:   filepath.Join(dir, "journal"),
	}

	// first start: word list only
	dict, seq := dictionary.New(), sequence.New(0)
	res, err := Bootstrap(cfg, dict, seq, logger.Discard())
	require.NoError(t, err)
	require.Equal(t, BootstrapResult{Loaded: 2}, res)

	f := newFixture(t, dir)
	f.svc.dict, f.svc.seq = dict, seq
	for _, w := range []string{"fig", "kiwi", "lime", "date", "sloe", "yuzu"} {
		_, err := f.svc.AddWord(w)
		require.NoError(t, err)
	}
	snapSeq, err := f.svc.WriteSnapshot(&snapshot.Writer{Dir: filepath.Dir(cfg.SnapshotPath)})
	require.NoError(t, err)
	require.EqualValues(t, 6, snapSeq)
	_, err = f.svc.AddWord("apple")
	require.NoError(t, err)
	require.NoError(t, f.journal.Sync())

	// restart: snapshot plus the one word after it
	dict2, seq2 := dictionary.New(), sequence.New(0)
	res, err = Bootstrap(cfg, dict2, seq2, logger.Discard())
	require.NoError(t, err)
	require.True(t, res.FromSnapshot)
	require.Equal(t, 8, res.Loaded)
	require.Equal(t, 1, res.Replayed)
	require.EqualValues(t, 7, res.LastSeq)
	require.EqualValues(t, 7, seq2.Current())
	require.Equal(t, dict.Len(), dict2.Len())
	require.NoError(t, dict2.Verify())
	require.True(t, dict2.Check("apple").Found)
	require.True(t, dict2.Check("plum").Found)
}

func TestBootstrapMissingWordList(t *testing.T) {
	_, err := Bootstrap(BootstrapConfig{DictPath: filepath.Join(t.TempDir(), "nope")},
		dictionary.New(), sequence.New(0), logger.Discard())
	require.ErrorContains(t, err, "open word list")
}

func TestRunSnapshotJob(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, dir)
	_, err := f.svc.AddWord("cherry")
	require.NoError(t, err)

	w := &snapshot.Writer{Dir: filepath.Join(dir, "snap")}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.svc.RunSnapshotJob(ctx, w, 5*time.Millisecond) }()

	require.Eventually(t, func() bool {
		s, err := snapshot.Load(w.Path())
		return err == nil && s != nil && s.Seq == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
