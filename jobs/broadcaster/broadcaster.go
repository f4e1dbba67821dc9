package broadcaster

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"lexicon/infra/outbox"
	"lexicon/logger"
)

const (
	EventVersion   = 1
	EventWordAdded = "word_added"

	DefaultInterval   = 250 * time.Millisecond
	DefaultMaxRetries = 5
)

// Event is the JSON document published for every added word.
type Event struct {
	V    int    `json:"v"`
	Type string `json:"type"`
	Seq  uint64 `json:"seq"`
	Word string `json:"word"`
}

type Config struct {
	Interval   time.Duration
	MaxRetries uint32
}

// Observer is told about every delivery attempt. infra/metrics implements it.
type Observer interface {
	Published(ok bool)
}

// Broadcaster drains the outbox into a Publisher. Delivery is at least once:
// an entry left in SENT by a crash is published again.
type Broadcaster struct {
	outbox     *outbox.Outbox
	pub        Publisher
	interval   time.Duration
	maxRetries uint32
	obs        Observer
	log        *slog.Logger
}

func New(ob *outbox.Outbox, pub Publisher, cfg Config, obs Observer, log *slog.Logger) *Broadcaster {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Broadcaster{
		outbox:     ob,
		pub:        pub,
		interval:   cfg.Interval,
		maxRetries: cfg.MaxRetries,
		obs:        obs,
		log:        log.With(logger.Module("broadcaster")),
	}
}

// Run publishes pending entries every interval until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	b.log.Info("started", slog.Duration("interval", b.interval))
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.Info("stopped")
			return nil
		case <-ticker.C:
			if _, err := b.RunOnce(ctx); err != nil {
				b.log.Warn("broadcast round", logger.Error(err))
			}
		}
	}
}

// RunOnce makes one pass over the outbox and returns how many entries were
// delivered. A failed delivery is not an error: the entry is marked FAILED and
// retried on a later pass until it runs out of retries.
func (b *Broadcaster) RunOnce(ctx context.Context) (int, error) {
	var due []outbox.Entry
	collect := func(e outbox.Entry) error {
		if e.State != outbox.StateFailed || e.Retries < b.maxRetries {
			due = append(due, e)
		}
		return nil
	}
	for _, s := range []outbox.State{outbox.StateSent, outbox.StateNew, outbox.StateFailed} {
		if err := b.outbox.ScanByState(s, collect); err != nil {
			return 0, err
		}
	}

	sent := 0
	for _, e := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		ok, err := b.deliver(ctx, e)
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

func (b *Broadcaster) deliver(ctx context.Context, e outbox.Entry) (bool, error) {
	if err := b.outbox.UpdateState(e.Seq, outbox.StateSent, e.Retries); err != nil {
		return false, err
	}

	value, err := json.Marshal(Event{V: EventVersion, Type: EventWordAdded, Seq: e.Seq, Word: e.Word})
	if err != nil {
		return false, err
	}
	if err := b.pub.Publish(ctx, []byte(strconv.FormatUint(e.Seq, 10)), value); err != nil {
		b.observe(false)
		retries := e.Retries + 1
		b.log.Warn("publish failed", logger.Seq(e.Seq), logger.Word(e.Word),
			slog.Uint64("retries", uint64(retries)), logger.Error(err))
		if retries >= b.maxRetries {
			b.log.Error("giving up on word", logger.Seq(e.Seq), logger.Word(e.Word))
		}
		return false, b.outbox.UpdateState(e.Seq, outbox.StateFailed, retries)
	}
	b.observe(true)

	return true, errors.Join(
		b.outbox.UpdateState(e.Seq, outbox.StateAcked, e.Retries),
		b.outbox.Delete(e.Seq),
	)
}

func (b *Broadcaster) observe(ok bool) {
	if b.obs != nil {
		b.obs.Published(ok)
	}
}

func (b *Broadcaster) Close() error {
	return b.pub.Close()
}
