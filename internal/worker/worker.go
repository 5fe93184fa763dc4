package worker

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/lazhrach20/auto-assistent-llm/internal/model"
	"github.com/lazhrach20/auto-assistent-llm/logger"
	"github.com/lazhrach20/auto-assistent-llm/services/notify"
)

// Fetcher retrieves the raw listings page
type Fetcher interface {
	Fetch() (io.Reader, error)
}

// Extractor turns a page into car listings
type Extractor interface {
	Extract(r io.Reader) ([]model.Car, error)
}

// Store persists extracted listings
type Store interface {
	UpsertBatch(ctx context.Context, cars []model.Car) (int, error)
}

// Worker drives the scrape pipeline on a fixed period. A failed
// iteration is logged and retried after a shorter interval; the loop
// itself only stops when the context is cancelled.
type Worker struct {
	fetcher       Fetcher
	extractor     Extractor
	store         Store
	publisher     notify.Publisher
	interval      time.Duration
	retryInterval time.Duration
	after         func(time.Duration) <-chan time.Time
	log           *logger.Logger
}

// NewWorker creates a new worker. publisher may be nil to disable the
// listing stream.
func NewWorker(
	fetcher Fetcher,
	extractor Extractor,
	store Store,
	publisher notify.Publisher,
	interval time.Duration,
	retryInterval time.Duration,
) *Worker {
	return &Worker{
		fetcher:       fetcher,
		extractor:     extractor,
		store:         store,
		publisher:     publisher,
		interval:      interval,
		retryInterval: retryInterval,
		after:         time.After,
		log:           logger.ForComponent("worker"),
	}
}

// Run executes scrape iterations until the context is cancelled
func (w *Worker) Run(ctx context.Context) error {
	iteration := 0
	for {
		iteration++
		start := time.Now()

		wait := w.interval
		if err := w.runOnce(ctx); err != nil {
			w.log.Error().Err(err).Int("iteration", iteration).Msg("Scrape iteration failed")
			wait = w.retryInterval
		} else {
			w.log.Info().
				Int("iteration", iteration).
				Dur("elapsed", time.Since(start)).
				Msg("Scrape iteration finished")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.after(wait):
		}
	}
}

// runOnce executes one fetch, extract, upsert, publish cycle
func (w *Worker) runOnce(ctx context.Context) error {
	body, err := w.fetcher.Fetch()
	if err != nil {
		return err
	}

	cars, err := w.extractor.Extract(body)
	if err != nil {
		return err
	}

	if len(cars) == 0 {
		w.log.Warn().Msg("No listings extracted in this iteration")
		return nil
	}

	count, err := w.store.UpsertBatch(ctx, cars)
	if err != nil {
		return err
	}

	w.publish(cars)

	w.log.Info().Int("count", count).Msg("Saved listings")
	return nil
}

// publish pushes the scraped listings onto the notification stream.
// Publishing is best effort and never fails the iteration.
func (w *Worker) publish(cars []model.Car) {
	if w.publisher == nil {
		return
	}
	for _, car := range cars {
		payload, err := json.Marshal(car)
		if err != nil {
			w.log.Error().Err(err).Msg("Failed to marshal listing")
			continue
		}
		if err := w.publisher.Publish("car", payload); err != nil {
			w.log.Error().Err(err).Msg("Failed to publish listing")
		}
	}
}
