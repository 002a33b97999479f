package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/decrypto-hq/decrypto-api/internal/api/metrics"
	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// Dispatcher routes authentication events to a fixed set of workers using
// consistent hashing on the subject identity, keeping each account's trail
// ordered. Record never blocks the request path: when a worker channel is
// full the event is dropped and counted instead.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// events still buffered at that point are discarded.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record hands an event to the worker responsible for its identity.
func (d *Dispatcher) Record(event domain.AuthEvent) {
	idx := d.shardIndex(shardKey(event))
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("kind", string(event.Kind)).Msg("audit queue full, event dropped")
	}
}

// shardKey picks the identity the trail is ordered by. Login attempts carry
// an email before any user id exists; guard denials carry a subject.
func shardKey(event domain.AuthEvent) string {
	if event.Email != "" {
		return event.Email
	}
	return event.Subject
}

// shardIndex maps an identity deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()

			start := time.Now()
			insertCtx, cancel := context.WithTimeout(ctx, insertTimeout)
			err := d.repo.Insert(insertCtx, &event)
			cancel()
			if err != nil {
				d.log.Error().Err(err).
					Str("kind", string(event.Kind)).
					Int("worker_id", id).
					Msg("audit write failed")
				continue
			}

			metrics.AuditWriteDuration.WithLabelValues(string(event.Kind)).Observe(time.Since(start).Seconds())
			metrics.AuditEventsTotal.WithLabelValues(string(event.Kind)).Inc()
		}
	}
}
