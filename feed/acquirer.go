package feed

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// graceFactor extends the TTL for serving stale snapshots after a live
// fetch fails.
const graceFactor = 5

// Acquirer fetches and decodes one feed class per call, applying the
// degradation policy: live fetch, then last known snapshot within the grace
// window tagged cached, then an empty snapshot tagged error. Fetch and
// decode failures never escape as errors.
type Acquirer struct {
	transport Transport
	decoder   Decoder
	urls      map[Class]string
	timeout   time.Duration
	ttl       time.Duration
	mockMode  bool
	box       BoundingBox

	mu       sync.Mutex
	lastGood map[Class]Snapshot
}

type AcquirerOptions struct {
	Transport Transport
	Box       BoundingBox
	BusURL    string
	TrainURL  string
	Timeout   time.Duration
	TTL       time.Duration
	MockMode  bool
}

func NewAcquirer(opts AcquirerOptions) *Acquirer {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Second
	}
	return &Acquirer{
		transport: opts.Transport,
		decoder:   Decoder{Box: opts.Box},
		urls: map[Class]string{
			ClassBus:   opts.BusURL,
			ClassTrain: opts.TrainURL,
		},
		timeout:  opts.Timeout,
		ttl:      opts.TTL,
		mockMode: opts.MockMode,
		box:      opts.Box,
		lastGood: map[Class]Snapshot{},
	}
}

// Acquire returns a structurally valid snapshot for the class. The Source
// tag is the only signal of degradation.
func (a *Acquirer) Acquire(ctx context.Context, class Class) Snapshot {
	now := time.Now().UTC()
	if a.mockMode {
		return MockSnapshot(class, a.box, now)
	}

	snap, err := a.fetchLive(ctx, class)
	if err == nil {
		a.mu.Lock()
		a.lastGood[class] = snap
		a.mu.Unlock()
		return snap
	}
	log.WithFields(log.Fields{"feed": class, "err": err}).Warn("live fetch failed, degrading")

	a.mu.Lock()
	last, ok := a.lastGood[class]
	a.mu.Unlock()
	if ok && now.Sub(last.CapturedAt) <= graceFactor*a.ttl {
		stale := last
		stale.Source = SourceCached
		return stale
	}
	return EmptySnapshot(class, SourceError)
}

func (a *Acquirer) fetchLive(ctx context.Context, class Class) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.transport.Fetch(ctx, a.urls[class])
	if err != nil {
		return Snapshot{}, err
	}
	vehicles, err := a.decoder.Decode(raw, class)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Class:      class,
		Vehicles:   vehicles,
		CapturedAt: time.Now().UTC(),
		Source:     SourceLive,
	}, nil
}
