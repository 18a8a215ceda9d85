package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/svitlo/config"
	"github.com/kilianp07/svitlo/connectors"
	sourcefactory "github.com/kilianp07/svitlo/connectors/factory"
	"github.com/kilianp07/svitlo/core/fingerprint"
	coremetrics "github.com/kilianp07/svitlo/core/metrics"
	"github.com/kilianp07/svitlo/core/runlog"
	"github.com/kilianp07/svitlo/core/schedule"
	"github.com/kilianp07/svitlo/core/source"
	"github.com/kilianp07/svitlo/infra/fpstore"
	"github.com/kilianp07/svitlo/infra/logger"
	"github.com/kilianp07/svitlo/infra/metrics"
	"github.com/kilianp07/svitlo/infra/mqtt"
	"github.com/kilianp07/svitlo/infra/objectstore"
	infrarunlog "github.com/kilianp07/svitlo/infra/runlog"
	"github.com/kilianp07/svitlo/internal/eventbus"
	"github.com/kilianp07/svitlo/pkg/export"
	"github.com/kilianp07/svitlo/render"
)

// Notifier announces schedule changes.
type Notifier interface {
	Notify(ctx context.Context, u mqtt.Update) error
}

// Uploader copies published files to remote storage.
type Uploader interface {
	EnsureBucket(ctx context.Context) error
	UploadFile(ctx context.Context, local string) error
}

// Service runs the fetch, transform and publish pipeline. Runs are serialized.
type Service struct {
	cfg       *config.Config
	region    export.Region
	transform *schedule.Transformer
	source    source.Source
	store     fingerprint.Store
	renderers []render.Renderer
	notifier  Notifier
	uploader  Uploader
	runs      runlog.Store
	sink      coremetrics.MetricsSink
	bus       *eventbus.Bus[runlog.Record]
	now       func() time.Time
	log       logger.Logger

	mu            sync.Mutex
	bucketReady   bool
	closers       []func() error
	stopCollector context.CancelFunc
	collectorDone <-chan struct{}
}

// Option overrides a dependency New would otherwise build from the config.
type Option func(*Service)

func WithSource(s source.Source) Option { return func(svc *Service) { svc.source = s } }

func WithStore(s fingerprint.Store) Option { return func(svc *Service) { svc.store = s } }

func WithNotifier(n Notifier) Option { return func(svc *Service) { svc.notifier = n } }

func WithUploader(u Uploader) Option { return func(svc *Service) { svc.uploader = u } }

func WithRunStore(s runlog.Store) Option { return func(svc *Service) { svc.runs = s } }

func WithSink(s coremetrics.MetricsSink) Option { return func(svc *Service) { svc.sink = s } }

func WithRenderers(r ...render.Renderer) Option { return func(svc *Service) { svc.renderers = r } }

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option { return func(svc *Service) { svc.now = now } }

func WithLogger(l logger.Logger) Option { return func(svc *Service) { svc.log = l } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	rule, err := schedule.ParseBoundaryRule(cfg.Transform.BoundaryRule)
	if err != nil {
		return nil, err
	}
	s := &Service{
		cfg: cfg,
		region: export.Region{
			ID:            cfg.Region.ID,
			Affiliation:   cfg.Region.Affiliation,
			SchemaVersion: cfg.Region.SchemaVersion,
		},
		bus: eventbus.New[runlog.Record](0),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.New("service")
	}
	loc := cfg.Region.Location()
	s.transform = schedule.NewTransformer(loc, rule, logger.New("transform"))

	if err := s.build(loc); err != nil {
		_ = s.closeAll()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopCollector = cancel
	s.collectorDone = metrics.StartRunCollector(ctx, s.bus, s.sink)
	return s, nil
}

// build fills every dependency no option provided.
func (s *Service) build(loc *time.Location) error {
	cfg := s.cfg
	if s.source == nil {
		src, err := sourcefactory.NewSource(cfg.Source, loc, connectors.WithLogger(logger.New(cfg.Source.Type)))
		if err != nil {
			return fmt.Errorf("source: %w", err)
		}
		s.source = src
	}
	if s.store == nil {
		store, err := fpstore.New(cfg.Cache.Module())
		if err != nil {
			return fmt.Errorf("fingerprint store: %w", err)
		}
		s.store = store
		s.closers = append(s.closers, func() error { return fpstore.Close(store) })
	}
	if s.renderers == nil {
		r, err := render.ForFormats(cfg.Output.Formats)
		if err != nil {
			return err
		}
		s.renderers = r
	}
	if s.notifier == nil && cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt client: %w", err)
		}
		s.notifier = mqtt.NewNotifier(client, cfg.MQTT.TopicPrefix)
		s.closers = append(s.closers, func() error { client.Disconnect(); return nil })
	}
	if s.uploader == nil && cfg.Storage.Enabled {
		up, err := objectstore.New(cfg.Storage)
		if err != nil {
			return err
		}
		s.uploader = up
	}
	if s.runs == nil {
		store, err := infrarunlog.New(cfg.RunLog)
		if err != nil {
			return fmt.Errorf("run log: %w", err)
		}
		s.runs = store
		s.closers = append(s.closers, store.Close)
	}
	if s.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return fmt.Errorf("metrics sink: %w", err)
		}
		s.sink = sink
		if c, ok := sink.(interface{ Close() }); ok {
			s.closers = append(s.closers, func() error { c.Close(); return nil })
		}
	}
	return nil
}

// Location is the fixed zone days are computed in.
func (s *Service) Location() *time.Location { return s.transform.Location() }

// Runs returns the run history store.
func (s *Service) Runs() runlog.Store { return s.runs }

// LastRun returns the latest run of this process.
func (s *Service) LastRun() (runlog.Record, bool) { return s.bus.Latest() }

// Events streams finished runs. Call Unsubscribe on the bus when done.
func (s *Service) Events() *eventbus.Bus[runlog.Record] { return s.bus }

// Document reads the published document back from disk.
func (s *Service) Document() (export.Document, error) {
	return export.ReadDocument(s.cfg.Output.DocumentPath())
}

// Close stops the run collector and releases stores and connections.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCollector != nil {
		s.stopCollector()
		<-s.collectorDone
		s.stopCollector = nil
	}
	s.bus.Close()
	return s.closeAll()
}

func (s *Service) closeAll() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
