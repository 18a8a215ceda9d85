package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	apischedule "github.com/kilianp07/svitlo/api/schedule"
	"github.com/kilianp07/svitlo/infra/metrics"
)

// Handler returns the HTTP API of serve mode.
func (s *Service) Handler() http.Handler {
	return apischedule.NewRouter(apischedule.Deps{
		Document: s.Document,
		Runs:     s.runs,
		LastRun:  s.LastRun,
		Metrics:  metrics.Handler(),
		Token:    s.cfg.Serve.APIToken,
	})
}

// Serve runs the pipeline on the configured cron schedule and serves the API
// until ctx is canceled. A tick that fires while a run is in progress is
// skipped.
func (s *Service) Serve(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.Location()), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.cfg.Serve.Cron, func() { s.scheduledRun(ctx) }); err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("serving api on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if s.cfg.Serve.RunOnStart {
		go s.scheduledRun(ctx)
	}
	c.Start()
	s.log.Infof("scheduled runs: %s", s.cfg.Serve.Cron)

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}
	stopped := c.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("api shutdown: %v", err)
	}
	<-stopped.Done()
	return serveErr
}

func (s *Service) scheduledRun(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Errorf("scheduled run: %v", err)
	}
}
