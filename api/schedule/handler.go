// Package schedule serves the published document and the run history over HTTP.
package schedule

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kilianp07/svitlo/core/model"
	"github.com/kilianp07/svitlo/core/runlog"
	"github.com/kilianp07/svitlo/pkg/export"
)

// DefaultRunsLimit caps /api/runs when no limit is given.
const DefaultRunsLimit = 100

// Deps are the read-only views the handlers need.
type Deps struct {
	// Document returns the latest published document. A fs.ErrNotExist error
	// means nothing was published yet.
	Document func() (export.Document, error)
	Runs     runlog.Store
	// LastRun returns the most recent run of this process, if any.
	LastRun func() (runlog.Record, bool)
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// Token protects /api/* when non-empty.
	Token string
}

type handler struct {
	deps Deps
}

// NewRouter mounts /healthz, /metrics and the /api routes.
func NewRouter(d Deps) http.Handler {
	h := &handler{deps: d}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	r.Route("/api", func(r chi.Router) {
		r.Use(BearerAuth(d.Token))
		r.Get("/schedule", h.document)
		r.Get("/schedule/{queue}", h.queue)
		r.Get("/runs", h.runs)
	})
	return r
}

// BearerAuth rejects requests without "Authorization: Bearer <token>". An
// empty token disables the check.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type lastRun struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	OK        bool      `json:"ok"`
	Changed   bool      `json:"changed"`
	Error     string    `json:"error,omitempty"`
}

type healthResponse struct {
	Status  string   `json:"status"`
	LastRun *lastRun `json:"last_run,omitempty"`
}

// health always answers 200 so a failed upstream does not restart the
// process. A failed last run is reported as degraded.
func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.deps.LastRun != nil {
		if rec, ok := h.deps.LastRun(); ok {
			resp.LastRun = &lastRun{ID: rec.ID, Timestamp: rec.Timestamp, OK: rec.OK(), Changed: rec.Changed, Error: rec.Error}
			if !rec.OK() {
				resp.Status = "degraded"
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) loadDocument(w http.ResponseWriter) (export.Document, bool) {
	if h.deps.Document == nil {
		writeError(w, http.StatusNotFound, "no document published")
		return export.Document{}, false
	}
	doc, err := h.deps.Document()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		writeError(w, http.StatusNotFound, "no document published")
		return export.Document{}, false
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return export.Document{}, false
	}
	return doc, true
}

func (h *handler) document(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.loadDocument(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// QueueResponse is the body of /api/schedule/{queue}.
type QueueResponse struct {
	Queue        string        `json:"queue"`
	Label        string        `json:"label"`
	Today        int64         `json:"today"`
	Tomorrow     int64         `json:"tomorrow"`
	TodayGrid    model.DayGrid `json:"today_grid"`
	TomorrowGrid model.DayGrid `json:"tomorrow_grid"`
	Update       string        `json:"update"`
	ContentHash  string        `json:"content_hash"`
}

func (h *handler) queue(w http.ResponseWriter, r *http.Request) {
	q, err := model.ParseQueue(chi.URLParam(r, "queue"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, ok := h.loadDocument(w)
	if !ok {
		return
	}
	ft, err := doc.FactTable()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, QueueResponse{
		Queue:        q.DisplayID(),
		Label:        q.Label(),
		Today:        int64(ft.Today),
		Tomorrow:     int64(ft.Tomorrow()),
		TodayGrid:    ft.Grid(ft.Today, q),
		TomorrowGrid: ft.Grid(ft.Tomorrow(), q),
		Update:       doc.Fact.Update,
		ContentHash:  doc.Meta.ContentHash,
	})
}

// runs accepts since and until as RFC 3339 times, limit as a count and
// changed=true to list only runs that changed the schedule.
func (h *handler) runs(w http.ResponseWriter, r *http.Request) {
	if h.deps.Runs == nil {
		writeJSON(w, http.StatusOK, []runlog.Record{})
		return
	}
	params := r.URL.Query()
	q := runlog.Query{Limit: DefaultRunsLimit}
	var err error
	if s := params.Get("since"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			writeError(w, http.StatusBadRequest, "invalid since")
			return
		}
	}
	if s := params.Get("until"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			writeError(w, http.StatusBadRequest, "invalid until")
			return
		}
	}
	if s := params.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		q.Limit = n
	}
	if s := params.Get("changed"); s != "" {
		q.ChangedOnly, err = strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid changed")
			return
		}
	}
	recs, err := h.deps.Runs.Query(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []runlog.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
