package esvitlo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/svitlo/config"
	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/model"
	"github.com/kilianp07/svitlo/core/source"
)

var kyiv = time.FixedZone("UTC+2", 7200)

func cabinet(t *testing.T, status map[string]int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("email") != "user@example.com" || r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		_, _ = fmt.Fprint(w, "<a href=\"/logout\">Вихід</a>")
	})
	mux.HandleFunc(cabinetPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(disconnectionsPath, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		eic := r.URL.Query().Get("eic")
		if code, ok := status[eic]; ok {
			w.WriteHeader(code)
			return
		}
		assert.Equal(t, "1", r.URL.Query().Get("type_user"))
		assert.Equal(t, "290637", r.URL.Query().Get("a"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"planned_list_cab":[
			{"accidentid":0,"acc_begin":"2025-01-10 07:15:00","accend_plan":"2025-01-10 09:10:00","typeid":1},
			{"accidentid":12,"acc_begin":"2025-01-10 10:00:00","accend_plan":"2025-01-10 11:00:00","typeid":2},
			{"accidentid":"0","acc_begin":"2025-01-11T14:00:00","accend_plan":"2025-01-11T16:00:00"},
			{"accidentid":0,"acc_begin":"bad","accend_plan":"2025-01-11T16:00:00"}
		]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) config.ESvitloConfig {
	cfg := config.ESvitloConfig{
		BaseURL:           url,
		Login:             "user@example.com",
		Password:          "secret",
		Account:           "290637",
		EIC:               map[string]string{"1.1": "EIC11", "1.2": "EIC12", "2.1": "EIC21"},
		RequestsPerSecond: 1000,
		TimeoutSeconds:    5,
	}
	return cfg
}

func TestFetch(t *testing.T) {
	srv := cabinet(t, map[string]int{"EIC21": http.StatusInternalServerError})
	c := New(testConfig(srv.URL), kyiv)
	c.SetLogger(logger.Nop{})

	res, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.QueueKey{"1.1", "1.2"}, res.Fetched())
	assert.NotContains(t, res, model.QueueKey("2.1"), "failed queue must be absent")
	ivs := res["1.1"]
	require.Len(t, ivs, 2)
	assert.Equal(t, time.Date(2025, 1, 10, 7, 15, 0, 0, kyiv), ivs[0].Start)
	assert.Equal(t, 14, ivs[1].Start.Hour())
}

func TestFetchRejectedLogin(t *testing.T) {
	srv := cabinet(t, nil)
	cfg := testConfig(srv.URL)
	cfg.Password = "wrong"
	c := New(cfg, kyiv)
	c.SetLogger(logger.Nop{})

	_, err := c.Fetch(context.Background())
	assert.True(t, errors.Is(err, source.ErrUnauthorized))
}

func TestFetchMissingCredentials(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Login = ""
	_, err := New(cfg, kyiv).Fetch(context.Background())
	assert.True(t, errors.Is(err, source.ErrUnauthorized))
}

func TestPlannedFilter(t *testing.T) {
	r := disconnectionsResponse{PlannedListCab: []plannedItem{
		{AccidentID: "0", Begin: "a", EndPlan: "b"},
		{AccidentID: "3", Begin: "c", EndPlan: "d"},
		{Begin: "e", EndPlan: "f"},
	}}
	assert.Equal(t, []source.Record{{Start: "a", End: "b"}}, r.records())
}
