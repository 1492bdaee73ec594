package karomah

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"baknusai-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, students, journals string) (*httptest.Server, *int64) {
	t.Helper()
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if r.URL.Path != "/api/data-sharing" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("token") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("type") {
		case typeStudents:
			fmt.Fprintf(w, `{"success":true,"data":%s}`, students)
		case typeJournals:
			fmt.Fprintf(w, `{"success":true,"data":%s}`, journals)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestSummary(t *testing.T) {
	srv, _ := newTestServer(t,
		`[{"nama":"Budi","nis":"101"},{"nama":"Siti","nis":"102"}]`,
		`[{"nis":"101"},{"nis":"101"},{"nis":"102"}]`,
	)
	c := NewClient(srv.URL, "secret", logger.NewNopLogger())

	block := c.Summary(context.Background())

	assert.Contains(t, block, "Statistik Aplikasi Karomah")
	assert.Contains(t, block, "**2** orang")
	assert.Contains(t, block, "**3** jurnal")
}

func TestSummary_IsCached(t *testing.T) {
	srv, hits := newTestServer(t, `[]`, `[]`)
	c := NewClient(srv.URL, "secret", logger.NewNopLogger())

	first := c.Summary(context.Background())
	callsAfterFirst := atomic.LoadInt64(hits)
	second := c.Summary(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, atomic.LoadInt64(hits), "second call must come from cache")
}

func TestSummary_DegradesOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "secret", logger.NewNopLogger())

	assert.Empty(t, c.Summary(context.Background()))
}

func TestSummary_DegradesOnSuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"success":false,"data":null}`)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "secret", logger.NewNopLogger())

	assert.Empty(t, c.Summary(context.Background()))
}

func TestSearchByName(t *testing.T) {
	srv, _ := newTestServer(t,
		`[
			{"nama":"Budi Santoso","nis":"101","kelas":"XI RPL 1","status":"Puasa lancar"},
			{"nama":"Budiman","nis":"102","kelas":"XI TKJ 2","status":""},
			{"nama":"Siti","nis":"103","kelas":"XII RPL 1","status":"ok"}
		]`,
		`[{"nis":"101"},{"nis":"101"},{"nis":"103"}]`,
	)
	c := NewClient(srv.URL, "secret", logger.NewNopLogger())

	block := c.SearchByName(context.Background(), "budi")

	assert.Contains(t, block, "Budi Santoso")
	assert.Contains(t, block, "Budiman")
	assert.NotContains(t, block, "Siti")
	assert.Contains(t, block, "Total Jurnal Ramadan Terlaksana: 2 catatan")
	assert.Contains(t, block, "Tidak ada status")
}

func TestSearchByName_NoMatch(t *testing.T) {
	srv, _ := newTestServer(t, `[{"nama":"Budi","nis":"101"}]`, `[]`)
	c := NewClient(srv.URL, "secret", logger.NewNopLogger())

	assert.Empty(t, c.SearchByName(context.Background(), "zulkifli"))
}

func TestSearchByName_CapsAtTen(t *testing.T) {
	students := "["
	for i := 0; i < 15; i++ {
		if i > 0 {
			students += ","
		}
		students += fmt.Sprintf(`{"nama":"Budi %d","nis":"%d"}`, i, 100+i)
	}
	students += "]"

	srv, _ := newTestServer(t, students, `[]`)
	c := NewClient(srv.URL, "secret", logger.NewNopLogger())

	block := c.SearchByName(context.Background(), "budi")

	assert.Contains(t, block, "Budi 9")
	assert.NotContains(t, block, "Budi 10")
}
