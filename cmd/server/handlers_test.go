package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cours-de-latin/grammaticus"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	e, err := grammaticus.New(context.Background())
	require.NoError(t, err)
	return newRouter(e, zap.NewNop(), []string{"*"})
}

func get(t *testing.T, h http.Handler, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandleClasses(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/api/classes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode[classesResponse](t, rec)
	require.Len(t, resp.Classes, 4)
	assert.Equal(t, classJSON{Class: "first-declension", POS: "noun", Gender: "feminine", Slots: 12}, resp.Classes[0])
	assert.Equal(t, classJSON{Class: "first-conjugation", POS: "verb", Slots: 36}, resp.Classes[3])
}

func TestHandleInflect(t *testing.T) {
	h := newTestRouter(t)
	tests := []struct {
		stem, class, slot string
		want              string
		variants          []string
	}{
		{"agu", "first-declension", "gen+pl", "aguarum", []string{"aguarum"}},
		{"agu", "first-declension", "noms", "agua", []string{"agua"}},
		{"de", "first-declension", "dative plural", "deabus", []string{"deabus", "deis"}},
		{"am", "first-conjugation", "2sg+pres+pass", "amaris", []string{"amaris", "amare"}},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			rec := get(t, h, "/api/inflect", url.Values{"stem": {tt.stem}, "class": {tt.class}, "slot": {tt.slot}})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			resp := decode[inflectResponse](t, rec)
			assert.Equal(t, tt.want, resp.Form)
			assert.Equal(t, tt.variants, resp.Variants)
		})
	}
}

func TestHandleInflectErrors(t *testing.T) {
	h := newTestRouter(t)
	tests := []struct {
		name  string
		query url.Values
		code  int
	}{
		{"missing slot", url.Values{"stem": {"agu"}, "class": {"first-declension"}}, http.StatusBadRequest},
		{"unknown class", url.Values{"stem": {"agu"}, "class": {"fifth"}, "slot": {"noms"}}, http.StatusBadRequest},
		{"unknown slot", url.Values{"stem": {"agu"}, "class": {"first-declension"}, "slot": {"locative+sg"}}, http.StatusBadRequest},
		{"verbal slot on noun", url.Values{"stem": {"agu"}, "class": {"first-declension"}, "slot": {"3sg+pres+act"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/api/inflect", tt.query)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
		})
	}
}

func TestHandleParadigm(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/api/paradigm", url.Values{"stem": {"agu"}, "class": {"first-declension"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[paradigmResponse](t, rec)
	require.Len(t, resp.Forms, 12)
	assert.Equal(t, formJSON{Slot: "nominative+singular", Form: "agua"}, resp.Forms[0])
	assert.False(t, resp.Irregular)

	rec = get(t, h, "/api/paradigm", url.Values{"stem": {"vir"}, "class": {"second-declension"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[paradigmResponse](t, rec)
	assert.True(t, resp.Irregular)
	assert.Equal(t, "vir", resp.Forms[0].Form)

	rec = get(t, h, "/api/paradigm", url.Values{"stem": {"Magister"}, "class": {"second-declension"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[paradigmResponse](t, rec)
	assert.Equal(t, "magistr", resp.Stem)
	assert.Equal(t, formJSON{Slot: "nominative+singular", Form: "magister"}, resp.Forms[0])
	assert.Equal(t, formJSON{Slot: "genitive+singular", Form: "magistri"}, resp.Forms[2])
}

func TestHandleAnalyze(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/api/analyze", url.Values{"form": {"puellae"}, "class": {"first-declension"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[readingsResponse](t, rec)
	require.Len(t, resp.Readings, 4)
	assert.Equal(t, readingJSON{Class: "first-declension", Stem: "puell", Slot: "nominative+plural"}, resp.Readings[0])

	rec = get(t, h, "/api/analyze", url.Values{"form": {"puellae"}, "class": {"first-declension"}, "number": {"singular"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[readingsResponse](t, rec)
	assert.Len(t, resp.Readings, 2)

	rec = get(t, h, "/api/analyze", url.Values{"form": {"deabus"}, "class": {"first-declension"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[readingsResponse](t, rec)
	require.Len(t, resp.Readings, 2)
	assert.True(t, resp.Readings[0].Irregular)

	rec = get(t, h, "/api/analyze", url.Values{"form": {"xyz"}, "class": {"first-declension"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, decode[readingsResponse](t, rec).Readings)

	rec = get(t, h, "/api/analyze", url.Values{"form": {"puellae"}, "class": {"first-declension"}, "number": {"dual"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStem(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/api/stem", url.Values{"form": {"puellam"}, "class": {"first-declension"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stemResponse{Form: "puellam", Class: "first-declension", Stem: "puell"}, decode[stemResponse](t, rec))

	rec = get(t, h, "/api/stem", url.Values{"form": {"xyz"}, "class": {"first-declension"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/api/stem", url.Values{"form": {"rex"}, "class": {"third-declension"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleIdentify(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/api/identify", url.Values{"form": {"amabant"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[readingsResponse](t, rec)
	assert.Equal(t, []readingJSON{{
		Class: "first-conjugation",
		Stem:  "am",
		Slot:  "indicative+imperfect+active+third+plural",
	}}, resp.Readings)

	rec = get(t, h, "/api/identify", url.Values{"form": {"xyz"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/api/identify", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterMisc(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/classes", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET required", decode[errorResponse](t, rec).Error)

	rec = get(t, h, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "grammaticus_http_requests_total")
}

func TestRouterCORS(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/classes", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
