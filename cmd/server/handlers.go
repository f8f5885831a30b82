package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/cours-de-latin/grammaticus"
)

// ---- JSON response types ------------------------------------------------

type classJSON struct {
	Class  string `json:"class"`
	POS    string `json:"pos"`
	Gender string `json:"gender,omitempty"`
	Slots  int    `json:"slots"`
}

type classesResponse struct {
	Classes []classJSON `json:"classes"`
}

type inflectResponse struct {
	Stem     string   `json:"stem"`
	Class    string   `json:"class"`
	Slot     string   `json:"slot"`
	Form     string   `json:"form"`
	Variants []string `json:"variants"`
}

type formJSON struct {
	Slot string `json:"slot"`
	Form string `json:"form"`
}

type paradigmResponse struct {
	Stem      string     `json:"stem"`
	Class     string     `json:"class"`
	Irregular bool       `json:"irregular"`
	Forms     []formJSON `json:"forms"`
}

type readingJSON struct {
	Class     string `json:"class"`
	Stem      string `json:"stem"`
	Slot      string `json:"slot"`
	Irregular bool   `json:"irregular"`
}

type readingsResponse struct {
	Form     string        `json:"form"`
	Class    string        `json:"class,omitempty"`
	Readings []readingJSON `json:"readings"`
}

type stemResponse struct {
	Form  string `json:"form"`
	Class string `json:"class"`
	Stem  string `json:"stem"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

type api struct {
	engine *grammaticus.Engine
	logger *zap.Logger
}

func (a *api) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("encode error", zap.Error(err))
	}
}

func (a *api) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps engine errors onto HTTP statuses.
func (a *api) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, grammaticus.ErrNoStemFound):
		a.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, grammaticus.ErrUnknownClass),
		errors.Is(err, grammaticus.ErrUnknownSlot),
		errors.Is(err, grammaticus.ErrClassMismatch):
		a.writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error("request failed", zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// params reads required query parameters, writing a 400 when one is missing.
func (a *api) params(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	q := r.URL.Query()
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = strings.TrimSpace(q.Get(name))
		if out[i] == "" {
			a.writeError(w, http.StatusBadRequest, fmt.Sprintf("missing '%s' query parameter", name))
			return nil, false
		}
	}
	return out, true
}

func toReadingsJSON(ms []grammaticus.Match) []readingJSON {
	out := make([]readingJSON, 0, len(ms))
	for _, m := range ms {
		out = append(out, readingJSON{
			Class:     string(m.Class),
			Stem:      m.Stem,
			Slot:      m.Slot.Code(),
			Irregular: m.Exception != nil && m.Exception.Irregular,
		})
	}
	return out
}

func parseNumber(s string) (grammaticus.Number, error) {
	switch strings.ToLower(s) {
	case "singular", "sg", "s":
		return grammaticus.Singular, nil
	case "plural", "pl", "p":
		return grammaticus.Plural, nil
	}
	return 0, fmt.Errorf("unknown number %q", s)
}

// ---- handlers -----------------------------------------------------------

func (a *api) handleClasses(w http.ResponseWriter, r *http.Request) {
	out := classesResponse{Classes: []classJSON{}}
	for _, c := range a.engine.Classes() {
		p, err := a.engine.Paradigm(c)
		if err != nil {
			a.fail(w, err)
			return
		}
		cj := classJSON{Class: string(c), POS: p.POS.String(), Slots: len(p.Slots())}
		if p.Gender != grammaticus.GenderNone {
			cj.Gender = p.Gender.String()
		}
		out.Classes = append(out.Classes, cj)
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *api) handleInflect(w http.ResponseWriter, r *http.Request) {
	p, ok := a.params(w, r, "stem", "class", "slot")
	if !ok {
		return
	}
	stem, class := p[0], grammaticus.Class(p[1])
	slot, err := grammaticus.ParseSlot(p[2])
	if err != nil {
		a.fail(w, err)
		return
	}
	stem, exc, _ := a.engine.Exceptions().Resolve(class, grammaticus.Normalize(stem))

	form, err := a.engine.Inflect(stem, class, slot, exc)
	if err != nil {
		a.fail(w, err)
		return
	}
	variants, err := a.engine.Variants(stem, class, slot, exc)
	if err != nil {
		a.fail(w, err)
		return
	}
	lookups.WithLabelValues("inflect", result(true)).Inc()
	a.writeJSON(w, http.StatusOK, inflectResponse{
		Stem:     stem,
		Class:    string(class),
		Slot:     slot.Code(),
		Form:     form,
		Variants: variants,
	})
}

func (a *api) handleParadigm(w http.ResponseWriter, r *http.Request) {
	p, ok := a.params(w, r, "stem", "class")
	if !ok {
		return
	}
	stem, class := p[0], grammaticus.Class(p[1])
	stem, exc, _ := a.engine.Exceptions().Resolve(class, grammaticus.Normalize(stem))

	forms, err := a.engine.Decline(stem, class, exc)
	if err != nil {
		a.fail(w, err)
		return
	}
	out := paradigmResponse{
		Stem:      stem,
		Class:     string(class),
		Irregular: exc != nil && exc.Irregular,
		Forms:     make([]formJSON, 0, len(forms)),
	}
	for _, f := range forms {
		out.Forms = append(out.Forms, formJSON{Slot: f.Slot.Code(), Form: f.Text})
	}
	lookups.WithLabelValues("paradigm", result(true)).Inc()
	a.writeJSON(w, http.StatusOK, out)
}

func (a *api) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	p, ok := a.params(w, r, "form", "class")
	if !ok {
		return
	}
	form, class := p[0], grammaticus.Class(p[1])

	ms, err := a.engine.Readings(class, form)
	if err != nil {
		a.fail(w, err)
		return
	}
	if n := r.URL.Query().Get("number"); n != "" {
		num, err := parseNumber(n)
		if err != nil {
			a.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		keep := grammaticus.ByNumber(num)
		filtered := ms[:0]
		for _, m := range ms {
			if keep(m.Slot) {
				filtered = append(filtered, m)
			}
		}
		ms = filtered
	}

	status := http.StatusOK
	if len(ms) == 0 {
		status = http.StatusNotFound
	}
	lookups.WithLabelValues("analyze", result(len(ms) > 0)).Inc()
	a.writeJSON(w, status, readingsResponse{
		Form:     form,
		Class:    string(class),
		Readings: toReadingsJSON(ms),
	})
}

func (a *api) handleStem(w http.ResponseWriter, r *http.Request) {
	p, ok := a.params(w, r, "form", "class")
	if !ok {
		return
	}
	form, class := p[0], grammaticus.Class(p[1])

	stem, err := a.engine.ExtractStem(class, form)
	lookups.WithLabelValues("stem", result(err == nil)).Inc()
	if err != nil {
		a.fail(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, stemResponse{Form: form, Class: string(class), Stem: stem})
}

func (a *api) handleIdentify(w http.ResponseWriter, r *http.Request) {
	p, ok := a.params(w, r, "form")
	if !ok {
		return
	}
	ms := a.engine.Identify(p[0])

	status := http.StatusOK
	if len(ms) == 0 {
		status = http.StatusNotFound
	}
	lookups.WithLabelValues("identify", result(len(ms) > 0)).Inc()
	a.writeJSON(w, status, readingsResponse{Form: p[0], Readings: toReadingsJSON(ms)})
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- routing ------------------------------------------------------------

func newRouter(e *grammaticus.Engine, logger *zap.Logger, origins []string) http.Handler {
	a := &api{engine: e, logger: logger}

	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		observe(logger),
		cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet},
		}).Handler,
	)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		a.writeError(w, http.StatusMethodNotAllowed, "GET required")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.writeError(w, http.StatusNotFound, "no such endpoint")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/classes", a.handleClasses)
		r.Get("/inflect", a.handleInflect)
		r.Get("/paradigm", a.handleParadigm)
		r.Get("/analyze", a.handleAnalyze)
		r.Get("/stem", a.handleStem)
		r.Get("/identify", a.handleIdentify)
	})
	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
