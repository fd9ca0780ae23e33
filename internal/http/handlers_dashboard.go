package http

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"bankdash/internal/core"
	"bankdash/internal/dashboard"
	"bankdash/internal/filter"
	"bankdash/internal/sections"
)

func (s *Server) handleSectionPage(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	if !core.IsSection(section) {
		http.NotFound(w, r)
		return
	}
	sess := sessionFrom(r.Context())
	store := sess.Store

	opts := filter.Observe(store)
	sel := ParseSelection(r, opts)
	res := s.dashboard.Section(r.Context(), store, sel, section)
	s.render(w, r, http.StatusOK, "section.html", newSectionPage(res, sess.Username, opts, sel, store.Source()))
}

type apiKPI struct {
	Name    string          `json:"name"`
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Format  string          `json:"format"`
	Display string          `json:"display"`
}

type apiRow struct {
	Key    string            `json:"key"`
	Values []decimal.Decimal `json:"values"`
}

type apiTable struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Chart    string   `json:"chart"`
	KeyLabel string   `json:"key_label"`
	Columns  []string `json:"columns"`
	Rows     []apiRow `json:"rows"`
}

type apiSection struct {
	Section    string     `json:"section"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	Message    string     `json:"message,omitempty"`
	Generation string     `json:"generation"`
	Cached     bool       `json:"cached"`
	Records    int        `json:"records"`
	KPIs       []apiKPI   `json:"kpis"`
	Tables     []apiTable `json:"tables"`
}

func toAPISection(res dashboard.Result, generation string) apiSection {
	out := apiSection{
		Section:    res.Section,
		Title:      res.Title,
		Status:     string(res.Status),
		Message:    res.Message(),
		Generation: generation,
		Cached:     res.Cached,
		KPIs:       []apiKPI{},
		Tables:     []apiTable{},
	}
	if res.Status != dashboard.StatusOK {
		return out
	}
	out.Records = res.Summary.Records
	for _, k := range res.Summary.KPIs {
		out.KPIs = append(out.KPIs, apiKPI{
			Name: k.Name, Label: k.Label, Value: k.Value, Format: k.Format,
			Display: formatValue(k.Value, k.Format),
		})
	}
	for _, t := range res.Summary.Tables {
		out.Tables = append(out.Tables, toAPITable(t))
	}
	return out
}

func toAPITable(t sections.Table) apiTable {
	at := apiTable{Name: t.Name, Title: t.Title, Chart: t.Chart, KeyLabel: t.KeyLabel, Columns: t.Columns, Rows: []apiRow{}}
	for _, r := range t.Rows {
		at.Rows = append(at.Rows, apiRow{Key: r.Key, Values: r.Values})
	}
	return at
}

// apiStatus maps a section outcome to an HTTP status. An empty selection is
// not an error.
func apiStatus(status dashboard.Status) int {
	switch status {
	case dashboard.StatusOK, dashboard.StatusEmpty:
		return http.StatusOK
	case dashboard.StatusSchemaError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleSectionAPI(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	store := sessionFrom(r.Context()).Store

	sel := ParseSelection(r, filter.Observe(store))
	res := s.dashboard.Section(r.Context(), store, sel, section)
	if errors.Is(res.Err, core.ErrUnknownSection) {
		JSONError(http.StatusNotFound, "unknown section: "+section).Write(w)
		return
	}

	NewResponse().Status(apiStatus(res.Status)).JSON(toAPISection(res, store.Generation())).Write(w)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	store := sessionFrom(r.Context()).Store
	NewResponse().JSON(filter.Observe(store)).Write(w)
}

// handleAllSectionsAPI computes every section for one selection. The status
// is 200 even when some sections failed; each entry carries its own status.
func (s *Server) handleAllSectionsAPI(w http.ResponseWriter, r *http.Request) {
	store := sessionFrom(r.Context()).Store
	sel := ParseSelection(r, filter.Observe(store))

	results := s.dashboard.All(r.Context(), store, sel)
	out := make([]apiSection, 0, len(results))
	for _, res := range results {
		out = append(out, toAPISection(res, store.Generation()))
	}
	NewResponse().JSON(map[string]any{
		"generation": store.Generation(),
		"sections":   out,
	}).Write(w)
}
