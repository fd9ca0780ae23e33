package http

import (
	"bankdash/internal/core"
	"bankdash/internal/dashboard"
	"bankdash/internal/filter"
	"bankdash/internal/sections"
)

var facetLabels = map[string]string{
	filter.FacetGender:      "Gender",
	filter.FacetMonth:       "Month",
	filter.FacetQuarter:     "Quarter",
	filter.FacetCardType:    "Card Type",
	filter.FacetAccountType: "Account Type",
}

type navItem struct {
	Title  string
	URL    string
	Active bool
}

type optionView struct {
	Value   string
	Checked bool
}

type facetView struct {
	Name    string
	Label   string
	Options []optionView
}

type kpiView struct {
	Label   string
	Display string
}

type cellView struct {
	Display string
	Width   int
}

type rowView struct {
	Key   string
	Cells []cellView
}

type tableView struct {
	Title    string
	Chart    string
	KeyLabel string
	Columns  []string
	Rows     []rowView
}

type sectionPage struct {
	Title    string
	Section  string
	Username string
	Nav      []navItem
	Facets   []facetView
	Status   string
	Message  string
	Records  int
	Source   string
	KPIs     []kpiView
	Tables   []tableView
}

// sectionURL links to a section, carrying the selection when there is one.
func sectionURL(section string, sel *filter.Selection) string {
	u := "/sections/" + section
	if sel != nil {
		u += "?" + sel.Values().Encode()
	}
	return u
}

func buildNav(active string, sel filter.Selection) []navItem {
	items := make([]navItem, 0, len(core.Sections()))
	for _, name := range core.Sections() {
		items = append(items, navItem{
			Title:  core.SectionTitle(name),
			URL:    sectionURL(name, &sel),
			Active: name == active,
		})
	}
	return items
}

func buildFacets(opts filter.Options, sel filter.Selection) []facetView {
	out := make([]facetView, 0, len(filter.Facets))
	for _, name := range filter.Facets {
		set := sel.Set(name)
		fv := facetView{Name: name, Label: facetLabels[name]}
		for _, v := range opts.Values(name) {
			fv.Options = append(fv.Options, optionView{Value: v, Checked: set.Contains(v)})
		}
		out = append(out, fv)
	}
	return out
}

func buildKPIs(kpis []sections.KPI) []kpiView {
	out := make([]kpiView, len(kpis))
	for i, k := range kpis {
		out[i] = kpiView{Label: k.Label, Display: formatValue(k.Value, k.Format)}
	}
	return out
}

func buildTables(tables []sections.Table) []tableView {
	out := make([]tableView, 0, len(tables))
	for _, t := range tables {
		tv := tableView{Title: t.Title, Chart: t.Chart, KeyLabel: t.KeyLabel, Columns: t.Columns}
		for _, r := range t.Rows {
			rv := rowView{Key: r.Key}
			for c, v := range r.Values {
				rv.Cells = append(rv.Cells, cellView{Display: formatCell(v), Width: barWidth(v, t.Max(c))})
			}
			tv.Rows = append(tv.Rows, rv)
		}
		out = append(out, tv)
	}
	return out
}

func newSectionPage(res dashboard.Result, username string, opts filter.Options, sel filter.Selection, source string) sectionPage {
	p := sectionPage{
		Title:    res.Title,
		Section:  res.Section,
		Username: username,
		Nav:      buildNav(res.Section, sel),
		Facets:   buildFacets(opts, sel),
		Status:   string(res.Status),
		Message:  res.Message(),
		Source:   source,
	}
	if res.Status == dashboard.StatusOK {
		p.Records = res.Summary.Records
		p.KPIs = buildKPIs(res.Summary.KPIs)
		p.Tables = buildTables(res.Summary.Tables)
	}
	return p
}
