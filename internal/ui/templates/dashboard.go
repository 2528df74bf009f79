// Package templates renders the dashboard page and the startup error page as
// templ components.
package templates

import (
	"encoding/json"
	"html/template"
	"time"

	"github.com/a-h/templ"

	"supermarket-dashboard/internal/models"
)

const (
	PageTitle     = "Dashboard Analisis Penjualan Supermarket"
	datasetSource = "https://www.kaggle.com/datasets/aungpyaeap/supermarket-sales"
)

type MetricOption struct {
	Value string
	Label string
}

// DashboardView is everything the page needs besides the chart data, which
// arrives over SSE after load.
type DashboardView struct {
	Title string
	// BrandingImage is the sidebar image URL. Empty omits the image.
	BrandingImage string
	MinDate       string
	MaxDate       string
	Metrics       []MetricOption
	PreviewRows   int
	TotalRows     int
	Signals       string
}

// NewDashboardView prepares the page for a dataset spanning bounds. The
// initial signals select the Total metric and the full date range.
func NewDashboardView(bounds models.DateRange, brandingImage string, previewRows, totalRows int) DashboardView {
	view := DashboardView{
		Title:         PageTitle,
		BrandingImage: brandingImage,
		PreviewRows:   previewRows,
		TotalRows:     totalRows,
	}
	if !bounds.Start.IsZero() {
		view.MinDate = bounds.Start.Format(time.DateOnly)
		view.MaxDate = bounds.End.Format(time.DateOnly)
	}
	for _, m := range models.Metrics {
		view.Metrics = append(view.Metrics, MetricOption{Value: string(m), Label: m.Label()})
	}

	signals, _ := json.Marshal(map[string]any{
		"trendMetric":    models.MetricTotal,
		"categoryMetric": models.MetricTotal,
		"startDate":      view.MinDate,
		"endDate":        view.MaxDate,
		"trendChart":     nil,
		"categoryChart":  nil,
		"heatmapChart":   nil,
		"genderChart":    nil,
	})
	view.Signals = string(signals)
	return view
}

func Dashboard(view DashboardView) templ.Component {
	return templ.FromGoHTML(dashboardTemplate.Lookup("layout"), view)
}

// Unavailable is the page served when the dataset failed to load.
func Unavailable(message string) templ.Component {
	return templ.FromGoHTML(dashboardTemplate.Lookup("unavailable"), struct {
		Title   string
		Message string
	}{PageTitle, message})
}

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"datasetSource": func() string { return datasetSource },
}).Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="icon" href="data:,">
<link rel="stylesheet" href="/assets/dashboard.css">
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"></script>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<script src="/assets/dashboard.js"></script>
</head>
{{end}}

{{define "layout"}}{{template "head" .}}
<body data-signals="{{.Signals}}" data-init="@get('/sse/refresh-all')">
<aside class="sidebar">
<p>Hello 👋</p>
{{if .BrandingImage}}<img src="{{.BrandingImage}}" alt="Data science" class="branding">{{end}}
<p>Saya Toni Andreas Susanto mempersembahkan Dashboard Analisis Penjualan Supermarket
sebuah alat yang memudahkan menganalisis data perusahaan dengan visualisasi yang mendalam
dan interaktif. Mari menemukan berbagai insight dari perusahaan kami.</p>
<p class="caption">Copyright © Toni Andreas Susanto 2024</p>
</aside>

<main class="content">
<section id="header">
<h1>{{.Title}}</h1>
<p>Analisis ini menggunakan bahasa pemrograman Go dan visualisasi interaktif (Plotly).
Data yang digunakan adalah data penjualan supermarket yang diperoleh dari
<a href="{{datasetSource}}">{{datasetSource}}</a>.</p>
</section>

<section id="preview">
<details>
<summary>Klik untuk melihat detail dataset!</summary>
<p>Data Penjualan Supermarket ({{.TotalRows}} transaksi, {{.PreviewRows}} baris pertama)</p>
<div id="preview-content"></div>
</details>
</section>

<section id="trend">
<h3>1: Bagaimana Performa (Total, Quantity, Gross Income) Perusahaan dalam Rentang Tertentu?</h3>
<fieldset data-on:change="@get('/sse/trend')">
<legend>Pick One Indicator!</legend>
{{range .Metrics}}<label><input type="radio" name="trendMetric" value="{{.Value}}" data-bind="trendMetric"> {{.Label}}</label>
{{end}}</fieldset>
<div class="date-range" data-on:change="@get('/sse/trend')">
<label>Pick a Date Range
<input type="date" min="{{.MinDate}}" max="{{.MaxDate}}" data-bind="startDate">
<input type="date" min="{{.MinDate}}" max="{{.MaxDate}}" data-bind="endDate">
</label>
</div>
<div id="trend-chart" class="chart" data-effect="renderChart('trend-chart', $trendChart)"></div>
</section>

<section id="category">
<h3>2: Bagaimana Performa (Total, Quantity, Gross Income) pada Setiap Product Line?</h3>
<fieldset data-on:change="@get('/sse/categories')">
<legend>Pick One Indicator (Bar Chart) !</legend>
{{range .Metrics}}<label><input type="radio" name="categoryMetric" value="{{.Value}}" data-bind="categoryMetric"> {{.Label}}</label>
{{end}}</fieldset>
<div id="category-chart" class="chart" data-effect="renderChart('category-chart', $categoryChart)"></div>
</section>

<section id="heatmap">
<h3>3: Bagaimana Persebaran Total Penjualan dalam Hari maupun Jam Tertentu?</h3>
<div id="heatmap-chart" class="chart" data-effect="renderChart('heatmap-chart', $heatmapChart)"></div>
</section>

<section id="gender">
<h3>4: Bagaimana Perbandingan Gender Pembeli di Setiap Product Line?</h3>
<div id="gender-chart" class="chart" data-effect="renderChart('gender-chart', $genderChart)"></div>
</section>
</main>
</body>
</html>
{{end}}

{{define "unavailable"}}{{template "head" .}}
<body>
<main class="content">
<h1>{{.Title}}</h1>
<div class="error-banner" role="alert">
<p>{{.Message}}</p>
</div>
</main>
</body>
</html>
{{end}}
`))
