package analytics

import (
	"bytes"
	"strings"
	"testing"

	"resolvex/pkg/export"
)

func sampleSummary() *Summary {
	return &Summary{
		Total: 42,
		ByStatus: []CountRow{
			{Key: "pending", Count: 10},
			{Key: "in-progress", Count: 12},
			{Key: "resolved", Count: 20},
		},
		ByCategory: []CountRow{
			{Key: "road", Count: 18},
			{Key: "water", Count: 24},
		},
		ByPriority: []CountRow{
			{Key: "critical", Count: 3},
			{Key: "medium", Count: 39},
		},
		ByDepartment: []DepartmentRow{
			{Name: "Public Works", Total: 30, Resolved: 15},
			{Name: "Water Board", Total: 12, Resolved: 5},
		},
		StaffPerf: []StaffRow{
			{Name: "Field Officer", Assigned: 20, Resolved: 15, ResolutionRate: 75, AvgResolutionDays: 2.5},
		},
		DailyTrend: []TrendRow{
			{Date: "2026-08-30", Count: 4},
			{Date: "2026-08-31", Count: 7},
		},
		ResolutionRate: 48,
	}
}

func TestSummaryDataset(t *testing.T) {
	ds := summaryDataset(sampleSummary())

	sections := map[string]int{}
	for _, row := range ds.Rows {
		sections[row["Section"]]++
	}
	want := map[string]int{"status": 3, "category": 2, "priority": 2, "department": 2, "staff": 1}
	for section, count := range want {
		if sections[section] != count {
			t.Errorf("section %q rows = %d, want %d", section, sections[section], count)
		}
	}

	if len(ds.Summary) == 0 || ds.Summary[0][1] != "42" {
		t.Errorf("summary block = %v, want leading total 42", ds.Summary)
	}
}

func TestCSVExportRender(t *testing.T) {
	data, err := export.NewCSVExporter().Render(summaryDataset(sampleSummary()))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "Section,Key,Count") {
		t.Errorf("csv header = %q", strings.SplitN(out, "\n", 2)[0])
	}
	for _, needle := range []string{"status,pending,10", "department,Public Works,30", "Resolution rate,48%"} {
		if !strings.Contains(out, needle) {
			t.Errorf("csv missing %q", needle)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	service := &ServiceImpl{PDF: export.NewPDFExporter()}

	data, err := service.renderPDF(sampleSummary())
	if err != nil {
		t.Fatalf("renderPDF() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output is not a PDF, starts with %q", data[:min(8, len(data))])
	}
}

func TestXLSXExportRender(t *testing.T) {
	data, err := export.NewXLSXExporter().Render(summaryDataset(sampleSummary()), "Analytics")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("output is not a zip container")
	}
}

func TestRecommendations(t *testing.T) {
	summary := sampleSummary()
	lines := recommendations(summary)

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "below 50%") {
		t.Errorf("low resolution rate not flagged: %v", lines)
	}
	if !strings.Contains(joined, "critical") {
		t.Errorf("critical backlog not flagged: %v", lines)
	}
	if !strings.Contains(joined, "Public Works") {
		t.Errorf("top department not flagged: %v", lines)
	}

	healthy := &Summary{Total: 10, ResolutionRate: 90}
	lines = recommendations(healthy)
	if len(lines) != 1 || !strings.Contains(lines[0], "No immediate actions") {
		t.Errorf("healthy summary should yield the default line, got %v", lines)
	}
}

func TestTrendCounts(t *testing.T) {
	rows := trendCounts([]TrendRow{{Date: "2026-08-30", Count: 4}})
	if len(rows) != 1 || rows[0].Key != "2026-08-30" || rows[0].Count != 4 {
		t.Errorf("trendCounts() = %+v", rows)
	}
}
