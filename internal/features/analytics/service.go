package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"resolvex/internal/features/audit"
	"resolvex/internal/features/department"
	"resolvex/internal/features/staff"
	"resolvex/pkg/export"
)

const trendDays = 30

type Service interface {
	Summarize(ctx context.Context) (*Summary, error)
	Export(ctx context.Context, format string) (data []byte, contentType string, err error)
}

type ServiceImpl struct {
	Repo         Repository
	Staff        staff.Repository
	Departments  department.Repository
	AuditService audit.Service
	CSV          *export.CSVExporter
	PDF          *export.PDFExporter
	XLSX         *export.XLSXExporter
}

func NewService(repo Repository, staffRepo staff.Repository, departments department.Repository,
	auditService audit.Service) Service {
	return &ServiceImpl{
		Repo:         repo,
		Staff:        staffRepo,
		Departments:  departments,
		AuditService: auditService,
		CSV:          export.NewCSVExporter(),
		PDF:          export.NewPDFExporter(),
		XLSX:         export.NewXLSXExporter(),
	}
}

func (s *ServiceImpl) Summarize(ctx context.Context) (*Summary, error) {
	total, err := s.Repo.Total(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: total}
	if summary.ByStatus, err = s.Repo.CountBy(ctx, "status"); err != nil {
		return nil, err
	}
	if summary.ByCategory, err = s.Repo.CountBy(ctx, "category"); err != nil {
		return nil, err
	}
	if summary.ByPriority, err = s.Repo.CountBy(ctx, "priority"); err != nil {
		return nil, err
	}
	if summary.DailyTrend, err = s.Repo.DailyTrend(ctx, trendDays); err != nil {
		return nil, err
	}

	var resolved int64
	for _, row := range summary.ByStatus {
		if row.Key == "resolved" {
			resolved = row.Count
		}
	}
	summary.ResolutionRate = staff.ResolutionRate(resolved, total)

	deptRows, err := s.Repo.PerDepartment(ctx)
	if err != nil {
		return nil, err
	}
	deptIDs := make([]primitive.ObjectID, 0, len(deptRows))
	for _, row := range deptRows {
		deptIDs = append(deptIDs, row.ID)
	}
	deptsByID, err := s.Departments.FindByIDs(ctx, deptIDs)
	if err != nil {
		return nil, err
	}
	summary.ByDepartment = make([]DepartmentRow, 0, len(deptRows))
	for _, row := range deptRows {
		summary.ByDepartment = append(summary.ByDepartment, DepartmentRow{
			DepartmentID: row.ID.Hex(),
			Name:         deptsByID[row.ID].Name,
			Total:        row.Total,
			Resolved:     row.Resolved,
		})
	}

	staffRows, err := s.Repo.PerStaff(ctx)
	if err != nil {
		return nil, err
	}
	staffIDs := make([]primitive.ObjectID, 0, len(staffRows))
	for _, row := range staffRows {
		staffIDs = append(staffIDs, row.ID)
	}
	staffNames, err := s.Staff.NamesByIDs(ctx, staffIDs)
	if err != nil {
		return nil, err
	}
	summary.StaffPerf = make([]StaffRow, 0, len(staffRows))
	for _, row := range staffRows {
		avgDays := 0.0
		if row.AvgDays != nil {
			avgDays = math.Round(*row.AvgDays*10) / 10
		}
		summary.StaffPerf = append(summary.StaffPerf, StaffRow{
			StaffID:           row.ID.Hex(),
			Name:              staffNames[row.ID],
			Assigned:          row.Assigned,
			Resolved:          row.Resolved,
			ResolutionRate:    staff.ResolutionRate(row.Resolved, row.Assigned),
			AvgResolutionDays: avgDays,
		})
	}

	return summary, nil
}

func (s *ServiceImpl) Export(ctx context.Context, format string) ([]byte, string, error) {
	summary, err := s.Summarize(ctx)
	if err != nil {
		return nil, "", err
	}

	var data []byte
	var contentType string
	switch format {
	case "csv":
		data, err = s.CSV.Render(summaryDataset(summary))
		contentType = "text/csv"
	case "xlsx":
		data, err = s.XLSX.Render(summaryDataset(summary), "Analytics")
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, err = s.renderPDF(summary)
		contentType = "application/pdf"
	default:
		return nil, "", errors.New("unsupported export format")
	}
	if err != nil {
		return nil, "", err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionAnalyticsExport,
		Category:    "analytics",
		Severity:    audit.SeverityMedium,
		TargetModel: "Analytics",
		Description: "format=" + format,
	})
	return data, contentType, nil
}

// summaryDataset flattens the summary into one table with a trailing
// statistics block.
func summaryDataset(summary *Summary) export.Dataset {
	headers := []string{"Section", "Key", "Count"}
	rows := make([]map[string]string, 0)

	appendRows := func(section string, counts []CountRow) {
		for _, row := range counts {
			rows = append(rows, map[string]string{
				"Section": section,
				"Key":     row.Key,
				"Count":   fmt.Sprintf("%d", row.Count),
			})
		}
	}
	appendRows("status", summary.ByStatus)
	appendRows("category", summary.ByCategory)
	appendRows("priority", summary.ByPriority)
	for _, row := range summary.ByDepartment {
		rows = append(rows, map[string]string{
			"Section": "department",
			"Key":     row.Name,
			"Count":   fmt.Sprintf("%d", row.Total),
		})
	}
	for _, row := range summary.StaffPerf {
		rows = append(rows, map[string]string{
			"Section": "staff",
			"Key":     row.Name,
			"Count":   fmt.Sprintf("%d", row.Assigned),
		})
	}

	return export.Dataset{
		Headers: headers,
		Rows:    rows,
		Summary: [][2]string{
			{"Total complaints", fmt.Sprintf("%d", summary.Total)},
			{"Resolution rate", fmt.Sprintf("%d%%", summary.ResolutionRate)},
			{"Generated", time.Now().Format(time.RFC3339)},
		},
	}
}

func (s *ServiceImpl) renderPDF(summary *Summary) ([]byte, error) {
	report := s.PDF.NewReport("Complaint Analytics Report",
		"Generated "+time.Now().Format("January 2, 2006"))

	report.Section("Executive Summary")
	report.KeyValues([][2]string{
		{"Total complaints", fmt.Sprintf("%d", summary.Total)},
		{"Overall resolution rate", fmt.Sprintf("%d%%", summary.ResolutionRate)},
		{"Reporting window", fmt.Sprintf("last %d days (trend)", trendDays)},
	})

	report.Section("Complaints by Status")
	if err := report.Table(countDataset("Status", summary.ByStatus)); err != nil {
		return nil, err
	}
	report.Section("Complaints by Category")
	if err := report.Table(countDataset("Category", summary.ByCategory)); err != nil {
		return nil, err
	}
	report.Section("Complaints by Priority")
	if err := report.Table(countDataset("Priority", summary.ByPriority)); err != nil {
		return nil, err
	}

	report.Section("Time Analysis")
	if err := report.Table(countDataset("Date", trendCounts(summary.DailyTrend))); err != nil {
		return nil, err
	}

	report.Section("Staff Performance")
	staffTable := export.Dataset{
		Headers: []string{"Name", "Assigned", "Resolved", "Rate", "Avg Days"},
	}
	for _, row := range summary.StaffPerf {
		staffTable.Rows = append(staffTable.Rows, map[string]string{
			"Name":     row.Name,
			"Assigned": fmt.Sprintf("%d", row.Assigned),
			"Resolved": fmt.Sprintf("%d", row.Resolved),
			"Rate":     fmt.Sprintf("%d%%", row.ResolutionRate),
			"Avg Days": fmt.Sprintf("%.1f", row.AvgResolutionDays),
		})
	}
	if err := report.Table(staffTable); err != nil {
		return nil, err
	}

	report.Section("Recommendations")
	for _, line := range recommendations(summary) {
		report.Paragraph(line)
	}

	return report.Output()
}

func countDataset(label string, counts []CountRow) export.Dataset {
	ds := export.Dataset{Headers: []string{label, "Count"}}
	for _, row := range counts {
		ds.Rows = append(ds.Rows, map[string]string{
			label:   row.Key,
			"Count": fmt.Sprintf("%d", row.Count),
		})
	}
	return ds
}

func trendCounts(trend []TrendRow) []CountRow {
	rows := make([]CountRow, 0, len(trend))
	for _, t := range trend {
		rows = append(rows, CountRow{Key: t.Date, Count: t.Count})
	}
	return rows
}

// recommendations derives plain-language advice from the aggregates.
func recommendations(summary *Summary) []string {
	var lines []string
	if summary.ResolutionRate < 50 && summary.Total > 0 {
		lines = append(lines, "Overall resolution rate is below 50%. Review staffing levels and unassigned backlog.")
	}
	for _, row := range summary.ByPriority {
		if row.Key == "critical" && row.Count > 0 {
			lines = append(lines, fmt.Sprintf("%d critical complaints are open or recorded. Verify each has an active assignee.", row.Count))
		}
	}
	if len(summary.ByDepartment) > 0 {
		top := summary.ByDepartment[0]
		lines = append(lines, fmt.Sprintf("%s carries the highest load (%d complaints). Consider rebalancing via routing rules.", top.Name, top.Total))
	}
	if len(lines) == 0 {
		lines = append(lines, "No immediate actions suggested. Complaint handling is within expected ranges.")
	}
	return lines
}
