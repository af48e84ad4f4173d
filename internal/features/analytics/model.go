package analytics

// CountRow is one bucket of a grouped count.
type CountRow struct {
	Key   string `json:"key" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// DepartmentRow aggregates complaint load per department.
type DepartmentRow struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Total        int64  `json:"total"`
	Resolved     int64  `json:"resolved"`
}

// StaffRow aggregates assignment performance per staff member.
type StaffRow struct {
	StaffID           string  `json:"staff_id"`
	Name              string  `json:"name"`
	Assigned          int64   `json:"assigned"`
	Resolved          int64   `json:"resolved"`
	ResolutionRate    int     `json:"resolution_rate"`
	AvgResolutionDays float64 `json:"avg_resolution_days"`
}

// TrendRow is one day of the submission trend.
type TrendRow struct {
	Date  string `json:"date" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// Summary is the full analytics payload for the admin dashboard.
type Summary struct {
	Total          int64           `json:"total"`
	ByStatus       []CountRow      `json:"by_status"`
	ByCategory     []CountRow      `json:"by_category"`
	ByPriority     []CountRow      `json:"by_priority"`
	ByDepartment   []DepartmentRow `json:"by_department"`
	StaffPerf      []StaffRow      `json:"staff_performance"`
	DailyTrend     []TrendRow      `json:"daily_trend"`
	ResolutionRate int             `json:"resolution_rate"`
}
