package model

type PriorityCount struct {
	Priority Priority `json:"priority"`
	Count    int64    `json:"count"`
}

type DepartmentCount struct {
	Department Department `json:"department"`
	Count      int64      `json:"count"`
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// DailyCount is one day of the submission trend, Day formatted YYYY-MM-DD.
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// DashboardStats is an eventually-consistent snapshot of the record store,
// scoped to one department or to all of them.
type DashboardStats struct {
	Department       Department        `json:"department"`
	PriorityCounts   []PriorityCount   `json:"priority_counts"`
	DepartmentCounts []DepartmentCount `json:"department_counts"`
	StatusCounts     []StatusCount     `json:"status_counts"`
	DailyTrend       []DailyCount      `json:"daily_trend"`
	Total            int64             `json:"total"`
}
