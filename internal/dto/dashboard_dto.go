package dto

// AssignmentSummary aggregates homework counts for the dashboard.
type AssignmentSummary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Submitted int `json:"submitted"`
	Overdue   int `json:"overdue"`
	Locked    int `json:"locked"`
}

// StudentDashboardResponse is the per-student summary view.
type StudentDashboardResponse struct {
	UpcomingSessions []ScheduleResponse `json:"upcoming_sessions"`
	Assignments      AssignmentSummary  `json:"assignments"`
}
