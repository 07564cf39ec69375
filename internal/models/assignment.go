package models

import "errors"

// Assignment links one Employee to one Project over a date range with a
// complexity score.
type Assignment struct {
	ID             int64   `json:"id"`
	ProjectID      int64   `json:"project_id"`
	EmployeeID     int64   `json:"employee_id"`
	IssueDate      Date    `json:"issue_date"`
	PlannedEndDate Date    `json:"planned_end_date"`
	ActualEndDate  *Date   `json:"actual_end_date,omitempty"`
	Complexity     float64 `json:"complexity"`
}

// CreateAssignmentRequest is the request body for POST /assignments.
// actual_end_date is optional.
type CreateAssignmentRequest struct {
	ProjectID      *int64   `json:"project_id"`
	EmployeeID     *int64   `json:"employee_id"`
	IssueDate      *Date    `json:"issue_date"`
	PlannedEndDate *Date    `json:"planned_end_date"`
	ActualEndDate  *Date    `json:"actual_end_date"`
	Complexity     *float64 `json:"complexity"`
}

func (r *CreateAssignmentRequest) Validate() error {
	if r.ProjectID == nil || *r.ProjectID <= 0 {
		return errors.New("project_id is required and must be positive")
	}
	if r.EmployeeID == nil || *r.EmployeeID <= 0 {
		return errors.New("employee_id is required and must be positive")
	}
	if r.IssueDate == nil {
		return errors.New("issue_date is required")
	}
	if r.PlannedEndDate == nil {
		return errors.New("planned_end_date is required")
	}
	if r.Complexity == nil {
		return errors.New("complexity is required")
	}
	return nil
}
