package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func float64Ptr(f float64) *float64 { return &f }
func int64Ptr(i int64) *int64       { return &i }

func datePtr(t *testing.T, s string) *Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return &d
}

func TestCreateProjectRequestValidate(t *testing.T) {
	valid := CreateProjectRequest{
		Name:       "Alpha",
		Deadline:   datePtr(t, "2025-12-01"),
		Complexity: float64Ptr(3.5),
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  CreateProjectRequest
	}{
		{"missing name", CreateProjectRequest{Deadline: valid.Deadline, Complexity: valid.Complexity}},
		{"blank name", CreateProjectRequest{Name: "   ", Deadline: valid.Deadline, Complexity: valid.Complexity}},
		{"missing deadline", CreateProjectRequest{Name: "Alpha", Complexity: valid.Complexity}},
		{"missing complexity", CreateProjectRequest{Name: "Alpha", Deadline: valid.Deadline}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestCreateEmployeeRequestValidate(t *testing.T) {
	dept := "IT"
	valid := CreateEmployeeRequest{FullName: "Jane Doe", Position: "Developer", Department: &dept}
	assert.NoError(t, valid.Validate())

	// department is optional
	assert.NoError(t, (&CreateEmployeeRequest{FullName: "Jane Doe", Position: "Developer"}).Validate())

	assert.Error(t, (&CreateEmployeeRequest{Position: "Developer"}).Validate())
	assert.Error(t, (&CreateEmployeeRequest{FullName: "Jane Doe"}).Validate())
	assert.Error(t, (&CreateEmployeeRequest{FullName: " ", Position: " "}).Validate())
}

func TestCreateAssignmentRequestValidate(t *testing.T) {
	valid := CreateAssignmentRequest{
		ProjectID:      int64Ptr(1),
		EmployeeID:     int64Ptr(2),
		IssueDate:      datePtr(t, "2025-01-10"),
		PlannedEndDate: datePtr(t, "2025-03-10"),
		Complexity:     float64Ptr(2.0),
	}
	assert.NoError(t, valid.Validate())

	// actual_end_date stays optional
	withActual := valid
	withActual.ActualEndDate = datePtr(t, "2025-02-28")
	assert.NoError(t, withActual.Validate())

	tests := []struct {
		name   string
		mutate func(r *CreateAssignmentRequest)
	}{
		{"missing project_id", func(r *CreateAssignmentRequest) { r.ProjectID = nil }},
		{"non-positive project_id", func(r *CreateAssignmentRequest) { r.ProjectID = int64Ptr(0) }},
		{"missing employee_id", func(r *CreateAssignmentRequest) { r.EmployeeID = nil }},
		{"non-positive employee_id", func(r *CreateAssignmentRequest) { r.EmployeeID = int64Ptr(-1) }},
		{"missing issue_date", func(r *CreateAssignmentRequest) { r.IssueDate = nil }},
		{"missing planned_end_date", func(r *CreateAssignmentRequest) { r.PlannedEndDate = nil }},
		{"missing complexity", func(r *CreateAssignmentRequest) { r.Complexity = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}
