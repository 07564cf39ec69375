package internal

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"staffing-api/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	rows, err := s.DB.QueryContext(r.Context(), `
		SELECT id, project_id, employee_id, issue_date, planned_end_date, actual_end_date, complexity
		FROM assignments ORDER BY id`)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.EmployeeID, &a.IssueDate, &a.PlannedEndDate, &a.ActualEndDate, &a.Complexity); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assignments)
}

func (s *Server) getAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	var a models.Assignment
	err = s.DB.QueryRowContext(r.Context(), `
		SELECT id, project_id, employee_id, issue_date, planned_end_date, actual_end_date, complexity
		FROM assignments WHERE id = $1`, id).
		Scan(&a.ID, &a.ProjectID, &a.EmployeeID, &a.IssueDate, &a.PlannedEndDate, &a.ActualEndDate, &a.Complexity)
	if err == sql.ErrNoRows {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

func (s *Server) createAssignment(w http.ResponseWriter, r *http.Request) {
	var in models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), 400)
		return
	}
	if err := in.Validate(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	var a models.Assignment
	err := s.DB.QueryRowContext(r.Context(), `
		INSERT INTO assignments (project_id, employee_id, issue_date, planned_end_date, actual_end_date, complexity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, project_id, employee_id, issue_date, planned_end_date, actual_end_date, complexity
	`, *in.ProjectID, *in.EmployeeID, *in.IssueDate, *in.PlannedEndDate, in.ActualEndDate, *in.Complexity).
		Scan(&a.ID, &a.ProjectID, &a.EmployeeID, &a.IssueDate, &a.PlannedEndDate, &a.ActualEndDate, &a.Complexity)
	if err != nil {
		if isForeignKeyViolation(err) {
			http.Error(w, "project_id or employee_id does not exist", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(a)
}

func (s *Server) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	res, err := s.DB.ExecContext(r.Context(), `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
