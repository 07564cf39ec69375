package internal

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"staffing-api/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	rows, err := s.DB.QueryContext(r.Context(), `
		SELECT id, full_name, position, department
		FROM employees ORDER BY id`)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.FullName, &e.Position, &e.Department); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(employees)
}

func (s *Server) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	var e models.Employee
	err = s.DB.QueryRowContext(r.Context(), `
		SELECT id, full_name, position, department
		FROM employees WHERE id = $1`, id).
		Scan(&e.ID, &e.FullName, &e.Position, &e.Department)
	if err == sql.ErrNoRows {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(e)
}

func (s *Server) createEmployee(w http.ResponseWriter, r *http.Request) {
	var in models.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), 400)
		return
	}
	if err := in.Validate(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	var e models.Employee
	err := s.DB.QueryRowContext(r.Context(), `
		INSERT INTO employees (full_name, position, department)
		VALUES ($1, $2, $3)
		RETURNING id, full_name, position, department
	`, in.FullName, in.Position, in.Department).
		Scan(&e.ID, &e.FullName, &e.Position, &e.Department)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(e)
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	res, err := s.DB.ExecContext(r.Context(), `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			http.Error(w, "employee has assignments", http.StatusConflict)
			return
		}
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
