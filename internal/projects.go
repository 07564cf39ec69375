package internal

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"staffing-api/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	rows, err := s.DB.QueryContext(r.Context(), `
		SELECT id, name, deadline, complexity
		FROM projects ORDER BY id`)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Deadline, &p.Complexity); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projects)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	var p models.Project
	err = s.DB.QueryRowContext(r.Context(), `
		SELECT id, name, deadline, complexity
		FROM projects WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Deadline, &p.Complexity)
	if err == sql.ErrNoRows {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var in models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), 400)
		return
	}
	if err := in.Validate(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	var p models.Project
	err := s.DB.QueryRowContext(r.Context(), `
		INSERT INTO projects (name, deadline, complexity)
		VALUES ($1, $2, $3)
		RETURNING id, name, deadline, complexity
	`, in.Name, *in.Deadline, *in.Complexity).
		Scan(&p.ID, &p.Name, &p.Deadline, &p.Complexity)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	res, err := s.DB.ExecContext(r.Context(), `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			http.Error(w, "project has assignments", http.StatusConflict)
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
