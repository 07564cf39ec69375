package models

import (
	"errors"
	"strings"
)

type Project struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Deadline   Date    `json:"deadline"`
	Complexity float64 `json:"complexity"`
}

// CreateProjectRequest is the request body for POST /projects.
// All fields are required; pointers distinguish absent from zero.
type CreateProjectRequest struct {
	Name       string   `json:"name"`
	Deadline   *Date    `json:"deadline"`
	Complexity *float64 `json:"complexity"`
}

func (r *CreateProjectRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Deadline == nil {
		return errors.New("deadline is required")
	}
	if r.Complexity == nil {
		return errors.New("complexity is required")
	}
	return nil
}
