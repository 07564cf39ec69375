package models

import (
	"errors"
	"strings"
)

type Employee struct {
	ID         int64   `json:"id"`
	FullName   string  `json:"full_name"`
	Position   string  `json:"position"`
	Department *string `json:"department,omitempty"`
}

// CreateEmployeeRequest is the request body for POST /employees.
// Department is optional.
type CreateEmployeeRequest struct {
	FullName   string  `json:"full_name"`
	Position   string  `json:"position"`
	Department *string `json:"department"`
}

func (r *CreateEmployeeRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return errors.New("full_name is required")
	}
	if strings.TrimSpace(r.Position) == "" {
		return errors.New("position is required")
	}
	return nil
}
