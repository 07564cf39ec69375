//go:build integration

package tests

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"staffing-api/internal"
	"staffing-api/internal/config"
	"staffing-api/internal/models"
	"staffing-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testServer *internal.Server
var testDB *sql.DB

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") != "1" {
		os.Exit(0)
	}

	testDB = testutil.NewTestDB(&testing.T{})
	testutil.ResetSchema(&testing.T{}, testDB)

	cfg := config.Load()
	testServer = internal.NewServer(testutil.TestDSN(), cfg)

	code := m.Run()

	if testServer != nil {
		testServer.Close(context.Background())
	}
	if testDB != nil {
		testDB.Close()
	}

	os.Exit(code)
}

func doJSON(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	testServer.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	testutil.RequireIntegration(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	testServer.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestDBPingEndpoint(t *testing.T) {
	testutil.RequireIntegration(t)

	req := httptest.NewRequest("GET", "/dbping", nil)
	w := httptest.NewRecorder()
	testServer.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "db: ok", w.Body.String())
}

func TestProjectLifecycle(t *testing.T) {
	testutil.RequireIntegration(t)

	// create
	w := doJSON(t, "POST", "/projects", map[string]interface{}{
		"name": "Alpha", "deadline": "2025-12-01", "complexity": 3.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Project](t, w)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Alpha", created.Name)
	assert.Equal(t, "2025-12-01", created.Deadline.String())
	assert.Equal(t, 3.5, created.Complexity)

	// fetch yields the same fields
	w = doJSON(t, "GET", path("/projects/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[models.Project](t, w)
	assert.Equal(t, created, fetched)

	// listing includes it
	w = doJSON(t, "GET", "/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Project](t, w)
	assert.Contains(t, list, created)

	// delete acks, second fetch is 404
	w = doJSON(t, "DELETE", path("/projects/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, "GET", path("/projects/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, "DELETE", path("/projects/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmployeeLifecycle(t *testing.T) {
	testutil.RequireIntegration(t)

	w := doJSON(t, "POST", "/employees", map[string]interface{}{
		"full_name": "Jane Doe", "position": "Developer", "department": "IT",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Employee](t, w)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Jane Doe", created.FullName)
	require.NotNil(t, created.Department)
	assert.Equal(t, "IT", *created.Department)

	// department is optional
	w = doJSON(t, "POST", "/employees", map[string]interface{}{
		"full_name": "John Roe", "position": "Analyst",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	noDept := decode[models.Employee](t, w)
	assert.Nil(t, noDept.Department)

	w = doJSON(t, "GET", path("/employees/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[models.Employee](t, w))

	w = doJSON(t, "DELETE", path("/employees/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, "GET", path("/employees/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentLifecycle(t *testing.T) {
	testutil.RequireIntegration(t)

	project := decode[models.Project](t, doJSON(t, "POST", "/projects", map[string]interface{}{
		"name": "Beta", "deadline": "2026-06-30", "complexity": 7.25,
	}))
	employee := decode[models.Employee](t, doJSON(t, "POST", "/employees", map[string]interface{}{
		"full_name": "Sam Lee", "position": "Tester",
	}))

	w := doJSON(t, "POST", "/assignments", map[string]interface{}{
		"project_id":       project.ID,
		"employee_id":      employee.ID,
		"issue_date":       "2025-01-10",
		"planned_end_date": "2025-03-10",
		"complexity":       2.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Assignment](t, w)
	require.NotZero(t, created.ID)
	assert.Equal(t, project.ID, created.ProjectID)
	assert.Equal(t, employee.ID, created.EmployeeID)
	assert.Equal(t, "2025-01-10", created.IssueDate.String())
	assert.Nil(t, created.ActualEndDate)

	w = doJSON(t, "GET", path("/assignments/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[models.Assignment](t, w))

	// deleting a referenced project is blocked
	w = doJSON(t, "DELETE", path("/projects/%d", project.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = doJSON(t, "DELETE", path("/employees/%d", employee.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// after removing the assignment the parents can go
	w = doJSON(t, "DELETE", path("/assignments/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, "DELETE", path("/projects/%d", project.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, "DELETE", path("/employees/%d", employee.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAssignmentRejectsMissingParents(t *testing.T) {
	testutil.RequireIntegration(t)

	w := doJSON(t, "POST", "/assignments", map[string]interface{}{
		"project_id":       999999,
		"employee_id":      999999,
		"issue_date":       "2025-01-10",
		"planned_end_date": "2025-03-10",
		"complexity":       1.0,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "does not exist")
}

func TestAssignmentWithActualEndDate(t *testing.T) {
	testutil.RequireIntegration(t)

	project := decode[models.Project](t, doJSON(t, "POST", "/projects", map[string]interface{}{
		"name": "Gamma", "deadline": "2026-01-15", "complexity": 4.0,
	}))
	employee := decode[models.Employee](t, doJSON(t, "POST", "/employees", map[string]interface{}{
		"full_name": "Ada Park", "position": "Manager",
	}))

	w := doJSON(t, "POST", "/assignments", map[string]interface{}{
		"project_id":       project.ID,
		"employee_id":      employee.ID,
		"issue_date":       "2025-01-10",
		"planned_end_date": "2025-03-10",
		"actual_end_date":  "2025-02-28",
		"complexity":       2.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Assignment](t, w)
	require.NotNil(t, created.ActualEndDate)
	assert.Equal(t, "2025-02-28", created.ActualEndDate.String())
}

func TestListAfterCreations(t *testing.T) {
	testutil.RequireIntegration(t)

	before := decode[[]models.Employee](t, doJSON(t, "GET", "/employees", nil))

	var created []models.Employee
	for _, name := range []string{"L One", "L Two", "L Three"} {
		w := doJSON(t, "POST", "/employees", map[string]interface{}{
			"full_name": name, "position": "Developer",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		created = append(created, decode[models.Employee](t, w))
	}

	after := decode[[]models.Employee](t, doJSON(t, "GET", "/employees", nil))
	assert.GreaterOrEqual(t, len(after), len(before)+3)
	for _, e := range created {
		assert.Contains(t, after, e)
	}
}

func TestNotFoundForUnknownIDs(t *testing.T) {
	testutil.RequireIntegration(t)

	// ids out of BIGSERIAL range behave like any other missing row
	for _, path := range []string{
		"/projects/987654", "/employees/987654", "/assignments/987654",
		"/projects/0", "/employees/-7", "/assignments/0",
	} {
		w := doJSON(t, "GET", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		w = doJSON(t, "DELETE", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func path(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
