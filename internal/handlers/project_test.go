package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type stubProjectService struct {
	createErr error
	projects  []*types.Project
}

func (s *stubProjectService) Create(ctx context.Context, project *types.Project) (*types.Project, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	project.ID = uuid.New()
	return project, nil
}

func (s *stubProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	return nil, apierr.New(http.StatusNotFound, "project_not_found", fmt.Errorf("project %s not found", projectID))
}

func (s *stubProjectService) List(ctx context.Context) ([]*types.Project, error) {
	return s.projects, nil
}

func (s *stubProjectService) Update(ctx context.Context, project *types.Project) (*types.Project, error) {
	return project, nil
}

func (s *stubProjectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	return nil
}

func newProjectTestRouter(svc *stubProjectService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewProjectHandler(svc)
	router.POST("/api/projects", handler.Create)
	router.GET("/api/projects/:id", handler.Get)
	return router
}

func TestProjectCreateConflictEnvelope(t *testing.T) {
	svc := &stubProjectService{
		createErr: apierr.New(http.StatusConflict, "duplicate_project", fmt.Errorf("Project already exists")),
	}
	router := newProjectTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{"title":"Churn Analysis"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: want=%d got=%d body=%s", http.StatusConflict, rec.Code, rec.Body.String())
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Message != "Project already exists" {
		t.Fatalf("message: want=%q got=%q", "Project already exists", envelope.Error.Message)
	}
	if envelope.Error.Code != "duplicate_project" {
		t.Fatalf("code: want=duplicate_project got=%s", envelope.Error.Code)
	}
}

func TestProjectCreateInvalidBody(t *testing.T) {
	router := newProjectTestRouter(&stubProjectService{})

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{"description":"no title"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
}

func TestProjectGetInvalidID(t *testing.T) {
	router := newProjectTestRouter(&stubProjectService{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
}

func TestProjectGetNotFound(t *testing.T) {
	router := newProjectTestRouter(&stubProjectService{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want=%d got=%d", http.StatusNotFound, rec.Code)
	}
}
