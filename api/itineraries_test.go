package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/bluevoyage/travelbooking/internal/service/itinerary"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockItineraryUseCase is a mock implementation of itinerary.ItineraryUseCase
type MockItineraryUseCase struct {
	mock.Mock
}

func (m *MockItineraryUseCase) Create(ctx context.Context, input itinerary.CreateInput) (*domain.Itinerary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func (m *MockItineraryUseCase) GetByID(ctx context.Context, id, viewerID string) (*domain.Itinerary, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func (m *MockItineraryUseCase) Update(ctx context.Context, input itinerary.UpdateInput) (*domain.Itinerary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func (m *MockItineraryUseCase) Send(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockItineraryUseCase) Confirm(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockItineraryUseCase) Archive(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockItineraryUseCase) AddCollaborator(ctx context.Context, itineraryID, ownerID, userID string) error {
	args := m.Called(ctx, itineraryID, ownerID, userID)
	return args.Error(0)
}

func (m *MockItineraryUseCase) RemoveCollaborator(ctx context.Context, itineraryID, ownerID, userID string) error {
	args := m.Called(ctx, itineraryID, ownerID, userID)
	return args.Error(0)
}

func (m *MockItineraryUseCase) ListCollaborators(ctx context.Context, itineraryID, viewerID string) ([]domain.Collaborator, error) {
	args := m.Called(ctx, itineraryID, viewerID)
	return args.Get(0).([]domain.Collaborator), args.Error(1)
}

func (m *MockItineraryUseCase) ListVersions(ctx context.Context, itineraryID, viewerID string) ([]domain.VersionSummary, error) {
	args := m.Called(ctx, itineraryID, viewerID)
	return args.Get(0).([]domain.VersionSummary), args.Error(1)
}

func (m *MockItineraryUseCase) GetVersionDetail(ctx context.Context, itineraryID, versionID, viewerID string) (*domain.ItineraryVersion, error) {
	args := m.Called(ctx, itineraryID, versionID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItineraryVersion), args.Error(1)
}

func (m *MockItineraryUseCase) RestoreVersion(ctx context.Context, input itinerary.RestoreInput) (*domain.Itinerary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func TestItineraryHandler_create(t *testing.T) {
	mockService := &MockItineraryUseCase{}
	handler := NewItineraryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]any{
		"title":       "Palawan escape",
		"destination": "Palawan",
		"travelers":   2,
		"type":        "CUSTOMIZED",
		"tour_type":   "PRIVATE",
		"days": []map[string]any{
			{"day_number": 1, "title": "Arrival", "activities": []map[string]any{
				{"time": "14:00", "title": "Check in", "position": 0},
			}},
		},
	})
	c.Request = httptest.NewRequest("POST", "/itineraries", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "owner-1")

	created := &domain.Itinerary{
		ID:          "it-1",
		OwnerID:     "owner-1",
		Title:       "Palawan escape",
		Destination: "Palawan",
		Type:        domain.ItineraryTypeCustomized,
		Status:      domain.ItineraryStatusDraft,
		Version:     1,
	}

	mockService.On("Create", c.Request.Context(), mock.MatchedBy(func(in itinerary.CreateInput) bool {
		return in.OwnerID == "owner-1" && in.Title == "Palawan escape" && len(in.Days) == 1
	})).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response itineraryResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "it-1", response.ID)
	assert.Equal(t, int64(1), response.Version)

	mockService.AssertExpectations(t)
}

func TestItineraryHandler_update_requiresExpectedVersion(t *testing.T) {
	mockService := &MockItineraryUseCase{}
	handler := NewItineraryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// expected_version отсутствует
	body, _ := json.Marshal(map[string]any{
		"title":       "Trip",
		"destination": "Palawan",
	})
	c.Params = gin.Params{{Key: "id", Value: "it-1"}}
	c.Request = httptest.NewRequest("PUT", "/itineraries/it-1", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "owner-1")

	handler.update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Update")
}

func TestItineraryHandler_update_versionConflict(t *testing.T) {
	mockService := &MockItineraryUseCase{}
	handler := NewItineraryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]any{
		"expected_version": 2,
		"title":            "Trip",
		"destination":      "Palawan",
	})
	c.Params = gin.Params{{Key: "id", Value: "it-1"}}
	c.Request = httptest.NewRequest("PUT", "/itineraries/it-1", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "owner-1")

	mockService.On("Update", c.Request.Context(), mock.MatchedBy(func(in itinerary.UpdateInput) bool {
		return in.ItineraryID == "it-1" && in.ExpectedVersion == 2
	})).Return(nil, domain.ErrVersionConflict)

	handler.update(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ITINERARY_VERSION_CONFLICT", response["error"])
}

func TestItineraryHandler_get_forbidden(t *testing.T) {
	mockService := &MockItineraryUseCase{}
	handler := NewItineraryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "it-1"}}
	c.Request = httptest.NewRequest("GET", "/itineraries/it-1", nil)
	c.Request.Header.Set("X-User-ID", "stranger")

	mockService.On("GetByID", c.Request.Context(), "it-1", "stranger").Return(nil, domain.ErrForbidden)

	handler.get(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestItineraryHandler_listVersions(t *testing.T) {
	mockService := &MockItineraryUseCase{}
	handler := NewItineraryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "it-1"}}
	c.Request = httptest.NewRequest("GET", "/itineraries/it-1/versions", nil)
	c.Request.Header.Set("X-User-ID", "owner-1")

	summaries := []domain.VersionSummary{
		{ID: "ver-2", Version: 2, CreatedBy: "owner-1", CreatorName: "Alex"},
		{ID: "ver-1", Version: 1, CreatedBy: "owner-1", CreatorName: "Alex"},
	}
	mockService.On("ListVersions", c.Request.Context(), "it-1", "owner-1").Return(summaries, nil)

	handler.listVersions(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []versionSummaryResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)
	assert.Equal(t, int64(2), response[0].Version)
	assert.Equal(t, "Alex", response[0].CreatorName)
}

func TestItineraryHandler_restoreVersion(t *testing.T) {
	mockService := &MockItineraryUseCase{}
	handler := NewItineraryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]any{"expected_version": 5})
	c.Params = gin.Params{{Key: "id", Value: "it-1"}, {Key: "versionId", Value: "ver-2"}}
	c.Request = httptest.NewRequest("POST", "/itineraries/it-1/versions/ver-2/restore", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "owner-1")

	restored := &domain.Itinerary{ID: "it-1", OwnerID: "owner-1", Title: "Old title", Version: 6}
	mockService.On("RestoreVersion", c.Request.Context(), itinerary.RestoreInput{
		ItineraryID:     "it-1",
		VersionID:       "ver-2",
		UserID:          "owner-1",
		Role:            domain.UserRoleUser,
		ExpectedVersion: 5,
	}).Return(restored, nil)

	handler.restoreVersion(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response itineraryResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Old title", response.Title)
	assert.Equal(t, int64(6), response.Version)

	mockService.AssertExpectations(t)
}

func TestItineraryHandler_addCollaborator_cannotAddOwner(t *testing.T) {
	mockService := &MockItineraryUseCase{}
	handler := NewItineraryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]any{"user_id": "owner-1"})
	c.Params = gin.Params{{Key: "id", Value: "it-1"}}
	c.Request = httptest.NewRequest("POST", "/itineraries/it-1/collaborators", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "owner-1")

	mockService.On("AddCollaborator", c.Request.Context(), "it-1", "owner-1", "owner-1").
		Return(domain.ErrCannotAddOwner)

	handler.addCollaborator(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestItineraryHandler_archive(t *testing.T) {
	mockService := &MockItineraryUseCase{}
	handler := NewItineraryHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "it-1"}}
	c.Request = httptest.NewRequest("DELETE", "/itineraries/it-1", nil)
	c.Request.Header.Set("X-User-ID", "owner-1")

	mockService.On("Archive", c.Request.Context(), "it-1", "owner-1").Return(nil)

	handler.archive(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
