package itinerary

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/bluevoyage/travelbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock структуры

type MockItineraryRepository struct {
	mock.Mock
}

func (m *MockItineraryRepository) Create(ctx context.Context, q repository.Querier, it *domain.Itinerary) error {
	args := m.Called(ctx, q, it)
	return args.Error(0)
}

func (m *MockItineraryRepository) GetByID(ctx context.Context, id string) (*domain.Itinerary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) UpdateIfVersion(ctx context.Context, q repository.Querier, it *domain.Itinerary, expectedVersion int64) error {
	args := m.Called(ctx, q, it, expectedVersion)
	return args.Error(0)
}

func (m *MockItineraryRepository) ReplaceDays(ctx context.Context, q repository.Querier, itineraryID string, days []domain.ItineraryDay) ([]domain.ItineraryDay, error) {
	args := m.Called(ctx, q, itineraryID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ItineraryDay), args.Error(1)
}

func (m *MockItineraryRepository) MarkSent(ctx context.Context, q repository.Querier, id string) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockItineraryRepository) MarkConfirmed(ctx context.Context, q repository.Querier, id string) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockItineraryRepository) Archive(ctx context.Context, q repository.Querier, id string) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

type MockCollaboratorRepository struct {
	mock.Mock
}

func (m *MockCollaboratorRepository) Add(ctx context.Context, q repository.Querier, c domain.Collaborator) error {
	args := m.Called(ctx, q, c)
	return args.Error(0)
}

func (m *MockCollaboratorRepository) Remove(ctx context.Context, q repository.Querier, itineraryID, userID string) error {
	args := m.Called(ctx, q, itineraryID, userID)
	return args.Error(0)
}

func (m *MockCollaboratorRepository) List(ctx context.Context, itineraryID string) ([]domain.Collaborator, error) {
	args := m.Called(ctx, itineraryID)
	return args.Get(0).([]domain.Collaborator), args.Error(1)
}

func (m *MockCollaboratorRepository) Exists(ctx context.Context, itineraryID, userID string) (bool, error) {
	args := m.Called(ctx, itineraryID, userID)
	return args.Bool(0), args.Error(1)
}

type MockVersionRepository struct {
	mock.Mock
}

func (m *MockVersionRepository) Append(ctx context.Context, q repository.Querier, v *domain.ItineraryVersion) error {
	args := m.Called(ctx, q, v)
	return args.Error(0)
}

func (m *MockVersionRepository) ListByItinerary(ctx context.Context, itineraryID string) ([]domain.VersionSummary, error) {
	args := m.Called(ctx, itineraryID)
	return args.Get(0).([]domain.VersionSummary), args.Error(1)
}

func (m *MockVersionRepository) GetByID(ctx context.Context, itineraryID, versionID string) (*domain.ItineraryVersion, error) {
	args := m.Called(ctx, itineraryID, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItineraryVersion), args.Error(1)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, q repository.Querier, entry domain.AuditEntry) error {
	args := m.Called(ctx, q, entry)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, notification domain.Notification) {
	m.Called(ctx, notification)
}

// stubTxManager выполняет функцию без настоящей транзакции
type stubTxManager struct{}

func (stubTxManager) InTx(ctx context.Context, fn func(q repository.Querier) error) error {
	return fn(nil)
}

func newTestService(itins *MockItineraryRepository, collabs *MockCollaboratorRepository, versions *MockVersionRepository, auditor *MockRecorder) *ItineraryService {
	return &ItineraryService{
		itineraries:   itins,
		collaborators: collabs,
		versions:      versions,
		txm:           stubTxManager{},
		auditor:       auditor,
	}
}

func draftItinerary(version int64) *domain.Itinerary {
	return &domain.Itinerary{
		ID:          "it-1",
		OwnerID:     "owner-1",
		Title:       "Palawan escape",
		Destination: "Palawan",
		Travelers:   2,
		Type:        domain.ItineraryTypeCustomized,
		Status:      domain.ItineraryStatusDraft,
		TourType:    domain.TourTypePrivate,
		Version:     version,
	}
}

// Тест: успешное обновление владельцем
func TestItineraryService_Update_Success(t *testing.T) {
	mockItins := &MockItineraryRepository{}
	mockCollabs := &MockCollaboratorRepository{}
	mockVersions := &MockVersionRepository{}
	mockAuditor := &MockRecorder{}
	service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

	ctx := context.Background()
	input := UpdateInput{
		ItineraryID:     "it-1",
		UserID:          "owner-1",
		ExpectedVersion: 3,
		Title:           "Palawan escape v2",
		Destination:     "Palawan",
		Travelers:       3,
		Days: []DayInput{
			{DayNumber: 1, Title: "Arrival", Activities: []ActivityInput{
				{Time: "14:00", Title: "Check in", Position: 0},
			}},
		},
	}

	// Настройка моков
	mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(3), nil).Once()
	mockItins.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Itinerary"), int64(3)).
		Run(func(args mock.Arguments) {
			it := args.Get(2).(*domain.Itinerary)
			it.Version = 4
		}).Return(nil).Once()
	mockItins.On("ReplaceDays", ctx, mock.Anything, "it-1", mock.AnythingOfType("[]domain.ItineraryDay")).
		Return(DaysFromInput(input.Days), nil).Once()
	mockVersions.On("Append", ctx, mock.Anything, mock.MatchedBy(func(v *domain.ItineraryVersion) bool {
		return v.ItineraryID == "it-1" && v.Version == 4 && v.CreatedBy == "owner-1"
	})).Return(nil).Once()
	mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	// Выполнение
	updated, err := service.Update(ctx, input)

	// Проверки
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, int64(4), updated.Version)
	assert.Equal(t, "Palawan escape v2", updated.Title)
	assert.Equal(t, 3, updated.Travelers)
	assert.Len(t, updated.Days, 1)

	mockItins.AssertExpectations(t)
	mockVersions.AssertExpectations(t)
	mockAuditor.AssertExpectations(t)
}

// Тест: конфликт версий - ничего не записывается после условного UPDATE
func TestItineraryService_Update_VersionConflict(t *testing.T) {
	mockItins := &MockItineraryRepository{}
	mockCollabs := &MockCollaboratorRepository{}
	mockVersions := &MockVersionRepository{}
	mockAuditor := &MockRecorder{}
	service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

	ctx := context.Background()
	input := UpdateInput{
		ItineraryID:     "it-1",
		UserID:          "owner-1",
		ExpectedVersion: 2,
		Title:           "Stale write",
	}

	mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(3), nil).Once()
	mockItins.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Itinerary"), int64(2)).
		Return(domain.ErrVersionConflict).Once()

	updated, err := service.Update(ctx, input)

	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Nil(t, updated)

	mockItins.AssertExpectations(t)
	mockItins.AssertNotCalled(t, "ReplaceDays")
	mockVersions.AssertNotCalled(t, "Append")
	mockAuditor.AssertNotCalled(t, "Record")
}

// Тест: соавтор может редактировать только черновик
func TestItineraryService_Update_CollaboratorDraftOnly(t *testing.T) {
	ctx := context.Background()

	t.Run("draft allowed", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()
		mockCollabs.On("Exists", ctx, "it-1", "collab-1").Return(true, nil).Once()
		mockItins.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Itinerary"), int64(1)).
			Run(func(args mock.Arguments) {
				args.Get(2).(*domain.Itinerary).Version = 2
			}).Return(nil).Once()
		mockItins.On("ReplaceDays", ctx, mock.Anything, "it-1", mock.AnythingOfType("[]domain.ItineraryDay")).
			Return([]domain.ItineraryDay{}, nil).Once()
		mockVersions.On("Append", ctx, mock.Anything, mock.AnythingOfType("*domain.ItineraryVersion")).Return(nil).Once()
		mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

		_, err := service.Update(ctx, UpdateInput{ItineraryID: "it-1", UserID: "collab-1", ExpectedVersion: 1})
		assert.NoError(t, err)
		mockItins.AssertExpectations(t)
	})

	t.Run("past draft forbidden even with correct version", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		archived := draftItinerary(5)
		archived.Status = domain.ItineraryStatusArchived

		mockItins.On("GetByID", ctx, "it-1").Return(archived, nil).Once()
		mockCollabs.On("Exists", ctx, "it-1", "collab-1").Return(true, nil).Once()

		_, err := service.Update(ctx, UpdateInput{ItineraryID: "it-1", UserID: "collab-1", ExpectedVersion: 5})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		mockItins.AssertNotCalled(t, "UpdateIfVersion")
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()
		mockCollabs.On("Exists", ctx, "it-1", "stranger").Return(false, nil).Once()

		_, err := service.Update(ctx, UpdateInput{ItineraryID: "it-1", UserID: "stranger", ExpectedVersion: 1})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		mockItins.AssertNotCalled(t, "UpdateIfVersion")
	})
}

// Тест: владелец получает уведомление о правке соавтора
func TestItineraryService_Update_CollaboratorEditNotifiesOwner(t *testing.T) {
	mockItins := &MockItineraryRepository{}
	mockCollabs := &MockCollaboratorRepository{}
	mockVersions := &MockVersionRepository{}
	mockAuditor := &MockRecorder{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)
	service.notifier = mockNotifier

	ctx := context.Background()
	mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()
	mockCollabs.On("Exists", ctx, "it-1", "collab-1").Return(true, nil).Once()
	mockItins.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Itinerary"), int64(1)).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Itinerary).Version = 2
		}).Return(nil).Once()
	mockItins.On("ReplaceDays", ctx, mock.Anything, "it-1", mock.AnythingOfType("[]domain.ItineraryDay")).
		Return([]domain.ItineraryDay{}, nil).Once()
	mockVersions.On("Append", ctx, mock.Anything, mock.AnythingOfType("*domain.ItineraryVersion")).Return(nil).Once()
	mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()
	mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == "owner-1"
	})).Once()

	_, err := service.Update(ctx, UpdateInput{ItineraryID: "it-1", UserID: "collab-1", ExpectedVersion: 1})
	assert.NoError(t, err)
	mockNotifier.AssertExpectations(t)
}

// Тест: создание маршрута записывает снапшот первой версии
func TestItineraryService_Create_Success(t *testing.T) {
	mockItins := &MockItineraryRepository{}
	mockCollabs := &MockCollaboratorRepository{}
	mockVersions := &MockVersionRepository{}
	mockAuditor := &MockRecorder{}
	service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

	ctx := context.Background()

	mockItins.On("Create", ctx, mock.Anything, mock.AnythingOfType("*domain.Itinerary")).
		Run(func(args mock.Arguments) {
			it := args.Get(2).(*domain.Itinerary)
			it.ID = "it-new"
			it.Version = 1
		}).Return(nil).Once()
	mockVersions.On("Append", ctx, mock.Anything, mock.MatchedBy(func(v *domain.ItineraryVersion) bool {
		return v.ItineraryID == "it-new" && v.Version == 1
	})).Return(nil).Once()
	mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	it, err := service.Create(ctx, CreateInput{
		OwnerID:     "owner-1",
		Title:       "New trip",
		Destination: "Cebu",
		Travelers:   2,
		Type:        domain.ItineraryTypeCustomized,
		TourType:    domain.TourTypeJoiner,
	})

	assert.NoError(t, err)
	assert.Equal(t, "it-new", it.ID)
	assert.Equal(t, domain.ItineraryStatusDraft, it.Status)
	assert.Equal(t, int64(1), it.Version)

	mockItins.AssertExpectations(t)
	mockVersions.AssertExpectations(t)
}

// Тест: восстановление версии - это новая запись, а не откат
func TestItineraryService_RestoreVersion_Success(t *testing.T) {
	mockItins := &MockItineraryRepository{}
	mockCollabs := &MockCollaboratorRepository{}
	mockVersions := &MockVersionRepository{}
	mockAuditor := &MockRecorder{}
	service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

	ctx := context.Background()
	current := draftItinerary(7)
	current.Title = "Current title"

	stored := &domain.ItineraryVersion{
		ID:          "ver-3",
		ItineraryID: "it-1",
		Version:     3,
		Snapshot: json.RawMessage(`{"id":"it-1","owner_id":"owner-1","title":"Old title","destination":"Bohol",
			"travelers":4,"travel_pace":"relaxed","days":[{"day_number":1,"title":"Arrival","activities":[
			{"time":"10:00","title":"Ferry","position":0}]}]}`),
	}

	mockItins.On("GetByID", ctx, "it-1").Return(current, nil).Once()
	mockVersions.On("GetByID", ctx, "it-1", "ver-3").Return(stored, nil).Once()
	mockItins.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Itinerary"), int64(7)).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Itinerary).Version = 8
		}).Return(nil).Once()
	mockItins.On("ReplaceDays", ctx, mock.Anything, "it-1", mock.MatchedBy(func(days []domain.ItineraryDay) bool {
		return len(days) == 1 && days[0].Title == "Arrival" && len(days[0].Activities) == 1
	})).Return([]domain.ItineraryDay{{DayNumber: 1, Title: "Arrival"}}, nil).Once()
	mockVersions.On("Append", ctx, mock.Anything, mock.MatchedBy(func(v *domain.ItineraryVersion) bool {
		return v.Version == 8
	})).Return(nil).Once()
	mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	restored, err := service.RestoreVersion(ctx, RestoreInput{
		ItineraryID:     "it-1",
		VersionID:       "ver-3",
		UserID:          "owner-1",
		Role:            domain.UserRoleUser,
		ExpectedVersion: 7,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Old title", restored.Title)
	assert.Equal(t, "Bohol", restored.Destination)
	assert.Equal(t, 4, restored.Travelers)
	assert.Equal(t, int64(8), restored.Version)

	mockItins.AssertExpectations(t)
	mockVersions.AssertExpectations(t)
}

// Тест: восстановление запрещено не-владельцу без роли администратора
func TestItineraryService_RestoreVersion_Forbidden(t *testing.T) {
	mockItins := &MockItineraryRepository{}
	mockCollabs := &MockCollaboratorRepository{}
	mockVersions := &MockVersionRepository{}
	mockAuditor := &MockRecorder{}
	service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

	ctx := context.Background()
	mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(2), nil).Once()

	_, err := service.RestoreVersion(ctx, RestoreInput{
		ItineraryID:     "it-1",
		VersionID:       "ver-1",
		UserID:          "stranger",
		Role:            domain.UserRoleUser,
		ExpectedVersion: 2,
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	mockVersions.AssertNotCalled(t, "GetByID")
	mockItins.AssertNotCalled(t, "UpdateIfVersion")
}

// Тест: администратор может восстановить чужой маршрут
func TestItineraryService_RestoreVersion_AdminAllowed(t *testing.T) {
	mockItins := &MockItineraryRepository{}
	mockCollabs := &MockCollaboratorRepository{}
	mockVersions := &MockVersionRepository{}
	mockAuditor := &MockRecorder{}
	service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

	ctx := context.Background()
	stored := &domain.ItineraryVersion{
		ID:          "ver-1",
		ItineraryID: "it-1",
		Version:     1,
		Snapshot:    json.RawMessage(`{"id":"it-1","title":"Original","destination":"Palawan","travelers":2}`),
	}

	mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(2), nil).Once()
	mockVersions.On("GetByID", ctx, "it-1", "ver-1").Return(stored, nil).Once()
	mockItins.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Itinerary"), int64(2)).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Itinerary).Version = 3
		}).Return(nil).Once()
	mockItins.On("ReplaceDays", ctx, mock.Anything, "it-1", mock.AnythingOfType("[]domain.ItineraryDay")).
		Return([]domain.ItineraryDay{}, nil).Once()
	mockVersions.On("Append", ctx, mock.Anything, mock.AnythingOfType("*domain.ItineraryVersion")).Return(nil).Once()
	mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	restored, err := service.RestoreVersion(ctx, RestoreInput{
		ItineraryID:     "it-1",
		VersionID:       "ver-1",
		UserID:          "admin-1",
		Role:            domain.UserRoleAdmin,
		ExpectedVersion: 2,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Original", restored.Title)
	mockItins.AssertExpectations(t)
}

// Тест: владельца нельзя добавить соавтором его же маршрута
func TestItineraryService_AddCollaborator(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()
		mockCollabs.On("Add", ctx, mock.Anything, mock.MatchedBy(func(c domain.Collaborator) bool {
			return c.ItineraryID == "it-1" && c.UserID == "friend-1" && c.InvitedBy == "owner-1"
		})).Return(nil).Once()
		mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

		err := service.AddCollaborator(ctx, "it-1", "owner-1", "friend-1")
		assert.NoError(t, err)
		mockCollabs.AssertExpectations(t)
	})

	t.Run("owner cannot be collaborator", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()

		err := service.AddCollaborator(ctx, "it-1", "owner-1", "owner-1")
		assert.ErrorIs(t, err, domain.ErrCannotAddOwner)
		mockCollabs.AssertNotCalled(t, "Add")
	})

	t.Run("only owner manages collaborators", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()

		err := service.AddCollaborator(ctx, "it-1", "collab-1", "friend-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		mockCollabs.AssertNotCalled(t, "Add")
	})
}

// Тест: удаление отсутствующего соавтора - no-op
func TestItineraryService_RemoveCollaborator_AbsentIsNoOp(t *testing.T) {
	mockItins := &MockItineraryRepository{}
	mockCollabs := &MockCollaboratorRepository{}
	mockVersions := &MockVersionRepository{}
	mockAuditor := &MockRecorder{}
	service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

	ctx := context.Background()
	mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()
	mockCollabs.On("Remove", ctx, mock.Anything, "it-1", "ghost").Return(nil).Once()
	mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	err := service.RemoveCollaborator(ctx, "it-1", "owner-1", "ghost")
	assert.NoError(t, err)
	mockCollabs.AssertExpectations(t)
}

// Тест: история версий видна владельцу и соавторам, остальным - нет
func TestItineraryService_ListVersions_Authorization(t *testing.T) {
	ctx := context.Background()
	summaries := []domain.VersionSummary{
		{ID: "ver-2", Version: 2, CreatedBy: "owner-1"},
		{ID: "ver-1", Version: 1, CreatedBy: "owner-1"},
	}

	t.Run("collaborator sees history", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(2), nil).Once()
		mockCollabs.On("Exists", ctx, "it-1", "collab-1").Return(true, nil).Once()
		mockVersions.On("ListByItinerary", ctx, "it-1").Return(summaries, nil).Once()

		got, err := service.ListVersions(ctx, "it-1", "collab-1")
		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(2), nil).Once()
		mockCollabs.On("Exists", ctx, "it-1", "stranger").Return(false, nil).Once()

		_, err := service.ListVersions(ctx, "it-1", "stranger")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		mockVersions.AssertNotCalled(t, "ListByItinerary")
	})
}

// Тест: Send только для владельца
func TestItineraryService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sends", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()
		mockItins.On("MarkSent", ctx, mock.Anything, "it-1").Return(nil).Once()
		mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

		err := service.Send(ctx, "it-1", "owner-1")
		assert.NoError(t, err)
		mockItins.AssertExpectations(t)
	})

	t.Run("collaborator cannot send", func(t *testing.T) {
		mockItins := &MockItineraryRepository{}
		mockCollabs := &MockCollaboratorRepository{}
		mockVersions := &MockVersionRepository{}
		mockAuditor := &MockRecorder{}
		service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

		mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()

		err := service.Send(ctx, "it-1", "collab-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		mockItins.AssertNotCalled(t, "MarkSent")
	})
}

// Тест: Confirm доступен владельцу и соавтору
func TestItineraryService_Confirm_CollaboratorAllowed(t *testing.T) {
	mockItins := &MockItineraryRepository{}
	mockCollabs := &MockCollaboratorRepository{}
	mockVersions := &MockVersionRepository{}
	mockAuditor := &MockRecorder{}
	service := newTestService(mockItins, mockCollabs, mockVersions, mockAuditor)

	ctx := context.Background()
	mockItins.On("GetByID", ctx, "it-1").Return(draftItinerary(1), nil).Once()
	mockCollabs.On("Exists", ctx, "it-1", "collab-1").Return(true, nil).Once()
	mockItins.On("MarkConfirmed", ctx, mock.Anything, "it-1").Return(nil).Once()
	mockAuditor.On("Record", ctx, mock.Anything, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	err := service.Confirm(ctx, "it-1", "collab-1")
	assert.NoError(t, err)
	mockItins.AssertExpectations(t)
}
