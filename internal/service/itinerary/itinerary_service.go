package itinerary

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bluevoyage/travelbooking/internal/audit"
	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/bluevoyage/travelbooking/internal/repository"
	"github.com/bluevoyage/travelbooking/internal/snapshot"
)

type ItineraryUseCase interface {
	Create(ctx context.Context, input CreateInput) (*domain.Itinerary, error)
	GetByID(ctx context.Context, id, viewerID string) (*domain.Itinerary, error)
	Update(ctx context.Context, input UpdateInput) (*domain.Itinerary, error)
	Send(ctx context.Context, id, userID string) error
	Confirm(ctx context.Context, id, userID string) error
	Archive(ctx context.Context, id, userID string) error
	AddCollaborator(ctx context.Context, itineraryID, ownerID, userID string) error
	RemoveCollaborator(ctx context.Context, itineraryID, ownerID, userID string) error
	ListCollaborators(ctx context.Context, itineraryID, viewerID string) ([]domain.Collaborator, error)
	ListVersions(ctx context.Context, itineraryID, viewerID string) ([]domain.VersionSummary, error)
	GetVersionDetail(ctx context.Context, itineraryID, versionID, viewerID string) (*domain.ItineraryVersion, error)
	RestoreVersion(ctx context.Context, input RestoreInput) (*domain.Itinerary, error)
}

type Cache interface {
	GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error)
	SetItinerary(ctx context.Context, it *domain.Itinerary) error
	InvalidateItinerary(ctx context.Context, id string) error
}

type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification)
}

type ItineraryService struct {
	itineraries   repository.ItineraryRepository
	collaborators repository.CollaboratorRepository
	versions      repository.VersionRepository
	txm           repository.TxManager
	auditor       audit.Recorder
	cache         Cache
	notifier      Notifier
}

func NewItineraryService(
	itineraries repository.ItineraryRepository,
	collaborators repository.CollaboratorRepository,
	versions repository.VersionRepository,
	txm repository.TxManager,
	auditor audit.Recorder,
	cache Cache,
	notifier Notifier,
) *ItineraryService {
	return &ItineraryService{
		itineraries:   itineraries,
		collaborators: collaborators,
		versions:      versions,
		txm:           txm,
		auditor:       auditor,
		cache:         cache,
		notifier:      notifier,
	}
}

type CreateInput struct {
	OwnerID       string
	Title         string
	Destination   string
	StartDate     *time.Time
	EndDate       *time.Time
	Travelers     int
	EstimatedCost *float64
	TravelPace    string
	Preferences   []string
	Type          domain.ItineraryType
	TourType      domain.TourType
	Days          []DayInput
}

type UpdateInput struct {
	ItineraryID     string
	UserID          string
	ExpectedVersion int64
	Title           string
	Destination     string
	StartDate       *time.Time
	EndDate         *time.Time
	Travelers       int
	EstimatedCost   *float64
	TravelPace      string
	Preferences     []string
	Days            []DayInput
}

type RestoreInput struct {
	ItineraryID     string
	VersionID       string
	UserID          string
	Role            domain.UserRole
	ExpectedVersion int64
}

type DayInput struct {
	DayNumber  int
	Title      string
	Date       *time.Time
	Activities []ActivityInput
}

type ActivityInput struct {
	Time        string
	Title       string
	Description string
	Location    string
	Icon        string
	Position    int
}

func (s *ItineraryService) Create(ctx context.Context, input CreateInput) (*domain.Itinerary, error) {
	it := &domain.Itinerary{
		OwnerID:       input.OwnerID,
		Title:         input.Title,
		Destination:   input.Destination,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Travelers:     input.Travelers,
		EstimatedCost: input.EstimatedCost,
		TravelPace:    input.TravelPace,
		Preferences:   input.Preferences,
		Type:          input.Type,
		Status:        domain.ItineraryStatusDraft,
		TourType:      input.TourType,
		Days:          DaysFromInput(input.Days),
	}

	err := s.txm.InTx(ctx, func(q repository.Querier) error {
		if err := s.itineraries.Create(ctx, q, it); err != nil {
			return err
		}
		if err := s.appendSnapshot(ctx, q, it, input.OwnerID); err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    input.OwnerID,
			Action:     "itinerary.create",
			EntityType: "itinerary",
			EntityID:   it.ID,
			Metadata:   map[string]any{"version": it.Version},
			Message:    "itinerary created",
		})
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ItineraryService) GetByID(ctx context.Context, id, viewerID string) (*domain.Itinerary, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetItinerary(ctx, id); err == nil && cached != nil {
			if err := s.authorizeView(ctx, cached, viewerID); err != nil {
				return nil, err
			}
			return cached, nil
		}
	}

	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, it, viewerID); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetItinerary(ctx, it); err != nil {
			log.Printf("WARNING: failed to cache itinerary %s: %v", id, err)
		}
	}
	return it, nil
}

// Update is the optimistic-concurrency write path. Authorization runs before
// the version check: a collaborator editing past DRAFT gets FORBIDDEN even
// with a correct expected version. The conditional version bump, wholesale
// day replacement, snapshot append and audit row share one transaction.
func (s *ItineraryService) Update(ctx context.Context, input UpdateInput) (*domain.Itinerary, error) {
	var updated *domain.Itinerary
	err := s.txm.InTx(ctx, func(q repository.Querier) error {
		it, err := s.ApplyUpdate(ctx, q, input)
		if err != nil {
			return err
		}
		updated = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, input.ItineraryID)

	// The owner hears about edits made by collaborators.
	if s.notifier != nil && updated.OwnerID != input.UserID {
		s.notifier.Notify(ctx, domain.Notification{
			UserID:  updated.OwnerID,
			Message: fmt.Sprintf("Itinerary %q was updated by a collaborator", updated.Title),
			Data:    domain.SystemNotificationData{Event: "itinerary_updated"},
		})
	}
	return updated, nil
}

// ApplyUpdate performs the authorized OCC update on the caller's transaction.
// The booking service uses it directly so the booking's denormalized fields
// can change in the same transaction as the itinerary write.
func (s *ItineraryService) ApplyUpdate(ctx context.Context, q repository.Querier, input UpdateInput) (*domain.Itinerary, error) {
	it, err := s.itineraries.GetByID(ctx, input.ItineraryID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeEdit(ctx, it, input.UserID); err != nil {
		return nil, err
	}

	it.Title = input.Title
	it.Destination = input.Destination
	it.StartDate = input.StartDate
	it.EndDate = input.EndDate
	it.Travelers = input.Travelers
	it.EstimatedCost = input.EstimatedCost
	it.TravelPace = input.TravelPace
	it.Preferences = input.Preferences

	if err := s.versionedWrite(ctx, q, it, input.ExpectedVersion, DaysFromInput(input.Days), input.UserID, "itinerary.update", "itinerary updated", nil); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ItineraryService) Send(ctx context.Context, id, userID string) error {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !it.IsOwner(userID) {
		return domain.ErrForbidden
	}

	err = s.txm.InTx(ctx, func(q repository.Querier) error {
		if err := s.itineraries.MarkSent(ctx, q, id); err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    userID,
			Action:     "itinerary.send",
			EntityType: "itinerary",
			EntityID:   id,
			Message:    "itinerary offer sent",
		})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ItineraryService) Confirm(ctx context.Context, id, userID string) error {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !it.IsOwner(userID) {
		collaborator, err := s.collaborators.Exists(ctx, id, userID)
		if err != nil {
			return err
		}
		if !collaborator {
			return domain.ErrForbidden
		}
	}

	err = s.txm.InTx(ctx, func(q repository.Querier) error {
		if err := s.itineraries.MarkConfirmed(ctx, q, id); err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    userID,
			Action:     "itinerary.confirm",
			EntityType: "itinerary",
			EntityID:   id,
			Message:    "itinerary offer confirmed",
		})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ItineraryService) Archive(ctx context.Context, id, userID string) error {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !it.IsOwner(userID) {
		return domain.ErrForbidden
	}

	err = s.txm.InTx(ctx, func(q repository.Querier) error {
		if err := s.itineraries.Archive(ctx, q, id); err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    userID,
			Action:     "itinerary.archive",
			EntityType: "itinerary",
			EntityID:   id,
			Message:    "itinerary archived",
		})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ItineraryService) AddCollaborator(ctx context.Context, itineraryID, ownerID, userID string) error {
	it, err := s.itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return err
	}
	if !it.IsOwner(ownerID) {
		return domain.ErrForbidden
	}
	if userID == it.OwnerID {
		return domain.ErrCannotAddOwner
	}

	return s.txm.InTx(ctx, func(q repository.Querier) error {
		if err := s.collaborators.Add(ctx, q, domain.Collaborator{
			ItineraryID: itineraryID,
			UserID:      userID,
			Role:        domain.CollaboratorRoleCollaborator,
			InvitedBy:   ownerID,
		}); err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    ownerID,
			Action:     "itinerary.collaborator.add",
			EntityType: "itinerary",
			EntityID:   itineraryID,
			Metadata:   map[string]any{"user_id": userID},
			Message:    "collaborator added",
		})
	})
}

func (s *ItineraryService) RemoveCollaborator(ctx context.Context, itineraryID, ownerID, userID string) error {
	it, err := s.itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return err
	}
	if !it.IsOwner(ownerID) {
		return domain.ErrForbidden
	}

	return s.txm.InTx(ctx, func(q repository.Querier) error {
		if err := s.collaborators.Remove(ctx, q, itineraryID, userID); err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    ownerID,
			Action:     "itinerary.collaborator.remove",
			EntityType: "itinerary",
			EntityID:   itineraryID,
			Metadata:   map[string]any{"user_id": userID},
			Message:    "collaborator removed",
		})
	})
}

func (s *ItineraryService) ListCollaborators(ctx context.Context, itineraryID, viewerID string) ([]domain.Collaborator, error) {
	it, err := s.itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, it, viewerID); err != nil {
		return nil, err
	}
	return s.collaborators.List(ctx, itineraryID)
}

func (s *ItineraryService) ListVersions(ctx context.Context, itineraryID, viewerID string) ([]domain.VersionSummary, error) {
	it, err := s.itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, it, viewerID); err != nil {
		return nil, err
	}
	return s.versions.ListByItinerary(ctx, itineraryID)
}

func (s *ItineraryService) GetVersionDetail(ctx context.Context, itineraryID, versionID, viewerID string) (*domain.ItineraryVersion, error) {
	it, err := s.itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, it, viewerID); err != nil {
		return nil, err
	}
	return s.versions.GetByID(ctx, itineraryID, versionID)
}

// RestoreVersion re-applies a historical snapshot as the new current state.
// It is a version-incrementing write through the same conditional-update
// path, not a pointer rewind, so the restored state itself gets a fresh
// version row.
func (s *ItineraryService) RestoreVersion(ctx context.Context, input RestoreInput) (*domain.Itinerary, error) {
	it, err := s.itineraries.GetByID(ctx, input.ItineraryID)
	if err != nil {
		return nil, err
	}
	if !it.IsOwner(input.UserID) && input.Role != domain.UserRoleAdmin {
		return nil, domain.ErrForbidden
	}

	stored, err := s.versions.GetByID(ctx, input.ItineraryID, input.VersionID)
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.Decode(stored.Snapshot)
	if err != nil {
		return nil, err
	}

	it.Title = snap.Title
	it.Destination = snap.Destination
	it.StartDate = parseSnapshotDate(snap.StartDate)
	it.EndDate = parseSnapshotDate(snap.EndDate)
	it.Travelers = snap.Travelers
	it.EstimatedCost = snap.EstimatedCost
	it.TravelPace = snap.TravelPace
	it.Preferences = snap.Preferences

	metadata := map[string]any{"restored_version": stored.Version}
	err = s.txm.InTx(ctx, func(q repository.Querier) error {
		return s.versionedWrite(ctx, q, it, input.ExpectedVersion, snap.DomainDays(), input.UserID, "itinerary.restore", "itinerary restored from version snapshot", metadata)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, it.ID)
	return it, nil
}

// versionedWrite runs the compare-and-swap version bump, replaces the
// day/activity children wholesale, appends the snapshot for the new version
// and records the audit entry, all on the caller's transaction.
func (s *ItineraryService) versionedWrite(ctx context.Context, q repository.Querier, it *domain.Itinerary, expectedVersion int64, days []domain.ItineraryDay, actorID, action, message string, metadata map[string]any) error {
	if err := s.itineraries.UpdateIfVersion(ctx, q, it, expectedVersion); err != nil {
		return err
	}
	replaced, err := s.itineraries.ReplaceDays(ctx, q, it.ID, days)
	if err != nil {
		return err
	}
	it.Days = replaced

	if err := s.appendSnapshot(ctx, q, it, actorID); err != nil {
		return err
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["version"] = it.Version
	return s.auditor.Record(ctx, q, domain.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: "itinerary",
		EntityID:   it.ID,
		Metadata:   metadata,
		Message:    message,
	})
}

func (s *ItineraryService) appendSnapshot(ctx context.Context, q repository.Querier, it *domain.Itinerary, actorID string) error {
	encoded, err := snapshot.Encode(snapshot.Build(it))
	if err != nil {
		return err
	}
	return s.versions.Append(ctx, q, &domain.ItineraryVersion{
		ItineraryID: it.ID,
		Version:     it.Version,
		Snapshot:    encoded,
		CreatedBy:   actorID,
	})
}

func (s *ItineraryService) authorizeView(ctx context.Context, it *domain.Itinerary, viewerID string) error {
	if it.IsOwner(viewerID) {
		return nil
	}
	collaborator, err := s.collaborators.Exists(ctx, it.ID, viewerID)
	if err != nil {
		return err
	}
	if !collaborator {
		return domain.ErrForbidden
	}
	return nil
}

func (s *ItineraryService) authorizeEdit(ctx context.Context, it *domain.Itinerary, userID string) error {
	if it.IsOwner(userID) {
		return nil
	}
	collaborator, err := s.collaborators.Exists(ctx, it.ID, userID)
	if err != nil {
		return err
	}
	if !collaborator {
		return domain.ErrForbidden
	}
	// Collaborators lose edit rights once the itinerary leaves DRAFT.
	if it.Status != domain.ItineraryStatusDraft {
		return domain.ErrForbidden
	}
	return nil
}

func (s *ItineraryService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateItinerary(ctx, id); err != nil {
		log.Printf("WARNING: failed to invalidate itinerary cache %s: %v", id, err)
	}
}

// DaysFromInput converts a day/activity payload into domain children ready
// for wholesale replacement.
func DaysFromInput(days []DayInput) []domain.ItineraryDay {
	out := make([]domain.ItineraryDay, 0, len(days))
	for _, d := range days {
		day := domain.ItineraryDay{
			DayNumber: d.DayNumber,
			Title:     d.Title,
			Date:      d.Date,
		}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, domain.Activity{
				Time:        a.Time,
				Title:       a.Title,
				Description: a.Description,
				Location:    a.Location,
				Icon:        a.Icon,
				Position:    a.Position,
			})
		}
		out = append(out, day)
	}
	return out
}

func parseSnapshotDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}

var _ ItineraryUseCase = (*ItineraryService)(nil)
