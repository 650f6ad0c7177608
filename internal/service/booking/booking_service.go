package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bluevoyage/travelbooking/internal/audit"
	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/bluevoyage/travelbooking/internal/kafka"
	"github.com/bluevoyage/travelbooking/internal/repository"
	"github.com/bluevoyage/travelbooking/internal/sequence"
	"github.com/bluevoyage/travelbooking/internal/service/itinerary"
	"github.com/bluevoyage/travelbooking/internal/snapshot"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetByID(ctx context.Context, id, viewerID string) (*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	UpdateItinerary(ctx context.Context, input UpdateItineraryInput) (*domain.Booking, error)
	SubmitBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
	DeleteBookingDraft(ctx context.Context, bookingID, userID string) error
	AddCollaborator(ctx context.Context, bookingID, ownerID, userID string) error
	RemoveCollaborator(ctx context.Context, bookingID, ownerID, userID string) error
}

// ItineraryEditor is the slice of the itinerary service the booking flows
// delegate to. Booking-scoped edits and collaborator management are aliases
// onto the linked itinerary; the booking side only adds its own gates.
type ItineraryEditor interface {
	ApplyUpdate(ctx context.Context, q repository.Querier, input itinerary.UpdateInput) (*domain.Itinerary, error)
	AddCollaborator(ctx context.Context, itineraryID, ownerID, userID string) error
	RemoveCollaborator(ctx context.Context, itineraryID, ownerID, userID string) error
}

type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification)
	NotifyAdmins(ctx context.Context, notification domain.Notification)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings      repository.BookingRepository
	itineraries   repository.ItineraryRepository
	collaborators repository.CollaboratorRepository
	versions      repository.VersionRepository
	packages      repository.TourPackageRepository
	txm           repository.TxManager
	codes         sequence.Generator
	auditor       audit.Recorder
	editor        ItineraryEditor
	notifier      Notifier
	producer      Producer
	eventsTopic   string
	now           func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	itineraries repository.ItineraryRepository,
	collaborators repository.CollaboratorRepository,
	versions repository.VersionRepository,
	packages repository.TourPackageRepository,
	txm repository.TxManager,
	codes sequence.Generator,
	auditor audit.Recorder,
	editor ItineraryEditor,
	notifier Notifier,
	producer Producer,
	eventsTopic string,
) *BookingService {
	return &BookingService{
		bookings:      bookings,
		itineraries:   itineraries,
		collaborators: collaborators,
		versions:      versions,
		packages:      packages,
		txm:           txm,
		codes:         codes,
		auditor:       auditor,
		editor:        editor,
		notifier:      notifier,
		producer:      producer,
		eventsTopic:   eventsTopic,
		now:           time.Now,
	}
}

type CreateBookingInput struct {
	OwnerID      string
	Role         domain.UserRole
	TourType     domain.TourType
	Destination  string
	StartDate    *time.Time
	EndDate      *time.Time
	Travelers    int
	TotalPrice   *float64
	Budget       *float64
	ContactName  string
	ContactEmail string
	ContactPhone string

	// Exactly one of the three creation paths applies: an inline SMART_TRIP
	// payload, a tour package to clone, or an existing itinerary to link.
	SmartTrip     *SmartTripInput
	TourPackageID string
	ItineraryID   string
}

type SmartTripInput struct {
	Title       string
	TravelPace  string
	Preferences []string
	Days        []itinerary.DayInput
}

type UpdateItineraryInput struct {
	BookingID       string
	UserID          string
	ExpectedVersion int64

	Title         string
	Destination   string
	StartDate     *time.Time
	EndDate       *time.Time
	Travelers     int
	EstimatedCost *float64
	TravelPace    string
	Preferences   []string
	Days          []itinerary.DayInput

	TotalPrice   *float64
	ContactName  string
	ContactEmail string
	ContactPhone string
}

type UpdateStatusInput struct {
	BookingID  string
	ActorID    string
	Status     domain.BookingStatus
	Reason     string
	Resolution string
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	b := &domain.Booking{
		OwnerID:      input.OwnerID,
		Destination:  input.Destination,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Travelers:    input.Travelers,
		TotalPrice:   input.TotalPrice,
		Budget:       input.Budget,
		Status:       domain.BookingStatusDraft,
		TourType:     input.TourType,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
	}

	err := s.txm.InTx(ctx, func(q repository.Querier) error {
		code, err := s.codes.NextCode(ctx, q, s.now().Year())
		if err != nil {
			return err
		}
		b.Code = code

		switch {
		case input.SmartTrip != nil:
			b.Type = domain.BookingTypeCustomized
			if err := s.createSmartTripItinerary(ctx, q, b, input); err != nil {
				return err
			}
		case input.TourPackageID != "":
			b.Type = domain.BookingTypeStandard
			if err := s.clonePackageItinerary(ctx, q, b, input); err != nil {
				return err
			}
		case input.ItineraryID != "":
			if err := s.linkExistingItinerary(ctx, b, input); err != nil {
				return err
			}
		default:
			return fmt.Errorf("booking creation requires a smart trip payload, a tour package or an itinerary")
		}

		if err := s.bookings.Create(ctx, q, b); err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    input.OwnerID,
			Action:     "booking.create",
			EntityType: "booking",
			EntityID:   b.ID,
			Metadata:   map[string]any{"code": b.Code, "itinerary_id": b.ItineraryID},
			Message:    "booking created",
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, b, fmt.Sprintf("Booking %s has been created", b.Code))
	s.publishEvent(ctx, "booking_created", b)
	return b, nil
}

func (s *BookingService) createSmartTripItinerary(ctx context.Context, q repository.Querier, b *domain.Booking, input CreateBookingInput) error {
	it := &domain.Itinerary{
		OwnerID:       input.OwnerID,
		Title:         input.SmartTrip.Title,
		Destination:   input.Destination,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Travelers:     input.Travelers,
		EstimatedCost: input.TotalPrice,
		TravelPace:    input.SmartTrip.TravelPace,
		Preferences:   input.SmartTrip.Preferences,
		Type:          domain.ItineraryTypeSmartTrip,
		Status:        domain.ItineraryStatusDraft,
		TourType:      input.TourType,
		Days:          itinerary.DaysFromInput(input.SmartTrip.Days),
	}
	if err := s.createItineraryWithSnapshot(ctx, q, it, input.OwnerID); err != nil {
		return err
	}
	b.ItineraryID = it.ID
	return nil
}

func (s *BookingService) clonePackageItinerary(ctx context.Context, q repository.Querier, b *domain.Booking, input CreateBookingInput) error {
	pkg, err := s.packages.GetByID(ctx, input.TourPackageID)
	if err != nil {
		return err
	}

	// Template children are copied by value; ReplaceDays assigns fresh ids,
	// so the clone never references package rows.
	days := make([]domain.ItineraryDay, 0, len(pkg.TemplateDays))
	for _, d := range pkg.TemplateDays {
		day := domain.ItineraryDay{DayNumber: d.DayNumber, Title: d.Title}
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
		days = append(days, day)
	}

	price := pkg.Price
	it := &domain.Itinerary{
		OwnerID:       input.OwnerID,
		Title:         pkg.Name,
		Destination:   pkg.Destination,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Travelers:     input.Travelers,
		EstimatedCost: &price,
		Type:          domain.ItineraryTypeStandard,
		Status:        domain.ItineraryStatusDraft,
		TourType:      pkg.TourType,
		Days:          days,
	}
	if err := s.createItineraryWithSnapshot(ctx, q, it, input.OwnerID); err != nil {
		return err
	}

	b.ItineraryID = it.ID
	if b.Destination == "" {
		b.Destination = pkg.Destination
	}
	if b.TotalPrice == nil {
		b.TotalPrice = &price
	}
	return nil
}

func (s *BookingService) linkExistingItinerary(ctx context.Context, b *domain.Booking, input CreateBookingInput) error {
	it, err := s.itineraries.GetByID(ctx, input.ItineraryID)
	if err != nil {
		return err
	}
	if !it.IsOwner(input.OwnerID) && input.Role != domain.UserRoleAdmin {
		return domain.ErrForbidden
	}
	if it.Type == domain.ItineraryTypeRequested && it.RequestStatus != domain.RequestStatusConfirmed {
		return domain.ErrItineraryNotConfirmed
	}

	b.ItineraryID = it.ID
	if b.Destination == "" {
		b.Destination = it.Destination
	}
	if b.StartDate == nil {
		b.StartDate = it.StartDate
	}
	if b.EndDate == nil {
		b.EndDate = it.EndDate
	}
	if b.Travelers == 0 {
		b.Travelers = it.Travelers
	}
	switch it.Type {
	case domain.ItineraryTypeRequested:
		b.Type = domain.BookingTypeRequested
	case domain.ItineraryTypeCustomized, domain.ItineraryTypeSmartTrip:
		b.Type = domain.BookingTypeCustomized
	default:
		b.Type = domain.BookingTypeStandard
	}
	return nil
}

func (s *BookingService) createItineraryWithSnapshot(ctx context.Context, q repository.Querier, it *domain.Itinerary, actorID string) error {
	if err := s.itineraries.Create(ctx, q, it); err != nil {
		return err
	}
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

func (s *BookingService) GetByID(ctx context.Context, id, viewerID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != viewerID {
		collaborator, err := s.collaborators.Exists(ctx, b.ItineraryID, viewerID)
		if err != nil {
			return nil, err
		}
		if !collaborator {
			return nil, domain.ErrNotFound
		}
	}
	return b, nil
}

func (s *BookingService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	return s.bookings.ListByOwner(ctx, ownerID)
}

// UpdateItinerary is the booking-scoped edit. The booking layer decides who
// may still edit (owner while DRAFT/PENDING/REJECTED, collaborators only
// while DRAFT), then hands the payload to the itinerary OCC path; the
// denormalized booking fields change on the same transaction as the version
// bump, so a conflict rolls both back.
func (s *BookingService) UpdateItinerary(ctx context.Context, input UpdateItineraryInput) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	if b.OwnerID == input.UserID {
		switch b.Status {
		case domain.BookingStatusDraft, domain.BookingStatusPending, domain.BookingStatusRejected:
		default:
			return nil, domain.ErrBookingNotEditable
		}
	} else {
		collaborator, err := s.collaborators.Exists(ctx, b.ItineraryID, input.UserID)
		if err != nil {
			return nil, err
		}
		if !collaborator {
			return nil, domain.ErrForbidden
		}
		if b.Status != domain.BookingStatusDraft {
			return nil, domain.ErrCollaboratorNotAllowed
		}
	}

	err = s.txm.InTx(ctx, func(q repository.Querier) error {
		it, err := s.editor.ApplyUpdate(ctx, q, itinerary.UpdateInput{
			ItineraryID:     b.ItineraryID,
			UserID:          input.UserID,
			ExpectedVersion: input.ExpectedVersion,
			Title:           input.Title,
			Destination:     input.Destination,
			StartDate:       input.StartDate,
			EndDate:         input.EndDate,
			Travelers:       input.Travelers,
			EstimatedCost:   input.EstimatedCost,
			TravelPace:      input.TravelPace,
			Preferences:     input.Preferences,
			Days:            input.Days,
		})
		if err != nil {
			return err
		}

		b.Destination = it.Destination
		b.StartDate = it.StartDate
		b.EndDate = it.EndDate
		b.Travelers = it.Travelers
		if input.TotalPrice != nil {
			b.TotalPrice = input.TotalPrice
		}
		if input.ContactName != "" {
			b.ContactName = input.ContactName
		}
		if input.ContactEmail != "" {
			b.ContactEmail = input.ContactEmail
		}
		if input.ContactPhone != "" {
			b.ContactPhone = input.ContactPhone
		}
		b.Resolved = false
		return s.bookings.UpdateDetails(ctx, q, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// SubmitBooking moves a draft (or rejected) booking to PENDING after checking
// that every itinerary day has at least one activity.
func (s *BookingService) SubmitBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	if b.Status != domain.BookingStatusDraft && b.Status != domain.BookingStatusRejected {
		return nil, domain.ErrCannotSubmit
	}

	it, err := s.itineraries.GetByID(ctx, b.ItineraryID)
	if err != nil {
		return nil, err
	}
	if len(it.Days) == 0 {
		return nil, domain.ErrActivitiesRequired
	}
	for _, day := range it.Days {
		if len(day.Activities) == 0 {
			return nil, domain.ErrActivitiesRequired
		}
	}

	var updated *domain.Booking
	err = s.txm.InTx(ctx, func(q repository.Querier) error {
		updated, err = s.bookings.UpdateStatus(ctx, q, bookingID, b.Status, domain.BookingStatusPending, false, "", "")
		if err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    userID,
			Action:     "booking.submit",
			EntityType: "booking",
			EntityID:   bookingID,
			Metadata:   map[string]any{"code": b.Code},
			Message:    "booking submitted for review",
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, updated, fmt.Sprintf("Booking %s has been submitted", updated.Code))
	s.publishEvent(ctx, "booking_submitted", updated)
	return updated, nil
}

// UpdateStatus is the admin-driven transition. Anything outside the
// transition table fails without touching the row; a same-state call is a
// no-op. REJECTED requires reason and resolution, validated by the caller.
func (s *BookingService) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == input.Status {
		return b, nil
	}
	if !b.Status.CanTransitionTo(input.Status) {
		return nil, domain.ErrInvalidStatusTransition
	}

	resolved := false
	switch input.Status {
	case domain.BookingStatusConfirmed, domain.BookingStatusRejected, domain.BookingStatusCancelled, domain.BookingStatusCompleted:
		resolved = true
	}

	reason, resolution := b.RejectionReason, b.RejectionResolution
	if input.Status == domain.BookingStatusRejected {
		reason, resolution = input.Reason, input.Resolution
	}

	var updated *domain.Booking
	err = s.txm.InTx(ctx, func(q repository.Querier) error {
		// The from-status condition catches transitions raced in between
		// the read above and this write.
		updated, err = s.bookings.UpdateStatus(ctx, q, input.BookingID, b.Status, input.Status, resolved, reason, resolution)
		if err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    input.ActorID,
			Action:     "booking.status",
			EntityType: "booking",
			EntityID:   input.BookingID,
			Metadata:   map[string]any{"from": string(b.Status), "to": string(input.Status)},
			Message:    "booking status updated",
		})
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, domain.Notification{
			UserID:  updated.OwnerID,
			Message: fmt.Sprintf("Booking %s is now %s", updated.Code, updated.Status),
			Data: domain.BookingNotificationData{
				BookingID:   updated.ID,
				BookingCode: updated.Code,
				Status:      string(updated.Status),
			},
		})
	}
	s.publishEvent(ctx, "booking_status_changed", updated)
	return updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	if b.Status.IsTerminal() {
		return nil, domain.ErrCannotCancel
	}

	var updated *domain.Booking
	err = s.txm.InTx(ctx, func(q repository.Querier) error {
		updated, err = s.bookings.UpdateStatus(ctx, q, bookingID, b.Status, domain.BookingStatusCancelled, true, b.RejectionReason, b.RejectionResolution)
		if err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    userID,
			Action:     "booking.cancel",
			EntityType: "booking",
			EntityID:   bookingID,
			Metadata:   map[string]any{"code": b.Code},
			Message:    "booking cancelled by owner",
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, updated, fmt.Sprintf("Booking %s has been cancelled", updated.Code))
	s.publishEvent(ctx, "booking_cancelled", updated)
	return updated, nil
}

func (s *BookingService) DeleteBookingDraft(ctx context.Context, bookingID, userID string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.OwnerID != userID {
		return domain.ErrForbidden
	}
	if b.Status != domain.BookingStatusDraft {
		return domain.ErrCannotDeleteNonDraft
	}

	return s.txm.InTx(ctx, func(q repository.Querier) error {
		if err := s.bookings.Delete(ctx, q, bookingID); err != nil {
			return err
		}
		return s.auditor.Record(ctx, q, domain.AuditEntry{
			ActorID:    userID,
			Action:     "booking.delete",
			EntityType: "booking",
			EntityID:   bookingID,
			Metadata:   map[string]any{"code": b.Code},
			Message:    "draft booking deleted",
		})
	})
}

// AddCollaborator on a booking manages the linked itinerary's collaborator
// list; only the booking owner may do so.
func (s *BookingService) AddCollaborator(ctx context.Context, bookingID, ownerID, userID string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	return s.editor.AddCollaborator(ctx, b.ItineraryID, ownerID, userID)
}

func (s *BookingService) RemoveCollaborator(ctx context.Context, bookingID, ownerID, userID string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	return s.editor.RemoveCollaborator(ctx, b.ItineraryID, ownerID, userID)
}

func (s *BookingService) notifyBooking(ctx context.Context, b *domain.Booking, message string) {
	if s.notifier == nil {
		return
	}
	notification := domain.Notification{
		UserID:  b.OwnerID,
		Message: message,
		Data: domain.BookingNotificationData{
			BookingID:   b.ID,
			BookingCode: b.Code,
			Status:      string(b.Status),
		},
	}
	s.notifier.Notify(ctx, notification)
	s.notifier.NotifyAdmins(ctx, notification)
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   b.ID,
		BookingCode: b.Code,
		ItineraryID: b.ItineraryID,
		OwnerID:     b.OwnerID,
		Status:      string(b.Status),
		Destination: b.Destination,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, b.Code, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, b.Code, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
