package api

import (
	"net/http"
	"time"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/bluevoyage/travelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id/itinerary", h.updateItinerary)
	router.POST("/:id/submit", h.submit)
	router.PUT("/:id/status", h.updateStatus)
	router.POST("/:id/cancel", h.cancel)
	router.DELETE("/:id", h.deleteDraft)
	router.POST("/:id/collaborators", h.addCollaborator)
	router.DELETE("/:id/collaborators/:userId", h.removeCollaborator)
}

type smartTripRequest struct {
	Title       string       `json:"title" binding:"required"`
	TravelPace  string       `json:"travel_pace"`
	Preferences []string     `json:"preferences"`
	Days        []dayRequest `json:"days" binding:"required"`
}

type createBookingRequest struct {
	TourType     string     `json:"tour_type"`
	Destination  string     `json:"destination"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Travelers    int        `json:"travelers"`
	TotalPrice   *float64   `json:"total_price"`
	Budget       *float64   `json:"budget"`
	ContactName  string     `json:"contact_name"`
	ContactEmail string     `json:"contact_email"`
	ContactPhone string     `json:"contact_phone"`

	SmartTrip     *smartTripRequest `json:"smart_trip"`
	TourPackageID string            `json:"tour_package_id"`
	ItineraryID   string            `json:"itinerary_id"`
}

type updateBookingItineraryRequest struct {
	ExpectedVersion int64        `json:"expected_version" binding:"required"`
	Title           string       `json:"title" binding:"required"`
	Destination     string       `json:"destination" binding:"required"`
	StartDate       *time.Time   `json:"start_date"`
	EndDate         *time.Time   `json:"end_date"`
	Travelers       int          `json:"travelers"`
	EstimatedCost   *float64     `json:"estimated_cost"`
	TravelPace      string       `json:"travel_pace"`
	Preferences     []string     `json:"preferences"`
	Days            []dayRequest `json:"days"`
	TotalPrice      *float64     `json:"total_price"`
	ContactName     string       `json:"contact_name"`
	ContactEmail    string       `json:"contact_email"`
	ContactPhone    string       `json:"contact_phone"`
}

type updateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	Reason     string `json:"reason"`
	Resolution string `json:"resolution"`
}

type bookingResponse struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	OwnerID       string     `json:"owner_id"`
	ItineraryID   string     `json:"itinerary_id"`
	Destination   string     `json:"destination"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Travelers     int        `json:"travelers"`
	TotalPrice    *float64   `json:"total_price"`
	Budget        *float64   `json:"budget"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	TourType      string     `json:"tour_type"`
	PaymentStatus string     `json:"payment_status"`
	ContactName   string     `json:"contact_name"`
	ContactEmail  string     `json:"contact_email"`
	ContactPhone  string     `json:"contact_phone"`
	Resolved      bool       `json:"resolved"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (h *BookingHandler) create(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION", "message": err.Error()})
		return
	}

	input := booking.CreateBookingInput{
		OwnerID:       userID,
		Role:          role,
		TourType:      domain.TourType(req.TourType),
		Destination:   req.Destination,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Travelers:     req.Travelers,
		TotalPrice:    req.TotalPrice,
		Budget:        req.Budget,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		TourPackageID: req.TourPackageID,
		ItineraryID:   req.ItineraryID,
	}
	if req.SmartTrip != nil {
		input.SmartTrip = &booking.SmartTripInput{
			Title:       req.SmartTrip.Title,
			TravelPace:  req.SmartTrip.TravelPace,
			Preferences: req.SmartTrip.Preferences,
			Days:        daysInput(req.SmartTrip.Days),
		}
	}

	b, err := h.service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h *BookingHandler) list(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	bookings, err := h.service.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) updateItinerary(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	var req updateBookingItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION", "message": err.Error()})
		return
	}

	b, err := h.service.UpdateItinerary(c.Request.Context(), booking.UpdateItineraryInput{
		BookingID:       c.Param("id"),
		UserID:          userID,
		ExpectedVersion: req.ExpectedVersion,
		Title:           req.Title,
		Destination:     req.Destination,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Travelers:       req.Travelers,
		EstimatedCost:   req.EstimatedCost,
		TravelPace:      req.TravelPace,
		Preferences:     req.Preferences,
		Days:            daysInput(req.Days),
		TotalPrice:      req.TotalPrice,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) submit(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	b, err := h.service.SubmitBooking(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	if role != domain.UserRoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "FORBIDDEN", "message": "admin role required"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION", "message": err.Error()})
		return
	}
	if req.Status == string(domain.BookingStatusRejected) && (req.Reason == "" || req.Resolution == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION", "message": "rejection requires reason and resolution"})
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), booking.UpdateStatusInput{
		BookingID:  c.Param("id"),
		ActorID:    userID,
		Status:     domain.BookingStatus(req.Status),
		Reason:     req.Reason,
		Resolution: req.Resolution,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) deleteDraft(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBookingDraft(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) addCollaborator(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	var req collaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION", "message": err.Error()})
		return
	}
	if err := h.service.AddCollaborator(c.Request.Context(), c.Param("id"), userID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) removeCollaborator(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	if err := h.service.RemoveCollaborator(c.Request.Context(), c.Param("id"), userID, c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		Code:          b.Code,
		OwnerID:       b.OwnerID,
		ItineraryID:   b.ItineraryID,
		Destination:   b.Destination,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		Travelers:     b.Travelers,
		TotalPrice:    b.TotalPrice,
		Budget:        b.Budget,
		Type:          string(b.Type),
		Status:        string(b.Status),
		TourType:      string(b.TourType),
		PaymentStatus: b.PaymentStatus,
		ContactName:   b.ContactName,
		ContactEmail:  b.ContactEmail,
		ContactPhone:  b.ContactPhone,
		Resolved:      b.Resolved,
		CreatedAt:     b.CreatedAt,
	}
}
