package api

import (
	"net/http"
	"time"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/bluevoyage/travelbooking/internal/service/itinerary"
	"github.com/gin-gonic/gin"
)

type ItineraryHandler struct {
	service itinerary.ItineraryUseCase
}

func NewItineraryHandler(service itinerary.ItineraryUseCase) *ItineraryHandler {
	return &ItineraryHandler{service: service}
}

func (h *ItineraryHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.POST("/:id/send", h.send)
	router.POST("/:id/confirm", h.confirm)
	router.DELETE("/:id", h.archive)
	router.GET("/:id/collaborators", h.listCollaborators)
	router.POST("/:id/collaborators", h.addCollaborator)
	router.DELETE("/:id/collaborators/:userId", h.removeCollaborator)
	router.GET("/:id/versions", h.listVersions)
	router.GET("/:id/versions/:versionId", h.getVersion)
	router.POST("/:id/versions/:versionId/restore", h.restoreVersion)
}

type activityRequest struct {
	Time        string `json:"time"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Icon        string `json:"icon"`
	Position    int    `json:"position"`
}

type dayRequest struct {
	DayNumber  int               `json:"day_number" binding:"required"`
	Title      string            `json:"title"`
	Date       *time.Time        `json:"date"`
	Activities []activityRequest `json:"activities"`
}

type createItineraryRequest struct {
	Title         string       `json:"title" binding:"required"`
	Destination   string       `json:"destination" binding:"required"`
	StartDate     *time.Time   `json:"start_date"`
	EndDate       *time.Time   `json:"end_date"`
	Travelers     int          `json:"travelers"`
	EstimatedCost *float64     `json:"estimated_cost"`
	TravelPace    string       `json:"travel_pace"`
	Preferences   []string     `json:"preferences"`
	Type          string       `json:"type"`
	TourType      string       `json:"tour_type"`
	Days          []dayRequest `json:"days"`
}

type updateItineraryRequest struct {
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
}

type collaboratorRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type restoreVersionRequest struct {
	ExpectedVersion int64 `json:"expected_version" binding:"required"`
}

type itineraryResponse struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"owner_id"`
	Title         string        `json:"title"`
	Destination   string        `json:"destination"`
	StartDate     *time.Time    `json:"start_date"`
	EndDate       *time.Time    `json:"end_date"`
	Travelers     int           `json:"travelers"`
	EstimatedCost *float64      `json:"estimated_cost"`
	TravelPace    string        `json:"travel_pace"`
	Preferences   []string      `json:"preferences"`
	Type          string        `json:"type"`
	Status        string        `json:"status"`
	TourType      string        `json:"tour_type"`
	Version       int64         `json:"version"`
	RequestStatus string        `json:"request_status"`
	Days          []dayResponse `json:"days"`
}

type dayResponse struct {
	DayNumber  int                `json:"day_number"`
	Title      string             `json:"title"`
	Date       *time.Time         `json:"date"`
	Activities []activityResponse `json:"activities"`
}

type activityResponse struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Icon        string `json:"icon"`
	Position    int    `json:"position"`
}

type versionSummaryResponse struct {
	ID          string    `json:"id"`
	Version     int64     `json:"version"`
	CreatedBy   string    `json:"created_by"`
	CreatorName string    `json:"creator_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *ItineraryHandler) create(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	var req createItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION", "message": err.Error()})
		return
	}

	it, err := h.service.Create(c.Request.Context(), itinerary.CreateInput{
		OwnerID:       userID,
		Title:         req.Title,
		Destination:   req.Destination,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Travelers:     req.Travelers,
		EstimatedCost: req.EstimatedCost,
		TravelPace:    req.TravelPace,
		Preferences:   req.Preferences,
		Type:          domain.ItineraryType(req.Type),
		TourType:      domain.TourType(req.TourType),
		Days:          daysInput(req.Days),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItineraryResponse(it))
}

func (h *ItineraryHandler) get(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	it, err := h.service.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItineraryResponse(it))
}

func (h *ItineraryHandler) update(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	var req updateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION", "message": err.Error()})
		return
	}

	it, err := h.service.Update(c.Request.Context(), itinerary.UpdateInput{
		ItineraryID:     c.Param("id"),
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
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItineraryResponse(it))
}

func (h *ItineraryHandler) send(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	if err := h.service.Send(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ItineraryHandler) confirm(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	if err := h.service.Confirm(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ItineraryHandler) archive(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	if err := h.service.Archive(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ItineraryHandler) listCollaborators(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	collaborators, err := h.service.ListCollaborators(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collaborators)
}

func (h *ItineraryHandler) addCollaborator(c *gin.Context) {
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

func (h *ItineraryHandler) removeCollaborator(c *gin.Context) {
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

func (h *ItineraryHandler) listVersions(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	versions, err := h.service.ListVersions(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]versionSummaryResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, versionSummaryResponse{
			ID:          v.ID,
			Version:     v.Version,
			CreatedBy:   v.CreatedBy,
			CreatorName: v.CreatorName,
			CreatedAt:   v.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *ItineraryHandler) getVersion(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	version, err := h.service.GetVersionDetail(c.Request.Context(), c.Param("id"), c.Param("versionId"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         version.ID,
		"version":    version.Version,
		"created_by": version.CreatedBy,
		"created_at": version.CreatedAt,
		"snapshot":   version.Snapshot,
	})
}

func (h *ItineraryHandler) restoreVersion(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	var req restoreVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION", "message": err.Error()})
		return
	}
	it, err := h.service.RestoreVersion(c.Request.Context(), itinerary.RestoreInput{
		ItineraryID:     c.Param("id"),
		VersionID:       c.Param("versionId"),
		UserID:          userID,
		Role:            role,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItineraryResponse(it))
}

func daysInput(days []dayRequest) []itinerary.DayInput {
	out := make([]itinerary.DayInput, 0, len(days))
	for _, d := range days {
		day := itinerary.DayInput{DayNumber: d.DayNumber, Title: d.Title, Date: d.Date}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, itinerary.ActivityInput{
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

func toItineraryResponse(it *domain.Itinerary) itineraryResponse {
	resp := itineraryResponse{
		ID:            it.ID,
		OwnerID:       it.OwnerID,
		Title:         it.Title,
		Destination:   it.Destination,
		StartDate:     it.StartDate,
		EndDate:       it.EndDate,
		Travelers:     it.Travelers,
		EstimatedCost: it.EstimatedCost,
		TravelPace:    it.TravelPace,
		Preferences:   it.Preferences,
		Type:          string(it.Type),
		Status:        string(it.Status),
		TourType:      string(it.TourType),
		Version:       it.Version,
		RequestStatus: string(it.RequestStatus),
		Days:          make([]dayResponse, 0, len(it.Days)),
	}
	for _, d := range it.Days {
		day := dayResponse{DayNumber: d.DayNumber, Title: d.Title, Date: d.Date, Activities: make([]activityResponse, 0, len(d.Activities))}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, activityResponse{
				Time:        a.Time,
				Title:       a.Title,
				Description: a.Description,
				Location:    a.Location,
				Icon:        a.Icon,
				Position:    a.Position,
			})
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}
