package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eventhub/internal/domain"
	"eventhub/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth      service.AuthService
	events    service.EventService
	tokens    TokenVerifier
	logger    *logrus.Logger
	startedAt time.Time
}

func NewHandler(auth service.AuthService, events service.EventService, tokens TokenVerifier, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		auth:      auth,
		events:    events,
		tokens:    tokens,
		logger:    logger,
		startedAt: time.Now(),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware(h.logger))

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)

		api.GET("/event", h.listEvents)
		api.POST("/event", h.createEvent)
		api.GET("/event/:id", h.getEvent)
		api.PUT("/event/:id", h.updateEvent)
		api.DELETE("/event/:id", h.deleteEvent)
		api.POST("/event/:id/register", authRequired(h.tokens), h.registerParticipant)

		api.GET("/health", h.health)
	}
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type eventRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Participants []string `json:"participants"`
}

type registerParticipantRequest struct {
	UserID string `json:"userId"`
}

type EventResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Participants []string `json:"participants"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	_, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user created successfully"})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	token, _, err := h.auth.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
	})
}

func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = eventToResponse(&events[i])
	}
	c.JSON(http.StatusOK, gin.H{"events": resp})
}

func (h *Handler) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	event, err := h.events.Create(c.Request.Context(), eventFromRequest(req))
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "event created successfully",
		"event":   eventToResponse(event),
	})
}

func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": eventToResponse(event)})
}

func (h *Handler) updateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	event, err := h.events.Update(c.Request.Context(), c.Param("id"), eventFromRequest(req))
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "event updated successfully",
		"event":   eventToResponse(event),
	})
}

func (h *Handler) deleteEvent(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted successfully"})
}

func (h *Handler) registerParticipant(c *gin.Context) {
	var req registerParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	event, err := h.events.RegisterParticipant(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	h.requestLogger(c).WithFields(logrus.Fields{
		"event": event.ID.Hex(),
		"user":  req.UserID,
		"actor": authUserID(c),
	}).Info("participant registered")

	c.JSON(http.StatusOK, gin.H{
		"message": "user registered successfully",
		"event":   eventToResponse(event),
	})
}

func (h *Handler) health(c *gin.Context) {
	uptime := time.Since(h.startedAt).Round(time.Second)
	c.String(http.StatusOK, fmt.Sprintf("health check, uptime: %s", uptime))
}

func (h *Handler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.requestLogger(c).WithError(err).Error("auth request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func (h *Handler) writeEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrEventAlreadyExists),
		errors.Is(err, service.ErrAlreadyRegistered):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.requestLogger(c).WithError(err).Error("event request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func (h *Handler) requestLogger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get("requestLogger"); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(h.logger)
}

func eventFromRequest(req eventRequest) *domain.Event {
	return &domain.Event{
		Name:         req.Name,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Participants: req.Participants,
	}
}

func eventToResponse(event *domain.Event) EventResponse {
	resp := EventResponse{
		ID:           event.ID.Hex(),
		Name:         event.Name,
		Description:  event.Description,
		Date:         event.Date,
		Time:         event.Time,
		Participants: event.Participants,
		CreatedAt:    event.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    event.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Participants == nil {
		resp.Participants = []string{}
	}
	return resp
}
