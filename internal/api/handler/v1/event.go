package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventease/eventease-api/internal/api/handler/v1/request"
	"github.com/eventease/eventease-api/internal/api/handler/v1/response"
	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository"
	"github.com/eventease/eventease-api/internal/service"
)

type EventService interface {
	Create(ctx context.Context, actor domain.AuthUser, event domain.Event) (domain.Event, error)
	List(ctx context.Context, q repository.ListEventsQuery) ([]domain.Event, int64, error)
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	Update(ctx context.Context, actor domain.AuthUser, id uint, update service.EventUpdate) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
	AssignOrganiser(ctx context.Context, actor domain.AuthUser, eventID, organiserID uint) (domain.Event, error)
	RemoveOrganiser(ctx context.Context, eventID, organiserID uint) (domain.Event, error)
	ListMine(ctx context.Context, actor domain.AuthUser, offset, limit int) ([]domain.Event, int64, error)
	GetStats(ctx context.Context, actor domain.AuthUser, eventID uint) (service.EventStats, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Produce      json
// @Param        request  body      request.CreateEventRequest true "request body"
// @Success      201      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.CreateEventRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.Create(ctx.Request.Context(), authUser, domain.Event{
		Title:                   req.Title,
		Description:             req.Description,
		Location:                req.Location,
		Category:                req.Category,
		ImageURL:                req.ImageURL,
		StartDate:               req.EffectiveStartDate(),
		RegistrationDeadline:    req.RegistrationDeadline,
		MaxAttendees:            req.MaxAttendees,
		Status:                  req.Status,
		Tags:                    req.Tags,
		AllowSponsorship:        req.AllowSponsorship,
		SponsorshipRequirements: req.SponsorshipRequirements,
	})
	if err != nil {
		if errors.Is(err, service.ErrDeadlineAfterStart) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrDeadlineAfterStart))

			return
		}

		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.EventResponse{Event: event})
}

// HandleListEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        search    query     string false "match against title or description"
// @Param        category  query     string false "filter by category"
// @Param        status    query     string false "filter by status"
// @Param        sort      query     string false "sort column"
// @Param        order     query     string false "asc or desc"
// @Param        page      query     int    false "page number"
// @Param        limit     query     int    false "page size"
// @Success      200       {object}  response.ListEventsResponse
// @Failure      500       {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	page, limit, offset := parsePagination(ctx)

	events, total, err := h.svc.List(ctx.Request.Context(), repository.ListEventsQuery{
		Search:   ctx.Query("search"),
		Category: ctx.Query("category"),
		Status:   ctx.Query("status"),
		SortBy:   ctx.Query("sort"),
		SortDesc: ctx.Query("order") == "desc",
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.ListEventsResponse{
		Events:     events,
		Pagination: response.NewPagination(page, limit, total),
	})
}

// HandleListMyEvents godoc
// @Summary      List the events the current user manages or created
// @Tags         events
// @Produce      json
// @Param        page     query     int false "page number"
// @Param        limit    query     int false "page size"
// @Success      200      {object}  response.ListEventsResponse
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/my/events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListMyEvents(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	page, limit, offset := parsePagination(ctx)

	events, total, err := h.svc.ListMine(ctx.Request.Context(), authUser, offset, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyEvents -> h.svc.ListMine -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.ListEventsResponse{
		Events:     events,
		Pagination: response.NewPagination(page, limit, total),
	})
}

// HandleGetEvent godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	event, err := h.svc.GetByID(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetByID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Event: event})
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Param        request  body      request.UpdateEventRequest true "request body"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [patch]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.UpdateEventRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.Update(ctx.Request.Context(), authUser, eventID, service.EventUpdate{
		Title:                   req.Title,
		Description:             req.Description,
		Location:                req.Location,
		Category:                req.Category,
		ImageURL:                req.ImageURL,
		StartDate:               req.EffectiveStartDate(),
		RegistrationDeadline:    req.RegistrationDeadline,
		MaxAttendees:            req.MaxAttendees,
		Status:                  req.Status,
		Tags:                    req.Tags,
		AllowSponsorship:        req.AllowSponsorship,
		SponsorshipRequirements: req.SponsorshipRequirements,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotEventManager):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotEventManager))
		case errors.Is(err, service.ErrDeadlineAfterStart):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrDeadlineAfterStart))
		default:
			err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.Update -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Event: event})
}

// HandleDeleteEvent godoc
// @Summary      Delete an event and notify its attendees and sponsors
// @Tags         events
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Success      200      {object}  response.Msg
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	err := h.svc.Delete(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "Event deleted successfully"})
}

// HandleAssignOrganiser godoc
// @Summary      Assign an organiser to an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Param        request  body      request.AssignOrganiserRequest true "request body"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/assign-organiser [post]
// @Security     BearerAuth
func (h *EventHandler) HandleAssignOrganiser(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.AssignOrganiserRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.AssignOrganiser(ctx.Request.Context(), authUser, eventID, req.OrganiserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", req.OrganiserID))
		case errors.Is(err, service.ErrNotOrganiserRole),
			errors.Is(err, service.ErrOrganiserBanned),
			errors.Is(err, service.ErrOrganiserAssigned):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleAssignOrganiser -> h.svc.AssignOrganiser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Event: event})
}

// HandleRemoveOrganiser godoc
// @Summary      Remove an organiser from an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Param        request  body      request.AssignOrganiserRequest true "request body"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/remove-organiser [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleRemoveOrganiser(ctx *gin.Context) {
	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.AssignOrganiserRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.RemoveOrganiser(ctx.Request.Context(), eventID, req.OrganiserID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleRemoveOrganiser -> h.svc.RemoveOrganiser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Event: event})
}

// HandleGetEventStats godoc
// @Summary      Get attendee and sponsorship breakdowns for an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Success      200      {object}  response.EventStatsResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/stats/{eventID} [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEventStats(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	stats, err := h.svc.GetStats(ctx.Request.Context(), authUser, eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotEventManager):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotEventManager))
		default:
			err = fmt.Errorf("v1.HandleGetEventStats -> h.svc.GetStats -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.EventStatsResponse{
		Event: response.EventSummary{
			ID:        stats.Event.ID,
			Title:     stats.Event.Title,
			StartDate: stats.Event.StartDate.Format("2006-01-02 15:04:05"),
		},
		AttendeeStats:    stats.AttendeeStats,
		SponsorshipStats: stats.SponsorshipStats,
	})
}
