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
	"github.com/eventease/eventease-api/internal/service"
)

type AttendeeService interface {
	RSVP(ctx context.Context, userID, eventID uint) (domain.Attendee, bool, error)
	CancelRSVP(ctx context.Context, userID, eventID uint) error
	ListByEvent(ctx context.Context, actor domain.AuthUser, eventID uint, status string, offset, limit int) ([]domain.Attendee, int64, error)
	UpdateStatus(ctx context.Context, actor domain.AuthUser, attendeeID uint, status, notes string) (domain.Attendee, error)
	Ban(ctx context.Context, actor domain.AuthUser, attendeeID uint, reason string) error
	Unban(ctx context.Context, actor domain.AuthUser, attendeeID uint) error
	ListMine(ctx context.Context, userID uint, status string, offset, limit int) ([]domain.Attendee, int64, error)
}

type AttendeeHandler struct {
	svc AttendeeService
}

func NewAttendeeHandler(svc AttendeeService) *AttendeeHandler {
	return &AttendeeHandler{
		svc: svc,
	}
}

// HandleRSVP godoc
// @Summary      RSVP to an event
// @Tags         attendees
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Success      201      {object}  response.RSVPResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /attendees/rsvp/{eventID} [post]
// @Security     BearerAuth
func (h *AttendeeHandler) HandleRSVP(ctx *gin.Context) {
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

	attendee, reactivated, err := h.svc.RSVP(ctx.Request.Context(), authUser.ID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrEventNotPublished),
			errors.Is(err, service.ErrEventFull),
			errors.Is(err, service.ErrRegistrationClosed),
			errors.Is(err, service.ErrAlreadyRegistered):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleRSVP -> h.svc.RSVP -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	msg := "RSVP successful"
	if reactivated {
		msg = "RSVP reactivated successfully"
	}

	ctx.JSON(http.StatusCreated, response.RSVPResponse{
		Msg:      msg,
		Attendee: attendee,
	})
}

// HandleCancelRSVP godoc
// @Summary      Cancel an RSVP
// @Tags         attendees
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Success      200      {object}  response.Msg
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /attendees/cancel/{eventID} [delete]
// @Security     BearerAuth
func (h *AttendeeHandler) HandleCancelRSVP(ctx *gin.Context) {
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

	err := h.svc.CancelRSVP(ctx.Request.Context(), authUser.ID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttendeeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("RSVP", "event ID", eventID))
		case errors.Is(err, service.ErrRSVPAlreadyCancelled):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrRSVPAlreadyCancelled))
		default:
			err = fmt.Errorf("v1.HandleCancelRSVP -> h.svc.CancelRSVP -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "RSVP cancelled successfully"})
}

// HandleListMyRSVPs godoc
// @Summary      List the current user's RSVPs
// @Tags         attendees
// @Produce      json
// @Param        status   query     string false "filter by RSVP status"
// @Param        page     query     int    false "page number"
// @Param        limit    query     int    false "page size"
// @Success      200      {object}  response.ListRSVPsResponse
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /attendees/my-rsvps [get]
// @Security     BearerAuth
func (h *AttendeeHandler) HandleListMyRSVPs(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	page, limit, offset := parsePagination(ctx)

	rsvps, total, err := h.svc.ListMine(ctx.Request.Context(), authUser.ID, ctx.Query("status"), offset, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyRSVPs -> h.svc.ListMine -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.ListRSVPsResponse{
		RSVPs:      rsvps,
		Pagination: response.NewPagination(page, limit, total),
	})
}

// HandleListEventAttendees godoc
// @Summary      List an event's attendees
// @Tags         attendees
// @Produce      json
// @Param        eventID  path      int    true  "Event ID"
// @Param        status   query     string false "filter by RSVP status"
// @Param        page     query     int    false "page number"
// @Param        limit    query     int    false "page size"
// @Success      200      {object}  response.ListAttendeesResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /attendees/event/{eventID} [get]
// @Security     BearerAuth
func (h *AttendeeHandler) HandleListEventAttendees(ctx *gin.Context) {
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

	page, limit, offset := parsePagination(ctx)

	attendees, total, err := h.svc.ListByEvent(ctx.Request.Context(), authUser, eventID, ctx.Query("status"), offset, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotAttendeeManager):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAttendeeManager))
		default:
			err = fmt.Errorf("v1.HandleListEventAttendees -> h.svc.ListByEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.ListAttendeesResponse{
		Attendees:  attendees,
		Pagination: response.NewPagination(page, limit, total),
	})
}

// HandleUpdateAttendeeStatus godoc
// @Summary      Update an attendee's RSVP status
// @Tags         attendees
// @Produce      json
// @Param        attendeeID  path      int true "Attendee ID"
// @Param        request     body      request.UpdateAttendeeStatusRequest true "request body"
// @Success      200         {object}  response.AttendeeResponse
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /attendees/{attendeeID}/status [patch]
// @Security     BearerAuth
func (h *AttendeeHandler) HandleUpdateAttendeeStatus(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	attendeeID, respErr := parseUintParam(ctx, "attendeeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.UpdateAttendeeStatusRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	attendee, err := h.svc.UpdateStatus(ctx.Request.Context(), authUser, attendeeID, req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttendeeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("attendee", "ID", attendeeID))
		case errors.Is(err, service.ErrNotAttendeeManager):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAttendeeManager))
		default:
			err = fmt.Errorf("v1.HandleUpdateAttendeeStatus -> h.svc.UpdateStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.AttendeeResponse{
		Msg:      "Attendee status updated",
		Attendee: attendee,
	})
}

// HandleBanAttendee godoc
// @Summary      Ban an attendee from an event
// @Tags         attendees
// @Produce      json
// @Param        attendeeID  path      int true "Attendee ID"
// @Param        request     body      request.BanAttendeeRequest true "request body"
// @Success      200         {object}  response.Msg
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /attendees/{attendeeID}/ban [patch]
// @Security     BearerAuth
func (h *AttendeeHandler) HandleBanAttendee(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	attendeeID, respErr := parseUintParam(ctx, "attendeeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.BanAttendeeRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err := h.svc.Ban(ctx.Request.Context(), authUser, attendeeID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttendeeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("attendee", "ID", attendeeID))
		case errors.Is(err, service.ErrNotAttendeeManager):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAttendeeManager))
		default:
			err = fmt.Errorf("v1.HandleBanAttendee -> h.svc.Ban -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "Attendee banned successfully"})
}

// HandleUnbanAttendee godoc
// @Summary      Lift an attendee's event ban
// @Tags         attendees
// @Produce      json
// @Param        attendeeID  path      int true "Attendee ID"
// @Success      200         {object}  response.Msg
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /attendees/{attendeeID}/unban [patch]
// @Security     BearerAuth
func (h *AttendeeHandler) HandleUnbanAttendee(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	attendeeID, respErr := parseUintParam(ctx, "attendeeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	err := h.svc.Unban(ctx.Request.Context(), authUser, attendeeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttendeeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("attendee", "ID", attendeeID))
		case errors.Is(err, service.ErrNotAttendeeManager):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAttendeeManager))
		default:
			err = fmt.Errorf("v1.HandleUnbanAttendee -> h.svc.Unban -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "Attendee unbanned successfully"})
}
