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

type SponsorshipService interface {
	Create(ctx context.Context, userID, eventID uint, amount float64, message string) (domain.Sponsorship, error)
	ListByEvent(ctx context.Context, actor domain.AuthUser, eventID uint, status string, offset, limit int) (service.SponsorshipPage, error)
	UpdateStatus(ctx context.Context, actor domain.AuthUser, sponsorshipID uint, status, rejectedReason string) (domain.Sponsorship, error)
	ListMine(ctx context.Context, userID uint, status string, offset, limit int) (service.SponsorshipPage, error)
}

type SponsorshipHandler struct {
	svc SponsorshipService
}

func NewSponsorshipHandler(svc SponsorshipService) *SponsorshipHandler {
	return &SponsorshipHandler{
		svc: svc,
	}
}

// HandleCreateSponsorship godoc
// @Summary      Request to sponsor an event
// @Tags         sponsorships
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Param        request  body      request.CreateSponsorshipRequest true "request body"
// @Success      201      {object}  response.SponsorshipResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /sponsorships/sponsor/{eventID} [post]
// @Security     BearerAuth
func (h *SponsorshipHandler) HandleCreateSponsorship(ctx *gin.Context) {
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

	req := request.CreateSponsorshipRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	sponsorship, err := h.svc.Create(ctx.Request.Context(), authUser.ID, eventID, req.Amount, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrSponsorshipNotAllowed),
			errors.Is(err, service.ErrSponsorUnpublished),
			errors.Is(err, service.ErrAlreadySponsored):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateSponsorship -> h.svc.Create -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, response.SponsorshipResponse{
		Msg:         "Sponsorship request submitted successfully",
		Sponsorship: sponsorship,
	})
}

// HandleListEventSponsorships godoc
// @Summary      List an event's sponsorships with the approved total
// @Tags         sponsorships
// @Produce      json
// @Param        eventID  path      int    true  "Event ID"
// @Param        status   query     string false "filter by status"
// @Param        page     query     int    false "page number"
// @Param        limit    query     int    false "page size"
// @Success      200      {object}  response.ListSponsorshipsResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /sponsorships/event/{eventID} [get]
// @Security     BearerAuth
func (h *SponsorshipHandler) HandleListEventSponsorships(ctx *gin.Context) {
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

	result, err := h.svc.ListByEvent(ctx.Request.Context(), authUser, eventID, ctx.Query("status"), offset, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotSponsorshipManager):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotSponsorshipManager))
		default:
			err = fmt.Errorf("v1.HandleListEventSponsorships -> h.svc.ListByEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.ListSponsorshipsResponse{
		Sponsorships:        result.Sponsorships,
		TotalApprovedAmount: result.ApprovedAmount,
		Pagination:          response.NewPagination(page, limit, result.Total),
	})
}

// HandleUpdateSponsorshipStatus godoc
// @Summary      Approve or reject a sponsorship request
// @Tags         sponsorships
// @Produce      json
// @Param        sponsorshipID  path      int true "Sponsorship ID"
// @Param        request        body      request.UpdateSponsorshipStatusRequest true "request body"
// @Success      200            {object}  response.SponsorshipResponse
// @Failure      400            {object}  response.Err
// @Failure      403            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /sponsorships/{sponsorshipID}/status [patch]
// @Security     BearerAuth
func (h *SponsorshipHandler) HandleUpdateSponsorshipStatus(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	sponsorshipID, respErr := parseUintParam(ctx, "sponsorshipID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.UpdateSponsorshipStatusRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	sponsorship, err := h.svc.UpdateStatus(ctx.Request.Context(), authUser, sponsorshipID, req.Status, req.RejectedReason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSponsorshipNotFound):
			response.RenderErr(ctx, response.ErrNotFound("sponsorship", "ID", sponsorshipID))
		case errors.Is(err, service.ErrNotSponsorshipManager):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotSponsorshipManager))
		default:
			err = fmt.Errorf("v1.HandleUpdateSponsorshipStatus -> h.svc.UpdateStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.SponsorshipResponse{
		Msg:         fmt.Sprintf("Sponsorship %v successfully", sponsorship.Status),
		Sponsorship: sponsorship,
	})
}

// HandleListMySponsorships godoc
// @Summary      List the current user's sponsorships
// @Tags         sponsorships
// @Produce      json
// @Param        status   query     string false "filter by status"
// @Param        page     query     int    false "page number"
// @Param        limit    query     int    false "page size"
// @Success      200      {object}  response.MySponsorshipsResponse
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /sponsorships/my-sponsorships [get]
// @Security     BearerAuth
func (h *SponsorshipHandler) HandleListMySponsorships(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	page, limit, offset := parsePagination(ctx)

	result, err := h.svc.ListMine(ctx.Request.Context(), authUser.ID, ctx.Query("status"), offset, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMySponsorships -> h.svc.ListMine -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.MySponsorshipsResponse{
		Sponsorships:         result.Sponsorships,
		TotalSponsoredAmount: result.ApprovedAmount,
		Pagination:           response.NewPagination(page, limit, result.Total),
	})
}
