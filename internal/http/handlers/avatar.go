package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/http/response"
	"github.com/yungbote/avatar-backend/internal/platform/apierr"
	"github.com/yungbote/avatar-backend/internal/services"
)

const svgContentType = "image/svg+xml; charset=utf-8"

type AvatarHandler struct {
	avatars services.AvatarService
}

func NewAvatarHandler(avatars services.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

// generateRequest uses pointers so a missing field is distinguishable from 0.
type generateRequest struct {
	Head        *int `json:"head"`
	Face        *int `json:"face"`
	Body        *int `json:"body"`
	FacialHair  *int `json:"facial_hair"`
	Accessories *int `json:"accessories"`
}

func (r generateRequest) selection() (domain.Selection, error) {
	fields := map[domain.Category]*int{
		domain.CategoryHead:        r.Head,
		domain.CategoryFace:        r.Face,
		domain.CategoryBody:        r.Body,
		domain.CategoryFacialHair:  r.FacialHair,
		domain.CategoryAccessories: r.Accessories,
	}
	var sel domain.Selection
	for _, c := range domain.Categories {
		v := fields[c]
		if v == nil {
			return domain.Selection{}, apierr.WithParam(http.StatusBadRequest, "invalid_request", c.Field(), fmt.Errorf("missing field %q", c.Field()))
		}
		sel = sel.With(c, *v)
	}
	return sel, nil
}

type avatarResponse struct {
	Key string `json:"key"`
	SVG string `json:"svg"`
}

func newAvatarResponse(res *services.Result) avatarResponse {
	return avatarResponse{Key: string(res.Key), SVG: res.SVG}
}

// GET /options
func (h *AvatarHandler) Options(c *gin.Context) {
	response.RespondOK(c, h.avatars.Options(c.Request.Context()))
}

// POST /avatar/generate
func (h *AvatarHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondAPIError(c, apierr.New(http.StatusRequestEntityTooLarge, "request_too_large", err))
			return
		}
		response.RespondAPIError(c, apierr.BadRequest("invalid_request", fmt.Errorf("invalid request body: %w", err)))
		return
	}
	sel, err := req.selection()
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res, err := h.avatars.Generate(c.Request.Context(), sel)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, newAvatarResponse(res))
}

// GET /avatar/random
func (h *AvatarHandler) Random(c *gin.Context) {
	res, err := h.avatars.Random(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, newAvatarResponse(res))
}

// GET /avatar/:key
func (h *AvatarHandler) Get(c *gin.Context) {
	res, err := h.avatars.Get(c.Request.Context(), domain.Key(c.Param("key")))
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, newAvatarResponse(res))
}

// GET /avatar/:key/svg serves the bare document for <img src> use.
func (h *AvatarHandler) GetSVG(c *gin.Context) {
	res, err := h.avatars.Get(c.Request.Context(), domain.Key(c.Param("key")))
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	c.Data(http.StatusOK, svgContentType, []byte(res.SVG))
}

func toAPIError(err error) error {
	if oor, ok := domain.IsOutOfRange(err); ok {
		return apierr.WithParam(http.StatusBadRequest, "invalid_selection", string(oor.Category), oor)
	}
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		return apierr.NotFound("avatar_key_not_found", domain.ErrKeyNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusServiceUnavailable, "timeout", err)
	default:
		return apierr.Internal(err)
	}
}
