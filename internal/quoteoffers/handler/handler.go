// Package handler exposes the quote offer HTTP endpoints.
package handler

import (
	"net/http"

	"quoteoffer_backend/internal/quoteoffers/service"
	"quoteoffer_backend/internal/quoteoffers/transport"
	"quoteoffer_backend/platform/httpkit"
	"quoteoffer_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for quote offers.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new quote offer handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterDraftRoutes mounts the draft wizard endpoints.
func (h *Handler) RegisterDraftRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.SearchDrafts)
	rg.POST("", h.CreateDraft)
	rg.GET("/:id", h.GetDraft)
	rg.PATCH("/:id", h.UpdateDraft)
	rg.DELETE("/:id", h.DeleteDraft)
	rg.PUT("/:id/options", h.UpsertOption)
	rg.DELETE("/:id/options/:optionId", h.DeleteOption)
	rg.GET("/:id/validate", h.ValidateDraft)
	rg.GET("/:id/pricing", h.PreviewPricing)
	rg.POST("/:id/finalize", h.FinalizeDraft)
}

// RegisterQuoteRoutes mounts the finalized quote endpoints.
func (h *Handler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.SearchQuotes)
	rg.GET("/:id", h.GetQuote)
	rg.PATCH("/:id/status", h.ChangeStatus)
	rg.POST("/:id/approval", h.ProcessApproval)
	rg.DELETE("/:id", h.DeleteQuote)
}

func (h *Handler) CreateDraft(c *gin.Context) {
	var req transport.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	// Default the offer owner to the authenticated user.
	if req.EmailUser == "" {
		req.EmailUser = httpkit.GetIdentity(c).Email()
	}

	offer, err := h.svc.CreateDraft(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, offer)
}

func (h *Handler) GetDraft(c *gin.Context) {
	offer, err := h.svc.GetDraft(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDraftDetail(offer))
}

func (h *Handler) UpdateDraft(c *gin.Context) {
	var patch transport.UpdateDraftRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	offer, err := h.svc.UpdateDraft(c.Request.Context(), c.Param("id"), patch)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, offer)
}

func (h *Handler) DeleteDraft(c *gin.Context) {
	if err := h.svc.DeleteDraft(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}

func (h *Handler) UpsertOption(c *gin.Context) {
	var payload transport.DraftOptionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.val.Struct(payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	offer, err := h.svc.UpsertDraftOption(c.Request.Context(), c.Param("id"), payload)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, offer)
}

func (h *Handler) DeleteOption(c *gin.Context) {
	offer, err := h.svc.DeleteDraftOption(c.Request.Context(), c.Param("id"), c.Param("optionId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, offer)
}

func (h *Handler) ValidateDraft(c *gin.Context) {
	report, err := h.svc.ValidateDraftByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}

func (h *Handler) PreviewPricing(c *gin.Context) {
	preview, err := h.svc.PreviewPricing(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, preview)
}

func (h *Handler) FinalizeDraft(c *gin.Context) {
	var req transport.FinalizeDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	offer, err := h.svc.FinalizeDraft(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, offer)
}

func (h *Handler) SearchDrafts(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}

	result, err := h.svc.SearchDrafts(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) SearchQuotes(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}

	result, err := h.svc.SearchQuotes(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetQuote(c *gin.Context) {
	offer, err := h.svc.GetQuote(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToQuoteDetail(offer))
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	var req transport.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	offer, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, offer)
}

func (h *Handler) ProcessApproval(c *gin.Context) {
	var req transport.ClientApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	offer, err := h.svc.ProcessClientApproval(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, offer)
}

func (h *Handler) DeleteQuote(c *gin.Context) {
	if err := h.svc.DeleteQuote(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}

func bindSearch(c *gin.Context) (transport.SearchRequest, bool) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return req, false
	}
	return req, true
}
