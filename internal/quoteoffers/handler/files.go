package handler

import (
	"net/http"

	"quoteoffer_backend/internal/quoteoffers/transport"
	"quoteoffer_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// RegisterFileRoutes mounts the attachment endpoints shared by drafts and quotes.
func (h *Handler) RegisterFileRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/files/presign", h.PresignUpload)
	rg.POST("/:id/files", h.ConfirmAttachment)
	rg.GET("/:id/files/:fileId/url", h.FileDownloadURL)
	rg.DELETE("/:id/files/:fileId", h.RemoveFile)
}

func (h *Handler) PresignUpload(c *gin.Context) {
	var req transport.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.PresignUpload(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ConfirmAttachment(c *gin.Context) {
	var req transport.ConfirmAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	offer, err := h.svc.ConfirmAttachment(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, offer)
}

func (h *Handler) FileDownloadURL(c *gin.Context) {
	resp, err := h.svc.FileDownloadURL(c.Request.Context(), c.Param("id"), c.Param("fileId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) RemoveFile(c *gin.Context) {
	offer, err := h.svc.RemoveFile(c.Request.Context(), c.Param("id"), c.Param("fileId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, offer)
}
