package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/buildsign/buildsign-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ShareHandler serves the unauthenticated share-link gateway. The token
// travels as a query parameter so it never appears in logged paths; the
// request logger redacts it from query strings.
type ShareHandler struct {
	shareService *services.ShareService
}

func NewShareHandler(shareService *services.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// shareError maps gateway errors onto the three client-visible outcomes:
// bad request, unknown link, expired link. Everything else is a 500 with no
// detail leaked to the anonymous caller.
func shareError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTokenRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A share token is required"})
	case errors.Is(err, services.ErrSignatureRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "This contract link is invalid"})
	case errors.Is(err, services.ErrTokenExpired):
		c.JSON(http.StatusGone, gin.H{"error": "This contract link has expired. Ask the contractor to send a new one."})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "The contract cannot be signed right now"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "The contract changed while processing, reload and try again"})
	default:
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

// @Summary View Shared Contract
// @Description View a contract through its share link. The first open marks it viewed.
// @Tags Share
// @Produce json
// @Param token query string true "Share token"
// @Success 200 {object} models.ClientContractResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /contract/view [get]
func (h *ShareHandler) View(c *gin.Context) {
	contract, err := h.shareService.View(c.Request.Context(), c.Query("token"),
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		shareError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.ToClientResponse()})
}

// SignRequest is the client's signature submission
type SignRequest struct {
	Signature string `json:"signature"`
}

// @Summary Sign Shared Contract
// @Description Submit the client signature. A duplicate submission is acknowledged without overwriting.
// @Tags Share
// @Accept json
// @Produce json
// @Param token query string true "Share token"
// @Param body body SignRequest true "Signature"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /contract/view [post]
func (h *ShareHandler) Sign(c *gin.Context) {
	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	contract, alreadySigned, err := h.shareService.Sign(c.Request.Context(), c.Query("token"),
		req.Signature, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		shareError(c, err)
		return
	}

	message := "Contract signed"
	if alreadySigned {
		message = "Contract was already signed"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        message,
		"already_signed": alreadySigned,
		"contract":       contract.ToClientResponse(),
	})
}

// @Summary Download Shared Contract PDF
// @Description Download the contract document through the share link
// @Tags Share
// @Produce application/pdf
// @Param token query string true "Share token"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /contract/view/download [get]
func (h *ShareHandler) Download(c *gin.Context) {
	data, filename, err := h.shareService.Download(c.Request.Context(), c.Query("token"),
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		shareError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
