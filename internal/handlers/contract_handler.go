package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/buildsign/buildsign-api/internal/middleware"
	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/buildsign/buildsign-api/internal/repository"
	"github.com/buildsign/buildsign-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	contractService *services.ContractService
	exportService   *services.ExportService
}

func NewContractHandler(contractService *services.ContractService, exportService *services.ExportService) *ContractHandler {
	return &ContractHandler{contractService: contractService, exportService: exportService}
}

// serviceError maps service errors to HTTP responses
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
	case errors.Is(err, services.ErrTokenExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSignatureRequired),
		errors.Is(err, services.ErrClientEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// @Summary List Contracts
// @Description Get a paginated list of the current user's contracts
// @Tags Contracts
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) Index(c *gin.Context) {
	query := &repository.ContractQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	query.OwnerID = middleware.GetUserID(c)

	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 100 {
		query.PerPage = 20
	}

	contracts, total, err := h.contractService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		responses = append(responses, contract.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Contract
// @Description Get a contract by ID
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *ContractHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	contract, err := h.contractService.FindByID(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// ContractRequest is the body for creating or editing a draft
type ContractRequest struct {
	ContractorName      string  `json:"contractor_name" binding:"required"`
	ContractorAddress   string  `json:"contractor_address"`
	ContractorPhone     string  `json:"contractor_phone"`
	ContractorEmail     string  `json:"contractor_email"`
	ContractorLicense   string  `json:"contractor_license"`
	ClientName          string  `json:"client_name" binding:"required"`
	ClientAddress       string  `json:"client_address"`
	ClientPhone         string  `json:"client_phone"`
	ClientEmail         string  `json:"client_email"`
	ScopeOfWork         string  `json:"scope_of_work"`
	TotalAmount         float64 `json:"total_amount"`
	DepositPercentage   float64 `json:"deposit_percentage"`
	DepositAmount       float64 `json:"deposit_amount"`
	PaymentSchedule     string  `json:"payment_schedule"`
	StartDate           *string `json:"start_date"` // YYYY-MM-DD
	EndDate             *string `json:"end_date"`   // YYYY-MM-DD
	Warranty            string  `json:"warranty"`
	ChangeOrderClause   string  `json:"change_order_clause"`
	CancellationClause  string  `json:"cancellation_clause"`
	DisputeClause       string  `json:"dispute_clause"`
	LiabilityInsurance  bool    `json:"liability_insurance"`
	WorkersComp         bool    `json:"workers_comp"`
	ContractorSignature *string `json:"contractor_signature"`
}

func (r *ContractRequest) apply(contract *models.Contract) error {
	contract.ContractorName = r.ContractorName
	contract.ContractorAddress = r.ContractorAddress
	contract.ContractorPhone = r.ContractorPhone
	contract.ContractorEmail = r.ContractorEmail
	contract.ContractorLicense = r.ContractorLicense
	contract.ClientName = r.ClientName
	contract.ClientAddress = r.ClientAddress
	contract.ClientPhone = r.ClientPhone
	contract.ClientEmail = r.ClientEmail
	contract.ScopeOfWork = r.ScopeOfWork
	contract.TotalAmount = r.TotalAmount
	contract.DepositPercentage = r.DepositPercentage
	contract.DepositAmount = r.DepositAmount
	contract.PaymentSchedule = r.PaymentSchedule
	contract.Warranty = r.Warranty
	contract.ChangeOrderClause = r.ChangeOrderClause
	contract.CancellationClause = r.CancellationClause
	contract.DisputeClause = r.DisputeClause
	contract.LiabilityInsurance = r.LiabilityInsurance
	contract.WorkersComp = r.WorkersComp
	if r.ContractorSignature != nil {
		contract.ContractorSignature = r.ContractorSignature
	}

	for _, d := range []struct {
		raw  *string
		dest **time.Time
	}{
		{r.StartDate, &contract.StartDate},
		{r.EndDate, &contract.EndDate},
	} {
		if d.raw == nil || *d.raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", *d.raw)
		if err != nil {
			return fmt.Errorf("dates must use the YYYY-MM-DD format")
		}
		*d.dest = &parsed
	}

	if contract.StartDate != nil && contract.EndDate != nil && contract.EndDate.Before(*contract.StartDate) {
		return fmt.Errorf("end date cannot be before start date")
	}

	return nil
}

// @Summary Create Contract
// @Description Create a new draft contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contract body ContractRequest true "Contract data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract := &models.Contract{OwnerID: middleware.GetUserID(c)}
	if err := req.apply(contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.contractService.Create(c.Request.Context(), contract); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contract": contract.ToResponse()})
}

// @Summary Update Contract
// @Description Edit a draft contract's terms. Sent contracts are frozen.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param contract body ContractRequest true "Contract data"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id} [put]
func (h *ContractHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	contract, err := h.contractService.FindByID(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.apply(contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.contractService.Update(c.Request.Context(), contract); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Send Contract
// @Description Issue a share link and email it to the client
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/send [post]
func (h *ContractHandler) Send(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	contract, err := h.contractService.SendToClient(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Contract sent to client",
		"contract": contract.ToResponse(),
	})
}

// @Summary Resend Contract
// @Description Rotate the share link and email the new one. The previous link stops working.
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/resend [post]
func (h *ContractHandler) Resend(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	contract, err := h.contractService.Resend(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "New share link sent to client",
		"contract": contract.ToResponse(),
	})
}

// @Summary Get Share Link
// @Description Get the active share link for a sent contract
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} services.ShareLinkInfo
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/share_link [get]
func (h *ContractHandler) ShareLink(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	info, err := h.contractService.ShareLink(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// @Summary Contract Activity
// @Description Get the most recent audit events for a contract, newest first
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Param limit query int false "Max events" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/activity [get]
func (h *ContractHandler) Activity(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	events, err := h.contractService.Activity(c.Request.Context(), uint(id), middleware.GetUserID(c), limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	responses := make([]models.ContractEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, event.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"events": responses})
}

// CounterSignRequest is the body for the contractor's countersignature
type CounterSignRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// @Summary Countersign Contract
// @Description Record the contractor's signature on a client-signed contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param body body CounterSignRequest true "Signature"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/countersign [post]
func (h *ContractHandler) CounterSign(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req CounterSignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature is required"})
		return
	}

	contract, err := h.contractService.CounterSign(c.Request.Context(), uint(id), middleware.GetUserID(c), req.Signature)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Contract fully executed",
		"contract": contract.ToResponse(),
	})
}

// @Summary Download Contract PDF
// @Description Download the contract document as PDF
// @Tags Contracts
// @Produce application/pdf
// @Param id path int true "Contract ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/download [get]
func (h *ContractHandler) Download(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	data, filename, err := h.contractService.Download(c.Request.Context(), uint(id), middleware.GetUserID(c),
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Export Contracts
// @Description Export the current user's contracts to XLSX
// @Tags Contracts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by status"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /contracts/export [get]
func (h *ContractHandler) Export(c *gin.Context) {
	data, filename, err := h.exportService.ContractsXLSX(c.Request.Context(), middleware.GetUserID(c), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Archive Contract
// @Description Hide a contract from listings. Its audit trail is preserved.
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *ContractHandler) Archive(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	if err := h.contractService.Archive(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract archived"})
}
