package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/billed-app/billed-backend/internal/apperrors"
	"github.com/billed-app/billed-backend/internal/core/domain"
	portssvc "github.com/billed-app/billed-backend/internal/core/ports/services"
	"github.com/billed-app/billed-backend/internal/dto"
	"github.com/billed-app/billed-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// billHandler handles HTTP requests related to expense bills.
type billHandler struct {
	billService portssvc.BillSvcFacade
}

func newBillHandler(bs portssvc.BillSvcFacade) *billHandler {
	return &billHandler{billService: bs}
}

// registerBillRoutes registers routes related to bills.
func registerBillRoutes(rg *gin.RouterGroup, billService portssvc.BillSvcFacade) {
	h := newBillHandler(billService)

	bills := rg.Group("/bills")
	{
		bills.GET("", h.listBills)
		bills.POST("", h.createBill)
		bills.GET("/:id", h.getBill)
		bills.PUT("/:id", h.updateBill)
		bills.GET("/:id/receipt", h.getReceipt)
	}
}

// listBills godoc
// @Summary List expense bills
// @Description Retrieves all bills, ordered by date descending with formatted dates and humanized status labels
// @Tags bills
// @Produce json
// @Success 200 {array} dto.DisplayBill
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Store resource not found"
// @Failure 500 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /bills [get]
func (h *billHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bills, err := h.billService.ListBills(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list bills", slog.String("error", err.Error()))
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

// getBill godoc
// @Summary Get a bill by id
// @Tags bills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /bills/{id} [get]
func (h *billHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("id")

	bill, err := h.billService.GetBill(c.Request.Context(), billID)
	if err != nil {
		logger.Warn("Failed to get bill", slog.String("bill_id", billID), slog.String("error", err.Error()))
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

// createBill godoc
// @Summary Submit a new expense bill
// @Description Uploads a receipt image (jpg/jpeg/png) plus expense metadata and persists the bill in the store
// @Tags bills
// @Accept mpfd
// @Produce json
// @Param file formData file true "Receipt image"
// @Param type formData string true "Expense category"
// @Param name formData string true "Expense name"
// @Param date formData string true "Date (YYYY-MM-DD)"
// @Param amount formData string true "Amount"
// @Param vat formData string false "VAT"
// @Param pct formData int false "Percentage"
// @Param commentary formData string false "Commentary"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Invalid receipt file extension"
// @Failure 500 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /bills [post]
func (h *billHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		logger.Error("Session not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateBillRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Failed to bind form for createBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	file, err := readReceiptFile(c)
	if err != nil {
		logger.Warn("Failed to read receipt file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A receipt file is required"})
		return
	}

	logger.Info("Received new bill submission",
		slog.String("expense_type", req.Type),
		slog.String("file_name", file.Name),
	)

	bill, err := h.billService.CreateBill(c.Request.Context(), session, req, *file)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidExtension) {
			// Non-fatal for the client: the form stays open, the file input
			// is to be cleared and marked invalid.
			logger.Warn("Receipt file rejected", slog.String("file_name", file.Name))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid-extension"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create bill", slog.String("error", err.Error()))
		respondStoreError(c, err)
		return
	}

	logger.Info("Bill created successfully", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

// updateBill godoc
// @Summary Update an existing bill
// @Tags bills
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param bill body dto.UpdateBillRequest true "Bill payload"
// @Success 200 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /bills/{id} [put]
func (h *billHandler) updateBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("id")

	var req dto.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), billID, req)
	if err != nil {
		logger.Warn("Failed to update bill", slog.String("bill_id", billID), slog.String("error", err.Error()))
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

// getReceipt godoc
// @Summary Download the stored receipt of a bill
// @Tags bills
// @Produce octet-stream
// @Param id path string true "Bill ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "No receipt stored"
// @Security BearerAuth
// @Router /bills/{id}/receipt [get]
func (h *billHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("id")

	receipt, err := h.billService.GetReceipt(c.Request.Context(), billID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No receipt stored for this bill"})
			return
		}
		logger.Warn("Failed to read receipt", slog.String("bill_id", billID), slog.String("error", err.Error()))
		respondStoreError(c, err)
		return
	}

	contentType := receipt.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `inline; filename="`+receipt.Name+`"`)
	c.Data(http.StatusOK, contentType, receipt.Content)
}

// readReceiptFile extracts the uploaded "file" part into a staged file value.
func readReceiptFile(c *gin.Context) (*domain.StagedFile, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domain.StagedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// respondStoreError renders a store failure as a classified banner message,
// mirroring the store status when it carries one.
func respondStoreError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if storeErr, ok := apperrors.AsStoreError(err); ok && storeErr.StatusCode == http.StatusNotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": apperrors.Classify(err).Summary})
}
