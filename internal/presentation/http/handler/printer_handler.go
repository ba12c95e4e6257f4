package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus()
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		// Return the receipt data anyway (useful when printer type is "none")
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"receipt": receipt,
	})
}

// GetBill returns the bill of a reservation or order as it would be printed.
func (h *PrinterHandler) GetBill(kind enum.BillableKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, kind.String())
		if !ok {
			return
		}

		receipt, err := h.printerService.BuildBill(c.Request.Context(), kind, id)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.OK(c, kind.Title()+" bill retrieved", receipt)
	}
}

// PrintBill prints the bill of a reservation or order.
func (h *PrinterHandler) PrintBill(kind enum.BillableKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, kind.String())
		if !ok {
			return
		}

		receipt, err := h.printerService.PrintBill(c.Request.Context(), kind, id)
		if err != nil {
			// If receipt was built but printing failed, return receipt with warning
			if receipt != nil {
				response.OK(c, "Bill generated but printing failed", gin.H{
					"receipt": receipt,
					"warning": err.Error(),
				})
				return
			}
			response.Error(c, err)
			return
		}

		response.OK(c, kind.Title()+" bill printed successfully", gin.H{
			"receipt": receipt,
		})
	}
}

// BillQR returns the bill's QR code as a PNG.
func (h *PrinterHandler) BillQR(kind enum.BillableKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, kind.String())
		if !ok {
			return
		}

		png, err := h.printerService.BillQR(c.Request.Context(), kind, id)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Data(http.StatusOK, "image/png", png)
	}
}

// PrintTickets prints kitchen and bar order tickets for an order.
func (h *PrinterHandler) PrintTickets(c *gin.Context) {
	id, ok := pathID(c, "order")
	if !ok {
		return
	}

	tickets, err := h.printerService.PrintTickets(c.Request.Context(), id)
	if err != nil {
		if tickets != nil {
			response.OK(c, "Tickets generated but printing failed", gin.H{
				"tickets": tickets,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Order tickets printed successfully", gin.H{
		"tickets": tickets,
	})
}
