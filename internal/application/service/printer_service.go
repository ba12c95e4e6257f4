package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/printer"
)

const (
	receiptDateLayout = "2006-01-02 15:04"
	qrImageSize       = 256
)

// PrinterService formats bills and station tickets and sends them to the
// thermal printer. Bills are composed only from the persisted snapshot.
type PrinterService struct {
	printer         printer.Printer
	reservationRepo repository.ReservationRepository
	orderRepo       repository.RestaurantOrderRepository
	paymentRepo     repository.PaymentRepository
	branchRepo      repository.BranchRepository
	printerType     string
	width           int
	qrBase          string
	log             *zap.Logger
}

// PrinterOptions carries the printer configuration the service needs.
type PrinterOptions struct {
	Type   string
	Width  int
	QRBase string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	reservationRepo repository.ReservationRepository,
	orderRepo repository.RestaurantOrderRepository,
	paymentRepo repository.PaymentRepository,
	branchRepo repository.BranchRepository,
	opts PrinterOptions,
	log *zap.Logger,
) *PrinterService {
	width := opts.Width
	if width <= 0 {
		width = printer.Width58mm
	}
	return &PrinterService{
		printer:         p,
		reservationRepo: reservationRepo,
		orderRepo:       orderRepo,
		paymentRepo:     paymentRepo,
		branchRepo:      branchRepo,
		printerType:     opts.Type,
		width:           width,
		qrBase:          opts.QRBase,
		log:             log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		Width:      s.width,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:    entity.ReceiptHeader{StoreName: "PRINTER TEST"},
		Kind:      "Test",
		Reference: "TEST-001",
		Date:      time.Now().Format(receiptDateLayout),
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 1000, Total: 1000},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 500, Total: 1000},
		},
		SubTotal: 2000,
		Total:    2000,
		Paid:     2000,
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

func (s *PrinterService) header(ctx context.Context, branchID uuid.UUID) entity.ReceiptHeader {
	branch, err := s.branchRepo.GetByID(ctx, branchID)
	if err != nil || branch == nil {
		return entity.ReceiptHeader{StoreName: "Bill"}
	}
	return branch.ReceiptHeader()
}

func (s *PrinterService) receiptPayments(ctx context.Context, kind enum.BillableKind, id uuid.UUID) ([]entity.ReceiptPayment, error) {
	payments, err := s.paymentRepo.ListByBillable(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	var out []entity.ReceiptPayment
	for _, p := range payments {
		if p.Status != enum.PaymentStatusCompleted {
			continue
		}
		out = append(out, entity.ReceiptPayment{
			ReceiptNo: p.ReceiptNo,
			Type:      p.PaymentType.String(),
			Method:    p.PaymentMethod,
			Amount:    p.Amount,
		})
	}
	return out, nil
}

func snapshotTotals(r *entity.Receipt, snap entity.BillingSnapshot) {
	r.Taxes = snap.TaxBreakdown
	r.SubTotal = snap.SubTotal
	r.Tax = snap.TaxAmount
	r.Discount = snap.DiscountAmount
	r.Total = snap.TotalAmount
	r.Paid = snap.PaidAmount
	r.Remaining = snap.RemainingAmount()
}

// BuildBill composes the printable bill of a reservation or order.
func (s *PrinterService) BuildBill(ctx context.Context, kind enum.BillableKind, id uuid.UUID) (*entity.Receipt, error) {
	receipt := &entity.Receipt{Kind: kind.Title()}

	switch kind {
	case enum.BillableReservation:
		res, err := s.reservationRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, apperror.NewNotFoundError("Reservation")
		}
		receipt.Header = s.header(ctx, res.BranchID)
		receipt.Reference = res.ReservationNo
		receipt.Date = res.CheckIn.Format("2006-01-02") + " to " + res.CheckOut.Format("2006-01-02")
		receipt.Guest = res.GuestName
		for _, l := range res.Lines {
			name := l.Description
			if l.RoomNumber != "" {
				name = "Room " + l.RoomNumber + " " + name
			}
			receipt.Items = append(receipt.Items, entity.ReceiptItem{Name: name, Quantity: l.Quantity, UnitPrice: l.UnitAmount, Total: l.LineTotal})
		}
		snapshotTotals(receipt, res.BillingSnapshot)
	case enum.BillableOrder:
		order, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, apperror.NewNotFoundError("Order")
		}
		receipt.Header = s.header(ctx, order.BranchID)
		receipt.Reference = order.OrderNo
		receipt.Date = order.CreatedAt.Format(receiptDateLayout)
		receipt.Guest = order.GuestName
		receipt.Table = order.TableNo
		for _, l := range order.Lines {
			receipt.Items = append(receipt.Items, entity.ReceiptItem{Name: l.Description, Quantity: l.Quantity, UnitPrice: l.UnitAmount, Total: l.LineTotal})
		}
		snapshotTotals(receipt, order.BillingSnapshot)
	default:
		return nil, apperror.NewBadRequestError("Unknown bill type")
	}

	payments, err := s.receiptPayments(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	receipt.Payments = payments
	return receipt, nil
}

// PrintBill builds the bill and prints it. When printing fails the built
// receipt is still returned alongside the error.
func (s *PrinterService) PrintBill(ctx context.Context, kind enum.BillableKind, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildBill(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	doc := formatReceipt(receipt, s.width)
	doc.SetAlign(printer.AlignCenter).QRCode(s.qrContent(receipt.Reference), 6).SetAlign(printer.AlignLeft)
	doc.FeedLines(3).PartialCut()

	if err := s.printer.Print(ctx, doc.Bytes()); err != nil {
		s.log.Warn("printer error", zap.String("reference", receipt.Reference), zap.Error(err))
		return receipt, fmt.Errorf("failed to print bill: %w", err)
	}
	return receipt, nil
}

// PrintTickets prints one KOT or BOT per station that has lines on the order.
func (s *PrinterService) PrintTickets(ctx context.Context, orderID uuid.UUID) ([]entity.StationTicket, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, closedError(enum.BillableOrder, order.Status.String())
	}

	byStation := order.LinesByStation()
	now := time.Now().Format(receiptDateLayout)
	var tickets []entity.StationTicket
	for _, station := range []enum.Station{enum.StationKitchen, enum.StationBar} {
		lines := byStation[station]
		if len(lines) == 0 {
			continue
		}
		t := entity.StationTicket{
			Station: station.String(),
			Title:   station.TicketTitle(),
			OrderNo: order.OrderNo,
			TableNo: order.TableNo,
			Time:    now,
		}
		for _, l := range lines {
			t.Items = append(t.Items, entity.TicketItem{Quantity: l.Quantity, Name: l.Description, Notes: l.Notes})
		}
		tickets = append(tickets, t)
	}

	for _, t := range tickets {
		if err := s.printer.Print(ctx, FormatTicket(&t, s.width)); err != nil {
			s.log.Warn("printer error", zap.String("order_no", t.OrderNo), zap.String("station", t.Station), zap.Error(err))
			return tickets, fmt.Errorf("failed to print %s: %w", t.Title, err)
		}
	}
	return tickets, nil
}

func (s *PrinterService) qrContent(reference string) string {
	if s.qrBase == "" {
		return reference
	}
	return s.qrBase + reference
}

// BillQR renders a PNG QR code carrying the bill reference.
func (s *PrinterService) BillQR(ctx context.Context, kind enum.BillableKind, id uuid.UUID) ([]byte, error) {
	var reference string
	switch kind {
	case enum.BillableReservation:
		res, err := s.reservationRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, apperror.NewNotFoundError("Reservation")
		}
		reference = res.ReservationNo
	default:
		order, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, apperror.NewNotFoundError("Order")
		}
		reference = order.OrderNo
	}
	return qrcode.Encode(s.qrContent(reference), qrcode.Medium, qrImageSize)
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	return formatReceipt(r, width).FeedLines(3).PartialCut().Bytes()
}

func formatReceipt(r *entity.Receipt, width int) *printer.Document {
	doc := printer.NewDocument(width)

	// Header
	doc.Heading(r.Header.StoreName).SetAlign(printer.AlignCenter)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue(r.Kind+":", r.Reference).
		KeyValue("Date:", r.Date)
	if r.Guest != "" {
		doc.KeyValue("Guest:", r.Guest)
	}
	if r.Table != "" {
		doc.KeyValue("Table:", r.Table)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, item.Total.String())
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", item.UnitPrice.String())
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", r.SubTotal.String())
	for _, t := range r.Taxes {
		doc.KeyValue(fmt.Sprintf("%s (%s%%):", t.Name, t.Rate.String()), t.Amount.String())
	}
	if r.Discount > 0 {
		doc.KeyValue("Discount:", "-"+r.Discount.String())
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.Total.String()).
		SetBold(false)

	if r.Paid > 0 {
		doc.KeyValue("Paid:", r.Paid.String())
	}
	if r.Remaining > 0 {
		doc.KeyValue("Balance due:", r.Remaining.String())
	}

	if len(r.Payments) > 0 {
		doc.Separator('-')
		for _, p := range r.Payments {
			doc.KeyValue(p.ReceiptNo, p.Amount.String()).
				TextF("  %s / %s", p.Type, p.Method)
		}
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for staying with us!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	return doc
}

// FormatTicket converts a KOT or BOT into ESC/POS bytes.
func FormatTicket(t *entity.StationTicket, width int) []byte {
	doc := printer.NewDocument(width)
	doc.Heading(t.Title).
		KeyValue("Order:", t.OrderNo)
	if t.TableNo != "" {
		doc.KeyValue("Table:", t.TableNo)
	}
	doc.KeyValue("Time:", t.Time).
		Separator('=')

	for _, item := range t.Items {
		doc.TicketLine(item.Quantity, item.Name, item.Notes)
	}

	doc.Separator('=').
		FeedLines(3).
		PartialCut()
	return doc.Bytes()
}
