package entity

import (
	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/pkg/money"
)

// ReceiptHeader holds the branch header printed at the top of a bill.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem is one printed bill line.
type ReceiptItem struct {
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Money `json:"unit_price"`
	Total     money.Money `json:"total"`
}

// ReceiptPayment is one completed payment listed under the totals.
type ReceiptPayment struct {
	ReceiptNo string      `json:"receipt_no"`
	Type      string      `json:"payment_type"`
	Method    string      `json:"payment_method"`
	Amount    money.Money `json:"amount"`
}

// Receipt is a printable bill composed from a persisted snapshot. It is not
// stored and it never recomputes anything: every amount comes from the snapshot.
type Receipt struct {
	Header    ReceiptHeader     `json:"header"`
	Kind      string            `json:"kind"`
	Reference string            `json:"reference"`
	Date      string            `json:"date"`
	Guest     string            `json:"guest,omitempty"`
	Table     string            `json:"table,omitempty"`
	Items     []ReceiptItem     `json:"items"`
	Taxes     []billing.TaxLine `json:"taxes,omitempty"`
	SubTotal  money.Money       `json:"sub_total"`
	Tax       money.Money       `json:"tax_amount"`
	Discount  money.Money       `json:"discount_amount"`
	Total     money.Money       `json:"total_amount"`
	Paid      money.Money       `json:"paid_amount"`
	Remaining money.Money       `json:"remaining_amount"`
	Payments  []ReceiptPayment  `json:"payments,omitempty"`
}

// TicketItem is one line on a kitchen or bar order ticket.
type TicketItem struct {
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
	Notes    string `json:"notes,omitempty"`
}

// StationTicket is a KOT or BOT: the lines of one order routed to one station.
type StationTicket struct {
	Station string       `json:"station"`
	Title   string       `json:"title"`
	OrderNo string       `json:"order_no"`
	TableNo string       `json:"table_no,omitempty"`
	Time    string       `json:"time"`
	Items   []TicketItem `json:"items"`
}
