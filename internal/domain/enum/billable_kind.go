package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BillableKind identifies which aggregate a payment or discount belongs to.
type BillableKind int

const (
	BillableReservation BillableKind = 0
	BillableOrder       BillableKind = 1
)

var billableKindNames = [...]string{"reservation", "order"}

func (b BillableKind) String() string {
	if !b.IsValid() {
		return "unknown"
	}
	return billableKindNames[b]
}

// IsValid reports whether b is one of the declared values.
func (b BillableKind) IsValid() bool {
	return int(b) >= 0 && int(b) < len(billableKindNames)
}

// ParseBillableKind maps a wire name to its value.
func ParseBillableKind(s string) (BillableKind, error) {
	for i, name := range billableKindNames {
		if name == s {
			return BillableKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown billableKind %q", s)
}

func (b BillableKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BillableKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*b = BillableKind(i)
		return nil
	}
	v, err := ParseBillableKind(str)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (b BillableKind) Value() (driver.Value, error) {
	return int64(b), nil
}

func (b *BillableKind) Scan(value interface{}) error {
	if value == nil {
		*b = BillableReservation
		return nil
	}
	switch v := value.(type) {
	case int64:
		*b = BillableKind(v)
	case int:
		*b = BillableKind(v)
	}
	return nil
}

// Title is the human-readable resource name used in error messages.
func (b BillableKind) Title() string {
	switch b {
	case BillableReservation:
		return "Reservation"
	case BillableOrder:
		return "Order"
	}
	return "Billable"
}

// LockKey is the serialization key for one billable entity.
func (b BillableKind) LockKey(id fmt.Stringer) string {
	return b.String() + ":" + id.String()
}
