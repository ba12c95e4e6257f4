package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentType classifies a settlement record. Credit is guest debt and never counts as paid.
type PaymentType int

const (
	PaymentTypeAdvance PaymentType = 0
	PaymentTypePartial PaymentType = 1
	PaymentTypeFull    PaymentType = 2
	PaymentTypeCredit  PaymentType = 3
)

var paymentTypeNames = [...]string{"advance", "partial", "full", "credit"}

func (p PaymentType) String() string {
	if !p.IsValid() {
		return "unknown"
	}
	return paymentTypeNames[p]
}

// IsValid reports whether p is one of the declared values.
func (p PaymentType) IsValid() bool {
	return int(p) >= 0 && int(p) < len(paymentTypeNames)
}

// ParsePaymentType maps a wire name to its value.
func ParsePaymentType(s string) (PaymentType, error) {
	for i, name := range paymentTypeNames {
		if name == s {
			return PaymentType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown paymentType %q", s)
}

func (p PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PaymentType(i)
		return nil
	}
	v, err := ParsePaymentType(str)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p PaymentType) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentType) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentTypeAdvance
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentType(v)
	case int:
		*p = PaymentType(v)
	}
	return nil
}

// CountsAsPaid reports whether completed records of this type reduce the balance.
func (p PaymentType) CountsAsPaid() bool {
	return p != PaymentTypeCredit
}
