package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentStatus is the state of a payment record.
type PaymentStatus int

const (
	PaymentStatusCompleted PaymentStatus = 0
	PaymentStatusPending   PaymentStatus = 1
	PaymentStatusFailed    PaymentStatus = 2
)

var paymentStatusNames = [...]string{"completed", "pending", "failed"}

func (p PaymentStatus) String() string {
	if !p.IsValid() {
		return "unknown"
	}
	return paymentStatusNames[p]
}

// IsValid reports whether p is one of the declared values.
func (p PaymentStatus) IsValid() bool {
	return int(p) >= 0 && int(p) < len(paymentStatusNames)
}

// ParsePaymentStatus maps a wire name to its value.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for i, name := range paymentStatusNames {
		if name == s {
			return PaymentStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown paymentStatus %q", s)
}

func (p PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PaymentStatus(i)
		return nil
	}
	v, err := ParsePaymentStatus(str)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p PaymentStatus) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentStatusCompleted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentStatus(v)
	case int:
		*p = PaymentStatus(v)
	}
	return nil
}
