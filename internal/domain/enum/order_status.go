package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderStatus is the lifecycle state of a restaurant order.
type OrderStatus int

const (
	OrderStatusOpen      OrderStatus = 0
	OrderStatusServed    OrderStatus = 1
	OrderStatusSettled   OrderStatus = 2
	OrderStatusCancelled OrderStatus = 3
)

var orderStatusNames = [...]string{"open", "served", "settled", "cancelled"}

func (o OrderStatus) String() string {
	if !o.IsValid() {
		return "unknown"
	}
	return orderStatusNames[o]
}

// IsValid reports whether o is one of the declared values.
func (o OrderStatus) IsValid() bool {
	return int(o) >= 0 && int(o) < len(orderStatusNames)
}

// ParseOrderStatus maps a wire name to its value.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for i, name := range orderStatusNames {
		if name == s {
			return OrderStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown orderStatus %q", s)
}

func (o OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*o = OrderStatus(i)
		return nil
	}
	v, err := ParseOrderStatus(str)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o OrderStatus) Value() (driver.Value, error) {
	return int64(o), nil
}

func (o *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*o = OrderStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*o = OrderStatus(v)
	case int:
		*o = OrderStatus(v)
	}
	return nil
}

// IsFinal reports whether the order no longer accepts line edits.
func (o OrderStatus) IsFinal() bool {
	return o == OrderStatusSettled || o == OrderStatusCancelled
}
