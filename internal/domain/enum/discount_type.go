package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DiscountType selects how a discount value is interpreted.
type DiscountType int

const (
	DiscountTypeNone       DiscountType = 0
	DiscountTypePercentage DiscountType = 1
	DiscountTypeFixed      DiscountType = 2
)

var discountTypeNames = [...]string{"none", "percentage", "fixed"}

func (d DiscountType) String() string {
	if !d.IsValid() {
		return "unknown"
	}
	return discountTypeNames[d]
}

// IsValid reports whether d is one of the declared values.
func (d DiscountType) IsValid() bool {
	return int(d) >= 0 && int(d) < len(discountTypeNames)
}

// ParseDiscountType maps a wire name to its value.
func ParseDiscountType(s string) (DiscountType, error) {
	for i, name := range discountTypeNames {
		if name == s {
			return DiscountType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown discountType %q", s)
}

func (d DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*d = DiscountType(i)
		return nil
	}
	v, err := ParseDiscountType(str)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d DiscountType) Value() (driver.Value, error) {
	return int64(d), nil
}

func (d *DiscountType) Scan(value interface{}) error {
	if value == nil {
		*d = DiscountTypeNone
		return nil
	}
	switch v := value.(type) {
	case int64:
		*d = DiscountType(v)
	case int:
		*d = DiscountType(v)
	}
	return nil
}
