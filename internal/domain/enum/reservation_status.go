package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ReservationStatus is the lifecycle state of a room reservation.
type ReservationStatus int

const (
	ReservationStatusBooked     ReservationStatus = 0
	ReservationStatusCheckedIn  ReservationStatus = 1
	ReservationStatusCheckedOut ReservationStatus = 2
	ReservationStatusSettled    ReservationStatus = 3
	ReservationStatusCancelled  ReservationStatus = 4
)

var reservationStatusNames = [...]string{"booked", "checked_in", "checked_out", "settled", "cancelled"}

func (r ReservationStatus) String() string {
	if !r.IsValid() {
		return "unknown"
	}
	return reservationStatusNames[r]
}

// IsValid reports whether r is one of the declared values.
func (r ReservationStatus) IsValid() bool {
	return int(r) >= 0 && int(r) < len(reservationStatusNames)
}

// ParseReservationStatus maps a wire name to its value.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	for i, name := range reservationStatusNames {
		if name == s {
			return ReservationStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown reservationStatus %q", s)
}

func (r ReservationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *ReservationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = ReservationStatus(i)
		return nil
	}
	v, err := ParseReservationStatus(str)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r ReservationStatus) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *ReservationStatus) Scan(value interface{}) error {
	if value == nil {
		*r = ReservationStatusBooked
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = ReservationStatus(v)
	case int:
		*r = ReservationStatus(v)
	}
	return nil
}

// IsFinal reports whether the reservation no longer accepts line edits.
func (r ReservationStatus) IsFinal() bool {
	return r == ReservationStatusSettled || r == ReservationStatusCancelled
}
