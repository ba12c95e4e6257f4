package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Station is the preparation station a dish is routed to.
type Station int

const (
	StationKitchen Station = 0
	StationBar     Station = 1
)

var stationNames = [...]string{"kitchen", "bar"}

func (s Station) String() string {
	if !s.IsValid() {
		return "unknown"
	}
	return stationNames[s]
}

// IsValid reports whether s is one of the declared values.
func (s Station) IsValid() bool {
	return int(s) >= 0 && int(s) < len(stationNames)
}

// ParseStation maps a wire name to its value.
func ParseStation(s string) (Station, error) {
	for i, name := range stationNames {
		if name == s {
			return Station(i), nil
		}
	}
	return 0, fmt.Errorf("unknown station %q", s)
}

func (s Station) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Station) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = Station(i)
		return nil
	}
	v, err := ParseStation(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Station) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *Station) Scan(value interface{}) error {
	if value == nil {
		*s = StationKitchen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = Station(v)
	case int:
		*s = Station(v)
	}
	return nil
}

// TicketTitle is printed at the top of the station's order ticket (KOT or BOT).
func (s Station) TicketTitle() string {
	if s == StationBar {
		return "BAR ORDER TICKET"
	}
	return "KITCHEN ORDER TICKET"
}
