package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus represents whether a sale was fully paid at the till
type SaleStatus int

const (
	SaleStatusComplete SaleStatus = 0
	SaleStatusDue      SaleStatus = 1
)

func (s SaleStatus) String() string {
	names := [...]string{"Complete", "Due"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Complete"
	}
	return names[s]
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	switch str {
	case "Complete":
		*s = SaleStatusComplete
	case "Due":
		*s = SaleStatusDue
	}
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusComplete
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
