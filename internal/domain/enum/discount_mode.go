package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// DiscountMode fixes the unit of every per-line discount in the system.
//
// Percentage discounts are 0-100 and applied multiplicatively to the unit
// price; absolute discounts are a currency amount subtracted per unit.
type DiscountMode string

const (
	DiscountModePercentage DiscountMode = "percentage"
	DiscountModeAbsolute   DiscountMode = "absolute"
)

// ParseDiscountMode accepts either mode name, case-insensitively.
func ParseDiscountMode(s string) (DiscountMode, bool) {
	switch DiscountMode(strings.ToLower(strings.TrimSpace(s))) {
	case DiscountModePercentage:
		return DiscountModePercentage, true
	case DiscountModeAbsolute:
		return DiscountModeAbsolute, true
	}
	return "", false
}

func (m DiscountMode) String() string {
	return string(m)
}

func (m DiscountMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *DiscountMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = DiscountMode(str)
	return nil
}

func (m DiscountMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *DiscountMode) Scan(value interface{}) error {
	if value == nil {
		*m = DiscountModePercentage
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = DiscountMode(v)
	case []byte:
		*m = DiscountMode(string(v))
	}
	return nil
}
