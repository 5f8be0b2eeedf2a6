package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the status of an order
type OrderStatus int

const (
	OrderStatusPending  OrderStatus = 0
	OrderStatusComplete OrderStatus = 1
	OrderStatusCancel   OrderStatus = 2
)

func (s OrderStatus) String() string {
	names := [...]string{"Pending", "Complete", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

// ParseOrderStatus maps a query/filter value to a status
func ParseOrderStatus(str string) (OrderStatus, bool) {
	switch str {
	case "Pending", "pending", "0":
		return OrderStatusPending, true
	case "Complete", "complete", "1":
		return OrderStatusComplete, true
	case "Cancelled", "cancelled", "Cancel", "cancel", "2":
		return OrderStatusCancel, true
	}
	return OrderStatusPending, false
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	if status, ok := ParseOrderStatus(str); ok {
		*s = status
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
