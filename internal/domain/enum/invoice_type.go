package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceType tells whether an order was settled at the till or put on account
type InvoiceType int

const (
	InvoiceTypeCash   InvoiceType = 0
	InvoiceTypeCredit InvoiceType = 1
)

func (t InvoiceType) String() string {
	if t == InvoiceTypeCredit {
		return "Credit"
	}
	return "Cash"
}

// Label is the wording shown on customer statements
func (t InvoiceType) Label() string {
	return t.String() + " Sale"
}

func (t InvoiceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *InvoiceType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = InvoiceType(i)
		return nil
	}
	switch str {
	case "Credit", "credit":
		*t = InvoiceTypeCredit
	default:
		*t = InvoiceTypeCash
	}
	return nil
}

func (t InvoiceType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *InvoiceType) Scan(value interface{}) error {
	if value == nil {
		*t = InvoiceTypeCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = InvoiceType(v)
	case int:
		*t = InvoiceType(v)
	}
	return nil
}
