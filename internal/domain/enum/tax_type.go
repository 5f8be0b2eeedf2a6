package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TaxType says whether a product's selling price already carries VAT.
// Exclusive prices get VAT added on top at checkout; inclusive prices have
// it carved out of the line total.
type TaxType int

const (
	TaxTypeExclusive TaxType = 0
	TaxTypeInclusive TaxType = 1
)

var taxTypeLabels = map[TaxType]string{
	TaxTypeExclusive: "Exclusive",
	TaxTypeInclusive: "Inclusive",
}

func (t TaxType) String() string {
	if label, ok := taxTypeLabels[t]; ok {
		return label
	}
	return taxTypeLabels[TaxTypeExclusive]
}

// Valid reports whether t is one of the known tax types
func (t TaxType) Valid() bool {
	_, ok := taxTypeLabels[t]
	return ok
}

// ParseTaxType accepts a label in any case, or its numeric form
func ParseTaxType(str string) (TaxType, bool) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "exclusive", "0":
		return TaxTypeExclusive, true
	case "inclusive", "1":
		return TaxTypeInclusive, true
	}
	return TaxTypeExclusive, false
}

func (t TaxType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TaxType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !TaxType(i).Valid() {
			return fmt.Errorf("unknown tax type %d", i)
		}
		*t = TaxType(i)
		return nil
	}

	parsed, ok := ParseTaxType(str)
	if !ok {
		return fmt.Errorf("unknown tax type %q", str)
	}
	*t = parsed
	return nil
}

func (t TaxType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TaxType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = TaxTypeExclusive
	case int64:
		*t = TaxType(v)
	case int32:
		*t = TaxType(v)
	case int:
		*t = TaxType(v)
	default:
		return fmt.Errorf("cannot scan %T into TaxType", value)
	}
	return nil
}
