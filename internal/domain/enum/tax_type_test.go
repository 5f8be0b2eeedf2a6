package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaxType(t *testing.T) {
	tests := []struct {
		in     string
		want   TaxType
		wantOK bool
	}{
		{"Exclusive", TaxTypeExclusive, true},
		{"exclusive", TaxTypeExclusive, true},
		{" INCLUSIVE ", TaxTypeInclusive, true},
		{"inclusive", TaxTypeInclusive, true},
		{"0", TaxTypeExclusive, true},
		{"1", TaxTypeInclusive, true},
		{"zero-rated", TaxTypeExclusive, false},
		{"", TaxTypeExclusive, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTaxType(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaxType_UnmarshalJSON(t *testing.T) {
	var got struct {
		TaxType TaxType `json:"tax_type"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"tax_type":"inclusive"}`), &got))
	assert.Equal(t, TaxTypeInclusive, got.TaxType)

	require.NoError(t, json.Unmarshal([]byte(`{"tax_type":0}`), &got))
	assert.Equal(t, TaxTypeExclusive, got.TaxType)

	got.TaxType = TaxTypeInclusive
	assert.Error(t, json.Unmarshal([]byte(`{"tax_type":"vat-free"}`), &got))
	assert.Equal(t, TaxTypeInclusive, got.TaxType, "rejected input must not overwrite the value")

	assert.Error(t, json.Unmarshal([]byte(`{"tax_type":7}`), &got))
}

func TestTaxType_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(TaxTypeInclusive)
	require.NoError(t, err)
	assert.JSONEq(t, `"Inclusive"`, string(data))

	var back TaxType
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, TaxTypeInclusive, back)
}

func TestTaxType_Scan(t *testing.T) {
	var tt TaxType
	require.NoError(t, tt.Scan(int64(1)))
	assert.Equal(t, TaxTypeInclusive, tt)

	require.NoError(t, tt.Scan(nil))
	assert.Equal(t, TaxTypeExclusive, tt)

	assert.Error(t, tt.Scan("Inclusive"))
}
