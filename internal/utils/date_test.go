package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDate tests parsing wire format dates
func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, "2026-09-15", d.String())
}

// TestParseDate_Invalid tests rejection of non-date input
func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"15-09-2026", "2026/09/15", "tomorrow", "2026-13-01", ""} {
		_, err := ParseDate(input)
		assert.Error(t, err, "input %q should not parse", input)
	}
}

// TestDateMarshalJSON tests the wire representation
func TestDateMarshalJSON(t *testing.T) {
	d := NewDate(2026, time.September, 15)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-09-15"`, string(data))
}

// TestDateUnmarshalJSON tests reading the wire representation back
func TestDateUnmarshalJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-15"`), &d))
	assert.Equal(t, "2026-09-15", d.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
}

// TestDateInStruct tests a *Date field through a JSON round trip, the way
// task payloads carry due dates
func TestDateInStruct(t *testing.T) {
	type payload struct {
		DueDate *Date `json:"due_date"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"due_date": "2026-09-15"}`), &p))
	require.NotNil(t, p.DueDate)
	assert.Equal(t, "2026-09-15", p.DueDate.String())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due_date": "2026-09-15"}`, string(out))

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.Nil(t, absent.DueDate)
}

// TestDateScan tests reading database values
func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, time.September, 15, 13, 45, 0, 0, time.Local)))
	assert.Equal(t, "2026-09-15", d.String())

	require.NoError(t, d.Scan("2026-09-15 00:00:00+00:00"))
	assert.Equal(t, "2026-09-15", d.String())

	var empty Date
	require.NoError(t, empty.Scan(nil))
	assert.True(t, empty.IsZero())

	assert.Error(t, d.Scan(42))
}
