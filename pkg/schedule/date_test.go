package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDateArithmetic(t *testing.T) {
	assert.Equal(t, "2024-03-01", d("2024-02-29").AddDays(1).String())
	assert.Equal(t, "2023-12-31", d("2024-01-01").AddDays(-1).String())
	assert.Equal(t, "2024-03-02", d("2024-01-31").AddMonths(1).String())
	assert.Equal(t, time.Monday, d("2024-01-01").Weekday())
	assert.Equal(t, 7, d("2024-01-01").DaysUntil(d("2024-01-08")))
	assert.True(t, d("2024-01-01").Before(d("2024-01-02")))
	assert.True(t, d("2024-02-01").After(d("2024-01-31")))
	assert.Equal(t, "2024-03-01", NewDate(2024, time.February, 30).String())
}

func TestDateOfUsesLocalComponents(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	ts := time.Date(2024, 7, 4, 22, 0, 0, 0, zone)
	assert.Equal(t, "2024-07-04", DateOf(ts).String())
	assert.Equal(t, "2024-07-05", DateOf(ts.UTC()).String())
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("2024-13-01")
	assert.Error(t, err)
	_, err = ParseDate("tomorrow")
	assert.Error(t, err)
}

func TestDateEncoding(t *testing.T) {
	type doc struct {
		Date *Date `yaml:"date,omitempty" json:"date,omitempty"`
	}

	out, err := yaml.Marshal(doc{Date: dp("2024-05-06")})
	require.NoError(t, err)
	assert.Contains(t, string(out), "2024-05-06")

	var back doc
	require.NoError(t, yaml.Unmarshal([]byte("date: 2024-05-06\n"), &back))
	require.NotNil(t, back.Date)
	assert.Equal(t, "2024-05-06", back.Date.String())

	js, err := json.Marshal(doc{Date: dp("2024-05-06")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-06"}`, string(js))

	empty, err := yaml.Marshal(doc{})
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(empty))
}
