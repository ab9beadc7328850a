package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "149K UZS", FormatPrice(149000, "UZS"))
	assert.Equal(t, "$19.99", FormatPrice(19.99, "USD"))
	assert.Equal(t, "$5", FormatPrice(5, ""))
	assert.True(t, PaymentPayme.Valid())
	assert.False(t, PaymentMethod("paypal").Valid())
}

func TestApplicationText(t *testing.T) {
	a := Application{FirstName: "Dilnoza", LastName: "Karimova", Phone: "+998901234567", Weight: "70", Height: "165", Age: "28"}
	assert.Equal(t, "—", a.TelegramHandle())
	a.Telegram = "@dilnoza"
	assert.Equal(t, "@dilnoza", a.TelegramHandle())

	lines := strings.Split(a.Text(), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "Ism: Dilnoza Karimova", lines[2])
	assert.Equal(t, "Telegram: @dilnoza", lines[4])
	assert.Equal(t, "Vazn: 70 kg, Bo'y: 165 sm, Yosh: 28", lines[6])
}

func TestComparePhotos(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	before := ProgressPhoto{Date: "2024-01-01", Weight: 90, Measurements: &BodyMeasurement{Waist: f(100), Chest: f(110)}}
	after := ProgressPhoto{Date: "2024-02-15", Weight: 85, Measurements: &BodyMeasurement{Waist: f(95)}}

	c, err := ComparePhotos(before, after)
	require.NoError(t, err)
	assert.Equal(t, 5.0, c.WeightDiff)
	assert.Equal(t, 45, c.DaysDiff)
	assert.Equal(t, map[string]float64{"waist": 5}, c.Measurements)

	_, err = ComparePhotos(ProgressPhoto{Date: "bad"}, after)
	assert.Error(t, err)

	clone := before.Clone()
	*clone.Measurements.Waist = 1
	assert.Equal(t, 100.0, *before.Measurements.Waist)
}
