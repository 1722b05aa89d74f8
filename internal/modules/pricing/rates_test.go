package pricing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/modules/jurisdiction"
	"compass/internal/types"
)

func TestLoadRates_EmptyPathReturnsDefaults(t *testing.T) {
	rates, err := LoadRates("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRates().StandardPerLeg, rates.StandardPerLeg)
	assert.Equal(t, "America/New_York", rates.Calendar.Location.String())
}

func TestParseRates_OverlaysDefaults(t *testing.T) {
	raw := []byte(`
standard_per_leg: 55
zone_surcharge: 60
veteran_discount:
  enabled: true
  rate: 0.1
timezone: America/Chicago
calendar:
  after_hours_start: 19
  after_hours_end: 7
  holidays:
    - {month: 11, day: 11, name: Veterans Day}
zones:
  home_zone: Cook County
  inside: [chicago]
`)
	rates, err := ParseRates(raw)
	require.NoError(t, err)

	assert.Equal(t, types.Money(55), rates.StandardPerLeg)
	assert.Equal(t, types.Money(60), rates.ZoneSurcharge)
	assert.True(t, rates.VeteranDiscount.Enabled)
	assert.InDelta(t, 0.1, rates.VeteranDiscount.Rate, 1e-9)
	assert.Equal(t, "America/Chicago", rates.Calendar.Location.String())
	assert.Equal(t, 19, rates.Calendar.AfterHoursStart)
	require.Len(t, rates.Calendar.FixedHolidays, 1)
	assert.Equal(t, "Veterans Day", rates.Calendar.FixedHolidays[0].Name)
	assert.Equal(t, "Cook County", rates.Zones.HomeZone)
	assert.Equal(t, []string{"chicago"}, rates.Zones.Inside)

	// untouched keys keep their defaults
	assert.Equal(t, types.Money(150), rates.BariatricPerLeg)
	assert.Equal(t, types.Money(4), rates.DeadMileagePerMile)
	assert.False(t, rates.WheelchairRental.Enabled)
	assert.NotEmpty(t, rates.Zones.Outside)
}

func TestParseRates_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed yaml", "standard_per_leg: [1"},
		{"unknown timezone", "timezone: Mars/Olympus_Mons"},
		{"negative fee", "emergency_fee: -1"},
		{"discount over one", "veteran_discount: {enabled: true, rate: 1.5}"},
		{"inverted window", "calendar: {after_hours_start: 6, after_hours_end: 9}"},
		{"zero threshold", "bariatric_threshold_lbs: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRates([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestParseRates_MixedCaseZonePatterns(t *testing.T) {
	raw := []byte(`
zones:
  home_zone: Franklin County
  inside: ["Columbus", " Dublin "]
  outside:
    - name: Fairfield County (Lancaster)
      patterns: ["Lancaster, OH"]
  home_cities: [Columbus]
`)
	rates, err := ParseRates(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"columbus", "dublin"}, rates.Zones.Inside)
	assert.Equal(t, []string{"lancaster, oh"}, rates.Zones.Outside[0].Patterns)
	assert.Equal(t, []string{"columbus"}, rates.Zones.HomeCities)

	info := jurisdiction.NewPatternClassifier(rates.Zones, nil).
		Classify(context.Background(), "123 Main St, Lancaster, OH", "Columbus, OH")
	assert.False(t, info.InHomeZone)
	assert.Equal(t, 2, info.ZonesCrossed)
	assert.Equal(t, "Fairfield County (Lancaster)", info.PickupZone)
}

func TestRates_ValidateErrorOrderIsStable(t *testing.T) {
	rates := DefaultRates()
	rates.HolidaySurcharge = -1
	rates.StandardPerLeg = -1
	rates.ZoneSurcharge = -1

	want := "standard_per_leg must not be negative\n" +
		"zone_surcharge must not be negative\n" +
		"holiday_surcharge must not be negative"
	for i := 0; i < 20; i++ {
		err := rates.Validate()
		require.Error(t, err)
		assert.Equal(t, want, err.Error())
	}
}

func TestLoadRates_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("holiday_surcharge: 75\n"), 0o600))

	rates, err := LoadRates(path)
	require.NoError(t, err)
	assert.Equal(t, types.Money(75), rates.HolidaySurcharge)

	_, err = LoadRates(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRates_WeightThresholds(t *testing.T) {
	rates := DefaultRates()
	assert.False(t, rates.IsBariatric(nil))
	assert.False(t, rates.IsBariatric(weight(299.9)))
	assert.True(t, rates.IsBariatric(weight(300)))

	assert.False(t, rates.ExceedsCapacity(nil))
	assert.False(t, rates.ExceedsCapacity(weight(399)))
	assert.True(t, rates.ExceedsCapacity(weight(400)))
}

func TestLoadRates_ExampleFileMatchesDefaults(t *testing.T) {
	root, err := repoRoot()
	require.NoError(t, err)

	rates, err := LoadRates(filepath.Join(root, "rates.example.yaml"))
	require.NoError(t, err)

	def := DefaultRates()
	assert.Equal(t, def.Calendar.Location.String(), rates.Calendar.Location.String())
	rates.Calendar.Location = def.Calendar.Location
	assert.Equal(t, def, rates)
}
