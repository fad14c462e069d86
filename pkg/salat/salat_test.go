package salat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meccaZone(t *testing.T) *time.Location {
	t.Helper()
	return time.FixedZone("AST", 3*60*60)
}

func assertOrdered(t *testing.T, times *Times) {
	t.Helper()
	assert.True(t, times.Fajr.Before(times.Sunrise), "fajr before sunrise")
	assert.True(t, times.Sunrise.Before(times.Dhuhr), "sunrise before dhuhr")
	assert.True(t, times.Dhuhr.Before(times.Asr), "dhuhr before asr")
	assert.True(t, times.Asr.Before(times.Maghrib), "asr before maghrib")
	assert.True(t, times.Maghrib.Before(times.Isha), "maghrib before isha")
}

func clock(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

func TestCompute_Mecca(t *testing.T) {
	zone := meccaZone(t)
	date := time.Date(2026, time.October, 19, 0, 0, 0, 0, zone)

	times, err := Compute(21.4225, 39.8262, date, DefaultParams())
	require.NoError(t, err)
	assertOrdered(t, times)

	assert.Equal(t, 19, times.Dhuhr.Day())
	assert.Equal(t, zone, times.Dhuhr.Location())

	dhuhr := clock(times.Dhuhr)
	assert.True(t, dhuhr > 11*time.Hour+50*time.Minute && dhuhr < 12*time.Hour+30*time.Minute, "dhuhr %s", times.Dhuhr)

	maghrib := clock(times.Maghrib)
	assert.True(t, maghrib > 17*time.Hour+30*time.Minute && maghrib < 18*time.Hour+15*time.Minute, "maghrib %s", times.Maghrib)

	fajr := clock(times.Fajr)
	assert.True(t, fajr > 4*time.Hour+30*time.Minute && fajr < 5*time.Hour+30*time.Minute, "fajr %s", times.Fajr)

	assert.Zero(t, times.Fajr.Second(), "times rounded to the minute")
}

func TestCompute_RaleighNorthAmericaHanafi(t *testing.T) {
	edt := time.FixedZone("EDT", -4*60*60)
	date := time.Date(2015, time.July, 12, 0, 0, 0, 0, edt)

	times, err := Compute(35.7750, -78.6336, date, Params{Method: NorthAmerica, Madhab: Hanafi})
	require.NoError(t, err)

	at := func(h, min int) time.Time { return time.Date(2015, time.July, 12, h, min, 0, 0, edt) }
	assert.True(t, at(4, 42).Equal(times.Fajr), "fajr %s", times.Fajr)
	assert.True(t, at(6, 8).Equal(times.Sunrise), "sunrise %s", times.Sunrise)
	assert.True(t, at(13, 21).Equal(times.Dhuhr), "dhuhr %s", times.Dhuhr)
	assert.True(t, at(18, 22).Equal(times.Asr), "asr %s", times.Asr)
	assert.True(t, at(20, 32).Equal(times.Maghrib), "maghrib %s", times.Maghrib)
	assert.True(t, at(21, 57).Equal(times.Isha), "isha %s", times.Isha)
}

func TestCompute_IshaInterval(t *testing.T) {
	date := time.Date(2026, time.October, 19, 0, 0, 0, 0, meccaZone(t))
	times, err := Compute(21.4225, 39.8262, date, Params{Method: UmmAlQura})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, times.Isha.Sub(times.Maghrib))
}

func TestCompute_HanafiAsrIsLater(t *testing.T) {
	date := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	shafi, err := Compute(51.5074, -0.1278, date, Params{Method: MuslimWorldLeague, Madhab: Shafi})
	require.NoError(t, err)
	hanafi, err := Compute(51.5074, -0.1278, date, Params{Method: MuslimWorldLeague, Madhab: Hanafi})
	require.NoError(t, err)
	assert.True(t, hanafi.Asr.After(shafi.Asr))
}

func TestCompute_HighLatitudeSummer(t *testing.T) {
	oslo, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	date := time.Date(2026, time.June, 21, 0, 0, 0, 0, oslo)

	times, err := Compute(59.9139, 10.7522, date, DefaultParams())
	require.NoError(t, err)
	assertOrdered(t, times)
}

func TestCompute_PolarDay(t *testing.T) {
	date := time.Date(2026, time.June, 21, 0, 0, 0, 0, time.UTC)
	_, err := Compute(80, 15, date, DefaultParams())
	assert.ErrorIs(t, err, ErrUndefinedTimes)
}

func TestCompute_InvalidPosition(t *testing.T) {
	_, err := Compute(120, 0, time.Now(), DefaultParams())
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestTimes_CurrentAndNext(t *testing.T) {
	day := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	times := &Times{
		Fajr:    day.Add(5 * time.Hour),
		Sunrise: day.Add(6 * time.Hour),
		Dhuhr:   day.Add(12 * time.Hour),
		Asr:     day.Add(15 * time.Hour),
		Maghrib: day.Add(18 * time.Hour),
		Isha:    day.Add(19*time.Hour + 30*time.Minute),
	}

	tests := []struct {
		at      time.Duration
		current Prayer
		next    Prayer
	}{
		{4 * time.Hour, None, Fajr},
		{5 * time.Hour, Fajr, Dhuhr},
		{7 * time.Hour, Fajr, Dhuhr},
		{12*time.Hour + time.Minute, Dhuhr, Asr},
		{18*time.Hour + 10*time.Minute, Maghrib, Isha},
		{23 * time.Hour, Isha, None},
	}
	for _, tt := range tests {
		now := day.Add(tt.at)
		assert.Equal(t, tt.current, times.Current(now), "current at %s", tt.at)
		assert.Equal(t, tt.next, times.Next(now), "next at %s", tt.at)
	}
}

func TestMethodByName(t *testing.T) {
	m, err := MethodByName("mwl")
	require.NoError(t, err)
	assert.Equal(t, MuslimWorldLeague, m)

	m, err = MethodByName("moonsighting")
	require.NoError(t, err)
	assert.Equal(t, MoonsightingCommittee, m)
	assert.Contains(t, MethodNames(), "Makkah")

	_, err = MethodByName("nope")
	assert.Error(t, err)
}

func TestParseMadhab(t *testing.T) {
	m, err := ParseMadhab("Hanafi")
	require.NoError(t, err)
	assert.Equal(t, Hanafi, m)

	_, err = ParseMadhab("other")
	assert.Error(t, err)
}
