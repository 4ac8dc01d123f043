package epoch

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

func TestFromTimeJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{
			name:     "J2000.0 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
		},
		{
			name:     "Vallado example date",
			time:     time.Date(2004, 4, 6, 7, 51, 28, 386009000, time.UTC),
			expected: 2453101.827411875,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromTime(tt.time).JD()
			if diff := math.Abs(got - tt.expected); diff > 1e-8 {
				t.Errorf("FromTime(%v).JD() = %.10f, want %.10f (diff=%.2e)", tt.time, got, tt.expected, diff)
			}
		})
	}
}

// Cross-check against the meeus Julian date routine.
func TestFromTimeMatchesMeeus(t *testing.T) {
	for _, ts := range []time.Time{
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2013, 8, 22, 4, 31, 12, 0, time.UTC),
		time.Date(2026, 2, 6, 4, 1, 0, 0, time.UTC),
	} {
		ours := FromTime(ts).JD()
		ref := julian.TimeToJD(ts)
		if diff := math.Abs(ours - ref); diff > 1e-8 {
			t.Errorf("JD(%v) = %.10f, meeus = %.10f", ts, ours, ref)
		}
	}
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)
	got := FromTime(in).Time()
	if d := got.Sub(in); d > time.Microsecond || d < -time.Microsecond {
		t.Fatalf("Time() = %v, want %v (diff %v)", got, in, d)
	}
}

func TestScaleOffsets(t *testing.T) {
	utc := FromTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	if got := utc.TAI().Sub(utc); math.Abs(got) > 1e-6 {
		t.Fatalf("TAI and UTC should describe the same instant, Sub = %v s", got)
	}

	// Same instant, different labels: compare the raw Julian dates.
	taiMinusUTC := labelDiff(utc.TAI(), utc)
	if math.Abs(taiMinusUTC-37) > 1e-4 {
		t.Errorf("TAI-UTC = %.6f s, want 37", taiMinusUTC)
	}
	ttMinusUTC := labelDiff(utc.TT(), utc)
	if math.Abs(ttMinusUTC-69.184) > 1e-4 {
		t.Errorf("TT-UTC = %.6f s, want 69.184", ttMinusUTC)
	}
	gpsMinusUTC := labelDiff(utc.GPS(), utc)
	if math.Abs(gpsMinusUTC-18) > 1e-4 {
		t.Errorf("GPS-UTC = %.6f s, want 18", gpsMinusUTC)
	}
}

func TestLeapSecondsHistory(t *testing.T) {
	tests := []struct {
		when time.Time
		want float64
	}{
		{time.Date(1972, 1, 1, 0, 0, 0, 0, time.UTC), 10},
		{time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), 25},
		{time.Date(2008, 12, 31, 12, 0, 0, 0, time.UTC), 33},
		{time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), 34},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 37},
	}
	for _, tt := range tests {
		if got := LeapSeconds(FromTime(tt.when)); got != tt.want {
			t.Errorf("LeapSeconds(%v) = %v, want %v", tt.when, got, tt.want)
		}
	}
}

func TestScaleRoundTrip(t *testing.T) {
	base := FromTime(time.Date(2016, 6, 30, 18, 0, 0, 0, time.UTC)).WithDUT1(-0.3)
	for _, s := range []Scale{UTC, TAI, TT, UT1, GPS} {
		back := base.To(s).To(UTC)
		if d := math.Abs(back.Sub(base)); d > 1e-6 {
			t.Errorf("UTC -> %s -> UTC drifted by %.3e s", s, d)
		}
		if back.Scale() != UTC {
			t.Errorf("scale after round trip = %s, want UTC", back.Scale())
		}
	}
}

func TestUT1UsesDUT1(t *testing.T) {
	utc := FromTime(time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)).WithDUT1(-0.2)
	got := labelDiff(utc.UT1(), utc)
	if math.Abs(got+0.2) > 1e-5 {
		t.Fatalf("UT1-UTC = %.6f s, want -0.2", got)
	}
}

func TestGPSSeconds(t *testing.T) {
	// MWA observation 1065880128 started at 2013-10-15 13:48:32 UTC.
	e := FromGPSSeconds(1065880128)
	want := time.Date(2013, 10, 15, 13, 48, 32, 0, time.UTC)
	if d := e.Time().Sub(want); d > time.Millisecond || d < -time.Millisecond {
		t.Fatalf("FromGPSSeconds().Time() = %v, want %v", e.Time(), want)
	}
	if got := e.UTC().GPSSeconds(); math.Abs(got-1065880128) > 1e-4 {
		t.Fatalf("GPSSeconds() = %.6f, want 1065880128", got)
	}
}

func TestJulianCenturies(t *testing.T) {
	if got := J2000().JulianCenturies(); got != 0 {
		t.Fatalf("J2000 centuries = %v, want 0", got)
	}
	if got := FromJulianYear(2100).JulianCenturies(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("J2100 centuries = %v, want 1", got)
	}
	if got := FromJulianYear(1950).JulianYear(); math.Abs(got-1950) > 1e-9 {
		t.Fatalf("JulianYear = %v, want 1950", got)
	}
}

func TestAddKeepsPrecision(t *testing.T) {
	e := FromTime(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	later := e.Add(250 * time.Microsecond)
	if got := later.Sub(e); math.Abs(got-250e-6) > 1e-9 {
		t.Fatalf("Sub after Add = %.12f s, want 250e-6", got)
	}
}

// labelDiff returns the difference of the raw two-part Julian dates in
// seconds, ignoring the scales they are tagged with.
func labelDiff(a, b Epoch) float64 {
	a1, a2 := a.JD2()
	b1, b2 := b.JD2()
	return ((a1 - b1) + (a2 - b2)) * 86400
}
