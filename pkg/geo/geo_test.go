package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trondheim = Origin{Latitude: 63.44, Longitude: 10.40}

func newTestTransformer(t *testing.T, unit Unit) Transformer {
	t.Helper()
	ltp, err := NewLocalTangentPlane(trondheim)
	require.NoError(t, err)
	tf, err := NewTransformer(unit, ltp)
	require.NoError(t, err)
	return tf
}

func TestRadiiOfCurvatureAtEquator(t *testing.T) {
	m, n := RadiiOfCurvature(0)
	// One degree of latitude and longitude at the equator.
	assert.InDelta(t, 110574.276, m*math.Pi/180, 1e-3)
	assert.InDelta(t, 111319.491, n*math.Pi/180, 1e-3)
}

func TestProjectOriginIsZero(t *testing.T) {
	ltp, err := NewLocalTangentPlane(trondheim)
	require.NoError(t, err)

	x, y := ltp.Project(trondheim.Latitude, trondheim.Longitude)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestProjectArcMinute(t *testing.T) {
	ltp, err := NewLocalTangentPlane(trondheim)
	require.NoError(t, err)

	x, y := ltp.Project(trondheim.Latitude+1.0/60, trondheim.Longitude)
	assert.InDelta(t, 1857.810, x, 1e-3)
	assert.InDelta(t, 0, y, 1e-9)

	x, y = ltp.Project(trondheim.Latitude, trondheim.Longitude-1.0/60)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, -831.811, y, 1e-3)
}

func TestProjectAcrossAntimeridian(t *testing.T) {
	ltp, err := NewLocalTangentPlane(Origin{Latitude: -40, Longitude: 179.99})
	require.NoError(t, err)

	_, yEast := ltp.Project(-40, -179.99)
	_, yWest := ltp.Project(-40, 179.97)
	assert.Greater(t, yEast, 0.0)
	assert.Less(t, yWest, 0.0)
	assert.InDelta(t, yEast, -yWest, 1e-6)
}

func TestUnprojectRoundTrip(t *testing.T) {
	ltp, err := NewLocalTangentPlane(trondheim)
	require.NoError(t, err)

	for _, p := range [][2]float64{{63.43, 10.39}, {63.5, 10.6}, {63.2, 9.8}} {
		x, y := ltp.Project(p[0], p[1])
		lat, lon := ltp.Unproject(x, y)
		assert.InDelta(t, p[0], lat, 1e-9)
		assert.InDelta(t, p[1], lon, 1e-9)
	}
}

func TestTransformRadians(t *testing.T) {
	tf := newTestTransformer(t, Radians)

	pos, err := tf.Transform(ToRadians(63.5), ToRadians(10.4))
	require.NoError(t, err)
	assert.InDelta(t, 63.5, pos.Latitude, 1e-12)
	assert.InDelta(t, 10.4, pos.Longitude, 1e-12)
	assert.InDelta(t, 0.06*1857.810*60, pos.X, 5)
	assert.InDelta(t, 0, pos.Y, 1e-6)
}

func TestTransformIsDeterministic(t *testing.T) {
	tf := newTestTransformer(t, Radians)

	first, err := tf.Transform(1.10828, 0.18151)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := tf.Transform(1.10828, 0.18151)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(first.X), math.Float64bits(again.X))
		assert.Equal(t, math.Float64bits(first.Y), math.Float64bits(again.Y))
		assert.Equal(t, first, again)
	}
}

func TestTransformOffset(t *testing.T) {
	tf := newTestTransformer(t, Degrees)

	pos, err := tf.TransformOffset(trondheim.Latitude, trondheim.Longitude, 1000, -250)
	require.NoError(t, err)
	assert.InDelta(t, 1000, pos.X, 1e-6)
	assert.InDelta(t, -250, pos.Y, 1e-6)
	assert.Greater(t, pos.Latitude, trondheim.Latitude)
	assert.Less(t, pos.Longitude, trondheim.Longitude)
}

func TestTransformRejectsInvalid(t *testing.T) {
	tf := newTestTransformer(t, Degrees)

	cases := [][4]float64{
		{math.NaN(), 10, 0, 0},
		{63, math.Inf(1), 0, 0},
		{91, 10, 0, 0},
		{63, -181, 0, 0},
		{63, 10, math.NaN(), 0},
	}
	for _, c := range cases {
		_, err := tf.TransformOffset(c[0], c[1], c[2], c[3])
		assert.ErrorIs(t, err, ErrInvalidCoordinate, "input %v", c)
	}
}

func TestNewTransformerValidation(t *testing.T) {
	ltp, err := NewLocalTangentPlane(trondheim)
	require.NoError(t, err)

	_, err = NewTransformer("grads", ltp)
	assert.Error(t, err)
	_, err = NewTransformer(Radians, nil)
	assert.Error(t, err)

	_, err = NewLocalTangentPlane(Origin{Latitude: 90, Longitude: 0})
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("rad")
	require.NoError(t, err)
	assert.Equal(t, Radians, u)

	u, err = ParseUnit("degrees")
	require.NoError(t, err)
	assert.Equal(t, Degrees, u)

	_, err = ParseUnit("turns")
	assert.Error(t, err)
}

func TestWrapLongitude(t *testing.T) {
	assert.Equal(t, 10.0, wrapLongitude(10))
	assert.InDelta(t, -170, wrapLongitude(190), 1e-12)
	assert.InDelta(t, 170, wrapLongitude(-190), 1e-12)
	assert.InDelta(t, -180, wrapLongitude(180), 1e-12)
}
