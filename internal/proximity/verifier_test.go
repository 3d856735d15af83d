package proximity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suresavings/internal/kyc/models"
)

type stubGeocoder struct {
	coords Coordinates
	err    error
	calls  int
}

func (g *stubGeocoder) Geocode(context.Context, string) (Coordinates, error) {
	g.calls++
	return g.coords, g.err
}

func TestDistance(t *testing.T) {
	// Lekki Phase 1 to Victoria Island, roughly 6km apart.
	d := Distance(6.4474, 3.4720, 6.4281, 3.4219)
	assert.InDelta(t, 5900, d, 400)
	assert.InDelta(t, 0, Distance(6.5, 3.3, 6.5, 3.3), 0.001)
}

func TestVerifier(t *testing.T) {
	home := Coordinates{Latitude: 6.4474, Longitude: 3.4720}
	ctx := context.Background()

	t.Run("fix near the address matches", func(t *testing.T) {
		v := NewVerifier(&stubGeocoder{coords: home}, 500)
		ok, err := v.Verify(ctx, "12 Lekki Rd, Lagos", models.Position{Latitude: 6.4480, Longitude: 3.4725, AccuracyMeters: 15})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("fix across town does not match", func(t *testing.T) {
		v := NewVerifier(&stubGeocoder{coords: home}, 500)
		ok, err := v.Verify(ctx, "12 Lekki Rd, Lagos", models.Position{Latitude: 6.4281, Longitude: 3.4219, AccuracyMeters: 15})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("poor accuracy widens the radius", func(t *testing.T) {
		v := NewVerifier(&stubGeocoder{coords: home}, 100)
		fix := models.Position{Latitude: 6.4500, Longitude: 3.4720}
		ok, _ := v.Verify(ctx, "x", fix)
		assert.False(t, ok)

		fix.AccuracyMeters = 300
		ok, _ = v.Verify(ctx, "x", fix)
		assert.True(t, ok)
	})

	t.Run("unknown address is a mismatch", func(t *testing.T) {
		v := NewVerifier(&stubGeocoder{err: ErrAddressNotFound}, 500)
		ok, err := v.Verify(ctx, "nowhere", models.Position{})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("geocoder failure is a ProximityError", func(t *testing.T) {
		v := NewVerifier(&stubGeocoder{err: errors.New("503")}, 500)
		_, err := v.Verify(ctx, "x", models.Position{})
		var perr *models.ProximityError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("empty address never calls the geocoder", func(t *testing.T) {
		g := &stubGeocoder{coords: home}
		ok, err := NewVerifier(g, 0).Verify(ctx, "  ", models.Position{})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, g.calls)
	})
}

func TestHTTPGeocoder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("address") {
		case "12 Lekki Rd, Lagos":
			_, _ = w.Write([]byte(`{"latitude":6.4474,"longitude":3.472}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	g := NewHTTPGeocoder(server.URL, "k", time.Second)

	c, err := g.Geocode(context.Background(), "12 Lekki Rd, Lagos")
	require.NoError(t, err)
	assert.Equal(t, 6.4474, c.Latitude)

	_, err = g.Geocode(context.Background(), "somewhere else")
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = g.Geocode(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAddressNotFound)
}

func TestGeocodeKeyNormalizes(t *testing.T) {
	assert.Equal(t, geocodeKey("12 Lekki Rd,  Lagos"), geocodeKey(" 12 lekki rd, LAGOS "))
	assert.NotEqual(t, geocodeKey("12 Lekki Rd"), geocodeKey("13 Lekki Rd"))
}
