package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saha-group/leads-cli/pkg/places"
)

func TestFromPlace_FlattensDetails(t *testing.T) {
	open := true
	p := places.Place{
		PlaceID:          "ChIJ-1",
		Name:             "Karadeniz Tarım",
		FormattedAddress: "Atakum, 55200 Samsun",
		Geometry:         places.Geometry{Location: places.LatLng{Lat: 41.3, Lng: 36.3}},
		Types:            []string{"store", "point_of_interest"},
		Rating:           4.4,
		UserRatingsTotal: 31,
		BusinessStatus:   "OPERATIONAL",
		Details: &places.Details{
			Phone:        "(0362) 233 00 00",
			PhoneIntl:    "+90 362 233 00 00",
			Website:      "https://example.com.tr",
			OpeningHours: &places.OpeningHours{OpenNow: &open},
		},
	}

	lead := FromPlace(p)

	assert.Equal(t, "ChIJ-1", lead.PlaceID)
	assert.Equal(t, "(0362) 233 00 00", lead.Phone)
	assert.Equal(t, "https://example.com.tr", lead.Website)
	require.NotNil(t, lead.Latitude)
	assert.InDelta(t, 41.3, *lead.Latitude, 0.0001)
	require.NotNil(t, lead.OpenNow)
	assert.True(t, *lead.OpenNow)
}

func TestFromPlace_WithoutDetailsOrGeometry(t *testing.T) {
	lead := FromPlace(places.Place{PlaceID: "ChIJ-2", Name: "Bare"})

	assert.Empty(t, lead.Phone)
	assert.Nil(t, lead.Latitude)
	assert.Nil(t, lead.Longitude)
	assert.Nil(t, lead.OpenNow)
}

func TestHasContact(t *testing.T) {
	assert.True(t, Lead{Phone: "(0362) 233 00 00"}.HasContact())
	assert.True(t, Lead{Website: "https://example.com.tr"}.HasContact())
	assert.False(t, Lead{Phone: "  "}.HasContact())
	assert.False(t, Lead{}.HasContact())
}
