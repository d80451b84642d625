package pipeline

import (
	"context"

	"github.com/saha-group/leads-cli/pkg/places"
)

// stubClient implements places.Client with function hooks.
type stubClient struct {
	geocode     func(ctx context.Context, locationText, language string) (*places.LatLng, error)
	textSearch  func(ctx context.Context, req places.TextSearchRequest) (*places.TextSearchResponse, error)
	placeDetail func(ctx context.Context, placeID, language string) (*places.DetailsResponse, error)
}

func (s *stubClient) Geocode(ctx context.Context, locationText, language string) (*places.LatLng, error) {
	if s.geocode == nil {
		return &places.LatLng{Lat: 41.0, Lng: 36.0}, nil
	}
	return s.geocode(ctx, locationText, language)
}

func (s *stubClient) TextSearch(ctx context.Context, req places.TextSearchRequest) (*places.TextSearchResponse, error) {
	return s.textSearch(ctx, req)
}

func (s *stubClient) PlaceDetails(ctx context.Context, placeID, language string) (*places.DetailsResponse, error) {
	return s.placeDetail(ctx, placeID, language)
}

// makePlaces builds n sequentially identified places.
func makePlaces(prefix string, n int) []places.Place {
	out := make([]places.Place, n)
	for i := range out {
		out[i] = places.Place{
			PlaceID: prefix + string(rune('a'+i)),
			Name:    "Bayi " + string(rune('A'+i)),
		}
	}
	return out
}
