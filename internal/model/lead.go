// Package model defines the lead search query, filter set, and the
// normalized lead records emitted by the pipeline.
package model

import (
	"strings"

	"github.com/saha-group/leads-cli/pkg/places"
)

// Query describes one lead search request.
type Query struct {
	Keyword      string `json:"keyword"`
	LocationText string `json:"location_text"`
	RadiusMeters int    `json:"radius_meters"`
	Limit        int    `json:"limit"`
	Language     string `json:"language"`
}

// DedupeKey selects how duplicate leads are detected.
type DedupeKey string

// Dedupe modes.
const (
	DedupeByPlaceID     DedupeKey = "place_id"
	DedupeByNameAddress DedupeKey = "name_address"
)

// Filters holds the optional lead predicates. Nil pointer and empty slice
// fields mean "not applied".
type Filters struct {
	MinRating             *float64  `json:"min_rating,omitempty"`
	MinUserRatingsTotal   *int      `json:"min_user_ratings_total,omitempty"`
	TypesInclude          []string  `json:"types_include,omitempty"`
	TypesExclude          []string  `json:"types_exclude,omitempty"`
	RequirePhoneOrWebsite bool      `json:"require_phone_or_website"`
	OnlyOpenNow           *bool     `json:"only_open_now,omitempty"`
	BusinessStatusIn      []string  `json:"business_status_in,omitempty"`
	DedupeBy              DedupeKey `json:"dedupe_by"`
}

// Lead is a single normalized business record. Immutable once emitted.
type Lead struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	PlaceID          string   `json:"place_id"`
	Types            []string `json:"types"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	BusinessStatus   string   `json:"business_status"`
	Phone            string   `json:"phone,omitempty"`
	PhoneIntl        string   `json:"phone_intl,omitempty"`
	Website          string   `json:"website,omitempty"`
	OpenNow          *bool    `json:"open_now,omitempty"`
}

// Response is the success envelope returned by the lead search facade.
type Response struct {
	Leads    []Lead         `json:"leads"`
	Total    int            `json:"total"`
	Query    Query          `json:"query"`
	Location *places.LatLng `json:"location,omitempty"`
	Filters  *Filters       `json:"filters,omitempty"`
	Note     string         `json:"note,omitempty"`
	Sheets   *SheetsResult  `json:"google_sheets,omitempty"`
}

// SheetsResult annotates a response with the outcome of a best-effort
// spreadsheet export. A failed export never fails the response.
type SheetsResult struct {
	OK            bool   `json:"ok"`
	AutoExport    bool   `json:"auto_export,omitempty"`
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	SheetName     string `json:"sheet_name,omitempty"`
	UpdatedRange  string `json:"updated_range,omitempty"`
	UpdatedRows   int    `json:"updated_rows,omitempty"`
	RowsSent      int    `json:"rows_sent,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ErrorResponse is the error envelope returned by the facade.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// FromPlace converts a provider-native result into a Lead, flattening the
// enrichment block when present.
func FromPlace(p places.Place) Lead {
	lead := Lead{
		Name:             p.Name,
		FormattedAddress: p.FormattedAddress,
		PlaceID:          p.PlaceID,
		Types:            p.Types,
		Rating:           p.Rating,
		UserRatingsTotal: p.UserRatingsTotal,
		BusinessStatus:   p.BusinessStatus,
	}
	if p.Geometry.Location.Lat != 0 || p.Geometry.Location.Lng != 0 {
		lat, lng := p.Geometry.Location.Lat, p.Geometry.Location.Lng
		lead.Latitude = &lat
		lead.Longitude = &lng
	}
	if p.Details != nil {
		lead.Phone = p.Details.Phone
		lead.PhoneIntl = p.Details.PhoneIntl
		lead.Website = p.Details.Website
		if p.Details.OpeningHours != nil {
			lead.OpenNow = p.Details.OpeningHours.OpenNow
		}
	}
	return lead
}

// HasContact reports whether the lead carries a phone number or website.
func (l Lead) HasContact() bool {
	return strings.TrimSpace(l.Phone) != "" || strings.TrimSpace(l.Website) != ""
}
