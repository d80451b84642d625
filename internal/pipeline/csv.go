package pipeline

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/saha-group/leads-cli/internal/model"
)

// DefaultCSVColumns is the flat tabular column order.
var DefaultCSVColumns = []string{
	"name",
	"formatted_address",
	"latitude",
	"longitude",
	"place_id",
	"types",
	"rating",
	"user_ratings_total",
	"business_status",
	"phone",
	"phone_intl",
	"website",
}

// RenderCSV renders leads as CSV text. Requested columns outside the known
// set are dropped; an empty or fully unknown selection falls back to the
// default columns. Returns the text and the columns actually used.
func RenderCSV(leads []model.Lead, columns []string) (string, []string, error) {
	known := make(map[string]struct{}, len(DefaultCSVColumns))
	for _, c := range DefaultCSVColumns {
		known[c] = struct{}{}
	}

	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, ok := known[c]; ok {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		cols = DefaultCSVColumns
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(cols); err != nil {
		return "", nil, eris.Wrap(err, "csv: write header")
	}
	for _, lead := range leads {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = csvValue(lead, c)
		}
		if err := w.Write(row); err != nil {
			return "", nil, eris.Wrap(err, "csv: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, eris.Wrap(err, "csv: flush")
	}

	return sb.String(), cols, nil
}

func csvValue(lead model.Lead, column string) string {
	switch column {
	case "name":
		return lead.Name
	case "formatted_address":
		return lead.FormattedAddress
	case "latitude":
		if lead.Latitude == nil {
			return ""
		}
		return strconv.FormatFloat(*lead.Latitude, 'f', -1, 64)
	case "longitude":
		if lead.Longitude == nil {
			return ""
		}
		return strconv.FormatFloat(*lead.Longitude, 'f', -1, 64)
	case "place_id":
		return lead.PlaceID
	case "types":
		return strings.Join(lead.Types, ";")
	case "rating":
		if lead.Rating == 0 {
			return ""
		}
		return strconv.FormatFloat(lead.Rating, 'f', -1, 64)
	case "user_ratings_total":
		if lead.UserRatingsTotal == 0 {
			return ""
		}
		return strconv.Itoa(lead.UserRatingsTotal)
	case "business_status":
		return lead.BusinessStatus
	case "phone":
		return lead.Phone
	case "phone_intl":
		return lead.PhoneIntl
	case "website":
		return lead.Website
	}
	return ""
}
