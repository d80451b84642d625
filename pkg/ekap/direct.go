package ekap

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Direct procurement type codes used by the legacy endpoint.
var directProcurementTypes = map[int]string{
	1: "Mal",
	2: "Hizmet",
	3: "Yapım",
	4: "Danışmanlık",
}

// dtNoRe matches the combined DT number form, e.g. "25DT1493794".
var dtNoRe = regexp.MustCompile(`^(\d{2})DT(\d+)$`)

// ProcurementQuery holds direct-procurement search filters. Dates are
// YYYY-MM-DD; province may be given as a plate number or a name resolved
// through the registry.
type ProcurementQuery struct {
	SearchText string
	PageIndex  int // 1-based
	OrderBy    int // endpoint ordering code, 10 = newest first

	Year     int    // four- or two-digit year
	DTNo     string // combined "25DT1493794" form, parsed into year + number
	DTNumber int
	DTType   int // 1 Mal, 2 Hizmet, 3 Yapım, 4 Danışmanlık

	EPriceOffer *bool
	StatusID    int

	DateStart string
	DateEnd   string

	ProvincePlate int
	ProvinceName  string

	ScopeID     int
	AuthorityID int
}

// Procurement is one direct-procurement hit, decoded from the legacy
// endpoint's terse single-letter fields.
type Procurement struct {
	DTNo             string `json:"dt_no"`
	Title            string `json:"title"`
	Authority        string `json:"authority"`
	TypeCode         int    `json:"type_code"`
	TypeDescription  string `json:"type_description"`
	DueDateTime      string `json:"due_datetime"`
	AnnouncementDate string `json:"announcement_date"`
	DetailToken      string `json:"detail_token"`
	AnnouncementToken string `json:"announcement_token"`
	ProvincePlate    int    `json:"province_plate"`
	HasAnnouncement  bool   `json:"has_announcement"`
	HasDocument      bool   `json:"has_document"`
}

// ProcurementList is a page of direct-procurement results.
type ProcurementList struct {
	Procurements  []Procurement `json:"direct_procurements"`
	ReturnedCount int           `json:"returned_count"`
	PageIndex     int           `json:"page_index"`
}

// directResponse is the raw dtAra response. The numeric and boolean
// fields arrive as either JSON numbers or strings depending on server
// mood, hence the flex types.
type directResponse struct {
	Items []struct {
		DTNo             string   `json:"E1"`
		Title            string   `json:"E2"`
		Authority        string   `json:"E3"`
		TypeCode         flexInt  `json:"E4"`
		DueDateTime      string   `json:"E7"`
		AnnouncementDate string   `json:"E8"`
		DetailToken      string   `json:"E10"`
		AnnouncementToken string  `json:"E11"`
		ProvincePlate    flexInt  `json:"E12"`
		HasAnnouncement  flexBool `json:"E13"`
		HasDocument      flexBool `json:"E14"`
	} `json:"yeniDogrudanTeminAramaResultList"`
}

// SearchDirectProcurements runs one page of the legacy dtAra search.
func (c *Client) SearchDirectProcurements(ctx context.Context, q ProcurementQuery) (*ProcurementList, error) {
	params, err := c.buildDirectParams(q)
	if err != nil {
		return nil, err
	}

	var resp directResponse
	if err := c.getJSON(ctx, c.legacyURL, params, &resp); err != nil {
		return nil, eris.Wrap(err, "ekap: direct procurement search")
	}

	pageIndex := q.PageIndex
	if pageIndex < 1 {
		pageIndex = 1
	}

	list := &ProcurementList{
		Procurements: make([]Procurement, 0, len(resp.Items)),
		PageIndex:    pageIndex,
	}
	for _, it := range resp.Items {
		code := int(it.TypeCode)
		desc, ok := directProcurementTypes[code]
		if !ok {
			desc = "Bilinmiyor"
		}
		list.Procurements = append(list.Procurements, Procurement{
			DTNo:              it.DTNo,
			Title:             it.Title,
			Authority:         it.Authority,
			TypeCode:          code,
			TypeDescription:   desc,
			DueDateTime:       it.DueDateTime,
			AnnouncementDate:  it.AnnouncementDate,
			DetailToken:       it.DetailToken,
			AnnouncementToken: it.AnnouncementToken,
			ProvincePlate:     int(it.ProvincePlate),
			HasAnnouncement:   bool(it.HasAnnouncement),
			HasDocument:       bool(it.HasDocument),
		})
	}
	list.ReturnedCount = len(list.Procurements)
	return list, nil
}

func (c *Client) buildDirectParams(q ProcurementQuery) (url.Values, error) {
	pageIndex := q.PageIndex
	if pageIndex < 1 {
		pageIndex = 1
	}
	orderBy := q.OrderBy
	if orderBy == 0 {
		orderBy = 10
	}

	params := url.Values{
		"metot":        {"dtAra"},
		"arananIfade":  {q.SearchText},
		"dtAciklama":   {"1"},
		"dtAdi":        {"1"},
		"dtBilgiSecim": {"1"},
		"orderBy":      {strconv.Itoa(orderBy)},
		"pageIndex":    {strconv.Itoa(pageIndex)},
	}

	year := q.Year
	number := q.DTNumber

	// The combined DT no carries a two-digit year and the sequence number.
	if number == 0 && q.DTNo != "" {
		if m := dtNoRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(q.DTNo))); m != nil {
			if year == 0 {
				year, _ = strconv.Atoi(m[1])
			}
			number, _ = strconv.Atoi(m[2])
		} else {
			return nil, eris.Errorf("ekap: malformed dt no %q", q.DTNo)
		}
	}
	if year != 0 {
		// Endpoint expects the two-digit year.
		if year > 99 {
			year %= 100
		}
		params.Set("dtnYil", strconv.Itoa(year))
	}
	if number != 0 {
		params.Set("dtnSayi", strconv.Itoa(number))
	}

	if q.DTType != 0 {
		params.Set("dtTuru", strconv.Itoa(q.DTType))
	}
	if q.EPriceOffer != nil {
		params.Set("eihale", strconv.FormatBool(*q.EPriceOffer))
	}
	if q.StatusID != 0 {
		params.Set("dtDurum", strconv.Itoa(q.StatusID))
	}
	if d := formatAPIDate(q.DateStart); d != "" {
		params.Set("dtTarihiBaslangic", d)
	}
	if d := formatAPIDate(q.DateEnd); d != "" {
		params.Set("dtTarihiBitis", d)
	}

	plate := q.ProvincePlate
	if plate == 0 && q.ProvinceName != "" {
		plate = c.registry.PlateNumber(q.ProvinceName)
		if plate == 0 {
			return nil, eris.Errorf("ekap: unknown province %q", q.ProvinceName)
		}
	}
	if plate != 0 {
		params.Set("ilID", strconv.Itoa(plate))
	}

	if q.ScopeID != 0 {
		params.Set("dtKapsami", strconv.Itoa(q.ScopeID))
	}
	if q.AuthorityID != 0 {
		params.Set("idareId", strconv.Itoa(q.AuthorityID))
	}

	return params, nil
}
