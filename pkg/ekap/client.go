// Package ekap queries the Turkish public procurement platform: the v2
// tender search API and the legacy direct-procurement (doğrudan temin)
// endpoint.
package ekap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/saha-group/leads-cli/internal/geo"
)

const (
	defaultBaseURL   = "https://ekapv2.kik.gov.tr"
	defaultLegacyURL = "https://ekap.kik.gov.tr/EKAP/Ortak/YeniIhaleAramaData.ashx"

	tenderSearchPath = "/b_ihalearama/api/Ihale/GetListByParameters"
)

// Search-type and ordering values accepted by the tender search API.
const (
	SearchTypeAsEntered = "GirdigimGibi"
	SearchTypeAllWords  = "TumKelimeler"

	OrderByTenderDate = "ihaleTarihi"
	OrderByTenderName = "ihaleAdi"
	OrderByAuthority  = "idareAdi"
)

// Client queries EKAP tender and direct-procurement searches.
type Client struct {
	http      *http.Client
	baseURL   string
	legacyURL string
	registry  *geo.Registry
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBaseURLs overrides the v2 API and legacy endpoint URLs.
func WithBaseURLs(base, legacy string) Option {
	return func(c *Client) {
		c.baseURL = base
		c.legacyURL = legacy
	}
}

// NewClient creates an EKAP client. The registry translates province names
// into the plate numbers both endpoints use as province identifiers.
func NewClient(registry *geo.Registry, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		baseURL:   defaultBaseURL,
		legacyURL: defaultLegacyURL,
		registry:  registry,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TenderQuery holds the tender search filters. Zero values mean
// "unfiltered"; dates are YYYY-MM-DD and converted to the DD.MM.YYYY form
// the API expects.
type TenderQuery struct {
	SearchText string
	SearchType string // SearchTypeAsEntered (default) or SearchTypeAllWords
	OrderBy    string // OrderByTenderDate (default), OrderByTenderName, OrderByAuthority
	SortOrder  string // "desc" (default) or "asc"

	IKNYear   int
	IKNNumber int

	TenderTypes   []int
	TenderMethods []int
	Statuses      []int
	OKASCodes     []string

	// ProvinceNames are mapped to plate numbers via the registry; unknown
	// names are dropped.
	ProvinceNames []string
	ProvinceIDs   []int

	TenderDateStart       string
	TenderDateEnd         string
	AnnouncementDateStart string
	AnnouncementDateEnd   string

	Skip int
	Take int
}

// tenderPayload mirrors the GetListByParameters request body. The search
// scope flags are always on; the upstream search form does the same.
type tenderPayload struct {
	SearchText             string   `json:"searchText"`
	FilterType             *string  `json:"filterType"`
	SearchInIKN            bool     `json:"ikNdeAra"`
	SearchInTitle          bool     `json:"ihaleAdindaAra"`
	SearchInAnnouncement   bool     `json:"ihaleIlanindaAra"`
	SearchInTechSpec       bool     `json:"teknikSartnamedeAra"`
	SearchInAdminSpec      bool     `json:"idariSartnamedeAra"`
	SearchInSimilarWork    bool     `json:"benzerIsMaddesindeAra"`
	SearchInLocation       bool     `json:"isinYapilacagiYerMaddesindeAra"`
	SearchInNatureQuantity bool     `json:"nitelikTurMiktarMaddesindeAra"`
	SearchInTenderInfo     bool     `json:"ihaleBilgilerindeAra"`
	SearchInContractDraft  bool     `json:"sozlesmeTasarisindaAra"`
	SearchInBidForm        bool     `json:"teklifCetvelindeAra"`
	SearchType             string   `json:"searchType"`
	IKNYear                *int     `json:"iknYili"`
	IKNNumber              *int     `json:"iknSayi"`
	TenderDateStart        *string  `json:"ihaleTarihSaatBaslangic"`
	TenderDateEnd          *string  `json:"ihaleTarihSaatBitis"`
	AnnouncementDateStart  *string  `json:"ilanTarihSaatBaslangic"`
	AnnouncementDateEnd    *string  `json:"ilanTarihSaatBitis"`
	LawScopeList           []int    `json:"yasaKapsami4734List"`
	TenderTypeList         []int    `json:"ihaleTuruIdList"`
	TenderMethodList       []int    `json:"ihaleUsulIdList"`
	TenderSubMethodList    []int    `json:"ihaleUsulAltIdList"`
	ProvinceList           []int    `json:"ihaleIlIdList"`
	StatusList             []int    `json:"ihaleDurumIdList"`
	AuthorityList          []int    `json:"idareIdList"`
	AnnouncementTypeList   []int    `json:"ihaleIlanTuruIdList"`
	ProposalTypeList       []int    `json:"teklifTuruIdList"`
	AbnormallyLowList      []int    `json:"asiriDusukTeklifIdList"`
	ExceptionArticleList   []int    `json:"istisnaMaddeIdList"`
	OKASBranchCodeList     []string `json:"okasBransKodList"`
	OKASBranchNameList     []string `json:"okasBransAdiList"`
	TITUBBCodeList         []string `json:"titubbKodList"`
	GMDNCodeList           []string `json:"gmdnKodList"`
	OrderBy                string   `json:"orderBy"`
	SortOrder              string   `json:"siralamaTipi"`
	PaginationSkip         int      `json:"paginationSkip"`
	PaginationTake         int      `json:"paginationTake"`
}

// Tender is one tender search hit.
type Tender struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	IKN               string `json:"ikn"`
	TypeCode          int    `json:"type_code"`
	TypeDescription   string `json:"type_description"`
	Method            string `json:"method"`
	StatusCode        int    `json:"status_code"`
	StatusDescription string `json:"status_description"`
	Authority         string `json:"authority"`
	Province          string `json:"province"`
	TenderDateTime    string `json:"tender_datetime"`
	DocumentCount     int    `json:"document_count"`
	HasAnnouncement   bool   `json:"has_announcement"`
}

// TenderList is a page of tender results.
type TenderList struct {
	Tenders       []Tender `json:"tenders"`
	TotalCount    int      `json:"total_count"`
	ReturnedCount int      `json:"returned_count"`
}

// tenderListResponse is the raw GetListByParameters response.
type tenderListResponse struct {
	List []struct {
		ID                int64  `json:"id"`
		Name              string `json:"ihaleAdi"`
		IKN               string `json:"ikn"`
		TypeCode          int    `json:"ihaleTip"`
		TypeDescription   string `json:"ihaleTipAciklama"`
		Method            string `json:"ihaleUsulAciklama"`
		StatusCode        int    `json:"ihaleDurum"`
		StatusDescription string `json:"ihaleDurumAciklama"`
		Authority         string `json:"idareAdi"`
		Province          string `json:"ihaleIlAdi"`
		TenderDateTime    string `json:"ihaleTarihSaat"`
		DocumentCount     int    `json:"dokumanSayisi"`
		HasAnnouncement   bool   `json:"ilanVarMi"`
	} `json:"list"`
	TotalCount int `json:"totalCount"`
}

// SearchTenders runs one tender search page against the v2 API.
func (c *Client) SearchTenders(ctx context.Context, q TenderQuery) (*TenderList, error) {
	payload := c.buildTenderPayload(q)

	var resp tenderListResponse
	if err := c.postJSON(ctx, c.baseURL+tenderSearchPath, payload, &resp); err != nil {
		return nil, eris.Wrap(err, "ekap: tender search")
	}

	list := &TenderList{
		Tenders:    make([]Tender, 0, len(resp.List)),
		TotalCount: resp.TotalCount,
	}
	for _, t := range resp.List {
		list.Tenders = append(list.Tenders, Tender{
			ID:                t.ID,
			Name:              t.Name,
			IKN:               t.IKN,
			TypeCode:          t.TypeCode,
			TypeDescription:   t.TypeDescription,
			Method:            t.Method,
			StatusCode:        t.StatusCode,
			StatusDescription: t.StatusDescription,
			Authority:         t.Authority,
			Province:          t.Province,
			TenderDateTime:    t.TenderDateTime,
			DocumentCount:     t.DocumentCount,
			HasAnnouncement:   t.HasAnnouncement,
		})
	}
	list.ReturnedCount = len(list.Tenders)
	return list, nil
}

func (c *Client) buildTenderPayload(q TenderQuery) tenderPayload {
	if q.SearchType == "" {
		q.SearchType = SearchTypeAsEntered
	}
	if q.OrderBy == "" {
		q.OrderBy = OrderByTenderDate
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	if q.Take <= 0 {
		q.Take = 10
	}

	provinces := append([]int{}, q.ProvinceIDs...)
	for _, name := range q.ProvinceNames {
		if plate := c.registry.PlateNumber(name); plate > 0 {
			provinces = append(provinces, plate)
		}
	}

	return tenderPayload{
		SearchText:             q.SearchText,
		SearchInIKN:            true,
		SearchInTitle:          true,
		SearchInAnnouncement:   true,
		SearchInTechSpec:       true,
		SearchInAdminSpec:      true,
		SearchInSimilarWork:    true,
		SearchInLocation:       true,
		SearchInNatureQuantity: true,
		SearchInTenderInfo:     true,
		SearchInContractDraft:  true,
		SearchInBidForm:        true,
		SearchType:             q.SearchType,
		IKNYear:                optInt(q.IKNYear),
		IKNNumber:              optInt(q.IKNNumber),
		TenderDateStart:        optDate(q.TenderDateStart),
		TenderDateEnd:          optDate(q.TenderDateEnd),
		AnnouncementDateStart:  optDate(q.AnnouncementDateStart),
		AnnouncementDateEnd:    optDate(q.AnnouncementDateEnd),
		LawScopeList:           []int{},
		TenderTypeList:         orEmpty(q.TenderTypes),
		TenderMethodList:       orEmpty(q.TenderMethods),
		TenderSubMethodList:    []int{},
		ProvinceList:           provinces,
		StatusList:             orEmpty(q.Statuses),
		AuthorityList:          []int{},
		AnnouncementTypeList:   []int{},
		ProposalTypeList:       []int{},
		AbnormallyLowList:      []int{},
		ExceptionArticleList:   []int{},
		OKASBranchCodeList:     orEmptyStr(q.OKASCodes),
		OKASBranchNameList:     []string{},
		TITUBBCodeList:         []string{},
		GMDNCodeList:           []string{},
		OrderBy:                q.OrderBy,
		SortOrder:              q.SortOrder,
		PaginationSkip:         q.Skip,
		PaginationTake:         q.Take,
	}
}

// formatAPIDate converts YYYY-MM-DD into the DD.MM.YYYY form the EKAP
// endpoints expect. Invalid input yields "".
func formatAPIDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ""
	}
	return t.Format("02.01.2006")
}

func optInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func optDate(s string) *string {
	formatted := formatAPIDate(s)
	if formatted == "" {
		return nil
	}
	return &formatted
}

func orEmpty(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func orEmptyStr(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (c *Client) postJSON(ctx context.Context, fullURL string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-version", "v1")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, fullURL string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
