package ekap

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/rotisserie/eris"
)

// Announcement categories on a direct-procurement detail.
const (
	AnnouncementInitial      = "ilan"
	AnnouncementCorrection   = "duzeltme"
	AnnouncementCancellation = "iptal"
	AnnouncementResult       = "sonuc"
)

// ProcurementAnnouncement is one announcement attached to a direct
// procurement, flattened across the four category lists.
type ProcurementAnnouncement struct {
	Category string `json:"category"`
	Date     string `json:"date"`
	TypeCode int    `json:"type_code"`
	EncID    string `json:"enc_id"`
}

// ProcurementAuthority describes the contracting authority hierarchy.
type ProcurementAuthority struct {
	TopAuthority    string `json:"top_authority,omitempty"`
	ParentAuthority string `json:"parent_authority,omitempty"`
	Name            string `json:"name"`
	Province        string `json:"province,omitempty"`
}

// ProcurementDetail is the full record behind one direct-procurement hit.
type ProcurementDetail struct {
	DTNo             string                    `json:"dt_no"`
	Name             string                    `json:"name"`
	Type             string                    `json:"type"`
	ScopeArticle     string                    `json:"scope_article,omitempty"`
	PartialBids      bool                      `json:"partial_bids"`
	PartCount        int                       `json:"part_count,omitempty"`
	OKASCodes        []string                  `json:"okas_codes,omitempty"`
	AnnouncementForm string                    `json:"announcement_form,omitempty"`
	DateTime         string                    `json:"dt_datetime,omitempty"`
	Status           string                    `json:"status,omitempty"`
	CancelReason     string                    `json:"cancel_reason,omitempty"`
	CancelDate       string                    `json:"cancel_date,omitempty"`
	WillAnnounce     bool                      `json:"will_announce"`
	Electronic       bool                      `json:"is_electronic"`
	HasContractDraft bool                      `json:"has_contract_draft"`
	ExceptionBasis   string                    `json:"exception_basis,omitempty"`
	RegulationBasis  string                    `json:"regulation_basis,omitempty"`
	Authority        ProcurementAuthority      `json:"authority"`
	Announcements    []ProcurementAnnouncement `json:"announcements,omitempty"`
	Contracts        []json.RawMessage         `json:"contracts,omitempty"`
}

// rawAnnouncement is one entry of the per-category announcement lists.
type rawAnnouncement struct {
	Date     string  `json:"IlanTarihi"`
	TypeCode flexInt `json:"IlanTipi"`
	EncID    string  `json:"EncIlanId"`
}

// directDetailResponse is the raw dtDetayGetir response.
type directDetailResponse struct {
	Detail struct {
		Info struct {
			DTNo             string   `json:"Dtn"`
			Name             string   `json:"IsinAdi"`
			Type             string   `json:"Turu"`
			ScopeArticle     string   `json:"YasaKapsamiTeminMaddesi"`
			PartialBids      flexBool `json:"KismiTeklif"`
			PartCount        flexInt  `json:"KisimSayisi"`
			OKASCodes        []string `json:"BransKodList"`
			AnnouncementForm string   `json:"IlaninSekli"`
			DateTime         string   `json:"DtTarihSaati"`
			Status           string   `json:"DtDurumu"`
			CancelReason     string   `json:"IptalNedeni"`
			CancelDate       string   `json:"IptalTarihi"`
			WillAnnounce     flexBool `json:"DogrudanTeminDuyurusuYapilacakMi"`
			Electronic       flexBool `json:"EIhale"`
			HasContractDraft flexBool `json:"DogrudanTeminSozlesmeTasarisiVarMi"`
			ExceptionBasis   string   `json:"IstisnaAliminDayanagi"`
			RegulationBasis  string   `json:"MevzuatDayanagi"`
		} `json:"DogrudanTeminBilgileri"`
		Authority struct {
			TopAuthority    string `json:"EnUstIdare"`
			ParentAuthority string `json:"UstIdare"`
			Name            string `json:"Idare"`
			Province        string `json:"Ili"`
		} `json:"IdareBilgileri"`
		Announcements struct {
			Initial       []rawAnnouncement `json:"DogrudanTeminIlanBilgisiList"`
			Corrections   []rawAnnouncement `json:"DuzeltmeIlanBilgisiList"`
			Cancellations []rawAnnouncement `json:"IptalIlanBilgisiList"`
			Results       []rawAnnouncement `json:"SonucIlanBilgisiList"`
		} `json:"IlanBilgileri"`
		Contracts struct {
			List []json.RawMessage `json:"SozlesmeBilgisiList"`
		} `json:"SozlesmeBilgileri"`
	} `json:"dogrudanTeminDetayResult"`
}

// GetProcurementDetail redeems the opaque tokens returned by
// SearchDirectProcurements (Procurement.DetailToken and AnnouncementToken)
// against the legacy dtDetayGetir endpoint.
func (c *Client) GetProcurementDetail(ctx context.Context, detailToken, authorityToken string) (*ProcurementDetail, error) {
	if detailToken == "" || authorityToken == "" {
		return nil, eris.New("ekap: detail and authority tokens are required")
	}

	params := url.Values{
		"metot":           {"dtDetayGetir"},
		"dogrudanTeminId": {detailToken},
		"idareId":         {authorityToken},
	}

	var resp directDetailResponse
	if err := c.getJSON(ctx, c.legacyURL, params, &resp); err != nil {
		return nil, eris.Wrap(err, "ekap: direct procurement detail")
	}

	info := resp.Detail.Info
	if info.DTNo == "" && info.Name == "" && resp.Detail.Authority.Name == "" {
		return nil, eris.New("ekap: no procurement detail returned")
	}

	detail := &ProcurementDetail{
		DTNo:             info.DTNo,
		Name:             info.Name,
		Type:             info.Type,
		ScopeArticle:     info.ScopeArticle,
		PartialBids:      bool(info.PartialBids),
		PartCount:        int(info.PartCount),
		OKASCodes:        info.OKASCodes,
		AnnouncementForm: info.AnnouncementForm,
		DateTime:         info.DateTime,
		Status:           info.Status,
		CancelReason:     info.CancelReason,
		CancelDate:       info.CancelDate,
		WillAnnounce:     bool(info.WillAnnounce),
		Electronic:       bool(info.Electronic),
		HasContractDraft: bool(info.HasContractDraft),
		ExceptionBasis:   info.ExceptionBasis,
		RegulationBasis:  info.RegulationBasis,
		Authority: ProcurementAuthority{
			TopAuthority:    resp.Detail.Authority.TopAuthority,
			ParentAuthority: resp.Detail.Authority.ParentAuthority,
			Name:            resp.Detail.Authority.Name,
			Province:        resp.Detail.Authority.Province,
		},
		Contracts: resp.Detail.Contracts.List,
	}

	appendAnnouncements(detail, AnnouncementInitial, resp.Detail.Announcements.Initial)
	appendAnnouncements(detail, AnnouncementCorrection, resp.Detail.Announcements.Corrections)
	appendAnnouncements(detail, AnnouncementCancellation, resp.Detail.Announcements.Cancellations)
	appendAnnouncements(detail, AnnouncementResult, resp.Detail.Announcements.Results)

	return detail, nil
}

func appendAnnouncements(detail *ProcurementDetail, category string, items []rawAnnouncement) {
	for _, it := range items {
		detail.Announcements = append(detail.Announcements, ProcurementAnnouncement{
			Category: category,
			Date:     it.Date,
			TypeCode: int(it.TypeCode),
			EncID:    it.EncID,
		})
	}
}
