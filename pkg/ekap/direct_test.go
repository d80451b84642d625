package ekap

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saha-group/leads-cli/internal/geo"
)

func TestSearchDirectProcurements(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/legacy", r.URL.Path)
		gotQuery = r.URL.Query()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"yeniDogrudanTeminAramaResultList": [
				{
					"E1": "26DT100001",
					"E2": "Zirai İlaç Alımı",
					"E3": "Samsun Belediyesi",
					"E4": "1",
					"E7": "2026-09-15T14:00:00",
					"E8": "2026-09-01",
					"E10": "tok-detail",
					"E11": "tok-ann",
					"E12": 55,
					"E13": 1,
					"E14": false
				},
				{"E1": "26DT100002", "E2": "Hizmet Alımı", "E4": 9}
			]
		}`))
	})

	list, err := client.SearchDirectProcurements(context.Background(), ProcurementQuery{
		SearchText:   "zirai ilaç",
		ProvinceName: "Samsun",
		DateStart:    "2026-09-01",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, list.ReturnedCount)
	assert.Equal(t, 1, list.PageIndex)

	first := list.Procurements[0]
	assert.Equal(t, "26DT100001", first.DTNo)
	assert.Equal(t, "Zirai İlaç Alımı", first.Title)
	assert.Equal(t, 1, first.TypeCode)
	assert.Equal(t, "Mal", first.TypeDescription)
	assert.Equal(t, 55, first.ProvincePlate)
	assert.True(t, first.HasAnnouncement)
	assert.False(t, first.HasDocument)
	assert.Equal(t, "tok-detail", first.DetailToken)

	// Unknown type code maps to the fallback description.
	assert.Equal(t, "Bilinmiyor", list.Procurements[1].TypeDescription)

	assert.Equal(t, "dtAra", gotQuery.Get("metot"))
	assert.Equal(t, "zirai ilaç", gotQuery.Get("arananIfade"))
	assert.Equal(t, "1", gotQuery.Get("dtAciklama"))
	assert.Equal(t, "10", gotQuery.Get("orderBy"))
	assert.Equal(t, "1", gotQuery.Get("pageIndex"))
	assert.Equal(t, "55", gotQuery.Get("ilID"))
	assert.Equal(t, "01.09.2026", gotQuery.Get("dtTarihiBaslangic"))
}

func TestSearchDirectProcurements_DTNoParsed(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"yeniDogrudanTeminAramaResultList": []}`))
	})

	_, err := client.SearchDirectProcurements(context.Background(), ProcurementQuery{
		DTNo: "25dt1493794",
	})

	require.NoError(t, err)
	assert.Equal(t, "25", gotQuery.Get("dtnYil"))
	assert.Equal(t, "1493794", gotQuery.Get("dtnSayi"))
}

func TestSearchDirectProcurements_FourDigitYearTruncated(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"yeniDogrudanTeminAramaResultList": []}`))
	})

	_, err := client.SearchDirectProcurements(context.Background(), ProcurementQuery{
		Year: 2026,
	})

	require.NoError(t, err)
	assert.Equal(t, "26", gotQuery.Get("dtnYil"))
}

func TestSearchDirectProcurements_MalformedDTNo(t *testing.T) {
	client := NewClient(geo.NewRegistry())

	_, err := client.SearchDirectProcurements(context.Background(), ProcurementQuery{
		DTNo: "banana",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed dt no")
}

func TestSearchDirectProcurements_UnknownProvince(t *testing.T) {
	client := NewClient(geo.NewRegistry())

	_, err := client.SearchDirectProcurements(context.Background(), ProcurementQuery{
		ProvinceName: "Atlantis",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown province")
}
