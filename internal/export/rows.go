package export

import (
	"github.com/saha-group/leads-cli/internal/geo"
	"github.com/saha-group/leads-cli/internal/model"
)

// SheetHeader is the fixed column order for sheet and file exports.
var SheetHeader = []string{
	"Kategori",
	"Bayi Adı",
	"İl",
	"İlçe",
	"Cep Telefonu",
	"Normal Telefon",
	"E-posta",
}

// EmailFromWebsite is a placeholder column source. The upstream place data
// carries no email addresses, so the cell is always the Missing sentinel.
func EmailFromWebsite(website string) string {
	return Missing
}

// Rows converts leads into sheet rows in SheetHeader order. The category is
// derived once from the search keyword; province and district come from the
// cross-validated address resolution.
func Rows(leads []model.Lead, registry *geo.Registry, categorizer *Categorizer, keyword, locationText string) [][]string {
	category := categorizer.Pick(keyword)

	rows := make([][]string, 0, len(leads))
	for _, lead := range leads {
		prov := registry.Resolve(lead.FormattedAddress, locationText)
		mobile, landline := SplitPhone(lead.Phone, lead.PhoneIntl)

		rows = append(rows, []string{
			category,
			orMissing(lead.Name),
			orMissing(prov.Province),
			orMissing(prov.District),
			mobile,
			landline,
			EmailFromWebsite(lead.Website),
		})
	}
	return rows
}

func orMissing(s string) string {
	if s == "" {
		return Missing
	}
	return s
}
