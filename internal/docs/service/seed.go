package service

import docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"

// seedTitles is the registry content written on first run.
var seedTitles = []string{
	"عروض حماية الوطن",
	"نت وين مكان عروض 4",
	"Max It",
	"خطوط انترنت",
	"حماة الوطن مدفوع ماكس",
	"خطوط الزوار",
	"الانترنت الامن",
	"تواصل",
	"عروض معاك",
	"امل اورنج",
	"طرق الشحن !",
	"رموز اورنج",
	"E-shop",
	"tod + OSN",
	"تقسيط",
	"اكاديمية اورنج + وظيفه",
	"zte 6600",
	"KARTI",
}

// SeedEntries returns the initial registry without links.
func SeedEntries() []docsdomain.DocEntry {
	out := make([]docsdomain.DocEntry, 0, len(seedTitles))
	for _, title := range seedTitles {
		out = append(out, docsdomain.DocEntry{
			ID:    Slugify(title),
			Title: NormalizeWhitespace(title),
			URL:   "",
			Tags:  TitleTags(title),
		})
	}
	return out
}
