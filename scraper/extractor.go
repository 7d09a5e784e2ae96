package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"carscout/models"
)

const siteBaseURL = "https://olx.ba"

// notFoundSignatures are the body phrases the site renders instead of a 404
// status when a page or search result genuinely does not exist.
var notFoundSignatures = []string{
	"Oprostite, ne možemo pronaći ovu stranicu",
	"Nema rezultata za traženi pojam",
}

// ContainsNotFound reports whether the page body carries one of the known
// "no such page" signatures. Transport-level success does not rule this out.
func ContainsNotFound(html string) bool {
	for _, sig := range notFoundSignatures {
		if strings.Contains(html, sig) {
			return true
		}
	}
	return false
}

// Page is the parsed form of one rendered discovery page: the stub cards in
// document order plus the next page cursor, empty when the walk is exhausted.
type Page struct {
	Stubs    []models.ListingStub
	NextPage string
}

// ExtractPage parses the stub cards and pagination cursor out of a rendered
// discovery page. A page without cards or without a pagination block is a
// normal end-of-walk condition, not an error; only unparseable HTML fails.
func ExtractPage(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, Transient("", err)
	}

	page := &Page{}
	doc.Find("div[class*='articles'] div[class*='cardd']").Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Find("a").First().Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		id := href[strings.LastIndex(href, "/")+1:]
		if id == "" {
			return
		}
		page.Stubs = append(page.Stubs, models.ListingStub{
			ID:       id,
			URL:      siteBaseURL + href,
			Title:    strings.TrimSpace(card.Find("h1[class*='main-heading']").First().Text()),
			RawPrice: strings.TrimSpace(card.Find("div[class*='price-wrap'] span[class*='smaller']").First().Text()),
		})
	})

	page.NextPage = extractNextPage(doc)
	return page, nil
}

// extractNextPage reads the sibling immediately after the currently-active
// pagination entry. No pagination block and no following sibling both mean
// there is no next page.
func extractNextPage(doc *goquery.Document) string {
	pagination := doc.Find("div.olx-pagination-wrapper").First()
	if pagination.Length() == 0 {
		return ""
	}
	next := pagination.Find("li.active").First().Next()
	return strings.TrimSpace(next.Text())
}
