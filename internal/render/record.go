package render

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/guarzo/freestuff/api"
)

// Record is the flattened view of a game used by every output format.
type Record struct {
	ID          api.GameID `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Store       string     `json:"store" yaml:"store"`
	Kind        string     `json:"kind" yaml:"kind"`
	Type        string     `json:"type" yaml:"type"`
	URL         string     `json:"url" yaml:"url"`
	StoreURL    string     `json:"store_url" yaml:"store_url"`
	PriceEUR    *float64   `json:"price_eur,omitempty" yaml:"price_eur,omitempty"`
	PriceUSD    *float64   `json:"price_usd,omitempty" yaml:"price_usd,omitempty"`
	OrgPriceEUR *float64   `json:"org_price_eur,omitempty" yaml:"org_price_eur,omitempty"`
	OrgPriceUSD *float64   `json:"org_price_usd,omitempty" yaml:"org_price_usd,omitempty"`
	Until       *time.Time `json:"until,omitempty" yaml:"until,omitempty"`
	Rating      *float64   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Tags        []string   `json:"tags" yaml:"tags"`
	Flags       []string   `json:"flags,omitempty" yaml:"flags,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Notice      string     `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// NewRecord flattens g.
func NewRecord(id api.GameID, g api.GameInfo) Record {
	r := Record{
		ID:          id,
		Title:       g.Title,
		Store:       g.Store.String(),
		Kind:        g.Kind.String(),
		Type:        g.Type.String(),
		URL:         g.Urls.Default,
		StoreURL:    g.Urls.Org,
		Rating:      g.Rating,
		Tags:        g.Tags,
		Flags:       g.Flags.Names(),
		Description: PlainText(lo.FromPtr(g.Description)),
		Notice:      lo.FromPtr(g.Notice),
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if g.Price != nil {
		r.PriceEUR, r.PriceUSD = g.Price.Euro, g.Price.Dollar
	}
	if g.OrgPrice != nil {
		r.OrgPriceEUR, r.OrgPriceUSD = g.OrgPrice.Euro, g.OrgPrice.Dollar
	}
	if exp, ok := g.Expiry(); ok {
		r.Until = &exp
	}
	return r
}

// Records flattens a details response and orders it by id.
func Records(games map[string]api.GameInfo) ([]Record, error) {
	records := make([]Record, 0, len(games))
	for key, g := range games {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "game key %q", key)
		}
		records = append(records, NewRecord(id, g))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// PlainText strips markup from a store description and collapses whitespace.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	text := s
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			doc.Find("br, p, li").Each(func(_ int, sel *goquery.Selection) {
				sel.AppendHtml(" ")
			})
			text = doc.Text()
		}
	}
	return strings.Join(strings.Fields(text), " ")
}
