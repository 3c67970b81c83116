// Package api holds the typed records of the freestuffbot.xyz API and the
// rules that decode them from the API's JSON.
package api

import (
	"math"
	"time"

	json "github.com/goccy/go-json"
)

// GameID identifies a game on the API.
type GameID = uint64

// GameInfo is one announcement record.
type GameInfo struct {
	Urls Urls
	// Deprecated: use Urls.Default.
	URL string
	// Deprecated: use Urls.Org.
	OrgURL string

	Title string
	// OrgPrice is the price before the discount. Nil when the API has no price info.
	OrgPrice *Price
	// Price is the price with the discount applied.
	Price     *Price
	Thumbnail *Thumbnail

	Kind        ProductKind
	Tags        []string
	Description *string
	// Rating is in 0..5; the range is not checked.
	Rating *float64
	// Notice is a message from the API operators about this record.
	Notice *string
	// Until is the expiry in (fractional) seconds since the epoch.
	Until *float64

	Store Store
	Flags GameFlags
	Type  AnnouncementKind

	// Localized is keyed by locale code. Nil when the API sent none.
	Localized map[string]LocalizedGameInfo
}

// Expiry converts Until into a time.
func (g GameInfo) Expiry() (time.Time, bool) {
	if g.Until == nil {
		return time.Time{}, false
	}
	sec, frac := math.Modf(*g.Until)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(), true
}

// Urls are the links to a game.
type Urls struct {
	// Default is the recommended URL.
	Default string
	// Browser opens in a web browser.
	Browser string
	// Client opens the store's desktop client (steam:// and friends), when there is one.
	Client *string
	// Org is the original store URL.
	Org string
}

// Price holds the two currencies the API quotes. Either may be missing.
type Price struct {
	Euro   *float64 `json:"euro"`
	Dollar *float64 `json:"dollar"`
}

// Thumbnail URLs.
type Thumbnail struct {
	// Org is the original image.
	Org string
	// Blank is proxied and cropped.
	Blank string
	// Full is proxied with all available extra info drawn on.
	Full string
	// Tags is proxied with the game tags above the image.
	Tags string
}

// LocalizedGameInfo is a set of pre-rendered strings for one locale.
type LocalizedGameInfo struct {
	LangName      string
	LangNameEn    string
	LangFlagEmoji string
	Platform      string
	ClaimLong     string
	ClaimShort    string
	Free          string
	Header        string
	Footer        string
	OrgPriceEur   string
	OrgPriceUsd   string
	Until         string
	UntilAlt      string
	Flags         []string
}

var gameInfoRequired = []string{"urls", "url", "org_url", "title", "kind", "tags", "store", "flags", "type"}

type gameInfoWire struct {
	Urls        Urls                         `json:"urls"`
	URL         string                       `json:"url"`
	OrgURL      string                       `json:"org_url"`
	Title       string                       `json:"title"`
	OrgPrice    json.RawMessage              `json:"org_price"`
	Price       json.RawMessage              `json:"price"`
	Thumbnail   json.RawMessage              `json:"thumbnail"`
	Kind        ProductKind                  `json:"kind"`
	Tags        []string                     `json:"tags"`
	Description *string                      `json:"description"`
	Rating      *float64                     `json:"rating"`
	Notice      *string                      `json:"notice"`
	Until       *float64                     `json:"until"`
	Store       Store                        `json:"store"`
	Flags       GameFlags                    `json:"flags"`
	Type        AnnouncementKind             `json:"type"`
	Localized   map[string]LocalizedGameInfo `json:"localized"`
}

func (g *GameInfo) UnmarshalJSON(data []byte) error {
	if err := requireFields("game", data, gameInfoRequired...); err != nil {
		return err
	}
	var w gameInfoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	orgPrice, err := coalesce[Price]("org_price", w.OrgPrice)
	if err != nil {
		return err
	}
	price, err := coalesce[Price]("price", w.Price)
	if err != nil {
		return err
	}
	thumb, err := coalesce[Thumbnail]("thumbnail", w.Thumbnail)
	if err != nil {
		return err
	}
	*g = GameInfo{
		Urls:        w.Urls,
		URL:         w.URL,
		OrgURL:      w.OrgURL,
		Title:       w.Title,
		OrgPrice:    orgPrice,
		Price:       price,
		Thumbnail:   thumb,
		Kind:        w.Kind,
		Tags:        w.Tags,
		Description: w.Description,
		Rating:      w.Rating,
		Notice:      w.Notice,
		Until:       w.Until,
		Store:       w.Store,
		Flags:       w.Flags,
		Type:        w.Type,
		Localized:   w.Localized,
	}
	return nil
}

func (u *Urls) UnmarshalJSON(data []byte) error {
	if err := requireFields("urls", data, "default", "browser", "org"); err != nil {
		return err
	}
	var w struct {
		Default string  `json:"default"`
		Browser string  `json:"browser"`
		Client  *string `json:"client"`
		Org     string  `json:"org"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*u = Urls(w)
	return nil
}

func (t *Thumbnail) UnmarshalJSON(data []byte) error {
	if err := requireFields("thumbnail", data, "org", "blank", "full", "tags"); err != nil {
		return err
	}
	var w struct {
		Org   string `json:"org"`
		Blank string `json:"blank"`
		Full  string `json:"full"`
		Tags  string `json:"tags"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Thumbnail(w)
	return nil
}

var localizedRequired = []string{
	"lang_name", "lang_name_en", "lang_flag_emoji", "platform", "claim_long", "claim_short",
	"free", "header", "footer", "org_price_eur", "org_price_usd", "until", "until_alt", "flags",
}

func (l *LocalizedGameInfo) UnmarshalJSON(data []byte) error {
	if err := requireFields("localized", data, localizedRequired...); err != nil {
		return err
	}
	var w struct {
		LangName      string   `json:"lang_name"`
		LangNameEn    string   `json:"lang_name_en"`
		LangFlagEmoji string   `json:"lang_flag_emoji"`
		Platform      string   `json:"platform"`
		ClaimLong     string   `json:"claim_long"`
		ClaimShort    string   `json:"claim_short"`
		Free          string   `json:"free"`
		Header        string   `json:"header"`
		Footer        string   `json:"footer"`
		OrgPriceEur   string   `json:"org_price_eur"`
		OrgPriceUsd   string   `json:"org_price_usd"`
		Until         string   `json:"until"`
		UntilAlt      string   `json:"until_alt"`
		Flags         []string `json:"flags"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*l = LocalizedGameInfo(w)
	return nil
}
