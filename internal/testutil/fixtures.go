package testutil

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/tidwall/sjson"
)

// GameJSON is a complete game record as the API sends it.
const GameJSON = `{
  "urls": {
    "default": "https://redirect.freestuffbot.xyz/game/1234",
    "browser": "https://store.steampowered.com/app/1234",
    "client": "steam://store/1234",
    "org": "https://store.steampowered.com/app/1234"
  },
  "url": "https://redirect.freestuffbot.xyz/game/1234",
  "org_url": "https://store.steampowered.com/app/1234",
  "title": "Hollow Test",
  "org_price": {"euro": 19.99, "dollar": 24.99},
  "price": {"euro": 0, "dollar": 0},
  "thumbnail": {
    "org": "https://cdn.test.local/org.jpg",
    "blank": "https://cdn.test.local/blank.jpg",
    "full": "https://cdn.test.local/full.jpg",
    "tags": "https://cdn.test.local/tags.jpg"
  },
  "kind": "game",
  "tags": ["indie", "metroidvania"],
  "description": "Explore a ruined kingdom.",
  "rating": 4.6,
  "notice": null,
  "until": 1735689600.5,
  "store": "steam",
  "flags": 0,
  "type": "free",
  "localized": {
    "de-DE": {
      "lang_name": "Deutsch",
      "lang_name_en": "German",
      "lang_flag_emoji": "🇩🇪",
      "platform": "Steam",
      "claim_long": "Jetzt holen",
      "claim_short": "Holen",
      "free": "GRATIS",
      "header": "Kostenloses Spiel!",
      "footer": "via freestuffbot.xyz",
      "org_price_eur": "19,99 €",
      "org_price_usd": "$24.99",
      "until": "bis Mittwoch",
      "until_alt": "bis 01.01.",
      "flags": []
    }
  }
}`

// Game returns GameJSON with the given sjson paths replaced. A nil value
// deletes the path.
func Game(t testing.TB, set map[string]any) []byte {
	t.Helper()
	return Set(t, []byte(GameJSON), set)
}

// Set applies sjson edits to raw. A nil value deletes the path.
func Set(t testing.TB, raw []byte, set map[string]any) []byte {
	t.Helper()
	out := raw
	var err error
	for path, v := range set {
		switch val := v.(type) {
		case nil:
			out, err = sjson.DeleteBytes(out, path)
		case Raw:
			out, err = sjson.SetRawBytes(out, path, []byte(val))
		default:
			out, err = sjson.SetBytes(out, path, val)
		}
		if err != nil {
			t.Fatalf("failed to set %s: %v", path, err)
		}
	}
	return out
}

// Raw is a JSON literal to splice in verbatim, e.g. Raw("null") or Raw("{}").
type Raw string

// Envelope wraps data the way the API does.
func Envelope(t testing.TB, data []byte) []byte {
	t.Helper()
	out, err := sjson.SetRawBytes([]byte(`{"success":true}`), "data", data)
	if err != nil {
		t.Fatalf("failed to build envelope: %v", err)
	}
	return out
}

// Marshal encodes v, failing the test on error.
func Marshal(t testing.TB, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	return b
}

// Details builds a /v1/game/{ids}/info response body from game objects keyed by id.
func Details(t testing.TB, games map[string][]byte) []byte {
	t.Helper()
	data := []byte(`{}`)
	var err error
	for id, g := range games {
		data, err = sjson.SetRawBytes(data, ":"+id, g)
		if err != nil {
			t.Fatalf("failed to add game %s: %v", id, err)
		}
	}
	return Envelope(t, data)
}
