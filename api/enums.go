package api

import (
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// tagSet maps the lowercase wire tags of an enum onto its kinds.
type tagSet[K ~uint8] struct {
	byTag  map[string]K
	byKind map[K]string
}

func newTagSet[K ~uint8](tags map[K]string) tagSet[K] {
	s := tagSet[K]{byTag: make(map[string]K, len(tags)), byKind: tags}
	for k, t := range tags {
		s.byTag[t] = k
	}
	return s
}

func (s tagSet[K]) lookup(tag string) (K, bool) {
	k, ok := s.byTag[tag]
	return k, ok
}

func (s tagSet[K]) tag(k K) string {
	return s.byKind[k]
}

func unmarshalTag(kind string, data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", errors.Wrapf(err, "%s: expected string", kind)
	}
	return s, nil
}

// StoreKind identifies a storefront. StoreOther carries text the client doesn't know.
type StoreKind uint8

const (
	StoreOther StoreKind = iota
	StoreSteam
	StoreEpic
	StoreHumble
	StoreGOG
	StoreOrigin
	StoreUplay
	StoreTwitch
	StoreItch
	StoreDiscord
	StoreApple
	StoreGoogle
	StoreSwitch
	StorePS
	StoreXbox
)

var storeTags = newTagSet(map[StoreKind]string{
	StoreSteam:   "steam",
	StoreEpic:    "epic",
	StoreHumble:  "humble",
	StoreGOG:     "gog",
	StoreOrigin:  "origin",
	StoreUplay:   "uplay",
	StoreTwitch:  "twitch",
	StoreItch:    "itch",
	StoreDiscord: "discord",
	StoreApple:   "apple",
	StoreGoogle:  "google",
	StoreSwitch:  "switch",
	StorePS:      "ps",
	StoreXbox:    "xbox",
})

// Store is the storefront a game is offered on.
type Store struct {
	kind  StoreKind
	other string
}

// ParseStore never fails: unknown identifiers come back as StoreOther with
// the text preserved.
func ParseStore(s string) Store {
	if k, ok := storeTags.lookup(s); ok {
		return Store{kind: k}
	}
	return Store{kind: StoreOther, other: s}
}

// StoreOf returns the known store for k.
func StoreOf(k StoreKind) Store { return Store{kind: k} }

func (s Store) Kind() StoreKind { return s.kind }

// Other returns the raw identifier of a store the client doesn't recognize.
func (s Store) Other() (string, bool) {
	return s.other, s.kind == StoreOther
}

func (s Store) String() string {
	if s.kind == StoreOther {
		return s.other
	}
	return storeTags.tag(s.kind)
}

func (s *Store) UnmarshalJSON(data []byte) error {
	tag, err := unmarshalTag("store", data)
	if err != nil {
		return err
	}
	*s = ParseStore(tag)
	return nil
}

func (s Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// AnnouncementKindTag identifies the kind of a deal announcement.
type AnnouncementKindTag uint8

const (
	AnnouncementUnknown AnnouncementKindTag = iota
	AnnouncementFree
	AnnouncementWeekend
	AnnouncementDiscount
	AnnouncementAd
)

var announcementTags = newTagSet(map[AnnouncementKindTag]string{
	AnnouncementFree:     "free",
	AnnouncementWeekend:  "weekend",
	AnnouncementDiscount: "discount",
	AnnouncementAd:       "ad",
})

// AnnouncementKind is the "type" of a game record: free to keep, free
// weekend, discount or advertisement.
type AnnouncementKind struct {
	kind    AnnouncementKindTag
	unknown string
}

// ParseAnnouncementKind never fails; unknown text is kept as AnnouncementUnknown.
func ParseAnnouncementKind(s string) AnnouncementKind {
	if k, ok := announcementTags.lookup(s); ok {
		return AnnouncementKind{kind: k}
	}
	return AnnouncementKind{kind: AnnouncementUnknown, unknown: s}
}

func AnnouncementOf(k AnnouncementKindTag) AnnouncementKind { return AnnouncementKind{kind: k} }

func (a AnnouncementKind) Kind() AnnouncementKindTag { return a.kind }

func (a AnnouncementKind) Unknown() (string, bool) {
	return a.unknown, a.kind == AnnouncementUnknown
}

func (a AnnouncementKind) String() string {
	if a.kind == AnnouncementUnknown {
		return a.unknown
	}
	return announcementTags.tag(a.kind)
}

func (a *AnnouncementKind) UnmarshalJSON(data []byte) error {
	tag, err := unmarshalTag("type", data)
	if err != nil {
		return err
	}
	*a = ParseAnnouncementKind(tag)
	return nil
}

func (a AnnouncementKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// ProductKindTag identifies what is being given away.
type ProductKindTag uint8

const (
	ProductOther ProductKindTag = iota
	ProductGame
	ProductDLC
	ProductSoftware
	ProductArt
	ProductOST
	ProductBook
)

var productTags = newTagSet(map[ProductKindTag]string{
	ProductGame:     "game",
	ProductDLC:      "dlc",
	ProductSoftware: "software",
	ProductArt:      "art",
	ProductOST:      "ost",
	ProductBook:     "book",
})

type ProductKind struct {
	kind  ProductKindTag
	other string
}

// ParseProductKind never fails; unknown text is kept as ProductOther.
func ParseProductKind(s string) ProductKind {
	if k, ok := productTags.lookup(s); ok {
		return ProductKind{kind: k}
	}
	return ProductKind{kind: ProductOther, other: s}
}

func ProductOf(k ProductKindTag) ProductKind { return ProductKind{kind: k} }

func (p ProductKind) Kind() ProductKindTag { return p.kind }

func (p ProductKind) Other() (string, bool) {
	return p.other, p.kind == ProductOther
}

func (p ProductKind) String() string {
	if p.kind == ProductOther {
		return p.other
	}
	return productTags.tag(p.kind)
}

func (p *ProductKind) UnmarshalJSON(data []byte) error {
	tag, err := unmarshalTag("kind", data)
	if err != nil {
		return err
	}
	*p = ParseProductKind(tag)
	return nil
}

func (p ProductKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
