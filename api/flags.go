package api

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	flagTrash      = 0
	flagThirdParty = 1
)

// GameFlags is the bit-packed flag byte of a game. Bits the client doesn't
// interpret are kept as sent.
type GameFlags uint8

func (f GameFlags) bit(n uint) bool {
	return f>>n&1 == 1
}

// Trash reports a low-quality game.
func (f GameFlags) Trash() bool { return f.bit(flagTrash) }

// ThirdParty reports that keys come from a third-party provider.
func (f GameFlags) ThirdParty() bool { return f.bit(flagThirdParty) }

// Raw returns the flag byte as received.
func (f GameFlags) Raw() uint8 { return uint8(f) }

// Names lists the set flags the client knows about.
func (f GameFlags) Names() []string {
	var names []string
	if f.Trash() {
		names = append(names, "trash")
	}
	if f.ThirdParty() {
		names = append(names, "thirdparty")
	}
	return names
}

func (f *GameFlags) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return errors.Wrapf(err, "flags: %s is not a byte", s)
	}
	*f = GameFlags(n)
	return nil
}

func (f GameFlags) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(f), 10)), nil
}
