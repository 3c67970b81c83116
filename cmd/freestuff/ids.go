package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/guarzo/freestuff/api"
)

// parseIDs accepts ids as separate arguments or joined with commas or "+",
// the way they appear in details URLs. Duplicates are dropped.
func parseIDs(args []string) ([]api.GameID, error) {
	var ids []api.GameID
	for _, arg := range args {
		fields := strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || r == '+' || r == ' '
		})
		for _, f := range fields {
			id, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return nil, errors.Errorf("invalid game id %q", f)
			}
			ids = append(ids, id)
		}
	}
	return lo.Uniq(ids), nil
}
