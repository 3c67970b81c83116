// Package render writes game records as text, JSON, YAML or CSV.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/guarzo/freestuff/api"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists the accepted formats in help order.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCSV}

const maxDescription = 200

// ParseFormat accepts the names in Formats, case-insensitively. "yml" is an alias for yaml.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		return FormatYAML, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown format %q", s)
}

// Write renders games to w in the given format, ordered by id.
func Write(w io.Writer, format Format, games map[string]api.GameInfo) error {
	records, err := Records(games)
	if err != nil {
		return err
	}
	return WriteRecords(w, format, records)
}

// WriteRecords renders already flattened records.
func WriteRecords(w io.Writer, format Format, records []Record) error {
	switch format {
	case FormatText:
		return writeText(w, records)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(records), "encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(enc.Close(), "encode yaml")
	case FormatCSV:
		return writeCSV(w, records)
	}
	return errors.Errorf("unknown format %q", format)
}

// WriteIDs renders a game list.
func WriteIDs(w io.Writer, format Format, ids []api.GameID) error {
	switch format {
	case FormatJSON:
		return errors.Wrap(json.NewEncoder(w).Encode(ids), "encode json")
	case FormatYAML:
		return errors.Wrap(yaml.NewEncoder(w).Encode(ids), "encode yaml")
	case FormatText, FormatCSV:
		for _, id := range ids {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Errorf("unknown format %q", format)
}

var csvHeader = []string{
	"id", "title", "store", "kind", "type", "url", "store_url",
	"price_eur", "price_usd", "org_price_eur", "org_price_usd",
	"until", "rating", "tags", "flags",
}

func writeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatUint(r.ID, 10),
			r.Title,
			r.Store,
			r.Kind,
			r.Type,
			r.URL,
			r.StoreURL,
			formatFloat(r.PriceEUR),
			formatFloat(r.PriceUSD),
			formatFloat(r.OrgPriceEUR),
			formatFloat(r.OrgPriceUSD),
			formatTime(r.Until),
			formatFloat(r.Rating),
			strings.Join(r.Tags, ";"),
			strings.Join(r.Flags, ";"),
		}
		if err := cw.Write(EscapeCSVRow(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeText(w io.Writer, records []Record) error {
	for i, r := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%d  %s  [%s, %s, %s]\n", r.ID, r.Title, r.Store, r.Kind, r.Type)
		if price := formatPrices(r); price != "" {
			fmt.Fprintf(&b, "    %s\n", price)
		}
		if r.Until != nil {
			fmt.Fprintf(&b, "    until %s\n", r.Until.Format(time.RFC1123))
		}
		fmt.Fprintf(&b, "    %s\n", r.URL)
		if len(r.Flags) > 0 {
			fmt.Fprintf(&b, "    flags: %s\n", strings.Join(r.Flags, ", "))
		}
		if r.Description != "" {
			fmt.Fprintf(&b, "    %s\n", truncate(r.Description, maxDescription))
		}
		if r.Notice != "" {
			fmt.Fprintf(&b, "    notice: %s\n", r.Notice)
		}

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func formatPrices(r Record) string {
	now := formatMoney(r.PriceEUR, r.PriceUSD)
	was := formatMoney(r.OrgPriceEUR, r.OrgPriceUSD)
	switch {
	case now != "" && was != "":
		return was + " -> " + now
	case was != "":
		return "was " + was
	}
	return now
}

func formatMoney(eur, usd *float64) string {
	var parts []string
	if eur != nil {
		parts = append(parts, fmt.Sprintf("€%.2f", *eur))
	}
	if usd != nil {
		parts = append(parts, fmt.Sprintf("$%.2f", *usd))
	}
	return strings.Join(parts, " / ")
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
