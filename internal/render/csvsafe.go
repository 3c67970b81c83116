package render

import "strings"

// EscapeCSVCell protects against CSV formula injection attacks
// by escaping cells that start with dangerous characters.
// Titles like "-50% Bundle" or "@Home" are real and still get the prefix.
func EscapeCSVCell(value string) string {
	if value == "" {
		return value
	}

	switch value[0] {
	case '=', '+', '-', '@', '|', '%', '\t', '\r', '\n':
		return "'" + value
	}

	return value
}

// EscapeCSVRow escapes all cells in a row
func EscapeCSVRow(row []string) []string {
	escaped := make([]string, len(row))
	for i, cell := range row {
		escaped[i] = EscapeCSVCell(strings.TrimRight(cell, "\r\n"))
	}
	return escaped
}
