package google

import (
	"fmt"
	"strconv"
)

// tableFromValues turns a Sheets values matrix into a header and string
// rows. Leading blank rows are skipped; trailing empty cells are already
// trimmed by the API, so rows may be shorter than the header.
func tableFromValues(values [][]interface{}) ([]string, [][]string) {
	start := 0
	for start < len(values) && isBlank(values[start]) {
		start++
	}
	if start == len(values) {
		return nil, nil
	}

	header := cellsToStrings(values[start])
	rows := make([][]string, 0, len(values)-start-1)
	for _, v := range values[start+1:] {
		rows = append(rows, cellsToStrings(v))
	}
	return header, rows
}

func cellsToStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = cellString(c)
	}
	return out
}

func cellString(c interface{}) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func isBlank(row []interface{}) bool {
	for _, c := range row {
		if cellString(c) != "" {
			return false
		}
	}
	return true
}
