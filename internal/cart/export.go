package cart

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts txt, text and csv; empty means txt.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func (f Format) Filename() string {
	return "shopping_cart." + string(f)
}

// Write renders lines in format f.
func Write(w io.Writer, f Format, lines []Line) error {
	if f == FormatCSV {
		return WriteCSV(w, lines)
	}
	return WriteText(w, lines)
}

// WriteText renders the human readable list:
//
//	Shopping list:
//	Salt (g) - 15
func WriteText(w io.Writer, lines []Line) error {
	var b strings.Builder
	b.WriteString("Shopping list:\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "%s (%s) - %d\n", line.Name, line.Unit, line.Total)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func WriteCSV(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "measurement_unit", "amount"}); err != nil {
		return err
	}
	for _, line := range lines {
		if err := cw.Write([]string{line.Name, line.Unit, strconv.FormatInt(line.Total, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
