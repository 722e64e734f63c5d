// Package export renders ticket listings as spreadsheet-friendly CSV.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"event-reservations/internal/model"
)

// utf8BOM makes Excel and friends decode the file as UTF-8, which is
// what keeps Hebrew holder names rendering correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns is the fixed export column order.
var Columns = []string{"name", "email", "phone", "seats", "status", "id", "notes", "reserved_at"}

// WriteCSV writes a BOM-prefixed UTF-8 CSV of the given tickets.
func WriteCSV(w io.Writer, tickets []*model.Ticket) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}

	for _, t := range tickets {
		phone := ""
		if t.HolderPhone != nil {
			phone = *t.HolderPhone
		}
		notes := ""
		if t.Notes != nil {
			notes = *t.Notes
		}
		record := []string{
			sanitize(t.HolderName),
			sanitize(t.HolderEmail),
			sanitize(phone),
			strconv.Itoa(t.Seats),
			string(t.Status),
			strconv.Itoa(t.ID),
			sanitize(notes),
			t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// sanitize strips embedded separators and line breaks from free-text
// cells so rows stay rectangular in tools that split naively.
func sanitize(value string) string {
	replacer := strings.NewReplacer(
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
		"\t", " ",
		",", " ",
	)
	return strings.TrimSpace(replacer.Replace(value))
}
