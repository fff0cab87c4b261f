// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lead

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olegiv/mentoreu-go/internal/store"
)

// CSVHeader is the column row of the lead export.
var CSVHeader = []string{"Ad Soyad", "E-posta", "Telefon", "Eğitim Durumu", "Hedef Ülkeler", "Mesaj", "Tarih"}

// ExportFilename returns the download name for an export made at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("mentoreu-basvurular-%s.csv", t.Format("2006-01-02"))
}

// WriteCSV writes leads as UTF-8 CSV with a byte order mark so that
// spreadsheet applications detect the encoding of Turkish characters.
func WriteCSV(w io.Writer, leads []store.Lead, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, l := range leads {
		row := []string{
			l.Name,
			l.Email,
			l.Phone,
			l.EducationStatus,
			strings.Join(l.TargetCountry, ", "),
			l.Message,
			l.CreatedAt.In(loc).Format("02.01.2006 15:04"),
		}
		for i, v := range row {
			row[i] = neutralizeFormula(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// neutralizeFormula stops spreadsheet apps from evaluating visitor input.
func neutralizeFormula(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '@', '\t', '\r':
		return "'" + v
	case '+', '-':
		if !phoneLike(v) {
			return "'" + v
		}
	}
	return v
}

// phoneLike reports whether v only holds characters found in phone numbers.
func phoneLike(v string) bool {
	for _, r := range v {
		if !strings.ContainsRune("+-0123456789 ()", r) {
			return false
		}
	}
	return true
}
