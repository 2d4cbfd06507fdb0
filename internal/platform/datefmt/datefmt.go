// Package datefmt formats dates for display in Spanish.
package datefmt

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
)

const (
	// ISODate is the storage and wire format of calendar dates.
	ISODate = "2006-01-02"

	longLayout      = "02 de January de 2006"
	generatedLayout = "2 de January de 2006"
	shortLayout     = "02/01/2006"
	fileLayout      = "02-01-2006"
)

// Locale is the language of long dates.
var Locale monday.Locale = monday.LocaleEsES

// Parse accepts "2006-01-02" or an RFC 3339 timestamp.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(ISODate, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Long renders s as "05 de marzo de 2024". Unparseable input is returned as is.
func Long(s string) string {
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return LongTime(t)
}

func LongTime(t time.Time) string {
	return monday.Format(t, longLayout, Locale)
}

// Generated renders t without day padding: "5 de marzo de 2024".
func Generated(t time.Time) string {
	return monday.Format(t, generatedLayout, Locale)
}

// Short renders t as dd/mm/yyyy.
func Short(t time.Time) string {
	return t.Format(shortLayout)
}

// FileDate renders t as dd-mm-yyyy for use in file names.
func FileDate(t time.Time) string {
	return t.Format(fileLayout)
}
