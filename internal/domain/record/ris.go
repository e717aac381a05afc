package record

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/taxodex/internal/domain"
)

var risYear = regexp.MustCompile(`\d{4}`)

// ParseRIS extracts a literature entry from a RIS export.
// The returned entry has no id; callers allocate one.
func ParseRIS(text string) (LiteratureEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return LiteratureEntry{}, domain.ErrEmptyRIS
	}

	var (
		lit     LiteratureEntry
		authors []string
		found   bool
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 2 {
			continue
		}
		tag := line[:2]
		value := strings.TrimSpace(line[2:])
		value = strings.TrimSpace(strings.TrimPrefix(value, "-"))

		switch tag {
		case "TI", "T1":
			lit.Title = value
		case "AU", "A1":
			if value != "" {
				authors = append(authors, value)
			}
		case "JO", "JF", "T2":
			if lit.Journal == "" {
				lit.Journal = value
			}
		case "PY", "Y1":
			if y := risYear.FindString(value); y != "" {
				lit.Year = y
			}
		case "DO":
			lit.DOI = value
		case "UR":
			lit.URL = value
		case "AB", "N2":
			lit.Abstract = value
		default:
			continue
		}
		found = true
	}
	lit.Authors = strings.Join(authors, "; ")

	if !found {
		return LiteratureEntry{}, domain.ErrNoRISFields
	}
	return lit, nil
}
