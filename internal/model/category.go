package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a string does not name a complaint category
var ErrUnknownCategory = errors.New("unknown complaint category")

// Category is a complaint category a department can be responsible for
type Category string

const (
	CategoryKesehatan       Category = "Kesehatan"
	CategoryPendidikan      Category = "Pendidikan"
	CategoryBantuanSosial   Category = "Bantuan Sosial"
	CategoryInfrastruktur   Category = "Infrastruktur"
	CategoryKependudukan    Category = "Kependudukan"
	CategoryKetenagakerjaan Category = "Ketenagakerjaan"
	CategoryLainnya         Category = "Lainnya"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryKesehatan,
	CategoryPendidikan,
	CategoryBantuanSosial,
	CategoryInfrastruktur,
	CategoryKependudukan,
	CategoryKetenagakerjaan,
	CategoryLainnya,
}

// ParseCategory maps a label to its canonical Category, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	label := strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(label, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ParseCategories parses every label, returning the known categories in order
// (duplicates removed) and the labels that could not be parsed.
func ParseCategories(labels []string) (known []Category, unknown []string) {
	seen := make(map[Category]bool, len(labels))
	for _, l := range labels {
		c, err := ParseCategory(l)
		if err != nil {
			unknown = append(unknown, l)
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		known = append(known, c)
	}
	return known, unknown
}
