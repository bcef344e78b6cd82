package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Defaults applied when page or limit are absent from the query string.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit well inside a MySQL OFFSET.
	MaxPage = math.MaxInt32 / MaxLimit
)

// ErrBadPage is returned for a page or limit that is not a positive
// integer or is past its upper bound.
var ErrBadPage = fmt.Errorf("page must be between 1 and %d and limit between 1 and %d", MaxPage, MaxLimit)

// Page is a validated page request.
type Page struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip.
func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// TotalPages is ceil(total / limit).
func (p Page) TotalPages(total int) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// ParsePage reads raw page and limit values, applying the defaults for
// empty strings.
func ParsePage(rawPage, rawLimit string) (Page, error) {
	page, err := positive(rawPage, DefaultPage, MaxPage)
	if err != nil {
		return Page{}, err
	}
	limit, err := positive(rawLimit, DefaultLimit, MaxLimit)
	if err != nil {
		return Page{}, err
	}
	return Page{Page: page, Limit: limit}, nil
}

func positive(raw string, def, upper int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > upper {
		return 0, ErrBadPage
	}
	return n, nil
}
