package catalog

import (
	"slices"
	"strings"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	ItemsPerPage    = 9
	AllCategories   = "all"
	DefaultMinPrice = 20000
	DefaultMaxPrice = 200000
	DefaultSort     = SortPriceAsc

	// pageDelta is how many neighbours of the current page are shown.
	pageDelta = 2
)

type SortBy string

const (
	SortPriceAsc  SortBy = "price-asc"
	SortPriceDesc SortBy = "price-desc"
	SortNameAsc   SortBy = "name-asc"
	SortNameDesc  SortBy = "name-desc"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return true
	}
	return false
}

type Filter struct {
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	SortBy   SortBy
	Page     int
}

func DefaultFilter() Filter {
	return Filter{
		Category: AllCategories,
		MinPrice: decimal.NewFromInt(DefaultMinPrice),
		MaxPrice: decimal.NewFromInt(DefaultMaxPrice),
		SortBy:   DefaultSort,
		Page:     1,
	}
}

type Page struct {
	Products   []domain.Product `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	// Pages lists page numbers to render; 0 stands for an ellipsis.
	Pages      []int    `json:"pages"`
	Categories []string `json:"categories,omitempty"`
}

// Apply runs the storefront's filter, sort and pagination over products.
func Apply(products []domain.Product, f Filter) Page {
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
			continue
		}
		price := p.Price.Decimal()
		if price.LessThan(f.MinPrice) || price.GreaterThan(f.MaxPrice) {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, f.SortBy)

	totalPages := (len(matched) + ItemsPerPage - 1) / ItemsPerPage
	page := max(f.Page, 1)
	if totalPages > 0 {
		page = min(page, totalPages)
	}

	start := min((page-1)*ItemsPerPage, len(matched))
	end := min(start+ItemsPerPage, len(matched))

	return Page{
		Products:   matched[start:end],
		Total:      len(matched),
		Page:       page,
		TotalPages: totalPages,
		Pages:      VisiblePages(page, totalPages),
	}
}

func sortProducts(products []domain.Product, by SortBy) {
	slices.SortStableFunc(products, func(a, b domain.Product) int {
		switch by {
		case SortPriceDesc:
			return b.Price.Decimal().Cmp(a.Price.Decimal())
		case SortNameAsc:
			return strings.Compare(a.Title, b.Title)
		case SortNameDesc:
			return strings.Compare(b.Title, a.Title)
		default:
			return a.Price.Decimal().Cmp(b.Price.Decimal())
		}
	})
}

// VisiblePages returns the first and last page plus a window around the
// current one, with 0 where pages are skipped.
func VisiblePages(current, totalPages int) []int {
	if totalPages <= 1 {
		return []int{1}
	}

	var pages []int
	for i := max(2, current-pageDelta); i <= min(totalPages-1, current+pageDelta); i++ {
		pages = append(pages, i)
	}
	if current-pageDelta > 2 {
		pages = append([]int{0}, pages...)
	}
	if current+pageDelta < totalPages-1 {
		pages = append(pages, 0)
	}

	pages = append([]int{1}, pages...)
	return append(pages, totalPages)
}

// Categories returns the distinct product categories in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
