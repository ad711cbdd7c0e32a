package query

import "github.com/yungbote/recipebook-backend/internal/domain"

// Page is a 1-based page request. Limit <= 0 means "everything".
type Page struct {
	Number int
	Limit  int
}

// NewPage validates an explicit page request.
func NewPage(number, limit int) (Page, error) {
	if number < 1 {
		return Page{}, domain.NewValidationError("", "page", "Page must be greater than or equal to 1", number)
	}
	return Page{Number: number, Limit: limit}, nil
}

// Unlimited reports whether the page asks for every matching record.
func (p Page) Unlimited() bool { return p.Limit <= 0 }

// Window converts the page into skip/limit given the number of matching
// records. With no limit the whole result set is one window regardless of
// the page number.
func (p Page) Window(total int64) (skip, limit int) {
	if total < 0 {
		total = 0
	}
	if p.Limit <= 0 {
		return 0, int(total)
	}
	number := p.Number
	if number < 1 {
		number = 1
	}
	if int64(number-1) > total/int64(p.Limit) {
		return int(total), p.Limit
	}
	offset := int64(number-1) * int64(p.Limit)
	if offset > total {
		offset = total
	}
	return int(offset), p.Limit
}
