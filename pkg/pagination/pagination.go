package pagination

import (
	"math"

	"github.com/gin-gonic/gin"

	"github.com/taxigov/fare-platform/pkg/common"
)

const (
	// DefaultLimit is the default number of items per page
	DefaultLimit = 20
	// MaxLimit is the maximum number of items per page
	MaxLimit = 100
)

// Params represents 1-indexed pagination parameters
type Params struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// ParseParams extracts and validates pagination parameters from the request.
// Out-of-range values are rejected, not clamped.
func ParseParams(c *gin.Context) (Params, error) {
	params := Params{
		Page:  1,
		Limit: DefaultLimit,
	}

	if err := c.ShouldBindQuery(&params); err != nil {
		return params, common.NewValidationError("invalid pagination parameters")
	}
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = DefaultLimit
	}

	if err := params.Validate(); err != nil {
		return params, err
	}

	return params, nil
}

// Validate checks page and limit bounds
func (p Params) Validate() error {
	if p.Page < 1 {
		return common.NewValidationError("page must be 1 or greater")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return common.NewValidationError("limit must be between 1 and 100")
	}
	return nil
}

// Offset converts the 1-indexed page into a row offset
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// BuildMeta creates pagination metadata for responses
func BuildMeta(p Params, total int64) *common.Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}

	return &common.Meta{
		Page:        p.Page,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}
