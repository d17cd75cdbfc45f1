package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/mulearn-geci/community-api/internal/query"
)

// applyFilters translates query options into WHERE clauses. searchFields
// lists the columns (or SQL expressions, for array columns) the free-text
// search covers for the entity; dateColumn is the column the dateFrom/dateTo
// range applies to.
func applyFilters(db *gorm.DB, opts query.Options, searchFields []string, dateColumn string) *gorm.DB {
	if opts.Status != "" {
		db = db.Where("status = ?", opts.Status)
	}
	if opts.Category != "" {
		db = db.Where("category = ?", opts.Category)
	}
	if opts.Type != "" {
		db = db.Where("type = ?", opts.Type)
	}
	if opts.Author != "" {
		db = db.Where("author_id = ?", opts.Author)
	}
	if opts.Priority != "" {
		db = db.Where("priority = ?", opts.Priority)
	}
	if opts.Featured != nil {
		db = db.Where("featured = ?", *opts.Featured)
	}
	if opts.Search != "" && len(searchFields) > 0 {
		clauses := make([]string, len(searchFields))
		args := make([]interface{}, len(searchFields))
		for i, field := range searchFields {
			clauses[i] = field + " ILIKE ?"
			args[i] = "%" + opts.Search + "%"
		}
		db = db.Where(strings.Join(clauses, " OR "), args...)
	}
	if dateColumn != "" {
		if opts.DateFrom != nil {
			db = db.Where(dateColumn+" >= ?", *opts.DateFrom)
		}
		if opts.DateTo != nil {
			db = db.Where(dateColumn+" <= ?", *opts.DateTo)
		}
	}
	return db
}

// paginate applies offset/limit for the requested page
func paginate(db *gorm.DB, opts query.Options) *gorm.DB {
	return db.Offset(opts.Offset()).Limit(opts.Limit)
}
