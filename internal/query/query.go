// Package query parses list parameters and turns them into GORM scopes.
package query

import (
	"strconv"
	"strings"

	"wms-backend/internal/apperr"
	"wms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page: Limit <= 0 means no limit.
type Page struct {
	Skip  int
	Limit int
}

type Filter struct {
	Page
	Q      string
	Date   *models.Date
	Expand bool
}

func ParsePage(skip, limit string) (Page, error) {
	p := Page{Limit: DefaultLimit}

	if skip != "" {
		n, err := strconv.Atoi(skip)
		if err != nil {
			return Page{}, apperr.Invalid("skip", "must be an integer")
		}
		if n < 0 {
			return Page{}, apperr.Invalid("skip", "must be greater than or equal to 0")
		}
		p.Skip = n
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return Page{}, apperr.Invalid("limit", "must be an integer")
		}
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}

func ParseDate(field, value string) (*models.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return nil, apperr.Invalid(field, "%v", err)
	}
	return &d, nil
}

// ParseFilter reads skip, limit, q, expand and the optional date parameter
// from the query string.
func ParseFilter(c *fiber.Ctx, dateParam string) (Filter, error) {
	page, err := ParsePage(c.Query("skip"), c.Query("limit"))
	if err != nil {
		return Filter{}, err
	}
	f := Filter{
		Page:   page,
		Q:      strings.TrimSpace(c.Query("q")),
		Expand: c.QueryBool("expand", false),
	}
	if dateParam != "" {
		if f.Date, err = ParseDate(dateParam, c.Query(dateParam)); err != nil {
			return Filter{}, err
		}
	}
	return f, nil
}

func Paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Skip > 0 {
			db = db.Offset(p.Skip)
		}
		if p.Limit > 0 {
			db = db.Limit(p.Limit)
		}
		return db
	}
}

// Search matches q as a case-insensitive substring of any of exprs. An
// empty q matches everything.
func Search(q string, exprs ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q == "" || len(exprs) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"

		conds := make([]string, 0, len(exprs))
		args := make([]interface{}, 0, len(exprs))
		for _, e := range exprs {
			conds = append(conds, "LOWER("+e+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

func OnDate(column string, d *models.Date) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if d == nil {
			return db
		}
		return db.Where(column+" = ?", *d)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
