package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kud0/mindsy/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// Allow drops any bound ordering whose field is not in fields.
// Ordering fields end up in SQL ORDER BY clauses and must be whitelisted.
func (ord *Ordering) Allow(fields ...string) {
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	kept := ord.Orderings[:0]
	for _, o := range ord.Orderings {
		if allowed[o.Field] {
			kept = append(kept, o)
		}
	}
	ord.Orderings = kept
}
