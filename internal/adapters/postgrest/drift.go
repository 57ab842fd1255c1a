package postgrest

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"chileadicto/internal/adapters/observability"
)

// driftAttempts bounds the guard. Each retry removes exactly one column,
// so the budget also caps how many optional columns a deployment may be
// missing before writes start failing loudly.
const driftAttempts = 6

// writeGuarded runs a row write, healing schema drift: when the store
// rejects an unknown column, that column is stripped from every outgoing
// row (bulk writes must stay uniform) and the write is retried. Any
// other failure, or an exhausted budget, propagates unchanged.
func (c *Client) writeGuarded(ctx context.Context, table string, rows []Row, attempt func([]Row) error) error {
	var err error
	for i := 0; i < driftAttempts; i++ {
		err = attempt(rows)
		var uc *UnknownColumnError
		if !errors.As(err, &uc) {
			return err
		}
		if !pruneColumn(rows, uc.Column) {
			// The store blamed a column we never sent; nothing to heal.
			return err
		}
		observability.ObserveDriftPrune(table, uc.Column)
		log.Warn().Str("table", table).Str("column", uc.Column).Msg("schema drift: pruned column and retrying")
	}
	return err
}

func pruneColumn(rows []Row, column string) bool {
	found := false
	for _, r := range rows {
		if _, ok := r[column]; ok {
			delete(r, column)
			found = true
		}
	}
	return found
}
