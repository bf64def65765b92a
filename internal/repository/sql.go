package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"schuldenfrei/internal/domain"
)

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullDate(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// setBuilder collects "col = $n" pairs for partial updates.
type setBuilder struct {
	sets []string
	args []any
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.sets) == 0
}

// where appends the trailing arguments and returns the placeholder indexes they got.
func (b *setBuilder) where(args ...any) []int {
	idx := make([]int, len(args))
	for i, a := range args {
		b.args = append(b.args, a)
		idx[i] = len(b.args)
	}
	return idx
}
