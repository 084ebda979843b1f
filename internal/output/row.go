package output

import "github.com/cyraxred/neodepends/internal/model"

// partialPositionRow extracts a single line number from a PartialPosition
// for formats (CSV, SQLite) whose dep table has one "row" column regardless
// of whether the resolver anchored it to a bare row or a full position.
func partialPositionRow(p model.PartialPosition) int {
	if p.Kind == model.PartialPositionWhole {
		return p.Whole.Row
	}
	return p.Row
}
