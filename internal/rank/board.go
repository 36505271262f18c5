package rank

import (
	"sort"

	"github.com/hashicorp/go-memdb"

	"github.com/gridops/gridassess/internal/assess"
	"github.com/gridops/gridassess/internal/store"
)

// Standing is one leader's place on the board, derived from their newest
// assessment.
type Standing struct {
	LeaderID int64   `json:"leader_id"`
	Name     string  `json:"name"`
	Area     string  `json:"area"`
	Date     string  `json:"date"`
	Total    float64 `json:"total_score"`
	Grade    string  `json:"grade"`
	Rank     int     `json:"rank"`
}

const tableStandings = "standings"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableStandings: {
			Name: tableStandings,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "LeaderID"},
				},
			},
		},
	},
}

// Board holds the current standings. Reads run against memdb snapshots, so
// Reload never blocks or tears a concurrent Snapshot.
type Board struct {
	db *memdb.MemDB
}

func NewBoard() (*Board, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}
	return &Board{db: db}, nil
}

// Reload replaces the board content from the latest per-leader assessments.
func (b *Board) Reload(latest []store.LeaderAssessment) error {
	txn := b.db.Txn(true)

	if _, err := txn.DeleteAll(tableStandings, "id"); err != nil {
		txn.Abort()
		return err
	}

	for _, la := range latest {
		total := la.TotalScore
		st := &Standing{
			LeaderID: la.LeaderID,
			Name:     la.Name,
			Area:     la.Area,
			Date:     la.Date,
			Total:    total,
			Grade:    assess.GradeFor(total),
		}
		if err := txn.Insert(tableStandings, st); err != nil {
			txn.Abort()
			return err
		}
	}

	txn.Commit()
	return nil
}

// Snapshot returns the standings ordered by total score, best first, with
// 1-based ranks. Ties keep leader-id order.
func (b *Board) Snapshot() ([]Standing, error) {
	txn := b.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableStandings, "id")
	if err != nil {
		return nil, err
	}

	var out []Standing
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, *obj.(*Standing))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Get returns one leader's standing, rank included.
func (b *Board) Get(leaderID int64) (Standing, bool) {
	snapshot, err := b.Snapshot()
	if err != nil {
		return Standing{}, false
	}
	for _, st := range snapshot {
		if st.LeaderID == leaderID {
			return st, true
		}
	}
	return Standing{}, false
}
