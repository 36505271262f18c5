package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gridops/gridassess/internal/assess"
)

type Assessment struct {
	ID         int64         `json:"id"`
	LeaderID   int64         `json:"leader_id"`
	Date       string        `json:"date"`
	Scores     assess.Scores `json:"scores"`
	ImportDate string        `json:"import_date,omitempty"`
	TotalScore float64       `json:"total_score"`
}

// LeaderAssessment is an assessment joined with its leader's identity.
type LeaderAssessment struct {
	Assessment
	Name string `json:"name"`
	Area string `json:"area"`
}

// normalize fills missing dimensions with 0 and recomputes the stored total.
func (a *Assessment) normalize() {
	a.Scores = assess.FillMissing(a.Scores)
	a.TotalScore = assess.Total(a.Scores)
}

func (a *Assessment) execArgs() []interface{} {
	codes := assess.Codes()
	args := make([]interface{}, 0, len(codes)+4)
	args = append(args, a.LeaderID, a.Date)
	for _, code := range codes {
		args = append(args, a.Scores[code])
	}
	args = append(args, a.ImportDate, a.TotalScore)
	return args
}

func insertAssessmentSQL() string {
	codes := assess.Codes()
	columns := "leader_id, date, " + strings.Join(codes, ", ") + ", import_date, total_score"
	placeholders := strings.Repeat("?, ", len(codes)+3) + "?"
	return fmt.Sprintf("INSERT INTO assessments (%s) VALUES (%s)", columns, placeholders)
}

func selectAssessmentColumns(prefix string) string {
	codes := assess.Codes()
	cols := make([]string, 0, len(codes)+5)
	for _, c := range []string{"id", "leader_id", "date"} {
		cols = append(cols, prefix+c)
	}
	for _, code := range codes {
		cols = append(cols, prefix+code)
	}
	cols = append(cols, prefix+"import_date", prefix+"total_score")
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(r rowScanner, extra ...interface{}) (Assessment, error) {
	codes := assess.Codes()

	var a Assessment
	dims := make([]sql.NullFloat64, len(codes))
	var importDate sql.NullString
	var total sql.NullFloat64

	dest := make([]interface{}, 0, len(codes)+5+len(extra))
	dest = append(dest, &a.ID, &a.LeaderID, &a.Date)
	for i := range dims {
		dest = append(dest, &dims[i])
	}
	dest = append(dest, &importDate, &total)
	dest = append(dest, extra...)

	if err := r.Scan(dest...); err != nil {
		return Assessment{}, err
	}

	a.Scores = make(assess.Scores, len(codes))
	for i, code := range codes {
		a.Scores[code] = dims[i].Float64
	}
	a.ImportDate = importDate.String
	if total.Valid {
		a.TotalScore = total.Float64
	} else {
		// Rows written before the total_score migration.
		a.TotalScore = assess.Total(a.Scores)
	}
	return a, nil
}

// InsertAssessment stores a single assessment and returns its id.
func (s *Store) InsertAssessment(a Assessment) (int64, error) {
	a.normalize()
	res, err := s.db.Exec(insertAssessmentSQL(), a.execArgs()...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// BulkInsert stores a batch of assessments in one transaction with a single
// prepared statement. Either all rows land or none do.
func (s *Store) BulkInsert(list []Assessment) error {
	if len(list) == 0 {
		return nil
	}

	panicked := true
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		// Make sure to rollback when panic, Exec error or Commit error
		if panicked || err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Errorw("problem when rolling back a transaction", "error", rbErr)
			}
		}
	}()

	err = func() error {
		stmt, err := tx.Prepare(insertAssessmentSQL())
		if err != nil {
			return err
		}

		for i := range list {
			list[i].normalize()
			if _, err := stmt.Exec(list[i].execArgs()...); err != nil {
				return err
			}
		}

		return stmt.Close()
	}()

	if err == nil {
		err = tx.Commit()
	}

	panicked = false

	return err
}

// AssessmentsByLeader returns a leader's assessments, newest first.
func (s *Store) AssessmentsByLeader(leaderID int64) ([]Assessment, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM assessments WHERE leader_id = ? ORDER BY date DESC",
		selectAssessmentColumns(""),
	)
	rows, err := s.db.Query(query, leaderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// LatestPerLeader returns every leader's newest assessment joined with the
// leader's name and area.
func (s *Store) LatestPerLeader() ([]LeaderAssessment, error) {
	query := fmt.Sprintf(`SELECT %s, g.name, g.area
		FROM assessments a
		JOIN grid_leaders g ON a.leader_id = g.id
		WHERE (a.leader_id, a.date) IN (
			SELECT leader_id, MAX(date) FROM assessments GROUP BY leader_id
		)`, selectAssessmentColumns("a."))
	return s.queryJoined(query)
}

// Joined returns assessments with leader identity attached, newest first.
// leaderID 0 means all leaders.
func (s *Store) Joined(leaderID int64) ([]LeaderAssessment, error) {
	base := fmt.Sprintf(`SELECT %s, g.name, g.area
		FROM assessments a
		LEFT JOIN grid_leaders g ON a.leader_id = g.id`, selectAssessmentColumns("a."))

	if leaderID > 0 {
		return s.queryJoined(base+" WHERE a.leader_id = ? ORDER BY a.date DESC", leaderID)
	}
	return s.queryJoined(base + " ORDER BY a.date DESC")
}

func (s *Store) queryJoined(query string, args ...interface{}) ([]LeaderAssessment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderAssessment
	for rows.Next() {
		var name, area sql.NullString
		a, err := scanAssessment(rows, &name, &area)
		if err != nil {
			return nil, err
		}
		out = append(out, LeaderAssessment{
			Assessment: a,
			Name:       name.String,
			Area:       area.String,
		})
	}
	return out, rows.Err()
}

// UpdateScores replaces the dimension scores of an assessment and recomputes
// its total.
func (s *Store) UpdateScores(id int64, scores assess.Scores) error {
	scores = assess.FillMissing(scores)
	codes := assess.Codes()

	setClauses := make([]string, 0, len(codes)+1)
	args := make([]interface{}, 0, len(codes)+2)
	for _, code := range codes {
		setClauses = append(setClauses, code+" = ?")
		args = append(args, scores[code])
	}
	setClauses = append(setClauses, "total_score = ?")
	args = append(args, assess.Total(scores), id)

	query := fmt.Sprintf("UPDATE assessments SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes assessments imported more than retention days before
// now and reports how many rows went away.
func (s *Store) DeleteExpired(retentionDays int, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -retentionDays).Format(DateLayout)
	res, err := s.db.Exec("DELETE FROM assessments WHERE import_date < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearAll wipes both tables.
func (s *Store) ClearAll() error {
	panicked := true
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if panicked || err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Errorw("problem when rolling back a transaction", "error", rbErr)
			}
		}
	}()

	err = func() error {
		if _, err := tx.Exec("DELETE FROM assessments"); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM grid_leaders")
		return err
	}()

	if err == nil {
		err = tx.Commit()
	}

	panicked = false

	return err
}
