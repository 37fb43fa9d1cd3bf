package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/query"
	"github.com/garnizeh/jobhunt/pkg/models"
)

const jobColumns = `id, title, company_name, location, contract_type, experience_level, sector, description,
	applications_count, applications_raw, published_at, published_raw, work_type, skills_required, salary_range, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(s rowScanner) (*models.Job, error) {
	var (
		j           models.Job
		countInt    sql.NullInt64
		countRaw    sql.NullString
		publishedAt sql.NullString
		publishedRw sql.NullString
		skills      string
		salary      sql.NullString
		active      int
	)
	err := s.Scan(&j.ID, &j.Title, &j.CompanyName, &j.Location, &j.ContractType, &j.ExperienceLevel,
		&j.Sector, &j.Description, &countInt, &countRaw, &publishedAt, &publishedRw, &j.WorkType,
		&skills, &salary, &active)
	if err != nil {
		return nil, err
	}

	switch {
	case countInt.Valid:
		j.ApplicationsCount = models.CountOf(countInt.Int64)
	case countRaw.Valid:
		j.ApplicationsCount = models.CountFromStored(countRaw.String)
	}

	switch {
	case publishedAt.Valid:
		t, err := time.Parse(models.DateTimeLayout, publishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse published_at %q: %w", publishedAt.String, err)
		}
		j.PublishedAt = models.DateOf(t)
	case publishedRw.Valid:
		j.PublishedAt = models.PublishedAt{Raw: publishedRw.String, Source: models.DateRaw}
	}

	if err := json.Unmarshal([]byte(skills), &j.SkillsRequired); err != nil {
		return nil, fmt.Errorf("decode skills_required: %w", err)
	}
	if j.SkillsRequired == nil {
		j.SkillsRequired = []string{}
	}
	if salary.Valid {
		sr := models.SalaryRange(salary.String)
		j.SalaryRange = &sr
	}
	j.IsActive = active != 0

	return &j, nil
}

func (r *SQLiteRepo) FindJob(ctx context.Context, f query.Filter) (*models.Job, error) {
	where, args := f.SQL()
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE `+where+` ORDER BY position LIMIT 1`, args...)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	return j, nil
}

func (r *SQLiteRepo) ListJobs(ctx context.Context, f query.Filter, p query.Page) ([]models.Job, error) {
	if p.Limit <= 0 {
		p.Limit = query.DefaultLimit
	}
	where, args := f.SQL()
	args = append(args, p.Limit, p.Offset)

	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs WHERE `+where+` ORDER BY position LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if len(out) == 0 {
		return nil, apperr.ErrNotFound
	}

	return out, nil
}

func (r *SQLiteRepo) CountJobs(ctx context.Context, f query.Filter) (int64, error) {
	where, args := f.SQL()
	var n int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// ReplaceJobs deletes every job and inserts jobs in one transaction, so
// readers see either the old set or the new one.
func (r *SQLiteRepo) ReplaceJobs(ctx context.Context, jobs []models.Job) (int, error) {
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
			return fmt.Errorf("clear jobs: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO jobs (`+jobColumns+`, position) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i := range jobs {
			args, err := jobArgs(&jobs[i])
			if err != nil {
				return err
			}
			args = append(args, i)
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert job %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("jobs replaced", zap.Int("count", len(jobs)))
	return len(jobs), nil
}

func jobArgs(j *models.Job) ([]any, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}

	var countInt, countRaw any
	if n, ok := j.ApplicationsCount.Int(); ok {
		countInt = n
	} else if s := j.ApplicationsCount.Source; s == models.CountRaw || s == models.CountOverflow {
		countRaw = j.ApplicationsCount.Raw
	}

	var pubAt, pubRaw any
	if j.PublishedAt.Parsed() {
		pubAt = j.PublishedAt.Time.UTC().Format(models.DateTimeLayout)
	} else if j.PublishedAt.Source == models.DateRaw {
		pubRaw = j.PublishedAt.Raw
	}

	skills := j.SkillsRequired
	if skills == nil {
		skills = []string{}
	}
	sb, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}

	var salary any
	if j.SalaryRange != nil {
		salary = string(*j.SalaryRange)
	}

	return []any{
		j.ID, j.Title, j.CompanyName, j.Location, string(j.ContractType), string(j.ExperienceLevel),
		j.Sector, j.Description, countInt, countRaw, pubAt, pubRaw, string(j.WorkType),
		string(sb), salary, boolInt(j.IsActive),
	}, nil
}
