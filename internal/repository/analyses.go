package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

const analysisColumns = `
	id, run_id, user_id, name, timeline, parameters, sleeps, summary,
	min_effectiveness, overall_risk_level, created_at, version
`

type scanner interface {
	Scan(dest ...any) error
}

// scanAnalysis 时间轴、睡眠和汇总都以 JSONB 形式保存
func scanAnalysis(row scanner) (*domain.FatigueAnalysis, error) {
	a := &domain.FatigueAnalysis{}
	var timeline, parameters, sleeps, summary []byte

	dst := []any{
		&a.ID,
		&a.RunID,
		&a.UserID,
		&a.Name,
		&timeline,
		&parameters,
		&sleeps,
		&summary,
		&a.MinEffectiveness,
		&a.OverallRiskLevel,
		&a.CreatedAt,
		&a.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(timeline, &a.Timeline); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sleeps, &a.Sleeps); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(summary, &a.Summary); err != nil {
		return nil, err
	}
	a.Parameters = parameters

	return a, nil
}

func insertAnalysis(ctx context.Context, tx *sql.Tx, a *domain.FatigueAnalysis) error {
	timeline, err := json.Marshal(a.Timeline)
	if err != nil {
		return err
	}
	sleeps, err := json.Marshal(a.Sleeps)
	if err != nil {
		return err
	}
	summary, err := json.Marshal(a.Summary)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO fatigue_analyses (
			run_id, user_id, name, anchor_local_hour, timeline, parameters, sleeps, summary,
			min_effectiveness, overall_risk_level
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`
	args := []any{
		a.RunID,
		a.UserID,
		a.Name,
		a.Timeline.AnchorLocalHour,
		timeline,
		[]byte(a.Parameters),
		sleeps,
		summary,
		a.MinEffectiveness,
		a.OverallRiskLevel,
	}
	return tx.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.Version)
}

// CreateAnalyses 在同一个事务中保存多次分析，任意一个失败则全部回滚
func (r *Repository) CreateAnalyses(analyses ...*domain.FatigueAnalysis) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, a := range analyses {
		if err := insertAnalysis(ctx, tx, a); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAnalysisByID(id int64) (*domain.FatigueAnalysis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT ` + analysisColumns + ` FROM fatigue_analyses WHERE id = $1`

	return scanAnalysis(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetAnalysesByUserID(userID int64) ([]*domain.FatigueAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM fatigue_analyses WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryAnalyses(query, userID)
}

func (r *Repository) GetAllAnalyses() ([]*domain.FatigueAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM fatigue_analyses ORDER BY created_at DESC`
	return r.queryAnalyses(query)
}

func (r *Repository) DeleteAnalysis(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM fatigue_analyses WHERE id = $1
	`
	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) queryAnalyses(query string, args ...any) ([]*domain.FatigueAnalysis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analyses := make([]*domain.FatigueAnalysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return analyses, nil
}
