package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

const cloneJobsTable = "clone_jobs"

type CloneJobRepository interface {
	Create(job *domain.CloneJob) error
	UpdateOutcome(job *domain.CloneJob) error
	GetByID(jobID string) (*domain.CloneJob, error)
	ListByAccount(accountID string, limit uint64) ([]*domain.CloneJob, error)
}

type cloneJobRepository struct {
	conn *postgres.Connection
}

func NewCloneJobRepository(conn *postgres.Connection) CloneJobRepository {
	return &cloneJobRepository{
		conn: conn,
	}
}

func (r *cloneJobRepository) Create(job *domain.CloneJob) error {
	insertSQL, args, err := squirrel.
		Insert(cloneJobsTable).
		Columns("id", "account_id", "source_campaign_id", "status", "requested_by", "created_at", "updated_at").
		Values(job.ID, job.AccountID, job.SourceCampaignID, job.Status, job.RequestedBy, job.CreatedAt, job.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(insertSQL, args...)
	return err
}

func (r *cloneJobRepository) UpdateOutcome(job *domain.CloneJob) error {
	var resultJSON interface{}
	if job.Result != nil {
		encoded, err := json.Marshal(job.Result)
		if err != nil {
			return err
		}
		resultJSON = string(encoded)
	}

	updateSQL, args, err := squirrel.
		Update(cloneJobsTable).
		Set("status", job.Status).
		Set("result", resultJSON).
		Set("error_message", job.ErrorMessage).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": job.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(updateSQL, args...)
	return err
}

func (r *cloneJobRepository) GetByID(jobID string) (*domain.CloneJob, error) {
	selectSQL, args, err := squirrel.
		Select("id", "account_id", "source_campaign_id", "status", "result", "error_message", "requested_by", "created_at", "updated_at").
		From(cloneJobsTable).
		Where(squirrel.Eq{"id": jobID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(selectSQL, args...)

	job, err := deserializeCloneJob(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return job, nil
}

func (r *cloneJobRepository) ListByAccount(accountID string, limit uint64) ([]*domain.CloneJob, error) {
	if limit == 0 {
		limit = 50
	}

	selectSQL, args, err := squirrel.
		Select("id", "account_id", "source_campaign_id", "status", "result", "error_message", "requested_by", "created_at", "updated_at").
		From(cloneJobsTable).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at DESC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(selectSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.CloneJob, 0)
	for rows.Next() {
		job, err := deserializeCloneJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func deserializeCloneJob(scan func(dest ...interface{}) error) (*domain.CloneJob, error) {
	job := &domain.CloneJob{}
	var resultJSON sql.NullString
	var errorMessage sql.NullString

	if err := scan(
		&job.ID,
		&job.AccountID,
		&job.SourceCampaignID,
		&job.Status,
		&resultJSON,
		&errorMessage,
		&job.RequestedBy,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if resultJSON.Valid && resultJSON.String != "" {
		result := &domain.CreationResult{}
		if err := json.Unmarshal([]byte(resultJSON.String), result); err != nil {
			return nil, err
		}
		job.Result = result
	}
	if errorMessage.Valid {
		job.ErrorMessage = &errorMessage.String
	}

	return job, nil
}
