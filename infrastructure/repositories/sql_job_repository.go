package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"racetally/database"
	"racetally/domain/contracts"
	"racetally/domain/jobs"
)

const jobColumns = "id, job_type, status, organiser, event_url, started_by, results_count, error_message, created_at, updated_at, completed_at"

// SqlJobRepository implements contracts.JobRepository using hand-written SQL with read/write separation.
type SqlJobRepository struct {
	*BaseRepository
}

// NewSqlJobRepository creates a new job repository with read/write database separation.
func NewSqlJobRepository(database *database.Database) contracts.JobRepository {
	return &SqlJobRepository{
		BaseRepository: NewBaseRepository(database),
	}
}

// CreateJob creates a new job in the database.
func (r *SqlJobRepository) CreateJob(ctx context.Context, job *jobs.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.WriteDB().ExecContext(ctx, query,
		job.ID,
		string(job.Type),
		string(job.Status),
		job.Organiser,
		job.EventURL,
		job.StartedBy,
		job.ResultsCount,
		job.ErrorMessage,
		job.CreatedAt,
		job.UpdatedAt,
		r.ToNullTime(job.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", job.ID, err)
	}
	return nil
}

// UpdateJob applies a partial update and returns the updated job record.
func (r *SqlJobRepository) UpdateJob(ctx context.Context, jobID string, update contracts.JobUpdate) (*jobs.Job, error) {
	setClauses := []string{"updated_at = ?"}
	args := []any{time.Now()}

	if update.Status != nil {
		setClauses = append(setClauses, "status = ?")
		args = append(args, string(*update.Status))

		if isTerminalStatus(*update.Status) {
			setClauses = append(setClauses, "completed_at = ?")
			args = append(args, time.Now())
		}
	}
	if update.ResultsCount != nil {
		setClauses = append(setClauses, "results_count = ?")
		args = append(args, *update.ResultsCount)
	}
	if update.ErrorMessage != nil {
		setClauses = append(setClauses, "error_message = ?")
		args = append(args, *update.ErrorMessage)
	}

	query := fmt.Sprintf("UPDATE jobs SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	args = append(args, jobID)

	result, err := r.WriteDB().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update job %s: %w", jobID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update job %s: %w", jobID, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("update job %s: %w", jobID, contracts.ErrJobNotFound)
	}

	return r.GetJob(ctx, jobID)
}

// GetJob retrieves a job by id.
func (r *SqlJobRepository) GetJob(ctx context.Context, jobID string) (*jobs.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE id = ?"

	row := r.ReadDB().QueryRowContext(ctx, query, jobID)
	job, err := r.scanJob(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get job %s: %w", jobID, contracts.ErrJobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return job, nil
}

// ListJobs retrieves all jobs, newest first.
func (r *SqlJobRepository) ListJobs(ctx context.Context) ([]*jobs.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs ORDER BY created_at DESC"
	return r.queryJobs(ctx, query)
}

// ListJobsByStatus retrieves all jobs with the given status, newest first.
func (r *SqlJobRepository) ListJobsByStatus(ctx context.Context, status jobs.JobStatus) ([]*jobs.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE status = ? ORDER BY created_at DESC"
	return r.queryJobs(ctx, query, string(status))
}

// ListActiveJobs retrieves all active (pending/running) jobs.
func (r *SqlJobRepository) ListActiveJobs(ctx context.Context) ([]*jobs.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE status IN (?, ?) ORDER BY created_at DESC"
	return r.queryJobs(ctx, query, string(jobs.JobStatusPending), string(jobs.JobStatusRunning))
}

// DeleteOldJobs removes finished jobs older than the cutoff.
func (r *SqlJobRepository) DeleteOldJobs(ctx context.Context, olderThan time.Time) error {
	query := `
		DELETE FROM jobs
		WHERE created_at < ? AND status IN (?, ?, ?)
	`

	_, err := r.WriteDB().ExecContext(ctx, query,
		olderThan,
		string(jobs.JobStatusCompleted),
		string(jobs.JobStatusFailed),
		string(jobs.JobStatusCancelled),
	)
	if err != nil {
		return fmt.Errorf("delete old jobs: %w", err)
	}
	return nil
}

// queryJobs runs a multi-row job query and scans the results.
func (r *SqlJobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]*jobs.Job, error) {
	rows, err := r.ReadDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var result []*jobs.Job
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return result, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanJob maps one jobs row onto the domain type.
func (r *SqlJobRepository) scanJob(row rowScanner) (*jobs.Job, error) {
	var (
		job         jobs.Job
		jobType     string
		status      string
		completedAt sql.NullTime
	)

	err := row.Scan(
		&job.ID,
		&jobType,
		&status,
		&job.Organiser,
		&job.EventURL,
		&job.StartedBy,
		&job.ResultsCount,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Type = jobs.JobType(jobType)
	job.Status, err = parseJobStatus(job.ID, status)
	if err != nil {
		return nil, err
	}
	job.CompletedAt = r.FromNullTime(completedAt)

	return &job, nil
}

// parseJobStatus validates a stored status value.
func parseJobStatus(jobID, status string) (jobs.JobStatus, error) {
	switch jobs.JobStatus(status) {
	case jobs.JobStatusPending, jobs.JobStatusRunning, jobs.JobStatusCompleted,
		jobs.JobStatusFailed, jobs.JobStatusCancelled:
		return jobs.JobStatus(status), nil
	default:
		return "", ErrUnknownJobStatus{JobID: jobID, Status: status}
	}
}

// isTerminalStatus reports whether a status ends the job lifecycle.
func isTerminalStatus(status jobs.JobStatus) bool {
	return status == jobs.JobStatusCompleted ||
		status == jobs.JobStatusFailed ||
		status == jobs.JobStatusCancelled
}
