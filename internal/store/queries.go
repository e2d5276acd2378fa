package store

// SQL queries kept in one place for easy review.

const queryInsertJobRun = `
INSERT INTO job_runs (job_name)
VALUES ($1)
RETURNING id::text
`

const queryCompleteJobRun = `
UPDATE job_runs
SET completed_at = now(),
    status = $2,
    error_text = NULLIF($3, ''),
    rows_affected = $4
WHERE id = $1::uuid
`

const queryListJobRuns = `
SELECT id::text, job_name, started_at, completed_at, status,
       COALESCE(error_text, ''), rows_affected
FROM job_runs
WHERE ($1 = '' OR job_name = $1)
ORDER BY started_at DESC
LIMIT $2
`

const queryPruneJobRuns = `
DELETE FROM job_runs
WHERE started_at < $1
`
