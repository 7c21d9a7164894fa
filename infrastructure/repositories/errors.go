package repositories

import "fmt"

// ErrUnknownJobStatus occurs when a stored status value doesn't map to a known job status
type ErrUnknownJobStatus struct {
	JobID  string
	Status string
}

func (e ErrUnknownJobStatus) Error() string {
	return fmt.Sprintf("job %s has unknown status %q", e.JobID, e.Status)
}
