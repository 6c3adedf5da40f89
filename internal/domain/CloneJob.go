package domain

import "time"

type CloneJobStatus string

const (
	CloneJobRunning CloneJobStatus = "running"
	CloneJobDone    CloneJobStatus = "done"
	CloneJobAborted CloneJobStatus = "aborted"
)

// CloneJob é o registro de auditoria de uma execução de clonagem. O Result
// guarda os identificadores parciais mesmo quando o job aborta.
type CloneJob struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"account_id"`
	SourceCampaignID string          `json:"source_campaign_id"`
	Status           CloneJobStatus  `json:"status"`
	Result           *CreationResult `json:"result,omitempty"`
	ErrorMessage     *string         `json:"error_message,omitempty"`
	RequestedBy      *string         `json:"requested_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
