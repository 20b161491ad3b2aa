// internal/models/application.go
package models

import "time"

// ApprovalStatus is derived by comparing the predicted amount with the
// requested amount. The boundary is inclusive: equal means APPROVED.
type ApprovalStatus string

const (
	StatusApproved        ApprovalStatus = "APPROVED"
	StatusPartialApproval ApprovalStatus = "PARTIAL_APPROVAL"
)

// PredictionResult is the bounded numeric outcome for one completed profile.
type PredictionResult struct {
	EligibleAmount  float64        `json:"eligibleAmount"`
	InterestRate    float64        `json:"interestRate"`
	RequestedAmount float64        `json:"requestedAmount"`
	Status          ApprovalStatus `json:"status"`
}

// Application is the finished record handed to the persistence collaborator
// exactly once per prediction.
type Application struct {
	ID        string                 `json:"id"`
	SessionID string                 `json:"sessionId"`
	ProductID string                 `json:"productId"`
	Profile   map[string]interface{} `json:"profile"`
	Result    PredictionResult       `json:"result"`
	CreatedAt time.Time              `json:"createdAt"`
}

// ProductStats aggregates stored applications for the admin surface.
type ProductStats struct {
	ProductID string `json:"productId"`
	Total     int    `json:"total"`
	Approved  int    `json:"approved"`
	Partial   int    `json:"partial"`
}
