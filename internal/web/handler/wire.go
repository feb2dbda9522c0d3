package handler

import (
	"time"

	"github.com/nricciar/em-dns-manager/internal/db/models"
)

// ChangeInfo is the change status element shared by every mutating
// response and by the change status endpoint.
type ChangeInfo struct {
	ID          string `xml:"Id"`
	Status      string `xml:"Status"`
	SubmittedAt string `xml:"SubmittedAt"`
}

const (
	// StatusPending is reported by mutating calls.
	StatusPending = "PENDING"

	// StatusInSync is reported by the change status endpoint. There is no
	// propagation delay here, so a change is in sync as soon as it can be
	// looked up.
	StatusInSync = "INSYNC"
)

// NewChangeInfo shapes a journal entry for the wire.
func NewChangeInfo(change *models.Change, status string) ChangeInfo {
	return ChangeInfo{
		ID:          "/change/" + change.ID,
		Status:      status,
		SubmittedAt: change.SubmittedAt.UTC().Format(time.RFC3339),
	}
}
