package letter

import "time"

// Status tracks a document request through the back-office workflow.
type Status string

const (
	StatusPending    Status = "menunggu"
	StatusProcessing Status = "diproses"
	StatusDone       Status = "selesai"
	StatusRejected   Status = "ditolak"
)

// Valid reports whether the status is one of the workflow states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDone, StatusRejected:
		return true
	}
	return false
}

// Kinds of certificate letters the village office issues.
const (
	KindDomisili   = "domisili"
	KindUsaha      = "usaha"
	KindTidakMampu = "tidak-mampu"
	KindPengantar  = "pengantar"
)

// KnownKind reports whether the office issues the given letter kind.
func KnownKind(kind string) bool {
	switch kind {
	case KindDomisili, KindUsaha, KindTidakMampu, KindPengantar:
		return true
	}
	return false
}

// Request is a citizen's application for a certificate letter.
type Request struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Kind      string    `json:"kind" db:"kind"`
	Purpose   string    `json:"purpose" db:"purpose"`
	Status    Status    `json:"status" db:"status"`
	Note      string    `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
