package domain

// ProofType identifies which lifecycle step a proof image documents.
type ProofType string

const (
	ProofMoneySent         ProofType = "MONEY_SENT"
	ProofMoneyReceived     ProofType = "MONEY_RECEIVED"
	ProofRepaymentSent     ProofType = "REPAYMENT_SENT"
	ProofRepaymentReceived ProofType = "REPAYMENT_RECEIVED"
)

// TransactionProof is an immutable reference to an uploaded proof-of-payment
// artifact. The file bytes themselves live in external storage; we keep the
// reference and metadata. Created once per submission event, never mutated.
type TransactionProof struct {
	ProofID       string    `json:"proofID"` // Primary Key (UUID)
	TransactionID string    `json:"transactionID"`
	UploadedByID  string    `json:"uploadedByID"`
	ProofType     ProofType `json:"proofType"`
	StorageKey    string    `json:"storageKey"`
	MimeType      string    `json:"mimeType"` // jpeg, png or heic
	SizeBytes     int64     `json:"sizeBytes"`
	AuditFields
}
