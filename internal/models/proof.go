package models

// TransactionProof is the database row for a proof-of-payment reference.
type TransactionProof struct {
	ProofID       string `db:"proof_id"`
	TransactionID string `db:"transaction_id"`
	UploadedByID  string `db:"uploaded_by_id"`
	ProofType     string `db:"proof_type"`
	StorageKey    string `db:"storage_key"`
	MimeType      string `db:"mime_type"`
	SizeBytes     int64  `db:"size_bytes"`

	AuditFields
}
