package deposit

// Deposit forfeiture split: of every deducted amount, the platform keeps
// 30% as penalty and 70% is earmarked for the injured party. The
// compensation share is computed from the deducted amount, not from the
// merchant's remaining deposit.
const (
	PenaltyShare      = 0.30
	CompensationShare = 0.70
)

// balanceEpsilon absorbs floating-point drift when deciding whether a
// deposit has been fully consumed.
const balanceEpsilon = 0.01

// ApplicationResult echoes the state written by an application review.
type ApplicationResult struct {
	ApplicationID uint    `json:"application_id"`
	MerchantID    uint    `json:"merchant_id"`
	Status        string  `json:"status"`
	DepositAmount float64 `json:"deposit_amount"`
	DepositStatus string  `json:"deposit_status"`
}

// RefundResult echoes a resolved refund application.
type RefundResult struct {
	ApplicationID   uint    `json:"application_id"`
	MerchantID      uint    `json:"merchant_id"`
	Status          string  `json:"status"`
	RefundAmount    float64 `json:"refund_amount"`
	FeeAmount       float64 `json:"fee_amount"`
	TransactionHash string  `json:"transaction_hash,omitempty"`
}

// ViolationResult describes the outcome of a violation finding.
type ViolationResult struct {
	MerchantID         uint    `json:"merchant_id"`
	DeductedAmount     float64 `json:"deducted_amount"`
	PenaltyAmount      float64 `json:"penalty_amount"`
	CompensationAmount float64 `json:"compensation_amount"`
	RemainingDeposit   float64 `json:"remaining_deposit"`
	DepositStatus      string  `json:"deposit_status"`
}

// CompensationResult describes the outcome of a compensation disbursement.
type CompensationResult struct {
	MerchantID       uint    `json:"merchant_id"`
	CompensatedAmount float64 `json:"compensated_amount"`
	RemainingDeposit float64 `json:"remaining_deposit"`
	DepositStatus    string  `json:"deposit_status"`
	Depleted         bool    `json:"depleted"`
}
