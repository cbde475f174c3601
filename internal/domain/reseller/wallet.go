package reseller

import (
	"fmt"
	"time"

	"panelsync/internal/shared/biztime"
)

type WalletTransactionStatus string

const (
	WalletTxPending   WalletTransactionStatus = "pending"
	WalletTxCompleted WalletTransactionStatus = "completed"
	WalletTxFailed    WalletTransactionStatus = "failed"
)

// WalletTransaction is one verified gateway payment. The reference is unique,
// which makes crediting idempotent under duplicate webhook delivery.
type WalletTransaction struct {
	id          uint
	reference   string
	resellerID  uint
	amount      int64
	status      WalletTransactionStatus
	createdAt   time.Time
	completedAt *time.Time
}

func NewWalletTransaction(reference string, resellerID uint, amount int64) (*WalletTransaction, error) {
	if reference == "" {
		return nil, fmt.Errorf("transaction reference is required")
	}
	if resellerID == 0 {
		return nil, fmt.Errorf("reseller ID is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &WalletTransaction{
		reference:  reference,
		resellerID: resellerID,
		amount:     amount,
		status:     WalletTxPending,
		createdAt:  biztime.NowUTC(),
	}, nil
}

func ReconstructWalletTransaction(
	id uint,
	reference string,
	resellerID uint,
	amount int64,
	status WalletTransactionStatus,
	createdAt time.Time,
	completedAt *time.Time,
) *WalletTransaction {
	return &WalletTransaction{
		id:          id,
		reference:   reference,
		resellerID:  resellerID,
		amount:      amount,
		status:      status,
		createdAt:   createdAt,
		completedAt: completedAt,
	}
}

func (t *WalletTransaction) ID() uint                        { return t.id }
func (t *WalletTransaction) Reference() string               { return t.reference }
func (t *WalletTransaction) ResellerID() uint                { return t.resellerID }
func (t *WalletTransaction) Amount() int64                   { return t.amount }
func (t *WalletTransaction) Status() WalletTransactionStatus { return t.status }
func (t *WalletTransaction) CreatedAt() time.Time            { return t.createdAt }
func (t *WalletTransaction) CompletedAt() *time.Time         { return t.completedAt }

func (t *WalletTransaction) IsCompleted() bool {
	return t.status == WalletTxCompleted
}

func (t *WalletTransaction) SetID(id uint) {
	t.id = id
}
