package ports

import "context"

// WalletUpdate represents a single chips change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort manages the game currency.
type EconomyPort interface {
	// GetBalance retrieves the current chips balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies wallet changes, used to settle a finished game.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
