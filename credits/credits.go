// Package credits implements the token-credit account protocol.
//
// The balance lives on the tenants row and is only ever changed through
// the conditional update in TryDebit and the unconditional increment in
// Refund. A read-then-write pair would be racy under concurrent requests
// from the same tenant; the single UPDATE with the balance guard in its
// WHERE clause is not.
package credits

import (
	"errors"
	"fmt"

	"autobot/models"

	"github.com/jinzhu/gorm"
)

// ChatCost is the fixed amount debited per inference request.
const ChatCost = 5

// ErrInsufficientCredit is returned when the guarded decrement matches no
// row: the balance is below cost, or the tenant id does not exist. Callers
// that need to distinguish the two must do a secondary lookup.
var ErrInsufficientCredit = errors.New("insufficient credits")

// TryDebit decrements the tenant balance by cost only if the current
// balance covers it, as a single atomic check-and-set. Returns the
// post-debit balance on success.
func TryDebit(db *gorm.DB, tenantID int64, cost int64) (int64, error) {
	if cost < 0 {
		return 0, fmt.Errorf("negative cost %d", cost)
	}

	res := db.Model(&models.Tenant{}).
		Where("id = ? AND credits >= ?", tenantID, cost).
		Update("credits", gorm.Expr("credits - ?", cost))
	if res.Error != nil {
		return 0, fmt.Errorf("debit tenant %d: %w", tenantID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrInsufficientCredit
	}

	return Balance(db, tenantID)
}

// Refund puts cost back on the balance after a failed inference attempt.
// The relay guarantees at most one refund per successful debit.
func Refund(db *gorm.DB, tenantID int64, cost int64) error {
	if cost < 0 {
		return fmt.Errorf("negative cost %d", cost)
	}

	res := db.Model(&models.Tenant{}).
		Where("id = ?", tenantID).
		Update("credits", gorm.Expr("credits + ?", cost))
	if res.Error != nil {
		return fmt.Errorf("refund tenant %d: %w", tenantID, res.Error)
	}
	return nil
}

// Balance reads the committed balance.
func Balance(db *gorm.DB, tenantID int64) (int64, error) {
	var tenant models.Tenant
	if err := db.Select("credits").First(&tenant, tenantID).Error; err != nil {
		return 0, fmt.Errorf("balance tenant %d: %w", tenantID, err)
	}
	return tenant.Credits, nil
}
