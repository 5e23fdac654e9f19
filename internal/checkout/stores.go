package checkout

import (
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/internal/cart"
	"github.com/joyalure/joyalure-backend/internal/inventory"
	"github.com/joyalure/joyalure-backend/internal/orders"
	"github.com/joyalure/joyalure-backend/internal/vouchers"
)

// NewStores wraps the gorm-backed repositories in tx-bound factories so a
// checkout runs every write on the same transaction.
func NewStores(
	cartRepo *cart.Repository,
	orderRepo *orders.Repository,
	inventoryRepo *inventory.Repository,
	voucherRepo *vouchers.Repository,
) Stores {
	return Stores{
		Cart: func(tx *gorm.DB) cartStore {
			if tx == nil {
				return cartRepo
			}
			return cartRepo.WithTx(tx)
		},
		Orders: func(tx *gorm.DB) orderStore {
			if tx == nil {
				return orderRepo
			}
			return orderRepo.WithTx(tx)
		},
		Inventory: func(tx *gorm.DB) inventoryStore {
			if tx == nil {
				return inventoryRepo
			}
			return inventoryRepo.WithTx(tx)
		},
		Vouchers: func(tx *gorm.DB) voucherStore {
			if tx == nil {
				return voucherRepo
			}
			return voucherRepo.WithTx(tx)
		},
	}
}
