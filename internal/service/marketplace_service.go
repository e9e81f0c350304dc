// internal/service/marketplace_service.go
package service

import (
	"context"
	"fmt"

	"farmstand/internal/domain"
	"farmstand/internal/repository"
	"farmstand/internal/util"
	"farmstand/pkg/db"
)

// MarketplaceService defines the interface for the marketplace ledger's
// business logic: the item catalog and the settlement/earnings ledger.
type MarketplaceService interface {
	ListItem(ctx context.Context, seller, name, description, imageURL string, price, quantity int64) (*domain.Item, error)
	GetItem(ctx context.Context, itemID int64) (*domain.Item, error)
	ListItems(ctx context.Context, activeOnly bool) ([]domain.Item, error)
	NextItemID(ctx context.Context) (int64, error)
	BuyItem(ctx context.Context, buyer string, itemID, quantity int64, useNative bool) (*domain.Item, *domain.Entry, error)
	GetSellerEarnings(ctx context.Context, seller string, currency domain.Currency) (int64, error)
	GetCombinedEarnings(ctx context.Context, seller string) (*domain.SellerEarnings, error)
	Withdraw(ctx context.Context, seller string, currency domain.Currency) (int64, error)
	GetLedgerEntries(ctx context.Context, seller string, limit, offset int) ([]domain.Entry, int64, error)
}

// marketplaceService implements the MarketplaceService interface.
type marketplaceService struct {
	dbBeginner   db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor   repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	itemRepo     repository.ItemRepository
	earningsRepo repository.EarningsRepository
	entryRepo    repository.EntryRepository
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
}

// NewMarketplaceService creates a new instance of MarketplaceService.
func NewMarketplaceService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	itemRepo repository.ItemRepository,
	earningsRepo repository.EarningsRepository,
	entryRepo repository.EntryRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) MarketplaceService {
	return &marketplaceService{
		dbBeginner:   dbBeginner,
		dbExecutor:   dbExecutor,
		itemRepo:     itemRepo,
		earningsRepo: earningsRepo,
		entryRepo:    entryRepo,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
	}
}

// ListItem creates a new catalog listing for the seller and returns it with
// its assigned ID. A zero quantity is accepted; such a listing is never
// purchasable but occupies its ID like any other.
func (s *marketplaceService) ListItem(ctx context.Context, seller, name, description, imageURL string, price, quantity int64) (*domain.Item, error) {
	item, err := domain.NewItem(seller, name, description, imageURL, price, quantity)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.CreateItem(ctx, s.dbExecutor, item); err != nil {
		return nil, fmt.Errorf("list item: failed to create item: %w", err)
	}
	return item, nil
}

// GetItem returns the item with the given ID.
func (s *marketplaceService) GetItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	item, err := s.itemRepo.GetItemByID(ctx, s.dbExecutor, itemID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrItemNotFound
		}
		return nil, fmt.Errorf("get item: failed to get item %d: %w", itemID, err)
	}
	return item, nil
}

// ListItems returns the catalog, optionally restricted to active items.
func (s *marketplaceService) ListItems(ctx context.Context, activeOnly bool) ([]domain.Item, error) {
	items, err := s.itemRepo.ListItems(ctx, s.dbExecutor, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// NextItemID returns the ID the next listing will receive.
func (s *marketplaceService) NextItemID(ctx context.Context) (int64, error) {
	next, err := s.itemRepo.NextItemID(ctx, s.dbExecutor)
	if err != nil {
		return 0, fmt.Errorf("next item id: %w", err)
	}
	return next, nil
}

// BuyItem purchases quantity units of an item for the buyer, paying in the
// currency selected by useNative. The stock decrement, the seller's credit
// of quantity*price, and the sale entry are committed atomically; on any
// precondition failure nothing is mutated. The charged amount is the item's
// numeric price regardless of currency choice.
func (s *marketplaceService) BuyItem(ctx context.Context, buyer string, itemID, quantity int64, useNative bool) (*domain.Item, *domain.Entry, error) {
	if buyer == "" {
		return nil, nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("buy item: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("buy item: transaction controller does not implement DBExecutor")
	}

	// The row lock serializes concurrent purchases of the same item: the
	// second buyer observes the first buyer's decrement before its own
	// precondition check.
	item, err := s.itemRepo.GetItemForUpdate(ctx, txExecutor, itemID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, nil, util.ErrItemNotFound
		}
		return nil, nil, fmt.Errorf("buy item: failed to get item %d: %w", itemID, err)
	}

	// Inactive items and insufficient stock collapse into one failure; the
	// caller cannot tell them apart.
	if !item.Purchasable(quantity) {
		return nil, nil, util.ErrItemUnavailable
	}

	item.Quantity -= quantity
	if item.Quantity == 0 {
		// Terminal: there is no restock path, the item never reactivates.
		item.Active = false
	}
	if err := s.itemRepo.UpdateItemStock(ctx, txExecutor, item.ID, item.Quantity, item.Active); err != nil {
		return nil, nil, fmt.Errorf("buy item: failed to update stock for item %d: %w", itemID, err)
	}

	currency := domain.CurrencyForFlag(useNative)
	amount := quantity * item.Price
	if err := s.earningsRepo.AddToBalance(ctx, txExecutor, item.Seller, currency, amount); err != nil {
		return nil, nil, fmt.Errorf("buy item: failed to credit seller %s: %w", item.Seller, err)
	}

	entry := domain.NewSaleEntry(item.ID, item.Seller, buyer, currency, quantity, amount)
	if err := s.entryRepo.CreateEntry(ctx, txExecutor, entry); err != nil {
		return nil, nil, fmt.Errorf("buy item: failed to create sale entry: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("buy item: failed to commit transaction: %w", err)
	}

	return item, entry, nil
}

// GetSellerEarnings returns the seller's balance in one currency, zero if
// the seller was never credited in it.
func (s *marketplaceService) GetSellerEarnings(ctx context.Context, seller string, currency domain.Currency) (int64, error) {
	if !currency.Valid() {
		return 0, util.ErrInvalidInput
	}
	balance, err := s.earningsRepo.GetBalance(ctx, s.dbExecutor, seller, currency)
	if err != nil {
		return 0, fmt.Errorf("get seller earnings: %w", err)
	}
	return balance, nil
}

// GetCombinedEarnings returns both of the seller's balances in one call.
func (s *marketplaceService) GetCombinedEarnings(ctx context.Context, seller string) (*domain.SellerEarnings, error) {
	native, err := s.earningsRepo.GetBalance(ctx, s.dbExecutor, seller, domain.CurrencyNative)
	if err != nil {
		return nil, fmt.Errorf("get combined earnings: failed to get native balance: %w", err)
	}
	stable, err := s.earningsRepo.GetBalance(ctx, s.dbExecutor, seller, domain.CurrencyStable)
	if err != nil {
		return nil, fmt.Errorf("get combined earnings: failed to get stable balance: %w", err)
	}
	return &domain.SellerEarnings{Native: native, Stable: stable}, nil
}

// Withdraw zeroes the seller's balance in one currency and returns the
// amount that was read, which the caller is responsible for actually
// transferring. The read and the zeroing commit atomically; a credit
// arriving concurrently either lands before the locked read (and is paid
// out) or after the commit (and survives for the next withdrawal).
func (s *marketplaceService) Withdraw(ctx context.Context, seller string, currency domain.Currency) (int64, error) {
	if seller == "" || !currency.Valid() {
		return 0, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return 0, fmt.Errorf("withdraw: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return 0, fmt.Errorf("withdraw: transaction controller does not implement DBExecutor")
	}

	balance, err := s.earningsRepo.GetBalanceForUpdate(ctx, txExecutor, seller, currency)
	if err != nil {
		return 0, fmt.Errorf("withdraw: failed to get %s balance for seller %s: %w", currency, seller, err)
	}
	if balance <= 0 {
		return 0, util.ErrNoEarnings
	}

	if err := s.earningsRepo.ZeroBalance(ctx, txExecutor, seller, currency); err != nil {
		return 0, fmt.Errorf("withdraw: failed to zero %s balance for seller %s: %w", currency, seller, err)
	}

	entry := domain.NewWithdrawalEntry(seller, currency, balance)
	if err := s.entryRepo.CreateEntry(ctx, txExecutor, entry); err != nil {
		return 0, fmt.Errorf("withdraw: failed to create withdrawal entry: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return 0, fmt.Errorf("withdraw: failed to commit transaction: %w", err)
	}

	return balance, nil
}

// GetLedgerEntries retrieves a paginated list of a seller's ledger entries.
func (s *marketplaceService) GetLedgerEntries(ctx context.Context, seller string, limit, offset int) ([]domain.Entry, int64, error) {
	entries, totalCount, err := s.entryRepo.GetEntriesBySeller(ctx, s.dbExecutor, seller, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get ledger entries: %w", err)
	}
	return entries, totalCount, nil
}
