// internal/service/marketplace_service_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"farmstand/internal/domain"
	"farmstand/internal/repository"
	"farmstand/internal/util"
	"farmstand/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockItemRepository is a mock implementation of repository.ItemRepository.
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) CreateItem(ctx context.Context, q repository.DBExecutor, item *domain.Item) error {
	args := m.Called(ctx, q, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetItemByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Item, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) GetItemForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Item, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) ListItems(ctx context.Context, q repository.DBExecutor, activeOnly bool) ([]domain.Item, error) {
	args := m.Called(ctx, q, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepository) NextItemID(ctx context.Context, q repository.DBExecutor) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) UpdateItemStock(ctx context.Context, q repository.DBExecutor, id, quantity int64, active bool) error {
	args := m.Called(ctx, q, id, quantity, active)
	return args.Error(0)
}

// MockEarningsRepository is a mock implementation of repository.EarningsRepository.
type MockEarningsRepository struct {
	mock.Mock
}

func (m *MockEarningsRepository) GetBalance(ctx context.Context, q repository.DBExecutor, seller string, currency domain.Currency) (int64, error) {
	args := m.Called(ctx, q, seller, currency)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEarningsRepository) GetBalanceForUpdate(ctx context.Context, q repository.DBExecutor, seller string, currency domain.Currency) (int64, error) {
	args := m.Called(ctx, q, seller, currency)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEarningsRepository) AddToBalance(ctx context.Context, q repository.DBExecutor, seller string, currency domain.Currency, amount int64) error {
	args := m.Called(ctx, q, seller, currency, amount)
	return args.Error(0)
}

func (m *MockEarningsRepository) ZeroBalance(ctx context.Context, q repository.DBExecutor, seller string, currency domain.Currency) error {
	args := m.Called(ctx, q, seller, currency)
	return args.Error(0)
}

// MockEntryRepository is a mock implementation of repository.EntryRepository.
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) CreateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.Entry) error {
	args := m.Called(ctx, q, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) GetEntriesBySeller(ctx context.Context, q repository.DBExecutor, seller string, limit, offset int) ([]domain.Entry, int64, error) {
	args := m.Called(ctx, q, seller, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Entry), args.Get(1).(int64), args.Error(2)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController. It embeds
// MockDBExecutor so it also satisfies repository.DBExecutor, like a real
// *sqlx.Tx does.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Mock.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Mock.Called()
	return args.Error(0)
}

// serviceMocks bundles the mocks behind a service under test.
type serviceMocks struct {
	itemRepo     *MockItemRepository
	earningsRepo *MockEarningsRepository
	entryRepo    *MockEntryRepository
	dbBeginner   *MockDBBeginner
	dbExecutor   *MockDBExecutor
	txController *MockTxController
}

func newServiceWithMocks() (MarketplaceService, *serviceMocks) {
	m := &serviceMocks{
		itemRepo:     new(MockItemRepository),
		earningsRepo: new(MockEarningsRepository),
		entryRepo:    new(MockEntryRepository),
		dbBeginner:   new(MockDBBeginner),
		dbExecutor:   new(MockDBExecutor),
		txController: new(MockTxController),
	}
	svc := NewMarketplaceService(
		m.dbBeginner,
		m.dbExecutor,
		m.itemRepo,
		m.earningsRepo,
		m.entryRepo,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return m.txController, nil
		},
		func(tx db.TxController) error {
			return m.txController.Commit()
		},
		func(tx db.TxController) {
			_ = m.txController.Rollback()
		},
	)
	return svc, m
}

func (m *serviceMocks) assertAll(t *testing.T) {
	mock.AssertExpectationsForObjects(t, m.itemRepo, m.earningsRepo, m.entryRepo, m.dbBeginner, m.dbExecutor, m.txController)
}

func testItem(id, price, quantity int64) *domain.Item {
	return &domain.Item{
		ID:       id,
		Name:     "Oranges",
		Price:    price,
		Quantity: quantity,
		Seller:   "seller-1",
		Active:   true,
	}
}

func TestBuyItem(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulPurchase", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		m.itemRepo.On("GetItemForUpdate", ctx, mock.Anything, int64(1)).Return(testItem(1, 500, 5), nil).Once()
		m.itemRepo.On("UpdateItemStock", ctx, mock.Anything, int64(1), int64(3), true).Return(nil).Once()
		m.earningsRepo.On("AddToBalance", ctx, mock.Anything, "seller-1", domain.CurrencyNative, int64(1000)).Return(nil).Once()
		m.entryRepo.On("CreateEntry", ctx, mock.Anything, mock.AnythingOfType("*domain.Entry")).Return(nil).Once()

		item, entry, err := svc.BuyItem(ctx, "buyer-1", 1, 2, true)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), item.Quantity)
		assert.True(t, item.Active)
		assert.Equal(t, int64(1000), entry.Amount)
		assert.Equal(t, domain.EntryTypeSale, entry.Type)
		assert.Equal(t, domain.CurrencyNative, entry.Currency)

		m.assertAll(t)
	})

	t.Run("SellOutDeactivates", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		m.itemRepo.On("GetItemForUpdate", ctx, mock.Anything, int64(1)).Return(testItem(1, 200, 5), nil).Once()
		m.itemRepo.On("UpdateItemStock", ctx, mock.Anything, int64(1), int64(0), false).Return(nil).Once()
		m.earningsRepo.On("AddToBalance", ctx, mock.Anything, "seller-1", domain.CurrencyNative, int64(1000)).Return(nil).Once()
		m.entryRepo.On("CreateEntry", ctx, mock.Anything, mock.AnythingOfType("*domain.Entry")).Return(nil).Once()

		item, _, err := svc.BuyItem(ctx, "buyer-1", 1, 5, true)

		assert.NoError(t, err)
		assert.False(t, item.Active)

		m.assertAll(t)
	})

	t.Run("StableCurrencySelected", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		m.itemRepo.On("GetItemForUpdate", ctx, mock.Anything, int64(1)).Return(testItem(1, 300, 10), nil).Once()
		m.itemRepo.On("UpdateItemStock", ctx, mock.Anything, int64(1), int64(7), true).Return(nil).Once()
		m.earningsRepo.On("AddToBalance", ctx, mock.Anything, "seller-1", domain.CurrencyStable, int64(900)).Return(nil).Once()
		m.entryRepo.On("CreateEntry", ctx, mock.Anything, mock.AnythingOfType("*domain.Entry")).Return(nil).Once()

		_, entry, err := svc.BuyItem(ctx, "buyer-1", 1, 3, false)

		assert.NoError(t, err)
		assert.Equal(t, domain.CurrencyStable, entry.Currency)

		m.assertAll(t)
	})

	t.Run("ItemNotFound", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		m.txController.On("Rollback").Return(nil).Once()
		m.itemRepo.On("GetItemForUpdate", ctx, mock.Anything, int64(99)).Return(nil, util.ErrNotFound).Once()

		item, entry, err := svc.BuyItem(ctx, "buyer-1", 99, 1, true)

		assert.ErrorIs(t, err, util.ErrItemNotFound)
		assert.Nil(t, item)
		assert.Nil(t, entry)

		// Nothing committed, nothing mutated.
		m.txController.AssertNotCalled(t, "Commit")
		m.itemRepo.AssertNotCalled(t, "UpdateItemStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.earningsRepo.AssertNotCalled(t, "AddToBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		m.assertAll(t)
	})

	t.Run("InactiveItem", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		inactive := testItem(1, 100, 3)
		inactive.Active = false

		m.txController.On("Rollback").Return(nil).Once()
		m.itemRepo.On("GetItemForUpdate", ctx, mock.Anything, int64(1)).Return(inactive, nil).Once()

		_, _, err := svc.BuyItem(ctx, "buyer-1", 1, 1, true)

		assert.ErrorIs(t, err, util.ErrItemUnavailable)
		m.txController.AssertNotCalled(t, "Commit")

		m.assertAll(t)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		m.txController.On("Rollback").Return(nil).Once()
		m.itemRepo.On("GetItemForUpdate", ctx, mock.Anything, int64(1)).Return(testItem(1, 100, 3), nil).Once()

		_, _, err := svc.BuyItem(ctx, "buyer-1", 1, 4, true)

		assert.ErrorIs(t, err, util.ErrItemUnavailable)
		m.itemRepo.AssertNotCalled(t, "UpdateItemStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		m.assertAll(t)
	})

	t.Run("EmptyBuyer", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		_, _, err := svc.BuyItem(ctx, "", 1, 1, true)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		m.dbBeginner.AssertNotCalled(t, "BeginTxx", mock.Anything, mock.Anything)

		m.assertAll(t)
	})

	t.Run("CreditFailureRollsBack", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		m.txController.On("Rollback").Return(nil).Once()
		m.itemRepo.On("GetItemForUpdate", ctx, mock.Anything, int64(1)).Return(testItem(1, 500, 5), nil).Once()
		m.itemRepo.On("UpdateItemStock", ctx, mock.Anything, int64(1), int64(3), true).Return(nil).Once()
		m.earningsRepo.On("AddToBalance", ctx, mock.Anything, "seller-1", domain.CurrencyNative, int64(1000)).
			Return(errors.New("connection reset")).Once()

		_, _, err := svc.BuyItem(ctx, "buyer-1", 1, 2, true)

		assert.Error(t, err)
		m.txController.AssertNotCalled(t, "Commit")

		m.assertAll(t)
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulWithdrawal", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		m.earningsRepo.On("GetBalanceForUpdate", ctx, mock.Anything, "seller-1", domain.CurrencyNative).Return(int64(1000), nil).Once()
		m.earningsRepo.On("ZeroBalance", ctx, mock.Anything, "seller-1", domain.CurrencyNative).Return(nil).Once()
		m.entryRepo.On("CreateEntry", ctx, mock.Anything, mock.AnythingOfType("*domain.Entry")).Return(nil).Once()

		amount, err := svc.Withdraw(ctx, "seller-1", domain.CurrencyNative)

		assert.NoError(t, err)
		assert.Equal(t, int64(1000), amount)

		m.assertAll(t)
	})

	t.Run("NoEarnings", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		m.txController.On("Rollback").Return(nil).Once()
		m.earningsRepo.On("GetBalanceForUpdate", ctx, mock.Anything, "seller-1", domain.CurrencyStable).Return(int64(0), nil).Once()

		amount, err := svc.Withdraw(ctx, "seller-1", domain.CurrencyStable)

		assert.ErrorIs(t, err, util.ErrNoEarnings)
		assert.Equal(t, int64(0), amount)
		m.earningsRepo.AssertNotCalled(t, "ZeroBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.txController.AssertNotCalled(t, "Commit")

		m.assertAll(t)
	})

	t.Run("InvalidCurrency", func(t *testing.T) {
		svc, m := newServiceWithMocks()

		_, err := svc.Withdraw(ctx, "seller-1", domain.Currency("DOGE"))

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		m.dbBeginner.AssertNotCalled(t, "BeginTxx", mock.Anything, mock.Anything)

		m.assertAll(t)
	})
}

func TestGetSellerEarningsDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks()

	m.earningsRepo.On("GetBalance", ctx, mock.Anything, "seller-1", domain.CurrencyNative).Return(int64(0), nil).Once()

	balance, err := svc.GetSellerEarnings(ctx, "seller-1", domain.CurrencyNative)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	m.assertAll(t)
}

func TestListItemValidation(t *testing.T) {
	ctx := context.Background()

	longName := make([]byte, domain.MaxNameLen+1)
	for i := range longName {
		longName[i] = 'a'
	}

	cases := []struct {
		name     string
		seller   string
		itemName string
		price    int64
		quantity int64
	}{
		{"EmptySeller", "", "Apples", 100, 1},
		{"EmptyName", "seller-1", "", 100, 1},
		{"NameTooLong", "seller-1", string(longName), 100, 1},
		{"NegativePrice", "seller-1", "Apples", -1, 1},
		{"NegativeQuantity", "seller-1", "Apples", 100, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newServiceWithMocks()

			item, err := svc.ListItem(ctx, tc.seller, tc.itemName, "desc", "https://example.com/a.jpg", tc.price, tc.quantity)

			assert.ErrorIs(t, err, util.ErrInvalidInput)
			assert.Nil(t, item)
			m.itemRepo.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything, mock.Anything)

			m.assertAll(t)
		})
	}
}
