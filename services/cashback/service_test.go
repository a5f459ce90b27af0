package cashback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cashback-ledger/pkg/config"
	"cashback-ledger/pkg/db/money"
	"cashback-ledger/pkg/db/option"
	"cashback-ledger/pkg/db/pagination"
	"cashback-ledger/pkg/errutil"
	"cashback-ledger/pkg/featureflags"
	"cashback-ledger/pkg/gateway"
	"cashback-ledger/pkg/gen"
	"cashback-ledger/pkg/lock"
	"cashback-ledger/pkg/rediskey"
	"cashback-ledger/pkg/repository"
	"cashback-ledger/pkg/sequence"
	"cashback-ledger/pkg/taskname"
	"cashback-ledger/services/customer"
	ledgertask "cashback-ledger/services/cashback/task"
	"cashback-ledger/services/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fakeGateway struct {
	mu    sync.Mutex
	calls int
	last  gateway.PayoutRequest
	fn    func(call int) (*gateway.PayoutResult, error)
}

func (g *fakeGateway) SendPayout(ctx context.Context, req gateway.PayoutRequest) (*gateway.PayoutResult, error) {
	g.mu.Lock()
	g.calls++
	g.last = req
	call := g.calls
	g.mu.Unlock()

	if g.fn == nil {
		return &gateway.PayoutResult{Reference: "po_" + req.PayoutID, Status: gateway.StatusPaid}, nil
	}
	return g.fn(call)
}

func (g *fakeGateway) lastRequest() gateway.PayoutRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, t *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
	return &asynq.TaskInfo{Type: t.Type(), Payload: t.Payload()}, nil
}

func (f *fakeEnqueuer) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t.Type())
	}
	return out
}

type fixture struct {
	svc      *Service
	db       *gorm.DB
	node     *gen.SnowflakeNode
	locker   *lock.MemoryLocker
	gateway  *fakeGateway
	enqueuer *fakeEnqueuer
}

type fixtureOption func(*config.Config, *ServiceParams)

func withTimeout(d time.Duration) fixtureOption {
	return func(cfg *config.Config, _ *ServiceParams) { cfg.Cashback.OperationTimeout = d }
}

func withFlags(flags featureflags.FeatureFlag) fixtureOption {
	return func(_ *config.Config, p *ServiceParams) { p.Flags = flags }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	models := append([]any{}, customer.Models...)
	models = append(models, Models...)
	db := testutil.NewTestDB(t, models...)

	node, err := gen.NewNode(1)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Cashback.OperationTimeout = 5 * time.Second
	cfg.Payout.Currency = "USD"
	cfg.Payout.Retry.MaxAttempts = 3
	cfg.Payout.Retry.InitialDelay = time.Millisecond
	cfg.Payout.Retry.Multiplier = 2

	f := &fixture{
		db:       db,
		node:     node,
		locker:   lock.NewMemoryLocker(),
		gateway:  &fakeGateway{},
		enqueuer: &fakeEnqueuer{},
	}

	p := ServiceParams{
		DB:       db,
		Config:   cfg,
		IDs:      node,
		Locker:   f.locker,
		Gateway:  f.gateway,
		Codes:    sequence.New(sequence.Params{}),
		Enqueuer: f.enqueuer,
	}
	for _, opt := range opts {
		opt(cfg, &p)
	}

	f.svc = NewService(p)
	return f
}

func (f *fixture) customer(t *testing.T, name string) snowflake.ID {
	t.Helper()
	c := &customer.Customer{ID: f.node.GenerateID(), Name: name, Email: name + "@example.com"}
	require.NoError(t, f.db.Create(c).Error)
	return c.ID
}

func (f *fixture) seed(t *testing.T, id snowflake.ID, amount string) {
	t.Helper()
	_, err := f.svc.AddBalance(context.Background(), id, dec(amount))
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, id snowflake.ID) decimal.Decimal {
	t.Helper()
	b, err := f.svc.GetBalance(context.Background(), id)
	require.NoError(t, err)
	return b
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cardValue(s string) money.Amount {
	return money.New(dec(s))
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestGetBalanceCreatesZeroBalance(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")

	requireDecimal(t, "0", f.balance(t, id))

	var count int64
	require.NoError(t, f.db.Model(&CashbackBalance{}).Where("customer_id = ?", id).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// a second read reuses the row
	requireDecimal(t, "0", f.balance(t, id))
	require.NoError(t, f.db.Model(&CashbackBalance{}).Where("customer_id = ?", id).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGetBalanceUnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetBalance(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, errutil.StatusNotFound, errutil.StatusOf(err))
}

func TestAddThenDeductRestoresBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.customer(t, "alice")
	f.seed(t, id, "12.5")

	after, err := f.svc.AddBalance(ctx, id, dec("7.25"))
	require.NoError(t, err)
	requireDecimal(t, "19.75", after)

	after, err = f.svc.DeductBalance(ctx, id, dec("7.25"))
	require.NoError(t, err)
	requireDecimal(t, "12.5", after)
}

func TestBalanceArithmeticIsExact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.customer(t, "alice")
	f.seed(t, id, "0.1")

	after, err := f.svc.AddBalance(ctx, id, dec("0.2"))
	require.NoError(t, err)
	require.Equal(t, "0.3", after.String())
	require.Equal(t, "0.3", f.balance(t, id).String())

	after, err = f.svc.DeductBalance(ctx, id, dec("0.2"))
	require.NoError(t, err)
	require.Equal(t, "0.1", after.String())

	_, err = f.svc.DeductBalance(ctx, id, dec("0.1"))
	require.NoError(t, err)
	require.Equal(t, "0", f.balance(t, id).String())

	f.seed(t, id, "123456789012.12345678")
	require.Equal(t, "123456789012.12345678", f.balance(t, id).String())
}

// staleBalances reports no row for the first misses lookups, as if another
// process inserted the balance after this one looked.
type staleBalances struct {
	repository.Repository[CashbackBalance]
	misses *int
}

func (r staleBalances) WithTrx(tx *gorm.DB) repository.Repository[CashbackBalance] {
	return staleBalances{Repository: r.Repository.WithTrx(tx), misses: r.misses}
}

func (r staleBalances) FindOne(ctx context.Context, query *CashbackBalance, opts ...option.QueryOption) (*CashbackBalance, error) {
	if *r.misses > 0 {
		*r.misses--
		return nil, nil
	}
	return r.Repository.FindOne(ctx, query, opts...)
}

func TestGetBalanceRereadsAfterDuplicateCreate(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")
	require.NoError(t, f.db.Create(&CashbackBalance{ID: f.node.GenerateID(), CustomerID: id, Balance: money.New(dec("4"))}).Error)

	misses := 1
	f.svc.balances = staleBalances{Repository: f.svc.balances, misses: &misses}

	requireDecimal(t, "4", f.balance(t, id))
	require.Zero(t, misses)

	var count int64
	require.NoError(t, f.db.Model(&CashbackBalance{}).Where("customer_id = ?", id).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestDeductInsufficientLeavesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.customer(t, "alice")
	f.seed(t, id, "3")

	_, err := f.svc.DeductBalance(ctx, id, dec("3.01"))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Equal(t, errutil.StatusUnprocessableEntity, errutil.StatusOf(err))
	requireDecimal(t, "3", f.balance(t, id))
}

func TestDeductWithoutBalanceRecord(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")

	_, err := f.svc.DeductBalance(context.Background(), id, dec("1"))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	requireDecimal(t, "0", f.balance(t, id))
}

func TestDeductZero(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")
	f.seed(t, id, "4")

	after, err := f.svc.DeductBalance(context.Background(), id, decimal.Zero)
	require.NoError(t, err)
	requireDecimal(t, "4", after)
}

func TestNegativeAmountsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.customer(t, "alice")

	_, err := f.svc.AddBalance(ctx, id, dec("-1"))
	require.ErrorIs(t, err, ErrInvalidAmount)
	require.Equal(t, errutil.StatusBadRequest, errutil.StatusOf(err))

	_, err = f.svc.DeductBalance(ctx, id, dec("-1"))
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecordTransactionCreditsCashback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.customer(t, "alice")

	txn, err := f.svc.RecordTransaction(ctx, id, dec("100"))
	require.NoError(t, err)
	require.NotZero(t, txn.ID)
	require.False(t, txn.Date.IsZero())
	requireDecimal(t, "5", f.balance(t, id))

	_, err = f.svc.RecordTransaction(ctx, id, dec("19.99"))
	require.NoError(t, err)
	requireDecimal(t, "5.9995", f.balance(t, id))

	list, err := f.svc.ListCustomerTransactions(ctx, id, pagination.Pagination{}.Normalize())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, txn.ID, list[0].ID)

	require.Equal(t, []string{taskname.TransactionRecorded, taskname.TransactionRecorded}, f.enqueuer.types())

	ev, err := ledgertask.ParseLedgerEvent(f.enqueuer.tasks[0])
	require.NoError(t, err)
	require.Equal(t, id.String(), ev.CustomerID)
	requireDecimal(t, "5", ev.Credited)
	require.Equal(t, txn.ID.String(), ev.Reference)
}

func TestRecordTransactionRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")

	for _, amount := range []string{"0", "-10"} {
		_, err := f.svc.RecordTransaction(context.Background(), id, dec(amount))
		require.ErrorIs(t, err, ErrInvalidAmount, amount)
	}

	var count int64
	require.NoError(t, f.db.Model(&Transaction{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, f.enqueuer.types())
}

func TestRecordTransactionUnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordTransaction(context.Background(), 12345, dec("10"))
	require.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, f.db.Model(&Transaction{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestTransferMovesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := f.customer(t, "alice")
	to := f.customer(t, "bob")
	f.seed(t, from, "5")

	transfer, err := f.svc.Transfer(ctx, from, to, dec("2"))
	require.NoError(t, err)
	require.Equal(t, from, transfer.FromCustomerID)
	require.Equal(t, to, transfer.ToCustomerID)

	requireDecimal(t, "3", f.balance(t, from))
	requireDecimal(t, "2", f.balance(t, to))

	list, err := f.svc.ListTransfers(ctx, pagination.Pagination{}.Normalize())
	require.NoError(t, err)
	require.Len(t, list, 1)
	requireDecimal(t, "2", list[0].Amount.Decimal)
}

func TestTransferInsufficientChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := f.customer(t, "alice")
	to := f.customer(t, "bob")
	f.seed(t, from, "1")
	f.seed(t, to, "4")

	_, err := f.svc.Transfer(ctx, from, to, dec("1.5"))
	require.ErrorIs(t, err, ErrInsufficientBalance)

	requireDecimal(t, "1", f.balance(t, from))
	requireDecimal(t, "4", f.balance(t, to))

	var count int64
	require.NoError(t, f.db.Model(&CashbackTransfer{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestTransferToSelf(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")
	f.seed(t, id, "5")

	_, err := f.svc.Transfer(context.Background(), id, id, dec("1"))
	require.ErrorIs(t, err, ErrSelfTransfer)
	require.ErrorIs(t, err, ErrInvalidAmount)
	requireDecimal(t, "5", f.balance(t, id))
}

func TestTransferUnknownRecipient(t *testing.T) {
	f := newFixture(t)
	from := f.customer(t, "alice")
	f.seed(t, from, "5")

	_, err := f.svc.Transfer(context.Background(), from, 4242, dec("1"))
	require.ErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), "Recipient customer")
	requireDecimal(t, "5", f.balance(t, from))
}

func TestTransferNonPositive(t *testing.T) {
	f := newFixture(t)
	from := f.customer(t, "alice")
	to := f.customer(t, "bob")

	_, err := f.svc.Transfer(context.Background(), from, to, decimal.Zero)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestProcessPayout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.customer(t, "alice")
	f.seed(t, id, "10")

	payout, err := f.svc.ProcessPayout(ctx, id, dec("5"))
	require.NoError(t, err)
	require.Equal(t, "po_"+payout.ID.String(), payout.GatewayReference)
	require.Equal(t, gateway.StatusPaid, payout.GatewayStatus)
	requireDecimal(t, "5", f.balance(t, id))
	require.Equal(t, 1, f.gateway.Calls())

	req := f.gateway.lastRequest()
	require.Equal(t, "USD", req.Currency)
	requireDecimal(t, "5", req.Amount)

	list, err := f.svc.ListCustomerPayouts(ctx, id, pagination.Pagination{}.Normalize())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, payout.ID, list[0].ID)
}

func TestProcessPayoutInsufficient(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")

	_, err := f.svc.ProcessPayout(context.Background(), id, dec("100"))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Zero(t, f.gateway.Calls())
	requireDecimal(t, "0", f.balance(t, id))
}

func TestProcessPayoutRetriesTransientFailures(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")
	f.seed(t, id, "10")

	f.gateway.fn = func(call int) (*gateway.PayoutResult, error) {
		if call < 3 {
			return nil, gateway.ErrUnavailable
		}
		return &gateway.PayoutResult{Reference: "ref-3", Status: gateway.StatusPaid}, nil
	}

	payout, err := f.svc.ProcessPayout(context.Background(), id, dec("4"))
	require.NoError(t, err)
	require.Equal(t, "ref-3", payout.GatewayReference)
	require.Equal(t, 3, f.gateway.Calls())
	requireDecimal(t, "6", f.balance(t, id))
}

func TestProcessPayoutGatewayFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")
	f.seed(t, id, "10")

	f.gateway.fn = func(int) (*gateway.PayoutResult, error) {
		return nil, gateway.ErrUnavailable
	}

	_, err := f.svc.ProcessPayout(context.Background(), id, dec("4"))
	require.ErrorIs(t, err, ErrGatewayFailure)
	require.ErrorIs(t, err, gateway.ErrUnavailable)
	require.Equal(t, errutil.StatusBadGateway, errutil.StatusOf(err))
	require.Equal(t, 3, f.gateway.Calls())

	requireDecimal(t, "10", f.balance(t, id))
	var count int64
	require.NoError(t, f.db.Model(&Payout{}).Count(&count).Error)
	require.Zero(t, count)
	require.NotContains(t, f.enqueuer.types(), taskname.PayoutProcessed)
}

func TestProcessPayoutPermanentFailureNotRetried(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")
	f.seed(t, id, "10")

	f.gateway.fn = func(int) (*gateway.PayoutResult, error) {
		return nil, gateway.ErrRejected
	}

	_, err := f.svc.ProcessPayout(context.Background(), id, dec("4"))
	require.ErrorIs(t, err, ErrGatewayFailure)
	require.ErrorIs(t, err, gateway.ErrRejected)
	require.Equal(t, 1, f.gateway.Calls())
	requireDecimal(t, "10", f.balance(t, id))
}

func TestProcessPayoutDisabledByFlag(t *testing.T) {
	f := newFixture(t, withFlags(featureflags.Static{featureflags.PayoutsEnabled: false}))
	id := f.customer(t, "alice")
	f.seed(t, id, "10")

	_, err := f.svc.ProcessPayout(context.Background(), id, dec("4"))
	require.ErrorIs(t, err, ErrPayoutsDisabled)
	require.Equal(t, errutil.StatusServiceUnavailable, errutil.StatusOf(err))
	require.Zero(t, f.gateway.Calls())
	requireDecimal(t, "10", f.balance(t, id))
}

func TestRedeemGiftCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.customer(t, "alice")

	_, err := f.svc.IssueGiftCard(ctx, "GIFT456", dec("25"))
	require.NoError(t, err)

	value, err := f.svc.RedeemGiftCard(ctx, "GIFT456", id)
	require.NoError(t, err)
	requireDecimal(t, "25", value)
	requireDecimal(t, "25", f.balance(t, id))

	_, err = f.svc.GetGiftCard(ctx, "GIFT456")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.RedeemGiftCard(ctx, "GIFT456", id)
	require.ErrorIs(t, err, ErrNotFound)
	requireDecimal(t, "25", f.balance(t, id))
}

func TestRedeemGiftCardUnknownCustomerKeepsCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.IssueGiftCard(ctx, "GIFT789", dec("10"))
	require.NoError(t, err)

	_, err = f.svc.RedeemGiftCard(ctx, "GIFT789", 777)
	require.ErrorIs(t, err, ErrNotFound)

	card, err := f.svc.GetGiftCard(ctx, "GIFT789")
	require.NoError(t, err)
	requireDecimal(t, "10", card.Value.Decimal)
}

func TestIssueGiftCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.IssueGiftCard(ctx, "DUP1", dec("5"))
	require.NoError(t, err)

	_, err = f.svc.IssueGiftCard(ctx, "DUP1", dec("5"))
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, errutil.StatusConflict, errutil.StatusOf(err))

	_, err = f.svc.IssueGiftCard(ctx, "ZERO", decimal.Zero)
	require.ErrorIs(t, err, ErrInvalidAmount)

	card, err := f.svc.IssueGiftCard(ctx, "", dec("15"))
	require.NoError(t, err)
	require.Contains(t, card.Code, "GFT-")
}

func TestIssueGiftCardsBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.IssueGiftCards(ctx, []*GiftCard{
		{Code: "B1", Value: cardValue("1")},
		{Code: "B2", Value: cardValue("2")},
	}))

	err := f.svc.IssueGiftCards(ctx, []*GiftCard{
		{Code: "B3", Value: cardValue("3")},
		{Code: "B1", Value: cardValue("1")},
	})
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.GetGiftCard(ctx, "B3")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentDeductsNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	id := f.customer(t, "alice")
	f.seed(t, id, "20")

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, denied int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.DeductBalance(context.Background(), id, dec("1"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrInsufficientBalance):
				denied++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 20, ok)
	require.Equal(t, 30, denied)
	requireDecimal(t, "0", f.balance(t, id))
}

func TestConcurrentOppositeTransfers(t *testing.T) {
	f := newFixture(t)
	a := f.customer(t, "alice")
	b := f.customer(t, "bob")
	f.seed(t, a, "10")
	f.seed(t, b, "10")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Transfer(context.Background(), a, b, dec("1")); err != nil {
				t.Errorf("a->b: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := f.svc.Transfer(context.Background(), b, a, dec("1")); err != nil {
				t.Errorf("b->a: %v", err)
			}
		}()
	}
	wg.Wait()

	requireDecimal(t, "20", f.balance(t, a).Add(f.balance(t, b)))
}

func TestLockWaitTimesOut(t *testing.T) {
	f := newFixture(t, withTimeout(20*time.Millisecond))
	id := f.customer(t, "alice")

	unlock, err := f.locker.Lock(context.Background(), rediskey.BuildCustomerLockKey(id.String()))
	require.NoError(t, err)
	defer unlock()

	_, err = f.svc.AddBalance(context.Background(), id, dec("1"))
	require.ErrorIs(t, err, ErrTimeout)
	require.Equal(t, errutil.StatusTimeout, errutil.StatusOf(err))
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.customer(t, "alice")

	var ids []snowflake.ID
	for i := 0; i < 5; i++ {
		txn, err := f.svc.RecordTransaction(ctx, id, dec("10"))
		require.NoError(t, err)
		ids = append(ids, txn.ID)
	}

	page, err := f.svc.ListTransactions(ctx, pagination.Pagination{Skip: 1, Limit: 2}.Normalize())
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, ids[1], page[0].ID)
	require.Equal(t, ids[2], page[1].ID)

	other, err := f.svc.ListCustomerTransactions(ctx, 31337, pagination.Pagination{}.Normalize())
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestCustomerRegistrationProvisionsBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customers := customer.NewService(customer.ServiceParams{
		DB:          f.db,
		IDs:         f.node,
		Provisioner: f.svc,
	})

	c, err := customers.Create(ctx, customer.CreateRequest{Name: "Carol", Email: "carol@example.com"})
	require.NoError(t, err)

	var b CashbackBalance
	require.NoError(t, f.db.Where("customer_id = ?", c.ID).First(&b).Error)
	require.True(t, b.Balance.IsZero())
	requireDecimal(t, "0", f.balance(t, c.ID))
}
