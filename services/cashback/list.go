package cashback

import (
	"context"

	"cashback-ledger/pkg/db/option"
	"cashback-ledger/pkg/db/pagination"

	"github.com/bwmarrin/snowflake"
)

// Rows are listed in insertion order; snowflake ids grow monotonically.
var insertionOrder = option.WithSortBy(option.QuerySortBy{SortBy: "id", OrderBy: "asc"})

func (s *Service) ListTransactions(ctx context.Context, page pagination.Pagination) ([]*Transaction, error) {
	return s.transactions.Find(ctx, &Transaction{}, insertionOrder, option.ApplyPagination(page))
}

func (s *Service) ListCustomerTransactions(ctx context.Context, customerID snowflake.ID, page pagination.Pagination) ([]*Transaction, error) {
	return s.transactions.Find(ctx, &Transaction{CustomerID: customerID}, insertionOrder, option.ApplyPagination(page))
}

func (s *Service) ListTransfers(ctx context.Context, page pagination.Pagination) ([]*CashbackTransfer, error) {
	return s.transfers.Find(ctx, &CashbackTransfer{}, insertionOrder, option.ApplyPagination(page))
}

func (s *Service) ListPayouts(ctx context.Context, page pagination.Pagination) ([]*Payout, error) {
	return s.payouts.Find(ctx, &Payout{}, insertionOrder, option.ApplyPagination(page))
}

func (s *Service) ListCustomerPayouts(ctx context.Context, customerID snowflake.ID, page pagination.Pagination) ([]*Payout, error) {
	return s.payouts.Find(ctx, &Payout{CustomerID: customerID}, insertionOrder, option.ApplyPagination(page))
}
