package cashback

import (
	"encoding/json"
	"time"

	"cashback-ledger/pkg/db/money"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// CashbackRate is the share of a transaction's gross amount credited back to
// the paying customer.
var CashbackRate = decimal.New(5, -2)

type CashbackBalance struct {
	ID         snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	CustomerID snowflake.ID `gorm:"column:customer_id;uniqueIndex;not null" json:"customer_id"`
	Balance    money.Amount `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt  time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"column:updated_at" json:"updated_at"`
}

func (CashbackBalance) TableName() string { return "cashback_balances" }

type Transaction struct {
	ID         snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	CustomerID snowflake.ID `gorm:"column:customer_id;index;not null" json:"customer_id"`
	Amount     money.Amount `gorm:"column:amount;not null" json:"amount"`
	Date       time.Time    `gorm:"column:date;not null" json:"date"`
}

func (Transaction) TableName() string { return "transactions" }

type CashbackTransfer struct {
	ID             snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	FromCustomerID snowflake.ID `gorm:"column:from_customer_id;index;not null" json:"from_customer_id"`
	ToCustomerID   snowflake.ID `gorm:"column:to_customer_id;index;not null" json:"to_customer_id"`
	Amount         money.Amount `gorm:"column:amount;not null" json:"amount"`
	Date           time.Time    `gorm:"column:date;not null" json:"date"`
}

func (CashbackTransfer) TableName() string { return "cashback_transfers" }

type Payout struct {
	ID               snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	CustomerID       snowflake.ID `gorm:"column:customer_id;index;not null" json:"customer_id"`
	Amount           money.Amount `gorm:"column:amount;not null" json:"amount"`
	Date             time.Time    `gorm:"column:date;not null" json:"date"`
	GatewayReference string       `gorm:"column:gateway_reference" json:"gateway_reference"`
	GatewayStatus    string       `gorm:"column:gateway_status" json:"gateway_status"`
}

func (Payout) TableName() string { return "payouts" }

// GiftCard rows are hard-deleted when redeemed.
type GiftCard struct {
	ID        snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Code      string       `gorm:"column:code;uniqueIndex;not null" json:"code"`
	Value     money.Amount `gorm:"column:value;not null" json:"value"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (GiftCard) TableName() string { return "gift_cards" }

// Request amounts stay raw until the handler parses them so a malformed
// number is reported as an invalid amount.
type TransactionRequest struct {
	CustomerID snowflake.ID    `json:"customer_id" binding:"required"`
	Amount     json.RawMessage `json:"amount"`
}

type TransferRequest struct {
	FromCustomerID snowflake.ID    `json:"from_customer_id" binding:"required"`
	ToCustomerID   snowflake.ID    `json:"to_customer_id" binding:"required"`
	Amount         json.RawMessage `json:"amount"`
}

type PayoutRequest struct {
	CustomerID snowflake.ID    `json:"customer_id" binding:"required"`
	Amount     json.RawMessage `json:"amount"`
}

type GiftCardRequest struct {
	Code  string          `json:"code"`
	Value json.RawMessage `json:"value"`
}

type BalanceResponse struct {
	CustomerID snowflake.ID    `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
}

type RedeemResponse struct {
	Message string          `json:"message"`
	Value   decimal.Decimal `json:"value"`
}
