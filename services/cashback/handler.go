package cashback

import (
	"encoding/json"
	"net/http"

	"cashback-ledger/pkg/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/customers/:id/balance", h.GetBalance)

	tx := r.Group("/transactions")
	tx.POST("", h.RecordTransaction)
	tx.GET("", h.ListTransactions)
	tx.GET("/customer/:customer_id", h.ListCustomerTransactions)

	tr := r.Group("/cashback-transfers")
	tr.POST("", h.Transfer)
	tr.GET("", h.ListTransfers)

	po := r.Group("/payouts")
	po.POST("", h.ProcessPayout)
	po.GET("", h.ListPayouts)
	po.GET("/customer/:customer_id", h.ListCustomerPayouts)

	gc := r.Group("/gift-cards")
	gc.POST("", h.IssueGiftCard)
	gc.GET("/:code", h.GetGiftCard)
	gc.DELETE("/:code", h.RedeemGiftCard)
}

func (h *Handler) GetBalance(c *gin.Context) {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	balance, err := h.svc.GetBalance(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{CustomerID: id, Balance: balance})
}

func (h *Handler) RecordTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	txn, err := h.svc.RecordTransaction(c.Request.Context(), req.CustomerID, amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	page, err := httpapi.Page(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out, err := h.svc.ListTransactions(c.Request.Context(), page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListCustomerTransactions(c *gin.Context) {
	id, err := httpapi.ParseID(c, "customer_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := httpapi.Page(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out, err := h.svc.ListCustomerTransactions(c.Request.Context(), id, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	transfer, err := h.svc.Transfer(c.Request.Context(), req.FromCustomerID, req.ToCustomerID, amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

func (h *Handler) ListTransfers(c *gin.Context) {
	page, err := httpapi.Page(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out, err := h.svc.ListTransfers(c.Request.Context(), page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ProcessPayout(c *gin.Context) {
	var req PayoutRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	payout, err := h.svc.ProcessPayout(c.Request.Context(), req.CustomerID, amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, payout)
}

func (h *Handler) ListPayouts(c *gin.Context) {
	page, err := httpapi.Page(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out, err := h.svc.ListPayouts(c.Request.Context(), page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListCustomerPayouts(c *gin.Context) {
	id, err := httpapi.ParseID(c, "customer_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := httpapi.Page(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out, err := h.svc.ListCustomerPayouts(c.Request.Context(), id, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) IssueGiftCard(c *gin.Context) {
	var req GiftCardRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	value, err := parseAmount("value", req.Value)
	if err != nil {
		_ = c.Error(err)
		return
	}

	card, err := h.svc.IssueGiftCard(c.Request.Context(), req.Code, value)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

func (h *Handler) GetGiftCard(c *gin.Context) {
	card, err := h.svc.GetGiftCard(c.Request.Context(), c.Param("code"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) RedeemGiftCard(c *gin.Context) {
	customerID, err := httpapi.ParseIDValue("customer_id", c.Query("customer_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	value, err := h.svc.RedeemGiftCard(c.Request.Context(), c.Param("code"), customerID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, RedeemResponse{Message: "Gift card redeemed successfully", Value: value})
}

// parseAmount accepts a JSON number or a quoted decimal. An absent field
// parses as zero and is rejected by the service.
func parseAmount(field string, raw json.RawMessage) (decimal.Decimal, error) {
	var d decimal.Decimal
	if len(raw) == 0 {
		return d, nil
	}
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, malformedAmount(field, err)
	}
	return d, nil
}
