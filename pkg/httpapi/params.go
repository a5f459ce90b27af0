package httpapi

import (
	"cashback-ledger/pkg/db/pagination"
	"cashback-ledger/pkg/errutil"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// ParseID reads a snowflake id from the named path parameter.
func ParseID(c *gin.Context, name string) (snowflake.ID, error) {
	return ParseIDValue(name, c.Param(name))
}

func ParseIDValue(field, raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil || id <= 0 {
		return 0, errutil.BadRequest("invalid "+field, err,
			errutil.WithDetails(errutil.Detail{Field: field, Message: "must be a numeric id"}))
	}
	return id, nil
}

// Page binds ?skip=&limit= and clamps the window.
func Page(c *gin.Context) (pagination.Pagination, error) {
	var p pagination.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		return p, errutil.BadRequest("invalid pagination", err)
	}
	return p.Normalize(), nil
}

// BindJSON decodes the request body and turns binding failures into a
// BadRequest carrying the validator message.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errutil.BadRequest("invalid request payload", err,
			errutil.WithDetails(errutil.Detail{Field: "body", Message: err.Error()}))
	}
	return nil
}
