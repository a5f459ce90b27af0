package referral

import (
	"net/http"

	"cashback-ledger/pkg/httpapi"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.POST("/groups", h.CreateGroup)
	r.GET("/groups", h.ListGroups)

	r.POST("/ambassadors", h.CreateAmbassador)
	r.GET("/ambassadors", h.ListAmbassadors)
	r.GET("/ambassadors/:id", h.GetAmbassador)

	r.POST("/qrcodes", h.CreateQRCode)
	r.GET("/qrcodes/:code", h.GetQRCode)
}

func (h *Handler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	g, err := h.svc.CreateGroup(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) ListGroups(c *gin.Context) {
	page, err := httpapi.Page(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out, err := h.svc.ListGroups(c.Request.Context(), page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateAmbassador(c *gin.Context) {
	var req CreateAmbassadorRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	a, err := h.svc.CreateAmbassador(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAmbassadors(c *gin.Context) {
	page, err := httpapi.Page(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out, err := h.svc.ListAmbassadors(c.Request.Context(), page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetAmbassador(c *gin.Context) {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	a, err := h.svc.GetAmbassador(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) CreateQRCode(c *gin.Context) {
	var req CreateQRCodeRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	q, err := h.svc.CreateQRCode(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *Handler) GetQRCode(c *gin.Context) {
	q, err := h.svc.GetQRCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, q)
}
