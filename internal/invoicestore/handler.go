package invoicestore

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gembill/internal/clock"
	"github.com/smallbiznis/gembill/internal/invoice/wire"
	"github.com/smallbiznis/gembill/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Handler struct {
	repo  Repository
	node  *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

type HandlerParams struct {
	fx.In

	Repo  Repository
	Node  *snowflake.Node
	Clock clock.Clock
	Log   *zap.Logger
}

func NewHandler(p HandlerParams) *Handler {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	c := p.Clock
	if c == nil {
		c = clock.New()
	}
	return &Handler{
		repo:  p.Repo,
		node:  p.Node,
		clock: c,
		log:   log.Named("invoicestore"),
	}
}

// Register mounts the invoice resource on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/invoices", h.List)
	r.POST("/invoices", h.Create)
	r.GET("/invoices/:id", h.Get)
	r.PUT("/invoices/:id", h.Replace)
	r.DELETE("/invoices/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]wire.Invoice, 0, len(items))
	for _, inv := range items {
		out = append(out, fromModel(inv))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	inv, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromModel(*inv))
}

func (h *Handler) Create(c *gin.Context) {
	var payload wire.Invoice
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.writeError(c, invalid("invalid invoice payload"))
		return
	}

	inv, err := toModel(payload, h.node.Generate(), h.node, h.clock.Now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.repo.Create(c.Request.Context(), inv); err != nil {
		h.writeError(c, err)
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Info("invoice stored",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
	)
	c.JSON(http.StatusCreated, fromModel(*inv))
}

func (h *Handler) Replace(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var payload wire.Invoice
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.writeError(c, invalid("invalid invoice payload"))
		return
	}

	ctx := c.Request.Context()
	existing, err := h.repo.Get(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	inv, err := toModel(payload, id, h.node, h.clock.Now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	inv.CreatedAt = existing.CreatedAt

	if err := h.repo.Replace(ctx, inv); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromModel(*inv))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, wire.ErrorBody{Message: "Invoice deleted"})
}

// parseID answers 404 for ids that cannot name a stored invoice.
func (h *Handler) parseID(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id <= 0 {
		h.writeError(c, ErrNotFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var invalidErr *InvalidError
	switch {
	case errors.As(err, &invalidErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, wire.ErrorBody{Message: invalidErr.Message})
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, wire.ErrorBody{Message: "Invoice not found"})
	case errors.Is(err, ErrDuplicateNumber):
		c.AbortWithStatusJSON(http.StatusConflict, wire.ErrorBody{Message: "Invoice number already exists"})
	default:
		logger.WithContext(c.Request.Context(), h.log).Error("invoice store failure", zap.Error(err))
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, wire.ErrorBody{Message: "Internal server error"})
	}
}
