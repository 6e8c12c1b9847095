package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/smallbiznis/gembill/internal/invoice/format"
	"github.com/smallbiznis/gembill/internal/invoice/render"
	"github.com/smallbiznis/gembill/internal/invoice/view"
)

type nextNumberResponse struct {
	InvoiceNo     int64  `json:"invoiceNo"`
	InvoiceNumber string `json:"invoiceNumber"`
}

type formResponse struct {
	Title  string                 `json:"title"`
	Form   invoicedomain.FormData `json:"form"`
	Totals invoicedomain.Totals   `json:"totals"`
}

// screen tells the client which view to show after a call. Refresh is
// non-zero when the invoice list is stale.
type screen struct {
	Mode    view.Mode `json:"mode"`
	Title   string    `json:"title"`
	Refresh int       `json:"refresh"`
}

func screenOf(st view.State) screen {
	return screen{Mode: st.Mode(), Title: st.Title(), Refresh: st.Refresh()}
}

const (
	screenModeHeader  = "X-Screen-Mode"
	screenTitleHeader = "X-Screen-Title"
)

// ListInvoices returns list rows for every invoice, or those matching ?q=,
// newest first.
func (s *Server) ListInvoices(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		items []invoicedomain.Invoice
		err   error
	)
	if q := c.Query("q"); q != "" {
		items, err = s.invoiceSvc.Search(ctx, q)
	} else {
		items, err = s.invoiceSvc.ListAll(ctx)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   view.Rows(items),
		"screen": screenOf(view.Initial()),
	})
}

func (s *Server) NewInvoiceForm(c *gin.Context) {
	state := view.Initial().CreateNew()
	form := state.EditForm(s.clock.Now())
	c.JSON(http.StatusOK, gin.H{"data": formResponse{
		Title:  state.Title(),
		Form:   form,
		Totals: form.Totals(),
	}})
}

func (s *Server) NextInvoiceNumber(c *gin.Context) {
	n := s.invoiceSvc.NextInvoiceNumber(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": nextNumberResponse{
		InvoiceNo:     n,
		InvoiceNumber: format.FormatInvoiceNumber(n),
	}})
}

// ComputeTotals echoes the live totals of a possibly incomplete form.
func (s *Server) ComputeTotals(c *gin.Context) {
	var form invoicedomain.FormData
	if err := json.NewDecoder(c.Request.Body).Decode(&form); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": form.Totals()})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	inv, ok := s.loadInvoice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) GetInvoiceForm(c *gin.Context) {
	inv, ok := s.loadInvoice(c)
	if !ok {
		return
	}
	state := view.Initial().Edit(*inv)
	form := state.EditForm(s.clock.Now())
	c.JSON(http.StatusOK, gin.H{"data": formResponse{
		Title:  state.Title(),
		Form:   form,
		Totals: form.Totals(),
	}})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), form)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":   inv,
		"screen": screenOf(view.Initial().CreateNew().Submitted()),
	})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}
	form, ok := bindForm(c)
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.Update(c.Request.Context(), id, form)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if inv == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   inv,
		"screen": screenOf(view.Initial().Edit(*inv).Submitted()),
	})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	deleted, err := s.invoiceSvc.Delete(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !deleted {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) PreviewInvoice(c *gin.Context) {
	inv, ok := s.loadInvoice(c)
	if !ok {
		return
	}

	doc := s.document(*inv)
	html, err := s.renderer.RenderHTML(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	state := view.Initial().Preview(*inv)
	c.Header(screenModeHeader, string(state.Mode()))
	c.Header(screenTitleHeader, state.Title())
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	inv, ok := s.loadInvoice(c)
	if !ok {
		return
	}

	r, err := s.pdf.GenerateInvoice(c.Request.Context(), s.document(*inv))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if r == nil {
		AbortWithError(c, ErrInternal)
		return
	}
	body, err := io.ReadAll(r)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+render.FileName(*inv)+`"`)
	c.Data(http.StatusOK, "application/pdf", body)
}

func (s *Server) document(inv invoicedomain.Invoice) render.Document {
	lh := s.letterhead.Get()
	doc := render.NewDocument(inv, lh)
	if lh.LogoPath != "" {
		doc.LogoSrc = "/api/letterhead/logo"
	}
	if lh.StampPath != "" {
		doc.StampSrc = "/api/letterhead/stamp"
	}
	return doc
}

func (s *Server) loadInvoice(c *gin.Context) (*invoicedomain.Invoice, bool) {
	id, ok := invoiceID(c)
	if !ok {
		return nil, false
	}

	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	if inv == nil {
		AbortWithError(c, ErrNotFound)
		return nil, false
	}
	return inv, true
}

func invoiceID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return "", false
	}
	return id, true
}

func bindForm(c *gin.Context) (invoicedomain.FormData, bool) {
	var form invoicedomain.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		AbortWithError(c, bindingError(err))
		return form, false
	}
	if _, err := invoicedomain.ParseDate(form.Date); err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
		return form, false
	}
	return form, true
}
