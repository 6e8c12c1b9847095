package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gembill/internal/invoice/format"
	"github.com/smallbiznis/gembill/internal/invoice/render"
	"github.com/smallbiznis/gembill/internal/providers/email"
	"go.uber.org/zap"
)

type emailInvoiceRequest struct {
	To      []string `json:"to" binding:"required,min=1,dive,email"`
	Subject string   `json:"subject"`
}

// EmailInvoice sends the printed invoice as HTML with the PDF attached.
func (s *Server) EmailInvoice(c *gin.Context) {
	var req emailInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	inv, ok := s.loadInvoice(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// Mail clients cannot reach the relative asset routes, so the emailed
	// copy is rendered without images.
	doc := render.NewDocument(*inv, s.letterhead.Get())
	html, err := s.renderer.RenderHTML(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	msg := email.Message{
		To:      req.To,
		Subject: req.Subject,
		HTML:    html,
	}
	if msg.Subject == "" {
		msg.Subject = fmt.Sprintf("Invoice %s from %s", format.FormatInvoiceNumber(inv.InvoiceNo), doc.Letterhead.CompanyName)
	}

	r, err := s.pdf.GenerateInvoice(ctx, doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if r != nil {
		data, err := io.ReadAll(r)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		msg.Attachments = append(msg.Attachments, email.Attachment{
			Name:        render.FileName(*inv),
			ContentType: "application/pdf",
			Data:        data,
		})
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		AbortWithError(c, err)
		return
	}

	s.log.Info("invoice emailed",
		zap.String("invoice_id", inv.ID),
		zap.Int("recipients", len(req.To)),
	)
	c.Status(http.StatusAccepted)
}
