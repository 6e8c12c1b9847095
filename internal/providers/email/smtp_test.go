package email

import (
	"context"
	"encoding/base64"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	raw, err := buildMessage("billing@starlinkjewels.com", Message{
		To:      []string{"jane@example.com", "ops@example.com"},
		Subject: "Invoice INV-2636",
		HTML:    "<h1>INVOICE</h1>",
		Attachments: []Attachment{
			{Name: "Invoice-2636.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")},
		},
	})
	require.NoError(t, err)

	out := string(raw)
	assert.Contains(t, out, "To: jane@example.com, ops@example.com\r\n")
	assert.Contains(t, out, "Subject: Invoice INV-2636")
	assert.Contains(t, out, "multipart/mixed")
	assert.Contains(t, out, `filename=Invoice-2636.pdf`)
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("<h1>INVOICE</h1>")))
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("%PDF-1.3")))
}

func TestWriteBase64WrapsLines(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, writeBase64(&sb, make([]byte, 200)))

	for _, line := range strings.Split(strings.TrimSuffix(sb.String(), "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
}

func TestSMTPProviderSend(t *testing.T) {
	p := NewSMTP(Config{Host: "mail.local", Port: 2525, From: "billing@starlinkjewels.com"})

	var gotAddr string
	var gotTo []string
	var gotAuth smtp.Auth
	p.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotAuth = addr, to, a
		return nil
	}

	require.NoError(t, p.Send(context.Background(), Message{To: []string{"jane@example.com"}, Subject: "hi", HTML: "x"}))
	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	assert.Nil(t, gotAuth)

	assert.Error(t, p.Send(context.Background(), Message{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Send(ctx, Message{To: []string{"a@b.c"}}), context.Canceled)
}

func TestNoOpProvider(t *testing.T) {
	assert.ErrorIs(t, (&NoOpProvider{}).Send(context.Background(), Message{}), ErrNotConfigured)
}
