package invoicestore_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gembill/internal/clock"
	"github.com/smallbiznis/gembill/internal/invoice/apiclient"
	invoicedomain "github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/smallbiznis/gembill/internal/invoice/numbering"
	"github.com/smallbiznis/gembill/internal/invoice/service"
	"github.com/smallbiznis/gembill/internal/invoicestore"
	"github.com/smallbiznis/gembill/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newStack wires the access layer to a real invoice store over HTTP.
func newStack(t *testing.T) invoicedomain.Service {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(invoicestore.Models()...))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	now := clock.NewFakeClock(time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC))

	h := invoicestore.NewHandler(invoicestore.HandlerParams{
		Repo: invoicestore.NewRepository(conn), Node: node, Clock: now, Log: zap.NewNop(),
	})
	srv := httptest.NewServer(invoicestore.NewEngine(observability.Config{}, nil, h))
	t.Cleanup(func() {
		srv.Close()
		_ = sqlDB.Close()
	})

	client := apiclient.New(
		apiclient.WithBaseURL(srv.URL+"/api"),
		apiclient.WithRetryConfig(nil),
	)
	return service.NewService(service.ServiceParam{
		Backend: client,
		Log:     zap.NewNop(),
		Clock:   now,
		Lock:    numbering.New(numbering.Config{}, nil, nil, zap.NewNop()),
	})
}

func form(name, city string) invoicedomain.FormData {
	return invoicedomain.FormData{
		Date:            "2026-10-16",
		Terms:           "COD",
		CustomerName:    name,
		CustomerAddress: "1 Main St",
		CustomerCity:    city,
		Items: []invoicedomain.ItemInput{{
			Description:  "Emerald",
			Pieces:       3,
			Weight:       decimal.RequireFromString("1.25"),
			PricePerUnit: decimal.RequireFromString("10.00"),
		}},
		ShippingCharges: decimal.RequireFromString("5.00"),
		OtherCharges:    decimal.RequireFromString("2.50"),
	}
}

func TestAccessLayerAgainstStore(t *testing.T) {
	svc := newStack(t)
	ctx := context.Background()

	assert.Equal(t, int64(2636), svc.NextInvoiceNumber(ctx))

	first, err := svc.Create(ctx, form("John Smith", "Austin"))
	require.NoError(t, err)
	assert.Equal(t, int64(2636), first.InvoiceNo)
	assert.True(t, first.Subtotal.Equal(decimal.NewFromInt(30)))
	assert.True(t, first.TotalAmount.Equal(decimal.RequireFromString("37.50")))
	assert.True(t, first.Items[0].Total.Equal(decimal.NewFromInt(30)))

	second, err := svc.Create(ctx, form("Ana Ruiz", "Smithville"))
	require.NoError(t, err)
	assert.Equal(t, int64(2637), second.InvoiceNo)

	_, err = svc.Create(ctx, form("Lee", "Dallas"))
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := svc.Search(ctx, "smith")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.ID, found[0].ID)

	byNumber, err := svc.Search(ctx, "2638")
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, "Lee", byNumber[0].CustomerName)

	edit := form("John Smith Jr", "Austin")
	edit.Items[0].Pieces = 1
	updated, err := svc.Update(ctx, first.ID, edit)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, int64(2636), updated.InvoiceNo)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("17.5")))

	reloaded, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, "John Smith Jr", reloaded.CustomerName)

	ok, err := svc.Delete(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := svc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	gone, err := svc.Update(ctx, second.ID, edit)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestNextNumberFallsBackWhenStoreUnreachable(t *testing.T) {
	client := apiclient.New(
		apiclient.WithBaseURL("http://127.0.0.1:1/api"),
		apiclient.WithRetryConfig(nil),
		apiclient.WithTimeout(time.Second),
	)
	svc := service.NewService(service.ServiceParam{Backend: client, Log: zap.NewNop()})

	assert.Equal(t, int64(2636), svc.NextInvoiceNumber(context.Background()))
}
