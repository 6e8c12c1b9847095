package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestSQLClassification(t *testing.T) {
	cases := []struct {
		sql, op, table string
	}{
		{`SELECT * FROM "invoices" WHERE "invoices"."id" = $1`, "SELECT", "invoices"},
		{"INSERT INTO `invoice_items` (`id`) VALUES (?)", "INSERT", "invoice_items"},
		{`UPDATE "invoices" SET "terms"=$1`, "UPDATE", "invoices"},
		{`DELETE FROM invoice_items WHERE invoice_id = ?`, "DELETE", "invoice_items"},
		{``, "UNKNOWN", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.op, operationFromSQL(tc.sql), tc.sql)
		assert.Equal(t, tc.table, tableFromSQL(tc.sql), tc.sql)
	}
}

func TestGormTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), 100*time.Millisecond)
	query := func() (string, int64) { return `SELECT * FROM "invoices"`, 1 }
	ctx := context.Background()

	l.Trace(ctx, time.Now(), query, nil)
	l.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "fast and not-found queries are quiet at warn")

	l.Trace(ctx, time.Now(), query, errors.New("disk full"))
	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)

	all := logs.All()
	require.Len(t, all, 2)
	assert.Equal(t, "db_query", all[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, all[0].Level)
	assert.Equal(t, "invoices", all[0].ContextMap()["table"])
	assert.Equal(t, "db_query_slow", all[1].Message)

	l.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, errors.New("ignored"))
	assert.Equal(t, 2, logs.Len())
}
