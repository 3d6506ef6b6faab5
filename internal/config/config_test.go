package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("INVOICE_DUE_DAYS", "")
	t.Setenv("FINALIZE_LOCK_TTL_SECONDS", "abc")
	t.Setenv("DB_NAME", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Address())
	assert.Equal(t, 30, cfg.InvoiceDueDays)
	assert.Equal(t, 30*time.Second, cfg.FinalizeLockTTL)
	assert.Contains(t, cfg.DSN(), "dbname=erp")
}

func TestDSNPrefersDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/erp")

	cfg := Load()

	assert.Equal(t, "postgres://u:p@db:5432/erp", cfg.DSN())
}

func TestLoadRejectsNonPositiveDueDays(t *testing.T) {
	for _, v := range []string{"0", "-3", "x"} {
		t.Setenv("INVOICE_DUE_DAYS", v)
		assert.Equal(t, 30, Load().InvoiceDueDays, "INVOICE_DUE_DAYS=%s", v)
	}

	t.Setenv("INVOICE_DUE_DAYS", "14")
	assert.Equal(t, 14, Load().InvoiceDueDays)
}
