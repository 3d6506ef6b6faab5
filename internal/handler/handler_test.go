package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-erp-sales/internal/export"
	"go-erp-sales/internal/model"
	"go-erp-sales/internal/repository/memory"
	"go-erp-sales/internal/service"
	"go-erp-sales/pkg/jwt"
	"go-erp-sales/pkg/lock"
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	auth  service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	log := zap.NewNop()

	tokens, err := jwt.NewManager("handler-test-secret", time.Hour)
	require.NoError(t, err)

	authService := service.NewAuthService(store.Users(), tokens)
	poster := service.NewSalePoster(store, lock.NoopLocker{}, nil, log, service.PosterConfig{InvoiceDueDays: 30})

	router := &Router{
		Auth:      NewAuthHandler(authService, log),
		Drafts:    NewDraftHandler(service.NewDraftService(store, poster, nil, log), log),
		Sales:     NewSalesHandler(service.NewSalesService(store), log),
		Customers: NewCustomerHandler(service.NewCustomerService(store, log), log),
		Inventory: NewInventoryHandler(service.NewInventoryService(store, nil, log), log),
		Users:     store.Users(),
		Tokens:    tokens,
	}
	app := fiber.New()
	router.Register(app)

	return &testEnv{app: app, store: store, auth: authService}
}

// user creates an active account with the given privileges and returns a
// bearer token for it.
func (e *testEnv) user(t *testing.T, email string, privileges ...string) string {
	t.Helper()
	u := &model.User{Email: email, FullName: email, IsActive: true}
	for _, code := range privileges {
		u.Privileges = append(u.Privileges, model.Privilege{Code: code})
	}
	require.NoError(t, u.SetPassword("secret123"))
	require.NoError(t, e.store.Users().Create(context.Background(), u))

	resp, err := e.auth.Login(context.Background(), email, "secret123")
	require.NoError(t, err)
	return resp.Token
}

func (e *testEnv) admin(t *testing.T, email string) string {
	codes := make([]string, len(model.DefaultPrivileges))
	for i, p := range model.DefaultPrivileges {
		codes[i] = p.Code
	}
	return e.user(t, email, codes...)
}

func (e *testEnv) product(t *testing.T, name string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{SKU: name, Name: name, StockQuantity: stock, LowStockThreshold: 1}
	require.NoError(t, e.store.Products().Create(context.Background(), p))
	return p
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		var decoded any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		if m, ok := decoded.(map[string]any); ok {
			out = m
		}
	}
	return resp, out
}

func (e *testEnv) createDraft(t *testing.T, token string, body map[string]any) string {
	t.Helper()
	resp, out := e.do(t, http.MethodPost, "/api/v1/drafts", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, out)
	return out["data"].(map[string]any)["id"].(string)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp, out := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", out["status"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "cashier@example.com", model.PrivDraftView)

	resp, out := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "cashier@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out["token"])

	resp, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "cashier@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireTokenAndPrivilege(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/drafts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	viewer := env.user(t, "viewer@example.com", model.PrivDraftView)
	resp, _ = env.do(t, http.MethodGet, "/api/v1/drafts", viewer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/stock-adjustments", viewer, map[string]any{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginElsewhereEndsSession(t *testing.T) {
	env := newTestEnv(t)
	first := env.user(t, "cashier@example.com", model.PrivDraftView)

	_, err := env.auth.Login(context.Background(), "cashier@example.com", "secret123")
	require.NoError(t, err)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/drafts", first, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFinalizeFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.admin(t, "admin@example.com")
	p := env.product(t, "Oil filter", 10)

	draftID := env.createDraft(t, token, map[string]any{
		"type":  "RETAIL",
		"items": []map[string]any{{"product_id": p.ID, "quantity": 3, "unit_price": "100"}},
	})

	resp, out := env.do(t, http.MethodPost, "/api/v1/drafts/"+draftID+"/finalize", token, map[string]any{
		"paymentMethod": "cash",
		"amountPaid":    300,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, out)
	assert.Equal(t, true, out["success"])
	assert.NotEmpty(t, out["saleId"])
	assert.Regexp(t, `^INVOICE-`, out["invoiceNumber"])
	invoiceID := out["invoiceId"].(string)

	resp, out = env.do(t, http.MethodGet, "/api/v1/invoices/"+invoiceID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PAID", out["status"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/invoices/"+invoiceID+"/export", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment;")

	resp, out = env.do(t, http.MethodPost, "/api/v1/drafts/"+draftID+"/finalize", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.ErrDraftNotOpen.Error(), out["error"])

	resp, out = env.do(t, http.MethodGet, "/api/v1/products/"+p.ID.String()+"/movements", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, out)
}

func TestFinalizeErrors(t *testing.T) {
	env := newTestEnv(t)
	token := env.admin(t, "admin@example.com")
	p := env.product(t, "Spark plug", 2)

	short := env.createDraft(t, token, map[string]any{
		"type":  "RETAIL",
		"items": []map[string]any{{"product_id": p.ID, "quantity": 5, "unit_price": "20"}},
	})
	resp, out := env.do(t, http.MethodPost, "/api/v1/drafts/"+short+"/finalize", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out["error"], "Insufficient stock")

	wholesale := env.createDraft(t, token, map[string]any{
		"type":  "WHOLESALE",
		"items": []map[string]any{{"product_id": p.ID, "quantity": 1, "unit_price": "20"}},
	})
	resp, out = env.do(t, http.MethodPost, "/api/v1/drafts/"+wholesale+"/finalize", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Wholesale sales require a customer", out["error"])

	resp, _ = env.do(t, http.MethodPost, "/api/v1/drafts/not-a-uuid/finalize", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/drafts/2f1b5d0e-9a7c-4c55-8f0e-3d2a1b4c5d6e/finalize", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.admin(t, "owner@example.com")
	intruder := env.admin(t, "intruder@example.com")
	p := env.product(t, "Chain", 5)

	draftID := env.createDraft(t, owner, map[string]any{
		"type":  "RETAIL",
		"items": []map[string]any{{"product_id": p.ID, "quantity": 1, "unit_price": "30"}},
	})

	resp, _ := env.do(t, http.MethodPost, "/api/v1/drafts/"+draftID+"/cancel", intruder, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/drafts/"+draftID+"/finalize", intruder, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	stored, err := env.store.Products().FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.StockQuantity)

	resp, out := env.do(t, http.MethodPatch, "/api/v1/drafts/"+draftID+"/status", owner, map[string]any{"status": "READY"})
	require.Equal(t, http.StatusOK, resp.StatusCode, out)
	assert.Equal(t, "READY", out["data"].(map[string]any)["status"])
}

func TestCustomerEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.admin(t, "admin@example.com")

	resp, out := env.do(t, http.MethodPost, "/api/v1/customers", token, map[string]any{
		"name": "Karwan", "sku": "1001", "phone": "0750 123 4567",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, out)
	id := out["data"].(map[string]any)["id"].(string)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/customers", token, map[string]any{"name": "Dup", "sku": "1001"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/customers/"+id+"/balance-history", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
