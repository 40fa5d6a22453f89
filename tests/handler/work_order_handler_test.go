package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/auth"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/http/handler"
	"github.com/nordcup-as/production-api/internal/repository"
	"github.com/nordcup-as/production-api/internal/service"
	"github.com/nordcup-as/production-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupWorkOrderRouter wires the work order handler onto a router with a
// fixed authenticated user, mirroring the production route layout.
func setupWorkOrderRouter(db *gorm.DB) http.Handler {
	orderRepo := repository.NewWorkOrderRepository(db)
	updateRepo := repository.NewWorkOrderUpdateRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	numberRepo := repository.NewOrderNumberRepository(db)
	logger := zap.NewNop()

	svc := service.NewWorkOrderService(orderRepo, updateRepo, customerRepo, numberRepo, logger, db)
	h := handler.NewWorkOrderHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
				UserID:      uuid.New(),
				DisplayName: "Test User",
				Email:       "test@nordcup.no",
				Roles:       []domain.UserRoleType{domain.RoleAdmin},
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/work-orders", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.GetStatistics)
		r.Get("/production-queue", h.GetProductionQueue)
		r.Get("/number/{orderNumber}", h.GetByOrderNumber)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Post("/{id}/approve", h.Approve)
		r.Post("/{id}/start-production", h.StartProduction)
		r.Get("/{id}/updates", h.GetUpdates)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWorkOrderHandler_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWorkOrderRouter(db)
	customer := testutil.CreateTestCustomer(t, db, "Handler AS")

	rec := doJSON(t, router, http.MethodPost, "/work-orders", map[string]interface{}{
		"customerId":  customer.ID,
		"productType": "paper_cup",
		"quantity":    1000,
		"unitPrice":   2.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.WorkOrderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, domain.WorkOrderStatusDraft, created.Status)
	assert.Equal(t, 2000.0, created.TotalAmount)

	rec = doJSON(t, router, http.MethodGet, "/work-orders/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/work-orders/number/"+created.OrderNumber, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWorkOrderHandler_Create_MissingFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWorkOrderRouter(db)

	rec := doJSON(t, router, http.MethodPost, "/work-orders", map[string]interface{}{
		"productType": "paper_cup",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkOrderHandler_Create_UnknownCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWorkOrderRouter(db)

	rec := doJSON(t, router, http.MethodPost, "/work-orders", map[string]interface{}{
		"customerId":  uuid.New(),
		"productType": "paper_cup",
		"quantity":    1000,
		"unitPrice":   2.0,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkOrderHandler_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWorkOrderRouter(db)
	customer := testutil.CreateTestCustomer(t, db, "Status AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDraft)

	rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/work-orders/%s/status", order.ID), map[string]interface{}{
		"status": "pending",
		"notes":  "submitted",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated domain.WorkOrderDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, domain.WorkOrderStatusPending, updated.Status)
}

func TestWorkOrderHandler_UpdateStatus_InvalidTransitionConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWorkOrderRouter(db)
	customer := testutil.CreateTestCustomer(t, db, "Status AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDraft)

	rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/work-orders/%s/status", order.ID), map[string]interface{}{
		"status": "shipped",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWorkOrderHandler_ConvenienceTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWorkOrderRouter(db)
	customer := testutil.CreateTestCustomer(t, db, "Shortcut AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusPending)

	// Approve with no body
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/work-orders/%s/approve", order.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Start production with a note
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/work-orders/%s/start-production", order.ID), map[string]interface{}{
		"notes": "line 1 free",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Two audit rows, one per transition
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/work-orders/%s/updates", order.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var updates []domain.WorkOrderUpdateDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updates))
	assert.Len(t, updates, 2)
}

func TestWorkOrderHandler_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWorkOrderRouter(db)
	customer := testutil.CreateTestCustomer(t, db, "Delete AS")

	draft := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDraft)
	rec := doJSON(t, router, http.MethodDelete, "/work-orders/"+draft.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	shipped := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusShipped)
	rec = doJSON(t, router, http.MethodDelete, "/work-orders/"+shipped.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWorkOrderHandler_List_InvalidStatusFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWorkOrderRouter(db)

	rec := doJSON(t, router, http.MethodGet, "/work-orders?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkOrderHandler_StatsAndQueue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupWorkOrderRouter(db)
	customer := testutil.CreateTestCustomer(t, db, "Stats AS")
	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)
	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusInProduction)

	rec := doJSON(t, router, http.MethodGet, "/work-orders/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.WorkOrderStatsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalOrders)

	rec = doJSON(t, router, http.MethodGet, "/work-orders/production-queue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var queue domain.ProductionQueueDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &queue))
	assert.Len(t, queue.Scheduled, 1)
	assert.Len(t, queue.InProgress, 1)
}
