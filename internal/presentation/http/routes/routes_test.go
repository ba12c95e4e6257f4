package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/messaging"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/notify"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/hotel-billing-api/pkg/lock"
	applog "github.com/sangkips/hotel-billing-api/pkg/logger"
	"github.com/sangkips/hotel-billing-api/pkg/printer"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

const testPassword = "s3cret-pass"

type apiEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	branchID uuid.UUID
	printer  *printer.BufferPrinter
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:routes_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.Models()...))

	branch := entity.Branch{Name: "Lakeside", Code: "LAKE", Currency: "KES"}
	require.NoError(t, db.Create(&branch).Error)
	require.NoError(t, db.Create(&entity.ChargeRule{
		BranchID: branch.ID, Name: "VAT", Rate: decimal.NewFromInt(13), Active: true,
		AppliesTo: enum.BillableReservation, SortOrder: 1,
	}).Error)

	log := applog.Nop()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	locker := lock.NewKeyedMutex()
	buf := printer.NewBufferPrinter()

	staffRepo := repository.NewStaffRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	orderRepo := repository.NewRestaurantOrderRepository(db)
	billableRepo := repository.NewBillableRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	chargeService := service.NewChargeService(repository.NewChargeRuleRepository(db))
	ledgerService := service.NewLedgerService(billableRepo, paymentRepo, locker, messaging.NoopPublisher{}, false, log)
	discountService := service.NewDiscountService(billableRepo, chargeService, locker)
	monitor := service.NewLowStockMonitor(inventoryRepo, notify.NewMulti(log, notify.NewDBNotifier(notificationRepo)), log)
	printerService := service.NewPrinterService(buf, reservationRepo, orderRepo, paymentRepo, branchRepo,
		service.PrinterOptions{Type: "buffer", Width: printer.Width80mm, QRBase: "https://bills.test/"}, log)

	handlers := &Handlers{
		Auth:               handler.NewAuthHandler(service.NewAuthService(staffRepo, branchRepo, jwtManager)),
		Charge:             handler.NewChargeHandler(chargeService),
		Reservation:        handler.NewReservationHandler(service.NewReservationService(reservationRepo, chargeService, locker)),
		Order:              handler.NewOrderHandler(service.NewOrderService(orderRepo, reservationRepo, chargeService, locker)),
		ReservationBilling: handler.NewBillingHandler(enum.BillableReservation, ledgerService, discountService),
		OrderBilling:       handler.NewBillingHandler(enum.BillableOrder, ledgerService, discountService),
		Inventory:          handler.NewInventoryHandler(service.NewInventoryService(inventoryRepo, monitor)),
		Notification:       handler.NewNotificationHandler(service.NewNotificationService(notificationRepo)),
		Printer:            handler.NewPrinterHandler(printerService),
	}

	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             &config.Config{App: config.AppConfig{Name: "hotel-billing-api"}},
		Logger:          log,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		BranchRepo:      branchRepo,
	})

	return &apiEnv{router: router, db: db, branchID: branch.ID, printer: buf}
}

func (e *apiEnv) addStaff(t *testing.T, email, role string) {
	t.Helper()
	hashed, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(&entity.Staff{
		BranchID: e.branchID, Name: role, Email: email, Password: hashed, Role: role, Active: true,
	}).Error)
}

type apiResult struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
	Raw    []byte
}

func (r apiResult) data() map[string]interface{} {
	d, _ := r.Body["data"].(map[string]interface{})
	return d
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}, headers ...string) apiResult {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	res := apiResult{Code: w.Code, Header: w.Header(), Raw: w.Body.Bytes()}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res.Body), w.Body.String())
	}
	return res
}

func (e *apiEnv) login(t *testing.T, email string) string {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	token, _ := res.data()["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createStay books two nights at 5,000 with 13% VAT, a bill of 11,300.
func (e *apiEnv) createStay(t *testing.T, token string) string {
	t.Helper()
	checkIn := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	res := e.do(t, http.MethodPost, "/api/v1/reservations", token, map[string]interface{}{
		"guest_name": "Amina Noor",
		"check_in":   checkIn,
		"check_out":  checkIn.AddDate(0, 0, 2),
		"lines": []map[string]interface{}{
			{"room_number": "204", "description": "Deluxe room", "quantity": 2, "unit_amount": 5000},
		},
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	assert.Equal(t, 11300.0, res.data()["total_amount"])
	assert.Equal(t, 11300.0, res.data()["remaining_amount"])
	return res.data()["id"].(string)
}

func TestAuthRequired(t *testing.T) {
	env := newAPIEnv(t)

	res := env.do(t, http.MethodGet, "/api/v1/reservations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = env.do(t, http.MethodGet, "/api/v1/reservations", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newAPIEnv(t)
	env.addStaff(t, "cashier@lakeside.test", entity.RoleCashier)

	res := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "cashier@lakeside.test", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestReservationPaymentFlow(t *testing.T) {
	env := newAPIEnv(t)
	env.addStaff(t, "cashier@lakeside.test", entity.RoleCashier)
	token := env.login(t, "cashier@lakeside.test")
	id := env.createStay(t, token)
	base := "/api/v1/reservations/" + id

	res := env.do(t, http.MethodGet, base+"/payments/suggestion?payment_type=advance", token, nil)
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, 3390.0, res.data()["suggested_amount"])

	payment := map[string]interface{}{"amount": 3390, "payment_type": "advance", "payment_method": "mpesa"}

	res = env.do(t, http.MethodPost, base+"/payments", token, payment)
	assert.Equal(t, http.StatusBadRequest, res.Code, "idempotency key is required")

	res = env.do(t, http.MethodPost, base+"/payments", token, payment, "Idempotency-Key", "pay-1")
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	balance := res.data()["balance"].(map[string]interface{})
	assert.Equal(t, 3390.0, balance["paid_amount"])
	assert.Equal(t, 7910.0, balance["remaining_amount"])
	paymentID := res.data()["payment"].(map[string]interface{})["id"].(string)

	replay := env.do(t, http.MethodPost, base+"/payments", token, payment, "Idempotency-Key", "pay-1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header.Get("X-Idempotency-Replayed"))

	res = env.do(t, http.MethodGet, base+"/balance", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 3390.0, res.data()["paid_amount"], "replay must not record a second payment")
	assert.Equal(t, "partial", res.data()["payment_state"])

	res = env.do(t, http.MethodPost, base+"/payments", token,
		map[string]interface{}{"amount": 20000, "payment_type": "full"}, "Idempotency-Key", "pay-2")
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, "overpayment", res.Body["error_kind"])

	res = env.do(t, http.MethodPost, base+"/payments", token,
		map[string]interface{}{"amount": 100, "payment_type": "full", "expected_remaining": 9999}, "Idempotency-Key", "pay-3")
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "concurrency_conflict", res.Body["error_kind"])

	res = env.do(t, http.MethodGet, base+"/payments", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["data"], 1)

	res = env.do(t, http.MethodGet, base+"/payments/"+paymentID, token, nil)
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, 3390.0, res.data()["amount"])
	assert.Equal(t, "mpesa", res.data()["payment_method"])

	res = env.do(t, http.MethodGet, base+"/payments/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	other := "/api/v1/reservations/" + env.createStay(t, token)
	res = env.do(t, http.MethodGet, other+"/payments/"+paymentID, token, nil)
	assert.Equal(t, http.StatusNotFound, res.Code, "payment belongs to another bill")
}

func TestPaymentValidationErrors(t *testing.T) {
	env := newAPIEnv(t)
	env.addStaff(t, "cashier@lakeside.test", entity.RoleCashier)
	token := env.login(t, "cashier@lakeside.test")
	base := "/api/v1/reservations/" + env.createStay(t, token)

	res := env.do(t, http.MethodPost, base+"/payments", token,
		map[string]interface{}{"amount": 100, "payment_type": "tip"}, "Idempotency-Key", "v-1")
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, "validation_error", res.Body["error_kind"])

	res = env.do(t, http.MethodPost, base+"/payments", token,
		map[string]interface{}{"amount": 0, "payment_type": "partial"}, "Idempotency-Key", "v-2")
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, "validation_error", res.Body["error_kind"])

	res = env.do(t, http.MethodPost, "/api/v1/reservations/"+uuid.NewString()+"/payments", token,
		map[string]interface{}{"amount": 100, "payment_type": "partial"}, "Idempotency-Key", "v-3")
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = env.do(t, http.MethodGet, "/api/v1/reservations/not-a-uuid/balance", token, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	// 2^64 cents + 1.00 wraps to 1.00 when truncated to int64
	res = env.do(t, http.MethodPost, base+"/payments", token,
		map[string]interface{}{"amount": "184467440737095517.16", "payment_type": "partial"}, "Idempotency-Key", "v-4")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = env.do(t, http.MethodGet, base+"/balance", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 0.0, res.data()["paid_amount"])
}

func TestWaiterCannotTakePayments(t *testing.T) {
	env := newAPIEnv(t)
	env.addStaff(t, "waiter@lakeside.test", entity.RoleWaiter)
	token := env.login(t, "waiter@lakeside.test")
	base := "/api/v1/reservations/" + env.createStay(t, token)

	res := env.do(t, http.MethodPost, base+"/payments", token,
		map[string]interface{}{"amount": 100, "payment_type": "partial"}, "Idempotency-Key", "w-1")
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = env.do(t, http.MethodPut, base+"/discount", token, map[string]interface{}{"type": "fixed", "value": 100})
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestDiscountEndpoints(t *testing.T) {
	env := newAPIEnv(t)
	env.addStaff(t, "manager@lakeside.test", entity.RoleManager)
	token := env.login(t, "manager@lakeside.test")
	base := "/api/v1/reservations/" + env.createStay(t, token)

	res := env.do(t, http.MethodPost, base+"/discount/preview", token, map[string]interface{}{"type": "fixed", "value": 1000})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, 10300.0, res.data()["remaining_amount"])

	res = env.do(t, http.MethodGet, base+"/balance", token, nil)
	assert.Equal(t, 11300.0, res.data()["total_amount"], "preview does not persist")

	res = env.do(t, http.MethodPut, base+"/discount", token, map[string]interface{}{"type": "bogus", "value": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, "validation_error", res.Body["error_kind"])

	res = env.do(t, http.MethodPut, base+"/discount", token, map[string]interface{}{"type": "fixed", "value": 1000, "reason": "loyalty"})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, 10300.0, res.data()["remaining_amount"])

	res = env.do(t, http.MethodGet, base+"/balance", token, nil)
	assert.Equal(t, 10300.0, res.data()["total_amount"])
}

func TestChargePreviewIsStateless(t *testing.T) {
	env := newAPIEnv(t)
	env.addStaff(t, "waiter@lakeside.test", entity.RoleWaiter)
	token := env.login(t, "waiter@lakeside.test")

	res := env.do(t, http.MethodPost, "/api/v1/charges/preview", token, map[string]interface{}{
		"applies_to": "reservation",
		"lines":      []map[string]interface{}{{"description": "Room", "quantity": 1, "unit_amount": 1000}},
	})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, 1130.0, res.data()["total_amount"])

	res = env.do(t, http.MethodPost, "/api/v1/charges/preview", token, map[string]interface{}{
		"applies_to": "spa",
		"lines":      []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	res = env.do(t, http.MethodPost, "/api/v1/charge-rules", token, map[string]interface{}{
		"name": "Levy", "rate": 2, "applies_to": "reservation",
	})
	assert.Equal(t, http.StatusForbidden, res.Code, "waiters cannot change charge rules")
}

func TestBranchHeaderOnlyForAdmins(t *testing.T) {
	env := newAPIEnv(t)
	env.addStaff(t, "cashier@lakeside.test", entity.RoleCashier)
	env.addStaff(t, "admin@lakeside.test", entity.RoleAdmin)

	other := entity.Branch{Name: "Hilltop", Code: "HILL", Currency: "KES"}
	require.NoError(t, env.db.Create(&other).Error)

	cashier := env.login(t, "cashier@lakeside.test")
	env.createStay(t, cashier)

	res := env.do(t, http.MethodGet, "/api/v1/reservations", cashier, nil, "X-Branch-ID", other.ID.String())
	assert.Equal(t, http.StatusForbidden, res.Code)

	admin := env.login(t, "admin@lakeside.test")
	res = env.do(t, http.MethodGet, "/api/v1/reservations", admin, nil, "X-Branch-ID", other.ID.String())
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Empty(t, res.data()["items"], "the other branch has no reservations")

	res = env.do(t, http.MethodGet, "/api/v1/reservations", admin, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.data()["items"], 1)
}

func TestBillPrintingAndQR(t *testing.T) {
	env := newAPIEnv(t)
	env.addStaff(t, "cashier@lakeside.test", entity.RoleCashier)
	token := env.login(t, "cashier@lakeside.test")
	base := "/api/v1/reservations/" + env.createStay(t, token)

	res := env.do(t, http.MethodPost, base+"/bill/print", token, nil)
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	require.Len(t, env.printer.Jobs(), 1)
	assert.Contains(t, string(env.printer.Jobs()[0]), "11300.00")

	res = env.do(t, http.MethodGet, base+"/bill/qr", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(res.Raw, []byte("\x89PNG")))
}
