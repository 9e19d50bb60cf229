package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/server/http/dto"
	"github.com/campuseats/canteen/internal/server/http/middleware"
	testhelpers "github.com/campuseats/canteen/internal/test"
	"github.com/campuseats/canteen/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	route := path
	if i := strings.IndexByte(route, '?'); i >= 0 {
		route = route[:i]
	}
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asStudent(c *gin.Context) {
	c.Set(middleware.UserIDContextKey, "user-1")
	c.Set(middleware.UserRoleContextKey, model.RoleStudent)
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != "" {
		t.Fatalf("expected empty id when not set, got %q", got)
	}

	c.Set(middleware.UserIDContextKey, "user-42")
	if got := CurrentUserID(c); got != "user-42" {
		t.Fatalf("expected user-42, got %q", got)
	}
}

func TestCurrentUserRole(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserRole(c); got != "" {
		t.Fatalf("expected empty role when not set, got %q", got)
	}

	c.Set(middleware.UserRoleContextKey, model.RoleStaff)
	if got := CurrentUserRole(c); got != model.RoleStaff {
		t.Fatalf("expected staff role, got %q", got)
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	body, _ := json.Marshal(dto.RegisterRequest{Email: "student@campus.edu", FullName: "A Student", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/register", NewAuthHandler(testhelpers.AuthFacadeStub{}).Register, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") == "" {
		t.Fatalf("expected auth header to be set")
	}
}

func TestAuthHandlerRegisterPassesCredentials(t *testing.T) {
	email := testhelpers.RandomASCIIString(7, 14) + "@campus.edu"
	password := testhelpers.RandomASCIIString(16, 32)
	body, _ := json.Marshal(dto.RegisterRequest{Email: email, FullName: "A Student", Password: password})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(ctx context.Context, gotEmail, fullName, gotPassword string) (string, error) {
		if gotEmail != email || fullName != "A Student" || gotPassword != password {
			t.Fatalf("unexpected credentials passed to facade: %q %q %q", gotEmail, fullName, gotPassword)
		}
		return "session-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/register", handler.Register, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	authHeader := resp.Header().Get("Authorization")
	if authHeader != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", authHeader)
	}
	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	foundCookie := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "canteen_token" {
			if cookie.Value != "session-token" {
				t.Fatalf("unexpected token stored in cookie: %q", cookie.Value)
			}
			foundCookie = true
			break
		}
	}
	if !foundCookie {
		t.Fatal("expected auth cookie named canteen_token")
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid credentials", body: []byte(`{"email":"","password":""}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusBadRequest},
		{name: "already exists", body: []byte(`{"email":"a@b.c","password":"p"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (string, error) {
			return "", domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict},
		{name: "internal", body: []byte(`{"email":"a@b.c","password":"p"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", NewAuthHandler(tt.facade).Register, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.LoginRequest{Email: "student@campus.edu", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/login", NewAuthHandler(testhelpers.AuthFacadeStub{}).Login, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid", body: []byte(`{"email":"a@b.c","password":"p"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusUnauthorized},
		{name: "internal", body: []byte(`{"email":"a@b.c","password":"p"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/login", NewAuthHandler(tt.facade).Login, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerProfile(t *testing.T) {
	facade := testhelpers.AuthFacadeStub{ProfileFn: func(ctx context.Context, userID string) (*model.User, error) {
		return &model.User{ID: userID, Email: "student@campus.edu", FullName: "A Student", Role: model.RoleStudent}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/profile", NewAuthHandler(facade).Profile, asStudent, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.ProfileResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != "user-1" || decoded.Email != "student@campus.edu" || decoded.Role != "student" {
		t.Fatalf("unexpected profile: %+v", decoded)
	}
}

func TestAuthHandlerProfileFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		status int
	}{
		{name: "unknown user", facade: testhelpers.AuthFacadeStub{ProfileFn: func(context.Context, string) (*model.User, error) {
			return nil, domainErrors.ErrNotFound
		}}, status: http.StatusUnauthorized},
		{name: "internal", facade: testhelpers.AuthFacadeStub{ProfileFn: func(context.Context, string) (*model.User, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/profile", NewAuthHandler(tt.facade).Profile, asStudent, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestMenuHandlerList(t *testing.T) {
	items := []model.MenuItem{
		{ID: "item-1", Name: "Samosa", Price: 15, Category: "snacks", IsAvailable: true},
		{ID: "item-2", Name: "Masala Dosa", Price: 60, Category: "mains", IsAvailable: true},
	}
	facade := testhelpers.MenuFacadeStub{MenuFn: func(context.Context) ([]model.MenuItem, error) {
		return items, nil
	}}
	resp := performRequest(t, http.MethodGet, "/menu", NewMenuHandler(facade).List, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.MenuItemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(decoded))
	}
	if decoded[0].ID != "item-1" || decoded[1].Name != "Masala Dosa" {
		t.Fatalf("unexpected menu: %+v", decoded)
	}
}

func TestMenuHandlerListFailure(t *testing.T) {
	facade := testhelpers.MenuFacadeStub{MenuFn: func(context.Context) ([]model.MenuItem, error) {
		return nil, errors.New("boom")
	}}
	resp := performRequest(t, http.MethodGet, "/menu", NewMenuHandler(facade).List, nil, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
}

func TestOrderHandlerCheckout(t *testing.T) {
	body, _ := json.Marshal(dto.CheckoutRequest{
		Items:               []dto.CartItemRequest{{MenuItemID: "item-1", Quantity: 2, Customizations: map[string]string{"spice": "mild"}}},
		PickupDate:          "2026-09-01",
		PickupTime:          "12:30",
		PaymentMethod:       "card",
		SpecialInstructions: "no onions",
	})
	facade := testhelpers.OrderFacadeStub{PlaceOrderFn: func(ctx context.Context, p usecase.PlaceOrderParams) (*model.Order, error) {
		if p.UserID != "user-1" {
			t.Fatalf("unexpected user id %q", p.UserID)
		}
		if len(p.Items) != 1 || p.Items[0].MenuItemID != "item-1" || p.Items[0].Quantity != 2 {
			t.Fatalf("unexpected cart: %+v", p.Items)
		}
		if p.Items[0].Customizations["spice"] != "mild" {
			t.Fatalf("customizations lost: %+v", p.Items[0].Customizations)
		}
		if p.PickupDate != "2026-09-01" || p.PickupTime != "12:30" {
			t.Fatalf("unexpected pickup %q %q", p.PickupDate, p.PickupTime)
		}
		if p.PaymentMethod != model.PaymentMethodCard || p.SpecialInstructions != "no onions" {
			t.Fatalf("unexpected params: %+v", p)
		}
		return &model.Order{ID: "order-1", UserID: p.UserID, Status: model.OrderStatusConfirmed, TotalAmount: 30, PickupDate: p.PickupDate, PickupTime: p.PickupTime, PaymentMethod: p.PaymentMethod}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(facade).Checkout, asStudent, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != "order-1" || decoded.Status != "confirmed" || decoded.TotalAmount != 30 {
		t.Fatalf("unexpected order: %+v", decoded)
	}
	if decoded.StatusLabel == "" || decoded.StatusDescription == "" {
		t.Fatalf("expected status label and description, got %+v", decoded)
	}
}

func TestOrderHandlerCheckoutFailures(t *testing.T) {
	validBody, _ := json.Marshal(dto.CheckoutRequest{
		Items:         []dto.CartItemRequest{{MenuItemID: "item-1", Quantity: 1}},
		PickupDate:    "2026-09-01",
		PickupTime:    "12:30",
		PaymentMethod: "card",
	})
	placeErr := func(err error) testhelpers.OrderFacadeStub {
		return testhelpers.OrderFacadeStub{PlaceOrderFn: func(context.Context, usecase.PlaceOrderParams) (*model.Order, error) {
			return nil, err
		}}
	}

	tests := []struct {
		name   string
		facade testhelpers.OrderFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "empty cart", body: validBody, facade: placeErr(domainErrors.ErrEmptyCart), status: http.StatusBadRequest},
		{name: "invalid quantity", body: validBody, facade: placeErr(domainErrors.ErrInvalidQuantity), status: http.StatusBadRequest},
		{name: "invalid payment method", body: validBody, facade: placeErr(domainErrors.ErrInvalidPaymentMethod), status: http.StatusBadRequest},
		{name: "invalid pickup time", body: validBody, facade: placeErr(domainErrors.ErrInvalidPickupTime), status: http.StatusBadRequest},
		{name: "cash not eligible", body: validBody, facade: placeErr(&domainErrors.CashOnPickupError{Reason: "total exceeds cash limit"}), status: http.StatusUnprocessableEntity},
		{name: "item unavailable", body: validBody, facade: placeErr(domainErrors.ErrMenuItemUnavailable), status: http.StatusUnprocessableEntity},
		{name: "slot full", body: validBody, facade: placeErr(domainErrors.ErrSlotUnavailable), status: http.StatusConflict},
		{name: "internal", body: validBody, facade: placeErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(tt.facade).Checkout, asStudent, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerCheckoutCashErrorBody(t *testing.T) {
	body, _ := json.Marshal(dto.CheckoutRequest{
		Items:         []dto.CartItemRequest{{MenuItemID: "item-1", Quantity: 1}},
		PickupDate:    "2026-09-01",
		PickupTime:    "12:30",
		PaymentMethod: "cash_on_pickup",
	})
	facade := testhelpers.OrderFacadeStub{PlaceOrderFn: func(context.Context, usecase.PlaceOrderParams) (*model.Order, error) {
		return nil, &domainErrors.CashOnPickupError{Reason: "total exceeds cash limit"}
	}}
	resp := performRequest(t, http.MethodPost, "/orders", NewOrderHandler(facade).Checkout, asStudent, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
	var decoded map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded["error"] != "cash on pickup not eligible: total exceeds cash limit" {
		t.Fatalf("unexpected error body: %+v", decoded)
	}
}

func TestOrderHandlerList(t *testing.T) {
	orders := []model.Order{
		{ID: "order-1", Status: model.OrderStatusPending},
		{ID: "order-2", Status: model.OrderStatusReady},
	}
	facade := testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, string) ([]model.Order, error) {
		return orders, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders", NewOrderHandler(facade).List, asStudent, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != len(orders) {
		t.Fatalf("expected %d orders, got %d", len(orders), len(decoded))
	}
}

func TestOrderHandlerListEmpty(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, string) ([]model.Order, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders", NewOrderHandler(facade).List, asStudent, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		OrderFn: func(ctx context.Context, orderID, userID string) (*model.Order, error) {
			return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusReady}, nil
		},
		OrderItemsFn: func(context.Context, string) ([]model.OrderItem, error) {
			return []model.OrderItem{{MenuItemID: "item-1", Quantity: 2, Price: 15}}, nil
		},
	}
	resp := performRequest(t, http.MethodGet, "/orders/order-1", NewOrderHandler(facade).Get, asStudent, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != "order-1" || len(decoded.Items) != 1 || decoded.Items[0].MenuItemID != "item-1" {
		t.Fatalf("unexpected order: %+v", decoded)
	}
}

func TestOrderHandlerGetNotFound(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{OrderFn: func(context.Context, string, string) (*model.Order, error) {
		return nil, domainErrors.ErrNotFound
	}}
	resp := performRequest(t, http.MethodGet, "/orders/missing", NewOrderHandler(facade).Get, asStudent, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestOrderHandlerCancel(t *testing.T) {
	body, _ := json.Marshal(dto.CancelRequest{Reason: "changed plans"})
	facade := testhelpers.OrderFacadeStub{CancelFn: func(ctx context.Context, orderID, userID, reason string) (*model.Order, error) {
		if reason != "changed plans" {
			t.Fatalf("unexpected reason %q", reason)
		}
		return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusCancelled}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders/order-1/cancel", NewOrderHandler(facade).Cancel, asStudent, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Status != "cancelled" {
		t.Fatalf("unexpected order: %+v", decoded)
	}
}

func TestOrderHandlerCancelWithoutBody(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{CancelFn: func(ctx context.Context, orderID, userID, reason string) (*model.Order, error) {
		if reason != "" {
			t.Fatalf("expected empty reason, got %q", reason)
		}
		return &model.Order{ID: orderID, Status: model.OrderStatusCancelled}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders/order-1/cancel", NewOrderHandler(facade).Cancel, asStudent, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestOrderHandlerCancelFailures(t *testing.T) {
	cancelErr := func(err error) testhelpers.OrderFacadeStub {
		return testhelpers.OrderFacadeStub{CancelFn: func(context.Context, string, string, string) (*model.Order, error) {
			return nil, err
		}}
	}

	tests := []struct {
		name   string
		facade testhelpers.OrderFacadeStub
		status int
	}{
		{name: "not found", facade: cancelErr(domainErrors.ErrNotFound), status: http.StatusNotFound},
		{name: "already terminal", facade: cancelErr(domainErrors.ErrAlreadyTerminal), status: http.StatusConflict},
		{name: "invalid transition", facade: cancelErr(domainErrors.ErrInvalidTransition), status: http.StatusConflict},
		{name: "past window", facade: cancelErr(domainErrors.ErrPastCancellationWindow), status: http.StatusUnprocessableEntity},
		{name: "internal", facade: cancelErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/orders/order-1/cancel", NewOrderHandler(tt.facade).Cancel, asStudent, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerRefundPreview(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{RefundFn: func(context.Context, string, string) (*usecase.RefundPreview, error) {
		return &usecase.RefundPreview{Percentage: 50, Amount: 22.5}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders/order-1/refund", NewOrderHandler(facade).RefundPreview, asStudent, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.RefundPreviewResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Percentage != 50 || decoded.Amount != 22.5 {
		t.Fatalf("unexpected preview: %+v", decoded)
	}
}

func TestOrderHandlerRefundPreviewFailures(t *testing.T) {
	refundErr := func(err error) testhelpers.OrderFacadeStub {
		return testhelpers.OrderFacadeStub{RefundFn: func(context.Context, string, string) (*usecase.RefundPreview, error) {
			return nil, err
		}}
	}

	tests := []struct {
		name   string
		facade testhelpers.OrderFacadeStub
		status int
	}{
		{name: "not found", facade: refundErr(domainErrors.ErrNotFound), status: http.StatusNotFound},
		{name: "terminal", facade: refundErr(domainErrors.ErrAlreadyTerminal), status: http.StatusConflict},
		{name: "internal", facade: refundErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/orders/order-1/refund", NewOrderHandler(tt.facade).RefundPreview, asStudent, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerCashEligibility(t *testing.T) {
	body, _ := json.Marshal(dto.CashEligibilityRequest{Items: []dto.CartItemRequest{{MenuItemID: "item-1", Quantity: 3}}})
	facade := testhelpers.OrderFacadeStub{ValidateCashFn: func(ctx context.Context, items []model.CartItem) (bool, string, error) {
		if len(items) != 1 || items[0].Quantity != 3 {
			t.Fatalf("unexpected cart: %+v", items)
		}
		return false, "total exceeds cash limit", nil
	}}
	resp := performRequest(t, http.MethodPost, "/cart/cash-eligibility", NewOrderHandler(facade).CashEligibility, asStudent, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.CashEligibilityResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Eligible || decoded.Reason != "total exceeds cash limit" {
		t.Fatalf("unexpected result: %+v", decoded)
	}
}

func TestOrderHandlerCashEligibilityFailures(t *testing.T) {
	validBody, _ := json.Marshal(dto.CashEligibilityRequest{Items: []dto.CartItemRequest{{MenuItemID: "item-1", Quantity: 1}}})
	validateErr := func(err error) testhelpers.OrderFacadeStub {
		return testhelpers.OrderFacadeStub{ValidateCashFn: func(context.Context, []model.CartItem) (bool, string, error) {
			return false, "", err
		}}
	}

	tests := []struct {
		name   string
		facade testhelpers.OrderFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "empty cart", body: validBody, facade: validateErr(domainErrors.ErrEmptyCart), status: http.StatusBadRequest},
		{name: "item unavailable", body: validBody, facade: validateErr(domainErrors.ErrMenuItemUnavailable), status: http.StatusUnprocessableEntity},
		{name: "internal", body: validBody, facade: validateErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/cart/cash-eligibility", NewOrderHandler(tt.facade).CashEligibility, asStudent, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerNotifications(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{NotificationsFn: func(ctx context.Context, userID string) ([]model.Notification, error) {
		return []model.Notification{{ID: "note-1", UserID: userID, OrderID: "order-1", Title: "Order ready", Type: model.NotificationTypeOrderUpdate}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/notifications", NewOrderHandler(facade).Notifications, asStudent, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.NotificationResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 || decoded[0].ID != "note-1" || decoded[0].Title != "Order ready" {
		t.Fatalf("unexpected notifications: %+v", decoded)
	}
}

func TestOrderHandlerNotificationsEmpty(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{NotificationsFn: func(context.Context, string) ([]model.Notification, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/notifications", NewOrderHandler(facade).Notifications, asStudent, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestSlotHandlerAvailability(t *testing.T) {
	facade := testhelpers.SlotFacadeStub{AvailabilityFn: func(ctx context.Context, date, timeSlot string) (*model.SlotAvailability, error) {
		if date != "2026-09-01" || timeSlot != "12:30" {
			t.Fatalf("unexpected query %q %q", date, timeSlot)
		}
		return &model.SlotAvailability{AvailableSlots: 3, MaxCapacity: 10, IsAvailable: true}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/slots/availability?date=2026-09-01&time=12:30", NewSlotHandler(facade).Availability, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.AvailabilityResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.AvailableSlots != 3 || decoded.MaxCapacity != 10 || !decoded.IsAvailable {
		t.Fatalf("unexpected availability: %+v", decoded)
	}
}

func TestSlotHandlerAvailabilityFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.SlotFacadeStub
		path   string
		status int
	}{
		{name: "missing params", path: "/slots/availability", status: http.StatusBadRequest},
		{name: "missing time", path: "/slots/availability?date=2026-09-01", status: http.StatusBadRequest},
		{name: "unknown slot", path: "/slots/availability?date=2026-09-01&time=12:30", facade: testhelpers.SlotFacadeStub{AvailabilityFn: func(context.Context, string, string) (*model.SlotAvailability, error) {
			return nil, domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "internal", path: "/slots/availability?date=2026-09-01&time=12:30", facade: testhelpers.SlotFacadeStub{AvailabilityFn: func(context.Context, string, string) (*model.SlotAvailability, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, tt.path, NewSlotHandler(tt.facade).Availability, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestSlotHandlerList(t *testing.T) {
	facade := testhelpers.SlotFacadeStub{SlotsFn: func(ctx context.Context, startDate, endDate string) ([]model.PickupSlot, error) {
		return []model.PickupSlot{{ID: "slot-1", Date: startDate, TimeSlot: "12:30", MaxCapacity: 10, CurrentBookings: 4}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/slots?startDate=2026-09-01&endDate=2026-09-07", NewSlotHandler(facade).List, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.SlotResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 || decoded[0].CurrentBookings != 4 || !decoded[0].Available {
		t.Fatalf("unexpected slots: %+v", decoded)
	}
}

func TestSlotHandlerListMissingRange(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/slots?startDate=2026-09-01", NewSlotHandler(testhelpers.SlotFacadeStub{}).List, nil, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestStaffHandlerOrders(t *testing.T) {
	facade := testhelpers.CanteenFacadeStub{StaffFacadeStub: testhelpers.StaffFacadeStub{OrdersByDateFn: func(ctx context.Context, date string) ([]model.Order, error) {
		if date != "2026-09-01" {
			t.Fatalf("unexpected date %q", date)
		}
		return []model.Order{{ID: "order-1", PickupDate: date, Status: model.OrderStatusConfirmed}}, nil
	}}}
	resp := performRequest(t, http.MethodGet, "/staff/orders?date=2026-09-01", NewStaffHandler(facade).Orders, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 || decoded[0].PickupDate != "2026-09-01" {
		t.Fatalf("unexpected orders: %+v", decoded)
	}
}

func TestStaffHandlerOrdersMissingDate(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/staff/orders", NewStaffHandler(testhelpers.CanteenFacadeStub{}).Orders, nil, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestStaffHandlerUpdateStatus(t *testing.T) {
	body, _ := json.Marshal(dto.UpdateStatusRequest{Status: "preparing"})
	facade := testhelpers.CanteenFacadeStub{StaffFacadeStub: testhelpers.StaffFacadeStub{UpdateStatusFn: func(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
		if orderID != "order-1" || status != model.OrderStatusPreparing {
			t.Fatalf("unexpected transition %q -> %q", orderID, status)
		}
		return &model.Order{ID: orderID, Status: status}, nil
	}}}
	resp := performRequest(t, http.MethodPatch, "/staff/orders/order-1/status", NewStaffHandler(facade).UpdateStatus, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Status != "preparing" {
		t.Fatalf("unexpected order: %+v", decoded)
	}
}

func TestStaffHandlerUpdateStatusFailures(t *testing.T) {
	validBody, _ := json.Marshal(dto.UpdateStatusRequest{Status: "ready"})
	updateErr := func(err error) testhelpers.CanteenFacadeStub {
		return testhelpers.CanteenFacadeStub{StaffFacadeStub: testhelpers.StaffFacadeStub{UpdateStatusFn: func(context.Context, string, model.OrderStatus) (*model.Order, error) {
			return nil, err
		}}}
	}

	tests := []struct {
		name   string
		facade testhelpers.CanteenFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "unknown status", body: []byte(`{"status":"shipped"}`), status: http.StatusBadRequest},
		{name: "not found", body: validBody, facade: updateErr(domainErrors.ErrNotFound), status: http.StatusNotFound},
		{name: "terminal", body: validBody, facade: updateErr(domainErrors.ErrAlreadyTerminal), status: http.StatusConflict},
		{name: "invalid transition", body: validBody, facade: updateErr(domainErrors.ErrInvalidTransition), status: http.StatusConflict},
		{name: "token not redeemed", body: validBody, facade: updateErr(domainErrors.ErrTokenNotRedeemed), status: http.StatusConflict},
		{name: "internal", body: validBody, facade: updateErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPatch, "/staff/orders/order-1/status", NewStaffHandler(tt.facade).UpdateStatus, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestStaffHandlerCancel(t *testing.T) {
	body, _ := json.Marshal(dto.CancelRequest{Reason: "kitchen closed"})
	facade := testhelpers.CanteenFacadeStub{StaffFacadeStub: testhelpers.StaffFacadeStub{StaffCancelFn: func(ctx context.Context, orderID, reason string) (*model.Order, error) {
		if reason != "kitchen closed" {
			t.Fatalf("unexpected reason %q", reason)
		}
		return &model.Order{ID: orderID, Status: model.OrderStatusCancelled}, nil
	}}}
	resp := performRequest(t, http.MethodPost, "/staff/orders/order-1/cancel", NewStaffHandler(facade).Cancel, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestStaffHandlerCancelFailures(t *testing.T) {
	cancelErr := func(err error) testhelpers.CanteenFacadeStub {
		return testhelpers.CanteenFacadeStub{StaffFacadeStub: testhelpers.StaffFacadeStub{StaffCancelFn: func(context.Context, string, string) (*model.Order, error) {
			return nil, err
		}}}
	}

	tests := []struct {
		name   string
		facade testhelpers.CanteenFacadeStub
		status int
	}{
		{name: "not found", facade: cancelErr(domainErrors.ErrNotFound), status: http.StatusNotFound},
		{name: "terminal", facade: cancelErr(domainErrors.ErrAlreadyTerminal), status: http.StatusConflict},
		{name: "internal", facade: cancelErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/staff/orders/order-1/cancel", NewStaffHandler(tt.facade).Cancel, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestStaffHandlerLookupPickup(t *testing.T) {
	facade := testhelpers.CanteenFacadeStub{
		StaffFacadeStub: testhelpers.StaffFacadeStub{LookupFn: func(ctx context.Context, identifier string) (*model.Order, error) {
			if identifier != "AB12CD34" {
				t.Fatalf("unexpected identifier %q", identifier)
			}
			return &model.Order{ID: "order-1", Status: model.OrderStatusReady}, nil
		}},
		OrderFacadeStub: testhelpers.OrderFacadeStub{OrderItemsFn: func(context.Context, string) ([]model.OrderItem, error) {
			return []model.OrderItem{{MenuItemID: "item-1", Quantity: 1, Price: 45}}, nil
		}},
	}
	resp := performRequest(t, http.MethodGet, "/staff/pickup?token=AB12CD34", NewStaffHandler(facade).LookupPickup, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.PickupLookupResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Order.ID != "order-1" || len(decoded.Order.Items) != 1 {
		t.Fatalf("unexpected lookup: %+v", decoded)
	}
}

func TestStaffHandlerLookupPickupFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.CanteenFacadeStub
		path   string
		status int
	}{
		{name: "missing token", path: "/staff/pickup", status: http.StatusBadRequest},
		{name: "unknown token", path: "/staff/pickup?token=NOPE", facade: testhelpers.CanteenFacadeStub{StaffFacadeStub: testhelpers.StaffFacadeStub{LookupFn: func(context.Context, string) (*model.Order, error) {
			return nil, domainErrors.ErrNotFound
		}}}, status: http.StatusNotFound},
		{name: "internal", path: "/staff/pickup?token=AB12CD34", facade: testhelpers.CanteenFacadeStub{StaffFacadeStub: testhelpers.StaffFacadeStub{LookupFn: func(context.Context, string) (*model.Order, error) {
			return nil, errors.New("boom")
		}}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, tt.path, NewStaffHandler(tt.facade).LookupPickup, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestStaffHandlerRedeemPickup(t *testing.T) {
	body, _ := json.Marshal(dto.RedeemRequest{Identifier: "AB12CD34"})
	facade := testhelpers.CanteenFacadeStub{StaffFacadeStub: testhelpers.StaffFacadeStub{RedeemFn: func(ctx context.Context, identifier string) (*model.Order, error) {
		if identifier != "AB12CD34" {
			t.Fatalf("unexpected identifier %q", identifier)
		}
		return &model.Order{ID: "order-1", Status: model.OrderStatusCompleted, TokenUsed: true}, nil
	}}}
	resp := performRequest(t, http.MethodPost, "/staff/pickup/redeem", NewStaffHandler(facade).RedeemPickup, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Status != "completed" || !decoded.TokenUsed {
		t.Fatalf("unexpected order: %+v", decoded)
	}
}

func TestStaffHandlerRedeemPickupFailures(t *testing.T) {
	validBody, _ := json.Marshal(dto.RedeemRequest{Identifier: "AB12CD34"})
	redeemErr := func(err error) testhelpers.CanteenFacadeStub {
		return testhelpers.CanteenFacadeStub{StaffFacadeStub: testhelpers.StaffFacadeStub{RedeemFn: func(context.Context, string) (*model.Order, error) {
			return nil, err
		}}}
	}

	tests := []struct {
		name   string
		facade testhelpers.CanteenFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "empty identifier", body: []byte(`{"identifier":""}`), status: http.StatusBadRequest},
		{name: "not found", body: validBody, facade: redeemErr(domainErrors.ErrNotFound), status: http.StatusNotFound},
		{name: "token already used", body: validBody, facade: redeemErr(domainErrors.ErrTokenAlreadyUsed), status: http.StatusConflict},
		{name: "not redeemable", body: validBody, facade: redeemErr(domainErrors.ErrOrderNotRedeemable), status: http.StatusConflict},
		{name: "invalid transition", body: validBody, facade: redeemErr(domainErrors.ErrInvalidTransition), status: http.StatusConflict},
		{name: "internal", body: validBody, facade: redeemErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/staff/pickup/redeem", NewStaffHandler(tt.facade).RedeemPickup, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestStaffHandlerCreateSlot(t *testing.T) {
	body, _ := json.Marshal(dto.CreateSlotRequest{Date: "2026-09-01", TimeSlot: "12:30", MaxCapacity: 20})
	facade := testhelpers.CanteenFacadeStub{SlotFacadeStub: testhelpers.SlotFacadeStub{CreateSlotFn: func(ctx context.Context, date, timeSlot string, maxCapacity int) (*model.PickupSlot, error) {
		if date != "2026-09-01" || timeSlot != "12:30" || maxCapacity != 20 {
			t.Fatalf("unexpected slot params %q %q %d", date, timeSlot, maxCapacity)
		}
		return &model.PickupSlot{ID: "slot-1", Date: date, TimeSlot: timeSlot, MaxCapacity: maxCapacity}, nil
	}}}
	resp := performRequest(t, http.MethodPost, "/staff/slots", NewStaffHandler(facade).CreateSlot, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.SlotResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != "slot-1" || decoded.MaxCapacity != 20 || !decoded.Available {
		t.Fatalf("unexpected slot: %+v", decoded)
	}
}

func TestStaffHandlerCreateSlotFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.CanteenFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "missing fields", body: []byte(`{"maxCapacity":10}`), status: http.StatusBadRequest},
		{name: "duplicate", body: []byte(`{"date":"2026-09-01","timeSlot":"12:30","maxCapacity":10}`), facade: testhelpers.CanteenFacadeStub{SlotFacadeStub: testhelpers.SlotFacadeStub{CreateSlotFn: func(context.Context, string, string, int) (*model.PickupSlot, error) {
			return nil, domainErrors.ErrAlreadyExists
		}}}, status: http.StatusConflict},
		{name: "internal", body: []byte(`{"date":"2026-09-01","timeSlot":"12:30","maxCapacity":10}`), facade: testhelpers.CanteenFacadeStub{SlotFacadeStub: testhelpers.SlotFacadeStub{CreateSlotFn: func(context.Context, string, string, int) (*model.PickupSlot, error) {
			return nil, errors.New("boom")
		}}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/staff/slots", NewStaffHandler(tt.facade).CreateSlot, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestStaffHandlerUpdateSlotCapacity(t *testing.T) {
	body, _ := json.Marshal(dto.UpdateCapacityRequest{MaxCapacity: 30})
	facade := testhelpers.CanteenFacadeStub{SlotFacadeStub: testhelpers.SlotFacadeStub{UpdateCapacityFn: func(ctx context.Context, id string, maxCapacity int) (*model.PickupSlot, error) {
		if id != "slot-1" || maxCapacity != 30 {
			t.Fatalf("unexpected update %q %d", id, maxCapacity)
		}
		return &model.PickupSlot{ID: id, MaxCapacity: maxCapacity, CurrentBookings: 5}, nil
	}}}
	resp := performRequest(t, http.MethodPatch, "/staff/slots/slot-1", NewStaffHandler(facade).UpdateSlotCapacity, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.SlotResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.MaxCapacity != 30 || decoded.CurrentBookings != 5 {
		t.Fatalf("unexpected slot: %+v", decoded)
	}
}

func TestStaffHandlerUpdateSlotCapacityFailures(t *testing.T) {
	validBody, _ := json.Marshal(dto.UpdateCapacityRequest{MaxCapacity: 1})
	updateErr := func(err error) testhelpers.CanteenFacadeStub {
		return testhelpers.CanteenFacadeStub{SlotFacadeStub: testhelpers.SlotFacadeStub{UpdateCapacityFn: func(context.Context, string, int) (*model.PickupSlot, error) {
			return nil, err
		}}}
	}

	tests := []struct {
		name   string
		facade testhelpers.CanteenFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid capacity", body: validBody, facade: updateErr(domainErrors.ErrInvalidCapacity), status: http.StatusBadRequest},
		{name: "not found", body: validBody, facade: updateErr(domainErrors.ErrNotFound), status: http.StatusNotFound},
		{name: "internal", body: validBody, facade: updateErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPatch, "/staff/slots/slot-1", NewStaffHandler(tt.facade).UpdateSlotCapacity, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestStaffHandlerDeleteSlot(t *testing.T) {
	facade := testhelpers.CanteenFacadeStub{SlotFacadeStub: testhelpers.SlotFacadeStub{DeleteSlotFn: func(ctx context.Context, id string) error {
		if id != "slot-1" {
			t.Fatalf("unexpected slot id %q", id)
		}
		return nil
	}}}
	resp := performRequest(t, http.MethodDelete, "/staff/slots/slot-1", NewStaffHandler(facade).DeleteSlot, nil, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestStaffHandlerDeleteSlotFailures(t *testing.T) {
	deleteErr := func(err error) testhelpers.CanteenFacadeStub {
		return testhelpers.CanteenFacadeStub{SlotFacadeStub: testhelpers.SlotFacadeStub{DeleteSlotFn: func(context.Context, string) error {
			return err
		}}}
	}

	tests := []struct {
		name   string
		facade testhelpers.CanteenFacadeStub
		status int
	}{
		{name: "not found", facade: deleteErr(domainErrors.ErrNotFound), status: http.StatusNotFound},
		{name: "has bookings", facade: deleteErr(domainErrors.ErrSlotNotEmpty), status: http.StatusConflict},
		{name: "internal", facade: deleteErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodDelete, "/staff/slots/slot-1", NewStaffHandler(tt.facade).DeleteSlot, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestStaffHandlerCreateMenuItem(t *testing.T) {
	body := []byte(`{"name":"Samosa","price":15,"category":"snacks"}`)
	facade := testhelpers.CanteenFacadeStub{MenuFacadeStub: testhelpers.MenuFacadeStub{CreateItemFn: func(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
		if item.Name != "Samosa" || item.Price != 15 || item.Category != "snacks" {
			t.Fatalf("unexpected item: %+v", item)
		}
		if !item.IsAvailable {
			t.Fatal("expected availability to default to true")
		}
		item.ID = "item-1"
		return &item, nil
	}}}
	resp := performRequest(t, http.MethodPost, "/staff/menu", NewStaffHandler(facade).CreateMenuItem, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.MenuItemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != "item-1" || !decoded.IsAvailable {
		t.Fatalf("unexpected item: %+v", decoded)
	}
}

func TestStaffHandlerCreateMenuItemUnavailable(t *testing.T) {
	body := []byte(`{"name":"Samosa","price":15,"category":"snacks","isAvailable":false}`)
	facade := testhelpers.CanteenFacadeStub{MenuFacadeStub: testhelpers.MenuFacadeStub{CreateItemFn: func(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
		if item.IsAvailable {
			t.Fatal("expected explicit availability to be honoured")
		}
		return &item, nil
	}}}
	resp := performRequest(t, http.MethodPost, "/staff/menu", NewStaffHandler(facade).CreateMenuItem, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
}

func TestStaffHandlerCreateMenuItemFailures(t *testing.T) {
	validBody := []byte(`{"name":"Samosa","price":15,"category":"snacks"}`)
	createErr := func(err error) testhelpers.CanteenFacadeStub {
		return testhelpers.CanteenFacadeStub{MenuFacadeStub: testhelpers.MenuFacadeStub{CreateItemFn: func(context.Context, model.MenuItem) (*model.MenuItem, error) {
			return nil, err
		}}}
	}

	tests := []struct {
		name   string
		facade testhelpers.CanteenFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid item", body: validBody, facade: createErr(domainErrors.ErrInvalidMenuItem), status: http.StatusBadRequest},
		{name: "duplicate", body: validBody, facade: createErr(domainErrors.ErrAlreadyExists), status: http.StatusConflict},
		{name: "internal", body: validBody, facade: createErr(errors.New("boom")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/staff/menu", NewStaffHandler(tt.facade).CreateMenuItem, nil, tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}
