package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	Catalog  *catalog.Paginator
	Cart     *cart.Engine
	Auth     *auth.Service
	Checkout *checkout.Service
}

type AddItemReq struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=0"`
}

type RegisterReq struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword *string `json:"confirm_password"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type productView struct {
	catalog.Product
	DiscountedPrice float64  `json:"discounted_price"`
	PriceDisplay    string   `json:"price_display"`
	Gallery         []string `json:"gallery"`
}

type lineView struct {
	cart.Line
	UnitPrice       float64 `json:"unit_price"`
	Subtotal        float64 `json:"subtotal"`
	SubtotalDisplay string  `json:"subtotal_display"`
}

type cartView struct {
	Lines        []lineView `json:"lines"`
	Count        int        `json:"count"`
	Badge        string     `json:"badge"`
	Total        float64    `json:"total"`
	TotalDisplay string     `json:"total_display"`
}

type receiptView struct {
	checkout.Receipt
	SubtotalDisplay string `json:"subtotal_display"`
	DeliveryDisplay string `json:"delivery_display"`
	TotalDisplay    string `json:"total_display"`
}

type sessionResp struct {
	Authenticated bool           `json:"authenticated"`
	User          *auth.SafeUser `json:"user,omitempty"`
}

func (h *Handler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Post("/products/more", h.loadMore)
	r.Get("/products/{id}", h.getProduct)

	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Delete("/cart/items/{id}", h.removeItem)
	r.Post("/cart/items/{id}/increase", h.increaseItem)
	r.Post("/cart/items/{id}/decrease", h.decreaseItem)
	r.Delete("/cart", h.clearCart)

	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Get("/auth/session", h.session)
	r.Post("/auth/logout", h.logout)

	r.Post("/checkout", h.checkout)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		writeJSON(w, http.StatusOK, h.Catalog.Search(q))
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.Current())
}

func (h *Handler) loadMore(w http.ResponseWriter, r *http.Request) {
	advanced := h.Catalog.LoadMore()
	writeJSON(w, http.StatusOK, struct {
		catalog.Page
		Advanced bool `json:"advanced"`
	}{h.Catalog.Current(), advanced})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Catalog.Catalog().FindByID(chi.URLParam(r, "id"))
	if !ok {
		writeMessage(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, productView{
		Product:         p,
		DiscountedPrice: p.DiscountedPrice(),
		PriceDisplay:    cart.FormatMoney(p.DiscountedPrice()),
		Gallery:         p.Gallery(),
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCartView(h.Cart.Snapshot()))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemReq
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := checkStruct(req).Err(); err != nil {
		writeError(w, err)
		return
	}
	p, ok := h.Catalog.Catalog().FindByID(strconv.FormatInt(req.ProductID, 10))
	if !ok {
		writeMessage(w, http.StatusNotFound, "product not found")
		return
	}
	if p.Stock == 0 {
		writeMessage(w, http.StatusConflict, "product is out of stock")
		return
	}
	h.Cart.AddN(p, clampQuantity(req.Quantity, p.Stock))
	writeJSON(w, http.StatusOK, toCartView(h.Cart.Snapshot()))
}

// clampQuantity keeps a requested quantity within 1..stock.
func clampQuantity(n, stock int) int {
	if n < 1 {
		n = 1
	}
	if n > stock {
		n = stock
	}
	return n
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request)   { h.mutateLine(w, r, h.Cart.Remove) }
func (h *Handler) increaseItem(w http.ResponseWriter, r *http.Request) { h.mutateLine(w, r, h.Cart.Increase) }
func (h *Handler) decreaseItem(w http.ResponseWriter, r *http.Request) { h.mutateLine(w, r, h.Cart.Decrease) }

// mutateLine applies op to the line named by {id}. Unknown ids are a no-op, as in the engine.
func (h *Handler) mutateLine(w http.ResponseWriter, r *http.Request, op func(int64)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}
	op(id)
	writeJSON(w, http.StatusOK, toCartView(h.Cart.Snapshot()))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.Cart.Clear()
	writeJSON(w, http.StatusOK, toCartView(h.Cart.Snapshot()))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterReq
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	fields := validation.Fields{
		validation.FieldName:     req.Name,
		validation.FieldEmail:    strings.TrimSpace(req.Email),
		validation.FieldPassword: req.Password,
	}
	if req.ConfirmPassword != nil {
		fields[validation.FieldConfirmPassword] = *req.ConfirmPassword
	}
	if err := validation.Check(fields).Err(); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.Check(validation.Fields{
		validation.FieldEmail:    strings.TrimSpace(req.Email),
		validation.FieldPassword: req.Password,
	}).Err(); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, ok := h.Auth.Session(ctx)
	if !ok {
		writeJSON(w, http.StatusOK, sessionResp{})
		return
	}
	writeJSON(w, http.StatusOK, sessionResp{Authenticated: true, User: &u})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Auth.ClearSession(ctx); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var customer *auth.SafeUser
	if u, ok := h.Auth.Session(ctx); ok {
		customer = &u
	}
	rc, err := h.Checkout.PlaceOrder(ctx, customer, middleware.GetReqID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receiptView{
		Receipt:         rc,
		SubtotalDisplay: cart.FormatMoney(rc.Subtotal),
		DeliveryDisplay: deliveryDisplay(rc.DeliveryFee),
		TotalDisplay:    cart.FormatMoney(rc.Total),
	})
}

func deliveryDisplay(fee float64) string {
	if fee == 0 {
		return "FREE"
	}
	return cart.FormatMoney(fee)
}

func toCartView(s cart.Snapshot) cartView {
	v := cartView{
		Lines:        make([]lineView, 0, len(s.Lines)),
		Count:        s.Count,
		Badge:        cart.Badge(s.Count),
		Total:        s.Total,
		TotalDisplay: cart.FormatMoney(s.Total),
	}
	for _, l := range s.Lines {
		v.Lines = append(v.Lines, lineView{
			Line:            l,
			UnitPrice:       l.UnitPrice(),
			Subtotal:        l.Subtotal(),
			SubtotalDisplay: cart.FormatMoney(l.Subtotal()),
		})
	}
	return v
}
