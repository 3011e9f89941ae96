package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codboost/internal/models"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnavailable covers network failures, timeouts and 5xx responses.
	ErrUnavailable = pkgerrors.New("shopify unavailable")
	// ErrAuth covers invalid or expired access tokens.
	ErrAuth = pkgerrors.New("shopify authentication failed")
)

// RejectedError is a 4xx validation response from the Admin API. The body
// is kept for diagnostics.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("shopify rejected request: status %d: %s", e.StatusCode, e.Body)
}

// OrderResult is the mirror-side identity of a created order.
type OrderResult struct {
	OrderID           int64
	OrderNumber       int
	FinancialStatus   string
	FulfillmentStatus string
	TotalPrice        string
	Currency          string
}

type Client struct {
	httpClient *http.Client
	apiVersion string
	// baseURL overrides the per-shop admin URL in tests.
	baseURL string
}

func NewClient(apiVersion string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiVersion: apiVersion,
	}
}

// WithBaseURL points the client at a fixed endpoint instead of
// https://{shop}/admin/api/{version}. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

func (c *Client) endpoint(shop, path string) string {
	if c.baseURL != "" {
		return c.baseURL + "/" + path
	}
	return fmt.Sprintf("https://%s/admin/api/%s/%s", shop, c.apiVersion, path)
}

type address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

type customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type lineItem struct {
	VariantID int64  `json:"variant_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type shippingLine struct {
	Title string `json:"title"`
	Price string `json:"price"`
	Code  string `json:"code"`
}

type noteAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type orderPayload struct {
	Customer               customer        `json:"customer"`
	ShippingAddress        address         `json:"shipping_address"`
	BillingAddress         address         `json:"billing_address"`
	LineItems              []lineItem      `json:"line_items"`
	FinancialStatus        string          `json:"financial_status"`
	Note                   string          `json:"note"`
	Tags                   string          `json:"tags"`
	Gateway                string          `json:"gateway"`
	ShippingLines          []shippingLine  `json:"shipping_lines"`
	NoteAttributes         []noteAttribute `json:"note_attributes"`
	SourceName             string          `json:"source_name"`
	SendReceipt            bool            `json:"send_receipt"`
	SendFulfillmentReceipt bool            `json:"send_fulfillment_receipt"`
}

type remoteOrder struct {
	ID                int64           `json:"id"`
	OrderNumber       int             `json:"order_number"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	TotalPrice        string          `json:"total_price"`
	Currency          string          `json:"currency"`
	CancelledAt       *time.Time      `json:"cancelled_at"`
	NoteAttributes    []noteAttribute `json:"note_attributes"`
}

// CreateOrder submits one COD order to the Admin API. Exactly one attempt
// is made; the caller owns duplicate prevention.
func (c *Client) CreateOrder(ctx context.Context, order models.CodOrder, sess *Session) (OrderResult, error) {
	first, last := splitName(order.CustomerName)

	email := order.CustomerEmail
	if email == "" {
		email = fmt.Sprintf("cod+%d@temp.com", time.Now().UnixMilli())
	}

	addr := address{
		FirstName:   first,
		LastName:    last,
		Address1:    order.DeliveryAddress,
		City:        order.DeliveryCity,
		Zip:         order.DeliveryPostalCode,
		Country:     "Morocco",
		CountryCode: "MA",
		Phone:       order.CustomerPhone,
	}

	item := lineItem{
		Quantity: order.Quantity,
		Price:    money(order.UnitPrice),
	}
	if variantID, err := strconv.ParseInt(order.VariantID, 10, 64); err == nil && variantID > 0 {
		item.VariantID = variantID
	} else {
		item.Title = order.ProductTitle
	}

	note := fmt.Sprintf("Commande COD - Paiement à la livraison\nAdresse: %s, %s\nTéléphone: %s",
		order.DeliveryAddress, order.DeliveryCity, order.CustomerPhone)
	if order.OrderNotes != "" {
		note += "\nNotes: " + order.OrderNotes
	}

	payload := orderPayload{
		Customer:        customer{FirstName: first, LastName: last, Email: email, Phone: order.CustomerPhone},
		ShippingAddress: addr,
		BillingAddress:  addr,
		LineItems:       []lineItem{item},
		FinancialStatus: "pending",
		Note:            note,
		Tags:            "COD,Cash-on-Delivery,Paiement-Livraison",
		Gateway:         "Cash on Delivery",
		ShippingLines:   []shippingLine{},
		NoteAttributes: []noteAttribute{
			{Name: "Mode de paiement", Value: "COD (Cash on Delivery)"},
			{Name: "Type de commande", Value: "Formulaire COD"},
			{Name: "Statut COD", Value: "En attente de confirmation"},
		},
		SourceName: "COD Form",
	}
	if order.DeliveryFee > 0 {
		payload.ShippingLines = []shippingLine{{
			Title: "Livraison COD",
			Price: money(order.DeliveryFee),
			Code:  "COD_DELIVERY",
		}}
	}

	var resp struct {
		Order remoteOrder `json:"order"`
	}
	err := c.do(ctx, sess, http.MethodPost, c.endpoint(sess.Shop, "orders.json"),
		map[string]interface{}{"order": payload}, &resp)
	if err != nil {
		return OrderResult{}, err
	}

	logrus.WithFields(logrus.Fields{
		"shop":         sess.Shop,
		"order_id":     resp.Order.ID,
		"order_number": resp.Order.OrderNumber,
	}).Info("shopify cod order created")

	return OrderResult{
		OrderID:           resp.Order.ID,
		OrderNumber:       resp.Order.OrderNumber,
		FinancialStatus:   resp.Order.FinancialStatus,
		FulfillmentStatus: resp.Order.FulfillmentStatus,
		TotalPrice:        resp.Order.TotalPrice,
		Currency:          resp.Order.Currency,
	}, nil
}

// UpdateOrderStatus maps a local status onto the remote order. The call is
// idempotent: when the remote order already reflects the target state it
// returns without writing.
func (c *Client) UpdateOrderStatus(ctx context.Context, shopifyOrderID int64, status string, sess *Session) error {
	var current struct {
		Order remoteOrder `json:"order"`
	}
	path := fmt.Sprintf("orders/%d.json", shopifyOrderID)
	if err := c.do(ctx, sess, http.MethodGet, c.endpoint(sess.Shop, path), nil, &current); err != nil {
		return err
	}
	if remoteSatisfies(current.Order, status) {
		return nil
	}

	update := map[string]interface{}{}
	switch status {
	case models.StatusConfirmed:
		update["note_attributes"] = []noteAttribute{
			{Name: "Statut COD", Value: "Confirmée - En préparation"},
		}
	case models.StatusDelivered:
		update["financial_status"] = "paid"
		update["fulfillment_status"] = "fulfilled"
		update["note_attributes"] = []noteAttribute{
			{Name: "Statut COD", Value: "Livrée et payée"},
			{Name: "Date de paiement", Value: time.Now().Format("02/01/2006")},
		}
	case models.StatusCancelled:
		update["cancelled_at"] = time.Now().UTC().Format(time.RFC3339)
		update["cancel_reason"] = "customer"
		update["note_attributes"] = []noteAttribute{
			{Name: "Statut COD", Value: "Annulée"},
		}
	default:
		return nil
	}

	return c.do(ctx, sess, http.MethodPut, c.endpoint(sess.Shop, path),
		map[string]interface{}{"order": update}, nil)
}

func remoteSatisfies(o remoteOrder, status string) bool {
	switch status {
	case models.StatusDelivered:
		return o.FinancialStatus == "paid" && o.FulfillmentStatus == "fulfilled"
	case models.StatusCancelled:
		return o.CancelledAt != nil
	case models.StatusConfirmed:
		for _, a := range o.NoteAttributes {
			if a.Name == "Statut COD" && a.Value == "Confirmée - En préparation" {
				return true
			}
		}
		return false
	}
	return false
}

func (c *Client) do(ctx context.Context, sess *Session, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(err, "encode shopify request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return pkgerrors.Wrap(err, "build shopify request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", sess.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrapf(ErrUnavailable, "%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgerrors.Wrapf(ErrAuth, "status %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return pkgerrors.Wrapf(ErrUnavailable, "status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return &RejectedError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return pkgerrors.Wrap(err, "decode shopify response")
		}
	}
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "Client", "COD"
	}
	if len(parts) == 1 {
		return parts[0], "COD"
	}
	return parts[0], strings.Join(parts[1:], " ")
}
