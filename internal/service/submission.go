package service

import (
	"bytes"
	"strconv"
	"strings"
)

// FlexFloat and FlexInt accept both JSON numbers and numeric strings.
// Storefront forms post everything as strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

type FlexInt int

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		// forms sometimes post "2.0"
		fv, ferr := strconv.ParseFloat(string(b), 64)
		if ferr != nil {
			return err
		}
		v = int(fv)
	}
	*i = FlexInt(v)
	return nil
}

// OrderSubmission is the canonical shape of a storefront form payload.
// Field-name guessing happens in the storefront script, not here.
type OrderSubmission struct {
	ProductID    string  `json:"product_id"`
	VariantID    string  `json:"variant_id"`
	ProductTitle string  `json:"product_title"`
	ProductImage string  `json:"product_image"`
	Quantity     FlexInt `json:"quantity"`

	UnitPrice   FlexFloat  `json:"product_price"`
	DeliveryFee *FlexFloat `json:"delivery_fee"`
	Total       *FlexFloat `json:"total"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`

	DeliveryAddress    string `json:"delivery_address"`
	DeliveryCity       string `json:"delivery_city"`
	DeliveryPostalCode string `json:"delivery_postal_code"`
	OrderNotes         string `json:"order_notes"`
}

func (s *OrderSubmission) trimmed() OrderSubmission {
	out := *s
	out.CustomerName = strings.TrimSpace(out.CustomerName)
	out.CustomerPhone = strings.TrimSpace(out.CustomerPhone)
	out.CustomerEmail = strings.TrimSpace(out.CustomerEmail)
	out.DeliveryAddress = strings.TrimSpace(out.DeliveryAddress)
	out.DeliveryCity = strings.TrimSpace(out.DeliveryCity)
	return out
}
