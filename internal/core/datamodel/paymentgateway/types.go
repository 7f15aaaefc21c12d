package paymentgateway

import (
	"errors"
)

// CreateLinkRequest describes a hosted-checkout link to be created.
// Amounts are integer currency units, matching the gateway's wire format.
type CreateLinkRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
	Signature   string `json:"signature"`
}

func (r *CreateLinkRequest) Validate() error {
	if r.OrderCode <= 0 {
		return errors.New("orderCode is required")
	}
	if r.Description == "" {
		return errors.New("description is required")
	}
	if r.ReturnURL == "" || r.CancelURL == "" {
		return errors.New("returnUrl and cancelUrl are required")
	}
	return nil
}

// CheckoutData is the gateway's view of a created payment link.
type CheckoutData struct {
	Bin           string `json:"bin"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
	OrderCode     int64  `json:"orderCode"`
	Currency      string `json:"currency"`
	PaymentLinkID string `json:"paymentLinkId"`
	Status        string `json:"status"`
	CheckoutURL   string `json:"checkoutUrl"`
	QRCode        string `json:"qrCode"`
}

type CreateLinkResponse struct {
	Code      string       `json:"code"`
	Desc      string       `json:"desc"`
	Data      CheckoutData `json:"data"`
	Signature string       `json:"signature"`
}

// WebhookData holds the verified fields of a payment-confirmation callback.
type WebhookData struct {
	OrderCode            int64   `json:"orderCode"`
	Amount               int64   `json:"amount"`
	Description          string  `json:"description"`
	AccountNumber        string  `json:"accountNumber"`
	Reference            string  `json:"reference"`
	TransactionDateTime  string  `json:"transactionDateTime"`
	Currency             string  `json:"currency"`
	PaymentLinkID        string  `json:"paymentLinkId"`
	Code                 string  `json:"code"`
	Desc                 string  `json:"desc"`
	CounterAccountNumber *string `json:"counterAccountNumber"`
	CounterAccountName   *string `json:"counterAccountName"`
}
