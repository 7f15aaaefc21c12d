package paymentgateway_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ptnguyen/fundflow/internal"
	"github.com/ptnguyen/fundflow/internal/paymentgateway"
)

func TestPaymentGateway(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PaymentGateway Suite")
}

const testChecksumKey = "test-checksum-key"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(baseURL string) *paymentgateway.Client {
	return paymentgateway.NewClient(internal.PaymentConfig{
		BaseURL:     baseURL,
		ClientID:    "client-id",
		APIKey:      "api-key",
		ChecksumKey: testChecksumKey,
		ReturnURL:   "https://fundflow.dev/return",
		CancelURL:   "https://fundflow.dev/cancel",
		Timeout:     5 * time.Second,
	}, testLogger())
}

// signData mirrors the gateway's webhook signing: data fields sorted by
// key, joined as a query string, HMAC-SHA256 hex.
func signData(data map[string]interface{}) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		v := data[k]
		var s string
		switch val := v.(type) {
		case nil:
			s = ""
		case string:
			s = val
		case int:
			s = fmt.Sprintf("%d", val)
		case int64:
			s = fmt.Sprintf("%d", val)
		default:
			raw, _ := json.Marshal(val)
			s = string(raw)
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, s))
	}

	mac := hmac.New(sha256.New, []byte(testChecksumKey))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookPayload(data map[string]interface{}, signature string) []byte {
	envelope := map[string]interface{}{
		"code":      "00",
		"desc":      "success",
		"data":      data,
		"signature": signature,
	}
	raw, _ := json.Marshal(envelope)
	return raw
}

var _ = Describe("Client", func() {
	Describe("CreatePaymentLink", func() {
		It("should send a signed request and return checkout data", func() {
			var received map[string]interface{}
			var gotClientID, gotAPIKey string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/v2/payment-requests"))
				gotClientID = r.Header.Get("x-client-id")
				gotAPIKey = r.Header.Get("x-api-key")
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())

				json.NewEncoder(w).Encode(map[string]interface{}{
					"code": "00",
					"desc": "success",
					"data": map[string]interface{}{
						"orderCode":     42,
						"amount":        50000,
						"checkoutUrl":   "https://pay.example.com/42",
						"qrCode":        "000201010212",
						"paymentLinkId": "pl_42",
						"status":        "PENDING",
					},
				})
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			checkout, err := client.CreatePaymentLink(context.Background(), 42, 50000, "TS-1-1722500000")

			Expect(err).ToNot(HaveOccurred())
			Expect(checkout.CheckoutURL).To(Equal("https://pay.example.com/42"))
			Expect(gotClientID).To(Equal("client-id"))
			Expect(gotAPIKey).To(Equal("api-key"))

			// The request must carry the canonical create signature.
			mac := hmac.New(sha256.New, []byte(testChecksumKey))
			mac.Write([]byte("amount=50000&cancelUrl=https://fundflow.dev/cancel&description=TS-1-1722500000&orderCode=42&returnUrl=https://fundflow.dev/return"))
			Expect(received["signature"]).To(Equal(hex.EncodeToString(mac.Sum(nil))))
		})

		It("should reject a non-zero gateway response code", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"code": "231",
					"desc": "duplicate order code",
				})
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.CreatePaymentLink(context.Background(), 42, 50000, "TS-1-1722500000")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("231"))
		})

		It("should reject an HTTP error status", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.CreatePaymentLink(context.Background(), 42, 50000, "TS-1-1722500000")
			Expect(err).To(HaveOccurred())
		})

		It("should refuse to send an invalid request", func() {
			client := newTestClient("http://unused.example.com")
			_, err := client.CreatePaymentLink(context.Background(), 0, 50000, "TS-1-1722500000")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("VerifyWebhook", func() {
		var client *paymentgateway.Client
		var data map[string]interface{}

		BeforeEach(func() {
			client = newTestClient("http://unused.example.com")
			data = map[string]interface{}{
				"orderCode":   int64(42),
				"amount":      int64(50000),
				"description": "TS-1-1722500000",
				"reference":   "FT1234",
				"currency":    "VND",
			}
		})

		It("should accept a correctly signed payload", func() {
			payload := webhookPayload(data, signData(data))

			result, err := client.VerifyWebhook(payload)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.OrderCode).To(Equal(int64(42)))
			Expect(result.Amount).To(Equal(int64(50000)))
			Expect(result.Description).To(Equal("TS-1-1722500000"))
		})

		It("should reject a payload whose data was tampered with", func() {
			signature := signData(data)
			data["amount"] = int64(9_999_999)
			payload := webhookPayload(data, signature)

			_, err := client.VerifyWebhook(payload)
			Expect(err).To(Equal(paymentgateway.ErrInvalidSignature))
		})

		It("should reject a wrong signature outright", func() {
			payload := webhookPayload(data, "deadbeef")

			_, err := client.VerifyWebhook(payload)
			Expect(err).To(Equal(paymentgateway.ErrInvalidSignature))
		})

		It("should reject an envelope without data or signature", func() {
			_, err := client.VerifyWebhook([]byte(`{"code":"00","desc":"success"}`))
			Expect(err).To(HaveOccurred())
			Expect(err).ToNot(Equal(paymentgateway.ErrInvalidSignature))
		})

		It("should reject malformed JSON", func() {
			_, err := client.VerifyWebhook([]byte(`not json at all`))
			Expect(err).To(HaveOccurred())
			Expect(err).ToNot(Equal(paymentgateway.ErrInvalidSignature))
		})

		It("should sign null fields as empty strings", func() {
			data["counterAccountName"] = nil
			payload := webhookPayload(data, signData(data))

			result, err := client.VerifyWebhook(payload)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.CounterAccountName).To(BeNil())
		})
	})
})
