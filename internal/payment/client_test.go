package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() CreateParams {
	return CreateParams{
		OrderID:       55,
		OrderNumber:   "ORD-1A2B3C4D",
		TotalAmount:   200,
		CustomerEmail: "ivan@example.com",
		Items: []ReceiptItem{
			{Name: "IP camera", Quantity: 2, Price: 100},
		},
	}
}

func TestClient_Create_Success(t *testing.T) {
	var gotAuth, gotIdempotence, gotContentType string
	var gotBody map[string]interface{}

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotIdempotence = r.Header.Get("Idempotence-Key")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":           "pay_1",
			"confirmation": map[string]string{"confirmation_url": "https://pay/x"},
		})
	}))
	defer gateway.Close()

	client := NewClient(gateway.URL, "shop42", "sk_test", "https://shop.example.com/order-success")
	pay, err := client.Create(context.Background(), testParams())

	require.NoError(t, err)
	assert.Equal(t, "pay_1", pay.ID)
	assert.Equal(t, "https://pay/x", pay.ConfirmationURL)

	expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("shop42:sk_test"))
	assert.Equal(t, expectedAuth, gotAuth)
	assert.NotEmpty(t, gotIdempotence, "Idempotence-Key header must be set")
	assert.Equal(t, "application/json", gotContentType)

	amount := gotBody["amount"].(map[string]interface{})
	assert.Equal(t, "200.00", amount["value"])
	assert.Equal(t, "RUB", amount["currency"])

	conf := gotBody["confirmation"].(map[string]interface{})
	assert.Equal(t, "redirect", conf["type"])
	assert.Equal(t, "https://shop.example.com/order-success", conf["return_url"])

	assert.Equal(t, true, gotBody["capture"])
	assert.Equal(t, "Order ORD-1A2B3C4D", gotBody["description"])

	meta := gotBody["metadata"].(map[string]interface{})
	assert.Equal(t, "55", meta["order_id"])
	assert.Equal(t, "ORD-1A2B3C4D", meta["order_number"])

	rec := gotBody["receipt"].(map[string]interface{})
	recItems := rec["items"].([]interface{})
	require.Len(t, recItems, 1)
	item := recItems[0].(map[string]interface{})
	assert.Equal(t, "IP camera", item["description"])
	assert.Equal(t, "2", item["quantity"])
	assert.Equal(t, float64(1), item["vat_code"])
	itemAmount := item["amount"].(map[string]interface{})
	assert.Equal(t, "100.00", itemAmount["value"])
}

func TestClient_Create_NoEmailOmitsReceipt(t *testing.T) {
	var gotBody map[string]interface{}
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "pay_2"})
	}))
	defer gateway.Close()

	params := testParams()
	params.CustomerEmail = ""

	client := NewClient(gateway.URL, "shop42", "sk_test", "https://shop.example.com/order-success")
	_, err := client.Create(context.Background(), params)

	require.NoError(t, err)
	_, hasReceipt := gotBody["receipt"]
	assert.False(t, hasReceipt, "receipt must be omitted without a customer email")
}

func TestClient_Create_ItemWithoutNameGetsDefaultDescription(t *testing.T) {
	var gotBody map[string]interface{}
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "pay_3"})
	}))
	defer gateway.Close()

	params := testParams()
	params.Items[0].Name = ""

	client := NewClient(gateway.URL, "shop42", "sk_test", "https://shop.example.com/order-success")
	_, err := client.Create(context.Background(), params)

	require.NoError(t, err)
	rec := gotBody["receipt"].(map[string]interface{})
	item := rec["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Item", item["description"])
}

func TestClient_Create_GatewayRejection(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","code":"invalid_credentials"}`))
	}))
	defer gateway.Close()

	client := NewClient(gateway.URL, "shop42", "bad_key", "https://shop.example.com/order-success")
	pay, err := client.Create(context.Background(), testParams())

	require.Error(t, err)
	assert.Nil(t, pay)

	var gatewayErr *GatewayError
	require.True(t, errors.As(err, &gatewayErr), "error should be a *GatewayError")
	assert.Equal(t, http.StatusUnauthorized, gatewayErr.StatusCode)
	// The gateway's error payload is preserved intact.
	assert.JSONEq(t, `{"type":"error","code":"invalid_credentials"}`, gatewayErr.Body)
}

func TestClient_Create_TransportError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	gateway.Close() // Shut down immediately to force a connection failure.

	client := NewClient(gateway.URL, "shop42", "sk_test", "https://shop.example.com/order-success")
	pay, err := client.Create(context.Background(), testParams())

	require.Error(t, err)
	assert.Nil(t, pay)

	var gatewayErr *GatewayError
	assert.False(t, errors.As(err, &gatewayErr), "transport errors are not gateway rejections")
}
