package okx

import (
	"encoding/json"

	"p2p-price-api/internal/models"
	"p2p-price-api/internal/numeric"
)

type booksResponse struct {
	Data struct {
		Buy  []bookItem `json:"buy"`
		Sell []bookItem `json:"sell"`
	} `json:"data"`
}

type bookItem struct {
	Price                  numeric.Flex      `json:"price"`
	AvailableAmount        numeric.Flex      `json:"availableAmount"`
	QuoteMinAmountPerOrder numeric.Flex      `json:"quoteMinAmountPerOrder"`
	QuoteMaxAmountPerOrder numeric.Flex      `json:"quoteMaxAmountPerOrder"`
	NickName               string            `json:"nickName"`
	PaymentMethods         []json.RawMessage `json:"paymentMethods"`
}

func mapAd(item bookItem) models.Advertisement {
	merchant := item.NickName
	if merchant == "" {
		merchant = "Unknown"
	}

	payments := []string{}
	for _, raw := range item.PaymentMethods {
		if name := paymentName(raw); name != "" {
			payments = append(payments, name)
		}
	}

	return models.Advertisement{
		Price:           item.Price.Float64(),
		AvailableAmount: item.AvailableAmount.Float64(),
		MinAmount:       item.QuoteMinAmountPerOrder.Float64(),
		MaxAmount:       item.QuoteMaxAmountPerOrder.Float64(),
		Merchant:        merchant,
		PaymentMethods:  payments,
	}
}

// paymentName resolves one paymentMethods element, which OKX returns either
// as a plain string or as an object with a paymentMethod field.
func paymentName(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.PaymentMethod
	}
	return ""
}
