package bybit

import (
	"encoding/json"
	"fmt"

	"p2p-price-api/internal/models"
	"p2p-price-api/internal/numeric"
)

// paymentNames maps the bare payment identifiers Bybit sometimes returns to
// display names. Identifiers outside the table fall back to a placeholder.
var paymentNames = map[string]string{
	"629": "CBE",
	"630": "Tele Birr",
	"631": "Awash Bank",
	"632": "Bank of Abyssinia",
	"633": "Dashen Bank",
	"634": "Wegagen Bank",
	"635": "Hibret Bank",
	"636": "Nib Bank",
	"637": "Oromia Bank",
	"638": "Ebirr",
	"639": "Amole",
	"6":   "Bank Transfer",
	"14":  "Bank Transfer",
	"40":  "Mobile Money",
	"41":  "Mobile Money",
	"97":  "Mobile Money",
	"178": "Bank Transfer",
	"582": "Payoneer",
	"62":  "Payoneer",
}

// onlineRequest is the body of the fiat/otc/item/online endpoint.
type onlineRequest struct {
	UserID     string   `json:"userId"`
	TokenID    string   `json:"tokenId"`
	CurrencyID string   `json:"currencyId"`
	Payment    []string `json:"payment"`
	Side       string   `json:"side"`
	Size       string   `json:"size"`
	Page       string   `json:"page"`
	Amount     string   `json:"amount"`
	AuthMaker  bool     `json:"authMaker"`
	CanTrade   bool     `json:"canTrade"`
}

type onlineResponse struct {
	Result struct {
		Items []onlineItem `json:"items"`
	} `json:"result"`
}

type onlineItem struct {
	Price        numeric.Flex      `json:"price"`
	LastQuantity numeric.Flex      `json:"lastQuantity"`
	Quantity     numeric.Flex      `json:"quantity"`
	MinAmount    numeric.Flex      `json:"minAmount"`
	MaxAmount    numeric.Flex      `json:"maxAmount"`
	NickName     string            `json:"nickName"`
	Payments     []json.RawMessage `json:"payments"`

	TradingPreferenceSet struct {
		HasUnPostAd numeric.Flex `json:"hasUnPostAd"`
	} `json:"tradingPreferenceSet"`
}

// requiresPostedAd reports whether the maker only trades with takers that
// have posted their own ad. Such ads are not takeable by most callers and are
// excluded from the snapshot.
func (i onlineItem) requiresPostedAd() bool {
	return i.TradingPreferenceSet.HasUnPostAd.Float64() != 0
}

// paymentEntry covers the object form of a payments element.
type paymentEntry struct {
	PaymentName string `json:"paymentName"`
	PaymentType string `json:"paymentType"`
}

func mapAd(item onlineItem) models.Advertisement {
	merchant := item.NickName
	if merchant == "" {
		merchant = "Unknown"
	}

	amount := item.LastQuantity.Float64()
	if amount == 0 {
		amount = item.Quantity.Float64()
	}

	payments := []string{}
	for _, raw := range item.Payments {
		payments = append(payments, paymentName(raw))
	}

	return models.Advertisement{
		Price:           item.Price.Float64(),
		AvailableAmount: amount,
		MinAmount:       item.MinAmount.Float64(),
		MaxAmount:       item.MaxAmount.Float64(),
		Merchant:        merchant,
		PaymentMethods:  payments,
	}
}

// paymentName resolves one payments element, which Bybit returns either as an
// object carrying its own name or as a bare identifier.
func paymentName(raw json.RawMessage) string {
	var entry paymentEntry
	if err := json.Unmarshal(raw, &entry); err == nil {
		if entry.PaymentName != "" {
			return entry.PaymentName
		}
		if entry.PaymentType != "" {
			return entry.PaymentType
		}
	}

	var id any
	if err := json.Unmarshal(raw, &id); err != nil {
		return string(raw)
	}
	key := fmt.Sprint(id)
	if f, ok := id.(float64); ok {
		key = fmt.Sprintf("%.0f", f)
	}
	if name, ok := paymentNames[key]; ok {
		return name
	}
	return fmt.Sprintf("Method %s", key)
}
