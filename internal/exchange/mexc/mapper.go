package mexc

import (
	"strings"

	"p2p-price-api/internal/models"
	"p2p-price-api/internal/numeric"
)

// marketResponse is the shape of the MEXC P2P market endpoint.
type marketResponse struct {
	Data []marketItem `json:"data"`
}

type marketItem struct {
	Price               numeric.Flex `json:"price"`
	AvailableQuantity   numeric.Flex `json:"availableQuantity"`
	MinTradeLimit       numeric.Flex `json:"minTradeLimit"`
	MaxTradeLimit       numeric.Flex `json:"maxTradeLimit"`
	PayMethod           string       `json:"payMethod"`
	MerchantTradeEnable *bool        `json:"merchantTradeEnable"`
	Merchant            struct {
		NickName string `json:"nickName"`
	} `json:"merchant"`
}

// tradeEnabled reports whether the merchant currently accepts trades. MEXC
// omits the flag for ads that were never restricted, so absence means enabled.
func (m marketItem) tradeEnabled() bool {
	return m.MerchantTradeEnable == nil || *m.MerchantTradeEnable
}

// paymentMethodResponse is the shape of the payment-method listing endpoint.
// IDs arrive as numbers or strings depending on the method.
type paymentMethodResponse struct {
	Data []paymentMethod `json:"data"`
}

type paymentMethod struct {
	ID     any    `json:"id"`
	NameEn string `json:"nameEn"`
	Name   string `json:"name"`
	NameCn string `json:"nameCn"`
}

// displayName picks the most readable name available, falling back to the
// raw identifier.
func (p paymentMethod) displayName(id string) string {
	switch {
	case p.NameEn != "":
		return p.NameEn
	case p.Name != "":
		return p.Name
	case p.NameCn != "":
		return p.NameCn
	default:
		return id
	}
}

func (c *Client) mapAd(item marketItem) models.Advertisement {
	merchant := item.Merchant.NickName
	if merchant == "" {
		merchant = "Unknown"
	}

	payments := []string{}
	for _, id := range strings.Split(item.PayMethod, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		payments = append(payments, c.payments.methodName(id))
	}

	return models.Advertisement{
		Price:           item.Price.Float64(),
		AvailableAmount: item.AvailableQuantity.Float64(),
		MinAmount:       item.MinTradeLimit.Float64(),
		MaxAmount:       item.MaxTradeLimit.Float64(),
		Merchant:        merchant,
		PaymentMethods:  payments,
	}
}
