package binance

import (
	"p2p-price-api/internal/models"
	"p2p-price-api/internal/numeric"
)

// searchRequest is the body of the adv/search endpoint.
type searchRequest struct {
	Fiat              string   `json:"fiat"`
	Page              int      `json:"page"`
	Rows              int      `json:"rows"`
	TradeType         string   `json:"tradeType"`
	Asset             string   `json:"asset"`
	Countries         []string `json:"countries"`
	ProMerchantAds    bool     `json:"proMerchantAds"`
	ShieldMerchantAds bool     `json:"shieldMerchantAds"`
	PublisherType     *string  `json:"publisherType"`
	PayTypes          []string `json:"payTypes"`
	Classifies        []string `json:"classifies"`
}

type searchResponse struct {
	Data []searchItem `json:"data"`
}

type searchItem struct {
	Adv        advDetail  `json:"adv"`
	Advertiser advertiser `json:"advertiser"`
}

type advDetail struct {
	Price                numeric.Flex  `json:"price"`
	SurplusAmount        numeric.Flex  `json:"surplusAmount"`
	TradableQuantity     numeric.Flex  `json:"tradableQuantity"`
	MinSingleTransAmount numeric.Flex  `json:"minSingleTransAmount"`
	MaxSingleTransAmount numeric.Flex  `json:"maxSingleTransAmount"`
	TradeMethods         []tradeMethod `json:"tradeMethods"`
}

type advertiser struct {
	NickName string `json:"nickName"`
}

type tradeMethod struct {
	TradeMethodName string `json:"tradeMethodName"`
	Identifier      string `json:"identifier"`
}

func mapAd(item searchItem) models.Advertisement {
	merchant := item.Advertiser.NickName
	if merchant == "" {
		merchant = "Unknown"
	}

	amount := item.Adv.SurplusAmount.Float64()
	if amount == 0 {
		amount = item.Adv.TradableQuantity.Float64()
	}

	payments := []string{}
	for _, m := range item.Adv.TradeMethods {
		name := m.TradeMethodName
		if name == "" {
			name = m.Identifier
		}
		payments = append(payments, name)
	}

	return models.Advertisement{
		Price:           item.Adv.Price.Float64(),
		AvailableAmount: amount,
		MinAmount:       item.Adv.MinSingleTransAmount.Float64(),
		MaxAmount:       item.Adv.MaxSingleTransAmount.Float64(),
		Merchant:        merchant,
		PaymentMethods:  payments,
	}
}
