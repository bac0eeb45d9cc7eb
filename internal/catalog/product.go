package catalog

import "time"

// Unit is the sale unit of a product.
type Unit string

const (
	UnitPiece Unit = "piece"
	UnitKit   Unit = "kit"
	UnitSet   Unit = "set"
	UnitLot   Unit = "lot"
)

// Product is a catalog entry. Prices are in centimes; HT is pre-tax,
// TTC tax-inclusive. StockValue is derived (Quantity x PurchasePriceHT)
// and recomputed on purchase receipts and inventory adjustments.
type Product struct {
	ID                string     `json:"id"`
	Reference         string     `json:"reference"`
	Designation       string     `json:"designation"`
	Family            string     `json:"family"`
	SubFamily         string     `json:"sub_family"`
	VATRate           float64    `json:"vat_rate"`
	PurchasePriceHT   int64      `json:"purchase_price_ht"`
	PurchasePriceTTC  int64      `json:"purchase_price_ttc"`
	RetailPriceHT     int64      `json:"retail_price_ht"`
	RetailPriceTTC    int64      `json:"retail_price_ttc"`
	WholesalePriceHT  int64      `json:"wholesale_price_ht"`
	WholesalePriceTTC int64      `json:"wholesale_price_ttc"`
	Quantity          int        `json:"quantity"`
	MinStock          int        `json:"min_stock"`
	MarginPct         float64    `json:"margin_pct"`
	Unit              Unit       `json:"unit"`
	Location          string     `json:"location"`
	Perishable        bool       `json:"perishable"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	StockValue        int64      `json:"stock_value"`
	SupplierID        string     `json:"supplier_id"`
	Barcode           string     `json:"barcode"`
}
