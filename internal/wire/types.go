package wire

import "encoding/json"

// Token is the /auth/login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the authenticated account returned by /users/me.
type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	TelegramID string `json:"telegram_id"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

// Shop is the nested store reference on a receipt record.
type Shop struct {
	RetailName string `json:"retail_name"`
	LegalName  string `json:"legal_name"`
	Address    string `json:"address"`
}

// Cashier is the nested cashier reference on a receipt record.
type Cashier struct {
	Name string `json:"name"`
}

// Item is one receipt line item. Price and Sum are integer kopecks on the
// wire (see normalize.MinorToMajor).
type Item struct {
	Name     string `json:"name"`
	Quantity Number `json:"quantity"`
	Measure  string `json:"measure"`
	Price    Number `json:"price"`
	Sum      Number `json:"sum"`
}

// Receipt is one fiscal receipt record from GET /receipts.
type Receipt struct {
	ID            int64    `json:"id"`
	ExternalID    string   `json:"external_id"`
	DateTime      string   `json:"date_time"`
	TotalSum      Number   `json:"total_sum"`
	CashTotalSum  Number   `json:"cash_total_sum"`
	EcashTotalSum Number   `json:"ecash_total_sum"`
	Shop          *Shop    `json:"shop"`
	Cashier       *Cashier `json:"cashier"`
	Items         []Item   `json:"items"`
}

// MonthlyStat is one row of GET /analytics/monthly-dynamics.
type MonthlyStat struct {
	Month         int    `json:"month"`
	Year          int    `json:"year"`
	TotalSum      Number `json:"total_sum"`
	CashTotalSum  Number `json:"cash_total_sum"`
	EcashTotalSum Number `json:"ecash_total_sum"`
	ReceiptsCount int    `json:"receipts_count"`
}

// TopProduct is one row of GET /analytics/top-products.
type TopProduct struct {
	Name          string `json:"name"`
	TotalSum      Number `json:"total_sum"`
	TotalQuantity Number `json:"total_quantity"`
	Measure       string `json:"measure"`
	Category      string `json:"category"`
}

// TotalSums is the GET /analytics/total-sums response.
type TotalSums struct {
	TotalSum      Number `json:"total_sum"`
	CashTotalSum  Number `json:"cash_total_sum"`
	EcashTotalSum Number `json:"ecash_total_sum"`
	ReceiptsCount int    `json:"receipts_count"`
}

// StoreStatsRow is one row of GET /analytics/store-stats. Different backend
// versions emit different field names for the same value, so each value is
// declared under every name it has ever been seen with and coalesced by the
// accessors below.
type StoreStatsRow struct {
	Name          string `json:"name"`
	RetailName    string `json:"retail_name"`
	LegalName     string `json:"legal_name"`
	TotalAmount   Number `json:"total_amount"`
	TotalSpent    Number `json:"total_spent"`
	ReceiptsCount int    `json:"receipts_count"`
	ReceiptAvg    Number `json:"receipt_avg"`
	AvgReceipt    Number `json:"avg_receipt"`
}

// DisplayName returns whichever name field the backend populated.
func (r StoreStatsRow) DisplayName() string {
	if r.RetailName != "" {
		return r.RetailName
	}
	return r.Name
}

// Amount returns the total spend regardless of which field carried it.
func (r StoreStatsRow) Amount() Number {
	if r.TotalAmount != 0 {
		return r.TotalAmount
	}
	return r.TotalSpent
}

// Average returns the average receipt value regardless of which field
// carried it. Zero means the backend did not report one.
func (r StoreStatsRow) Average() Number {
	if r.ReceiptAvg != 0 {
		return r.ReceiptAvg
	}
	return r.AvgReceipt
}

// Store is a user-owned store record from the /stores CRUD endpoints.
type Store struct {
	ID            int64  `json:"id"`
	RetailName    string `json:"retail_name"`
	LegalName     string `json:"legal_name"`
	INN           string `json:"inn"`
	Address       string `json:"address"`
	Category      string `json:"category"`
	IsFavorite    bool   `json:"is_favorite"`
	Notes         string `json:"notes"`
	TotalAmount   Number `json:"total_amount"`
	ReceiptsCount int    `json:"receipts_count"`
	ReceiptAvg    Number `json:"receipt_avg"`
}

// StoreInput is the create/update payload for a store. Pointer fields are
// omitted when nil so partial updates (favorite toggle) only send what
// changed.
type StoreInput struct {
	RetailName *string `json:"retail_name,omitempty"`
	LegalName  *string `json:"legal_name,omitempty"`
	INN        *string `json:"inn,omitempty"`
	Address    *string `json:"address,omitempty"`
	Category   *string `json:"category,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// ErrorBody is the FastAPI-style error envelope. Detail is either a plain
// string or a structured validation list; see api.DetailMessage.
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}
