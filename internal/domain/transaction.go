package domain

import "time"

type TransactionStatus string

const (
	TransactionStatusSuccessful TransactionStatus = "successful"
	TransactionStatusPending    TransactionStatus = "pending"
)

// TransactionRecord is written to the transactions collection after a
// successful payment. The storefront only reads it back for the merchant
// summary.
type TransactionRecord struct {
	ID        string            `json:"id" bson:"_id"`
	Reference string            `json:"reference" bson:"reference"`
	Amount    Price             `json:"amount" bson:"amount"`
	Currency  string            `json:"currency" bson:"currency"`
	Customer  Customer          `json:"customer" bson:"customer"`
	Items     []LineItem        `json:"items" bson:"items"`
	Status    TransactionStatus `json:"status" bson:"status"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
}
