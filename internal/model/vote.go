package model

import "time"

// Vote is one row in the vote ledger: user U has shat on product P.
//
// The (UserID, ProductID) pair is unique — a user holds at most one vote
// per product. Inserting a vote increments the product's ShitCount by
// exactly 1 and deleting it decrements by exactly 1, always inside the
// same transaction, so the counter equals the number of ledger rows.
type Vote struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
