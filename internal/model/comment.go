package model

import "time"

// Comment is a user's remark on a product page.
// Deletable only by its author; cascade-deleted with its product or author.
type Comment struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Content   string    `json:"content"   db:"content"` // 1–2000 chars
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CommentWithAuthor is a comment joined with its author's public identity,
// the shape product pages render. The author fields may be empty if the
// account has since been deleted.
type CommentWithAuthor struct {
	Comment
	AuthorName     string `json:"userName"`
	AuthorUsername string `json:"userUsername"`
	AuthorAvatar   string `json:"userImage"`
}
