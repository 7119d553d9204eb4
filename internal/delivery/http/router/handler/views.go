package handler

import (
	"time"

	"github.com/google/uuid"

	"bazaar/internal/domain/entity"
)

// View structs keep secrets out of responses: the password hash never leaves
// the server, while the PII fields are echoed back decrypted.

// AccountView is the outward representation of an account.
type AccountView struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"fullname"`
	Username      string    `json:"username"`
	Age           int       `json:"age"`
	Address       string    `json:"address"`
	Gender        string    `json:"gender"`
	MaritalStatus string    `json:"marital_status"`
	Balance       float64   `json:"balance"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}

func toAccountView(account *entity.Account) AccountView {
	return AccountView{
		ID:            account.ID,
		FullName:      account.FullName,
		Username:      account.Username,
		Age:           account.Age,
		Address:       account.Address,
		Gender:        account.Gender,
		MaritalStatus: account.MaritalStatus,
		Balance:       account.Balance,
		Role:          account.Role.String(),
		CreatedAt:     account.CreatedAt,
	}
}

func toAccountViews(accounts []*entity.Account) []AccountView {
	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, toAccountView(account))
	}

	return views
}

// ProductView is the outward representation of a catalog entry.
type ProductView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Stock       int       `json:"stock"`
}

func toProductView(product *entity.Product) ProductView {
	return ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Category:    product.Category,
		Price:       product.Price,
		Description: product.Description,
		Stock:       product.Stock,
	}
}

func toProductViews(products []*entity.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}

	return views
}

// ReviewView is the outward representation of a review.
type ReviewView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	AccountID uuid.UUID `json:"account_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Moderated bool      `json:"moderated"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewView(review *entity.Review) ReviewView {
	return ReviewView{
		ID:        review.ID,
		ProductID: review.ProductID,
		AccountID: review.AccountID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Moderated: review.Moderated,
		CreatedAt: review.CreatedAt,
	}
}

func toReviewViews(reviews []*entity.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for _, review := range reviews {
		views = append(views, toReviewView(review))
	}

	return views
}
