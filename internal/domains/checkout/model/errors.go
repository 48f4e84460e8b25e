package model

import (
	"errors"
	"fmt"
)

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOutOfStock          = "CHK001"
	ErrCodeArticleMissing      = "CHK002"
	ErrCodeInvalidArticleInput = "CHK003"
	ErrCodeInvalidRequest      = "CHK004"
	ErrCodeSessionRequired     = "CHK005"
	ErrCodeTooManyRequests     = "CHK006"
	ErrCodeInternal            = "CHK500"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOutOfStock          = errors.New("article out of stock")
	ErrArticleMissing      = errors.New("article no longer exists")
	ErrInvalidArticleInput = errors.New("invalid article input")
	ErrSessionRequired     = errors.New("session required")
)

// =====================================================
// CATALOG FAULT
// =====================================================

// CatalogError is raised by order persistence when a basket line can no
// longer be ordered. errors.Is matches it against its Kind sentinel.
type CatalogError struct {
	Kind      error
	ArticleID string
	ArticleNo string
	Requested int
	Available int
}

func (e *CatalogError) Error() string {
	switch e.Kind {
	case ErrOutOfStock:
		return fmt.Sprintf("%s: article %s requested %d available %d", e.Kind, e.ArticleNo, e.Requested, e.Available)
	default:
		return fmt.Sprintf("%s: article %s", e.Kind, e.ArticleID)
	}
}

func (e *CatalogError) Unwrap() error {
	return e.Kind
}

// Code is the display error code for the fault.
func (e *CatalogError) Code() string {
	switch e.Kind {
	case ErrOutOfStock:
		return ErrCodeOutOfStock
	case ErrArticleMissing:
		return ErrCodeArticleMissing
	default:
		return ErrCodeInvalidArticleInput
	}
}

func NewOutOfStockError(articleID, articleNo string, requested, available int) *CatalogError {
	return &CatalogError{
		Kind:      ErrOutOfStock,
		ArticleID: articleID,
		ArticleNo: articleNo,
		Requested: requested,
		Available: available,
	}
}

func NewArticleMissingError(articleID string) *CatalogError {
	return &CatalogError{Kind: ErrArticleMissing, ArticleID: articleID}
}

func NewInvalidArticleInputError(articleID string) *CatalogError {
	return &CatalogError{Kind: ErrInvalidArticleInput, ArticleID: articleID}
}
