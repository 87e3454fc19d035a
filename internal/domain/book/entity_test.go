package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBook_Reserve(t *testing.T) {
	b := NewBook("9789552030511", "Madol Doova", 1, "Martin Wickramasinghe", 5)

	err := b.Reserve(2)
	assert.NoError(t, err)
	assert.Equal(t, 3, b.Quantity)

	// 超过在库数量时拒绝
	err = b.Reserve(4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, b.Quantity)

	// 借完最后一本
	err = b.Reserve(3)
	assert.NoError(t, err)
	assert.Equal(t, 0, b.Quantity)

	err = b.Reserve(1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestBook_Reserve_InvalidQuantity(t *testing.T) {
	b := NewBook("9789552030511", "Madol Doova", 1, "Martin Wickramasinghe", 5)

	assert.ErrorIs(t, b.Reserve(0), ErrInvalidQuantity)
	assert.ErrorIs(t, b.Reserve(-1), ErrInvalidQuantity)
}

func TestBook_Restock(t *testing.T) {
	b := NewBook("9789552030511", "Madol Doova", 1, "Martin Wickramasinghe", 0)

	err := b.Restock(1)
	assert.NoError(t, err)
	assert.Equal(t, 1, b.Quantity)

	assert.ErrorIs(t, b.Restock(0), ErrInvalidQuantity)
}

func TestBook_UpdateInfo(t *testing.T) {
	b := NewBook("9789552030511", "Madol Doova", 1, "Martin Wickramasinghe", 5)

	// 换作者时同步更新姓名快照
	err := b.UpdateInfo("", "Gamperaliya", 2, "M. Wickramasinghe", 7)
	assert.NoError(t, err)
	assert.Equal(t, "9789552030511", b.ISBN)
	assert.Equal(t, "Gamperaliya", b.Name)
	assert.Equal(t, uint(2), b.AuthorID)
	assert.Equal(t, "M. Wickramasinghe", b.AuthorName)
	assert.Equal(t, 7, b.Quantity)

	err = b.UpdateInfo("", "", 0, "", -1)
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestIsValidISBN(t *testing.T) {
	assert.True(t, isValidISBN("9789552030511"))
	assert.True(t, isValidISBN("978-955-20-3051-1"))
	assert.True(t, isValidISBN("955203051X"))
	assert.False(t, isValidISBN("12345"))
	assert.False(t, isValidISBN(""))
}
