package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"CART_EMPTY", http.StatusUnprocessableEntity},
		{"PAYMENT_GATEWAY", http.StatusBadGateway},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"INVALID_QUANTITY", http.StatusBadRequest},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestGetHTTPStatusUnknownCode(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("SOME_NEW_RULE"))
}

func TestListRequestDefaults(t *testing.T) {
	r := ListRequest{}.WithDefaults()
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 20, r.PageSize)

	r = ListRequest{Page: 3, PageSize: 50}.WithDefaults()
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, 50, r.PageSize)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta(nil, 45, 1, 20)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
