package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techstore/storefront-backend/pkg/e"
)

func TestParsePriceToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{in: "599.99", want: 59999},
		{in: "600", want: 60000},
		{in: "0.01", want: 1},
		{in: "0", want: 0},
		{in: "1299.99", want: 129999},
		{in: "-5", wantErr: e.ErrInvalidPrice},
		{in: "abc", wantErr: e.ErrInvalidPrice},
		{in: "9.999", wantErr: e.ErrPricePrecision},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePriceToCents(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty string", func(t *testing.T) {
		_, err := parsePriceToCents("   ")
		assert.Error(t, err)
	})
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{e.ErrOutOfStock, http.StatusConflict},
		{e.ErrProductNotFound, http.StatusNotFound},
		{e.ErrEmptyCart, http.StatusConflict},
		{e.ErrCheckoutAlreadyOpen, http.StatusConflict},
		{e.ErrSubmitInFlight, http.StatusConflict},
		{e.ErrFormValidation, http.StatusUnprocessableEntity},
		{e.ErrStatusBadRequest, http.StatusBadRequest},
		{e.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			code, _ := ToHTTPResponse(e.Wrap("op", tt.err))
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestSessionMiddleware(t *testing.T) {
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionID(r)
	})

	t.Run("valid session header is passed through", func(t *testing.T) {
		id := uuid.NewString()

		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(sessionHeader, id)
		rec := httptest.NewRecorder()

		SessionMiddleware(next).ServeHTTP(rec, req)

		assert.Equal(t, id, captured)
		assert.Equal(t, id, rec.Header().Get(sessionHeader))
	})

	t.Run("missing header gets a generated session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		rec := httptest.NewRecorder()

		SessionMiddleware(next).ServeHTTP(rec, req)

		require.NotEmpty(t, captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
		assert.Equal(t, captured, rec.Header().Get(sessionHeader))
	})

	t.Run("malformed header is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(sessionHeader, "not-a-uuid")
		rec := httptest.NewRecorder()

		SessionMiddleware(next).ServeHTTP(rec, req)

		assert.NotEqual(t, "not-a-uuid", captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
	})
}
