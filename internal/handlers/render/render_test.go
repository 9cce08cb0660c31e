package render

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_JSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		data := map[string]any{"key1": 1, "key2": "222"}
		JSON(w, data)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"key1":1,"key2":"222"}`+"\n", string(body))
}

func TestRender_ServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		message := "something terrible happened"
		ServiceError(w, message, http.StatusForbidden)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.JSONEq(t, `{
			"error": "service_error",
			"message": "something terrible happened"
		}`,
		string(body),
	)
}

func TestRender_BindAndValidate(t *testing.T) {
	type request struct {
		Number int64           `json:"number" validate:"required"`
		Amount decimal.Decimal `json:"amount"`
	}

	bind := func(t *testing.T, body string) (request, int, string) {
		t.Helper()

		var value request
		var bindErr error

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, bindErr = BindAndValidate[request](w, r)
		}))
		defer ts.Close()

		resp, err := http.Post(ts.URL, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		respBody, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode == http.StatusOK {
			require.NoError(t, bindErr)
		} else {
			require.Error(t, bindErr)
		}

		return value, resp.StatusCode, string(respBody)
	}

	t.Run("valid request", func(t *testing.T) {
		value, code, _ := bind(t, `{"number": 1, "amount": 10.5}`)

		require.Equal(t, http.StatusOK, code)
		require.Equal(t, int64(1), value.Number)
		require.True(t, value.Amount.Equal(decimal.NewFromFloat(10.5)))
	})

	t.Run("invalid json", func(t *testing.T) {
		_, code, body := bind(t, `not-json`)

		require.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body, DecodingErrorType)
	})

	t.Run("missing required field reported by json name", func(t *testing.T) {
		_, code, body := bind(t, `{"amount": 10.5}`)

		require.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body, ValidationErrorType)
		assert.Contains(t, body, `"number"`, "validation error should use the json field name")
	})
}
