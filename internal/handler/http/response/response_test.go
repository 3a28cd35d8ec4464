package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessWithMeta_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWithMeta(rec, []string{"2026-10-01"}, &Meta{TotalItems: 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(1), body.Meta.TotalItems)
}

func TestSuccess_UnencodableDataBecomesSingleErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, CodeEncodingError, body.Error.Code)
}
