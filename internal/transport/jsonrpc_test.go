package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/playmat/internal/mcp"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"add_zone","params":{"name":"Deck"},"id":7}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "add_zone", req.Method)
	require.JSONEq(t, `{"name":"Deck"}`, string(req.Params))
	require.EqualValues(t, 7, req.ID)
}

func TestParseRequest_Rejects(t *testing.T) {
	for name, raw := range map[string]string{
		"missing method": `{"jsonrpc":"2.0","id":1}`,
		"wrong version":  `{"jsonrpc":"1.0","method":"undo","id":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRequest(bytes.NewBufferString(raw))
			require.ErrorIs(t, err, errInvalidRequest)
		})
	}

	_, err := ParseRequest(bytes.NewBufferString(`{`))
	require.Error(t, err)
	require.NotErrorIs(t, err, errInvalidRequest)
}

func TestWriteCallError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unknown method", fmt.Errorf("%w: shuffle", mcp.ErrUnknownMethod), ErrMethodNotFound},
		{"bad params", &mcp.APIError{Code: "INVALID_PARAMS", Message: "bad"}, ErrInvalidParams},
		{"editor rejection", &mcp.APIError{Code: "ZONE_NOT_FOUND", Message: "zone not found"}, ErrApplication},
		{"unexpected", errors.New("boom"), ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeCallError(rec, 3, tc.err)
			require.Equal(t, 200, rec.Code)

			var resp struct {
				Error struct {
					Code int             `json:"code"`
					Data json.RawMessage `json:"data"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tc.code, resp.Error.Code)
			if tc.code == ErrApplication {
				require.Contains(t, string(resp.Error.Data), "ZONE_NOT_FOUND")
			}
		})
	}
}
