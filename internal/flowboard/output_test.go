package flowboard

import (
	"bytes"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

func TestCLIErrorAndHelpers(t *testing.T) {
	t.Parallel()

	require.Equal(t, "boom", (&cliError{message: "boom"}).Error())
	var target *cliError
	require.True(t, asCLIError(&cliError{message: "x"}, &target))
	require.False(t, asCLIError(errors.New("x"), &target))
}

func TestPrintValueBranches(t *testing.T) {
	t.Parallel()

	t.Run("nil json emits empty object", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printValue(OutputJSON, &out, nil))
		require.Equal(t, "{}\n", out.String())
	})

	t.Run("nil text emits ok", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printValue(OutputText, &out, nil))
		require.Equal(t, "ok\n", out.String())
	})

	t.Run("json compacts to one line", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printValue(OutputJSON, &out, map[string]string{"name": "Delivery"}))
		require.Equal(t, "{\"name\":\"Delivery\"}\n", out.String())
	})

	t.Run("text indents", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printValue(OutputText, &out, map[string]string{"name": "Delivery"}))
		require.Equal(t, "{\n  \"name\": \"Delivery\"\n}\n", out.String())
	})

	t.Run("invalid output is a 400", func(t *testing.T) {
		err := printValueFromString("yaml", &bytes.Buffer{}, nil)
		require.Error(t, err)
		var cErr *cliError
		require.True(t, asCLIError(err, &cErr))
		require.Equal(t, http.StatusBadRequest, cErr.status)
	})
}

func TestWrapAPIErrorBranches(t *testing.T) {
	t.Parallel()

	t.Run("server error keeps status and raw body", func(t *testing.T) {
		err := wrapAPIError(&api.Error{
			Status:  http.StatusNotFound,
			Message: "Card not found",
			Raw:     []byte("{\n  \"error\": \"Card not found\"\n}"),
		})
		var cErr *cliError
		require.True(t, asCLIError(err, &cErr))
		require.Equal(t, http.StatusNotFound, cErr.status)
		require.Equal(t, "Card not found", cErr.message)
		require.JSONEq(t, `{"error":"Card not found"}`, string(cErr.rawJSON))
	})

	t.Run("non-json body drops raw", func(t *testing.T) {
		err := wrapAPIError(&api.Error{Status: http.StatusBadGateway, Message: "upstream", Raw: []byte("<html>")})
		var cErr *cliError
		require.True(t, asCLIError(err, &cErr))
		require.Empty(t, cErr.rawJSON)
	})

	t.Run("empty message falls back to status text", func(t *testing.T) {
		err := wrapAPIError(&api.Error{Status: http.StatusForbidden})
		var cErr *cliError
		require.True(t, asCLIError(err, &cErr))
		require.Equal(t, "Forbidden", cErr.message)
	})

	t.Run("local validation is a 400", func(t *testing.T) {
		err := wrapAPIError(&api.ValidationError{Fields: []string{"name: required"}})
		var cErr *cliError
		require.True(t, asCLIError(err, &cErr))
		require.Equal(t, http.StatusBadRequest, cErr.status)
		require.Contains(t, cErr.message, "name: required")
	})

	t.Run("usage error is a 400", func(t *testing.T) {
		err := wrapAPIError(common.Usagef("pass exactly one of --column or --board"))
		var cErr *cliError
		require.True(t, asCLIError(err, &cErr))
		require.Equal(t, http.StatusBadRequest, cErr.status)
		require.Equal(t, "pass exactly one of --column or --board", cErr.message)
	})

	t.Run("transport failure maps gateway", func(t *testing.T) {
		err := wrapAPIError(errors.New("network down"))
		var cErr *cliError
		require.True(t, asCLIError(err, &cErr))
		require.Equal(t, http.StatusBadGateway, cErr.status)
	})
}

func TestFormatErrorTextFallbackStatus(t *testing.T) {
	t.Parallel()
	line := FormatError(OutputText, http.StatusNotFound, "")
	require.Contains(t, line, "Not Found")
}

func TestFormatWatchLine(t *testing.T) {
	t.Parallel()
	require.Equal(t, `{"unread_count":3}`, FormatWatchLine(OutputJSON, 3))
	require.Equal(t, "unread_count=3", FormatWatchLine(OutputText, 3))
}
