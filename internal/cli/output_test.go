package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"linkcook-go/internal/api"
	"linkcook-go/internal/client"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(api.Toggle{IsMember: true, Count: 2}, nil)
	require.NoError(t, err)

	toggle := decodeData[api.Toggle](t, buf.String())
	assert.Equal(t, api.Toggle{IsMember: true, Count: 2}, toggle)
}

func TestOutputFormatter_YAMLUsesJSONNames(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "yaml", Writer: buf}

	err := formatter.Success(api.Toggle{IsMember: true, Count: 2}, nil)
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["isMember"])
	assert.Equal(t, 2, data["count"])
}

func TestOutputFormatter_TextUsesRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Success("ignored", func(w io.Writer) error {
		_, err := fmt.Fprint(w, "rendered")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "rendered", buf.String())

	buf.Reset()
	require.NoError(t, formatter.Success("plain", nil))
	assert.Equal(t, "plain\n", buf.String())
}

func TestOutputFormatter_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("already_closed", "group buy already closed"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "already_closed", resp.Error.Code)

	buf.Reset()
	text := &OutputFormatter{Format: "text", Writer: buf}
	require.NoError(t, text.Error("x", "y"))
	assert.Empty(t, buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	quiet := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}
	quiet.VerboseLog("hidden")
	assert.Empty(t, errOut.String())

	loud := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
	loud.VerboseLog("GET %s", "/api/health")
	assert.Equal(t, "GET /api/health\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitUnavailable, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitUnavailable, "down"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := WrapExitError(ExitFailure, "forbidden", client.ErrForbidden)
	assert.ErrorIs(t, wrapped, client.ErrForbidden)
	assert.Equal(t, "forbidden: only the owner can change this", wrapped.Error())
}

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		err   error
		code  int
		label string
	}{
		{&client.Error{Kind: client.KindValidation}, ExitCommandError, "validation"},
		{&client.Error{Kind: client.KindTransport}, ExitUnavailable, "transport"},
		{&client.Error{Kind: client.KindAlreadyClosed}, ExitFailure, "already_closed"},
		{client.ErrCancelled, ExitFailure, "cancelled"},
		{errors.New("other"), ExitFailure, "error"},
	}

	for _, tc := range cases {
		code, label := exitCodeFor(tc.err)
		assert.Equal(t, tc.code, code, tc.label)
		assert.Equal(t, tc.label, label)
	}
}
