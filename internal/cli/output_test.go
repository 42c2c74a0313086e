package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthoprice/orthoprice/internal/clinic"
)

func TestOutputFormatterTextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}
	require.NoError(t, f.Success("done"))
	assert.Equal(t, "done\n", buf.String())
}

func TestOutputFormatterJSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, f.Success(map[string]int{"n": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestOutputFormatterJSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, f.Error(ErrCodeNotFound, "nope", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestVerboseLogGating(t *testing.T) {
	out := &bytes.Buffer{}
	diag := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag}

	f.VerboseLog("hidden")
	assert.Empty(t, diag.String())

	f.Verbose = true
	f.VerboseLog("loaded %d", 3)
	assert.Equal(t, "loaded 3\n", diag.String())
	assert.Empty(t, out.String(), "diagnostics never touch the JSON stream")
}

func TestErrCodeClassification(t *testing.T) {
	assert.Equal(t, ErrCodeValidation, errCode(&clinic.ValidationError{Field: "name", Reason: "required"}))
	assert.Equal(t, ErrCodeNotFound, errCode(&clinic.NotFoundError{Kind: clinic.KindPatient, ID: "9"}))
	assert.Equal(t, ErrCodeCommunication, errCode(&clinic.CommunicationError{Status: 500}))
	assert.Equal(t, ErrCodeGeneric, errCode(errors.New("weird")))
}

func TestFailEmitsAndWrapsExitCode(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	err := f.fail(&clinic.NotFoundError{Kind: clinic.KindMaterial, ID: "9"})
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E003]")
	assert.Contains(t, buf.String(), `material "9" not found`)
}
