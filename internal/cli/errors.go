package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/pcx/internal/api"
	"github.com/vburojevic/pcx/internal/output"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	if globals != nil && globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s", code, message)
		if len(hint) > 0 && hint[0] != "" && !globals.Quiet {
			fmt.Fprintf(globals.Stderr, " (hint: %s)", hint[0])
		}
		fmt.Fprintln(globals.Stderr)
	}
	return errors.New(message)
}

// outputFetchError reports a failed API call, keeping the status and the
// server's error body in ndjson mode.
func outputFetchError(globals *Globals, err error) error {
	code, hint := errorCode(err)
	if globals == nil || globals.Format != "ndjson" {
		return outputErrorCommon(globals, code, err.Error(), hint)
	}

	out := &output.ErrorOutput{
		Code:    code,
		Message: err.Error(),
		Hint:    hint,
		Status:  api.StatusCode(err),
		Details: api.Details(err),
	}
	_ = output.NewNDJSONWriter(globals.Stdout).WriteErrorOutput(out)
	return err
}

// errorCode classifies err into a stable code plus a hint
func errorCode(err error) (code, hint string) {
	var (
		apiErr       *api.APIError
		transportErr *api.TransportError
	)
	switch {
	case errors.As(err, &apiErr):
		return "HTTP_ERROR", ""
	case errors.As(err, &transportErr):
		return "TRANSPORT_ERROR", "check --api-base and that the server is reachable"
	case errors.Is(err, api.ErrMalformedResponse):
		return "MALFORMED_RESPONSE", "the server answered with an unexpected body"
	default:
		return "FETCH_FAILED", ""
	}
}
