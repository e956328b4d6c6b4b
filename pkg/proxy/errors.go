package proxy

import (
	"errors"
	"fmt"
	"net/http"

	"cartonex/gateway/pkg/providers"
	"cartonex/gateway/pkg/proxy/types"
	"cartonex/gateway/pkg/security/auth"
)

// HandleError converts pipeline errors to the public error body. Every
// failure class maps to a stable status code so the chat client can
// branch on the numeric code alone.
//
// Example usage:
//
//	if err != nil {
//	    errResp := HandleError(err)
//	    WriteErrorResponse(w, errResp)
//	    return
//	}
func HandleError(err error) *types.ErrorResponse {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.ToErrorResponse()
	}

	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		return types.NewAuthErrorResponse(authErr.Error())
	}

	// Transport failures hide the underlying cause: connection errors can
	// carry internal hostnames.
	var transportErr *providers.TransportError
	if errors.As(err, &transportErr) {
		return types.NewUnavailableErrorResponse(
			fmt.Sprintf("provider %q temporarily unavailable", transportErr.Provider),
		)
	}

	// A 401 from the provider means our upstream key is bad, not the
	// caller's. Surface it as 401 so operators notice quickly.
	var upstreamAuthErr *providers.AuthError
	if errors.As(err, &upstreamAuthErr) {
		return types.NewErrorResponse(http.StatusUnauthorized,
			fmt.Sprintf("provider %q rejected gateway credentials", upstreamAuthErr.Provider), nil)
	}

	var fundsErr *providers.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		return types.NewErrorResponse(http.StatusPaymentRequired,
			fmt.Sprintf("provider %q reports insufficient funds", fundsErr.Provider), nil)
	}

	var rateLimitErr *providers.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return types.NewErrorResponse(http.StatusTooManyRequests,
			fmt.Sprintf("provider %q rate limit exceeded", rateLimitErr.Provider), nil)
	}

	var parseErr *providers.ParseError
	if errors.As(err, &parseErr) {
		return types.NewInternalErrorResponse("error processing upstream response")
	}

	var upstreamErr *providers.UpstreamError
	if errors.As(err, &upstreamErr) {
		return types.NewErrorResponse(upstreamErr.StatusCode,
			fmt.Sprintf("provider %q error", upstreamErr.Provider), map[string]any{
				"providerStatus": upstreamErr.StatusCode,
			})
	}

	return types.NewInternalErrorResponse("an internal error occurred")
}
