package handlers

import (
	"net/http"
	"regexp"
	"time"

	"cartonex/gateway/pkg/proxy"
	"cartonex/gateway/pkg/proxy/types"
	"cartonex/gateway/pkg/security/auth"
	"cartonex/gateway/pkg/usage"
)

// monthPattern matches the YYYY-MM ledger key form.
var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// UsageHandler serves the monthly usage ledger snapshot. The endpoint is
// authenticated with the same shared secret as the generate endpoint.
type UsageHandler struct {
	authenticator *auth.Authenticator
	recorder      *usage.Recorder
}

// NewUsageHandler creates the usage snapshot handler.
func NewUsageHandler(authenticator *auth.Authenticator, recorder *usage.Recorder) *UsageHandler {
	return &UsageHandler{authenticator: authenticator, recorder: recorder}
}

// ServeHTTP implements http.Handler. The month query parameter selects
// the ledger; it defaults to the current month.
func (h *UsageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		proxy.WriteErrorResponse(w, types.NewErrorResponse(
			http.StatusMethodNotAllowed, "method not allowed, use GET", nil))
		return
	}

	if err := h.authenticator.Authenticate(proxy.ExtractAPIKey(r)); err != nil {
		proxy.WriteErrorResponse(w, proxy.HandleError(err))
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	if !monthPattern.MatchString(month) {
		proxy.WriteErrorResponse(w, types.NewValidationErrorResponse(
			"month must be in YYYY-MM form", "month"))
		return
	}

	ledger, err := h.recorder.Snapshot(r.Context(), month)
	if err != nil {
		proxy.WriteErrorResponse(w, proxy.HandleError(err))
		return
	}

	proxy.WriteJSONResponse(w, http.StatusOK, ledger)
}
