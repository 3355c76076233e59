package usage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/bm-billing/pkg/adapters"
	"github.com/de-tools/bm-billing/pkg/models/api"
	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/de-tools/bm-billing/pkg/services/billing"
	"github.com/de-tools/bm-billing/pkg/services/exclusion"
	"github.com/de-tools/bm-billing/pkg/store/leases"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Handler struct {
	billing           *billing.Service
	reader            *leases.Reader
	validate          *validator.Validate
	defaultExclusions []string
}

// NewHandler serves billing runs over HTTP. defaultExclusions are applied to
// every request in addition to the ones it carries.
func NewHandler(svc *billing.Service, defaultExclusions []string) *Handler {
	return &Handler{
		billing:           svc,
		reader:            leases.NewReader(),
		validate:          validator.New(),
		defaultExclusions: defaultExclusions,
	}
}

func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.UsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	run, err := h.buildRun(r, req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	agg, err := h.billing.Usage(ctx, run)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	response := api.UsageResponse{
		Start:      run.Window.Start,
		End:        run.Window.End,
		LeaseCount: len(run.Leases),
		Projects:   adapters.MapUsageAggregateDomainToApi(agg),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode usage")
	}
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	rates, err := domain.NewRates(req.Rates)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	run, err := h.buildRun(r, req.UsageRequest)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	rows, err := h.billing.Invoice(ctx, run, req.InvoiceMonth, rates)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapInvoiceRowsDomainToApi(rows)); err != nil {
		logger.Error().Err(err).Str("month", req.InvoiceMonth).Msg("failed to encode invoice rows")
	}
}

func (h *Handler) buildRun(r *http.Request, req api.UsageRequest) (billing.Run, error) {
	if err := h.validate.Struct(req.Window); err != nil {
		return billing.Run{}, err
	}
	start, err := adapters.ParseTime(req.Window.Start)
	if err != nil {
		return billing.Run{}, fmt.Errorf("window start: %w", err)
	}
	end, err := adapters.ParseTime(req.Window.End)
	if err != nil {
		return billing.Run{}, fmt.Errorf("window end: %w", err)
	}

	exclusions, err := exclusion.Parse(append(append([]string{}, h.defaultExclusions...), req.Exclusions...))
	if err != nil {
		return billing.Run{}, err
	}

	return billing.Run{
		Leases:     h.reader.Parse(r.Context(), req.Leases),
		Window:     domain.Window{Start: start, End: end},
		Exclusions: exclusions,
	}, nil
}

func statusFor(err error) int {
	if errors.Is(err, billing.ErrInvalidWindow) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := zerolog.Ctx(r.Context())
	logger.Warn().Err(err).Int("status", status).Msg("request rejected")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(api.Error{Error: err.Error()}); encErr != nil {
		logger.Error().Err(encErr).Msg("failed to encode error")
	}
}
