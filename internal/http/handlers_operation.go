package http

import (
	"log/slog"
	"net/http"
	"time"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/usecase"
)

type operationRequest struct {
	Nature             string `json:"nature"`
	State              string `json:"state"`
	PaymentMethod      string `json:"payment_method"`
	SourceAccount      string `json:"source_account"`
	DestinationAccount string `json:"destination_account"`
	Date               string `json:"date,omitempty"` // RFC3339
	Amount             string `json:"amount"`
	Currency           string `json:"currency,omitempty"`
	Category           string `json:"category"`
	Details            string `json:"details,omitempty"`
	Project            string `json:"project,omitempty"`
	Receipt            []byte `json:"receipt,omitempty"`
}

type operationUpdateRequest struct {
	Nature             *string `json:"nature,omitempty"`
	State              *string `json:"state,omitempty"`
	PaymentMethod      *string `json:"payment_method,omitempty"`
	SourceAccount      *string `json:"source_account,omitempty"`
	DestinationAccount *string `json:"destination_account,omitempty"`
	Date               *string `json:"date,omitempty"`
	Amount             *string `json:"amount,omitempty"`
	Currency           *string `json:"currency,omitempty"`
	Category           *string `json:"category,omitempty"`
	Details            *string `json:"details,omitempty"`
	Project            *string `json:"project,omitempty"`
	Receipt            []byte  `json:"receipt,omitempty"`
}

type operationResponse struct {
	ID                 string    `json:"id"`
	Nature             string    `json:"nature"`
	State              string    `json:"state"`
	PaymentMethod      string    `json:"payment_method"`
	SourceAccount      string    `json:"source_account"`
	DestinationAccount string    `json:"destination_account"`
	Date               time.Time `json:"date"`
	Amount             string    `json:"amount"`
	Currency           string    `json:"currency"`
	Category           string    `json:"category"`
	Details            string    `json:"details,omitempty"`
	Project            string    `json:"project,omitempty"`
	Receipt            []byte    `json:"receipt,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func toOperationResponse(op *core.Operation) operationResponse {
	return operationResponse{
		ID:                 op.ID,
		Nature:             string(op.Nature),
		State:              string(op.State),
		PaymentMethod:      string(op.PaymentMethod),
		SourceAccount:      op.SourceAccount,
		DestinationAccount: op.DestinationAccount,
		Date:               op.Date,
		Amount:             op.Value.Amount.String(),
		Currency:           op.Value.Currency,
		Category:           op.Category,
		Details:            op.Details,
		Project:            op.Project,
		Receipt:            op.Receipt,
		CreatedAt:          op.CreatedAt,
	}
}

func (s *Server) handleCreateOperation(w http.ResponseWriter, r *http.Request) {
	var body operationRequest
	if !decodeBody(w, r, &body) {
		return
	}

	currency := body.Currency
	if currency == "" {
		currency = core.DefaultCurrency
	}
	value, err := core.NewMoneyFromString(body.Amount, currency)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid amount: " + err.Error()})
		return
	}

	var date time.Time
	if body.Date != "" {
		date, err = time.Parse(time.RFC3339, body.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date: " + err.Error()})
			return
		}
	}

	res := s.createOp.Execute(r.Context(), usecase.CreateOperationRequest{
		Nature:             core.Nature(body.Nature),
		State:              core.State(body.State),
		PaymentMethod:      core.PaymentMethod(body.PaymentMethod),
		SourceAccount:      body.SourceAccount,
		DestinationAccount: body.DestinationAccount,
		Date:               date,
		Value:              value,
		Category:           body.Category,
		Details:            body.Details,
		Project:            body.Project,
		Receipt:            body.Receipt,
	})

	op, err := res.Value()
	if err != nil {
		writeError(w, err)
		return
	}

	s.afterMutation(r, op.ID, op.Date, amqp.ActionCreated)
	writeJSON(w, http.StatusCreated, toOperationResponse(op))
}

func (s *Server) handleGetOperation(w http.ResponseWriter, r *http.Request) {
	res := s.getOp.Execute(r.Context(), usecase.GetOperationByIDRequest{ID: r.PathValue("id")})

	op, err := res.Value()
	if err != nil {
		writeError(w, err)
		return
	}
	if op == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: usecase.ErrOperationNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toOperationResponse(op))
}

func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := usecase.GetOperationsRequest{
		AccountID: q.Get("account_id"),
		Category:  q.Get("category"),
	}

	for param, dst := range map[string]**time.Time{
		"start_date": &req.StartDate,
		"end_date":   &req.EndDate,
	} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + param + ": " + err.Error()})
			return
		}
		*dst = &parsed
	}

	operations, err := s.listOps.Execute(r.Context(), req).Value()
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]operationResponse, 0, len(operations))
	for _, op := range operations {
		out = append(out, toOperationResponse(op))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateOperation(w http.ResponseWriter, r *http.Request) {
	var body operationUpdateRequest
	if !decodeBody(w, r, &body) {
		return
	}

	req := usecase.UpdateOperationRequest{
		ID:                 r.PathValue("id"),
		SourceAccount:      body.SourceAccount,
		DestinationAccount: body.DestinationAccount,
		Category:           body.Category,
		Details:            body.Details,
		Project:            body.Project,
		Receipt:            body.Receipt,
	}
	if body.Nature != nil {
		nature := core.Nature(*body.Nature)
		req.Nature = &nature
	}
	if body.State != nil {
		state := core.State(*body.State)
		req.State = &state
	}
	if body.PaymentMethod != nil {
		method := core.PaymentMethod(*body.PaymentMethod)
		req.PaymentMethod = &method
	}
	if body.Date != nil {
		date, err := time.Parse(time.RFC3339, *body.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date: " + err.Error()})
			return
		}
		req.Date = &date
	}
	if body.Amount != nil {
		currency := core.DefaultCurrency
		if body.Currency != nil {
			currency = *body.Currency
		}
		value, err := core.NewMoneyFromString(*body.Amount, currency)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid amount: " + err.Error()})
			return
		}
		req.Value = &value
	}

	op, err := s.updateOp.Execute(r.Context(), req).Value()
	if err != nil {
		writeError(w, err)
		return
	}

	s.afterMutation(r, op.ID, op.Date, amqp.ActionUpdated)
	writeJSON(w, http.StatusOK, toOperationResponse(op))
}

func (s *Server) handleDeleteOperation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// read first so the month is still known after the row is gone
	var month time.Time
	if op, err := s.getOp.Execute(r.Context(), usecase.GetOperationByIDRequest{ID: id}).Value(); err == nil && op != nil {
		month = op.Date
	}

	res, err := s.deleteOp.Execute(r.Context(), usecase.DeleteOperationRequest{ID: id}).Value()
	if err != nil {
		writeError(w, err)
		return
	}

	s.afterMutation(r, id, month, amqp.ActionDeleted)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": res.Deleted})
}

// afterMutation invalidates the summary cache and tells the worker which
// month changed. Publishing is best effort; the reconcile pass catches
// anything missed here.
func (s *Server) afterMutation(r *http.Request, operationID string, date time.Time, action string) {
	s.summaryCache.DeletePrefix("")

	if s.publisher == nil || date.IsZero() {
		return
	}
	month := date.UTC().Format("2006-01")
	if err := s.publisher.PublishOperationChanged(r.Context(), operationID, s.defaultUser, month, action); err != nil {
		slog.WarnContext(r.Context(), "Failed to publish operation changed message",
			"operation_id", operationID,
			"action", action,
			"error", err)
	}
}
