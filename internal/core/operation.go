package core

import (
	"fmt"
	"strings"
	"time"
)

type (
	// Nature says whether an operation is income or expense. The wire-level
	// values are kept in Portuguese for compatibility with stored data.
	Nature string

	// State is an operation's settlement status.
	State string

	// PaymentMethod is the instrument used to settle an operation.
	PaymentMethod string
)

const (
	NatureIncome  Nature = "receita"
	NatureExpense Nature = "despesa"
)

const (
	StateToReceive State = "receber"
	StateReceived  State = "recebido"
	StateToPay     State = "pagar"
	StatePaid      State = "pago"
)

const (
	PaymentPix        PaymentMethod = "Pix"
	PaymentCash       PaymentMethod = "Dinheiro"
	PaymentCredit     PaymentMethod = "Cartão de Crédito"
	PaymentDebit      PaymentMethod = "Cartão de Débito"
	PaymentBoleto     PaymentMethod = "Boleto"
	PaymentTransfer   PaymentMethod = "Transferência"
)

// ValidationError is raised by entity constructors when an invariant is
// violated. It names the first violated rule only.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Operation is one recorded financial transaction. Instances are immutable;
// state transitions return new values and equality is by ID.
type Operation struct {
	ID                 string
	Nature             Nature
	State              State
	PaymentMethod      PaymentMethod
	SourceAccount      string
	DestinationAccount string
	Date               time.Time
	Value              Money
	Category           string
	Details            string
	Project            string
	Receipt            []byte
	CreatedAt          time.Time
}

// OperationProps carries the full field set for construction. Update paths
// rebuild the whole entity from merged props so there is never a partially
// validated instance.
type OperationProps struct {
	ID                 string
	Nature             Nature
	State              State
	PaymentMethod      PaymentMethod
	SourceAccount      string
	DestinationAccount string
	Date               time.Time
	Value              Money
	Category           string
	Details            string
	Project            string
	Receipt            []byte
	CreatedAt          time.Time
}

// NewOperation validates props and builds an Operation. Rules are checked in
// a fixed order and the first violation is returned: nature, state, payment
// method, accounts, category, then the nature/state compatibility matrix.
func NewOperation(props OperationProps) (*Operation, error) {
	switch props.Nature {
	case NatureIncome, NatureExpense:
	default:
		return nil, newValidationError("nature", "Invalid nature %q", string(props.Nature))
	}

	switch props.State {
	case StateToReceive, StateReceived, StateToPay, StatePaid:
	default:
		return nil, newValidationError("state", "Invalid state %q", string(props.State))
	}

	switch props.PaymentMethod {
	case PaymentPix, PaymentCash, PaymentCredit, PaymentDebit, PaymentBoleto, PaymentTransfer:
	default:
		return nil, newValidationError("paymentMethod", "Invalid payment method %q", string(props.PaymentMethod))
	}

	if strings.TrimSpace(props.SourceAccount) == "" {
		return nil, newValidationError("sourceAccount", "Source account cannot be empty")
	}
	if strings.TrimSpace(props.DestinationAccount) == "" {
		return nil, newValidationError("destinationAccount", "Destination account cannot be empty")
	}
	if strings.TrimSpace(props.Category) == "" {
		return nil, newValidationError("category", "Category cannot be empty")
	}

	if !props.Nature.allows(props.State) {
		return nil, newValidationError("state",
			"State %q is not compatible with nature %q", string(props.State), string(props.Nature))
	}

	return &Operation{
		ID:                 props.ID,
		Nature:             props.Nature,
		State:              props.State,
		PaymentMethod:      props.PaymentMethod,
		SourceAccount:      strings.TrimSpace(props.SourceAccount),
		DestinationAccount: strings.TrimSpace(props.DestinationAccount),
		Date:               props.Date,
		Value:              props.Value,
		Category:           strings.TrimSpace(props.Category),
		Details:            props.Details,
		Project:            props.Project,
		Receipt:            props.Receipt,
		CreatedAt:          props.CreatedAt,
	}, nil
}

// allows implements the state/nature compatibility matrix:
// receita pairs with receber/recebido, despesa with pagar/pago.
func (n Nature) allows(s State) bool {
	switch n {
	case NatureIncome:
		return s == StateToReceive || s == StateReceived
	case NatureExpense:
		return s == StateToPay || s == StatePaid
	}
	return false
}

// IsCompleted reports whether the operation has been settled.
func (o *Operation) IsCompleted() bool {
	return o.State == StateReceived || o.State == StatePaid
}

// IsPending reports whether the operation still awaits settlement.
func (o *Operation) IsPending() bool {
	return o.State == StateToReceive || o.State == StateToPay
}

// MarkAsCompleted returns a copy with the state moved to its settled
// counterpart (receber→recebido, pagar→pago). Already-settled operations map
// to themselves; the nature boundary is never crossed.
func (o *Operation) MarkAsCompleted() *Operation {
	out := o.clone()
	switch o.State {
	case StateToReceive:
		out.State = StateReceived
	case StateToPay:
		out.State = StatePaid
	}
	return out
}

// MarkAsPending is the inverse of MarkAsCompleted.
func (o *Operation) MarkAsPending() *Operation {
	out := o.clone()
	switch o.State {
	case StateReceived:
		out.State = StateToReceive
	case StatePaid:
		out.State = StateToPay
	}
	return out
}

// Equal reports identity: two operations are the same entity iff their IDs
// match, regardless of field values.
func (o *Operation) Equal(other *Operation) bool {
	if other == nil {
		return false
	}
	return o.ID == other.ID
}

func (o *Operation) clone() *Operation {
	out := *o
	if o.Receipt != nil {
		out.Receipt = make([]byte, len(o.Receipt))
		copy(out.Receipt, o.Receipt)
	}
	return &out
}
