package apierr

import (
	"errors"
	"fmt"
	"net/http"

	mysql "github.com/go-sql-driver/mysql"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"

	// 貸出ライフサイクル固有
	CodeInvariantViolation      Code = "INVARIANT_VIOLATION"
	CodeBorrowingLimitExceeded  Code = "BORROWING_LIMIT_EXCEEDED"
	CodeBookUnavailable         Code = "BOOK_UNAVAILABLE"
	CodeBorrowerInactive        Code = "BORROWER_INACTIVE"
	CodeAlreadyReturned         Code = "ALREADY_RETURNED"
	CodeDuplicateReservation    Code = "DUPLICATE_RESERVATION"
	CodeInvalidReservationState Code = "INVALID_RESERVATION_STATE"
	CodeNotOwner                Code = "NOT_OWNER"
	CodeInvalidFineState        Code = "INVALID_FINE_STATE"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// Is はコードが一致すればメッセージが違っても同じエラーとみなす
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func New(code Code, msg string) *APIError { return &APIError{Code: code, Message: msg} }

// errors.Is 比較用の番兵
var (
	ErrInvariantViolation      = New(CodeInvariantViolation, "stock invariant violated")
	ErrBorrowingLimitExceeded  = New(CodeBorrowingLimitExceeded, "borrowing limit reached")
	ErrBookUnavailable         = New(CodeBookUnavailable, "book is not available")
	ErrBorrowerInactive        = New(CodeBorrowerInactive, "borrower is not active")
	ErrAlreadyReturned         = New(CodeAlreadyReturned, "borrowing already returned")
	ErrDuplicateReservation    = New(CodeDuplicateReservation, "a pending reservation already exists")
	ErrInvalidReservationState = New(CodeInvalidReservationState, "reservation is not pending")
	ErrNotOwner                = New(CodeNotOwner, "requester does not own this resource")
	ErrInvalidFineState        = New(CodeInvalidFineState, "fine is not pending")
)

func CodeOf(err error) Code {
	var api *APIError
	if errors.As(err, &api) {
		return api.Code
	}
	return CodeInternal
}

func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotOwner, CodeBorrowerInactive:
		return http.StatusForbidden
	case CodeConflict, CodeInvariantViolation, CodeBookUnavailable, CodeAlreadyReturned, CodeDuplicateReservation,
		CodeInvalidReservationState, CodeInvalidFineState:
		return http.StatusConflict
	case CodeBorrowingLimitExceeded:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// FromMySQL は一意制約違反などをAPIErrorに寄せる。それ以外はそのまま返す
func FromMySQL(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062: // duplicate key
			return ErrConflict(conflictMsg)
		case 1452: // foreign key constraint fails
			return ErrInvalid("referenced row does not exist")
		}
	}
	return err
}
