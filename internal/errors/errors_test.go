package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Wrap(ErrCategoryTreeTooDeep, cause)

	if err.Code != ErrCategoryTreeTooDeep.Code || err.StatusCode != http.StatusInternalServerError {
		t.Errorf("Wrap() = %+v, want sentinel code and status", err)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not unwrap to its cause")
	}
	if !stderrors.Is(err, ErrCategoryTreeTooDeep) {
		t.Error("wrapped error does not match its sentinel")
	}
	if ErrCategoryTreeTooDeep.Internal != nil {
		t.Error("Wrap mutated the sentinel")
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInvalidInput, "from must be YYYY-MM-DD")

	if err.Error() != "from must be YYYY-MM-DD" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !stderrors.Is(err, ErrInvalidInput) {
		t.Error("re-worded error does not match its sentinel")
	}
	if stderrors.Is(err, ErrNotFound) {
		t.Error("matched an unrelated sentinel")
	}

	var appErr *AppError
	if !stderrors.As(fmt.Errorf("handler: %w", err), &appErr) || appErr.StatusCode != http.StatusBadRequest {
		t.Errorf("errors.As through fmt wrapping = %+v", appErr)
	}
}
