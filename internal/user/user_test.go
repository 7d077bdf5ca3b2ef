package user

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombooking/internal/apperr"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("staff")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, r)

	_, err = ParseRole("librarian")
	assert.Error(t, err)
}

func TestActor_IsStaff(t *testing.T) {
	assert.True(t, Actor{Role: RoleStaff}.IsStaff())
	assert.True(t, Actor{Role: RoleAdmin}.IsStaff())
	assert.False(t, Actor{Role: RoleUser}.IsStaff())
	assert.False(t, Actor{}.IsStaff())
}

func TestCreateError_MalformedIDIsNotRetryable(t *testing.T) {
	err := createError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}))
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, apperr.CodeInvalidFormat, ve.Code)
	assert.Equal(t, "id", ve.Field)
	assert.False(t, errors.Is(err, apperr.ErrUnavailable))

	err = createError(errors.New("connection reset"))
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}
