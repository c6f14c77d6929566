package grpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func errorInfo(t *testing.T, details []any) *errdetails.ErrorInfo {
	t.Helper()
	for _, d := range details {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info
		}
	}
	return nil
}

func TestToStatus_Codes(t *testing.T) {
	tests := []struct {
		err    error
		code   codes.Code
		reason string
	}{
		{common.ErrAllocationExhausted, codes.Unavailable, "ALLOCATION_EXHAUSTED"},
		{common.ErrUserNotFound, codes.NotFound, "USER_NOT_FOUND"},
		{common.ErrAddressNotFound, codes.NotFound, "ADDRESS_NOT_FOUND"},
		{common.ErrCodeNotFound, codes.NotFound, "CODE_NOT_FOUND"},
		{common.ErrCodeAlreadyUsed, codes.FailedPrecondition, "CODE_ALREADY_USED"},
		{common.ErrRedemptionConflict, codes.Aborted, "REDEMPTION_CONFLICT"},
		{common.ErrDuplicateCode, codes.AlreadyExists, "DUPLICATE_CODE"},
		{common.ErrNotAdmin, codes.PermissionDenied, "NOT_ADMIN"},
		{common.ErrInvalidCode, codes.InvalidArgument, "INVALID_CODE"},
		{common.ErrorUnauthorized, codes.Unauthenticated, "UNAUTHORIZED"},
		{fmt.Errorf("redeem: %w", common.ErrCodeAlreadyUsed), codes.FailedPrecondition, "CODE_ALREADY_USED"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			st := toStatus(tt.err)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.err.Error(), st.Message())

			info := errorInfo(t, st.Details())
			require.NotNil(t, info)
			assert.Equal(t, tt.reason, info.Reason)
			assert.Equal(t, ErrorDomain, info.Domain)

			assert.ErrorIs(t, tt.err, FromStatus(st.Err()), "round trip")
		})
	}
}

func TestToStatus_Quota(t *testing.T) {
	st := toStatus(&common.QuotaExceededError{Count: 100, Limit: 100})
	assert.Equal(t, codes.ResourceExhausted, st.Code())

	var qf *errdetails.QuotaFailure
	for _, d := range st.Details() {
		if v, ok := d.(*errdetails.QuotaFailure); ok {
			qf = v
		}
	}
	require.NotNil(t, qf)
	require.Len(t, qf.Violations, 1)
	assert.Equal(t, "addresses", qf.Violations[0].Subject)

	err := FromStatus(st.Err())
	var qe *common.QuotaExceededError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 100, qe.Count)
	assert.Equal(t, 100, qe.Limit)
}

func TestToStatus_HidesCauses(t *testing.T) {
	st := toStatus(dbx.StorageError("insert address", errors.New("dial tcp 10.0.0.5:5432: refused")))
	assert.Equal(t, codes.Unavailable, st.Code())
	assert.Equal(t, "storage unavailable", st.Message())
	assert.ErrorIs(t, FromStatus(st.Err()), common.ErrStorageUnavailable)

	st = toStatus(errors.New("nil pointer somewhere"))
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message())
	assert.Empty(t, st.Details())
}

func TestFromStatus_Fallbacks(t *testing.T) {
	assert.NoError(t, FromStatus(nil))

	plain := errors.New("not a status")
	assert.Equal(t, plain, FromStatus(plain))

	assert.ErrorIs(t, FromStatus(status.Error(codes.Unauthenticated, "missing token")), common.ErrorUnauthorized)
	assert.ErrorIs(t, FromStatus(status.Error(codes.Unavailable, "connection refused")), ErrUnavailable)
}
