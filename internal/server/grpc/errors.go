package grpc

import (
	"errors"
	"strconv"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/server/services"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
)

// ErrorDomain is set on every errdetails.ErrorInfo the service returns.
const ErrorDomain = "fakemail"

const reasonQuotaExceeded = "QUOTA_EXCEEDED"

// errorTable is matched in order with errors.Is; more specific errors first.
var errorTable = []struct {
	err    error
	code   codes.Code
	reason string
}{
	{common.ErrQuotaExceeded, codes.ResourceExhausted, reasonQuotaExceeded},
	{common.ErrAllocationExhausted, codes.Unavailable, "ALLOCATION_EXHAUSTED"},
	{common.ErrUserNotFound, codes.NotFound, "USER_NOT_FOUND"},
	{common.ErrAddressNotFound, codes.NotFound, "ADDRESS_NOT_FOUND"},
	{common.ErrCodeNotFound, codes.NotFound, "CODE_NOT_FOUND"},
	{common.ErrCodeAlreadyUsed, codes.FailedPrecondition, "CODE_ALREADY_USED"},
	{common.ErrRedemptionConflict, codes.Aborted, "REDEMPTION_CONFLICT"},
	{common.ErrDuplicateCode, codes.AlreadyExists, "DUPLICATE_CODE"},
	{common.ErrDuplicateAddress, codes.AlreadyExists, "DUPLICATE_ADDRESS"},
	{common.ErrNotAdmin, codes.PermissionDenied, "NOT_ADMIN"},
	{common.ErrInvalidCode, codes.InvalidArgument, "INVALID_CODE"},
	{services.ErrEmptyRecipient, codes.InvalidArgument, "EMPTY_RECIPIENT"},
	{common.ErrTokenExpired, codes.Unauthenticated, "TOKEN_EXPIRED"},
	{common.ErrInvalidToken, codes.Unauthenticated, "INVALID_TOKEN"},
	{common.ErrorUnauthorized, codes.Unauthenticated, "UNAUTHORIZED"},
	{common.ErrStorageUnavailable, codes.Unavailable, "STORAGE_UNAVAILABLE"},
}

// toStatus converts a service error into a gRPC status. Known errors keep
// their message and carry an ErrorInfo with a stable reason; storage and
// unknown errors are reported without their cause.
func toStatus(err error) *status.Status {
	for _, e := range errorTable {
		if !errors.Is(err, e.err) {
			continue
		}

		msg := err.Error()
		if e.err == common.ErrStorageUnavailable {
			msg = e.err.Error()
		}

		info := &errdetails.ErrorInfo{Reason: e.reason, Domain: ErrorDomain}
		details := []protoadapt.MessageV1{info}

		var qe *common.QuotaExceededError
		if errors.As(err, &qe) {
			info.Metadata = map[string]string{
				"count": strconv.Itoa(qe.Count),
				"limit": strconv.Itoa(qe.Limit),
			}
			details = append(details, &errdetails.QuotaFailure{
				Violations: []*errdetails.QuotaFailure_Violation{{
					Subject:     "addresses",
					Description: qe.Error(),
				}},
			})
		}

		st := status.New(e.code, msg)
		if withDetails, derr := st.WithDetails(details...); derr == nil {
			return withDetails
		}
		return st
	}

	return status.New(codes.Internal, common.ErrorInternal.Error())
}

// FromStatus maps a status produced by toStatus back to the package
// sentinel it was built from, so callers on the other side of the wire can
// keep using errors.Is.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.Domain != ErrorDomain {
			continue
		}
		if info.Reason == reasonQuotaExceeded {
			count, _ := strconv.Atoi(info.Metadata["count"])
			limit, _ := strconv.Atoi(info.Metadata["limit"])
			return &common.QuotaExceededError{Count: count, Limit: limit}
		}
		for _, e := range errorTable {
			if e.reason == info.Reason {
				return e.err
			}
		}
	}

	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.ErrorUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return err
	}
}
