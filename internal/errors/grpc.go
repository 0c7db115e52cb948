package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToGRPCError converts an error to a gRPC status error. Code, reason and
// scalar metadata travel as a structpb.Struct detail.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	// Check if it's already a gRPC status error
	if _, ok := status.FromError(err); ok {
		return err
	}

	var customErr *Error
	if As(err, &customErr) {
		st := status.New(customErr.Code.GRPCCode(), customErr.Message)
		if details := detailsStruct(customErr); details != nil {
			if withDetails, detailErr := st.WithDetails(details); detailErr == nil {
				st = withDetails
			}
		}
		return st.Err()
	}

	return status.Error(codes.Internal, err.Error())
}

// detailsStruct flattens metadata into a structpb.Struct. Values structpb
// cannot represent are stringified.
func detailsStruct(e *Error) *structpb.Struct {
	if len(e.Meta) == 0 {
		return nil
	}

	meta := make(map[string]interface{}, len(e.Meta))
	for k, v := range e.Meta {
		if _, err := structpb.NewValue(v); err != nil {
			meta[k] = fmt.Sprintf("%v", v)
			continue
		}
		meta[k] = v
	}

	s, err := structpb.NewStruct(map[string]interface{}{
		"code": string(e.Code),
		"meta": meta,
	})
	if err != nil {
		return nil
	}
	return s
}

// GRPCCode returns the corresponding gRPC code
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeOK:
		return codes.OK
	case CodeCanceled:
		return codes.Canceled
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeDeadlineExceeded:
		return codes.DeadlineExceeded
	case CodeNotFound:
		return codes.NotFound
	case CodeAlreadyExists:
		return codes.AlreadyExists
	case CodeFailedPrecondition:
		return codes.FailedPrecondition
	case CodeUnimplemented:
		return codes.Unimplemented
	case CodeInternal:
		return codes.Internal
	case CodeUnavailable:
		return codes.Unavailable
	case CodeDataLoss:
		return codes.DataLoss
	default:
		return codes.Unknown
	}
}
