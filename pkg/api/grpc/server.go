// Package grpcapi implements the Calculator gRPC service. Messages are
// protobuf well-known types, so no generated code is needed on either side.
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/danielb987/SuperCalculator/pkg/calculator"
	"github.com/danielb987/SuperCalculator/pkg/scope"
	"github.com/danielb987/SuperCalculator/pkg/store"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "supercalculator.v1.Calculator"

// CalculatorServer is the server API for the Calculator service.
type CalculatorServer interface {
	// Evaluate evaluates an expression and returns the recorded evaluation.
	Evaluate(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// SetVariable assigns {"name": ..., "value": ...}.
	SetVariable(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	// ListFunctions returns the names of the available functions.
	ListFunctions(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// ServiceDesc describes the Calculator service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: unaryHandler("Evaluate", CalculatorServer.Evaluate)},
		{MethodName: "SetVariable", Handler: unaryHandler("SetVariable", CalculatorServer.SetVariable)},
		{MethodName: "ListFunctions", Handler: unaryHandler("ListFunctions", CalculatorServer.ListFunctions)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "supercalculator/v1/calculator.proto",
}

func unaryHandler[Req, Resp any](method string, call func(CalculatorServer, context.Context, *Req) (*Resp, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CalculatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CalculatorServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Server implements the Calculator gRPC service.
type Server struct {
	calc    *calculator.Calculator
	history *store.Store
	grpc    *grpc.Server
}

var _ CalculatorServer = (*Server)(nil)

// New creates a new gRPC server. When debug is set every call is logged.
func New(calc *calculator.Calculator, history *store.Store, debug bool) *Server {
	srv := &Server{
		calc:    calc,
		history: history,
	}

	var opts []grpc.ServerOption
	if debug {
		opts = append(opts, grpc.UnaryInterceptor(logCalls))
	}
	gs := grpc.NewServer(opts...)
	gs.RegisterService(&ServiceDesc, srv)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves gRPC requests on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

func (s *Server) Evaluate(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	res, rec := s.calc.Record(s.history, req.GetValue())
	if res.Err != nil {
		return nil, s.calcStatus(res.Err)
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"id":         rec.ID,
		"expression": rec.Expression,
		"definition": rec.Definition,
		"result":     rec.Result,
		"type":       rec.Type,
		"value":      res.Value.ToGoValue(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode result: %v", err)
	}
	return out, nil
}

func (s *Server) SetVariable(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	fields := req.GetFields()
	name := fields["name"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	raw, ok := fields["value"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "value is required")
	}

	v, err := fromProto(raw, fields["type"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.calc.Scope().Set(name, v); err != nil {
		if errors.Is(err, scope.ErrReadOnly) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) ListFunctions(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error) {
	names := s.calc.Functions().Names()
	items := make([]interface{}, len(names))
	for i, n := range names {
		items[i] = n
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode functions: %v", err)
	}
	return list, nil
}

// --- Internal helpers ---

// calcStatus maps a calculator error to a status carrying the error kind as
// a detail.
func (s *Server) calcStatus(err error) error {
	code := codes.InvalidArgument
	kind := "UnknownError"
	if k, ok := types.KindOf(err); ok {
		kind = k.String()
		if k == types.KindIdentifierNotFound || k == types.KindFunctionNotFound {
			code = codes.NotFound
		}
	}

	st := status.New(code, s.calc.Message(err))
	detail, derr := structpb.NewStruct(map[string]interface{}{"kind": kind})
	if derr != nil {
		return st.Err()
	}
	if withDetail, derr := st.WithDetails(detail); derr == nil {
		st = withDetail
	}
	return st.Err()
}

// fromProto converts a protobuf value to a calculator value. Whole numbers
// become ints unless typ is "double".
func fromProto(v *structpb.Value, typ string) (types.Value, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return types.Null, nil
	case *structpb.Value_BoolValue:
		return types.NewBool(kind.BoolValue), nil
	case *structpb.Value_StringValue:
		return types.NewString(kind.StringValue), nil
	case *structpb.Value_NumberValue:
		f := kind.NumberValue
		if typ != "double" && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return types.NewInt(int64(f)), nil
		}
		return types.NewDouble(f), nil
	default:
		return types.Null, fmt.Errorf("unsupported value kind %T", kind)
	}
}

func logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	log.Printf("[grpc] %s %s", info.FullMethod, status.Code(err))
	return resp, err
}
