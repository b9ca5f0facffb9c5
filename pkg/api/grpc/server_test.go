package grpcapi

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/danielb987/SuperCalculator/pkg/calculator"
	"github.com/danielb987/SuperCalculator/pkg/store"
)

func startTestServer(t *testing.T) (string, *store.Store, func()) {
	t.Helper()
	calc, err := calculator.New(nil)
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}
	s := store.New(10)
	srv := New(calc, s, true)

	lis, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go srv.grpc.Serve(lis)

	return lis.Addr().String(), s, func() {
		srv.grpc.Stop()
	}
}

func dial(t *testing.T, addr string) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	return conn
}

func TestEvaluate(t *testing.T) {
	addr, s, cleanup := startTestServer(t)
	defer cleanup()

	client, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	ctx := context.Background()

	res, err := client.Evaluate(ctx, "2+3*4")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Result != "14" || res.Type != "int" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Value != float64(14) {
		t.Fatalf("unexpected value: %#v", res.Value)
	}
	if res.Definition != "(IntNumber:2)+((IntNumber:3)*(IntNumber:4))" {
		t.Fatalf("unexpected definition: %s", res.Definition)
	}
	if _, err := s.Get(res.ID); err != nil {
		t.Fatalf("evaluation not recorded: %v", err)
	}
}

func TestEvaluateErrors(t *testing.T) {
	addr, _, cleanup := startTestServer(t)
	defer cleanup()

	client, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	ctx := context.Background()

	tests := []struct {
		input string
		code  codes.Code
		kind  string
	}{
		{"", codes.InvalidArgument, "EmptyExpression"},
		{"1+2)", codes.InvalidArgument, "SyntaxError"},
		{"missing", codes.NotFound, "IdentifierNotFoundError"},
		{"nosuchfunction()", codes.NotFound, "FunctionNotFoundError"},
		{"7 % 0", codes.InvalidArgument, "DivisionByZeroError"},
	}
	for _, tt := range tests {
		_, err := client.Evaluate(ctx, tt.input)
		if status.Code(err) != tt.code {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.code, err)
		}
		if got := ErrorKind(err); got != tt.kind {
			t.Errorf("%q: expected kind %s, got %q", tt.input, tt.kind, got)
		}
	}
}

func TestSetVariable(t *testing.T) {
	addr, _, cleanup := startTestServer(t)
	defer cleanup()

	client, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	ctx := context.Background()

	if err := client.SetVariable(ctx, "n", 4); err != nil {
		t.Fatalf("SetVariable: %v", err)
	}
	res, err := client.Evaluate(ctx, "n / 3")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Result != "1" {
		t.Fatalf("expected integer division, got %s", res.Result)
	}

	if err := client.SetVariable(ctx, "n", 4.0); err != nil {
		t.Fatalf("SetVariable: %v", err)
	}
	res, err = client.Evaluate(ctx, "n / 2")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Result != "2.0" || res.Type != "double" {
		t.Fatalf("expected double division, got %+v", res)
	}

	if err := client.SetVariable(ctx, "greeting", "hi"); err != nil {
		t.Fatalf("SetVariable: %v", err)
	}
	res, err = client.Evaluate(ctx, `greeting + "!"`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Result != "hi!" {
		t.Fatalf("unexpected result: %s", res.Result)
	}

	err = client.SetVariable(ctx, "pi", 3)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", err)
	}
	err = client.SetVariable(ctx, "not a name", 3)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestSetVariableMissingFields(t *testing.T) {
	addr, _, cleanup := startTestServer(t)
	defer cleanup()

	conn := dial(t, addr)
	defer conn.Close()
	ctx := context.Background()

	for _, fields := range []map[string]interface{}{
		{"value": 1},
		{"name": "x"},
	} {
		in, err := structpb.NewStruct(fields)
		if err != nil {
			t.Fatal(err)
		}
		err = conn.Invoke(ctx, "/"+ServiceName+"/SetVariable", in, new(structpb.Struct))
		if status.Code(err) != codes.InvalidArgument {
			t.Errorf("%v: expected InvalidArgument, got %v", fields, err)
		}
	}
}

func TestListFunctions(t *testing.T) {
	addr, _, cleanup := startTestServer(t)
	defer cleanup()

	conn := dial(t, addr)
	defer conn.Close()

	names, err := NewClient(conn).ListFunctions(context.Background())
	if err != nil {
		t.Fatalf("ListFunctions: %v", err)
	}
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	for _, want := range []string{"sin", "int", "random", "if"} {
		if !found[want] {
			t.Errorf("expected function %s in %v", want, names)
		}
	}
}

func TestUnknownMethod(t *testing.T) {
	addr, _, cleanup := startTestServer(t)
	defer cleanup()

	conn := dial(t, addr)
	defer conn.Close()

	err := conn.Invoke(context.Background(), "/"+ServiceName+"/Nope", wrapperspb.String("1"), new(structpb.Struct))
	if status.Code(err) != codes.Unimplemented {
		t.Fatalf("expected Unimplemented, got %v", err)
	}
}
