package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Evaluation is the result of a remote evaluation.
type Evaluation struct {
	ID         string
	Expression string
	Definition string
	Result     string
	Type       string
	Value      interface{}
}

// Client calls a remote Calculator service.
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn
}

// NewClient wraps an existing connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial connects to addr. Without options the connection is unencrypted.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: conn, conn: conn}, nil
}

// Close closes the connection if the client opened it.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Evaluate evaluates expression on the server.
func (c *Client) Evaluate(ctx context.Context, expression string) (*Evaluation, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Evaluate", wrapperspb.String(expression), out); err != nil {
		return nil, err
	}
	fields := out.GetFields()
	return &Evaluation{
		ID:         fields["id"].GetStringValue(),
		Expression: fields["expression"].GetStringValue(),
		Definition: fields["definition"].GetStringValue(),
		Result:     fields["result"].GetStringValue(),
		Type:       fields["type"].GetStringValue(),
		Value:      fields["value"].AsInterface(),
	}, nil
}

// SetVariable assigns a variable on the server. value must be nil, a bool,
// a number or a string.
func (c *Client) SetVariable(ctx context.Context, name string, value interface{}) error {
	fields := map[string]interface{}{"name": name, "value": value}
	switch value.(type) {
	case float32, float64:
		fields["type"] = "double"
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return err
	}
	return c.cc.Invoke(ctx, "/"+ServiceName+"/SetVariable", in, new(emptypb.Empty))
}

// ListFunctions returns the function names known to the server.
func (c *Client) ListFunctions(ctx context.Context) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ListFunctions", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		names = append(names, v.GetStringValue())
	}
	return names, nil
}

// ErrorKind returns the calculator error kind carried by a status error, or
// "" when there is none.
func ErrorKind(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if s, ok := d.(*structpb.Struct); ok {
			return s.GetFields()["kind"].GetStringValue()
		}
	}
	return ""
}
