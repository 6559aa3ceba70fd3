package service

import (
	"context"

	coregrpc "github.com/msto63/oil/pkg/core/grpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote oil.v1.Parser
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn // owned connection, nil when supplied by the caller
}

// NewClient wraps an existing connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial connects to the service at target
func Dial(cfg coregrpc.ClientConfig, opts ...grpc.DialOption) (*Client, error) {
	conn, err := coregrpc.Dial(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: conn, conn: conn}, nil
}

// Close closes an owned connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Parse sends a parse request and returns the decoded response
func (c *Client) Parse(ctx context.Context, req Request, opts ...grpc.CallOption) (map[string]interface{}, error) {
	return c.invoke(ctx, ParseMethod, req.Map(), opts...)
}

// Lex sends a lex request and returns the decoded response
func (c *Client) Lex(ctx context.Context, text string, opts ...grpc.CallOption) (map[string]interface{}, error) {
	return c.invoke(ctx, LexMethod, map[string]interface{}{"text": text}, opts...)
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]interface{}, opts ...grpc.CallOption) (map[string]interface{}, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
