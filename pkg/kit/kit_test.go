package kit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var trace []string
	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				trace = append(trace, name)
				return next(ctx, req)
			}
		}
	}

	ep := Chain(mw("a"), mw("b"), mw("c"))(func(ctx context.Context, req any) (any, error) {
		trace = append(trace, "endpoint")
		return nil, nil
	})

	if _, err := ep(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c", "endpoint"}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if got := GetTransport(ctx); got != "http" {
		t.Errorf("default transport = %q, want http", got)
	}
	ctx = WithTransport(ctx, "mcp")
	if got := GetTransport(ctx); got != "mcp" {
		t.Errorf("transport = %q, want mcp", got)
	}

	if got := GetRequestID(ctx); got != "" {
		t.Errorf("request id = %q, want empty", got)
	}
	ctx = WithRequestID(ctx, "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("request id = %q, want req-1", got)
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ok := Logging(logger, "test")(func(ctx context.Context, req any) (any, error) {
		return "result", nil
	})
	resp, err := ok(context.Background(), nil)
	if err != nil || resp != "result" {
		t.Errorf("got (%v, %v), want (result, nil)", resp, err)
	}

	boom := errors.New("boom")
	fail := Logging(logger, "test")(func(ctx context.Context, req any) (any, error) {
		return nil, boom
	})
	if _, err := fail(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}
