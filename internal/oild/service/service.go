// Package service implements the oil parse service: request decoding,
// cached parse and lex responses, and the gRPC binding.
package service

import (
	"context"
	"math"

	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwlog "github.com/msto63/oil/foundation/core/log"
	"github.com/msto63/oil/foundation/oil"
	mdwparser "github.com/msto63/oil/foundation/oil/parser"
	"github.com/msto63/oil/pkg/core/cache"
	coregrpc "github.com/msto63/oil/pkg/core/grpc"
	"github.com/msto63/oil/pkg/core/health"
)

// ProbeText is parsed by the parser health check
const ProbeText = `probe box (1, "two") {a: 1.5k 20gr, b: items[x ? x.id == "id1" -> x], c: eight 8}`

// Request is a parse or lex request as received from a transport
type Request struct {
	Text  string
	Start int
	End   int
	Stop  string
	One   bool
}

// Config configures a Service
type Config struct {
	Engine *oil.Engine
	Cache  *cache.Cache // optional
	Logger *mdwlog.Logger

	// DefaultStop applies to requests without stop characters
	DefaultStop string
}

// Service answers parse and lex requests. It is safe for concurrent use.
type Service struct {
	engine      *oil.Engine
	cache       *cache.Cache
	logger      *mdwlog.Logger
	defaultStop string
}

// New creates a service
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		cfg.Logger = mdwlog.GetDefault()
	}
	if cfg.Engine == nil {
		engine, err := oil.NewEngine(oil.Options{Logger: cfg.Logger})
		if err != nil {
			return nil, err
		}
		cfg.Engine = engine
	}

	return &Service{
		engine:      cfg.Engine,
		cache:       cfg.Cache,
		logger:      cfg.Logger.WithField("component", "oil-service"),
		defaultStop: cfg.DefaultStop,
	}, nil
}

// RegisterChecks adds the parser probe and, when caching, the cache check
func (s *Service) RegisterChecks(registry *health.Registry) {
	registry.Register(health.ParserCheck("parser", s.engine, ProbeText))
	if s.cache != nil {
		registry.Register(health.CacheCheck("cache", s.cache))
	}
}

// Parse parses the requested range. Diagnostics are part of the response;
// only malformed requests return an error.
func (s *Service) Parse(ctx context.Context, req Request) (map[string]interface{}, error) {
	if req.Stop == "" {
		req.Stop = s.defaultStop
	}
	r := mdwparser.Range{Start: req.Start, End: req.End, Stop: req.Stop}

	return s.cached(ctx, cache.Request{
		Op: "parse", Text: req.Text, Start: req.Start, End: req.End, Stop: req.Stop, One: req.One,
	}, func() map[string]interface{} {
		if req.One {
			res := s.engine.ParseOneDetailed(req.Text, r)
			resp := map[string]interface{}{"end": float64(res.End)}
			if res.Expression != nil {
				resp["expression"] = oil.Encode(res.Expression)
			} else {
				resp["expression"] = nil
			}
			if res.Err != nil {
				resp["error"] = ErrorValue(res.Err)
			}
			return resp
		}

		res := s.engine.ParseDetailed(req.Text, r)
		resp := map[string]interface{}{
			"expressions": oil.EncodeAll(res.Expressions),
			"end":         float64(res.End),
		}
		if res.Err != nil {
			resp["error"] = ErrorValue(res.Err)
		}
		return resp
	})
}

// Lex returns the token listing of the whole text
func (s *Service) Lex(ctx context.Context, text string) (map[string]interface{}, error) {
	return s.cached(ctx, cache.Request{Op: "lex", Text: text}, func() map[string]interface{} {
		tokens, err := s.engine.Lex(text)
		if err != nil {
			return map[string]interface{}{
				"tokens": []interface{}{},
				"error":  ErrorValue(mdwparser.Diagnostic(err)),
			}
		}
		return map[string]interface{}{"tokens": EncodeTokens(tokens)}
	})
}

func (s *Service) cached(ctx context.Context, key cache.Request, compute func() map[string]interface{}) (map[string]interface{}, error) {
	logger := s.logger.WithRequestID(coregrpc.GetRequestID(ctx))
	if err := ctx.Err(); err != nil {
		return nil, mdwerror.Wrap(err, "request cancelled").WithCode(mdwerror.CodeTimeout)
	}

	if s.cache == nil {
		return compute(), nil
	}

	k := key.Key()
	if v, ok := s.cache.Get(k); ok {
		logger.Debug("cache hit", mdwlog.Fields{"op": key.Op, "bytes": len(key.Text)})
		return v.(map[string]interface{}), nil
	}

	resp := compute()
	s.cache.Set(k, resp)
	return resp, nil
}

// ErrorValue renders a diagnostic for a response
func ErrorValue(err *mdwerror.Error) map[string]interface{} {
	v := map[string]interface{}{
		"code":    string(err.Code()),
		"message": err.Error(),
	}
	if line, column, offset, ok := mdwparser.Position(err); ok {
		v["line"] = float64(line)
		v["column"] = float64(column)
		v["offset"] = float64(offset)
	}
	return v
}

// EncodeTokens renders tokens as interchange values
func EncodeTokens(tokens []mdwparser.Token) []interface{} {
	out := make([]interface{}, len(tokens))
	for i, tok := range tokens {
		m := map[string]interface{}{
			"offset": float64(tok.Offset),
			"line":   float64(tok.Line),
			"column": float64(tok.Column),
			"text":   tok.Text,
			"kind":   tok.Kind.String(),
		}
		switch v := tok.Value.(type) {
		case float64:
			m["value"] = v
		case string:
			m["value"] = v
		case mdwparser.VerbatimValue:
			m["value"] = map[string]interface{}{"type": v.Type, "content": v.Content}
		}
		if tok.Delimited {
			m["delimited"] = true
		}
		out[i] = m
	}
	return out
}

// RequestFromMap decodes a request from its interchange form:
// {text, start?, end?, stop?, one?}
func RequestFromMap(m map[string]interface{}) (Request, error) {
	var req Request

	text, ok := m["text"].(string)
	if !ok {
		return req, invalid("text must be a string")
	}
	req.Text = text

	var err error
	if req.Start, err = offset(m, "start"); err != nil {
		return req, err
	}
	if req.End, err = offset(m, "end"); err != nil {
		return req, err
	}

	if v, present := m["stop"]; present && v != nil {
		if req.Stop, ok = v.(string); !ok {
			return req, invalid("stop must be a string")
		}
	}
	if v, present := m["one"]; present && v != nil {
		if req.One, ok = v.(bool); !ok {
			return req, invalid("one must be a boolean")
		}
	}
	return req, nil
}

// Map returns the interchange form of the request
func (r Request) Map() map[string]interface{} {
	m := map[string]interface{}{"text": r.Text}
	if r.Start != 0 {
		m["start"] = float64(r.Start)
	}
	if r.End != 0 {
		m["end"] = float64(r.End)
	}
	if r.Stop != "" {
		m["stop"] = r.Stop
	}
	if r.One {
		m["one"] = true
	}
	return m
}

func offset(m map[string]interface{}, key string) (int, error) {
	v, present := m[key]
	if !present || v == nil {
		return 0, nil
	}
	f, ok := v.(float64)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, invalid(key + " must be a non-negative integer")
	}
	return int(f), nil
}

func invalid(message string) *mdwerror.Error {
	return mdwerror.New("invalid request: " + message).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("decode")
}
