package api

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/themifi/relox/foundation/core/error"
	"github.com/themifi/relox/foundation/lox"
	"github.com/themifi/relox/internal/interpreter/service"
	"github.com/themifi/relox/internal/interpreter/store"
)

// SourceRequest builds the request for Evaluate, Tokenize and Parse
func SourceRequest(source string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"source": structpb.NewStringValue(source),
	}}
}

// SourceFrom reads the source field. An empty string is a valid source,
// a missing or non-string field is not.
func SourceFrom(req *structpb.Struct) (string, error) {
	v, ok := req.GetFields()["source"]
	if !ok {
		return "", invalid("source is required")
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", invalid("source must be a string")
	}
	return sv.StringValue, nil
}

// HistoryRequest builds the request for History
func HistoryRequest(limit int) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"limit": structpb.NewNumberValue(float64(limit)),
	}}
}

// LimitFrom reads the optional limit field; 0 means the server default
func LimitFrom(req *structpb.Struct) int {
	return int(req.GetFields()["limit"].GetNumberValue())
}

// EncodeEvaluation converts an evaluation to its wire form
func EncodeEvaluation(ev *service.Evaluation) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"status":      structpb.NewStringValue(ev.Status.String()),
		"exit_code":   structpb.NewNumberValue(float64(ev.Status.ExitCode())),
		"output":      structpb.NewStringValue(ev.Output),
		"kind":        structpb.NewStringValue(ev.Kind),
		"diagnostics": stringList(ev.Diagnostics),
		"line":        structpb.NewNumberValue(float64(ev.Line)),
		"duration_ms": structpb.NewNumberValue(ev.DurationMS),
		"cached":      structpb.NewBoolValue(ev.Cached),
		"request_id":  structpb.NewStringValue(ev.RequestID),
	}}
}

// DecodeEvaluation is the inverse of EncodeEvaluation
func DecodeEvaluation(s *structpb.Struct) (*service.Evaluation, error) {
	f := s.GetFields()
	status, ok := lox.ParseStatus(f["status"].GetStringValue())
	if !ok {
		return nil, invalid("unknown status " + f["status"].GetStringValue())
	}
	return &service.Evaluation{
		Status:      status,
		Output:      f["output"].GetStringValue(),
		Kind:        f["kind"].GetStringValue(),
		Diagnostics: stringsOf(f["diagnostics"]),
		Line:        int(f["line"].GetNumberValue()),
		DurationMS:  f["duration_ms"].GetNumberValue(),
		Cached:      f["cached"].GetBoolValue(),
		RequestID:   f["request_id"].GetStringValue(),
	}, nil
}

// EncodeTokenization converts a token listing to its wire form
func EncodeTokenization(t *service.Tokenization) *structpb.Struct {
	tokens := make([]*structpb.Value, len(t.Tokens))
	for i, tok := range t.Tokens {
		tokens[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"kind":    structpb.NewStringValue(tok.Kind),
			"lexeme":  structpb.NewStringValue(tok.Lexeme),
			"display": structpb.NewStringValue(tok.Display),
			"line":    structpb.NewNumberValue(float64(tok.Line)),
		}})
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"tokens":      structpb.NewListValue(&structpb.ListValue{Values: tokens}),
		"diagnostics": stringList(t.Diagnostics),
	}}
}

// DecodeTokenization is the inverse of EncodeTokenization
func DecodeTokenization(s *structpb.Struct) *service.Tokenization {
	f := s.GetFields()
	values := f["tokens"].GetListValue().GetValues()
	out := &service.Tokenization{
		Tokens:      make([]service.TokenView, len(values)),
		Diagnostics: stringsOf(f["diagnostics"]),
	}
	for i, v := range values {
		tf := v.GetStructValue().GetFields()
		out.Tokens[i] = service.TokenView{
			Kind:    tf["kind"].GetStringValue(),
			Lexeme:  tf["lexeme"].GetStringValue(),
			Display: tf["display"].GetStringValue(),
			Line:    int(tf["line"].GetNumberValue()),
		}
	}
	return out
}

// EncodeParseResult converts a parse result to its wire form
func EncodeParseResult(p *service.ParseResult) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"tree":        structpb.NewStringValue(p.Tree),
		"depth":       structpb.NewNumberValue(float64(p.Depth)),
		"diagnostics": stringList(p.Diagnostics),
	}}
}

// DecodeParseResult is the inverse of EncodeParseResult
func DecodeParseResult(s *structpb.Struct) *service.ParseResult {
	f := s.GetFields()
	return &service.ParseResult{
		Tree:        f["tree"].GetStringValue(),
		Depth:       int(f["depth"].GetNumberValue()),
		Diagnostics: stringsOf(f["diagnostics"]),
	}
}

// EncodeHistory converts journal entries to their wire form
func EncodeHistory(entries []*store.Entry) *structpb.Struct {
	values := make([]*structpb.Value, len(entries))
	for i, e := range entries {
		values[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"id":          structpb.NewStringValue(e.ID),
			"created_at":  structpb.NewStringValue(e.CreatedAt.UTC().Format(time.RFC3339Nano)),
			"source":      structpb.NewStringValue(e.Source),
			"status":      structpb.NewStringValue(e.Status),
			"output":      structpb.NewStringValue(e.Output),
			"duration_ms": structpb.NewNumberValue(e.DurationMS),
			"request_id":  structpb.NewStringValue(e.RequestID),
		}})
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"entries": structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

// DecodeHistory is the inverse of EncodeHistory
func DecodeHistory(s *structpb.Struct) ([]*store.Entry, error) {
	values := s.GetFields()["entries"].GetListValue().GetValues()
	entries := make([]*store.Entry, len(values))
	for i, v := range values {
		f := v.GetStructValue().GetFields()
		createdAt, err := time.Parse(time.RFC3339Nano, f["created_at"].GetStringValue())
		if err != nil {
			return nil, mdwerror.Wrap(err, "invalid created_at").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("api.DecodeHistory")
		}
		entries[i] = &store.Entry{
			ID:         f["id"].GetStringValue(),
			CreatedAt:  createdAt,
			Source:     f["source"].GetStringValue(),
			Status:     f["status"].GetStringValue(),
			Output:     f["output"].GetStringValue(),
			DurationMS: f["duration_ms"].GetNumberValue(),
			RequestID:  f["request_id"].GetStringValue(),
		}
	}
	return entries, nil
}

func stringList(items []string) *structpb.Value {
	values := make([]*structpb.Value, len(items))
	for i, s := range items {
		values[i] = structpb.NewStringValue(s)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func stringsOf(v *structpb.Value) []string {
	values := v.GetListValue().GetValues()
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, item := range values {
		out[i] = item.GetStringValue()
	}
	return out
}

func invalid(message string) error {
	return mdwerror.New(message).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("api.decode")
}
