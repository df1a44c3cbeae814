package api

import (
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/themifi/relox/foundation/core/error"
)

func TestSourceFrom(t *testing.T) {
	tests := []struct {
		name    string
		req     *structpb.Struct
		want    string
		wantErr bool
	}{
		{"source", SourceRequest("1 + 2"), "1 + 2", false},
		{"empty source is valid", SourceRequest(""), "", false},
		{"missing field", &structpb.Struct{}, "", true},
		{"nil request", nil, "", true},
		{"wrong type", &structpb.Struct{Fields: map[string]*structpb.Value{
			"source": structpb.NewNumberValue(3),
		}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SourceFrom(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SourceFrom() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
				t.Errorf("error code = %v, want INVALID_INPUT", mdwerror.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("SourceFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLimitFrom(t *testing.T) {
	if got := LimitFrom(HistoryRequest(15)); got != 15 {
		t.Errorf("LimitFrom() = %d, want 15", got)
	}
	if got := LimitFrom(&structpb.Struct{}); got != 0 {
		t.Errorf("LimitFrom(empty) = %d, want 0", got)
	}
}

func TestDecodeEvaluation_UnknownStatus(t *testing.T) {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{
		"status": structpb.NewStringValue("exploded"),
	}}
	if _, err := DecodeEvaluation(s); err == nil {
		t.Error("DecodeEvaluation() should reject an unknown status")
	}
}

func TestServiceDesc(t *testing.T) {
	if ServiceDesc.ServiceName != "relox.v1.Interpreter" {
		t.Errorf("ServiceName = %q", ServiceDesc.ServiceName)
	}
	want := map[string]bool{"Evaluate": true, "Tokenize": true, "Parse": true, "History": true}
	for _, m := range ServiceDesc.Methods {
		if !want[m.MethodName] {
			t.Errorf("unexpected method %q", m.MethodName)
		}
		delete(want, m.MethodName)
	}
	if len(want) != 0 {
		t.Errorf("missing methods: %v", want)
	}
	if EvaluateMethod != "/relox.v1.Interpreter/Evaluate" {
		t.Errorf("EvaluateMethod = %q", EvaluateMethod)
	}
}
