package llm

import (
	"errors"
	"testing"
)

func TestDecodeLenient(t *testing.T) {
	type payload struct {
		Relevant   bool    `json:"relevant"`
		Confidence float64 `json:"confidence"`
	}

	tests := []struct {
		name    string
		raw     string
		want    payload
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"relevant": true, "confidence": 0.9}`,
			want: payload{Relevant: true, Confidence: 0.9},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"relevant\": true, \"confidence\": 0.8}\n```",
			want: payload{Relevant: true, Confidence: 0.8},
		},
		{
			name: "fence without language tag",
			raw:  "```\n{\"relevant\": false, \"confidence\": 0.3}\n```",
			want: payload{Relevant: false, Confidence: 0.3},
		},
		{
			name: "prose around object",
			raw:  "Here is the result: {\"relevant\": true, \"confidence\": 1} hope that helps",
			want: payload{Relevant: true, Confidence: 1},
		},
		{
			name:    "no object at all",
			raw:     "I cannot answer that.",
			wantErr: true,
		},
		{
			name:    "broken json inside object",
			raw:     `{"relevant": tru`,
			wantErr: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := decodeLenient(tt.raw, &got)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("decoded %+v, want %+v", got, tt.want)
			}
		})
	}
}
