package request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type signup struct {
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required,max=150,username"`
	Items    []item  `json:"items" validate:"required,min=1,unique=ID,dive"`
	Note     *string `json:"note"`
}

type item struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int32 `json:"amount" validate:"gte=1"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
		wantBody   bool
	}{
		{name: "valid", body: `{"email":"a@b.co","username":"chef","items":[{"id":1,"amount":2}]}`},
		{name: "malformed", body: `{"email":`, wantBody: true},
		{name: "unknown field", body: `{"email":"a@b.co","extra":1}`, wantBody: true},
		{
			name:       "invalid fields",
			body:       `{"email":"nope","username":"bad name","items":[{"id":1,"amount":0}]}`,
			wantFields: []string{"email", "username", "items[0].amount"},
		},
		{
			name:       "duplicate items",
			body:       `{"email":"a@b.co","username":"chef","items":[{"id":1,"amount":1},{"id":1,"amount":1}]}`,
			wantFields: []string{"items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst signup
			err := Decode(httptest.NewRecorder(), r, &dst)

			if tt.wantBody {
				if !errors.Is(err, ErrInvalidBody) {
					t.Fatalf("Decode() error = %v, want ErrInvalidBody", err)
				}
				return
			}
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				return
			}
			var fields FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("Decode() error = %v, want FieldErrors", err)
			}
			for _, f := range tt.wantFields {
				if _, ok := fields[f]; !ok {
					t.Errorf("missing field error for %q in %v", f, fields)
				}
			}
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.raw)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			got, err := PathID(r, "id")
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("PathID() = %d, %v", got, err)
			}
		})
	}
}

func TestQueryFlag(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?a=1&b=true&c=0", nil)
	if !QueryFlag(r, "a") || !QueryFlag(r, "b") || QueryFlag(r, "c") || QueryFlag(r, "d") {
		t.Error("QueryFlag() returned unexpected values")
	}
}
