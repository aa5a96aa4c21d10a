package pagination

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Params
		wantErr error
	}{
		{"defaults", "", Params{Page: 1, Limit: DefaultLimit}, nil},
		{"explicit", "page=3&limit=10", Params{Page: 3, Limit: 10}, nil},
		{"clamped limit", "limit=1000", Params{Page: 1, Limit: MaxLimit}, nil},
		{"zero page", "page=0", Params{}, ErrInvalidPage},
		{"negative limit", "limit=-1", Params{}, ErrInvalidLimit},
		{"garbage page", "page=abc", Params{}, ErrInvalidPage},
		{"huge page", "page=2147483647&limit=100", Params{}, ErrInvalidPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got, err := Parse(q)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParamsOffsetAndRange(t *testing.T) {
	p := Params{Page: 3, Limit: 6}
	if p.Offset() != 12 {
		t.Errorf("Offset() = %d, want 12", p.Offset())
	}
	if p.InRange(12) {
		t.Error("page 3 of 12 items should be out of range")
	}
	if !p.InRange(13) {
		t.Error("page 3 of 13 items should be in range")
	}
	if !(Params{Page: 1, Limit: 6}).InRange(0) {
		t.Error("first page should always be in range")
	}
}

func TestNewLinks(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/recipes?page=2&limit=2&tags=lunch", nil)
	page := New(r, "https://foodgram.example/", Params{Page: 2, Limit: 2}, 5, []int{3, 4})

	if page.Next == nil || *page.Next != "https://foodgram.example/api/recipes?limit=2&page=3&tags=lunch" {
		t.Errorf("Next = %v", page.Next)
	}
	if page.Previous == nil || *page.Previous != "https://foodgram.example/api/recipes?limit=2&tags=lunch" {
		t.Errorf("Previous = %v", page.Previous)
	}
}

func TestNewLastPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	page := New[int](r, "", Params{Page: 1, Limit: 6}, 0, nil)
	if page.Next != nil || page.Previous != nil {
		t.Errorf("expected no links, got next=%v previous=%v", page.Next, page.Previous)
	}
	if page.Results == nil {
		t.Error("Results should be an empty slice, not nil")
	}
}
