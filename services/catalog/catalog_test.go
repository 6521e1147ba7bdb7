package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/webtor-io/movie-explorer/models"
)

type mockFetcher struct {
	calls  int
	genres models.GenreMap
	err    error
	ctxErr error
}

func (m *mockFetcher) Key() string {
	return "key"
}

func (m *mockFetcher) GetGenres(ctx context.Context) (models.GenreMap, error) {
	m.calls++
	m.ctxErr = ctx.Err()
	return m.genres, m.err
}

func TestCatalog_Memoizes(t *testing.T) {
	f := &mockFetcher{genres: models.GenreMap{28: "Action"}}
	c := NewCatalog(f, time.Minute)
	for i := 0; i < 3; i++ {
		gm, err := c.Get(context.Background())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if gm[28] != "Action" {
			t.Errorf("Get() = %v", gm)
		}
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}

func TestCatalog_Clear(t *testing.T) {
	f := &mockFetcher{genres: models.GenreMap{28: "Action"}}
	c := NewCatalog(f, time.Minute)
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	c.Clear()
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if f.calls != 2 {
		t.Errorf("calls = %d, want 2", f.calls)
	}
}

func TestCatalog_CanceledCaller(t *testing.T) {
	f := &mockFetcher{genres: models.GenreMap{28: "Action"}}
	c := NewCatalog(f, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gm, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("Get() with canceled caller error = %v", err)
	}
	if f.ctxErr != nil {
		t.Errorf("fetch context error = %v, want nil", f.ctxErr)
	}
	if gm[28] != "Action" {
		t.Errorf("Get() = %v", gm)
	}
}

func TestCatalog_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		f    *mockFetcher
	}{
		{"error", &mockFetcher{genres: models.GenreMap{}, err: errors.New("boom")}},
		{"empty", &mockFetcher{genres: models.GenreMap{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm, err := NewCatalog(tt.f, time.Minute).Get(context.Background())
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("Get() error = %v, want ErrUnavailable", err)
			}
			if gm == nil || len(gm) != 0 {
				t.Errorf("Get() = %v, want empty map", gm)
			}
		})
	}
}

func TestCatalog_NoApi(t *testing.T) {
	_, err := NewCatalog(nil, time.Minute).Get(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get() error = %v, want ErrUnavailable", err)
	}
}
