package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/webtor-io/movie-explorer/models"
)

func writeTestCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	src := writeTestCSV(t, dir)
	parsed := filepath.Join(dir, "parsed.parquet")
	l := NewLoader(NewLocalSource(src), parsed)
	ctx := context.Background()
	genres := models.GenreMap{28: "Action", 18: "Drama"}

	ds, err := l.Load(ctx, genres)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Movies) != 3 {
		t.Fatalf("Load() returned %d movies, want 3", len(ds.Movies))
	}
	again, err := l.Load(ctx, genres)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if again != ds {
		t.Error("Load() should return the memoized dataset")
	}
	if !fileExists(parsed) {
		t.Fatal("parsed cache was not written")
	}
}

func TestLoader_PrefersParsedCache(t *testing.T) {
	dir := t.TempDir()
	src := writeTestCSV(t, dir)
	parsed := filepath.Join(dir, "parsed.parquet")
	genres := models.GenreMap{28: "Action", 18: "Drama"}
	if _, err := NewLoader(NewLocalSource(src), parsed).Load(context.Background(), genres); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := os.Remove(src); err != nil {
		t.Fatal(err)
	}

	ds, err := NewLoader(NewLocalSource(src), parsed).Load(context.Background(), genres)
	if err != nil {
		t.Fatalf("Load() from parsed cache error = %v", err)
	}
	if len(ds.Movies) != 3 {
		t.Fatalf("Load() returned %d movies, want 3", len(ds.Movies))
	}
	m := ds.Get("1")
	if m == nil {
		t.Fatal("Get(1) = nil")
	}
	if !m.ReleaseDate.Equal(time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ReleaseDate = %v", m.ReleaseDate)
	}
	if m.Runtime == nil || *m.Runtime != 81 {
		t.Errorf("Runtime = %v, want 81", m.Runtime)
	}
	if len(m.Keywords) != 2 || m.Keywords[1] != "mission" {
		t.Errorf("Keywords = %v", m.Keywords)
	}
	if len(m.GenreIDs) != 1 || m.GenreIDs[0] != 28 {
		t.Errorf("GenreIDs = %v", m.GenreIDs)
	}
	if a := ds.Get("3"); a == nil || !a.Adult || a.Runtime != nil {
		t.Errorf("Get(3) = %+v", a)
	}
	if len(ds.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", ds.Warnings)
	}
}

const noPopularityCSV = `id,title,release_date,vote_average,original_language,adult,keywords,genres
1,Rescue Mission,2020-05-01,7.5,en,False,rescue,Action
`

func TestLoader_ParsedCacheKeepsWarnings(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(src, []byte(noPopularityCSV), 0644); err != nil {
		t.Fatal(err)
	}
	parsed := filepath.Join(dir, "parsed.parquet")
	genres := models.GenreMap{28: "Action"}
	first, err := NewLoader(NewLocalSource(src), parsed).Load(context.Background(), genres)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(first.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want the popularity warning", first.Warnings)
	}
	if err := os.Remove(src); err != nil {
		t.Fatal(err)
	}
	ds, err := NewLoader(NewLocalSource(src), parsed).Load(context.Background(), genres)
	if err != nil {
		t.Fatalf("Load() from parsed cache error = %v", err)
	}
	if len(ds.Warnings) != 1 || ds.Warnings[0] != first.Warnings[0] {
		t.Errorf("Warnings from parsed cache = %v, want %v", ds.Warnings, first.Warnings)
	}
}

func TestLoader_EmptyGenresSkipParsedCache(t *testing.T) {
	dir := t.TempDir()
	src := writeTestCSV(t, dir)
	parsed := filepath.Join(dir, "parsed.parquet")
	l := NewLoader(NewLocalSource(src), parsed)
	ds, err := l.Load(context.Background(), models.GenreMap{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m := ds.Get("3"); m == nil || len(m.GenreIDs) != 0 {
		t.Fatalf("Get(3) without genres = %+v", m)
	}
	if fileExists(parsed) {
		t.Fatal("parsed cache must not be stored without genres")
	}
	ds, err = l.Load(context.Background(), models.GenreMap{28: "Action", 18: "Drama"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m := ds.Get("3"); m == nil || len(m.GenreIDs) != 1 || m.GenreIDs[0] != 18 {
		t.Errorf("Get(3) with genres = %+v", m)
	}
	if !fileExists(parsed) {
		t.Error("parsed cache was not written")
	}
}

func TestLoader_CanceledCaller(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testCSV))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cache := filepath.Join(t.TempDir(), "cached.csv")
	l := NewLoader(NewHTTPSource(ts.Client(), ts.URL, cache), "")
	ds, err := l.Load(ctx, models.GenreMap{28: "Action"})
	if err != nil {
		t.Fatalf("Load() with canceled caller error = %v", err)
	}
	if len(ds.Movies) != 3 {
		t.Errorf("Load() returned %d movies, want 3", len(ds.Movies))
	}
}

func TestLoader_Clear(t *testing.T) {
	dir := t.TempDir()
	src := writeTestCSV(t, dir)
	parsed := filepath.Join(dir, "parsed.parquet")
	l := NewLoader(NewLocalSource(src), parsed)
	genres := models.GenreMap{18: "Drama"}
	ds, err := l.Load(context.Background(), genres)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !fileExists(parsed) {
		t.Fatal("parsed cache was not written")
	}
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if fileExists(parsed) {
		t.Error("Clear() should remove the parsed cache")
	}
	if !fileExists(src) {
		t.Error("Clear() must not remove a local dataset")
	}
	again, err := l.Load(context.Background(), genres)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if again == ds {
		t.Error("Load() after Clear() should reload")
	}
}

func TestLoader_MissingSource(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(NewLocalSource(filepath.Join(dir, "*.parquet")), "")
	if _, err := l.Load(context.Background(), models.GenreMap{}); err == nil {
		t.Error("Load() expected error for missing dataset")
	}
}

func TestLocalSource_Glob(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(sub, "movies.csv")
	if err := os.WriteFile(want, []byte(testCSV), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := NewLocalSource(filepath.Join(dir, "**", "*.csv")).Path(context.Background())
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if got != want {
		t.Errorf("Path() = %v, want %v", got, want)
	}
}

func TestReadParquetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movies.parquet")
	rt := 95.0
	movies := []*models.Movie{
		{
			ID:          "7",
			Title:       "Parquet Movie",
			ReleaseDate: time.Date(2001, time.July, 4, 0, 0, 0, 0, time.UTC),
			Runtime:     &rt,
			GenreIDs:    []int{18, 28},
			Keywords:    []string{"heist"},
		},
	}
	if err := WriteParsed(path, movies, nil); err != nil {
		t.Fatalf("WriteParsed() error = %v", err)
	}
	tb, err := ReadParquetFile(path)
	if err != nil {
		t.Fatalf("ReadParquetFile() error = %v", err)
	}
	if tb.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tb.Len())
	}
	if got := tb.Cell(0, "title"); got != "Parquet Movie" {
		t.Errorf("title = %v", got)
	}
	if got := tb.Cell(0, "runtime"); got != 95.0 {
		t.Errorf("runtime = %v", got)
	}
	if got := ParseGenres(tb.Cell(0, "genre_ids"), nil); len(got) != 2 || got[0] != 18 {
		t.Errorf("genre_ids = %v", got)
	}
	if got := ParseKeywords(tb.Cell(0, "keywords_list")); len(got) != 1 || got[0] != "heist" {
		t.Errorf("keywords_list = %v", got)
	}
}

type timedRow struct {
	ID     string    `parquet:"id"`
	Nanos  time.Time `parquet:"nanos,timestamp(nanosecond)"`
	Micros time.Time `parquet:"micros,timestamp(microsecond)"`
	Millis time.Time `parquet:"millis,timestamp(millisecond)"`
	Day    time.Time `parquet:"day,date"`
}

func TestReadParquetFile_Timestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timed.parquet")
	want := time.Date(1971, time.June, 1, 0, 0, 0, 0, time.UTC)
	if err := parquet.WriteFile(path, []timedRow{
		{ID: "1", Nanos: want, Micros: want, Millis: want, Day: want},
	}); err != nil {
		t.Fatal(err)
	}
	tb, err := ReadParquetFile(path)
	if err != nil {
		t.Fatalf("ReadParquetFile() error = %v", err)
	}
	for _, col := range []string{"nanos", "micros", "millis", "day"} {
		got, ok := ParseDate(tb.Cell(0, col))
		if !ok || !got.Equal(want) {
			t.Errorf("%v = %v, want %v", col, got, want)
		}
	}
}

type genreItem struct {
	ID   int64   `parquet:"id"`
	Name *string `parquet:"name,optional"`
}

type keywordItem struct {
	Name string `parquet:"name"`
}

type nestedRow struct {
	ID       string        `parquet:"id"`
	Genres   []genreItem   `parquet:"genres,list"`
	Keywords []keywordItem `parquet:"keywords,list"`
}

func TestReadParquetFile_StructLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.parquet")
	drama := "Drama"
	if err := parquet.WriteFile(path, []nestedRow{
		{
			ID:       "1",
			Genres:   []genreItem{{ID: 28}, {ID: 18, Name: &drama}},
			Keywords: []keywordItem{{Name: "heist"}, {Name: "bank"}},
		},
		{ID: "2"},
	}); err != nil {
		t.Fatal(err)
	}
	tb, err := ReadParquetFile(path)
	if err != nil {
		t.Fatalf("ReadParquetFile() error = %v", err)
	}
	items, ok := tb.Cell(0, "genres").([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("genres = %#v", tb.Cell(0, "genres"))
	}
	if first := items[0].(map[string]any); first["id"] != int64(28) || first["name"] != nil {
		t.Errorf("genres[0] = %v", first)
	}
	if second := items[1].(map[string]any); second["id"] != int64(18) || second["name"] != "Drama" {
		t.Errorf("genres[1] = %v", second)
	}
	if got := ParseGenres(tb.Cell(0, "genres"), nil); len(got) != 2 || got[0] != 28 || got[1] != 18 {
		t.Errorf("ParseGenres() = %v", got)
	}
	if got := ParseKeywords(tb.Cell(0, "keywords")); len(got) != 2 || got[0] != "heist" || got[1] != "bank" {
		t.Errorf("ParseKeywords() = %v", got)
	}
	if got := ParseGenres(tb.Cell(1, "genres"), nil); len(got) != 0 {
		t.Errorf("ParseGenres() of empty list = %v", got)
	}
}

func TestDataset(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	ds := NewDataset([]*models.Movie{
		{ID: "1", OriginalLanguage: "fr", ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", OriginalLanguage: "en", ReleaseDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "3", OriginalLanguage: "en", ReleaseDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "4", ReleaseDate: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)
	langs := ds.Languages()
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "fr" {
		t.Errorf("Languages() = %v, want [en fr]", langs)
	}
	years := ds.Years(now)
	if len(years) != 2 || years[0] != 2023 || years[1] != 2020 {
		t.Errorf("Years() = %v, want [2023 2020]", years)
	}
	if ds.Get("4") == nil || ds.Get("5") != nil {
		t.Error("Get() mismatch")
	}
}

func TestHTTPSource_DownloadsOnce(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(testCSV))
	}))
	defer ts.Close()

	dir := t.TempDir()
	cache := filepath.Join(dir, "cached.csv")
	src := NewHTTPSource(ts.Client(), ts.URL, cache)
	for i := 0; i < 2; i++ {
		path, err := src.Path(context.Background())
		if err != nil {
			t.Fatalf("Path() error = %v", err)
		}
		if path != cache {
			t.Errorf("Path() = %v, want %v", path, cache)
		}
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	l := NewLoader(src, "")
	if _, err := l.Load(context.Background(), models.GenreMap{}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if fileExists(cache) {
		t.Error("Clear() should remove the downloaded dataset")
	}
}

func TestHTTPSource_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	cache := filepath.Join(t.TempDir(), "cached.csv")
	if _, err := NewHTTPSource(ts.Client(), ts.URL, cache).Path(context.Background()); err == nil {
		t.Fatal("Path() expected error")
	}
	if fileExists(cache) {
		t.Error("failed download must not leave a cached file")
	}
}
