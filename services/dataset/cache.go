package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"github.com/webtor-io/movie-explorer/models"
)

// warningsMetadataKey holds the json encoded dataset warnings in the key/value
// metadata of the pre-parsed cache.
const warningsMetadataKey = "movie_explorer.warnings"

// parsedMovie is the row layout of the pre-parsed cache.
type parsedMovie struct {
	ID               string   `parquet:"id"`
	Title            string   `parquet:"title"`
	OriginalTitle    string   `parquet:"original_title"`
	ReleaseDate      string   `parquet:"release_date"`
	Runtime          *float64 `parquet:"runtime,optional"`
	VoteAverage      float64  `parquet:"vote_average"`
	OriginalLanguage string   `parquet:"original_language"`
	Overview         string   `parquet:"overview"`
	PosterPath       string   `parquet:"poster_path"`
	Adult            bool     `parquet:"adult"`
	Popularity       float64  `parquet:"popularity"`
	GenreIDs         []int64  `parquet:"genre_ids,list"`
	Keywords         []string `parquet:"keywords_list,list"`
}

func WriteParsed(path string, movies []*models.Movie, warnings []string) error {
	rows := make([]parsedMovie, len(movies))
	for i, m := range movies {
		genres := make([]int64, len(m.GenreIDs))
		for j, g := range m.GenreIDs {
			genres[j] = int64(g)
		}
		rows[i] = parsedMovie{
			ID:               m.ID,
			Title:            m.Title,
			OriginalTitle:    m.OriginalTitle,
			ReleaseDate:      m.FormattedReleaseDate(),
			Runtime:          m.Runtime,
			VoteAverage:      m.VoteAverage,
			OriginalLanguage: m.OriginalLanguage,
			Overview:         m.Overview,
			PosterPath:       m.PosterPath,
			Adult:            m.Adult,
			Popularity:       m.Popularity,
			GenreIDs:         genres,
			Keywords:         m.Keywords,
		}
	}
	if warnings == nil {
		warnings = []string{}
	}
	meta, err := json.Marshal(warnings)
	if err != nil {
		return errors.Wrap(err, "failed to encode dataset warnings")
	}
	tmp := tempPath(path)
	if err := parquet.WriteFile(tmp, rows, parquet.KeyValueMetadata(warningsMetadataKey, string(meta))); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "failed to write parsed dataset %v", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "failed to move parsed dataset to %v", path)
	}
	return nil
}

// ReadParsed reads the pre-parsed cache together with the warnings stored
// alongside it.
func ReadParsed(path string) ([]*models.Movie, []string, error) {
	warnings, err := readParsedWarnings(path)
	if err != nil {
		return nil, nil, err
	}
	rows, err := parquet.ReadFile[parsedMovie](path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read parsed dataset %v", path)
	}
	movies := make([]*models.Movie, 0, len(rows))
	for _, r := range rows {
		rd, err := time.Parse(time.DateOnly, r.ReleaseDate)
		if err != nil {
			continue
		}
		genres := make([]int, len(r.GenreIDs))
		for j, g := range r.GenreIDs {
			genres[j] = int(g)
		}
		keywords := r.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		movies = append(movies, &models.Movie{
			ID:               r.ID,
			Title:            r.Title,
			OriginalTitle:    r.OriginalTitle,
			ReleaseDate:      rd,
			Runtime:          r.Runtime,
			VoteAverage:      r.VoteAverage,
			OriginalLanguage: r.OriginalLanguage,
			Overview:         r.Overview,
			PosterPath:       r.PosterPath,
			Adult:            r.Adult,
			Popularity:       r.Popularity,
			GenreIDs:         genres,
			Keywords:         keywords,
		})
	}
	return movies, warnings, nil
}

func readParsedWarnings(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open parsed dataset %v", path)
	}
	defer func() {
		_ = f.Close()
	}()
	st, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat parsed dataset %v", path)
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open parsed dataset %v", path)
	}
	v, ok := pf.Lookup(warningsMetadataKey)
	if !ok {
		return nil, errors.Errorf("parsed dataset %v has no warnings metadata", path)
	}
	var warnings []string
	if err := json.Unmarshal([]byte(v), &warnings); err != nil {
		return nil, errors.Wrap(err, "failed to decode dataset warnings")
	}
	if len(warnings) == 0 {
		return nil, nil
	}
	return warnings, nil
}

func tempPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
