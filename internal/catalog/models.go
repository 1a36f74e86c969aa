package catalog

// Entry is one catalog title. Genres is the raw listed_in label, e.g.
// "Dramas, International Movies", and is used as a single key.
type Entry struct {
	Title  string `json:"title" parquet:"title" validate:"required"`
	Genres string `json:"listed_in" parquet:"listed_in"`
}
