package internal

// RawItem is one record of the upstream equipment compendium. Fields are left
// untyped: numbers arrive as json.Number, everything else as decoded JSON.
type RawItem map[string]any

type LocalizedName struct {
	En string `json:"en"`
	Fr string `json:"fr"`
}

type Entry struct {
	ID      string        `json:"id"`
	Name    LocalizedName `json:"name"`
	Type    string        `json:"type"`
	WeightG int           `json:"weight_g"`
	Cost    int           `json:"cost"`
}

type BuildResult struct {
	TraceID      string
	SourceURL    string
	Destination  string
	RelativePath string
	RawCount     int
	Entries      []Entry
}

type RunRow struct {
	ID         int
	TraceID    string
	Source     string
	EntryCount int
	CreatedAt  string
}
