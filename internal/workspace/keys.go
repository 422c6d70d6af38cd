package workspace

// Key names one cached list.
type Key struct {
	Kind      string
	ProjectID string
}

var (
	ProjectsKey = Key{Kind: "projects"}
	TodayKey    = Key{Kind: "today"}
	OverviewKey = Key{Kind: "overview"}
)

func ProjectKey(id string) Key {
	return Key{Kind: "project", ProjectID: id}
}

// taskKeys lists every entry a write to a task in projectID can affect.
func taskKeys(projectID string) []Key {
	return []Key{TodayKey, OverviewKey, ProjectKey(projectID)}
}
