package hierarchy

import "github.com/sandeepkv93/hikari/internal/model"

// Index is an id lookup over one batch of projects. Build it once per batch
// and share it across every task in that batch.
type Index struct {
	byID map[string]model.Project
}

func NewIndex(all []model.Project) *Index {
	byID := make(map[string]model.Project, len(all))
	for _, p := range all {
		if _, dup := byID[p.ID]; dup {
			continue
		}
		byID[p.ID] = p
	}
	return &Index{byID: byID}
}

func (x *Index) Lookup(id string) (model.Project, bool) {
	p, ok := x.byID[id]
	return p, ok
}

func (x *Index) Len() int {
	return len(x.byID)
}

// Breadcrumbs returns the path from the outermost ancestor down to
// projectID, inclusive. The walk stops at a root, at a missing parent, or
// when a project repeats. An unknown projectID yields an empty path.
func (x *Index) Breadcrumbs(projectID string) []model.Breadcrumb {
	out := make([]model.Breadcrumb, 0)
	seen := make(map[string]struct{})

	current, ok := x.byID[projectID]
	for ok {
		if _, loop := seen[current.ID]; loop {
			break
		}
		seen[current.ID] = struct{}{}
		out = append(out, model.Breadcrumb{ID: current.ID, Title: current.Title})
		if current.Parent == nil {
			break
		}
		current, ok = x.byID[*current.Parent]
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Breadcrumbs resolves a single path without keeping the index around.
func Breadcrumbs(all []model.Project, projectID string) []model.Breadcrumb {
	return NewIndex(all).Breadcrumbs(projectID)
}
