package model

import (
	"errors"
	"strings"
)

type Project struct {
	ID     string  `json:"id" toml:"id"`
	Title  string  `json:"title" toml:"title"`
	Parent *string `json:"parent,omitempty" toml:"parent,omitempty"`
}

func (p Project) IsRoot() bool {
	return p.Parent == nil
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("model: project id is required")
	}
	if err := validateTitle(p.Title, MaxProjectTitle); err != nil {
		return err
	}
	if p.Parent != nil && *p.Parent == p.ID {
		return errors.New("model: project cannot be its own parent")
	}
	return nil
}

// NewProject is the input for project creation. A nil Parent creates a root.
type NewProject struct {
	Title  string
	Parent *string
}

func (n NewProject) Normalize() (NewProject, error) {
	n.Title = strings.TrimSpace(n.Title)
	if err := validateTitle(n.Title, MaxProjectTitle); err != nil {
		return NewProject{}, err
	}
	if n.Parent != nil {
		parent := strings.TrimSpace(*n.Parent)
		if parent == "" {
			n.Parent = nil
		} else {
			n.Parent = &parent
		}
	}
	return n, nil
}

// ProjectNode is a project with its children materialised, in input order.
type ProjectNode struct {
	ID          string         `json:"id" toml:"id"`
	Title       string         `json:"title" toml:"title"`
	Subprojects []*ProjectNode `json:"subprojects" toml:"subprojects"`
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *ProjectNode) Walk(depth int, fn func(node *ProjectNode, depth int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.Subprojects {
		child.Walk(depth+1, fn)
	}
}

type Breadcrumb struct {
	ID    string `json:"id" toml:"id"`
	Title string `json:"title" toml:"title"`
}

// TaskRow is a task joined with its immediate project title. The title is
// nil when the referenced project no longer exists.
type TaskRow struct {
	Task
	ProjectTitle *string
}

// TaskView is a task enriched for cross-project views.
type TaskView struct {
	Task               `toml:"task"`
	ProjectTitle       *string      `json:"project_title,omitempty" toml:"project_title,omitempty"`
	ProjectBreadcrumbs []Breadcrumb `json:"project_breadcrumbs" toml:"project_breadcrumbs"`
}
