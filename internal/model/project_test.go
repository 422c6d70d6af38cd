package model

import (
	"errors"
	"strings"
	"testing"
)

func TestProjectValidate(t *testing.T) {
	parent := "proj-1"
	p := Project{ID: "proj-2", Title: "Chores", Parent: &parent}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}
	if p.IsRoot() {
		t.Fatal("expected child project")
	}

	self := "proj-2"
	p.Parent = &self
	if err := p.Validate(); err == nil {
		t.Fatal("expected self-parent to fail")
	}

	p.Parent = nil
	p.Title = strings.Repeat("a", MaxProjectTitle+1)
	if err := p.Validate(); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestNewProjectNormalize(t *testing.T) {
	blank := "  "
	out, err := NewProject{Title: " Home ", Parent: &blank}.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Title != "Home" || out.Parent != nil {
		t.Fatalf("unexpected normalized project: %#v", out)
	}
	if _, err := (NewProject{Title: ""}).Normalize(); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
}

func TestProjectNodeWalk(t *testing.T) {
	root := &ProjectNode{ID: "a", Subprojects: []*ProjectNode{
		{ID: "b", Subprojects: []*ProjectNode{{ID: "c", Subprojects: []*ProjectNode{}}}},
		{ID: "d", Subprojects: []*ProjectNode{}},
	}}

	var visited []string
	root.Walk(0, func(n *ProjectNode, depth int) bool {
		visited = append(visited, n.ID)
		return n.ID != "b"
	})
	if strings.Join(visited, ",") != "a,b,d" {
		t.Fatalf("unexpected walk order: %v", visited)
	}
}
