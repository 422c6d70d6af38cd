package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandeepkv93/hikari/internal/model"
)

func crumbIDs(in []model.Breadcrumb) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		out = append(out, b.ID)
	}
	return out
}

func TestBreadcrumbs(t *testing.T) {
	tests := []struct {
		name      string
		input     []model.Project
		projectID string
		want      []string
	}{
		{
			name: "three levels root first",
			input: []model.Project{
				project("A", "Home"),
				project("B", "Chores", "A"),
				project("C", "Kitchen", "B"),
			},
			projectID: "C",
			want:      []string{"A", "B", "C"},
		},
		{
			name:      "root project",
			input:     []model.Project{project("A", "Home")},
			projectID: "A",
			want:      []string{"A"},
		},
		{
			name:      "missing project",
			input:     []model.Project{project("A", "Home")},
			projectID: "Z",
			want:      []string{},
		},
		{
			name: "missing ancestor truncates",
			input: []model.Project{
				project("B", "Chores", "gone"),
				project("C", "Kitchen", "B"),
			},
			projectID: "C",
			want:      []string{"B", "C"},
		},
		{
			name: "cycle terminates",
			input: []model.Project{
				project("X", "X", "Y"),
				project("Y", "Y", "X"),
			},
			projectID: "X",
			want:      []string{"Y", "X"},
		},
		{
			name:      "self loop",
			input:     []model.Project{project("S", "S", "S")},
			projectID: "S",
			want:      []string{"S"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Breadcrumbs(tt.input, tt.projectID)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, crumbIDs(got))
		})
	}
}

func TestBreadcrumbsCarryTitles(t *testing.T) {
	idx := NewIndex([]model.Project{
		project("A", "Home"),
		project("B", "Chores", "A"),
		project("C", "Kitchen", "B"),
	})

	assert.Equal(t, []model.Breadcrumb{
		{ID: "A", Title: "Home"},
		{ID: "B", Title: "Chores"},
		{ID: "C", Title: "Kitchen"},
	}, idx.Breadcrumbs("C"))
	assert.Equal(t, 3, idx.Len())

	p, ok := idx.Lookup("B")
	assert.True(t, ok)
	assert.Equal(t, "Chores", p.Title)
}

func TestIndexKeepsFirstDuplicate(t *testing.T) {
	idx := NewIndex([]model.Project{
		project("A", "First"),
		project("A", "Second"),
	})
	p, ok := idx.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "First", p.Title)
}
