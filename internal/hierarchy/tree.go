// Package hierarchy turns the flat project list into a forest and derives
// breadcrumb paths for tasks.
//
// Parent links are not validated on write, so every traversal here treats
// the input as an arbitrary graph: projects whose parent is missing, and
// projects caught in a parent cycle, are never reachable from a root.
package hierarchy

import "github.com/sandeepkv93/hikari/internal/model"

// BuildProjectTree returns the root projects in input order, each with its
// descendants attached in input order. Orphans and cycle members are left
// out. Runs in O(n) and allocates one node per reachable project.
func BuildProjectTree(all []model.Project) []*model.ProjectNode {
	roots, children := partition(all)

	out := make([]*model.ProjectNode, 0, len(roots))
	visited := make(map[string]struct{}, len(all))

	stack := make([]*model.ProjectNode, 0, len(all))

	for _, root := range roots {
		if _, seen := visited[root.ID]; seen {
			continue
		}
		visited[root.ID] = struct{}{}
		node := newNode(root)
		out = append(out, node)
		stack = append(stack, node)

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, child := range children[top.ID] {
				if _, seen := visited[child.ID]; seen {
					continue
				}
				visited[child.ID] = struct{}{}
				cn := newNode(child)
				top.Subprojects = append(top.Subprojects, cn)
				stack = append(stack, cn)
			}
		}
	}
	return out
}

// Unreachable returns the projects BuildProjectTree leaves out, in input
// order.
func Unreachable(all []model.Project) []model.Project {
	reachable := make(map[string]struct{}, len(all))
	for _, root := range BuildProjectTree(all) {
		root.Walk(0, func(n *model.ProjectNode, _ int) bool {
			reachable[n.ID] = struct{}{}
			return true
		})
	}
	out := make([]model.Project, 0)
	for _, p := range all {
		if _, ok := reachable[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Count returns the number of nodes in the forest.
func Count(forest []*model.ProjectNode) int {
	n := 0
	for _, root := range forest {
		root.Walk(0, func(*model.ProjectNode, int) bool {
			n++
			return true
		})
	}
	return n
}

func partition(all []model.Project) ([]model.Project, map[string][]model.Project) {
	roots := make([]model.Project, 0)
	children := make(map[string][]model.Project, len(all))
	for _, p := range all {
		if p.Parent == nil {
			roots = append(roots, p)
			continue
		}
		children[*p.Parent] = append(children[*p.Parent], p)
	}
	return roots, children
}

func newNode(p model.Project) *model.ProjectNode {
	return &model.ProjectNode{
		ID:          p.ID,
		Title:       p.Title,
		Subprojects: make([]*model.ProjectNode, 0),
	}
}
