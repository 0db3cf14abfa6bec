package runner

import (
	"fmt"
	"sort"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
)

// Plan returns the dependency closure of names (every task when names is
// empty) in execution order. Independent tasks are ordered by name.
func (r *Runner) Plan(names ...string) ([]string, error) {
	if err := r.validateDependencies(); err != nil {
		return nil, err
	}

	selected, err := r.closure(names)
	if err != nil {
		return nil, err
	}
	return r.topologicalSort(selected)
}

func (r *Runner) validateDependencies() error {
	for _, name := range r.order {
		for _, dep := range r.tasks[name].Deps {
			if _, ok := r.tasks[dep]; !ok {
				return ferrors.ValidationError(fmt.Sprintf("task %q depends on missing task %q", name, dep)).
					WithContext("task", name).
					WithContext("dependency", dep).
					Build()
			}
		}
	}
	return nil
}

func (r *Runner) closure(names []string) (map[string]bool, error) {
	selected := make(map[string]bool)
	if len(names) == 0 {
		for n := range r.tasks {
			selected[n] = true
		}
		return selected, nil
	}

	work := append([]string(nil), names...)
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		t, ok := r.tasks[n]
		if !ok {
			return nil, ferrors.NewError(ferrors.CategoryNotFound, fmt.Sprintf("unknown task %q", n)).
				WithContext("task", n).
				Build()
		}
		if selected[n] {
			continue
		}
		selected[n] = true
		work = append(work, t.Deps...)
	}
	return selected, nil
}

// topologicalSort orders the selected tasks using Kahn's algorithm.
func (r *Runner) topologicalSort(selected map[string]bool) ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)
	for name := range selected {
		if _, exists := inDegree[name]; !exists {
			inDegree[name] = 0
		}
		for _, dep := range r.tasks[name].Deps {
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	var queue []string
	for name, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(selected))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, next := range graph[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
		sort.Strings(queue)
	}

	if len(result) != len(selected) {
		var unvisited []string
		for name, deg := range inDegree {
			if deg > 0 {
				unvisited = append(unvisited, name)
			}
		}
		sort.Strings(unvisited)
		return nil, ferrors.ValidationError(fmt.Sprintf("circular dependency detected involving tasks: %v", unvisited)).
			WithContext("tasks", unvisited).
			Build()
	}
	return result, nil
}
