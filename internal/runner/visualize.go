package runner

import (
	"encoding/json"
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
)

// VisualizationFormat represents the output format for graph visualization.
type VisualizationFormat string

const (
	FormatText    VisualizationFormat = "text"
	FormatMermaid VisualizationFormat = "mermaid"
	FormatDOT     VisualizationFormat = "dot"
	FormatJSON    VisualizationFormat = "json"
)

// SupportedFormats returns the visualization formats in display order.
func SupportedFormats() []VisualizationFormat {
	return []VisualizationFormat{FormatText, FormatMermaid, FormatDOT, FormatJSON}
}

// Visualize renders the task graph in execution order.
func (r *Runner) Visualize(format VisualizationFormat) (string, error) {
	plan, err := r.Plan()
	if err != nil {
		return "", err
	}

	switch format {
	case FormatText:
		return r.visualizeText(plan), nil
	case FormatMermaid:
		return r.visualizeMermaid(plan), nil
	case FormatDOT:
		return r.visualizeDOT(plan), nil
	case FormatJSON:
		return r.visualizeJSON(plan)
	default:
		return "", ferrors.ValidationError(fmt.Sprintf("unsupported format: %s", format)).
			WithContext("format", string(format)).
			Build()
	}
}

func (r *Runner) visualizeText(plan []string) string {
	var sb strings.Builder
	sb.WriteString("Task Graph\n")
	sb.WriteString("==========\n\n")

	for i, name := range plan {
		prefix := "├──"
		connector := "│   "
		if i == len(plan)-1 {
			prefix = "└──"
			connector = "    "
		}
		fmt.Fprintf(&sb, "%s %d. [%s]\n", prefix, i+1, name)
		if deps := r.tasks[name].Deps; len(deps) > 0 {
			fmt.Fprintf(&sb, "%s  ⤷ depends on: %s\n", connector, strings.Join(deps, ", "))
		}
	}

	fmt.Fprintf(&sb, "\nTotal: %d tasks\n", len(plan))
	return sb.String()
}

// mermaidID turns a task name into a Mermaid-safe node id.
func mermaidID(name string) string {
	return strings.NewReplacer(":", "_", "-", "_", ".", "_", " ", "_").Replace(name)
}

func (r *Runner) visualizeMermaid(plan []string) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("graph TD\n")
	for _, name := range plan {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", mermaidID(name), name)
	}
	sb.WriteString("\n")
	for _, name := range plan {
		for _, dep := range r.tasks[name].Deps {
			fmt.Fprintf(&sb, "    %s --> %s\n", mermaidID(dep), mermaidID(name))
		}
	}
	sb.WriteString("```\n")
	return sb.String()
}

func (r *Runner) visualizeDOT(plan []string) string {
	var sb strings.Builder
	sb.WriteString("digraph Tasks {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, style=rounded];\n\n")
	for _, name := range plan {
		fmt.Fprintf(&sb, "    %q;\n", name)
	}
	sb.WriteString("\n")
	for _, name := range plan {
		for _, dep := range r.tasks[name].Deps {
			fmt.Fprintf(&sb, "    %q -> %q;\n", dep, name)
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

type jsonTask struct {
	Name         string   `json:"name"`
	Order        int      `json:"order"`
	Dependencies []string `json:"dependencies"`
}

type jsonGraph struct {
	Tasks      []jsonTask `json:"tasks"`
	TotalTasks int        `json:"totalTasks"`
}

func (r *Runner) visualizeJSON(plan []string) (string, error) {
	g := jsonGraph{TotalTasks: len(plan)}
	for i, name := range plan {
		deps := append([]string{}, r.tasks[name].Deps...)
		g.Tasks = append(g.Tasks, jsonTask{Name: name, Order: i + 1, Dependencies: deps})
	}
	b, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
