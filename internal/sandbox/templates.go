package sandbox

import "github.com/flowboardhq/flowboard/internal/model"

// boardTemplates is the built-in template catalog, in display order.
var boardTemplates = []model.BoardTemplate{
	{
		ID:          "kanban_basic",
		Name:        "Basic Kanban",
		Description: "Simple three-column workflow for small teams",
		Icon:        "layout",
		Columns: []model.TemplateColumn{
			{Name: "To Do", Position: 0, Color: "#94a3b8"},
			{Name: "In Progress", Position: 1, Color: "#3b82f6", WipLimit: 5},
			{Name: "Done", Position: 2, Color: "#22c55e"},
		},
	},
	{
		ID:          "scrum",
		Name:        "Scrum Board",
		Description: "Sprint-based workflow with testing phase",
		Icon:        "zap",
		Columns: []model.TemplateColumn{
			{Name: "Backlog", Position: 0, Color: "#94a3b8"},
			{Name: "To Do", Position: 1, Color: "#f59e0b"},
			{Name: "In Progress", Position: 2, Color: "#3b82f6", WipLimit: 4},
			{Name: "In Review", Position: 3, Color: "#8b5cf6", WipLimit: 3},
			{Name: "Done", Position: 4, Color: "#22c55e"},
		},
	},
	{
		ID:          "software_dev",
		Name:        "Software Development",
		Description: "Full development lifecycle with code review and QA",
		Icon:        "code",
		Columns: []model.TemplateColumn{
			{Name: "Backlog", Position: 0, Color: "#94a3b8"},
			{Name: "Ready", Position: 1, Color: "#f59e0b"},
			{Name: "In Development", Position: 2, Color: "#3b82f6", WipLimit: 3},
			{Name: "Code Review", Position: 3, Color: "#8b5cf6", WipLimit: 2},
			{Name: "QA Testing", Position: 4, Color: "#ec4899", WipLimit: 3},
			{Name: "Ready for Deploy", Position: 5, Color: "#06b6d4"},
			{Name: "Done", Position: 6, Color: "#22c55e"},
		},
	},
	{
		ID:          "bug_tracking",
		Name:        "Bug Tracking",
		Description: "Track and manage bug reports through resolution",
		Icon:        "bug",
		Columns: []model.TemplateColumn{
			{Name: "Reported", Position: 0, Color: "#ef4444"},
			{Name: "Confirmed", Position: 1, Color: "#f59e0b"},
			{Name: "In Progress", Position: 2, Color: "#3b82f6", WipLimit: 5},
			{Name: "Fixed", Position: 3, Color: "#8b5cf6"},
			{Name: "Verified", Position: 4, Color: "#22c55e"},
			{Name: "Closed", Position: 5, Color: "#64748b"},
		},
	},
	{
		ID:          "marketing",
		Name:        "Marketing Campaign",
		Description: "Plan and execute marketing campaigns",
		Icon:        "megaphone",
		Columns: []model.TemplateColumn{
			{Name: "Ideas", Position: 0, Color: "#fbbf24"},
			{Name: "Planning", Position: 1, Color: "#f59e0b"},
			{Name: "In Production", Position: 2, Color: "#3b82f6", WipLimit: 3},
			{Name: "Awaiting Approval", Position: 3, Color: "#8b5cf6"},
			{Name: "Scheduled", Position: 4, Color: "#06b6d4"},
			{Name: "Published", Position: 5, Color: "#22c55e"},
		},
	},
	{
		ID:          "design",
		Name:        "Design Pipeline",
		Description: "Creative workflow for design projects",
		Icon:        "palette",
		Columns: []model.TemplateColumn{
			{Name: "Brief", Position: 0, Color: "#f472b6"},
			{Name: "Research", Position: 1, Color: "#a78bfa"},
			{Name: "Concept", Position: 2, Color: "#60a5fa"},
			{Name: "Design", Position: 3, Color: "#3b82f6", WipLimit: 3},
			{Name: "Feedback", Position: 4, Color: "#f59e0b"},
			{Name: "Final", Position: 5, Color: "#22c55e"},
		},
	},
	{
		ID:          "personal",
		Name:        "Personal Tasks",
		Description: "Simple task management for individuals",
		Icon:        "user",
		Columns: []model.TemplateColumn{
			{Name: "Inbox", Position: 0, Color: "#94a3b8"},
			{Name: "Today", Position: 1, Color: "#ef4444", WipLimit: 5},
			{Name: "This Week", Position: 2, Color: "#3b82f6"},
			{Name: "Later", Position: 3, Color: "#8b5cf6"},
			{Name: "Done", Position: 4, Color: "#22c55e"},
		},
	},
	{
		ID:          "customer_support",
		Name:        "Customer Support",
		Description: "Track support tickets through resolution",
		Icon:        "headphones",
		Columns: []model.TemplateColumn{
			{Name: "New", Position: 0, Color: "#ef4444"},
			{Name: "Triaged", Position: 1, Color: "#f59e0b"},
			{Name: "In Progress", Position: 2, Color: "#3b82f6", WipLimit: 5},
			{Name: "Awaiting Customer", Position: 3, Color: "#8b5cf6"},
			{Name: "Resolved", Position: 4, Color: "#22c55e"},
			{Name: "Closed", Position: 5, Color: "#64748b"},
		},
	},
}

func findTemplate(id string) *model.BoardTemplate {
	for i := range boardTemplates {
		if boardTemplates[i].ID == id {
			return &boardTemplates[i]
		}
	}
	return nil
}
