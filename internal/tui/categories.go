package tui

type Category struct {
	ID          string
	Name        string
	Description string
}

var Categories = []Category{
	{ID: "project", Name: "Project", Description: "Source directory, app manifest and project root"},
	{ID: "components", Name: "Components", Description: "Component file extensions and reference limit"},
	{ID: "output", Name: "Output", Description: "Output directory and pattern format"},
	{ID: "concurrency", Name: "Concurrency", Description: "Copy workers and timeout"},
	{ID: "cache", Name: "Cache", Description: "Fingerprint cache for unchanged files"},
	{ID: "retry", Name: "Retry", Description: "Backoff for transient file errors"},
	{ID: "logging", Name: "Logging", Description: "Log level and format"},
}

func GetCategoryByID(id string) *Category {
	for i := range Categories {
		if Categories[i].ID == id {
			return &Categories[i]
		}
	}
	return nil
}

func GetCategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = c.Name
	}
	return names
}
