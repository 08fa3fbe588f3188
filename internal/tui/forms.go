package tui

import (
	"github.com/charmbracelet/huh"
)

func CreateProjectForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("source_dir").
				Title("Source Directory").
				Description("Directory holding app.json (leave empty to detect)").
				Value(&values.SourceDir).
				Placeholder("./miniprogram"),

			huh.NewInput().
				Key("app_manifest").
				Title("App Manifest").
				Description("File name of the app manifest").
				Value(&values.AppManifest).
				Placeholder("app.json").
				Validate(ValidateRequired),

			huh.NewInput().
				Key("context").
				Title("Project Root").
				Description("Directory absolute component paths resolve against").
				Value(&values.ProjectContext).
				Placeholder("(auto)"),

			huh.NewConfirm().
				Key("detect_git_root").
				Title("Detect Git Root").
				Description("Use the enclosing git work tree as project root").
				Value(&values.DetectGitRoot),
		),
	).WithTheme(GetTheme())
}

func CreateComponentsForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("extensions").
				Title("Extensions").
				Description("Files making up a single-file component").
				Value(&values.Extensions).
				Placeholder("json, js, wxml, wxss").
				Validate(ValidateExtensions),

			huh.NewInput().
				Key("max_references").
				Title("Max References").
				Description("Component references followed per entry (-1 = unlimited)").
				Value(&values.MaxReferences).
				Placeholder("10000").
				Validate(ValidateMaxReferences),
		),
	).WithTheme(GetTheme())
}

func CreateOutputForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("directory").
				Title("Output Directory").
				Description("Where components are copied").
				Value(&values.OutputDirectory).
				Placeholder("./dist"),

			huh.NewSelect[string]().
				Key("format").
				Title("Pattern Format").
				Description("Format printed by the resolve command").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
					huh.NewOption("Tree", "tree"),
				).
				Value(&values.OutputFormat),

			huh.NewConfirm().
				Key("overwrite").
				Title("Overwrite Unchanged").
				Description("Copy files even when the destination is up to date").
				Value(&values.OutputOverwrite),

			huh.NewConfirm().
				Key("index").
				Title("Write Index").
				Description("Write wxcomp-index.json listing the copied files").
				Value(&values.OutputIndex),
		),
	).WithTheme(GetTheme())
}

func CreateConcurrencyForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("workers").
				Title("Workers").
				Description("Number of concurrent copy workers (1-64)").
				Value(&values.Workers).
				Placeholder("8").
				Validate(ValidateIntRange(1, 64)),

			huh.NewInput().
				Key("timeout").
				Title("Timeout").
				Description("Upper bound for one copy run (e.g., 30s, 5m)").
				Value(&values.Timeout).
				Placeholder("5m").
				Validate(ValidateDuration),
		),
	).WithTheme(GetTheme())
}

func CreateCacheForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("enabled").
				Title("Enable Cache").
				Description("Remember copied file fingerprints between runs").
				Value(&values.CacheEnabled),

			huh.NewInput().
				Key("ttl").
				Title("Cache TTL").
				Description("How long fingerprints are kept (empty = forever)").
				Value(&values.CacheTTL).
				Placeholder("168h").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("directory").
				Title("Cache Directory").
				Description("Directory for cache storage").
				Value(&values.CacheDirectory).
				Placeholder("~/.wxcomp/cache"),
		),
	).WithTheme(GetTheme())
}

func CreateRetryForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("max_retries").
				Title("Max Retries").
				Description("Retries of a failed read or write (0-10)").
				Value(&values.RetryMaxRetries).
				Placeholder("3").
				Validate(ValidateIntRange(0, 10)),

			huh.NewInput().
				Key("initial_interval").
				Title("Initial Interval").
				Value(&values.RetryInitial).
				Placeholder("50ms").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("max_interval").
				Title("Max Interval").
				Value(&values.RetryMaxInterval).
				Placeholder("2s").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("multiplier").
				Title("Multiplier").
				Value(&values.RetryMultiplier).
				Placeholder("2.0").
				Validate(ValidateFloatRange(1, 10)),
		),
	).WithTheme(GetTheme())
}

func CreateLoggingForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("level").
				Title("Log Level").
				Description("Minimum log level to display").
				Options(
					huh.NewOption("Trace", "trace"),
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&values.LogLevel),

			huh.NewSelect[string]().
				Key("format").
				Title("Log Format").
				Description("Output format for logs").
				Options(
					huh.NewOption("Pretty (human-readable)", "pretty"),
					huh.NewOption("JSON (structured)", "json"),
				).
				Value(&values.LogFormat),
		),
	).WithTheme(GetTheme())
}

func GetFormForCategory(category string, values *ConfigValues) *huh.Form {
	switch category {
	case "project":
		return CreateProjectForm(values)
	case "components":
		return CreateComponentsForm(values)
	case "output":
		return CreateOutputForm(values)
	case "concurrency":
		return CreateConcurrencyForm(values)
	case "cache":
		return CreateCacheForm(values)
	case "retry":
		return CreateRetryForm(values)
	case "logging":
		return CreateLoggingForm(values)
	default:
		return nil
	}
}
