// Package techcat classifies technology names into categories and finds
// known technologies mentioned in free text.
//
// All heuristics live in static tables in this file so they can be audited
// and tested on their own. The tables are read-only after package init and
// safe for concurrent use.
package techcat

// Technology categories.
const (
	ProgrammingLanguages = "programming_languages"
	WebFrameworks        = "web_frameworks"
	Databases            = "databases"
	MLFrameworks         = "ml_frameworks"
	CloudPlatforms       = "cloud_platforms"
	DevOpsTools          = "devops_tools"
	FrontendTools        = "frontend_tools"
	TestingTools         = "testing_tools"
	VersionControl       = "version_control"
	Editors              = "editors"
	Other                = "other"
)

type categoryEntry struct {
	name  string
	techs []string
}

// categoryTable is ordered; a name listed twice resolves to its first category.
var categoryTable = []categoryEntry{
	{ProgrammingLanguages, []string{
		"python", "javascript", "typescript", "java", "go", "golang", "rust", "c", "c++", "c#",
		"ruby", "php", "swift", "kotlin", "scala", "r", "julia", "haskell", "elixir", "erlang",
		"dart", "lua", "perl", "sql", "bash", "shell", "clojure", "ocaml", "zig", "solidity",
	}},
	{WebFrameworks, []string{
		"react", "react.js", "reactjs", "vue", "vue.js", "vuejs", "angular", "svelte", "next.js",
		"nextjs", "nuxt", "nuxt.js", "django", "flask", "fastapi", "express", "express.js",
		"rails", "ruby on rails", "spring", "spring boot", "laravel", "gin", "echo", "fiber",
		"asp.net", "node.js", "nodejs", "node", "nestjs", "remix", "htmx",
	}},
	{Databases, []string{
		"postgresql", "postgres", "mysql", "sqlite", "mongodb", "redis", "cassandra", "dynamodb",
		"elasticsearch", "mariadb", "neo4j", "supabase", "firebase", "firestore", "couchdb",
		"influxdb", "clickhouse", "cockroachdb", "oracle", "sql server",
	}},
	{MLFrameworks, []string{
		"tensorflow", "pytorch", "keras", "scikit-learn", "sklearn", "pandas", "numpy",
		"hugging face", "huggingface", "transformers", "opencv", "xgboost", "langchain", "jax",
		"spacy", "nltk", "lightgbm", "mlflow",
	}},
	{CloudPlatforms, []string{
		"aws", "amazon web services", "azure", "gcp", "google cloud", "heroku", "vercel",
		"netlify", "digitalocean", "cloudflare", "fly.io", "render",
	}},
	{DevOpsTools, []string{
		"docker", "kubernetes", "k8s", "terraform", "ansible", "jenkins", "github actions",
		"gitlab ci", "circleci", "helm", "prometheus", "grafana", "nginx", "pulumi", "argocd",
	}},
	{FrontendTools, []string{
		"webpack", "vite", "babel", "sass", "scss", "tailwind", "tailwindcss", "tailwind css",
		"bootstrap", "html", "css", "jquery", "redux", "storybook", "d3", "d3.js", "three.js",
	}},
	{TestingTools, []string{
		"jest", "pytest", "mocha", "cypress", "selenium", "playwright", "junit", "vitest",
		"testing library", "rspec",
	}},
	{VersionControl, []string{
		"git", "github", "gitlab", "bitbucket", "svn", "mercurial",
	}},
	{Editors, []string{
		"vscode", "vs code", "visual studio code", "vim", "neovim", "emacs", "intellij",
		"pycharm", "sublime text", "xcode", "android studio",
	}},
}

// lookup is built once from categoryTable.
var lookup = buildLookup()

func buildLookup() map[string]string {
	m := make(map[string]string)
	for _, entry := range categoryTable {
		for _, tech := range entry.techs {
			if _, exists := m[tech]; !exists {
				m[tech] = entry.name
			}
		}
	}
	return m
}

// Advanced, intermediate, and beginner proficiency levels.
const (
	Advanced     = "advanced"
	Intermediate = "intermediate"
	Beginner     = "beginner"
)

// proficiencyKeywords is checked in order; the first level with a keyword in
// the context window wins.
var proficiencyKeywords = []struct {
	level    string
	keywords []string
}{
	{Advanced, []string{
		"expert", "advanced", "extensive", "deep", "mastered", "optimiz", "architect",
		"production", "at scale", "scaled", "complex", "senior", "lead",
	}},
	{Intermediate, []string{
		"intermediate", "experience", "familiar", "comfortable", "built", "implemented",
		"developed", "working knowledge", "proficient", "integrated",
	}},
	{Beginner, []string{
		"learning", "beginner", "basic", "introduc", "first time", "new to", "exploring",
		"tutorial", "getting started",
	}},
}

// ContextWindow is the number of characters examined on each side of a mention.
const ContextWindow = 50
