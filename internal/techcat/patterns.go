package techcat

import (
	"regexp"
	"strings"
)

type techPattern struct {
	name string
	re   *regexp.Regexp
}

// knownPatterns lists technologies recognized in prose. Most match
// case-insensitively; names that are also English words ("Go", "Rust",
// "react", "express") require their usual capitalization.
var knownPatterns = []techPattern{
	{"Python", ci(`python`)},
	{"JavaScript", ci(`javascript|js`)},
	{"TypeScript", ci(`typescript|ts`)},
	{"Java", ci(`java`)},
	{"Go", regexp.MustCompile(`\bGo\b|(?i:\bgolang\b)`)},
	{"Rust", regexp.MustCompile(`\bRust\b`)},
	{"C++", regexp.MustCompile(`(?i)(?:^|[^\w+])c\+\+`)},
	{"C#", regexp.MustCompile(`(?i)(?:^|[^\w#])c#`)},
	{"Ruby", ci(`ruby`)},
	{"PHP", ci(`php`)},
	{"Swift", regexp.MustCompile(`\bSwift\b`)},
	{"Kotlin", ci(`kotlin`)},
	{"Scala", ci(`scala`)},
	{"Elixir", ci(`elixir`)},
	{"SQL", regexp.MustCompile(`\bSQL\b`)},
	{"React", cased(`React(?:\.js|JS)?|(?i:react\.?js)`)},
	{"Vue.js", ci(`vue(?:\.js|js)?`)},
	{"Angular", cased(`Angular(?:JS)?|(?i:angularjs)`)},
	{"Svelte", ci(`svelte`)},
	{"Next.js", ci(`next\.js|nextjs`)},
	{"Node.js", ci(`node\.js|nodejs`)},
	{"Express", cased(`Express(?:\.js)?|(?i:express\.?js)`)},
	{"Django", ci(`django`)},
	{"Flask", cased(`Flask`)},
	{"FastAPI", ci(`fastapi`)},
	{"Rails", cased(`Rails|(?i:ruby on rails)`)},
	{"Spring Boot", ci(`spring boot`)},
	{"Laravel", ci(`laravel`)},
	{"PostgreSQL", ci(`postgresql|postgres`)},
	{"MySQL", ci(`mysql`)},
	{"SQLite", ci(`sqlite`)},
	{"MongoDB", ci(`mongodb|mongo`)},
	{"Redis", ci(`redis`)},
	{"Elasticsearch", ci(`elasticsearch`)},
	{"DynamoDB", ci(`dynamodb`)},
	{"TensorFlow", ci(`tensorflow`)},
	{"PyTorch", ci(`pytorch`)},
	{"Keras", ci(`keras`)},
	{"scikit-learn", ci(`scikit-learn|sklearn`)},
	{"Pandas", ci(`pandas`)},
	{"NumPy", ci(`numpy`)},
	{"OpenCV", ci(`opencv`)},
	{"Hugging Face", ci(`hugging ?face`)},
	{"LangChain", ci(`langchain`)},
	{"AWS", regexp.MustCompile(`\bAWS\b|(?i:\bamazon web services\b)`)},
	{"Azure", ci(`azure`)},
	{"GCP", regexp.MustCompile(`\bGCP\b|(?i:\bgoogle cloud\b)`)},
	{"Heroku", ci(`heroku`)},
	{"Vercel", ci(`vercel`)},
	{"Docker", ci(`docker`)},
	{"Kubernetes", ci(`kubernetes|k8s`)},
	{"Terraform", ci(`terraform`)},
	{"Ansible", ci(`ansible`)},
	{"Jenkins", ci(`jenkins`)},
	{"GitHub Actions", ci(`github actions`)},
	{"Nginx", ci(`nginx`)},
	{"Webpack", ci(`webpack`)},
	{"Vite", regexp.MustCompile(`\bVite\b`)},
	{"Tailwind CSS", ci(`tailwind(?:\s?css)?`)},
	{"Sass", cased(`Sass|SASS|(?i:scss)`)},
	{"GraphQL", ci(`graphql`)},
	{"Jest", cased(`Jest`)},
	{"Pytest", ci(`pytest`)},
	{"Cypress", ci(`cypress`)},
	{"Playwright", ci(`playwright`)},
	{"Git", regexp.MustCompile(`\bGit\b`)},
}

func ci(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + alternatives + `)\b`)
}

func cased(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + alternatives + `)\b`)
}

func patternFor(name string) *regexp.Regexp {
	for _, p := range knownPatterns {
		if strings.EqualFold(p.name, name) {
			return p.re
		}
	}
	return nil
}
