package extraction

import "github.com/jonathan/job-enricher/internal/types"

// Vocabulary is a categorized skill term list used by the lexicon and
// semantic strategies
type Vocabulary map[string][]string

// DefaultVocabulary returns the built-in categorized skill vocabulary.
// Deployments extend or replace it through configuration.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		types.CategoryProgrammingLanguages: {
			"python", "go", "java", "javascript", "typescript", "c++", "c#",
			"rust", "ruby", "php", "kotlin", "swift", "scala", "sql", "r",
		},
		types.CategoryFrameworks: {
			"react", "angular", "vue", "django", "flask", "fastapi", "spring",
			"rails", "node.js", "express", "next.js", ".net", "pytorch", "tensorflow",
		},
		types.CategoryDatabases: {
			"postgresql", "mysql", "mongodb", "redis", "elasticsearch",
			"cassandra", "dynamodb", "sqlite", "clickhouse", "snowflake", "bigquery",
		},
		types.CategoryCloudPlatforms: {
			"aws", "azure", "google cloud platform", "heroku", "digitalocean",
		},
		types.CategoryDevOps: {
			"docker", "kubernetes", "terraform", "ansible", "jenkins",
			"github actions", "gitlab ci", "prometheus", "grafana", "helm",
		},
		types.CategoryTools: {
			"git", "jira", "kafka", "rabbitmq", "spark", "airflow", "linux",
			"grpc", "graphql", "rest api",
		},
		types.CategoryMethodologies: {
			"agile", "scrum", "kanban", "tdd", "ci/cd", "microservices",
			"machine learning", "data engineering", "devops",
		},
		types.CategorySoftSkills: {
			"communication", "leadership", "mentoring", "collaboration",
			"problem solving", "ownership",
		},
	}
}

// CategoryFor returns the vocabulary category for a normalized skill name
func (v Vocabulary) CategoryFor(normalizedName string) (string, bool) {
	for category, terms := range v {
		for _, term := range terms {
			if term == normalizedName {
				return category, true
			}
		}
	}
	return "", false
}

// Terms returns all terms across categories
func (v Vocabulary) Terms() []string {
	var all []string
	for _, terms := range v {
		all = append(all, terms...)
	}
	return all
}
