package models

// Model describes an installed Ollama model as reported by `ollama list`.
// The list is rebuilt on every successful poll while the service is
// running; it is never persisted.
type Model struct {
	Name string `yaml:"name"`
	Size string `yaml:"size"` // human label, e.g. "7.4 GB"
}
