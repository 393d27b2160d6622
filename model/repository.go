package model

// Repository is a named content repository; Href is the backend identifier.
type Repository struct {
	Name   string            `json:"name"`
	Href   string            `json:"pulp_href"`
	Labels map[string]string `json:"pulp_labels,omitempty"`
}

// Pipeline returns the value of the pipeline label (staging, approved, rejected).
func (r *Repository) Pipeline() string {
	if r == nil || r.Labels == nil {
		return ""
	}
	return r.Labels["pipeline"]
}

// Distribution is an access point bound to a repository.
type Distribution struct {
	Name       string `json:"name"`
	BasePath   string `json:"base_path"`
	Href       string `json:"pulp_href"`
	Repository string `json:"repository,omitempty"`
}

// SigningService references a backend signing service.
type SigningService struct {
	Name string `json:"name"`
	Href string `json:"pulp_href"`
}
