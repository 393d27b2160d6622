package model

import "fmt"

// CollectionVersion identifies a single content version and the repository it
// currently lives in.
type CollectionVersion struct {
	Namespace  string `json:"namespace" yaml:"namespace"`
	Name       string `json:"name" yaml:"name"`
	Version    string `json:"version" yaml:"version"`
	Href       string `json:"pulp_href" yaml:"href"`
	Repository string `json:"repository,omitempty" yaml:"repository,omitempty"`
}

// String returns the human-readable version label, e.g. `"ns col v1.0.0"`.
func (v *CollectionVersion) String() string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%s %s v%s", v.Namespace, v.Name, v.Version)
}
