// internal/workers/resources/validate-url/models.go
package validateurl

import "nanolez-eduai/internal/resources"

type Input struct {
	URL string `json:"url"`
}

type Output = resources.ValidatedResource
