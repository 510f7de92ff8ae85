// pkg/registry/schema.go
package registry

// Envelope names the response shape of an action.
type Envelope string

const (
	// EnvelopeResult answers {"result": ...}.
	EnvelopeResult Envelope = "result"
	// EnvelopeSuccess answers {"success": true, "data": ...}.
	EnvelopeSuccess Envelope = "success"
)

type ActionRegistry struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated"`
	Actions     []Action `json:"actions"`
}

type Action struct {
	ID          string                 `json:"id"`
	DisplayName string                 `json:"displayName"`
	Description string                 `json:"description"`
	TaskType    string                 `json:"taskType"`
	Envelope    Envelope               `json:"envelope"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	ErrorCodes  []string               `json:"errorCodes"`
	Timeout     string                 `json:"timeout"`
	Retries     int                    `json:"retries"`
	Tags        []string               `json:"tags"`
}
