// cmd/tools/eductl/main.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/tidwall/gjson"

	"nanolez-eduai/pkg/registry"
)

type Globals struct {
	Server  string        `help:"EduAI server base URL." default:"http://localhost:8080" env:"EDUAI_SERVER"`
	UserID  string        `help:"userId sent with each request." name:"user-id" env:"EDUAI_USER_ID"`
	Timeout time.Duration `help:"HTTP timeout." default:"3m"`
}

type CLI struct {
	Globals

	Registry RegistryCmd `cmd:"" help:"Inspect or write the action registry."`
	Roadmap  RoadmapCmd  `cmd:"" help:"Generate a learning roadmap."`
	Article  ArticleCmd  `cmd:"" help:"Fetch the researched article for a roadmap task."`
	Chat     ChatCmd     `cmd:"" help:"Send a single chat message."`
	Validate ValidateCmd `cmd:"" help:"Validate a resource URL."`
}

type RegistryCmd struct {
	Export  ExportCmd  `cmd:"" help:"Write the built-in registry to a file."`
	Check   CheckCmd   `cmd:"" help:"Validate a registry file."`
	List    ListCmd    `cmd:"" help:"List actions of a registry."`
	Timeout TimeoutCmd `cmd:"" help:"Change an action's timeout."`
}

type ExportCmd struct {
	Path string `arg:"" default:"configs/action-registry.json" help:"Destination file."`
}

func (c *ExportCmd) Run() error {
	reg := registry.Default()
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	if err := saveRegistry(reg, c.Path); err != nil {
		return err
	}
	fmt.Printf("Wrote %d actions to %s\n", len(reg.Actions), c.Path)
	return nil
}

type CheckCmd struct {
	Path string `arg:"" default:"configs/action-registry.json" help:"Registry file."`
}

func (c *CheckCmd) Run() error {
	reg, err := registry.LoadRegistry(c.Path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if len(reg.Actions) == 0 {
		return fmt.Errorf("registry contains no actions")
	}
	for _, a := range reg.Actions {
		if a.TaskType == "" {
			return fmt.Errorf("action %s missing required field: TaskType", a.ID)
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("action %s has invalid timeout %q", a.ID, a.Timeout)
			}
		}
	}
	fmt.Printf("Registry validation passed. Found %d actions.\n", len(reg.Actions))
	return nil
}

type ListCmd struct {
	Path string `arg:"" optional:"" help:"Registry file. The built-in registry when omitted."`
}

func (c *ListCmd) Run() error {
	reg := registry.Default()
	if c.Path != "" {
		var err error
		if reg, err = registry.LoadRegistry(c.Path); err != nil {
			return err
		}
	}
	for _, a := range reg.Actions {
		fmt.Printf("%-18s %-8s %-18s %s\n", a.ID, a.Envelope, a.TaskType, a.TimeoutDuration(0))
	}
	return nil
}

type TimeoutCmd struct {
	ID    string `arg:"" help:"Action id."`
	Value string `arg:"" help:"New timeout, e.g. 90s."`
	Path  string `default:"configs/action-registry.json" help:"Registry file."`
}

func (c *TimeoutCmd) Run() error {
	if _, err := time.ParseDuration(c.Value); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	reg, err := registry.LoadRegistry(c.Path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	found := false
	for i := range reg.Actions {
		if reg.Actions[i].ID == c.ID {
			reg.Actions[i].Timeout = c.Value
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("action with ID %s not found", c.ID)
	}
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	if err := saveRegistry(reg, c.Path); err != nil {
		return err
	}
	fmt.Printf("Updated action %s timeout to %s\n", c.ID, c.Value)
	return nil
}

type RoadmapCmd struct {
	Goal       string `arg:"" help:"Learning goal."`
	Duration   string `default:"3 Months"`
	Level      string `default:"Beginner"`
	Language   string `default:"en"`
	Structured bool   `help:"Use the generate_roadmap action."`
	Intensity  string `default:"Moderate" help:"Structured variant only."`
	StudyTime  string `name:"study-time" default:"2" help:"Hours per day, structured variant only."`
}

func (c *RoadmapCmd) Run(g *Globals) error {
	if c.Structured {
		return call(g, "generate_roadmap", map[string]interface{}{
			"goal":      c.Goal,
			"intensity": c.Intensity,
			"duration":  c.Duration,
			"studyTime": c.StudyTime,
			"language":  c.Language,
		})
	}
	return call(g, "generateRoadmap", map[string]interface{}{
		"goal":     c.Goal,
		"duration": c.Duration,
		"level":    c.Level,
		"language": c.Language,
	})
}

type ArticleCmd struct {
	Topic     string `arg:""`
	Task      string `arg:""`
	RoadmapID string `name:"roadmap-id" required:""`
	Language  string `default:"en"`
	First     bool   `help:"Mark as the first article of the roadmap."`
}

func (c *ArticleCmd) Run(g *Globals) error {
	return call(g, "fetch_article", map[string]interface{}{
		"topic":          c.Topic,
		"task":           c.Task,
		"language":       c.Language,
		"roadmapId":      c.RoadmapID,
		"isFirstArticle": c.First,
	})
}

type ChatCmd struct {
	Message []string `arg:"" help:"Message text."`
	System  string   `help:"Optional system message."`
}

func (c *ChatCmd) Run(g *Globals) error {
	var messages []map[string]string
	if c.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": c.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": strings.Join(c.Message, " ")})
	return call(g, "chat", map[string]interface{}{"messages": messages})
}

type ValidateCmd struct {
	URL string `arg:""`
}

func (c *ValidateCmd) Run(g *Globals) error {
	return call(g, "validate_url", map[string]interface{}{"url": c.URL})
}

func call(g *Globals, action string, data map[string]interface{}) error {
	body := map[string]interface{}{"action": action, "data": data}
	if g.UserID != "" {
		body["userId"] = g.UserID
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: g.Timeout}
	resp, err := client.Post(strings.TrimRight(g.Server, "/")+"/api", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		out.Reset()
		out.Write(raw)
	}
	fmt.Println(out.String())

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s failed with HTTP %d: %s", action, resp.StatusCode, gjson.GetBytes(raw, "code").String())
	}
	return nil
}

// saveRegistry handles saving the registry to file
func saveRegistry(reg *registry.ActionRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("eductl"),
		kong.Description("Command line client for the EduAI action API."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
