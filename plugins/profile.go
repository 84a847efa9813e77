package plugins

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"

	"github.com/linht/ax5031/ax5031"
)

// OrderedMap is a JSON object that keeps the key order of the YAML profile.
type OrderedMap struct {
	Keys   []string
	Values map[string]interface{}
}

// MarshalJSON implements json.Marshaler for OrderedMap
func (om *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range om.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(om.Values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// profileToJSON converts a profile document into ordered JSON values.
func profileToJSON(node *yaml.Node) interface{} {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) > 0 {
			return profileToJSON(node.Content[0])
		}
		return nil

	case yaml.MappingNode:
		om := &OrderedMap{
			Keys:   make([]string, 0, len(node.Content)/2),
			Values: make(map[string]interface{}),
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			om.Keys = append(om.Keys, key)
			om.Values[key] = profileToJSON(node.Content[i+1])
		}
		return om

	case yaml.SequenceNode:
		result := make([]interface{}, len(node.Content))
		for i, item := range node.Content {
			result[i] = profileToJSON(item)
		}
		return result

	case yaml.AliasNode:
		if node.Alias != nil {
			return profileToJSON(node.Alias)
		}
		return nil

	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			return nil
		case "!!bool":
			return node.Value == "true"
		case "!!int":
			var v int64
			if err := node.Decode(&v); err == nil {
				return v
			}
		case "!!float":
			var v float64
			if err := node.Decode(&v); err == nil {
				return v
			}
		}
	}
	return node.Value
}

// mergeProfile writes values into the mapping nodes of a profile document,
// keeping key order and comments. Unknown keys are ignored.
func mergeProfile(node *yaml.Node, values map[string]interface{}) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) > 0 {
			mergeProfile(node.Content[0], values)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			value, ok := values[node.Content[i].Value]
			if !ok {
				continue
			}
			valueNode := node.Content[i+1]
			if m, ok := value.(map[string]interface{}); ok {
				if valueNode.Kind == yaml.MappingNode {
					mergeProfile(valueNode, m)
				}
				continue
			}
			setScalar(valueNode, value)
		}
	}
}

// setScalar stores a JSON value in a scalar node.
func setScalar(node *yaml.Node, value interface{}) {
	node.Kind = yaml.ScalarNode
	node.Style = 0
	switch v := value.(type) {
	case string:
		node.Value, node.Tag = v, "!!str"
	case bool:
		node.Value, node.Tag = strconv.FormatBool(v), "!!bool"
	case float64:
		if v == float64(int64(v)) {
			node.Value, node.Tag = strconv.FormatInt(int64(v), 10), "!!int"
		} else {
			node.Value, node.Tag = strconv.FormatFloat(v, 'g', -1, 64), "!!float"
		}
	case nil:
		node.Value, node.Tag = "null", "!!null"
	default:
		node.Value, node.Tag = fmt.Sprintf("%v", v), ""
	}
}

// ProfilePlugin edits the radio profile file and applies it to the chip.
type ProfilePlugin struct {
	profilePath string
	hardware    *HardwarePlugin
}

// NewProfilePlugin creates a new profile plugin instance
func NewProfilePlugin(profilePath string, hw *HardwarePlugin) (*ProfilePlugin, error) {
	if profilePath == "" {
		return nil, fmt.Errorf("profile_path is required in profile plugin configuration")
	}

	return &ProfilePlugin{
		profilePath: profilePath,
		hardware:    hw,
	}, nil
}

// Name returns the plugin identifier
func (p *ProfilePlugin) Name() string {
	return "profile"
}

// RegisterRoutes adds the plugin's HTTP routes
func (p *ProfilePlugin) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/profile")

	api.Get("/load", p.loadProfile)
	api.Post("/save", p.saveProfile)
	api.Post("/apply", p.applyProfile)
}

// Shutdown performs cleanup
func (p *ProfilePlugin) Shutdown() error {
	return nil
}

func (p *ProfilePlugin) readProfile() (*yaml.Node, error) {
	data, err := os.ReadFile(p.profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &root, nil
}

// loadProfile handles GET /api/profile/load
func (p *ProfilePlugin) loadProfile(c *fiber.Ctx) error {
	root, err := p.readProfile()
	if err != nil {
		return SendError(c, 500, err)
	}
	return SendSuccess(c, profileToJSON(root), "Profile loaded successfully")
}

// saveProfile handles POST /api/profile/save
func (p *ProfilePlugin) saveProfile(c *fiber.Ctx) error {
	var values map[string]interface{}
	if err := c.BodyParser(&values); err != nil {
		return SendErrorMessage(c, 400, "Invalid request body")
	}

	root, err := p.readProfile()
	if err != nil {
		return SendError(c, 500, err)
	}
	mergeProfile(root, values)

	// Refuse to store a profile the driver cannot decode
	var cfg ax5031.Config
	if err := root.Decode(&cfg); err != nil {
		return SendError(c, 400, fmt.Errorf("invalid profile: %w", err))
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return SendError(c, 500, fmt.Errorf("failed to serialize profile: %w", err))
	}
	if err := os.WriteFile(p.profilePath, data, 0644); err != nil {
		return SendError(c, 500, fmt.Errorf("failed to write profile: %w", err))
	}

	slog.Info("Profile saved", "path", p.profilePath)
	return SendSuccess(c, nil, "Profile saved successfully")
}

// applyProfile handles POST /api/profile/apply
func (p *ProfilePlugin) applyProfile(c *fiber.Ctx) error {
	if p.hardware == nil {
		return SendErrorMessage(c, 503, "hardware plugin not loaded")
	}

	root, err := p.readProfile()
	if err != nil {
		return SendError(c, 500, err)
	}
	var cfg ax5031.Config
	if err := root.Decode(&cfg); err != nil {
		return SendError(c, 400, fmt.Errorf("invalid profile: %w", err))
	}

	polls, err := p.hardware.Apply(cfg)
	if err != nil {
		slog.Error("Failed to apply profile", "error", err)
		return sendDeviceError(c, err)
	}

	slog.Info("Profile applied", "frequency", cfg.Frequency, "ranging_polls", polls)
	return SendSuccess(c, fiber.Map{"ranging_polls": polls, "profile": cfg}, "Profile applied")
}

// Register the plugin
func init() {
	Register("profile", func(config interface{}) (Plugin, error) {
		var path string
		var hw *HardwarePlugin

		if configMap, ok := config.(map[string]interface{}); ok {
			path, _ = configMap["profile_path"].(string)
			hw, _ = configMap["hardware"].(*HardwarePlugin)
		}

		return NewProfilePlugin(path, hw)
	})
}
