package models

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes a node, picking the concrete config type from the
// node's type discriminant. Unknown node types fail decoding outright.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID               string          `json:"id"`
		Name             string          `json:"name"`
		Type             NodeType        `json:"type"`
		ContextConfig    ContextConfig   `json:"contextConfig"`
		RequiresApproval bool            `json:"requiresApproval"`
		Config           json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	config, err := decodeNodeConfig(raw.Type, raw.Config)
	if err != nil {
		return err
	}

	n.ID = raw.ID
	n.Name = raw.Name
	n.Type = raw.Type
	n.ContextConfig = raw.ContextConfig
	n.RequiresApproval = raw.RequiresApproval
	n.Config = config

	return nil
}

func decodeNodeConfig(nodeType NodeType, raw json.RawMessage) (NodeConfig, error) {
	unmarshal := func(into any) error {
		if len(raw) == 0 || string(raw) == "null" {
			return nil
		}
		if err := json.Unmarshal(raw, into); err != nil {
			return fmt.Errorf("invalid %s node config: %w", nodeType, err)
		}
		return nil
	}

	switch nodeType {
	case NodeTypeCode:
		var config CodeConfig
		if err := unmarshal(&config); err != nil {
			return nil, err
		}
		return config, nil
	case NodeTypeHTTP:
		var config HTTPConfig
		if err := unmarshal(&config); err != nil {
			return nil, err
		}
		return config, nil
	case NodeTypeFile:
		var config FileConfig
		if err := unmarshal(&config); err != nil {
			return nil, err
		}
		return config, nil
	case NodeTypeConditional:
		var config ConditionalConfig
		if err := unmarshal(&config); err != nil {
			return nil, err
		}
		return config, nil
	case NodeTypeLoop:
		var config LoopConfig
		if err := unmarshal(&config); err != nil {
			return nil, err
		}
		return config, nil
	case NodeTypeUserInput:
		var config UserInputConfig
		if err := unmarshal(&config); err != nil {
			return nil, err
		}
		return config, nil
	default:
		return nil, fmt.Errorf("unknown node type %q", nodeType)
	}
}
