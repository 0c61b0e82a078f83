package models

// ContextMode selects how a node's input context is assembled and how its
// output is folded back into the shared execution context.
type ContextMode string

const (
	ContextModeSimple   ContextMode = "simple"
	ContextModeAdvanced ContextMode = "advanced"
)

// ContextConfig declares a node's data wiring. In simple mode the node sees
// every variable and prior output; in advanced mode only the declared input
// mappings, and only the declared output mappings are written back.
type ContextConfig struct {
	Mode           ContextMode      `json:"mode,omitempty"`
	InputMappings  []ContextMapping `json:"inputMappings,omitempty"`
	OutputMappings []ContextMapping `json:"outputMappings,omitempty"`
}

// Advanced reports whether the node opted into explicit mappings. Any mode
// other than "advanced" behaves as simple.
func (c ContextConfig) Advanced() bool {
	return c.Mode == ContextModeAdvanced
}

// ContextMapping moves one value between the execution context and a node.
// Source is a JSONPath ($.path) or variable reference ({{name}}); Target
// names the destination key. Transform optionally rewrites the value with a
// single-parameter arrow expression before it lands.
type ContextMapping struct {
	Source    string `json:"source"    validate:"required"`
	Target    string `json:"target"    validate:"required"`
	Transform string `json:"transform,omitempty"`
}
