// Package models defines the data model shared by every node executor:
// workflow nodes and their per-kind configurations, execution contexts,
// and node results.
package models

// NodeType identifies which executor handles a node.
type NodeType string

const (
	NodeTypeCode        NodeType = "code"
	NodeTypeHTTP        NodeType = "http"
	NodeTypeFile        NodeType = "file"
	NodeTypeConditional NodeType = "conditional"
	NodeTypeLoop        NodeType = "loop"
	NodeTypeUserInput   NodeType = "user-input"
)

// Node is a single step of a workflow graph. The orchestrator decides
// which node runs next; the executor only runs the node it is handed.
type Node struct {
	ID               string        `json:"id"   validate:"required"`
	Name             string        `json:"name" validate:"required"`
	Type             NodeType      `json:"type" validate:"required,oneof=code http file conditional loop user-input"`
	ContextConfig    ContextConfig `json:"contextConfig,omitempty"`
	RequiresApproval bool          `json:"requiresApproval,omitempty"`
	Config           NodeConfig    `json:"config,omitempty"`
}

// NodeConfig is the closed set of per-kind node configurations. Exactly one
// concrete config type exists per NodeType; decoding a node with an unknown
// type fails instead of producing a half-formed node.
type NodeConfig interface {
	configType() NodeType
}

// CodeConfig configures a code node running JavaScript or Python.
type CodeConfig struct {
	Language       string         `json:"language,omitempty"`
	Code           string         `json:"code,omitempty"`
	Sandbox        *bool          `json:"sandbox,omitempty"`
	TimeoutMs      int            `json:"timeoutMs,omitempty"`
	AllowedModules []string       `json:"allowedModules,omitempty"`
	Context        map[string]any `json:"context,omitempty"`
}

func (CodeConfig) configType() NodeType { return NodeTypeCode }

// Sandboxed reports whether the code runs under the security scan and
// interpreter restrictions. Defaults to true when the field is omitted.
func (c CodeConfig) Sandboxed() bool {
	return c.Sandbox == nil || *c.Sandbox
}

// HTTPConfig configures an outbound HTTP request node.
type HTTPConfig struct {
	URL          string            `json:"url,omitempty"`
	Method       string            `json:"method,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	Body         any               `json:"body,omitempty"`
	Auth         *AuthConfig       `json:"auth,omitempty"`
	ResponseType string            `json:"responseType,omitempty"`
	TimeoutMs    int               `json:"timeoutMs,omitempty"`
	Retry        *RetryPolicy      `json:"retry,omitempty"`
}

func (HTTPConfig) configType() NodeType { return NodeTypeHTTP }

// AuthConfig describes how an HTTP node authenticates. Type selects the
// scheme; the remaining fields are read depending on it.
type AuthConfig struct {
	Type       string `json:"type,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	Token      string `json:"token,omitempty"`
	APIKey     string `json:"apiKey,omitempty"`
	HeaderName string `json:"headerName,omitempty"`
}

// RetryPolicy controls retries of HTTP requests that fail with a
// server-side status. The first retry waits RetryDelayMs; each later
// retry multiplies the previous delay by BackoffMultiplier.
type RetryPolicy struct {
	MaxRetries        int     `json:"maxRetries,omitempty"`
	RetryDelayMs      int     `json:"retryDelayMs,omitempty"`
	BackoffMultiplier float64 `json:"backoffMultiplier,omitempty"`
}

// FileConfig configures a filesystem node. All paths are confined to the
// execution context's project folder unless RequireProjectFolder is false.
type FileConfig struct {
	Operation            string `json:"operation,omitempty"`
	SourcePath           string `json:"sourcePath,omitempty"`
	TargetPath           string `json:"targetPath,omitempty"`
	Content              string `json:"content,omitempty"`
	Encoding             string `json:"encoding,omitempty"`
	Overwrite            bool   `json:"overwrite,omitempty"`
	RequireProjectFolder *bool  `json:"requireProjectFolder,omitempty"`
}

func (FileConfig) configType() NodeType { return NodeTypeFile }

// ProjectFolderRequired reports whether the node must run inside a project
// folder. Defaults to true when the field is omitted.
func (c FileConfig) ProjectFolderRequired() bool {
	return c.RequireProjectFolder == nil || *c.RequireProjectFolder
}

// ConditionalConfig configures a branching node.
type ConditionalConfig struct {
	ConditionType string `json:"conditionType,omitempty"`
	Condition     string `json:"condition,omitempty"`
}

func (ConditionalConfig) configType() NodeType { return NodeTypeConditional }

// LoopConfig configures an iteration node. LoopType selects forEach, count
// or while semantics; the matching field provides the loop source.
type LoopConfig struct {
	LoopType         string `json:"loopType,omitempty"`
	Collection       string `json:"collection,omitempty"`
	Count            any    `json:"count,omitempty"`
	WhileCondition   string `json:"whileCondition,omitempty"`
	IteratorVariable string `json:"iteratorVariable,omitempty"`
	IndexVariable    string `json:"indexVariable,omitempty"`
	MaxIterations    int    `json:"maxIterations,omitempty"`
}

func (LoopConfig) configType() NodeType { return NodeTypeLoop }

// UserInputConfig configures a node that pauses for a human-supplied value.
type UserInputConfig struct {
	Prompt       string   `json:"prompt,omitempty"`
	InputType    string   `json:"inputType,omitempty"`
	DefaultValue any      `json:"defaultValue,omitempty"`
	Required     bool     `json:"required,omitempty"`
	MinLength    *int     `json:"minLength,omitempty"`
	MaxLength    *int     `json:"maxLength,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Options      []string `json:"options,omitempty"`
}

func (UserInputConfig) configType() NodeType { return NodeTypeUserInput }
