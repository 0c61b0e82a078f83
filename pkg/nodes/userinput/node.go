// Package userinput provides the user input node executor. Interactive
// prompting belongs to the desktop shell; this executor resolves a value
// from the execution context or the configured default and validates it.
package userinput

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/protocol"
)

const executorName = "UserInputExecutor"

// suppliedValuePrefix keys externally collected answers in the execution
// context variables, one per node.
const suppliedValuePrefix = "__userInput_"

const (
	InputTypeText     = "text"
	InputTypeTextarea = "textarea"
	InputTypeNumber   = "number"
	InputTypeSelect   = "select"
)

const (
	sourceContext = "context"
	sourceDefault = "default"
)

// Executor performs user input nodes.
type Executor struct{}

// NewExecutor creates a user input executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Type returns the node type this executor accepts.
func (e *Executor) Type() models.NodeType {
	return models.NodeTypeUserInput
}

// Execute resolves the input value. A value supplied through the context
// variable "__userInput_<nodeID>" wins, then the configured default; with
// neither, a required input fails because interactive prompting is not
// wired into this engine.
func (e *Executor) Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (*models.NodeResult, error) {
	config, ok := node.Config.(models.UserInputConfig)
	if !ok || node.Type != models.NodeTypeUserInput {
		return nil, protocol.InvalidNodeTypeError(executorName)
	}

	value, source, found := resolveValue(node.ID, config, execCtx)
	if !found {
		if config.Required {
			return models.NewFailedResult(node, "User input collection requires IPC integration with the desktop application"), nil
		}
		return inputResult(node, config, nil, ""), nil
	}

	validated, failure := validate(value, config)
	if failure != "" {
		return models.NewFailedResult(node, failure), nil
	}

	return inputResult(node, config, validated, source), nil
}

func resolveValue(nodeID string, config models.UserInputConfig, execCtx *models.ExecutionContext) (any, string, bool) {
	if supplied, ok := execCtx.Variables[suppliedValuePrefix+nodeID]; ok {
		return supplied, sourceContext, true
	}
	if config.DefaultValue != nil {
		return config.DefaultValue, sourceDefault, true
	}
	return nil, "", false
}

func validate(value any, config models.UserInputConfig) (any, string) {
	inputType := config.InputType
	if inputType == "" {
		inputType = InputTypeText
	}

	switch inputType {
	case InputTypeText, InputTypeTextarea:
		return validateText(value, config)
	case InputTypeNumber:
		return validateNumber(value, config)
	case InputTypeSelect:
		return validateSelect(value, config)
	default:
		return nil, fmt.Sprintf("Unsupported input type: %s", inputType)
	}
}

func validateText(value any, config models.UserInputConfig) (any, string) {
	text, ok := value.(string)
	if !ok {
		return nil, "Input must be text"
	}
	length := utf8.RuneCountInString(text)

	if config.Required && text == "" {
		return nil, "Input is required"
	}
	if config.MinLength != nil && length < *config.MinLength {
		return nil, fmt.Sprintf("Input must be at least %d characters", *config.MinLength)
	}
	if config.MaxLength != nil && length > *config.MaxLength {
		return nil, fmt.Sprintf("Input must be at most %d characters", *config.MaxLength)
	}
	if config.Pattern != "" {
		pattern, err := regexp.Compile(config.Pattern)
		if err != nil {
			return nil, fmt.Sprintf("Invalid validation pattern: %v", err)
		}
		if !pattern.MatchString(text) {
			return nil, "Input does not match the required pattern"
		}
	}
	return text, ""
}

func validateNumber(value any, config models.UserInputConfig) (any, string) {
	number, ok := asNumber(value)
	if !ok {
		return nil, "Input must be a number"
	}
	if config.Min != nil && number < *config.Min {
		return nil, fmt.Sprintf("Input must be at least %v", *config.Min)
	}
	if config.Max != nil && number > *config.Max {
		return nil, fmt.Sprintf("Input must be at most %v", *config.Max)
	}
	return number, ""
}

func validateSelect(value any, config models.UserInputConfig) (any, string) {
	if len(config.Options) == 0 {
		return nil, "Select input requires options"
	}
	text := fmt.Sprint(value)
	for _, option := range config.Options {
		if text == option {
			return text, ""
		}
	}
	return nil, fmt.Sprintf("Invalid option: %s", text)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func inputResult(node *models.Node, config models.UserInputConfig, value any, source string) *models.NodeResult {
	inputType := config.InputType
	if inputType == "" {
		inputType = InputTypeText
	}
	output := map[string]any{
		"value":     value,
		"inputType": inputType,
	}
	if config.Prompt != "" {
		output["prompt"] = config.Prompt
	}
	if source != "" {
		output["source"] = source
	}
	return models.NewSuccessResult(node, output, map[string]any{"value": value})
}
