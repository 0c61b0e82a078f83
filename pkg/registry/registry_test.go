package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enactflow/enact/pkg/models"
)

func defaultRegistry() *Registry {
	r := NewRegistry(nil)
	r.RegisterDefaults(Dependencies{})
	return r
}

func TestRegisterDefaultsCoversEveryNodeType(t *testing.T) {
	r := defaultRegistry()

	for _, nodeType := range []models.NodeType{
		models.NodeTypeCode,
		models.NodeTypeHTTP,
		models.NodeTypeFile,
		models.NodeTypeConditional,
		models.NodeTypeLoop,
		models.NodeTypeUserInput,
	} {
		executor, err := r.ExecutorFor(nodeType)
		require.NoError(t, err, "missing executor for %s", nodeType)
		assert.Equal(t, nodeType, executor.Type())
		assert.NotEmpty(t, executor.Name())
		assert.NotEmpty(t, executor.Schema())
	}
}

func TestExecutorForUnknownType(t *testing.T) {
	r := defaultRegistry()

	_, err := r.ExecutorFor("teleport")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'teleport' not registered")
}

func TestExecutorsAreSortedByType(t *testing.T) {
	r := defaultRegistry()

	infos := r.Executors()
	require.Len(t, infos, 6)
	for i := 1; i < len(infos); i++ {
		assert.LessOrEqual(t, infos[i-1].Type, infos[i].Type)
	}
}

func TestValidateConfigAcceptsValidNode(t *testing.T) {
	r := defaultRegistry()

	node := &models.Node{
		ID:   "n1",
		Name: "Run",
		Type: models.NodeTypeCode,
		Config: models.CodeConfig{
			Language: "javascript",
			Code:     "return 1",
		},
	}

	assert.NoError(t, r.ValidateConfig(node))
}

func TestValidateConfigRejectsMissingRequiredField(t *testing.T) {
	r := defaultRegistry()

	node := &models.Node{
		ID:     "n1",
		Name:   "Run",
		Type:   models.NodeTypeCode,
		Config: models.CodeConfig{Language: "javascript"},
	}

	err := r.ValidateConfig(node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON schema validation failed")
	assert.Contains(t, err.Error(), "code")
}

func TestValidateConfigRejectsBadEnum(t *testing.T) {
	r := defaultRegistry()

	node := &models.Node{
		ID:     "n1",
		Name:   "Branch",
		Type:   models.NodeTypeFile,
		Config: models.FileConfig{Operation: "shred"},
	}

	err := r.ValidateConfig(node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON schema validation failed")
}

func TestValidateConfigMissingConfig(t *testing.T) {
	r := defaultRegistry()

	// User input nodes have no required config fields.
	optional := &models.Node{ID: "n1", Name: "Ask", Type: models.NodeTypeUserInput}
	assert.NoError(t, r.ValidateConfig(optional))

	// HTTP nodes require a URL.
	mandatory := &models.Node{ID: "n2", Name: "Call", Type: models.NodeTypeHTTP}
	err := r.ValidateConfig(mandatory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

func TestValidateConfigUnknownType(t *testing.T) {
	r := defaultRegistry()

	node := &models.Node{ID: "n1", Name: "Odd", Type: "teleport"}
	err := r.ValidateConfig(node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}
