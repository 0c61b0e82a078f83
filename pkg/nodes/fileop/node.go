// Package fileop provides the file operation node executor. All filesystem
// access goes through an injected afero filesystem and is confined to the
// execution context's project folder unless the node opts out.
package fileop

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/protocol"
	"github.com/enactflow/enact/pkg/resolver"
)

const executorName = "FileOperationExecutor"

const (
	OperationRead   = "read"
	OperationWrite  = "write"
	OperationCopy   = "copy"
	OperationMove   = "move"
	OperationDelete = "delete"
	OperationExists = "exists"
)

const (
	EncodingUTF8   = "utf8"
	EncodingBinary = "binary"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Executor performs file operation nodes.
type Executor struct {
	fs afero.Fs
}

// NewExecutor creates a file operation executor over the given filesystem.
// A nil filesystem defaults to the host OS filesystem.
func NewExecutor(fs afero.Fs) *Executor {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Executor{fs: fs}
}

// Type returns the node type this executor accepts.
func (e *Executor) Type() models.NodeType {
	return models.NodeTypeFile
}

// Execute dispatches on the configured operation. Paths and content are
// template-substituted first, then every path is resolved and checked
// against the project folder jail before any filesystem call.
func (e *Executor) Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (*models.NodeResult, error) {
	config, ok := node.Config.(models.FileConfig)
	if !ok || node.Type != models.NodeTypeFile {
		return nil, protocol.InvalidNodeTypeError(executorName)
	}

	var (
		output  map[string]any
		failure string
	)
	switch config.Operation {
	case OperationRead:
		output, failure = e.read(config, execCtx)
	case OperationWrite:
		output, failure = e.write(config, execCtx)
	case OperationCopy:
		output, failure = e.copy(config, execCtx)
	case OperationMove:
		output, failure = e.move(config, execCtx)
	case OperationDelete:
		output, failure = e.delete(config, execCtx)
	case OperationExists:
		output, failure = e.exists(config, execCtx)
	default:
		failure = fmt.Sprintf("Unsupported file operation: %s", config.Operation)
	}

	if failure != "" {
		return models.NewFailedResult(node, failure), nil
	}
	return models.NewSuccessResult(node, output, output), nil
}

func (e *Executor) read(config models.FileConfig, execCtx *models.ExecutionContext) (map[string]any, string) {
	path, failure := e.resolvePath(pathOrFallback(config.SourcePath, config.TargetPath), "Source path is required", config, execCtx)
	if failure != "" {
		return nil, failure
	}

	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, translateOSError(err, "File not found")
	}

	return map[string]any{
		"operation": OperationRead,
		"path":      path,
		"content":   encodeContent(data, config.Encoding),
		"size":      len(data),
		"encoding":  normalizeEncoding(config.Encoding),
	}, ""
}

func (e *Executor) write(config models.FileConfig, execCtx *models.ExecutionContext) (map[string]any, string) {
	path, failure := e.resolvePath(pathOrFallback(config.TargetPath, config.SourcePath), "Target path is required", config, execCtx)
	if failure != "" {
		return nil, failure
	}

	content := resolver.Substitute(config.Content, execCtx)
	if content == "" {
		content = contextContent(execCtx)
	}
	data, failure := decodeContent(content, config.Encoding)
	if failure != "" {
		return nil, failure
	}

	existed, err := afero.Exists(e.fs, path)
	if err != nil {
		return nil, translateOSError(err, "File not found")
	}
	if existed && !config.Overwrite {
		return nil, fmt.Sprintf("File %s already exists", path)
	}

	if err := e.fs.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, translateOSError(err, "File not found")
	}
	if err := afero.WriteFile(e.fs, path, data, fileMode); err != nil {
		return nil, translateOSError(err, "File not found")
	}

	return map[string]any{
		"operation":   OperationWrite,
		"path":        path,
		"size":        len(data),
		"created":     !existed,
		"overwritten": existed,
	}, ""
}

func (e *Executor) copy(config models.FileConfig, execCtx *models.ExecutionContext) (map[string]any, string) {
	source, target, failure := e.resolvePair(config, execCtx)
	if failure != "" {
		return nil, failure
	}

	data, err := afero.ReadFile(e.fs, source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "Source file not found"
		}
		return nil, translateOSError(err, "Source file not found")
	}

	if err := e.fs.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return nil, translateOSError(err, "Source file not found")
	}
	if err := afero.WriteFile(e.fs, target, data, fileMode); err != nil {
		return nil, translateOSError(err, "Source file not found")
	}

	return map[string]any{
		"operation":  OperationCopy,
		"sourcePath": source,
		"targetPath": target,
		"size":       len(data),
	}, ""
}

func (e *Executor) move(config models.FileConfig, execCtx *models.ExecutionContext) (map[string]any, string) {
	source, target, failure := e.resolvePair(config, execCtx)
	if failure != "" {
		return nil, failure
	}

	if _, err := e.fs.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return nil, "Source file not found"
		}
		return nil, translateOSError(err, "Source file not found")
	}

	if err := e.fs.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return nil, translateOSError(err, "Source file not found")
	}
	if err := e.fs.Rename(source, target); err != nil {
		// Rename can fail across filesystem boundaries; fall back to
		// copy and remove.
		data, readErr := afero.ReadFile(e.fs, source)
		if readErr != nil {
			return nil, translateOSError(readErr, "Source file not found")
		}
		if writeErr := afero.WriteFile(e.fs, target, data, fileMode); writeErr != nil {
			return nil, translateOSError(writeErr, "Source file not found")
		}
		if removeErr := e.fs.Remove(source); removeErr != nil {
			return nil, translateOSError(removeErr, "Source file not found")
		}
	}

	return map[string]any{
		"operation":  OperationMove,
		"sourcePath": source,
		"targetPath": target,
	}, ""
}

func (e *Executor) delete(config models.FileConfig, execCtx *models.ExecutionContext) (map[string]any, string) {
	path, failure := e.resolvePath(pathOrFallback(config.TargetPath, config.SourcePath), "Target path is required", config, execCtx)
	if failure != "" {
		return nil, failure
	}

	info, err := e.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Deleting something that is not there is not an error.
			return map[string]any{
				"operation": OperationDelete,
				"path":      path,
				"existed":   false,
			}, ""
		}
		return nil, translateOSError(err, "File not found")
	}

	if info.IsDir() {
		err = e.fs.RemoveAll(path)
	} else {
		err = e.fs.Remove(path)
	}
	if err != nil {
		return nil, translateOSError(err, "File not found")
	}

	return map[string]any{
		"operation": OperationDelete,
		"path":      path,
		"existed":   true,
	}, ""
}

func (e *Executor) exists(config models.FileConfig, execCtx *models.ExecutionContext) (map[string]any, string) {
	path, failure := e.resolvePath(pathOrFallback(config.TargetPath, config.SourcePath), "Target path is required", config, execCtx)
	if failure != "" {
		return nil, failure
	}

	info, err := e.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{
				"operation": OperationExists,
				"path":      path,
				"exists":    false,
			}, ""
		}
		return nil, translateOSError(err, "File not found")
	}

	return map[string]any{
		"operation":   OperationExists,
		"path":        path,
		"exists":      true,
		"isFile":      !info.IsDir(),
		"isDirectory": info.IsDir(),
		"size":        info.Size(),
	}, ""
}

// resolvePair resolves source and target paths for two-path operations.
func (e *Executor) resolvePair(config models.FileConfig, execCtx *models.ExecutionContext) (string, string, string) {
	source, failure := e.resolvePath(config.SourcePath, "Source path is required", config, execCtx)
	if failure != "" {
		return "", "", failure
	}
	target, failure := e.resolvePath(config.TargetPath, "Target path is required", config, execCtx)
	if failure != "" {
		return "", "", failure
	}
	return source, target, ""
}

// resolvePath substitutes templates in the raw path and enforces the
// project folder jail. The jail check compares normalized paths so that
// ".." segments cannot escape it.
func (e *Executor) resolvePath(raw, missingMessage string, config models.FileConfig, execCtx *models.ExecutionContext) (string, string) {
	path := strings.TrimSpace(resolver.Substitute(raw, execCtx))
	if path == "" {
		return "", missingMessage
	}

	if !config.ProjectFolderRequired() {
		if !filepath.IsAbs(path) && execCtx.ProjectFolder != "" {
			path = filepath.Join(execCtx.ProjectFolder, path)
		}
		return filepath.Clean(path), ""
	}

	if execCtx.ProjectFolder == "" {
		return "", "Project folder not defined"
	}

	root := filepath.Clean(execCtx.ProjectFolder)
	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(root, resolved)
	}
	resolved = filepath.Clean(resolved)

	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Sprintf("Security violation: path %s is outside the project folder", path)
	}
	return resolved, ""
}

func pathOrFallback(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

// contextContent is the write fallback when the node carries no content of
// its own.
func contextContent(execCtx *models.ExecutionContext) string {
	value, ok := execCtx.Variables["content"]
	if !ok || value == nil {
		return ""
	}
	if text, ok := value.(string); ok {
		return text
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(encoded)
}

func normalizeEncoding(encoding string) string {
	if encoding == EncodingBinary {
		return EncodingBinary
	}
	return EncodingUTF8
}

// encodeContent renders file bytes for the result. Binary files travel as
// base64 so arbitrary bytes survive the JSON result surface.
func encodeContent(data []byte, encoding string) string {
	if normalizeEncoding(encoding) == EncodingBinary {
		return base64.StdEncoding.EncodeToString(data)
	}
	return string(data)
}

// decodeContent converts node content into file bytes, reversing
// encodeContent.
func decodeContent(content, encoding string) ([]byte, string) {
	if normalizeEncoding(encoding) == EncodingBinary {
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Sprintf("Invalid base64 content: %v", err)
		}
		return data, ""
	}
	return []byte(content), ""
}

func translateOSError(err error, notFound string) string {
	switch {
	case os.IsNotExist(err):
		return notFound
	case os.IsPermission(err):
		return "Permission denied"
	default:
		return fmt.Sprintf("File operation failed: %v", err)
	}
}
