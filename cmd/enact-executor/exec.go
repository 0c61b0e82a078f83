package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "github.com/goccy/go-yaml"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/enactflow/enact/pkg/cmd"
	"github.com/enactflow/enact/pkg/log"
	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/registry"
	"github.com/enactflow/enact/pkg/services"
)

func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Aliases:   []string{"x"},
		Usage:     "Execute one node definition from a file and print the outcome",
		ArgsUsage: "<node-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "context-file",
				Aliases: []string{"c"},
				Usage:   "JSON or YAML file with the execution context",
			},
			&cli.StringFlag{
				Name:    "project-folder",
				Usage:   "Project folder file nodes are confined to",
				Sources: cli.EnvVars("PROJECT_FOLDER"),
			},
			&cli.StringFlag{
				Name:    "python-bin",
				Usage:   "Python interpreter used by code nodes",
				Value:   "python3",
				Sources: cli.EnvVars("PYTHON_BIN"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("exec")

			if command.Args().Len() != 1 {
				return errors.New("exactly one node file is required")
			}

			node, err := loadNode(command.Args().First())
			if err != nil {
				return err
			}

			execCtx := models.NewExecutionContext("adhoc", "exec-"+uuid.New().String()[:8])

			if contextFile := command.String("context-file"); contextFile != "" {
				execCtx, err = loadContext(contextFile)
				if err != nil {
					return err
				}
			}

			if folder := command.String("project-folder"); folder != "" {
				execCtx.ProjectFolder = folder
			}

			reg := cmd.NewRegistry(logger, registry.Dependencies{
				PythonBin: command.String("python-bin"),
			})
			execution := services.NewExecution("exec", reg, nil, logger)

			outcome, err := execution.Run(ctx, node, execCtx)
			if err != nil {
				return err
			}

			payload, err := json.MarshalIndent(outcome, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(payload))

			if outcome.Result.Failed() {
				return cli.Exit("", 1)
			}

			return nil
		},
	}
}

func loadNode(path string) (*models.Node, error) {
	data, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	var node models.Node

	err = json.Unmarshal(data, &node)
	if err != nil {
		return nil, fmt.Errorf("failed to decode node file: %w", err)
	}

	return &node, nil
}

func loadContext(path string) (*models.ExecutionContext, error) {
	data, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	var execCtx models.ExecutionContext

	err = json.Unmarshal(data, &execCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to decode context file: %w", err)
	}

	return &execCtx, nil
}

// loadDocument reads a file and converts YAML to JSON, so the models'
// type-discriminated JSON decoding applies to both formats.
func loadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
		}

		return converted, nil
	default:
		return data, nil
	}
}
