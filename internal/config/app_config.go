// Package config loads application configuration files and exclusion name lists.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/folderwalk/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds file-provided defaults for the CLI flags.
// Pointer fields distinguish "unset" from an explicit false so merging and
// flag precedence stay lossless.
type ApplicationConfiguration struct {
	Walk   WalkConfiguration   `mapstructure:"walk"`
	Output OutputConfiguration `mapstructure:"output"`
	Tokens TokenConfiguration  `mapstructure:"tokens"`
}

// WalkConfiguration defaults the traversal options.
type WalkConfiguration struct {
	IncludeContent    *bool    `mapstructure:"content"`
	MaxDepth          *int     `mapstructure:"max_depth"`
	ASCII             *bool    `mapstructure:"ascii"`
	Summary           *bool    `mapstructure:"summary"`
	Exclude           []string `mapstructure:"exclude"`
	NoDefaultExcludes *bool    `mapstructure:"no_default_excludes"`
}

// OutputConfiguration defaults the output destination.
type OutputConfiguration struct {
	Stdout   *bool  `mapstructure:"stdout"`
	FileName string `mapstructure:"file_name"`
	Copy     *bool  `mapstructure:"copy"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from the global file under
// the user's home directory overlaid by the local or explicitly provided file.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var loaded ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&loaded); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return loaded, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Walk = result.Walk.merge(override.Walk)
	result.Output = result.Output.merge(override.Output)
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config WalkConfiguration) merge(override WalkConfiguration) WalkConfiguration {
	result := config
	if override.IncludeContent != nil {
		result.IncludeContent = cloneBool(override.IncludeContent)
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.ASCII != nil {
		result.ASCII = cloneBool(override.ASCII)
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicateNames(override.Exclude)...)
	}
	if override.NoDefaultExcludes != nil {
		result.NoDefaultExcludes = cloneBool(override.NoDefaultExcludes)
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Stdout != nil {
		result.Stdout = cloneBool(override.Stdout)
	}
	if override.FileName != "" {
		result.FileName = override.FileName
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
