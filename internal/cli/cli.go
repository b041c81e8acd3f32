// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/folderwalk/internal/config"
	"github.com/temirov/folderwalk/internal/output"
	"github.com/temirov/folderwalk/internal/services/clipboard"
	"github.com/temirov/folderwalk/internal/services/sink"
	"github.com/temirov/folderwalk/internal/services/stream"
	"github.com/temirov/folderwalk/internal/tokenizer"
	"github.com/temirov/folderwalk/internal/utils"
	"github.com/temirov/folderwalk/internal/walk"
)

const (
	contentFlagName           = "content"
	contentFlagShorthand      = "c"
	stdoutFlagName            = "stdout"
	stdoutFlagShorthand       = "o"
	maxDepthFlagName          = "max-depth"
	asciiFlagName             = "ascii"
	exclusionFlagName         = "exclude"
	exclusionFlagShorthand    = "e"
	exclusionFileFlagName     = "exclude-file"
	noDefaultExcludesFlagName = "no-default-excludes"
	summaryFlagName           = "summary"
	tokensFlagName            = "tokens"
	modelFlagName             = "model"
	copyFlagName              = "copy"
	configFlagName            = "config"
	versionFlagName           = "version"
	versionTemplate           = "folderwalk version: %s\n"
	defaultPath               = "."
	rootUse                   = "folderwalk [path]"
	rootShortDescription      = "folderwalk renders an annotated directory tree"
	rootLongDescription       = `folderwalk walks a directory and renders its tree with box-drawing connectors.
It can inline file contents, annotate token counts, and deliver the result to a
file inside the walked root, to stdout, or to the system clipboard.`

	// rootUsageExample demonstrates folderwalk invocations.
	rootUsageExample = `  # Write the tree of the current directory to files.txt
  folderwalk

  # Print the tree with file contents to stdout
  folderwalk --content --stdout ./src

  # Limit depth and use ASCII connectors
  folderwalk --max-depth 2 --ascii .`

	contentFlagDescription           = "include file contents"
	stdoutFlagDescription            = "write output to stdout instead of the output file"
	maxDepthFlagDescription          = "maximum traversal depth (positive integer)"
	asciiFlagDescription             = "use ASCII tree connectors"
	exclusionFlagDescription         = "exclude entries with this name"
	exclusionFileFlagDescription     = "file listing additional excluded names"
	noDefaultExcludesFlagDescription = "do not seed the exclusion set with the default noise directories"
	summaryFlagDescription           = "append a summary of rendered files"
	tokensFlagDescription            = "include token counts"
	modelFlagDescription             = "tokenizer model to use for token counting"
	copyFlagDescription              = "copy the rendered output to the clipboard"
	configFlagDescription            = "configuration file path"
	versionFlagDescription           = "display application version"
	defaultTokenizerModelName        = "gpt-4o"
	invalidMaxDepthMessageFormat     = "--%s must be a positive integer, got %d"
	workingDirectoryErrorFormat      = "unable to determine working directory: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorExclusionListFormat reports failure to read an exclusion list file.
	errorExclusionListFormat = "read exclusion list %s: %w"
	// warningClipboardCopyFormat reports a failed clipboard export.
	warningClipboardCopyFormat = "Warning: failed to copy output to clipboard: %v\n"
)

// rootFlagValues stores the raw flag bindings of the root command.
type rootFlagValues struct {
	includeContent    bool
	useStdout         bool
	maxDepth          int
	asciiGlyphs       bool
	exclusionNames    []string
	exclusionFilePath string
	noDefaultExcludes bool
	summaryEnabled    bool
	tokensEnabled     bool
	tokenizerModel    string
	copyEnabled       bool
	configFilePath    string
	showVersion       bool
}

// runSettings holds the fully resolved invocation options after configuration
// files and command line flags are merged.
type runSettings struct {
	rootPath       string
	includeContent bool
	maxDepth       int
	asciiGlyphs    bool
	summaryEnabled bool
	excludedNames  []string
	useStdout      bool
	outputFileName string
	copyEnabled    bool
	tokensEnabled  bool
	tokenizerModel string
}

// Execute runs the folderwalk application.
func Execute() error {
	rootCommand := createRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	flagValues := &rootFlagValues{}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if flagValues.showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, settingsError := resolveRunSettings(command.Flags(), flagValues, arguments)
			if settingsError != nil {
				return settingsError
			}
			return runFolderWalk(settings)
		},
	}

	registerRootFlags(rootCommand.Flags(), flagValues)
	rootCommand.Flags().BoolVar(&flagValues.showVersion, versionFlagName, false, versionFlagDescription)
	return rootCommand
}

// registerRootFlags installs the walk and output flags on the flag set.
func registerRootFlags(flagSet *pflag.FlagSet, flagValues *rootFlagValues) {
	registerBooleanFlag(flagSet, &flagValues.includeContent, contentFlagName, contentFlagShorthand, false, contentFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.useStdout, stdoutFlagName, stdoutFlagShorthand, false, stdoutFlagDescription)
	flagSet.IntVar(&flagValues.maxDepth, maxDepthFlagName, 0, maxDepthFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.asciiGlyphs, asciiFlagName, "", false, asciiFlagDescription)
	flagSet.StringArrayVarP(&flagValues.exclusionNames, exclusionFlagName, exclusionFlagShorthand, nil, exclusionFlagDescription)
	flagSet.StringVar(&flagValues.exclusionFilePath, exclusionFileFlagName, "", exclusionFileFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.noDefaultExcludes, noDefaultExcludesFlagName, "", false, noDefaultExcludesFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.summaryEnabled, summaryFlagName, "", false, summaryFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.tokensEnabled, tokensFlagName, "", false, tokensFlagDescription)
	flagSet.StringVar(&flagValues.tokenizerModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.copyEnabled, copyFlagName, "", false, copyFlagDescription)
	flagSet.StringVar(&flagValues.configFilePath, configFlagName, "", configFlagDescription)
}

// resolveRunSettings merges configuration files with the provided flags.
// Precedence: built-in defaults, then configuration values, then flags the
// user explicitly set.
func resolveRunSettings(flagSet *pflag.FlagSet, flagValues *rootFlagValues, arguments []string) (runSettings, error) {
	rootPath := defaultPath
	if len(arguments) == 1 {
		rootPath = arguments[0]
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return runSettings{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	appConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flagValues.configFilePath,
	})
	if configurationError != nil {
		return runSettings{}, configurationError
	}

	settings := runSettings{
		rootPath:       rootPath,
		includeContent: resolveBooleanSetting(flagSet, contentFlagName, flagValues.includeContent, appConfiguration.Walk.IncludeContent),
		asciiGlyphs:    resolveBooleanSetting(flagSet, asciiFlagName, flagValues.asciiGlyphs, appConfiguration.Walk.ASCII),
		summaryEnabled: resolveBooleanSetting(flagSet, summaryFlagName, flagValues.summaryEnabled, appConfiguration.Walk.Summary),
		useStdout:      resolveBooleanSetting(flagSet, stdoutFlagName, flagValues.useStdout, appConfiguration.Output.Stdout),
		copyEnabled:    resolveBooleanSetting(flagSet, copyFlagName, flagValues.copyEnabled, appConfiguration.Output.Copy),
		tokensEnabled:  resolveBooleanSetting(flagSet, tokensFlagName, flagValues.tokensEnabled, appConfiguration.Tokens.Enabled),
	}

	resolvedMaxDepth := flagValues.maxDepth
	if !flagSet.Changed(maxDepthFlagName) && appConfiguration.Walk.MaxDepth != nil {
		resolvedMaxDepth = *appConfiguration.Walk.MaxDepth
	}
	if flagSet.Changed(maxDepthFlagName) && flagValues.maxDepth < 1 {
		return runSettings{}, fmt.Errorf(invalidMaxDepthMessageFormat, maxDepthFlagName, flagValues.maxDepth)
	}
	if resolvedMaxDepth < 0 {
		return runSettings{}, fmt.Errorf(invalidMaxDepthMessageFormat, maxDepthFlagName, resolvedMaxDepth)
	}
	settings.maxDepth = resolvedMaxDepth

	settings.outputFileName = utils.DefaultOutputFileName
	if appConfiguration.Output.FileName != "" {
		settings.outputFileName = appConfiguration.Output.FileName
	}

	settings.tokenizerModel = defaultTokenizerModelName
	if appConfiguration.Tokens.Model != "" {
		settings.tokenizerModel = appConfiguration.Tokens.Model
	}
	if flagSet.Changed(modelFlagName) {
		settings.tokenizerModel = flagValues.tokenizerModel
	}

	excludedNames, exclusionError := resolveExcludedNames(flagSet, flagValues, appConfiguration)
	if exclusionError != nil {
		return runSettings{}, exclusionError
	}
	settings.excludedNames = excludedNames

	return settings, nil
}

// resolveBooleanSetting applies flag precedence for one boolean option: an
// explicitly set flag wins, then a configuration value, then the flag default.
func resolveBooleanSetting(flagSet *pflag.FlagSet, flagName string, flagValue bool, configured *bool) bool {
	if flagSet.Changed(flagName) {
		return flagValue
	}
	if configured != nil {
		return *configured
	}
	return flagValue
}

// resolveExcludedNames assembles the exclusion set from the defaults, the
// configuration, the exclusion list file, and the repeatable flag.
func resolveExcludedNames(flagSet *pflag.FlagSet, flagValues *rootFlagValues, appConfiguration config.ApplicationConfiguration) ([]string, error) {
	var excludedNames []string
	if !resolveBooleanSetting(flagSet, noDefaultExcludesFlagName, flagValues.noDefaultExcludes, appConfiguration.Walk.NoDefaultExcludes) {
		excludedNames = append(excludedNames, walk.DefaultExcludedNames...)
	}
	excludedNames = append(excludedNames, appConfiguration.Walk.Exclude...)
	if flagValues.exclusionFilePath != "" {
		listedNames, listError := config.LoadExclusionNames(flagValues.exclusionFilePath)
		if listError != nil {
			return nil, fmt.Errorf(errorExclusionListFormat, flagValues.exclusionFilePath, listError)
		}
		excludedNames = append(excludedNames, listedNames...)
	}
	excludedNames = append(excludedNames, flagValues.exclusionNames...)
	return utils.DeduplicateNames(excludedNames), nil
}

// runFolderWalk validates the root, assembles the output pipeline, and streams
// the walk through it.
func runFolderWalk(settings runSettings) error {
	absoluteRootPath, absolutePathError := filepath.Abs(settings.rootPath)
	if absolutePathError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, settings.rootPath, absolutePathError)
	}
	absoluteRootPath = filepath.Clean(absoluteRootPath)
	if validationError := walk.ValidateRoot(absoluteRootPath); validationError != nil {
		return validationError
	}

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if settings.tokensEnabled {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: settings.tokenizerModel})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	var outputSink sink.Sink
	if settings.useStdout {
		outputSink = sink.NewStdoutSink(os.Stdout)
	} else {
		fileSink, sinkError := sink.NewFileSink(filepath.Join(absoluteRootPath, settings.outputFileName))
		if sinkError != nil {
			return sinkError
		}
		outputSink = fileSink
	}

	var destinationWriter io.Writer = outputSink
	var clipboardCapture *clipboard.Capture
	if settings.copyEnabled {
		clipboardCapture = &clipboard.Capture{}
		destinationWriter = io.MultiWriter(outputSink, clipboardCapture)
	}

	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	glyphs := output.UnicodeGlyphs
	if settings.asciiGlyphs {
		glyphs = output.ASCIIGlyphs
	}
	renderer := output.NewTreeStreamRenderer(destinationWriter, os.Stderr, output.Options{
		Glyphs:         glyphs,
		IncludeSummary: settings.summaryEnabled,
		ShowTokens:     settings.tokensEnabled,
		Model:          tokenModel,
	})

	walkOptions := walk.Options{
		Root:           absoluteRootPath,
		MaxDepth:       settings.maxDepth,
		IncludeContent: settings.includeContent,
		ExcludedNames:  settings.excludedNames,
		ExcludedPaths:  outputSink.ArtifactPaths(),
		TokenCounter:   tokenCounter,
		TokenModel:     tokenModel,
	}

	producer := func(streamContext context.Context, events chan<- stream.Event) error {
		return stream.StreamWalk(streamContext, walkOptions, events)
	}
	consumer := func(event stream.Event) error {
		return renderer.Handle(event)
	}

	if streamError := dispatchStream(context.Background(), producer, consumer); streamError != nil {
		outputSink.Abort()
		return streamError
	}
	if flushError := renderer.Flush(); flushError != nil {
		outputSink.Abort()
		return flushError
	}
	if closeError := outputSink.Close(); closeError != nil {
		return closeError
	}

	if clipboardCapture != nil {
		if copyError := clipboard.NewService().Copy(clipboardCapture.Text()); copyError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardCopyFormat, copyError)
		}
	}
	return nil
}

func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
