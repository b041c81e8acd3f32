package main

import (
	"fmt"

	"github.com/temirov/folderwalk/internal/cli"
	"github.com/temirov/folderwalk/internal/utils"
)

// main is the entry point for the folderwalk command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(fmt.Sprintf(utils.ErrorLogFormat, applicationExecutionError))
	}
}
