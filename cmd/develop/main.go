package main

import (
	"log"

	"github.com/snyk/go-application-framework/pkg/devtools"

	"github.com/delphilint/cli-extension-sonar-rules/pkg/sonarrules"
)

func main() {
	cmd, err := devtools.Cmd(sonarrules.Init)
	if err != nil {
		log.Fatal(err)
	}
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
