package main

import (
	"fmt"
	"os"

	"fjacquet/stmt-categorizer/cmd/batch"
	"fjacquet/stmt-categorizer/cmd/categorize"
	"fjacquet/stmt-categorizer/cmd/convert"
	"fjacquet/stmt-categorizer/cmd/override"
	"fjacquet/stmt-categorizer/cmd/root"
	"fjacquet/stmt-categorizer/internal/config"
	"fjacquet/stmt-categorizer/internal/logging"
)

func init() {
	// .env values must be in the environment before viper reads STMT_*
	config.LoadEnv(logging.NewDiscardLogger())

	root.Init()

	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(override.Cmd)
}

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
