// Copyright 2017 Tomas Machalek <tomas.machalek@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"logsentry/config"
	"logsentry/load"

	"github.com/rs/zerolog/log"
)

var (
	version   string
	buildDate string
	gitCommit string
)

func help(topic string) {
	if topic == "" {
		fmt.Printf(
			"Missing action to help with. Select one of the:\n\t%s\n",
			strings.Join([]string{config.ActionBatch, config.ActionVersion}, ", "),
		)
		return
	}
	fmt.Printf("\n[%s]\n\n", topic)
	switch topic {
	case config.ActionBatch:
		fmt.Println(helpTexts[0])
	case config.ActionVersion:
		fmt.Println(helpTexts[1])
	default:
		fmt.Println("- no information available -")
	}
	fmt.Println()
}

func setup(confPath string, options *ProcessOptions) (*config.Main, *os.File) {
	if confPath == "" {
		log.Fatal().Msg("config path not specified")
	}
	conf, err := config.Load(confPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if options.inputPath != "" {
		conf.InputPath = options.inputPath
	}
	if err := config.Validate(conf); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logf, err := config.SetupLogging(conf.LogPath, conf.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup logging")
	}
	return conf, logf
}

// runErrorToExitCode reports a possible run error in a way
// which distinguishes missing input from other failures.
func runErrorToExitCode(conf *config.Main, err error) int {
	if errors.Is(err, load.ErrInputNotFound) {
		log.Error().Err(err).Str("inputPath", conf.InputPath).Msg("input log file not found")
		fmt.Fprintf(os.Stderr, "Input file not found: %s\n", conf.InputPath)
		return 2

	} else if err != nil {
		log.Error().Err(err).Msg("failed to run batch action")
		fmt.Fprintf(os.Stderr, "An unexpected error occurred: %s\n", err)
		return 1
	}
	return 0
}

func main() {
	options := new(ProcessOptions)
	flag.StringVar(&options.inputPath, "input", "", "Access log file to process (overrides inputPath from config)")
	flag.BoolVar(&options.dryRun, "dry-run", false, "Print the report to stdout, do not write files or send notifications")
	flag.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Logsentry - a utility for detecting suspicious clients in web server access logs\n\n"+
				"Usage:\n\t%s [options] [action] [config.json]\n\nAvailable actions:\n\t%s\n\nOptions:\n",
			filepath.Base(os.Args[0]),
			strings.Join([]string{config.ActionBatch, config.ActionHelp, config.ActionVersion}, ", "),
		)
		flag.PrintDefaults()
	}
	flag.Parse()
	action := flag.Arg(0)

	switch action {
	case config.ActionHelp:
		help(flag.Arg(1))
	case config.ActionVersion:
		fmt.Printf("logsentry %s\nbuild date: %s\nlast commit: %s\n", version, buildDate, gitCommit)
	case config.ActionBatch:
		conf, logf := setup(flag.Arg(1), options)
		exitCode := runErrorToExitCode(conf, runBatchAction(conf, options))
		if logf != nil {
			logf.Close()
		}
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	default:
		fmt.Printf("Unknown action [%s]. Try -h for help\n", flag.Arg(0))
		os.Exit(1)
	}
}
