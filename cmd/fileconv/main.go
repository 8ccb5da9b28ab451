// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	fileconv "github.com/nicholasgasior/fileconv-go"
)

var version = "dev"

func main() {
	var (
		target        string
		output        string
		category      string
		delimiter     string
		sheet         string
		charset       string
		styleTemplate string
		imageQuality  int
		timeout       time.Duration
		workers       int
		checkDeps     bool
		verbose       bool
		showVersion   bool
	)

	flag.StringVar(&target, "t", "", "Target format (required)")
	flag.StringVar(&target, "to", "", "Target format (required)")
	flag.StringVar(&output, "o", "", "Output file (single input only; default: next to input)")
	flag.StringVar(&output, "output", "", "Output file (single input only; default: next to input)")
	flag.StringVar(&category, "category", "", "Category override: document, presentation, or spreadsheet")
	flag.StringVar(&delimiter, "delimiter", "", "Field delimiter for csv/tsv conversion")
	flag.StringVar(&sheet, "sheet", "", "Sheet name for spreadsheet conversion")
	flag.StringVar(&charset, "encoding", "", "Charset of text inputs")
	flag.StringVar(&styleTemplate, "style-template", "", "Reference document for docx/pptx output styling")
	flag.IntVar(&imageQuality, "image-quality", 0, "JPEG quality 1-100 for image output")
	flag.DurationVar(&timeout, "timeout", fileconv.DefaultTimeout, "Per-file tool timeout")
	flag.IntVar(&workers, "workers", 0, "Batch worker count (default: CPU count)")
	flag.BoolVar(&checkDeps, "check", false, "Check external tool availability and exit")
	flag.BoolVar(&verbose, "verbose", false, "Log every job, not just failures")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fileconv -t <format> [flags] <file> [file...]\n\n")
		fmt.Fprintf(os.Stderr, "Convert documents, presentations, and spreadsheets between formats.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("fileconv %s\n", version)
		os.Exit(0)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	engine := fileconv.New(
		fileconv.WithLogger(logger),
		fileconv.WithTimeout(timeout),
		fileconv.WithWorkers(workers),
	)

	if checkDeps {
		code := 0
		for tool, err := range engine.CheckDependencies() {
			if err != nil {
				fmt.Printf("%-12s missing (%v)\n", tool, err)
				code = 1
			} else {
				fmt.Printf("%-12s ok\n", tool)
			}
		}
		os.Exit(code)
	}

	targetFormat, ok := fileconv.ParseFormat(target)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown or missing target format %q\n", target)
		flag.Usage()
		os.Exit(2)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		flag.Usage()
		os.Exit(2)
	}
	if output != "" && len(inputs) > 1 {
		fmt.Fprintln(os.Stderr, "Error: -o is only valid with a single input file")
		os.Exit(2)
	}

	opts := fileconv.Options{}
	if delimiter != "" {
		opts[fileconv.OptDelimiter] = delimiter
	}
	if sheet != "" {
		opts[fileconv.OptSheetName] = sheet
	}
	if charset != "" {
		opts[fileconv.OptEncoding] = charset
	}
	if styleTemplate != "" {
		opts[fileconv.OptStyleTemplate] = styleTemplate
	}
	if imageQuality != 0 {
		opts[fileconv.OptImageQuality] = imageQuality
	}

	jobs := make([]fileconv.Job, 0, len(inputs))
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read %s: %v\n", path, err)
			os.Exit(1)
		}
		job := fileconv.Job{
			Filename: filepath.Base(path),
			Data:     data,
			Target:   targetFormat,
			Options:  opts,
		}
		if category != "" {
			job.Category = parseCategory(category)
			if job.Category == 0 {
				fmt.Fprintf(os.Stderr, "Error: unknown category %q\n", category)
				os.Exit(2)
			}
		}
		jobs = append(jobs, job)
	}

	results, summary := engine.ConvertAll(context.Background(), jobs)

	exitCode := 0
	for i, res := range results {
		if !res.Succeeded() {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", inputs[i], res.Err)
			exitCode = 1
			continue
		}
		dest := output
		if dest == "" {
			dest = filepath.Join(filepath.Dir(inputs[i]), res.OutputName)
		}
		if err := os.WriteFile(dest, res.Output, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: write %s: %v\n", dest, err)
			exitCode = 1
			continue
		}
		fmt.Printf("%s -> %s\n", inputs[i], dest)
	}

	if len(jobs) > 1 {
		fmt.Printf("%d converted, %d failed\n", summary.Succeeded, summary.Failed)
	}
	os.Exit(exitCode)
}

func parseCategory(s string) fileconv.Category {
	switch s {
	case "document":
		return fileconv.CategoryDocument
	case "presentation":
		return fileconv.CategoryPresentation
	case "spreadsheet":
		return fileconv.CategorySpreadsheet
	}
	return 0
}
