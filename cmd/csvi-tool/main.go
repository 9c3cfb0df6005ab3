// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// csvi-tool is a command line front end for the csvi engine.
//
//	csvi-tool inspect  [-config file.toml] [-col n] <file>
//	csvi-tool convert  [-config file.toml] <in> <out.json|out.csv[.lz4]>
//	csvi-tool pack     [-config file.toml] <in.csv> <out.csvi>
//	csvi-tool unpack   [-config file.toml] <in.csvi> <out.csv>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/matrixorigin/csvi/pkg/archive"
	"github.com/matrixorigin/csvi/pkg/config"
	"github.com/matrixorigin/csvi/pkg/document"
	"github.com/matrixorigin/csvi/pkg/logutil"
	"github.com/matrixorigin/csvi/pkg/profile"
	"github.com/panjf2000/ants/v2"
)

func usage() {
	fmt.Printf("usage: %s <inspect|convert|pack|unpack> [flags] <args>\n", os.Args[0])
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "inspect":
		err = runInspect(ctx, os.Args[2:])
	case "convert":
		err = runConvert(ctx, os.Args[2:])
	case "pack":
		err = runPack(ctx, os.Args[2:])
	case "unpack":
		err = runUnpack(ctx, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s failed: %v\n", os.Args[0], os.Args[1], err)
		os.Exit(1)
	}
}

// loadParams reads the optional config file and installs the global
// logger from it.
func loadParams(ctx context.Context, configFile string) (*config.EngineParameters, error) {
	params := &config.EngineParameters{}
	if configFile != "" {
		loaded, err := config.LoadEngineParameters(ctx, configFile)
		if err != nil {
			return nil, err
		}
		params = loaded
	}
	params.SetDefaultValues()
	logutil.SetupGlobalLogger(&params.Log)
	return params, nil
}

func runInspect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	configFile := fs.String("config", "", "engine configuration file")
	col := fs.Int("col", -1, "profile a single column instead of all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Printf("usage: %s inspect [-config file.toml] [-col n] <file>\n", os.Args[0])
		os.Exit(2)
	}

	params, err := loadParams(ctx, *configFile)
	if err != nil {
		return err
	}
	doc, err := document.Open(ctx, fs.Arg(0), params)
	if err != nil {
		return err
	}
	defer doc.Close()

	fmt.Printf("file:    %s\n", fs.Arg(0))
	fmt.Printf("rows:    %d\n", doc.Rows())
	fmt.Printf("columns: %d\n", doc.Cols())
	fmt.Printf("header:  %s\n", strings.Join(doc.Headers(), ", "))
	fmt.Println()

	if *col >= 0 {
		p := doc.ProfileColumn(*col)
		if p == nil {
			return fmt.Errorf("column %d out of range", *col)
		}
		printProfile(p)
		return nil
	}

	for _, p := range profileAll(doc) {
		printProfile(p)
		fmt.Println()
	}
	return nil
}

// profileAll profiles every column concurrently on a bounded pool.
func profileAll(doc *document.Document) []*profile.ColumnProfile {
	numCols := doc.Cols()
	profiles := make([]*profile.ColumnProfile, numCols)

	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		// fall back to sequential profiling
		for i := 0; i < numCols; i++ {
			profiles[i] = doc.ProfileColumn(i)
		}
		return profiles
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < numCols; i++ {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			profiles[i] = doc.ProfileColumn(i)
		}); err != nil {
			profiles[i] = doc.ProfileColumn(i)
			wg.Done()
		}
	}
	wg.Wait()

	sort.Slice(profiles, func(a, b int) bool {
		return profiles[a].ColumnIndex < profiles[b].ColumnIndex
	})
	return profiles
}

func printProfile(p *profile.ColumnProfile) {
	fmt.Printf("column %d (%s)\n", p.ColumnIndex, p.Header)
	fmt.Printf("  type:   %s\n", p.DataType)
	unique := fmt.Sprintf("%d", p.UniqueCount)
	if p.UniqueIsEstimate {
		unique = "~" + unique
	}
	fmt.Printf("  values: %d total, %d null (%.1f%%), %s unique\n",
		p.TotalCount, p.NullCount, p.NullPercentage(), unique)
	if p.Numeric != nil {
		fmt.Printf("  stats:  min=%g max=%g mean=%g stddev=%g\n",
			p.Numeric.Min, p.Numeric.Max, p.Numeric.Mean, p.Numeric.StdDev)
	}
	for _, vc := range p.TopValues {
		fmt.Printf("  top:    %q x%d\n", vc.Value, vc.Count)
	}
}

func runConvert(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	configFile := fs.String("config", "", "engine configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fmt.Printf("usage: %s convert [-config file.toml] <in> <out.json|out.csv[.lz4]>\n", os.Args[0])
		os.Exit(2)
	}

	params, err := loadParams(ctx, *configFile)
	if err != nil {
		return err
	}
	doc, err := document.Open(ctx, fs.Arg(0), params)
	if err != nil {
		return err
	}
	defer doc.Close()

	out := fs.Arg(1)
	if strings.HasSuffix(strings.ToLower(out), ".json") {
		return doc.ExportJSON(ctx, out)
	}
	return doc.ExportCSV(ctx, out)
}

func runPack(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	configFile := fs.String("config", "", "engine configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fmt.Printf("usage: %s pack [-config file.toml] <in.csv> <out.csvi>\n", os.Args[0])
		os.Exit(2)
	}

	params, err := loadParams(ctx, *configFile)
	if err != nil {
		return err
	}
	doc, err := document.Open(ctx, fs.Arg(0), params)
	if err != nil {
		return err
	}
	defer doc.Close()

	return doc.SaveArchive(ctx, fs.Arg(1))
}

func runUnpack(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)
	configFile := fs.String("config", "", "engine configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fmt.Printf("usage: %s unpack [-config file.toml] <in.csvi> <out.csv>\n", os.Args[0])
		os.Exit(2)
	}

	params, err := loadParams(ctx, *configFile)
	if err != nil {
		return err
	}
	in := fs.Arg(0)
	if !archive.IsArchivePath(in) {
		return fmt.Errorf("%s is not a csvi archive", in)
	}
	doc, err := document.Open(ctx, in, params)
	if err != nil {
		return err
	}
	defer doc.Close()

	return doc.ExportCSV(ctx, fs.Arg(1))
}
