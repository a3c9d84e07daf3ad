package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	log "github.com/vine-io/vine/lib/logger"
)

const (
	extBPMN = ".bpmn"
	extJSON = ".json"
)

type conversion struct {
	Source   string
	Target   string
	Warnings int
	Err      error
}

func newConvertCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "convert <dir>",
		Short: "Convert every .bpmn file to .json and every .json file to .bpmn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = filepath.Join(args[0], "converted")
			}
			results, err := convertDir(args[0], out, cfg)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					log.Errorf("%s: %v", r.Source, r.Err)
					continue
				}
				log.Infof("%s -> %s (%d warnings)", r.Source, r.Target, r.Warnings)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "directory for converted files (default <dir>/converted)")
	cmd.Flags().Int("workers", 0, "number of parallel conversions")
	return cmd
}

// convertDir converts the files directly inside dir into out on a pool of
// cfg.Workers goroutines. Results follow the order of the file names.
func convertDir(dir, out string, c *Config) ([]*conversion, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(out, 0o755); err != nil {
		return nil, err
	}

	results := make([]*conversion, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != extBPMN && ext != extJSON {
			continue
		}
		target := extJSON
		if ext == extJSON {
			target = extBPMN
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		results = append(results, &conversion{
			Source: filepath.Join(dir, entry.Name()),
			Target: filepath.Join(out, stem+target),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Source < results[j].Source })

	pool, err := ants.NewPool(c.Workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	wg := sync.WaitGroup{}
	for _, r := range results {
		r := r
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			r.Warnings, r.Err = convertFile(r.Source, r.Target, c)
		})
		if err != nil {
			wg.Done()
			r.Err = err
		}
	}
	wg.Wait()

	return results, nil
}

func convertFile(source, target string, c *Config) (int, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return 0, err
	}

	var (
		encoded  []byte
		warnings int
	)
	if strings.EqualFold(filepath.Ext(source), extBPMN) {
		result, out, err := importGraph(data, c)
		if err != nil {
			return 0, err
		}
		encoded, warnings = out, len(result.Warnings)
	} else {
		text, ws, err := exportGraph(data, c)
		if err != nil {
			return 0, err
		}
		encoded, warnings = []byte(text), len(ws)
	}

	return warnings, os.WriteFile(target, encoded, 0o644)
}
