package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/serp-visibility/internal/entity"
	"github.com/user/serp-visibility/internal/usecase"
)

// loadJob reads a YAML run description:
//
//	brand: Acme
//	mode: summary
//	features: [organic_results, ads]
//	keywords:
//	  - acme shoes
//	  - running shoes
func loadJob(path string) (usecase.RunRequest, error) {
	var req usecase.RunRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read job file: %w", err)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse job file %s: %w", path, err)
	}
	return req, nil
}

// readKeywords returns one keyword per non-blank line. Lines starting with # are skipped.
func readKeywords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read keywords: %w", err)
	}
	return out, nil
}

func readKeywordsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keywords file: %w", err)
	}
	defer f.Close()
	return readKeywords(f)
}

// mergeRequest layers flag values over a job file. Flags win for scalar fields and
// extend the keyword list.
func mergeRequest(job usecase.RunRequest, f runFlags, fileKeywords []string) usecase.RunRequest {
	req := job
	if f.brand != "" {
		req.Brand = f.brand
	}
	if f.mode != "" {
		req.Mode = entity.Mode(f.mode)
	}
	if len(f.features) > 0 {
		req.Features = f.features
	}
	req.Keywords = append(append(append([]string(nil), req.Keywords...), fileKeywords...), f.keywords...)
	return req
}
