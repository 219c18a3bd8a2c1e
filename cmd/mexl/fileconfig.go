// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mexlang/mexl/config"
)

// fileConfig is the YAML configuration file shape:
//
//	digits: 336
//	prompt: ">> "
//	aliases:
//	  log: "^(ln|log)$"
type fileConfig struct {
	Digits  int               `yaml:"digits"`
	Prompt  string            `yaml:"prompt"`
	Aliases map[string]string `yaml:"aliases"`
}

// loadFileConfig reads the configuration file. An explicit path must
// exist; the default location is optional.
func loadFileConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return &fileConfig{}, nil
		}
		path = filepath.Join(home, ".mexl.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &fileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	fc := &fileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return fc, nil
}

func (fc *fileConfig) apply(conf *config.Config) {
	if fc.Digits > 0 {
		conf.SetDigits(fc.Digits)
	}
	if fc.Prompt != "" {
		conf.SetPrompt(fc.Prompt)
	}
}
