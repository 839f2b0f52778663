// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
)

// decodeFile decodes the toml file into cfg and rejects any key that does not
// map to a Config field.
func decodeFile(path string, cfg *Config) error {
	metaData, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Annotatef(err, "decode config file %s failed", path)
	}
	undecoded := metaData.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, 0, len(undecoded))
	for _, key := range undecoded {
		keys = append(keys, key.String())
	}
	return errors.Errorf("config file %s contained unknown configuration options: %s",
		path, strings.Join(keys, ", "))
}
