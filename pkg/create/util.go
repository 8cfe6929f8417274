// Copyright © 2021 Rak Laptudirm <raklaptudirm@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package create

import (
	"fmt"
	"strings"
)

// UsageError reports contradictory or invalid inputs to a Builder,
// caught before any hashing begins.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("create: usage error: %s", e.msg)
}

func newUsageError(msg string) *UsageError {
	return &UsageError{msg: msg}
}

func containsSlash(p string) bool {
	return strings.Contains(p, "/")
}

func splitRelPath(p string) []string {
	return strings.Split(p, "/")
}

func baseName(p string) string {
	parts := strings.Split(p, "/")
	return parts[len(parts)-1]
}
