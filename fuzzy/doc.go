// Copyright 2026 Worklens Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package fuzzy provides approximate matching of noisy title strings
// against a catalog of known project names.
//
// Matching runs in two stages:
//   - a coarse TF-IDF cosine filter that narrows the catalog to a small
//     pool of nearest neighbors per query
//   - a fine re-rank of that pool with normalized edit-distance and
//     token-set similarity metrics
//
// The coarse stage keeps the expensive string metrics off the full
// catalog; comparing every query against every candidate directly would
// be quadratic in catalog size.
package fuzzy
