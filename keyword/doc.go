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


// Package keyword provides the lexical half of the hybrid classifier: a
// hierarchical inverted index of distinctive keywords per (project,
// activity) cell, built from historical timesheet documents.
//
// A search combines two additive signals:
//   - a fuzzy title prior, when the event title closely matches a known
//     project name
//   - a lexical overlap term, the fraction of a cell's keywords present
//     in the query
//
// Keywords common across many cells can be pruned after indexing so that
// generic vocabulary stops inflating every cell's score.
package keyword
