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


// Package storage persists the fitted indices and the classification
// results.
//
// Index persistence is file based. The keyword index saves as a JSON
// mapping of project to activity to sorted keyword list. The vector index
// saves as a binary blob (dimension, count, raw float32 values in the MUS
// format) with a JSON sidecar of cell labels; the two files are written and
// validated together, and a count mismatch on load fails rather than
// producing a partial index. A loaded index reproduces the exact search
// results of the index that was saved.
//
// Result persistence lives in the badger sub-package behind the
// ResultRepository interface. Stored values use the MUS serializers defined
// here.
//
// All repository implementations must be thread-safe and accept a
// context.Context for cancellation.
package storage
