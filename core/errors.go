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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidEvent indicates an Event failed validation.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrEmptyProject indicates the project description is empty.
	ErrEmptyProject = errors.New("project description cannot be empty")

	// ErrEmptyActivity indicates the activity description is empty.
	ErrEmptyActivity = errors.New("activity description cannot be empty")

	// ErrEmptySubject indicates the event subject is empty.
	ErrEmptySubject = errors.New("event subject cannot be empty")

	// ErrInvalidTimeRange indicates the event ends before it starts.
	ErrInvalidTimeRange = errors.New("event end precedes start")

	// ErrMalformedLabel indicates a persisted cell label could not be parsed.
	ErrMalformedLabel = errors.New("malformed cell label")
)
