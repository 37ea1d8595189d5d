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

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ProjectDescription must not be empty (it is half of the index key)
//   - ActivityDescription must not be empty (the other half)
//
// NOT validated:
//   - ProjectDefinition and Comment (free text, may legitimately be empty)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ProjectDescription == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyProject)
	}

	if doc.ActivityDescription == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyActivity)
	}

	return nil
}

// ValidateEvent validates an Event according to domain rules.
//
// Validation rules:
//   - Subject must not be empty (the title half of the query)
//   - End must not precede Start
//
// NOT validated:
//   - Body (an event without a description is still classifiable)
//   - Occurrences (non-recurring events carry a single date or none)
func ValidateEvent(event *Event) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}

	if event.Subject == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptySubject)
	}

	if event.End.Before(event.Start) {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrInvalidTimeRange)
	}

	return nil
}
