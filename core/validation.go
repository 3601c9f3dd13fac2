// Copyright 2025 AICam Authors
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

// ValidateProcess checks the Process invariant: every process must carry a
// template id and resolve to exactly one feature, one stage, and one type.
//
// NOT validated (intentional):
//   - Allowance (zero is a legal allowance)
//   - Surface columns (may be blank in source data)
func ValidateProcess(p *Process) error {
	if p == nil {
		return fmt.Errorf("%w: process is nil", ErrSchemaViolation)
	}
	if p.TemplateID == "" {
		return fmt.Errorf("%w: process template id is empty", ErrSchemaViolation)
	}
	if p.FeatureKey == 0 {
		return fmt.Errorf("%w: process %s has no feature", ErrSchemaViolation, p.TemplateID)
	}
	if p.Stage == "" {
		return fmt.Errorf("%w: process %s has no stage", ErrSchemaViolation, p.TemplateID)
	}
	if p.Type == "" {
		return fmt.Errorf("%w: process %s has no type", ErrSchemaViolation, p.TemplateID)
	}
	return nil
}

// ValidateTool checks that a Tool carries an id and physically plausible
// dimensions.
func ValidateTool(t *Tool) error {
	if t == nil {
		return fmt.Errorf("%w: tool is nil", ErrSchemaViolation)
	}
	if t.ID == "" {
		return fmt.Errorf("%w: tool id is empty", ErrSchemaViolation)
	}
	if t.DiameterMM <= 0 {
		return fmt.Errorf("%w: tool %s diameter must be positive", ErrSchemaViolation, t.ID)
	}
	if t.FluteCount < 1 {
		return fmt.Errorf("%w: tool %s flute count must be at least 1", ErrSchemaViolation, t.ID)
	}
	if t.StickoutMM < 0 || t.CornerRadiusMM < 0 {
		return fmt.Errorf("%w: tool %s dimensions cannot be negative", ErrSchemaViolation, t.ID)
	}
	return nil
}

// ValidateFeature checks that a Feature carries a name.
func ValidateFeature(f *Feature) error {
	if f == nil {
		return fmt.Errorf("%w: feature is nil", ErrSchemaViolation)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: feature name is empty", ErrSchemaViolation)
	}
	return nil
}
