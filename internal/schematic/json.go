/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schematic

import (
	"encoding/json"
	"fmt"
)

// componentEnvelope tags a serialized component with its variant.
type componentEnvelope struct {
	Type      string     `json:"type"`
	Primitive *Primitive `json:"primitive,omitempty"`
	Unit      *Unit      `json:"unit,omitempty"`
	TextField *TextField `json:"text_field,omitempty"`
}

const (
	typePrimitive = "primitive"
	typeUnit      = "unit"
	typeTextField = "text_field"
)

// MarshalComponent serializes a component into its tagged envelope.
func MarshalComponent(c Component) ([]byte, error) {
	var env componentEnvelope
	switch v := c.(type) {
	case *Primitive:
		env = componentEnvelope{Type: typePrimitive, Primitive: v}
	case *Unit:
		env = componentEnvelope{Type: typeUnit, Unit: v}
	case *TextField:
		env = componentEnvelope{Type: typeTextField, TextField: v}
	default:
		return nil, fmt.Errorf("unsupported component %T", c)
	}
	return json.Marshal(env)
}

// UnmarshalComponent restores a component from its tagged envelope.
func UnmarshalComponent(data []byte) (Component, error) {
	var env componentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Type {
	case typePrimitive:
		if env.Primitive == nil {
			return nil, fmt.Errorf("component envelope %q has no payload", env.Type)
		}
		return env.Primitive, nil
	case typeUnit:
		if env.Unit == nil {
			return nil, fmt.Errorf("component envelope %q has no payload", env.Type)
		}
		if env.Unit.Ports == nil {
			env.Unit.Ports = []Port{}
		}
		return env.Unit, nil
	case typeTextField:
		if env.TextField == nil {
			return nil, fmt.Errorf("component envelope %q has no payload", env.Type)
		}
		return env.TextField, nil
	}
	return nil, fmt.Errorf("unknown component type %q", env.Type)
}
