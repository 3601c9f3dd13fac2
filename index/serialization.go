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


package index

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
)

// MUS serializers for the persisted unit format. The field order below is
// the wire format; changing it invalidates existing stores.
var (
	stringSliceMUS = ord.NewSliceSer[string](ord.String)
	vectorMUS      = ord.NewSliceSer[float32](raw.Float32)
	unitMUS        = unitSer{}
)

type unitSer struct{}

func (unitSer) Marshal(u Unit, bs []byte) (n int) {
	n = ord.String.Marshal(u.Key, bs)
	n += ord.String.Marshal(u.TemplateID, bs[n:])
	n += ord.String.Marshal(u.FeatureName, bs[n:])
	n += ord.String.Marshal(u.Stage, bs[n:])
	n += ord.String.Marshal(u.ProcessType, bs[n:])
	n += stringSliceMUS.Marshal(u.Tools, bs[n:])
	n += ord.String.Marshal(u.Text, bs[n:])
	n += stringSliceMUS.Marshal(u.Terms, bs[n:])
	n += vectorMUS.Marshal(u.Vector, bs[n:])
	return n
}

func (unitSer) Unmarshal(bs []byte) (u Unit, n int, err error) {
	var n1 int
	if u.Key, n, err = ord.String.Unmarshal(bs); err != nil {
		return u, n, err
	}
	if u.TemplateID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.FeatureName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Stage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.ProcessType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Tools, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Terms, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	return u, n + n1, nil
}

func (unitSer) Size(u Unit) (n int) {
	n = ord.String.Size(u.Key)
	n += ord.String.Size(u.TemplateID)
	n += ord.String.Size(u.FeatureName)
	n += ord.String.Size(u.Stage)
	n += ord.String.Size(u.ProcessType)
	n += stringSliceMUS.Size(u.Tools)
	n += ord.String.Size(u.Text)
	n += stringSliceMUS.Size(u.Terms)
	n += vectorMUS.Size(u.Vector)
	return n
}

// MarshalUnit serializes a Unit to bytes.
func MarshalUnit(u *Unit) []byte {
	buf := make([]byte, unitMUS.Size(*u))
	unitMUS.Marshal(*u, buf)
	return buf
}

// UnmarshalUnit deserializes a Unit from bytes.
func UnmarshalUnit(data []byte) (*Unit, error) {
	u, _, err := unitMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
