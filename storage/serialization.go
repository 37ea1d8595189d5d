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


package storage

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/worklens/worklens/core"
)

// MUS serializers for the persisted record types. Field order is the wire
// format; changing it breaks stored data.
var (
	// IDMUS serializes core.ID values.
	IDMUS = idMUS{}
	// TimeMUS serializes timestamps with microsecond precision.
	TimeMUS = timeMUS{}
	// PredictionMUS serializes core.Prediction values.
	PredictionMUS = predictionMUS{}
	// EventMUS serializes core.Event values.
	EventMUS = eventMUS{}
	// ResultMUS serializes core.Result values.
	ResultMUS = resultMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idMUS) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeMUS) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

type predictionMUS struct{}

func (predictionMUS) Marshal(p core.Prediction, bs []byte) int {
	n := ord.String.Marshal(p.ProjectDescription, bs)
	n += ord.String.Marshal(p.ProjectActivity, bs[n:])
	n += raw.Float64.Marshal(p.KeywordScore, bs[n:])
	n += raw.Float64.Marshal(p.VectorScore, bs[n:])
	n += raw.Float64.Marshal(p.FusedScore, bs[n:])
	return n
}

func (predictionMUS) Unmarshal(bs []byte) (p core.Prediction, n int, err error) {
	var n1 int
	p.ProjectDescription, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	p.ProjectActivity, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.KeywordScore, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.VectorScore, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.FusedScore, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (predictionMUS) Size(p core.Prediction) int {
	return ord.String.Size(p.ProjectDescription) +
		ord.String.Size(p.ProjectActivity) +
		raw.Float64.Size(p.KeywordScore) +
		raw.Float64.Size(p.VectorScore) +
		raw.Float64.Size(p.FusedScore)
}

type eventMUS struct{}

func (eventMUS) Marshal(e core.Event, bs []byte) int {
	n := ord.String.Marshal(e.Id, bs)
	n += ord.String.Marshal(e.ICalUID, bs[n:])
	n += ord.String.Marshal(e.Subject, bs[n:])
	n += ord.String.Marshal(e.Body, bs[n:])
	n += TimeMUS.Marshal(e.Start, bs[n:])
	n += TimeMUS.Marshal(e.End, bs[n:])
	n += varint.PositiveInt.Marshal(len(e.Occurrences), bs[n:])
	for _, occurrence := range e.Occurrences {
		n += TimeMUS.Marshal(occurrence, bs[n:])
	}
	return n
}

func (eventMUS) Unmarshal(bs []byte) (e core.Event, n int, err error) {
	var n1 int
	e.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	e.ICalUID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Subject, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Body, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Start, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.End, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > 0 {
		e.Occurrences = make([]time.Time, count)
		for i := 0; i < count; i++ {
			e.Occurrences[i], n1, err = TimeMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	return
}

func (eventMUS) Size(e core.Event) int {
	size := ord.String.Size(e.Id) +
		ord.String.Size(e.ICalUID) +
		ord.String.Size(e.Subject) +
		ord.String.Size(e.Body) +
		TimeMUS.Size(e.Start) +
		TimeMUS.Size(e.End) +
		varint.PositiveInt.Size(len(e.Occurrences))
	for _, occurrence := range e.Occurrences {
		size += TimeMUS.Size(occurrence)
	}
	return size
}

type resultMUS struct{}

func (resultMUS) Marshal(r core.Result, bs []byte) int {
	n := IDMUS.Marshal(r.Id, bs)
	n += EventMUS.Marshal(r.Event, bs[n:])
	n += PredictionMUS.Marshal(r.Prediction, bs[n:])
	n += TimeMUS.Marshal(r.InsertedAt, bs[n:])
	return n
}

func (resultMUS) Unmarshal(bs []byte) (r core.Result, n int, err error) {
	var n1 int
	r.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Event, n1, err = EventMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Prediction, n1, err = PredictionMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.InsertedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (resultMUS) Size(r core.Result) int {
	return IDMUS.Size(r.Id) +
		EventMUS.Size(r.Event) +
		PredictionMUS.Size(r.Prediction) +
		TimeMUS.Size(r.InsertedAt)
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalResult serializes a Result to bytes.
func MarshalResult(result *core.Result) []byte {
	buf := make([]byte, ResultMUS.Size(*result))
	ResultMUS.Marshal(*result, buf)
	return buf
}

// UnmarshalResult deserializes a Result from bytes.
func UnmarshalResult(data []byte) (*core.Result, error) {
	result, _, err := ResultMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
