// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import (
	"time"
)

// DataValue holds the value, quality and timestamp. The Has flags tell which
// of the fields are present.
type DataValue struct {
	Value             Variant
	Status            StatusCode
	SourceTimestamp   time.Time
	ServerTimestamp   time.Time
	SourcePicoseconds uint16
	ServerPicoseconds uint16

	HasValue             bool
	HasStatus            bool
	HasSourceTimestamp   bool
	HasServerTimestamp   bool
	HasSourcePicoseconds bool
	HasServerPicoseconds bool
}

// NewDataValue returns a DataValue with value, status and timestamps. A zero
// timestamp and a Good status are left out.
func NewDataValue(value Variant, status StatusCode, sourceTimestamp, serverTimestamp time.Time) DataValue {
	return DataValue{
		Value:              value,
		Status:             status,
		SourceTimestamp:    sourceTimestamp,
		ServerTimestamp:    serverTimestamp,
		HasValue:           !value.IsEmpty(),
		HasStatus:          status != Good,
		HasSourceTimestamp: !sourceTimestamp.IsZero(),
		HasServerTimestamp: !serverTimestamp.IsZero(),
	}
}

// StatusCode returns the status, Good if none is present.
func (dv *DataValue) StatusCode() StatusCode {
	if !dv.HasStatus {
		return Good
	}
	return dv.Status
}

func (dv *DataValue) copyTo(dst *DataValue, a Allocator) error {
	*dst = *dv
	dst.Value = Variant{}
	return dv.Value.copyTo(&dst.Value, a)
}

func (dv *DataValue) clearWith(a Allocator) {
	dv.Value.clearWith(a)
	*dv = DataValue{}
}

// CopyRange copies the DataValue into dst with the value reduced to the range.
func (dv *DataValue) CopyRange(dst *DataValue, r NumericRange) error {
	out := *dv
	out.Value = Variant{}
	if dv.HasValue {
		if err := dv.Value.CopyRange(&out.Value, r); err != nil {
			return err
		}
	}
	*dst = out
	return nil
}

// Order orders the fields in their encoding order, absent before present.
func (dv *DataValue) Order(other *DataValue) Order {
	if o := orderBool(dv.HasValue, other.HasValue); o != OrderEq {
		return o
	}
	if dv.HasValue {
		if o := dv.Value.Order(&other.Value); o != OrderEq {
			return o
		}
	}
	if o := orderBool(dv.HasStatus, other.HasStatus); o != OrderEq {
		return o
	}
	if dv.HasStatus {
		if o := orderUint(uint64(dv.Status), uint64(other.Status)); o != OrderEq {
			return o
		}
	}
	if o := orderBool(dv.HasSourceTimestamp, other.HasSourceTimestamp); o != OrderEq {
		return o
	}
	if dv.HasSourceTimestamp {
		if o := Order(dv.SourceTimestamp.Compare(other.SourceTimestamp)); o != OrderEq {
			return o
		}
	}
	if o := orderBool(dv.HasSourcePicoseconds, other.HasSourcePicoseconds); o != OrderEq {
		return o
	}
	if dv.HasSourcePicoseconds {
		if o := orderUint(uint64(dv.SourcePicoseconds), uint64(other.SourcePicoseconds)); o != OrderEq {
			return o
		}
	}
	if o := orderBool(dv.HasServerTimestamp, other.HasServerTimestamp); o != OrderEq {
		return o
	}
	if dv.HasServerTimestamp {
		if o := Order(dv.ServerTimestamp.Compare(other.ServerTimestamp)); o != OrderEq {
			return o
		}
	}
	if o := orderBool(dv.HasServerPicoseconds, other.HasServerPicoseconds); o != OrderEq {
		return o
	}
	if dv.HasServerPicoseconds {
		return orderUint(uint64(dv.ServerPicoseconds), uint64(other.ServerPicoseconds))
	}
	return OrderEq
}
