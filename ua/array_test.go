// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua_test

import (
	"testing"

	"github.com/awcullen/uatypes/ua"
	"gotest.tools/assert"
)

func TestNewArray(t *testing.T) {
	empty := ua.NewArray(0, ua.TypeString).([]string)
	assert.Assert(t, empty != nil)
	assert.Equal(t, len(empty), 0)

	pts := ua.NewArray(3, typePoint).([]point)
	assert.DeepEqual(t, pts, []point{{}, {}, {}})
}

func TestCopyArray(t *testing.T) {
	src := []ua.LocalizedText{ua.NewLocalizedText("a", "en"), ua.NewLocalizedText("b", "de")}
	dst, err := ua.CopyArray(src, ua.TypeLocalizedText)
	assert.NilError(t, err)
	assert.DeepEqual(t, dst, src)

	undefined, err := ua.CopyArray([]int32(nil), ua.TypeInt32)
	assert.NilError(t, err)
	assert.Assert(t, undefined.([]int32) == nil)

	_, err = ua.CopyArray([]int32{1}, ua.TypeString)
	assert.Equal(t, err, ua.BadTypeMismatch)
}

func TestResizeArray(t *testing.T) {
	var s []string
	assert.NilError(t, ua.ResizeArray(&s, 0, ua.TypeString))
	assert.Assert(t, s != nil)

	assert.NilError(t, ua.ResizeArray(&s, 2, ua.TypeString))
	s[0], s[1] = "a", "b"
	assert.NilError(t, ua.ResizeArray(&s, 3, ua.TypeString))
	assert.DeepEqual(t, s, []string{"a", "b", ""})
	assert.NilError(t, ua.ResizeArray(&s, 1, ua.TypeString))
	assert.DeepEqual(t, s, []string{"a"})

	assert.Equal(t, ua.ResizeArray(&s, -1, ua.TypeString), ua.BadInvalidArgument)
	assert.Equal(t, ua.ResizeArray(s, 1, ua.TypeString), ua.BadInvalidArgument)
}

func TestAppendArray(t *testing.T) {
	var s []record
	elem := record{ID: 1, Labels: []string{"x"}}
	assert.NilError(t, ua.AppendArray(&s, &elem, typeRecord))
	assert.Equal(t, len(s), 1)
	assert.DeepEqual(t, s[0].Labels, []string{"x"})
	// moved
	assert.Assert(t, elem.Labels == nil)

	elem = record{ID: 2, Scale: float64Ptr(1)}
	assert.NilError(t, ua.AppendArrayCopy(&s, &elem, typeRecord))
	assert.Equal(t, len(s), 2)
	assert.Assert(t, s[1].Scale != elem.Scale)
	assert.Equal(t, *s[1].Scale, 1.0)

	p := point{}
	assert.Equal(t, ua.AppendArray(&s, &p, typeRecord), ua.BadTypeMismatch)

	ua.ClearArray(&s, typeRecord)
	assert.Assert(t, s == nil)
}
