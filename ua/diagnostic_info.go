// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import "reflect"

// DiagnosticInfo holds additional info regarding errors in service calls.
// The indices refer to the string table of the response header.
type DiagnosticInfo struct {
	SymbolicID          int32
	NamespaceURI        int32
	LocalizedText       int32
	Locale              int32
	AdditionalInfo      string
	InnerStatusCode     StatusCode
	InnerDiagnosticInfo *DiagnosticInfo

	HasSymbolicID          bool
	HasNamespaceURI        bool
	HasLocalizedText       bool
	HasLocale              bool
	HasAdditionalInfo      bool
	HasInnerStatusCode     bool
	HasInnerDiagnosticInfo bool
}

// NilDiagnosticInfo is the nil value.
var NilDiagnosticInfo = DiagnosticInfo{}

var diagnosticInfoType = reflect.TypeOf(DiagnosticInfo{})

func (d *DiagnosticInfo) copyTo(dst *DiagnosticInfo, a Allocator) error {
	*dst = *d
	dst.AdditionalInfo = ""
	dst.InnerDiagnosticInfo = nil
	s, err := allocString(a, d.AdditionalInfo)
	if err != nil {
		return err
	}
	dst.AdditionalInfo = s
	if d.InnerDiagnosticInfo == nil {
		return nil
	}
	p, err := allocNew(a, diagnosticInfoType)
	if err != nil {
		return err
	}
	dst.InnerDiagnosticInfo = p.Interface().(*DiagnosticInfo)
	return d.InnerDiagnosticInfo.copyTo(dst.InnerDiagnosticInfo, a)
}

func (d *DiagnosticInfo) clearWith(a Allocator) {
	freeString(a, d.AdditionalInfo)
	if d.InnerDiagnosticInfo != nil {
		d.InnerDiagnosticInfo.clearWith(a)
		a.Free(reflect.ValueOf(d.InnerDiagnosticInfo))
	}
	*d = DiagnosticInfo{}
}

// Order orders the fields in their encoding order, absent before present.
func (d *DiagnosticInfo) Order(other *DiagnosticInfo) Order {
	ints := []struct {
		has1, has2 bool
		v1, v2     int32
	}{
		{d.HasSymbolicID, other.HasSymbolicID, d.SymbolicID, other.SymbolicID},
		{d.HasNamespaceURI, other.HasNamespaceURI, d.NamespaceURI, other.NamespaceURI},
		{d.HasLocalizedText, other.HasLocalizedText, d.LocalizedText, other.LocalizedText},
		{d.HasLocale, other.HasLocale, d.Locale, other.Locale},
	}
	for _, f := range ints {
		if o := orderBool(f.has1, f.has2); o != OrderEq {
			return o
		}
		if f.has1 {
			if o := orderInt(int64(f.v1), int64(f.v2)); o != OrderEq {
				return o
			}
		}
	}
	if o := orderBool(d.HasAdditionalInfo, other.HasAdditionalInfo); o != OrderEq {
		return o
	}
	if d.HasAdditionalInfo {
		if o := orderShortlex(d.AdditionalInfo, other.AdditionalInfo); o != OrderEq {
			return o
		}
	}
	if o := orderBool(d.HasInnerStatusCode, other.HasInnerStatusCode); o != OrderEq {
		return o
	}
	if d.HasInnerStatusCode {
		if o := orderUint(uint64(d.InnerStatusCode), uint64(other.InnerStatusCode)); o != OrderEq {
			return o
		}
	}
	if o := orderBool(d.HasInnerDiagnosticInfo, other.HasInnerDiagnosticInfo); o != OrderEq {
		return o
	}
	if d.HasInnerDiagnosticInfo && d.InnerDiagnosticInfo != nil && other.InnerDiagnosticInfo != nil {
		return d.InnerDiagnosticInfo.Order(other.InnerDiagnosticInfo)
	}
	return OrderEq
}
