// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import (
	"fmt"
)

// LocalizedText pairs text and a Locale string.
type LocalizedText struct {
	Locale string
	Text   string
}

// NewLocalizedText constructs a LocalizedText from text and Locale string.
func NewLocalizedText(text, locale string) LocalizedText {
	return LocalizedText{Locale: locale, Text: text}
}

// Order orders by locale, then text.
func (a LocalizedText) Order(b LocalizedText) Order {
	if o := orderShortlex(a.Locale, b.Locale); o != OrderEq {
		return o
	}
	return orderShortlex(a.Text, b.Text)
}

func (a LocalizedText) copyWith(al Allocator) (LocalizedText, error) {
	locale, err := allocString(al, a.Locale)
	if err != nil {
		return LocalizedText{}, err
	}
	text, err := allocString(al, a.Text)
	if err != nil {
		freeString(al, locale)
		return LocalizedText{}, err
	}
	return LocalizedText{locale, text}, nil
}

func (a LocalizedText) clearWith(al Allocator) {
	freeString(al, a.Locale)
	freeString(al, a.Text)
}

// String returns the string representation, e.g. "text (locale)"
func (a LocalizedText) String() string {
	if a.Locale == "" {
		return a.Text
	}
	return fmt.Sprintf("%s (%s)", a.Text, a.Locale)
}
