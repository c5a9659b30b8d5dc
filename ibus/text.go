package ibus

import (
	"unicode/utf8"

	"github.com/godbus/dbus/v5"
)

const (
	attrTypeUnderline = 1
	underlineSingle   = 1
)

type serializedText struct {
	TypeName    string
	Attachments map[string]dbus.Variant
	Text        string
	AttrList    dbus.Variant
}

type serializedAttrList struct {
	TypeName    string
	Attachments map[string]dbus.Variant
	Attributes  []dbus.Variant
}

type serializedAttribute struct {
	TypeName    string
	Attachments map[string]dbus.Variant
	Type        uint32
	Value       uint32
	StartIndex  uint32
	EndIndex    uint32
}

// textVariant builds the IBusText value for a commit or preedit signal.
// When underline is set, a single-underline attribute spans the whole
// string so targets without surrounding-text support can still tell the
// preview apart from committed text.
func textVariant(text string, underline bool) dbus.Variant {
	var attrs []dbus.Variant
	if underline {
		attrs = append(attrs, dbus.MakeVariant(serializedAttribute{
			TypeName:    "IBusAttribute",
			Attachments: map[string]dbus.Variant{},
			Type:        attrTypeUnderline,
			Value:       underlineSingle,
			StartIndex:  0,
			EndIndex:    uint32(utf8.RuneCountInString(text)),
		}))
	}
	return dbus.MakeVariant(serializedText{
		TypeName:    "IBusText",
		Attachments: map[string]dbus.Variant{},
		Text:        text,
		AttrList: dbus.MakeVariant(serializedAttrList{
			TypeName:    "IBusAttrList",
			Attachments: map[string]dbus.Variant{},
			Attributes:  attrs,
		}),
	})
}

// textLength is the cursor position IBus expects: characters, not bytes.
func textLength(text string) uint32 {
	return uint32(utf8.RuneCountInString(text))
}
