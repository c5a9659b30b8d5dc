package ibus

import "github.com/godbus/dbus/v5"

// IBus marshals its GObject types as structs whose first two members are
// the type name and an attachment dict, followed by the type's own
// fields. The field order below mirrors ibuscomponent.c and
// ibusenginedesc.c; getting it wrong makes the daemon reject the
// registration with an opaque deserialization error.

type serializedComponent struct {
	TypeName      string
	Attachments   map[string]dbus.Variant
	Name          string
	Description   string
	Version       string
	License       string
	Author        string
	Homepage      string
	CommandLine   string
	Textdomain    string
	ObservedPaths []dbus.Variant
	Engines       []dbus.Variant
}

type serializedEngineDesc struct {
	TypeName      string
	Attachments   map[string]dbus.Variant
	Name          string
	Longname      string
	Description   string
	Language      string
	License       string
	Author        string
	Icon          string
	Layout        string
	Rank          uint32
	Hotkeys       string
	Symbol        string
	Setup         string
	LayoutVariant string
	LayoutOption  string
	Version       string
	Textdomain    string
}

func newComponent() serializedComponent {
	desc := serializedEngineDesc{
		TypeName:    "IBusEngineDesc",
		Attachments: map[string]dbus.Variant{},
		Name:        EngineName,
		Longname:    "Voz Voice Typing",
		Description: "Voice-to-text input via streaming transcription",
		Language:    "en",
		License:     "MIT",
		Author:      "voz",
		Icon:        "audio-input-microphone",
		Layout:      "us",
	}
	return serializedComponent{
		TypeName:    "IBusComponent",
		Attachments: map[string]dbus.Variant{},
		Name:        BusName,
		Description: "Voz voice typing input method",
		Version:     "1.0",
		License:     "MIT",
		Author:      "voz",
		Engines:     []dbus.Variant{dbus.MakeVariant(desc)},
	}
}
