package service

import (
	"net/url"
	"time"

	"webflash/internal/firmware"
)

// LogFilter supports audit log filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "MANIFEST_RELOAD", "FLASH_START", ...
	// Session keeps only flash events of one flasher session.
	Session string
}

// ParseResult is a parsed configuration plus its wizard-facing view.
type ParseResult struct {
	firmware.ConfigResult
	Wizard firmware.WizardConfiguration `json:"wizard"`
	// Preset names the catalog preset equal to the sanitized state, if any.
	Preset string `json:"preset,omitempty"`
}

// ResolveQuery is the input of a firmware lookup.
type ResolveQuery struct {
	Params  url.Values
	Channel string
	// Preset fills every field the params leave unset.
	Preset string
}

// BuildView is a build plus its download name.
type BuildView struct {
	firmware.Build
	FileName string `json:"file_name"`
}

// Resolution answers "which firmware fits this configuration".
type Resolution struct {
	Config           ParseResult                `json:"config"`
	Channel          string                     `json:"channel,omitempty"`
	Matches          []BuildView                `json:"matches"`
	Selected         *BuildView                 `json:"selected,omitempty"`
	ExactCombination bool                       `json:"exact_combination"`
	Availability     *firmware.BaseAvailability `json:"availability,omitempty"`
	ManifestVersion  string                     `json:"manifest_version,omitempty"`
}

// FlashRequest starts a simulated flash.
type FlashRequest struct {
	Params  url.Values
	Channel string
	Client  string
}

// AppliedPreset is a saved preset translated back into query parameters.
type AppliedPreset struct {
	State  firmware.SanitizedConfig `json:"state"`
	Name   string                   `json:"name"`
	Query  string                   `json:"query"`
	Config ParseResult              `json:"config"`
}
