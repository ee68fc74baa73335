// Package contract defines the vocabulary shared by the merge engine, the
// loader and the generator: token standards, extension kinds, output files
// and the generation request.
package contract

import (
	"fmt"
	"strings"
)

// Standard is a token standard with a canonical base contract.
type Standard int

const (
	PSP22 Standard = iota
	PSP34
)

// Standards lists the supported standards in display order.
var Standards = []Standard{PSP22, PSP34}

func (s Standard) String() string {
	switch s {
	case PSP22:
		return "PSP22"
	case PSP34:
		return "PSP34"
	}
	return fmt.Sprintf("Standard(%d)", int(s))
}

// ParseStandard accepts the display name, case-insensitively.
func ParseStandard(s string) (Standard, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PSP22":
		return PSP22, nil
	case "PSP34":
		return PSP34, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStandard, s)
}

// ExternalCrate is the published crate that holds a standard's library
// files for single-file packaging.
type ExternalCrate struct {
	Name    string
	Version string
}

// ImportName is the crate name as written in a `use` path.
func (c ExternalCrate) ImportName() string {
	return strings.ReplaceAll(c.Name, "-", "_")
}

// ExternalCrate returns the crate that packages the standard.
func (s Standard) ExternalCrate() ExternalCrate {
	switch s {
	case PSP34:
		return ExternalCrate{Name: "psp34-full", Version: "0.2.1"}
	default:
		return ExternalCrate{Name: "psp22-full", Version: "0.3.0"}
	}
}

// ExtensionKind names one optional capability fragment.
type ExtensionKind int

const (
	Metadata ExtensionKind = iota
	Mintable
	Burnable
	Wrapper
	FlashMint
	Pausable
	Capped
	Batch
	Enumerable
	Ownable
	AccessControl
)

var kindNames = [...]string{
	Metadata:      "metadata",
	Mintable:      "mintable",
	Burnable:      "burnable",
	Wrapper:       "wrapper",
	FlashMint:     "flash_mint",
	Pausable:      "pausable",
	Capped:        "capped",
	Batch:         "batch",
	Enumerable:    "enumerable",
	Ownable:       "security/ownable",
	AccessControl: "security/access_control",
}

// ExtensionKinds lists every kind in declaration order.
func ExtensionKinds() []ExtensionKind {
	out := make([]ExtensionKind, len(kindNames))
	for i := range kindNames {
		out[i] = ExtensionKind(i)
	}
	return out
}

// String returns the extension name, which is also its path below
// `{standard}/extensions/`.
func (k ExtensionKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ExtensionKind(%d)", int(k))
}

// ParseExtensionKind maps an extension name to its kind.
func ParseExtensionKind(s string) (ExtensionKind, error) {
	for i, name := range kindNames {
		if name == s {
			return ExtensionKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownExtension, s)
}

// OutputFile is one file of a generated contract.
type OutputFile int

const (
	MainFile OutputFile = iota
	DataFile
	TraitsFile
	ErrorsFile
	CargoFile
)

var fileNames = [...]string{
	MainFile:   "lib.rs",
	DataFile:   "data.rs",
	TraitsFile: "traits.rs",
	ErrorsFile: "errors.rs",
	CargoFile:  "Cargo.toml",
}

// AllFiles returns every output file in emission order.
func AllFiles() []OutputFile {
	return []OutputFile{MainFile, DataFile, TraitsFile, ErrorsFile, CargoFile}
}

func (f OutputFile) String() string {
	if f >= 0 && int(f) < len(fileNames) {
		return fileNames[f]
	}
	return fmt.Sprintf("OutputFile(%d)", int(f))
}

// ParseOutputFile maps a file name such as "lib.rs" to its OutputFile.
func ParseOutputFile(s string) (OutputFile, error) {
	for i, name := range fileNames {
		if name == s {
			return OutputFile(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFile, s)
}

// TokenMetadata carries the token metadata a caller may supply. Nil fields are
// absent.
type TokenMetadata struct {
	Name     *string `yaml:"name,omitempty" json:"name,omitempty"`
	Symbol   *string `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	URI      *string `yaml:"uri,omitempty" json:"uri,omitempty"`
	Decimals *uint8  `yaml:"decimals,omitempty" json:"decimals,omitempty"`
}

// Contract is one generation request.
type Contract struct {
	Standard   Standard
	Metadata   *TokenMetadata
	Extensions []string
	// Files selects the emitted files; empty means all.
	Files   []OutputFile
	License string
	// SingleFile packages the contract as lib.rs plus Cargo.toml, importing
	// the standard's library from its external crate.
	SingleFile bool
}

// SelectedFiles returns Files, or every file when none were selected.
func (c *Contract) SelectedFiles() []OutputFile {
	if len(c.Files) == 0 {
		return AllFiles()
	}
	return c.Files
}
