package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStandard(t *testing.T) {
	s, err := ParseStandard("psp34")
	require.NoError(t, err)
	assert.Equal(t, PSP34, s)
	assert.Equal(t, "PSP34", s.String())

	_, err = ParseStandard("ERC20")
	assert.ErrorIs(t, err, ErrUnknownStandard)
}

func TestExternalCrate(t *testing.T) {
	assert.Equal(t, ExternalCrate{Name: "psp22-full", Version: "0.3.0"}, PSP22.ExternalCrate())
	assert.Equal(t, ExternalCrate{Name: "psp34-full", Version: "0.2.1"}, PSP34.ExternalCrate())
	assert.Equal(t, "psp22_full", PSP22.ExternalCrate().ImportName())
}

func TestExtensionKindNames(t *testing.T) {
	kinds := ExtensionKinds()
	require.Len(t, kinds, 11)
	for _, k := range kinds {
		got, err := ParseExtensionKind(k.String())
		require.NoError(t, err, k.String())
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "security/access_control", AccessControl.String())

	_, err := ParseExtensionKind("ownable")
	assert.ErrorIs(t, err, ErrUnknownExtension)
}

func TestOutputFiles(t *testing.T) {
	f, err := ParseOutputFile("Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, CargoFile, f)

	_, err = ParseOutputFile("main.rs")
	assert.ErrorIs(t, err, ErrUnknownFile)

	c := &Contract{}
	assert.Equal(t, AllFiles(), c.SelectedFiles())
	c.Files = []OutputFile{MainFile}
	assert.Equal(t, []OutputFile{MainFile}, c.SelectedFiles())
}

func TestContractMetadata(t *testing.T) {
	name := "Beaver"
	c := Contract{
		Standard:   PSP22,
		Metadata:   &TokenMetadata{Name: &name},
		Extensions: []string{Metadata.String()},
	}
	assert.Equal(t, "metadata", c.Extensions[0])
	assert.Equal(t, "Beaver", *c.Metadata.Name)
	assert.Nil(t, c.Metadata.Decimals)
}
