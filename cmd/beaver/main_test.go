package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"smartbeaver/internal/config"
	"smartbeaver/internal/contract"
	"smartbeaver/internal/generator"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContracts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"PSP22/lib.rs": `#[ink::contract]
mod token {
    #[ink(storage)]
    pub struct Token {
        balance: u128,
    }

    impl Token {
        #[ink(constructor)]
        pub fn new() -> Self {
            Self { balance: 0 }
        }
    }
}
`,
		"PSP22/extensions/mintable.trs": `#[smart_beaver::extension]
mod mintable {
    impl Token {
        #[ink(message)]
        pub fn mint(&mut self, value: u128) {
            self.balance += value;
        }
    }
}
`,
		"PSP22/data.rs":    "pub struct Data;\n",
		"PSP22/traits.rs":  "pub trait PSP22 {}\n",
		"PSP22/errors.rs":  "pub enum PSP22Error {}\n",
		"PSP22/Cargo.toml": "[package]\nname = \"token\"\n\n[features]\nstd = []\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "beaver.yaml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCmd(t *testing.T) {
	contracts := writeContracts(t)
	outDir := t.TempDir()

	out, err := execute(t, "generate", "--contracts", contracts, "-e", "mintable", "-o", outDir, "--license", "Apache-2.0")
	require.NoError(t, err, out)
	assert.Contains(t, out, "wrote "+filepath.Join(outDir, "src", "lib.rs"))

	lib, err := os.ReadFile(filepath.Join(outDir, "src", "lib.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(lib), "pub fn mint(&mut self, value: u128) {")

	cargo, err := os.ReadFile(filepath.Join(outDir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(cargo), "Apache-2.0")
	assert.Contains(t, string(cargo), "psp22-full/std")
}

func TestGenerateCmdUnknownExtension(t *testing.T) {
	contracts := writeContracts(t)
	_, err := execute(t, "generate", "--contracts", contracts, "-e", "teleport", "-o", t.TempDir())
	assert.ErrorIs(t, err, contract.ErrUnknownExtension)
}

func TestExtensionsCmd(t *testing.T) {
	out, err := execute(t, "extensions", "-s", "psp34")
	require.NoError(t, err)
	assert.Contains(t, out, "EXTENSION")
	assert.Contains(t, out, "PSP34/extensions/security/ownable.trs")
	assert.Contains(t, out, "flash_mint")
}

func TestContractFromFlags(t *testing.T) {
	cfg = config.DefaultConfig()
	cmd := &cobra.Command{}
	addContractFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{"-s", "psp34", "-e", "security/ownable,mintable", "--name", "Beaver", "--decimals", "18", "--files", "lib.rs,Cargo.toml"}))

	c, err := contractFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, contract.PSP34, c.Standard)
	assert.Equal(t, []string{"security/ownable", "mintable"}, c.Extensions)
	assert.Equal(t, []contract.OutputFile{contract.MainFile, contract.CargoFile}, c.Files)
	assert.Equal(t, "MIT", c.License)
	require.NotNil(t, c.Metadata)
	assert.Equal(t, "Beaver", *c.Metadata.Name)
	assert.Equal(t, uint8(18), *c.Metadata.Decimals)
	assert.Nil(t, c.Metadata.Symbol)

	cmd = &cobra.Command{}
	addContractFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(nil))
	c, err = contractFromFlags(cmd)
	require.NoError(t, err)
	assert.Nil(t, c.Metadata, "no metadata flags, no metadata")

	cmd = &cobra.Command{}
	addContractFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{"--files", "main.go"}))
	_, err = contractFromFlags(cmd)
	assert.ErrorIs(t, err, contract.ErrUnknownFile)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	paths, err := writeFiles(dir, []generator.File{
		{Name: "lib.rs", Content: "mod a {}\n"},
		{Name: "Cargo.toml", Content: "[package]\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "src", "lib.rs"), filepath.Join(dir, "Cargo.toml")}, paths)
	assert.FileExists(t, filepath.Join(dir, "src", "lib.rs"))
}
