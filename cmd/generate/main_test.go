package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/price-convert/internal/config"
	"github.com/rxtech-lab/price-convert/internal/version"
	"github.com/stretchr/testify/suite"
)

type GenerateCmdTestSuite struct {
	suite.Suite
	tempDir string
}

func TestGenerateCmdSuite(t *testing.T) {
	suite.Run(t, new(GenerateCmdTestSuite))
}

func (suite *GenerateCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.T().Chdir(suite.tempDir)
}

func (suite *GenerateCmdTestSuite) TestSchemaGeneration() {
	main()

	schemaPath := filepath.Join(suite.tempDir, "config", schemaName)
	suite.FileExists(schemaPath)

	content, err := os.ReadFile(schemaPath)
	suite.Require().NoError(err)

	var schema map[string]any
	suite.Require().NoError(json.Unmarshal(content, &schema))
	suite.Equal("price-convert-config", schema["title"])
}

func (suite *GenerateCmdTestSuite) TestSampleConfigGeneration() {
	main()

	sampleConfigPath := filepath.Join(suite.tempDir, "config", sampleName)
	content, err := os.ReadFile(sampleConfigPath)
	suite.Require().NoError(err)
	suite.Contains(string(content), "# yaml-language-server: $schema="+schemaName)

	cfg, err := config.Load(sampleConfigPath)
	suite.Require().NoError(err)
	suite.Equal(config.DefaultInput, cfg.Input)
	suite.Equal(config.DefaultOutput, cfg.Output)
	suite.Equal(version.GetVersion(), cfg.Version)
}

func (suite *GenerateCmdTestSuite) TestSampleConfigNotOverwritten() {
	main()

	sampleConfigPath := filepath.Join(suite.tempDir, "config", sampleName)
	suite.Require().NoError(os.WriteFile(sampleConfigPath, []byte("input: custom.csv\n"), 0644))

	main()

	content, err := os.ReadFile(sampleConfigPath)
	suite.Require().NoError(err)
	suite.Equal("input: custom.csv\n", string(content))
}

func (suite *GenerateCmdTestSuite) TestGenerateSchemaFileInvalidPath() {
	blocker := filepath.Join(suite.tempDir, "blocker")
	suite.Require().NoError(os.WriteFile(blocker, []byte("file"), 0644))

	err := generateSchemaFile(filepath.Join(blocker, "schema.json"))
	suite.Require().Error(err)
	suite.Contains(err.Error(), "failed to")
}

func (suite *GenerateCmdTestSuite) TestValidatePaths() {
	suite.NoError(validatePaths("/some/path/schema.json", "/some/path/config.yaml"))

	err := validatePaths("", "/some/path/config.yaml")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "schema path cannot be empty")

	err = validatePaths("/some/path/schema.json", "")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "sample config path cannot be empty")
}

func (suite *GenerateCmdTestSuite) TestValidateSchemaName() {
	suite.NoError(validateSchemaName("schema.json"))
	suite.NoError(validateSchemaName("my-schema-file.json"))

	err := validateSchemaName("")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "schema name cannot be empty")

	err = validateSchemaName("schema.txt")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "must have .json extension")
}

func (suite *GenerateCmdTestSuite) TestGetSchemaReference() {
	suite.Equal("# yaml-language-server: $schema=test-schema.json\n", getSchemaReference("test-schema.json"))
	suite.Equal("# yaml-language-server: $schema=\n", getSchemaReference(""))
}
