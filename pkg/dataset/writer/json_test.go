package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/price-convert/pkg/dataset"
	"github.com/rxtech-lab/price-convert/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type JSONWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestJSONWriterSuite(t *testing.T) {
	suite.Run(t, new(JSONWriterTestSuite))
}

func (suite *JSONWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func priceRow(date, closePrice, volume string) *dataset.Row {
	row := dataset.NewRow()
	row.Set("date", dataset.String(date))
	row.Set("close", dataset.Number(closePrice))
	row.Set("volume", dataset.Number(volume))

	return row
}

var priceColumns = []dataset.Column{
	{Name: "date", Kind: dataset.KindString},
	{Name: "close", Kind: dataset.KindNumber},
	{Name: "volume", Kind: dataset.KindNumber},
}

// tempFiles lists leftover temporary files in dir.
func tempFiles(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, ".*.tmp"))

	return matches
}

func (suite *JSONWriterTestSuite) TestNewJSONWriter() {
	outputPath := filepath.Join(suite.tempDir, "out.json")
	writer := NewJSONWriter(outputPath, 2)

	jsonWriter, ok := writer.(*JSONWriter)
	suite.True(ok)
	suite.Equal(outputPath, jsonWriter.GetOutputPath())
	suite.Equal("  ", jsonWriter.indent)
	suite.Nil(jsonWriter.file)
}

func (suite *JSONWriterTestSuite) TestWriteCompact() {
	outputPath := filepath.Join(suite.tempDir, "out.json")
	writer := NewJSONWriter(outputPath, 0)
	defer writer.Close()

	suite.Require().NoError(writer.Initialize(priceColumns))
	suite.Require().NoError(writer.Write(priceRow("2020-01-02", "104.0", "1000000")))
	suite.Require().NoError(writer.Write(priceRow("2020-01-03", "105.5", "1200000")))

	path, err := writer.Finalize()
	suite.Require().NoError(err)
	suite.Equal(outputPath, path)

	data, err := os.ReadFile(outputPath)
	suite.Require().NoError(err)
	suite.Equal(`[{"date":"2020-01-02","close":104.0,"volume":1000000},{"date":"2020-01-03","close":105.5,"volume":1200000}]`, string(data))
	suite.Empty(tempFiles(suite.tempDir))
}

func (suite *JSONWriterTestSuite) TestWriteKeepsMarkupCharacters() {
	outputPath := filepath.Join(suite.tempDir, "out.json")
	writer := NewJSONWriter(outputPath, 0)
	defer writer.Close()

	row := dataset.NewRow()
	row.Set("date", dataset.String("2020-01-02"))
	row.Set("<note>", dataset.String("a<b&c>d"))

	suite.Require().NoError(writer.Initialize([]dataset.Column{
		{Name: "date", Kind: dataset.KindString},
		{Name: "<note>", Kind: dataset.KindString},
	}))
	suite.Require().NoError(writer.Write(row))

	_, err := writer.Finalize()
	suite.Require().NoError(err)

	data, err := os.ReadFile(outputPath)
	suite.Require().NoError(err)
	suite.Equal(`[{"date":"2020-01-02","<note>":"a<b&c>d"}]`, string(data))
}

func (suite *JSONWriterTestSuite) TestWriteIndented() {
	outputPath := filepath.Join(suite.tempDir, "out.json")
	writer := NewJSONWriter(outputPath, 2)
	defer writer.Close()

	suite.Require().NoError(writer.Initialize(priceColumns))
	suite.Require().NoError(writer.Write(priceRow("2020-01-02", "104.0", "1000000")))
	suite.Require().NoError(writer.Write(priceRow("2020-01-03", "105.5", "1200000")))

	_, err := writer.Finalize()
	suite.Require().NoError(err)

	data, err := os.ReadFile(outputPath)
	suite.Require().NoError(err)

	expected := `[
  {
    "date": "2020-01-02",
    "close": 104.0,
    "volume": 1000000
  },
  {
    "date": "2020-01-03",
    "close": 105.5,
    "volume": 1200000
  }
]`
	suite.Equal(expected, string(data))
	suite.True(json.Valid(data))
}

func (suite *JSONWriterTestSuite) TestWriteEmpty() {
	for _, indent := range []int{0, 4} {
		outputPath := filepath.Join(suite.tempDir, "empty.json")
		writer := NewJSONWriter(outputPath, indent)

		suite.Require().NoError(writer.Initialize(priceColumns))
		_, err := writer.Finalize()
		suite.Require().NoError(err)
		suite.NoError(writer.Close())

		data, err := os.ReadFile(outputPath)
		suite.Require().NoError(err)
		suite.Equal("[]", string(data))
	}
}

func (suite *JSONWriterTestSuite) TestOverwritesExistingFile() {
	outputPath := filepath.Join(suite.tempDir, "out.json")
	suite.Require().NoError(os.WriteFile(outputPath, []byte("old content that is longer than the new one"), 0o644))

	writer := NewJSONWriter(outputPath, 0)
	defer writer.Close()

	suite.Require().NoError(writer.Initialize(priceColumns))
	suite.Require().NoError(writer.Write(priceRow("2020-01-02", "1", "2")))
	_, err := writer.Finalize()
	suite.Require().NoError(err)

	data, err := os.ReadFile(outputPath)
	suite.Require().NoError(err)
	suite.Equal(`[{"date":"2020-01-02","close":1,"volume":2}]`, string(data))
}

func (suite *JSONWriterTestSuite) TestCloseWithoutFinalizeLeavesOutputUntouched() {
	outputPath := filepath.Join(suite.tempDir, "out.json")
	suite.Require().NoError(os.WriteFile(outputPath, []byte("previous"), 0o644))

	writer := NewJSONWriter(outputPath, 0)
	suite.Require().NoError(writer.Initialize(priceColumns))
	suite.Require().NoError(writer.Write(priceRow("2020-01-02", "1", "2")))
	suite.NotEmpty(tempFiles(suite.tempDir))

	suite.NoError(writer.Close())

	data, err := os.ReadFile(outputPath)
	suite.Require().NoError(err)
	suite.Equal("previous", string(data))
	suite.Empty(tempFiles(suite.tempDir))

	// Close is idempotent
	suite.NoError(writer.Close())
}

func (suite *JSONWriterTestSuite) TestWriteWithoutInitialize() {
	writer := NewJSONWriter(filepath.Join(suite.tempDir, "out.json"), 0)

	err := writer.Write(priceRow("2020-01-02", "1", "2"))
	suite.Error(err)
	suite.Contains(err.Error(), "not initialized")
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))

	_, err = writer.Finalize()
	suite.Error(err)
}

func (suite *JSONWriterTestSuite) TestInitializeTwice() {
	writer := NewJSONWriter(filepath.Join(suite.tempDir, "out.json"), 0)
	defer writer.Close()

	suite.Require().NoError(writer.Initialize(priceColumns))
	err := writer.Initialize(priceColumns)
	suite.Error(err)
	suite.Contains(err.Error(), "already initialized")
}

func (suite *JSONWriterTestSuite) TestInitializeMissingDirectory() {
	outputPath := filepath.Join(suite.tempDir, "missing", "out.json")
	writer := NewJSONWriter(outputPath, 0)
	defer writer.Close()

	err := writer.Initialize(priceColumns)
	suite.Error(err)
	suite.Equal(errors.KindWrite, errors.GetKind(err))
	suite.Contains(err.Error(), outputPath)

	_, statErr := os.Stat(outputPath)
	suite.True(os.IsNotExist(statErr))
}

func (suite *JSONWriterTestSuite) TestFinalizeIntoDirectoryFails() {
	outputPath := filepath.Join(suite.tempDir, "taken")
	suite.Require().NoError(os.Mkdir(outputPath, 0o755))
	suite.Require().NoError(os.WriteFile(filepath.Join(outputPath, "keep"), nil, 0o644))

	writer := NewJSONWriter(outputPath, 0)
	defer writer.Close()

	suite.Require().NoError(writer.Initialize(priceColumns))
	_, err := writer.Finalize()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
	suite.Empty(tempFiles(suite.tempDir))
}
