package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyraxred/neodepends/internal/model"
)

func fileEntity(name, content string) model.Entity {
	contentId := model.ContentIdFromBytes([]byte(content))
	simpleId := model.NewSimpleId(nil, name, model.KindFile)
	span := model.NewSpan(model.NewPosition(0, 0, 0), model.NewPosition(len(content), 1, 0))
	return model.Entity{
		Id:        model.NewEntityId(nil, name, model.KindFile, span, contentId, simpleId),
		Name:      name,
		Kind:      model.KindFile,
		Span:      span,
		ContentId: contentId,
		SimpleId:  simpleId,
	}
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat(" CSVS ")
	require.True(t, ok)
	assert.Equal(t, FormatCsvs, f)

	_, ok = ParseFormat("bogus")
	assert.False(t, ok)
}

func TestFormatRequiresFileLevel(t *testing.T) {
	assert.True(t, FormatDsmV1.RequiresFileLevel())
	assert.False(t, FormatDsmV2.RequiresFileLevel())
	assert.False(t, FormatJsonl.RequiresFileLevel())
}

func TestCsvsWriterRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	w, err := FormatCsvs.Open(dir, false)
	require.NoError(t, err)

	a := fileEntity("a.java", "hello\n")
	require.NoError(t, w.WriteEntity(a))
	require.NoError(t, w.WriteContent(model.Content{Id: a.ContentId, Text: "hello\n"}))
	require.NoError(t, w.Finalize())

	f, err := os.Open(filepath.Join(dir, "entities.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, a.Id.String(), records[1][0])
	assert.Equal(t, "a.java", records[1][2])
}

func TestCsvsWriterRejectsExistingDirWithoutForce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	_, err := FormatCsvs.Open(dir, false)
	assert.Error(t, err)

	_, err = FormatCsvs.Open(dir, true)
	assert.NoError(t, err)
}

func TestJsonlWriterWritesOneRecordPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := FormatJsonl.Open(path, false)
	require.NoError(t, err)

	a := fileEntity("a.java", "hello\n")
	require.NoError(t, w.WriteEntity(a))
	require.NoError(t, w.WriteChange(model.NewChange(a.SimpleId, model.CommitId("deadbeef"), false, true, 3, 0)))
	require.NoError(t, w.Finalize())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var lines []string
	for _, line := range splitLines(data) {
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, 2)

	var row entityRowJSON
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &row))
	assert.Equal(t, "a.java", row.Name)
}

func splitLines(data []byte) []string {
	var out []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			out = append(out, string(data[start:i]))
			start = i + 1
		}
	}
	return out
}

func TestJsonlWriterGzipSuffix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl.gz")

	w, err := FormatJsonl.Open(path, false)
	require.NoError(t, err)
	require.NoError(t, w.WriteEntity(fileEntity("a.java", "hi\n")))
	require.NoError(t, w.Finalize())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDsmV1RequiresFileLevelEntities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w, err := FormatDsmV1.Open(path, false)
	require.NoError(t, err)

	notFile := model.Entity{Kind: model.KindMethod, Name: "m"}
	require.NoError(t, w.WriteEntity(notFile))
	assert.Error(t, w.Finalize())
}

func TestDsmV1ComputesCochangeCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w, err := FormatDsmV1.Open(path, false)
	require.NoError(t, err)

	a := fileEntity("a.java", "a\n")
	b := fileEntity("b.java", "b\n")
	require.NoError(t, w.WriteEntity(a))
	require.NoError(t, w.WriteEntity(b))

	commit := model.CommitId("c1")
	require.NoError(t, w.WriteChange(model.NewChange(a.SimpleId, commit, false, true, 1, 0)))
	require.NoError(t, w.WriteChange(model.NewChange(b.SimpleId, commit, false, true, 1, 0)))
	require.NoError(t, w.Finalize())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var matrix struct {
		Variables []dsmFileVar `json:"variables"`
		Cells     []dsmCellV1  `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(data, &matrix))
	require.Len(t, matrix.Variables, 2)
	require.Len(t, matrix.Cells, 2)
	for _, c := range matrix.Cells {
		assert.Equal(t, 1, c.Values["cochange"])
	}
}

func TestDsmV2RetainsEntityGranularity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w, err := FormatDsmV2.Open(path, false)
	require.NoError(t, err)

	a := fileEntity("a.java", "a\n")
	method := a
	method.Kind = model.KindMethod
	method.Name = "doStuff"
	method.ParentId = &a.Id
	method.SimpleId = model.NewSimpleId(&a.SimpleId, "doStuff", model.KindMethod)
	method.Id = model.NewEntityId(&a.Id, "doStuff", model.KindMethod, a.Span, a.ContentId, method.SimpleId)

	require.NoError(t, w.WriteEntity(a))
	require.NoError(t, w.WriteEntity(method))
	require.NoError(t, w.WriteDep(model.NewDep(method.Id, a.Id, model.DepContain, model.PartialPositionFromRow(1), model.WorkDir())))
	require.NoError(t, w.Finalize())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var matrix struct {
		Variables []dsmEntityVar `json:"variables"`
		Cells     []dsmCellV2    `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(data, &matrix))
	require.Len(t, matrix.Variables, 2)
	require.Len(t, matrix.Cells, 1)
	assert.Equal(t, 1, matrix.Cells[0].Values["contain"])
}
