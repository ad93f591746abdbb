package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// fakeDocParser records calls and returns one form per document.
// Workers call it concurrently, hence the mutex.
type fakeDocParser struct {
	mu    sync.Mutex
	files []string
	fail  string
}

func (f *fakeDocParser) ParseDocument(_ context.Context, text, fileName string, _ *model.FilingContext) ([]model.ParsedForm, error) {
	f.mu.Lock()
	f.files = append(f.files, fileName)
	f.mu.Unlock()
	if f.fail != "" && fileName == f.fail {
		return nil, errors.New("parse failed")
	}
	_ = text
	return []model.ParsedForm{{FormType: "W-2", SourceFile: fileName}}, nil
}

type fakeAccountParser struct {
	mu    sync.Mutex
	files []string
}

func (f *fakeAccountParser) ParseFile(_, fileName string) (*model.AccountTranscriptRecord, error) {
	f.mu.Lock()
	f.files = append(f.files, fileName)
	f.mu.Unlock()
	return &model.AccountTranscriptRecord{SourceFile: fileName, TaxYear: "2021"}, nil
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

func TestProcessDirectoryRoutesFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"WI 21 TP.txt": "Form W-2 Wage and Tax Statement\nWages: $100.00",
		"AT 21 TP.txt": "ACCOUNT BALANCE: 500.00\nTRANSACTIONS\n",
		"notes.md":     "not a transcript",
		"WI 20 TP.txt": "Form 1099-NEC\nNonemployee compensation: 50.00",
	})

	doc := &fakeDocParser{}
	acct := &fakeAccountParser{}
	proc := NewProcessor(doc, acct)

	results, stats, err := proc.ProcessDirectory(context.Background(), dir, Options{Workers: 2})
	require.NoError(t, err)

	// Only .txt files count, sorted by name.
	require.Len(t, results, 3)
	assert.Equal(t, "AT 21 TP.txt", results[0].FileName)
	assert.Equal(t, "WI 20 TP.txt", results[1].FileName)
	assert.Equal(t, "WI 21 TP.txt", results[2].FileName)

	assert.NotNil(t, results[0].Account)
	assert.Nil(t, results[0].Forms)
	assert.NotNil(t, results[1].Forms)
	assert.NotNil(t, results[2].Forms)

	assert.Equal(t, []string{"AT 21 TP.txt"}, acct.files)
	assert.Len(t, doc.files, 2)

	assert.Equal(t, 3, stats.TotalFiles)
	assert.Equal(t, 3, stats.ParsedFiles)
	assert.Equal(t, 0, stats.FailedFiles)
	assert.Equal(t, 2, stats.TotalForms)
	assert.Greater(t, stats.Duration.Nanoseconds(), int64(0))
}

func TestProcessDirectoryEmpty(t *testing.T) {
	dir := writeFiles(t, map[string]string{"readme.md": "nothing here"})

	proc := NewProcessor(&fakeDocParser{}, &fakeAccountParser{})
	_, _, err := proc.ProcessDirectory(context.Background(), dir, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transcript files")
}

func TestProcessFilesReportsPerFileErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.txt": "Form W-2\nWages: 1.00",
		"bad.txt":  "Form W-2\nWages: 2.00",
	})

	doc := &fakeDocParser{fail: "bad.txt"}
	proc := NewProcessor(doc, &fakeAccountParser{})

	results, stats, err := proc.ProcessDirectory(context.Background(), dir, Options{Workers: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.Equal(t, "bad.txt", results[0].FileName)
	assert.NoError(t, results[1].Err)

	assert.Equal(t, 1, stats.ParsedFiles)
	assert.Equal(t, 1, stats.FailedFiles)
}

func TestProcessFilesMissingFile(t *testing.T) {
	proc := NewProcessor(&fakeDocParser{}, &fakeAccountParser{})

	results := proc.ProcessFiles(context.Background(),
		[]string{filepath.Join(t.TempDir(), "absent.txt")}, Options{})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestProcessFilesManyWorkers(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt"} {
		files[name] = "Form W-2\nWages: 1.00"
	}
	dir := writeFiles(t, files)

	proc := NewProcessor(&fakeDocParser{}, &fakeAccountParser{})
	results, stats, err := proc.ProcessDirectory(context.Background(), dir, Options{Workers: 10})
	require.NoError(t, err)

	require.Len(t, results, 6)
	for i := 1; i < len(results); i++ {
		assert.True(t, strings.Compare(results[i-1].FileName, results[i].FileName) < 0,
			"results must be sorted by file name")
	}
	assert.Equal(t, 6, stats.ParsedFiles)
}
