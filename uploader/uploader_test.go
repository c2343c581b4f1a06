package uploader

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nmudassar/-ETL-Projects/config"
	"github.com/Nmudassar/-ETL-Projects/parquet"
	"github.com/Nmudassar/-ETL-Projects/store"
)

// fakeStore records ReplacePrefix calls and keeps the last payload per prefix.
type fakeStore struct {
	calls   []fakeCall
	objects map[string][]byte
	err     error
}

type fakeCall struct {
	bucket string
	prefix string
	key    string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) ReplacePrefix(
	ctx context.Context,
	bucket, prefix, key string,
	data []byte,
	opts ...store.PutOption,
) (*store.PutResult, error) {
	f.calls = append(f.calls, fakeCall{bucket: bucket, prefix: prefix, key: key})
	if f.err != nil {
		return nil, f.err
	}
	f.objects[key] = data
	return &store.PutResult{Key: key, Size: int64(len(data))}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AccessKey:        "AKIATEST",
		SecretKey:        "secret",
		Region:           "eu-west-1",
		Bucket:           "retail-elt",
		Prefix:           "raw",
		FallbackEncoding: "ISO-8859-1",
	}
}

func writeSource(t *testing.T, fs billy.Filesystem, path, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
}

func TestProcessDatasetUploads(t *testing.T) {
	fs := memfs.New()
	writeSource(t, fs, "data/raw/products.csv",
		"product_id,name,price\n1,Widget,9.99\n2,Gadget,19.50\n")

	st := newFakeStore()
	u := New(st, fs, testConfig(), nil)

	result := u.ProcessDataset(context.Background(), config.Dataset{
		Name:   "products",
		Source: "data/raw/products.csv",
		Suffix: "products",
	})

	require.NoError(t, result.Err)
	assert.Equal(t, OutcomeUploaded, result.Outcome)
	assert.Equal(t, "s3://retail-elt/raw/products/data.parquet", result.Destination)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, "UTF-8", result.Charset)

	require.Len(t, st.calls, 1)
	assert.Equal(t, "retail-elt", st.calls[0].bucket)
	assert.Equal(t, "raw/products/", st.calls[0].prefix)
	assert.Equal(t, "raw/products/data.parquet", st.calls[0].key)

	// The uploaded payload must be readable Parquet with the source rows.
	payload := st.objects["raw/products/data.parquet"]
	rows, err := parquet.NumRows(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)
}

func TestProcessDatasetMissingFile(t *testing.T) {
	fs := memfs.New()
	st := newFakeStore()
	u := New(st, fs, testConfig(), nil)

	result := u.ProcessDataset(context.Background(), config.Dataset{
		Name:   "sales",
		Source: "data/raw/sales.csv",
		Suffix: "sales",
	})

	assert.Equal(t, OutcomeMissing, result.Outcome)
	assert.ErrorIs(t, result.Err, ErrMissingSourceFile)
	assert.Empty(t, st.calls, "missing files must not reach the store")
}

func TestProcessDatasetMalformedCSV(t *testing.T) {
	fs := memfs.New()
	writeSource(t, fs, "data/raw/sales.csv",
		"order_id,amount\n1,10.5\n2,20.0,extra\n")

	st := newFakeStore()
	u := New(st, fs, testConfig(), nil)

	result := u.ProcessDataset(context.Background(), config.Dataset{
		Name:   "sales",
		Source: "data/raw/sales.csv",
		Suffix: "sales",
	})

	assert.Equal(t, OutcomeFailed, result.Outcome)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "data/raw/sales.csv")
	assert.Empty(t, st.calls)
}

func TestProcessDatasetLatin1Source(t *testing.T) {
	fs := memfs.New()
	// "café" with the Latin-1 byte 0xE9 for é.
	writeSource(t, fs, "data/raw/products.csv",
		"name\ncaf\xe9\n")

	st := newFakeStore()
	u := New(st, fs, testConfig(), nil)

	result := u.ProcessDataset(context.Background(), config.Dataset{
		Name:   "products",
		Source: "data/raw/products.csv",
		Suffix: "products",
	})

	require.NoError(t, result.Err)
	assert.Equal(t, OutcomeUploaded, result.Outcome)
	assert.Equal(t, 1, result.Rows)

	values, dls, err := parquet.ReadColumn(st.objects["raw/products/data.parquet"], "name")
	require.NoError(t, err)
	require.Len(t, dls, 1)
	require.Len(t, values, 1)
	assert.Equal(t, "café", values[0].(string))
}

func TestProcessDatasetEmptyGlobalPrefix(t *testing.T) {
	fs := memfs.New()
	writeSource(t, fs, "products.csv", "id\n1\n")

	cfg := testConfig()
	cfg.Prefix = ""

	st := newFakeStore()
	u := New(st, fs, cfg, nil)

	result := u.ProcessDataset(context.Background(), config.Dataset{
		Name:   "products",
		Source: "products.csv",
		Suffix: "products",
	})

	require.NoError(t, result.Err)
	assert.Equal(t, "products/", st.calls[0].prefix)
	assert.Equal(t, "products/data.parquet", st.calls[0].key)
}

func TestRunDatasetsAreIndependent(t *testing.T) {
	fs := memfs.New()
	writeSource(t, fs, "data/raw/sales.csv", "order_id\n1\n2\n3\n")

	st := newFakeStore()
	u := New(st, fs, testConfig(), nil)

	summary := u.Run(context.Background(), []config.Dataset{
		{Name: "products", Source: "data/raw/products.csv", Suffix: "products"},
		{Name: "sales", Source: "data/raw/sales.csv", Suffix: "sales"},
	})

	require.Len(t, summary.Results, 2)
	assert.Equal(t, OutcomeMissing, summary.Results[0].Outcome)
	assert.Equal(t, OutcomeUploaded, summary.Results[1].Outcome)
	assert.Equal(t, 1, summary.Uploaded())
	assert.Equal(t, 1, summary.Missing())
	assert.Equal(t, 0, summary.Failed())
	assert.False(t, summary.Ok(), "a skipped dataset must fail the run")
}

func TestRunUploadFailureContinues(t *testing.T) {
	fs := memfs.New()
	writeSource(t, fs, "a.csv", "id\n1\n")
	writeSource(t, fs, "b.csv", "id\n2\n")

	st := newFakeStore()
	st.err = assert.AnError
	u := New(st, fs, testConfig(), nil)

	summary := u.Run(context.Background(), []config.Dataset{
		{Name: "a", Source: "a.csv", Suffix: "a"},
		{Name: "b", Source: "b.csv", Suffix: "b"},
	})

	require.Len(t, summary.Results, 2)
	assert.Equal(t, OutcomeFailed, summary.Results[0].Outcome)
	assert.Equal(t, OutcomeFailed, summary.Results[1].Outcome)
	assert.Len(t, st.calls, 2, "both datasets must be attempted")
	assert.False(t, summary.Ok())
}

func TestRunIsRepeatable(t *testing.T) {
	fs := memfs.New()
	writeSource(t, fs, "data/raw/products.csv", "id,name\n1,Widget\n")

	st := newFakeStore()
	u := New(st, fs, testConfig(), nil)
	datasets := []config.Dataset{
		{Name: "products", Source: "data/raw/products.csv", Suffix: "products"},
	}

	first := u.Run(context.Background(), datasets)
	second := u.Run(context.Background(), datasets)

	assert.True(t, first.Ok())
	assert.True(t, second.Ok())
	assert.Len(t, st.calls, 2)
	assert.Equal(t, st.calls[0], st.calls[1])
}
