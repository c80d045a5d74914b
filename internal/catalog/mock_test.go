package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typebridge/internal/errors"
	"github.com/roach88/typebridge/internal/schema"
	"github.com/roach88/typebridge/internal/testutil"
)

func newMockCatalog(t *testing.T) (*Catalog, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newCatalog(db, testutil.NewDeterministicClock(), WithIDGenerator(testutil.NewSequentialIDs("run"))), mock
}

func TestRecordInsertFailure(t *testing.T) {
	c, mock := newMockCatalog(t)
	mock.ExpectExec("INSERT INTO sync_runs").
		WithArgs("run-0001", int64(1), "force", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	_, err := c.Record(context.Background(), &schema.SyncPlan{Mode: schema.SyncForce}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record sync run")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestQueryFailure(t *testing.T) {
	c, mock := newMockCatalog(t)
	mock.ExpectQuery("SELECT (.+) FROM sync_runs").WillReturnError(errors.New("database is locked"))

	_, err := c.Introspect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read latest run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryCorruptSnapshot(t *testing.T) {
	c, mock := newMockCatalog(t)
	rows := sqlmock.NewRows([]string{"id", "seq", "mode", "fingerprint", "statements", "snapshot", "tool_version"}).
		AddRow("run-0001", int64(1), "diff", "abc", `{"define":[],"undefine":[]}`, `{not json`, "0.1.0")
	mock.ExpectQuery("SELECT (.+) FROM sync_runs").WithArgs(-1).WillReturnRows(rows)

	_, err := c.History(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal snapshot")
	assert.NoError(t, mock.ExpectationsWereMet())
}
