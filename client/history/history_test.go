package history

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"slurmview/config"
	"slurmview/internal/pkg/model"
)

func newMockClient(t *testing.T, readOnly bool) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 glogger.Default.LogMode(glogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewWithDB(db, readOnly), mock
}

func TestBuildDSN(t *testing.T) {
	dsn, err := buildDSN(config.History{
		Host:     "db.example",
		Port:     3306,
		User:     "view",
		Password: "pw",
		Database: "slurmview",
		Charset:  "utf8mb4",
		Loc:      "Asia/Shanghai",
	})
	require.NoError(t, err)
	assert.Equal(t, "view:pw@tcp(db.example:3306)/slurmview?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai&timeout=5s&readTimeout=30s&writeTimeout=30s", dsn)

	_, err = buildDSN(config.History{Host: "db.example"})
	assert.Error(t, err)
}

func TestClient_Save(t *testing.T) {
	c, mock := newMockClient(t, false)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `node_snapshots`")).
		WithArgs(at, 2, []byte(`{"nodes":[]}`)).
		WillReturnResult(sqlmock.NewResult(42, 1))

	s, err := c.Save(context.Background(), at, 2, []byte(`{"nodes":[]}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_SaveReadOnly(t *testing.T) {
	c, mock := newMockClient(t, true)

	_, err := c.Save(context.Background(), time.Now(), 1, []byte(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReadOnly))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_SnapshotAt(t *testing.T) {
	c, mock := newMockClient(t, true)
	at := time.Date(2024, 3, 1, 10, 7, 0, 0, time.UTC)
	taken := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `node_snapshots` WHERE taken_at <= ? ORDER BY taken_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "taken_at", "node_count", "payload"}).
			AddRow(7, taken, 3, []byte(`{"nodes":[]}`)))

	s, err := c.SnapshotAt(context.Background(), at)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), s.ID)
	assert.Equal(t, taken, s.TakenAt)
	assert.Equal(t, 3, s.NodeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_SnapshotAtNone(t *testing.T) {
	c, mock := newMockClient(t, false)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `node_snapshots`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "taken_at", "node_count", "payload"}))

	_, err := c.SnapshotAt(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestClient_ListTimes(t *testing.T) {
	c, mock := newMockClient(t, false)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := day.Add(10 * time.Hour)
	t2 := day.Add(11 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT `taken_at` FROM `node_snapshots` WHERE taken_at >= ? AND taken_at < ? ORDER BY taken_at ASC")).
		WithArgs(day, day.AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"taken_at"}).AddRow(t1).AddRow(t2))

	times, err := c.ListTimes(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{t1, t2}, times)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_Purge(t *testing.T) {
	c, mock := newMockClient(t, false)
	before := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `node_snapshots` WHERE taken_at < ?")).
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := c.Purge(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeSource struct {
	raw []byte
	at  time.Time
	ok  bool
}

func (f fakeSource) LatestRaw() ([]byte, time.Time, bool) { return f.raw, f.at, f.ok }

type fakeStore struct {
	saved  []model.NodeSnapshot
	purged []time.Time
}

func (f *fakeStore) Save(_ context.Context, takenAt time.Time, n int, payload []byte) (*model.NodeSnapshot, error) {
	s := model.NodeSnapshot{ID: uint64(len(f.saved) + 1), TakenAt: takenAt, NodeCount: n, Payload: payload}
	f.saved = append(f.saved, s)
	return &s, nil
}

func (f *fakeStore) Purge(_ context.Context, before time.Time) (int64, error) {
	f.purged = append(f.purged, before)
	return 1, nil
}

func TestRecorder_Record(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	src := fakeSource{raw: []byte(`{"nodes":[{"name":"a"},{"name":"b"}]}`), at: at, ok: true}

	r, err := NewRecorder(store, src, "@every 15m", 24*time.Hour, nil)
	require.NoError(t, err)
	r.now = func() time.Time { return at }

	require.NoError(t, r.Record(context.Background()))
	require.Len(t, store.saved, 1)
	assert.Equal(t, 2, store.saved[0].NodeCount)
	assert.Equal(t, []time.Time{at.Add(-24 * time.Hour)}, store.purged)

	// same payload again is skipped
	require.NoError(t, r.Record(context.Background()))
	assert.Len(t, store.saved, 1)
}

func TestRecorder_Errors(t *testing.T) {
	_, err := NewRecorder(&fakeStore{}, fakeSource{}, "not a schedule", 0, nil)
	assert.Error(t, err)

	r, err := NewRecorder(&fakeStore{}, fakeSource{}, "*/5 * * * *", 0, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, r.Record(context.Background()), ErrNoPayload)

	r, err = NewRecorder(&fakeStore{}, fakeSource{raw: []byte(`nope`), at: time.Now(), ok: true}, "@hourly", 0, nil)
	require.NoError(t, err)
	assert.Error(t, r.Record(context.Background()))
}
