package modulemanager

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeModule struct {
	id       string
	core     bool
	deps     []string
	migrated bool
	inited   bool
	initErr  error
	onInit   func()
}

func (m *fakeModule) ID() string   { return m.id }
func (m *fakeModule) Name() string { return m.id }
func (m *fakeModule) Core() bool   { return m.core }
func (m *fakeModule) Migrate(db *gorm.DB) error {
	m.migrated = true
	return nil
}
func (m *fakeModule) Init() error {
	m.inited = true
	if m.onInit != nil {
		m.onInit()
	}
	return m.initErr
}
func (m *fakeModule) Dependencies() []string { return m.deps }

func testDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestLoadAllRunsMigrateAndInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	m := &fakeModule{id: "test.one"}
	Register(m)

	require.NoError(t, LoadAll(testDB(t)))
	assert.True(t, m.migrated)
	assert.True(t, m.inited)
}

func TestLoadAllDependencyOrder(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var order []string
	record := func(id string) func() {
		return func() { order = append(order, id) }
	}

	// Registered out of order on purpose
	Register(&fakeModule{id: "test.c", deps: []string{"test.b"}, onInit: record("test.c")})
	Register(&fakeModule{id: "test.a", onInit: record("test.a")})
	Register(&fakeModule{id: "test.b", deps: []string{"test.a"}, onInit: record("test.b")})

	require.NoError(t, LoadAll(testDB(t)))
	assert.Equal(t, []string{"test.a", "test.b", "test.c"}, order)
}

func TestLoadAllIgnoresAbsentDependencies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	m := &fakeModule{id: "test.one", deps: []string{"test.not-registered"}}
	Register(m)

	require.NoError(t, LoadAll(testDB(t)))
	assert.True(t, m.inited)
}

func TestLoadAllDetectsCycle(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register(&fakeModule{id: "test.a", deps: []string{"test.b"}})
	Register(&fakeModule{id: "test.b", deps: []string{"test.a"}})

	err := LoadAll(testDB(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestLoadAllInitFailureStops(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register(&fakeModule{id: "test.bad", initErr: fmt.Errorf("boom")})

	err := LoadAll(testDB(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.bad")
}

func TestDisabledModuleSkipped(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	m := &fakeModule{id: "test.optional"}
	Register(m)
	DisableModule("test.optional")

	require.NoError(t, LoadAll(testDB(t)))
	assert.False(t, m.inited)
}

func TestCoreModuleCannotBeDisabled(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	m := &fakeModule{id: "test.core", core: true}
	Register(m)
	DisableModule("test.core")

	require.NoError(t, LoadAll(testDB(t)))
	assert.True(t, m.inited)
}

func TestGetModule(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	m := &fakeModule{id: "test.one"}
	Register(m)

	got, ok := GetModule("test.one")
	require.True(t, ok)
	assert.Equal(t, m, got)

	_, ok = GetModule("test.missing")
	assert.False(t, ok)
}
