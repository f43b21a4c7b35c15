package sql

import "database/sql/driver"

// The mock driver types below stand in for a postgres server in tests.
// Func fields configure per-test behavior.  Close, Commit, and Rollback
// succeed when their funcs are nil because database/sql calls them from
// background goroutines that tests do not usually care about.

type mockDriver struct {
	OpenFunc func(name string) (driver.Conn, error)
}

func (m *mockDriver) Open(name string) (driver.Conn, error) {
	return m.OpenFunc(name)
}

type mockConn struct {
	PrepareFunc func(query string) (driver.Stmt, error)
	BeginFunc   func() (driver.Tx, error)
}

func (m mockConn) Prepare(query string) (driver.Stmt, error) {
	return m.PrepareFunc(query)
}

func (m mockConn) Close() error {
	return nil
}

func (m mockConn) Begin() (driver.Tx, error) {
	return m.BeginFunc()
}

type mockStmt struct {
	NumInputFunc func() int
	ExecFunc     func(args []driver.Value) (driver.Result, error)
	QueryFunc    func(args []driver.Value) (driver.Rows, error)
}

func (m mockStmt) Close() error {
	return nil
}

func (m mockStmt) NumInput() int {
	return m.NumInputFunc()
}

func (m mockStmt) Exec(args []driver.Value) (driver.Result, error) {
	return m.ExecFunc(args)
}

func (m mockStmt) Query(args []driver.Value) (driver.Rows, error) {
	return m.QueryFunc(args)
}

type mockTx struct {
	CommitFunc   func() error
	RollbackFunc func() error
}

func (m mockTx) Commit() error {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return nil
}

func (m mockTx) Rollback() error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc()
	}
	return nil
}

type mockResult struct {
	RowsAffectedFunc func() (int64, error)
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	return m.RowsAffectedFunc()
}

type mockRows struct {
	ColumnsFunc func() []string
	NextFunc    func(dest []driver.Value) error
}

func (m mockRows) Columns() []string {
	return m.ColumnsFunc()
}

func (m mockRows) Close() error {
	return nil
}

func (m mockRows) Next(dest []driver.Value) error {
	return m.NextFunc(dest)
}
