package errors

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// ErrorDump flattens an error chain for structured logs.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
	Store      StoreErr `json:"store"`
}

// StoreErr holds the driver level details of a database failure.
type StoreErr struct {
	Engine     string `json:"engine,omitempty"`
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Fields renders the dump as log fields, skipping empty store details.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.Store.Engine == "" {
		return fields
	}
	fields["db_engine"] = d.Store.Engine
	fields["db_code"] = d.Store.Code
	fields["db_message"] = d.Store.Message
	for key, value := range map[string]string{
		"db_constraint": d.Store.Constraint,
		"db_table":      d.Store.Table,
		"db_column":     d.Store.Column,
		"db_detail":     d.Store.Detail,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return fields
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.Store = storeDetails(err)
	return d
}

func storeDetails(err error) StoreErr {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return StoreErr{
			Engine:     EnginePostgres,
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return StoreErr{
			Engine:     EnginePostgres,
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return StoreErr{
			Engine:  EngineSQLite,
			Code:    strconv.Itoa(int(liteErr.ExtendedCode)),
			Message: liteErr.Error(),
		}
	}

	return StoreErr{}
}
