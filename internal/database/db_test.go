package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/kvn-koech/car-rental-management-system/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{User: "rental", Pass: "s3cret", Host: "db", Port: "3306", Name: "car_rental"})
	assert.Contains(t, dsn, "rental:s3cret@tcp(db:3306)/car_rental?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	parsed, err := mysql.ParseDSN(dsn)
	assert.NoError(t, err)
	assert.Equal(t, "UTC", parsed.Loc.String())
}

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.True(t, IsDuplicateKey(dup))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert user: %w", dup)))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsDuplicateKey(errors.New("1062")))
	assert.False(t, IsDuplicateKey(nil))
}
