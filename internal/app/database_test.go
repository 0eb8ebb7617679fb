package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travel/internal/config"
)

func TestDSN(t *testing.T) {
	discrete := config.DatabaseConfig{
		Host: "localhost", Port: "5432", User: "postgres", Password: "pw", DBName: "travel", SSLMode: "disable",
	}
	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=travel sslmode=disable", DSN(discrete))

	discrete.URL = "postgres://postgres:pw@db.abc.supabase.co:5432/postgres"
	assert.Equal(t, discrete.URL, DSN(discrete))
}
